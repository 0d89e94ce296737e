package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"osintranet/internal/domain"
	"osintranet/pkg/logger"
)

const postingLineColumns = `identifier, accounting_number, posting_date, reference, account_number, details,
		budget_account_number, debit, credit, contact_account_number, sort_order, created_at`

// sqlDate renders a calendar date for a DATE parameter so the session time
// zone cannot shift it. A zero time is the lowest date.
func sqlDate(t time.Time) string {
	if t.IsZero() {
		return "0001-01-01"
	}
	return t.Format(domain.DateLayout)
}

func scanPostingLine(rows *sql.Rows) (domain.PostingLine, error) {
	var (
		pl             domain.PostingLine
		reference      sql.NullString
		budgetAccount  sql.NullString
		contactAccount sql.NullString
	)
	err := rows.Scan(
		&pl.Identifier, &pl.AccountingNumber, &pl.PostingDate, &reference, &pl.AccountNumber, &pl.Details,
		&budgetAccount, &pl.Debit, &pl.Credit, &contactAccount, &pl.SortOrder, &pl.CreatedAt,
	)
	pl.PostingDate = domain.StripTime(pl.PostingDate)
	pl.Reference = reference.String
	pl.BudgetAccountNumber = budgetAccount.String
	pl.ContactAccountNumber = contactAccount.String
	return pl, err
}

func collectPostingLines(rows *sql.Rows) ([]domain.PostingLine, error) {
	defer rows.Close()

	lines := make([]domain.PostingLine, 0)
	for rows.Next() {
		pl, err := scanPostingLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, pl)
	}
	return lines, rows.Err()
}

func (s *PostgresStore) GetPostingLines(ctx context.Context, accountingNumber int, from, to time.Time) ([]domain.PostingLine, error) {
	query := `SELECT ` + postingLineColumns + `
		FROM posting_lines
		WHERE accounting_number = $1 AND posting_date >= $2 AND posting_date <= $3
		ORDER BY posting_date, sort_order
	`

	rows, err := s.db.QueryContext(ctx, query, accountingNumber, sqlDate(from), sqlDate(to))
	if err != nil {
		return nil, mapError(err, "posting lines", domain.ErrNotFound)
	}
	return collectPostingLines(rows)
}

func (s *PostgresStore) GetLatestPostingLines(ctx context.Context, accountingNumber int, to time.Time, limit int) ([]domain.PostingLine, error) {
	query := `SELECT ` + postingLineColumns + `
		FROM posting_lines
		WHERE accounting_number = $1 AND posting_date <= $2
		ORDER BY posting_date DESC, sort_order DESC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, accountingNumber, sqlDate(to), limit)
	if err != nil {
		return nil, mapError(err, "posting lines", domain.ErrNotFound)
	}
	return collectPostingLines(rows)
}

// CreatePostingLines writes all lines in one transaction. The accounting row
// is locked while the next sort orders are read, so concurrent journals of
// one accounting are numbered one after the other.
func (s *PostgresStore) CreatePostingLines(ctx context.Context, lines []domain.PostingLine) error {
	if len(lines) == 0 {
		return nil
	}
	accountingNumber := lines[0].AccountingNumber

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	var locked int
	err = tx.QueryRowContext(ctx,
		`SELECT number FROM accountings WHERE number = $1 FOR UPDATE`,
		accountingNumber,
	).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf("accounting %d", accountingNumber)
	}
	if err != nil {
		return mapError(err, "accounting lock", domain.ErrNotFound)
	}

	var max int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), 0) FROM posting_lines WHERE accounting_number = $1`,
		accountingNumber,
	).Scan(&max)
	if err != nil {
		return mapError(err, "posting line sort order", domain.ErrNotFound)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO posting_lines (
			identifier, accounting_number, posting_date, reference, account_number, details,
			budget_account_number, debit, credit, contact_account_number, sort_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to prepare statement")
		return err
	}
	defer stmt.Close()

	for i := range lines {
		pl := &lines[i]
		pl.SortOrder = max + i + 1
		err := stmt.QueryRowContext(ctx,
			pl.Identifier,
			pl.AccountingNumber,
			pl.PostingDate.Format(domain.DateLayout),
			nullIfEmpty(pl.Reference),
			pl.AccountNumber,
			pl.Details,
			nullIfEmpty(pl.BudgetAccountNumber),
			pl.Debit,
			pl.Credit,
			nullIfEmpty(pl.ContactAccountNumber),
			pl.SortOrder,
		).Scan(&pl.CreatedAt)
		if err != nil {
			return mapError(err, "posting line "+pl.Identifier.String(), domain.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to commit transaction")
		return err
	}
	return nil
}
