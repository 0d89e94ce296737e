package repository

import (
	"context"
	"database/sql"
	"fmt"

	"osintranet/internal/domain"
)

func (s *PostgresStore) GetAccountings(ctx context.Context) ([]domain.Accounting, error) {
	query := `
		SELECT number, name, letter_head_number, balance_below_zero, back_dating, created_at, updated_at
		FROM accountings
		ORDER BY number
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err, "accountings", domain.ErrNotFound)
	}
	defer rows.Close()

	accountings := make([]domain.Accounting, 0)
	for rows.Next() {
		var a domain.Accounting
		if err := rows.Scan(&a.Number, &a.Name, &a.LetterHeadNumber, &a.BalanceBelowZero, &a.BackDating, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accountings = append(accountings, a)
	}
	return accountings, rows.Err()
}

func (s *PostgresStore) GetAccounting(ctx context.Context, number int) (*domain.Accounting, error) {
	query := `
		SELECT number, name, letter_head_number, balance_below_zero, back_dating, created_at, updated_at
		FROM accountings
		WHERE number = $1
	`

	var a domain.Accounting
	err := s.db.QueryRowContext(ctx, query, number).Scan(
		&a.Number, &a.Name, &a.LetterHeadNumber, &a.BalanceBelowZero, &a.BackDating, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("accounting %d", number)
	}
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("accounting %d", number), domain.ErrNotFound)
	}
	return &a, nil
}

func (s *PostgresStore) CreateAccounting(ctx context.Context, accounting *domain.Accounting) error {
	query := `
		INSERT INTO accountings (number, name, letter_head_number, balance_below_zero, back_dating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		accounting.Number,
		accounting.Name,
		accounting.LetterHeadNumber,
		accounting.BalanceBelowZero,
		accounting.BackDating,
	).Scan(&accounting.CreatedAt, &accounting.UpdatedAt)
	return mapError(err, fmt.Sprintf("accounting %d", accounting.Number), domain.ErrNotFound)
}

func (s *PostgresStore) UpdateAccounting(ctx context.Context, accounting *domain.Accounting) error {
	query := `
		UPDATE accountings
		SET name = $1, letter_head_number = $2, balance_below_zero = $3, back_dating = $4, updated_at = NOW()
		WHERE number = $5
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		accounting.Name,
		accounting.LetterHeadNumber,
		accounting.BalanceBelowZero,
		accounting.BackDating,
		accounting.Number,
	).Scan(&accounting.CreatedAt, &accounting.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.NotFoundf("accounting %d", accounting.Number)
	}
	return mapError(err, fmt.Sprintf("accounting %d", accounting.Number), domain.ErrNotFound)
}

func (s *PostgresStore) DeleteAccounting(ctx context.Context, number int) error {
	subject := fmt.Sprintf("accounting %d", number)
	res, err := s.db.ExecContext(ctx, `DELETE FROM accountings WHERE number = $1`, number)
	if err != nil {
		return mapError(err, subject, domain.ErrInUse)
	}
	return requireAffected(res, subject)
}

func (s *PostgresStore) GetAccountGroups(ctx context.Context) ([]domain.AccountGroup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT number, name, account_group_type FROM account_groups ORDER BY number`)
	if err != nil {
		return nil, mapError(err, "account groups", domain.ErrNotFound)
	}
	defer rows.Close()

	groups := make([]domain.AccountGroup, 0)
	for rows.Next() {
		var g domain.AccountGroup
		if err := rows.Scan(&g.Number, &g.Name, &g.AccountGroupType); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *PostgresStore) GetAccountGroup(ctx context.Context, number int) (*domain.AccountGroup, error) {
	var g domain.AccountGroup
	err := s.db.QueryRowContext(ctx,
		`SELECT number, name, account_group_type FROM account_groups WHERE number = $1`, number,
	).Scan(&g.Number, &g.Name, &g.AccountGroupType)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("account group %d", number)
	}
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("account group %d", number), domain.ErrNotFound)
	}
	return &g, nil
}

func (s *PostgresStore) CreateAccountGroup(ctx context.Context, group *domain.AccountGroup) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account_groups (number, name, account_group_type) VALUES ($1, $2, $3)`,
		group.Number, group.Name, group.AccountGroupType,
	)
	return mapError(err, fmt.Sprintf("account group %d", group.Number), domain.ErrNotFound)
}

func (s *PostgresStore) UpdateAccountGroup(ctx context.Context, group *domain.AccountGroup) error {
	subject := fmt.Sprintf("account group %d", group.Number)
	res, err := s.db.ExecContext(ctx,
		`UPDATE account_groups SET name = $1, account_group_type = $2 WHERE number = $3`,
		group.Name, group.AccountGroupType, group.Number,
	)
	if err != nil {
		return mapError(err, subject, domain.ErrNotFound)
	}
	return requireAffected(res, subject)
}

func (s *PostgresStore) DeleteAccountGroup(ctx context.Context, number int) error {
	subject := fmt.Sprintf("account group %d", number)
	res, err := s.db.ExecContext(ctx, `DELETE FROM account_groups WHERE number = $1`, number)
	if err != nil {
		return mapError(err, subject, domain.ErrInUse)
	}
	return requireAffected(res, subject)
}

func (s *PostgresStore) GetBudgetAccountGroups(ctx context.Context) ([]domain.BudgetAccountGroup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT number, name FROM budget_account_groups ORDER BY number`)
	if err != nil {
		return nil, mapError(err, "budget account groups", domain.ErrNotFound)
	}
	defer rows.Close()

	groups := make([]domain.BudgetAccountGroup, 0)
	for rows.Next() {
		var g domain.BudgetAccountGroup
		if err := rows.Scan(&g.Number, &g.Name); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *PostgresStore) GetBudgetAccountGroup(ctx context.Context, number int) (*domain.BudgetAccountGroup, error) {
	var g domain.BudgetAccountGroup
	err := s.db.QueryRowContext(ctx,
		`SELECT number, name FROM budget_account_groups WHERE number = $1`, number,
	).Scan(&g.Number, &g.Name)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("budget account group %d", number)
	}
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("budget account group %d", number), domain.ErrNotFound)
	}
	return &g, nil
}

func (s *PostgresStore) CreateBudgetAccountGroup(ctx context.Context, group *domain.BudgetAccountGroup) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budget_account_groups (number, name) VALUES ($1, $2)`,
		group.Number, group.Name,
	)
	return mapError(err, fmt.Sprintf("budget account group %d", group.Number), domain.ErrNotFound)
}

func (s *PostgresStore) UpdateBudgetAccountGroup(ctx context.Context, group *domain.BudgetAccountGroup) error {
	subject := fmt.Sprintf("budget account group %d", group.Number)
	res, err := s.db.ExecContext(ctx,
		`UPDATE budget_account_groups SET name = $1 WHERE number = $2`,
		group.Name, group.Number,
	)
	if err != nil {
		return mapError(err, subject, domain.ErrNotFound)
	}
	return requireAffected(res, subject)
}

func (s *PostgresStore) DeleteBudgetAccountGroup(ctx context.Context, number int) error {
	subject := fmt.Sprintf("budget account group %d", number)
	res, err := s.db.ExecContext(ctx, `DELETE FROM budget_account_groups WHERE number = $1`, number)
	if err != nil {
		return mapError(err, subject, domain.ErrInUse)
	}
	return requireAffected(res, subject)
}

func (s *PostgresStore) GetPaymentTerms(ctx context.Context) ([]domain.PaymentTerm, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT number, name FROM payment_terms ORDER BY number`)
	if err != nil {
		return nil, mapError(err, "payment terms", domain.ErrNotFound)
	}
	defer rows.Close()

	terms := make([]domain.PaymentTerm, 0)
	for rows.Next() {
		var p domain.PaymentTerm
		if err := rows.Scan(&p.Number, &p.Name); err != nil {
			return nil, err
		}
		terms = append(terms, p)
	}
	return terms, rows.Err()
}

func (s *PostgresStore) GetPaymentTerm(ctx context.Context, number int) (*domain.PaymentTerm, error) {
	var p domain.PaymentTerm
	err := s.db.QueryRowContext(ctx,
		`SELECT number, name FROM payment_terms WHERE number = $1`, number,
	).Scan(&p.Number, &p.Name)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("payment term %d", number)
	}
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("payment term %d", number), domain.ErrNotFound)
	}
	return &p, nil
}

func (s *PostgresStore) CreatePaymentTerm(ctx context.Context, term *domain.PaymentTerm) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment_terms (number, name) VALUES ($1, $2)`,
		term.Number, term.Name,
	)
	return mapError(err, fmt.Sprintf("payment term %d", term.Number), domain.ErrNotFound)
}

func (s *PostgresStore) UpdatePaymentTerm(ctx context.Context, term *domain.PaymentTerm) error {
	subject := fmt.Sprintf("payment term %d", term.Number)
	res, err := s.db.ExecContext(ctx,
		`UPDATE payment_terms SET name = $1 WHERE number = $2`,
		term.Name, term.Number,
	)
	if err != nil {
		return mapError(err, subject, domain.ErrNotFound)
	}
	return requireAffected(res, subject)
}

func (s *PostgresStore) DeletePaymentTerm(ctx context.Context, number int) error {
	subject := fmt.Sprintf("payment term %d", number)
	res, err := s.db.ExecContext(ctx, `DELETE FROM payment_terms WHERE number = $1`, number)
	if err != nil {
		return mapError(err, subject, domain.ErrInUse)
	}
	return requireAffected(res, subject)
}
