package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osintranet/internal/domain"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

func TestPostgresStore_GetAccountingNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("FROM accountings").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"number", "name", "letter_head_number", "balance_below_zero", "back_dating", "created_at", "updated_at"}))

	_, err := s.GetAccounting(context.Background(), 7)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAccounting(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()
	mock.ExpectQuery("FROM accountings").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"number", "name", "letter_head_number", "balance_below_zero", "back_dating", "created_at", "updated_at"}).
			AddRow(1, "Household", 1, "DEBTORS", 30, now, now))

	a, err := s.GetAccounting(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Household", a.Name)
	assert.Equal(t, domain.BalanceBelowZeroDebtors, a.BalanceBelowZero)
	assert.Equal(t, 30, a.BackDating)
}

func TestPostgresStore_CreateAccountingUniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("INSERT INTO accountings").
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	err := s.CreateAccounting(context.Background(), &domain.Accounting{Number: 1, Name: "Dup"})

	assert.ErrorIs(t, err, domain.ErrExists)
}

func TestPostgresStore_DeleteReferencedAccountIsInUse(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM accounts").
		WithArgs(1, "DANKORT").
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	err := s.DeleteAccount(context.Background(), 1, "DANKORT")

	assert.ErrorIs(t, err, domain.ErrInUse)
}

func TestPostgresStore_DeleteMissingPaymentTerm(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM payment_terms").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeletePaymentTerm(context.Background(), 3)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresStore_GetAccountLoadsCreditInfos(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("FROM accounts").
		WithArgs(1, "DANKORT").
		WillReturnRows(sqlmock.NewRows([]string{"accounting_number", "account_number", "account_name", "description", "note", "account_group_number"}).
			AddRow(1, "DANKORT", "Dankort", "", "", 1))
	mock.ExpectQuery("FROM credit_infos").
		WithArgs(1, "DANKORT").
		WillReturnRows(sqlmock.NewRows([]string{"account_number", "year", "month", "credit"}).
			AddRow("DANKORT", 2024, 3, "1500.00"))

	a, err := s.GetAccount(context.Background(), 1, "DANKORT")

	require.NoError(t, err)
	require.Len(t, a.CreditInfos, 1)
	assert.Equal(t, time.March, a.CreditInfos[0].Month)
	assert.True(t, a.CreditInfos[0].Credit.Equal(decimal.NewFromInt(1500)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectSortOrderLock(mock sqlmock.Sqlmock, accountingNumber, max int) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT number FROM accountings WHERE number = \$1 FOR UPDATE`).
		WithArgs(accountingNumber).
		WillReturnRows(sqlmock.NewRows([]string{"number"}).AddRow(accountingNumber))
	mock.ExpectQuery(`COALESCE\(MAX\(sort_order\), 0\)`).
		WithArgs(accountingNumber).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(max))
}

func TestPostgresStore_CreatePostingLinesNumbersUnderLock(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Now()
	cet := time.FixedZone("CET", 60*60)
	postingDate := time.Date(2024, 3, 15, 0, 0, 0, 0, cet)

	expectSortOrderLock(mock, 1, 7)
	prep := mock.ExpectPrepare("INSERT INTO posting_lines")
	prep.ExpectQuery().
		WithArgs(sqlmock.AnyArg(), 1, "2024-03-15", sqlmock.AnyArg(), "DANKORT", "a", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 8).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	prep.ExpectQuery().
		WithArgs(sqlmock.AnyArg(), 1, "2024-03-15", sqlmock.AnyArg(), "DANKORT", "b", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 9).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectCommit()

	lines := []domain.PostingLine{
		{Identifier: uuid.New(), AccountingNumber: 1, PostingDate: postingDate, AccountNumber: "DANKORT", Details: "a", Debit: decimal.NewFromInt(1), Credit: decimal.Zero},
		{Identifier: uuid.New(), AccountingNumber: 1, PostingDate: postingDate, AccountNumber: "DANKORT", Details: "b", Debit: decimal.Zero, Credit: decimal.NewFromInt(1)},
	}
	err := s.CreatePostingLines(context.Background(), lines)

	require.NoError(t, err)
	assert.Equal(t, 8, lines[0].SortOrder)
	assert.Equal(t, 9, lines[1].SortOrder)
	assert.Equal(t, created, lines[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreatePostingLinesUnknownAccounting(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"number"}))
	mock.ExpectRollback()

	err := s.CreatePostingLines(context.Background(), []domain.PostingLine{
		{Identifier: uuid.New(), AccountingNumber: 9, PostingDate: time.Now(), AccountNumber: "DANKORT", Details: "a"},
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PostingLineDatesAreCalendarDays(t *testing.T) {
	s, mock := newMockStore(t)
	cet := time.FixedZone("CET", 60*60)
	scanned := time.Date(2024, 3, 15, 0, 0, 0, 0, cet)

	mock.ExpectQuery("FROM posting_lines").
		WithArgs(1, "0001-01-01", "2024-03-15").
		WillReturnRows(sqlmock.NewRows([]string{"identifier", "accounting_number", "posting_date", "reference", "account_number", "details",
			"budget_account_number", "debit", "credit", "contact_account_number", "sort_order", "created_at"}).
			AddRow(uuid.New().String(), 1, scanned, nil, "DANKORT", "a", nil, "1.00", "0.00", nil, 1, time.Now()))

	lines, err := s.GetPostingLines(context.Background(), 1, time.Time{}, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), lines[0].PostingDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreatePostingLinesRollsBackOnMissingAccount(t *testing.T) {
	s, mock := newMockStore(t)

	expectSortOrderLock(mock, 1, 0)
	prep := mock.ExpectPrepare("INSERT INTO posting_lines")
	prep.ExpectQuery().WillReturnError(&pq.Error{Code: pqForeignKeyViolation})
	mock.ExpectRollback()

	err := s.CreatePostingLines(context.Background(), []domain.PostingLine{
		{Identifier: uuid.New(), AccountingNumber: 1, PostingDate: time.Now(), AccountNumber: "NOPE", Details: "a"},
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_SkipsAppliedMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	names, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	for _, name := range names {
		mock.ExpectQuery("SELECT EXISTS").WithArgs(name).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	}

	applied, err := Migrate(context.Background(), db)

	require.NoError(t, err)
	assert.Equal(t, 0, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}
