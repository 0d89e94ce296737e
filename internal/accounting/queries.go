package accounting

import (
	"fmt"
	"time"

	"osintranet/internal/domain"
)

const (
	DefaultNumberOfPostingLines = 25
	MaxNumberOfPostingLines     = 250
)

func dateKey(t time.Time) string {
	return t.Format(domain.DateLayout)
}

type GetAccountingsQuery struct{}

func (GetAccountingsQuery) CacheKey() string { return "all" }

type GetAccountingQuery struct {
	AccountingNumber int `validate:"gt=0"`
}

func (q GetAccountingQuery) CacheKey() string { return fmt.Sprint(q.AccountingNumber) }

type GetAccountsQuery struct {
	AccountingNumber int `validate:"gt=0"`
	StatusDate       time.Time
}

func (q GetAccountsQuery) CacheKey() string {
	return fmt.Sprintf("%d:%s", q.AccountingNumber, dateKey(q.StatusDate))
}

type GetAccountQuery struct {
	AccountingNumber int    `validate:"gt=0"`
	AccountNumber    string `validate:"required,max=16"`
	StatusDate       time.Time
}

func (q GetAccountQuery) CacheKey() string {
	return fmt.Sprintf("%d:%s:%s", q.AccountingNumber, q.AccountNumber, dateKey(q.StatusDate))
}

type GetBudgetAccountsQuery struct {
	AccountingNumber int `validate:"gt=0"`
	StatusDate       time.Time
}

func (q GetBudgetAccountsQuery) CacheKey() string {
	return fmt.Sprintf("%d:%s", q.AccountingNumber, dateKey(q.StatusDate))
}

type GetBudgetAccountQuery struct {
	AccountingNumber int    `validate:"gt=0"`
	AccountNumber    string `validate:"required,max=16"`
	StatusDate       time.Time
}

func (q GetBudgetAccountQuery) CacheKey() string {
	return fmt.Sprintf("%d:%s:%s", q.AccountingNumber, q.AccountNumber, dateKey(q.StatusDate))
}

type GetContactAccountsQuery struct {
	AccountingNumber int `validate:"gt=0"`
	StatusDate       time.Time
}

func (q GetContactAccountsQuery) CacheKey() string {
	return fmt.Sprintf("%d:%s", q.AccountingNumber, dateKey(q.StatusDate))
}

type GetContactAccountQuery struct {
	AccountingNumber int    `validate:"gt=0"`
	AccountNumber    string `validate:"required,max=16"`
	StatusDate       time.Time
}

func (q GetContactAccountQuery) CacheKey() string {
	return fmt.Sprintf("%d:%s:%s", q.AccountingNumber, q.AccountNumber, dateKey(q.StatusDate))
}

// GetDebtorsQuery lists contact accounts owing money at the status date.
type GetDebtorsQuery struct {
	AccountingNumber int `validate:"gt=0"`
	StatusDate       time.Time
}

func (q GetDebtorsQuery) CacheKey() string {
	return fmt.Sprintf("%d:%s", q.AccountingNumber, dateKey(q.StatusDate))
}

// GetCreditorsQuery lists contact accounts owed money at the status date.
type GetCreditorsQuery struct {
	AccountingNumber int `validate:"gt=0"`
	StatusDate       time.Time
}

func (q GetCreditorsQuery) CacheKey() string {
	return fmt.Sprintf("%d:%s", q.AccountingNumber, dateKey(q.StatusDate))
}

// GetPostingLinesQuery returns the newest posting lines dated on or before
// the status date. Zero NumberOfPostingLines means the default.
type GetPostingLinesQuery struct {
	AccountingNumber     int `validate:"gt=0"`
	StatusDate           time.Time
	NumberOfPostingLines int
}

func (q GetPostingLinesQuery) CacheKey() string {
	return fmt.Sprintf("%d:%s:%d", q.AccountingNumber, dateKey(q.StatusDate), q.NumberOfPostingLines)
}

type GetBalanceSheetQuery struct {
	AccountingNumber int `validate:"gt=0"`
	StatusDate       time.Time
}

func (q GetBalanceSheetQuery) CacheKey() string {
	return fmt.Sprintf("%d:%s", q.AccountingNumber, dateKey(q.StatusDate))
}

type GetAccountGroupsQuery struct{}

func (GetAccountGroupsQuery) CacheKey() string { return "all" }

type GetAccountGroupQuery struct {
	Number int `validate:"gt=0"`
}

func (q GetAccountGroupQuery) CacheKey() string { return fmt.Sprint(q.Number) }

type GetBudgetAccountGroupsQuery struct{}

func (GetBudgetAccountGroupsQuery) CacheKey() string { return "all" }

type GetBudgetAccountGroupQuery struct {
	Number int `validate:"gt=0"`
}

func (q GetBudgetAccountGroupQuery) CacheKey() string { return fmt.Sprint(q.Number) }

type GetPaymentTermsQuery struct{}

func (GetPaymentTermsQuery) CacheKey() string { return "all" }

type GetPaymentTermQuery struct {
	Number int `validate:"gt=0"`
}

func (q GetPaymentTermQuery) CacheKey() string { return fmt.Sprint(q.Number) }

// Export queries render the status of every account as a CSV file and keep
// a copy in the export archive. They are never cached.
type ExportAccountsQuery struct {
	AccountingNumber int `validate:"gt=0"`
	StatusDate       time.Time
}

type ExportBudgetAccountsQuery struct {
	AccountingNumber int `validate:"gt=0"`
	StatusDate       time.Time
}

type ExportContactAccountsQuery struct {
	AccountingNumber int `validate:"gt=0"`
	StatusDate       time.Time
}

// ExportFile is a rendered export.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}
