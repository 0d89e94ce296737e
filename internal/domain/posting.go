package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostingLine is one row of the journal. Exactly one of Debit and Credit is
// non-zero.
type PostingLine struct {
	Identifier           uuid.UUID       `json:"identifier" db:"identifier"`
	AccountingNumber     int             `json:"accounting_number" db:"accounting_number"`
	PostingDate          time.Time       `json:"posting_date" db:"posting_date"`
	Reference            string          `json:"reference,omitempty" db:"reference"`
	AccountNumber        string          `json:"account_number" db:"account_number"`
	Details              string          `json:"details" db:"details"`
	BudgetAccountNumber  string          `json:"budget_account_number,omitempty" db:"budget_account_number"`
	Debit                decimal.Decimal `json:"debit" db:"debit"`
	Credit               decimal.Decimal `json:"credit" db:"credit"`
	ContactAccountNumber string          `json:"contact_account_number,omitempty" db:"contact_account_number"`
	SortOrder            int             `json:"sort_order" db:"sort_order"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
}

// Amount is debit minus credit.
func (p PostingLine) Amount() decimal.Decimal {
	return p.Debit.Sub(p.Credit)
}

// PostingWarningReason names why a posting line deserves attention.
type PostingWarningReason string

const (
	AccountIsBeyondLimit                   PostingWarningReason = "ACCOUNT_IS_BEYOND_LIMIT"
	ExpectedIncomeHasNotBeenReached        PostingWarningReason = "EXPECTED_INCOME_HAS_NOT_BEEN_REACHED"
	ExpectedExpensesHaveAlreadyBeenReached PostingWarningReason = "EXPECTED_EXPENSES_HAVE_ALREADY_BEEN_REACHED"
)

type PostingWarning struct {
	Reason        PostingWarningReason `json:"reason"`
	AccountNumber string               `json:"account_number"`
	AccountName   string               `json:"account_name"`
	Amount        decimal.Decimal      `json:"amount"`
	PostingLine   PostingLine          `json:"posting_line"`
}

// PostingJournalResult is what applying a posting journal produced.
type PostingJournalResult struct {
	PostingLines    []PostingLine    `json:"posting_lines"`
	PostingWarnings []PostingWarning `json:"posting_warnings"`
}

// BalanceSheetLine is the balance of one account group.
type BalanceSheetLine struct {
	AccountGroup AccountGroup    `json:"account_group"`
	Balance      decimal.Decimal `json:"balance"`
}

type BalanceSheet struct {
	AccountingNumber int                `json:"accounting_number"`
	StatusDate       time.Time          `json:"status_date"`
	Assets           []BalanceSheetLine `json:"assets"`
	Liabilities      []BalanceSheetLine `json:"liabilities"`
	TotalAssets      decimal.Decimal    `json:"total_assets"`
	TotalLiabilities decimal.Decimal    `json:"total_liabilities"`
}
