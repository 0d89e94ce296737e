package domain

import "time"

// BalanceBelowZero decides how a negative contact account balance is read.
type BalanceBelowZero string

const (
	BalanceBelowZeroDebtors   BalanceBelowZero = "DEBTORS"
	BalanceBelowZeroCreditors BalanceBelowZero = "CREDITORS"
)

// Accounting is a set of books: accounts, budget accounts, contact accounts
// and the posting lines written against them.
type Accounting struct {
	Number           int              `json:"number" db:"number"`
	Name             string           `json:"name" db:"name"`
	LetterHeadNumber int              `json:"letter_head_number" db:"letter_head_number"`
	BalanceBelowZero BalanceBelowZero `json:"balance_below_zero" db:"balance_below_zero"`
	BackDating       int              `json:"back_dating" db:"back_dating"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// EarliestPostingDate is the oldest date a new posting line may carry when
// entered on today.
func (a Accounting) EarliestPostingDate(today time.Time) time.Time {
	return StripTime(today).AddDate(0, 0, -a.BackDating)
}

// AccountGroupType places an account group on one side of the balance sheet.
type AccountGroupType string

const (
	Assets      AccountGroupType = "ASSETS"
	Liabilities AccountGroupType = "LIABILITIES"
)

type AccountGroup struct {
	Number           int              `json:"number" db:"number"`
	Name             string           `json:"name" db:"name"`
	AccountGroupType AccountGroupType `json:"account_group_type" db:"account_group_type"`
}

type BudgetAccountGroup struct {
	Number int    `json:"number" db:"number"`
	Name   string `json:"name" db:"name"`
}

type PaymentTerm struct {
	Number int    `json:"number" db:"number"`
	Name   string `json:"name" db:"name"`
}
