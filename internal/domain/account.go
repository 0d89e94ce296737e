package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NormalizeAccountNumber trims and upper-cases an account number.
func NormalizeAccountNumber(accountNumber string) string {
	return strings.ToUpper(strings.TrimSpace(accountNumber))
}

// CreditInfo is the credit limit granted on an account for one month.
type CreditInfo struct {
	YearMonth
	Credit decimal.Decimal `json:"credit"`
}

// Account is a bank, cash or other balance sheet account.
type Account struct {
	AccountingNumber   int          `json:"accounting_number" db:"accounting_number"`
	AccountNumber      string       `json:"account_number" db:"account_number"`
	AccountName        string       `json:"account_name" db:"account_name"`
	Description        string       `json:"description" db:"description"`
	Note               string       `json:"note" db:"note"`
	AccountGroupNumber int          `json:"account_group_number" db:"account_group_number"`
	CreditInfos        []CreditInfo `json:"credit_infos"`
}

// CreditFor returns the credit in force for the month of date. A month
// without its own credit info inherits the latest earlier one.
func (a Account) CreditFor(date time.Time) decimal.Decimal {
	target := YearMonthOf(date)
	credit := decimal.Zero
	var found *YearMonth
	for i := range a.CreditInfos {
		ci := a.CreditInfos[i]
		if target.Before(ci.YearMonth) {
			continue
		}
		if found == nil || found.Before(ci.YearMonth) {
			ym := ci.YearMonth
			found = &ym
			credit = ci.Credit
		}
	}
	return credit
}

// SetCreditInfo replaces or adds the credit info for a month, keeping the
// slice ordered by month.
func (a *Account) SetCreditInfo(info CreditInfo) {
	for i := range a.CreditInfos {
		if a.CreditInfos[i].YearMonth == info.YearMonth {
			a.CreditInfos[i] = info
			return
		}
	}
	a.CreditInfos = append(a.CreditInfos, info)
	sort.Slice(a.CreditInfos, func(i, j int) bool {
		return a.CreditInfos[i].YearMonth.Before(a.CreditInfos[j].YearMonth)
	})
}

// AccountStatus is an account seen from a status date.
type AccountStatus struct {
	Account
	AccountGroup AccountGroup    `json:"account_group"`
	StatusDate   time.Time       `json:"status_date"`
	Credit       decimal.Decimal `json:"credit"`
	Balance      decimal.Decimal `json:"balance"`
	Available    decimal.Decimal `json:"available"`
}

// BudgetInfo holds the expected income and expenses for one month.
type BudgetInfo struct {
	YearMonth
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// Budget is income minus expenses.
func (b BudgetInfo) Budget() decimal.Decimal {
	return b.Income.Sub(b.Expenses)
}

type BudgetAccount struct {
	AccountingNumber         int          `json:"accounting_number" db:"accounting_number"`
	AccountNumber            string       `json:"account_number" db:"account_number"`
	AccountName              string       `json:"account_name" db:"account_name"`
	Description              string       `json:"description" db:"description"`
	Note                     string       `json:"note" db:"note"`
	BudgetAccountGroupNumber int          `json:"budget_account_group_number" db:"budget_account_group_number"`
	BudgetInfos              []BudgetInfo `json:"budget_infos"`
}

// BudgetFor returns the budget of the given month, zero when none is set.
func (b BudgetAccount) BudgetFor(ym YearMonth) decimal.Decimal {
	for _, bi := range b.BudgetInfos {
		if bi.YearMonth == ym {
			return bi.Budget()
		}
	}
	return decimal.Zero
}

// BudgetBetween sums the monthly budgets from..to, both inclusive.
func (b BudgetAccount) BudgetBetween(from, to YearMonth) decimal.Decimal {
	total := decimal.Zero
	for _, bi := range b.BudgetInfos {
		if bi.YearMonth.Before(from) || to.Before(bi.YearMonth) {
			continue
		}
		total = total.Add(bi.Budget())
	}
	return total
}

// SetBudgetInfo replaces or adds the budget info for a month.
func (b *BudgetAccount) SetBudgetInfo(info BudgetInfo) {
	for i := range b.BudgetInfos {
		if b.BudgetInfos[i].YearMonth == info.YearMonth {
			b.BudgetInfos[i] = info
			return
		}
	}
	b.BudgetInfos = append(b.BudgetInfos, info)
	sort.Slice(b.BudgetInfos, func(i, j int) bool {
		return b.BudgetInfos[i].YearMonth.Before(b.BudgetInfos[j].YearMonth)
	})
}

// BudgetValues is budget, posted and available for a period.
type BudgetValues struct {
	Budget    decimal.Decimal `json:"budget"`
	Posted    decimal.Decimal `json:"posted"`
	Available decimal.Decimal `json:"available"`
}

type BudgetAccountStatus struct {
	BudgetAccount
	BudgetAccountGroup BudgetAccountGroup `json:"budget_account_group"`
	StatusDate         time.Time          `json:"status_date"`
	ThisMonth          BudgetValues       `json:"this_month"`
	LastMonth          BudgetValues       `json:"last_month"`
	YearToDate         BudgetValues       `json:"year_to_date"`
}

type ContactAccount struct {
	AccountingNumber  int    `json:"accounting_number" db:"accounting_number"`
	AccountNumber     string `json:"account_number" db:"account_number"`
	AccountName       string `json:"account_name" db:"account_name"`
	Description       string `json:"description" db:"description"`
	Note              string `json:"note" db:"note"`
	MailAddress       string `json:"mail_address" db:"mail_address"`
	PrimaryPhone      string `json:"primary_phone" db:"primary_phone"`
	SecondaryPhone    string `json:"secondary_phone" db:"secondary_phone"`
	PaymentTermNumber int    `json:"payment_term_number" db:"payment_term_number"`
}

type ContactAccountStatus struct {
	ContactAccount
	PaymentTerm PaymentTerm     `json:"payment_term"`
	StatusDate  time.Time       `json:"status_date"`
	Balance     decimal.Decimal `json:"balance"`
}

// IsDebtor reports whether the contact owes money under the given setting.
func (s ContactAccountStatus) IsDebtor(setting BalanceBelowZero) bool {
	if setting == BalanceBelowZeroDebtors {
		return s.Balance.IsNegative()
	}
	return s.Balance.IsPositive()
}

// IsCreditor reports whether money is owed to the contact.
func (s ContactAccountStatus) IsCreditor(setting BalanceBelowZero) bool {
	if setting == BalanceBelowZeroDebtors {
		return s.Balance.IsPositive()
	}
	return s.Balance.IsNegative()
}
