package accounting

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"osintranet/internal/domain"
)

type CreateAccountingCommand struct {
	Number           int                     `validate:"gt=0"`
	Name             string                  `validate:"required,max=256"`
	LetterHeadNumber int                     `validate:"gte=0"`
	BalanceBelowZero domain.BalanceBelowZero `validate:"oneof=DEBTORS CREDITORS"`
	BackDating       int                     `validate:"gte=0,lte=365"`
}

type UpdateAccountingCommand struct {
	Number           int                     `validate:"gt=0"`
	Name             string                  `validate:"required,max=256"`
	LetterHeadNumber int                     `validate:"gte=0"`
	BalanceBelowZero domain.BalanceBelowZero `validate:"oneof=DEBTORS CREDITORS"`
	BackDating       int                     `validate:"gte=0,lte=365"`
}

type DeleteAccountingCommand struct {
	Number int `validate:"gt=0"`
}

// CreditInfoValues sets the credit of one month.
type CreditInfoValues struct {
	Year   int `validate:"gte=1950,lte=2199"`
	Month  int `validate:"gte=1,lte=12"`
	Credit decimal.Decimal
}

func (v CreditInfoValues) toDomain() domain.CreditInfo {
	return domain.CreditInfo{
		YearMonth: domain.YearMonth{Year: v.Year, Month: time.Month(v.Month)},
		Credit:    v.Credit,
	}
}

// AmountDecimals is the number of decimals stored for every amount.
const AmountDecimals = 2

// checkAmount reports a negative amount or one with more decimals than are
// stored. It returns false when a message was added.
func checkAmount(verr *domain.ValidationError, field string, amount decimal.Decimal) bool {
	switch {
	case amount.IsNegative():
		verr.Add(field, "must not be negative")
	case !amount.Equal(amount.Round(AmountDecimals)):
		verr.Add(field, fmt.Sprintf("must not have more than %d decimals", AmountDecimals))
	default:
		return true
	}
	return false
}

func validateCreditInfos(infos []CreditInfoValues) error {
	verr := &domain.ValidationError{}
	for i, ci := range infos {
		checkAmount(verr, fmt.Sprintf("CreditInfos[%d].Credit", i), ci.Credit)
	}
	return verr.OrNil()
}

type CreateAccountCommand struct {
	AccountingNumber   int                `validate:"gt=0"`
	AccountNumber      string             `validate:"required,max=16"`
	AccountName        string             `validate:"required,max=256"`
	Description        string             `validate:"max=512"`
	Note               string             `validate:"max=4096"`
	AccountGroupNumber int                `validate:"gt=0"`
	CreditInfos        []CreditInfoValues `validate:"dive"`
}

func (c CreateAccountCommand) Validate() error {
	return validateCreditInfos(c.CreditInfos)
}

type UpdateAccountCommand struct {
	AccountingNumber   int                `validate:"gt=0"`
	AccountNumber      string             `validate:"required,max=16"`
	AccountName        string             `validate:"required,max=256"`
	Description        string             `validate:"max=512"`
	Note               string             `validate:"max=4096"`
	AccountGroupNumber int                `validate:"gt=0"`
	CreditInfos        []CreditInfoValues `validate:"dive"`
}

func (c UpdateAccountCommand) Validate() error {
	return validateCreditInfos(c.CreditInfos)
}

type DeleteAccountCommand struct {
	AccountingNumber int    `validate:"gt=0"`
	AccountNumber    string `validate:"required,max=16"`
}

// BudgetInfoValues sets the expected income and expenses of one month.
type BudgetInfoValues struct {
	Year     int `validate:"gte=1950,lte=2199"`
	Month    int `validate:"gte=1,lte=12"`
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

func (v BudgetInfoValues) toDomain() domain.BudgetInfo {
	return domain.BudgetInfo{
		YearMonth: domain.YearMonth{Year: v.Year, Month: time.Month(v.Month)},
		Income:    v.Income,
		Expenses:  v.Expenses,
	}
}

func validateBudgetInfos(infos []BudgetInfoValues) error {
	verr := &domain.ValidationError{}
	for i, bi := range infos {
		checkAmount(verr, fmt.Sprintf("BudgetInfos[%d].Income", i), bi.Income)
		checkAmount(verr, fmt.Sprintf("BudgetInfos[%d].Expenses", i), bi.Expenses)
	}
	return verr.OrNil()
}

type CreateBudgetAccountCommand struct {
	AccountingNumber         int                `validate:"gt=0"`
	AccountNumber            string             `validate:"required,max=16"`
	AccountName              string             `validate:"required,max=256"`
	Description              string             `validate:"max=512"`
	Note                     string             `validate:"max=4096"`
	BudgetAccountGroupNumber int                `validate:"gt=0"`
	BudgetInfos              []BudgetInfoValues `validate:"dive"`
}

func (c CreateBudgetAccountCommand) Validate() error {
	return validateBudgetInfos(c.BudgetInfos)
}

type UpdateBudgetAccountCommand struct {
	AccountingNumber         int                `validate:"gt=0"`
	AccountNumber            string             `validate:"required,max=16"`
	AccountName              string             `validate:"required,max=256"`
	Description              string             `validate:"max=512"`
	Note                     string             `validate:"max=4096"`
	BudgetAccountGroupNumber int                `validate:"gt=0"`
	BudgetInfos              []BudgetInfoValues `validate:"dive"`
}

func (c UpdateBudgetAccountCommand) Validate() error {
	return validateBudgetInfos(c.BudgetInfos)
}

type DeleteBudgetAccountCommand struct {
	AccountingNumber int    `validate:"gt=0"`
	AccountNumber    string `validate:"required,max=16"`
}

type CreateContactAccountCommand struct {
	AccountingNumber  int    `validate:"gt=0"`
	AccountNumber     string `validate:"required,max=16"`
	AccountName       string `validate:"required,max=256"`
	Description       string `validate:"max=512"`
	Note              string `validate:"max=4096"`
	MailAddress       string `validate:"omitempty,email,max=256"`
	PrimaryPhone      string `validate:"max=32"`
	SecondaryPhone    string `validate:"max=32"`
	PaymentTermNumber int    `validate:"gt=0"`
}

type UpdateContactAccountCommand struct {
	AccountingNumber  int    `validate:"gt=0"`
	AccountNumber     string `validate:"required,max=16"`
	AccountName       string `validate:"required,max=256"`
	Description       string `validate:"max=512"`
	Note              string `validate:"max=4096"`
	MailAddress       string `validate:"omitempty,email,max=256"`
	PrimaryPhone      string `validate:"max=32"`
	SecondaryPhone    string `validate:"max=32"`
	PaymentTermNumber int    `validate:"gt=0"`
}

type DeleteContactAccountCommand struct {
	AccountingNumber int    `validate:"gt=0"`
	AccountNumber    string `validate:"required,max=16"`
}

type CreateAccountGroupCommand struct {
	Number           int                     `validate:"gt=0"`
	Name             string                  `validate:"required,max=256"`
	AccountGroupType domain.AccountGroupType `validate:"oneof=ASSETS LIABILITIES"`
}

type UpdateAccountGroupCommand struct {
	Number           int                     `validate:"gt=0"`
	Name             string                  `validate:"required,max=256"`
	AccountGroupType domain.AccountGroupType `validate:"oneof=ASSETS LIABILITIES"`
}

type DeleteAccountGroupCommand struct {
	Number int `validate:"gt=0"`
}

type CreateBudgetAccountGroupCommand struct {
	Number int    `validate:"gt=0"`
	Name   string `validate:"required,max=256"`
}

type UpdateBudgetAccountGroupCommand struct {
	Number int    `validate:"gt=0"`
	Name   string `validate:"required,max=256"`
}

type DeleteBudgetAccountGroupCommand struct {
	Number int `validate:"gt=0"`
}

type CreatePaymentTermCommand struct {
	Number int    `validate:"gt=0"`
	Name   string `validate:"required,max=256"`
}

type UpdatePaymentTermCommand struct {
	Number int    `validate:"gt=0"`
	Name   string `validate:"required,max=256"`
}

type DeletePaymentTermCommand struct {
	Number int `validate:"gt=0"`
}

// ApplyPostingLine is one line of a posting journal before it is booked.
type ApplyPostingLine struct {
	PostingDate          time.Time `validate:"required"`
	Reference            string    `validate:"max=16"`
	AccountNumber        string    `validate:"required,max=16"`
	Details              string    `validate:"required,max=256"`
	BudgetAccountNumber  string    `validate:"max=16"`
	Debit                decimal.Decimal
	Credit               decimal.Decimal
	ContactAccountNumber string `validate:"max=16"`
}

// ApplyPostingJournalCommand books every line or none of them.
type ApplyPostingJournalCommand struct {
	AccountingNumber int                `validate:"gt=0"`
	PostingLines     []ApplyPostingLine `validate:"required,min=1,dive"`
}

// Validate checks the amounts. Dates and account references are checked
// against the accounting when the journal is applied.
func (c ApplyPostingJournalCommand) Validate() error {
	verr := &domain.ValidationError{}
	for i, line := range c.PostingLines {
		field := fmt.Sprintf("PostingLines[%d]", i)
		if !checkAmount(verr, field+".Debit", line.Debit) || !checkAmount(verr, field+".Credit", line.Credit) {
			continue
		}
		switch {
		case line.Debit.IsPositive() && line.Credit.IsPositive():
			verr.Add(field+".Debit", "debit and credit cannot both be set")
		case !line.Debit.IsPositive() && !line.Credit.IsPositive():
			verr.Add(field+".Debit", "either debit or credit must be set")
		}
	}
	return verr.OrNil()
}
