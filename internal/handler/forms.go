package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"osintranet/internal/accounting"
	"osintranet/internal/domain"
)

type AccountingForm struct {
	Name             string `form:"name" binding:"required,max=256"`
	LetterHeadNumber int    `form:"letter_head_number" binding:"gte=0"`
	BalanceBelowZero string `form:"balance_below_zero" binding:"required,oneof=DEBTORS CREDITORS"`
	BackDating       int    `form:"back_dating" binding:"gte=0,lte=365"`
}

type CreateAccountingForm struct {
	Number int `form:"number" binding:"required,gt=0"`
	AccountingForm
}

type AccountForm struct {
	AccountName        string `form:"account_name" binding:"required,max=256"`
	Description        string `form:"description" binding:"max=512"`
	Note               string `form:"note" binding:"max=4096"`
	AccountGroupNumber int    `form:"account_group_number" binding:"required,gt=0"`
	Credit             string `form:"credit" binding:"omitempty,numeric"`
}

type CreateAccountForm struct {
	AccountNumber string `form:"account_number" binding:"required,max=16"`
	AccountForm
}

type BudgetAccountForm struct {
	AccountName              string `form:"account_name" binding:"required,max=256"`
	Description              string `form:"description" binding:"max=512"`
	Note                     string `form:"note" binding:"max=4096"`
	BudgetAccountGroupNumber int    `form:"budget_account_group_number" binding:"required,gt=0"`
	Income                   string `form:"income" binding:"omitempty,numeric"`
	Expenses                 string `form:"expenses" binding:"omitempty,numeric"`
}

type CreateBudgetAccountForm struct {
	AccountNumber string `form:"account_number" binding:"required,max=16"`
	BudgetAccountForm
}

type ContactAccountForm struct {
	AccountName       string `form:"account_name" binding:"required,max=256"`
	Description       string `form:"description" binding:"max=512"`
	Note              string `form:"note" binding:"max=4096"`
	MailAddress       string `form:"mail_address" binding:"omitempty,email,max=256"`
	PrimaryPhone      string `form:"primary_phone" binding:"max=32"`
	SecondaryPhone    string `form:"secondary_phone" binding:"max=32"`
	PaymentTermNumber int    `form:"payment_term_number" binding:"required,gt=0"`
}

type CreateContactAccountForm struct {
	AccountNumber string `form:"account_number" binding:"required,max=16"`
	ContactAccountForm
}

type CommonForm struct {
	Name             string `form:"name" binding:"required,max=256"`
	AccountGroupType string `form:"account_group_type"`
}

type CreateCommonForm struct {
	Number int `form:"number" binding:"required,gt=0"`
	CommonForm
}

// amount parses an optional decimal form value. Binding has already checked
// the format.
func amount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func creditInfos(f AccountForm, today time.Time) []accounting.CreditInfoValues {
	if f.Credit == "" {
		return nil
	}
	return []accounting.CreditInfoValues{{Year: today.Year(), Month: int(today.Month()), Credit: amount(f.Credit)}}
}

func budgetInfos(f BudgetAccountForm, today time.Time) []accounting.BudgetInfoValues {
	if f.Income == "" && f.Expenses == "" {
		return nil
	}
	return []accounting.BudgetInfoValues{{
		Year:     today.Year(),
		Month:    int(today.Month()),
		Income:   amount(f.Income),
		Expenses: amount(f.Expenses),
	}}
}

func accountingFormOf(a domain.Accounting) CreateAccountingForm {
	return CreateAccountingForm{
		Number: a.Number,
		AccountingForm: AccountingForm{
			Name:             a.Name,
			LetterHeadNumber: a.LetterHeadNumber,
			BalanceBelowZero: string(a.BalanceBelowZero),
			BackDating:       a.BackDating,
		},
	}
}

func accountFormOf(a domain.AccountStatus) CreateAccountForm {
	return CreateAccountForm{
		AccountNumber: a.AccountNumber,
		AccountForm: AccountForm{
			AccountName:        a.AccountName,
			Description:        a.Description,
			Note:               a.Note,
			AccountGroupNumber: a.AccountGroupNumber,
			Credit:             a.Credit.StringFixed(2),
		},
	}
}

func budgetAccountFormOf(b domain.BudgetAccountStatus) CreateBudgetAccountForm {
	f := CreateBudgetAccountForm{
		AccountNumber: b.AccountNumber,
		BudgetAccountForm: BudgetAccountForm{
			AccountName:              b.AccountName,
			Description:              b.Description,
			Note:                     b.Note,
			BudgetAccountGroupNumber: b.BudgetAccountGroupNumber,
		},
	}
	ym := domain.YearMonthOf(b.StatusDate)
	for _, bi := range b.BudgetInfos {
		if bi.YearMonth == ym {
			f.Income = bi.Income.StringFixed(2)
			f.Expenses = bi.Expenses.StringFixed(2)
		}
	}
	return f
}

func contactAccountFormOf(c domain.ContactAccountStatus) CreateContactAccountForm {
	return CreateContactAccountForm{
		AccountNumber: c.AccountNumber,
		ContactAccountForm: ContactAccountForm{
			AccountName:       c.AccountName,
			Description:       c.Description,
			Note:              c.Note,
			MailAddress:       c.MailAddress,
			PrimaryPhone:      c.PrimaryPhone,
			SecondaryPhone:    c.SecondaryPhone,
			PaymentTermNumber: c.PaymentTermNumber,
		},
	}
}
