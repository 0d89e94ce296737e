package handler

import (
	"time"

	"osintranet/internal/domain"
)

// Page carries what the layout needs on every view. Errors is keyed by
// field name; "Form" holds messages not tied to a field.
type Page struct {
	Title  string
	Errors map[string]string
}

const formError = "Form"

type ErrorView struct {
	Page
	Status  int
	Message string
}

type AccountingListView struct {
	Page
	Accountings []domain.Accounting
}

type AccountingView struct {
	Page
	Accounting   domain.Accounting
	StatusDate   time.Time
	PostingLines []domain.PostingLine
	BalanceSheet domain.BalanceSheet
}

type AccountingFormView struct {
	Page
	Action string
	IsNew  bool
	Form   CreateAccountingForm
}

type AccountListView struct {
	Page
	AccountingNumber int
	StatusDate       time.Time
	Accounts         []domain.AccountStatus
}

type AccountView struct {
	Page
	AccountingNumber int
	StatusDate       time.Time
	Account          domain.AccountStatus
}

type AccountFormView struct {
	Page
	AccountingNumber int
	Action           string
	IsNew            bool
	Form             CreateAccountForm
	AccountGroups    []domain.AccountGroup
}

type BudgetAccountListView struct {
	Page
	AccountingNumber int
	StatusDate       time.Time
	BudgetAccounts   []domain.BudgetAccountStatus
}

type BudgetAccountView struct {
	Page
	AccountingNumber int
	StatusDate       time.Time
	BudgetAccount    domain.BudgetAccountStatus
}

type BudgetAccountFormView struct {
	Page
	AccountingNumber    int
	Action              string
	IsNew               bool
	Form                CreateBudgetAccountForm
	BudgetAccountGroups []domain.BudgetAccountGroup
}

type ContactAccountListView struct {
	Page
	AccountingNumber int
	StatusDate       time.Time
	ContactAccounts  []domain.ContactAccountStatus
}

type ContactAccountView struct {
	Page
	AccountingNumber int
	StatusDate       time.Time
	ContactAccount   domain.ContactAccountStatus
}

type ContactAccountFormView struct {
	Page
	AccountingNumber int
	Action           string
	IsNew            bool
	Form             CreateContactAccountForm
	PaymentTerms     []domain.PaymentTerm
}

type BalanceSheetView struct {
	Page
	AccountingNumber int
	StatusDate       time.Time
	BalanceSheet     domain.BalanceSheet
}

type PostingLinesView struct {
	Page
	AccountingNumber int
	StatusDate       time.Time
	PostingLines     []domain.PostingLine
}

type PostingJournalView struct {
	Page
	AccountingNumber    int
	Today               time.Time
	EarliestPostingDate time.Time
	Accounts            []domain.AccountStatus
	PostingLines        []domain.PostingLine
}

type PostingJournalResultView struct {
	Page
	AccountingNumber int
	Result           domain.PostingJournalResult
}

// CommonItem is a row of the account group, budget account group or payment
// term lists.
type CommonItem struct {
	Number           int
	Name             string
	AccountGroupType string
}

type CommonListView struct {
	Page
	Path     string
	WithType bool
	Items    []CommonItem
}

type CommonFormView struct {
	Page
	Action   string
	IsNew    bool
	WithType bool
	Form     CreateCommonForm
}
