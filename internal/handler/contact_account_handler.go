package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"osintranet/internal/accounting"
	"osintranet/internal/bus"
	"osintranet/internal/domain"
	"osintranet/pkg/logger"
)

type ContactAccountHandler struct {
	controller
}

func NewContactAccountHandler(commands bus.CommandBus, queries bus.QueryBus, now func() time.Time) *ContactAccountHandler {
	return &ContactAccountHandler{controller: newController(commands, queries, now)}
}

// contactAccounts runs one of the contact account list queries built by
// query for the route's accounting and status date.
func (h *ContactAccountHandler) contactAccounts(c *gin.Context, title string, query func(accountingNumber int, statusDate time.Time) interface{}) (ContactAccountListView, bool) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return ContactAccountListView{}, false
	}
	statusDate, ok := h.statusDate(c)
	if !ok {
		return ContactAccountListView{}, false
	}

	contactAccounts, err := bus.QueryFor[[]domain.ContactAccountStatus](c.Request.Context(), h.queries, query(accountingNumber, statusDate))
	if err != nil {
		h.failed(c, err, "List "+title)
		return ContactAccountListView{}, false
	}
	return ContactAccountListView{
		Page:             Page{Title: title},
		AccountingNumber: accountingNumber,
		StatusDate:       statusDate,
		ContactAccounts:  contactAccounts,
	}, true
}

func allContactAccounts(accountingNumber int, statusDate time.Time) interface{} {
	return accounting.GetContactAccountsQuery{AccountingNumber: accountingNumber, StatusDate: statusDate}
}

// List godoc
// @Summary List contact accounts with their balance
// @Tags contact-accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Router /accounting/{accountingNumber}/contact-accounts [get]
func (h *ContactAccountHandler) List(c *gin.Context) {
	if view, ok := h.contactAccounts(c, "Contact accounts", allContactAccounts); ok {
		c.HTML(http.StatusOK, "contact-accounts/list", view)
	}
}

func (h *ContactAccountHandler) Partial(c *gin.Context) {
	if view, ok := h.contactAccounts(c, "Contact accounts", allContactAccounts); ok {
		c.HTML(http.StatusOK, "contact-accounts/partial", view)
	}
}

// Debtors godoc
// @Summary List contacts that owe money
// @Tags contact-accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Router /accounting/{accountingNumber}/contact-accounts/debtors [get]
func (h *ContactAccountHandler) Debtors(c *gin.Context) {
	view, ok := h.contactAccounts(c, "Debtors", func(accountingNumber int, statusDate time.Time) interface{} {
		return accounting.GetDebtorsQuery{AccountingNumber: accountingNumber, StatusDate: statusDate}
	})
	if ok {
		c.HTML(http.StatusOK, "contact-accounts/balances", view)
	}
}

// Creditors godoc
// @Summary List contacts money is owed to
// @Tags contact-accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Router /accounting/{accountingNumber}/contact-accounts/creditors [get]
func (h *ContactAccountHandler) Creditors(c *gin.Context) {
	view, ok := h.contactAccounts(c, "Creditors", func(accountingNumber int, statusDate time.Time) interface{} {
		return accounting.GetCreditorsQuery{AccountingNumber: accountingNumber, StatusDate: statusDate}
	})
	if ok {
		c.HTML(http.StatusOK, "contact-accounts/balances", view)
	}
}

// Get godoc
// @Summary Show a contact account
// @Tags contact-accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param accountNumber path string true "Account number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Router /accounting/{accountingNumber}/contact-accounts/{accountNumber} [get]
func (h *ContactAccountHandler) Get(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	accountNumber, ok := h.accountNumber(c)
	if !ok {
		return
	}
	statusDate, ok := h.statusDate(c)
	if !ok {
		return
	}

	contactAccount, err := bus.QueryFor[domain.ContactAccountStatus](c.Request.Context(), h.queries, accounting.GetContactAccountQuery{
		AccountingNumber: accountingNumber,
		AccountNumber:    accountNumber,
		StatusDate:       statusDate,
	})
	if err != nil {
		h.failed(c, err, "Get contact account")
		return
	}
	c.HTML(http.StatusOK, "contact-accounts/detail", ContactAccountView{
		Page:             Page{Title: contactAccount.AccountName},
		AccountingNumber: accountingNumber,
		StatusDate:       statusDate,
		ContactAccount:   contactAccount,
	})
}

func (h *ContactAccountHandler) formView(ctx context.Context, accountingNumber int) (ContactAccountFormView, error) {
	var view ContactAccountFormView
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := bus.QueryFor[domain.Accounting](ctx, h.queries, accounting.GetAccountingQuery{AccountingNumber: accountingNumber})
		return err
	})
	g.Go(func() error {
		var err error
		view.PaymentTerms, err = bus.QueryFor[[]domain.PaymentTerm](ctx, h.queries, accounting.GetPaymentTermsQuery{})
		return err
	})
	if err := g.Wait(); err != nil {
		return ContactAccountFormView{}, err
	}
	view.AccountingNumber = accountingNumber
	return view, nil
}

func (h *ContactAccountHandler) renderForm(c *gin.Context, status int, view ContactAccountFormView) {
	if view.IsNew {
		view.Title = "New contact account"
		view.Action = fmt.Sprintf("/accounting/%d/contact-accounts/create", view.AccountingNumber)
	} else {
		view.Title = fmt.Sprintf("Edit contact account %s", view.Form.AccountNumber)
		view.Action = fmt.Sprintf("/accounting/%d/contact-accounts/%s/update", view.AccountingNumber, view.Form.AccountNumber)
	}
	c.HTML(status, "contact-accounts/form", view)
}

func (h *ContactAccountHandler) rerender(c *gin.Context, accountingNumber int, isNew bool, form CreateContactAccountForm, errs map[string]string) {
	view, err := h.formView(c.Request.Context(), accountingNumber)
	if err != nil {
		h.failed(c, err, "Load contact account form")
		return
	}
	view.IsNew = isNew
	view.Form = form
	view.Errors = errs
	h.renderForm(c, http.StatusUnprocessableEntity, view)
}

// CreateForm godoc
// @Summary Form for a new contact account
// @Tags contact-accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Router /accounting/{accountingNumber}/contact-accounts/create [get]
func (h *ContactAccountHandler) CreateForm(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	view, err := h.formView(c.Request.Context(), accountingNumber)
	if err != nil {
		h.failed(c, err, "Load contact account form")
		return
	}
	view.IsNew = true
	h.renderForm(c, http.StatusOK, view)
}

// Create godoc
// @Summary Create a contact account
// @Tags contact-accounts
// @Accept x-www-form-urlencoded
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Success 303 {string} string "Redirect to the contact accounts"
// @Failure 422 {string} string "Form with errors"
// @Router /accounting/{accountingNumber}/contact-accounts/create [post]
func (h *ContactAccountHandler) Create(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}

	var form CreateContactAccountForm
	if err := c.ShouldBind(&form); err != nil {
		logger.GetLogger().WithError(err).Info("Invalid contact account form")
		h.rerender(c, accountingNumber, true, form, bindingErrors(err))
		return
	}
	form.AccountNumber = domain.NormalizeAccountNumber(form.AccountNumber)

	err := bus.Publish(c.Request.Context(), h.commands, accounting.CreateContactAccountCommand{
		AccountingNumber:  accountingNumber,
		AccountNumber:     form.AccountNumber,
		AccountName:       form.AccountName,
		Description:       form.Description,
		Note:              form.Note,
		MailAddress:       form.MailAddress,
		PrimaryPhone:      form.PrimaryPhone,
		SecondaryPhone:    form.SecondaryPhone,
		PaymentTermNumber: form.PaymentTermNumber,
	})
	if err != nil {
		if errs, ok := rejected(err); ok {
			h.rerender(c, accountingNumber, true, form, errs)
			return
		}
		h.failed(c, err, "Create contact account")
		return
	}
	h.redirect(c, fmt.Sprintf("/accounting/%d/contact-accounts", accountingNumber))
}

// UpdateForm godoc
// @Summary Form for editing a contact account
// @Tags contact-accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param accountNumber path string true "Account number"
// @Router /accounting/{accountingNumber}/contact-accounts/{accountNumber}/update [get]
func (h *ContactAccountHandler) UpdateForm(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	accountNumber, ok := h.accountNumber(c)
	if !ok {
		return
	}

	view, err := h.formView(c.Request.Context(), accountingNumber)
	if err != nil {
		h.failed(c, err, "Load contact account form")
		return
	}
	contactAccount, err := bus.QueryFor[domain.ContactAccountStatus](c.Request.Context(), h.queries, accounting.GetContactAccountQuery{
		AccountingNumber: accountingNumber,
		AccountNumber:    accountNumber,
		StatusDate:       h.today(),
	})
	if err != nil {
		h.failed(c, err, "Get contact account")
		return
	}
	view.Form = contactAccountFormOf(contactAccount)
	h.renderForm(c, http.StatusOK, view)
}

// Update godoc
// @Summary Update a contact account
// @Tags contact-accounts
// @Accept x-www-form-urlencoded
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param accountNumber path string true "Account number"
// @Success 303 {string} string "Redirect to the contact accounts"
// @Failure 422 {string} string "Form with errors"
// @Router /accounting/{accountingNumber}/contact-accounts/{accountNumber}/update [post]
func (h *ContactAccountHandler) Update(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	accountNumber, ok := h.accountNumber(c)
	if !ok {
		return
	}

	var values ContactAccountForm
	if err := c.ShouldBind(&values); err != nil {
		logger.GetLogger().WithError(err).Info("Invalid contact account form")
		h.rerender(c, accountingNumber, false, CreateContactAccountForm{AccountNumber: accountNumber, ContactAccountForm: values}, bindingErrors(err))
		return
	}

	err := bus.Publish(c.Request.Context(), h.commands, accounting.UpdateContactAccountCommand{
		AccountingNumber:  accountingNumber,
		AccountNumber:     accountNumber,
		AccountName:       values.AccountName,
		Description:       values.Description,
		Note:              values.Note,
		MailAddress:       values.MailAddress,
		PrimaryPhone:      values.PrimaryPhone,
		SecondaryPhone:    values.SecondaryPhone,
		PaymentTermNumber: values.PaymentTermNumber,
	})
	if err != nil {
		if errs, ok := rejected(err); ok {
			h.rerender(c, accountingNumber, false, CreateContactAccountForm{AccountNumber: accountNumber, ContactAccountForm: values}, errs)
			return
		}
		h.failed(c, err, "Update contact account")
		return
	}
	h.redirect(c, fmt.Sprintf("/accounting/%d/contact-accounts", accountingNumber))
}

// Delete godoc
// @Summary Delete a contact account
// @Tags contact-accounts
// @Param accountingNumber path int true "Accounting number"
// @Param accountNumber path string true "Account number"
// @Success 303 {string} string "Redirect to the contact accounts"
// @Router /accounting/{accountingNumber}/contact-accounts/{accountNumber}/delete [post]
func (h *ContactAccountHandler) Delete(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	accountNumber, ok := h.accountNumber(c)
	if !ok {
		return
	}
	if err := bus.Publish(c.Request.Context(), h.commands, accounting.DeleteContactAccountCommand{AccountingNumber: accountingNumber, AccountNumber: accountNumber}); err != nil {
		h.failed(c, err, "Delete contact account")
		return
	}
	h.redirect(c, fmt.Sprintf("/accounting/%d/contact-accounts", accountingNumber))
}

// Export godoc
// @Summary Export the contact accounts as CSV
// @Tags contact-accounts
// @Produce text/csv
// @Param accountingNumber path int true "Accounting number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Success 200 {file} file "Semicolon separated file"
// @Router /accounting/{accountingNumber}/contact-accounts/export [get]
func (h *ContactAccountHandler) Export(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	statusDate, ok := h.statusDate(c)
	if !ok {
		return
	}

	file, err := bus.QueryFor[accounting.ExportFile](c.Request.Context(), h.queries, accounting.ExportContactAccountsQuery{AccountingNumber: accountingNumber, StatusDate: statusDate})
	if err != nil {
		h.failed(c, err, "Export contact accounts")
		return
	}
	download(c, file)
}
