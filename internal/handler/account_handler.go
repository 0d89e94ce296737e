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

type AccountHandler struct {
	controller
}

func NewAccountHandler(commands bus.CommandBus, queries bus.QueryBus, now func() time.Time) *AccountHandler {
	return &AccountHandler{controller: newController(commands, queries, now)}
}

func (h *AccountHandler) accounts(c *gin.Context) (AccountListView, bool) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return AccountListView{}, false
	}
	statusDate, ok := h.statusDate(c)
	if !ok {
		return AccountListView{}, false
	}

	accounts, err := bus.QueryFor[[]domain.AccountStatus](c.Request.Context(), h.queries, accounting.GetAccountsQuery{AccountingNumber: accountingNumber, StatusDate: statusDate})
	if err != nil {
		h.failed(c, err, "List accounts")
		return AccountListView{}, false
	}
	return AccountListView{
		Page:             Page{Title: "Accounts"},
		AccountingNumber: accountingNumber,
		StatusDate:       statusDate,
		Accounts:         accounts,
	}, true
}

// List godoc
// @Summary List accounts with credit, balance and available amount
// @Tags accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Router /accounting/{accountingNumber}/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	if view, ok := h.accounts(c); ok {
		c.HTML(http.StatusOK, "accounts/list", view)
	}
}

// Partial renders only the accounts table.
func (h *AccountHandler) Partial(c *gin.Context) {
	if view, ok := h.accounts(c); ok {
		c.HTML(http.StatusOK, "accounts/partial", view)
	}
}

// Get godoc
// @Summary Show an account
// @Tags accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param accountNumber path string true "Account number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Router /accounting/{accountingNumber}/accounts/{accountNumber} [get]
func (h *AccountHandler) Get(c *gin.Context) {
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

	account, err := bus.QueryFor[domain.AccountStatus](c.Request.Context(), h.queries, accounting.GetAccountQuery{
		AccountingNumber: accountingNumber,
		AccountNumber:    accountNumber,
		StatusDate:       statusDate,
	})
	if err != nil {
		h.failed(c, err, "Get account")
		return
	}
	c.HTML(http.StatusOK, "accounts/detail", AccountView{
		Page:             Page{Title: account.AccountName},
		AccountingNumber: accountingNumber,
		StatusDate:       statusDate,
		Account:          account,
	})
}

// formView loads the accounting and the account groups the form offers.
func (h *AccountHandler) formView(ctx context.Context, accountingNumber int) (AccountFormView, error) {
	var view AccountFormView
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := bus.QueryFor[domain.Accounting](ctx, h.queries, accounting.GetAccountingQuery{AccountingNumber: accountingNumber})
		return err
	})
	g.Go(func() error {
		var err error
		view.AccountGroups, err = bus.QueryFor[[]domain.AccountGroup](ctx, h.queries, accounting.GetAccountGroupsQuery{})
		return err
	})
	if err := g.Wait(); err != nil {
		return AccountFormView{}, err
	}
	view.AccountingNumber = accountingNumber
	return view, nil
}

func (h *AccountHandler) renderForm(c *gin.Context, status int, view AccountFormView) {
	if view.IsNew {
		view.Title = "New account"
		view.Action = fmt.Sprintf("/accounting/%d/accounts/create", view.AccountingNumber)
	} else {
		view.Title = fmt.Sprintf("Edit account %s", view.Form.AccountNumber)
		view.Action = fmt.Sprintf("/accounting/%d/accounts/%s/update", view.AccountingNumber, view.Form.AccountNumber)
	}
	c.HTML(status, "accounts/form", view)
}

// rerender shows the posted form again with errs. Nothing is sent on the
// command bus.
func (h *AccountHandler) rerender(c *gin.Context, accountingNumber int, isNew bool, form CreateAccountForm, errs map[string]string) {
	view, err := h.formView(c.Request.Context(), accountingNumber)
	if err != nil {
		h.failed(c, err, "Load account form")
		return
	}
	view.IsNew = isNew
	view.Form = form
	view.Errors = errs
	h.renderForm(c, http.StatusUnprocessableEntity, view)
}

// CreateForm godoc
// @Summary Form for a new account
// @Tags accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Router /accounting/{accountingNumber}/accounts/create [get]
func (h *AccountHandler) CreateForm(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	view, err := h.formView(c.Request.Context(), accountingNumber)
	if err != nil {
		h.failed(c, err, "Load account form")
		return
	}
	view.IsNew = true
	h.renderForm(c, http.StatusOK, view)
}

// Create godoc
// @Summary Create an account
// @Tags accounts
// @Accept x-www-form-urlencoded
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Success 303 {string} string "Redirect to the accounts"
// @Failure 422 {string} string "Form with errors"
// @Router /accounting/{accountingNumber}/accounts/create [post]
func (h *AccountHandler) Create(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}

	var form CreateAccountForm
	if err := c.ShouldBind(&form); err != nil {
		logger.GetLogger().WithError(err).Info("Invalid account form")
		h.rerender(c, accountingNumber, true, form, bindingErrors(err))
		return
	}
	form.AccountNumber = domain.NormalizeAccountNumber(form.AccountNumber)

	err := bus.Publish(c.Request.Context(), h.commands, accounting.CreateAccountCommand{
		AccountingNumber:   accountingNumber,
		AccountNumber:      form.AccountNumber,
		AccountName:        form.AccountName,
		Description:        form.Description,
		Note:               form.Note,
		AccountGroupNumber: form.AccountGroupNumber,
		CreditInfos:        creditInfos(form.AccountForm, h.today()),
	})
	if err != nil {
		if errs, ok := rejected(err); ok {
			h.rerender(c, accountingNumber, true, form, errs)
			return
		}
		h.failed(c, err, "Create account")
		return
	}
	h.redirect(c, fmt.Sprintf("/accounting/%d/accounts", accountingNumber))
}

// UpdateForm godoc
// @Summary Form for editing an account
// @Tags accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param accountNumber path string true "Account number"
// @Router /accounting/{accountingNumber}/accounts/{accountNumber}/update [get]
func (h *AccountHandler) UpdateForm(c *gin.Context) {
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
		h.failed(c, err, "Load account form")
		return
	}
	account, err := bus.QueryFor[domain.AccountStatus](c.Request.Context(), h.queries, accounting.GetAccountQuery{
		AccountingNumber: accountingNumber,
		AccountNumber:    accountNumber,
		StatusDate:       h.today(),
	})
	if err != nil {
		h.failed(c, err, "Get account")
		return
	}
	view.Form = accountFormOf(account)
	h.renderForm(c, http.StatusOK, view)
}

// Update godoc
// @Summary Update an account
// @Tags accounts
// @Accept x-www-form-urlencoded
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param accountNumber path string true "Account number"
// @Success 303 {string} string "Redirect to the accounts"
// @Failure 422 {string} string "Form with errors"
// @Router /accounting/{accountingNumber}/accounts/{accountNumber}/update [post]
func (h *AccountHandler) Update(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	accountNumber, ok := h.accountNumber(c)
	if !ok {
		return
	}

	var values AccountForm
	if err := c.ShouldBind(&values); err != nil {
		logger.GetLogger().WithError(err).Info("Invalid account form")
		h.rerender(c, accountingNumber, false, CreateAccountForm{AccountNumber: accountNumber, AccountForm: values}, bindingErrors(err))
		return
	}

	err := bus.Publish(c.Request.Context(), h.commands, accounting.UpdateAccountCommand{
		AccountingNumber:   accountingNumber,
		AccountNumber:      accountNumber,
		AccountName:        values.AccountName,
		Description:        values.Description,
		Note:               values.Note,
		AccountGroupNumber: values.AccountGroupNumber,
		CreditInfos:        creditInfos(values, h.today()),
	})
	if err != nil {
		if errs, ok := rejected(err); ok {
			h.rerender(c, accountingNumber, false, CreateAccountForm{AccountNumber: accountNumber, AccountForm: values}, errs)
			return
		}
		h.failed(c, err, "Update account")
		return
	}
	h.redirect(c, fmt.Sprintf("/accounting/%d/accounts", accountingNumber))
}

// Delete godoc
// @Summary Delete an account
// @Tags accounts
// @Param accountingNumber path int true "Accounting number"
// @Param accountNumber path string true "Account number"
// @Success 303 {string} string "Redirect to the accounts"
// @Failure 422 {string} string "Account is in use"
// @Router /accounting/{accountingNumber}/accounts/{accountNumber}/delete [post]
func (h *AccountHandler) Delete(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	accountNumber, ok := h.accountNumber(c)
	if !ok {
		return
	}
	if err := bus.Publish(c.Request.Context(), h.commands, accounting.DeleteAccountCommand{AccountingNumber: accountingNumber, AccountNumber: accountNumber}); err != nil {
		h.failed(c, err, "Delete account")
		return
	}
	h.redirect(c, fmt.Sprintf("/accounting/%d/accounts", accountingNumber))
}

// Export godoc
// @Summary Export the accounts as CSV
// @Tags accounts
// @Produce text/csv
// @Param accountingNumber path int true "Accounting number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Success 200 {file} file "Semicolon separated file"
// @Router /accounting/{accountingNumber}/accounts/export [get]
func (h *AccountHandler) Export(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	statusDate, ok := h.statusDate(c)
	if !ok {
		return
	}

	file, err := bus.QueryFor[accounting.ExportFile](c.Request.Context(), h.queries, accounting.ExportAccountsQuery{AccountingNumber: accountingNumber, StatusDate: statusDate})
	if err != nil {
		h.failed(c, err, "Export accounts")
		return
	}
	download(c, file)
}
