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

type BudgetAccountHandler struct {
	controller
}

func NewBudgetAccountHandler(commands bus.CommandBus, queries bus.QueryBus, now func() time.Time) *BudgetAccountHandler {
	return &BudgetAccountHandler{controller: newController(commands, queries, now)}
}

func (h *BudgetAccountHandler) budgetAccounts(c *gin.Context) (BudgetAccountListView, bool) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return BudgetAccountListView{}, false
	}
	statusDate, ok := h.statusDate(c)
	if !ok {
		return BudgetAccountListView{}, false
	}

	budgetAccounts, err := bus.QueryFor[[]domain.BudgetAccountStatus](c.Request.Context(), h.queries, accounting.GetBudgetAccountsQuery{AccountingNumber: accountingNumber, StatusDate: statusDate})
	if err != nil {
		h.failed(c, err, "List budget accounts")
		return BudgetAccountListView{}, false
	}
	return BudgetAccountListView{
		Page:             Page{Title: "Budget accounts"},
		AccountingNumber: accountingNumber,
		StatusDate:       statusDate,
		BudgetAccounts:   budgetAccounts,
	}, true
}

// List godoc
// @Summary List budget accounts with budget, posted and available amounts
// @Tags budget-accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Router /accounting/{accountingNumber}/budget-accounts [get]
func (h *BudgetAccountHandler) List(c *gin.Context) {
	if view, ok := h.budgetAccounts(c); ok {
		c.HTML(http.StatusOK, "budget-accounts/list", view)
	}
}

func (h *BudgetAccountHandler) Partial(c *gin.Context) {
	if view, ok := h.budgetAccounts(c); ok {
		c.HTML(http.StatusOK, "budget-accounts/partial", view)
	}
}

// Get godoc
// @Summary Show a budget account
// @Tags budget-accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param accountNumber path string true "Account number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Router /accounting/{accountingNumber}/budget-accounts/{accountNumber} [get]
func (h *BudgetAccountHandler) Get(c *gin.Context) {
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

	budgetAccount, err := bus.QueryFor[domain.BudgetAccountStatus](c.Request.Context(), h.queries, accounting.GetBudgetAccountQuery{
		AccountingNumber: accountingNumber,
		AccountNumber:    accountNumber,
		StatusDate:       statusDate,
	})
	if err != nil {
		h.failed(c, err, "Get budget account")
		return
	}
	c.HTML(http.StatusOK, "budget-accounts/detail", BudgetAccountView{
		Page:             Page{Title: budgetAccount.AccountName},
		AccountingNumber: accountingNumber,
		StatusDate:       statusDate,
		BudgetAccount:    budgetAccount,
	})
}

func (h *BudgetAccountHandler) formView(ctx context.Context, accountingNumber int) (BudgetAccountFormView, error) {
	var view BudgetAccountFormView
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := bus.QueryFor[domain.Accounting](ctx, h.queries, accounting.GetAccountingQuery{AccountingNumber: accountingNumber})
		return err
	})
	g.Go(func() error {
		var err error
		view.BudgetAccountGroups, err = bus.QueryFor[[]domain.BudgetAccountGroup](ctx, h.queries, accounting.GetBudgetAccountGroupsQuery{})
		return err
	})
	if err := g.Wait(); err != nil {
		return BudgetAccountFormView{}, err
	}
	view.AccountingNumber = accountingNumber
	return view, nil
}

func (h *BudgetAccountHandler) renderForm(c *gin.Context, status int, view BudgetAccountFormView) {
	if view.IsNew {
		view.Title = "New budget account"
		view.Action = fmt.Sprintf("/accounting/%d/budget-accounts/create", view.AccountingNumber)
	} else {
		view.Title = fmt.Sprintf("Edit budget account %s", view.Form.AccountNumber)
		view.Action = fmt.Sprintf("/accounting/%d/budget-accounts/%s/update", view.AccountingNumber, view.Form.AccountNumber)
	}
	c.HTML(status, "budget-accounts/form", view)
}

func (h *BudgetAccountHandler) rerender(c *gin.Context, accountingNumber int, isNew bool, form CreateBudgetAccountForm, errs map[string]string) {
	view, err := h.formView(c.Request.Context(), accountingNumber)
	if err != nil {
		h.failed(c, err, "Load budget account form")
		return
	}
	view.IsNew = isNew
	view.Form = form
	view.Errors = errs
	h.renderForm(c, http.StatusUnprocessableEntity, view)
}

// CreateForm godoc
// @Summary Form for a new budget account
// @Tags budget-accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Router /accounting/{accountingNumber}/budget-accounts/create [get]
func (h *BudgetAccountHandler) CreateForm(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	view, err := h.formView(c.Request.Context(), accountingNumber)
	if err != nil {
		h.failed(c, err, "Load budget account form")
		return
	}
	view.IsNew = true
	h.renderForm(c, http.StatusOK, view)
}

// Create godoc
// @Summary Create a budget account
// @Tags budget-accounts
// @Accept x-www-form-urlencoded
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Success 303 {string} string "Redirect to the budget accounts"
// @Failure 422 {string} string "Form with errors"
// @Router /accounting/{accountingNumber}/budget-accounts/create [post]
func (h *BudgetAccountHandler) Create(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}

	var form CreateBudgetAccountForm
	if err := c.ShouldBind(&form); err != nil {
		logger.GetLogger().WithError(err).Info("Invalid budget account form")
		h.rerender(c, accountingNumber, true, form, bindingErrors(err))
		return
	}
	form.AccountNumber = domain.NormalizeAccountNumber(form.AccountNumber)

	err := bus.Publish(c.Request.Context(), h.commands, accounting.CreateBudgetAccountCommand{
		AccountingNumber:         accountingNumber,
		AccountNumber:            form.AccountNumber,
		AccountName:              form.AccountName,
		Description:              form.Description,
		Note:                     form.Note,
		BudgetAccountGroupNumber: form.BudgetAccountGroupNumber,
		BudgetInfos:              budgetInfos(form.BudgetAccountForm, h.today()),
	})
	if err != nil {
		if errs, ok := rejected(err); ok {
			h.rerender(c, accountingNumber, true, form, errs)
			return
		}
		h.failed(c, err, "Create budget account")
		return
	}
	h.redirect(c, fmt.Sprintf("/accounting/%d/budget-accounts", accountingNumber))
}

// UpdateForm godoc
// @Summary Form for editing a budget account
// @Tags budget-accounts
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param accountNumber path string true "Account number"
// @Router /accounting/{accountingNumber}/budget-accounts/{accountNumber}/update [get]
func (h *BudgetAccountHandler) UpdateForm(c *gin.Context) {
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
		h.failed(c, err, "Load budget account form")
		return
	}
	budgetAccount, err := bus.QueryFor[domain.BudgetAccountStatus](c.Request.Context(), h.queries, accounting.GetBudgetAccountQuery{
		AccountingNumber: accountingNumber,
		AccountNumber:    accountNumber,
		StatusDate:       h.today(),
	})
	if err != nil {
		h.failed(c, err, "Get budget account")
		return
	}
	view.Form = budgetAccountFormOf(budgetAccount)
	h.renderForm(c, http.StatusOK, view)
}

// Update godoc
// @Summary Update a budget account
// @Tags budget-accounts
// @Accept x-www-form-urlencoded
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param accountNumber path string true "Account number"
// @Success 303 {string} string "Redirect to the budget accounts"
// @Failure 422 {string} string "Form with errors"
// @Router /accounting/{accountingNumber}/budget-accounts/{accountNumber}/update [post]
func (h *BudgetAccountHandler) Update(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	accountNumber, ok := h.accountNumber(c)
	if !ok {
		return
	}

	var values BudgetAccountForm
	if err := c.ShouldBind(&values); err != nil {
		logger.GetLogger().WithError(err).Info("Invalid budget account form")
		h.rerender(c, accountingNumber, false, CreateBudgetAccountForm{AccountNumber: accountNumber, BudgetAccountForm: values}, bindingErrors(err))
		return
	}

	err := bus.Publish(c.Request.Context(), h.commands, accounting.UpdateBudgetAccountCommand{
		AccountingNumber:         accountingNumber,
		AccountNumber:            accountNumber,
		AccountName:              values.AccountName,
		Description:              values.Description,
		Note:                     values.Note,
		BudgetAccountGroupNumber: values.BudgetAccountGroupNumber,
		BudgetInfos:              budgetInfos(values, h.today()),
	})
	if err != nil {
		if errs, ok := rejected(err); ok {
			h.rerender(c, accountingNumber, false, CreateBudgetAccountForm{AccountNumber: accountNumber, BudgetAccountForm: values}, errs)
			return
		}
		h.failed(c, err, "Update budget account")
		return
	}
	h.redirect(c, fmt.Sprintf("/accounting/%d/budget-accounts", accountingNumber))
}

// Delete godoc
// @Summary Delete a budget account
// @Tags budget-accounts
// @Param accountingNumber path int true "Accounting number"
// @Param accountNumber path string true "Account number"
// @Success 303 {string} string "Redirect to the budget accounts"
// @Router /accounting/{accountingNumber}/budget-accounts/{accountNumber}/delete [post]
func (h *BudgetAccountHandler) Delete(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	accountNumber, ok := h.accountNumber(c)
	if !ok {
		return
	}
	if err := bus.Publish(c.Request.Context(), h.commands, accounting.DeleteBudgetAccountCommand{AccountingNumber: accountingNumber, AccountNumber: accountNumber}); err != nil {
		h.failed(c, err, "Delete budget account")
		return
	}
	h.redirect(c, fmt.Sprintf("/accounting/%d/budget-accounts", accountingNumber))
}

// Export godoc
// @Summary Export the budget accounts as CSV
// @Tags budget-accounts
// @Produce text/csv
// @Param accountingNumber path int true "Accounting number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Success 200 {file} file "Semicolon separated file"
// @Router /accounting/{accountingNumber}/budget-accounts/export [get]
func (h *BudgetAccountHandler) Export(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	statusDate, ok := h.statusDate(c)
	if !ok {
		return
	}

	file, err := bus.QueryFor[accounting.ExportFile](c.Request.Context(), h.queries, accounting.ExportBudgetAccountsQuery{AccountingNumber: accountingNumber, StatusDate: statusDate})
	if err != nil {
		h.failed(c, err, "Export budget accounts")
		return
	}
	download(c, file)
}
