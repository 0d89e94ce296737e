package handler

import (
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

type AccountingHandler struct {
	controller
}

func NewAccountingHandler(commands bus.CommandBus, queries bus.QueryBus, now func() time.Time) *AccountingHandler {
	return &AccountingHandler{controller: newController(commands, queries, now)}
}

// List godoc
// @Summary List accountings
// @Tags accounting
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /accounting [get]
func (h *AccountingHandler) List(c *gin.Context) {
	accountings, err := bus.QueryFor[[]domain.Accounting](c.Request.Context(), h.queries, accounting.GetAccountingsQuery{})
	if err != nil {
		h.failed(c, err, "List accountings")
		return
	}
	c.HTML(http.StatusOK, "accounting/list", AccountingListView{
		Page:        Page{Title: "Accountings"},
		Accountings: accountings,
	})
}

// Get godoc
// @Summary Show an accounting with its balance sheet and latest posting lines
// @Tags accounting
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Success 200 {string} string "HTML page"
// @Failure 400 {string} string "Invalid route or query value"
// @Failure 404 {string} string "Unknown accounting"
// @Router /accounting/{accountingNumber} [get]
func (h *AccountingHandler) Get(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	statusDate, ok := h.statusDate(c)
	if !ok {
		return
	}

	view := AccountingView{StatusDate: statusDate}
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		view.Accounting, err = bus.QueryFor[domain.Accounting](ctx, h.queries, accounting.GetAccountingQuery{AccountingNumber: accountingNumber})
		return err
	})
	g.Go(func() error {
		var err error
		view.BalanceSheet, err = bus.QueryFor[domain.BalanceSheet](ctx, h.queries, accounting.GetBalanceSheetQuery{AccountingNumber: accountingNumber, StatusDate: statusDate})
		return err
	})
	g.Go(func() error {
		var err error
		view.PostingLines, err = bus.QueryFor[[]domain.PostingLine](ctx, h.queries, accounting.GetPostingLinesQuery{AccountingNumber: accountingNumber, StatusDate: statusDate})
		return err
	})
	if err := g.Wait(); err != nil {
		h.failed(c, err, "Get accounting")
		return
	}

	view.Title = view.Accounting.Name
	c.HTML(http.StatusOK, "accounting/detail", view)
}

func (h *AccountingHandler) renderForm(c *gin.Context, status int, action string, isNew bool, form CreateAccountingForm, errs map[string]string) {
	title := "New accounting"
	if !isNew {
		title = fmt.Sprintf("Edit accounting %d", form.Number)
	}
	c.HTML(status, "accounting/form", AccountingFormView{
		Page:   Page{Title: title, Errors: errs},
		Action: action,
		IsNew:  isNew,
		Form:   form,
	})
}

// CreateForm godoc
// @Summary Form for a new accounting
// @Tags accounting
// @Produce html
// @Router /accounting/create [get]
func (h *AccountingHandler) CreateForm(c *gin.Context) {
	form := CreateAccountingForm{AccountingForm: AccountingForm{
		BalanceBelowZero: string(domain.BalanceBelowZeroCreditors),
		BackDating:       30,
	}}
	h.renderForm(c, http.StatusOK, "/accounting/create", true, form, nil)
}

// Create godoc
// @Summary Create an accounting
// @Tags accounting
// @Accept x-www-form-urlencoded
// @Produce html
// @Success 303 {string} string "Redirect to the accounting"
// @Failure 422 {string} string "Form with errors"
// @Router /accounting/create [post]
func (h *AccountingHandler) Create(c *gin.Context) {
	var form CreateAccountingForm
	if err := c.ShouldBind(&form); err != nil {
		logger.GetLogger().WithError(err).Info("Invalid accounting form")
		h.renderForm(c, http.StatusUnprocessableEntity, "/accounting/create", true, form, bindingErrors(err))
		return
	}

	err := bus.Publish(c.Request.Context(), h.commands, accounting.CreateAccountingCommand{
		Number:           form.Number,
		Name:             form.Name,
		LetterHeadNumber: form.LetterHeadNumber,
		BalanceBelowZero: domain.BalanceBelowZero(form.BalanceBelowZero),
		BackDating:       form.BackDating,
	})
	if err != nil {
		if errs, ok := rejected(err); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, "/accounting/create", true, form, errs)
			return
		}
		h.failed(c, err, "Create accounting")
		return
	}
	h.redirect(c, fmt.Sprintf("/accounting/%d", form.Number))
}

// UpdateForm godoc
// @Summary Form for editing an accounting
// @Tags accounting
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Router /accounting/{accountingNumber}/update [get]
func (h *AccountingHandler) UpdateForm(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	a, err := bus.QueryFor[domain.Accounting](c.Request.Context(), h.queries, accounting.GetAccountingQuery{AccountingNumber: accountingNumber})
	if err != nil {
		h.failed(c, err, "Get accounting")
		return
	}
	h.renderForm(c, http.StatusOK, fmt.Sprintf("/accounting/%d/update", accountingNumber), false, accountingFormOf(a), nil)
}

// Update godoc
// @Summary Update an accounting
// @Tags accounting
// @Accept x-www-form-urlencoded
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Success 303 {string} string "Redirect to the accounting"
// @Failure 422 {string} string "Form with errors"
// @Router /accounting/{accountingNumber}/update [post]
func (h *AccountingHandler) Update(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	action := fmt.Sprintf("/accounting/%d/update", accountingNumber)

	var values AccountingForm
	if err := c.ShouldBind(&values); err != nil {
		logger.GetLogger().WithError(err).Info("Invalid accounting form")
		h.renderForm(c, http.StatusUnprocessableEntity, action, false, CreateAccountingForm{Number: accountingNumber, AccountingForm: values}, bindingErrors(err))
		return
	}

	err := bus.Publish(c.Request.Context(), h.commands, accounting.UpdateAccountingCommand{
		Number:           accountingNumber,
		Name:             values.Name,
		LetterHeadNumber: values.LetterHeadNumber,
		BalanceBelowZero: domain.BalanceBelowZero(values.BalanceBelowZero),
		BackDating:       values.BackDating,
	})
	if err != nil {
		if errs, ok := rejected(err); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, action, false, CreateAccountingForm{Number: accountingNumber, AccountingForm: values}, errs)
			return
		}
		h.failed(c, err, "Update accounting")
		return
	}
	h.redirect(c, fmt.Sprintf("/accounting/%d", accountingNumber))
}

// Delete godoc
// @Summary Delete an accounting
// @Tags accounting
// @Param accountingNumber path int true "Accounting number"
// @Success 303 {string} string "Redirect to the accounting list"
// @Failure 422 {string} string "Accounting is in use"
// @Router /accounting/{accountingNumber}/delete [post]
func (h *AccountingHandler) Delete(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	if err := bus.Publish(c.Request.Context(), h.commands, accounting.DeleteAccountingCommand{Number: accountingNumber}); err != nil {
		h.failed(c, err, "Delete accounting")
		return
	}
	h.redirect(c, "/accounting")
}

// BalanceSheet godoc
// @Summary Show the balance sheet of an accounting
// @Tags accounting
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Router /accounting/{accountingNumber}/balance-sheet [get]
func (h *AccountingHandler) BalanceSheet(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	statusDate, ok := h.statusDate(c)
	if !ok {
		return
	}

	sheet, err := bus.QueryFor[domain.BalanceSheet](c.Request.Context(), h.queries, accounting.GetBalanceSheetQuery{AccountingNumber: accountingNumber, StatusDate: statusDate})
	if err != nil {
		h.failed(c, err, "Get balance sheet")
		return
	}
	c.HTML(http.StatusOK, "balance-sheet", BalanceSheetView{
		Page:             Page{Title: "Balance sheet"},
		AccountingNumber: accountingNumber,
		StatusDate:       statusDate,
		BalanceSheet:     sheet,
	})
}
