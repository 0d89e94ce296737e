package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"osintranet/internal/accounting"
	"osintranet/internal/bus"
	"osintranet/internal/domain"
	"osintranet/pkg/logger"
)

// commonKind describes one of the small lookup tables shared by every
// accounting: account groups, budget account groups and payment terms.
type commonKind struct {
	title    string
	singular string
	path     string
	withType bool

	list   func(ctx context.Context, queries bus.QueryBus) ([]CommonItem, error)
	get    func(ctx context.Context, queries bus.QueryBus, number int) (CommonItem, error)
	create func(form CreateCommonForm) interface{}
	update func(form CreateCommonForm) interface{}
	delete func(number int) interface{}
}

// CommonHandler serves list, create, update and delete for a commonKind.
type CommonHandler struct {
	controller
	kind commonKind
}

func NewAccountGroupHandler(commands bus.CommandBus, queries bus.QueryBus, now func() time.Time) *CommonHandler {
	return &CommonHandler{controller: newController(commands, queries, now), kind: accountGroupKind}
}

func NewBudgetAccountGroupHandler(commands bus.CommandBus, queries bus.QueryBus, now func() time.Time) *CommonHandler {
	return &CommonHandler{controller: newController(commands, queries, now), kind: budgetAccountGroupKind}
}

func NewPaymentTermHandler(commands bus.CommandBus, queries bus.QueryBus, now func() time.Time) *CommonHandler {
	return &CommonHandler{controller: newController(commands, queries, now), kind: paymentTermKind}
}

var accountGroupKind = commonKind{
	title:    "Account groups",
	singular: "account group",
	path:     "/accounting/account-groups",
	withType: true,
	list: func(ctx context.Context, queries bus.QueryBus) ([]CommonItem, error) {
		groups, err := bus.QueryFor[[]domain.AccountGroup](ctx, queries, accounting.GetAccountGroupsQuery{})
		if err != nil {
			return nil, err
		}
		items := make([]CommonItem, 0, len(groups))
		for _, g := range groups {
			items = append(items, accountGroupItem(g))
		}
		return items, nil
	},
	get: func(ctx context.Context, queries bus.QueryBus, number int) (CommonItem, error) {
		g, err := bus.QueryFor[domain.AccountGroup](ctx, queries, accounting.GetAccountGroupQuery{Number: number})
		return accountGroupItem(g), err
	},
	create: func(f CreateCommonForm) interface{} {
		return accounting.CreateAccountGroupCommand{Number: f.Number, Name: f.Name, AccountGroupType: domain.AccountGroupType(f.AccountGroupType)}
	},
	update: func(f CreateCommonForm) interface{} {
		return accounting.UpdateAccountGroupCommand{Number: f.Number, Name: f.Name, AccountGroupType: domain.AccountGroupType(f.AccountGroupType)}
	},
	delete: func(number int) interface{} {
		return accounting.DeleteAccountGroupCommand{Number: number}
	},
}

func accountGroupItem(g domain.AccountGroup) CommonItem {
	return CommonItem{Number: g.Number, Name: g.Name, AccountGroupType: string(g.AccountGroupType)}
}

var budgetAccountGroupKind = commonKind{
	title:    "Budget account groups",
	singular: "budget account group",
	path:     "/accounting/budget-account-groups",
	list: func(ctx context.Context, queries bus.QueryBus) ([]CommonItem, error) {
		groups, err := bus.QueryFor[[]domain.BudgetAccountGroup](ctx, queries, accounting.GetBudgetAccountGroupsQuery{})
		if err != nil {
			return nil, err
		}
		items := make([]CommonItem, 0, len(groups))
		for _, g := range groups {
			items = append(items, CommonItem{Number: g.Number, Name: g.Name})
		}
		return items, nil
	},
	get: func(ctx context.Context, queries bus.QueryBus, number int) (CommonItem, error) {
		g, err := bus.QueryFor[domain.BudgetAccountGroup](ctx, queries, accounting.GetBudgetAccountGroupQuery{Number: number})
		return CommonItem{Number: g.Number, Name: g.Name}, err
	},
	create: func(f CreateCommonForm) interface{} {
		return accounting.CreateBudgetAccountGroupCommand{Number: f.Number, Name: f.Name}
	},
	update: func(f CreateCommonForm) interface{} {
		return accounting.UpdateBudgetAccountGroupCommand{Number: f.Number, Name: f.Name}
	},
	delete: func(number int) interface{} {
		return accounting.DeleteBudgetAccountGroupCommand{Number: number}
	},
}

var paymentTermKind = commonKind{
	title:    "Payment terms",
	singular: "payment term",
	path:     "/accounting/payment-terms",
	list: func(ctx context.Context, queries bus.QueryBus) ([]CommonItem, error) {
		terms, err := bus.QueryFor[[]domain.PaymentTerm](ctx, queries, accounting.GetPaymentTermsQuery{})
		if err != nil {
			return nil, err
		}
		items := make([]CommonItem, 0, len(terms))
		for _, t := range terms {
			items = append(items, CommonItem{Number: t.Number, Name: t.Name})
		}
		return items, nil
	},
	get: func(ctx context.Context, queries bus.QueryBus, number int) (CommonItem, error) {
		t, err := bus.QueryFor[domain.PaymentTerm](ctx, queries, accounting.GetPaymentTermQuery{Number: number})
		return CommonItem{Number: t.Number, Name: t.Name}, err
	},
	create: func(f CreateCommonForm) interface{} {
		return accounting.CreatePaymentTermCommand{Number: f.Number, Name: f.Name}
	},
	update: func(f CreateCommonForm) interface{} {
		return accounting.UpdatePaymentTermCommand{Number: f.Number, Name: f.Name}
	},
	delete: func(number int) interface{} {
		return accounting.DeletePaymentTermCommand{Number: number}
	},
}

// List godoc
// @Summary List account groups, budget account groups or payment terms
// @Tags common
// @Produce html
// @Router /accounting/account-groups [get]
// @Router /accounting/budget-account-groups [get]
// @Router /accounting/payment-terms [get]
func (h *CommonHandler) List(c *gin.Context) {
	items, err := h.kind.list(c.Request.Context(), h.queries)
	if err != nil {
		h.failed(c, err, "List "+h.kind.title)
		return
	}
	c.HTML(http.StatusOK, "common/list", CommonListView{
		Page:     Page{Title: h.kind.title},
		Path:     h.kind.path,
		WithType: h.kind.withType,
		Items:    items,
	})
}

func (h *CommonHandler) renderForm(c *gin.Context, status int, isNew bool, form CreateCommonForm, errs map[string]string) {
	view := CommonFormView{
		Page:     Page{Errors: errs},
		IsNew:    isNew,
		WithType: h.kind.withType,
		Form:     form,
	}
	if isNew {
		view.Title = "New " + h.kind.singular
		view.Action = h.kind.path + "/create"
	} else {
		view.Title = fmt.Sprintf("Edit %s %d", h.kind.singular, form.Number)
		view.Action = fmt.Sprintf("%s/%d/update", h.kind.path, form.Number)
	}
	c.HTML(status, "common/form", view)
}

func (h *CommonHandler) CreateForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, true, CreateCommonForm{}, nil)
}

// Create godoc
// @Summary Create an account group, budget account group or payment term
// @Tags common
// @Accept x-www-form-urlencoded
// @Produce html
// @Success 303 {string} string "Redirect to the list"
// @Failure 422 {string} string "Form with errors"
// @Router /accounting/account-groups/create [post]
// @Router /accounting/budget-account-groups/create [post]
// @Router /accounting/payment-terms/create [post]
func (h *CommonHandler) Create(c *gin.Context) {
	var form CreateCommonForm
	if err := c.ShouldBind(&form); err != nil {
		logger.GetLogger().WithError(err).Info("Invalid " + h.kind.singular + " form")
		h.renderForm(c, http.StatusUnprocessableEntity, true, form, bindingErrors(err))
		return
	}
	if err := bus.Publish(c.Request.Context(), h.commands, h.kind.create(form)); err != nil {
		if errs, ok := rejected(err); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, true, form, errs)
			return
		}
		h.failed(c, err, "Create "+h.kind.singular)
		return
	}
	h.redirect(c, h.kind.path)
}

func (h *CommonHandler) UpdateForm(c *gin.Context) {
	number, ok := h.positiveParam(c, "number")
	if !ok {
		return
	}
	item, err := h.kind.get(c.Request.Context(), h.queries, number)
	if err != nil {
		h.failed(c, err, "Get "+h.kind.singular)
		return
	}
	h.renderForm(c, http.StatusOK, false, CreateCommonForm{
		Number:     item.Number,
		CommonForm: CommonForm{Name: item.Name, AccountGroupType: item.AccountGroupType},
	}, nil)
}

// Update godoc
// @Summary Update an account group, budget account group or payment term
// @Tags common
// @Accept x-www-form-urlencoded
// @Produce html
// @Param number path int true "Number"
// @Success 303 {string} string "Redirect to the list"
// @Failure 422 {string} string "Form with errors"
// @Router /accounting/account-groups/{number}/update [post]
// @Router /accounting/budget-account-groups/{number}/update [post]
// @Router /accounting/payment-terms/{number}/update [post]
func (h *CommonHandler) Update(c *gin.Context) {
	number, ok := h.positiveParam(c, "number")
	if !ok {
		return
	}
	var values CommonForm
	if err := c.ShouldBind(&values); err != nil {
		logger.GetLogger().WithError(err).Info("Invalid " + h.kind.singular + " form")
		h.renderForm(c, http.StatusUnprocessableEntity, false, CreateCommonForm{Number: number, CommonForm: values}, bindingErrors(err))
		return
	}
	form := CreateCommonForm{Number: number, CommonForm: values}
	if err := bus.Publish(c.Request.Context(), h.commands, h.kind.update(form)); err != nil {
		if errs, ok := rejected(err); ok {
			h.renderForm(c, http.StatusUnprocessableEntity, false, form, errs)
			return
		}
		h.failed(c, err, "Update "+h.kind.singular)
		return
	}
	h.redirect(c, h.kind.path)
}

// Delete godoc
// @Summary Delete an account group, budget account group or payment term
// @Tags common
// @Param number path int true "Number"
// @Success 303 {string} string "Redirect to the list"
// @Failure 422 {string} string "Still in use"
// @Router /accounting/account-groups/{number}/delete [post]
// @Router /accounting/budget-account-groups/{number}/delete [post]
// @Router /accounting/payment-terms/{number}/delete [post]
func (h *CommonHandler) Delete(c *gin.Context) {
	number, ok := h.positiveParam(c, "number")
	if !ok {
		return
	}
	if err := bus.Publish(c.Request.Context(), h.commands, h.kind.delete(number)); err != nil {
		h.failed(c, err, "Delete "+h.kind.singular)
		return
	}
	h.redirect(c, h.kind.path)
}
