package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"osintranet/internal/bus"
	"osintranet/internal/parser"
)

// Handlers holds every accounting controller.
type Handlers struct {
	Accounting          *AccountingHandler
	Accounts            *AccountHandler
	BudgetAccounts      *BudgetAccountHandler
	ContactAccounts     *ContactAccountHandler
	Posting             *PostingHandler
	AccountGroups       *CommonHandler
	BudgetAccountGroups *CommonHandler
	PaymentTerms        *CommonHandler
}

// NewHandlers builds every controller on the same buses and clock.
func NewHandlers(commands bus.CommandBus, queries bus.QueryBus, journalParser parser.PostingJournalParser, now func() time.Time) *Handlers {
	return &Handlers{
		Accounting:          NewAccountingHandler(commands, queries, now),
		Accounts:            NewAccountHandler(commands, queries, now),
		BudgetAccounts:      NewBudgetAccountHandler(commands, queries, now),
		ContactAccounts:     NewContactAccountHandler(commands, queries, now),
		Posting:             NewPostingHandler(commands, queries, journalParser, now),
		AccountGroups:       NewAccountGroupHandler(commands, queries, now),
		BudgetAccountGroups: NewBudgetAccountGroupHandler(commands, queries, now),
		PaymentTerms:        NewPaymentTermHandler(commands, queries, now),
	}
}

// Routes mounts the accounting routes under rg.
func Routes(rg *gin.RouterGroup, h *Handlers) {
	acc := rg.Group("/accounting")
	{
		acc.GET("", h.Accounting.List)
		acc.GET("/create", h.Accounting.CreateForm)
		acc.POST("/create", h.Accounting.Create)

		common(acc.Group("/account-groups"), h.AccountGroups)
		common(acc.Group("/budget-account-groups"), h.BudgetAccountGroups)
		common(acc.Group("/payment-terms"), h.PaymentTerms)

		one := acc.Group("/:accountingNumber")
		one.GET("", h.Accounting.Get)
		one.GET("/update", h.Accounting.UpdateForm)
		one.POST("/update", h.Accounting.Update)
		one.POST("/delete", h.Accounting.Delete)
		one.GET("/balance-sheet", h.Accounting.BalanceSheet)

		accounts := one.Group("/accounts")
		accounts.GET("", h.Accounts.List)
		accounts.GET("/partial", h.Accounts.Partial)
		accounts.GET("/export", h.Accounts.Export)
		accounts.GET("/create", h.Accounts.CreateForm)
		accounts.POST("/create", h.Accounts.Create)
		accounts.GET("/:accountNumber", h.Accounts.Get)
		accounts.GET("/:accountNumber/update", h.Accounts.UpdateForm)
		accounts.POST("/:accountNumber/update", h.Accounts.Update)
		accounts.POST("/:accountNumber/delete", h.Accounts.Delete)

		budget := one.Group("/budget-accounts")
		budget.GET("", h.BudgetAccounts.List)
		budget.GET("/partial", h.BudgetAccounts.Partial)
		budget.GET("/export", h.BudgetAccounts.Export)
		budget.GET("/create", h.BudgetAccounts.CreateForm)
		budget.POST("/create", h.BudgetAccounts.Create)
		budget.GET("/:accountNumber", h.BudgetAccounts.Get)
		budget.GET("/:accountNumber/update", h.BudgetAccounts.UpdateForm)
		budget.POST("/:accountNumber/update", h.BudgetAccounts.Update)
		budget.POST("/:accountNumber/delete", h.BudgetAccounts.Delete)

		contacts := one.Group("/contact-accounts")
		contacts.GET("", h.ContactAccounts.List)
		contacts.GET("/partial", h.ContactAccounts.Partial)
		contacts.GET("/export", h.ContactAccounts.Export)
		contacts.GET("/debtors", h.ContactAccounts.Debtors)
		contacts.GET("/creditors", h.ContactAccounts.Creditors)
		contacts.GET("/create", h.ContactAccounts.CreateForm)
		contacts.POST("/create", h.ContactAccounts.Create)
		contacts.GET("/:accountNumber", h.ContactAccounts.Get)
		contacts.GET("/:accountNumber/update", h.ContactAccounts.UpdateForm)
		contacts.POST("/:accountNumber/update", h.ContactAccounts.Update)
		contacts.POST("/:accountNumber/delete", h.ContactAccounts.Delete)

		one.GET("/posting-lines", h.Posting.PostingLines)
		one.GET("/posting-journal", h.Posting.PostingJournal)
		one.POST("/posting-journal/apply", h.Posting.Apply)
		one.POST("/posting-journal/import", h.Posting.Import)
	}
}

func common(g *gin.RouterGroup, h *CommonHandler) {
	g.GET("", h.List)
	g.GET("/create", h.CreateForm)
	g.POST("/create", h.Create)
	g.GET("/:number/update", h.UpdateForm)
	g.POST("/:number/update", h.Update)
	g.POST("/:number/delete", h.Delete)
}
