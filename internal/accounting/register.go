package accounting

import (
	"time"

	"osintranet/internal/bus"
	"osintranet/internal/cache"
)

// Register wires every accounting handler into the buses. Query results are
// cached in store for ttl when store is not nil.
func Register(commands *bus.Commands, queries *bus.Queries, svc *Service, store cache.Store, ttl time.Duration) {
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetAccountings))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetAccounting))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetAccounts))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetAccount))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetBudgetAccounts))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetBudgetAccount))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetContactAccounts))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetContactAccount))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetDebtors))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetCreditors))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetPostingLines))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetBalanceSheet))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetAccountGroups))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetAccountGroup))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetBudgetAccountGroups))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetBudgetAccountGroup))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetPaymentTerms))
	bus.HandleQuery(queries, cache.Query(store, ttl, svc.GetPaymentTerm))

	bus.HandleQuery(queries, svc.ExportAccounts)
	bus.HandleQuery(queries, svc.ExportBudgetAccounts)
	bus.HandleQuery(queries, svc.ExportContactAccounts)

	bus.HandleCommand(commands, svc.CreateAccounting)
	bus.HandleCommand(commands, svc.UpdateAccounting)
	bus.HandleCommand(commands, svc.DeleteAccounting)
	bus.HandleCommand(commands, svc.CreateAccount)
	bus.HandleCommand(commands, svc.UpdateAccount)
	bus.HandleCommand(commands, svc.DeleteAccount)
	bus.HandleCommand(commands, svc.CreateBudgetAccount)
	bus.HandleCommand(commands, svc.UpdateBudgetAccount)
	bus.HandleCommand(commands, svc.DeleteBudgetAccount)
	bus.HandleCommand(commands, svc.CreateContactAccount)
	bus.HandleCommand(commands, svc.UpdateContactAccount)
	bus.HandleCommand(commands, svc.DeleteContactAccount)
	bus.HandleCommand(commands, svc.CreateAccountGroup)
	bus.HandleCommand(commands, svc.UpdateAccountGroup)
	bus.HandleCommand(commands, svc.DeleteAccountGroup)
	bus.HandleCommand(commands, svc.CreateBudgetAccountGroup)
	bus.HandleCommand(commands, svc.UpdateBudgetAccountGroup)
	bus.HandleCommand(commands, svc.DeleteBudgetAccountGroup)
	bus.HandleCommand(commands, svc.CreatePaymentTerm)
	bus.HandleCommand(commands, svc.UpdatePaymentTerm)
	bus.HandleCommand(commands, svc.DeletePaymentTerm)
	bus.HandleCommandWithResult(commands, svc.ApplyPostingJournal)
}
