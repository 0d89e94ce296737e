package accounting_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osintranet/internal/accounting"
	"osintranet/internal/bus"
	"osintranet/internal/cache"
	"osintranet/internal/domain"
	"osintranet/internal/parser"
	"osintranet/internal/repository"
)

var now = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func day(d int, m time.Month) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

type recordingArchive struct {
	names []string
	data  [][]byte
}

func (a *recordingArchive) Store(ctx context.Context, name, contentType string, data []byte) error {
	a.names = append(a.names, name)
	a.data = append(a.data, data)
	return nil
}

type fixture struct {
	commands *bus.Commands
	queries  *bus.Queries
	store    *repository.MemoryStore
	archive  *recordingArchive
}

func setup(t *testing.T, cacheStore cache.Store) *fixture {
	t.Helper()
	return setupAt(t, cacheStore, now)
}

// setupAt seeds an accounting whose service clock reads clock.
func setupAt(t *testing.T, cacheStore cache.Store, clock time.Time) *fixture {
	t.Helper()
	f := &fixture{
		store:   repository.NewMemoryStore(),
		archive: &recordingArchive{},
	}
	v := validator.New()
	f.commands = bus.NewCommands(bus.Validation(v), cache.Invalidate(cacheStore))
	f.queries = bus.NewQueries(bus.Validation(v))

	svc := accounting.NewService(f.store, accounting.Options{
		Archive: f.archive,
		Now:     func() time.Time { return clock },
	})
	accounting.Register(f.commands, f.queries, svc, cacheStore, time.Minute)

	ctx := context.Background()
	publish := func(cmd interface{}) {
		require.NoError(t, bus.Publish(ctx, f.commands, cmd))
	}
	publish(accounting.CreateAccountingCommand{Number: 1, Name: "Household", BalanceBelowZero: domain.BalanceBelowZeroCreditors, BackDating: 30})
	publish(accounting.CreateAccountGroupCommand{Number: 1, Name: "Bank", AccountGroupType: domain.Assets})
	publish(accounting.CreateAccountGroupCommand{Number: 2, Name: "Loans", AccountGroupType: domain.Liabilities})
	publish(accounting.CreateBudgetAccountGroupCommand{Number: 1, Name: "Household"})
	publish(accounting.CreatePaymentTermCommand{Number: 1, Name: "Net 8"})
	publish(accounting.CreateAccountCommand{
		AccountingNumber: 1, AccountNumber: " dankort ", AccountName: "Dankort", AccountGroupNumber: 1,
		CreditInfos: []accounting.CreditInfoValues{{Year: 2024, Month: 1, Credit: dec("1000")}},
	})
	publish(accounting.CreateAccountCommand{AccountingNumber: 1, AccountNumber: "LOAN", AccountName: "Loan", AccountGroupNumber: 2})
	publish(accounting.CreateBudgetAccountCommand{
		AccountingNumber: 1, AccountNumber: "SALARY", AccountName: "Salary", BudgetAccountGroupNumber: 1,
		BudgetInfos: []accounting.BudgetInfoValues{{Year: 2024, Month: 3, Income: dec("10000"), Expenses: decimal.Zero}},
	})
	publish(accounting.CreateBudgetAccountCommand{
		AccountingNumber: 1, AccountNumber: "FOOD", AccountName: "Food", BudgetAccountGroupNumber: 1,
		BudgetInfos: []accounting.BudgetInfoValues{
			{Year: 2024, Month: 2, Income: decimal.Zero, Expenses: dec("2500")},
			{Year: 2024, Month: 3, Income: decimal.Zero, Expenses: dec("3000")},
		},
	})
	publish(accounting.CreateContactAccountCommand{AccountingNumber: 1, AccountNumber: "PETER", AccountName: "Peter", MailAddress: "peter@example.com", PaymentTermNumber: 1})
	return f
}

func (f *fixture) apply(t *testing.T, lines ...accounting.ApplyPostingLine) (domain.PostingJournalResult, error) {
	t.Helper()
	return bus.PublishFor[domain.PostingJournalResult](context.Background(), f.commands, accounting.ApplyPostingJournalCommand{
		AccountingNumber: 1,
		PostingLines:     lines,
	})
}

func salaryAndGroceries() []accounting.ApplyPostingLine {
	return []accounting.ApplyPostingLine{
		{PostingDate: day(10, time.March), AccountNumber: "DANKORT", Details: "Salary", BudgetAccountNumber: "salary", Debit: dec("10000"), Credit: decimal.Zero},
		{PostingDate: day(12, time.March).Add(14 * time.Hour), AccountNumber: "dankort", Details: "Groceries", BudgetAccountNumber: "FOOD", Debit: decimal.Zero, Credit: dec("11500")},
	}
}

func TestApplyPostingJournal_BooksLinesAndWarns(t *testing.T) {
	f := setup(t, nil)

	result, err := f.apply(t, salaryAndGroceries()...)
	require.NoError(t, err)

	require.Len(t, result.PostingLines, 2)
	assert.Equal(t, 1, result.PostingLines[0].SortOrder)
	assert.Equal(t, 2, result.PostingLines[1].SortOrder)
	assert.Equal(t, "SALARY", result.PostingLines[0].BudgetAccountNumber)
	assert.Equal(t, day(12, time.March), result.PostingLines[1].PostingDate)
	assert.NotEqual(t, result.PostingLines[0].Identifier, result.PostingLines[1].Identifier)

	require.Len(t, result.PostingWarnings, 2)
	assert.Equal(t, domain.AccountIsBeyondLimit, result.PostingWarnings[0].Reason)
	assert.True(t, result.PostingWarnings[0].Amount.Equal(dec("500")))
	assert.Equal(t, domain.ExpectedExpensesHaveAlreadyBeenReached, result.PostingWarnings[1].Reason)
	assert.Equal(t, "FOOD", result.PostingWarnings[1].AccountNumber)
	assert.True(t, result.PostingWarnings[1].Amount.Equal(dec("8500")))

	again, err := f.apply(t, accounting.ApplyPostingLine{
		PostingDate: day(14, time.March), AccountNumber: "DANKORT", Details: "Refund", Debit: dec("600"), Credit: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, again.PostingLines[0].SortOrder)
	assert.Empty(t, again.PostingWarnings)
}

func TestApplyPostingJournal_IncomeShortfallWarns(t *testing.T) {
	f := setup(t, nil)

	result, err := f.apply(t, accounting.ApplyPostingLine{
		PostingDate: day(1, time.March), AccountNumber: "DANKORT", Details: "Part salary", BudgetAccountNumber: "SALARY", Debit: dec("4000"), Credit: decimal.Zero,
	})
	require.NoError(t, err)

	require.Len(t, result.PostingWarnings, 1)
	assert.Equal(t, domain.ExpectedIncomeHasNotBeenReached, result.PostingWarnings[0].Reason)
	assert.True(t, result.PostingWarnings[0].Amount.Equal(dec("6000")))
}

func TestApplyPostingJournal_RejectsWholeJournal(t *testing.T) {
	f := setup(t, nil)

	_, err := f.apply(t,
		accounting.ApplyPostingLine{PostingDate: day(16, time.March), AccountNumber: "DANKORT", Details: "Tomorrow", Debit: dec("1"), Credit: decimal.Zero},
		accounting.ApplyPostingLine{PostingDate: day(1, time.February), AccountNumber: "DANKORT", Details: "Too old", Debit: dec("1"), Credit: decimal.Zero},
		accounting.ApplyPostingLine{PostingDate: day(10, time.March), AccountNumber: "NOPE", Details: "Unknown", BudgetAccountNumber: "NOPE", ContactAccountNumber: "NOPE", Debit: dec("1"), Credit: decimal.Zero},
		accounting.ApplyPostingLine{PostingDate: day(10, time.March), AccountNumber: "DANKORT", Details: "Fine", Debit: dec("1"), Credit: decimal.Zero},
	)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "PostingLines[0].PostingDate")
	assert.Contains(t, verr.Fields["PostingLines[1].PostingDate"], "2024-02-14")
	assert.Contains(t, verr.Fields, "PostingLines[2].AccountNumber")
	assert.Contains(t, verr.Fields, "PostingLines[2].BudgetAccountNumber")
	assert.Contains(t, verr.Fields, "PostingLines[2].ContactAccountNumber")
	assert.NotContains(t, verr.Fields, "PostingLines[3].AccountNumber")

	lines, err := bus.QueryFor[[]domain.PostingLine](context.Background(), f.queries, accounting.GetPostingLinesQuery{AccountingNumber: 1})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestApplyPostingJournal_AmountRules(t *testing.T) {
	f := setup(t, nil)

	_, err := f.apply(t,
		accounting.ApplyPostingLine{PostingDate: day(10, time.March), AccountNumber: "DANKORT", Details: "Both", Debit: dec("1"), Credit: dec("1")},
		accounting.ApplyPostingLine{PostingDate: day(10, time.March), AccountNumber: "DANKORT", Details: "None", Debit: decimal.Zero, Credit: decimal.Zero},
		accounting.ApplyPostingLine{PostingDate: day(10, time.March), AccountNumber: "DANKORT", Details: "Negative", Debit: dec("-5"), Credit: decimal.Zero},
	)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
}

func TestApplyPostingJournal_AmountsWithMoreThanTwoDecimals(t *testing.T) {
	f := setup(t, nil)

	_, err := f.apply(t,
		accounting.ApplyPostingLine{PostingDate: day(10, time.March), AccountNumber: "DANKORT", Details: "Tiny", Debit: dec("0.001"), Credit: decimal.Zero},
		accounting.ApplyPostingLine{PostingDate: day(10, time.March), AccountNumber: "DANKORT", Details: "Fine", Debit: decimal.Zero, Credit: dec("12.50")},
	)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must not have more than 2 decimals", verr.Fields["PostingLines[0].Debit"])
	assert.Len(t, verr.Fields, 1)

	err = bus.Publish(context.Background(), f.commands, accounting.UpdateAccountCommand{
		AccountingNumber: 1, AccountNumber: "DANKORT", AccountName: "Dankort", AccountGroupNumber: 1,
		CreditInfos: []accounting.CreditInfoValues{{Year: 2024, Month: 3, Credit: dec("10.125")}},
	})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "CreditInfos[0].Credit")
}

func TestApplyPostingJournal_ClockEastOfUTC(t *testing.T) {
	// Just after midnight in Copenhagen, still the day before in UTC.
	copenhagen := time.FixedZone("CET", 60*60)
	f := setupAt(t, nil, time.Date(2024, 3, 15, 0, 30, 0, 0, copenhagen))
	today, err := parser.ParseDate("2024-03-15")
	require.NoError(t, err)

	_, err = f.apply(t, accounting.ApplyPostingLine{PostingDate: today, AccountNumber: "DANKORT", Details: "Today", Debit: dec("100"), Credit: decimal.Zero})
	require.NoError(t, err)

	_, err = f.apply(t, accounting.ApplyPostingLine{PostingDate: today.AddDate(0, 0, 1), AccountNumber: "DANKORT", Details: "Tomorrow", Debit: dec("1"), Credit: decimal.Zero})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must not be in the future", verr.Fields["PostingLines[0].PostingDate"])

	statuses, err := bus.QueryFor[[]domain.AccountStatus](context.Background(), f.queries, accounting.GetAccountsQuery{AccountingNumber: 1})
	require.NoError(t, err)
	var dankort domain.AccountStatus
	for _, s := range statuses {
		if s.AccountNumber == "DANKORT" {
			dankort = s
		}
	}
	assert.Equal(t, day(15, time.March), dankort.StatusDate)
	assert.True(t, dankort.Balance.Equal(dec("100")), dankort.Balance.String())
}

func TestApplyPostingJournal_ClockWestOfUTC(t *testing.T) {
	// Late evening in Denver, already the next day in UTC.
	denver := time.FixedZone("MST", -7*60*60)
	f := setupAt(t, nil, time.Date(2024, 3, 15, 22, 0, 0, 0, denver))
	earliest, err := parser.ParseDate("2024-02-14")
	require.NoError(t, err)

	result, err := f.apply(t,
		accounting.ApplyPostingLine{PostingDate: earliest, AccountNumber: "DANKORT", Details: "Oldest allowed", Debit: dec("1"), Credit: decimal.Zero},
		accounting.ApplyPostingLine{PostingDate: day(15, time.March), AccountNumber: "DANKORT", Details: "Today", Debit: dec("1"), Credit: decimal.Zero},
	)
	require.NoError(t, err)
	assert.Len(t, result.PostingLines, 2)

	_, err = f.apply(t, accounting.ApplyPostingLine{PostingDate: day(16, time.March), AccountNumber: "DANKORT", Details: "Tomorrow", Debit: dec("1"), Credit: decimal.Zero})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "PostingLines[0].PostingDate")
}

func TestApplyPostingJournal_ConcurrentJournalsGetDistinctSortOrders(t *testing.T) {
	f := setup(t, nil)

	const journals = 20
	var wg sync.WaitGroup
	for i := 0; i < journals; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.apply(t,
				accounting.ApplyPostingLine{PostingDate: day(10, time.March), AccountNumber: "DANKORT", Details: "In", Debit: dec("1"), Credit: decimal.Zero},
				accounting.ApplyPostingLine{PostingDate: day(10, time.March), AccountNumber: "DANKORT", Details: "Out", Debit: decimal.Zero, Credit: dec("1")},
			)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	lines, err := bus.QueryFor[[]domain.PostingLine](context.Background(), f.queries, accounting.GetPostingLinesQuery{AccountingNumber: 1, NumberOfPostingLines: accounting.MaxNumberOfPostingLines})
	require.NoError(t, err)
	require.Len(t, lines, journals*2)
	for i, pl := range lines {
		assert.Equal(t, journals*2-i, pl.SortOrder)
	}
}

func TestApplyPostingJournal_DetailsRequired(t *testing.T) {
	f := setup(t, nil)

	_, err := f.apply(t, accounting.ApplyPostingLine{PostingDate: day(10, time.March), AccountNumber: "DANKORT", Debit: dec("1"), Credit: decimal.Zero})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["PostingLines[0].Details"])
}

func TestApplyPostingJournal_UnknownAccounting(t *testing.T) {
	f := setup(t, nil)

	_, err := bus.PublishFor[domain.PostingJournalResult](context.Background(), f.commands, accounting.ApplyPostingJournalCommand{
		AccountingNumber: 9,
		PostingLines:     salaryAndGroceries(),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountQueries(t *testing.T) {
	f := setup(t, nil)
	_, err := f.apply(t, salaryAndGroceries()...)
	require.NoError(t, err)
	ctx := context.Background()

	status, err := bus.QueryFor[domain.AccountStatus](ctx, f.queries, accounting.GetAccountQuery{AccountingNumber: 1, AccountNumber: "dankort", StatusDate: now})
	require.NoError(t, err)
	assert.Equal(t, "Bank", status.AccountGroup.Name)
	assert.Equal(t, day(15, time.March), status.StatusDate)
	assert.True(t, status.Credit.Equal(dec("1000")))
	assert.True(t, status.Balance.Equal(dec("-1500")))
	assert.True(t, status.Available.Equal(dec("-500")))

	early, err := bus.QueryFor[domain.AccountStatus](ctx, f.queries, accounting.GetAccountQuery{AccountingNumber: 1, AccountNumber: "DANKORT", StatusDate: day(11, time.March)})
	require.NoError(t, err)
	assert.True(t, early.Balance.Equal(dec("10000")))

	all, err := bus.QueryFor[[]domain.AccountStatus](ctx, f.queries, accounting.GetAccountsQuery{AccountingNumber: 1})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, day(15, time.March), all[0].StatusDate)

	_, err = bus.QueryFor[domain.AccountStatus](ctx, f.queries, accounting.GetAccountQuery{AccountingNumber: 1, AccountNumber: "MISSING"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = bus.QueryFor[[]domain.AccountStatus](ctx, f.queries, accounting.GetAccountsQuery{AccountingNumber: 7})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBudgetAccountQueries(t *testing.T) {
	f := setup(t, nil)
	_, err := f.apply(t, salaryAndGroceries()...)
	require.NoError(t, err)

	food, err := bus.QueryFor[domain.BudgetAccountStatus](context.Background(), f.queries, accounting.GetBudgetAccountQuery{AccountingNumber: 1, AccountNumber: "FOOD"})
	require.NoError(t, err)
	assert.True(t, food.ThisMonth.Budget.Equal(dec("-3000")))
	assert.True(t, food.ThisMonth.Posted.Equal(dec("-11500")))
	assert.True(t, food.ThisMonth.Available.Equal(dec("8500")))
	assert.True(t, food.LastMonth.Budget.Equal(dec("-2500")))
	assert.True(t, food.LastMonth.Posted.IsZero())
	assert.True(t, food.YearToDate.Budget.Equal(dec("-5500")))

	all, err := bus.QueryFor[[]domain.BudgetAccountStatus](context.Background(), f.queries, accounting.GetBudgetAccountsQuery{AccountingNumber: 1})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDebtorsAndCreditors(t *testing.T) {
	f := setup(t, nil)
	_, err := f.apply(t, accounting.ApplyPostingLine{
		PostingDate: day(5, time.March), AccountNumber: "DANKORT", Details: "Lent", ContactAccountNumber: "PETER", Debit: dec("300"), Credit: decimal.Zero,
	})
	require.NoError(t, err)
	ctx := context.Background()

	debtors, err := bus.QueryFor[[]domain.ContactAccountStatus](ctx, f.queries, accounting.GetDebtorsQuery{AccountingNumber: 1})
	require.NoError(t, err)
	require.Len(t, debtors, 1)
	assert.Equal(t, "PETER", debtors[0].AccountNumber)
	assert.Equal(t, "Net 8", debtors[0].PaymentTerm.Name)

	creditors, err := bus.QueryFor[[]domain.ContactAccountStatus](ctx, f.queries, accounting.GetCreditorsQuery{AccountingNumber: 1})
	require.NoError(t, err)
	assert.Empty(t, creditors)

	before, err := bus.QueryFor[[]domain.ContactAccountStatus](ctx, f.queries, accounting.GetDebtorsQuery{AccountingNumber: 1, StatusDate: day(4, time.March)})
	require.NoError(t, err)
	assert.Empty(t, before)
}

func TestGetPostingLines_NewestFirstAndClamped(t *testing.T) {
	f := setup(t, nil)
	lines := make([]accounting.ApplyPostingLine, 0, 30)
	for i := 0; i < 30; i++ {
		lines = append(lines, accounting.ApplyPostingLine{PostingDate: day(1+i%14, time.March), AccountNumber: "DANKORT", Details: "x", Debit: dec("1"), Credit: decimal.Zero})
	}
	_, err := f.apply(t, lines...)
	require.NoError(t, err)
	ctx := context.Background()

	def, err := bus.QueryFor[[]domain.PostingLine](ctx, f.queries, accounting.GetPostingLinesQuery{AccountingNumber: 1})
	require.NoError(t, err)
	assert.Len(t, def, accounting.DefaultNumberOfPostingLines)
	assert.Equal(t, day(14, time.March), def[0].PostingDate)

	one, err := bus.QueryFor[[]domain.PostingLine](ctx, f.queries, accounting.GetPostingLinesQuery{AccountingNumber: 1, NumberOfPostingLines: -3})
	require.NoError(t, err)
	assert.Len(t, one, 1)

	many, err := bus.QueryFor[[]domain.PostingLine](ctx, f.queries, accounting.GetPostingLinesQuery{AccountingNumber: 1, NumberOfPostingLines: 1000})
	require.NoError(t, err)
	assert.Len(t, many, 30)
}

func TestGetBalanceSheet(t *testing.T) {
	f := setup(t, nil)
	_, err := f.apply(t, salaryAndGroceries()...)
	require.NoError(t, err)

	sheet, err := bus.QueryFor[domain.BalanceSheet](context.Background(), f.queries, accounting.GetBalanceSheetQuery{AccountingNumber: 1})
	require.NoError(t, err)
	require.Len(t, sheet.Assets, 1)
	require.Len(t, sheet.Liabilities, 1)
	assert.True(t, sheet.TotalAssets.Equal(dec("-1500")))
	assert.True(t, sheet.TotalLiabilities.IsZero())
}

func TestCommands_ReferenceAndConflictErrors(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	err := bus.Publish(ctx, f.commands, accounting.CreateAccountCommand{AccountingNumber: 1, AccountNumber: "CASH", AccountName: "Cash", AccountGroupNumber: 9})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "AccountGroupNumber")

	err = bus.Publish(ctx, f.commands, accounting.CreateContactAccountCommand{AccountingNumber: 5, AccountNumber: "X", AccountName: "X", PaymentTermNumber: 1})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "AccountingNumber")

	err = bus.Publish(ctx, f.commands, accounting.CreateAccountCommand{AccountingNumber: 1, AccountNumber: "DANKORT", AccountName: "Again", AccountGroupNumber: 1})
	assert.ErrorIs(t, err, domain.ErrExists)

	_, err = f.apply(t, salaryAndGroceries()...)
	require.NoError(t, err)
	err = bus.Publish(ctx, f.commands, accounting.DeleteBudgetAccountCommand{AccountingNumber: 1, AccountNumber: "food"})
	assert.ErrorIs(t, err, domain.ErrInUse)

	err = bus.Publish(ctx, f.commands, accounting.DeleteAccountCommand{AccountingNumber: 1, AccountNumber: "LOAN"})
	assert.NoError(t, err)
}

func TestUpdateAccount_MergesCreditInfos(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	err := bus.Publish(ctx, f.commands, accounting.UpdateAccountCommand{
		AccountingNumber: 1, AccountNumber: "DANKORT", AccountName: "Visa/Dankort", AccountGroupNumber: 1,
		CreditInfos: []accounting.CreditInfoValues{{Year: 2024, Month: 3, Credit: dec("2500")}},
	})
	require.NoError(t, err)

	status, err := bus.QueryFor[domain.AccountStatus](ctx, f.queries, accounting.GetAccountQuery{AccountingNumber: 1, AccountNumber: "DANKORT"})
	require.NoError(t, err)
	assert.Equal(t, "Visa/Dankort", status.AccountName)
	assert.Len(t, status.CreditInfos, 2)
	assert.True(t, status.Credit.Equal(dec("2500")))

	err = bus.Publish(ctx, f.commands, accounting.UpdateAccountCommand{
		AccountingNumber: 1, AccountNumber: "DANKORT", AccountName: "x", AccountGroupNumber: 1,
		CreditInfos: []accounting.CreditInfoValues{{Year: 2024, Month: 13, Credit: dec("-1")}},
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "CreditInfos[0].Month")
}

func TestExportAccounts_WritesAndArchivesCSV(t *testing.T) {
	f := setup(t, nil)
	_, err := f.apply(t, salaryAndGroceries()...)
	require.NoError(t, err)

	file, err := bus.QueryFor[accounting.ExportFile](context.Background(), f.queries, accounting.ExportAccountsQuery{AccountingNumber: 1})
	require.NoError(t, err)

	assert.Equal(t, "accounts-1-2024-03-15.csv", file.FileName)
	assert.True(t, strings.HasPrefix(file.ContentType, "text/csv"))
	rows := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, "account_number;account_name;account_group;credit;balance;available", rows[0])
	assert.Equal(t, "DANKORT;Dankort;Bank;1000.00;-1500.00;-500.00", rows[1])
	assert.Equal(t, []string{"accounts-1-2024-03-15.csv"}, f.archive.names)
}

func TestExportBudgetAndContactAccounts(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	budget, err := bus.QueryFor[accounting.ExportFile](ctx, f.queries, accounting.ExportBudgetAccountsQuery{AccountingNumber: 1})
	require.NoError(t, err)
	assert.Contains(t, string(budget.Data), "SALARY;Salary;Household;10000.00;0.00;10000.00")

	contacts, err := bus.QueryFor[accounting.ExportFile](ctx, f.queries, accounting.ExportContactAccountsQuery{AccountingNumber: 1})
	require.NoError(t, err)
	assert.Contains(t, string(contacts.Data), "PETER;Peter;peter@example.com;;1;0.00")
	assert.Len(t, f.archive.names, 2)
}

func TestQueriesAreCachedUntilNextCommand(t *testing.T) {
	store := cache.NewMemoryStore()
	f := setup(t, store)
	ctx := context.Background()

	first, err := bus.QueryFor[[]domain.Accounting](ctx, f.queries, accounting.GetAccountingsQuery{})
	require.NoError(t, err)
	require.Len(t, first, 1)
	// The result next to the generation counter.
	assert.Equal(t, 2, store.Len())

	// Written behind the bus, so the cached result is still served.
	require.NoError(t, f.store.CreateAccounting(ctx, &domain.Accounting{Number: 2, Name: "Side"}))
	cached, err := bus.QueryFor[[]domain.Accounting](ctx, f.queries, accounting.GetAccountingsQuery{})
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	require.NoError(t, bus.Publish(ctx, f.commands, accounting.UpdateAccountingCommand{Number: 2, Name: "Side", BalanceBelowZero: domain.BalanceBelowZeroDebtors}))
	fresh, err := bus.QueryFor[[]domain.Accounting](ctx, f.queries, accounting.GetAccountingsQuery{})
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}
