package accounting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"osintranet/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestLedger_AccountBalanceIgnoresLaterLines(t *testing.T) {
	ledger := NewLedger([]domain.PostingLine{
		{AccountNumber: "BANK", PostingDate: day(2024, 3, 1), Debit: dec("100"), Credit: decimal.Zero},
		{AccountNumber: "BANK", PostingDate: day(2024, 3, 5), Debit: decimal.Zero, Credit: dec("30")},
		{AccountNumber: "BANK", PostingDate: day(2024, 3, 9), Debit: dec("1000"), Credit: decimal.Zero},
		{AccountNumber: "CASH", PostingDate: day(2024, 3, 1), Debit: dec("5"), Credit: decimal.Zero},
	})

	assert.True(t, ledger.AccountBalance("BANK", day(2024, 3, 5)).Equal(dec("70")))
	assert.True(t, ledger.AccountBalance("BANK", day(2024, 2, 28)).IsZero())
	assert.True(t, ledger.AccountBalance("UNKNOWN", day(2024, 3, 31)).IsZero())
}

func TestAccountStatusOf(t *testing.T) {
	account := domain.Account{AccountNumber: "BANK", AccountGroupNumber: 1}
	account.SetCreditInfo(domain.CreditInfo{YearMonth: domain.YearMonth{Year: 2024, Month: time.January}, Credit: dec("500")})
	ledger := NewLedger([]domain.PostingLine{
		{AccountNumber: "BANK", PostingDate: day(2024, 3, 1), Debit: decimal.Zero, Credit: dec("800")},
	})

	status := AccountStatusOf(account, domain.AccountGroup{Number: 1}, ledger, day(2024, 3, 15))

	assert.True(t, status.Credit.Equal(dec("500")), "credit carries forward from January")
	assert.True(t, status.Balance.Equal(dec("-800")))
	assert.True(t, status.Available.Equal(dec("-300")))
}

func TestBudgetAccountStatusOf(t *testing.T) {
	account := domain.BudgetAccount{AccountNumber: "FOOD"}
	account.SetBudgetInfo(domain.BudgetInfo{YearMonth: domain.YearMonth{Year: 2024, Month: time.February}, Expenses: dec("2500")})
	account.SetBudgetInfo(domain.BudgetInfo{YearMonth: domain.YearMonth{Year: 2024, Month: time.March}, Expenses: dec("3000")})
	account.SetBudgetInfo(domain.BudgetInfo{YearMonth: domain.YearMonth{Year: 2023, Month: time.December}, Expenses: dec("9999")})

	ledger := NewLedger([]domain.PostingLine{
		{AccountNumber: "BANK", BudgetAccountNumber: "FOOD", PostingDate: day(2024, 2, 10), Credit: dec("2000"), Debit: decimal.Zero},
		{AccountNumber: "BANK", BudgetAccountNumber: "FOOD", PostingDate: day(2024, 3, 2), Credit: dec("1200"), Debit: decimal.Zero},
		{AccountNumber: "BANK", BudgetAccountNumber: "FOOD", PostingDate: day(2024, 3, 20), Credit: dec("400"), Debit: decimal.Zero},
	})

	status := BudgetAccountStatusOf(account, domain.BudgetAccountGroup{}, ledger, day(2024, 3, 15))

	assert.True(t, status.ThisMonth.Budget.Equal(dec("-3000")))
	assert.True(t, status.ThisMonth.Posted.Equal(dec("-1200")))
	assert.True(t, status.ThisMonth.Available.Equal(dec("-1800")))

	assert.True(t, status.LastMonth.Budget.Equal(dec("-2500")))
	assert.True(t, status.LastMonth.Posted.Equal(dec("-2000")))
	assert.True(t, status.LastMonth.Available.Equal(dec("-500")))

	assert.True(t, status.YearToDate.Budget.Equal(dec("-5500")))
	assert.True(t, status.YearToDate.Posted.Equal(dec("-3200")))
	assert.True(t, status.YearToDate.Available.Equal(dec("-2300")))
}

func TestBudgetAccountStatusOf_LastMonthAcrossYearBoundary(t *testing.T) {
	account := domain.BudgetAccount{AccountNumber: "SALARY"}
	account.SetBudgetInfo(domain.BudgetInfo{YearMonth: domain.YearMonth{Year: 2023, Month: time.December}, Income: dec("100")})
	ledger := NewLedger([]domain.PostingLine{
		{AccountNumber: "BANK", BudgetAccountNumber: "SALARY", PostingDate: day(2023, 12, 31), Debit: dec("100"), Credit: decimal.Zero},
	})

	status := BudgetAccountStatusOf(account, domain.BudgetAccountGroup{}, ledger, day(2024, 1, 3))

	assert.True(t, status.LastMonth.Budget.Equal(dec("100")))
	assert.True(t, status.LastMonth.Posted.Equal(dec("100")))
	assert.True(t, status.YearToDate.Budget.IsZero())
	assert.True(t, status.YearToDate.Posted.IsZero())
}

func TestBuildBalanceSheet(t *testing.T) {
	groups := []domain.AccountGroup{
		{Number: 1, Name: "Bank", AccountGroupType: domain.Assets},
		{Number: 2, Name: "Loans", AccountGroupType: domain.Liabilities},
		{Number: 3, Name: "Unused", AccountGroupType: domain.Assets},
	}
	statuses := []domain.AccountStatus{
		{Account: domain.Account{AccountNumber: "A", AccountGroupNumber: 1}, Balance: dec("100")},
		{Account: domain.Account{AccountNumber: "B", AccountGroupNumber: 1}, Balance: dec("50")},
		{Account: domain.Account{AccountNumber: "C", AccountGroupNumber: 2}, Balance: dec("-700")},
	}

	sheet := BuildBalanceSheet(1, statuses, groups, day(2024, 3, 15))

	assert.Len(t, sheet.Assets, 1)
	assert.Len(t, sheet.Liabilities, 1)
	assert.True(t, sheet.TotalAssets.Equal(dec("150")))
	assert.True(t, sheet.TotalLiabilities.Equal(dec("-700")))
	assert.Equal(t, "Loans", sheet.Liabilities[0].AccountGroup.Name)
}
