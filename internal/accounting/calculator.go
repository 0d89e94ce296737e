package accounting

import (
	"time"

	"github.com/shopspring/decimal"

	"osintranet/internal/domain"
)

// Ledger indexes posting lines by the account, budget account and contact
// account they were written against.
type Ledger struct {
	accounts        map[string][]domain.PostingLine
	budgetAccounts  map[string][]domain.PostingLine
	contactAccounts map[string][]domain.PostingLine
}

func NewLedger(lines []domain.PostingLine) *Ledger {
	l := &Ledger{
		accounts:        make(map[string][]domain.PostingLine),
		budgetAccounts:  make(map[string][]domain.PostingLine),
		contactAccounts: make(map[string][]domain.PostingLine),
	}
	for _, line := range lines {
		l.accounts[line.AccountNumber] = append(l.accounts[line.AccountNumber], line)
		if line.BudgetAccountNumber != "" {
			l.budgetAccounts[line.BudgetAccountNumber] = append(l.budgetAccounts[line.BudgetAccountNumber], line)
		}
		if line.ContactAccountNumber != "" {
			l.contactAccounts[line.ContactAccountNumber] = append(l.contactAccounts[line.ContactAccountNumber], line)
		}
	}
	return l
}

// sumBetween adds debit minus credit for lines dated from..to. A zero from
// has no lower bound.
func sumBetween(lines []domain.PostingLine, from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.PostingDate.After(to) {
			continue
		}
		if !from.IsZero() && line.PostingDate.Before(from) {
			continue
		}
		total = total.Add(line.Amount())
	}
	return total
}

// AccountBalance is the balance of an account at the end of date.
func (l *Ledger) AccountBalance(accountNumber string, date time.Time) decimal.Decimal {
	return sumBetween(l.accounts[accountNumber], time.Time{}, date)
}

// BudgetPosted is what has been posted on a budget account within from..to.
func (l *Ledger) BudgetPosted(accountNumber string, from, to time.Time) decimal.Decimal {
	return sumBetween(l.budgetAccounts[accountNumber], from, to)
}

// ContactBalance is the balance of a contact account at the end of date.
func (l *Ledger) ContactBalance(accountNumber string, date time.Time) decimal.Decimal {
	return sumBetween(l.contactAccounts[accountNumber], time.Time{}, date)
}

// AccountStatusOf computes credit, balance and available for an account.
func AccountStatusOf(account domain.Account, group domain.AccountGroup, ledger *Ledger, statusDate time.Time) domain.AccountStatus {
	credit := account.CreditFor(statusDate)
	balance := ledger.AccountBalance(account.AccountNumber, statusDate)
	return domain.AccountStatus{
		Account:      account,
		AccountGroup: group,
		StatusDate:   statusDate,
		Credit:       credit,
		Balance:      balance,
		Available:    credit.Add(balance),
	}
}

func budgetValues(budget, posted decimal.Decimal) domain.BudgetValues {
	return domain.BudgetValues{
		Budget:    budget,
		Posted:    posted,
		Available: budget.Sub(posted),
	}
}

// BudgetAccountStatusOf computes the budget values for the month of the
// status date, the month before and the year to date.
func BudgetAccountStatusOf(account domain.BudgetAccount, group domain.BudgetAccountGroup, ledger *Ledger, statusDate time.Time) domain.BudgetAccountStatus {
	thisMonth := domain.YearMonthOf(statusDate)
	lastMonth := thisMonth.Previous()
	lastMonthEnd := domain.LastOfPreviousMonth(statusDate)

	return domain.BudgetAccountStatus{
		BudgetAccount:      account,
		BudgetAccountGroup: group,
		StatusDate:         statusDate,
		ThisMonth: budgetValues(
			account.BudgetFor(thisMonth),
			ledger.BudgetPosted(account.AccountNumber, domain.FirstOfMonth(statusDate), statusDate),
		),
		LastMonth: budgetValues(
			account.BudgetFor(lastMonth),
			ledger.BudgetPosted(account.AccountNumber, domain.FirstOfMonth(lastMonthEnd), lastMonthEnd),
		),
		YearToDate: budgetValues(
			account.BudgetBetween(domain.YearMonth{Year: thisMonth.Year, Month: time.January}, thisMonth),
			ledger.BudgetPosted(account.AccountNumber, domain.FirstOfYear(statusDate), statusDate),
		),
	}
}

func ContactAccountStatusOf(account domain.ContactAccount, term domain.PaymentTerm, ledger *Ledger, statusDate time.Time) domain.ContactAccountStatus {
	return domain.ContactAccountStatus{
		ContactAccount: account,
		PaymentTerm:    term,
		StatusDate:     statusDate,
		Balance:        ledger.ContactBalance(account.AccountNumber, statusDate),
	}
}

// BuildBalanceSheet sums account balances per account group and places each
// group on the assets or liabilities side. Groups without accounts are left
// out.
func BuildBalanceSheet(accountingNumber int, statuses []domain.AccountStatus, groups []domain.AccountGroup, statusDate time.Time) domain.BalanceSheet {
	balances := make(map[int]decimal.Decimal, len(groups))
	for _, s := range statuses {
		balances[s.AccountGroupNumber] = balances[s.AccountGroupNumber].Add(s.Balance)
	}

	sheet := domain.BalanceSheet{
		AccountingNumber: accountingNumber,
		StatusDate:       statusDate,
		Assets:           make([]domain.BalanceSheetLine, 0),
		Liabilities:      make([]domain.BalanceSheetLine, 0),
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
	}
	for _, g := range groups {
		balance, ok := balances[g.Number]
		if !ok {
			continue
		}
		line := domain.BalanceSheetLine{AccountGroup: g, Balance: balance}
		if g.AccountGroupType == domain.Liabilities {
			sheet.Liabilities = append(sheet.Liabilities, line)
			sheet.TotalLiabilities = sheet.TotalLiabilities.Add(balance)
			continue
		}
		sheet.Assets = append(sheet.Assets, line)
		sheet.TotalAssets = sheet.TotalAssets.Add(balance)
	}
	return sheet
}
