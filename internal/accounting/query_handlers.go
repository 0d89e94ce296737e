package accounting

import (
	"context"
	"fmt"
	"time"

	"osintranet/internal/domain"
)

func (s *Service) GetAccountings(ctx context.Context, _ GetAccountingsQuery) ([]domain.Accounting, error) {
	return s.store.GetAccountings(ctx)
}

func (s *Service) GetAccounting(ctx context.Context, q GetAccountingQuery) (domain.Accounting, error) {
	a, err := s.store.GetAccounting(ctx, q.AccountingNumber)
	if err != nil {
		return domain.Accounting{}, err
	}
	return *a, nil
}

func (s *Service) accountStatuses(ctx context.Context, accountingNumber int, statusDate time.Time) ([]domain.AccountStatus, error) {
	if _, err := s.requireAccounting(ctx, accountingNumber); err != nil {
		return nil, err
	}
	accounts, err := s.store.GetAccounts(ctx, accountingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	groups, err := s.accountGroups(ctx)
	if err != nil {
		return nil, err
	}
	ledger, err := s.ledger(ctx, accountingNumber, statusDate)
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.AccountStatus, 0, len(accounts))
	for _, a := range accounts {
		statuses = append(statuses, AccountStatusOf(a, groups[a.AccountGroupNumber], ledger, statusDate))
	}
	return statuses, nil
}

func (s *Service) GetAccounts(ctx context.Context, q GetAccountsQuery) ([]domain.AccountStatus, error) {
	return s.accountStatuses(ctx, q.AccountingNumber, s.statusDate(q.StatusDate))
}

func (s *Service) GetAccount(ctx context.Context, q GetAccountQuery) (domain.AccountStatus, error) {
	statusDate := s.statusDate(q.StatusDate)
	account, err := s.store.GetAccount(ctx, q.AccountingNumber, domain.NormalizeAccountNumber(q.AccountNumber))
	if err != nil {
		return domain.AccountStatus{}, err
	}
	group, err := s.store.GetAccountGroup(ctx, account.AccountGroupNumber)
	if err != nil {
		return domain.AccountStatus{}, fmt.Errorf("failed to load account group: %w", err)
	}
	ledger, err := s.ledger(ctx, q.AccountingNumber, statusDate)
	if err != nil {
		return domain.AccountStatus{}, err
	}
	return AccountStatusOf(*account, *group, ledger, statusDate), nil
}

func (s *Service) budgetAccountStatuses(ctx context.Context, accountingNumber int, statusDate time.Time) ([]domain.BudgetAccountStatus, error) {
	if _, err := s.requireAccounting(ctx, accountingNumber); err != nil {
		return nil, err
	}
	accounts, err := s.store.GetBudgetAccounts(ctx, accountingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget accounts: %w", err)
	}
	groups, err := s.budgetAccountGroups(ctx)
	if err != nil {
		return nil, err
	}
	ledger, err := s.ledger(ctx, accountingNumber, statusDate)
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.BudgetAccountStatus, 0, len(accounts))
	for _, a := range accounts {
		statuses = append(statuses, BudgetAccountStatusOf(a, groups[a.BudgetAccountGroupNumber], ledger, statusDate))
	}
	return statuses, nil
}

func (s *Service) GetBudgetAccounts(ctx context.Context, q GetBudgetAccountsQuery) ([]domain.BudgetAccountStatus, error) {
	return s.budgetAccountStatuses(ctx, q.AccountingNumber, s.statusDate(q.StatusDate))
}

func (s *Service) GetBudgetAccount(ctx context.Context, q GetBudgetAccountQuery) (domain.BudgetAccountStatus, error) {
	statusDate := s.statusDate(q.StatusDate)
	account, err := s.store.GetBudgetAccount(ctx, q.AccountingNumber, domain.NormalizeAccountNumber(q.AccountNumber))
	if err != nil {
		return domain.BudgetAccountStatus{}, err
	}
	group, err := s.store.GetBudgetAccountGroup(ctx, account.BudgetAccountGroupNumber)
	if err != nil {
		return domain.BudgetAccountStatus{}, fmt.Errorf("failed to load budget account group: %w", err)
	}
	ledger, err := s.ledger(ctx, q.AccountingNumber, statusDate)
	if err != nil {
		return domain.BudgetAccountStatus{}, err
	}
	return BudgetAccountStatusOf(*account, *group, ledger, statusDate), nil
}

func (s *Service) contactAccountStatuses(ctx context.Context, accountingNumber int, statusDate time.Time) ([]domain.ContactAccountStatus, error) {
	if _, err := s.requireAccounting(ctx, accountingNumber); err != nil {
		return nil, err
	}
	accounts, err := s.store.GetContactAccounts(ctx, accountingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact accounts: %w", err)
	}
	terms, err := s.paymentTerms(ctx)
	if err != nil {
		return nil, err
	}
	ledger, err := s.ledger(ctx, accountingNumber, statusDate)
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.ContactAccountStatus, 0, len(accounts))
	for _, a := range accounts {
		statuses = append(statuses, ContactAccountStatusOf(a, terms[a.PaymentTermNumber], ledger, statusDate))
	}
	return statuses, nil
}

func (s *Service) GetContactAccounts(ctx context.Context, q GetContactAccountsQuery) ([]domain.ContactAccountStatus, error) {
	return s.contactAccountStatuses(ctx, q.AccountingNumber, s.statusDate(q.StatusDate))
}

func (s *Service) GetContactAccount(ctx context.Context, q GetContactAccountQuery) (domain.ContactAccountStatus, error) {
	statusDate := s.statusDate(q.StatusDate)
	account, err := s.store.GetContactAccount(ctx, q.AccountingNumber, domain.NormalizeAccountNumber(q.AccountNumber))
	if err != nil {
		return domain.ContactAccountStatus{}, err
	}
	term, err := s.store.GetPaymentTerm(ctx, account.PaymentTermNumber)
	if err != nil {
		return domain.ContactAccountStatus{}, fmt.Errorf("failed to load payment term: %w", err)
	}
	ledger, err := s.ledger(ctx, q.AccountingNumber, statusDate)
	if err != nil {
		return domain.ContactAccountStatus{}, err
	}
	return ContactAccountStatusOf(*account, *term, ledger, statusDate), nil
}

func (s *Service) contactsWhere(ctx context.Context, accountingNumber int, statusDate time.Time, keep func(domain.ContactAccountStatus, domain.BalanceBelowZero) bool) ([]domain.ContactAccountStatus, error) {
	accounting, err := s.requireAccounting(ctx, accountingNumber)
	if err != nil {
		return nil, err
	}
	statuses, err := s.contactAccountStatuses(ctx, accountingNumber, statusDate)
	if err != nil {
		return nil, err
	}
	result := make([]domain.ContactAccountStatus, 0, len(statuses))
	for _, st := range statuses {
		if keep(st, accounting.BalanceBelowZero) {
			result = append(result, st)
		}
	}
	return result, nil
}

func (s *Service) GetDebtors(ctx context.Context, q GetDebtorsQuery) ([]domain.ContactAccountStatus, error) {
	return s.contactsWhere(ctx, q.AccountingNumber, s.statusDate(q.StatusDate), domain.ContactAccountStatus.IsDebtor)
}

func (s *Service) GetCreditors(ctx context.Context, q GetCreditorsQuery) ([]domain.ContactAccountStatus, error) {
	return s.contactsWhere(ctx, q.AccountingNumber, s.statusDate(q.StatusDate), domain.ContactAccountStatus.IsCreditor)
}

// numberOfPostingLines applies the default and clamps to 1..MaxNumberOfPostingLines.
func (s *Service) numberOfPostingLines(n int) int {
	switch {
	case n == 0:
		return s.defaultNumberOfPostingLines
	case n < 1:
		return 1
	case n > MaxNumberOfPostingLines:
		return MaxNumberOfPostingLines
	default:
		return n
	}
}

func (s *Service) GetPostingLines(ctx context.Context, q GetPostingLinesQuery) ([]domain.PostingLine, error) {
	if _, err := s.requireAccounting(ctx, q.AccountingNumber); err != nil {
		return nil, err
	}
	lines, err := s.store.GetLatestPostingLines(ctx, q.AccountingNumber, s.statusDate(q.StatusDate), s.numberOfPostingLines(q.NumberOfPostingLines))
	if err != nil {
		return nil, fmt.Errorf("failed to load posting lines: %w", err)
	}
	return lines, nil
}

func (s *Service) GetBalanceSheet(ctx context.Context, q GetBalanceSheetQuery) (domain.BalanceSheet, error) {
	statusDate := s.statusDate(q.StatusDate)
	statuses, err := s.accountStatuses(ctx, q.AccountingNumber, statusDate)
	if err != nil {
		return domain.BalanceSheet{}, err
	}
	groups, err := s.store.GetAccountGroups(ctx)
	if err != nil {
		return domain.BalanceSheet{}, fmt.Errorf("failed to load account groups: %w", err)
	}
	return BuildBalanceSheet(q.AccountingNumber, statuses, groups, statusDate), nil
}

func (s *Service) GetAccountGroups(ctx context.Context, _ GetAccountGroupsQuery) ([]domain.AccountGroup, error) {
	return s.store.GetAccountGroups(ctx)
}

func (s *Service) GetAccountGroup(ctx context.Context, q GetAccountGroupQuery) (domain.AccountGroup, error) {
	g, err := s.store.GetAccountGroup(ctx, q.Number)
	if err != nil {
		return domain.AccountGroup{}, err
	}
	return *g, nil
}

func (s *Service) GetBudgetAccountGroups(ctx context.Context, _ GetBudgetAccountGroupsQuery) ([]domain.BudgetAccountGroup, error) {
	return s.store.GetBudgetAccountGroups(ctx)
}

func (s *Service) GetBudgetAccountGroup(ctx context.Context, q GetBudgetAccountGroupQuery) (domain.BudgetAccountGroup, error) {
	g, err := s.store.GetBudgetAccountGroup(ctx, q.Number)
	if err != nil {
		return domain.BudgetAccountGroup{}, err
	}
	return *g, nil
}

func (s *Service) GetPaymentTerms(ctx context.Context, _ GetPaymentTermsQuery) ([]domain.PaymentTerm, error) {
	return s.store.GetPaymentTerms(ctx)
}

func (s *Service) GetPaymentTerm(ctx context.Context, q GetPaymentTermQuery) (domain.PaymentTerm, error) {
	t, err := s.store.GetPaymentTerm(ctx, q.Number)
	if err != nil {
		return domain.PaymentTerm{}, err
	}
	return *t, nil
}
