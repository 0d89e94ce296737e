package accounting

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"osintranet/internal/domain"
	"osintranet/pkg/logger"
)

// ApplyPostingJournal books the journal lines of an accounting. Either every
// line is booked or none is. The store numbers the lines after the highest
// sort order already in the accounting. The result carries a warning for each
// line that leaves an account beyond its credit or a budget account off target.
func (s *Service) ApplyPostingJournal(ctx context.Context, cmd ApplyPostingJournalCommand) (domain.PostingJournalResult, error) {
	accounting, err := s.store.GetAccounting(ctx, cmd.AccountingNumber)
	if err != nil {
		return domain.PostingJournalResult{}, err
	}

	lookups, err := s.journalLookups(ctx, cmd.AccountingNumber)
	if err != nil {
		return domain.PostingJournalResult{}, err
	}

	today := s.today()
	earliest := accounting.EarliestPostingDate(today)
	verr := &domain.ValidationError{}
	lines := make([]domain.PostingLine, 0, len(cmd.PostingLines))

	for i, in := range cmd.PostingLines {
		field := fmt.Sprintf("PostingLines[%d]", i)
		line := domain.PostingLine{
			Identifier:           uuid.New(),
			AccountingNumber:     cmd.AccountingNumber,
			PostingDate:          domain.StripTime(in.PostingDate),
			Reference:            in.Reference,
			AccountNumber:        domain.NormalizeAccountNumber(in.AccountNumber),
			Details:              in.Details,
			BudgetAccountNumber:  domain.NormalizeAccountNumber(in.BudgetAccountNumber),
			Debit:                in.Debit,
			Credit:               in.Credit,
			ContactAccountNumber: domain.NormalizeAccountNumber(in.ContactAccountNumber),
		}

		if line.PostingDate.After(today) {
			verr.Add(field+".PostingDate", "must not be in the future")
		} else if line.PostingDate.Before(earliest) {
			verr.Add(field+".PostingDate", fmt.Sprintf("must not be before %s", earliest.Format(domain.DateLayout)))
		}
		if _, ok := lookups.accounts[line.AccountNumber]; !ok {
			verr.Add(field+".AccountNumber", "unknown account")
		}
		if line.BudgetAccountNumber != "" {
			if _, ok := lookups.budgetAccounts[line.BudgetAccountNumber]; !ok {
				verr.Add(field+".BudgetAccountNumber", "unknown budget account")
			}
		}
		if line.ContactAccountNumber != "" {
			if _, ok := lookups.contactAccounts[line.ContactAccountNumber]; !ok {
				verr.Add(field+".ContactAccountNumber", "unknown contact account")
			}
		}
		lines = append(lines, line)
	}
	if err := verr.OrNil(); err != nil {
		return domain.PostingJournalResult{}, err
	}

	if err := s.store.CreatePostingLines(ctx, lines); err != nil {
		return domain.PostingJournalResult{}, err
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"accounting_number": cmd.AccountingNumber,
		"posting_lines":     len(lines),
	}).Info("Posting journal applied")

	ledger, err := s.ledger(ctx, cmd.AccountingNumber, today)
	if err != nil {
		return domain.PostingJournalResult{}, err
	}
	return domain.PostingJournalResult{
		PostingLines:    lines,
		PostingWarnings: postingWarnings(lines, lookups, ledger),
	}, nil
}

type journalLookups struct {
	accounts        map[string]domain.Account
	budgetAccounts  map[string]domain.BudgetAccount
	contactAccounts map[string]domain.ContactAccount
}

func (s *Service) journalLookups(ctx context.Context, accountingNumber int) (*journalLookups, error) {
	accounts, err := s.store.GetAccounts(ctx, accountingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	budgetAccounts, err := s.store.GetBudgetAccounts(ctx, accountingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget accounts: %w", err)
	}
	contactAccounts, err := s.store.GetContactAccounts(ctx, accountingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact accounts: %w", err)
	}

	l := &journalLookups{
		accounts:        make(map[string]domain.Account, len(accounts)),
		budgetAccounts:  make(map[string]domain.BudgetAccount, len(budgetAccounts)),
		contactAccounts: make(map[string]domain.ContactAccount, len(contactAccounts)),
	}
	for _, a := range accounts {
		l.accounts[a.AccountNumber] = a
	}
	for _, b := range budgetAccounts {
		l.budgetAccounts[b.AccountNumber] = b
	}
	for _, c := range contactAccounts {
		l.contactAccounts[c.AccountNumber] = c
	}
	return l, nil
}

// postingWarnings evaluates each booked line against the ledger as of the
// line's posting date.
func postingWarnings(lines []domain.PostingLine, lookups *journalLookups, ledger *Ledger) []domain.PostingWarning {
	warnings := make([]domain.PostingWarning, 0)
	for _, line := range lines {
		account := lookups.accounts[line.AccountNumber]
		status := AccountStatusOf(account, domain.AccountGroup{}, ledger, line.PostingDate)
		if status.Available.IsNegative() {
			warnings = append(warnings, domain.PostingWarning{
				Reason:        domain.AccountIsBeyondLimit,
				AccountNumber: account.AccountNumber,
				AccountName:   account.AccountName,
				Amount:        status.Available.Abs(),
				PostingLine:   line,
			})
		}

		if line.BudgetAccountNumber == "" {
			continue
		}
		budgetAccount := lookups.budgetAccounts[line.BudgetAccountNumber]
		values := BudgetAccountStatusOf(budgetAccount, domain.BudgetAccountGroup{}, ledger, line.PostingDate).ThisMonth
		if !values.Available.IsPositive() {
			continue
		}
		reason := domain.ExpectedExpensesHaveAlreadyBeenReached
		if values.Budget.IsPositive() {
			reason = domain.ExpectedIncomeHasNotBeenReached
		}
		warnings = append(warnings, domain.PostingWarning{
			Reason:        reason,
			AccountNumber: budgetAccount.AccountNumber,
			AccountName:   budgetAccount.AccountName,
			Amount:        values.Available,
			PostingLine:   line,
		})
	}
	return warnings
}
