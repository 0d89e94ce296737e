// Package accounting holds the command and query handlers of the accounting
// module. Handlers are registered on the bus by Register.
package accounting

import (
	"context"
	"fmt"
	"time"

	"osintranet/internal/archive"
	"osintranet/internal/domain"
	"osintranet/internal/repository"
)

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	Archive                     archive.Archive
	Now                         func() time.Time
	DefaultNumberOfPostingLines int
}

type Service struct {
	store                       repository.Store
	archive                     archive.Archive
	now                         func() time.Time
	defaultNumberOfPostingLines int
}

func NewService(store repository.Store, opts Options) *Service {
	s := &Service{
		store:                       store,
		archive:                     opts.Archive,
		now:                         opts.Now,
		defaultNumberOfPostingLines: opts.DefaultNumberOfPostingLines,
	}
	if s.archive == nil {
		s.archive = archive.Noop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.defaultNumberOfPostingLines <= 0 || s.defaultNumberOfPostingLines > MaxNumberOfPostingLines {
		s.defaultNumberOfPostingLines = DefaultNumberOfPostingLines
	}
	return s
}

func (s *Service) today() time.Time {
	return domain.StripTime(s.now())
}

// statusDate strips the time of day and defaults a zero date to today.
func (s *Service) statusDate(t time.Time) time.Time {
	if t.IsZero() {
		return s.today()
	}
	return domain.StripTime(t)
}

// ledger loads every posting line of an accounting dated on or before to.
func (s *Service) ledger(ctx context.Context, accountingNumber int, to time.Time) (*Ledger, error) {
	lines, err := s.store.GetPostingLines(ctx, accountingNumber, time.Time{}, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load posting lines: %w", err)
	}
	return NewLedger(lines), nil
}

func (s *Service) accountGroups(ctx context.Context) (map[int]domain.AccountGroup, error) {
	groups, err := s.store.GetAccountGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account groups: %w", err)
	}
	m := make(map[int]domain.AccountGroup, len(groups))
	for _, g := range groups {
		m[g.Number] = g
	}
	return m, nil
}

func (s *Service) budgetAccountGroups(ctx context.Context) (map[int]domain.BudgetAccountGroup, error) {
	groups, err := s.store.GetBudgetAccountGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget account groups: %w", err)
	}
	m := make(map[int]domain.BudgetAccountGroup, len(groups))
	for _, g := range groups {
		m[g.Number] = g
	}
	return m, nil
}

func (s *Service) paymentTerms(ctx context.Context) (map[int]domain.PaymentTerm, error) {
	terms, err := s.store.GetPaymentTerms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment terms: %w", err)
	}
	m := make(map[int]domain.PaymentTerm, len(terms))
	for _, t := range terms {
		m[t.Number] = t
	}
	return m, nil
}

// requireAccounting returns ErrNotFound when the accounting does not exist.
func (s *Service) requireAccounting(ctx context.Context, number int) (*domain.Accounting, error) {
	return s.store.GetAccounting(ctx, number)
}
