package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"osintranet/internal/domain"
)

type accountKey struct {
	accountingNumber int
	accountNumber    string
}

// MemoryStore keeps everything in process. It backs tests and STORAGE=memory.
type MemoryStore struct {
	mu                  sync.RWMutex
	now                 func() time.Time
	accountings         map[int]domain.Accounting
	accounts            map[accountKey]domain.Account
	budgetAccounts      map[accountKey]domain.BudgetAccount
	contactAccounts     map[accountKey]domain.ContactAccount
	postingLines        map[int][]domain.PostingLine
	accountGroups       map[int]domain.AccountGroup
	budgetAccountGroups map[int]domain.BudgetAccountGroup
	paymentTerms        map[int]domain.PaymentTerm
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:                 time.Now,
		accountings:         make(map[int]domain.Accounting),
		accounts:            make(map[accountKey]domain.Account),
		budgetAccounts:      make(map[accountKey]domain.BudgetAccount),
		contactAccounts:     make(map[accountKey]domain.ContactAccount),
		postingLines:        make(map[int][]domain.PostingLine),
		accountGroups:       make(map[int]domain.AccountGroup),
		budgetAccountGroups: make(map[int]domain.BudgetAccountGroup),
		paymentTerms:        make(map[int]domain.PaymentTerm),
	}
}

func (s *MemoryStore) Close() error {
	return nil
}

// Accountings

func (s *MemoryStore) GetAccountings(ctx context.Context) ([]domain.Accounting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Accounting, 0, len(s.accountings))
	for _, a := range s.accountings {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (s *MemoryStore) GetAccounting(ctx context.Context, number int) (*domain.Accounting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accountings[number]
	if !ok {
		return nil, domain.NotFoundf("accounting %d", number)
	}
	return &a, nil
}

func (s *MemoryStore) CreateAccounting(ctx context.Context, accounting *domain.Accounting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accountings[accounting.Number]; exists {
		return domain.Existsf("accounting %d", accounting.Number)
	}
	accounting.CreatedAt = s.now()
	accounting.UpdatedAt = accounting.CreatedAt
	s.accountings[accounting.Number] = *accounting
	return nil
}

func (s *MemoryStore) UpdateAccounting(ctx context.Context, accounting *domain.Accounting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accountings[accounting.Number]
	if !ok {
		return domain.NotFoundf("accounting %d", accounting.Number)
	}
	accounting.CreatedAt = existing.CreatedAt
	accounting.UpdatedAt = s.now()
	s.accountings[accounting.Number] = *accounting
	return nil
}

func (s *MemoryStore) DeleteAccounting(ctx context.Context, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accountings[number]; !ok {
		return domain.NotFoundf("accounting %d", number)
	}
	if len(s.postingLines[number]) > 0 || s.hasAccountsLocked(number) {
		return domain.InUsef("accounting %d", number)
	}
	delete(s.accountings, number)
	return nil
}

func (s *MemoryStore) hasAccountsLocked(accountingNumber int) bool {
	for k := range s.accounts {
		if k.accountingNumber == accountingNumber {
			return true
		}
	}
	for k := range s.budgetAccounts {
		if k.accountingNumber == accountingNumber {
			return true
		}
	}
	for k := range s.contactAccounts {
		if k.accountingNumber == accountingNumber {
			return true
		}
	}
	return false
}

func (s *MemoryStore) requireAccountingLocked(number int) error {
	if _, ok := s.accountings[number]; !ok {
		return domain.NotFoundf("accounting %d", number)
	}
	return nil
}

func (s *MemoryStore) referencedLocked(accountingNumber int, match func(domain.PostingLine) bool) bool {
	for _, pl := range s.postingLines[accountingNumber] {
		if match(pl) {
			return true
		}
	}
	return false
}

// Accounts

func copyAccount(a domain.Account) domain.Account {
	a.CreditInfos = append([]domain.CreditInfo(nil), a.CreditInfos...)
	return a
}

func (s *MemoryStore) GetAccounts(ctx context.Context, accountingNumber int) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Account, 0)
	for k, a := range s.accounts {
		if k.accountingNumber == accountingNumber {
			result = append(result, copyAccount(a))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AccountNumber < result[j].AccountNumber })
	return result, nil
}

func (s *MemoryStore) GetAccount(ctx context.Context, accountingNumber int, accountNumber string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[accountKey{accountingNumber, accountNumber}]
	if !ok {
		return nil, domain.NotFoundf("account %s in accounting %d", accountNumber, accountingNumber)
	}
	a = copyAccount(a)
	return &a, nil
}

func (s *MemoryStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAccountingLocked(account.AccountingNumber); err != nil {
		return err
	}
	key := accountKey{account.AccountingNumber, account.AccountNumber}
	if _, exists := s.accounts[key]; exists {
		return domain.Existsf("account %s in accounting %d", account.AccountNumber, account.AccountingNumber)
	}
	s.accounts[key] = copyAccount(*account)
	return nil
}

func (s *MemoryStore) UpdateAccount(ctx context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountKey{account.AccountingNumber, account.AccountNumber}
	if _, ok := s.accounts[key]; !ok {
		return domain.NotFoundf("account %s in accounting %d", account.AccountNumber, account.AccountingNumber)
	}
	s.accounts[key] = copyAccount(*account)
	return nil
}

func (s *MemoryStore) DeleteAccount(ctx context.Context, accountingNumber int, accountNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountKey{accountingNumber, accountNumber}
	if _, ok := s.accounts[key]; !ok {
		return domain.NotFoundf("account %s in accounting %d", accountNumber, accountingNumber)
	}
	if s.referencedLocked(accountingNumber, func(pl domain.PostingLine) bool { return pl.AccountNumber == accountNumber }) {
		return domain.InUsef("account %s in accounting %d", accountNumber, accountingNumber)
	}
	delete(s.accounts, key)
	return nil
}

// Budget accounts

func copyBudgetAccount(a domain.BudgetAccount) domain.BudgetAccount {
	a.BudgetInfos = append([]domain.BudgetInfo(nil), a.BudgetInfos...)
	return a
}

func (s *MemoryStore) GetBudgetAccounts(ctx context.Context, accountingNumber int) ([]domain.BudgetAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.BudgetAccount, 0)
	for k, a := range s.budgetAccounts {
		if k.accountingNumber == accountingNumber {
			result = append(result, copyBudgetAccount(a))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AccountNumber < result[j].AccountNumber })
	return result, nil
}

func (s *MemoryStore) GetBudgetAccount(ctx context.Context, accountingNumber int, accountNumber string) (*domain.BudgetAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.budgetAccounts[accountKey{accountingNumber, accountNumber}]
	if !ok {
		return nil, domain.NotFoundf("budget account %s in accounting %d", accountNumber, accountingNumber)
	}
	a = copyBudgetAccount(a)
	return &a, nil
}

func (s *MemoryStore) CreateBudgetAccount(ctx context.Context, account *domain.BudgetAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAccountingLocked(account.AccountingNumber); err != nil {
		return err
	}
	key := accountKey{account.AccountingNumber, account.AccountNumber}
	if _, exists := s.budgetAccounts[key]; exists {
		return domain.Existsf("budget account %s in accounting %d", account.AccountNumber, account.AccountingNumber)
	}
	s.budgetAccounts[key] = copyBudgetAccount(*account)
	return nil
}

func (s *MemoryStore) UpdateBudgetAccount(ctx context.Context, account *domain.BudgetAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountKey{account.AccountingNumber, account.AccountNumber}
	if _, ok := s.budgetAccounts[key]; !ok {
		return domain.NotFoundf("budget account %s in accounting %d", account.AccountNumber, account.AccountingNumber)
	}
	s.budgetAccounts[key] = copyBudgetAccount(*account)
	return nil
}

func (s *MemoryStore) DeleteBudgetAccount(ctx context.Context, accountingNumber int, accountNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountKey{accountingNumber, accountNumber}
	if _, ok := s.budgetAccounts[key]; !ok {
		return domain.NotFoundf("budget account %s in accounting %d", accountNumber, accountingNumber)
	}
	if s.referencedLocked(accountingNumber, func(pl domain.PostingLine) bool { return pl.BudgetAccountNumber == accountNumber }) {
		return domain.InUsef("budget account %s in accounting %d", accountNumber, accountingNumber)
	}
	delete(s.budgetAccounts, key)
	return nil
}

// Contact accounts

func (s *MemoryStore) GetContactAccounts(ctx context.Context, accountingNumber int) ([]domain.ContactAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ContactAccount, 0)
	for k, a := range s.contactAccounts {
		if k.accountingNumber == accountingNumber {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AccountNumber < result[j].AccountNumber })
	return result, nil
}

func (s *MemoryStore) GetContactAccount(ctx context.Context, accountingNumber int, accountNumber string) (*domain.ContactAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.contactAccounts[accountKey{accountingNumber, accountNumber}]
	if !ok {
		return nil, domain.NotFoundf("contact account %s in accounting %d", accountNumber, accountingNumber)
	}
	return &a, nil
}

func (s *MemoryStore) CreateContactAccount(ctx context.Context, account *domain.ContactAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAccountingLocked(account.AccountingNumber); err != nil {
		return err
	}
	key := accountKey{account.AccountingNumber, account.AccountNumber}
	if _, exists := s.contactAccounts[key]; exists {
		return domain.Existsf("contact account %s in accounting %d", account.AccountNumber, account.AccountingNumber)
	}
	s.contactAccounts[key] = *account
	return nil
}

func (s *MemoryStore) UpdateContactAccount(ctx context.Context, account *domain.ContactAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountKey{account.AccountingNumber, account.AccountNumber}
	if _, ok := s.contactAccounts[key]; !ok {
		return domain.NotFoundf("contact account %s in accounting %d", account.AccountNumber, account.AccountingNumber)
	}
	s.contactAccounts[key] = *account
	return nil
}

func (s *MemoryStore) DeleteContactAccount(ctx context.Context, accountingNumber int, accountNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := accountKey{accountingNumber, accountNumber}
	if _, ok := s.contactAccounts[key]; !ok {
		return domain.NotFoundf("contact account %s in accounting %d", accountNumber, accountingNumber)
	}
	if s.referencedLocked(accountingNumber, func(pl domain.PostingLine) bool { return pl.ContactAccountNumber == accountNumber }) {
		return domain.InUsef("contact account %s in accounting %d", accountNumber, accountingNumber)
	}
	delete(s.contactAccounts, key)
	return nil
}

// Posting lines

func (s *MemoryStore) GetPostingLines(ctx context.Context, accountingNumber int, from, to time.Time) ([]domain.PostingLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.PostingLine, 0)
	for _, pl := range s.postingLines[accountingNumber] {
		if !from.IsZero() && pl.PostingDate.Before(from) {
			continue
		}
		if pl.PostingDate.After(to) {
			continue
		}
		result = append(result, pl)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].PostingDate.Equal(result[j].PostingDate) {
			return result[i].PostingDate.Before(result[j].PostingDate)
		}
		return result[i].SortOrder < result[j].SortOrder
	})
	return result, nil
}

func (s *MemoryStore) GetLatestPostingLines(ctx context.Context, accountingNumber int, to time.Time, limit int) ([]domain.PostingLine, error) {
	lines, err := s.GetPostingLines(ctx, accountingNumber, time.Time{}, to)
	if err != nil {
		return nil, err
	}

	result := make([]domain.PostingLine, 0, limit)
	for i := len(lines) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, lines[i])
	}
	return result, nil
}

func (s *MemoryStore) CreatePostingLines(ctx context.Context, lines []domain.PostingLine) error {
	if len(lines) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accountingNumber := lines[0].AccountingNumber
	if err := s.requireAccountingLocked(accountingNumber); err != nil {
		return err
	}

	max := 0
	for _, pl := range s.postingLines[accountingNumber] {
		if pl.SortOrder > max {
			max = pl.SortOrder
		}
	}
	now := s.now()
	for i := range lines {
		lines[i].SortOrder = max + i + 1
		lines[i].CreatedAt = now
		s.postingLines[accountingNumber] = append(s.postingLines[accountingNumber], lines[i])
	}
	return nil
}

// Account groups

func (s *MemoryStore) GetAccountGroups(ctx context.Context) ([]domain.AccountGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AccountGroup, 0, len(s.accountGroups))
	for _, g := range s.accountGroups {
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (s *MemoryStore) GetAccountGroup(ctx context.Context, number int) (*domain.AccountGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.accountGroups[number]
	if !ok {
		return nil, domain.NotFoundf("account group %d", number)
	}
	return &g, nil
}

func (s *MemoryStore) CreateAccountGroup(ctx context.Context, group *domain.AccountGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accountGroups[group.Number]; exists {
		return domain.Existsf("account group %d", group.Number)
	}
	s.accountGroups[group.Number] = *group
	return nil
}

func (s *MemoryStore) UpdateAccountGroup(ctx context.Context, group *domain.AccountGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accountGroups[group.Number]; !ok {
		return domain.NotFoundf("account group %d", group.Number)
	}
	s.accountGroups[group.Number] = *group
	return nil
}

func (s *MemoryStore) DeleteAccountGroup(ctx context.Context, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accountGroups[number]; !ok {
		return domain.NotFoundf("account group %d", number)
	}
	for _, a := range s.accounts {
		if a.AccountGroupNumber == number {
			return domain.InUsef("account group %d", number)
		}
	}
	delete(s.accountGroups, number)
	return nil
}

// Budget account groups

func (s *MemoryStore) GetBudgetAccountGroups(ctx context.Context) ([]domain.BudgetAccountGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.BudgetAccountGroup, 0, len(s.budgetAccountGroups))
	for _, g := range s.budgetAccountGroups {
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (s *MemoryStore) GetBudgetAccountGroup(ctx context.Context, number int) (*domain.BudgetAccountGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.budgetAccountGroups[number]
	if !ok {
		return nil, domain.NotFoundf("budget account group %d", number)
	}
	return &g, nil
}

func (s *MemoryStore) CreateBudgetAccountGroup(ctx context.Context, group *domain.BudgetAccountGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.budgetAccountGroups[group.Number]; exists {
		return domain.Existsf("budget account group %d", group.Number)
	}
	s.budgetAccountGroups[group.Number] = *group
	return nil
}

func (s *MemoryStore) UpdateBudgetAccountGroup(ctx context.Context, group *domain.BudgetAccountGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgetAccountGroups[group.Number]; !ok {
		return domain.NotFoundf("budget account group %d", group.Number)
	}
	s.budgetAccountGroups[group.Number] = *group
	return nil
}

func (s *MemoryStore) DeleteBudgetAccountGroup(ctx context.Context, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgetAccountGroups[number]; !ok {
		return domain.NotFoundf("budget account group %d", number)
	}
	for _, a := range s.budgetAccounts {
		if a.BudgetAccountGroupNumber == number {
			return domain.InUsef("budget account group %d", number)
		}
	}
	delete(s.budgetAccountGroups, number)
	return nil
}

// Payment terms

func (s *MemoryStore) GetPaymentTerms(ctx context.Context) ([]domain.PaymentTerm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.PaymentTerm, 0, len(s.paymentTerms))
	for _, p := range s.paymentTerms {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (s *MemoryStore) GetPaymentTerm(ctx context.Context, number int) (*domain.PaymentTerm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.paymentTerms[number]
	if !ok {
		return nil, domain.NotFoundf("payment term %d", number)
	}
	return &p, nil
}

func (s *MemoryStore) CreatePaymentTerm(ctx context.Context, term *domain.PaymentTerm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.paymentTerms[term.Number]; exists {
		return domain.Existsf("payment term %d", term.Number)
	}
	s.paymentTerms[term.Number] = *term
	return nil
}

func (s *MemoryStore) UpdatePaymentTerm(ctx context.Context, term *domain.PaymentTerm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.paymentTerms[term.Number]; !ok {
		return domain.NotFoundf("payment term %d", term.Number)
	}
	s.paymentTerms[term.Number] = *term
	return nil
}

func (s *MemoryStore) DeletePaymentTerm(ctx context.Context, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.paymentTerms[number]; !ok {
		return domain.NotFoundf("payment term %d", number)
	}
	for _, a := range s.contactAccounts {
		if a.PaymentTermNumber == number {
			return domain.InUsef("payment term %d", number)
		}
	}
	delete(s.paymentTerms, number)
	return nil
}
