package repository

import (
	"context"
	"time"

	"osintranet/internal/domain"
)

type AccountingRepository interface {
	GetAccountings(ctx context.Context) ([]domain.Accounting, error)
	GetAccounting(ctx context.Context, number int) (*domain.Accounting, error)
	CreateAccounting(ctx context.Context, accounting *domain.Accounting) error
	UpdateAccounting(ctx context.Context, accounting *domain.Accounting) error
	DeleteAccounting(ctx context.Context, number int) error
}

type AccountRepository interface {
	GetAccounts(ctx context.Context, accountingNumber int) ([]domain.Account, error)
	GetAccount(ctx context.Context, accountingNumber int, accountNumber string) (*domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) error
	UpdateAccount(ctx context.Context, account *domain.Account) error
	DeleteAccount(ctx context.Context, accountingNumber int, accountNumber string) error

	GetBudgetAccounts(ctx context.Context, accountingNumber int) ([]domain.BudgetAccount, error)
	GetBudgetAccount(ctx context.Context, accountingNumber int, accountNumber string) (*domain.BudgetAccount, error)
	CreateBudgetAccount(ctx context.Context, account *domain.BudgetAccount) error
	UpdateBudgetAccount(ctx context.Context, account *domain.BudgetAccount) error
	DeleteBudgetAccount(ctx context.Context, accountingNumber int, accountNumber string) error

	GetContactAccounts(ctx context.Context, accountingNumber int) ([]domain.ContactAccount, error)
	GetContactAccount(ctx context.Context, accountingNumber int, accountNumber string) (*domain.ContactAccount, error)
	CreateContactAccount(ctx context.Context, account *domain.ContactAccount) error
	UpdateContactAccount(ctx context.Context, account *domain.ContactAccount) error
	DeleteContactAccount(ctx context.Context, accountingNumber int, accountNumber string) error
}

// PostingLineRepository stores the journal. Date bounds are inclusive and a
// zero from means no lower bound.
type PostingLineRepository interface {
	GetPostingLines(ctx context.Context, accountingNumber int, from, to time.Time) ([]domain.PostingLine, error)
	GetLatestPostingLines(ctx context.Context, accountingNumber int, to time.Time, limit int) ([]domain.PostingLine, error)
	// CreatePostingLines numbers the lines after the highest sort order of
	// their accounting and stores them atomically. Every line must belong
	// to the same accounting.
	CreatePostingLines(ctx context.Context, lines []domain.PostingLine) error
}

type CommonRepository interface {
	GetAccountGroups(ctx context.Context) ([]domain.AccountGroup, error)
	GetAccountGroup(ctx context.Context, number int) (*domain.AccountGroup, error)
	CreateAccountGroup(ctx context.Context, group *domain.AccountGroup) error
	UpdateAccountGroup(ctx context.Context, group *domain.AccountGroup) error
	DeleteAccountGroup(ctx context.Context, number int) error

	GetBudgetAccountGroups(ctx context.Context) ([]domain.BudgetAccountGroup, error)
	GetBudgetAccountGroup(ctx context.Context, number int) (*domain.BudgetAccountGroup, error)
	CreateBudgetAccountGroup(ctx context.Context, group *domain.BudgetAccountGroup) error
	UpdateBudgetAccountGroup(ctx context.Context, group *domain.BudgetAccountGroup) error
	DeleteBudgetAccountGroup(ctx context.Context, number int) error

	GetPaymentTerms(ctx context.Context) ([]domain.PaymentTerm, error)
	GetPaymentTerm(ctx context.Context, number int) (*domain.PaymentTerm, error)
	CreatePaymentTerm(ctx context.Context, term *domain.PaymentTerm) error
	UpdatePaymentTerm(ctx context.Context, term *domain.PaymentTerm) error
	DeletePaymentTerm(ctx context.Context, number int) error
}

// Store is everything the accounting handlers persist.
type Store interface {
	AccountingRepository
	AccountRepository
	PostingLineRepository
	CommonRepository
	Close() error
}
