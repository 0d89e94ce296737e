package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"osintranet/internal/domain"
)

func accountSubject(kind string, accountingNumber int, accountNumber string) string {
	return fmt.Sprintf("%s %s in accounting %d", kind, accountNumber, accountingNumber)
}

// Accounts

func (s *PostgresStore) GetAccounts(ctx context.Context, accountingNumber int) ([]domain.Account, error) {
	query := `
		SELECT accounting_number, account_number, account_name, description, note, account_group_number
		FROM accounts
		WHERE accounting_number = $1
		ORDER BY account_number
	`

	rows, err := s.db.QueryContext(ctx, query, accountingNumber)
	if err != nil {
		return nil, mapError(err, "accounts", domain.ErrNotFound)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.AccountingNumber, &a.AccountNumber, &a.AccountName, &a.Description, &a.Note, &a.AccountGroupNumber); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	infos, err := s.creditInfos(ctx, accountingNumber, "")
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		accounts[i].CreditInfos = infos[accounts[i].AccountNumber]
	}
	return accounts, nil
}

func (s *PostgresStore) GetAccount(ctx context.Context, accountingNumber int, accountNumber string) (*domain.Account, error) {
	query := `
		SELECT accounting_number, account_number, account_name, description, note, account_group_number
		FROM accounts
		WHERE accounting_number = $1 AND account_number = $2
	`

	subject := accountSubject("account", accountingNumber, accountNumber)
	var a domain.Account
	err := s.db.QueryRowContext(ctx, query, accountingNumber, accountNumber).Scan(
		&a.AccountingNumber, &a.AccountNumber, &a.AccountName, &a.Description, &a.Note, &a.AccountGroupNumber,
	)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("%s", subject)
	}
	if err != nil {
		return nil, mapError(err, subject, domain.ErrNotFound)
	}

	infos, err := s.creditInfos(ctx, accountingNumber, accountNumber)
	if err != nil {
		return nil, err
	}
	a.CreditInfos = infos[accountNumber]
	return &a, nil
}

// creditInfos loads credit infos per account number; an empty accountNumber
// loads the whole accounting.
func (s *PostgresStore) creditInfos(ctx context.Context, accountingNumber int, accountNumber string) (map[string][]domain.CreditInfo, error) {
	query := `
		SELECT account_number, year, month, credit
		FROM credit_infos
		WHERE accounting_number = $1 AND ($2 = '' OR account_number = $2)
		ORDER BY account_number, year, month
	`

	rows, err := s.db.QueryContext(ctx, query, accountingNumber, accountNumber)
	if err != nil {
		return nil, mapError(err, "credit infos", domain.ErrNotFound)
	}
	defer rows.Close()

	result := make(map[string][]domain.CreditInfo)
	for rows.Next() {
		var (
			number string
			month  int
			ci     domain.CreditInfo
		)
		if err := rows.Scan(&number, &ci.Year, &month, &ci.Credit); err != nil {
			return nil, err
		}
		ci.Month = time.Month(month)
		result[number] = append(result[number], ci)
	}
	return result, rows.Err()
}

func (s *PostgresStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	return s.writeAccount(ctx, account, `
		INSERT INTO accounts (accounting_number, account_number, account_name, description, note, account_group_number)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
}

func (s *PostgresStore) UpdateAccount(ctx context.Context, account *domain.Account) error {
	return s.writeAccount(ctx, account, `
		UPDATE accounts
		SET account_name = $3, description = $4, note = $5, account_group_number = $6
		WHERE accounting_number = $1 AND account_number = $2
	`)
}

func (s *PostgresStore) writeAccount(ctx context.Context, account *domain.Account, statement string) error {
	subject := accountSubject("account", account.AccountingNumber, account.AccountNumber)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, statement,
		account.AccountingNumber,
		account.AccountNumber,
		account.AccountName,
		account.Description,
		account.Note,
		account.AccountGroupNumber,
	)
	if err != nil {
		return mapError(err, subject, domain.ErrNotFound)
	}
	if err := requireAffected(res, subject); err != nil {
		return err
	}

	upsert := `
		INSERT INTO credit_infos (accounting_number, account_number, year, month, credit)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (accounting_number, account_number, year, month) DO UPDATE SET credit = EXCLUDED.credit
	`
	for _, ci := range account.CreditInfos {
		if _, err := tx.ExecContext(ctx, upsert, account.AccountingNumber, account.AccountNumber, ci.Year, int(ci.Month), ci.Credit); err != nil {
			return mapError(err, subject, domain.ErrNotFound)
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) DeleteAccount(ctx context.Context, accountingNumber int, accountNumber string) error {
	subject := accountSubject("account", accountingNumber, accountNumber)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE accounting_number = $1 AND account_number = $2`,
		accountingNumber, accountNumber,
	)
	if err != nil {
		return mapError(err, subject, domain.ErrInUse)
	}
	return requireAffected(res, subject)
}

// Budget accounts

func (s *PostgresStore) GetBudgetAccounts(ctx context.Context, accountingNumber int) ([]domain.BudgetAccount, error) {
	query := `
		SELECT accounting_number, account_number, account_name, description, note, budget_account_group_number
		FROM budget_accounts
		WHERE accounting_number = $1
		ORDER BY account_number
	`

	rows, err := s.db.QueryContext(ctx, query, accountingNumber)
	if err != nil {
		return nil, mapError(err, "budget accounts", domain.ErrNotFound)
	}
	defer rows.Close()

	accounts := make([]domain.BudgetAccount, 0)
	for rows.Next() {
		var a domain.BudgetAccount
		if err := rows.Scan(&a.AccountingNumber, &a.AccountNumber, &a.AccountName, &a.Description, &a.Note, &a.BudgetAccountGroupNumber); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	infos, err := s.budgetInfos(ctx, accountingNumber, "")
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		accounts[i].BudgetInfos = infos[accounts[i].AccountNumber]
	}
	return accounts, nil
}

func (s *PostgresStore) GetBudgetAccount(ctx context.Context, accountingNumber int, accountNumber string) (*domain.BudgetAccount, error) {
	query := `
		SELECT accounting_number, account_number, account_name, description, note, budget_account_group_number
		FROM budget_accounts
		WHERE accounting_number = $1 AND account_number = $2
	`

	subject := accountSubject("budget account", accountingNumber, accountNumber)
	var a domain.BudgetAccount
	err := s.db.QueryRowContext(ctx, query, accountingNumber, accountNumber).Scan(
		&a.AccountingNumber, &a.AccountNumber, &a.AccountName, &a.Description, &a.Note, &a.BudgetAccountGroupNumber,
	)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("%s", subject)
	}
	if err != nil {
		return nil, mapError(err, subject, domain.ErrNotFound)
	}

	infos, err := s.budgetInfos(ctx, accountingNumber, accountNumber)
	if err != nil {
		return nil, err
	}
	a.BudgetInfos = infos[accountNumber]
	return &a, nil
}

func (s *PostgresStore) budgetInfos(ctx context.Context, accountingNumber int, accountNumber string) (map[string][]domain.BudgetInfo, error) {
	query := `
		SELECT account_number, year, month, income, expenses
		FROM budget_infos
		WHERE accounting_number = $1 AND ($2 = '' OR account_number = $2)
		ORDER BY account_number, year, month
	`

	rows, err := s.db.QueryContext(ctx, query, accountingNumber, accountNumber)
	if err != nil {
		return nil, mapError(err, "budget infos", domain.ErrNotFound)
	}
	defer rows.Close()

	result := make(map[string][]domain.BudgetInfo)
	for rows.Next() {
		var (
			number string
			month  int
			bi     domain.BudgetInfo
		)
		if err := rows.Scan(&number, &bi.Year, &month, &bi.Income, &bi.Expenses); err != nil {
			return nil, err
		}
		bi.Month = time.Month(month)
		result[number] = append(result[number], bi)
	}
	return result, rows.Err()
}

func (s *PostgresStore) CreateBudgetAccount(ctx context.Context, account *domain.BudgetAccount) error {
	return s.writeBudgetAccount(ctx, account, `
		INSERT INTO budget_accounts (accounting_number, account_number, account_name, description, note, budget_account_group_number)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
}

func (s *PostgresStore) UpdateBudgetAccount(ctx context.Context, account *domain.BudgetAccount) error {
	return s.writeBudgetAccount(ctx, account, `
		UPDATE budget_accounts
		SET account_name = $3, description = $4, note = $5, budget_account_group_number = $6
		WHERE accounting_number = $1 AND account_number = $2
	`)
}

func (s *PostgresStore) writeBudgetAccount(ctx context.Context, account *domain.BudgetAccount, statement string) error {
	subject := accountSubject("budget account", account.AccountingNumber, account.AccountNumber)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, statement,
		account.AccountingNumber,
		account.AccountNumber,
		account.AccountName,
		account.Description,
		account.Note,
		account.BudgetAccountGroupNumber,
	)
	if err != nil {
		return mapError(err, subject, domain.ErrNotFound)
	}
	if err := requireAffected(res, subject); err != nil {
		return err
	}

	upsert := `
		INSERT INTO budget_infos (accounting_number, account_number, year, month, income, expenses)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (accounting_number, account_number, year, month)
		DO UPDATE SET income = EXCLUDED.income, expenses = EXCLUDED.expenses
	`
	for _, bi := range account.BudgetInfos {
		if _, err := tx.ExecContext(ctx, upsert, account.AccountingNumber, account.AccountNumber, bi.Year, int(bi.Month), bi.Income, bi.Expenses); err != nil {
			return mapError(err, subject, domain.ErrNotFound)
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) DeleteBudgetAccount(ctx context.Context, accountingNumber int, accountNumber string) error {
	subject := accountSubject("budget account", accountingNumber, accountNumber)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM budget_accounts WHERE accounting_number = $1 AND account_number = $2`,
		accountingNumber, accountNumber,
	)
	if err != nil {
		return mapError(err, subject, domain.ErrInUse)
	}
	return requireAffected(res, subject)
}

// Contact accounts

const contactAccountColumns = `accounting_number, account_number, account_name, description, note,
		mail_address, primary_phone, secondary_phone, payment_term_number`

func scanContactAccount(scan func(dest ...interface{}) error, a *domain.ContactAccount) error {
	return scan(
		&a.AccountingNumber, &a.AccountNumber, &a.AccountName, &a.Description, &a.Note,
		&a.MailAddress, &a.PrimaryPhone, &a.SecondaryPhone, &a.PaymentTermNumber,
	)
}

func (s *PostgresStore) GetContactAccounts(ctx context.Context, accountingNumber int) ([]domain.ContactAccount, error) {
	query := `SELECT ` + contactAccountColumns + `
		FROM contact_accounts
		WHERE accounting_number = $1
		ORDER BY account_number
	`

	rows, err := s.db.QueryContext(ctx, query, accountingNumber)
	if err != nil {
		return nil, mapError(err, "contact accounts", domain.ErrNotFound)
	}
	defer rows.Close()

	accounts := make([]domain.ContactAccount, 0)
	for rows.Next() {
		var a domain.ContactAccount
		if err := scanContactAccount(rows.Scan, &a); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *PostgresStore) GetContactAccount(ctx context.Context, accountingNumber int, accountNumber string) (*domain.ContactAccount, error) {
	query := `SELECT ` + contactAccountColumns + `
		FROM contact_accounts
		WHERE accounting_number = $1 AND account_number = $2
	`

	subject := accountSubject("contact account", accountingNumber, accountNumber)
	var a domain.ContactAccount
	err := scanContactAccount(s.db.QueryRowContext(ctx, query, accountingNumber, accountNumber).Scan, &a)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("%s", subject)
	}
	if err != nil {
		return nil, mapError(err, subject, domain.ErrNotFound)
	}
	return &a, nil
}

func (s *PostgresStore) CreateContactAccount(ctx context.Context, account *domain.ContactAccount) error {
	query := `
		INSERT INTO contact_accounts (` + contactAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query, contactAccountArgs(account)...)
	return mapError(err, accountSubject("contact account", account.AccountingNumber, account.AccountNumber), domain.ErrNotFound)
}

func (s *PostgresStore) UpdateContactAccount(ctx context.Context, account *domain.ContactAccount) error {
	query := `
		UPDATE contact_accounts
		SET account_name = $3, description = $4, note = $5, mail_address = $6,
			primary_phone = $7, secondary_phone = $8, payment_term_number = $9
		WHERE accounting_number = $1 AND account_number = $2
	`

	subject := accountSubject("contact account", account.AccountingNumber, account.AccountNumber)
	res, err := s.db.ExecContext(ctx, query, contactAccountArgs(account)...)
	if err != nil {
		return mapError(err, subject, domain.ErrNotFound)
	}
	return requireAffected(res, subject)
}

func contactAccountArgs(a *domain.ContactAccount) []interface{} {
	return []interface{}{
		a.AccountingNumber, a.AccountNumber, a.AccountName, a.Description, a.Note,
		a.MailAddress, a.PrimaryPhone, a.SecondaryPhone, a.PaymentTermNumber,
	}
}

func (s *PostgresStore) DeleteContactAccount(ctx context.Context, accountingNumber int, accountNumber string) error {
	subject := accountSubject("contact account", accountingNumber, accountNumber)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM contact_accounts WHERE accounting_number = $1 AND account_number = $2`,
		accountingNumber, accountNumber,
	)
	if err != nil {
		return mapError(err, subject, domain.ErrInUse)
	}
	return requireAffected(res, subject)
}
