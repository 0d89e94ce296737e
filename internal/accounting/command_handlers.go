package accounting

import (
	"context"
	"errors"

	"osintranet/internal/domain"
)

// reference turns a missing referenced entity into a field validation error.
func reference(err error, field, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError(field, message)
	}
	return err
}

func (s *Service) CreateAccounting(ctx context.Context, cmd CreateAccountingCommand) error {
	return s.store.CreateAccounting(ctx, &domain.Accounting{
		Number:           cmd.Number,
		Name:             cmd.Name,
		LetterHeadNumber: cmd.LetterHeadNumber,
		BalanceBelowZero: cmd.BalanceBelowZero,
		BackDating:       cmd.BackDating,
	})
}

func (s *Service) UpdateAccounting(ctx context.Context, cmd UpdateAccountingCommand) error {
	return s.store.UpdateAccounting(ctx, &domain.Accounting{
		Number:           cmd.Number,
		Name:             cmd.Name,
		LetterHeadNumber: cmd.LetterHeadNumber,
		BalanceBelowZero: cmd.BalanceBelowZero,
		BackDating:       cmd.BackDating,
	})
}

func (s *Service) DeleteAccounting(ctx context.Context, cmd DeleteAccountingCommand) error {
	return s.store.DeleteAccounting(ctx, cmd.Number)
}

func (s *Service) checkAccounting(ctx context.Context, number int) error {
	_, err := s.store.GetAccounting(ctx, number)
	return reference(err, "AccountingNumber", "unknown accounting")
}

func (s *Service) checkAccountGroup(ctx context.Context, number int) error {
	_, err := s.store.GetAccountGroup(ctx, number)
	return reference(err, "AccountGroupNumber", "unknown account group")
}

func (s *Service) checkBudgetAccountGroup(ctx context.Context, number int) error {
	_, err := s.store.GetBudgetAccountGroup(ctx, number)
	return reference(err, "BudgetAccountGroupNumber", "unknown budget account group")
}

func (s *Service) checkPaymentTerm(ctx context.Context, number int) error {
	_, err := s.store.GetPaymentTerm(ctx, number)
	return reference(err, "PaymentTermNumber", "unknown payment term")
}

func newAccount(accountingNumber int, accountNumber, name, description, note string, group int, infos []CreditInfoValues) *domain.Account {
	a := &domain.Account{
		AccountingNumber:   accountingNumber,
		AccountNumber:      domain.NormalizeAccountNumber(accountNumber),
		AccountName:        name,
		Description:        description,
		Note:               note,
		AccountGroupNumber: group,
	}
	for _, ci := range infos {
		a.SetCreditInfo(ci.toDomain())
	}
	return a
}

func (s *Service) CreateAccount(ctx context.Context, cmd CreateAccountCommand) error {
	if err := s.checkAccounting(ctx, cmd.AccountingNumber); err != nil {
		return err
	}
	if err := s.checkAccountGroup(ctx, cmd.AccountGroupNumber); err != nil {
		return err
	}
	return s.store.CreateAccount(ctx, newAccount(cmd.AccountingNumber, cmd.AccountNumber, cmd.AccountName, cmd.Description, cmd.Note, cmd.AccountGroupNumber, cmd.CreditInfos))
}

// UpdateAccount replaces the account's master data. Credit infos given in
// the command are merged into the stored ones month by month.
func (s *Service) UpdateAccount(ctx context.Context, cmd UpdateAccountCommand) error {
	existing, err := s.store.GetAccount(ctx, cmd.AccountingNumber, domain.NormalizeAccountNumber(cmd.AccountNumber))
	if err != nil {
		return err
	}
	if err := s.checkAccountGroup(ctx, cmd.AccountGroupNumber); err != nil {
		return err
	}

	existing.AccountName = cmd.AccountName
	existing.Description = cmd.Description
	existing.Note = cmd.Note
	existing.AccountGroupNumber = cmd.AccountGroupNumber
	for _, ci := range cmd.CreditInfos {
		existing.SetCreditInfo(ci.toDomain())
	}
	return s.store.UpdateAccount(ctx, existing)
}

func (s *Service) DeleteAccount(ctx context.Context, cmd DeleteAccountCommand) error {
	return s.store.DeleteAccount(ctx, cmd.AccountingNumber, domain.NormalizeAccountNumber(cmd.AccountNumber))
}

func (s *Service) CreateBudgetAccount(ctx context.Context, cmd CreateBudgetAccountCommand) error {
	if err := s.checkAccounting(ctx, cmd.AccountingNumber); err != nil {
		return err
	}
	if err := s.checkBudgetAccountGroup(ctx, cmd.BudgetAccountGroupNumber); err != nil {
		return err
	}

	b := &domain.BudgetAccount{
		AccountingNumber:         cmd.AccountingNumber,
		AccountNumber:            domain.NormalizeAccountNumber(cmd.AccountNumber),
		AccountName:              cmd.AccountName,
		Description:              cmd.Description,
		Note:                     cmd.Note,
		BudgetAccountGroupNumber: cmd.BudgetAccountGroupNumber,
	}
	for _, bi := range cmd.BudgetInfos {
		b.SetBudgetInfo(bi.toDomain())
	}
	return s.store.CreateBudgetAccount(ctx, b)
}

func (s *Service) UpdateBudgetAccount(ctx context.Context, cmd UpdateBudgetAccountCommand) error {
	existing, err := s.store.GetBudgetAccount(ctx, cmd.AccountingNumber, domain.NormalizeAccountNumber(cmd.AccountNumber))
	if err != nil {
		return err
	}
	if err := s.checkBudgetAccountGroup(ctx, cmd.BudgetAccountGroupNumber); err != nil {
		return err
	}

	existing.AccountName = cmd.AccountName
	existing.Description = cmd.Description
	existing.Note = cmd.Note
	existing.BudgetAccountGroupNumber = cmd.BudgetAccountGroupNumber
	for _, bi := range cmd.BudgetInfos {
		existing.SetBudgetInfo(bi.toDomain())
	}
	return s.store.UpdateBudgetAccount(ctx, existing)
}

func (s *Service) DeleteBudgetAccount(ctx context.Context, cmd DeleteBudgetAccountCommand) error {
	return s.store.DeleteBudgetAccount(ctx, cmd.AccountingNumber, domain.NormalizeAccountNumber(cmd.AccountNumber))
}

func (s *Service) CreateContactAccount(ctx context.Context, cmd CreateContactAccountCommand) error {
	if err := s.checkAccounting(ctx, cmd.AccountingNumber); err != nil {
		return err
	}
	if err := s.checkPaymentTerm(ctx, cmd.PaymentTermNumber); err != nil {
		return err
	}
	return s.store.CreateContactAccount(ctx, &domain.ContactAccount{
		AccountingNumber:  cmd.AccountingNumber,
		AccountNumber:     domain.NormalizeAccountNumber(cmd.AccountNumber),
		AccountName:       cmd.AccountName,
		Description:       cmd.Description,
		Note:              cmd.Note,
		MailAddress:       cmd.MailAddress,
		PrimaryPhone:      cmd.PrimaryPhone,
		SecondaryPhone:    cmd.SecondaryPhone,
		PaymentTermNumber: cmd.PaymentTermNumber,
	})
}

func (s *Service) UpdateContactAccount(ctx context.Context, cmd UpdateContactAccountCommand) error {
	if err := s.checkPaymentTerm(ctx, cmd.PaymentTermNumber); err != nil {
		return err
	}
	return s.store.UpdateContactAccount(ctx, &domain.ContactAccount{
		AccountingNumber:  cmd.AccountingNumber,
		AccountNumber:     domain.NormalizeAccountNumber(cmd.AccountNumber),
		AccountName:       cmd.AccountName,
		Description:       cmd.Description,
		Note:              cmd.Note,
		MailAddress:       cmd.MailAddress,
		PrimaryPhone:      cmd.PrimaryPhone,
		SecondaryPhone:    cmd.SecondaryPhone,
		PaymentTermNumber: cmd.PaymentTermNumber,
	})
}

func (s *Service) DeleteContactAccount(ctx context.Context, cmd DeleteContactAccountCommand) error {
	return s.store.DeleteContactAccount(ctx, cmd.AccountingNumber, domain.NormalizeAccountNumber(cmd.AccountNumber))
}

func (s *Service) CreateAccountGroup(ctx context.Context, cmd CreateAccountGroupCommand) error {
	return s.store.CreateAccountGroup(ctx, &domain.AccountGroup{Number: cmd.Number, Name: cmd.Name, AccountGroupType: cmd.AccountGroupType})
}

func (s *Service) UpdateAccountGroup(ctx context.Context, cmd UpdateAccountGroupCommand) error {
	return s.store.UpdateAccountGroup(ctx, &domain.AccountGroup{Number: cmd.Number, Name: cmd.Name, AccountGroupType: cmd.AccountGroupType})
}

func (s *Service) DeleteAccountGroup(ctx context.Context, cmd DeleteAccountGroupCommand) error {
	return s.store.DeleteAccountGroup(ctx, cmd.Number)
}

func (s *Service) CreateBudgetAccountGroup(ctx context.Context, cmd CreateBudgetAccountGroupCommand) error {
	return s.store.CreateBudgetAccountGroup(ctx, &domain.BudgetAccountGroup{Number: cmd.Number, Name: cmd.Name})
}

func (s *Service) UpdateBudgetAccountGroup(ctx context.Context, cmd UpdateBudgetAccountGroupCommand) error {
	return s.store.UpdateBudgetAccountGroup(ctx, &domain.BudgetAccountGroup{Number: cmd.Number, Name: cmd.Name})
}

func (s *Service) DeleteBudgetAccountGroup(ctx context.Context, cmd DeleteBudgetAccountGroupCommand) error {
	return s.store.DeleteBudgetAccountGroup(ctx, cmd.Number)
}

func (s *Service) CreatePaymentTerm(ctx context.Context, cmd CreatePaymentTermCommand) error {
	return s.store.CreatePaymentTerm(ctx, &domain.PaymentTerm{Number: cmd.Number, Name: cmd.Name})
}

func (s *Service) UpdatePaymentTerm(ctx context.Context, cmd UpdatePaymentTermCommand) error {
	return s.store.UpdatePaymentTerm(ctx, &domain.PaymentTerm{Number: cmd.Number, Name: cmd.Name})
}

func (s *Service) DeletePaymentTerm(ctx context.Context, cmd DeletePaymentTermCommand) error {
	return s.store.DeletePaymentTerm(ctx, cmd.Number)
}
