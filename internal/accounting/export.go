package accounting

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"osintranet/internal/domain"
	"osintranet/pkg/logger"
)

const csvContentType = "text/csv; charset=utf-8"

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportName(kind string, accountingNumber int, statusDate time.Time) string {
	return fmt.Sprintf("%s-%d-%s.csv", kind, accountingNumber, statusDate.Format(domain.DateLayout))
}

// archiveExport keeps a copy of the file. Archive failures never fail the
// export.
func (s *Service) archiveExport(ctx context.Context, file ExportFile) {
	if err := s.archive.Store(ctx, file.FileName, file.ContentType, file.Data); err != nil {
		logger.GetLogger().WithError(err).WithField("file", file.FileName).Warn("Failed to archive export")
	}
}

func (s *Service) export(ctx context.Context, kind string, accountingNumber int, statusDate time.Time, header []string, rows [][]string) (ExportFile, error) {
	data, err := writeCSV(header, rows)
	if err != nil {
		return ExportFile{}, fmt.Errorf("failed to write %s export: %w", kind, err)
	}
	file := ExportFile{
		FileName:    exportName(kind, accountingNumber, statusDate),
		ContentType: csvContentType,
		Data:        data,
	}
	s.archiveExport(ctx, file)
	return file, nil
}

func (s *Service) ExportAccounts(ctx context.Context, q ExportAccountsQuery) (ExportFile, error) {
	statusDate := s.statusDate(q.StatusDate)
	statuses, err := s.accountStatuses(ctx, q.AccountingNumber, statusDate)
	if err != nil {
		return ExportFile{}, err
	}

	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		rows = append(rows, []string{
			st.AccountNumber,
			st.AccountName,
			st.AccountGroup.Name,
			st.Credit.StringFixed(2),
			st.Balance.StringFixed(2),
			st.Available.StringFixed(2),
		})
	}
	return s.export(ctx, "accounts", q.AccountingNumber, statusDate,
		[]string{"account_number", "account_name", "account_group", "credit", "balance", "available"}, rows)
}

func (s *Service) ExportBudgetAccounts(ctx context.Context, q ExportBudgetAccountsQuery) (ExportFile, error) {
	statusDate := s.statusDate(q.StatusDate)
	statuses, err := s.budgetAccountStatuses(ctx, q.AccountingNumber, statusDate)
	if err != nil {
		return ExportFile{}, err
	}

	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		rows = append(rows, []string{
			st.AccountNumber,
			st.AccountName,
			st.BudgetAccountGroup.Name,
			st.ThisMonth.Budget.StringFixed(2),
			st.ThisMonth.Posted.StringFixed(2),
			st.ThisMonth.Available.StringFixed(2),
			st.LastMonth.Budget.StringFixed(2),
			st.LastMonth.Posted.StringFixed(2),
			st.YearToDate.Budget.StringFixed(2),
			st.YearToDate.Posted.StringFixed(2),
		})
	}
	return s.export(ctx, "budget-accounts", q.AccountingNumber, statusDate,
		[]string{"account_number", "account_name", "budget_account_group", "budget", "posted", "available",
			"budget_last_month", "posted_last_month", "budget_year_to_date", "posted_year_to_date"}, rows)
}

func (s *Service) ExportContactAccounts(ctx context.Context, q ExportContactAccountsQuery) (ExportFile, error) {
	statusDate := s.statusDate(q.StatusDate)
	statuses, err := s.contactAccountStatuses(ctx, q.AccountingNumber, statusDate)
	if err != nil {
		return ExportFile{}, err
	}

	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		rows = append(rows, []string{
			st.AccountNumber,
			st.AccountName,
			st.MailAddress,
			st.PrimaryPhone,
			strconv.Itoa(st.PaymentTermNumber),
			st.Balance.StringFixed(2),
		})
	}
	return s.export(ctx, "contact-accounts", q.AccountingNumber, statusDate,
		[]string{"account_number", "account_name", "mail_address", "primary_phone", "payment_term", "balance"}, rows)
}
