package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"osintranet/internal/accounting"
	"osintranet/internal/domain"
	"osintranet/pkg/logger"
)

// PostingJournalParser reads posting journal lines from semicolon separated
// files with a header row naming the columns.
type PostingJournalParser interface {
	Parse(r io.Reader, batchSize int, callback func([]accounting.ApplyPostingLine) error) error
}

// CSVPostingJournalParser implements a streaming CSV parser
type CSVPostingJournalParser struct {
	comma rune
}

func NewCSVPostingJournalParser() *CSVPostingJournalParser {
	return &CSVPostingJournalParser{comma: ';'}
}

// Parse reads r in streaming mode and hands lines to callback in batches.
// Rows that cannot be parsed are logged and skipped.
func (p *CSVPostingJournalParser) Parse(r io.Reader, batchSize int, callback func([]accounting.ApplyPostingLine) error) error {
	if batchSize <= 0 {
		batchSize = 100
	}

	reader := csv.NewReader(r)
	reader.Comma = p.comma
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to read CSV header")
		return fmt.Errorf("failed to read header: %w", err)
	}

	columnMap := mapColumns(header)
	if !validateColumns(columnMap) {
		return fmt.Errorf("invalid CSV format: missing required columns (date, account, details, debit or credit)")
	}

	batch := make([]accounting.ApplyPostingLine, 0, batchSize)
	lineNumber := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNumber++
		if err != nil {
			logger.GetLogger().WithError(err).WithField("line", lineNumber).Warn("Failed to read CSV row, skipping")
			continue
		}

		line, err := parseRecord(record, columnMap, lineNumber)
		if err != nil {
			logger.GetLogger().WithError(err).WithField("line", lineNumber).Warn("Failed to parse record, skipping")
			continue
		}

		batch = append(batch, *line)

		if len(batch) >= batchSize {
			if err := callback(batch); err != nil {
				return err
			}
			batch = make([]accounting.ApplyPostingLine, 0, batchSize)
		}
	}

	if len(batch) > 0 {
		if err := callback(batch); err != nil {
			return err
		}
	}

	return nil
}

func field(record []string, columnMap map[string]int, name string) string {
	i, ok := columnMap[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseRecord(record []string, columnMap map[string]int, lineNumber int) (*accounting.ApplyPostingLine, error) {
	dateStr := field(record, columnMap, "date")
	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date '%s' at line %d: %w", dateStr, lineNumber, err)
	}

	account := field(record, columnMap, "account")
	if account == "" {
		return nil, fmt.Errorf("empty account at line %d", lineNumber)
	}

	details := field(record, columnMap, "details")
	if details == "" {
		return nil, fmt.Errorf("empty details at line %d", lineNumber)
	}

	debit, err := parseAmount(field(record, columnMap, "debit"))
	if err != nil {
		return nil, fmt.Errorf("invalid debit at line %d: %w", lineNumber, err)
	}
	credit, err := parseAmount(field(record, columnMap, "credit"))
	if err != nil {
		return nil, fmt.Errorf("invalid credit at line %d: %w", lineNumber, err)
	}

	return &accounting.ApplyPostingLine{
		PostingDate:          date,
		Reference:            field(record, columnMap, "reference"),
		AccountNumber:        strings.ToUpper(account),
		Details:              details,
		BudgetAccountNumber:  strings.ToUpper(field(record, columnMap, "budget_account")),
		Debit:                debit,
		Credit:               credit,
		ContactAccountNumber: strings.ToUpper(field(record, columnMap, "contact_account")),
	}, nil
}

// parseAmount reads an empty string as zero and accepts a decimal comma.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

func mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)
	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		columnMap[normalized] = i
	}
	return columnMap
}

func validateColumns(columnMap map[string]int) bool {
	requiredColumns := []string{"date", "account", "details"}
	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			return false
		}
	}
	_, hasDebit := columnMap["debit"]
	_, hasCredit := columnMap["credit"]
	return hasDebit || hasCredit
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	time.RFC3339,
}

// ParseDate accepts the date layouts used in journal files and query strings
// and returns the calendar day as written, see domain.StripTime.
func ParseDate(dateStr string) (time.Time, error) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return domain.StripTime(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
