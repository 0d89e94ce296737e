package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osintranet/internal/accounting"
)

func collect(t *testing.T, content string, batchSize int) ([]accounting.ApplyPostingLine, int, error) {
	t.Helper()
	var lines []accounting.ApplyPostingLine
	batches := 0
	err := NewCSVPostingJournalParser().Parse(strings.NewReader(content), batchSize, func(batch []accounting.ApplyPostingLine) error {
		batches++
		lines = append(lines, batch...)
		return nil
	})
	return lines, batches, err
}

func TestCSVPostingJournalParser_Parse(t *testing.T) {
	content := `date;reference;account;details;budget_account;debit;credit;contact_account
2024-03-10;R1;dankort;Salary;salary;10000,00;;
2024-03-12;;DANKORT;Groceries;FOOD;;1150.50;peter
`
	lines, batches, err := collect(t, content, 100)

	require.NoError(t, err)
	assert.Equal(t, 1, batches)
	require.Len(t, lines, 2)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), lines[0].PostingDate)
	assert.Equal(t, "R1", lines[0].Reference)
	assert.Equal(t, "DANKORT", lines[0].AccountNumber)
	assert.Equal(t, "SALARY", lines[0].BudgetAccountNumber)
	assert.True(t, lines[0].Debit.Equal(decimal.NewFromInt(10000)))
	assert.True(t, lines[0].Credit.IsZero())

	assert.True(t, lines[1].Credit.Equal(decimal.RequireFromString("1150.50")))
	assert.Equal(t, "PETER", lines[1].ContactAccountNumber)
}

func TestCSVPostingJournalParser_SkipsBadRows(t *testing.T) {
	content := `date;account;details;debit
not-a-date;DANKORT;Bad date;1
2024-03-10;;No account;1
2024-03-10;DANKORT;;1
2024-03-10;DANKORT;Bad amount;abc
2024-03-10;DANKORT;Good;1
`
	lines, _, err := collect(t, content, 100)

	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Good", lines[0].Details)
}

func TestCSVPostingJournalParser_Batches(t *testing.T) {
	var b strings.Builder
	b.WriteString("date;account;details;credit\n")
	for i := 0; i < 5; i++ {
		b.WriteString("2024-03-10;DANKORT;Line;1\n")
	}

	lines, batches, err := collect(t, b.String(), 2)

	require.NoError(t, err)
	assert.Len(t, lines, 5)
	assert.Equal(t, 3, batches)
}

func TestCSVPostingJournalParser_InvalidFormat(t *testing.T) {
	_, _, err := collect(t, "id;value\n1;100\n", 100)
	assert.Error(t, err)

	_, _, err = collect(t, "date;account;details\n2024-03-10;A;B\n", 100)
	assert.Error(t, err, "debit or credit column is required")
}

func TestCSVPostingJournalParser_CallbackErrorStops(t *testing.T) {
	content := "date;account;details;debit\n2024-03-10;A;B;1\n"
	boom := errors.New("boom")

	err := NewCSVPostingJournalParser().Parse(strings.NewReader(content), 10, func([]accounting.ApplyPostingLine) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestCSVPostingJournalParser_ByteOrderMark(t *testing.T) {
	var lines []accounting.ApplyPostingLine
	err := NewCSVPostingJournalParser().Parse(strings.NewReader("\ufeffDate;Account;Details;Debit\n10.03.2024;A;B;1\n"), 10, func(batch []accounting.ApplyPostingLine) error {
		lines = append(lines, batch...)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, time.March, lines[0].PostingDate.Month())
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2024-03-10", "2024-03-10 08:00:00", "10-03-2024", "10.03.2024", "2024/03/10", "2024-03-10T08:00:00Z", "2024-03-10T23:30:00-05:00", "2024-03-10T00:30:00+02:00"} {
		d, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, d, s)
	}

	_, err := ParseDate("March 10")
	assert.Error(t, err)
}
