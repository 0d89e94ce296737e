package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"osintranet/internal/accounting"
	"osintranet/internal/bus"
	"osintranet/internal/domain"
	"osintranet/internal/parser"
	"osintranet/pkg/logger"
	"osintranet/pkg/response"
)

const importBatchSize = 100

// PostingLineRequest is one line of a posting journal posted as JSON.
type PostingLineRequest struct {
	PostingDate          string          `json:"posting_date" binding:"required"`
	Reference            string          `json:"reference"`
	AccountNumber        string          `json:"account_number" binding:"required"`
	Details              string          `json:"details" binding:"required"`
	BudgetAccountNumber  string          `json:"budget_account_number"`
	Debit                decimal.Decimal `json:"debit"`
	Credit               decimal.Decimal `json:"credit"`
	ContactAccountNumber string          `json:"contact_account_number"`
}

type ApplyPostingJournalRequest struct {
	PostingLines []PostingLineRequest `json:"posting_lines" binding:"required,min=1,dive"`
}

type PostingHandler struct {
	controller
	parser parser.PostingJournalParser
}

func NewPostingHandler(commands bus.CommandBus, queries bus.QueryBus, journalParser parser.PostingJournalParser, now func() time.Time) *PostingHandler {
	if journalParser == nil {
		journalParser = parser.NewCSVPostingJournalParser()
	}
	return &PostingHandler{
		controller: newController(commands, queries, now),
		parser:     journalParser,
	}
}

// PostingLines godoc
// @Summary Latest posting lines as an HTML fragment
// @Tags posting-lines
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param statusDate query string false "Status date (YYYY-MM-DD), defaults to today"
// @Param numberOfPostingLines query int false "Number of lines, 1 to 250"
// @Router /accounting/{accountingNumber}/posting-lines [get]
func (h *PostingHandler) PostingLines(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	statusDate, ok := h.statusDate(c)
	if !ok {
		return
	}
	numberOfPostingLines, ok := h.numberOfPostingLines(c)
	if !ok {
		return
	}

	postingLines, err := bus.QueryFor[[]domain.PostingLine](c.Request.Context(), h.queries, accounting.GetPostingLinesQuery{
		AccountingNumber:     accountingNumber,
		StatusDate:           statusDate,
		NumberOfPostingLines: numberOfPostingLines,
	})
	if err != nil {
		h.failed(c, err, "List posting lines")
		return
	}
	c.HTML(http.StatusOK, "posting-lines/partial", PostingLinesView{
		Page:             Page{Title: "Posting lines"},
		AccountingNumber: accountingNumber,
		StatusDate:       statusDate,
		PostingLines:     postingLines,
	})
}

func (h *PostingHandler) journalView(ctx context.Context, accountingNumber int) (PostingJournalView, error) {
	today := h.today()
	view := PostingJournalView{
		Page:             Page{Title: "Posting journal"},
		AccountingNumber: accountingNumber,
		Today:            today,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := bus.QueryFor[domain.Accounting](ctx, h.queries, accounting.GetAccountingQuery{AccountingNumber: accountingNumber})
		if err != nil {
			return err
		}
		view.EarliestPostingDate = a.EarliestPostingDate(today)
		return nil
	})
	g.Go(func() error {
		var err error
		view.Accounts, err = bus.QueryFor[[]domain.AccountStatus](ctx, h.queries, accounting.GetAccountsQuery{AccountingNumber: accountingNumber, StatusDate: today})
		return err
	})
	g.Go(func() error {
		var err error
		view.PostingLines, err = bus.QueryFor[[]domain.PostingLine](ctx, h.queries, accounting.GetPostingLinesQuery{AccountingNumber: accountingNumber, StatusDate: today})
		return err
	})
	if err := g.Wait(); err != nil {
		return PostingJournalView{}, err
	}
	return view, nil
}

// PostingJournal godoc
// @Summary Posting journal form
// @Tags posting-journal
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Router /accounting/{accountingNumber}/posting-journal [get]
func (h *PostingHandler) PostingJournal(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}
	view, err := h.journalView(c.Request.Context(), accountingNumber)
	if err != nil {
		h.failed(c, err, "Load posting journal")
		return
	}
	c.HTML(http.StatusOK, "posting-journal/form", view)
}

// Apply godoc
// @Summary Apply a posting journal
// @Description Books every line or none. The result lists the booked lines and any warnings.
// @Tags posting-journal
// @Accept json
// @Produce json
// @Param accountingNumber path int true "Accounting number"
// @Param journal body ApplyPostingJournalRequest true "Posting lines"
// @Success 200 {object} response.Response{data=domain.PostingJournalResult}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /accounting/{accountingNumber}/posting-journal/apply [post]
func (h *PostingHandler) Apply(c *gin.Context) {
	raw := strings.TrimSpace(c.Param("accountingNumber"))
	accountingNumber, err := strconv.Atoi(raw)
	if err != nil || accountingNumber <= 0 {
		response.BadRequest(c, "Invalid accountingNumber", raw)
		return
	}

	var req ApplyPostingJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithError(err).Info("Invalid posting journal request")
		response.FieldErrors(c, requestErrors(err))
		return
	}

	lines, errs := postingLinesOf(req)
	if errs != nil {
		response.FieldErrors(c, errs)
		return
	}

	result, err := bus.PublishFor[domain.PostingJournalResult](c.Request.Context(), h.commands, accounting.ApplyPostingJournalCommand{
		AccountingNumber: accountingNumber,
		PostingLines:     lines,
	})
	if err != nil {
		h.journalFailed(c, err)
		return
	}
	response.Success(c, http.StatusOK, fmt.Sprintf("%d posting lines applied", len(result.PostingLines)), result)
}

// requestErrors keys binding failures by their path below the request, such
// as "PostingLines[0].Details".
func requestErrors(err error) map[string]string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{formError: err.Error()}
	}
	errs := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fe.StructNamespace()
		if i := strings.Index(name, "."); i >= 0 {
			name = name[i+1:]
		}
		errs[name] = fieldMessage(fe)
	}
	return errs
}

func (h *PostingHandler) journalFailed(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(c, "Accounting not found")
	case errors.As(err, &verr):
		response.FieldErrors(c, verr.Fields)
	case errors.Is(err, domain.ErrValidation):
		response.ValidationError(c, err.Error())
	default:
		logger.GetLogger().WithError(err).Error("Failed to apply posting journal")
		response.InternalError(c, "Failed to apply posting journal", "")
	}
}

func postingLinesOf(req ApplyPostingJournalRequest) ([]accounting.ApplyPostingLine, map[string]string) {
	lines := make([]accounting.ApplyPostingLine, 0, len(req.PostingLines))
	var errs map[string]string
	for i, l := range req.PostingLines {
		postingDate, err := parser.ParseDate(l.PostingDate)
		if err != nil {
			if errs == nil {
				errs = make(map[string]string)
			}
			errs[fmt.Sprintf("PostingLines[%d].PostingDate", i)] = "is not a valid date"
			continue
		}
		lines = append(lines, accounting.ApplyPostingLine{
			PostingDate:          domain.StripTime(postingDate),
			Reference:            strings.TrimSpace(l.Reference),
			AccountNumber:        domain.NormalizeAccountNumber(l.AccountNumber),
			Details:              strings.TrimSpace(l.Details),
			BudgetAccountNumber:  domain.NormalizeAccountNumber(l.BudgetAccountNumber),
			Debit:                l.Debit,
			Credit:               l.Credit,
			ContactAccountNumber: domain.NormalizeAccountNumber(l.ContactAccountNumber),
		})
	}
	return lines, errs
}

// Import godoc
// @Summary Import a posting journal from a CSV file
// @Description Columns: date;reference;account;details;budget_account;debit;credit;contact_account
// @Tags posting-journal
// @Accept multipart/form-data
// @Produce html
// @Param accountingNumber path int true "Accounting number"
// @Param file formData file true "Semicolon separated posting journal"
// @Failure 422 {string} string "Posting journal form with errors"
// @Router /accounting/{accountingNumber}/posting-journal/import [post]
func (h *PostingHandler) Import(c *gin.Context) {
	accountingNumber, ok := h.accountingNumber(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.rejectImport(c, accountingNumber, map[string]string{"File": "is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.failed(c, fmt.Errorf("open upload: %w", err), "Import posting journal")
		return
	}
	defer file.Close()

	var lines []accounting.ApplyPostingLine
	err = h.parser.Parse(file, importBatchSize, func(batch []accounting.ApplyPostingLine) error {
		lines = append(lines, batch...)
		return nil
	})
	if err != nil {
		logger.GetLogger().WithError(err).WithField("file", fileHeader.Filename).Info("Unreadable posting journal")
		h.rejectImport(c, accountingNumber, map[string]string{"File": err.Error()})
		return
	}
	if len(lines) == 0 {
		h.rejectImport(c, accountingNumber, map[string]string{"File": "contains no posting lines"})
		return
	}

	result, err := bus.PublishFor[domain.PostingJournalResult](c.Request.Context(), h.commands, accounting.ApplyPostingJournalCommand{
		AccountingNumber: accountingNumber,
		PostingLines:     lines,
	})
	if err != nil {
		if errs, ok := rejected(err); ok {
			h.rejectImport(c, accountingNumber, errs)
			return
		}
		h.failed(c, err, "Import posting journal")
		return
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"accounting_number": accountingNumber,
		"file":              fileHeader.Filename,
		"lines":             len(result.PostingLines),
		"warnings":          len(result.PostingWarnings),
	}).Info("Posting journal imported")

	c.HTML(http.StatusOK, "posting-journal/result", PostingJournalResultView{
		Page:             Page{Title: "Posting journal"},
		AccountingNumber: accountingNumber,
		Result:           result,
	})
}

func (h *PostingHandler) rejectImport(c *gin.Context, accountingNumber int, errs map[string]string) {
	view, err := h.journalView(c.Request.Context(), accountingNumber)
	if err != nil {
		h.failed(c, err, "Load posting journal")
		return
	}
	view.Errors = errs
	c.HTML(http.StatusUnprocessableEntity, "posting-journal/form", view)
}
