package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"osintranet/internal/accounting"
	"osintranet/internal/bus"
	"osintranet/internal/domain"
	"osintranet/internal/parser"
	"osintranet/pkg/logger"
)

// controller is shared by every handler: the buses and the clock used for
// status dates.
type controller struct {
	commands bus.CommandBus
	queries  bus.QueryBus
	now      func() time.Time
}

func newController(commands bus.CommandBus, queries bus.QueryBus, now func() time.Time) controller {
	if now == nil {
		now = time.Now
	}
	return controller{commands: commands, queries: queries, now: now}
}

func (h controller) today() time.Time {
	return domain.StripTime(h.now())
}

func (h controller) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error", ErrorView{
		Page:    Page{Title: http.StatusText(status)},
		Status:  status,
		Message: message,
	})
}

func (h controller) badRequest(c *gin.Context, message string) {
	h.renderError(c, http.StatusBadRequest, message)
}

// failed renders the error page for an error returned by the bus.
func (h controller) failed(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		logger.GetLogger().WithError(err).WithField("path", c.Request.URL.Path).Info(action + " failed: not found")
		h.renderError(c, http.StatusNotFound, "The requested item was not found")
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrExists), errors.Is(err, domain.ErrInUse):
		logger.GetLogger().WithError(err).WithField("path", c.Request.URL.Path).Info(action + " rejected")
		h.renderError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.GetLogger().WithError(err).WithField("path", c.Request.URL.Path).Error(action + " failed")
		h.renderError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// rejected maps a command error to form errors. It reports false when the
// error is not something the user can correct in the form.
func rejected(err error) (map[string]string, bool) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Fields, true
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrExists), errors.Is(err, domain.ErrInUse):
		return map[string]string{formError: err.Error()}, true
	}
	return nil, false
}

// bindingErrors turns gin binding failures into form errors keyed by field.
func bindingErrors(err error) map[string]string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{formError: err.Error()}
	}
	errs := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs[fe.Field()] = fieldMessage(fe)
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "numeric":
		return "must be a number"
	case "email":
		return "must be a valid mail address"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

// accountingNumber reads the accountingNumber route value. It renders 400
// and reports false when the value is missing or not a positive number.
func (h controller) accountingNumber(c *gin.Context) (int, bool) {
	return h.positiveParam(c, "accountingNumber")
}

func (h controller) positiveParam(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Param(name))
	n, err := strconv.Atoi(raw)
	if raw == "" || err != nil || n <= 0 {
		logger.GetLogger().WithField(name, raw).Warn("Invalid route value")
		h.badRequest(c, fmt.Sprintf("Invalid %s: %q", name, raw))
		return 0, false
	}
	return n, true
}

// accountNumber reads the accountNumber route value, trimmed and upper-cased.
func (h controller) accountNumber(c *gin.Context) (string, bool) {
	accountNumber := domain.NormalizeAccountNumber(c.Param("accountNumber"))
	if accountNumber == "" {
		logger.GetLogger().Warn("Missing account number")
		h.badRequest(c, "Missing accountNumber")
		return "", false
	}
	return accountNumber, true
}

// statusDate reads the optional statusDate query value. It defaults to today
// and never carries a time of day.
func (h controller) statusDate(c *gin.Context) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query("statusDate"))
	if raw == "" {
		return h.today(), true
	}
	date, err := parser.ParseDate(raw)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("statusDate", raw).Warn("Invalid status date")
		h.badRequest(c, fmt.Sprintf("Invalid statusDate: %q", raw))
		return time.Time{}, false
	}
	return domain.StripTime(date), true
}

// numberOfPostingLines reads the optional numberOfPostingLines query value.
// Zero leaves the choice to the query handler.
func (h controller) numberOfPostingLines(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("numberOfPostingLines"))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		h.badRequest(c, fmt.Sprintf("Invalid numberOfPostingLines: %q", raw))
		return 0, false
	}
	if n < 1 {
		n = 1
	}
	if n > accounting.MaxNumberOfPostingLines {
		n = accounting.MaxNumberOfPostingLines
	}
	return n, true
}

func (h controller) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// download sends an export file as an attachment.
func download(c *gin.Context, file accounting.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
