package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"osintranet/internal/domain"
)

// Logging logs each dispatched message with its duration.
func Logging(log *logrus.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg interface{}) (interface{}, error) {
			start := time.Now()
			res, err := next(ctx, msg)

			entry := log.WithFields(logrus.Fields{
				"message":  MessageName(msg),
				"duration": time.Since(start).Milliseconds(),
			})
			switch {
			case err == nil:
				entry.Debug("Message handled")
			case isExpected(err):
				entry.WithError(err).Info("Message rejected")
			default:
				entry.WithError(err).Error("Message failed")
			}
			return res, err
		}
	}
}

func isExpected(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrExists) ||
		errors.Is(err, domain.ErrInUse)
}

// Validator is implemented by messages with rules beyond struct tags.
type Validator interface {
	Validate() error
}

// Validation checks `validate` struct tags and then Validate(), turning
// failures into *domain.ValidationError before the handler runs.
func Validation(v *validator.Validate) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg interface{}) (interface{}, error) {
			if reflect.Indirect(reflect.ValueOf(msg)).Kind() == reflect.Struct {
				if err := v.StructCtx(ctx, msg); err != nil {
					return nil, translate(err)
				}
			}
			if mv, ok := msg.(Validator); ok {
				if err := mv.Validate(); err != nil {
					return nil, err
				}
			}
			return next(ctx, msg)
		}
	}
}

func translate(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	verr := &domain.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fieldName(fe), ruleMessage(fe))
	}
	return verr
}

func fieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "email":
		return "must be a valid mail address"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
