package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

// ErrValidation is returned when a request fails its struct validation tags.
var ErrValidation = errors.New("validation failed")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// requestValidator returns the shared validator with the amount rules
// registered. Amount strings are checked for sign only; money.Parse enforces
// the two-decimal limit.
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && d.IsPositive()
		})
		validate.RegisterValidation("nonnegative_amount", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && !d.IsNegative()
		})
	})
	return validate
}

// validateRequest checks msg against its validate tags and reports the first
// failing field.
func validateRequest(msg any) error {
	err := requestValidator().Struct(msg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		if fe.Param() != "" {
			return fmt.Errorf("%w: %s failed '%s=%s'", ErrValidation, field, fe.Tag(), fe.Param())
		}
		return fmt.Errorf("%w: %s failed '%s'", ErrValidation, field, fe.Tag())
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// toConnectError maps domain and storage errors onto Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return connectErr
	case errors.Is(err, ErrValidation),
		errors.Is(err, calculator.ErrInvalidSplit),
		errors.Is(err, calculator.ErrInvalidParticipant),
		errors.Is(err, money.ErrInvalidAmount):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
