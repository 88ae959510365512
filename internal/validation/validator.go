package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"finance-admin/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator carries the domain rules. It satisfies echo.Validator, so request
// DTOs are checked by c.Validate.
type Validator struct {
	validate *validator.Validate
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("tx_type", validateTransactionType)
	_ = v.RegisterValidation("tx_status", validateTransactionStatus)
	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("notblank", validateNotBlank)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// FormatErrors turns validator errors into "field: message" lines
func FormatErrors(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details = append(details, fmt.Sprintf("%s: %s", fe.Field(), describe(fe)))
	}
	return details
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "tx_type":
		return "must be one of: income expense"
	case "tx_status":
		return "must be one of: pending partial paid"
	case "money":
		return "must be a non-negative decimal with at most 2 decimal places"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.IsValidTransactionType(fl.Field().String())
}

func validateTransactionStatus(fl validator.FieldLevel) bool {
	return models.IsValidTransactionStatus(fl.Field().String())
}

// validateMoney accepts decimal strings such as "1500" or "1500.50"
func validateMoney(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return false
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return false
	}
	if amount.IsNegative() {
		return false
	}
	return amount.Exponent() >= -2 || amount.Equal(amount.Round(2))
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
