package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/pkg/apperror"
)

// MsgCurrenciesRequired is the message of the enabled-without-currencies rule.
const MsgCurrenciesRequired = "At least one additional currency must be selected when multi currency is enabled."

const tagCurrenciesRequired = "currencies_required_when_enabled"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	v.RegisterStructValidation(posConfigRule, entity.PosConfig{})
	return v
}

func posConfigRule(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(entity.PosConfig)
	if cfg.MultiCurrencyEnabled && len(cfg.Currencies) == 0 {
		sl.ReportError(cfg.Currencies, "multi_currency_ids", "Currencies", tagCurrenciesRequired, "")
	}
}

// validateConfig checks the write-time invariants of a configuration.
func validateConfig(cfg *entity.PosConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fieldErrors := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: fe.Field(), Message: validationMessage(fe)})
	}
	appErr := apperror.NewValidationError(fieldErrors)
	if len(fieldErrors) == 1 {
		appErr.Message = fieldErrors[0].Message
	}
	return appErr
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case tagCurrenciesRequired:
		return MsgCurrenciesRequired
	case "required":
		return "is required"
	}
	return "is invalid"
}
