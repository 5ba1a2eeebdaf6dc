// Package validation wraps go-playground/validator with English translations
// so payload failures surface as a single human-readable message.
package validation

import (
	"errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/yaduvivaah/agent-portal-api/internal/apperror"
)

// Validator validates payload structs by their validate tags.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New builds a Validator with English error messages.
func New() (*Validator, error) {
	locale := en.New()
	uni := ut.New(locale, locale)

	trans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, errors.New("missing en translator")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// Struct validates s and converts the first failure into a validation error
// with a translated message.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		return apperror.New(apperror.KindValidation, validationErrs[0].Translate(v.trans))
	}

	return apperror.Wrap(apperror.KindValidation, "invalid request", err)
}
