package transport

import (
	"errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New()
	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}
}

// validateFields checks the struct tags of c and converts each failure
// into a ConfigurationError.
func validateFields(c Config) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return err
	}

	errs := make([]error, 0, len(verrors))
	for _, verror := range verrors {
		errs = append(errs, &ConfigurationError{
			Field:   verror.StructNamespace(),
			Message: verror.Translate(translator),
		})
	}

	return errors.Join(errs...)
}
