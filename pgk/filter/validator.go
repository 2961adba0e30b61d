package filter

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	secureRelayURL   = regexp.MustCompile(`^wss://[A-Za-z0-9._~:/?#@!$&'()*+,;=%-]+$`)
	insecureRelayURL = regexp.MustCompile(`^wss?://[A-Za-z0-9._~:/?#@!$&'()*+,;=%-]+$`)
	tagName          = regexp.MustCompile(`^[a-z]$`)
)

// newValidator validator with english messages and json field names
func newValidator(allowInsecure bool) (*validator.Validate, ut.Translator) {
	enLoc := en.New()
	uni := ut.New(enLoc, enLoc)
	trans, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "-" || tag == "" {
			return fld.Name
		}
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		return tag
	})
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	relayURL := secureRelayURL
	if allowInsecure {
		relayURL = insecureRelayURL
	}
	_ = v.RegisterValidation("relayurl", func(fl validator.FieldLevel) bool {
		return relayURL.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("tagname", func(fl validator.FieldLevel) bool {
		return tagName.MatchString(fl.Field().String())
	})

	registerTranslation(v, trans, "relayurl", "invalid relay url: {0}")
	registerTranslation(v, trans, "tagname", "tag name must be a single lowercase letter: {0}")

	return v, trans
}

// registerTranslation message for a custom tag, {0} is the rejected value
func registerTranslation(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fmt.Sprintf("%v", fe.Value()))
			return msg
		},
	)
}

// validationMessage first translated message of a validation error
func validationMessage(err error, trans ut.Translator) string {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			return fe.Translate(trans)
		}
	}

	return err.Error()
}
