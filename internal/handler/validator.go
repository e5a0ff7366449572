package handler

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var trans ut.Translator

// InitTrans registers english translations on gin's validator and
// makes field names follow the json tags.
func InitTrans() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	return enTranslations.RegisterDefaultTranslations(v, trans)
}

// translateValidationErrors renders field errors as one line, with the
// struct name prefix stripped.
func translateValidationErrors(errs validator.ValidationErrors) string {
	if trans == nil {
		return errs.Error()
	}
	parts := make([]string, 0, len(errs))
	for _, msg := range errs.Translate(trans) {
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}
