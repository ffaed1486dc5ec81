package dto

import (
	"html"
	"reflect"
	"regexp"
	"strings"

	"payments-worker/internal/adapter/chain/ton"
	"payments-worker/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("safe_id", validateSafeID)
		_ = v.RegisterValidation("ton_amount", validateTONAmount)
		_ = v.RegisterValidation("nano_amount", validateNanoAmount)
		_ = v.RegisterValidation("ton_address", validateTONAddress)
	}
}

// validateSafeID allows alphanumeric, underscore, dash, and dot.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// validateTONAmount accepts positive decimal TON with at most 9 fractional digits.
func validateTONAmount(fl validator.FieldLevel) bool {
	n, err := domain.ParseTON(fl.Field().String())
	return err == nil && n.Sign() > 0
}

// validateNanoAmount accepts any signed nanoton integer.
func validateNanoAmount(fl validator.FieldLevel) bool {
	_, err := domain.ParseNano(fl.Field().String())
	return err == nil
}

// validateTONAddress accepts any parseable TON address form. Blank input
// passes so that "required" or the service decides what a missing address means.
func validateTONAddress(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	return s == "" || ton.Valid(s)
}

// SanitizeStruct trims whitespace and HTML-escapes every exported string
// field (including *string) of a struct pointer.
func SanitizeStruct(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(sanitize(elem.String()))
			}
		}
	}
}

func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
