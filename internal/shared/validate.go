package shared

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	digitsPattern = regexp.MustCompile(`^\d+$`)
	amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	// LKMobilePattern matches Sri Lankan mobile numbers with an optional 0, 94 or +94 prefix.
	LKMobilePattern = regexp.MustCompile(`^(?:0|94|\+94)?(7[0-9]{8})$`)
)

// NewValidator returns a validator with the shop's custom tags registered:
// digits (^\d+$), amount (non-negative, up to two decimals) and lktel.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		return amountPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("lktel", func(fl validator.FieldLevel) bool {
		return LKMobilePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateStruct runs v against dst and converts failures into a *ValidationError.
func ValidateStruct(v *validator.Validate, dst any) error {
	err := v.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fieldPath(fe)] = describe(fe)
	}
	return out
}

// fieldPath drops the top-level struct name so "CreateInvoiceRequest.items[0].rs"
// becomes "items[0].rs".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "digits":
		return "must contain digits only"
	case "amount":
		return "must be a non-negative amount with at most two decimals"
	case "lktel":
		return "must be a valid Sri Lankan mobile number"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			if fe.Param() == "1" {
				return "must not be empty"
			}
			return "must be at least " + fe.Param() + " characters"
		}
		return "must have at least " + fe.Param() + " entries"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
