// Package validation holds the input guards shared by every entry form:
// identifier patterns for projects, contracts, AR codes and activities, and
// decimal bounds for amounts.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	reProjectCode  = regexp.MustCompile(`^E\d{4}_\d{3}$`)
	reContractCode = regexp.MustCompile(`^CHR\d{3}/\d{4}$`)
	reARCode       = regexp.MustCompile(`^ARC\d{3}$`)
	reActivityCode = regexp.MustCompile(`^\d{13}$`)
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Validator struct{ v *validator.Validate }

func New() *Validator {
	v := validator.New()

	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// decimals are validated through their string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("project_code", patternRule(reProjectCode))
	_ = v.RegisterValidation("contract_code", patternRule(reContractCode))
	_ = v.RegisterValidation("ar_code", patternRule(reARCode))
	_ = v.RegisterValidation("activity_code", patternRule(reActivityCode))
	_ = v.RegisterValidation("decimal_gt", decimalRule(func(d, bound decimal.Decimal) bool { return d.GreaterThan(bound) }))
	_ = v.RegisterValidation("decimal_gte", decimalRule(func(d, bound decimal.Decimal) bool { return d.GreaterThanOrEqual(bound) }))

	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error { return cv.v.Struct(i) }

// IsProjectCode reports whether code has the EXXXX_XXX shape.
func IsProjectCode(code string) bool { return reProjectCode.MatchString(code) }

func patternRule(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func decimalRule(cmp func(d, bound decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return cmp(d, bound)
	}
}

// ToFieldErrors flattens validator errors found anywhere in err's chain.
// It returns nil when err carries no field errors.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "project_code":
			out = append(out, FieldError{Field: field, Message: "must look like EXXXX_XXX (e.g. E2568_001)"})
		case "contract_code":
			out = append(out, FieldError{Field: field, Message: "must look like CHRXXX/XXXX (e.g. CHR001/2568)"})
		case "ar_code":
			out = append(out, FieldError{Field: field, Message: "must look like ARCXXX (e.g. ARC001)"})
		case "activity_code":
			out = append(out, FieldError{Field: field, Message: "must be exactly 13 digits"})
		case "decimal_gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "decimal_gte", "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "oneof":
			out = append(out, FieldError{Field: field, Message: "must be one of: " + e.Param()})
		case "min":
			out = append(out, FieldError{Field: field, Message: "must have at least " + e.Param() + " entries"})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
