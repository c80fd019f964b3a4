package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/rgehrsitz/rothcalc/internal/domain"
)

// ErrInvalidProfile is matched by every profile validation failure
var ErrInvalidProfile = errors.New("invalid profile")

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"yaml", "json"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return ""
	})
	if err := validate.RegisterValidation("filing_status", validFilingStatus); err != nil {
		panic(fmt.Sprintf("config: register filing_status validation: %v", err))
	}
}

func validFilingStatus(fl validator.FieldLevel) bool {
	_, err := domain.ParseFilingStatus(fl.Field().String())
	return err == nil
}

// FieldError is one invalid value, addressed by its dotted path in the
// profile document (for example "conversion.schedule[1].age").
type FieldError struct {
	Code    string         `json:"code"`
	Field   string         `json:"field"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

func (e FieldError) Error() string {
	return e.Message
}

// ValidationError carries every problem found in one profile
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalidProfile, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidProfile
}

// invalidField builds a single-field validation error
func invalidField(path, code, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{
		Code:    code,
		Field:   path,
		Message: fmt.Sprintf("%s %s", path, msg),
	}}}
}

// Validate applies defaults and checks every field constraint of a
// profile. The error, if any, is a *ValidationError.
func Validate(pf *ProfileFile) error {
	return ValidateStruct(pf)
}

// ValidateStruct runs the default and validation tags of any request
// struct that embeds or nests profile documents. v must be a pointer.
func ValidateStruct(v any) error {
	if err := defaults.Set(v); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return validationRules(err)
	}
	return nil
}

func validationRules(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &ValidationError{Fields: []FieldError{{Code: "ERR_UNKNOWN", Message: err.Error()}}}
	}
	errs := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		path := fieldPath(e)
		errs = append(errs, FieldError{
			Code:    "ERR_" + strings.ToUpper(e.Tag()),
			Field:   path,
			Message: getErrorMessage(path, e),
			Params:  getErrorParams(e),
		})
	}
	return &ValidationError{Fields: errs}
}

// fieldPath drops the root struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func getErrorMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
	case "filing_status":
		return fmt.Sprintf("%s must be one of: %s", field, filingStatusList())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func getErrorParams(fe validator.FieldError) map[string]any {
	params := make(map[string]any)

	switch fe.Tag() {
	case "min", "gte":
		params["min"] = fe.Param()
	case "lte":
		params["max"] = fe.Param()
	case "gt", "lt", "gtefield":
		params["value"] = fe.Param()
	case "oneof":
		params["options"] = strings.Split(fe.Param(), " ")
	case "filing_status":
		params["options"] = strings.Split(filingStatusList(), ", ")
	}

	if len(params) == 0 {
		return nil
	}
	return params
}

func filingStatusList() string {
	statuses := domain.FilingStatuses()
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
