package presentation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/go-playground/validator/v10"

	"blogd/internal/domain/apperr"
	"blogd/internal/domain/dto"
)

type patch interface {
	Rules() []dto.FieldRule
}

type nestedPatch interface {
	Nested() []dto.NestedRule
}

// Validator is installed as echo's Validator. Input documents are checked
// against their struct tags; patch documents only for the fields they carry.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) error {
	if p, ok := i.(patch); ok {
		return v.validatePatch(p)
	}

	if err := v.validate.Struct(i); err != nil {
		checks, err := v.checks(err, "")
		if err != nil {
			return err
		}

		return apperr.Validation(checks...)
	}

	return nil
}

func (v *Validator) validatePatch(p patch) error {
	var checks []apperr.Check

	for _, r := range p.Rules() {
		switch {
		case !r.Value.Set:
			continue
		case r.Value.Null:
			if !r.Nullable {
				checks = append(checks, apperr.Check{Field: r.Name, Message: r.Name + " cannot be null"})
			}
		default:
			if err := v.validate.Var(r.Value.Value, r.Tag); err != nil {
				failed, err := v.checks(err, r.Name)
				if err != nil {
					return err
				}
				checks = append(checks, failed...)
			}
		}
	}

	if n, ok := p.(nestedPatch); ok {
		for _, r := range n.Nested() {
			switch {
			case !r.Set:
				continue
			case r.Null:
				checks = append(checks, apperr.Check{Field: r.Name, Message: r.Name + " cannot be null"})
			default:
				if err := v.validate.Struct(r.Value); err != nil {
					failed, err := v.checks(err, r.Name)
					if err != nil {
						return err
					}
					checks = append(checks, failed...)
				}
			}
		}
	}

	if len(checks) > 0 {
		return apperr.Validation(checks...)
	}

	return nil
}

// checks converts validator failures into one check per field. Fields are
// named by their json path, below prefix when given.
func (v *Validator) checks(err error, prefix string) ([]apperr.Check, error) {
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return nil, errors.Wrap(err, "validate")
	}

	checks := make([]apperr.Check, 0, len(failures))
	for _, fe := range failures {
		field := fieldPath(fe.Namespace(), prefix)
		checks = append(checks, apperr.Check{Field: field, Message: describe(field, fe)})
	}

	return checks, nil
}

// fieldPath drops the Go struct name that leads every namespace.
func fieldPath(namespace, prefix string) string {
	_, rest, found := strings.Cut(namespace, ".")

	switch {
	case prefix == "":
		return rest
	case !found:
		return prefix
	default:
		return prefix + "." + rest
	}
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted as %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
