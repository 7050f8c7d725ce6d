// Package form turns raw, string-typed form input into validated finance
// records. Parsing (string to number or date) runs first; the field rules
// declared on the finance types are evaluated afterwards. The first failing
// field is reported as a *finance.ValidationError with a reason suitable for
// showing to the user.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
)

type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	// Amount rules only compare against zero, so they run on the sign.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.Sign()
		}

		return nil
	}, decimal.Decimal{})

	return &Validator{validate: v, now: time.Now}
}

// WithClock replaces the clock used for default dates, month and year.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

func (v *Validator) today() finance.Date {
	return finance.DateOf(v.now())
}

// check evaluates the validate tags of record.
func (v *Validator) check(record any) error {
	err := v.validate.Struct(record)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validating record: %w", err)
	}

	fe := fieldErrs[0]

	return finance.NewValidationError(fe.Field(), reason(fe))
}

func reason(fe validator.FieldError) string {
	field := fe.Field()
	name := label(field)

	switch fe.Tag() {
	case "required":
		return name + " es obligatorio"
	case "required_if":
		switch field {
		case "tarjeta_id":
			return "Por favor selecciona una tarjeta"
		case "banco_id":
			return "Por favor selecciona un banco"
		}

		return name + " es obligatorio"
	case "gt":
		return fmt.Sprintf("%s debe ser mayor a %s", name, fe.Param())
	case "gte":
		return name + " no puede ser negativo"
	case "min", "max":
		if lo, hi, ok := bounds(field); ok {
			return fmt.Sprintf("%s debe estar entre %d y %d", name, lo, hi)
		}

		return name + " está fuera de rango"
	case "len", "number":
		return name + " debe tener exactamente 4 dígitos"
	case "oneof":
		return fmt.Sprintf("%s no es válido: %q", name, fmt.Sprint(fe.Value()))
	}

	return name + " no es válido"
}

// Input helpers. Each returns a *finance.ValidationError naming field.

func text(s string) string {
	return strings.TrimSpace(s)
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	return &s
}

// positiveAmount parses a required amount. The "> 0" rule itself is a tag.
func positiveAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, finance.NewValidationError(field, label(field)+" es obligatorio")
	}

	d, err := finance.ParseAmount(s)
	if err != nil {
		return decimal.Zero, finance.NewValidationError(field, label(field)+" debe ser un número válido")
	}

	return d, nil
}

// optionalAmount parses a "≥ 0" amount; empty input means unset.
func optionalAmount(field, s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	d, err := finance.ParseAmount(s)
	if err != nil {
		return nil, finance.NewValidationError(field, label(field)+" debe ser un número válido")
	}

	return &d, nil
}

func integer(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, finance.NewValidationError(field, label(field)+" es obligatorio")
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, finance.NewValidationError(field, label(field)+" debe ser un número entero")
	}

	return n, nil
}

// date parses a calendar day, falling back to def when s is empty and def is set.
func date(field, s string, def finance.Date) (finance.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if def.IsZero() {
			return finance.Date{}, finance.NewValidationError(field, label(field)+" es obligatorio")
		}

		return def, nil
	}

	d, err := finance.ParseDate(s)
	if err != nil {
		return finance.Date{}, finance.NewValidationError(field, label(field)+" debe tener el formato AAAA-MM-DD")
	}

	return d, nil
}

func optionalBool(field, s string) (*bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, finance.NewValidationError(field, label(field)+" no es válido")
	}

	return &b, nil
}
