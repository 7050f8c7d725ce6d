// Package finance defines the records tracked by the application: banks,
// cards, expenses, savings, investments, debts, monthly goals and categories.
//
// Field names on the wire follow the backend schema (Spanish column names).
// Field rules are declared as validate tags and evaluated by package form.
package finance

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PaymentMethod is how an expense, saving or investment was paid.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "efectivo"
	MethodCard     PaymentMethod = "tarjeta"
	MethodTransfer PaymentMethod = "transferencia"
)

// Record is implemented by every persisted entity.
type Record interface {
	RecordID() string
}

// Date is a calendar day without time of day.
type Date struct {
	time.Time
}

// NewDate returns the given day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return DateOf(t), nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}

	return DateOf(t), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(d.Format(time.DateOnly))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// Value binds the day as a SQL date; the zero Date is NULL.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}

	return d.Format(time.DateOnly), nil
}

// optionalString maps empty or whitespace-only values to nil.
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}
