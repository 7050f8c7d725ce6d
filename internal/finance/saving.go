package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingKind is how often a saving contribution recurs.
type SavingKind string

const (
	SavingDaily   SavingKind = "diario"
	SavingWeekly  SavingKind = "semanal"
	SavingMonthly SavingKind = "mensual"
	SavingAnnual  SavingKind = "anual"
)

// Saving is money set aside, either as cash or transferred into a bank account.
type Saving struct {
	ID          string           `json:"id,omitempty"`
	Description string           `json:"descripcion" validate:"required"`
	Amount      decimal.Decimal  `json:"precio" validate:"gt=0"`
	Kind        SavingKind       `json:"tipo_ahorro" validate:"oneof=diario semanal mensual anual"`
	Method      PaymentMethod    `json:"tipo_pago" validate:"oneof=efectivo transferencia"`
	Date        Date             `json:"fecha"`
	Target      *decimal.Decimal `json:"meta,omitempty" validate:"omitempty,gte=0"`
	BankID      *string          `json:"banco_id,omitempty" validate:"required_if=Method transferencia"`
	CreatedAt   *time.Time       `json:"created_at,omitempty"`
}

func (s *Saving) RecordID() string { return s.ID }

func (s *Saving) Normalize() {
	if s.Method == "" {
		s.Method = MethodCash
	}

	_, s.BankID = references(s.Method, nil, s.BankID)
}
