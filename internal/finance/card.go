package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Card is a credit card issued by a bank.
type Card struct {
	ID         string          `json:"id,omitempty"`
	Name       string          `json:"nombre" validate:"required"`
	BankID     string          `json:"banco_id" validate:"required"`
	Limit      decimal.Decimal `json:"limite" validate:"gt=0"`
	ClosingDay int             `json:"fecha_cierre" validate:"min=1,max=31"`
	PaymentDay int             `json:"fecha_pago" validate:"min=1,max=31"`
	Balance    decimal.Decimal `json:"saldo" validate:"gte=0"`
	LastDigits *string         `json:"ultimos_digitos,omitempty" validate:"omitempty,len=4,number"`
	CreatedAt  *time.Time      `json:"created_at,omitempty"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

func (c *Card) RecordID() string { return c.ID }

func (c *Card) Normalize() {
	c.LastDigits = optionalString(c.LastDigits)
}
