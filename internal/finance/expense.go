package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single purchase or payment.
type Expense struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"descripcion" validate:"required"`
	Amount      decimal.Decimal `json:"precio" validate:"gt=0"`
	Category    string          `json:"categoria" validate:"required"`
	Date        Date            `json:"fecha"`
	Method      PaymentMethod   `json:"tipo_pago" validate:"oneof=efectivo tarjeta transferencia"`
	CardID      *string         `json:"tarjeta_id,omitempty" validate:"required_if=Method tarjeta"`
	BankID      *string         `json:"banco_id,omitempty" validate:"required_if=Method transferencia"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
}

func (e *Expense) RecordID() string { return e.ID }

// Normalize keeps only the reference the payment method uses.
func (e *Expense) Normalize() {
	e.CardID, e.BankID = references(e.Method, e.CardID, e.BankID)
}

func references(method PaymentMethod, cardID, bankID *string) (*string, *string) {
	cardID, bankID = optionalString(cardID), optionalString(bankID)

	switch method {
	case MethodCard:
		return cardID, nil
	case MethodTransfer:
		return nil, bankID
	default:
		return nil, nil
	}
}
