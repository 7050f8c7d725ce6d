package finance

import "time"

// AccountKind is the kind of account a bank entry represents.
type AccountKind string

const (
	AccountDebit  AccountKind = "debito"
	AccountCredit AccountKind = "credito"
)

// Bank is a reference entity: cards, expenses, savings and investments point to it.
type Bank struct {
	ID              string      `json:"id,omitempty"`
	Name            string      `json:"nombre" validate:"required"`
	Kind            AccountKind `json:"tipo" validate:"oneof=debito credito"`
	LastDigits      *string     `json:"ultimos_digitos,omitempty" validate:"omitempty,len=4,number"`
	AllowsTransfers *bool       `json:"permite_transferencias,omitempty"`
	CreatedAt       *time.Time  `json:"created_at,omitempty"`
	UpdatedAt       *time.Time  `json:"updated_at,omitempty"`
}

func (b *Bank) RecordID() string { return b.ID }

// Normalize clears optional fields the backend stores as empty strings.
func (b *Bank) Normalize() {
	b.LastDigits = optionalString(b.LastDigits)
}
