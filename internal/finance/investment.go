package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvestmentKind string

const (
	InvestmentStocks     InvestmentKind = "acciones"
	InvestmentBonds      InvestmentKind = "bonos"
	InvestmentFunds      InvestmentKind = "fondos"
	InvestmentCrypto     InvestmentKind = "criptomonedas"
	InvestmentRealEstate InvestmentKind = "bienes_raices"
	InvestmentOther      InvestmentKind = "otros"
)

type Investment struct {
	ID             string           `json:"id,omitempty"`
	Description    string           `json:"descripcion" validate:"required"`
	Amount         decimal.Decimal  `json:"precio" validate:"gt=0"`
	Kind           InvestmentKind   `json:"tipo" validate:"oneof=acciones bonos fondos criptomonedas bienes_raices otros"`
	Method         PaymentMethod    `json:"tipo_pago" validate:"oneof=efectivo tarjeta transferencia"`
	ExpectedReturn *decimal.Decimal `json:"retorno_esperado,omitempty" validate:"omitempty,gte=0"`
	Date           Date             `json:"fecha"`
	BankID         *string          `json:"banco_id,omitempty" validate:"required_if=Method transferencia"`
	CardID         *string          `json:"tarjeta_id,omitempty" validate:"required_if=Method tarjeta"`
	CreatedAt      *time.Time       `json:"created_at,omitempty"`
}

func (i *Investment) RecordID() string { return i.ID }

func (i *Investment) Normalize() {
	i.CardID, i.BankID = references(i.Method, i.CardID, i.BankID)
}
