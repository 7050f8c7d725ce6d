package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Debt struct {
	ID          string           `json:"id,omitempty"`
	Description string           `json:"descripcion" validate:"required"`
	Amount      decimal.Decimal  `json:"precio" validate:"gt=0"`
	DueDate     Date             `json:"fecha_vencimiento"`
	Interest    *decimal.Decimal `json:"interes,omitempty" validate:"omitempty,gte=0"`
	CreatedAt   *time.Time       `json:"created_at,omitempty"`
}

func (d *Debt) RecordID() string { return d.ID }
