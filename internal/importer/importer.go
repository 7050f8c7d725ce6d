// Package importer migrates a snapshot of the legacy in-memory store into
// the ledger. Legacy records are converted to the canonical forms and go
// through the same validation and storage path as user input.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Snapshot is the JSON export of the legacy application state.
type Snapshot struct {
	Banks       []Bank       `json:"bancos"`
	Cards       []Card       `json:"tarjetas"`
	Expenses    []Expense    `json:"gastos"`
	Savings     []Saving     `json:"ahorros"`
	Investments []Investment `json:"inversiones"`
	Debts       []Debt       `json:"deudas"`
	Goals       []Goal       `json:"objetivos"`
	Categories  []Category   `json:"categorias"`
}

// Legacy records were written by several versions of the application, so
// most fields are accepted under both their camelCase and snake_case names.

type Bank struct {
	ID                   Text `json:"id,omitempty"`
	Name                 Text `json:"nombre,omitempty"`
	Kind                 Text `json:"tipo,omitempty"`
	AccountNumber        Text `json:"numeroCuenta,omitempty"`
	LastDigits           Text `json:"ultimosDigitos,omitempty"`
	LastDigitsSnake      Text `json:"ultimos_digitos,omitempty"`
	AllowsTransfers      Text `json:"permiteTransferencias,omitempty"`
	AllowsTransfersSnake Text `json:"permite_transferencias,omitempty"`
}

type Card struct {
	ID              Text `json:"id,omitempty"`
	Name            Text `json:"nombre,omitempty"`
	BankName        Text `json:"banco,omitempty"`
	BankID          Text `json:"bancoId,omitempty"`
	BankIDSnake     Text `json:"banco_id,omitempty"`
	Limit           Text `json:"limite,omitempty"`
	ClosingDay      Text `json:"fechaCorte,omitempty"`
	ClosingDaySnake Text `json:"fecha_cierre,omitempty"`
	PaymentDay      Text `json:"fechaPago,omitempty"`
	PaymentDaySnake Text `json:"fecha_pago,omitempty"`
	Balance         Text `json:"saldo,omitempty"`
	LastDigits      Text `json:"ultimosDigitos,omitempty"`
	LastDigitsSnake Text `json:"ultimos_digitos,omitempty"`
}

type Expense struct {
	ID          Text `json:"id,omitempty"`
	Description Text `json:"descripcion,omitempty"`
	Amount      Text `json:"cantidad,omitempty"`
	Price       Text `json:"precio,omitempty"`
	Category    Text `json:"categoria,omitempty"`
	Date        Text `json:"fecha,omitempty"`
	Method      Text `json:"tipoPago,omitempty"`
	MethodSnake Text `json:"tipo_pago,omitempty"`
	CardID      Text `json:"tarjetaId,omitempty"`
	CardIDSnake Text `json:"tarjeta_id,omitempty"`
	BankID      Text `json:"bancoId,omitempty"`
	BankIDSnake Text `json:"banco_id,omitempty"`
}

// Saving is a legacy saving. In the oldest shape "tipo" held the payment
// method and there was no periodicity.
type Saving struct {
	ID          Text `json:"id,omitempty"`
	Description Text `json:"descripcion,omitempty"`
	Amount      Text `json:"cantidad,omitempty"`
	Price       Text `json:"precio,omitempty"`
	Kind        Text `json:"tipo,omitempty"`
	Periodicity Text `json:"tipo_ahorro,omitempty"`
	Method      Text `json:"tipoPago,omitempty"`
	MethodSnake Text `json:"tipo_pago,omitempty"`
	Date        Text `json:"fecha,omitempty"`
	Target      Text `json:"meta,omitempty"`
	BankID      Text `json:"bancoId,omitempty"`
	BankIDSnake Text `json:"banco_id,omitempty"`
}

type Investment struct {
	ID                  Text `json:"id,omitempty"`
	Description         Text `json:"descripcion,omitempty"`
	Amount              Text `json:"cantidad,omitempty"`
	Price               Text `json:"precio,omitempty"`
	Kind                Text `json:"tipo,omitempty"`
	Method              Text `json:"tipoPago,omitempty"`
	MethodSnake         Text `json:"tipo_pago,omitempty"`
	ExpectedReturn      Text `json:"retornoEsperado,omitempty"`
	ExpectedReturnSnake Text `json:"retorno_esperado,omitempty"`
	Date                Text `json:"fecha,omitempty"`
	BankID              Text `json:"bancoId,omitempty"`
	BankIDSnake         Text `json:"banco_id,omitempty"`
	CardID              Text `json:"tarjetaId,omitempty"`
	CardIDSnake         Text `json:"tarjeta_id,omitempty"`
}

type Debt struct {
	ID           Text `json:"id,omitempty"`
	Description  Text `json:"descripcion,omitempty"`
	Amount       Text `json:"cantidad,omitempty"`
	Price        Text `json:"precio,omitempty"`
	DueDate      Text `json:"fechaVencimiento,omitempty"`
	DueDateSnake Text `json:"fecha_vencimiento,omitempty"`
	Interest     Text `json:"interes,omitempty"`
}

type Goal struct {
	ID          Text `json:"id,omitempty"`
	Description Text `json:"descripcion,omitempty"`
	Amount      Text `json:"cantidad,omitempty"`
	Price       Text `json:"precio,omitempty"`
	Kind        Text `json:"tipo,omitempty"`
	Month       Text `json:"mes,omitempty"`
	Year        Text `json:"año,omitempty"`
	YearSnake   Text `json:"anio,omitempty"`
	Progress    Text `json:"progreso,omitempty"`
}

// Category is either a bare name or an object with a "nombre" field.
type Category string

func (c *Category) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			Name Text `json:"nombre,omitempty"`
		}

		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}

		*c = Category(obj.Name)

		return nil
	}

	var t Text
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}

	*c = Category(t)

	return nil
}

// Text is a scalar JSON value read as its literal text. Numbers keep their
// original digits and null is the empty string.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch x := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(x)
	case json.Number:
		*t = Text(x.String())
	case bool:
		*t = Text(strconv.FormatBool(x))
	default:
		return fmt.Errorf("expected a scalar value, got %s", b)
	}

	return nil
}

func (t Text) String() string { return strings.TrimSpace(string(t)) }

// first returns the first non-blank value.
func first(values ...Text) string {
	for _, v := range values {
		if s := v.String(); s != "" {
			return s
		}
	}

	return ""
}

// bankKind maps the legacy account kinds onto debit and credit.
func bankKind(kind string) string {
	switch strings.ToLower(kind) {
	case "credito", "crédito":
		return "credito"
	default:
		return "debito"
	}
}

// lastFour reduces a full account number to its last four digits.
func lastFour(s string) string {
	if len(s) <= 4 {
		return s
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
	}

	return s[len(s)-4:]
}

// savingMethod reads the payment method of a saving, falling back to the
// legacy "tipo" when it names one.
func savingMethod(s Saving) string {
	if m := first(s.Method, s.MethodSnake); m != "" {
		return m
	}

	switch k := s.Kind.String(); k {
	case "efectivo", "tarjeta", "transferencia":
		return k
	}

	return ""
}
