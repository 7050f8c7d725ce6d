package store

import (
	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
)

// Row builders list the writable columns of each table. Ids and timestamps
// are assigned by the backend.

func bankRow(b *finance.Bank) rowstore.Row {
	return rowstore.Row{
		"nombre":                 b.Name,
		"tipo":                   b.Kind,
		"ultimos_digitos":        b.LastDigits,
		"permite_transferencias": b.AllowsTransfers,
	}
}

func cardRow(c *finance.Card) rowstore.Row {
	return rowstore.Row{
		"nombre":          c.Name,
		"banco_id":        c.BankID,
		"limite":          c.Limit,
		"fecha_cierre":    c.ClosingDay,
		"fecha_pago":      c.PaymentDay,
		"saldo":           c.Balance,
		"ultimos_digitos": c.LastDigits,
	}
}

func expenseRow(e *finance.Expense) rowstore.Row {
	return rowstore.Row{
		"descripcion": e.Description,
		"precio":      e.Amount,
		"categoria":   e.Category,
		"fecha":       e.Date,
		"tipo_pago":   e.Method,
		"tarjeta_id":  e.CardID,
		"banco_id":    e.BankID,
	}
}

func savingRow(s *finance.Saving) rowstore.Row {
	return rowstore.Row{
		"descripcion": s.Description,
		"precio":      s.Amount,
		"tipo_ahorro": s.Kind,
		"tipo_pago":   s.Method,
		"fecha":       s.Date,
		"meta":        s.Target,
		"banco_id":    s.BankID,
	}
}

func investmentRow(i *finance.Investment) rowstore.Row {
	return rowstore.Row{
		"descripcion":      i.Description,
		"precio":           i.Amount,
		"tipo":             i.Kind,
		"tipo_pago":        i.Method,
		"retorno_esperado": i.ExpectedReturn,
		"fecha":            i.Date,
		"banco_id":         i.BankID,
		"tarjeta_id":       i.CardID,
	}
}

func debtRow(d *finance.Debt) rowstore.Row {
	return rowstore.Row{
		"descripcion":       d.Description,
		"precio":            d.Amount,
		"fecha_vencimiento": d.DueDate,
		"interes":           d.Interest,
	}
}

func goalRow(g *finance.Goal) rowstore.Row {
	return rowstore.Row{
		"mes":         g.Month,
		"anio":        g.Year,
		"tipo":        g.Kind,
		"descripcion": g.Description,
		"precio":      g.Target,
		"progreso":    g.Progress,
		"completado":  g.Completed,
	}
}
