package sheet

// Profile describes the column layout of one kind of expense sheet. Column
// names are matched without regard to case. Optional columns may be empty.
type Profile struct {
	Name        string
	DateCol     string
	DescCol     string
	AmountCol   string
	CategoryCol string
	MethodCol   string
	CardCol     string
	BankCol     string
	// DateLayouts are tried in order.
	DateLayouts []string
	// DecimalComma means amounts are written as "1.234,56".
	DecimalComma bool
	// Signed means the amount column holds movements of both signs and only
	// negative ones are expenses.
	Signed bool
}

// requiredCols returns the column names that must be present for this
// profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol, p.AmountCol}

	for _, c := range []string{p.CategoryCol, p.MethodCol, p.CardCol, p.BankCol} {
		if c != "" {
			cols = append(cols, c)
		}
	}

	return cols
}

// profiles is tried in order, so more specific layouts come first.
var profiles = []Profile{
	{
		Name:        "controlfin",
		DateCol:     "fecha",
		DescCol:     "descripcion",
		AmountCol:   "precio",
		CategoryCol: "categoria",
		MethodCol:   "tipo_pago",
		CardCol:     "tarjeta",
		BankCol:     "banco",
		DateLayouts: []string{"2006-01-02"},
	},
	{
		Name:         "planilla",
		DateCol:      "fecha",
		DescCol:      "descripción",
		AmountCol:    "monto",
		CategoryCol:  "categoría",
		DateLayouts:  []string{"02/01/2006", "2/1/2006", "2006-01-02"},
		DecimalComma: true,
	},
	{
		Name:         "extracto",
		DateCol:      "fecha",
		DescCol:      "concepto",
		AmountCol:    "importe",
		DateLayouts:  []string{"02/01/2006", "02-01-2006"},
		DecimalComma: true,
		Signed:       true,
	},
}
