package form

var labels = map[string]string{
	"nombre":                 "Nombre",
	"tipo":                   "Tipo",
	"ultimos_digitos":        "Últimos dígitos",
	"permite_transferencias": "Permite transferencias",
	"banco_id":               "Banco",
	"tarjeta_id":             "Tarjeta",
	"limite":                 "Límite",
	"fecha_cierre":           "Día de cierre",
	"fecha_pago":             "Día de pago",
	"saldo":                  "Saldo",
	"descripcion":            "Descripción",
	"precio":                 "Precio",
	"categoria":              "Categoría",
	"fecha":                  "Fecha",
	"tipo_pago":              "Tipo de pago",
	"tipo_ahorro":            "Tipo de ahorro",
	"meta":                   "Meta",
	"retorno_esperado":       "Retorno esperado",
	"fecha_vencimiento":      "Fecha de vencimiento",
	"interes":                "Interés",
	"mes":                    "Mes",
	"anio":                   "Año",
	"progreso":               "Progreso",
}

// label names a field the way messages refer to it: El campo "Precio".
func label(field string) string {
	name, ok := labels[field]
	if !ok {
		name = field
	}

	return `El campo "` + name + `"`
}

// bounds returns the inclusive range of bounded integer fields.
func bounds(field string) (int, int, bool) {
	switch field {
	case "fecha_cierre", "fecha_pago":
		return 1, 31, true
	case "mes":
		return 1, 12, true
	}

	return 0, 0, false
}
