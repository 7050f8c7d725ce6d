package finance

import "time"

// Category is a named expense category as stored by the backend.
type Category struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"nombre"`
	Description *string    `json:"descripcion,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func (c *Category) RecordID() string { return c.ID }

// DefaultCategories seeds the category list when the backend has none.
var DefaultCategories = []string{
	"Alimentación",
	"Transporte",
	"Vivienda",
	"Servicios",
	"Entretenimiento",
	"Salud",
	"Educación",
	"Otros",
}
