package entity

import (
	"encoding/json"
	"time"
)

// Tipos de plantilla de orden.
const (
	TemplateTypeSheet   = "handsontable" // entrada tipo hoja de cálculo
	TemplateTypeGeneral = "general"      // formulario de campos
)

// Tipos de campo admitidos en una plantilla.
const (
	FieldText     = "text"
	FieldNumber   = "number"
	FieldDate     = "date"
	FieldSelect   = "select"
	FieldTextarea = "textarea"
)

// Secciones de una plantilla: cabecera de la orden o columnas de las líneas.
const (
	SectionHeader = "header"
	SectionItem   = "item"
)

// OrderTemplate plantilla que personaliza el formulario de creación de órdenes.
type OrderTemplate struct {
	ID           string
	CompanyID    string
	TemplateName string
	TemplateType string
	Description  string
	FieldsConfig json.RawMessage // JSON con []TemplateField
	IsActive     bool
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TemplateField definición de un campo/columna de plantilla.
type TemplateField struct {
	Key          string   `json:"key"`
	Label        string   `json:"label"`
	Type         string   `json:"type"`
	Section      string   `json:"section,omitempty"` // header por defecto
	Required     bool     `json:"required,omitempty"`
	Options      []string `json:"options,omitempty"` // solo select
	DefaultValue string   `json:"defaultValue,omitempty"`
	Width        int      `json:"width,omitempty"`
	Order        int      `json:"order,omitempty"`
}
