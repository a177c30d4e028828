package dto

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/po-console/internal/domain/entity"
)

// TemplateListRequest filtros del listado de plantillas.
type TemplateListRequest struct {
	TemplateType string `query:"templateType"`
	Search       string `query:"search"`
	ActiveOnly   bool   `query:"activeOnly"`
}

// TemplateRequest alta/edición de plantilla. FieldsConfig debe decodificar a []TemplateField.
type TemplateRequest struct {
	TemplateName string          `json:"templateName"`
	TemplateType string          `json:"templateType"`
	Description  string          `json:"description"`
	FieldsConfig json.RawMessage `json:"fieldsConfig"`
	IsActive     *bool           `json:"isActive"`
}

// TemplateResponse plantilla con sus campos ya decodificados.
type TemplateResponse struct {
	ID           string                 `json:"id"`
	TemplateName string                 `json:"templateName"`
	TemplateType string                 `json:"templateType"`
	Description  string                 `json:"description"`
	Fields       []entity.TemplateField `json:"fields"`
	IsActive     bool                   `json:"isActive"`
	CreatedBy    string                 `json:"createdBy,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}
