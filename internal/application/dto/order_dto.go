package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// OrderListRequest filtros del listado de órdenes (query string).
type OrderListRequest struct {
	Status         string `query:"status"`
	ApprovalStatus string `query:"approvalStatus"`
	VendorID       string `query:"vendorId"`
	ProjectID      string `query:"projectId"`
	From           string `query:"from"` // YYYY-MM-DD
	To             string `query:"to"`
	Search         string `query:"search"`
	PageRequest
}

// OrderHeaderInput campos de cabecera comunes a las tres modalidades de entrada.
type OrderHeaderInput struct {
	Title         string          `json:"title"`
	VendorID      string          `json:"vendorId"`
	ProjectID     string          `json:"projectId"`
	OrderDate     string          `json:"orderDate"`    // YYYY-MM-DD; vacío = hoy
	DeliveryDate  string          `json:"deliveryDate"` // opcional
	DeliveryPlace string          `json:"deliveryPlace"`
	Notes         string          `json:"notes"`
	OrderStatus   string          `json:"orderStatus"` // draft (por defecto) o created
	CustomFields  json.RawMessage `json:"customFields,omitempty"`
}

// OrderItemInput línea tal como la envía el formulario estándar.
type OrderItemInput struct {
	ItemID        string          `json:"itemId"`
	ItemName      string          `json:"itemName"`
	Specification string          `json:"specification"`
	Unit          string          `json:"unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	DeliveryDate  string          `json:"deliveryDate"`
	Notes         string          `json:"notes"`
}

// GridInput contenido de la hoja: nombres de columna y filas de celdas.
type GridInput struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// CreateOrderRequest alta de orden. Mode: standard | grid | template.
type CreateOrderRequest struct {
	Mode       string              `json:"mode"`
	Header     OrderHeaderInput    `json:"header"`
	Items      []OrderItemInput    `json:"items,omitempty"`
	Grid       *GridInput          `json:"grid,omitempty"`
	TemplateID string              `json:"templateId,omitempty"`
	Values     map[string]string   `json:"values,omitempty"`     // campos de cabecera de la plantilla
	ItemValues []map[string]string `json:"itemValues,omitempty"` // columnas de línea de la plantilla
}

// UpdateOrderRequest reemplaza cabecera y líneas de una orden.
type UpdateOrderRequest struct {
	Header OrderHeaderInput `json:"header"`
	Items  []OrderItemInput `json:"items"`
}

// OrderItemResponse línea de orden.
type OrderItemResponse struct {
	ID            string          `json:"id"`
	LineNo        int             `json:"lineNo"`
	ItemID        string          `json:"itemId,omitempty"`
	ItemName      string          `json:"itemName"`
	Specification string          `json:"specification"`
	Unit          string          `json:"unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	DeliveryDate  *time.Time      `json:"deliveryDate,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// OrderResponse orden completa.
type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	Title           string              `json:"title"`
	VendorID        string              `json:"vendorId,omitempty"`
	VendorName      string              `json:"vendorName"`
	ProjectID       string              `json:"projectId,omitempty"`
	ProjectName     string              `json:"projectName"`
	UserID          string              `json:"userId,omitempty"`
	UserName        string              `json:"userName"`
	TemplateID      string              `json:"templateId,omitempty"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	Status          string              `json:"status,omitempty"`
	OrderStatus     string              `json:"orderStatus"`
	ApprovalStatus  string              `json:"approvalStatus"`
	EffectiveStatus string              `json:"effectiveStatus"`
	OrderDate       time.Time           `json:"orderDate"`
	DeliveryDate    *time.Time          `json:"deliveryDate,omitempty"`
	DeliveryPlace   string              `json:"deliveryPlace,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CustomFields    json.RawMessage     `json:"customFields,omitempty"`
	Items           []OrderItemResponse `json:"items,omitempty"`
	EmailSentAt     *time.Time          `json:"emailSentAt,omitempty"`
	EmailOpenedAt   *time.Time          `json:"emailOpenedAt,omitempty"`
	EmailSendCount  int                 `json:"emailSendCount"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// OrderListResponse página de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// BulkDeleteSummary resumen mostrado en el diálogo de confirmación.
type BulkDeleteSummary struct {
	IDs            []string        `json:"ids"`
	Count          int             `json:"count"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	TotalFormatted string          `json:"totalFormatted"`
	Skipped        []string        `json:"skipped,omitempty"` // ids no borrables (no borrador o inexistentes)
}

// BulkDeleteResponse resultado del borrado masivo.
type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}
