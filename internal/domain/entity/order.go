package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estado operativo de la orden (orderStatus).
const (
	OrderStatusDraft     = "draft"
	OrderStatusCreated   = "created"
	OrderStatusSent      = "sent"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Estado de aprobación (approvalStatus).
const (
	ApprovalNotRequired = "not_required"
	ApprovalPending     = "pending"
	ApprovalApproved    = "approved"
	ApprovalRejected    = "rejected"
)

// Valores del campo único status de las órdenes anteriores al modelo dual.
const (
	LegacyStatusDraft     = "draft"
	LegacyStatusPending   = "pending"
	LegacyStatusApproved  = "approved"
	LegacyStatusSent      = "sent"
	LegacyStatusCompleted = "completed"
	LegacyStatusRejected  = "rejected"
)

// Order orden de compra (발주서) con sus líneas.
type Order struct {
	ID             string
	CompanyID      string
	OrderNumber    string // PO-YYYYMMDD-NNN, único por empresa
	Title          string
	VendorID       string
	VendorName     string
	ProjectID      string
	ProjectName    string
	UserID         string
	UserName       string
	TemplateID     string // vacío si se creó sin plantilla
	TotalAmount    decimal.Decimal
	Status         string // legado
	OrderStatus    string
	ApprovalStatus string
	OrderDate      time.Time
	DeliveryDate   *time.Time
	DeliveryPlace  string
	Notes          string
	CustomFields   json.RawMessage // valores de campos de plantilla
	Items          []OrderItem

	EmailSentAt    *time.Time
	EmailOpenedAt  *time.Time
	EmailSendCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem línea de una orden.
type OrderItem struct {
	ID            string
	OrderID       string
	LineNo        int
	ItemID        string // vacío si la línea es libre
	ItemName      string
	Specification string
	Unit          string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	TotalAmount   decimal.Decimal // Quantity * UnitPrice
	DeliveryDate  *time.Time
	Notes         string
}

// EffectiveOrderStatus estado operativo vigente: orderStatus si existe, si no el status legado.
func (o *Order) EffectiveOrderStatus() string {
	if o.OrderStatus != "" {
		return o.OrderStatus
	}
	return o.Status
}

// IsDraft informa si la orden está en borrador (única condición para borrarla).
func (o *Order) IsDraft() bool {
	return o.EffectiveOrderStatus() == OrderStatusDraft
}

// UsesLegacyStatus informa si la orden solo tiene el campo status antiguo.
func (o *Order) UsesLegacyStatus() bool {
	return o.OrderStatus == "" && o.Status != ""
}

// RecalculateTotals recalcula el total de cada línea y el de la orden.
func (o *Order) RecalculateTotals() {
	total := decimal.Zero
	for i := range o.Items {
		o.Items[i].TotalAmount = o.Items[i].Quantity.Mul(o.Items[i].UnitPrice)
		total = total.Add(o.Items[i].TotalAmount)
	}
	o.TotalAmount = total
}
