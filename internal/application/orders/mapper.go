package orders

import (
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain/entity"
)

// ToResponse convierte la orden al DTO de respuesta.
func ToResponse(o *entity.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:            it.ID,
			LineNo:        it.LineNo,
			ItemID:        it.ItemID,
			ItemName:      it.ItemName,
			Specification: it.Specification,
			Unit:          it.Unit,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			TotalAmount:   it.TotalAmount,
			DeliveryDate:  it.DeliveryDate,
			Notes:         it.Notes,
		})
	}
	return dto.OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Title:           o.Title,
		VendorID:        o.VendorID,
		VendorName:      o.VendorName,
		ProjectID:       o.ProjectID,
		ProjectName:     o.ProjectName,
		UserID:          o.UserID,
		UserName:        o.UserName,
		TemplateID:      o.TemplateID,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		OrderStatus:     o.OrderStatus,
		ApprovalStatus:  o.ApprovalStatus,
		EffectiveStatus: o.EffectiveOrderStatus(),
		OrderDate:       o.OrderDate,
		DeliveryDate:    o.DeliveryDate,
		DeliveryPlace:   o.DeliveryPlace,
		Notes:           o.Notes,
		CustomFields:    o.CustomFields,
		Items:           items,
		EmailSentAt:     o.EmailSentAt,
		EmailOpenedAt:   o.EmailOpenedAt,
		EmailSendCount:  o.EmailSendCount,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// legacyStatus valor que se escribe en el campo status antiguo para que los lectores que
// aún no conocen orderStatus vean un estado coherente.
func legacyStatus(orderStatus, approvalStatus string) string {
	switch orderStatus {
	case entity.OrderStatusDraft:
		return entity.LegacyStatusDraft
	case entity.OrderStatusCreated:
		switch approvalStatus {
		case entity.ApprovalPending:
			return entity.LegacyStatusPending
		case entity.ApprovalRejected:
			return entity.LegacyStatusRejected
		}
		return entity.LegacyStatusApproved
	case entity.OrderStatusSent:
		return entity.LegacyStatusSent
	case entity.OrderStatusDelivered:
		return entity.LegacyStatusCompleted
	case entity.OrderStatusCancelled:
		return entity.LegacyStatusRejected
	}
	return orderStatus
}

// fromLegacy estado operativo equivalente a un status antiguo.
func fromLegacy(status string) string {
	switch status {
	case entity.LegacyStatusPending, entity.LegacyStatusApproved:
		return entity.OrderStatusCreated
	case entity.LegacyStatusCompleted:
		return entity.OrderStatusDelivered
	case entity.LegacyStatusRejected:
		return entity.OrderStatusCancelled
	}
	return status
}
