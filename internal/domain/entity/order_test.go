package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/po-console/internal/domain/entity"
)

func TestOrder_EstadoEfectivo(t *testing.T) {
	tests := []struct {
		name        string
		orderStatus string
		legacy      string
		want        string
		draft       bool
	}{
		{"solo orderStatus", "draft", "", "draft", true},
		{"orderStatus tiene prioridad", "sent", "draft", "sent", false},
		{"respaldo en legado", "", "draft", "draft", true},
		{"legado no borrador", "", "approved", "approved", false},
		{"sin estado", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &entity.Order{OrderStatus: tt.orderStatus, Status: tt.legacy}
			assert.Equal(t, tt.want, o.EffectiveOrderStatus())
			assert.Equal(t, tt.draft, o.IsDraft())
		})
	}
}

func TestOrder_RecalculateTotals(t *testing.T) {
	o := &entity.Order{Items: []entity.OrderItem{
		{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(5000)},
		{Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.NewFromInt(10000)},
	}}
	o.RecalculateTotals()

	assert.True(t, o.Items[0].TotalAmount.Equal(decimal.NewFromInt(10000)))
	assert.True(t, o.Items[1].TotalAmount.Equal(decimal.NewFromInt(15000)))
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(25000)))
}

func TestApprovalStep_Covers(t *testing.T) {
	max := decimal.NewFromInt(1000000)
	bounded := &entity.ApprovalStepTemplate{MinAmount: decimal.Zero, MaxAmount: &max}
	open := &entity.ApprovalStepTemplate{MinAmount: decimal.NewFromInt(1000000)}

	assert.True(t, bounded.Covers(decimal.Zero))
	assert.True(t, bounded.Covers(max), "el tope es inclusivo")
	assert.False(t, bounded.Covers(decimal.NewFromInt(1000001)))
	assert.False(t, open.Covers(decimal.NewFromInt(999999)))
	assert.True(t, open.Covers(decimal.NewFromInt(50000000)))
}

func TestAuditSettings_Records(t *testing.T) {
	s := entity.DefaultAuditSettings("c1")
	assert.True(t, s.Records(entity.AuditEntityOrder), "sin categorías se registra todo")

	s.EnabledCategories = []string{entity.AuditEntityOrder}
	assert.True(t, s.Records(entity.AuditEntityOrder))
	assert.False(t, s.Records(entity.AuditEntityVendor))

	s.Enabled = false
	assert.False(t, s.Records(entity.AuditEntityOrder))
}
