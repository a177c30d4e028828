package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/po-console/internal/domain/entity"
)

func order(id, status string, total int64) *entity.Order {
	return &entity.Order{ID: id, OrderStatus: status, TotalAmount: decimal.NewFromInt(total)}
}

func TestSelection_SelectAllSoloBorradores(t *testing.T) {
	list := []*entity.Order{
		order("a", entity.OrderStatusDraft, 1000),
		order("b", entity.OrderStatusSent, 2000),
		order("c", entity.OrderStatusDraft, 3000),
		{ID: "d", Status: entity.LegacyStatusDraft, TotalAmount: decimal.NewFromInt(4000)},
		{ID: "e", Status: entity.LegacyStatusApproved},
	}
	s := NewSelection()
	s.SelectAll(list)
	assert.Equal(t, []string{"a", "c", "d"}, s.IDs())
	for _, id := range s.IDs() {
		for _, o := range list {
			if o.ID == id {
				assert.True(t, o.IsDraft())
			}
		}
	}
}

func TestSelection_ToggleIgnoraNoBorradores(t *testing.T) {
	s := NewSelection()
	assert.False(t, s.Toggle(order("x", entity.OrderStatusCreated, 10)))
	assert.Equal(t, 0, s.Len())

	d := order("y", entity.OrderStatusDraft, 10)
	assert.True(t, s.Toggle(d))
	assert.True(t, s.Contains("y"))
	assert.False(t, s.Toggle(d))
	assert.Equal(t, 0, s.Len())
}

func TestSelection_SummaryTotalCombinado(t *testing.T) {
	list := []*entity.Order{
		order("a", entity.OrderStatusDraft, 10000),
		order("b", entity.OrderStatusDraft, 25000),
		order("c", entity.OrderStatusDraft, 5000),
	}
	s := NewSelection()
	s.SelectAll(list)

	sum := s.Summary(list)
	assert.Equal(t, 3, sum.Count)
	assert.True(t, decimal.NewFromInt(40000).Equal(sum.TotalAmount))
	assert.Equal(t, "₩40,000", sum.TotalFormatted)
}
