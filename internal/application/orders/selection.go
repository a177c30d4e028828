package orders

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/pkg/format"
)

// Selectable informa si la orden puede marcarse para borrado masivo (solo borradores).
func Selectable(o *entity.Order) bool {
	return o.IsDraft()
}

// Selection conjunto de órdenes marcadas para borrado. Solo admite borradores.
type Selection struct {
	ids   map[string]bool
	order []string
}

// NewSelection selección vacía.
func NewSelection() *Selection {
	return &Selection{ids: map[string]bool{}}
}

// Toggle marca o desmarca la orden y devuelve si quedó marcada. Las órdenes que no son
// borrador no se pueden marcar y se ignoran.
func (s *Selection) Toggle(o *entity.Order) bool {
	if !Selectable(o) {
		return false
	}
	if s.ids[o.ID] {
		delete(s.ids, o.ID)
		for i, id := range s.order {
			if id == o.ID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false
	}
	s.ids[o.ID] = true
	s.order = append(s.order, o.ID)
	return true
}

// SelectAll reemplaza la selección por todos los borradores de orders.
func (s *Selection) SelectAll(orders []*entity.Order) {
	s.Clear()
	for _, o := range orders {
		if Selectable(o) && !s.ids[o.ID] {
			s.ids[o.ID] = true
			s.order = append(s.order, o.ID)
		}
	}
}

// Clear vacía la selección.
func (s *Selection) Clear() {
	s.ids = map[string]bool{}
	s.order = nil
}

func (s *Selection) Contains(id string) bool { return s.ids[id] }

func (s *Selection) Len() int { return len(s.order) }

// IDs ids marcados en orden de selección.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Summary resumen para el diálogo de confirmación: cantidad y total combinado de las órdenes
// marcadas que aparecen en orders.
func (s *Selection) Summary(orders []*entity.Order) dto.BulkDeleteSummary {
	total := decimal.Zero
	ids := make([]string, 0, len(s.order))
	byID := make(map[string]*entity.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	for _, id := range s.order {
		if o, ok := byID[id]; ok {
			ids = append(ids, id)
			total = total.Add(o.TotalAmount)
		}
	}
	return dto.BulkDeleteSummary{
		IDs:            ids,
		Count:          len(ids),
		TotalAmount:    total,
		TotalFormatted: format.Currency(total),
	}
}
