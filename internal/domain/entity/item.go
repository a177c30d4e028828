package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item artículo del catálogo de compras.
type Item struct {
	ID             string
	CompanyID      string
	Name           string
	CategoryID     string // categoría minor (o la más profunda asignada)
	CategoryName   string
	MajorCategory  string
	MiddleCategory string
	MinorCategory  string
	Specification  string
	Unit           string
	StandardPrice  decimal.Decimal
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CategoryPath ruta legible major > middle > minor (omite niveles vacíos).
func (i *Item) CategoryPath() string {
	path := ""
	for _, p := range []string{i.MajorCategory, i.MiddleCategory, i.MinorCategory} {
		if p == "" {
			continue
		}
		if path != "" {
			path += " > "
		}
		path += p
	}
	if path == "" {
		return i.CategoryName
	}
	return path
}
