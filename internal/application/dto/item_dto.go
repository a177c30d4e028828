package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemListRequest filtros del catálogo.
type ItemListRequest struct {
	CategoryID string `query:"categoryId"`
	Search     string `query:"search"`
	ActiveOnly bool   `query:"activeOnly"`
}

// ItemRequest alta/edición de ítem.
type ItemRequest struct {
	Name          string          `json:"name"`
	CategoryID    string          `json:"categoryId"`
	Specification string          `json:"specification"`
	Unit          string          `json:"unit"`
	StandardPrice decimal.Decimal `json:"standardPrice"`
	IsActive      *bool           `json:"isActive"`
}

// ItemResponse ítem con su ruta de categorías.
type ItemResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CategoryID     string          `json:"categoryId,omitempty"`
	CategoryName   string          `json:"categoryName"`
	MajorCategory  string          `json:"majorCategory"`
	MiddleCategory string          `json:"middleCategory"`
	MinorCategory  string          `json:"minorCategory"`
	CategoryPath   string          `json:"categoryPath"`
	Specification  string          `json:"specification"`
	Unit           string          `json:"unit"`
	StandardPrice  decimal.Decimal `json:"standardPrice"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// CategoryRequest alta de categoría.
type CategoryRequest struct {
	ParentID  string `json:"parentId"`
	Level     string `json:"level"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

// CategoryResponse categoría.
type CategoryResponse struct {
	ID        string `json:"id"`
	ParentID  string `json:"parentId,omitempty"`
	Level     string `json:"level"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

// CategoryNode nodo del árbol major → middle → minor.
type CategoryNode struct {
	CategoryResponse
	Children []CategoryNode `json:"children,omitempty"`
}
