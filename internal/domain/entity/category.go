package entity

import "time"

// Niveles de la jerarquía de categorías de ítems.
const (
	CategoryMajor  = "major"  // 대분류
	CategoryMiddle = "middle" // 중분류
	CategoryMinor  = "minor"  // 소분류
)

// Category categoría de ítems en tres niveles: major → middle → minor.
type Category struct {
	ID        string
	CompanyID string
	ParentID  string // vacío para major
	Level     string
	Name      string
	SortOrder int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParentLevel nivel que debe tener el padre de una categoría de este nivel ("" para major).
func ParentLevel(level string) string {
	switch level {
	case CategoryMiddle:
		return CategoryMajor
	case CategoryMinor:
		return CategoryMiddle
	default:
		return ""
	}
}
