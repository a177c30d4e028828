package entity

import (
	"encoding/json"
	"time"
)

// Acciones registradas en el log de auditoría.
const (
	AuditCreate         = "create"
	AuditUpdate         = "update"
	AuditDelete         = "delete"
	AuditBulkDelete     = "bulk_delete"
	AuditSendEmail      = "send_email"
	AuditExport         = "export"
	AuditLogin          = "login"
	AuditSettingsChange = "settings_change"
	AuditArchive        = "archive"
)

// Tipos de entidad auditados (también son las categorías activables en AuditSettings).
const (
	AuditEntityOrder    = "order"
	AuditEntityVendor   = "vendor"
	AuditEntityItem     = "item"
	AuditEntityTemplate = "template"
	AuditEntityApproval = "approval"
	AuditEntityEmail    = "email"
	AuditEntityAuth     = "auth"
	AuditEntitySystem   = "system"
)

// AuditLog registro append-only de una acción de usuario.
type AuditLog struct {
	ID          string
	CompanyID   string
	UserID      string
	UserName    string
	Action      string
	EntityType  string
	EntityID    string
	Description string
	Metadata    json.RawMessage
	IPAddress   string
	UserAgent   string
	CreatedAt   time.Time
}

// AuditSettings retención y categorías auditadas de una empresa.
type AuditSettings struct {
	CompanyID         string
	Enabled           bool
	RetentionDays     int
	EnabledCategories []string // vacío = todas
	UpdatedBy         string
	UpdatedAt         time.Time
}

// Records informa si la categoría entityType debe registrarse.
func (s *AuditSettings) Records(entityType string) bool {
	if !s.Enabled {
		return false
	}
	if len(s.EnabledCategories) == 0 {
		return true
	}
	for _, c := range s.EnabledCategories {
		if c == entityType {
			return true
		}
	}
	return false
}

// DefaultAuditSettings valores usados cuando la empresa no ha guardado configuración.
func DefaultAuditSettings(companyID string) *AuditSettings {
	return &AuditSettings{CompanyID: companyID, Enabled: true, RetentionDays: 365}
}
