package dto

import (
	"encoding/json"
	"time"
)

// AuditLogRequest filtros del visor de auditoría.
type AuditLogRequest struct {
	UserID     string `query:"userId"`
	Action     string `query:"action"`
	EntityType string `query:"entityType"`
	EntityID   string `query:"entityId"`
	From       string `query:"from"`
	To         string `query:"to"`
	PageRequest
}

// AuditLogResponse registro de auditoría con etiquetas de presentación.
type AuditLogResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	UserName    string          `json:"userName"`
	Action      string          `json:"action"`
	EntityType  string          `json:"entityType"`
	EntityID    string          `json:"entityId"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	IPAddress   string          `json:"ipAddress,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedText string          `json:"createdText"`
}

// AuditLogListResponse página del log.
type AuditLogListResponse struct {
	Items []AuditLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AuditSettingsRequest actualización de la configuración de auditoría.
type AuditSettingsRequest struct {
	Enabled           bool     `json:"enabled"`
	RetentionDays     int      `json:"retentionDays"`
	EnabledCategories []string `json:"enabledCategories"`
}

// AuditSettingsResponse configuración vigente.
type AuditSettingsResponse struct {
	Enabled           bool      `json:"enabled"`
	RetentionDays     int       `json:"retentionDays"`
	EnabledCategories []string  `json:"enabledCategories"`
	UpdatedBy         string    `json:"updatedBy,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// AuditArchiveResponse resultado del archivado.
type AuditArchiveResponse struct {
	Archived int64     `json:"archived"`
	Before   time.Time `json:"before"`
}

// CountItem par etiqueta/cantidad para los gráficos del panel.
type CountItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// AuditDashboardResponse resumen de actividad de los últimos Days días.
type AuditDashboardResponse struct {
	Days     int         `json:"days"`
	Total    int64       `json:"total"`
	ByAction []CountItem `json:"byAction"`
	ByDay    []CountItem `json:"byDay"`
	TopUsers []CountItem `json:"topUsers"`
}
