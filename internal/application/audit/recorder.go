// Package audit registra y consulta el log de auditoría.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
	"github.com/jhoicas/po-console/pkg/logger"
)

// Actor quién ejecuta la acción (sale del token y de la petición).
type Actor struct {
	UserID    string
	UserName  string
	CompanyID string
	Role      string
	IP        string
	UserAgent string
}

// Entry acción a registrar.
type Entry struct {
	Action      string
	EntityType  string
	EntityID    string
	Description string
	Metadata    any
}

// Recorder escribe entradas respetando la configuración de auditoría de la empresa.
type Recorder struct {
	repo repository.AuditRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewRecorder construye el recorder.
func NewRecorder(repo repository.AuditRepository, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{repo: repo, log: log.Component("audit"), now: time.Now}
}

// Record registra la entrada; un fallo se registra en el log de la aplicación y no se propaga.
func (r *Recorder) Record(ctx context.Context, actor Actor, e Entry) {
	if r == nil {
		return
	}
	if err := r.RecordWith(ctx, r.repo, actor, e); err != nil {
		r.log.Error().Err(err).Str("action", e.Action).Str("entity", e.EntityType).Msg("no se pudo registrar auditoría")
	}
}

// RecordWith registra con repo (p. ej. atado a una transacción) y devuelve el error.
func (r *Recorder) RecordWith(ctx context.Context, repo repository.AuditRepository, actor Actor, e Entry) error {
	if r == nil {
		return nil
	}
	settings, err := r.repo.GetSettings(ctx, actor.CompanyID)
	if err != nil {
		return err
	}
	if settings == nil {
		settings = entity.DefaultAuditSettings(actor.CompanyID)
	}
	if !settings.Records(e.EntityType) {
		return nil
	}
	var meta json.RawMessage
	if e.Metadata != nil {
		if meta, err = json.Marshal(e.Metadata); err != nil {
			return err
		}
	}
	return repo.Insert(ctx, &entity.AuditLog{
		ID:          uuid.New().String(),
		CompanyID:   actor.CompanyID,
		UserID:      actor.UserID,
		UserName:    actor.UserName,
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Description: e.Description,
		Metadata:    meta,
		IPAddress:   actor.IP,
		UserAgent:   actor.UserAgent,
		CreatedAt:   r.now(),
	})
}
