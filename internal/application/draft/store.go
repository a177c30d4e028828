// Package draft borradores tipados y versionados de los formularios de la consola, con
// migración de versiones antiguas y autoguardado diferido.
package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
)

// CurrentVersion versión del formato de payload que se escribe hoy.
//
//	1: lista plana de líneas (o un objeto con campos de cabecera sueltos e "items").
//	2: objeto con la forma de la petición de alta de orden ({mode, header, items, ...}).
const CurrentVersion = 2

const maxPayloadBytes = 1 << 20

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_:\-]{1,128}$`)

// Envelope borrador con su versión y fecha de guardado.
type Envelope struct {
	Key     string
	Version int
	SavedAt time.Time
	Payload json.RawMessage
}

// migration convierte un payload de la versión n a la n+1.
type migration func(json.RawMessage) (json.RawMessage, error)

var migrations = map[int]migration{
	1: migrateV1,
}

// Store guarda y carga borradores por (usuario, clave).
type Store struct {
	repo repository.DraftRepository
	now  func() time.Time
}

// NewStore construye el almacén sobre el repositorio.
func NewStore(repo repository.DraftRepository) *Store {
	return &Store{repo: repo, now: time.Now}
}

// ValidateKey comprueba el formato de la clave.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: clave de borrador", domain.ErrInvalidInput)
	}
	return nil
}

// Wrap valida el payload y lo envuelve en la versión vigente.
func (s *Store) Wrap(key string, payload json.RawMessage) (*Envelope, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if len(payload) > maxPayloadBytes {
		return nil, fmt.Errorf("%w: borrador demasiado grande", domain.ErrInvalidInput)
	}
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: el borrador debe ser un objeto JSON", domain.ErrInvalidInput)
	}
	// key puede apuntar a un buffer reutilizado por el servidor HTTP
	return &Envelope{Key: strings.Clone(key), Version: CurrentVersion, SavedAt: s.now(), Payload: trimmed}, nil
}

// Save guarda el borrador en la versión vigente.
func (s *Store) Save(ctx context.Context, userID, key string, payload json.RawMessage) (*Envelope, error) {
	env, err := s.Wrap(key, payload)
	if err != nil {
		return nil, err
	}
	return env, s.put(ctx, userID, env)
}

func (s *Store) put(ctx context.Context, userID string, env *Envelope) error {
	return s.repo.Save(ctx, &entity.Draft{
		UserID:  userID,
		Key:     env.Key,
		Version: env.Version,
		Payload: env.Payload,
		SavedAt: env.SavedAt,
	})
}

// Load carga el borrador; nil, nil si no existe. Las versiones antiguas se migran y se
// reescriben; una versión posterior a la vigente devuelve ErrUnsupportedDraft.
func (s *Store) Load(ctx context.Context, userID, key string) (*Envelope, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	d, err := s.repo.Get(ctx, userID, key)
	if err != nil || d == nil {
		return nil, err
	}
	env := &Envelope{Key: d.Key, Version: d.Version, SavedAt: d.SavedAt, Payload: d.Payload}
	if env.Version > CurrentVersion || env.Version < 1 {
		return nil, fmt.Errorf("%w: v%d", domain.ErrUnsupportedDraft, env.Version)
	}
	if env.Version == CurrentVersion {
		return env, nil
	}
	if err := Migrate(env); err != nil {
		return nil, err
	}
	if err := s.put(ctx, userID, env); err != nil {
		return nil, err
	}
	return env, nil
}

// Clear elimina el borrador.
func (s *Store) Clear(ctx context.Context, userID, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, key)
}

// Migrate aplica en orden las migraciones hasta CurrentVersion.
func Migrate(env *Envelope) error {
	for env.Version < CurrentVersion {
		m, ok := migrations[env.Version]
		if !ok {
			return fmt.Errorf("%w: sin migración desde v%d", domain.ErrUnsupportedDraft, env.Version)
		}
		p, err := m(env.Payload)
		if err != nil {
			return fmt.Errorf("%w: v%d: %v", domain.ErrUnsupportedDraft, env.Version, err)
		}
		env.Payload = p
		env.Version++
	}
	return nil
}

var v1HeaderKeys = []string{"title", "vendorId", "projectId", "orderDate", "deliveryDate", "deliveryPlace", "notes"}

// migrateV1 la v1 guardaba las líneas como lista plana, o un objeto con los campos de
// cabecera al mismo nivel que "items".
func migrateV1(raw json.RawMessage) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	out := map[string]any{"mode": "standard"}
	if len(raw) > 0 && raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		out["header"] = map[string]any{}
		out["items"] = items
		return json.Marshal(out)
	}
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}
	header := map[string]json.RawMessage{}
	for _, k := range v1HeaderKeys {
		if v, ok := flat[k]; ok {
			header[k] = v
		}
	}
	out["header"] = header
	if items, ok := flat["items"]; ok {
		out["items"] = items
	} else {
		out["items"] = []any{}
	}
	return json.Marshal(out)
}
