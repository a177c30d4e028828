package draft

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/pkg/debounce"
	"github.com/jhoicas/po-console/pkg/logger"
)

const saveTimeout = 5 * time.Second

// AutoSaver difiere la persistencia: cada Schedule reinicia el plazo de su (usuario, clave) y
// solo se guarda el último valor. Los valores en espera son visibles para Load.
type AutoSaver struct {
	store *Store
	deb   *debounce.Debouncer
	log   *logger.Logger

	// write serializa put y delete contra el almacén
	write   sync.Mutex
	mu      sync.Mutex
	pending map[string]pendingDraft
}

type pendingDraft struct {
	userID string
	env    *Envelope
}

// NewAutoSaver construye el autoguardado con el retardo indicado.
func NewAutoSaver(store *Store, delay time.Duration, log *logger.Logger) *AutoSaver {
	if log == nil {
		log = logger.Nop()
	}
	return &AutoSaver{
		store:   store,
		deb:     debounce.New(delay),
		log:     log.Component("drafts"),
		pending: map[string]pendingDraft{},
	}
}

func pendingKey(userID, key string) string { return userID + "\x00" + key }

// Schedule valida el payload y programa su guardado.
func (a *AutoSaver) Schedule(userID, key string, payload json.RawMessage) (*dto.DraftResponse, error) {
	env, err := a.store.Wrap(key, payload)
	if err != nil {
		return nil, err
	}
	pk := pendingKey(userID, key)
	a.mu.Lock()
	a.pending[pk] = pendingDraft{userID: userID, env: env}
	a.mu.Unlock()

	if !a.deb.Trigger(pk, func() { a.persist(pk, env) }) {
		// cerrado: se guarda en el acto
		a.persist(pk, env)
	}
	return toResponse(env, true), nil
}

func (a *AutoSaver) persist(pk string, env *Envelope) {
	a.write.Lock()
	defer a.write.Unlock()
	a.mu.Lock()
	p, ok := a.pending[pk]
	a.mu.Unlock()
	if !ok || p.env != env {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := a.store.put(ctx, p.userID, env); err != nil {
		a.log.Error().Err(err).Str("key", env.Key).Str("user_id", p.userID).Msg("autoguardado fallido")
	}
	a.mu.Lock()
	if cur, ok := a.pending[pk]; ok && cur.env == env {
		delete(a.pending, pk)
	}
	a.mu.Unlock()
}

// Load devuelve el valor en espera si lo hay; si no, el guardado (migrado). nil, nil si no existe.
func (a *AutoSaver) Load(ctx context.Context, userID, key string) (*dto.DraftResponse, error) {
	a.mu.Lock()
	p, ok := a.pending[pendingKey(userID, key)]
	a.mu.Unlock()
	if ok {
		return toResponse(p.env, true), nil
	}
	env, err := a.store.Load(ctx, userID, key)
	if err != nil || env == nil {
		return nil, err
	}
	return toResponse(env, false), nil
}

// Clear descarta lo pendiente y borra lo guardado.
func (a *AutoSaver) Clear(ctx context.Context, userID, key string) error {
	pk := pendingKey(userID, key)
	a.deb.Cancel(pk)
	a.write.Lock()
	defer a.write.Unlock()
	a.mu.Lock()
	delete(a.pending, pk)
	a.mu.Unlock()
	return a.store.Clear(ctx, userID, key)
}

// Flush guarda de inmediato todo lo pendiente.
func (a *AutoSaver) Flush() {
	a.deb.Flush()
}

// Close guarda lo pendiente; los Schedule posteriores guardan en el acto.
func (a *AutoSaver) Close() {
	a.deb.Close()
}

func toResponse(env *Envelope, pending bool) *dto.DraftResponse {
	return &dto.DraftResponse{
		Key:     env.Key,
		Version: env.Version,
		SavedAt: env.SavedAt,
		Pending: pending,
		Payload: env.Payload,
	}
}
