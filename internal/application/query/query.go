// Package query cachea lecturas de listados por recurso y parámetros de filtro.
// Toda mutación exitosa invalida su recurso; no hay otra garantía de consistencia.
package query

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"time"

	"github.com/jhoicas/po-console/pkg/logger"
)

// Recursos cacheados.
const (
	ResourceOrders     = "orders"
	ResourceVendors    = "vendors"
	ResourceItems      = "items"
	ResourceCategories = "categories"
	ResourceTemplates  = "templates"
	ResourceApproval   = "approval"
	ResourceAudit      = "audit"
	ResourceEmails     = "emails"
)

const keyPrefix = "q:"

// Store almacén clave/valor con expiración (Redis en producción).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}

// Client caché de consultas. Un *Client nil deshabilita la caché.
type Client struct {
	store Store
	ttl   time.Duration
	log   *logger.Logger
}

// NewClient construye el cliente.
func NewClient(store Store, ttl time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{store: store, ttl: ttl, log: log.Component("query-cache")}
}

// Key clave de caché: recurso + hash de los parámetros ordenados. Los valores vacíos
// se ignoran, de modo que {"a":"","b":"1"} y {"b":"1"} comparten entrada.
func Key(resource, companyID string, params map[string]string) string {
	vals := url.Values{}
	for k, v := range params {
		if v != "" {
			vals.Set(k, v)
		}
	}
	// Encode escapa y ordena por nombre
	sum := sha1.Sum([]byte(vals.Encode()))
	return prefix(resource, companyID) + hex.EncodeToString(sum[:])
}

func prefix(resource, companyID string) string {
	return keyPrefix + resource + ":" + companyID + ":"
}

// Fetch devuelve el valor cacheado bajo key o ejecuta loader y guarda su resultado.
// Los fallos de la caché se registran y se recurre al loader; los del loader se devuelven.
func Fetch[T any](ctx context.Context, c *Client, key string, loader func(ctx context.Context) (T, error)) (T, error) {
	if c == nil || c.store == nil {
		return loader(ctx)
	}
	if b, ok, err := c.store.Get(ctx, key); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
	} else if ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
		c.log.Warn().Str("key", key).Msg("entrada de caché ilegible, se recarga")
	}

	v, err := loader(ctx)
	if err != nil {
		return v, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo serializar para caché")
		return v, nil
	}
	if err := c.store.Set(ctx, key, b, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
	}
	return v, nil
}

// Invalidate borra todas las entradas de los recursos de la empresa.
func (c *Client) Invalidate(ctx context.Context, companyID string, resources ...string) {
	if c == nil || c.store == nil {
		return
	}
	for _, r := range resources {
		if _, err := c.store.DeleteByPrefix(ctx, prefix(r, companyID)); err != nil {
			c.log.Warn().Err(err).Str("resource", r).Msg("invalidación de caché fallida")
		}
	}
}
