package query_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/po-console/internal/application/query"
	"github.com/jhoicas/po-console/internal/infrastructure/cache"
)

const company = "c1"

func newClient(t *testing.T) (*query.Client, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	rc, err := cache.OpenRedis(srv.Addr(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return query.NewClient(cache.NewRedisStore(rc), time.Minute, nil), srv
}

type page struct {
	Names []string `json:"names"`
}

func TestKey_IgnoraOrdenYVacios(t *testing.T) {
	a := query.Key(query.ResourceOrders, company, map[string]string{"status": "draft", "search": "", "vendor": "v1"})
	b := query.Key(query.ResourceOrders, company, map[string]string{"vendor": "v1", "status": "draft"})
	c := query.Key(query.ResourceOrders, company, map[string]string{"vendor": "v2", "status": "draft"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "q:orders:c1:")
}

func TestKey_SeparadoresEnValoresNoColisionan(t *testing.T) {
	a := query.Key(query.ResourceOrders, company, map[string]string{"search": "x&status=draft"})
	b := query.Key(query.ResourceOrders, company, map[string]string{"search": "x", "status": "draft"})
	c := query.Key(query.ResourceOrders, company, map[string]string{"search": "a=b"})
	d := query.Key(query.ResourceOrders, company, map[string]string{"search=a": "b"})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, c, d)
}

func TestFetch_SegundaLecturaDesdeCache(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()
	key := query.Key(query.ResourceVendors, company, nil)
	calls := 0
	loader := func(context.Context) (page, error) {
		calls++
		return page{Names: []string{"대한철강"}}, nil
	}

	v1, err := query.Fetch(ctx, c, key, loader)
	require.NoError(t, err)
	v2, err := query.Fetch(ctx, c, key, loader)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "la segunda lectura no debe llamar al loader")
	assert.Equal(t, v1, v2)
}

func TestFetch_ErrorDelLoaderNoSeCachea(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()
	key := query.Key(query.ResourceItems, company, nil)

	_, err := query.Fetch(ctx, c, key, func(context.Context) (page, error) {
		return page{}, errors.New("db caída")
	})
	require.Error(t, err)
	assert.False(t, srv.Exists(key))
}

func TestInvalidate_RefetchTrasMutacion(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()
	key := query.Key(query.ResourceOrders, company, map[string]string{"status": "draft"})
	calls := 0
	loader := func(context.Context) (page, error) {
		calls++
		return page{}, nil
	}

	_, _ = query.Fetch(ctx, c, key, loader)
	c.Invalidate(ctx, company, query.ResourceOrders)
	_, _ = query.Fetch(ctx, c, key, loader)

	assert.Equal(t, 2, calls)
}

func TestFetch_CacheCaidaRecurreAlLoader(t *testing.T) {
	c, srv := newClient(t)
	srv.Close()

	v, err := query.Fetch(context.Background(), c, "q:x", func(context.Context) (page, error) {
		return page{Names: []string{"ok"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, v.Names)
}

func TestFetch_ClienteNil(t *testing.T) {
	var c *query.Client
	v, err := query.Fetch(context.Background(), c, "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	c.Invalidate(context.Background(), company, query.ResourceOrders)
}
