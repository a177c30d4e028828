package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/po-console/internal/application/draft"
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/infrastructure/draftstore"
	apphttp "github.com/jhoicas/po-console/internal/interfaces/http"
)

// newRouterApp monta el router completo con borradores en SQLite en memoria; el resto de
// dependencias queda sin configurar porque estos tests no llegan a sus handlers.
func newRouterApp(t *testing.T) (*fiber.App, *draft.AutoSaver) {
	t.Helper()
	db, err := draftstore.Open(":memory:")
	require.NoError(t, err)
	saver := draft.NewAutoSaver(draft.NewStore(draftstore.NewStore(db)), time.Minute, nil)
	t.Cleanup(saver.Close)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{Drafts: saver, JWTSecret: testJWTSecret})
	return app, saver
}

func call(t *testing.T, app *fiber.App, method, path, role, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// ── Autenticación y roles ────────────────────────────────────────────────────

func TestRouter_RutasProtegidasExigenSesion(t *testing.T) {
	app, _ := newRouterApp(t)
	for _, path := range []string{"/api/orders", "/api/vendors", "/api/views/orders", "/api/drafts/order-form"} {
		resp := call(t, app, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestRouter_ViewerNoPuedeEscribir(t *testing.T) {
	app, _ := newRouterApp(t)
	cases := []struct{ method, path string }{
		{http.MethodPost, "/api/orders"},
		{http.MethodPost, "/api/orders/bulk-delete"},
		{http.MethodPost, "/api/orders/send-email"},
		{http.MethodDelete, "/api/vendors/v1"},
		{http.MethodPost, "/api/admin/templates"},
		{http.MethodPatch, "/api/order-templates/t1/toggle-status"},
		{http.MethodPost, "/api/approval-settings/step-templates"},
		{http.MethodGet, "/api/audit/logs"},
	}
	for _, tc := range cases {
		resp := call(t, app, tc.method, tc.path, "viewer", "{}")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, tc.method+" "+tc.path)
	}
}

func TestRouter_ManagerNoAdministraPlantillasNiAuditoria(t *testing.T) {
	app, _ := newRouterApp(t)
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/admin/templates", "manager", "").StatusCode)
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/audit/archive", "manager", "").StatusCode)
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/auth/register", "manager", "{}").StatusCode)
}

func TestRouter_LogoutBorraCookie(t *testing.T) {
	app, _ := newRouterApp(t)
	resp := call(t, app, http.MethodPost, "/api/auth/logout", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	cookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, cookie, apphttp.AuthCookie+"=")
	assert.Contains(t, strings.ToLower(cookie), "httponly")
}

func TestRouter_PreviewConImporteInvalido(t *testing.T) {
	app, _ := newRouterApp(t)
	resp := call(t, app, http.MethodGet, "/api/approval-settings/preview?amount=abc", "viewer", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ── Borradores ───────────────────────────────────────────────────────────────

func decodeDraft(t *testing.T, resp *http.Response) dto.DraftResponse {
	t.Helper()
	var out dto.DraftResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRouter_BorradorCicloCompleto(t *testing.T) {
	app, saver := newRouterApp(t)

	resp := call(t, app, http.MethodGet, "/api/drafts/order-form", "purchaser", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode, "sin borrador previo")

	resp = call(t, app, http.MethodPut, "/api/drafts/order-form", "purchaser",
		`{"payload":{"header":{"title":"철근 발주"},"items":[]}}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.True(t, decodeDraft(t, resp).Pending)

	// pendiente: visible antes de persistir
	resp = call(t, app, http.MethodGet, "/api/drafts/order-form", "purchaser", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeDraft(t, resp)
	assert.True(t, got.Pending)
	assert.Equal(t, draft.CurrentVersion, got.Version)
	assert.JSONEq(t, `{"header":{"title":"철근 발주"},"items":[]}`, string(got.Payload))

	saver.Flush()
	resp = call(t, app, http.MethodGet, "/api/drafts/order-form", "purchaser", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decodeDraft(t, resp).Pending)

	resp = call(t, app, http.MethodDelete, "/api/drafts/order-form", "purchaser", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = call(t, app, http.MethodGet, "/api/drafts/order-form", "purchaser", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRouter_BorradorNoEsObjeto(t *testing.T) {
	app, _ := newRouterApp(t)
	resp := call(t, app, http.MethodPut, "/api/drafts/order-form", "purchaser", `{"payload":[1,2,3]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_BorradorSinPayload(t *testing.T) {
	app, _ := newRouterApp(t)
	resp := call(t, app, http.MethodPut, "/api/drafts/order-form", "purchaser", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_BorradoresConClavesDistintas(t *testing.T) {
	app, saver := newRouterApp(t)

	resp := call(t, app, http.MethodPut, "/api/drafts/form-aaaa", "purchaser", `{"payload":{"n":1}}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp = call(t, app, http.MethodPut, "/api/drafts/form-bbbb", "purchaser", `{"payload":{"n":2}}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	saver.Flush()

	for key, want := range map[string]string{"form-aaaa": `{"n":1}`, "form-bbbb": `{"n":2}`} {
		resp = call(t, app, http.MethodGet, "/api/drafts/"+key, "purchaser", "")
		require.Equal(t, http.StatusOK, resp.StatusCode, key)
		got := decodeDraft(t, resp)
		assert.False(t, got.Pending, key)
		assert.Equal(t, key, got.Key)
		assert.JSONEq(t, want, string(got.Payload), key)
	}
}
