package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/pkg/logger"
)

// respond ejecuta errorWriter con el error dado y decodifica la respuesta.
func respond(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	w := errorWriter{log: logger.Nop()}
	app.Get("/", func(c *fiber.Ctx) error { return w.write(c, err) })

	resp, e := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, e)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorWriter_ErroresDeDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("orden abc: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{domain.ErrNotDraft, http.StatusConflict, "NOT_DRAFT"},
		{domain.ErrEmptySelection, http.StatusBadRequest, "EMPTY_SELECTION"},
		{fmt.Errorf("%w: templateId", domain.ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrUnsupportedDraft, http.StatusUnprocessableEntity, "UNSUPPORTED_DRAFT"},
		{fmt.Errorf("%w: smtp 550", domain.ErrMailDelivery), http.StatusBadGateway, "MAIL_DELIVERY"},
		{domain.ErrMailDisabled, http.StatusServiceUnavailable, "MAIL_DISABLED"},
		{domain.ErrStorageDisabled, http.StatusServiceUnavailable, "STORAGE_DISABLED"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			status, body := respond(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestErrorWriter_NoAutorizadoIncluyeRedireccion(t *testing.T) {
	status, body := respond(t, domain.ErrUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "/login", body.Redirect)
	assert.Equal(t, loginRedirectWait, body.RedirectAfterMs)
}

func TestErrorWriter_ErroresDeValidacion(t *testing.T) {
	var verrs dto.ValidationErrors
	verrs.Add("name", "거래처명을 입력하세요.")
	verrs.Add("businessNumber", "사업자등록번호가 올바르지 않습니다.")

	status, body := respond(t, verrs)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "거래처명을 입력하세요.", body.Message)
	require.Len(t, body.Fields, 2)
	assert.Equal(t, "businessNumber", body.Fields[1].Field)
}

func TestErrorWriter_ErrorInternoNoExponeDetalle(t *testing.T) {
	status, body := respond(t, errors.New("pq: connection refused 10.0.0.3"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "10.0.0.3")
}
