package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/po-console/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func testSession() pkgjwt.Session {
	return pkgjwt.Session{
		UserID:    "00000000-0000-0000-0000-000000000001",
		CompanyID: "00000000-0000-0000-0000-000000000002",
		Role:      "purchaser",
	}
}

func TestGenerateAndParse_ConservaSesion(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSession(), "po-console-test", time.Hour)
	require.NoError(t, err)

	s, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testSession(), *s)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSession(), "po-console-test", -time.Minute)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSession(), "po-console-test", time.Hour)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testSession(), "x", time.Hour)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}

func TestParse_SesionIncompleta(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, pkgjwt.Session{UserID: "u1"}, "x", time.Hour)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "sin company_id la sesión no es válida")
}
