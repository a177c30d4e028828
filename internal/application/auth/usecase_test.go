package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/testutil"
	"github.com/jhoicas/po-console/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*AuthUseCase, *testutil.UserRepo, *testutil.AuditRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	users := testutil.NewUserRepo(
		&entity.User{ID: "u1", CompanyID: "c1", Email: "kim@hanbit.kr", PasswordHash: string(hash), Name: "김영희", Role: entity.RoleManager, Status: "active"},
		&entity.User{ID: "u2", CompanyID: "c1", Email: "off@hanbit.kr", PasswordHash: string(hash), Name: "퇴사자", Role: entity.RoleViewer, Status: "inactive"},
	)
	auditRepo := testutil.NewAuditRepo()
	uc := NewAuthUseCase(users, testutil.NewCompanyRepo(&entity.Company{ID: "c1", Name: "한빛건설"}),
		audit.NewRecorder(auditRepo, nil), JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: "po-console"})
	return uc, users, auditRepo
}

func TestLogin_TokenConSesion(t *testing.T) {
	uc, _, auditRepo := newAuth(t)

	res, err := uc.Login(context.Background(), dto.LoginRequest{Email: " KIM@hanbit.kr", Password: "password123"}, "10.0.0.1", "test")
	require.NoError(t, err)
	s, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, jwt.Session{UserID: "u1", CompanyID: "c1", Role: entity.RoleManager, Name: "김영희"}, *s)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, []string{entity.AuditLogin}, auditRepo.Actions())
	assert.Equal(t, "10.0.0.1", auditRepo.Logs[0].IPAddress)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "kim@hanbit.kr", Password: "nope"}, "", "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ghost@hanbit.kr", Password: "password123"}, "", "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "off@hanbit.kr", Password: "password123"}, "", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegisterUser(t *testing.T) {
	uc, users, _ := newAuth(t)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Park@hanbit.kr", Password: "longenough", CompanyID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "park@hanbit.kr", u.Email)
	assert.Equal(t, entity.RolePurchaser, u.Role)
	stored := users.Users[u.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "kim@hanbit.kr", Password: "longenough", CompanyID: "c1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "new@x.kr", Password: "longenough", CompanyID: "zz"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "", Password: "short", Role: "boss"})
	var verrs dto.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}
