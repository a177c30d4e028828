package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
	"github.com/jhoicas/po-console/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TTL vigencia del token (60 minutos si no se configura).
func (c JWTConfig) TTL() time.Duration {
	if c.ExpMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.ExpMinutes) * time.Minute
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	recorder    *audit.Recorder
	jwtCfg      JWTConfig
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, recorder *audit.Recorder, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, recorder: recorder, jwtCfg: jwtCfg, now: time.Now}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste. ErrDuplicate si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	var verrs dto.ValidationErrors
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		verrs.Add("email", "이메일을 입력하세요.")
	}
	if len(in.Password) < 8 {
		verrs.Add("password", "비밀번호는 8자 이상이어야 합니다.")
	}
	if in.Role != "" && !entity.ValidRole(in.Role) {
		verrs.Add("role", "권한이 올바르지 않습니다.")
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	company, err := uc.companyRepo.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound // empresa no existe
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := in.Name
	if name == "" {
		name = email
	}
	role := in.Role
	if role == "" {
		role = entity.RolePurchaser
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    in.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario. Usuario inexistente y
// password incorrecto devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, ip, userAgent string) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	ttl := uc.jwtCfg.TTL()
	session := jwt.Session{UserID: user.ID, CompanyID: user.CompanyID, Role: user.Role, Name: user.Name}
	token, err := jwt.Generate(uc.jwtCfg.Secret, session, uc.jwtCfg.Issuer, ttl)
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, audit.Actor{
		UserID: user.ID, UserName: user.Name, CompanyID: user.CompanyID, Role: user.Role, IP: ip, UserAgent: userAgent,
	}, audit.Entry{
		Action:      entity.AuditLogin,
		EntityType:  entity.AuditEntityAuth,
		EntityID:    user.ID,
		Description: user.Name + " 로그인",
	})
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: uc.now().Add(ttl),
		User:      *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
