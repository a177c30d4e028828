package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/pkg/jwt"
)

// Locals keys de la sesión en Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
	LocalUserName  = "user_name"
)

// AuthCookie cookie con el token (la consola usa credentials: include).
const AuthCookie = "auth_token"

// Redirección que la consola aplica tras un 401.
const (
	loginPath         = "/login"
	loginRedirectWait = 1500
)

func unauthorized(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Code:            code,
		Message:         message,
		Redirect:        loginPath,
		RedirectAfterMs: loginRedirectWait,
	})
}

// tokenFrom toma el token del header Authorization (Bearer) o, si falta, de la cookie.
func tokenFrom(c *fiber.Ctx) (string, bool) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	return c.Cookies(AuthCookie), true
}

// AuthMiddleware valida el JWT y carga la sesión en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := tokenFrom(c)
		if !ok {
			return unauthorized(c, "INVALID_TOKEN", "인증 형식이 올바르지 않습니다.")
		}
		if tokenString == "" {
			return unauthorized(c, "MISSING_TOKEN", "로그인이 필요합니다.")
		}
		s, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return unauthorized(c, "INVALID_TOKEN", "세션이 만료되었습니다. 다시 로그인해 주세요.")
		}
		c.Locals(LocalUserID, s.UserID)
		c.Locals(LocalCompanyID, s.CompanyID)
		c.Locals(LocalRole, s.Role)
		c.Locals(LocalUserName, s.Name)
		return c.Next()
	}
}

// RequireRole exige uno de los roles indicados. Debe usarse después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return unauthorized(c, "MISSING_ROLE", "권한 정보가 없습니다. 다시 로그인해 주세요.")
		}
		if !allowed[role] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "접근 권한이 없습니다."})
		}
		return c.Next()
	}
}

func local(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return local(c, LocalUserID) }

// GetCompanyID devuelve el CompanyID del contexto (después del middleware de auth).
func GetCompanyID(c *fiber.Ctx) string { return local(c, LocalCompanyID) }

// GetRole devuelve el rol de la sesión.
func GetRole(c *fiber.Ctx) string { return local(c, LocalRole) }

// actor datos de la sesión para la auditoría.
func actor(c *fiber.Ctx) audit.Actor {
	return audit.Actor{
		UserID:    GetUserID(c),
		UserName:  local(c, LocalUserName),
		CompanyID: GetCompanyID(c),
		Role:      GetRole(c),
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}
