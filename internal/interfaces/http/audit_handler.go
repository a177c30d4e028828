package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/dto"
)

// AuditHandler visor, configuración, archivado y panel de auditoría.
type AuditHandler struct {
	uc   *audit.UseCase
	errs errorWriter
}

// NewAuditHandler construye el handler de auditoría.
func NewAuditHandler(uc *audit.UseCase, errs errorWriter) *AuditHandler {
	return &AuditHandler{uc: uc, errs: errs}
}

// Logs godoc
// @Summary      Registros de auditoría
// @Tags         audit
// @Produce      json
// @Param        userId      query  string  false  "Usuario"
// @Param        action      query  string  false  "Acción"
// @Param        entityType  query  string  false  "Tipo de entidad"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.AuditLogListResponse
// @Security     BearerAuth
// @Router       /api/audit/logs [get]
func (h *AuditHandler) Logs(c *fiber.Ctx) error {
	var in dto.AuditLogRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.Logs(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Settings godoc
// @Summary      Configuración de auditoría
// @Tags         audit
// @Produce      json
// @Success      200  {object}  dto.AuditSettingsResponse
// @Security     BearerAuth
// @Router       /api/audit/settings [get]
func (h *AuditHandler) Settings(c *fiber.Ctx) error {
	out, err := h.uc.Settings(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// UpdateSettings godoc
// @Summary      Actualizar configuración de auditoría
// @Tags         audit
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AuditSettingsRequest  true  "Retención y categorías"
// @Success      200   {object}  dto.AuditSettingsResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/audit/settings [put]
func (h *AuditHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.AuditSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateSettings(c.UserContext(), actor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Archive godoc
// @Summary      Archivar registros vencidos
// @Tags         audit
// @Produce      json
// @Success      200  {object}  dto.AuditArchiveResponse
// @Security     BearerAuth
// @Router       /api/audit/archive [post]
func (h *AuditHandler) Archive(c *fiber.Ctx) error {
	out, err := h.uc.Archive(c.UserContext(), actor(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Panel de actividad
// @Tags         audit
// @Produce      json
// @Param        days  query  int  false  "Días hacia atrás"  default(30)
// @Success      200  {object}  dto.AuditDashboardResponse
// @Security     BearerAuth
// @Router       /api/audit/dashboard [get]
func (h *AuditHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext(), GetCompanyID(c), c.QueryInt("days", 0))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
