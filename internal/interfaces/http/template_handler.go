package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/application/usecase"
)

// TemplateHandler administración de plantillas de orden.
type TemplateHandler struct {
	uc   *usecase.TemplateUseCase
	errs errorWriter
}

// NewTemplateHandler construye el handler de plantillas.
func NewTemplateHandler(uc *usecase.TemplateUseCase, errs errorWriter) *TemplateHandler {
	return &TemplateHandler{uc: uc, errs: errs}
}

// List godoc
// @Summary      Listar plantillas
// @Tags         templates
// @Produce      json
// @Param        templateType  query  string  false  "handsontable | general"
// @Param        search        query  string  false  "Texto libre"
// @Param        activeOnly    query  bool    false  "Solo activas"
// @Success      200  {array}  dto.TemplateResponse
// @Security     BearerAuth
// @Router       /api/admin/templates [get]
func (h *TemplateHandler) List(c *fiber.Ctx) error {
	var in dto.TemplateListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener plantilla
// @Tags         templates
// @Produce      json
// @Param        id   path  string  true  "ID de la plantilla"
// @Success      200  {object}  dto.TemplateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/templates/{id} [get]
func (h *TemplateHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear plantilla
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TemplateRequest  true  "Nombre, tipo y configuración de campos"
// @Success      201   {object}  dto.TemplateResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/templates [post]
func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var in dto.TemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Modificar plantilla
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la plantilla"
// @Param        body  body  dto.TemplateRequest  true  "Nombre, tipo y configuración de campos"
// @Success      200   {object}  dto.TemplateResponse
// @Security     BearerAuth
// @Router       /api/admin/templates/{id} [put]
func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	var in dto.TemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// ToggleStatus godoc
// @Summary      Activar o desactivar plantilla
// @Tags         templates
// @Produce      json
// @Param        id   path  string  true  "ID de la plantilla"
// @Success      200  {object}  dto.TemplateResponse
// @Security     BearerAuth
// @Router       /api/order-templates/{id}/toggle-status [patch]
func (h *TemplateHandler) ToggleStatus(c *fiber.Ctx) error {
	out, err := h.uc.ToggleStatus(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar plantilla
// @Tags         templates
// @Param        id   path  string  true  "ID de la plantilla"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/templates/{id} [delete]
func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return h.errs.write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
