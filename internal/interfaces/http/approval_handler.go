package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/po-console/internal/application/approval"
	"github.com/jhoicas/po-console/internal/application/dto"
)

// ApprovalHandler configuración del flujo de aprobación y pasos por importe.
type ApprovalHandler struct {
	svc  *approval.Service
	errs errorWriter
}

// NewApprovalHandler construye el handler de aprobación.
func NewApprovalHandler(svc *approval.Service, errs errorWriter) *ApprovalHandler {
	return &ApprovalHandler{svc: svc, errs: errs}
}

// Settings godoc
// @Summary      Configuración del flujo de aprobación
// @Tags         approval
// @Produce      json
// @Param        companyId  path  string  false  "Empresa (por defecto la de la sesión)"
// @Success      200  {object}  dto.WorkflowSettingsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/approval-settings/workflow-settings/{companyId} [get]
func (h *ApprovalHandler) Settings(c *fiber.Ctx) error {
	out, err := h.svc.Settings(c.UserContext(), GetCompanyID(c), c.Params("companyId"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// SaveSettings godoc
// @Summary      Guardar configuración del flujo de aprobación
// @Tags         approval
// @Accept       json
// @Produce      json
// @Param        companyId  path  string                       false  "Empresa"
// @Param        body       body  dto.WorkflowSettingsRequest  true   "direct | staged"
// @Success      200  {object}  dto.WorkflowSettingsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/approval-settings/workflow-settings/{companyId} [post]
func (h *ApprovalHandler) SaveSettings(c *fiber.Ctx) error {
	var in dto.WorkflowSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if id := c.Params("companyId"); id != "" {
		in.CompanyID = id
	}
	out, err := h.svc.SaveSettings(c.UserContext(), actor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// ListSteps godoc
// @Summary      Pasos de aprobación
// @Tags         approval
// @Produce      json
// @Param        companyId  query  string  false  "Empresa"
// @Success      200  {array}  dto.StepTemplateResponse
// @Security     BearerAuth
// @Router       /api/approval-settings/step-templates [get]
func (h *ApprovalHandler) ListSteps(c *fiber.Ctx) error {
	out, err := h.svc.ListSteps(c.UserContext(), GetCompanyID(c), c.Query("companyId"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Groups godoc
// @Summary      Pasos agrupados por plantilla
// @Tags         approval
// @Produce      json
// @Success      200  {array}  dto.StepTemplateGroup
// @Security     BearerAuth
// @Router       /api/approval-settings/step-templates/groups [get]
func (h *ApprovalHandler) Groups(c *fiber.Ctx) error {
	out, err := h.svc.Groups(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// GetStep godoc
// @Summary      Obtener paso
// @Tags         approval
// @Produce      json
// @Param        id   path  string  true  "ID del paso"
// @Success      200  {object}  dto.StepTemplateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/approval-settings/step-templates/{id} [get]
func (h *ApprovalHandler) GetStep(c *fiber.Ctx) error {
	out, err := h.svc.GetStep(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// CreateStep godoc
// @Summary      Crear paso
// @Tags         approval
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StepTemplateRequest  true  "Paso"
// @Success      201   {object}  dto.StepTemplateResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/approval-settings/step-templates [post]
func (h *ApprovalHandler) CreateStep(c *fiber.Ctx) error {
	var in dto.StepTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.CreateStep(c.UserContext(), actor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateStep godoc
// @Summary      Modificar paso
// @Tags         approval
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del paso"
// @Param        body  body  dto.StepTemplateRequest  true  "Paso"
// @Success      200   {object}  dto.StepTemplateResponse
// @Security     BearerAuth
// @Router       /api/approval-settings/step-templates/{id} [put]
func (h *ApprovalHandler) UpdateStep(c *fiber.Ctx) error {
	var in dto.StepTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.UpdateStep(c.UserContext(), actor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// DeleteStep godoc
// @Summary      Eliminar paso
// @Tags         approval
// @Param        id   path  string  true  "ID del paso"
// @Success      204
// @Security     BearerAuth
// @Router       /api/approval-settings/step-templates/{id} [delete]
func (h *ApprovalHandler) DeleteStep(c *fiber.Ctx) error {
	if err := h.svc.DeleteStep(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return h.errs.write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Preview godoc
// @Summary      Ruta de aprobación para un importe
// @Tags         approval
// @Produce      json
// @Param        amount  query  string  true  "Importe (KRW)"
// @Success      200  {object}  dto.ApprovalPreviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/approval-settings/preview [get]
func (h *ApprovalHandler) Preview(c *fiber.Ctx) error {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil || amount.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_AMOUNT", Message: "금액이 올바르지 않습니다."})
	}
	out, err := h.svc.Preview(c.UserContext(), GetCompanyID(c), amount)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
