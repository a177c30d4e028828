package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/po-console/internal/application/draft"
	"github.com/jhoicas/po-console/internal/application/dto"
)

// DraftHandler borradores de formulario por usuario (auto-guardado).
type DraftHandler struct {
	saver *draft.AutoSaver
	errs  errorWriter
}

// NewDraftHandler construye el handler de borradores.
func NewDraftHandler(saver *draft.AutoSaver, errs errorWriter) *DraftHandler {
	return &DraftHandler{saver: saver, errs: errs}
}

// Get godoc
// @Summary      Cargar borrador
// @Tags         drafts
// @Produce      json
// @Param        key  path  string  true  "Clave del formulario"
// @Success      200  {object}  dto.DraftResponse
// @Success      204
// @Failure      422  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/drafts/{key} [get]
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	out, err := h.saver.Load(c.UserContext(), GetUserID(c), c.Params("key"))
	if err != nil {
		return h.errs.write(c, err)
	}
	if out == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(out)
}

// Put godoc
// @Summary      Programar guardado del borrador
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        key   path  string            true  "Clave del formulario"
// @Param        body  body  dto.DraftRequest  true  "Contenido"
// @Success      202   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/drafts/{key} [put]
func (h *DraftHandler) Put(c *fiber.Ctx) error {
	var in dto.DraftRequest
	if err := c.BodyParser(&in); err != nil || len(in.Payload) == 0 {
		return badBody(c)
	}
	out, err := h.saver.Schedule(GetUserID(c), utils.CopyString(c.Params("key")), in.Payload)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// Delete godoc
// @Summary      Descartar borrador
// @Tags         drafts
// @Param        key  path  string  true  "Clave del formulario"
// @Success      204
// @Security     BearerAuth
// @Router       /api/drafts/{key} [delete]
func (h *DraftHandler) Delete(c *fiber.Ctx) error {
	if err := h.saver.Clear(c.UserContext(), GetUserID(c), c.Params("key")); err != nil {
		return h.errs.write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
