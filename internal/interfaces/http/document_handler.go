package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/po-console/internal/application/documents"
	"github.com/jhoicas/po-console/internal/application/dto"
)

// trackingPixel GIF transparente de 1×1.
var trackingPixel = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// DocumentHandler PDF de órdenes, envío por correo, historial y seguimiento de apertura.
type DocumentHandler struct {
	svc  *documents.Service
	errs errorWriter
}

// NewDocumentHandler construye el handler de documentos.
func NewDocumentHandler(svc *documents.Service, errs errorWriter) *DocumentHandler {
	return &DocumentHandler{svc: svc, errs: errs}
}

// GeneratePDF godoc
// @Summary      Generar y guardar el PDF de una orden
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GeneratePDFRequest  true  "orderId"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders/generate-pdf [post]
func (h *DocumentHandler) GeneratePDF(c *fiber.Ctx) error {
	var in dto.GeneratePDFRequest
	if err := c.BodyParser(&in); err != nil || in.OrderID == "" {
		return badBody(c)
	}
	out, err := h.svc.GeneratePDF(c.UserContext(), actor(c), in.OrderID)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PDF godoc
// @Summary      Descargar el PDF de una orden (sin guardarlo)
// @Tags         documents
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders/{id}/pdf [get]
func (h *DocumentHandler) PDF(c *fiber.Ctx) error {
	data, filename, err := h.svc.RenderPDF(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(data)
}

// Preview godoc
// @Summary      Enlace a la última vista previa PDF
// @Tags         documents
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders/{id}/preview [get]
func (h *DocumentHandler) Preview(c *fiber.Ctx) error {
	url, err := h.svc.PreviewURL(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}

// SendEmail godoc
// @Summary      Enviar orden por correo
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendEmailRequest  true  "Destinatarios, asunto y mensaje"
// @Success      200   {object}  dto.EmailHistoryResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders/send-email [post]
func (h *DocumentHandler) SendEmail(c *fiber.Ctx) error {
	var in dto.SendEmailRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.SendEmail(c.UserContext(), actor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// SendEmailWithExcel godoc
// @Summary      Enviar orden por correo con la hoja Excel adjunta
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendEmailRequest  true  "Destinatarios, asunto y mensaje"
// @Success      200   {object}  dto.EmailHistoryResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders/send-email-with-excel [post]
func (h *DocumentHandler) SendEmailWithExcel(c *fiber.Ctx) error {
	var in dto.SendEmailRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.SendEmailWithExcel(c.UserContext(), actor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de correos enviados
// @Tags         documents
// @Produce      json
// @Param        orderId  query  string  false  "Orden"
// @Param        status   query  string  false  "pending | sent | failed"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.EmailHistoryListResponse
// @Security     BearerAuth
// @Router       /api/excel-automation/email-history [get]
func (h *DocumentHandler) History(c *fiber.Ctx) error {
	var in dto.EmailHistoryRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.svc.ListHistory(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Resend godoc
// @Summary      Reenviar un correo del historial
// @Tags         documents
// @Produce      json
// @Param        id   path  string  true  "ID del historial"
// @Success      200  {object}  dto.EmailHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/excel-automation/resend-email/{id} [post]
func (h *DocumentHandler) Resend(c *fiber.Ctx) error {
	out, err := h.svc.Resend(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// TrackOpen godoc
// @Summary      Píxel de seguimiento de apertura
// @Tags         documents
// @Produce      image/gif
// @Param        id   path  string  true  "ID del historial"
// @Success      200  {file}  binary
// @Router       /api/email-tracking/{id}/open [get]
func (h *DocumentHandler) TrackOpen(c *fiber.Ctx) error {
	// el cliente de correo siempre recibe la imagen
	if err := h.svc.TrackOpen(c.UserContext(), c.Params("id")); err != nil {
		h.errs.log.Warn().Err(err).Str("email_id", c.Params("id")).Msg("registro de apertura")
	}
	c.Set(fiber.HeaderContentType, "image/gif")
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
	return c.Send(trackingPixel)
}
