package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/application/orderform"
	"github.com/jhoicas/po-console/internal/application/orders"
	"github.com/jhoicas/po-console/internal/infrastructure/excel"
)

// maxImportSize tamaño máximo del libro importado.
const maxImportSize = 5 << 20

// OrderHandler CRUD de órdenes de compra, borrado masivo, exportación e importación.
type OrderHandler struct {
	uc   *orders.UseCase
	errs errorWriter
}

// NewOrderHandler construye el handler de órdenes.
func NewOrderHandler(uc *orders.UseCase, errs errorWriter) *OrderHandler {
	return &OrderHandler{uc: uc, errs: errs}
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Produce      json
// @Param        status          query  string  false  "Estado de la orden"
// @Param        approvalStatus  query  string  false  "Estado de aprobación"
// @Param        vendorId        query  string  false  "Proveedor"
// @Param        projectId       query  string  false  "Obra"
// @Param        from            query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to              query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        search          query  string  false  "Texto libre"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.OrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var in dto.OrderListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener orden
// @Tags         orders
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear orden (estándar, hoja o plantilla)
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "mode: standard | grid | template"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
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
// @Summary      Modificar orden
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderRequest  true  "Cabecera y líneas"
// @Success      200   {object}  dto.OrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar orden (solo borradores)
// @Tags         orders
// @Param        id   path  string  true  "ID de la orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return h.errs.write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkDeletePreview godoc
// @Summary      Resumen del borrado masivo
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IDsRequest  true  "ids seleccionados"
// @Success      200   {object}  dto.BulkDeleteSummary
// @Security     BearerAuth
// @Router       /api/orders/bulk-delete/preview [post]
func (h *OrderHandler) BulkDeletePreview(c *fiber.Ctx) error {
	var in dto.IDsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.BulkDeletePreview(c.UserContext(), GetCompanyID(c), in.IDs)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// BulkDelete godoc
// @Summary      Borrado masivo de borradores
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IDsRequest  true  "ids seleccionados"
// @Success      200   {object}  dto.BulkDeleteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders/bulk-delete [post]
func (h *OrderHandler) BulkDelete(c *fiber.Ctx) error {
	var in dto.IDsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.BulkDelete(c.UserContext(), actor(c), in.IDs)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar órdenes a Excel
// @Tags         orders
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status  query  string  false  "Estado de la orden"
// @Param        search  query  string  false  "Texto libre"
// @Success      200  {file}  binary
// @Security     BearerAuth
// @Router       /api/orders/export [get]
func (h *OrderHandler) Export(c *fiber.Ctx) error {
	var in dto.OrderListRequest
	if err := c.QueryParser(&in); err != nil {
		return badQuery(c)
	}
	data, err := h.uc.Export(c.UserContext(), actor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	c.Set(fiber.HeaderContentType, excel.ContentType)
	c.Attachment(fmt.Sprintf("발주목록_%s.xlsx", time.Now().Format("20060102")))
	return c.Send(data)
}

// ImportExcel godoc
// @Summary      Crear orden desde un libro Excel
// @Tags         orders
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "Libro .xlsx (primera hoja)"
// @Param        title      formData  string  true   "Título"
// @Param        vendorId   formData  string  true   "Proveedor"
// @Param        projectId  formData  string  false  "Obra"
// @Success      201  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders/import-excel [post]
func (h *OrderHandler) ImportExcel(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "엑셀 파일을 선택해 주세요."})
	}
	if fh.Size > maxImportSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "파일 크기는 5MB 이하여야 합니다."})
	}
	f, err := fh.Open()
	if err != nil {
		return h.errs.write(c, err)
	}
	defer f.Close()

	grid, err := orderform.GridFromXLSX(f)
	if err != nil {
		h.errs.log.Warn().Err(err).Str("filename", fh.Filename).Msg("importación de Excel rechazada")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "엑셀 파일에서 품목 표를 찾을 수 없습니다."})
	}
	p, err := grid.Payload(dto.OrderHeaderInput{
		Title:         c.FormValue("title"),
		VendorID:      c.FormValue("vendorId"),
		ProjectID:     c.FormValue("projectId"),
		OrderDate:     c.FormValue("orderDate"),
		DeliveryDate:  c.FormValue("deliveryDate"),
		DeliveryPlace: c.FormValue("deliveryPlace"),
		Notes:         c.FormValue("notes"),
	})
	if err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.uc.CreateFromPayload(c.UserContext(), actor(c), p)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
