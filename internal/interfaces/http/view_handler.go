package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/application/listing"
)

// ViewHandler tablas ya renderizadas para la consola (búsqueda, orden, paginación).
type ViewHandler struct {
	orders    *listing.OrdersList
	vendors   *listing.VendorsList
	items     *listing.ItemsList
	templates *listing.TemplatesList
	errs      errorWriter
}

// NewViewHandler construye el handler de vistas.
func NewViewHandler(orders *listing.OrdersList, vendors *listing.VendorsList, items *listing.ItemsList, templates *listing.TemplatesList, errs errorWriter) *ViewHandler {
	return &ViewHandler{orders: orders, vendors: vendors, items: items, templates: templates, errs: errs}
}

func (h *ViewHandler) table(c *fiber.Ctx) (dto.TableViewRequest, error) {
	var req dto.TableViewRequest
	err := c.QueryParser(&req)
	return req, err
}

// Orders godoc
// @Summary      Tabla de órdenes
// @Tags         views
// @Produce      json
// @Param        q         query  string  false  "Búsqueda"
// @Param        sort      query  string  false  "Columna"
// @Param        dir       query  string  false  "asc | desc"
// @Param        page      query  int     false  "Página"
// @Param        pageSize  query  int     false  "Filas por página"
// @Param        theme     query  string  false  "light | dark"
// @Param        skeleton  query  bool    false  "Solo el esqueleto de carga"
// @Param        status    query  string  false  "Estado de la orden"
// @Success      200  {object}  dto.TableView
// @Security     BearerAuth
// @Router       /api/views/orders [get]
func (h *ViewHandler) Orders(c *fiber.Ctx) error {
	req, err := h.table(c)
	if err != nil {
		return badQuery(c)
	}
	var filter dto.OrderListRequest
	if err := c.QueryParser(&filter); err != nil {
		return badQuery(c)
	}
	out, err := h.orders.View(c.UserContext(), GetCompanyID(c), filter, req)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Vendors godoc
// @Summary      Tabla de proveedores
// @Tags         views
// @Produce      json
// @Param        q           query  string  false  "Búsqueda"
// @Param        sort        query  string  false  "Columna"
// @Param        page        query  int     false  "Página"
// @Param        vendorType  query  string  false  "거래처 | 납품처"
// @Success      200  {object}  dto.TableView
// @Security     BearerAuth
// @Router       /api/views/vendors [get]
func (h *ViewHandler) Vendors(c *fiber.Ctx) error {
	req, err := h.table(c)
	if err != nil {
		return badQuery(c)
	}
	var filter dto.VendorListRequest
	if err := c.QueryParser(&filter); err != nil {
		return badQuery(c)
	}
	out, err := h.vendors.View(c.UserContext(), GetCompanyID(c), filter, req)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Items godoc
// @Summary      Tabla de artículos
// @Tags         views
// @Produce      json
// @Param        q           query  string  false  "Búsqueda"
// @Param        categoryId  query  string  false  "Categoría"
// @Success      200  {object}  dto.TableView
// @Security     BearerAuth
// @Router       /api/views/items [get]
func (h *ViewHandler) Items(c *fiber.Ctx) error {
	req, err := h.table(c)
	if err != nil {
		return badQuery(c)
	}
	var filter dto.ItemListRequest
	if err := c.QueryParser(&filter); err != nil {
		return badQuery(c)
	}
	out, err := h.items.View(c.UserContext(), GetCompanyID(c), filter, req)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Templates godoc
// @Summary      Tabla de plantillas
// @Tags         views
// @Produce      json
// @Param        q             query  string  false  "Búsqueda"
// @Param        templateType  query  string  false  "handsontable | general"
// @Success      200  {object}  dto.TableView
// @Security     BearerAuth
// @Router       /api/views/templates [get]
func (h *ViewHandler) Templates(c *fiber.Ctx) error {
	req, err := h.table(c)
	if err != nil {
		return badQuery(c)
	}
	var filter dto.TemplateListRequest
	if err := c.QueryParser(&filter); err != nil {
		return badQuery(c)
	}
	out, err := h.templates.View(c.UserContext(), GetCompanyID(c), filter, req)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
