package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/application/usecase"
	"github.com/jhoicas/po-console/internal/domain/entity"
)

// ItemHandler maneja artículos y su clasificación en tres niveles.
type ItemHandler struct {
	uc   *usecase.ItemUseCase
	errs errorWriter
}

// NewItemHandler construye el handler de artículos.
func NewItemHandler(uc *usecase.ItemUseCase, errs errorWriter) *ItemHandler {
	return &ItemHandler{uc: uc, errs: errs}
}

// List godoc
// @Summary      Listar artículos
// @Tags         items
// @Produce      json
// @Param        categoryId  query  string  false  "Categoría (cualquier nivel)"
// @Param        search      query  string  false  "Texto libre"
// @Param        activeOnly  query  bool    false  "Solo activos"
// @Success      200  {array}  dto.ItemResponse
// @Security     BearerAuth
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var in dto.ItemListRequest
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
// @Summary      Obtener artículo
// @Tags         items
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear artículo
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ItemRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ItemResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.ItemRequest
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
// @Summary      Modificar artículo
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID del artículo"
// @Param        body  body  dto.ItemRequest  true  "Datos del artículo"
// @Success      200   {object}  dto.ItemResponse
// @Security     BearerAuth
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.ItemRequest
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
// @Summary      Eliminar artículo
// @Tags         items
// @Param        id   path  string  true  "ID del artículo"
// @Success      204
// @Security     BearerAuth
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return h.errs.write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Categories godoc
// @Summary      Árbol de categorías
// @Tags         items
// @Produce      json
// @Success      200  {array}  dto.CategoryNode
// @Security     BearerAuth
// @Router       /api/items/categories [get]
func (h *ItemHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Nivel, padre y nombre"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/items/categories [post]
func (h *ItemHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateCategory(c.UserContext(), actor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Major godoc
// @Summary      Categorías de primer nivel
// @Tags         items
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Security     BearerAuth
// @Router       /api/items/categories/major [get]
func (h *ItemHandler) Major(c *fiber.Ctx) error {
	return h.byLevel(c, entity.CategoryMajor, "")
}

// Middle godoc
// @Summary      Categorías de segundo nivel
// @Tags         items
// @Produce      json
// @Param        majorId  query  string  false  "Categoría padre"
// @Success      200  {array}  dto.CategoryResponse
// @Security     BearerAuth
// @Router       /api/items/categories/middle [get]
func (h *ItemHandler) Middle(c *fiber.Ctx) error {
	return h.byLevel(c, entity.CategoryMiddle, c.Query("majorId"))
}

// Minor godoc
// @Summary      Categorías de tercer nivel
// @Tags         items
// @Produce      json
// @Param        middleId  query  string  false  "Categoría padre"
// @Success      200  {array}  dto.CategoryResponse
// @Security     BearerAuth
// @Router       /api/items/categories/minor [get]
func (h *ItemHandler) Minor(c *fiber.Ctx) error {
	return h.byLevel(c, entity.CategoryMinor, c.Query("middleId"))
}

func (h *ItemHandler) byLevel(c *fiber.Ctx, level, parentID string) error {
	out, err := h.uc.CategoriesByLevel(c.UserContext(), GetCompanyID(c), level, parentID)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
