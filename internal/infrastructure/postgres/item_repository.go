package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
)

var (
	_ repository.ItemRepository     = (*ItemRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
)

// ItemRepo implementación de ItemRepository sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de ítems.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// la categoría asignada puede ser de cualquier nivel; se resuelven sus ancestros
const itemSelect = `
	SELECT i.id, i.company_id, i.name, COALESCE(i.category_id::text, ''), COALESCE(c.name, ''),
		COALESCE(CASE c.level WHEN 'major' THEN c.name WHEN 'middle' THEN c1.name ELSE c2.name END, ''),
		COALESCE(CASE c.level WHEN 'middle' THEN c.name WHEN 'minor' THEN c1.name END, ''),
		COALESCE(CASE c.level WHEN 'minor' THEN c.name END, ''),
		i.specification, i.unit, i.standard_price, i.is_active, i.created_at, i.updated_at
	FROM items i
	LEFT JOIN item_categories c  ON c.id  = i.category_id
	LEFT JOIN item_categories c1 ON c1.id = c.parent_id
	LEFT JOIN item_categories c2 ON c2.id = c1.parent_id`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	if err := row.Scan(&it.ID, &it.CompanyID, &it.Name, &it.CategoryID, &it.CategoryName,
		&it.MajorCategory, &it.MiddleCategory, &it.MinorCategory,
		&it.Specification, &it.Unit, &it.StandardPrice, &it.IsActive, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un ítem.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO items (id, company_id, name, category_id, specification, unit, standard_price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		it.ID, it.CompanyID, it.Name, nullIfEmpty(it.CategoryID), it.Specification, it.Unit, it.StandardPrice,
		it.IsActive, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return writeErr("insert item", err)
	}
	return nil
}

// GetByID obtiene un ítem con su ruta de categorías. nil, nil si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Item, error) {
	if !isUUID(id) {
		return nil, nil
	}
	it, err := scanItem(r.q.QueryRow(ctx, itemSelect+` WHERE i.company_id = $1 AND i.id = $2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// Update actualiza un ítem.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE items SET name = $3, category_id = $4, specification = $5, unit = $6, standard_price = $7,
			is_active = $8, updated_at = $9
		WHERE company_id = $1 AND id = $2`,
		it.CompanyID, it.ID, it.Name, nullIfEmpty(it.CategoryID), it.Specification, it.Unit, it.StandardPrice,
		it.IsActive, it.UpdatedAt,
	)
	if err != nil {
		return writeErr("update item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un ítem. ErrConflict si alguna línea de orden lo referencia.
func (r *ItemRepo) Delete(ctx context.Context, companyID, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM items WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ítems; CategoryID incluye los ítems de las subcategorías.
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	var w whereBuilder
	w.add("i.company_id = ?", f.CompanyID)
	if f.CategoryID != "" {
		w.addID("(c.id = ? OR c1.id = ? OR c2.id = ?)", f.CategoryID)
	}
	if f.ActiveOnly {
		w.add("i.is_active = ?", true)
	}
	if f.Search != "" {
		w.add("(i.name ILIKE ? OR i.specification ILIKE ?)", likePattern(f.Search))
	}
	rows, err := r.q.Query(ctx, itemSelect+w.sql()+` ORDER BY i.name`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, company_id, COALESCE(parent_id::text, ''), level, name, sort_order, is_active, created_at, updated_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.CompanyID, &c.ParentID, &c.Level, &c.Name, &c.SortOrder, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO item_categories (id, company_id, parent_id, level, name, sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.CompanyID, nullIfEmpty(c.ParentID), c.Level, c.Name, c.SortOrder, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return writeErr("insert category", err)
	}
	return nil
}

// GetByID obtiene una categoría. nil, nil si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Category, error) {
	if !isUUID(id) {
		return nil, nil
	}
	c, err := scanCategory(r.q.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM item_categories WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// ListByLevel lista las categorías activas de un nivel, opcionalmente bajo un padre.
func (r *CategoryRepo) ListByLevel(ctx context.Context, companyID, level, parentID string) ([]*entity.Category, error) {
	var w whereBuilder
	w.add("company_id = ?", companyID)
	w.add("level = ?", level)
	w.add("is_active = ?", true)
	if parentID != "" {
		w.addID("parent_id = ?", parentID)
	}
	return r.list(ctx, `SELECT `+categoryColumns+` FROM item_categories`+w.sql()+` ORDER BY sort_order, name`, w.args...)
}

// ListAll lista todas las categorías de la empresa (para construir el árbol).
func (r *CategoryRepo) ListAll(ctx context.Context, companyID string) ([]*entity.Category, error) {
	return r.list(ctx, `SELECT `+categoryColumns+` FROM item_categories WHERE company_id = $1
		ORDER BY CASE level WHEN 'major' THEN 0 WHEN 'middle' THEN 1 ELSE 2 END, sort_order, name`, companyID)
}

func (r *CategoryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
