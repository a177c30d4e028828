package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `
	o.id, o.company_id, o.order_number, o.title,
	COALESCE(o.vendor_id::text, ''), COALESCE(v.name, ''),
	COALESCE(o.project_id::text, ''), COALESCE(p.name, ''),
	COALESCE(o.user_id::text, ''), COALESCE(u.name, ''),
	COALESCE(o.template_id::text, ''),
	o.total_amount, o.status, o.order_status, o.approval_status,
	o.order_date, o.delivery_date, o.delivery_place, o.notes, o.custom_fields,
	o.email_sent_at, o.email_opened_at, o.email_send_count, o.created_at, o.updated_at`

const orderFrom = `
	FROM purchase_orders o
	LEFT JOIN vendors  v ON v.id = o.vendor_id
	LEFT JOIN projects p ON p.id = o.project_id
	LEFT JOIN users    u ON u.id = o.user_id`

// estado efectivo: orderStatus con respaldo en el status legado
const effectiveStatusExpr = `COALESCE(NULLIF(o.order_status, ''), o.status)`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.OrderNumber, &o.Title,
		&o.VendorID, &o.VendorName, &o.ProjectID, &o.ProjectName,
		&o.UserID, &o.UserName, &o.TemplateID,
		&o.TotalAmount, &o.Status, &o.OrderStatus, &o.ApprovalStatus,
		&o.OrderDate, &o.DeliveryDate, &o.DeliveryPlace, &o.Notes, &o.CustomFields,
		&o.EmailSentAt, &o.EmailOpenedAt, &o.EmailSendCount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste la orden y sus líneas. Usar dentro de una tx para atomicidad.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO purchase_orders (id, company_id, order_number, title, vendor_id, project_id, user_id, template_id,
			total_amount, status, order_status, approval_status, order_date, delivery_date, delivery_place, notes,
			custom_fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CompanyID, o.OrderNumber, o.Title,
		nullIfEmpty(o.VendorID), nullIfEmpty(o.ProjectID), nullIfEmpty(o.UserID), nullIfEmpty(o.TemplateID),
		o.TotalAmount, o.Status, o.OrderStatus, o.ApprovalStatus, o.OrderDate, o.DeliveryDate,
		o.DeliveryPlace, o.Notes, o.CustomFields, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return writeErr("insert order", err)
	}
	return r.insertItems(ctx, o)
}

func (r *OrderRepo) insertItems(ctx context.Context, o *entity.Order) error {
	for i := range o.Items {
		it := &o.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.OrderID = o.ID
		it.LineNo = i + 1
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_items (id, order_id, line_no, item_id, item_name, specification, unit,
				quantity, unit_price, total_amount, delivery_date, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			it.ID, it.OrderID, it.LineNo, nullIfEmpty(it.ItemID), it.ItemName, it.Specification, it.Unit,
			it.Quantity, it.UnitPrice, it.TotalAmount, it.DeliveryDate, it.Notes,
		)
		if err != nil {
			return writeErr(fmt.Sprintf("insert order item %d", it.LineNo), err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas. nil, nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Order, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + orderColumns + orderFrom + ` WHERE o.company_id = $1 AND o.id = $2`
	o, err := scanOrder(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.items(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepo) items(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, line_no, COALESCE(item_id::text, ''), item_name, specification, unit,
			quantity, unit_price, total_amount, delivery_date, notes
		FROM purchase_order_items WHERE order_id = $1 ORDER BY line_no`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var list []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.LineNo, &it.ItemID, &it.ItemName, &it.Specification, &it.Unit,
			&it.Quantity, &it.UnitPrice, &it.TotalAmount, &it.DeliveryDate, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Update reemplaza cabecera y líneas de la orden.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET title = $3, vendor_id = $4, project_id = $5, template_id = $6,
			total_amount = $7, status = $8, order_status = $9, approval_status = $10, order_date = $11,
			delivery_date = $12, delivery_place = $13, notes = $14, custom_fields = $15, updated_at = $16
		WHERE company_id = $1 AND id = $2`,
		o.CompanyID, o.ID, o.Title, nullIfEmpty(o.VendorID), nullIfEmpty(o.ProjectID), nullIfEmpty(o.TemplateID),
		o.TotalAmount, o.Status, o.OrderStatus, o.ApprovalStatus, o.OrderDate,
		o.DeliveryDate, o.DeliveryPlace, o.Notes, o.CustomFields, o.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidInput
		}
		return writeErr("update order", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_order_items WHERE order_id = $1`, o.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return r.insertItems(ctx, o)
}

// Delete elimina una orden (las líneas caen por ON DELETE CASCADE).
func (r *OrderRepo) Delete(ctx context.Context, companyID, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteDrafts elimina en una sola sentencia las órdenes de ids que siguen en borrador.
func (r *OrderRepo) DeleteDrafts(ctx context.Context, companyID string, ids []string) (int64, error) {
	ids = uuids(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.q.Exec(ctx, `
		DELETE FROM purchase_orders o
		WHERE o.company_id = $1 AND o.id = ANY($2::uuid[]) AND `+effectiveStatusExpr+` = 'draft'`,
		companyID, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete orders: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// ListByIDs obtiene las cabeceras de las órdenes indicadas (sin líneas).
func (r *OrderRepo) ListByIDs(ctx context.Context, companyID string, ids []string) ([]*entity.Order, error) {
	ids = uuids(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + orderColumns + orderFrom + `
		WHERE o.company_id = $1 AND o.id = ANY($2::uuid[]) ORDER BY o.order_date DESC, o.order_number DESC`
	return r.query(ctx, query, companyID, ids)
}

// List aplica filtros y paginación; devuelve también el total sin paginar.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	var w whereBuilder
	w.add("o.company_id = ?", f.CompanyID)
	if f.Status != "" {
		w.add(effectiveStatusExpr+" = ?", f.Status)
	}
	if f.ApprovalStatus != "" {
		w.add("o.approval_status = ?", f.ApprovalStatus)
	}
	if f.VendorID != "" {
		w.addID("o.vendor_id = ?", f.VendorID)
	}
	if f.ProjectID != "" {
		w.addID("o.project_id = ?", f.ProjectID)
	}
	if f.UserID != "" {
		w.addID("o.user_id = ?", f.UserID)
	}
	if f.From != nil {
		w.add("o.order_date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("o.order_date <= ?", *f.To)
	}
	if f.Search != "" {
		w.add("(o.order_number ILIKE ? OR o.title ILIKE ? OR v.name ILIKE ?)", likePattern(f.Search))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+orderFrom+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `SELECT ` + orderColumns + orderFrom + w.sql() + ` ORDER BY o.order_date DESC, o.order_number DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + w.arg(f.Limit) + ` OFFSET ` + w.arg(f.Offset)
	}
	list, err := r.query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *OrderRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// CountByNumberPrefix cuenta órdenes de la empresa con número que empieza por prefix.
func (r *OrderRepo) CountByNumberPrefix(ctx context.Context, companyID, prefix string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM purchase_orders WHERE company_id = $1 AND order_number LIKE $2`,
		companyID, prefix+"%").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count order numbers: %w", err)
	}
	return n, nil
}

// RecordEmailSent actualiza la última fecha de envío e incrementa el contador.
func (r *OrderRepo) RecordEmailSent(ctx context.Context, orderID string, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET email_sent_at = $2, email_send_count = email_send_count + 1, updated_at = $2
		WHERE id = $1`, orderID, at)
	if err != nil {
		return fmt.Errorf("record email sent: %w", err)
	}
	return nil
}

// RecordEmailOpened registra la primera apertura del correo de la orden.
func (r *OrderRepo) RecordEmailOpened(ctx context.Context, orderID string, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET email_opened_at = $2 WHERE id = $1 AND email_opened_at IS NULL`, orderID, at)
	if err != nil {
		return fmt.Errorf("record email opened: %w", err)
	}
	return nil
}
