package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
)

var _ repository.EmailHistoryRepository = (*EmailHistoryRepo)(nil)

// EmailHistoryRepo historial de envíos sobre PostgreSQL.
type EmailHistoryRepo struct {
	q Querier
}

// NewEmailHistoryRepository construye el adaptador.
func NewEmailHistoryRepository(q Querier) *EmailHistoryRepo {
	return &EmailHistoryRepo{q: q}
}

const emailColumns = `id, company_id, COALESCE(order_id::text, ''), order_number, recipients, cc, subject, body,
	attachments, status, error_message, sent_by, sent_at, opened_at, COALESCE(resend_of::text, ''), created_at`

func scanEmail(row pgx.Row) (*entity.EmailHistory, error) {
	var h entity.EmailHistory
	var attachments []byte
	if err := row.Scan(&h.ID, &h.CompanyID, &h.OrderID, &h.OrderNumber, &h.Recipients, &h.CC, &h.Subject, &h.Body,
		&attachments, &h.Status, &h.ErrorMessage, &h.SentBy, &h.SentAt, &h.OpenedAt, &h.ResendOf, &h.CreatedAt); err != nil {
		return nil, err
	}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &h.Attachments); err != nil {
			return nil, fmt.Errorf("decode attachments: %w", err)
		}
	}
	return &h, nil
}

// Create persiste un envío (normalmente en estado pending).
func (r *EmailHistoryRepo) Create(ctx context.Context, h *entity.EmailHistory) error {
	attachments, err := json.Marshal(h.Attachments)
	if err != nil {
		return fmt.Errorf("encode attachments: %w", err)
	}
	if h.Attachments == nil {
		attachments = []byte("[]")
	}
	cc := h.CC
	if cc == nil {
		cc = []string{}
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO email_history (id, company_id, order_id, order_number, recipients, cc, subject, body, attachments,
			status, error_message, sent_by, sent_at, opened_at, resend_of, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		h.ID, h.CompanyID, nullIfEmpty(h.OrderID), h.OrderNumber, h.Recipients, cc, h.Subject, h.Body, string(attachments),
		h.Status, h.ErrorMessage, h.SentBy, h.SentAt, h.OpenedAt, nullIfEmpty(h.ResendOf), h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert email history: %w", err)
	}
	return nil
}

// UpdateResult fija estado, error y fecha de envío.
func (r *EmailHistoryRepo) UpdateResult(ctx context.Context, id, status, errMsg string, sentAt *time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE email_history SET status = $2, error_message = $3, sent_at = $4 WHERE id = $1`,
		id, status, errMsg, sentAt)
	if err != nil {
		return fmt.Errorf("update email history: %w", err)
	}
	return nil
}

// GetByID obtiene un envío de la empresa. nil, nil si no existe.
func (r *EmailHistoryRepo) GetByID(ctx context.Context, companyID, id string) (*entity.EmailHistory, error) {
	if !isUUID(id) {
		return nil, nil
	}
	h, err := scanEmail(r.q.QueryRow(ctx,
		`SELECT `+emailColumns+` FROM email_history WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get email history: %w", err)
	}
	return h, nil
}

// List filtra el historial (más reciente primero) y devuelve el total sin paginar.
func (r *EmailHistoryRepo) List(ctx context.Context, f repository.EmailHistoryFilter) ([]*entity.EmailHistory, int, error) {
	var w whereBuilder
	w.add("company_id = ?", f.CompanyID)
	if f.OrderID != "" {
		w.addID("order_id = ?", f.OrderID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at <= ?", *f.To)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM email_history`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count email history: %w", err)
	}
	query := `SELECT ` + emailColumns + ` FROM email_history` + w.sql() + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + w.arg(f.Limit) + ` OFFSET ` + w.arg(f.Offset)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list email history: %w", err)
	}
	defer rows.Close()
	var list []*entity.EmailHistory
	for rows.Next() {
		h, err := scanEmail(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan email history: %w", err)
		}
		list = append(list, h)
	}
	return list, total, rows.Err()
}

// MarkOpened registra la primera apertura y devuelve el envío actualizado.
func (r *EmailHistoryRepo) MarkOpened(ctx context.Context, id string, at time.Time) (*entity.EmailHistory, error) {
	if !isUUID(id) {
		return nil, nil
	}
	h, err := scanEmail(r.q.QueryRow(ctx, `
		UPDATE email_history SET opened_at = COALESCE(opened_at, $2) WHERE id = $1
		RETURNING `+emailColumns, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("mark email opened: %w", err)
	}
	return h, nil
}
