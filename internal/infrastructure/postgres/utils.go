package postgres

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/po-console/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// isInvalidText verifica si un error es un texto no convertible al tipo de la columna (22P02).
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	return false
}

// writeErr envuelve un error de escritura; una referencia con formato inválido es ErrInvalidInput.
func writeErr(op string, err error) error {
	if isInvalidText(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUUID las columnas id son UUID: un id con otro formato no puede existir.
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// uuids descarta los ids con formato inválido.
func uuids(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if isUUID(id) {
			out = append(out, id)
		}
	}
	return out
}

// nullIfEmpty convierte "" en NULL para columnas opcionales (uuid, fk).
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// likePattern escapa comodines y envuelve en %...% para búsquedas ILIKE.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// whereBuilder acumula condiciones y argumentos posicionales ($1, $2...).
// En cond, "?" se sustituye por el placeholder del argumento.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(w.args))))
}

// addID como add para columnas uuid; un id inválido no coincide con ninguna fila.
func (w *whereBuilder) addID(cond, id string) {
	if !isUUID(id) {
		w.conds = append(w.conds, "FALSE")
		return
	}
	w.add(cond, id)
}

// arg registra un argumento sin condición (LIMIT/OFFSET) y devuelve su placeholder.
func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
