package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/po-console/internal/domain"
)

const validID = "6f1c2a9e-8b7d-4c3e-9a51-2d4f6b8e0c17"

var errNoDB = errors.New("sin base de datos")

// recordingQuerier registra las sentencias sin ejecutarlas.
type recordingQuerier struct {
	sqls []string
	args [][]any
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sqls = append(q.sqls, sql)
	q.args = append(q.args, args)
	return pgconn.NewCommandTag("DELETE 0"), nil
}

func (q *recordingQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sqls = append(q.sqls, sql)
	q.args = append(q.args, args)
	return nil, errNoDB
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sqls = append(q.sqls, sql)
	q.args = append(q.args, args)
	return errRow{}
}

type errRow struct{}

func (errRow) Scan(...any) error { return errNoDB }

func TestRepos_IDInvalidoNoLlegaALaBase(t *testing.T) {
	ctx := context.Background()
	q := &recordingQuerier{}

	o, err := NewOrderRepository(q).GetByID(ctx, "c1", "abc")
	require.NoError(t, err)
	assert.Nil(t, o)
	assert.ErrorIs(t, NewOrderRepository(q).Delete(ctx, "c1", "abc"), domain.ErrNotFound)

	v, err := NewVendorRepository(q).GetByID(ctx, "c1", "abc")
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.ErrorIs(t, NewVendorRepository(q).Delete(ctx, "c1", "abc"), domain.ErrNotFound)

	it, err := NewItemRepository(q).GetByID(ctx, "c1", "abc")
	require.NoError(t, err)
	assert.Nil(t, it)

	tpl, err := NewTemplateRepository(q).GetByID(ctx, "c1", "abc")
	require.NoError(t, err)
	assert.Nil(t, tpl)
	assert.ErrorIs(t, NewTemplateRepository(q).SetActive(ctx, "c1", "abc", false), domain.ErrNotFound)

	step, err := NewApprovalRepository(q).GetStepTemplate(ctx, "c1", "abc")
	require.NoError(t, err)
	assert.Nil(t, step)
	assert.ErrorIs(t, NewApprovalRepository(q).DeleteStepTemplate(ctx, "c1", "abc"), domain.ErrNotFound)

	h, err := NewEmailHistoryRepository(q).MarkOpened(ctx, "abc", time.Now())
	require.NoError(t, err)
	assert.Nil(t, h)

	assert.Empty(t, q.sqls)
}

func TestOrderRepo_OperacionesMasivasDescartanIDsInvalidos(t *testing.T) {
	ctx := context.Background()
	q := &recordingQuerier{}
	repo := NewOrderRepository(q)

	n, err := repo.DeleteDrafts(ctx, "c1", []string{"x", "abc"})
	require.NoError(t, err)
	assert.Zero(t, n)
	list, err := repo.ListByIDs(ctx, "c1", []string{"x"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, q.sqls)

	_, err = repo.DeleteDrafts(ctx, "c1", []string{"x", validID})
	require.NoError(t, err)
	require.Len(t, q.args, 1)
	assert.Equal(t, []any{"c1", []string{validID}}, q.args[0])
}

func TestWhereBuilder_AddID(t *testing.T) {
	var w whereBuilder
	w.add("o.company_id = ?", "c1")
	w.addID("o.vendor_id = ?", "abc")
	assert.Equal(t, " WHERE o.company_id = $1 AND FALSE", w.sql())
	assert.Len(t, w.args, 1)

	w.addID("o.project_id = ?", validID)
	assert.Equal(t, " WHERE o.company_id = $1 AND FALSE AND o.project_id = $2", w.sql())
}

func TestWriteErr(t *testing.T) {
	err := writeErr("insert order", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "22P02"}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = writeErr("insert order", &pgconn.PgError{Code: "23514"})
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)
}
