package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/testutil"
)

var actor = audit.Actor{UserID: "u1", UserName: "박민수", CompanyID: "c1"}

type previewSpy struct{ ids []string }

func (p *previewSpy) SchedulePreview(_, orderID string) { p.ids = append(p.ids, orderID) }

type approvalStub struct{ threshold decimal.Decimal }

func (a approvalStub) RequiresApproval(_ context.Context, _ string, amount decimal.Decimal) (bool, error) {
	return amount.GreaterThanOrEqual(a.threshold), nil
}

type fixture struct {
	uc      *UseCase
	orders  *testutil.OrderRepo
	audit   *testutil.AuditRepo
	preview *previewSpy
}

func newFixture(t *testing.T, existing ...*entity.Order) fixture {
	t.Helper()
	orders := testutil.NewOrderRepo(existing...)
	auditRepo := testutil.NewAuditRepo()
	preview := &previewSpy{}
	uc := NewUseCase(Deps{
		Orders:    orders,
		Vendors:   testutil.NewVendorRepo(&entity.Vendor{ID: "v1", CompanyID: "c1", Name: "대한건재", IsActive: true}),
		Projects:  testutil.NewProjectRepo(&entity.Project{ID: "p1", CompanyID: "c1", Name: "판교 현장", Status: "active"}),
		Templates: testutil.NewTemplateRepo(),
		Tx:        &testutil.TxRunner{Orders: orders, Audit: auditRepo},
		Recorder:  audit.NewRecorder(auditRepo, nil),
		Preview:   preview,
		Approval:  approvalStub{threshold: decimal.NewFromInt(1000000)},
	})
	uc.now = func() time.Time { return time.Date(2024, 6, 3, 9, 30, 0, 0, time.Local) }
	return fixture{uc: uc, orders: orders, audit: auditRepo, preview: preview}
}

func standardRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Mode:   "standard",
		Header: dto.OrderHeaderInput{Title: "철근 발주", VendorID: "v1", ProjectID: "p1"},
		Items: []dto.OrderItemInput{
			{ItemName: "철근 D10", Unit: "톤", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(5000)},
			{ItemName: "결속선", Unit: "롤", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(1000)},
		},
	}
}

func TestCreate_NumeraYCalculaTotales(t *testing.T) {
	f := newFixture(t, &entity.Order{ID: "old", CompanyID: "c1", OrderNumber: "PO-20240603-001", OrderStatus: entity.OrderStatusSent})

	res, err := f.uc.Create(context.Background(), actor, standardRequest())
	require.NoError(t, err)
	assert.Equal(t, "PO-20240603-002", res.OrderNumber)
	assert.True(t, decimal.NewFromInt(13000).Equal(res.TotalAmount))
	assert.Equal(t, entity.OrderStatusDraft, res.OrderStatus)
	assert.Equal(t, entity.LegacyStatusDraft, res.Status)
	assert.Equal(t, "대한건재", res.VendorName)
	assert.Equal(t, "판교 현장", res.ProjectName)
	assert.Equal(t, "박민수", res.UserName)
	require.Len(t, res.Items, 2)
	assert.Equal(t, 2, res.Items[1].LineNo)
	assert.Equal(t, []string{entity.AuditCreate}, f.audit.Actions())
}

func TestCreate_AprobacionSegunMonto(t *testing.T) {
	f := newFixture(t)
	req := standardRequest()
	req.Header.OrderStatus = entity.OrderStatusCreated
	req.Items[0].UnitPrice = decimal.NewFromInt(600000)

	res, err := f.uc.Create(context.Background(), actor, req)
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalPending, res.ApprovalStatus)
	assert.Equal(t, entity.LegacyStatusPending, res.Status)
}

func TestCreate_ValidaCabecera(t *testing.T) {
	f := newFixture(t)
	req := standardRequest()
	req.Header.Title = ""
	req.Header.VendorID = "nope"
	req.Header.DeliveryDate = "2024-05-01"

	_, err := f.uc.Create(context.Background(), actor, req)
	var verrs dto.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	assert.True(t, fields["header.title"])
	assert.True(t, fields["header.vendorId"])
	assert.True(t, fields["header.deliveryDate"])
	assert.Empty(t, f.orders.Orders)
}

func TestCreate_PlantillaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), actor, dto.CreateOrderRequest{Mode: "template", TemplateID: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_ProgramaVistaPrevia(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.Create(context.Background(), actor, standardRequest())
	require.NoError(t, err)

	res, err := f.uc.Update(context.Background(), actor, created.ID, dto.UpdateOrderRequest{
		Header: dto.OrderHeaderInput{Title: "철근 추가 발주", VendorID: "v1"},
		Items:  []dto.OrderItemInput{{ItemName: "철근 D13", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(7000)}},
	})
	require.NoError(t, err)
	assert.Equal(t, created.OrderNumber, res.OrderNumber)
	assert.True(t, decimal.NewFromInt(7000).Equal(res.TotalAmount))
	assert.Equal(t, []string{created.ID}, f.preview.ids)
}

func TestUpdate_OrdenEntregadaNoSeEdita(t *testing.T) {
	f := newFixture(t, &entity.Order{ID: "o1", CompanyID: "c1", OrderStatus: entity.OrderStatusDelivered})
	_, err := f.uc.Update(context.Background(), actor, "o1", dto.UpdateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDelete_SoloBorradores(t *testing.T) {
	f := newFixture(t,
		&entity.Order{ID: "d1", CompanyID: "c1", OrderStatus: entity.OrderStatusDraft},
		&entity.Order{ID: "s1", CompanyID: "c1", OrderStatus: entity.OrderStatusSent},
	)
	assert.ErrorIs(t, f.uc.Delete(context.Background(), actor, "s1"), domain.ErrNotDraft)
	require.NoError(t, f.uc.Delete(context.Background(), actor, "d1"))
	assert.NotContains(t, f.orders.Orders, "d1")
	assert.ErrorIs(t, f.uc.Delete(context.Background(), actor, "d1"), domain.ErrNotFound)
}

func TestBulkDelete_PreviewYBorrado(t *testing.T) {
	f := newFixture(t,
		&entity.Order{ID: "a", CompanyID: "c1", OrderStatus: entity.OrderStatusDraft, TotalAmount: decimal.NewFromInt(10000)},
		&entity.Order{ID: "b", CompanyID: "c1", OrderStatus: entity.OrderStatusDraft, TotalAmount: decimal.NewFromInt(25000)},
		&entity.Order{ID: "c", CompanyID: "c1", OrderStatus: entity.OrderStatusDraft, TotalAmount: decimal.NewFromInt(5000)},
		&entity.Order{ID: "s", CompanyID: "c1", OrderStatus: entity.OrderStatusSent, TotalAmount: decimal.NewFromInt(99000)},
	)
	ids := []string{"a", "b", "c", "s", "missing"}

	sum, err := f.uc.BulkDeletePreview(context.Background(), "c1", ids)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, "₩40,000", sum.TotalFormatted)
	assert.ElementsMatch(t, []string{"s", "missing"}, sum.Skipped)

	res, err := f.uc.BulkDelete(context.Background(), actor, ids)
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.Deleted)
	assert.Contains(t, f.orders.Orders, "s")
	assert.Equal(t, []string{entity.AuditBulkDelete}, f.audit.Actions())

	_, err = f.uc.BulkDelete(context.Background(), actor, nil)
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
}

func TestList_FiltraPorEstadoEfectivo(t *testing.T) {
	f := newFixture(t,
		&entity.Order{ID: "a", CompanyID: "c1", OrderStatus: entity.OrderStatusDraft},
		&entity.Order{ID: "b", CompanyID: "c1", Status: entity.LegacyStatusDraft},
		&entity.Order{ID: "c", CompanyID: "c1", OrderStatus: entity.OrderStatusSent, Status: entity.LegacyStatusDraft},
	)
	res, err := f.uc.List(context.Background(), "c1", dto.OrderListRequest{Status: entity.OrderStatusDraft})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page.Total)
	assert.Equal(t, 20, res.Page.Limit)
}

func TestExport_GeneraLibro(t *testing.T) {
	f := newFixture(t, &entity.Order{ID: "a", CompanyID: "c1", OrderNumber: "PO-1", OrderStatus: entity.OrderStatusDraft})
	data, err := f.uc.Export(context.Background(), actor, dto.OrderListRequest{})
	require.NoError(t, err)
	assert.Equal(t, []byte("PK"), data[:2])
	assert.Equal(t, []string{entity.AuditExport}, f.audit.Actions())
}

func TestNextNumber(t *testing.T) {
	repo := testutil.NewOrderRepo(
		&entity.Order{ID: "1", CompanyID: "c1", OrderNumber: "PO-20240603-001"},
		&entity.Order{ID: "2", CompanyID: "c1", OrderNumber: "PO-20240603-002"},
		&entity.Order{ID: "3", CompanyID: "c2", OrderNumber: "PO-20240603-001"},
		&entity.Order{ID: "4", CompanyID: "c1", OrderNumber: "PO-20240602-001"},
	)
	n, err := NextNumber(context.Background(), repo, "c1", time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PO-20240603-003", n)
}
