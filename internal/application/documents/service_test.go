package documents

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/infrastructure/mail"
	"github.com/jhoicas/po-console/internal/testutil"
)

var actor = audit.Actor{UserID: "u1", UserName: "김영희", CompanyID: "c1"}

type pdfStub struct{ calls int }

func (p *pdfStub) GenerateOrderPDF(_ context.Context, o *entity.Order, _ *entity.Company, _ *entity.Vendor) ([]byte, error) {
	p.calls++
	return []byte("%PDF-" + o.OrderNumber), nil
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (m *memStore) PresignedURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://files.test/" + key, nil
}

func (m *memStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	return out
}

type mailSpy struct {
	sent []mail.Message
	err  error
}

func (m *mailSpy) Send(_ context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fixture struct {
	svc     *Service
	orders  *testutil.OrderRepo
	history *testutil.EmailHistoryRepo
	audit   *testutil.AuditRepo
	pdf     *pdfStub
	store   *memStore
	mailer  *mailSpy
}

func sampleOrder() *entity.Order {
	return &entity.Order{
		ID:          "o1",
		CompanyID:   "c1",
		OrderNumber: "PO-20240603-001",
		Title:       "철근 발주",
		VendorID:    "v1",
		OrderStatus: entity.OrderStatusCreated,
		TotalAmount: decimal.NewFromInt(50000),
		Items: []entity.OrderItem{{
			LineNo: 1, ItemName: "철근 D13", Unit: "톤",
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50000), TotalAmount: decimal.NewFromInt(50000),
		}},
	}
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		orders:  testutil.NewOrderRepo(sampleOrder()),
		history: testutil.NewEmailHistoryRepo(),
		audit:   testutil.NewAuditRepo(),
		pdf:     &pdfStub{},
		store:   newMemStore(),
		mailer:  &mailSpy{},
	}
	f.svc = NewService(Deps{
		Orders:        f.orders,
		Vendors:       testutil.NewVendorRepo(&entity.Vendor{ID: "v1", CompanyID: "c1", Name: "대한건재", IsActive: true}),
		Companies:     testutil.NewCompanyRepo(&entity.Company{ID: "c1", Name: "한빛건설"}),
		History:       f.history,
		PDF:           f.pdf,
		Objects:       f.store,
		Mailer:        f.mailer,
		Recorder:      audit.NewRecorder(f.audit, nil),
		PublicBaseURL: "https://po.example.com/",
		PreviewDelay:  time.Minute,
	})
	f.svc.now = func() time.Time { return time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(f.svc.Close)
	return f
}

func TestGeneratePDF_GuardaYDevuelveEnlace(t *testing.T) {
	f := newFixture(t)

	doc, err := f.svc.GeneratePDF(context.Background(), actor, "o1")
	require.NoError(t, err)
	assert.Equal(t, "orders/c1/2024/06/o1/PO-20240603-001.pdf", doc.ObjectKey)
	assert.Equal(t, "PO-20240603-001.pdf", doc.Filename)
	assert.Contains(t, doc.URL, doc.ObjectKey)
	assert.Contains(t, f.store.keys(), doc.ObjectKey)
	assert.Equal(t, []string{entity.AuditExport}, f.audit.Actions())
}

func TestGeneratePDF_SinAlmacenamiento(t *testing.T) {
	f := newFixture(t)
	f.svc.Objects = nil

	_, err := f.svc.GeneratePDF(context.Background(), actor, "o1")
	assert.ErrorIs(t, err, domain.ErrStorageDisabled)
}

func TestRenderPDF_OrdenInexistente(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.RenderPDF(context.Background(), "c1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = f.svc.RenderPDF(context.Background(), "otra", "o1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSendEmail_RegistraHistorialYMarcaOrden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.SendEmail(ctx, actor, dto.SendEmailRequest{
		OrderID:   "o1",
		To:        []string{"buyer@vendor.kr"},
		Message:   "안녕하세요.\n<발주서> 첨부합니다.",
		AttachPDF: true,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.EmailStatusSent, res.Status)
	assert.Equal(t, "발송 완료", res.StatusLabel)
	assert.Equal(t, "[발주서] PO-20240603-001 철근 발주", res.Subject)
	require.Len(t, res.Attachments, 1)

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Contains(t, msg.HTMLBody, "&lt;발주서&gt;")
	assert.Contains(t, msg.HTMLBody, "https://po.example.com/api/email-tracking/"+res.ID+"/open")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "PO-20240603-001.pdf", msg.Attachments[0].Filename)

	o, _ := f.orders.GetByID(ctx, "c1", "o1")
	assert.Equal(t, 1, o.EmailSendCount)
	assert.Equal(t, entity.OrderStatusSent, o.OrderStatus)
	assert.Equal(t, []string{entity.AuditSendEmail}, f.audit.Actions())
}

func TestSendEmailWithExcel_AdjuntaAmbos(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SendEmailWithExcel(context.Background(), actor, dto.SendEmailRequest{
		OrderID: "o1", To: []string{"buyer@vendor.kr"}, AttachPDF: true,
	})
	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 1)
	atts := f.mailer.sent[0].Attachments
	require.Len(t, atts, 2)
	assert.Equal(t, "PO-20240603-001.xlsx", atts[1].Filename)
	assert.Equal(t, "PK", string(atts[1].Data[:2]))
}

func TestSendEmail_DestinatariosInvalidos(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SendEmail(context.Background(), actor, dto.SendEmailRequest{
		OrderID: "o1", To: []string{"no-es-correo"}, CC: []string{"ok@x.kr"},
	})
	var verrs dto.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "to", verrs[0].Field)
	assert.Empty(t, f.mailer.sent)
	assert.Empty(t, f.history.Entries)
}

func TestSendEmail_FalloDeEntrega(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errors.New("smtp: 550 mailbox unavailable")
	ctx := context.Background()

	_, err := f.svc.SendEmail(ctx, actor, dto.SendEmailRequest{OrderID: "o1", To: []string{"buyer@vendor.kr"}})
	require.ErrorIs(t, err, domain.ErrMailDelivery)

	require.Len(t, f.history.Entries, 1)
	for _, h := range f.history.Entries {
		assert.Equal(t, entity.EmailStatusFailed, h.Status)
		assert.Contains(t, h.ErrorMessage, "550")
	}
	o, _ := f.orders.GetByID(ctx, "c1", "o1")
	assert.Zero(t, o.EmailSendCount)
	assert.Empty(t, f.audit.Actions())
}

func TestSendEmail_SinCorreoConfigurado(t *testing.T) {
	f := newFixture(t)
	f.svc.Mailer = nil

	_, err := f.svc.SendEmail(context.Background(), actor, dto.SendEmailRequest{OrderID: "o1", To: []string{"a@b.kr"}})
	assert.ErrorIs(t, err, domain.ErrMailDisabled)
}

func TestResend_UsaAdjuntosGuardados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.svc.SendEmail(ctx, actor, dto.SendEmailRequest{
		OrderID: "o1", To: []string{"buyer@vendor.kr"}, AttachPDF: true,
	})
	require.NoError(t, err)
	calls := f.pdf.calls

	again, err := f.svc.Resend(ctx, actor, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ResendOf)
	assert.NotEqual(t, first.ID, again.ID)
	assert.Equal(t, calls, f.pdf.calls, "el PDF guardado se reutiliza")
	require.Len(t, f.mailer.sent, 2)
	assert.Equal(t, f.mailer.sent[0].Attachments[0].Data, f.mailer.sent[1].Attachments[0].Data)

	o, _ := f.orders.GetByID(ctx, "c1", "o1")
	assert.Equal(t, 2, o.EmailSendCount)
}

func TestResend_RegeneraSinAlmacenamiento(t *testing.T) {
	f := newFixture(t)
	f.svc.Objects = nil
	ctx := context.Background()
	first, err := f.svc.SendEmailWithExcel(ctx, actor, dto.SendEmailRequest{
		OrderID: "o1", To: []string{"buyer@vendor.kr"}, AttachPDF: true,
	})
	require.NoError(t, err)

	_, err = f.svc.Resend(ctx, actor, first.ID)
	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 2)
	assert.Len(t, f.mailer.sent[1].Attachments, 2)
	assert.Equal(t, 2, f.pdf.calls)
}

func TestResend_Inexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Resend(context.Background(), actor, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrackOpen_SoloPrimeraApertura(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.svc.SendEmail(ctx, actor, dto.SendEmailRequest{OrderID: "o1", To: []string{"buyer@vendor.kr"}})
	require.NoError(t, err)

	require.NoError(t, f.svc.TrackOpen(ctx, res.ID))
	first := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return first.Add(time.Hour) }
	require.NoError(t, f.svc.TrackOpen(ctx, res.ID))

	o, _ := f.orders.GetByID(ctx, "c1", "o1")
	require.NotNil(t, o.EmailOpenedAt)
	assert.True(t, o.EmailOpenedAt.Equal(first))
	assert.NoError(t, f.svc.TrackOpen(ctx, "desconocido"))
}

func TestHistory_FiltraPorOrden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SendEmail(ctx, actor, dto.SendEmailRequest{OrderID: "o1", To: []string{"a@b.kr"}})
	require.NoError(t, err)

	page, err := f.svc.ListHistory(ctx, "c1", dto.EmailHistoryRequest{OrderID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page.Total)
	assert.Equal(t, []string{}, page.Items[0].CC)

	_, err = f.svc.ListHistory(ctx, "c1", dto.EmailHistoryRequest{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSchedulePreview_AgrupaDisparos(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 5; i++ {
		f.svc.SchedulePreview("c1", "o1")
	}
	f.svc.previews.Flush()

	assert.Equal(t, 1, f.pdf.calls)
	data, err := f.store.Get(context.Background(), PreviewKey("c1", "o1"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))

	url, err := f.svc.PreviewURL(context.Background(), "c1", "o1")
	require.NoError(t, err)
	assert.Contains(t, url, "previews/c1/o1.pdf")
}
