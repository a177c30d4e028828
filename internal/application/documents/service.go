package documents

import (
	"context"
	"errors"
	"fmt"
	"html"
	netmail "net/mail"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/application/query"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
	"github.com/jhoicas/po-console/internal/infrastructure/excel"
	"github.com/jhoicas/po-console/internal/infrastructure/mail"
	"github.com/jhoicas/po-console/pkg/debounce"
	"github.com/jhoicas/po-console/pkg/format"
	"github.com/jhoicas/po-console/pkg/logger"
)

const (
	pdfContentType = "application/pdf"
	urlTTL         = 15 * time.Minute
	renderTimeout  = 30 * time.Second
)

// Deps dependencias del servicio. Objects y Mailer nil deshabilitan almacenamiento y correo.
type Deps struct {
	Orders        repository.OrderRepository
	Vendors       repository.VendorRepository
	Companies     repository.CompanyRepository
	History       repository.EmailHistoryRepository
	PDF           PDFRenderer
	Objects       ObjectStore
	Mailer        Mailer
	Recorder      *audit.Recorder
	Cache         *query.Client
	PublicBaseURL string
	PreviewDelay  time.Duration
	Log           *logger.Logger
}

// Service documentos y correo de órdenes.
type Service struct {
	Deps
	previews *debounce.Debouncer
	now      func() time.Time
}

// NewService construye el servicio.
func NewService(d Deps) *Service {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	d.Log = d.Log.Component("documents")
	if d.PreviewDelay <= 0 {
		d.PreviewDelay = 1500 * time.Millisecond
	}
	return &Service{Deps: d, previews: debounce.New(d.PreviewDelay), now: time.Now}
}

// Close ejecuta las regeneraciones pendientes.
func (s *Service) Close() {
	s.previews.Close()
}

func (s *Service) loadOrder(ctx context.Context, companyID, id string) (*entity.Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: orderId", domain.ErrInvalidInput)
	}
	o, err := s.Orders.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// RenderPDF genera el PDF de la orden y su nombre de archivo.
func (s *Service) RenderPDF(ctx context.Context, companyID, orderID string) ([]byte, string, error) {
	o, err := s.loadOrder(ctx, companyID, orderID)
	if err != nil {
		return nil, "", err
	}
	data, err := s.render(ctx, o)
	if err != nil {
		return nil, "", err
	}
	return data, pdfFilename(o), nil
}

func (s *Service) render(ctx context.Context, o *entity.Order) ([]byte, error) {
	company, err := s.Companies.GetByID(ctx, o.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		company = &entity.Company{ID: o.CompanyID}
	}
	var vendor *entity.Vendor
	if o.VendorID != "" {
		if vendor, err = s.Vendors.GetByID(ctx, o.CompanyID, o.VendorID); err != nil {
			return nil, err
		}
	}
	return s.PDF.GenerateOrderPDF(ctx, o, company, vendor)
}

func pdfFilename(o *entity.Order) string {
	return orderFileBase(o) + ".pdf"
}

func xlsxFilename(o *entity.Order) string {
	return orderFileBase(o) + ".xlsx"
}

func orderFileBase(o *entity.Order) string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	return o.ID
}

// objectKey ruta particionada por fecha: orders/<empresa>/<yyyy>/<mm>/<orden>/<archivo>.
func objectKey(o *entity.Order, at time.Time, filename string) string {
	return path.Join("orders", o.CompanyID, at.Format("2006"), at.Format("01"), o.ID, filename)
}

// GeneratePDF genera el PDF de la orden, lo guarda y devuelve un enlace temporal.
func (s *Service) GeneratePDF(ctx context.Context, actor audit.Actor, orderID string) (*dto.DocumentResponse, error) {
	if s.Objects == nil {
		return nil, domain.ErrStorageDisabled
	}
	o, err := s.loadOrder(ctx, actor.CompanyID, orderID)
	if err != nil {
		return nil, err
	}
	data, err := s.render(ctx, o)
	if err != nil {
		return nil, err
	}
	name := pdfFilename(o)
	key := objectKey(o, s.now(), name)
	if err := s.Objects.Put(ctx, key, data, pdfContentType); err != nil {
		return nil, err
	}
	url, err := s.Objects.PresignedURL(ctx, key, name, urlTTL)
	if err != nil {
		return nil, err
	}
	s.Recorder.Record(ctx, actor, audit.Entry{
		Action:      entity.AuditExport,
		EntityType:  entity.AuditEntityOrder,
		EntityID:    o.ID,
		Description: fmt.Sprintf("발주서 %s PDF 생성", o.OrderNumber),
	})
	return &dto.DocumentResponse{ObjectKey: key, Filename: name, URL: url, Size: len(data)}, nil
}

// SendEmail envía la orden por correo, con el PDF adjunto si se pide.
func (s *Service) SendEmail(ctx context.Context, actor audit.Actor, req dto.SendEmailRequest) (*dto.EmailHistoryResponse, error) {
	return s.sendOrder(ctx, actor, req, false)
}

// SendEmailWithExcel igual que SendEmail pero adjunta además la orden en xlsx.
func (s *Service) SendEmailWithExcel(ctx context.Context, actor audit.Actor, req dto.SendEmailRequest) (*dto.EmailHistoryResponse, error) {
	return s.sendOrder(ctx, actor, req, true)
}

func (s *Service) sendOrder(ctx context.Context, actor audit.Actor, req dto.SendEmailRequest, withExcel bool) (*dto.EmailHistoryResponse, error) {
	if s.Mailer == nil {
		return nil, domain.ErrMailDisabled
	}
	if err := validateRecipients(req.To, req.CC); err != nil {
		return nil, err
	}
	o, err := s.loadOrder(ctx, actor.CompanyID, req.OrderID)
	if err != nil {
		return nil, err
	}
	var files []mail.Attachment
	if req.AttachPDF {
		data, err := s.render(ctx, o)
		if err != nil {
			return nil, err
		}
		files = append(files, mail.Attachment{Filename: pdfFilename(o), ContentType: pdfContentType, Data: data})
	}
	if withExcel {
		data, err := excel.ExportOrder(o)
		if err != nil {
			return nil, err
		}
		files = append(files, mail.Attachment{Filename: xlsxFilename(o), ContentType: excel.ContentType, Data: data})
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = fmt.Sprintf("[발주서] %s %s", o.OrderNumber, o.Title)
	}
	h := &entity.EmailHistory{
		ID:          uuid.New().String(),
		CompanyID:   actor.CompanyID,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Recipients:  req.To,
		CC:          req.CC,
		Subject:     subject,
		Body:        req.Message,
	}
	return s.deliver(ctx, actor, h, files)
}

// deliver guarda los adjuntos, registra el envío, lo realiza y fija el resultado.
func (s *Service) deliver(ctx context.Context, actor audit.Actor, h *entity.EmailHistory, files []mail.Attachment) (*dto.EmailHistoryResponse, error) {
	now := s.now()
	h.Status = entity.EmailStatusPending
	h.SentBy = actor.UserID
	h.CreatedAt = now
	for _, f := range files {
		a := entity.EmailAttachment{Filename: f.Filename, ContentType: f.ContentType, Size: int64(len(f.Data))}
		if s.Objects != nil {
			key := path.Join("emails", h.CompanyID, now.Format("2006"), now.Format("01"), h.ID, f.Filename)
			if err := s.Objects.Put(ctx, key, f.Data, f.ContentType); err != nil {
				s.Log.Warn().Err(err).Str("email_id", h.ID).Msg("adjunto no guardado; el reenvío lo regenerará")
			} else {
				a.ObjectKey = key
			}
		}
		h.Attachments = append(h.Attachments, a)
	}
	if err := s.History.Create(ctx, h); err != nil {
		return nil, err
	}

	msg := mail.Message{
		To:          h.Recipients,
		CC:          h.CC,
		Subject:     h.Subject,
		HTMLBody:    s.htmlBody(h),
		Attachments: files,
	}
	sendErr := s.Mailer.Send(ctx, msg)
	if sendErr != nil {
		h.Status, h.ErrorMessage = entity.EmailStatusFailed, sendErr.Error()
		s.Log.Error().Err(sendErr).Str("email_id", h.ID).Str("order_id", h.OrderID).Msg("envío de correo fallido")
	} else {
		sentAt := s.now()
		h.Status, h.SentAt = entity.EmailStatusSent, &sentAt
	}
	if err := s.History.UpdateResult(ctx, h.ID, h.Status, h.ErrorMessage, h.SentAt); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, h.CompanyID, query.ResourceEmails)
	if sendErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMailDelivery, sendErr)
	}

	if h.OrderID != "" {
		if err := s.Orders.RecordEmailSent(ctx, h.OrderID, *h.SentAt); err != nil {
			return nil, err
		}
		s.Cache.Invalidate(ctx, h.CompanyID, query.ResourceOrders)
	}
	s.Recorder.Record(ctx, actor, audit.Entry{
		Action:      entity.AuditSendEmail,
		EntityType:  entity.AuditEntityEmail,
		EntityID:    h.ID,
		Description: fmt.Sprintf("발주서 %s 메일 발송 → %s", h.OrderNumber, strings.Join(h.Recipients, ", ")),
		Metadata:    map[string]any{"orderId": h.OrderID, "resendOf": h.ResendOf, "attachments": len(files)},
	})
	r := toHistoryResponse(h)
	return &r, nil
}

func (s *Service) htmlBody(h *entity.EmailHistory) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family:sans-serif">`)
	for _, line := range strings.Split(h.Body, "\n") {
		b.WriteString(html.EscapeString(line))
		b.WriteString("<br>")
	}
	b.WriteString(`</div>`)
	if s.PublicBaseURL != "" {
		fmt.Fprintf(&b, `<img src="%s/api/email-tracking/%s/open" width="1" height="1" alt="">`,
			strings.TrimRight(s.PublicBaseURL, "/"), h.ID)
	}
	return b.String()
}

func validateRecipients(to, cc []string) error {
	var verrs dto.ValidationErrors
	if len(to) == 0 {
		verrs.Add("to", "받는 사람을 입력하세요.")
	}
	for _, addr := range to {
		if _, err := netmail.ParseAddress(addr); err != nil {
			verrs.Add("to", "이메일 주소가 올바르지 않습니다: "+addr)
		}
	}
	for _, addr := range cc {
		if _, err := netmail.ParseAddress(addr); err != nil {
			verrs.Add("cc", "이메일 주소가 올바르지 않습니다: "+addr)
		}
	}
	return verrs.Err()
}

// ListHistory página del historial de envíos.
func (s *Service) ListHistory(ctx context.Context, companyID string, in dto.EmailHistoryRequest) (*dto.EmailHistoryListResponse, error) {
	in.DefaultPage()
	f := repository.EmailHistoryFilter{
		CompanyID: companyID,
		OrderID:   in.OrderID,
		Status:    in.Status,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	var err error
	if f.From, f.To, err = audit.ParseRange(in.From, in.To); err != nil {
		return nil, err
	}
	key := query.Key(query.ResourceEmails, companyID, map[string]string{
		"order": in.OrderID, "status": in.Status, "from": in.From, "to": in.To,
		"limit": fmt.Sprint(in.Limit), "offset": fmt.Sprint(in.Offset),
	})
	return query.Fetch(ctx, s.Cache, key, func(ctx context.Context) (*dto.EmailHistoryListResponse, error) {
		list, total, err := s.History.List(ctx, f)
		if err != nil {
			return nil, err
		}
		out := &dto.EmailHistoryListResponse{
			Items: make([]dto.EmailHistoryResponse, 0, len(list)),
			Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
		}
		for _, h := range list {
			out.Items = append(out.Items, toHistoryResponse(h))
		}
		return out, nil
	})
}

// Resend reenvía un envío anterior con los mismos destinatarios y adjuntos. Los adjuntos que no
// se guardaron se regeneran a partir de la orden.
func (s *Service) Resend(ctx context.Context, actor audit.Actor, id string) (*dto.EmailHistoryResponse, error) {
	if s.Mailer == nil {
		return nil, domain.ErrMailDisabled
	}
	orig, err := s.History.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return nil, domain.ErrNotFound
	}
	var o *entity.Order
	if orig.OrderID != "" {
		if o, err = s.Orders.GetByID(ctx, actor.CompanyID, orig.OrderID); err != nil {
			return nil, err
		}
	}
	files := make([]mail.Attachment, 0, len(orig.Attachments))
	for _, a := range orig.Attachments {
		data, err := s.attachmentData(ctx, a, o)
		if err != nil {
			return nil, err
		}
		files = append(files, mail.Attachment{Filename: a.Filename, ContentType: a.ContentType, Data: data})
	}
	h := &entity.EmailHistory{
		ID:          uuid.New().String(),
		CompanyID:   orig.CompanyID,
		OrderID:     orig.OrderID,
		OrderNumber: orig.OrderNumber,
		Recipients:  orig.Recipients,
		CC:          orig.CC,
		Subject:     orig.Subject,
		Body:        orig.Body,
		ResendOf:    orig.ID,
	}
	if o == nil {
		// la orden fue borrada: el historial conserva el número pero ya no la referencia
		h.OrderID = ""
	}
	return s.deliver(ctx, actor, h, files)
}

func (s *Service) attachmentData(ctx context.Context, a entity.EmailAttachment, o *entity.Order) ([]byte, error) {
	if a.ObjectKey != "" && s.Objects != nil {
		data, err := s.Objects.Get(ctx, a.ObjectKey)
		if err == nil {
			return data, nil
		}
		s.Log.Warn().Err(err).Str("key", a.ObjectKey).Msg("adjunto no disponible; se regenera")
	}
	if o == nil {
		return nil, fmt.Errorf("%w: adjunto %s no disponible", domain.ErrConflict, a.Filename)
	}
	switch {
	case strings.HasSuffix(a.Filename, ".pdf"):
		return s.render(ctx, o)
	case strings.HasSuffix(a.Filename, ".xlsx"):
		return excel.ExportOrder(o)
	}
	return nil, fmt.Errorf("%w: adjunto %s no disponible", domain.ErrConflict, a.Filename)
}

// TrackOpen registra la apertura de un correo. Los ids desconocidos se ignoran.
func (s *Service) TrackOpen(ctx context.Context, id string) error {
	h, err := s.History.MarkOpened(ctx, id, s.now())
	if err != nil || h == nil {
		return err
	}
	if h.OrderID != "" && h.OpenedAt != nil {
		if err := s.Orders.RecordEmailOpened(ctx, h.OrderID, *h.OpenedAt); err != nil {
			return err
		}
		s.Cache.Invalidate(ctx, h.CompanyID, query.ResourceOrders)
	}
	s.Cache.Invalidate(ctx, h.CompanyID, query.ResourceEmails)
	return nil
}

// SchedulePreview regenera (tras PreviewDelay, cancelando disparos previos) la vista previa PDF
// de la orden y la guarda en previews/<empresa>/<orden>.pdf.
func (s *Service) SchedulePreview(companyID, orderID string) {
	if s.Objects == nil {
		return
	}
	s.previews.Trigger(companyID+"/"+orderID, func() {
		ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
		defer cancel()
		if err := s.regeneratePreview(ctx, companyID, orderID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.Log.Error().Err(err).Str("order_id", orderID).Msg("vista previa no regenerada")
		}
	})
}

// PreviewKey clave del PDF de vista previa de una orden.
func PreviewKey(companyID, orderID string) string {
	return path.Join("previews", companyID, orderID+".pdf")
}

func (s *Service) regeneratePreview(ctx context.Context, companyID, orderID string) error {
	data, _, err := s.RenderPDF(ctx, companyID, orderID)
	if err != nil {
		return err
	}
	if err := s.Objects.Put(ctx, PreviewKey(companyID, orderID), data, pdfContentType); err != nil {
		return err
	}
	s.Log.Debug().Str("order_id", orderID).Int("bytes", len(data)).Msg("vista previa regenerada")
	return nil
}

// PreviewURL enlace temporal a la última vista previa generada.
func (s *Service) PreviewURL(ctx context.Context, companyID, orderID string) (string, error) {
	if s.Objects == nil {
		return "", domain.ErrStorageDisabled
	}
	o, err := s.loadOrder(ctx, companyID, orderID)
	if err != nil {
		return "", err
	}
	return s.Objects.PresignedURL(ctx, PreviewKey(companyID, orderID), pdfFilename(o), urlTTL)
}

func toHistoryResponse(h *entity.EmailHistory) dto.EmailHistoryResponse {
	attachments := make([]dto.EmailAttachmentResponse, 0, len(h.Attachments))
	for _, a := range h.Attachments {
		attachments = append(attachments, dto.EmailAttachmentResponse{Filename: a.Filename, Size: a.Size})
	}
	cc := h.CC
	if cc == nil {
		cc = []string{}
	}
	return dto.EmailHistoryResponse{
		ID:           h.ID,
		OrderID:      h.OrderID,
		OrderNumber:  h.OrderNumber,
		Recipients:   h.Recipients,
		CC:           cc,
		Subject:      h.Subject,
		Attachments:  attachments,
		Status:       h.Status,
		StatusLabel:  format.EmailStatusLabels.Lookup(h.Status).Text,
		ErrorMessage: h.ErrorMessage,
		SentBy:       h.SentBy,
		SentAt:       h.SentAt,
		OpenedAt:     h.OpenedAt,
		ResendOf:     h.ResendOf,
		CreatedAt:    h.CreatedAt,
	}
}
