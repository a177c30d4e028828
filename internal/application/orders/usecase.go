package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/application/orderform"
	"github.com/jhoicas/po-console/internal/application/query"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
	"github.com/jhoicas/po-console/internal/infrastructure/excel"
	"github.com/jhoicas/po-console/pkg/format"
	"github.com/jhoicas/po-console/pkg/logger"
)

const numberAttempts = 3

// Deps dependencias del caso de uso. Cache, Preview y Approval son opcionales.
type Deps struct {
	Orders    repository.OrderRepository
	Vendors   repository.VendorRepository
	Projects  repository.ProjectRepository
	Templates repository.TemplateRepository
	Tx        TxRunner
	Recorder  *audit.Recorder
	Cache     *query.Client
	Preview   PreviewScheduler
	Approval  ApprovalPolicy
	Log       *logger.Logger
}

// UseCase órdenes de compra.
type UseCase struct {
	Deps
	now func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	d.Log = d.Log.Component("orders")
	return &UseCase{Deps: d, now: time.Now}
}

// Filter traduce la petición de listado al filtro del repositorio.
func Filter(companyID string, in dto.OrderListRequest) (repository.OrderFilter, error) {
	f := repository.OrderFilter{
		CompanyID:      companyID,
		Status:         in.Status,
		ApprovalStatus: in.ApprovalStatus,
		VendorID:       in.VendorID,
		ProjectID:      in.ProjectID,
		Search:         strings.TrimSpace(in.Search),
		Limit:          in.Limit,
		Offset:         in.Offset,
	}
	var err error
	if f.From, f.To, err = audit.ParseRange(in.From, in.To); err != nil {
		return f, err
	}
	return f, nil
}

// CacheParams parámetros que identifican un listado en la caché.
func CacheParams(in dto.OrderListRequest) map[string]string {
	return map[string]string{
		"status":   in.Status,
		"approval": in.ApprovalStatus,
		"vendor":   in.VendorID,
		"project":  in.ProjectID,
		"from":     in.From,
		"to":       in.To,
		"search":   strings.TrimSpace(in.Search),
		"limit":    strconv.Itoa(in.Limit),
		"offset":   strconv.Itoa(in.Offset),
	}
}

// List página de órdenes, servida desde la caché cuando está disponible.
func (uc *UseCase) List(ctx context.Context, companyID string, in dto.OrderListRequest) (*dto.OrderListResponse, error) {
	in.DefaultPage()
	f, err := Filter(companyID, in)
	if err != nil {
		return nil, err
	}
	key := query.Key(query.ResourceOrders, companyID, CacheParams(in))
	return query.Fetch(ctx, uc.Cache, key, func(ctx context.Context) (*dto.OrderListResponse, error) {
		list, total, err := uc.Orders.List(ctx, f)
		if err != nil {
			return nil, err
		}
		out := &dto.OrderListResponse{
			Items: make([]dto.OrderResponse, 0, len(list)),
			Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
		}
		for _, o := range list {
			r := ToResponse(o)
			r.Items = nil
			out.Items = append(out.Items, r)
		}
		return out, nil
	})
}

// ListAll todas las órdenes que cumplen el filtro, sin paginar; la vista de tabla busca,
// ordena y pagina sobre este conjunto.
func (uc *UseCase) ListAll(ctx context.Context, companyID string, in dto.OrderListRequest) ([]dto.OrderResponse, error) {
	in.Limit, in.Offset = 0, 0
	f, err := Filter(companyID, in)
	if err != nil {
		return nil, err
	}
	params := CacheParams(in)
	params["view"] = "all"
	key := query.Key(query.ResourceOrders, companyID, params)
	return query.Fetch(ctx, uc.Cache, key, func(ctx context.Context) ([]dto.OrderResponse, error) {
		list, _, err := uc.Orders.List(ctx, f)
		if err != nil {
			return nil, err
		}
		out := make([]dto.OrderResponse, 0, len(list))
		for _, o := range list {
			r := ToResponse(o)
			r.Items = nil
			out = append(out, r)
		}
		return out, nil
	})
}

// Get orden con sus líneas.
func (uc *UseCase) Get(ctx context.Context, companyID, id string) (*dto.OrderResponse, error) {
	o, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	r := ToResponse(o)
	return &r, nil
}

func (uc *UseCase) load(ctx context.Context, companyID, id string) (*entity.Order, error) {
	o, err := uc.Orders.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// Create normaliza la petición según su modalidad y crea la orden.
func (uc *UseCase) Create(ctx context.Context, actor audit.Actor, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	var tpl *entity.OrderTemplate
	if req.Mode == orderform.ModeTemplate {
		if req.TemplateID == "" {
			return nil, fmt.Errorf("%w: templateId", domain.ErrInvalidInput)
		}
		var err error
		if tpl, err = uc.Templates.GetByID(ctx, actor.CompanyID, req.TemplateID); err != nil {
			return nil, err
		}
		if tpl == nil {
			return nil, domain.ErrNotFound
		}
	}
	p, err := orderform.FromRequest(req, tpl)
	if err != nil {
		return nil, err
	}
	return uc.CreateFromPayload(ctx, actor, p)
}

// CreateFromPayload crea la orden a partir de un payload ya normalizado (también lo usa la
// importación de Excel).
func (uc *UseCase) CreateFromPayload(ctx context.Context, actor audit.Actor, p *orderform.Payload) (*dto.OrderResponse, error) {
	now := uc.now()
	o := &entity.Order{
		ID:         uuid.New().String(),
		CompanyID:  actor.CompanyID,
		UserID:     actor.UserID,
		UserName:   actor.UserName,
		TemplateID: p.TemplateID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.apply(ctx, o, p.Header, p.Items); err != nil {
		return nil, err
	}

	var err error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		err = uc.Tx.Run(ctx, func(orders repository.OrderRepository, auditRepo repository.AuditRepository) error {
			number, err := NextNumber(ctx, orders, o.CompanyID, o.OrderDate)
			if err != nil {
				return err
			}
			o.OrderNumber = number
			if err := orders.Create(ctx, o); err != nil {
				return err
			}
			return uc.Recorder.RecordWith(ctx, auditRepo, actor, audit.Entry{
				Action:      entity.AuditCreate,
				EntityType:  entity.AuditEntityOrder,
				EntityID:    o.ID,
				Description: fmt.Sprintf("발주서 %s 생성 (%s)", o.OrderNumber, format.Currency(o.TotalAmount)),
			})
		})
		// otra orden tomó el mismo número entre el conteo y el alta
		if !errors.Is(err, domain.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	uc.Cache.Invalidate(ctx, actor.CompanyID, query.ResourceOrders)
	uc.Log.Info().Str("order_id", o.ID).Str("number", o.OrderNumber).Str("company_id", o.CompanyID).Msg("orden creada")
	r := ToResponse(o)
	return &r, nil
}

// Update reemplaza cabecera y líneas. Las órdenes entregadas o canceladas no se editan.
func (uc *UseCase) Update(ctx context.Context, actor audit.Actor, id string, req dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	o, err := uc.load(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	switch o.EffectiveOrderStatus() {
	case entity.OrderStatusDelivered, entity.OrderStatusCancelled, entity.LegacyStatusCompleted, entity.LegacyStatusRejected:
		return nil, fmt.Errorf("%w: la orden ya no se puede modificar", domain.ErrConflict)
	}
	form := &orderform.StandardForm{Header: req.Header, Rows: req.Items}
	p, err := form.Payload()
	if err != nil {
		return nil, err
	}
	if err := uc.apply(ctx, o, p.Header, p.Items); err != nil {
		return nil, err
	}
	o.UpdatedAt = uc.now()

	err = uc.Tx.Run(ctx, func(orders repository.OrderRepository, auditRepo repository.AuditRepository) error {
		if err := orders.Update(ctx, o); err != nil {
			return err
		}
		return uc.Recorder.RecordWith(ctx, auditRepo, actor, audit.Entry{
			Action:      entity.AuditUpdate,
			EntityType:  entity.AuditEntityOrder,
			EntityID:    o.ID,
			Description: fmt.Sprintf("발주서 %s 수정", o.OrderNumber),
		})
	})
	if err != nil {
		return nil, err
	}
	uc.Cache.Invalidate(ctx, actor.CompanyID, query.ResourceOrders)
	if uc.Preview != nil {
		uc.Preview.SchedulePreview(actor.CompanyID, o.ID)
	}
	r := ToResponse(o)
	return &r, nil
}

// Delete borra una orden; solo borradores.
func (uc *UseCase) Delete(ctx context.Context, actor audit.Actor, id string) error {
	o, err := uc.load(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if !o.IsDraft() {
		return domain.ErrNotDraft
	}
	err = uc.Tx.Run(ctx, func(orders repository.OrderRepository, auditRepo repository.AuditRepository) error {
		if err := orders.Delete(ctx, actor.CompanyID, id); err != nil {
			return err
		}
		return uc.Recorder.RecordWith(ctx, auditRepo, actor, audit.Entry{
			Action:      entity.AuditDelete,
			EntityType:  entity.AuditEntityOrder,
			EntityID:    id,
			Description: fmt.Sprintf("발주서 %s 삭제", o.OrderNumber),
		})
	})
	if err != nil {
		return err
	}
	uc.Cache.Invalidate(ctx, actor.CompanyID, query.ResourceOrders)
	return nil
}

// BulkDeletePreview resumen de confirmación: solo cuentan los borradores existentes.
func (uc *UseCase) BulkDeletePreview(ctx context.Context, companyID string, ids []string) (*dto.BulkDeleteSummary, error) {
	if len(ids) == 0 {
		return nil, domain.ErrEmptySelection
	}
	list, err := uc.Orders.ListByIDs(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	sel := NewSelection()
	byID := make(map[string]*entity.Order, len(list))
	for _, o := range list {
		byID[o.ID] = o
	}
	var skipped []string
	for _, id := range ids {
		o, ok := byID[id]
		if !ok || sel.Contains(id) {
			if !ok {
				skipped = append(skipped, id)
			}
			continue
		}
		if !sel.Toggle(o) {
			skipped = append(skipped, id)
		}
	}
	s := sel.Summary(list)
	s.Skipped = skipped
	return &s, nil
}

// BulkDelete borra en una sola operación los borradores de ids; el resto se ignora.
func (uc *UseCase) BulkDelete(ctx context.Context, actor audit.Actor, ids []string) (*dto.BulkDeleteResponse, error) {
	if len(ids) == 0 {
		return nil, domain.ErrEmptySelection
	}
	var deleted int64
	err := uc.Tx.Run(ctx, func(orders repository.OrderRepository, auditRepo repository.AuditRepository) error {
		var err error
		if deleted, err = orders.DeleteDrafts(ctx, actor.CompanyID, ids); err != nil {
			return err
		}
		return uc.Recorder.RecordWith(ctx, auditRepo, actor, audit.Entry{
			Action:      entity.AuditBulkDelete,
			EntityType:  entity.AuditEntityOrder,
			Description: fmt.Sprintf("발주서 %d건 일괄 삭제", deleted),
			Metadata:    map[string]any{"ids": ids, "deleted": deleted},
		})
	})
	if err != nil {
		return nil, err
	}
	uc.Cache.Invalidate(ctx, actor.CompanyID, query.ResourceOrders)
	return &dto.BulkDeleteResponse{Deleted: deleted}, nil
}

// Export libro xlsx con todas las órdenes que cumplen el filtro (sin paginar).
func (uc *UseCase) Export(ctx context.Context, actor audit.Actor, in dto.OrderListRequest) ([]byte, error) {
	f, err := Filter(actor.CompanyID, in)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = 0, 0
	list, _, err := uc.Orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data, err := excel.ExportOrders(list)
	if err != nil {
		return nil, err
	}
	uc.Recorder.Record(ctx, actor, audit.Entry{
		Action:      entity.AuditExport,
		EntityType:  entity.AuditEntityOrder,
		Description: fmt.Sprintf("발주 목록 %d건 엑셀 내보내기", len(list)),
	})
	return data, nil
}

// apply copia cabecera y líneas validadas sobre la orden y recalcula totales y estados.
func (uc *UseCase) apply(ctx context.Context, o *entity.Order, h dto.OrderHeaderInput, items []dto.OrderItemInput) error {
	var verrs dto.ValidationErrors

	prevStatus := o.OrderStatus
	if prevStatus == "" && o.Status != "" {
		prevStatus = fromLegacy(o.Status)
	}
	prevApproval, prevTotal := o.ApprovalStatus, o.TotalAmount
	status := h.OrderStatus
	if status == "" {
		status = entity.OrderStatusDraft
		if prevStatus != "" {
			status = prevStatus
		}
	}
	switch status {
	case entity.OrderStatusDraft, entity.OrderStatusCreated:
	default:
		if status != prevStatus {
			verrs.Add("header.orderStatus", "저장할 수 없는 상태입니다.")
		}
	}

	o.Title = strings.TrimSpace(h.Title)
	if o.Title == "" {
		verrs.Add("header.title", "제목을 입력하세요.")
	}

	o.VendorID, o.VendorName = h.VendorID, ""
	if h.VendorID != "" {
		v, err := uc.Vendors.GetByID(ctx, o.CompanyID, h.VendorID)
		if err != nil {
			return err
		}
		if v == nil {
			verrs.Add("header.vendorId", "거래처를 찾을 수 없습니다.")
		} else {
			o.VendorName = v.Name
		}
	} else if status != entity.OrderStatusDraft {
		verrs.Add("header.vendorId", "거래처를 선택하세요.")
	}

	o.ProjectID, o.ProjectName = h.ProjectID, ""
	if h.ProjectID != "" && uc.Projects != nil {
		p, err := uc.Projects.GetByID(ctx, o.CompanyID, h.ProjectID)
		if err != nil {
			return err
		}
		if p == nil {
			verrs.Add("header.projectId", "현장을 찾을 수 없습니다.")
		} else {
			o.ProjectName = p.Name
		}
	}

	if h.OrderDate == "" {
		if o.OrderDate.IsZero() {
			y, m, d := uc.now().Date()
			o.OrderDate = time.Date(y, m, d, 0, 0, 0, 0, time.Local)
		}
	} else if d, err := orderform.ParseDate(h.OrderDate); err != nil || d == nil {
		verrs.Add("header.orderDate", "발주일 형식이 올바르지 않습니다.")
	} else {
		o.OrderDate = *d
	}
	d, err := orderform.ParseDate(h.DeliveryDate)
	if err != nil {
		verrs.Add("header.deliveryDate", "납기일 형식이 올바르지 않습니다.")
	}
	o.DeliveryDate = d
	if d != nil && !o.OrderDate.IsZero() && d.Before(o.OrderDate) {
		verrs.Add("header.deliveryDate", "납기일은 발주일 이후여야 합니다.")
	}
	o.DeliveryPlace = strings.TrimSpace(h.DeliveryPlace)
	o.Notes = h.Notes
	if len(h.CustomFields) > 0 {
		o.CustomFields = h.CustomFields
	}

	o.Items = o.Items[:0]
	for i, in := range items {
		line := entity.OrderItem{
			ID:            uuid.New().String(),
			OrderID:       o.ID,
			LineNo:        i + 1,
			ItemID:        in.ItemID,
			ItemName:      strings.TrimSpace(in.ItemName),
			Specification: in.Specification,
			Unit:          in.Unit,
			Quantity:      in.Quantity,
			UnitPrice:     in.UnitPrice,
			Notes:         in.Notes,
		}
		dd, err := orderform.ParseDate(in.DeliveryDate)
		if err != nil {
			verrs.Add(fmt.Sprintf("items[%d].deliveryDate", i), "납기일 형식이 올바르지 않습니다.")
		}
		line.DeliveryDate = dd
		o.Items = append(o.Items, line)
	}
	if err := verrs.Err(); err != nil {
		return err
	}
	o.RecalculateTotals()

	o.OrderStatus = status
	o.ApprovalStatus = entity.ApprovalNotRequired
	switch {
	case prevApproval == entity.ApprovalApproved && prevStatus == status && prevTotal.Equal(o.TotalAmount):
		// una edición que no cambia el monto conserva la aprobación
		o.ApprovalStatus = prevApproval
	case status == entity.OrderStatusCreated && uc.Approval != nil:
		required, err := uc.Approval.RequiresApproval(ctx, o.CompanyID, o.TotalAmount)
		if err != nil {
			return err
		}
		if required {
			o.ApprovalStatus = entity.ApprovalPending
		}
	}
	o.Status = legacyStatus(o.OrderStatus, o.ApprovalStatus)
	return nil
}
