// Package testutil implementaciones en memoria de los puertos de repositorio para tests
// de la capa de aplicación. Err, si se fija, se devuelve en todas las operaciones.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
)

// ── Orders ───────────────────────────────────────────────────────────────────

// OrderRepo órdenes en memoria.
type OrderRepo struct {
	mu     sync.Mutex
	Orders map[string]*entity.Order
	Err    error
}

var _ repository.OrderRepository = (*OrderRepo)(nil)

// NewOrderRepo crea el repo con las órdenes dadas.
func NewOrderRepo(orders ...*entity.Order) *OrderRepo {
	r := &OrderRepo{Orders: map[string]*entity.Order{}}
	for _, o := range orders {
		r.Orders[o.ID] = o
	}
	return r
}

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, e := range r.Orders {
		if e.CompanyID == o.CompanyID && e.OrderNumber == o.OrderNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *o
	r.Orders[o.ID] = &cp
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, companyID, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	o, ok := r.Orders[id]
	if !ok || o.CompanyID != companyID {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *OrderRepo) Update(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	e, ok := r.Orders[o.ID]
	if !ok || e.CompanyID != o.CompanyID {
		return domain.ErrNotFound
	}
	cp := *o
	r.Orders[o.ID] = &cp
	return nil
}

func (r *OrderRepo) Delete(_ context.Context, companyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	o, ok := r.Orders[id]
	if !ok || o.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.Orders, id)
	return nil
}

func (r *OrderRepo) DeleteDrafts(_ context.Context, companyID string, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for _, id := range ids {
		if o, ok := r.Orders[id]; ok && o.CompanyID == companyID && o.IsDraft() {
			delete(r.Orders, id)
			n++
		}
	}
	return n, nil
}

func (r *OrderRepo) ListByIDs(_ context.Context, companyID string, ids []string) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.Order
	for _, id := range ids {
		if o, ok := r.Orders[id]; ok && o.CompanyID == companyID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}
	var all []*entity.Order
	for _, o := range r.Orders {
		if o.CompanyID != f.CompanyID {
			continue
		}
		if f.Status != "" && o.EffectiveOrderStatus() != f.Status {
			continue
		}
		if f.ApprovalStatus != "" && o.ApprovalStatus != f.ApprovalStatus {
			continue
		}
		if f.VendorID != "" && o.VendorID != f.VendorID {
			continue
		}
		if f.ProjectID != "" && o.ProjectID != f.ProjectID {
			continue
		}
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.From != nil && o.OrderDate.Before(*f.From) {
			continue
		}
		if f.To != nil && o.OrderDate.After(*f.To) {
			continue
		}
		if f.Search != "" && !containsFold(f.Search, o.OrderNumber, o.Title, o.VendorName) {
			continue
		}
		cp := *o
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, f.Limit, f.Offset), len(all), nil
}

func (r *OrderRepo) CountByNumberPrefix(_ context.Context, companyID, prefix string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	n := 0
	for _, o := range r.Orders {
		if o.CompanyID == companyID && strings.HasPrefix(o.OrderNumber, prefix) {
			n++
		}
	}
	return n, nil
}

func (r *OrderRepo) RecordEmailSent(_ context.Context, orderID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if o, ok := r.Orders[orderID]; ok {
		o.EmailSentAt = &at
		o.EmailSendCount++
		if o.EffectiveOrderStatus() == entity.OrderStatusCreated {
			o.OrderStatus = entity.OrderStatusSent
		}
	}
	return nil
}

func (r *OrderRepo) RecordEmailOpened(_ context.Context, orderID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if o, ok := r.Orders[orderID]; ok && o.EmailOpenedAt == nil {
		o.EmailOpenedAt = &at
	}
	return nil
}

// TxRunner ejecuta el callback con los repos en memoria (sin rollback real).
type TxRunner struct {
	Orders *OrderRepo
	Audit  *AuditRepo
	Calls  int
}

// Run invoca fn con los repos configurados.
func (t *TxRunner) Run(_ context.Context, fn func(repository.OrderRepository, repository.AuditRepository) error) error {
	t.Calls++
	return fn(t.Orders, t.Audit)
}

// ── Vendors ──────────────────────────────────────────────────────────────────

// VendorRepo proveedores en memoria.
type VendorRepo struct {
	mu      sync.Mutex
	Vendors map[string]*entity.Vendor
	Err     error
}

var _ repository.VendorRepository = (*VendorRepo)(nil)

func NewVendorRepo(vendors ...*entity.Vendor) *VendorRepo {
	r := &VendorRepo{Vendors: map[string]*entity.Vendor{}}
	for _, v := range vendors {
		r.Vendors[v.ID] = v
	}
	return r
}

func (r *VendorRepo) Create(_ context.Context, v *entity.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cp := *v
	r.Vendors[v.ID] = &cp
	return nil
}

func (r *VendorRepo) GetByID(_ context.Context, companyID, id string) (*entity.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	v, ok := r.Vendors[id]
	if !ok || v.CompanyID != companyID {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *VendorRepo) Update(_ context.Context, v *entity.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if e, ok := r.Vendors[v.ID]; !ok || e.CompanyID != v.CompanyID {
		return domain.ErrNotFound
	}
	cp := *v
	r.Vendors[v.ID] = &cp
	return nil
}

func (r *VendorRepo) Delete(_ context.Context, companyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if e, ok := r.Vendors[id]; !ok || e.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.Vendors, id)
	return nil
}

func (r *VendorRepo) List(_ context.Context, f repository.VendorFilter) ([]*entity.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.Vendor
	for _, v := range r.Vendors {
		if v.CompanyID != f.CompanyID {
			continue
		}
		if f.VendorType != "" && v.VendorType != f.VendorType {
			continue
		}
		if f.ActiveOnly && !v.IsActive {
			continue
		}
		if f.Search != "" && !containsFold(f.Search, v.Name, v.BusinessNumber, v.ContactPerson) {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *VendorRepo) FindByBusinessNumber(_ context.Context, companyID, number string) (*entity.Vendor, error) {
	return r.find(companyID, func(v *entity.Vendor) bool { return v.BusinessNumber == number })
}

func (r *VendorRepo) FindByName(_ context.Context, companyID, name string) (*entity.Vendor, error) {
	return r.find(companyID, func(v *entity.Vendor) bool { return strings.EqualFold(v.Name, name) })
}

func (r *VendorRepo) find(companyID string, match func(*entity.Vendor) bool) (*entity.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, v := range r.Vendors {
		if v.CompanyID == companyID && match(v) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

// ── Items & categories ───────────────────────────────────────────────────────

// ItemRepo ítems en memoria.
type ItemRepo struct {
	mu    sync.Mutex
	Items map[string]*entity.Item
	Err   error
}

var _ repository.ItemRepository = (*ItemRepo)(nil)

func NewItemRepo(items ...*entity.Item) *ItemRepo {
	r := &ItemRepo{Items: map[string]*entity.Item{}}
	for _, it := range items {
		r.Items[it.ID] = it
	}
	return r
}

func (r *ItemRepo) Create(_ context.Context, it *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cp := *it
	r.Items[it.ID] = &cp
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, companyID, id string) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	it, ok := r.Items[id]
	if !ok || it.CompanyID != companyID {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *ItemRepo) Update(_ context.Context, it *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if e, ok := r.Items[it.ID]; !ok || e.CompanyID != it.CompanyID {
		return domain.ErrNotFound
	}
	cp := *it
	r.Items[it.ID] = &cp
	return nil
}

func (r *ItemRepo) Delete(_ context.Context, companyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if e, ok := r.Items[id]; !ok || e.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.Items, id)
	return nil
}

func (r *ItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.Item
	for _, it := range r.Items {
		if it.CompanyID != f.CompanyID {
			continue
		}
		if f.CategoryID != "" && it.CategoryID != f.CategoryID {
			continue
		}
		if f.ActiveOnly && !it.IsActive {
			continue
		}
		if f.Search != "" && !containsFold(f.Search, it.Name, it.Specification) {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CategoryRepo categorías en memoria.
type CategoryRepo struct {
	mu         sync.Mutex
	Categories map[string]*entity.Category
	Err        error
}

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func NewCategoryRepo(cats ...*entity.Category) *CategoryRepo {
	r := &CategoryRepo{Categories: map[string]*entity.Category{}}
	for _, c := range cats {
		r.Categories[c.ID] = c
	}
	return r
}

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, e := range r.Categories {
		if e.CompanyID == c.CompanyID && e.ParentID == c.ParentID && e.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.Categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, companyID, id string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.Categories[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CategoryRepo) ListByLevel(_ context.Context, companyID, level, parentID string) ([]*entity.Category, error) {
	all, err := r.ListAll(context.Background(), companyID)
	if err != nil {
		return nil, err
	}
	var out []*entity.Category
	for _, c := range all {
		if c.Level == level && (parentID == "" || c.ParentID == parentID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CategoryRepo) ListAll(_ context.Context, companyID string) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.Category
	for _, c := range r.Categories {
		if c.CompanyID == companyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// ── Approval ─────────────────────────────────────────────────────────────────

// ApprovalRepo configuración y pasos de aprobación en memoria.
type ApprovalRepo struct {
	mu       sync.Mutex
	Settings map[string]*entity.ApprovalWorkflowSettings
	Steps    map[string]*entity.ApprovalStepTemplate
	Err      error
}

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)

func NewApprovalRepo(steps ...*entity.ApprovalStepTemplate) *ApprovalRepo {
	r := &ApprovalRepo{
		Settings: map[string]*entity.ApprovalWorkflowSettings{},
		Steps:    map[string]*entity.ApprovalStepTemplate{},
	}
	for _, s := range steps {
		r.Steps[s.ID] = s
	}
	return r
}

func (r *ApprovalRepo) GetSettings(_ context.Context, companyID string) (*entity.ApprovalWorkflowSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	s, ok := r.Settings[companyID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *ApprovalRepo) UpsertSettings(_ context.Context, s *entity.ApprovalWorkflowSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if e, ok := r.Settings[s.CompanyID]; ok {
		s.ID, s.CreatedAt = e.ID, e.CreatedAt
	}
	cp := *s
	r.Settings[s.CompanyID] = &cp
	return nil
}

func (r *ApprovalRepo) ListStepTemplates(_ context.Context, companyID string) ([]*entity.ApprovalStepTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.ApprovalStepTemplate
	for _, s := range r.Steps {
		if s.CompanyID == companyID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TemplateName != out[j].TemplateName {
			return out[i].TemplateName < out[j].TemplateName
		}
		return out[i].StepOrder < out[j].StepOrder
	})
	return out, nil
}

func (r *ApprovalRepo) GetStepTemplate(_ context.Context, companyID, id string) (*entity.ApprovalStepTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	s, ok := r.Steps[id]
	if !ok || s.CompanyID != companyID {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *ApprovalRepo) CreateStepTemplate(_ context.Context, s *entity.ApprovalStepTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, e := range r.Steps {
		if e.CompanyID == s.CompanyID && e.TemplateName == s.TemplateName && e.StepOrder == s.StepOrder {
			return domain.ErrDuplicate
		}
	}
	cp := *s
	r.Steps[s.ID] = &cp
	return nil
}

func (r *ApprovalRepo) UpdateStepTemplate(_ context.Context, s *entity.ApprovalStepTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if e, ok := r.Steps[s.ID]; !ok || e.CompanyID != s.CompanyID {
		return domain.ErrNotFound
	}
	cp := *s
	r.Steps[s.ID] = &cp
	return nil
}

func (r *ApprovalRepo) DeleteStepTemplate(_ context.Context, companyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if e, ok := r.Steps[id]; !ok || e.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.Steps, id)
	return nil
}

// ── Templates ────────────────────────────────────────────────────────────────

// TemplateRepo plantillas de orden en memoria.
type TemplateRepo struct {
	mu        sync.Mutex
	Templates map[string]*entity.OrderTemplate
	InUse     map[string]bool // plantillas referenciadas por órdenes
	Err       error
}

var _ repository.TemplateRepository = (*TemplateRepo)(nil)

func NewTemplateRepo(tpls ...*entity.OrderTemplate) *TemplateRepo {
	r := &TemplateRepo{Templates: map[string]*entity.OrderTemplate{}, InUse: map[string]bool{}}
	for _, t := range tpls {
		r.Templates[t.ID] = t
	}
	return r
}

func (r *TemplateRepo) Create(_ context.Context, t *entity.OrderTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, e := range r.Templates {
		if e.CompanyID == t.CompanyID && e.TemplateName == t.TemplateName {
			return domain.ErrDuplicate
		}
	}
	cp := *t
	r.Templates[t.ID] = &cp
	return nil
}

func (r *TemplateRepo) GetByID(_ context.Context, companyID, id string) (*entity.OrderTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	t, ok := r.Templates[id]
	if !ok || t.CompanyID != companyID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *TemplateRepo) Update(_ context.Context, t *entity.OrderTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if e, ok := r.Templates[t.ID]; !ok || e.CompanyID != t.CompanyID {
		return domain.ErrNotFound
	}
	cp := *t
	r.Templates[t.ID] = &cp
	return nil
}

func (r *TemplateRepo) Delete(_ context.Context, companyID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if e, ok := r.Templates[id]; !ok || e.CompanyID != companyID {
		return domain.ErrNotFound
	}
	if r.InUse[id] {
		return domain.ErrConflict
	}
	delete(r.Templates, id)
	return nil
}

func (r *TemplateRepo) List(_ context.Context, f repository.TemplateFilter) ([]*entity.OrderTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.OrderTemplate
	for _, t := range r.Templates {
		if t.CompanyID != f.CompanyID {
			continue
		}
		if f.TemplateType != "" && t.TemplateType != f.TemplateType {
			continue
		}
		if f.ActiveOnly && !t.IsActive {
			continue
		}
		if f.Search != "" && !containsFold(f.Search, t.TemplateName, t.Description) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TemplateName < out[j].TemplateName })
	return out, nil
}

func (r *TemplateRepo) SetActive(_ context.Context, companyID, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	t, ok := r.Templates[id]
	if !ok || t.CompanyID != companyID {
		return domain.ErrNotFound
	}
	t.IsActive = active
	return nil
}

// ── Email history ────────────────────────────────────────────────────────────

// EmailHistoryRepo historial de envíos en memoria.
type EmailHistoryRepo struct {
	mu      sync.Mutex
	Entries map[string]*entity.EmailHistory
	Err     error
}

var _ repository.EmailHistoryRepository = (*EmailHistoryRepo)(nil)

func NewEmailHistoryRepo() *EmailHistoryRepo {
	return &EmailHistoryRepo{Entries: map[string]*entity.EmailHistory{}}
}

func (r *EmailHistoryRepo) Create(_ context.Context, h *entity.EmailHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cp := *h
	r.Entries[h.ID] = &cp
	return nil
}

func (r *EmailHistoryRepo) UpdateResult(_ context.Context, id, status, errMsg string, sentAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	h, ok := r.Entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	h.Status, h.ErrorMessage, h.SentAt = status, errMsg, sentAt
	return nil
}

func (r *EmailHistoryRepo) GetByID(_ context.Context, companyID, id string) (*entity.EmailHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	h, ok := r.Entries[id]
	if !ok || h.CompanyID != companyID {
		return nil, nil
	}
	cp := *h
	return &cp, nil
}

func (r *EmailHistoryRepo) List(_ context.Context, f repository.EmailHistoryFilter) ([]*entity.EmailHistory, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}
	var all []*entity.EmailHistory
	for _, h := range r.Entries {
		if h.CompanyID != f.CompanyID {
			continue
		}
		if f.OrderID != "" && h.OrderID != f.OrderID {
			continue
		}
		if f.Status != "" && h.Status != f.Status {
			continue
		}
		cp := *h
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, f.Limit, f.Offset), len(all), nil
}

func (r *EmailHistoryRepo) MarkOpened(_ context.Context, id string, at time.Time) (*entity.EmailHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	h, ok := r.Entries[id]
	if !ok {
		return nil, nil
	}
	if h.OpenedAt == nil {
		h.OpenedAt = &at
	}
	cp := *h
	return &cp, nil
}

// ── Audit ────────────────────────────────────────────────────────────────────

// AuditRepo log de auditoría en memoria.
type AuditRepo struct {
	mu           sync.Mutex
	Logs         []*entity.AuditLog
	Archived     []*entity.AuditLog
	SettingsByCo map[string]*entity.AuditSettings
	Err          error
}

var _ repository.AuditRepository = (*AuditRepo)(nil)

func NewAuditRepo() *AuditRepo {
	return &AuditRepo{SettingsByCo: map[string]*entity.AuditSettings{}}
}

// Actions acciones registradas, en orden.
func (r *AuditRepo) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Logs))
	for _, l := range r.Logs {
		out = append(out, l.Action)
	}
	return out
}

func (r *AuditRepo) Insert(_ context.Context, l *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cp := *l
	r.Logs = append(r.Logs, &cp)
	return nil
}

func (r *AuditRepo) List(_ context.Context, f repository.AuditFilter) ([]*entity.AuditLog, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}
	var all []*entity.AuditLog
	for i := len(r.Logs) - 1; i >= 0; i-- {
		l := r.Logs[i]
		if l.CompanyID != f.CompanyID {
			continue
		}
		if f.UserID != "" && l.UserID != f.UserID {
			continue
		}
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if f.EntityType != "" && l.EntityType != f.EntityType {
			continue
		}
		if f.EntityID != "" && l.EntityID != f.EntityID {
			continue
		}
		if f.From != nil && l.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && l.CreatedAt.After(*f.To) {
			continue
		}
		all = append(all, l)
	}
	return paginate(all, f.Limit, f.Offset), len(all), nil
}

func (r *AuditRepo) GetSettings(_ context.Context, companyID string) (*entity.AuditSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	s, ok := r.SettingsByCo[companyID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *AuditRepo) SaveSettings(_ context.Context, s *entity.AuditSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cp := *s
	r.SettingsByCo[s.CompanyID] = &cp
	return nil
}

func (r *AuditRepo) ArchiveBefore(_ context.Context, companyID string, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var keep []*entity.AuditLog
	var n int64
	for _, l := range r.Logs {
		if l.CompanyID == companyID && l.CreatedAt.Before(before) {
			r.Archived = append(r.Archived, l)
			n++
			continue
		}
		keep = append(keep, l)
	}
	r.Logs = keep
	return n, nil
}

func (r *AuditRepo) CountByAction(_ context.Context, companyID string, since time.Time) ([]repository.ActionCount, error) {
	counts := map[string]int{}
	if err := r.each(companyID, since, func(l *entity.AuditLog) { counts[l.Action]++ }); err != nil {
		return nil, err
	}
	out := make([]repository.ActionCount, 0, len(counts))
	for a, c := range counts {
		out = append(out, repository.ActionCount{Action: a, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Action < out[j].Action
	})
	return out, nil
}

func (r *AuditRepo) CountByDay(_ context.Context, companyID string, since time.Time) ([]repository.DailyCount, error) {
	counts := map[time.Time]int{}
	if err := r.each(companyID, since, func(l *entity.AuditLog) {
		counts[l.CreatedAt.UTC().Truncate(24*time.Hour)]++
	}); err != nil {
		return nil, err
	}
	out := make([]repository.DailyCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, repository.DailyCount{Day: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r *AuditRepo) TopUsers(_ context.Context, companyID string, since time.Time, limit int) ([]repository.UserCount, error) {
	counts := map[string]*repository.UserCount{}
	if err := r.each(companyID, since, func(l *entity.AuditLog) {
		if l.UserID == "" {
			return
		}
		c, ok := counts[l.UserID]
		if !ok {
			c = &repository.UserCount{UserID: l.UserID, UserName: l.UserName}
			counts[l.UserID] = c
		}
		c.Count++
	}); err != nil {
		return nil, err
	}
	out := make([]repository.UserCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AuditRepo) each(companyID string, since time.Time, fn func(*entity.AuditLog)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, l := range r.Logs {
		if l.CompanyID == companyID && !l.CreatedAt.Before(since) {
			fn(l)
		}
	}
	return nil
}

// ── Drafts ───────────────────────────────────────────────────────────────────

// DraftRepo borradores en memoria.
type DraftRepo struct {
	mu     sync.Mutex
	Drafts map[string]*entity.Draft
	Err    error
}

var _ repository.DraftRepository = (*DraftRepo)(nil)

func NewDraftRepo() *DraftRepo {
	return &DraftRepo{Drafts: map[string]*entity.Draft{}}
}

func (r *DraftRepo) Get(_ context.Context, userID, key string) (*entity.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	d, ok := r.Drafts[userID+"/"+key]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *DraftRepo) Save(_ context.Context, d *entity.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cp := *d
	r.Drafts[d.UserID+"/"+d.Key] = &cp
	return nil
}

func (r *DraftRepo) Delete(_ context.Context, userID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	delete(r.Drafts, userID+"/"+key)
	return nil
}

// ── Users, companies, projects ───────────────────────────────────────────────

// UserRepo usuarios en memoria.
type UserRepo struct {
	mu    sync.Mutex
	Users map[string]*entity.User
	Err   error
}

var _ repository.UserRepository = (*UserRepo)(nil)

func NewUserRepo(users ...*entity.User) *UserRepo {
	r := &UserRepo{Users: map[string]*entity.User{}}
	for _, u := range users {
		r.Users[u.ID] = u
	}
	return r
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, e := range r.Users {
		if strings.EqualFold(e.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	r.Users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.Users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.Users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.User
	for _, u := range r.Users {
		if u.CompanyID == companyID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CompanyRepo empresas en memoria.
type CompanyRepo struct {
	mu        sync.Mutex
	Companies map[string]*entity.Company
	Err       error
}

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

func NewCompanyRepo(companies ...*entity.Company) *CompanyRepo {
	r := &CompanyRepo{Companies: map[string]*entity.Company{}}
	for _, c := range companies {
		r.Companies[c.ID] = c
	}
	return r
}

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, e := range r.Companies {
		if c.BusinessNumber != "" && e.BusinessNumber == c.BusinessNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.Companies[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.Companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.Company
	for _, c := range r.Companies {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

// ProjectRepo proyectos en memoria.
type ProjectRepo struct {
	mu       sync.Mutex
	Projects map[string]*entity.Project
	Err      error
}

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

func NewProjectRepo(projects ...*entity.Project) *ProjectRepo {
	r := &ProjectRepo{Projects: map[string]*entity.Project{}}
	for _, p := range projects {
		r.Projects[p.ID] = p
	}
	return r
}

func (r *ProjectRepo) GetByID(_ context.Context, companyID, id string) (*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	p, ok := r.Projects[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProjectRepo) ListByCompany(_ context.Context, companyID string, activeOnly bool) ([]*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.Project
	for _, p := range r.Projects {
		if p.CompanyID != companyID || (activeOnly && p.Status != "active") {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func containsFold(needle string, fields ...string) bool {
	n := strings.ToLower(needle)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), n) {
			return true
		}
	}
	return false
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
