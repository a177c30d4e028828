package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/application/query"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
)

// ItemUseCase catálogo de ítems y su jerarquía de categorías.
type ItemUseCase struct {
	items      repository.ItemRepository
	categories repository.CategoryRepository
	recorder   *audit.Recorder
	cache      *query.Client
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(items repository.ItemRepository, categories repository.CategoryRepository, recorder *audit.Recorder, cache *query.Client) *ItemUseCase {
	return &ItemUseCase{items: items, categories: categories, recorder: recorder, cache: cache}
}

// List ítems filtrados por categoría (cualquier nivel) y texto.
func (uc *ItemUseCase) List(ctx context.Context, companyID string, in dto.ItemListRequest) ([]dto.ItemResponse, error) {
	f := repository.ItemFilter{
		CompanyID:  companyID,
		CategoryID: in.CategoryID,
		ActiveOnly: in.ActiveOnly,
		Search:     strings.TrimSpace(in.Search),
	}
	key := query.Key(query.ResourceItems, companyID, map[string]string{
		"category": f.CategoryID, "search": f.Search, "active": strconv.FormatBool(f.ActiveOnly),
	})
	return query.Fetch(ctx, uc.cache, key, func(ctx context.Context) ([]dto.ItemResponse, error) {
		list, err := uc.items.List(ctx, f)
		if err != nil {
			return nil, err
		}
		out := make([]dto.ItemResponse, 0, len(list))
		for _, it := range list {
			out = append(out, toItemResponse(it))
		}
		return out, nil
	})
}

// GetByID obtiene un ítem.
func (uc *ItemUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ItemResponse, error) {
	it, err := uc.items.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, domain.ErrNotFound
	}
	r := toItemResponse(it)
	return &r, nil
}

// Create da de alta un ítem; la ruta de categorías se resuelve a partir de CategoryID.
func (uc *ItemUseCase) Create(ctx context.Context, actor audit.Actor, in dto.ItemRequest) (*dto.ItemResponse, error) {
	now := time.Now()
	it := &entity.Item{ID: uuid.New().String(), CompanyID: actor.CompanyID, IsActive: true, CreatedAt: now}
	if err := uc.apply(ctx, it, in); err != nil {
		return nil, err
	}
	it.UpdatedAt = now
	if err := uc.items.Create(ctx, it); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, actor.CompanyID, query.ResourceItems)
	uc.recorder.Record(ctx, actor, audit.Entry{
		Action: entity.AuditCreate, EntityType: entity.AuditEntityItem, EntityID: it.ID,
		Description: "품목 등록: " + it.Name,
	})
	r := toItemResponse(it)
	return &r, nil
}

// Update modifica un ítem.
func (uc *ItemUseCase) Update(ctx context.Context, actor audit.Actor, id string, in dto.ItemRequest) (*dto.ItemResponse, error) {
	it, err := uc.items.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.apply(ctx, it, in); err != nil {
		return nil, err
	}
	it.UpdatedAt = time.Now()
	if err := uc.items.Update(ctx, it); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, actor.CompanyID, query.ResourceItems)
	uc.recorder.Record(ctx, actor, audit.Entry{
		Action: entity.AuditUpdate, EntityType: entity.AuditEntityItem, EntityID: it.ID,
		Description: "품목 수정: " + it.Name,
	})
	r := toItemResponse(it)
	return &r, nil
}

// Delete elimina un ítem.
func (uc *ItemUseCase) Delete(ctx context.Context, actor audit.Actor, id string) error {
	it, err := uc.items.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if it == nil {
		return domain.ErrNotFound
	}
	if err := uc.items.Delete(ctx, actor.CompanyID, id); err != nil {
		return err
	}
	uc.cache.Invalidate(ctx, actor.CompanyID, query.ResourceItems)
	uc.recorder.Record(ctx, actor, audit.Entry{
		Action: entity.AuditDelete, EntityType: entity.AuditEntityItem, EntityID: id,
		Description: "품목 삭제: " + it.Name,
	})
	return nil
}

func (uc *ItemUseCase) apply(ctx context.Context, it *entity.Item, in dto.ItemRequest) error {
	var verrs dto.ValidationErrors
	if strings.TrimSpace(in.Name) == "" {
		verrs.Add("name", "품목명을 입력하세요.")
	}
	if in.StandardPrice.IsNegative() {
		verrs.Add("standardPrice", "단가는 0 이상이어야 합니다.")
	}
	if err := verrs.Err(); err != nil {
		return err
	}
	it.Name = strings.TrimSpace(in.Name)
	it.Specification = in.Specification
	it.Unit = in.Unit
	it.StandardPrice = in.StandardPrice
	if in.IsActive != nil {
		it.IsActive = *in.IsActive
	}
	it.CategoryID, it.CategoryName = in.CategoryID, ""
	it.MajorCategory, it.MiddleCategory, it.MinorCategory = "", "", ""
	if in.CategoryID == "" {
		return nil
	}
	// se sube por la jerarquía hasta major
	id := in.CategoryID
	for depth := 0; id != "" && depth < 3; depth++ {
		c, err := uc.categories.GetByID(ctx, it.CompanyID, id)
		if err != nil {
			return err
		}
		if c == nil {
			return dto.ValidationErrors{{Field: "categoryId", Message: "분류를 찾을 수 없습니다."}}
		}
		if depth == 0 {
			it.CategoryName = c.Name
		}
		switch c.Level {
		case entity.CategoryMajor:
			it.MajorCategory = c.Name
		case entity.CategoryMiddle:
			it.MiddleCategory = c.Name
		case entity.CategoryMinor:
			it.MinorCategory = c.Name
		}
		id = c.ParentID
	}
	return nil
}

// Categories árbol completo major → middle → minor.
func (uc *ItemUseCase) Categories(ctx context.Context, companyID string) ([]dto.CategoryNode, error) {
	key := query.Key(query.ResourceCategories, companyID, map[string]string{"view": "tree"})
	return query.Fetch(ctx, uc.cache, key, func(ctx context.Context) ([]dto.CategoryNode, error) {
		all, err := uc.categories.ListAll(ctx, companyID)
		if err != nil {
			return nil, err
		}
		return CategoryTree(all), nil
	})
}

// CategoryTree arma el árbol conservando el orden de entrada en cada nivel. Las categorías
// cuyo padre no existe se omiten.
func CategoryTree(all []*entity.Category) []dto.CategoryNode {
	children := map[string][]*entity.Category{}
	for _, c := range all {
		children[c.ParentID] = append(children[c.ParentID], c)
	}
	var build func(parentID string) []dto.CategoryNode
	build = func(parentID string) []dto.CategoryNode {
		kids := children[parentID]
		if len(kids) == 0 {
			return nil
		}
		out := make([]dto.CategoryNode, 0, len(kids))
		for _, c := range kids {
			out = append(out, dto.CategoryNode{CategoryResponse: toCategoryResponse(c), Children: build(c.ID)})
		}
		return out
	}
	roots := build("")
	if roots == nil {
		roots = []dto.CategoryNode{}
	}
	return roots
}

// CategoriesByLevel categorías de un nivel, opcionalmente de un padre (selectores encadenados).
func (uc *ItemUseCase) CategoriesByLevel(ctx context.Context, companyID, level, parentID string) ([]dto.CategoryResponse, error) {
	if level != entity.CategoryMajor && level != entity.CategoryMiddle && level != entity.CategoryMinor {
		return nil, domain.ErrInvalidInput
	}
	key := query.Key(query.ResourceCategories, companyID, map[string]string{"level": level, "parent": parentID})
	return query.Fetch(ctx, uc.cache, key, func(ctx context.Context) ([]dto.CategoryResponse, error) {
		list, err := uc.categories.ListByLevel(ctx, companyID, level, parentID)
		if err != nil {
			return nil, err
		}
		out := make([]dto.CategoryResponse, 0, len(list))
		for _, c := range list {
			out = append(out, toCategoryResponse(c))
		}
		return out, nil
	})
}

// CreateCategory da de alta una categoría; el padre debe ser del nivel inmediatamente superior.
func (uc *ItemUseCase) CreateCategory(ctx context.Context, actor audit.Actor, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	var verrs dto.ValidationErrors
	if strings.TrimSpace(in.Name) == "" {
		verrs.Add("name", "분류명을 입력하세요.")
	}
	switch in.Level {
	case entity.CategoryMajor:
		if in.ParentID != "" {
			verrs.Add("parentId", "대분류는 상위 분류를 가질 수 없습니다.")
		}
	case entity.CategoryMiddle, entity.CategoryMinor:
		if in.ParentID == "" {
			verrs.Add("parentId", "상위 분류를 선택하세요.")
		}
	default:
		verrs.Add("level", "분류 단계가 올바르지 않습니다.")
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}
	if in.ParentID != "" {
		parent, err := uc.categories.GetByID(ctx, actor.CompanyID, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.Level != entity.ParentLevel(in.Level) {
			return nil, dto.ValidationErrors{{Field: "parentId", Message: "상위 분류가 올바르지 않습니다."}}
		}
	}
	now := time.Now()
	c := &entity.Category{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		ParentID:  in.ParentID,
		Level:     in.Level,
		Name:      strings.TrimSpace(in.Name),
		SortOrder: in.SortOrder,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, actor.CompanyID, query.ResourceCategories)
	uc.recorder.Record(ctx, actor, audit.Entry{
		Action: entity.AuditCreate, EntityType: entity.AuditEntityItem, EntityID: c.ID,
		Description: "품목 분류 등록: " + c.Name,
	})
	r := toCategoryResponse(c)
	return &r, nil
}

func toItemResponse(it *entity.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:             it.ID,
		Name:           it.Name,
		CategoryID:     it.CategoryID,
		CategoryName:   it.CategoryName,
		MajorCategory:  it.MajorCategory,
		MiddleCategory: it.MiddleCategory,
		MinorCategory:  it.MinorCategory,
		CategoryPath:   it.CategoryPath(),
		Specification:  it.Specification,
		Unit:           it.Unit,
		StandardPrice:  it.StandardPrice,
		IsActive:       it.IsActive,
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Level:     c.Level,
		Name:      c.Name,
		SortOrder: c.SortOrder,
	}
}
