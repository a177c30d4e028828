package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/testutil"
)

var actor = audit.Actor{UserID: "u1", UserName: "관리자", CompanyID: "c1", Role: entity.RoleAdmin}

// ── Vendors ──────────────────────────────────────────────────────────────────

func newVendorUseCase() (*VendorUseCase, *testutil.VendorRepo, *testutil.AuditRepo) {
	repo := testutil.NewVendorRepo(&entity.Vendor{
		ID: "v1", CompanyID: "c1", Name: "대한건재", BusinessNumber: "220-81-62517",
		VendorType: entity.VendorTypeSupplier, IsActive: true,
	})
	auditRepo := testutil.NewAuditRepo()
	return NewVendorUseCase(repo, audit.NewRecorder(auditRepo, nil), nil), repo, auditRepo
}

func TestVendorValidate_DetectaDuplicados(t *testing.T) {
	uc, _, _ := newVendorUseCase()
	ctx := context.Background()

	res, err := uc.Validate(ctx, "c1", dto.VendorValidateRequest{Name: "대한건재", BusinessNumber: "2208162517"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.DuplicateName)
	assert.True(t, res.DuplicateNumber)
	assert.Equal(t, "220-81-62517", res.NormalizedNumber)

	res, err = uc.Validate(ctx, "c1", dto.VendorValidateRequest{Name: "대한건재", BusinessNumber: "220-81-62517", ExcludeID: "v1"})
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestVendorValidate_NumeroInvalido(t *testing.T) {
	uc, _, _ := newVendorUseCase()

	res, err := uc.Validate(context.Background(), "c1", dto.VendorValidateRequest{Name: "신규상사", BusinessNumber: "123-45-67890"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "businessNumber", res.Errors[0].Field)
}

func TestVendorCreate(t *testing.T) {
	uc, repo, auditRepo := newVendorUseCase()
	ctx := context.Background()

	v, err := uc.Create(ctx, actor, dto.VendorRequest{Name: "한강자재", BusinessNumber: "1248100998"})
	require.NoError(t, err)
	assert.Equal(t, "124-81-00998", v.BusinessNumber)
	assert.Equal(t, entity.VendorTypeSupplier, v.VendorType)
	assert.True(t, v.IsActive)
	assert.Len(t, repo.Vendors, 2)
	assert.Equal(t, []string{entity.AuditCreate}, auditRepo.Actions())

	_, err = uc.Create(ctx, actor, dto.VendorRequest{Name: "대한건재"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, actor, dto.VendorRequest{Name: " ", VendorType: "기타"})
	var verrs dto.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestVendorUpdate_ConservaSuPropioNombre(t *testing.T) {
	uc, _, _ := newVendorUseCase()
	inactive := false

	v, err := uc.Update(context.Background(), actor, "v1", dto.VendorRequest{
		Name: "대한건재", BusinessNumber: "220-81-62517", VendorType: entity.VendorTypeDelivery, IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.VendorTypeDelivery, v.VendorType)
	assert.False(t, v.IsActive)

	_, err = uc.Update(context.Background(), actor, "nope", dto.VendorRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Items ────────────────────────────────────────────────────────────────────

func categories() *testutil.CategoryRepo {
	return testutil.NewCategoryRepo(
		&entity.Category{ID: "m1", CompanyID: "c1", Level: entity.CategoryMajor, Name: "철강", SortOrder: 1},
		&entity.Category{ID: "d1", CompanyID: "c1", ParentID: "m1", Level: entity.CategoryMiddle, Name: "철근"},
		&entity.Category{ID: "n1", CompanyID: "c1", ParentID: "d1", Level: entity.CategoryMinor, Name: "이형철근"},
		&entity.Category{ID: "m2", CompanyID: "c1", Level: entity.CategoryMajor, Name: "목재", SortOrder: 2},
	)
}

func TestItemCreate_ResuelveRutaDeCategorias(t *testing.T) {
	uc := NewItemUseCase(testutil.NewItemRepo(), categories(), nil, nil)

	it, err := uc.Create(context.Background(), actor, dto.ItemRequest{
		Name: "철근 D13", CategoryID: "n1", Unit: "톤", StandardPrice: decimal.NewFromInt(950000),
	})
	require.NoError(t, err)
	assert.Equal(t, "철강 > 철근 > 이형철근", it.CategoryPath)
	assert.Equal(t, "이형철근", it.CategoryName)

	_, err = uc.Create(context.Background(), actor, dto.ItemRequest{Name: "x", CategoryID: "zz"})
	var verrs dto.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "categoryId", verrs[0].Field)
}

func TestItemCreate_PrecioNegativo(t *testing.T) {
	uc := NewItemUseCase(testutil.NewItemRepo(), categories(), nil, nil)

	_, err := uc.Create(context.Background(), actor, dto.ItemRequest{Name: "합판", StandardPrice: decimal.NewFromInt(-1)})
	var verrs dto.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "standardPrice", verrs[0].Field)
}

func TestCategories_Arbol(t *testing.T) {
	uc := NewItemUseCase(testutil.NewItemRepo(), categories(), nil, nil)

	tree, err := uc.Categories(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "철강", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "이형철근", tree[0].Children[0].Children[0].Name)
	assert.Empty(t, tree[1].Children)
}

func TestCategoriesByLevel(t *testing.T) {
	uc := NewItemUseCase(testutil.NewItemRepo(), categories(), nil, nil)
	ctx := context.Background()

	majors, err := uc.CategoriesByLevel(ctx, "c1", entity.CategoryMajor, "")
	require.NoError(t, err)
	assert.Len(t, majors, 2)

	middles, err := uc.CategoriesByLevel(ctx, "c1", entity.CategoryMiddle, "m2")
	require.NoError(t, err)
	assert.Empty(t, middles)

	_, err = uc.CategoriesByLevel(ctx, "c1", "huge", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateCategory_NivelDelPadre(t *testing.T) {
	uc := NewItemUseCase(testutil.NewItemRepo(), categories(), nil, nil)
	ctx := context.Background()

	c, err := uc.CreateCategory(ctx, actor, dto.CategoryRequest{Level: entity.CategoryMiddle, ParentID: "m2", Name: "합판"})
	require.NoError(t, err)
	assert.Equal(t, "m2", c.ParentID)

	var verrs dto.ValidationErrors
	_, err = uc.CreateCategory(ctx, actor, dto.CategoryRequest{Level: entity.CategoryMinor, ParentID: "m1", Name: "x"})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "parentId", verrs[0].Field)

	_, err = uc.CreateCategory(ctx, actor, dto.CategoryRequest{Level: entity.CategoryMajor, ParentID: "m1", Name: "x"})
	require.ErrorAs(t, err, &verrs)

	_, err = uc.CreateCategory(ctx, actor, dto.CategoryRequest{Level: entity.CategoryMajor, Name: "철강"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ── Templates ────────────────────────────────────────────────────────────────

func fieldsJSON(t *testing.T, fields ...entity.TemplateField) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	return raw
}

func TestTemplateCreate_NormalizaCampos(t *testing.T) {
	uc := NewTemplateUseCase(testutil.NewTemplateRepo(), nil, nil)

	tpl, err := uc.Create(context.Background(), actor, dto.TemplateRequest{
		TemplateName: "현장 발주서",
		TemplateType: entity.TemplateTypeGeneral,
		FieldsConfig: fieldsJSON(t,
			entity.TemplateField{Key: "site", Label: "현장", Type: entity.FieldText, Order: 2},
			entity.TemplateField{Key: "title", Label: "제목", Type: entity.FieldText, Required: true, Order: 1},
		),
	})
	require.NoError(t, err)
	require.Len(t, tpl.Fields, 2)
	assert.Equal(t, "title", tpl.Fields[0].Key)
	assert.Equal(t, entity.SectionHeader, tpl.Fields[1].Section)
	assert.True(t, tpl.IsActive)
	assert.Equal(t, "u1", tpl.CreatedBy)
}

func TestTemplateCreate_ConfiguracionInvalida(t *testing.T) {
	uc := NewTemplateUseCase(testutil.NewTemplateRepo(), nil, nil)

	_, err := uc.Create(context.Background(), actor, dto.TemplateRequest{
		TemplateName: "x",
		TemplateType: "excel",
		FieldsConfig: json.RawMessage(`{"no":"lista"}`),
	})
	var verrs dto.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := []string{verrs[0].Field, verrs[1].Field}
	assert.ElementsMatch(t, []string{"templateType", "fieldsConfig"}, fields)
}

func TestTemplateToggleYDelete(t *testing.T) {
	repo := testutil.NewTemplateRepo(&entity.OrderTemplate{
		ID: "t1", CompanyID: "c1", TemplateName: "기본", TemplateType: entity.TemplateTypeSheet, IsActive: true,
	})
	auditRepo := testutil.NewAuditRepo()
	uc := NewTemplateUseCase(repo, audit.NewRecorder(auditRepo, nil), nil)
	ctx := context.Background()

	tpl, err := uc.ToggleStatus(ctx, actor, "t1")
	require.NoError(t, err)
	assert.False(t, tpl.IsActive)
	assert.Empty(t, tpl.Fields)

	repo.InUse["t1"] = true
	assert.ErrorIs(t, uc.Delete(ctx, actor, "t1"), domain.ErrConflict)

	repo.InUse["t1"] = false
	require.NoError(t, uc.Delete(ctx, actor, "t1"))
	assert.ErrorIs(t, uc.Delete(ctx, actor, "t1"), domain.ErrNotFound)
	assert.Equal(t, []string{entity.AuditUpdate, entity.AuditDelete}, auditRepo.Actions())
}

// ── Companies ────────────────────────────────────────────────────────────────

func TestCompanyCreateYProyectos(t *testing.T) {
	uc := NewCompanyUseCase(testutil.NewCompanyRepo(), testutil.NewProjectRepo(
		&entity.Project{ID: "p1", CompanyID: "c1", Name: "판교 현장", Status: "active"},
		&entity.Project{ID: "p2", CompanyID: "c1", Name: "송도 현장", Status: "completed"},
	))
	ctx := context.Background()

	c, err := uc.Create(ctx, dto.CreateCompanyRequest{Name: "한빛건설", BusinessNumber: "1208147521"})
	require.NoError(t, err)
	assert.Equal(t, "120-81-47521", c.BusinessNumber)

	_, err = uc.Create(ctx, dto.CreateCompanyRequest{Name: "x", BusinessNumber: "123-45-67890"})
	var verrs dto.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	projects, err := uc.Projects(ctx, "c1", true)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "p1", projects[0].ID)
}
