package listing

import (
	"context"
	"strconv"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/pkg/format"
	"github.com/jhoicas/po-console/pkg/table"
)

// TemplateSource plantillas filtradas.
type TemplateSource interface {
	List(ctx context.Context, companyID string, in dto.TemplateListRequest) ([]dto.TemplateResponse, error)
}

// TemplatesList listado de plantillas (administración).
type TemplatesList struct {
	source TemplateSource
	table  *table.Table[dto.TemplateResponse]
}

// NewTemplatesList construye el listado.
func NewTemplatesList(source TemplateSource) *TemplatesList {
	type tpl = dto.TemplateResponse
	cols := []table.Column[tpl]{
		{
			Key: "templateName", Header: "양식명", Sortable: true, Searchable: true,
			Renderer: table.RenderFunc[tpl](func(_ *table.RenderContext, t tpl) table.Value { return table.Text(t.TemplateName) }),
		},
		{
			Key: "templateType", Header: "유형", Sortable: true, Searchable: true, Align: table.AlignCenter,
			Renderer: table.RenderFunc[tpl](func(_ *table.RenderContext, t tpl) table.Value {
				return label(format.TemplateTypeLabels.Lookup(t.TemplateType))
			}),
		},
		{
			Key: "description", Header: "설명", Searchable: true,
			Renderer: table.RenderFunc[tpl](func(_ *table.RenderContext, t tpl) table.Value { return textOrNull(t.Description) }),
		},
		{
			Key: "fields", Header: "필드 수", Sortable: true, Align: table.AlignRight, Width: "90px",
			Renderer: table.RenderFunc[tpl](func(_ *table.RenderContext, t tpl) table.Value { return table.Int(int64(len(t.Fields))) }),
		},
		{
			Key: "isActive", Header: "상태", Sortable: true, Align: table.AlignCenter,
			Renderer: table.RenderFunc[tpl](func(_ *table.RenderContext, t tpl) table.Value {
				l := format.ActiveLabels.Lookup(strconv.FormatBool(t.IsActive))
				return table.Bool(t.IsActive, l.Text).WithTone(string(l.Tone))
			}),
		},
		{
			Key: "updatedAt", Header: "수정일", Sortable: true,
			Renderer: table.RenderFunc[tpl](func(_ *table.RenderContext, t tpl) table.Value {
				return table.Time(t.UpdatedAt, format.DateTime(t.UpdatedAt))
			}),
		},
	}
	tbl := table.New(cols, table.Config{Searchable: true, Paginated: true, EmptyMessage: "등록된 양식이 없습니다."})
	return &TemplatesList{source: source, table: tbl}
}

// View vista de tabla de plantillas.
func (l *TemplatesList) View(ctx context.Context, companyID string, filter dto.TemplateListRequest, req dto.TableViewRequest) (*dto.TableView, error) {
	var rows []dto.TemplateResponse
	if !req.Skeleton {
		var err error
		if rows, err = l.source.List(ctx, companyID, filter); err != nil {
			return nil, err
		}
	}
	return build(l.table, rows, req, rowSpec[dto.TemplateResponse]{
		id: func(t dto.TemplateResponse) string { return t.ID },
		actions: func(t dto.TemplateResponse) []dto.TableAction {
			toggle := dto.TableAction{Kind: "toggle", Label: "활성화", Href: "/api/order-templates/" + t.ID + "/toggle-status", Method: "PATCH"}
			if t.IsActive {
				toggle.Label = "비활성화"
			}
			return []dto.TableAction{
				editAction("/admin/templates/" + t.ID + "/edit"),
				toggle,
				deleteAction("/api/admin/templates/"+t.ID, false),
			}
		},
	}), nil
}
