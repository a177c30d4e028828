package listing

import (
	"context"
	"strconv"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/pkg/format"
	"github.com/jhoicas/po-console/pkg/table"
)

// VendorSource proveedores filtrados.
type VendorSource interface {
	List(ctx context.Context, companyID string, in dto.VendorListRequest) ([]dto.VendorResponse, error)
}

// VendorsList listado de proveedores.
type VendorsList struct {
	source VendorSource
	table  *table.Table[dto.VendorResponse]
}

func vendorText(get func(v dto.VendorResponse) string) table.CellRenderer[dto.VendorResponse] {
	return table.RenderFunc[dto.VendorResponse](func(_ *table.RenderContext, v dto.VendorResponse) table.Value {
		return textOrNull(get(v))
	})
}

// NewVendorsList construye el listado.
func NewVendorsList(source VendorSource) *VendorsList {
	cols := []table.Column[dto.VendorResponse]{
		{Key: "name", Header: "거래처명", Sortable: true, Searchable: true, Renderer: vendorText(func(v dto.VendorResponse) string { return v.Name })},
		{Key: "businessNumber", Header: "사업자등록번호", Sortable: true, Searchable: true, Width: "140px", Renderer: vendorText(func(v dto.VendorResponse) string { return v.BusinessNumber })},
		{
			Key: "vendorType", Header: "구분", Sortable: true, Searchable: true, Align: table.AlignCenter,
			Renderer: table.RenderFunc[dto.VendorResponse](func(_ *table.RenderContext, v dto.VendorResponse) table.Value {
				return table.Text(v.VendorType).WithTone(string(format.ToneBlue))
			}),
		},
		{Key: "industry", Header: "업종", Sortable: true, Searchable: true, Renderer: vendorText(func(v dto.VendorResponse) string { return v.Industry })},
		{Key: "contactPerson", Header: "담당자", Sortable: true, Searchable: true, Renderer: vendorText(func(v dto.VendorResponse) string { return v.ContactPerson })},
		{Key: "phone", Header: "연락처", Searchable: true, Renderer: vendorText(func(v dto.VendorResponse) string { return v.Phone })},
		{Key: "email", Header: "이메일", Searchable: true, Renderer: vendorText(func(v dto.VendorResponse) string { return v.Email })},
		{
			Key: "isActive", Header: "상태", Sortable: true, Align: table.AlignCenter,
			Renderer: table.RenderFunc[dto.VendorResponse](func(_ *table.RenderContext, v dto.VendorResponse) table.Value {
				l := format.ActiveLabels.Lookup(strconv.FormatBool(v.IsActive))
				return table.Bool(v.IsActive, l.Text).WithTone(string(l.Tone))
			}),
		},
		{
			Key: "createdAt", Header: "등록일", Sortable: true,
			Renderer: table.RenderFunc[dto.VendorResponse](func(_ *table.RenderContext, v dto.VendorResponse) table.Value {
				return table.Time(v.CreatedAt, format.Date(v.CreatedAt))
			}),
		},
	}
	tbl := table.New(cols, table.Config{
		Searchable:   true,
		Paginated:    true,
		EmptyMessage: "등록된 거래처가 없습니다.",
	})
	tbl.RowLink = func(v dto.VendorResponse) string { return "/vendors/" + v.ID }
	return &VendorsList{source: source, table: tbl}
}

// View vista de tabla de proveedores.
func (l *VendorsList) View(ctx context.Context, companyID string, filter dto.VendorListRequest, req dto.TableViewRequest) (*dto.TableView, error) {
	var rows []dto.VendorResponse
	if !req.Skeleton {
		var err error
		if rows, err = l.source.List(ctx, companyID, filter); err != nil {
			return nil, err
		}
	}
	return build(l.table, rows, req, rowSpec[dto.VendorResponse]{
		id: func(v dto.VendorResponse) string { return v.ID },
		actions: func(v dto.VendorResponse) []dto.TableAction {
			return []dto.TableAction{
				editAction("/vendors/" + v.ID + "/edit"),
				deleteAction("/api/vendors/"+v.ID, false),
			}
		},
	}), nil
}
