package orderform

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
)

// Claves de campos de plantilla que se mapean a la cabecera de la orden.
var headerKeys = map[string]func(h *dto.OrderHeaderInput, v string){
	"title":         func(h *dto.OrderHeaderInput, v string) { h.Title = v },
	"vendorId":      func(h *dto.OrderHeaderInput, v string) { h.VendorID = v },
	"projectId":     func(h *dto.OrderHeaderInput, v string) { h.ProjectID = v },
	"orderDate":     func(h *dto.OrderHeaderInput, v string) { h.OrderDate = v },
	"deliveryDate":  func(h *dto.OrderHeaderInput, v string) { h.DeliveryDate = v },
	"deliveryPlace": func(h *dto.OrderHeaderInput, v string) { h.DeliveryPlace = v },
	"notes":         func(h *dto.OrderHeaderInput, v string) { h.Notes = v },
}

// ParseFields decodifica y valida la configuración de campos de una plantilla.
func ParseFields(raw json.RawMessage) ([]entity.TemplateField, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: sin campos", domain.ErrInvalidTemplate)
	}
	var fields []entity.TemplateField
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTemplate, err)
	}
	seen := map[string]bool{}
	for i, f := range fields {
		if strings.TrimSpace(f.Key) == "" || strings.TrimSpace(f.Label) == "" {
			return nil, fmt.Errorf("%w: campo %d sin clave o etiqueta", domain.ErrInvalidTemplate, i)
		}
		switch f.Type {
		case entity.FieldText, entity.FieldNumber, entity.FieldDate, entity.FieldTextarea:
		case entity.FieldSelect:
			if len(f.Options) == 0 {
				return nil, fmt.Errorf("%w: %s sin opciones", domain.ErrInvalidTemplate, f.Key)
			}
		default:
			return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidTemplate, f.Type)
		}
		if f.Section == "" {
			fields[i].Section = entity.SectionHeader
		} else if f.Section != entity.SectionHeader && f.Section != entity.SectionItem {
			return nil, fmt.Errorf("%w: sección %q", domain.ErrInvalidTemplate, f.Section)
		}
		id := fields[i].Section + "/" + f.Key
		if seen[id] {
			return nil, fmt.Errorf("%w: clave repetida %s", domain.ErrInvalidTemplate, f.Key)
		}
		seen[id] = true
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Order < fields[j].Order })
	return fields, nil
}

// TemplateForm formulario de campos dinámicos definido por una plantilla.
type TemplateForm struct {
	Template     *entity.OrderTemplate
	HeaderFields []entity.TemplateField
	ItemFields   []entity.TemplateField
}

// NewTemplateForm separa los campos de cabecera y de línea. La plantilla debe estar activa.
func NewTemplateForm(tpl *entity.OrderTemplate) (*TemplateForm, error) {
	if !tpl.IsActive {
		return nil, fmt.Errorf("%w: plantilla inactiva", domain.ErrInvalidInput)
	}
	fields, err := ParseFields(tpl.FieldsConfig)
	if err != nil {
		return nil, err
	}
	f := &TemplateForm{Template: tpl}
	for _, fd := range fields {
		if fd.Section == entity.SectionItem {
			f.ItemFields = append(f.ItemFields, fd)
		} else {
			f.HeaderFields = append(f.HeaderFields, fd)
		}
	}
	return f, nil
}

// Defaults valores iniciales de los campos de cabecera.
func (f *TemplateForm) Defaults() map[string]string {
	out := make(map[string]string, len(f.HeaderFields))
	for _, fd := range f.HeaderFields {
		if fd.DefaultValue != "" {
			out[fd.Key] = fd.DefaultValue
		}
	}
	return out
}

// Validate comprueba obligatorios, números, fechas y opciones.
func (f *TemplateForm) Validate(values map[string]string, itemValues []map[string]string) dto.ValidationErrors {
	var verrs dto.ValidationErrors
	for _, fd := range f.HeaderFields {
		checkField(&verrs, "values."+fd.Key, fd, valueOrDefault(values, fd))
	}
	for i, row := range itemValues {
		if emptyValues(row) {
			continue
		}
		for _, fd := range f.ItemFields {
			checkField(&verrs, fmt.Sprintf("itemValues[%d].%s", i, fd.Key), fd, valueOrDefault(row, fd))
		}
	}
	return verrs
}

func checkField(verrs *dto.ValidationErrors, field string, fd entity.TemplateField, v string) {
	if v == "" {
		if fd.Required {
			verrs.Add(field, fd.Label+"을(를) 입력하세요.")
		}
		return
	}
	switch fd.Type {
	case entity.FieldNumber:
		if _, err := parseAmount(v); err != nil {
			verrs.Add(field, fd.Label+"은(는) 숫자여야 합니다.")
		}
	case entity.FieldDate:
		if _, err := ParseDate(v); err != nil {
			verrs.Add(field, fd.Label+" 날짜 형식이 올바르지 않습니다.")
		}
	case entity.FieldSelect:
		for _, o := range fd.Options {
			if o == v {
				return
			}
		}
		verrs.Add(field, fd.Label+" 값이 목록에 없습니다.")
	}
}

func valueOrDefault(values map[string]string, fd entity.TemplateField) string {
	if v := strings.TrimSpace(values[fd.Key]); v != "" {
		return v
	}
	return fd.DefaultValue
}

func emptyValues(row map[string]string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Payload valida y normaliza. Los campos de cabecera conocidos se copian a la cabecera; el resto
// de valores (cabecera y líneas) se guarda en CustomFields.
func (f *TemplateForm) Payload(header dto.OrderHeaderInput, values map[string]string, itemValues []map[string]string) (*Payload, error) {
	verrs := f.Validate(values, itemValues)

	custom := map[string]string{}
	for _, fd := range f.HeaderFields {
		v := valueOrDefault(values, fd)
		if set, ok := headerKeys[fd.Key]; ok {
			if v != "" {
				set(&header, v)
			}
			continue
		}
		if v != "" {
			custom[fd.Key] = v
		}
	}

	var items []dto.OrderItemInput
	var itemCustom []map[string]string
	for i, row := range itemValues {
		if emptyValues(row) {
			continue
		}
		it := dto.OrderItemInput{
			ItemID:        row["itemId"],
			ItemName:      strings.TrimSpace(row[ColItemName]),
			Specification: row[ColSpecification],
			Unit:          row[ColUnit],
			DeliveryDate:  row[ColDeliveryDate],
			Notes:         row[ColNotes],
		}
		var err error
		if it.Quantity, err = parseAmount(row[ColQuantity]); err != nil {
			verrs.Add(fmt.Sprintf("itemValues[%d].quantity", i), "수량이 숫자가 아닙니다.")
			continue
		}
		if it.UnitPrice, err = parseAmount(row[ColUnitPrice]); err != nil {
			verrs.Add(fmt.Sprintf("itemValues[%d].unitPrice", i), "단가가 숫자가 아닙니다.")
			continue
		}
		checkLine(&verrs, fmt.Sprintf("itemValues[%d]", i), it)
		items = append(items, it)

		extra := map[string]string{}
		for k, v := range row {
			switch k {
			case "itemId", ColItemName, ColSpecification, ColUnit, ColQuantity, ColUnitPrice, ColTotal, ColDeliveryDate, ColNotes:
			default:
				if v != "" {
					extra[k] = v
				}
			}
		}
		itemCustom = append(itemCustom, extra)
	}
	if len(items) == 0 {
		verrs.Add("itemValues", "품목을 하나 이상 입력하세요.")
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(struct {
		Values map[string]string   `json:"values,omitempty"`
		Items  []map[string]string `json:"items,omitempty"`
	}{custom, itemCustom})
	if err != nil {
		return nil, err
	}
	header.CustomFields = raw
	return &Payload{Header: header, Items: items, TemplateID: f.Template.ID}, nil
}
