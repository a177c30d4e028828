package format

// Tone es el color lógico de una etiqueta; el tema lo resuelve a clases concretas.
type Tone string

const (
	ToneGray   Tone = "gray"
	ToneBlue   Tone = "blue"
	ToneGreen  Tone = "green"
	ToneYellow Tone = "yellow"
	ToneRed    Tone = "red"
	TonePurple Tone = "purple"
	ToneOrange Tone = "orange"
)

// Label etiqueta localizada de un código de estado.
type Label struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone"`
}

// LabelTable tabla de búsqueda código → etiqueta.
type LabelTable map[string]Label

// Lookup devuelve la etiqueta del código; los códigos desconocidos se muestran tal cual en gris.
func (t LabelTable) Lookup(code string) Label {
	if l, ok := t[code]; ok {
		return l
	}
	if code == "" {
		return Label{Text: emptyValue, Tone: ToneGray}
	}
	return Label{Text: code, Tone: ToneGray}
}

// OrderStatusLabels estado operativo de la orden (orderStatus).
var OrderStatusLabels = LabelTable{
	"draft":     {Text: "임시 저장", Tone: ToneGray},
	"created":   {Text: "발주 생성", Tone: ToneBlue},
	"sent":      {Text: "발주 완료", Tone: TonePurple},
	"delivered": {Text: "납품 완료", Tone: ToneGreen},
	"cancelled": {Text: "취소", Tone: ToneRed},
}

// ApprovalStatusLabels estado de aprobación (approvalStatus).
var ApprovalStatusLabels = LabelTable{
	"not_required": {Text: "승인 불필요", Tone: ToneGray},
	"pending":      {Text: "승인 대기", Tone: ToneYellow},
	"approved":     {Text: "승인 완료", Tone: ToneGreen},
	"rejected":     {Text: "반려", Tone: ToneRed},
}

// LegacyStatusLabels campo único status de las órdenes antiguas.
var LegacyStatusLabels = LabelTable{
	"draft":     {Text: "임시 저장", Tone: ToneGray},
	"pending":   {Text: "승인 대기", Tone: ToneYellow},
	"approved":  {Text: "승인 완료", Tone: ToneGreen},
	"sent":      {Text: "발송됨", Tone: TonePurple},
	"completed": {Text: "완료", Tone: ToneBlue},
	"rejected":  {Text: "반려", Tone: ToneRed},
}

// EmailStatusLabels estado de un envío de correo.
var EmailStatusLabels = LabelTable{
	"sent":    {Text: "발송 완료", Tone: ToneGreen},
	"failed":  {Text: "발송 실패", Tone: ToneRed},
	"pending": {Text: "발송 대기", Tone: ToneYellow},
	"opened":  {Text: "열람", Tone: ToneBlue},
}

// TemplateTypeLabels tipo de plantilla de orden.
var TemplateTypeLabels = LabelTable{
	"handsontable": {Text: "엑셀형", Tone: ToneGreen},
	"general":      {Text: "일반형", Tone: ToneBlue},
}

// ActiveLabels bandera activo/inactivo.
var ActiveLabels = LabelTable{
	"true":  {Text: "활성", Tone: ToneGreen},
	"false": {Text: "비활성", Tone: ToneGray},
}
