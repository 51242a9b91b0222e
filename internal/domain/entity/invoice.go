package entity

import "github.com/shopspring/decimal"

// InvoiceType clasifica el comprobante fiscal taiwanés que acompaña al cobro.
type InvoiceType string

// Tipos de comprobante reconocidos.
const (
	InvoiceTypeTwoPart   InvoiceType = "TWO_PART"   // 二聯式: consumidor final
	InvoiceTypeThreePart InvoiceType = "THREE_PART" // 三聯式: empresa con 統一編號
	InvoiceTypeNoInvoice InvoiceType = "NO_INVOICE" // 無發票
	InvoiceTypeOther     InvoiceType = "OTHER"      // vacío o texto libre
)

// Label devuelve la etiqueta impresa en el documento.
func (t InvoiceType) Label() string {
	switch t {
	case InvoiceTypeTwoPart:
		return "二聯"
	case InvoiceTypeThreePart:
		return "三聯"
	case InvoiceTypeNoInvoice:
		return "無發票"
	default:
		return ""
	}
}

// Códigos de advertencia adjuntos a una factura.
const (
	WarningItemDropped   = "item_dropped"
	WarningTaxIDChecksum = "taxid_checksum"
)

// Warning señala un problema recuperable detectado al normalizar el registro.
// Slot es 0 cuando la advertencia no corresponde a un ítem.
type Warning struct {
	Slot    int
	Code    string
	Message string
}

// Invoice es la factura canónica: se construye una vez por registro válido
// y no se modifica después de calcular los totales.
type Invoice struct {
	Index           int // posición 1-based en la fuente
	CustomerName    string
	Contact         string
	Phone           string
	InvoiceNumber   string
	TaxID           string
	InvoiceTitle    string
	IssueDate       string // 發票日期, tal como viene en la fuente
	InvoiceType     InvoiceType
	InvoiceTypeText string // texto original cuando InvoiceType es OTHER
	Remarks         string
	Items           []LineItem
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	Total           decimal.Decimal
	Warnings        []Warning
	TruncatedItems  int // ítems no vacíos descartados por superar el máximo
}
