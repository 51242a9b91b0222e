package entity

import (
	"sort"
	"strings"
)

// Field es un campo canónico de cabecera del registro.
type Field string

// Campos canónicos de cabecera.
const (
	FieldCustomerName  Field = "customerName"
	FieldContact       Field = "contact"
	FieldPhone         Field = "phone"
	FieldInvoiceNumber Field = "invoiceNumber"
	FieldTaxID         Field = "taxId"
	FieldInvoiceType   Field = "invoiceType"
	FieldRemarks       Field = "remarks"
	FieldIssueDate     Field = "issueDate"
	FieldInvoiceTitle  Field = "invoiceTitle"
)

// HeaderFields enumera los campos de cabecera en el orden del vocabulario.
var HeaderFields = []Field{
	FieldCustomerName,
	FieldContact,
	FieldPhone,
	FieldInvoiceNumber,
	FieldTaxID,
	FieldInvoiceType,
	FieldRemarks,
	FieldIssueDate,
	FieldInvoiceTitle,
}

// RequiredFields son los campos sin los cuales un registro es inválido.
var RequiredFields = []Field{FieldCustomerName, FieldInvoiceNumber}

// ItemAttr es un atributo de un ítem.
type ItemAttr string

// Atributos de ítem.
const (
	AttrDescription ItemAttr = "description"
	AttrQuantity    ItemAttr = "quantity"
	AttrUnitPrice   ItemAttr = "unitPrice"
	AttrAmount      ItemAttr = "amount"
)

// RawItem guarda el texto crudo de un ítem tal como vino en la fuente.
type RawItem struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

// Set asigna el valor del atributo indicado.
func (it *RawItem) Set(attr ItemAttr, value string) {
	switch attr {
	case AttrDescription:
		it.Description = value
	case AttrQuantity:
		it.Quantity = value
	case AttrUnitPrice:
		it.UnitPrice = value
	case AttrAmount:
		it.Amount = value
	}
}

// RawRecord es un registro de la fuente ya mapeado al vocabulario canónico.
// Las claves que no pertenecen al vocabulario quedan en Extra y no se usan.
type RawRecord struct {
	Index  int // posición 1-based en la fuente
	Fields map[Field]string
	Items  map[int]RawItem
	Extra  map[string]string
}

// NewRawRecord crea un registro vacío para la posición indicada.
func NewRawRecord(index int) RawRecord {
	return RawRecord{
		Index:  index,
		Fields: make(map[Field]string),
		Items:  make(map[int]RawItem),
		Extra:  make(map[string]string),
	}
}

// Get devuelve el valor del campo sin espacios alrededor ("" si está ausente).
func (r RawRecord) Get(f Field) string {
	return strings.TrimSpace(r.Fields[f])
}

// SetItem asigna un atributo del ítem en la posición slot.
func (r *RawRecord) SetItem(slot int, attr ItemAttr, value string) {
	it := r.Items[slot]
	it.Set(attr, value)
	r.Items[slot] = it
}

// Slots devuelve las posiciones de ítem presentes, en orden ascendente.
func (r RawRecord) Slots() []int {
	slots := make([]int, 0, len(r.Items))
	for s := range r.Items {
		slots = append(slots, s)
	}
	sort.Ints(slots)
	return slots
}
