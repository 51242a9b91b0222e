package entity

import (
	"fmt"
	"strings"
)

// MaxVocabularySlots es la cantidad de posiciones de ítem que el vocabulario reconoce.
// Es mayor que el máximo configurable para poder detectar y truncar los excedentes.
const MaxVocabularySlots = 10

// ItemsKey es la clave JSON que contiene la lista anidada de ítems.
const ItemsKey = "items"

// nestedRankBase separa la prioridad de las claves dentro de "items": una
// columna plana (item1_name) siempre gana sobre el ítem anidado equivalente.
const nestedRankBase = 100

// Key es el destino canónico de una clave externa: un campo de cabecera
// (Slot == 0) o un atributo de ítem (Slot >= 1).
//
// Rank ordena los alias que comparten destino; menor gana. Sigue el orden en
// que se declaran los alias, así que el resultado no depende del orden de las
// claves en la fuente.
type Key struct {
	Field Field
	Slot  int
	Attr  ItemAttr
	Rank  int
}

// IsItem indica si la clave corresponde a un atributo de ítem.
func (k Key) IsItem() bool { return k.Slot > 0 }

// Target devuelve el destino sin la prioridad, para comparar alias entre sí.
func (k Key) Target() Key { return Key{Field: k.Field, Slot: k.Slot, Attr: k.Attr} }

// Outranks indica si k debe reemplazar un valor asignado con prioridad rank.
func (k Key) Outranks(rank int) bool { return k.Rank < rank }

// Vocabulary traduce nombres de columna o claves JSON a campos canónicos.
// La traducción es exacta y sensible a mayúsculas.
type Vocabulary struct {
	keys      map[string]Key
	itemAttrs map[string]Key
}

// headerAliases: encabezado de la planilla CSV primero, luego claves JSON aceptadas.
var headerAliases = map[Field][]string{
	FieldCustomerName:  {"客戶名稱", "customer_name", "customerName"},
	FieldContact:       {"聯絡人", "contact_person", "contact"},
	FieldPhone:         {"電話", "phone"},
	FieldInvoiceNumber: {"發票號碼", "invoice_number", "invoiceNumber"},
	FieldTaxID:         {"客戶統編", "tax_id", "taxId"},
	FieldInvoiceType:   {"發票", "invoice_type", "invoiceType"},
	FieldRemarks:       {"備註", "notes", "remarks"},
	FieldIssueDate:     {"發票日期", "invoice_issue_date", "invoice_date", "issueDate"},
	FieldInvoiceTitle:  {"發票抬頭", "invoice_title", "invoiceTitle"},
}

// nestedItemAliases son las claves de cada objeto dentro de "items", en orden
// de prioridad.
var nestedItemAliases = []itemColumn{
	{"name", AttrDescription},
	{"description", AttrDescription},
	{"quantity", AttrQuantity},
	{"unit_price", AttrUnitPrice},
	{"unitPrice", AttrUnitPrice},
	{"amount", AttrAmount},
}

// DefaultVocabulary construye el vocabulario de planillas y JSON de cotización.
func DefaultVocabulary() Vocabulary {
	v := Vocabulary{
		keys:      make(map[string]Key),
		itemAttrs: make(map[string]Key, len(nestedItemAliases)),
	}
	for field, aliases := range headerAliases {
		for rank, a := range aliases {
			v.keys[a] = Key{Field: field, Rank: rank}
		}
	}
	for n := 1; n <= MaxVocabularySlots; n++ {
		for rank, name := range itemColumnNames(n) {
			v.keys[name.key] = Key{Slot: n, Attr: name.attr, Rank: rank}
		}
	}
	for rank, name := range nestedItemAliases {
		v.itemAttrs[name.key] = Key{Attr: name.attr, Rank: nestedRankBase + rank}
	}
	return v
}

type itemColumn struct {
	key  string
	attr ItemAttr
}

// itemColumnNames lista las columnas de la posición n. La planilla de cobro
// nombra la primera cantidad/precio sin sufijo ("數量", "單價").
func itemColumnNames(n int) []itemColumn {
	cols := []itemColumn{
		{fmt.Sprintf("品項%d", n), AttrDescription},
		{fmt.Sprintf("數量%d", n), AttrQuantity},
		{fmt.Sprintf("單價%d", n), AttrUnitPrice},
		{fmt.Sprintf("金額%d", n), AttrAmount},
		{fmt.Sprintf("item%d_name", n), AttrDescription},
		{fmt.Sprintf("item%d_quantity", n), AttrQuantity},
		{fmt.Sprintf("item%d_unit_price", n), AttrUnitPrice},
		{fmt.Sprintf("item%d_amount", n), AttrAmount},
	}
	if n == 1 {
		cols = append(cols,
			itemColumn{"數量", AttrQuantity},
			itemColumn{"單價", AttrUnitPrice},
			itemColumn{"金額", AttrAmount},
		)
	}
	return cols
}

// Lookup devuelve el destino canónico de una clave externa.
func (v Vocabulary) Lookup(name string) (Key, bool) {
	k, ok := v.keys[strings.TrimSpace(name)]
	return k, ok
}

// LookupItem devuelve el destino de una clave dentro del objeto de "items"
// que ocupa la posición slot.
func (v Vocabulary) LookupItem(name string, slot int) (Key, bool) {
	k, ok := v.itemAttrs[strings.TrimSpace(name)]
	if !ok {
		return Key{}, false
	}
	k.Slot = slot
	return k, true
}
