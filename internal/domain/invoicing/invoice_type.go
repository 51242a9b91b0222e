package invoicing

import (
	"strings"

	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
)

// invoiceTypes es la tabla cerrada de textos reconocidos.
var invoiceTypes = map[string]entity.InvoiceType{
	"二聯":   entity.InvoiceTypeTwoPart,
	"二聯式":  entity.InvoiceTypeTwoPart,
	"二联":   entity.InvoiceTypeTwoPart,
	"三聯":   entity.InvoiceTypeThreePart,
	"三聯式":  entity.InvoiceTypeThreePart,
	"三联":   entity.InvoiceTypeThreePart,
	"無發票":  entity.InvoiceTypeNoInvoice,
	"不開發票": entity.InvoiceTypeNoInvoice,
	"免開":   entity.InvoiceTypeNoInvoice,
}

// ParseInvoiceType traduce el texto de la fuente. Devuelve ok=false cuando el
// texto no está vacío y no se reconoce; en ese caso el tipo es OTHER.
func ParseInvoiceType(raw string) (t entity.InvoiceType, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return entity.InvoiceTypeOther, true
	}
	if t, found := invoiceTypes[s]; found {
		return t, true
	}
	return entity.InvoiceTypeOther, false
}
