package invoicing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizaciones-api/internal/domain"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
	"github.com/jhoicas/Cotizaciones-api/pkg/twtax"
)

// DefaultMaxItems es la cantidad de ítems que caben en una página impresa.
const DefaultMaxItems = 4

// TypeCoercionError indica que un atributo numérico de un ítem no se pudo convertir.
// Solo descarta ese ítem; la factura sigue adelante con una advertencia.
type TypeCoercionError struct {
	Slot  int
	Attr  entity.ItemAttr
	Value string
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("ítem %d: %s %q no es un número no negativo válido", e.Slot, e.Attr, e.Value)
}

func (e *TypeCoercionError) Unwrap() error { return domain.ErrTypeCoercion }

// quantityPattern: entero (con separador de miles opcional) seguido de una unidad opcional.
// Ej: "2", "1,000", "2 包", "3月", "2.0".
var quantityPattern = regexp.MustCompile(`^((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?)\s*(\p{L}[\p{L}\s]*)?$`)

// Normalizer convierte registros válidos en facturas canónicas.
type Normalizer struct {
	maxItems int
}

// NewNormalizer construye el normalizador con el máximo de ítems por factura.
func NewNormalizer(maxItems int) (*Normalizer, error) {
	if maxItems < 1 || maxItems > entity.MaxVocabularySlots {
		return nil, fmt.Errorf("%w: máximo de ítems %d fuera de [1, %d]",
			domain.ErrInvalidInput, maxItems, entity.MaxVocabularySlots)
	}
	return &Normalizer{maxItems: maxItems}, nil
}

// Normalize valida el registro y arma la factura sin totales.
// Los ítems se recorren por posición ascendente; los de descripción vacía se
// omiten sin dejar huecos. Solo se consideran las primeras maxItems posiciones
// no vacías: las siguientes se descartan y se cuentan en TruncatedItems.
// Un ítem con cantidad o precio no numérico se descarta con una advertencia
// y no se reemplaza por el siguiente.
func (n *Normalizer) Normalize(rec entity.RawRecord) (entity.Invoice, error) {
	if res := Validate(rec); !res.Valid {
		return entity.Invoice{}, &ValidationError{Reasons: res.Reasons}
	}

	inv := entity.Invoice{
		Index:         rec.Index,
		CustomerName:  rec.Get(entity.FieldCustomerName),
		Contact:       rec.Get(entity.FieldContact),
		Phone:         rec.Get(entity.FieldPhone),
		InvoiceNumber: rec.Get(entity.FieldInvoiceNumber),
		TaxID:         rec.Get(entity.FieldTaxID),
		InvoiceTitle:  rec.Get(entity.FieldInvoiceTitle),
		IssueDate:     rec.Get(entity.FieldIssueDate),
		Remarks:       rec.Get(entity.FieldRemarks),
		Items:         []entity.LineItem{},
	}

	rawType := rec.Get(entity.FieldInvoiceType)
	t, known := ParseInvoiceType(rawType)
	inv.InvoiceType = t
	if !known {
		inv.InvoiceTypeText = rawType
		inv.Remarks = appendRemark(inv.Remarks, "發票："+rawType)
	}

	if inv.TaxID != "" {
		if err := twtax.ValidateUBN(inv.TaxID); err != nil {
			inv.Warnings = append(inv.Warnings, entity.Warning{
				Code:    entity.WarningTaxIDChecksum,
				Message: err.Error(),
			})
		}
	}

	considered := 0
	for _, slot := range rec.Slots() {
		raw := rec.Items[slot]
		desc := strings.TrimSpace(raw.Description)
		if desc == "" {
			continue
		}
		if considered >= n.maxItems {
			inv.TruncatedItems++
			continue
		}
		considered++

		item, err := parseItem(slot, desc, raw)
		if err != nil {
			inv.Warnings = append(inv.Warnings, entity.Warning{
				Slot:    slot,
				Code:    entity.WarningItemDropped,
				Message: err.Error(),
			})
			continue
		}
		inv.Items = append(inv.Items, item)
	}
	return inv, nil
}

func parseItem(slot int, desc string, raw entity.RawItem) (entity.LineItem, error) {
	qty, unit, ok := parseQuantity(raw.Quantity)
	if !ok {
		return entity.LineItem{}, &TypeCoercionError{Slot: slot, Attr: entity.AttrQuantity, Value: raw.Quantity}
	}
	price, ok := parseMoney(raw.UnitPrice)
	if !ok {
		return entity.LineItem{}, &TypeCoercionError{Slot: slot, Attr: entity.AttrUnitPrice, Value: raw.UnitPrice}
	}

	item := entity.LineItem{
		Slot:        slot,
		Description: desc,
		Quantity:    qty,
		Unit:        unit,
		UnitPrice:   price,
	}
	if strings.TrimSpace(raw.Amount) != "" {
		amount, ok := parseMoney(raw.Amount)
		if !ok {
			return entity.LineItem{}, &TypeCoercionError{Slot: slot, Attr: entity.AttrAmount, Value: raw.Amount}
		}
		item.Amount = amount.Round(moneyPlaces)
		item.AmountSupplied = true
	} else {
		item.Amount = LineAmount(qty, price)
	}
	return item, nil
}

// parseQuantity acepta un entero no negativo con unidad opcional. Vacío es 0.
// La unidad "月" se imprime como "個月".
func parseQuantity(raw string) (qty int64, unit string, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, "", true
	}
	m := quantityPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || d.IsNegative() || !d.IsInteger() || !d.LessThan(maxQuantity) {
		return 0, "", false
	}
	unit = strings.TrimSpace(m[2])
	if unit == "月" {
		unit = "個月"
	}
	return d.IntPart(), unit, true
}

var maxQuantity = decimal.NewFromInt(1_000_000_000)

// parseMoney acepta un decimal no negativo con separadores de miles y prefijo
// de moneda opcionales ("1,200.50", "NT$300"). Vacío es 0.
func parseMoney(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, true
	}
	s = strings.TrimPrefix(s, "NT$")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

func appendRemark(remarks, extra string) string {
	if remarks == "" {
		return extra
	}
	return remarks + "；" + extra
}
