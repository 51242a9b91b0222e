package invoicing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizaciones-api/internal/domain"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/invoicing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func record(customer, number string) entity.RawRecord {
	rec := entity.NewRawRecord(1)
	rec.Fields[entity.FieldCustomerName] = customer
	rec.Fields[entity.FieldInvoiceNumber] = number
	return rec
}

func item(rec *entity.RawRecord, slot int, desc, qty, price string) {
	rec.SetItem(slot, entity.AttrDescription, desc)
	rec.SetItem(slot, entity.AttrQuantity, qty)
	rec.SetItem(slot, entity.AttrUnitPrice, price)
}

func newNormalizer(t *testing.T) *invoicing.Normalizer {
	t.Helper()
	n, err := invoicing.NewNormalizer(invoicing.DefaultMaxItems)
	require.NoError(t, err)
	return n
}

func newCalculator(t *testing.T) *invoicing.Calculator {
	t.Helper()
	c, err := invoicing.NewCalculator(invoicing.DefaultTaxRate)
	require.NoError(t, err)
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// Validate
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_RegistroCompleto(t *testing.T) {
	res := invoicing.Validate(record("Acme", "INV-001"))
	assert.True(t, res.Valid)
	assert.Empty(t, res.Reasons)
}

func TestValidate_InformaTodosLosMotivos(t *testing.T) {
	res := invoicing.Validate(record("", "  "))
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"customerName missing", "invoiceNumber missing"}, res.Reasons)
}

func TestValidate_ItemsSonOpcionales(t *testing.T) {
	rec := record("Acme", "INV-001")
	rec.SetItem(2, entity.AttrQuantity, "x")
	assert.True(t, invoicing.Validate(rec).Valid)
}

// ──────────────────────────────────────────────────────────────────────────────
// Calculator
// ──────────────────────────────────────────────────────────────────────────────

func TestNewCalculator_TasaFueraDeRango(t *testing.T) {
	_, err := invoicing.NewCalculator(dec("-0.01"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = invoicing.NewCalculator(dec("1.01"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = invoicing.NewCalculator(dec("1"))
	assert.NoError(t, err)
}

func TestLineAmount_RedondeoHalfUp(t *testing.T) {
	assert.True(t, dec("200").Equal(invoicing.LineAmount(2, dec("100.00"))))
	assert.Equal(t, "0.13", invoicing.LineAmount(1, dec("0.125")).StringFixed(2))
	assert.Equal(t, "0.01", invoicing.LineAmount(1, dec("0.005")).StringFixed(2))
	assert.Equal(t, "0.37", invoicing.LineAmount(3, dec("0.1234")).StringFixed(2))
}

func TestCalculate_SinItems(t *testing.T) {
	tot := newCalculator(t).Calculate(nil)
	assert.True(t, tot.Subtotal.IsZero())
	assert.True(t, tot.TaxAmount.IsZero())
	assert.True(t, tot.Total.IsZero())
}

func TestCalculate_ImpuestoRedondeadoEnSuPropioPaso(t *testing.T) {
	// 0.10 × 0.05 = 0.005 → 0.01, no se difiere el redondeo al total
	tot := newCalculator(t).Calculate([]entity.LineItem{{Amount: dec("0.10")}})
	assert.Equal(t, "0.01", tot.TaxAmount.StringFixed(2))
	assert.Equal(t, "0.11", tot.Total.StringFixed(2))
}

func TestCalculate_InvariantesParaCualquierTasa(t *testing.T) {
	items := []entity.LineItem{
		{Amount: dec("199.99")},
		{Amount: dec("0.01")},
		{Amount: dec("1234.57")},
		{Amount: dec("3.33")},
	}
	for _, r := range []string{"0", "0.05", "0.1", "0.125", "0.3333", "0.875", "1"} {
		c, err := invoicing.NewCalculator(dec(r))
		require.NoError(t, err)
		tot := c.Calculate(items)

		assert.True(t, tot.Subtotal.Equal(dec("1437.90")), "tasa %s", r)
		assert.True(t, tot.TaxAmount.Equal(tot.Subtotal.Mul(dec(r)).Round(2)), "tasa %s", r)
		assert.True(t, tot.Total.Equal(tot.Subtotal.Add(tot.TaxAmount)), "tasa %s", r)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalizer
// ──────────────────────────────────────────────────────────────────────────────

func TestNewNormalizer_MaximoInvalido(t *testing.T) {
	_, err := invoicing.NewNormalizer(0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = invoicing.NewNormalizer(entity.MaxVocabularySlots + 1)
	assert.Error(t, err)
}

func TestNormalize_EjemploAcme(t *testing.T) {
	rec := record("Acme", "INV-001")
	item(&rec, 1, "Widget", "2", "100.00")
	item(&rec, 2, "", "", "")

	inv, err := newNormalizer(t).Normalize(rec)
	require.NoError(t, err)
	newCalculator(t).Apply(&inv)

	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Widget", inv.Items[0].Description)
	assert.Equal(t, int64(2), inv.Items[0].Quantity)
	assert.Equal(t, "100.00", inv.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "200.00", inv.Items[0].Amount.StringFixed(2))
	assert.Equal(t, "200.00", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "10.00", inv.TaxAmount.StringFixed(2))
	assert.Equal(t, "210.00", inv.Total.StringFixed(2))
	assert.Empty(t, inv.Warnings)
}

func TestNormalize_RegistroInvalido(t *testing.T) {
	_, err := newNormalizer(t).Normalize(record("Acme", ""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var verr *invoicing.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"invoiceNumber missing"}, verr.Reasons)
}

func TestNormalize_PrecioNoNumericoDescartaSoloEseItem(t *testing.T) {
	rec := record("Acme", "INV-002")
	item(&rec, 1, "Uno", "1", "10")
	item(&rec, 2, "Dos", "1", "abc")
	item(&rec, 3, "Tres", "3", "5")

	inv, err := newNormalizer(t).Normalize(rec)
	require.NoError(t, err)

	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Uno", inv.Items[0].Description)
	assert.Equal(t, "Tres", inv.Items[1].Description)
	assert.Equal(t, "15.00", inv.Items[1].Amount.StringFixed(2))

	require.Len(t, inv.Warnings, 1)
	assert.Equal(t, 2, inv.Warnings[0].Slot)
	assert.Equal(t, entity.WarningItemDropped, inv.Warnings[0].Code)
	assert.Contains(t, inv.Warnings[0].Message, "abc")
}

func TestNormalize_CantidadNegativaODecimal(t *testing.T) {
	rec := record("Acme", "INV-003")
	item(&rec, 1, "Negativo", "-1", "10")
	item(&rec, 2, "Fraccion", "2.5", "10")
	item(&rec, 3, "Entero", "2.0", "10")

	inv, err := newNormalizer(t).Normalize(rec)
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Entero", inv.Items[0].Description)
	assert.Len(t, inv.Warnings, 2)
}

func TestNormalize_QuintoItemSeTruncaSinError(t *testing.T) {
	rec := record("Acme", "INV-004")
	for slot := 1; slot <= 5; slot++ {
		item(&rec, slot, "Item", "1", "1")
	}

	inv, err := newNormalizer(t).Normalize(rec)
	require.NoError(t, err)
	assert.Len(t, inv.Items, 4)
	assert.Equal(t, 1, inv.TruncatedItems)
	assert.Empty(t, inv.Warnings)
	assert.Equal(t, 4, inv.Items[3].Slot)
}

func TestNormalize_PosicionesVaciasNoDejanHuecos(t *testing.T) {
	rec := record("Acme", "INV-005")
	item(&rec, 1, "", "9", "9")
	item(&rec, 3, "Tercero", "1", "1")
	item(&rec, 4, "Cuarto", "1", "1")

	inv, err := newNormalizer(t).Normalize(rec)
	require.NoError(t, err)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, 3, inv.Items[0].Slot)
	assert.Equal(t, 4, inv.Items[1].Slot)
}

func TestNormalize_CantidadConUnidad(t *testing.T) {
	rec := record("Acme", "INV-006")
	item(&rec, 1, "Café", "2 包", "150")
	item(&rec, 2, "Mantenimiento", "3月", "1,000")

	inv, err := newNormalizer(t).Normalize(rec)
	require.NoError(t, err)
	require.Len(t, inv.Items, 2)

	assert.Equal(t, "包", inv.Items[0].Unit)
	assert.Equal(t, "300.00", inv.Items[0].Amount.StringFixed(2))
	assert.Equal(t, "2包", inv.Items[0].DisplayQuantity())

	assert.Equal(t, int64(3), inv.Items[1].Quantity)
	assert.Equal(t, "3個月", inv.Items[1].DisplayQuantity())
	assert.Equal(t, "3000.00", inv.Items[1].Amount.StringFixed(2))
}

func TestNormalize_MontoSuministradoSeRespeta(t *testing.T) {
	rec := record("Acme", "INV-007")
	item(&rec, 1, "Descuento especial", "2", "100")
	rec.SetItem(1, entity.AttrAmount, "150.005")

	inv, err := newNormalizer(t).Normalize(rec)
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	assert.True(t, inv.Items[0].AmountSupplied)
	assert.Equal(t, "150.01", inv.Items[0].Amount.StringFixed(2))
}

func TestNormalize_TipoDeFactura(t *testing.T) {
	cases := map[string]entity.InvoiceType{
		"二聯":  entity.InvoiceTypeTwoPart,
		"三聯式": entity.InvoiceTypeThreePart,
		"無發票": entity.InvoiceTypeNoInvoice,
		"":    entity.InvoiceTypeOther,
	}
	for raw, want := range cases {
		rec := record("Acme", "INV-008")
		rec.Fields[entity.FieldInvoiceType] = raw
		inv, err := newNormalizer(t).Normalize(rec)
		require.NoError(t, err)
		assert.Equal(t, want, inv.InvoiceType, raw)
		assert.Empty(t, inv.InvoiceTypeText, raw)
	}
}

func TestNormalize_TipoDesconocidoVaAObservaciones(t *testing.T) {
	rec := record("Acme", "INV-009")
	rec.Fields[entity.FieldInvoiceType] = "電子發票"
	rec.Fields[entity.FieldRemarks] = "月結"

	inv, err := newNormalizer(t).Normalize(rec)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceTypeOther, inv.InvoiceType)
	assert.Equal(t, "電子發票", inv.InvoiceTypeText)
	assert.Equal(t, "月結；發票：電子發票", inv.Remarks)
}

func TestNormalize_CamposOpcionalesVacios(t *testing.T) {
	inv, err := newNormalizer(t).Normalize(record("Acme", "INV-010"))
	require.NoError(t, err)
	assert.Equal(t, "", inv.TaxID)
	assert.Equal(t, "", inv.Remarks)
	assert.Equal(t, "", inv.Contact)
	assert.NotNil(t, inv.Items)
	assert.Empty(t, inv.Items)
}

func TestNormalize_TaxIDConDigitoInvalidoEsAdvertencia(t *testing.T) {
	rec := record("Acme", "INV-011")
	rec.Fields[entity.FieldTaxID] = "12345678"

	inv, err := newNormalizer(t).Normalize(rec)
	require.NoError(t, err)
	require.Len(t, inv.Warnings, 1)
	assert.Equal(t, entity.WarningTaxIDChecksum, inv.Warnings[0].Code)
	assert.Equal(t, "12345678", inv.TaxID)
}
