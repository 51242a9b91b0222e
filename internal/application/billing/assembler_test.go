package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizaciones-api/internal/application/billing"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAssemble_CopiaCamposYNumeraItems(t *testing.T) {
	inv := entity.Invoice{
		Index:         7,
		CustomerName:  "Acme",
		Contact:       "王小明",
		InvoiceNumber: "INV-7",
		TaxID:         "04595257",
		IssueDate:     "2024-01-14",
		InvoiceType:   entity.InvoiceTypeThreePart,
		Items: []entity.LineItem{
			{Slot: 2, Description: "Widget", Quantity: 2, UnitPrice: d("100"), Amount: d("200")},
			{Slot: 4, Description: "維護", Quantity: 3, Unit: "個月", UnitPrice: d("10"), Amount: d("30")},
		},
		Subtotal:  d("230"),
		TaxAmount: d("12"),
		Total:     d("242"),
		Warnings:  []entity.Warning{{Slot: 3, Code: entity.WarningItemDropped, Message: "ítem 3: quantity \"x\""}},
	}
	company := entity.CompanyProfile{Name: "Demo Co", Phone: "02-1234", TaxID: "10458575"}
	meta := billing.DocumentMeta{BillingDate: time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC), TaxRate: d("0.05")}

	p := billing.Assemble(inv, company, meta)

	assert.Equal(t, 7, p.Index)
	assert.Equal(t, "2024-03-05", p.BillingDate)
	assert.Equal(t, "2024-01-14", p.IssueDate)
	assert.Equal(t, "Demo Co", p.Company.Name)
	assert.Equal(t, "10458575", p.Company.TaxID)
	assert.Equal(t, "THREE_PART", p.InvoiceType)
	assert.Equal(t, "三聯", p.InvoiceTypeLabel)
	require.Len(t, p.Items, 2)
	assert.Equal(t, 1, p.Items[0].No)
	assert.Equal(t, 2, p.Items[1].No, "se numera por posición en la página, no por slot")
	assert.Equal(t, "3個月", p.Items[1].QuantityText)
	assert.True(t, p.Total.Equal(d("242")))
	assert.True(t, p.TaxRate.Equal(d("0.05")))
	assert.Equal(t, []string{"ítem 3: quantity \"x\""}, p.Warnings)
}

func TestAssemble_TipoLibreYSinFecha(t *testing.T) {
	inv := entity.Invoice{
		CustomerName:    "Acme",
		InvoiceNumber:   "INV-1",
		InvoiceType:     entity.InvoiceTypeOther,
		InvoiceTypeText: "電子發票",
	}

	p := billing.Assemble(inv, entity.CompanyProfile{}, billing.DocumentMeta{})

	assert.Equal(t, "電子發票", p.InvoiceTypeLabel)
	assert.Empty(t, p.BillingDate)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Warnings)
}
