package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizaciones-api/internal/application/dto"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
)

// billingDateLayout formato de 請款日期 (yyyy-mm-dd).
const billingDateLayout = "2006-01-02"

// DocumentMeta datos de la corrida que no provienen del registro.
type DocumentMeta struct {
	BillingDate time.Time
	TaxRate     decimal.Decimal
}

// Assemble mapea la factura calculada y el perfil del emisor al payload del renderizador.
// No calcula nada: solo copia y aplana.
func Assemble(inv entity.Invoice, company entity.CompanyProfile, meta DocumentMeta) dto.DocumentPayload {
	items := make([]dto.PayloadItem, 0, len(inv.Items))
	for i, it := range inv.Items {
		items = append(items, dto.PayloadItem{
			No:           i + 1,
			Description:  it.Description,
			Quantity:     it.Quantity,
			QuantityText: it.DisplayQuantity(),
			UnitPrice:    it.UnitPrice,
			Amount:       it.Amount,
		})
	}
	warnings := make([]string, 0, len(inv.Warnings))
	for _, w := range inv.Warnings {
		warnings = append(warnings, w.Message)
	}

	billingDate := ""
	if !meta.BillingDate.IsZero() {
		billingDate = meta.BillingDate.Format(billingDateLayout)
	}

	return dto.DocumentPayload{
		Index: inv.Index,
		Company: dto.CompanyBlock{
			Name:    company.Name,
			Phone:   company.Phone,
			Fax:     company.Fax,
			Address: company.Address,
			TaxID:   company.TaxID,
		},
		BillingDate:      billingDate,
		IssueDate:        inv.IssueDate,
		CustomerName:     inv.CustomerName,
		Contact:          inv.Contact,
		Phone:            inv.Phone,
		InvoiceNumber:    inv.InvoiceNumber,
		TaxID:            inv.TaxID,
		InvoiceTitle:     inv.InvoiceTitle,
		InvoiceType:      string(inv.InvoiceType),
		InvoiceTypeLabel: invoiceTypeLabel(inv),
		Remarks:          inv.Remarks,
		Items:            items,
		Subtotal:         inv.Subtotal,
		TaxRate:          meta.TaxRate,
		TaxAmount:        inv.TaxAmount,
		Total:            inv.Total,
		Warnings:         warnings,
	}
}

func invoiceTypeLabel(inv entity.Invoice) string {
	if inv.InvoiceType == entity.InvoiceTypeOther {
		return inv.InvoiceTypeText
	}
	return inv.InvoiceType.Label()
}
