package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanyBlock datos del emisor impresos en el encabezado.
type CompanyBlock struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Fax     string `json:"fax"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`
}

// DocumentPayload es todo lo que el renderizador necesita para una página.
// Ningún campo se omite: los ausentes van como "" o cero.
type DocumentPayload struct {
	Index            int             `json:"index"`
	Company          CompanyBlock    `json:"company"`
	BillingDate      string          `json:"billing_date"` // 請款日期 (fecha de generación)
	IssueDate        string          `json:"issue_date"`   // 發票日期 (de la fuente)
	CustomerName     string          `json:"customer_name"`
	Contact          string          `json:"contact"`
	Phone            string          `json:"phone"`
	InvoiceNumber    string          `json:"invoice_number"`
	TaxID            string          `json:"tax_id"`
	InvoiceTitle     string          `json:"invoice_title"`
	InvoiceType      string          `json:"invoice_type"`
	InvoiceTypeLabel string          `json:"invoice_type_label"`
	Remarks          string          `json:"remarks"`
	Items            []PayloadItem   `json:"items"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	Total            decimal.Decimal `json:"total"`
	Warnings         []string        `json:"warnings"`
}

// PayloadItem renglón ya calculado.
type PayloadItem struct {
	No           int             `json:"no"`
	Description  string          `json:"description"`
	Quantity     int64           `json:"quantity"`
	QuantityText string          `json:"quantity_text"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Amount       decimal.Decimal `json:"amount"`
}

// InvoiceSummary fila liviana para listar un lote sin renderizar.
type InvoiceSummary struct {
	Index         int             `json:"index"`
	CustomerName  string          `json:"customer_name"`
	InvoiceNumber string          `json:"invoice_number"`
	Total         decimal.Decimal `json:"total"`
}

// RecordFailure registro que no produjo documento.
type RecordFailure struct {
	Index   int      `json:"index"`
	Reasons []string `json:"reasons"`
}

// BatchResult resultado de procesar una fuente completa.
type BatchResult struct {
	RunID    string            `json:"run_id"`
	Payloads []DocumentPayload `json:"payloads"`
	Failures []RecordFailure   `json:"failures"`
}

// Summaries reduce los payloads a filas de resumen, en el mismo orden.
func (r *BatchResult) Summaries() []InvoiceSummary {
	out := make([]InvoiceSummary, 0, len(r.Payloads))
	for _, p := range r.Payloads {
		out = append(out, InvoiceSummary{
			Index:         p.Index,
			CustomerName:  p.CustomerName,
			InvoiceNumber: p.InvoiceNumber,
			Total:         p.Total,
		})
	}
	return out
}

// RunResponse corrida archivada para GET /api/runs.
type RunResponse struct {
	ID         string          `json:"id"`
	SourceName string          `json:"source_name"`
	Format     string          `json:"format"`
	Template   string          `json:"template"`
	Records    int             `json:"records"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
}
