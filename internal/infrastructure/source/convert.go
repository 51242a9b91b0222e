package source

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
)

//go:embed sample_invoices.json
var sampleInvoices []byte

// SampleJSON devuelve una fuente JSON de ejemplo con dos cotizaciones.
func SampleJSON() []byte {
	out := make([]byte, len(sampleInvoices))
	copy(out, sampleInvoices)
	return out
}

// jsonInvoice forma intermedia de intercambio (claves snake_case, ítems anidados).
type jsonInvoice struct {
	CustomerName     string     `json:"customer_name"`
	ContactPerson    string     `json:"contact_person"`
	Phone            string     `json:"phone"`
	TaxID            string     `json:"tax_id"`
	InvoiceNumber    string     `json:"invoice_number"`
	InvoiceIssueDate string     `json:"invoice_issue_date"`
	InvoiceType      string     `json:"invoice_type"`
	InvoiceTitle     string     `json:"invoice_title"`
	Notes            string     `json:"notes"`
	Items            []jsonItem `json:"items"`
}

type jsonItem struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Amount    string `json:"amount"`
}

// Convert lee una fuente (típicamente CSV) y escribe su forma JSON intermedia.
// Devuelve la cantidad de registros escritos. No valida ni calcula: los
// registros inválidos se copian tal cual.
func Convert(r *Reader, in io.Reader, format entity.SourceFormat, out io.Writer) (int, error) {
	stream, err := r.Read(in, format)
	if err != nil {
		return 0, err
	}
	if c, ok := stream.(io.Closer); ok {
		defer c.Close()
	}
	var records []entity.RawRecord
	for stream.Next() {
		records = append(records, stream.Record())
	}
	if err := stream.Err(); err != nil {
		return 0, err
	}
	if err := WriteJSON(out, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// WriteJSON escribe los registros como arreglo JSON indentado. Los ítems sin
// descripción se omiten.
func WriteJSON(w io.Writer, records []entity.RawRecord) error {
	docs := make([]jsonInvoice, 0, len(records))
	for _, rec := range records {
		doc := jsonInvoice{
			CustomerName:     rec.Get(entity.FieldCustomerName),
			ContactPerson:    rec.Get(entity.FieldContact),
			Phone:            rec.Get(entity.FieldPhone),
			TaxID:            rec.Get(entity.FieldTaxID),
			InvoiceNumber:    rec.Get(entity.FieldInvoiceNumber),
			InvoiceIssueDate: rec.Get(entity.FieldIssueDate),
			InvoiceType:      rec.Get(entity.FieldInvoiceType),
			InvoiceTitle:     rec.Get(entity.FieldInvoiceTitle),
			Notes:            rec.Get(entity.FieldRemarks),
			Items:            []jsonItem{},
		}
		for _, slot := range rec.Slots() {
			it := rec.Items[slot]
			if it.Description == "" {
				continue
			}
			doc.Items = append(doc.Items, jsonItem{
				Name:      it.Description,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Amount:    it.Amount,
			})
		}
		docs = append(docs, doc)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("source: escribir JSON: %w", err)
	}
	return nil
}
