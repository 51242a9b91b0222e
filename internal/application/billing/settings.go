package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizaciones-api/internal/domain"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/invoicing"
)

// Plantillas de documento.
const (
	TemplateInvoice   = "invoice"   // 請款單
	TemplateQuotation = "quotation" // 報價單
)

// Settings configuración de una corrida. Se pasa por valor y no cambia durante el lote.
type Settings struct {
	TaxRate  decimal.Decimal
	MaxItems int
	Company  entity.CompanyProfile
	Template string
}

// DefaultSettings tasa 5 %, 4 ítems y plantilla de 請款單.
func DefaultSettings() Settings {
	return Settings{
		TaxRate:  invoicing.DefaultTaxRate,
		MaxItems: invoicing.DefaultMaxItems,
		Template: TemplateInvoice,
	}
}

// Validate verifica la plantilla; la tasa y el máximo de ítems los valida el dominio.
func (s Settings) Validate() error {
	switch s.Template {
	case TemplateInvoice, TemplateQuotation:
		return nil
	default:
		return fmt.Errorf("%w: plantilla %q desconocida", domain.ErrInvalidInput, s.Template)
	}
}
