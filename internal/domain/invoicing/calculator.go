package invoicing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizaciones-api/internal/domain"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
)

// DefaultTaxRate es el 營業稅 (impuesto al valor agregado) de Taiwán.
var DefaultTaxRate = decimal.RequireFromString("0.05")

// moneyPlaces: todo monto se redondea a 2 decimales en cada paso.
const moneyPlaces = 2

// Totals agrupa los montos de una factura.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// Calculator aplica una tasa única de impuesto. Es inmutable y puro.
type Calculator struct {
	rate decimal.Decimal
}

// NewCalculator valida que la tasa esté en [0, 1].
func NewCalculator(rate decimal.Decimal) (*Calculator, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: tasa de impuesto %s fuera de [0, 1]", domain.ErrInvalidInput, rate)
	}
	return &Calculator{rate: rate}, nil
}

// LineAmount = cantidad × precio unitario, redondeado half-up a 2 decimales.
// Los operandos son no negativos, así que Round (half away from zero) equivale a half-up.
func LineAmount(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(unitPrice).Round(moneyPlaces)
}

// Calculate suma los montos de los ítems y aplica el impuesto.
// Sin ítems devuelve ceros; no es un error.
func (c *Calculator) Calculate(items []entity.LineItem) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount.Round(moneyPlaces))
	}
	subtotal = subtotal.Round(moneyPlaces)
	tax := subtotal.Mul(c.rate).Round(moneyPlaces)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax).Round(moneyPlaces),
	}
}

// Apply calcula y fija los totales de la factura.
func (c *Calculator) Apply(inv *entity.Invoice) {
	t := c.Calculate(inv.Items)
	inv.Subtotal = t.Subtotal
	inv.TaxAmount = t.TaxAmount
	inv.Total = t.Total
}
