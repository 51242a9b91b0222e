package entity

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// LineItem representa un renglón facturable.
type LineItem struct {
	Slot           int    // posición del ítem en la fuente (1..N)
	Description    string // nunca vacío
	Quantity       int64
	Unit           string // unidad opcional que acompañaba a la cantidad ("包", "個月")
	UnitPrice      decimal.Decimal
	Amount         decimal.Decimal
	AmountSupplied bool // true si Amount vino en la fuente y no se calculó
}

// DisplayQuantity devuelve la cantidad con su unidad, tal como se imprime.
func (li LineItem) DisplayQuantity() string {
	q := strconv.FormatInt(li.Quantity, 10)
	if li.Unit == "" {
		return q
	}
	return q + li.Unit
}
