// Package invoicing contiene las reglas de dominio del armado de facturas:
// validación de registros crudos, normalización a entity.Invoice y cálculo de totales.
// No hace E/S.
package invoicing

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Cotizaciones-api/internal/domain"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
)

// ValidationResult marca un registro como válido o inválido con sus motivos.
type ValidationResult struct {
	Valid   bool
	Reasons []string
}

// Validate verifica los campos obligatorios del registro. Nunca falla: todos los
// motivos se informan juntos, en el orden del vocabulario.
func Validate(rec entity.RawRecord) ValidationResult {
	var reasons []string
	for _, f := range entity.RequiredFields {
		if rec.Get(f) == "" {
			reasons = append(reasons, string(f)+" missing")
		}
	}
	return ValidationResult{Valid: len(reasons) == 0, Reasons: reasons}
}

// ValidationError es el error de un registro que no pasó la validación.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrValidation, strings.Join(e.Reasons, ", "))
}

func (e *ValidationError) Unwrap() error { return domain.ErrValidation }
