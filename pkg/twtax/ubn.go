// Package twtax valida identificadores fiscales de Taiwán.
package twtax

import (
	"fmt"
	"unicode"
)

// pesos del 統一編號 (número unificado de empresa), aplicados de izquierda a derecha.
var ubnWeights = [8]int{1, 2, 1, 2, 1, 2, 4, 1}

// ValidateUBN valida el dígito de control de un 統一編號 de 8 dígitos.
// Acepta separadores ("1234-5678"); rechaza letras.
//
// Regla vigente desde 2023: la suma de los dígitos de cada producto debe ser
// múltiplo de 5. Si el séptimo dígito es 7 el producto 28 admite dos sumas,
// por eso también se acepta suma+1.
func ValidateUBN(taxID string) error {
	digits, err := extractDigits(taxID)
	if err != nil {
		return err
	}
	if len(digits) != 8 {
		return fmt.Errorf("twtax: 統一編號 debe tener 8 dígitos, se encontraron %d", len(digits))
	}
	sum := checksum(digits)
	if sum%5 == 0 {
		return nil
	}
	if digits[6] == '7' && (sum+1)%5 == 0 {
		return nil
	}
	return fmt.Errorf("twtax: dígito de control del 統一編號 %s inválido", string(digits))
}

// IsValidUBN es la forma booleana de ValidateUBN.
func IsValidUBN(taxID string) bool {
	return ValidateUBN(taxID) == nil
}

func checksum(digits []byte) int {
	var sum int
	for i, d := range digits {
		p := int(d-'0') * ubnWeights[i]
		sum += p/10 + p%10
	}
	return sum
}

func extractDigits(s string) ([]byte, error) {
	var out []byte
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			out = append(out, byte(r))
		case r == '-' || unicode.IsSpace(r):
		default:
			return nil, fmt.Errorf("twtax: carácter no permitido %q en 統一編號", r)
		}
	}
	return out, nil
}
