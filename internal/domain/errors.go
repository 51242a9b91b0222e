package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")

	// Errores de la fuente: abortan el lote completo.
	ErrEncoding          = errors.New("la fuente no está codificada en UTF-8")
	ErrMalformedSource   = errors.New("fuente mal formada")
	ErrUnsupportedFormat = errors.New("formato de fuente no soportado")

	// Errores por registro o por ítem: se acumulan en el resultado del lote.
	ErrValidation   = errors.New("registro inválido")
	ErrTypeCoercion = errors.New("valor no numérico")

	// ErrRendering envuelve cualquier fallo del renderizador; nunca se reintenta.
	ErrRendering = errors.New("falló la generación del documento")
)
