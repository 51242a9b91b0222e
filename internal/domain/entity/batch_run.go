package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceFormat es el formato de una fuente de registros.
type SourceFormat string

// Formatos de fuente soportados.
const (
	FormatCSV  SourceFormat = "csv"
	FormatJSON SourceFormat = "json"
	FormatXLSX SourceFormat = "xlsx"
)

// Estados de una corrida de lote.
const (
	RunStatusCompleted = "COMPLETED" // todos los registros produjeron documento
	RunStatusPartial   = "PARTIAL"   // hubo registros fallidos
	RunStatusEmpty     = "EMPTY"     // ningún registro produjo documento
)

// BatchRun es el resumen archivado de una corrida de lote.
type BatchRun struct {
	ID         string
	SourceName string
	Format     SourceFormat
	Template   string
	Records    int
	Succeeded  int
	Failed     int
	Status     string
	Total      decimal.Decimal // suma de los totales de las facturas producidas
	Documents  []RunDocument
	CreatedAt  time.Time
}

// RunDocument es una factura producida dentro de una corrida.
type RunDocument struct {
	Index         int
	CustomerName  string
	InvoiceNumber string
	Total         decimal.Decimal
}
