package billing

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/Cotizaciones-api/internal/application/dto"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
)

// RecordStream cursor perezoso sobre los registros de una fuente.
// Next devuelve false al terminar o ante un error; Err distingue ambos casos.
type RecordStream interface {
	Next() bool
	Record() entity.RawRecord
	Err() error
}

// RecordReader abre un flujo de registros sobre el contenido de una fuente.
// Errores posibles: domain.ErrEncoding, domain.ErrMalformedSource, domain.ErrUnsupportedFormat.
type RecordReader interface {
	Read(r io.Reader, format entity.SourceFormat) (RecordStream, error)
}

// Renderer convierte la lista de payloads en un único documento paginado.
type Renderer interface {
	Render(ctx context.Context, payloads []dto.DocumentPayload, template string) ([]byte, error)
}

// RunArchive persiste el resumen de cada corrida (opcional).
type RunArchive interface {
	Save(ctx context.Context, run *entity.BatchRun) error
	List(ctx context.Context, limit, offset int) ([]*entity.BatchRun, error)
	// Documents devuelve domain.ErrNotFound si la corrida no existe.
	Documents(ctx context.Context, runID string) ([]entity.RunDocument, error)
}

// Observer recibe eventos del lote para métricas (opcional).
type Observer interface {
	RecordProcessed(ok bool)
	ItemsDropped(reason string, n int)
	RunFinished(status string)
	RenderObserved(elapsed time.Duration, err error)
}

// Motivos de descarte de ítems informados al Observer.
const (
	DropReasonCoercion  = "coercion"
	DropReasonTruncated = "truncated"
)

type noopObserver struct{}

func (noopObserver) RecordProcessed(bool)                 {}
func (noopObserver) ItemsDropped(string, int)             {}
func (noopObserver) RunFinished(string)                   {}
func (noopObserver) RenderObserved(time.Duration, error) {}
