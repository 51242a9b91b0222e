package billing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizaciones-api/internal/application/dto"
	"github.com/jhoicas/Cotizaciones-api/internal/domain"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/invoicing"
)

// RecordError registro que no produjo documento, con su posición 1-based.
type RecordError struct {
	Index   int
	Reasons []string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("registro %d: %s", e.Index, strings.Join(e.Reasons, "; "))
}

func (e *RecordError) Unwrap() error { return domain.ErrValidation }

// Option configura colaboradores opcionales del caso de uso.
type Option func(*BatchUseCase)

// WithArchive persiste el resumen de cada RunBatch.
func WithArchive(a RunArchive) Option { return func(uc *BatchUseCase) { uc.archive = a } }

// WithObserver publica eventos del lote (métricas).
func WithObserver(o Observer) Option { return func(uc *BatchUseCase) { uc.observer = o } }

// WithClock fija el reloj usado para 請款日期 y CreatedAt.
func WithClock(now func() time.Time) Option { return func(uc *BatchUseCase) { uc.now = now } }

// WithLogger inyecta el logger estructurado.
func WithLogger(l zerolog.Logger) Option { return func(uc *BatchUseCase) { uc.log = l } }

// BatchUseCase recorre una fuente y produce un payload por registro válido:
// validar → normalizar → calcular → ensamblar. Un registro malo nunca aborta el lote.
// No guarda estado entre corridas; la configuración es inmutable.
type BatchUseCase struct {
	reader     RecordReader
	renderer   Renderer
	settings   Settings
	normalizer *invoicing.Normalizer
	calculator *invoicing.Calculator
	archive    RunArchive
	observer   Observer
	now        func() time.Time
	log        zerolog.Logger
}

// NewBatchUseCase construye el caso de uso y valida la configuración.
func NewBatchUseCase(reader RecordReader, renderer Renderer, settings Settings, opts ...Option) (*BatchUseCase, error) {
	uc := &BatchUseCase{
		reader:   reader,
		renderer: renderer,
		observer: noopObserver{},
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	if err := uc.applySettings(settings); err != nil {
		return nil, err
	}
	return uc, nil
}

// WithSettings devuelve una copia del caso de uso con otra configuración.
// El original no se modifica.
func (uc *BatchUseCase) WithSettings(settings Settings) (*BatchUseCase, error) {
	cp := *uc
	if err := cp.applySettings(settings); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (uc *BatchUseCase) applySettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	n, err := invoicing.NewNormalizer(s.MaxItems)
	if err != nil {
		return err
	}
	c, err := invoicing.NewCalculator(s.TaxRate)
	if err != nil {
		return err
	}
	uc.settings = s
	uc.normalizer = n
	uc.calculator = c
	return nil
}

// Settings devuelve la configuración vigente.
func (uc *BatchUseCase) Settings() Settings { return uc.settings }

// outcome resultado de un registro: payload o fallo, nunca ambos.
// dropped y truncated cuentan los ítems perdidos al normalizar.
type outcome struct {
	index     int
	payload   *dto.DocumentPayload
	failure   *RecordError
	dropped   int
	truncated int
}

// each abre la fuente una vez, la cierra al salir y entrega cada registro a
// visit. Cuando visit devuelve false los registros restantes se leen sin
// procesar, para que un error posterior de la fuente igual se informe.
func (uc *BatchUseCase) each(ctx context.Context, src Source, visit func(entity.RawRecord) bool) (err error) {
	if src.Open == nil {
		return fmt.Errorf("%w: fuente sin Open", domain.ErrInvalidInput)
	}
	rc, err := src.Open()
	if err != nil {
		return fmt.Errorf("billing: abrir fuente %s: %w", src.Name, err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("billing: cerrar fuente %s: %w", src.Name, cerr)
		}
	}()

	stream, err := uc.reader.Read(rc, src.Format)
	if err != nil {
		return fmt.Errorf("billing: leer fuente %s: %w", src.Name, err)
	}
	if c, ok := stream.(io.Closer); ok {
		defer c.Close()
	}

	visiting := true
	for stream.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if visiting {
			visiting = visit(stream.Record())
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("billing: leer fuente %s: %w", src.Name, err)
	}
	return nil
}

func (uc *BatchUseCase) meta() DocumentMeta {
	return DocumentMeta{BillingDate: uc.now(), TaxRate: uc.settings.TaxRate}
}

// process aplica validar → normalizar → calcular → ensamblar a un registro.
func (uc *BatchUseCase) process(rec entity.RawRecord, meta DocumentMeta) outcome {
	inv, err := uc.normalizer.Normalize(rec)
	if err != nil {
		var verr *invoicing.ValidationError
		reasons := []string{err.Error()}
		if errors.As(err, &verr) {
			reasons = verr.Reasons
		}
		return outcome{index: rec.Index, failure: &RecordError{Index: rec.Index, Reasons: reasons}}
	}
	uc.calculator.Apply(&inv)

	dropped := 0
	for _, w := range inv.Warnings {
		if w.Code == entity.WarningItemDropped {
			dropped++
		}
	}
	if dropped > 0 {
		uc.log.Warn().Int("index", rec.Index).Int("dropped", dropped).Msg("ítems descartados por valores no numéricos")
	}
	if inv.TruncatedItems > 0 {
		uc.log.Debug().Int("index", rec.Index).Int("truncated", inv.TruncatedItems).
			Int("max_items", uc.settings.MaxItems).Msg("ítems excedentes truncados")
	}

	payload := Assemble(inv, uc.settings.Company, meta)
	return outcome{index: rec.Index, payload: &payload, dropped: dropped, truncated: inv.TruncatedItems}
}

// observe publica las métricas por registro. Solo RunBatch las emite: las
// consultas (ListSummaries, Single) no cuentan como registros procesados.
func (uc *BatchUseCase) observe(o outcome) {
	if o.failure != nil {
		uc.observer.RecordProcessed(false)
		return
	}
	if o.dropped > 0 {
		uc.observer.ItemsDropped(DropReasonCoercion, o.dropped)
	}
	if o.truncated > 0 {
		uc.observer.ItemsDropped(DropReasonTruncated, o.truncated)
	}
	uc.observer.RecordProcessed(true)
}

// RunBatch procesa la fuente completa. Los registros inválidos quedan en
// Failures con su posición; los errores de la fuente (codificación, formato)
// abortan sin resultado.
func (uc *BatchUseCase) RunBatch(ctx context.Context, src Source) (*dto.BatchResult, error) {
	result := &dto.BatchResult{
		RunID:    uuid.NewString(),
		Payloads: []dto.DocumentPayload{},
		Failures: []dto.RecordFailure{},
	}
	meta := uc.meta()
	err := uc.each(ctx, src, func(rec entity.RawRecord) bool {
		o := uc.process(rec, meta)
		uc.observe(o)
		if o.failure != nil {
			result.Failures = append(result.Failures, dto.RecordFailure{Index: o.index, Reasons: o.failure.Reasons})
			return true
		}
		result.Payloads = append(result.Payloads, *o.payload)
		return true
	})
	if err != nil {
		uc.observer.RunFinished("error")
		uc.log.Error().Err(err).Str("source", src.Name).Msg("lote abortado")
		return nil, err
	}

	run := uc.summarize(result, src)
	uc.observer.RunFinished(run.Status)
	uc.log.Info().
		Str("run_id", run.ID).
		Str("source", src.Name).
		Int("records", run.Records).
		Int("succeeded", run.Succeeded).
		Int("failed", run.Failed).
		Msg("lote procesado")

	if uc.archive != nil {
		if err := uc.archive.Save(ctx, run); err != nil {
			// El resultado ya está calculado; el archivo es secundario.
			uc.log.Error().Err(err).Str("run_id", run.ID).Msg("archivar corrida")
		}
	}
	return result, nil
}

func (uc *BatchUseCase) summarize(result *dto.BatchResult, src Source) *entity.BatchRun {
	run := &entity.BatchRun{
		ID:         result.RunID,
		SourceName: src.Name,
		Format:     src.Format,
		Template:   uc.settings.Template,
		Succeeded:  len(result.Payloads),
		Failed:     len(result.Failures),
		Total:      decimal.Zero,
		CreatedAt:  uc.now(),
	}
	run.Records = run.Succeeded + run.Failed
	for _, p := range result.Payloads {
		run.Total = run.Total.Add(p.Total)
		run.Documents = append(run.Documents, entity.RunDocument{
			Index:         p.Index,
			CustomerName:  p.CustomerName,
			InvoiceNumber: p.InvoiceNumber,
			Total:         p.Total,
		})
	}
	switch {
	case run.Succeeded == 0:
		run.Status = entity.RunStatusEmpty
	case run.Failed > 0:
		run.Status = entity.RunStatusPartial
	default:
		run.Status = entity.RunStatusCompleted
	}
	return run
}

// ListSummaries índice liviano de los registros que producen documento, en orden de la fuente.
func (uc *BatchUseCase) ListSummaries(ctx context.Context, src Source) ([]dto.InvoiceSummary, error) {
	result := &dto.BatchResult{}
	meta := uc.meta()
	err := uc.each(ctx, src, func(rec entity.RawRecord) bool {
		if o := uc.process(rec, meta); o.payload != nil {
			result.Payloads = append(result.Payloads, *o.payload)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return result.Summaries(), nil
}

// Single produce el payload del registro en la posición index (1-based).
// La fuente se lee completa aunque el registro aparezca antes: un error de
// codificación o formato más adelante también invalida la respuesta.
//
// Retorna:
//   - domain.ErrNotFound  si index < 1 o supera la cantidad de registros.
//   - *RecordError        (domain.ErrValidation) si el registro existe pero es inválido.
func (uc *BatchUseCase) Single(ctx context.Context, src Source, index int) (*dto.DocumentPayload, error) {
	if index < 1 {
		return nil, fmt.Errorf("%w: el índice %d debe ser mayor o igual a 1", domain.ErrNotFound, index)
	}
	var (
		found *outcome
		count int
	)
	err := uc.each(ctx, src, func(rec entity.RawRecord) bool {
		count++
		if count == index {
			o := uc.process(rec, uc.meta())
			found = &o
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: registro %d (la fuente tiene %d)", domain.ErrNotFound, index, count)
	}
	if found.failure != nil {
		return nil, found.failure
	}
	return found.payload, nil
}

// Render entrega los payloads al renderizador con la plantilla configurada.
// Un fallo del renderizador se propaga envuelto en domain.ErrRendering, sin reintentos.
func (uc *BatchUseCase) Render(ctx context.Context, payloads []dto.DocumentPayload) ([]byte, error) {
	if len(payloads) == 0 {
		return nil, fmt.Errorf("%w: no hay documentos para generar", domain.ErrInvalidInput)
	}
	start := time.Now()
	out, err := uc.renderer.Render(ctx, payloads, uc.settings.Template)
	uc.observer.RenderObserved(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRendering, err)
	}
	return out, nil
}

// RenderBatch procesa la fuente y genera el documento con todos los payloads.
func (uc *BatchUseCase) RenderBatch(ctx context.Context, src Source) ([]byte, *dto.BatchResult, error) {
	result, err := uc.RunBatch(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	doc, err := uc.Render(ctx, result.Payloads)
	if err != nil {
		return nil, result, err
	}
	return doc, result, nil
}

// RenderSingle genera el documento de un único registro.
func (uc *BatchUseCase) RenderSingle(ctx context.Context, src Source, index int) ([]byte, error) {
	p, err := uc.Single(ctx, src, index)
	if err != nil {
		return nil, err
	}
	return uc.Render(ctx, []dto.DocumentPayload{*p})
}

// ListRuns devuelve las corridas archivadas, más recientes primero.
func (uc *BatchUseCase) ListRuns(ctx context.Context, limit, offset int) ([]*entity.BatchRun, error) {
	if uc.archive == nil {
		return nil, fmt.Errorf("%w: archivo de corridas no configurado", domain.ErrNotFound)
	}
	runs, err := uc.archive.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("billing: listar corridas: %w", err)
	}
	return runs, nil
}

// RunDocuments devuelve los documentos de una corrida archivada, en orden de la fuente.
func (uc *BatchUseCase) RunDocuments(ctx context.Context, runID string) ([]entity.RunDocument, error) {
	if uc.archive == nil {
		return nil, fmt.Errorf("%w: archivo de corridas no configurado", domain.ErrNotFound)
	}
	if _, err := uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("%w: id de corrida %q inválido", domain.ErrInvalidInput, runID)
	}
	docs, err := uc.archive.Documents(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("billing: documentos de la corrida %s: %w", runID, err)
	}
	return docs, nil
}
