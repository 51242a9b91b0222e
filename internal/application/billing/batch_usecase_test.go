package billing_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizaciones-api/internal/application/billing"
	"github.com/jhoicas/Cotizaciones-api/internal/application/dto"
	"github.com/jhoicas/Cotizaciones-api/internal/domain"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
	"github.com/jhoicas/Cotizaciones-api/internal/infrastructure/source"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeRenderer struct {
	calls    int
	payloads []dto.DocumentPayload
	template string
	err      error
}

func (f *fakeRenderer) Render(_ context.Context, payloads []dto.DocumentPayload, template string) ([]byte, error) {
	f.calls++
	f.payloads = payloads
	f.template = template
	if f.err != nil {
		return nil, f.err
	}
	return []byte(fmt.Sprintf("%%PDF-%d", len(payloads))), nil
}

type fakeArchive struct {
	saved []*entity.BatchRun
	err   error
}

func (f *fakeArchive) Save(_ context.Context, run *entity.BatchRun) error {
	f.saved = append(f.saved, run)
	return f.err
}

func (f *fakeArchive) List(_ context.Context, limit, offset int) ([]*entity.BatchRun, error) {
	if offset >= len(f.saved) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.saved) {
		end = len(f.saved)
	}
	return f.saved[offset:end], nil
}

func (f *fakeArchive) Documents(_ context.Context, runID string) ([]entity.RunDocument, error) {
	for _, run := range f.saved {
		if run.ID == runID {
			return run.Documents, nil
		}
	}
	return nil, fmt.Errorf("%w: corrida %s", domain.ErrNotFound, runID)
}

type fakeObserver struct {
	ok, invalid int
	dropped     map[string]int
	runs        []string
	renders     int
	renderErrs  int
}

func (f *fakeObserver) RecordProcessed(ok bool) {
	if ok {
		f.ok++
	} else {
		f.invalid++
	}
}

func (f *fakeObserver) ItemsDropped(reason string, n int) {
	if f.dropped == nil {
		f.dropped = map[string]int{}
	}
	f.dropped[reason] += n
}

func (f *fakeObserver) RunFinished(status string) { f.runs = append(f.runs, status) }

func (f *fakeObserver) RenderObserved(_ time.Duration, err error) {
	f.renders++
	if err != nil {
		f.renderErrs++
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

// tenRecordsCSV diez registros; el cuarto no tiene 發票號碼.
func tenRecordsCSV() string {
	var b strings.Builder
	b.WriteString("客戶名稱,發票號碼,品項1,數量,單價\n")
	for i := 1; i <= 10; i++ {
		number := fmt.Sprintf("INV-%03d", i)
		if i == 4 {
			number = ""
		}
		fmt.Fprintf(&b, "Cliente %d,%s,Servicio,%d,100\n", i, number, i)
	}
	return b.String()
}

func csvSource(data string) billing.Source {
	return billing.BytesSource("lote.csv", entity.FormatCSV, []byte(data))
}

func newUseCase(t *testing.T, renderer billing.Renderer, opts ...billing.Option) *billing.BatchUseCase {
	t.Helper()
	settings := billing.DefaultSettings()
	settings.Company = entity.CompanyProfile{Name: "Demo Co", TaxID: "04595257"}
	opts = append([]billing.Option{billing.WithClock(func() time.Time { return fixedNow })}, opts...)
	uc, err := billing.NewBatchUseCase(source.NewReader(entity.DefaultVocabulary()), renderer, settings, opts...)
	require.NoError(t, err)
	return uc
}

// ──────────────────────────────────────────────────────────────────────────────
// RunBatch
// ──────────────────────────────────────────────────────────────────────────────

func TestRunBatch_RegistroInvalidoNoDetieneElLote(t *testing.T) {
	uc := newUseCase(t, &fakeRenderer{})

	result, err := uc.RunBatch(context.Background(), csvSource(tenRecordsCSV()))
	require.NoError(t, err)

	require.Len(t, result.Payloads, 9)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, dto.RecordFailure{Index: 4, Reasons: []string{"invoiceNumber missing"}}, result.Failures[0])

	var indices []int
	for _, p := range result.Payloads {
		indices = append(indices, p.Index)
	}
	assert.Equal(t, []int{1, 2, 3, 5, 6, 7, 8, 9, 10}, indices, "orden de la fuente")

	last := result.Payloads[8]
	assert.Equal(t, "Cliente 10", last.CustomerName)
	assert.Equal(t, "1000", last.Subtotal.String())
	assert.Equal(t, "50", last.TaxAmount.String())
	assert.Equal(t, "1050", last.Total.String())
	assert.Equal(t, "2024-02-01", last.BillingDate)
	assert.Equal(t, "Demo Co", last.Company.Name)
}

func TestRunBatch_ArchivaYPublicaMetricas(t *testing.T) {
	archive := &fakeArchive{}
	obs := &fakeObserver{}
	uc := newUseCase(t, &fakeRenderer{}, billing.WithArchive(archive), billing.WithObserver(obs))

	result, err := uc.RunBatch(context.Background(), csvSource(tenRecordsCSV()))
	require.NoError(t, err)

	require.Len(t, archive.saved, 1)
	run := archive.saved[0]
	assert.Equal(t, result.RunID, run.ID)
	assert.Equal(t, entity.RunStatusPartial, run.Status)
	assert.Equal(t, 10, run.Records)
	assert.Equal(t, 9, run.Succeeded)
	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, fixedNow, run.CreatedAt)
	assert.Len(t, run.Documents, 9)

	sum := decimal.Zero
	for _, p := range result.Payloads {
		sum = sum.Add(p.Total)
	}
	assert.True(t, sum.Equal(run.Total))

	assert.Equal(t, 9, obs.ok)
	assert.Equal(t, 1, obs.invalid)
	assert.Equal(t, []string{entity.RunStatusPartial}, obs.runs)
}

func TestRunBatch_FalloDelArchivoNoFallaElLote(t *testing.T) {
	archive := &fakeArchive{err: errors.New("db caída")}
	uc := newUseCase(t, &fakeRenderer{}, billing.WithArchive(archive))

	result, err := uc.RunBatch(context.Background(), csvSource(tenRecordsCSV()))
	require.NoError(t, err)
	assert.Len(t, result.Payloads, 9)
}

func TestRunBatch_EstadoVacioYCompleto(t *testing.T) {
	obs := &fakeObserver{}
	uc := newUseCase(t, &fakeRenderer{}, billing.WithObserver(obs))

	_, err := uc.RunBatch(context.Background(), csvSource("客戶名稱,發票號碼\n,INV-1\n"))
	require.NoError(t, err)
	_, err = uc.RunBatch(context.Background(), csvSource("客戶名稱,發票號碼\nAcme,INV-1\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{entity.RunStatusEmpty, entity.RunStatusCompleted}, obs.runs)
}

func TestRunBatch_ErroresDeFuenteAbortan(t *testing.T) {
	uc := newUseCase(t, &fakeRenderer{})

	result, err := uc.RunBatch(context.Background(), csvSource("客戶名稱,發票號碼\n\xff,INV-1\n"))
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrEncoding))

	_, err = uc.RunBatch(context.Background(), billing.BytesSource("x.json", entity.FormatJSON, []byte(`{"a":1}`)))
	assert.True(t, errors.Is(err, domain.ErrMalformedSource))

	openErr := errors.New("permiso denegado")
	_, err = uc.RunBatch(context.Background(), billing.Source{
		Name:   "roto.csv",
		Format: entity.FormatCSV,
		Open:   func() (io.ReadCloser, error) { return nil, openErr },
	})
	assert.True(t, errors.Is(err, openErr))

	_, err = uc.RunBatch(context.Background(), billing.Source{Name: "sin-open"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRunBatch_ContextoCancelado(t *testing.T) {
	uc := newUseCase(t, &fakeRenderer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.RunBatch(ctx, csvSource(tenRecordsCSV()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBatch_TruncaItemsExcedentes(t *testing.T) {
	obs := &fakeObserver{}
	uc := newUseCase(t, &fakeRenderer{}, billing.WithObserver(obs))

	data := `[{"customer_name": "Acme", "invoice_number": "INV-1", "items": [
		{"name": "A", "quantity": 1, "unit_price": 1},
		{"name": "B", "quantity": 1, "unit_price": 2},
		{"name": "C", "quantity": 1, "unit_price": "x"},
		{"name": "D", "quantity": 1, "unit_price": 4},
		{"name": "E", "quantity": 1, "unit_price": 5}
	]}]`
	result, err := uc.RunBatch(context.Background(), billing.BytesSource("x.json", entity.FormatJSON, []byte(data)))
	require.NoError(t, err)
	require.Len(t, result.Payloads, 1)

	p := result.Payloads[0]
	require.Len(t, p.Items, 3, "C se descarta y E queda fuera del máximo de 4")
	assert.Equal(t, []int{1, 2, 3}, []int{p.Items[0].No, p.Items[1].No, p.Items[2].No})
	assert.Equal(t, "D", p.Items[2].Description)
	assert.Equal(t, "7", p.Subtotal.String())
	assert.Len(t, p.Warnings, 1)
	assert.Equal(t, map[string]int{billing.DropReasonCoercion: 1, billing.DropReasonTruncated: 1}, obs.dropped)
}

// ──────────────────────────────────────────────────────────────────────────────
// ListSummaries y Single
// ──────────────────────────────────────────────────────────────────────────────

func TestListSummaries_SoloValidos(t *testing.T) {
	uc := newUseCase(t, &fakeRenderer{})

	list, err := uc.ListSummaries(context.Background(), csvSource(tenRecordsCSV()))
	require.NoError(t, err)
	require.Len(t, list, 9)
	assert.Equal(t, dto.InvoiceSummary{Index: 5, CustomerName: "Cliente 5", InvoiceNumber: "INV-005", Total: list[3].Total}, list[3])
	assert.Equal(t, "525", list[3].Total.String())
}

func TestSingle_CoincideConElLote(t *testing.T) {
	uc := newUseCase(t, &fakeRenderer{})
	src := csvSource(tenRecordsCSV())

	result, err := uc.RunBatch(context.Background(), src)
	require.NoError(t, err)

	for _, want := range result.Payloads {
		got, err := uc.Single(context.Background(), src, want.Index)
		require.NoError(t, err)
		assert.Equal(t, want, *got, "registro %d", want.Index)
	}
}

func TestSingle_Errores(t *testing.T) {
	uc := newUseCase(t, &fakeRenderer{})
	src := csvSource(tenRecordsCSV())

	_, err := uc.Single(context.Background(), src, 11)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Contains(t, err.Error(), "tiene 10")

	_, err = uc.Single(context.Background(), src, 0)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.Single(context.Background(), src, 4)
	var recErr *billing.RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, 4, recErr.Index)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestSingle_ErrorPosteriorDeLaFuente(t *testing.T) {
	uc := newUseCase(t, &fakeRenderer{})
	data := "客戶名稱,發票號碼,品項1,數量,單價\n" +
		"Acme,INV-1,Servicio,1,100\n" +
		"Ac\"me,INV-2,Servicio,1,100\n"

	_, err := uc.Single(context.Background(), csvSource(data), 1)
	assert.True(t, errors.Is(err, domain.ErrMalformedSource))
}

func TestConsultasNoPublicanMetricasPorRegistro(t *testing.T) {
	obs := &fakeObserver{}
	uc := newUseCase(t, &fakeRenderer{}, billing.WithObserver(obs))
	src := csvSource(tenRecordsCSV())

	_, err := uc.ListSummaries(context.Background(), src)
	require.NoError(t, err)
	_, err = uc.Single(context.Background(), src, 2)
	require.NoError(t, err)
	_, err = uc.Single(context.Background(), src, 4)
	require.Error(t, err)

	assert.Zero(t, obs.ok)
	assert.Zero(t, obs.invalid)
	assert.Empty(t, obs.dropped)
	assert.Empty(t, obs.runs)
}

// ──────────────────────────────────────────────────────────────────────────────
// Render
// ──────────────────────────────────────────────────────────────────────────────

func TestRenderBatch_UnaPaginaPorValido(t *testing.T) {
	renderer := &fakeRenderer{}
	obs := &fakeObserver{}
	uc := newUseCase(t, renderer, billing.WithObserver(obs))

	doc, result, err := uc.RenderBatch(context.Background(), csvSource(tenRecordsCSV()))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-9", string(doc))
	assert.Equal(t, result.Payloads, renderer.payloads)
	assert.Equal(t, billing.TemplateInvoice, renderer.template)
	assert.Equal(t, 1, obs.renders)
}

func TestRender_FalloDelRenderizadorSePropaga(t *testing.T) {
	cause := errors.New("fuente no encontrada")
	renderer := &fakeRenderer{err: cause}
	obs := &fakeObserver{}
	uc := newUseCase(t, renderer, billing.WithObserver(obs))

	_, result, err := uc.RenderBatch(context.Background(), csvSource(tenRecordsCSV()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRendering))
	assert.True(t, errors.Is(err, cause))
	assert.NotNil(t, result, "el resultado del lote sigue disponible")
	assert.Equal(t, 1, renderer.calls, "sin reintentos")
	assert.Equal(t, 1, obs.renderErrs)
}

func TestRender_SinPayloads(t *testing.T) {
	renderer := &fakeRenderer{}
	uc := newUseCase(t, renderer)

	_, err := uc.Render(context.Background(), nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Zero(t, renderer.calls)
}

func TestRenderSingle(t *testing.T) {
	renderer := &fakeRenderer{}
	uc := newUseCase(t, renderer)

	doc, err := uc.RenderSingle(context.Background(), csvSource(tenRecordsCSV()), 2)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1", string(doc))
	assert.Equal(t, "Cliente 2", renderer.payloads[0].CustomerName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuración
// ──────────────────────────────────────────────────────────────────────────────

func TestWithSettings_NoModificaElOriginal(t *testing.T) {
	renderer := &fakeRenderer{}
	uc := newUseCase(t, renderer)

	s := uc.Settings()
	s.Template = billing.TemplateQuotation
	s.TaxRate = decimal.RequireFromString("0.1")
	quote, err := uc.WithSettings(s)
	require.NoError(t, err)

	_, _, err = quote.RenderBatch(context.Background(), csvSource("客戶名稱,發票號碼,品項1,數量,單價\nAcme,INV-1,A,1,100\n"))
	require.NoError(t, err)
	assert.Equal(t, billing.TemplateQuotation, renderer.template)
	assert.Equal(t, "110", renderer.payloads[0].Total.String())

	assert.Equal(t, billing.TemplateInvoice, uc.Settings().Template)

	s.Template = "recibo"
	_, err = uc.WithSettings(s)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestNewBatchUseCase_ConfigInvalida(t *testing.T) {
	reader := source.NewReader(entity.DefaultVocabulary())

	s := billing.DefaultSettings()
	s.TaxRate = decimal.RequireFromString("1.5")
	_, err := billing.NewBatchUseCase(reader, &fakeRenderer{}, s)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	s = billing.DefaultSettings()
	s.MaxItems = 11
	_, err = billing.NewBatchUseCase(reader, &fakeRenderer{}, s)
	assert.Error(t, err)
}

func TestListRuns(t *testing.T) {
	uc := newUseCase(t, &fakeRenderer{})
	_, err := uc.ListRuns(context.Background(), 10, 0)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	archive := &fakeArchive{}
	uc = newUseCase(t, &fakeRenderer{}, billing.WithArchive(archive))
	_, err = uc.RunBatch(context.Background(), csvSource(tenRecordsCSV()))
	require.NoError(t, err)

	runs, err := uc.ListRuns(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunDocuments(t *testing.T) {
	uc := newUseCase(t, &fakeRenderer{})
	_, err := uc.RunDocuments(context.Background(), "6f1c2d0e-3b1a-4c55-9a6e-2f6b7d1e9a10")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	archive := &fakeArchive{}
	uc = newUseCase(t, &fakeRenderer{}, billing.WithArchive(archive))
	result, err := uc.RunBatch(context.Background(), csvSource(tenRecordsCSV()))
	require.NoError(t, err)

	docs, err := uc.RunDocuments(context.Background(), result.RunID)
	require.NoError(t, err)
	require.Len(t, docs, 9)
	assert.Equal(t, entity.RunDocument{Index: 5, CustomerName: "Cliente 5", InvoiceNumber: "INV-005", Total: docs[3].Total}, docs[3])
	assert.Equal(t, "525", docs[3].Total.String())

	_, err = uc.RunDocuments(context.Background(), "no-es-uuid")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.RunDocuments(context.Background(), "6f1c2d0e-3b1a-4c55-9a6e-2f6b7d1e9a10")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
