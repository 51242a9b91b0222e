package http

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizaciones-api/internal/application/billing"
	"github.com/jhoicas/Cotizaciones-api/internal/application/dto"
	"github.com/jhoicas/Cotizaciones-api/internal/domain"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
	"github.com/jhoicas/Cotizaciones-api/internal/infrastructure/source"
)

// SummaryExporter convierte el resultado de un lote en un libro XLSX.
type SummaryExporter func(result *dto.BatchResult) ([]byte, error)

// BatchHandler maneja la carga de fuentes y la generación de documentos.
type BatchHandler struct {
	uc     *billing.BatchUseCase
	export SummaryExporter
}

// NewBatchHandler construye el handler. export puede ser nil (sin /export).
func NewBatchHandler(uc *billing.BatchUseCase, export SummaryExporter) *BatchHandler {
	return &BatchHandler{uc: uc, export: export}
}

// Run godoc
// @Summary      Procesar un lote
// @Description  Recibe la fuente como multipart (campo "file") o como cuerpo crudo con ?format=csv|json|xlsx.
//               Devuelve un payload por registro válido y las posiciones de los registros rechazados.
// @Tags         batches
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        file      formData  file    false  "Fuente CSV, JSON o XLSX"
// @Param        format    query     string  false  "csv | json | xlsx (obligatorio con cuerpo crudo)"
// @Param        template  query     string  false  "invoice | quotation"
// @Success      200  {object}  dto.BatchResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Run(c *fiber.Ctx) error {
	uc, src, err := h.prepare(c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := uc.RunBatch(c.UserContext(), src)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

// Summaries godoc
// @Summary      Índice liviano del lote
// @Description  Cliente, número y total de cada registro que produce documento, en orden de la fuente.
// @Tags         batches
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        file    formData  file    false  "Fuente CSV, JSON o XLSX"
// @Param        format  query     string  false  "csv | json | xlsx"
// @Success      200  {array}   dto.InvoiceSummary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/batches/summaries [post]
func (h *BatchHandler) Summaries(c *fiber.Ctx) error {
	uc, src, err := h.prepare(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := uc.ListSummaries(c.UserContext(), src)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Document godoc
// @Summary      Payload de un registro
// @Tags         batches
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        index   path      int     true   "Posición 1-based del registro"
// @Param        file    formData  file    false  "Fuente CSV, JSON o XLSX"
// @Param        format  query     string  false  "csv | json | xlsx"
// @Success      200  {object}  dto.DocumentPayload
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/batches/documents/{index} [post]
func (h *BatchHandler) Document(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "index debe ser entero"})
	}
	uc, src, err := h.prepare(c)
	if err != nil {
		return writeError(c, err)
	}
	payload, err := uc.Single(c.UserContext(), src, index)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(payload)
}

// DocumentPDF godoc
// @Summary      PDF de un registro
// @Tags         batches
// @Security     Bearer
// @Accept       mpfd
// @Produce      application/pdf
// @Param        index     path      int     true   "Posición 1-based del registro"
// @Param        file      formData  file    false  "Fuente CSV, JSON o XLSX"
// @Param        format    query     string  false  "csv | json | xlsx"
// @Param        template  query     string  false  "invoice | quotation"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/batches/documents/{index}/pdf [post]
func (h *BatchHandler) DocumentPDF(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "index debe ser entero"})
	}
	uc, src, err := h.prepare(c)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := uc.RenderSingle(c.UserContext(), src, index)
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, "application/pdf", fmt.Sprintf("documento-%d.pdf", index), doc)
}

// PDF godoc
// @Summary      PDF del lote completo
// @Description  Una página por registro válido. La cantidad de registros rechazados va en X-Failed-Records.
// @Tags         batches
// @Security     Bearer
// @Accept       mpfd
// @Produce      application/pdf
// @Param        file      formData  file    false  "Fuente CSV, JSON o XLSX"
// @Param        format    query     string  false  "csv | json | xlsx"
// @Param        template  query     string  false  "invoice | quotation"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/batches/pdf [post]
func (h *BatchHandler) PDF(c *fiber.Ctx) error {
	uc, src, err := h.prepare(c)
	if err != nil {
		return writeError(c, err)
	}
	doc, result, err := uc.RenderBatch(c.UserContext(), src)
	if result != nil {
		c.Set("X-Run-ID", result.RunID)
		c.Set("X-Failed-Records", strconv.Itoa(len(result.Failures)))
	}
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, "application/pdf", "lote.pdf", doc)
}

// Export godoc
// @Summary      Resumen del lote en XLSX
// @Tags         batches
// @Security     Bearer
// @Accept       mpfd
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        file    formData  file    false  "Fuente CSV, JSON o XLSX"
// @Param        format  query     string  false  "csv | json | xlsx"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/batches/export [post]
func (h *BatchHandler) Export(c *fiber.Ctx) error {
	if h.export == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "exportación no configurada"})
	}
	uc, src, err := h.prepare(c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := uc.RunBatch(c.UserContext(), src)
	if err != nil {
		return writeError(c, err)
	}
	book, err := h.export(result)
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "resumen.xlsx", book)
}

// Runs godoc
// @Summary      Corridas archivadas
// @Tags         runs
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "default 20, max 100"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {array}   dto.RunResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/runs [get]
func (h *BatchHandler) Runs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit/offset inválidos"})
	}
	page.Normalize()
	runs, err := h.uc.ListRuns(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.RunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, dto.RunResponse{
			ID:         r.ID,
			SourceName: r.SourceName,
			Format:     string(r.Format),
			Template:   r.Template,
			Records:    r.Records,
			Succeeded:  r.Succeeded,
			Failed:     r.Failed,
			Status:     r.Status,
			Total:      r.Total,
			CreatedAt:  r.CreatedAt,
		})
	}
	return c.JSON(out)
}

// RunDocuments godoc
// @Summary      Documentos de una corrida archivada
// @Tags         runs
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la corrida (UUID)"
// @Success      200  {array}   dto.InvoiceSummary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/runs/{id}/documents [get]
func (h *BatchHandler) RunDocuments(c *fiber.Ctx) error {
	docs, err := h.uc.RunDocuments(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.InvoiceSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, dto.InvoiceSummary{
			Index:         d.Index,
			CustomerName:  d.CustomerName,
			InvoiceNumber: d.InvoiceNumber,
			Total:         d.Total,
		})
	}
	return c.JSON(out)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// prepare resuelve la plantilla pedida y arma la fuente desde la petición.
func (h *BatchHandler) prepare(c *fiber.Ctx) (*billing.BatchUseCase, billing.Source, error) {
	uc := h.uc
	if tpl := c.Query("template"); tpl != "" && tpl != uc.Settings().Template {
		s := uc.Settings()
		s.Template = tpl
		var err error
		if uc, err = uc.WithSettings(s); err != nil {
			return nil, billing.Source{}, err
		}
	}
	src, err := sourceFromRequest(c)
	return uc, src, err
}

// sourceFromRequest toma el archivo multipart "file" o, si no hay, el cuerpo crudo.
// El formato sale de ?format= o de la extensión del archivo.
func sourceFromRequest(c *fiber.Ctx) (billing.Source, error) {
	explicit := c.Query("format")

	if fh, err := c.FormFile("file"); err == nil {
		format, err := resolveFormat(explicit, fh.Filename)
		if err != nil {
			return billing.Source{}, err
		}
		f, err := fh.Open()
		if err != nil {
			return billing.Source{}, fmt.Errorf("%w: no se pudo abrir el archivo", domain.ErrInvalidInput)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return billing.Source{}, fmt.Errorf("%w: no se pudo leer el archivo", domain.ErrInvalidInput)
		}
		return billing.BytesSource(fh.Filename, format, data), nil
	}

	body := c.Body()
	if len(body) == 0 {
		return billing.Source{}, fmt.Errorf("%w: falta el archivo (campo \"file\") o el cuerpo", domain.ErrInvalidInput)
	}
	if explicit == "" {
		return billing.Source{}, fmt.Errorf("%w: con cuerpo crudo ?format= es obligatorio", domain.ErrInvalidInput)
	}
	format, err := source.ParseFormat(explicit)
	if err != nil {
		return billing.Source{}, err
	}
	// El cuerpo de fasthttp se reutiliza al terminar la petición: se copia.
	data := append([]byte(nil), body...)
	return billing.BytesSource("body."+string(format), format, data), nil
}

func resolveFormat(explicit, filename string) (entity.SourceFormat, error) {
	if explicit != "" {
		return source.ParseFormat(explicit)
	}
	return source.DetectFormat(filename)
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// writeError traduce los errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var recErr *billing.RecordError
	switch {
	case errors.As(err, &recErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_RECORD", Message: recErr.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(dto.ErrorResponse{Code: "UNSUPPORTED_FORMAT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrEncoding):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "ENCODING", Message: err.Error()})
	case errors.Is(err, domain.ErrMalformedSource):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "MALFORMED_SOURCE", Message: err.Error()})
	case errors.Is(err, domain.ErrRendering):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "RENDER_FAILED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
