// Package source lee fuentes de registros (CSV, JSON, XLSX) y las expone como
// flujos perezosos de entity.RawRecord.
//
// El contenido se lee completo una vez para verificar la codificación antes de
// producir el primer registro: una fuente con bytes inválidos no produce nada.
package source

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Cotizaciones-api/internal/application/billing"
	"github.com/jhoicas/Cotizaciones-api/internal/domain"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
)

var _ billing.RecordReader = (*Reader)(nil)

// Codificaciones de entrada aceptadas para fuentes de texto.
const (
	CharsetUTF8 = "utf-8"
	CharsetBig5 = "big5" // planillas exportadas por Excel en Windows (zh-TW)
)

// Reader implementa billing.RecordReader.
type Reader struct {
	vocab   entity.Vocabulary
	charset string
}

// ReaderOption configura el lector.
type ReaderOption func(*Reader)

// WithCharset acepta una codificación heredada para CSV y JSON. Por defecto solo UTF-8.
func WithCharset(charset string) ReaderOption {
	return func(r *Reader) { r.charset = strings.ToLower(strings.TrimSpace(charset)) }
}

// NewReader construye el lector con el vocabulario de campos.
func NewReader(vocab entity.Vocabulary, opts ...ReaderOption) *Reader {
	r := &Reader{vocab: vocab, charset: CharsetUTF8}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read consume el contenido y devuelve el flujo de registros del formato indicado.
func (r *Reader) Read(in io.Reader, format entity.SourceFormat) (billing.RecordStream, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("source: leer contenido: %w", err)
	}
	switch format {
	case entity.FormatCSV, entity.FormatJSON:
		text, err := r.decodeText(data)
		if err != nil {
			return nil, err
		}
		if format == entity.FormatCSV {
			return newCSVStream(text, r.vocab), nil
		}
		return newJSONStream(text, r.vocab)
	case entity.FormatXLSX:
		return newXLSXStream(data, r.vocab)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

// decodeText valida la codificación completa y quita el BOM.
func (r *Reader) decodeText(data []byte) ([]byte, error) {
	switch r.charset {
	case CharsetUTF8, "utf8", "":
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%w: %s", domain.ErrEncoding, firstInvalidOffset(data))
		}
		out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrEncoding, err)
		}
		return out, nil
	case CharsetBig5:
		out, _, err := transform.Bytes(traditionalchinese.Big5.NewDecoder(), data)
		if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
			return nil, fmt.Errorf("%w: contenido Big5 inválido", domain.ErrEncoding)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: codificación %q no soportada", domain.ErrEncoding, r.charset)
	}
}

func firstInvalidOffset(data []byte) string {
	for i := 0; i < len(data); {
		rn, size := utf8.DecodeRune(data[i:])
		if rn == utf8.RuneError && size <= 1 {
			return fmt.Sprintf("byte inválido en la posición %d", i)
		}
		i += size
	}
	return "secuencia inválida"
}

// DetectFormat deduce el formato por la extensión del archivo.
func DetectFormat(filename string) (entity.SourceFormat, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// ParseFormat traduce el nombre de un formato ("csv", "JSON", ".xlsx").
func ParseFormat(name string) (entity.SourceFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "csv":
		return entity.FormatCSV, nil
	case "json":
		return entity.FormatJSON, nil
	case "xlsx":
		return entity.FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, name)
	}
}

// ── Mapeo de filas tabulares (CSV y XLSX) ──────────────────────────────────────

type rowMapper struct {
	headers []string
	keys    []entity.Key
	known   []bool
}

func newRowMapper(vocab entity.Vocabulary, headers []string) rowMapper {
	m := rowMapper{
		headers: make([]string, len(headers)),
		keys:    make([]entity.Key, len(headers)),
		known:   make([]bool, len(headers)),
	}
	for i, h := range headers {
		m.headers[i] = strings.TrimSpace(h)
		m.keys[i], m.known[i] = vocab.Lookup(h)
	}
	return m
}

// mapRow convierte las celdas de una fila; celdas sin encabezado se ignoran.
// Si dos columnas apuntan al mismo campo gana el alias declarado primero.
func (m rowMapper) mapRow(index int, cells []string) entity.RawRecord {
	b := newRecordBuilder(index)
	for i, cell := range cells {
		if i >= len(m.headers) {
			break
		}
		if !m.known[i] {
			if m.headers[i] != "" {
				b.rec.Extra[m.headers[i]] = cell
			}
			continue
		}
		b.set(m.keys[i], cell)
	}
	return b.rec
}

// recordBuilder arma un RawRecord resolviendo alias repetidos por Key.Rank.
type recordBuilder struct {
	rec   entity.RawRecord
	ranks map[entity.Key]int
}

func newRecordBuilder(index int) *recordBuilder {
	return &recordBuilder{rec: entity.NewRawRecord(index), ranks: make(map[entity.Key]int)}
}

// set asigna value salvo que el destino ya tenga un alias de igual o mayor prioridad.
func (b *recordBuilder) set(k entity.Key, value string) {
	target := k.Target()
	if rank, seen := b.ranks[target]; seen && !k.Outranks(rank) {
		return
	}
	b.ranks[target] = k.Rank
	if k.IsItem() {
		b.rec.SetItem(k.Slot, k.Attr, value)
	} else {
		b.rec.Fields[k.Field] = value
	}
}

func isRowBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
