package billing

import (
	"bytes"
	"io"
	"os"

	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
)

// Source describe una fuente de registros. Open se llama una sola vez por
// operación y el lote cierra lo que devuelve, aun ante errores de lectura.
type Source struct {
	Name   string
	Format entity.SourceFormat
	Open   func() (io.ReadCloser, error)
}

// FileSource fuente respaldada por un archivo en disco.
func FileSource(path string, format entity.SourceFormat) Source {
	return Source{
		Name:   path,
		Format: format,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// BytesSource fuente en memoria (cargas HTTP, tests).
func BytesSource(name string, format entity.SourceFormat, data []byte) Source {
	return Source{
		Name:   name,
		Format: format,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
