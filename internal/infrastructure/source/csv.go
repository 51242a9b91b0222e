package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/jhoicas/Cotizaciones-api/internal/domain"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
)

// csvStream lee una fila por llamada a Next. La primera fila es el encabezado.
// Las filas completamente vacías se saltan y no consumen posición.
type csvStream struct {
	r      *csv.Reader
	vocab  entity.Vocabulary
	mapper *rowMapper
	rec    entity.RawRecord
	index  int
	err    error
	done   bool
}

func newCSVStream(data []byte, vocab entity.Vocabulary) *csvStream {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	return &csvStream{r: r, vocab: vocab}
}

func (s *csvStream) Next() bool {
	if s.done {
		return false
	}
	for {
		cells, err := s.r.Read()
		if errors.Is(err, io.EOF) {
			s.done = true
			return false
		}
		if err != nil {
			s.fail(fmt.Errorf("%w: csv: %v", domain.ErrMalformedSource, err))
			return false
		}
		if s.mapper == nil {
			m := newRowMapper(s.vocab, cells)
			s.mapper = &m
			continue
		}
		if isRowBlank(cells) {
			continue
		}
		s.index++
		s.rec = s.mapper.mapRow(s.index, cells)
		return true
	}
}

func (s *csvStream) fail(err error) {
	s.err = err
	s.done = true
}

func (s *csvStream) Record() entity.RawRecord { return s.rec }

func (s *csvStream) Err() error { return s.err }
