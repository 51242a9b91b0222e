package source

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Cotizaciones-api/internal/domain"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
)

// xlsxStream recorre la primera hoja del libro fila por fila.
// La primera fila es el encabezado, igual que en CSV.
type xlsxStream struct {
	f      *excelize.File
	rows   *excelize.Rows
	vocab  entity.Vocabulary
	mapper *rowMapper
	rec    entity.RawRecord
	index  int
	err    error
	done   bool
	closed bool
}

func newXLSXStream(data []byte, vocab entity.Vocabulary) (*xlsxStream, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", domain.ErrMalformedSource, err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: xlsx: el libro no tiene hojas", domain.ErrMalformedSource)
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: xlsx: hoja %q: %v", domain.ErrMalformedSource, sheets[0], err)
	}
	return &xlsxStream{f: f, rows: rows, vocab: vocab}, nil
}

func (s *xlsxStream) Next() bool {
	if s.done {
		return false
	}
	for s.rows.Next() {
		cells, err := s.rows.Columns()
		if err != nil {
			s.close(fmt.Errorf("%w: xlsx: %v", domain.ErrMalformedSource, err))
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
	var err error
	if rerr := s.rows.Error(); rerr != nil {
		err = fmt.Errorf("%w: xlsx: %v", domain.ErrMalformedSource, rerr)
	}
	s.close(err)
	return false
}

// close libera el libro al terminar el recorrido o ante el primer error.
func (s *xlsxStream) close(err error) {
	s.err = err
	_ = s.Close()
}

// Close libera el libro si el consumidor abandona el recorrido antes del final.
func (s *xlsxStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.done = true
	_ = s.rows.Close()
	return s.f.Close()
}

func (s *xlsxStream) Record() entity.RawRecord { return s.rec }

func (s *xlsxStream) Err() error { return s.err }
