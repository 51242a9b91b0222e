package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/jhoicas/Cotizaciones-api/internal/domain"
	"github.com/jhoicas/Cotizaciones-api/internal/domain/entity"
)

// jsonStream decodifica un elemento del arreglo raíz por llamada a Next.
type jsonStream struct {
	dec   *json.Decoder
	vocab entity.Vocabulary
	rec   entity.RawRecord
	index int
	err   error
	done  bool
}

func newJSONStream(data []byte, vocab entity.Vocabulary) (*jsonStream, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: json: %v", domain.ErrMalformedSource, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("%w: json: la raíz debe ser un arreglo de objetos", domain.ErrMalformedSource)
	}
	return &jsonStream{dec: dec, vocab: vocab}, nil
}

func (s *jsonStream) Next() bool {
	if s.done {
		return false
	}
	if !s.dec.More() {
		s.finish()
		return false
	}
	var obj map[string]json.RawMessage
	if err := s.dec.Decode(&obj); err != nil {
		s.fail(fmt.Errorf("%w: json: elemento %d: %v", domain.ErrMalformedSource, s.index+1, err))
		return false
	}
	if obj == nil {
		s.fail(fmt.Errorf("%w: json: elemento %d no es un objeto", domain.ErrMalformedSource, s.index+1))
		return false
	}
	s.index++
	rec, err := s.mapObject(s.index, obj)
	if err != nil {
		s.fail(err)
		return false
	}
	s.rec = rec
	return true
}

// finish consume el cierre del arreglo y verifica que no haya contenido extra.
func (s *jsonStream) finish() {
	s.done = true
	if _, err := s.dec.Token(); err != nil {
		s.err = fmt.Errorf("%w: json: %v", domain.ErrMalformedSource, err)
		return
	}
	if _, err := s.dec.Token(); !errors.Is(err, io.EOF) {
		s.err = fmt.Errorf("%w: json: contenido después del arreglo raíz", domain.ErrMalformedSource)
	}
}

func (s *jsonStream) fail(err error) {
	s.err = err
	s.done = true
}

func (s *jsonStream) Record() entity.RawRecord { return s.rec }

func (s *jsonStream) Err() error { return s.err }

// mapObject recorre las claves en orden alfabético; los alias que comparten
// destino se resuelven por prioridad (ver recordBuilder), no por ese orden.
func (s *jsonStream) mapObject(index int, obj map[string]json.RawMessage) (entity.RawRecord, error) {
	b := newRecordBuilder(index)
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		raw := obj[key]
		if key == entity.ItemsKey {
			if err := s.mapNestedItems(b, raw); err != nil {
				return b.rec, err
			}
			continue
		}
		k, known := s.vocab.Lookup(key)
		if !known {
			text, present, err := extraText(raw)
			if err != nil {
				return b.rec, fmt.Errorf("%w: json: elemento %d, clave %q: %v", domain.ErrMalformedSource, index, key, err)
			}
			if present {
				b.rec.Extra[key] = text
			}
			continue
		}
		text, present, err := scalarText(raw)
		if err != nil {
			return b.rec, fmt.Errorf("%w: json: elemento %d, clave %q: %v", domain.ErrMalformedSource, index, key, err)
		}
		if present {
			b.set(k, text)
		}
	}
	return b.rec, nil
}

// mapNestedItems asigna el elemento i de "items" a la posición i+1.
func (s *jsonStream) mapNestedItems(b *recordBuilder, raw json.RawMessage) error {
	if string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("%w: json: elemento %d: \"items\" debe ser un arreglo de objetos", domain.ErrMalformedSource, b.rec.Index)
	}
	for i, it := range items {
		slot := i + 1
		if slot > entity.MaxVocabularySlots {
			break
		}
		for _, key := range slices.Sorted(maps.Keys(it)) {
			k, ok := s.vocab.LookupItem(key, slot)
			if !ok {
				continue
			}
			text, present, err := scalarText(it[key])
			if err != nil {
				return fmt.Errorf("%w: json: elemento %d, ítem %d, clave %q: %v",
					domain.ErrMalformedSource, b.rec.Index, slot, key, err)
			}
			if present {
				b.set(k, text)
			}
		}
	}
	return nil
}

// scalarText devuelve el texto de un escalar JSON para un campo conocido. null
// es ausente; los números conservan su forma literal. Un objeto o arreglo en
// un campo conocido también cuenta como ausente.
func scalarText(raw json.RawMessage) (text string, present bool, err error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false, err
	}
	switch t := v.(type) {
	case string:
		return t, true, nil
	case json.Number:
		return t.String(), true, nil
	case bool:
		return strconv.FormatBool(t), true, nil
	default:
		return "", false, nil
	}
}

// extraText es scalarText para claves desconocidas: objetos y arreglos se
// conservan como JSON compacto en Extra.
func extraText(raw json.RawMessage) (string, bool, error) {
	text, present, err := scalarText(raw)
	if err != nil || present {
		return text, present, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return "", false, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return "", false, err
	}
	return buf.String(), true, nil
}
