// Package document provides the semi-structured, ordered-key document type
// used by every archive entity, together with the field check toolkit the
// entity layer builds its validation tables from.
//
// A Document preserves key insertion order through JSON round-trips, because
// key order is part of the storage and wire contract of archived records.
// Numbers decoded from JSON are kept as json.Number so that the distinction
// between a strict integer and a strict real survives validation.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Document is an insertion-ordered mapping from string keys to values.
// Supported value kinds: string, bool, integers, floats, json.Number,
// *Document, []*Document, and nil.
type Document struct {
	keys   []string
	values map[string]any
}

// New returns an empty document.
func New() *Document {
	return &Document{values: make(map[string]any)}
}

// Set stores v under key. A new key is appended to the key order; an
// existing key keeps its position.
func (d *Document) Set(key string, v any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Delete removes key and its position in the key order. Missing keys are a
// no-op.
func (d *Document) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of keys.
func (d *Document) Len() int {
	return len(d.keys)
}

// String returns the value under key if it is a string.
func (d *Document) String(key string) (string, bool) {
	v, ok := d.values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Uint returns the value under key as an unsigned integer. It accepts the
// native integer kinds, integral floats, and integral json.Number values.
func (d *Document) Uint(key string) (uint64, bool) {
	v, ok := d.values[key]
	if !ok {
		return 0, false
	}
	n, ok := intValue(v)
	if !ok || n < 0 {
		return 0, false
	}
	return uint64(n), true
}

// Int returns the value under key as an int64 when it is integral.
func (d *Document) Int(key string) (int64, bool) {
	v, ok := d.values[key]
	if !ok {
		return 0, false
	}
	return intValue(v)
}

// Float returns the value under key as a float64 for any numeric value,
// integer or real.
func (d *Document) Float(key string) (float64, bool) {
	v, ok := d.values[key]
	if !ok {
		return 0, false
	}
	return floatValue(v)
}

// Documents returns the value under key as a slice of subdocuments.
func (d *Document) Documents(key string) ([]*Document, bool) {
	v, ok := d.values[key]
	if !ok {
		return nil, false
	}
	subs, ok := v.([]*Document)
	return subs, ok
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := New()
	for _, k := range d.keys {
		switch v := d.values[k].(type) {
		case *Document:
			out.Set(k, v.Clone())
		case []*Document:
			subs := make([]*Document, len(v))
			for i, sub := range v {
				subs[i] = sub.Clone()
			}
			out.Set(k, subs)
		default:
			out.Set(k, v)
		}
	}
	return out
}

// MarshalJSON encodes the document as a JSON object with keys in insertion
// order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(d.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, recording key order and keeping
// numbers as json.Number.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("document: expected JSON object, got %v", tok)
	}

	d.keys = nil
	d.values = make(map[string]any)
	return d.decodeObject(dec)
}

func (d *Document) decodeObject(dec *json.Decoder) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("document: expected object key, got %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return fmt.Errorf("document: key %q: %w", key, err)
		}
		d.Set(key, v)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			sub := New()
			if err := sub.decodeObject(dec); err != nil {
				return nil, err
			}
			return sub, nil
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		// string, json.Number, bool, or nil.
		return tok, nil
	}
}

// decodeArray reads array elements. Arrays of objects are returned as
// []*Document (the only array shape entities use); anything else is kept
// as []any.
func decodeArray(dec *json.Decoder) (any, error) {
	var raw []any
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		raw = append(raw, v)
	}
	if _, err := dec.Token(); err != nil { // closing bracket
		return nil, err
	}

	subs := make([]*Document, 0, len(raw))
	for _, v := range raw {
		sub, ok := v.(*Document)
		if !ok {
			return raw, nil
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// intValue reports v as an int64 when it carries an integral value.
func intValue(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// floatValue reports v as a float64 when it carries any numeric value,
// integer or real.
func floatValue(v any) (float64, bool) {
	if i, ok := intValue(v); ok {
		return float64(i), true
	}
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
