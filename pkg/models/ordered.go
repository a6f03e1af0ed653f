package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ordered is a JSON object decoded with its key order preserved.
// Keys appear once; a repeated key keeps its first position and its last value.
type Ordered[V any] struct {
	keys   []string
	values map[string]V
}

// Entry is one key/value pair of an Ordered object
type Entry[V any] struct {
	Key   string
	Value V
}

// NewOrdered builds an Ordered object from entries, in the given order
func NewOrdered[V any](entries ...Entry[V]) *Ordered[V] {
	o := &Ordered[V]{values: make(map[string]V, len(entries))}
	for _, e := range entries {
		o.Set(e.Key, e.Value)
	}
	return o
}

// Set inserts or replaces a value. New keys are appended.
func (o *Ordered[V]) Set(key string, value V) {
	if o.values == nil {
		o.values = make(map[string]V)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key
func (o *Ordered[V]) Get(key string) (V, bool) {
	var zero V
	if o == nil || o.values == nil {
		return zero, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Len returns the number of keys. A nil object has zero keys.
func (o *Ordered[V]) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in document order
func (o *Ordered[V]) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Entries returns the pairs in document order
func (o *Ordered[V]) Entries() []Entry[V] {
	if o == nil {
		return nil
	}
	out := make([]Entry[V], 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, Entry[V]{Key: k, Value: o.values[k]})
	}
	return out
}

// UnmarshalJSON decodes an object token by token so that key order survives
func (o *Ordered[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		// null leaves the object empty
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	o.keys = nil
	o.values = make(map[string]V)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var value V
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode value for %q: %w", key, err)
		}
		o.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the object with keys in document order
func (o *Ordered[V]) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
