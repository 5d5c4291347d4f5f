package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"labeler/internal/annotation"
	"labeler/internal/labels"
)

const annotationsKey = "annotations"

// Entry is one key/label pair of a Document.
type Entry struct {
	Key   string
	Label labels.Value
}

// Document is the persisted mapping from item keys to labels. It keeps
// insertion order so saved files and organizer runs are deterministic.
type Document struct {
	entries []Entry
	index   map[string]int
}

// Collapse projects an annotation list onto a Document. Repeated items keep
// their first position and their last label.
func Collapse(list []annotation.Annotation) Document {
	var doc Document
	for _, a := range list {
		doc.Set(a.Item.Key(), a.Label)
	}
	return doc
}

// Set assigns label to key, appending the key when it is new.
func (d *Document) Set(key string, label labels.Value) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if idx, ok := d.index[key]; ok {
		d.entries[idx].Label = label
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Key: key, Label: label})
}

// Get returns the label stored for key.
func (d Document) Get(key string) (labels.Value, bool) {
	idx, ok := d.index[key]
	if !ok {
		return labels.Value{}, false
	}
	return d.entries[idx].Label, true
}

// Len returns the number of keys.
func (d Document) Len() int { return len(d.entries) }

// Entries returns the pairs in document order.
func (d Document) Entries() []Entry { return append([]Entry(nil), d.entries...) }

// Map returns the document as a plain map.
func (d Document) Map() map[string]labels.Value {
	out := make(map[string]labels.Value, len(d.entries))
	for _, e := range d.entries {
		out[e.Key] = e.Label
	}
	return out
}

// Annotations expands the document back into an annotation list, one entry
// per key in document order.
func (d Document) Annotations() []annotation.Annotation {
	out := make([]annotation.Annotation, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, annotation.Annotation{Item: annotation.Item(e.Key), Label: e.Label})
	}
	return out
}

// MarshalJSON writes the {"annotations": {...}} envelope with keys in
// document order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"` + annotationsKey + `":{`)
	for i, e := range d.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Label)
		if err != nil {
			return nil, fmt.Errorf("encode label for %q: %w", e.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON parses the envelope, preserving key order. Unknown top-level
// keys are ignored.
func (d *Document) UnmarshalJSON(data []byte) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	raw, ok := envelope[annotationsKey]
	if !ok {
		return fmt.Errorf("missing %q key", annotationsKey)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%q must be an object", annotationsKey)
	}
	var doc Document
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var label labels.Value
		if err := dec.Decode(&label); err != nil {
			return fmt.Errorf("label for %q: %w", key, err)
		}
		doc.Set(key, label)
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return err
	}
	*d = doc
	return nil
}
