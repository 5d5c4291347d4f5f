package labels

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind identifies the dynamic type held by a Value.
type ValueKind int

const (
	ValueText ValueKind = iota
	ValueInt
	ValueFloat
)

func (k ValueKind) String() string {
	switch k {
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	default:
		return "text"
	}
}

// Value is a submitted label: text for enumerated and freeform configs, a
// number for ranged configs.
type Value struct {
	kind ValueKind
	text string
	i    int64
	f    float64
}

// Text returns a text label.
func Text(s string) Value { return Value{kind: ValueText, text: s} }

// Int returns an integer label.
func Int(n int64) Value { return Value{kind: ValueInt, i: n} }

// Float returns a real-valued label.
func Float(f float64) Value { return Value{kind: ValueFloat, f: f} }

// Kind reports the dynamic type of the value.
func (v Value) Kind() ValueKind { return v.kind }

// Number returns the numeric form of the value. ok is false for text labels.
func (v Value) Number() (n float64, ok bool) {
	switch v.kind {
	case ValueInt:
		return float64(v.i), true
	case ValueFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// String renders the value the way it appears in directory names and on
// screen. Integral reals keep a trailing ".0" so 3 and 3.0 stay distinct.
func (v Value) String() string {
	switch v.kind {
	case ValueInt:
		return strconv.FormatInt(v.i, 10)
	case ValueFloat:
		return formatFloat(v.f)
	default:
		return v.text
	}
}

// Equal reports whether both values have the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueInt:
		return v.i == other.i
	case ValueFloat:
		return v.f == other.f
	default:
		return v.text == other.text
	}
}

// MarshalJSON encodes text labels as JSON strings and numeric labels as JSON
// numbers.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case ValueFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("label %v is not representable in JSON", v.f)
		}
		return []byte(formatFloat(v.f)), nil
	default:
		return json.Marshal(v.text)
	}
}

// UnmarshalJSON accepts a JSON string or number. Numbers written without a
// fraction or exponent decode as integers.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty label")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		parsed, err := parseNumber(string(data))
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	default:
		return fmt.Errorf("label must be a string or number, got %s", truncate(string(data), 32))
	}
}

func parseNumber(raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	if !strings.ContainsAny(raw, ".eE") {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Int(n), nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Value{}, fmt.Errorf("parse number %q: %w", raw, err)
	}
	return Float(f), nil
}

func formatFloat(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
