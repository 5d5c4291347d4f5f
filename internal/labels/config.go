package labels

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"labeler/internal/services"
)

// Kind identifies the label configuration variant.
type Kind int

const (
	KindFreeform Kind = iota
	KindEnumerated
	KindRanged
)

func (k Kind) String() string {
	switch k {
	case KindEnumerated:
		return "enumerated"
	case KindRanged:
		return "ranged"
	default:
		return "freeform"
	}
}

// Affordance is the interaction control a UI should offer for a Config.
type Affordance int

const (
	// Buttons offers one selectable control per option.
	Buttons Affordance = iota
	// ChoiceList offers a single choice list plus a submit action.
	ChoiceList
	// Slider offers a numeric range control plus a submit action.
	Slider
	// TextInput offers an open text control plus a submit action.
	TextInput
)

func (a Affordance) String() string {
	switch a {
	case Buttons:
		return "buttons"
	case ChoiceList:
		return "choice-list"
	case Slider:
		return "slider"
	default:
		return "text"
	}
}

// DefaultChoiceThreshold is the largest option count rendered as buttons.
const DefaultChoiceThreshold = 5

// Range bounds a ranged configuration. A zero Step selects the slider
// default: 1 for integer ranges, 0.1 for real ranges.
type Range struct {
	Min     float64
	Max     float64
	Step    float64
	Integer bool
}

// Config is an immutable label configuration.
type Config struct {
	kind    Kind
	options []string
	rng     Range
}

// Freeform returns a configuration accepting arbitrary text.
func Freeform() Config {
	return Config{kind: KindFreeform}
}

// Enumerated returns a configuration offering the given labels in order.
// Repeated labels are dropped, keeping the first occurrence.
func Enumerated(options ...string) (Config, error) {
	seen := make(map[string]struct{}, len(options))
	cleaned := make([]string, 0, len(options))
	for _, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return Config{}, services.Wrap(services.ErrInvalidConfiguration, "labels", "enumerated", "label options must not be blank", nil)
		}
		if _, ok := seen[opt]; ok {
			continue
		}
		seen[opt] = struct{}{}
		cleaned = append(cleaned, opt)
	}
	return Config{kind: KindEnumerated, options: cleaned}, nil
}

// Ranged returns a configuration for a numeric interval.
func Ranged(r Range) (Config, error) {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return Config{}, services.Wrap(services.ErrInvalidConfiguration, "labels", "ranged", "range bounds must be finite", nil)
	}
	if r.Min > r.Max {
		return Config{}, services.Wrap(services.ErrInvalidConfiguration, "labels", "ranged",
			fmt.Sprintf("range minimum %v exceeds maximum %v", r.Min, r.Max), nil)
	}
	if r.Step < 0 || math.IsNaN(r.Step) {
		return Config{}, services.Wrap(services.ErrInvalidConfiguration, "labels", "ranged", "range step must be positive", nil)
	}
	if r.Step == 0 {
		r.Step = 0.1
		if r.Integer {
			r.Step = 1
		}
	}
	if r.Integer && (!isIntegral(r.Min) || !isIntegral(r.Max) || !isIntegral(r.Step)) {
		return Config{}, services.Wrap(services.ErrInvalidConfiguration, "labels", "ranged", "integer ranges need integral bounds and step", nil)
	}
	return Config{kind: KindRanged, rng: r}, nil
}

// FromValue builds a Config from a loosely typed description, the shape
// produced by TOML or JSON decoding:
//   - nil selects freeform text;
//   - a list of strings selects enumerated labels;
//   - a list of two or three numbers (min, max[, step]) selects a range,
//     integer when the first element is an integer;
//   - Config and Range values pass through.
//
// Any other shape fails with services.ErrInvalidConfiguration.
func FromValue(v any) (Config, error) {
	switch val := v.(type) {
	case nil:
		return Freeform(), nil
	case Config:
		return val, nil
	case Range:
		return Ranged(val)
	case []string:
		return Enumerated(val...)
	case []int:
		nums := make([]any, len(val))
		for i, n := range val {
			nums[i] = n
		}
		return rangeFromList(nums)
	case []int64:
		nums := make([]any, len(val))
		for i, n := range val {
			nums[i] = n
		}
		return rangeFromList(nums)
	case []float64:
		nums := make([]any, len(val))
		for i, n := range val {
			nums[i] = n
		}
		return rangeFromList(nums)
	case []any:
		if allStrings(val) {
			opts := make([]string, len(val))
			for i, item := range val {
				opts[i] = item.(string)
			}
			return Enumerated(opts...)
		}
		return rangeFromList(val)
	default:
		return Config{}, services.Wrap(services.ErrInvalidConfiguration, "labels", "parse",
			fmt.Sprintf("unsupported label options of type %T", v), nil)
	}
}

// ParseRange parses "min:max" or "min:max:step". The range is integer when
// every component is written without a fraction or exponent.
func ParseRange(expr string) (Range, error) {
	parts := strings.Split(strings.TrimSpace(expr), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Range{}, services.Wrap(services.ErrInvalidConfiguration, "labels", "parse range",
			fmt.Sprintf("expected min:max[:step], got %q", expr), nil)
	}
	nums := make([]float64, 0, len(parts))
	integer := true
	for _, part := range parts {
		parsed, err := parseNumber(part)
		if err != nil {
			return Range{}, services.Wrap(services.ErrInvalidConfiguration, "labels", "parse range", "", err)
		}
		if parsed.Kind() != ValueInt {
			integer = false
		}
		n, _ := parsed.Number()
		nums = append(nums, n)
	}
	r := Range{Min: nums[0], Max: nums[1], Integer: integer}
	if len(nums) == 3 {
		if nums[2] <= 0 {
			return Range{}, services.Wrap(services.ErrInvalidConfiguration, "labels", "parse range", "range step must be positive", nil)
		}
		r.Step = nums[2]
	}
	cfg, err := Ranged(r)
	if err != nil {
		return Range{}, err
	}
	return cfg.rng, nil
}

func rangeFromList(values []any) (Config, error) {
	if len(values) != 2 && len(values) != 3 {
		return Config{}, services.Wrap(services.ErrInvalidConfiguration, "labels", "parse",
			fmt.Sprintf("numeric options need 2 or 3 elements, got %d", len(values)), nil)
	}
	nums := make([]float64, len(values))
	for i, v := range values {
		n, ok := toFloat(v)
		if !ok {
			return Config{}, services.Wrap(services.ErrInvalidConfiguration, "labels", "parse",
				fmt.Sprintf("option %v (%T) is neither a label nor a number", v, v), nil)
		}
		nums[i] = n
	}
	integer := isIntType(values[0])
	for _, n := range nums {
		if !isIntegral(n) {
			integer = false
		}
	}
	r := Range{Min: nums[0], Max: nums[1], Integer: integer}
	if len(nums) == 3 {
		if nums[2] <= 0 {
			return Config{}, services.Wrap(services.ErrInvalidConfiguration, "labels", "parse", "range step must be positive", nil)
		}
		r.Step = nums[2]
	}
	return Ranged(r)
}

// Kind reports the configuration variant.
func (c Config) Kind() Kind { return c.kind }

// Options returns a copy of the configured enumerated labels.
func (c Config) Options() []string {
	out := make([]string, len(c.options))
	copy(out, c.options)
	return out
}

// Range returns the numeric interval of a ranged configuration.
func (c Config) Range() Range { return c.rng }

// Affordance picks the control for this configuration. Enumerated configs
// with more than threshold options use a choice list; a non-positive
// threshold selects DefaultChoiceThreshold.
func (c Config) Affordance(threshold int) Affordance {
	if threshold <= 0 {
		threshold = DefaultChoiceThreshold
	}
	switch c.kind {
	case KindEnumerated:
		if len(c.options) > threshold {
			return ChoiceList
		}
		return Buttons
	case KindRanged:
		return Slider
	default:
		return TextInput
	}
}

// Initial returns the value a slider starts at: zero clamped into the range.
func (r Range) Initial() Value {
	return r.Value(r.Clamp(0))
}

// Clamp bounds f to the range and snaps it to the nearest step from Min.
func (r Range) Clamp(f float64) float64 {
	if f < r.Min {
		f = r.Min
	}
	if f > r.Max {
		f = r.Max
	}
	if r.Step > 0 {
		steps := math.Round((f - r.Min) / r.Step)
		f = r.Min + steps*r.Step
		if f > r.Max {
			f = r.Max
		}
		// Trim binary noise such as 0.30000000000000004.
		if rounded, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 10, 64), 64); err == nil {
			f = rounded
		}
	}
	return f
}

// Value wraps f as an Int or Float label according to the range type.
func (r Range) Value(f float64) Value {
	if r.Integer {
		return Int(int64(math.Round(f)))
	}
	return Float(f)
}

// ParseInput converts typed input into a label for this configuration.
// Enumerated configs accept an option name or its 1-based position among
// options (extra labels are appended after the configured ones). Ranged
// configs parse a number and clamp it into the range.
func (c Config) ParseInput(input string, extra []string) (Value, error) {
	trimmed := strings.TrimSpace(input)
	switch c.kind {
	case KindEnumerated:
		all := append(c.Options(), extra...)
		for _, opt := range all {
			if opt == trimmed {
				return Text(opt), nil
			}
		}
		if idx, err := strconv.Atoi(trimmed); err == nil && idx >= 1 && idx <= len(all) {
			return Text(all[idx-1]), nil
		}
		return Value{}, services.Wrap(services.ErrValidation, "labels", "parse input",
			fmt.Sprintf("%q is not one of the available labels", trimmed), nil)
	case KindRanged:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return Value{}, services.Wrap(services.ErrValidation, "labels", "parse input",
				fmt.Sprintf("%q is not a number", trimmed), nil)
		}
		return c.rng.Value(c.rng.Clamp(f)), nil
	default:
		return Text(input), nil
	}
}

func allStrings(values []any) bool {
	for _, v := range values {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func isIntType(v any) bool {
	switch v.(type) {
	case int, int32, int64:
		return true
	default:
		return false
	}
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f)
}
