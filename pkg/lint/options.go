package lint

import (
	"errors"
	"fmt"
	"log"
	"maps"
	"strings"
	"unicode"
)

// ErrInvalidOptions is returned when rule options have an unexpected form.
var ErrInvalidOptions = errors.New("invalid rule options")

// OptionType is the value type of a rule option.
type OptionType int

const (
	// BoolOption is a flag; naming it in an option list sets it.
	BoolOption OptionType = iota
	// IntOption is an integer value.
	IntOption
	// StringOption is a string value.
	StringOption
)

// String returns the JSON schema type name.
func (t OptionType) String() string {
	switch t {
	case BoolOption:
		return "boolean"
	case IntOption:
		return "integer"
	case StringOption:
		return "string"
	}

	log.Panicf("invalid OptionType value %d", t)

	return ""
}

// Option declares one configurable rule option.
type Option struct {
	// Default is the value used when the option is not given.
	Default any
	// Name is the kebab-case name used in configuration files.
	Name string
	// Description is the help text shown by the rules command.
	Description string
	// Type is the kind of the option's value.
	Type OptionType
}

// Key returns the camel-cased key the option is stored under.
func (o Option) Key() string {
	return Camelize(o.Name)
}

// FormatDefault renders the default value for display.
func (o Option) FormatDefault() string {
	if o.Type == StringOption {
		return fmt.Sprintf("%q", o.Default)
	}

	return fmt.Sprint(o.Default)
}

// Options is a flat set of rule options keyed by camel-cased name.
type Options map[string]any

// ParseOptions normalises the raw options of a rule. A list contributes each
// string item as an enabled flag and merges each map item; a map is merged
// as is. Keys are camel-cased.
func ParseOptions(raw any) (Options, error) {
	out := Options{}

	switch v := raw.(type) {
	case nil:
	case string:
		out[Camelize(v)] = true
	case []string:
		for _, s := range v {
			out[Camelize(s)] = true
		}
	case []any:
		for _, item := range v {
			parsed, err := ParseOptions(item)
			if err != nil {
				return nil, err
			}

			maps.Copy(out, parsed)
		}
	case map[string]any:
		for k, val := range v {
			out[Camelize(k)] = val
		}
	case Options:
		maps.Copy(out, v)
	default:
		return nil, fmt.Errorf("%w: unexpected %T", ErrInvalidOptions, raw)
	}

	return out, nil
}

// Bool returns a boolean option, or def when absent or of another type.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}

	return def
}

// Int returns an integer option, or def when absent or of another type.
// Floats with an integral value are accepted since decoded JSON yields them.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}

	return def
}

// String returns a string option, or def when absent, empty or of another type.
func (o Options) String(key string, def string) string {
	if v, ok := o[key].(string); ok && v != "" {
		return v
	}

	return def
}

// Camelize converts kebab-case and snake_case names to camelCase.
func Camelize(name string) string {
	var b strings.Builder

	upper := false

	for _, r := range strings.TrimSpace(name) {
		if r == '-' || r == '_' {
			upper = b.Len() > 0

			continue
		}

		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}

		b.WriteRune(r)
	}

	return b.String()
}
