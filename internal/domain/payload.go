package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Payload is the raw order document returned by the marketplace API. Keys
// are accessed by slash-separated paths ("status/type") because the
// marketplace nests freely and omits fields without warning.
type Payload map[string]any

// Get walks a slash-separated path and returns the value, or nil when any
// segment is missing or not a mapping.
func (p Payload) Get(path string) any {
	var current any = map[string]any(p)

	for _, segment := range strings.Split(path, "/") {
		node, ok := toMap(current)
		if !ok {
			return nil
		}
		current, ok = node[segment]
		if !ok {
			return nil
		}
	}

	return current
}

// String returns the value at path coerced to a string, or "" when absent.
func (p Payload) String(path string) string {
	return cast.ToString(p.Get(path))
}

// Decimal returns the value at path as a decimal, or zero when absent or
// unparseable. Marketplace payloads carry amounts as JSON numbers or
// strings interchangeably.
func (p Payload) Decimal(path string) decimal.Decimal {
	v := p.Get(path)
	if v == nil {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(cast.ToString(v))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Float returns the value at path as a float64, or 0 when absent.
func (p Payload) Float(path string) float64 {
	return cast.ToFloat64(p.Get(path))
}

// Map returns the nested mapping at path, or nil when absent.
func (p Payload) Map(path string) Payload {
	node, ok := toMap(p.Get(path))
	if !ok {
		return nil
	}
	return Payload(node)
}

// Slice returns the sequence of nested mappings at path. Entries that are
// not mappings are skipped.
func (p Payload) Slice(path string) []Payload {
	raw, ok := p.Get(path).([]any)
	if !ok {
		return nil
	}

	out := make([]Payload, 0, len(raw))
	for _, entry := range raw {
		if node, ok := toMap(entry); ok {
			out = append(out, Payload(node))
		}
	}
	return out
}

// Strings returns the sequence at path coerced to strings.
func (p Payload) Strings(path string) []string {
	raw, ok := p.Get(path).([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		out = append(out, cast.ToString(entry))
	}
	return out
}

func toMap(v any) (map[string]any, bool) {
	switch node := v.(type) {
	case map[string]any:
		return node, true
	case Payload:
		return node, true
	default:
		return nil, false
	}
}
