// Package validate checks product mutation payloads before they reach
// storage. Creation payloads are checked strictly; update payloads only on
// the fields they carry.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// Mode selects how absent fields are treated.
type Mode int

const (
	// Strict requires every required field and checks every present one.
	Strict Mode = iota
	// Partial checks only the fields present in the payload.
	Partial
)

// fieldRule checks and coerces one column. The returned value is what
// storage receives.
type fieldRule struct {
	field    string
	required bool
	coerce   func(p *Pipeline, values types.Values, field string) (any, bool)
}

// Pipeline applies per-field rules in column order and stops at the first
// violation.
type Pipeline struct {
	v     *validator.Validate
	rules []fieldRule
}

// columnRules maps every mutable column to its check.
var columnRules = map[string]fieldRule{
	types.ColumnName:          {required: true, coerce: text},
	types.ColumnPrice:         {coerce: nonNegative},
	types.ColumnQuantity:      {coerce: nonNegative},
	types.ColumnSupplierPhone: {required: true, coerce: text},
	types.ColumnImage:         {required: true, coerce: blob},
}

// New returns a pipeline with the product rules registered in
// types.MutableColumns order.
func New() *Pipeline {
	p := &Pipeline{v: validator.New()}
	for _, c := range types.MutableColumns {
		r, ok := columnRules[c]
		if !ok {
			panic("validate: no rule for column " + c)
		}
		r.field = c
		p.rules = append(p.rules, r)
	}
	return p
}

// Strict validates a creation payload and returns the coerced copy to
// store.
func (p *Pipeline) Strict(values types.Values) (types.Values, error) {
	return p.Check(Strict, values)
}

// Partial validates an update payload and returns the coerced copy to
// store.
func (p *Pipeline) Partial(values types.Values) (types.Values, error) {
	return p.Check(Partial, values)
}

// Check runs the rules in the given mode. A required field that is absent
// or nil in Strict mode is a missing field; any other nil or unconvertible
// value is an invalid one. Keys that are not mutable columns, including
// the id, are invalid.
func (p *Pipeline) Check(mode Mode, values types.Values) (types.Values, error) {
	out := make(types.Values, len(values))

	for _, r := range p.rules {
		raw, present := values[r.field]
		if !present || (raw == nil && mode == Strict && r.required) {
			if mode == Strict && r.required {
				return nil, types.MissingField(r.field)
			}
			continue
		}
		v, ok := r.coerce(p, values, r.field)
		if !ok {
			return nil, types.InvalidField(r.field)
		}
		out[r.field] = v
	}

	for _, k := range values.Keys() {
		if _, checked := out[k]; !checked {
			return nil, types.InvalidField(k)
		}
	}
	return out, nil
}

// text accepts any value convertible to a string that is non-empty after
// trimming. The stored value keeps its original spacing.
func text(p *Pipeline, values types.Values, field string) (any, bool) {
	s, ok := values.AsString(field)
	if !ok {
		return nil, false
	}
	if err := p.v.Var(strings.TrimSpace(s), "required"); err != nil {
		return nil, false
	}
	return s, true
}

// nonNegative accepts integers and decimal text that are zero or greater.
func nonNegative(p *Pipeline, values types.Values, field string) (any, bool) {
	n, ok := values.AsInt64(field)
	if !ok {
		return nil, false
	}
	if err := p.v.Var(n, "gte=0"); err != nil {
		return nil, false
	}
	return n, true
}

// blob accepts a byte slice with at least one byte.
func blob(p *Pipeline, values types.Values, field string) (any, bool) {
	b, ok := values.AsBytes(field)
	if !ok {
		return nil, false
	}
	if err := p.v.Var(b, "min=1"); err != nil {
		return nil, false
	}
	return b, true
}
