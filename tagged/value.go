package tagged

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/on-the-ground/effect_ive_store/internal/helper"
)

// Value is an immutable tagged record. The zero Value has an empty tag and
// no fields.
type Value struct {
	tag     string
	variant *variant
	fields  Fields
}

var _ Tagged = Value{}

// NewValue builds a Value outside of any Enum. Such values accept every field
// in With and Merge since there is no declaration to check against.
func NewValue(tag string, fields Fields) Value {
	return Value{tag: tag, fields: maps.Clone(fields)}
}

// Tag returns the discriminant.
func (v Value) Tag() string { return v.tag }

// Get returns the field stored under key.
func (v Value) Get(key string) (any, bool) {
	f, ok := v.fields[key]
	return f, ok
}

// Fields returns a copy of the variant fields.
func (v Value) Fields() Fields {
	if v.fields == nil {
		return Fields{}
	}
	return maps.Clone(v.fields)
}

// Record returns the fields together with the tag under TagField.
func (v Value) Record() map[string]any {
	rec := make(map[string]any, len(v.fields)+1)
	for k, f := range v.fields {
		rec[k] = f
	}
	rec[TagField] = v.tag
	return rec
}

// With returns a copy of v with partial applied on top of its fields.
// For enum-built values only declared fields are taken from partial.
func (v Value) With(partial Fields) Value {
	fields := v.Fields()
	for k, f := range partial {
		if v.variant != nil && !v.variant.declares(k) {
			continue
		}
		fields[k] = f
	}
	return Value{tag: v.tag, variant: v.variant, fields: fields}
}

// Merge overlays other onto v. Values of the same tag merge field by field;
// a different tag replaces v entirely so fields never leak across variants.
func (v Value) Merge(other Value) Value {
	if v.tag != other.tag {
		return other
	}
	return v.With(other.fields)
}

// Equal reports structural equality: same tag and deeply equal fields.
func (v Value) Equal(other Value) bool {
	if v.tag != other.tag || len(v.fields) != len(other.fields) {
		return false
	}
	for k, f := range v.fields {
		g, ok := other.fields[k]
		if !ok || !reflect.DeepEqual(f, g) {
			return false
		}
	}
	return true
}

// String renders the value as Tag{field: value, ...} with sorted fields.
func (v Value) String() string {
	names := slices.Collect(maps.Keys(v.fields))
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(v.tag)
	b.WriteByte('{')
	for i, k := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", k, v.fields[k])
	}
	b.WriteByte('}')
	return b.String()
}

// FieldOf returns the field key of v as a T.
func FieldOf[T any](v Value, key string) (T, bool) {
	return helper.GetTypedValueOf2[T](func() (any, bool) {
		return v.Get(key)
	})
}

// Patch returns a function applying partial fields to base. Results can be
// patched again, so chained patches apply cumulatively.
func Patch(base Value) func(partial Fields) Value {
	return func(partial Fields) Value {
		return base.With(partial)
	}
}
