package tagged

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
)

// TagField is the record key carrying the discriminant in Decode and Record.
const TagField = "tag"

// ErrUnknownVariant is returned when a tag is not declared by an Enum.
var ErrUnknownVariant = errors.New("unknown variant")

// ErrUnknownField is returned by Decode for a field the variant does not declare.
var ErrUnknownField = errors.New("unknown field")

// Fields holds the variant-specific fields of a Value, excluding the tag.
type Fields map[string]any

// Constructor builds a Value of one variant from a partial override of its
// declared fields. Keys the variant does not declare are dropped.
type Constructor func(override Fields) Value

type variant struct {
	enum     *Enum
	tag      string
	defaults Fields
	names    []string
}

func (v *variant) declares(key string) bool {
	_, ok := v.defaults[key]
	return ok
}

// Enum is a closed set of variants. It is immutable once defined.
type Enum struct {
	name     string
	variants map[string]*variant
	tags     []string
}

// Define declares an enum from variant name to default field values.
// A nil Fields declares a variant without fields.
func Define(name string, variants map[string]Fields) *Enum {
	e := &Enum{
		name:     name,
		variants: make(map[string]*variant, len(variants)),
		tags:     make([]string, 0, len(variants)),
	}
	for tag, defaults := range variants {
		defaults = maps.Clone(defaults)
		if defaults == nil {
			defaults = Fields{}
		}
		names := slices.Collect(maps.Keys(defaults))
		sort.Strings(names)
		e.variants[tag] = &variant{enum: e, tag: tag, defaults: defaults, names: names}
		e.tags = append(e.tags, tag)
	}
	sort.Strings(e.tags)
	return e
}

// Name returns the enum name given to Define.
func (e *Enum) Name() string { return e.name }

// Tags returns the declared variant names in sorted order.
func (e *Enum) Tags() []string { return slices.Clone(e.tags) }

// Has reports whether tag is a declared variant.
func (e *Enum) Has(tag string) bool {
	_, ok := e.variants[tag]
	return ok
}

// Contains reports whether v carries one of e's tags and was built by e.
func (e *Enum) Contains(v Value) bool {
	return v.variant != nil && v.variant.enum == e
}

// Constructor returns the constructor for tag.
func (e *Enum) Constructor(tag string) (Constructor, bool) {
	vr, ok := e.variants[tag]
	if !ok {
		return nil, false
	}
	return vr.construct, true
}

// MustConstructor is Constructor that panics on an undeclared tag.
func (e *Enum) MustConstructor(tag string) Constructor {
	ctor, ok := e.Constructor(tag)
	if !ok {
		panic(fmt.Errorf("%w: %s.%s", ErrUnknownVariant, e.name, tag))
	}
	return ctor
}

// Constructors returns one constructor per declared variant.
func (e *Enum) Constructors() map[string]Constructor {
	ctors := make(map[string]Constructor, len(e.variants))
	for tag, vr := range e.variants {
		ctors[tag] = vr.construct
	}
	return ctors
}

// Make builds a Value of tag with the given override.
func (e *Enum) Make(tag string, override Fields) (Value, error) {
	ctor, ok := e.Constructor(tag)
	if !ok {
		return Value{}, fmt.Errorf("%w: %s.%s", ErrUnknownVariant, e.name, tag)
	}
	return ctor(override), nil
}

// Decode builds a Value from a record holding the tag under TagField.
// Unlike a Constructor it rejects fields the variant does not declare.
func (e *Enum) Decode(record map[string]any) (Value, error) {
	raw, ok := record[TagField]
	if !ok {
		return Value{}, fmt.Errorf("%s: missing %q", e.name, TagField)
	}
	tag, ok := raw.(string)
	if !ok {
		return Value{}, fmt.Errorf("%s: %q must be a string, got %T", e.name, TagField, raw)
	}
	vr, ok := e.variants[tag]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s.%s", ErrUnknownVariant, e.name, tag)
	}
	override := make(Fields, len(record))
	for k, v := range record {
		if k == TagField {
			continue
		}
		if !vr.declares(k) {
			return Value{}, fmt.Errorf("%w: %s.%s has no field %q", ErrUnknownField, e.name, tag, k)
		}
		override[k] = v
	}
	return vr.construct(override), nil
}

// Description is the reusable shape of an enum: every variant with its
// sorted field names.
type Description struct {
	Name     string
	Variants map[string][]string
}

// Describe returns the shape of e.
func (e *Enum) Describe() Description {
	d := Description{Name: e.name, Variants: make(map[string][]string, len(e.variants))}
	for tag, vr := range e.variants {
		d.Variants[tag] = slices.Clone(vr.names)
	}
	return d
}

// Missing returns the declared tags absent from handled, sorted.
func (e *Enum) Missing(handled []string) []string {
	var missing []string
	for _, tag := range e.tags {
		if !slices.Contains(handled, tag) {
			missing = append(missing, tag)
		}
	}
	return missing
}

func (vr *variant) construct(override Fields) Value {
	fields := maps.Clone(vr.defaults)
	for k, v := range override {
		if vr.declares(k) {
			fields[k] = v
		}
	}
	return Value{tag: vr.tag, variant: vr, fields: fields}
}
