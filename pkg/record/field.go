package record

import (
	"fmt"
)

// Field describes one declared attribute. Build descriptors with NewField
// and attach them through Declaration.Field; the resolver assigns the name,
// declared type and kind on a private copy.
type Field struct {
	name         string
	typ          DeclaredType
	kind         FieldKind
	defaultValue any
	hasDefault   bool
	factory      func() any
	init         bool
	repr         bool
	compare      bool
	hash         HashFlag

	conflict bool
	owner    string
}

// FieldOption configures a field descriptor
type FieldOption func(*Field)

// WithDefault sets a plain default value. The value is shared by every
// instance that does not supply its own.
func WithDefault(v any) FieldOption {
	return func(f *Field) {
		if f.factory != nil {
			f.conflict = true
		}
		f.defaultValue = v
		f.hasDefault = true
	}
}

// WithFactory sets a zero-argument default factory, called once per
// instance that needs the default.
func WithFactory(fn func() any) FieldOption {
	return func(f *Field) {
		if fn == nil {
			return
		}
		if f.hasDefault {
			f.conflict = true
		}
		f.factory = fn
	}
}

// WithInit controls whether the field is a constructor parameter
func WithInit(on bool) FieldOption {
	return func(f *Field) { f.init = on }
}

// WithRepr controls whether the field appears in the representation
func WithRepr(on bool) FieldOption {
	return func(f *Field) { f.repr = on }
}

// WithCompare controls whether the field takes part in equality and ordering
func WithCompare(on bool) FieldOption {
	return func(f *Field) { f.compare = on }
}

// WithHash forces the field in or out of the hash. Without it the field
// follows its compare flag.
func WithHash(on bool) FieldOption {
	return func(f *Field) {
		if on {
			f.hash = HashInclude
		} else {
			f.hash = HashExclude
		}
	}
}

// NewField creates a field descriptor
func NewField(opts ...FieldOption) *Field {
	f := &Field{
		init:    true,
		repr:    true,
		compare: true,
		hash:    HashFollowCompare,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the field name, empty until the descriptor is resolved
func (f *Field) Name() string { return f.name }

// Type returns the declared type
func (f *Field) Type() DeclaredType { return f.typ }

// Kind returns the field kind
func (f *Field) Kind() FieldKind { return f.kind }

// Default returns the plain default, if any
func (f *Field) Default() (any, bool) { return f.defaultValue, f.hasDefault }

// Factory returns the default factory or nil
func (f *Field) Factory() func() any { return f.factory }

// HasDefault reports whether the field has a default or a default factory
func (f *Field) HasDefault() bool { return f.hasDefault || f.factory != nil }

// Init reports whether the field is a constructor parameter
func (f *Field) Init() bool { return f.init }

// Repr reports whether the field is shown in the representation
func (f *Field) Repr() bool { return f.repr }

// Compare reports whether the field takes part in equality and ordering
func (f *Field) Compare() bool { return f.compare }

// Hash returns the raw hash flag
func (f *Field) Hash() HashFlag { return f.hash }

// InHash reports whether the field contributes to the synthesized hash
func (f *Field) InHash() bool {
	switch f.hash {
	case HashInclude:
		return true
	case HashExclude:
		return false
	default:
		return f.compare
	}
}

// String renders the descriptor with all of its settings
func (f *Field) String() string {
	def := "MISSING"
	if f.hasDefault {
		def = FormatValue(f.defaultValue)
	}
	factory := "MISSING"
	if f.factory != nil {
		factory = "<factory>"
	}
	return fmt.Sprintf("Field(name=%q, type=%s, default=%s, default_factory=%s, init=%t, repr=%t, hash=%s, compare=%t, kind=%s)",
		f.name, typeName(f.typ), def, factory, f.init, f.repr, f.hash, f.compare, f.kind)
}

func (f *Field) clone() *Field {
	c := *f
	return &c
}

// value produces the default for an instance that did not supply one
func (f *Field) value() any {
	if f.factory != nil {
		return f.factory()
	}
	return f.defaultValue
}
