package record

import (
	"fmt"
	"strings"
)

// Annotation is a declared attribute name with its declared type
type Annotation struct {
	Name string
	Type DeclaredType
}

// Type is a user-declared type. A plain type only carries its annotations,
// class attributes and methods; Process turns it into a record type by
// attaching the resolved field table and the synthesized methods.
type Type struct {
	name        string
	doc         string
	bases       []*Type
	mro         []*Type
	annotations []Annotation
	attrs       map[string]any
	methods     map[MethodName]any

	// slots is non-nil for a fixed attribute layout
	slots     []string
	slotIndex map[string]int

	table   *Table
	frozen  bool
	options Options
}

// Name returns the type name
func (t *Type) Name() string { return t.name }

// Bases returns the direct base types
func (t *Type) Bases() []*Type {
	return append([]*Type(nil), t.bases...)
}

// MRO returns the method resolution order, starting with t itself
func (t *Type) MRO() []*Type {
	return append([]*Type(nil), t.mro...)
}

// Annotations returns the attributes declared on t itself, in order
func (t *Type) Annotations() []Annotation {
	return append([]Annotation(nil), t.annotations...)
}

// IsRecord reports whether t has been processed
func (t *Type) IsRecord() bool { return t.table != nil }

// Table returns the resolved field table, nil for a plain type
func (t *Type) Table() *Table { return t.table }

// Frozen reports whether instances reject assignment and deletion
func (t *Type) Frozen() bool { return t.frozen }

// Options returns the policy t was processed with
func (t *Type) Options() Options { return t.options }

// Slots returns the fixed attribute layout, nil for an open layout
func (t *Type) Slots() []string {
	if t.slots == nil {
		return nil
	}
	return append([]string(nil), t.slots...)
}

// IsSubtype reports whether other appears in t's MRO
func (t *Type) IsSubtype(other *Type) bool {
	for _, m := range t.mro {
		if m == other {
			return true
		}
	}
	return false
}

// Attr looks up a class attribute along the MRO
func (t *Type) Attr(name string) (any, bool) {
	for _, m := range t.mro {
		if v, ok := m.attrs[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Method looks up a method along the MRO
func (t *Type) Method(name MethodName) (any, bool) {
	for _, m := range t.mro {
		if fn, ok := m.methods[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// HasOwnMethod reports whether name is defined on t itself
func (t *Type) HasOwnMethod(name MethodName) bool {
	_, ok := t.methods[name]
	return ok
}

// Doc returns the documentation string. Record types declared without one
// get their constructor signature.
func (t *Type) Doc() string { return t.doc }

// Signature renders the constructor parameters, e.g. "(x int, y int = 0)"
func (t *Type) Signature() string {
	if t.table == nil {
		return "()"
	}
	var params []string
	for _, f := range t.table.entries {
		if f.kind == Constant || !f.init {
			continue
		}
		p := f.name + " " + typeName(f.typ)
		switch {
		case f.factory != nil:
			p += " = <factory>"
		case f.hasDefault:
			p += " = " + FormatValue(f.defaultValue)
		}
		params = append(params, p)
	}
	return "(" + strings.Join(params, ", ") + ")"
}

// String returns the type name with its kind
func (t *Type) String() string {
	if t.table != nil {
		return fmt.Sprintf("<record %s>", t.name)
	}
	return fmt.Sprintf("<type %s>", t.name)
}

// linearize computes the C3 method resolution order of t
func linearize(t *Type, bases []*Type) ([]*Type, error) {
	seqs := make([][]*Type, 0, len(bases)+1)
	for _, b := range bases {
		seqs = append(seqs, append([]*Type(nil), b.mro...))
	}
	seqs = append(seqs, append([]*Type(nil), bases...))

	result := []*Type{t}
	for {
		remaining := seqs[:0]
		for _, s := range seqs {
			if len(s) > 0 {
				remaining = append(remaining, s)
			}
		}
		seqs = remaining
		if len(seqs) == 0 {
			return result, nil
		}

		var head *Type
		for _, s := range seqs {
			if !inTail(s[0], seqs) {
				head = s[0]
				break
			}
		}
		if head == nil {
			e := declError(ErrInvalidDeclaration, CodeInconsistentHierarchy, t.name, "",
				"cannot create a consistent method resolution order for bases %s", baseNames(bases))
			e.Hint = "reorder the bases so that every type comes before its own bases"
			return nil, e
		}

		result = append(result, head)
		for i, s := range seqs {
			if s[0] == head {
				seqs[i] = s[1:]
			}
		}
	}
}

func inTail(t *Type, seqs [][]*Type) bool {
	for _, s := range seqs {
		for _, m := range s[1:] {
			if m == t {
				return true
			}
		}
	}
	return false
}

func baseNames(bases []*Type) string {
	names := make([]string, len(bases))
	for i, b := range bases {
		names[i] = b.name
	}
	return strings.Join(names, ", ")
}
