package record

import (
	"errors"
)

// Declaration builds a type. Errors are collected while building and
// reported by Class or Record.
type Declaration struct {
	name        string
	doc         string
	bases       []*Type
	annotations []Annotation
	declared    map[string]bool
	attrs       map[string]any
	methods     map[MethodName]any
	slots       []string
	errors      []error
}

// Declare starts the declaration of a type named name
func Declare(name string) *Declaration {
	d := &Declaration{
		name:     name,
		declared: make(map[string]bool),
		attrs:    make(map[string]any),
		methods:  make(map[MethodName]any),
	}
	if name == "" {
		d.errors = append(d.errors, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, "", "",
			"type name must not be empty"))
	}
	return d
}

// Extends appends direct base types
func (d *Declaration) Extends(bases ...*Type) *Declaration {
	for _, b := range bases {
		if b == nil {
			d.errors = append(d.errors, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, d.name, "",
				"base type must not be nil"))
			continue
		}
		for _, existing := range d.bases {
			if existing == b {
				d.errors = append(d.errors, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, d.name, "",
					"duplicate base type %s", b.name))
			}
		}
		d.bases = append(d.bases, b)
	}
	return d
}

// Field declares an attribute with its declared type. The optional value is
// either a *Field descriptor or a plain default.
func (d *Declaration) Field(name string, typ DeclaredType, value ...any) *Declaration {
	switch {
	case name == "":
		d.errors = append(d.errors, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, d.name, "",
			"field name must not be empty"))
		return d
	case typ == nil:
		d.errors = append(d.errors, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, d.name, name,
			"field %q has no declared type", name))
		return d
	case d.declared[name]:
		d.errors = append(d.errors, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, d.name, name,
			"field %q declared twice", name))
		return d
	case len(value) > 1:
		d.errors = append(d.errors, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, d.name, name,
			"field %q takes at most one value, got %d", name, len(value)))
		return d
	}

	d.declared[name] = true
	d.annotations = append(d.annotations, Annotation{Name: name, Type: typ})
	if len(value) == 1 {
		d.attrs[name] = value[0]
	}
	return d
}

// Attr sets a class attribute. On a declared field name it sets the
// field's value, like passing it to Field.
func (d *Declaration) Attr(name string, value any) *Declaration {
	d.attrs[name] = value
	return d
}

// Method defines a method on the type itself
func (d *Declaration) Method(name MethodName, fn any) *Declaration {
	m, err := normalizeMethod(name, fn)
	if err != nil {
		d.errors = append(d.errors, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, d.name, "",
			"%s", err.Error()))
		return d
	}
	d.methods[name] = m
	return d
}

// PostInit defines the post-init hook
func (d *Declaration) PostInit(fn PostInitFunc) *Declaration {
	return d.Method(MethodPostInit, fn)
}

// Slots gives the type a fixed attribute layout
func (d *Declaration) Slots(names ...string) *Declaration {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			d.errors = append(d.errors, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, d.name, n,
				"invalid or duplicate slot name %q", n))
			continue
		}
		seen[n] = true
	}
	d.slots = append([]string{}, names...)
	return d
}

// Doc sets the documentation string
func (d *Declaration) Doc(doc string) *Declaration {
	d.doc = doc
	return d
}

// Class builds the plain type without synthesizing anything
func (d *Declaration) Class() (*Type, error) {
	if len(d.errors) > 0 {
		return nil, errors.Join(d.errors...)
	}

	t := &Type{
		name:        d.name,
		doc:         d.doc,
		bases:       append([]*Type(nil), d.bases...),
		annotations: append([]Annotation(nil), d.annotations...),
		attrs:       make(map[string]any, len(d.attrs)),
		methods:     make(map[MethodName]any, len(d.methods)),
	}
	for k, v := range d.attrs {
		t.attrs[k] = v
	}
	for k, v := range d.methods {
		t.methods[k] = v
	}
	if d.slots != nil {
		t.slots = append([]string{}, d.slots...)
		t.slotIndex = indexSlots(t.slots)
	}

	mro, err := linearize(t, t.bases)
	if err != nil {
		return nil, err
	}
	t.mro = mro

	// interceptors of a frozen ancestor must stay in force
	for _, b := range mro[1:] {
		if !b.frozen {
			continue
		}
		for _, m := range []MethodName{MethodSetAttr, MethodDelAttr} {
			if _, ok := t.methods[m]; ok {
				return nil, declError(ErrAttributeConflict, CodeAttributeConflict, t.name, "",
					"cannot define %s on a subtype of frozen type %s", m, b.name)
			}
		}
	}
	return t, nil
}

// Record builds the type and processes it with opts
func (d *Declaration) Record(opts Options) (*Type, error) {
	t, err := d.Class()
	if err != nil {
		return nil, err
	}
	return Process(t, opts)
}

func indexSlots(slots []string) map[string]int {
	idx := make(map[string]int, len(slots))
	for i, s := range slots {
		idx[s] = i
	}
	return idx
}
