package declare

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/records/pkg/record"
)

// Document is a YAML declaration file
type Document struct {
	Records []RecordDecl `yaml:"records"`
}

// RecordDecl declares one record type
type RecordDecl struct {
	Name    string      `yaml:"name"`
	Doc     string      `yaml:"doc"`
	Bases   []string    `yaml:"bases"`
	Slots   bool        `yaml:"slots"`
	Options OptionsDecl `yaml:"options"`
	Fields  []FieldDecl `yaml:"fields"`
}

// OptionsDecl overrides the loader's default policy. Unset keys keep the
// default.
type OptionsDecl struct {
	Init   *bool  `yaml:"init"`
	Repr   *bool  `yaml:"repr"`
	Eq     *bool  `yaml:"eq"`
	Order  *bool  `yaml:"order"`
	Frozen *bool  `yaml:"frozen"`
	Hash   string `yaml:"hash"`
}

// FieldDecl declares one field
type FieldDecl struct {
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type"`
	Default  *yaml.Node `yaml:"default"`
	Factory  string     `yaml:"factory"`
	Init     *bool      `yaml:"init"`
	Repr     *bool      `yaml:"repr"`
	Compare  *bool      `yaml:"compare"`
	Hash     *bool      `yaml:"hash"`
	ClassVar bool       `yaml:"class_var"`
	InitVar  bool       `yaml:"init_var"`
}

// UnknownNameError reports a reference to an undeclared base or factory
type UnknownNameError struct {
	What   string
	Name   string
	Record string
	Known  []string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("record %s: unknown %s %q", e.Record, e.What, e.Name)
}

// Apply returns base with the declared overrides
func (o OptionsDecl) Apply(base record.Options) (record.Options, error) {
	opts := base
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&opts.Init, o.Init)
	set(&opts.Repr, o.Repr)
	set(&opts.Eq, o.Eq)
	set(&opts.Order, o.Order)
	set(&opts.Frozen, o.Frozen)
	if o.Hash != "" {
		mode, err := record.ParseHashMode(o.Hash)
		if err != nil {
			return opts, err
		}
		opts.Hash = mode
	}
	return opts, nil
}

// Loader declares record types from YAML documents into a registry. Bases
// are looked up by name in the registry, so a record may extend any record
// declared before it.
type Loader struct {
	registry *record.Registry
	defaults record.Options
}

// NewLoader creates a loader registering into reg
func NewLoader(reg *record.Registry, defaults record.Options) *Loader {
	if reg == nil {
		reg = record.NewRegistry()
	}
	return &Loader{registry: reg, defaults: defaults}
}

// Registry returns the registry the loader declares into
func (l *Loader) Registry() *record.Registry {
	return l.registry
}

// LoadFile loads the declarations in path
func (l *Loader) LoadFile(path string) ([]*record.Type, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open declaration file: %w", err)
	}
	defer f.Close()

	types, err := l.Load(f)
	if err != nil {
		return types, fmt.Errorf("%s: %w", path, err)
	}
	return types, nil
}

// Load declares every record of the document read from r, in order. It
// stops at the first failing record and returns the types declared so far.
func (l *Loader) Load(r io.Reader) ([]*record.Type, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse declarations: %w", err)
	}

	types := make([]*record.Type, 0, len(doc.Records))
	for _, decl := range doc.Records {
		t, err := l.Declare(decl)
		if err != nil {
			return types, err
		}
		types = append(types, t)
	}
	return types, nil
}

// Declare builds, processes and registers one record declaration
func (l *Loader) Declare(decl RecordDecl) (*record.Type, error) {
	bases := make([]*record.Type, 0, len(decl.Bases))
	for _, name := range decl.Bases {
		base, ok := l.registry.Get(name)
		if !ok {
			return nil, &UnknownNameError{What: "base", Name: name, Record: decl.Name, Known: l.registry.List()}
		}
		bases = append(bases, base)
	}

	opts, err := decl.Options.Apply(l.defaults)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", decl.Name, err)
	}

	specs := make([]record.FieldSpec, 0, len(decl.Fields))
	for _, fd := range decl.Fields {
		spec, err := fieldSpec(decl.Name, fd)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	d, err := record.DeclareFields(decl.Name, specs, bases...)
	if err != nil {
		return nil, err
	}
	t, err := d.Doc(decl.Doc).Record(opts)
	if err != nil {
		return nil, err
	}
	if decl.Slots {
		if t, err = record.WithSlots(t); err != nil {
			return nil, err
		}
	}
	if err := l.registry.Register(t); err != nil {
		return nil, err
	}
	return t, nil
}

func fieldSpec(recordName string, fd FieldDecl) (record.FieldSpec, error) {
	spec := record.FieldSpec{Name: fd.Name}

	if fd.Type != "" {
		var typ record.DeclaredType = record.Named(fd.Type)
		switch {
		case fd.ClassVar && fd.InitVar:
			return spec, fmt.Errorf("record %s: field %q cannot be both class_var and init_var", recordName, fd.Name)
		case fd.ClassVar:
			typ = record.ClassVar(typ)
		case fd.InitVar:
			typ = record.InitVar(typ)
		}
		spec.Type = typ
	}

	var opts []record.FieldOption
	if fd.Default != nil {
		var v any
		if err := fd.Default.Decode(&v); err != nil {
			return spec, fmt.Errorf("record %s: field %q: invalid default: %w", recordName, fd.Name, err)
		}
		opts = append(opts, record.WithDefault(v))
	}
	if fd.Factory != "" {
		fn, ok := LookupFactory(fd.Factory)
		if !ok {
			return spec, &UnknownNameError{What: "factory", Name: fd.Factory, Record: recordName, Known: FactoryNames()}
		}
		opts = append(opts, record.WithFactory(fn))
	}
	if fd.Init != nil {
		opts = append(opts, record.WithInit(*fd.Init))
	}
	if fd.Repr != nil {
		opts = append(opts, record.WithRepr(*fd.Repr))
	}
	if fd.Compare != nil {
		opts = append(opts, record.WithCompare(*fd.Compare))
	}
	if fd.Hash != nil {
		opts = append(opts, record.WithHash(*fd.Hash))
	}
	if len(opts) > 0 {
		spec.Field = record.NewField(opts...)
	}
	return spec, nil
}
