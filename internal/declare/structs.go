package declare

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/records/pkg/record"
)

// TagName is the struct tag read by FromStruct
const TagName = "record"

// structField is the parsed form of one tagged struct field
type structField struct {
	goName   string
	name     string
	goType   reflect.Type
	ignored  bool
	classVar bool
	initVar  bool
	opts     []record.FieldOption
}

// FromStruct declares a record type from a Go struct type. Pass a struct
// value, a pointer to one, or its reflect.Type. Exported fields become
// record fields named in snake_case unless the tag says otherwise:
//
//	type Point struct {
//		X int `record:"name:x"`
//		Y int `record:"default:0"`
//		Label string `record:"default:origin;nocompare"`
//		Cache map[string]int `record:"factory:map;norepr"`
//	}
//
// Fields of embedded structs are promoted in place. A field declared closer
// to the outer struct replaces a promoted field of the same name and takes
// over its position.
func FromStruct(value any, opts record.Options, bases ...*record.Type) (*record.Type, error) {
	rt, err := structType(value)
	if err != nil {
		return nil, err
	}

	fields, err := collectFields(rt)
	if err != nil {
		return nil, err
	}
	specs := make([]record.FieldSpec, len(fields))
	for i, f := range fields {
		specs[i] = f.spec
	}
	return record.Make(rt.Name(), specs, bases, opts)
}

// FromValue constructs an instance of t from the exported fields of a struct
// value, passing each by keyword under the same names FromStruct uses.
// Fields excluded from init are skipped, as are fields promoted through a
// nil embedded pointer.
func FromValue(t *record.Type, value any) (*record.Instance, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input must be a struct instance or pointer to struct, got %T", value)
	}
	table, err := record.Fields(t)
	if err != nil {
		return nil, err
	}
	fields, err := collectFields(rv.Type())
	if err != nil {
		return nil, err
	}

	kwargs := make(map[string]any)
	for _, field := range fields {
		f, ok := table.Get(field.name)
		if !ok || !f.Init() || f.Kind() == record.Constant {
			continue
		}
		v, err := rv.FieldByIndexErr(field.index)
		if err != nil {
			continue
		}
		kwargs[field.name] = v.Interface()
	}
	return t.Call(nil, kwargs)
}

// promotedField is a record field found in a struct, possibly through
// embedded structs
type promotedField struct {
	name   string
	goName string
	index  []int
	depth  int
	spec   record.FieldSpec
}

// collectFields walks rt in declaration order, descending into embedded
// structs
func collectFields(rt reflect.Type) ([]*promotedField, error) {
	var fields []*promotedField
	byName := make(map[string]int)
	visiting := map[reflect.Type]bool{rt: true}

	var walk func(st reflect.Type, index []int) error
	walk = func(st reflect.Type, index []int) error {
		for i := 0; i < st.NumField(); i++ {
			sf := st.Field(i)
			path := append(append([]int(nil), index...), i)

			if sf.Anonymous {
				et := sf.Type
				if et.Kind() == reflect.Pointer {
					et = et.Elem()
				}
				if et.Kind() == reflect.Struct {
					if !sf.IsExported() && sf.Type.Kind() == reflect.Pointer {
						continue
					}
					tag := sf.Tag.Get(TagName)
					if tag == "-" {
						continue
					}
					if tag != "" {
						return fmt.Errorf("embedded field %s.%s only accepts the tag '-'", st.Name(), sf.Name)
					}
					if visiting[et] {
						continue
					}
					visiting[et] = true
					err := walk(et, path)
					delete(visiting, et)
					if err != nil {
						return err
					}
					continue
				}
			}
			if !sf.IsExported() {
				continue
			}

			field, err := parseField(st, sf)
			if err != nil {
				return err
			}
			if field == nil {
				continue
			}
			field.index = path
			field.depth = len(index)

			pos, dup := byName[field.name]
			switch {
			case !dup:
				byName[field.name] = len(fields)
				fields = append(fields, field)
			case fields[pos].depth == field.depth:
				return fmt.Errorf("duplicate record field name %q (from fields %s and %s) in struct %s",
					field.name, fields[pos].goName, sf.Name, rt.Name())
			case field.depth < fields[pos].depth:
				fields[pos] = field
			}
		}
		return nil
	}

	if err := walk(rt, nil); err != nil {
		return nil, err
	}
	return fields, nil
}

// parseField reads the tag of one exported struct field. It returns nil for
// ignored fields.
func parseField(st reflect.Type, sf reflect.StructField) (*promotedField, error) {
	field := &structField{
		goName: sf.Name,
		goType: sf.Type,
	}
	if err := parseTag(field, sf.Tag.Get(TagName)); err != nil {
		return nil, fmt.Errorf("error parsing tag for field %s.%s: %w", st.Name(), sf.Name, err)
	}
	if field.ignored {
		return nil, nil
	}
	if field.name == "" {
		field.name = strcase.ToSnake(sf.Name)
	}

	var typ record.DeclaredType = record.TypeFor(sf.Type)
	switch {
	case field.classVar && field.initVar:
		return nil, fmt.Errorf("field %s.%s cannot be both classvar and initvar", st.Name(), sf.Name)
	case field.classVar:
		typ = record.ClassVar(typ)
	case field.initVar:
		typ = record.InitVar(typ)
	}

	spec := record.FieldSpec{Name: field.name, Type: typ}
	if len(field.opts) > 0 {
		spec.Field = record.NewField(field.opts...)
	}
	return &promotedField{name: field.name, goName: sf.Name, spec: spec}, nil
}

func structType(value any) (reflect.Type, error) {
	if value == nil {
		return nil, fmt.Errorf("cannot declare a record from nil")
	}
	if rt, ok := value.(reflect.Type); ok {
		if rt.Kind() == reflect.Struct {
			return rt, nil
		}
		return nil, fmt.Errorf("input must be a struct type, got %s", rt)
	}
	rt := reflect.TypeOf(value)
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input must be a struct instance or pointer to struct, got %T", value)
	}
	return rt, nil
}

// parseTag reads `record:"key:value;flag;..."`
func parseTag(field *structField, tag string) error {
	if tag == "-" {
		field.ignored = true
		return nil
	}
	if tag == "" {
		return nil
	}

	for _, part := range strings.Split(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, ":", 2)
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		var value string
		if len(kv) == 2 {
			value = strings.TrimSpace(kv[1])
		}

		switch key {
		case "name":
			if value == "" {
				return fmt.Errorf("tag '%s' requires a value", key)
			}
			field.name = value
		case "default":
			v := reflect.New(field.goType)
			if err := yaml.Unmarshal([]byte(value), v.Interface()); err != nil {
				return fmt.Errorf("invalid default %q for %s: %w", value, field.goType, err)
			}
			field.opts = append(field.opts, record.WithDefault(v.Elem().Interface()))
		case "factory":
			fn, ok := LookupFactory(value)
			if !ok {
				return fmt.Errorf("unknown factory %q", value)
			}
			field.opts = append(field.opts, record.WithFactory(fn))
		case "noinit":
			field.opts = append(field.opts, record.WithInit(false))
		case "norepr":
			field.opts = append(field.opts, record.WithRepr(false))
		case "nocompare":
			field.opts = append(field.opts, record.WithCompare(false))
		case "hash":
			switch value {
			case "true":
				field.opts = append(field.opts, record.WithHash(true))
			case "false":
				field.opts = append(field.opts, record.WithHash(false))
			default:
				return fmt.Errorf("invalid hash value '%s' (expected true or false)", value)
			}
		case "classvar":
			field.classVar = true
		case "initvar":
			field.initVar = true
		default:
			return fmt.Errorf("unknown tag key '%s'", key)
		}
	}
	return nil
}
