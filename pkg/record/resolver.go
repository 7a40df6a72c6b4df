package record

import (
	"errors"
	"reflect"
	"sort"

	"go.uber.org/zap"
)

// resolution is the outcome of resolving one type, applied to the type only
// when synthesis succeeds as well
type resolution struct {
	table *Table
	attrs map[string]any
	bound []binding
}

// binding records a user descriptor consumed by the resolution
type binding struct {
	desc *Field
	name string
}

// resolve builds the field table of t from its ancestors' tables and its own
// annotations
func resolve(t *Type) (*resolution, error) {
	log := Logger()
	table := newTable()

	// most-base first, so a field keeps the position of its first declaration
	for i := len(t.mro) - 1; i >= 1; i-- {
		base := t.mro[i]
		if base.table == nil {
			continue
		}
		for _, f := range base.table.entries {
			table.set(f)
		}
		if debugEnabled() {
			log.Debug("merged base fields",
				zap.String("type", t.name),
				zap.String("base", base.name),
				zap.Strings("fields", names(base.table.entries)))
		}
	}

	attrs := make(map[string]any, len(t.attrs))
	for k, v := range t.attrs {
		attrs[k] = v
	}

	var errs []error
	var bound []binding
	annotated := make(map[string]bool, len(t.annotations))
	consumed := make(map[*Field]string)

	for _, ann := range t.annotations {
		annotated[ann.Name] = true
		raw, has := t.attrs[ann.Name]

		var f *Field
		if desc, ok := raw.(*Field); ok {
			if desc.owner != "" {
				e := declError(ErrNameOrTypeConflict, CodeNameOrTypeConflict, t.name, ann.Name,
					"descriptor is already bound to %s.%s", desc.owner, desc.name)
				e.Hint = "create a new descriptor with record.NewField for each field"
				errs = append(errs, e)
				continue
			}
			if prev, ok := consumed[desc]; ok {
				e := declError(ErrNameOrTypeConflict, CodeNameOrTypeConflict, t.name, ann.Name,
					"descriptor is already used by field %q", prev)
				e.Hint = "create a new descriptor with record.NewField for each field"
				errs = append(errs, e)
				continue
			}
			consumed[desc] = ann.Name
			f = desc.clone()
			bound = append(bound, binding{desc: desc, name: ann.Name})
		} else {
			f = NewField()
			if has {
				f.defaultValue = raw
				f.hasDefault = true
			}
		}
		f.name = ann.Name
		f.typ = ann.Type
		f.kind = classify(ann.Type)
		f.owner = t.name

		if err := validateField(t.name, f); err != nil {
			errs = append(errs, err)
			continue
		}

		if _, ok := raw.(*Field); ok {
			if f.hasDefault {
				attrs[f.name] = f.defaultValue
			} else {
				delete(attrs, f.name)
			}
		}

		table.set(f)
		log.Debug("resolved field",
			zap.String("type", t.name),
			zap.String("field", f.name),
			zap.Stringer("kind", f.kind),
			zap.Bool("init", f.init),
			zap.Bool("default", f.HasDefault()))
	}

	var untyped []string
	for name, v := range t.attrs {
		if _, ok := v.(*Field); ok && !annotated[name] {
			untyped = append(untyped, name)
		}
	}
	sort.Strings(untyped)
	for _, name := range untyped {
		errs = append(errs, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, t.name, name,
			"%q is a field descriptor but has no declared type", name))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := checkOrder(t.name, table); err != nil {
		return nil, err
	}

	return &resolution{table: table, attrs: attrs, bound: bound}, nil
}

func validateField(typeName string, f *Field) error {
	if f.conflict {
		return declError(ErrInvalidDeclaration, CodeInvalidDeclaration, typeName, f.name,
			"cannot specify both default and default factory")
	}

	switch f.kind {
	case Constant:
		if f.factory != nil {
			return declError(ErrInvalidDeclaration, CodeInvalidDeclaration, typeName, f.name,
				"class constant %q cannot have a default factory", f.name)
		}
		return nil
	case Ordinary:
		if f.hasDefault && isMutable(f.defaultValue) {
			e := declError(ErrUnsafeMutableDefault, CodeUnsafeMutableDefault, typeName, f.name,
				"mutable default %T for field %q is not allowed", f.defaultValue, f.name)
			e.Hint = "use record.WithFactory to create a fresh value per instance"
			return e
		}
	}

	if !f.init && !f.HasDefault() {
		return declError(ErrMissingDefault, CodeMissingDefault, typeName, f.name,
			"field %q is excluded from init but has no default or default factory", f.name)
	}
	return nil
}

// checkOrder rejects a field without a default that follows one with a
// default among the constructor parameters
func checkOrder(typeName string, table *Table) error {
	seenDefault := ""
	for _, f := range table.entries {
		if f.kind == Constant || !f.init {
			continue
		}
		if f.HasDefault() {
			if seenDefault == "" {
				seenDefault = f.name
			}
			continue
		}
		if seenDefault != "" {
			e := declError(ErrFieldOrder, CodeFieldOrder, typeName, f.name,
				"non-default argument %q follows default argument %q", f.name, seenDefault)
			e.Hint = "give the field a default, exclude it from init, or declare it before the defaulted fields"
			return e
		}
	}
	return nil
}

func isMutable(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Map:
		return true
	default:
		return false
	}
}

func names(fields []*Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.name
	}
	return out
}
