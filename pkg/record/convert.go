package record

import (
	"reflect"
)

// Fields returns the resolved field table of a record type or instance
func Fields(v any) (*Table, error) {
	var t *Type
	switch x := v.(type) {
	case *Type:
		t = x
	case *Instance:
		if x != nil {
			t = x.typ
		}
	}
	if t == nil || t.table == nil {
		return nil, instanceError(ErrNotARecordType, CodeNotARecordType, "", "",
			"fields() should be called on a record type or instance, got %T", v)
	}
	return t.table, nil
}

// IsRecord reports whether v is an instance of a record type
func IsRecord(v any) bool {
	inst, ok := v.(*Instance)
	return ok && inst != nil && inst.typ.table != nil
}

// IsRecordType reports whether v is a record type
func IsRecordType(v any) bool {
	t, ok := v.(*Type)
	return ok && t != nil && t.table != nil
}

// AsMap converts a record instance into a map of its Ordinary fields,
// recursing into nested instances, slices, arrays and maps
func AsMap(v any) (map[string]any, error) {
	inst, err := recordInstance(v, "AsMap")
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	for _, f := range inst.typ.table.Fields() {
		fv, err := inst.Get(f.name)
		if err != nil {
			return nil, err
		}
		if out[f.name], err = convert(fv, asMapMode); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AsTuple converts a record instance into the ordered values of its
// Ordinary fields, recursing like AsMap
func AsTuple(v any) ([]any, error) {
	inst, err := recordInstance(v, "AsTuple")
	if err != nil {
		return nil, err
	}
	fields := inst.typ.table.Fields()
	out := make([]any, len(fields))
	for i, f := range fields {
		fv, err := inst.Get(f.name)
		if err != nil {
			return nil, err
		}
		if out[i], err = convert(fv, asTupleMode); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func recordInstance(v any, op string) (*Instance, error) {
	if _, ok := v.(*Type); ok {
		return nil, instanceError(ErrNotARecordType, CodeNotARecordType, "", "",
			"%s() should be called on record instances, not on a type", op)
	}
	if !IsRecord(v) {
		return nil, instanceError(ErrNotARecordType, CodeNotARecordType, "", "",
			"%s() should be called on record instances, got %T", op, v)
	}
	return v.(*Instance), nil
}

type convertMode int

const (
	asMapMode convertMode = iota
	asTupleMode
)

func convert(v any, mode convertMode) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *Instance:
		if !IsRecord(x) {
			return x, nil
		}
		if mode == asMapMode {
			return AsMap(x)
		}
		return AsTuple(x)
	case *Type:
		return nil, instanceError(ErrNotARecordType, CodeNotARecordType, "", "",
			"cannot convert record type %s as a value", x.name)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return v, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			c, err := convert(rv.Index(i).Interface(), mode)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			out := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				c, err := convert(iter.Value().Interface(), mode)
				if err != nil {
					return nil, err
				}
				out[iter.Key().String()] = c
			}
			return out, nil
		}
		out := make(map[any]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			c, err := convert(iter.Value().Interface(), mode)
			if err != nil {
				return nil, err
			}
			out[iter.Key().Interface()] = c
		}
		return out, nil
	default:
		return v, nil
	}
}
