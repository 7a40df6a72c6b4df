package record

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Hasher is implemented by values that hash themselves inside HashTuple
type Hasher interface {
	Hash() (uint64, error)
}

// FormatValue renders a field value for a representation: strings quoted,
// instances by their own representation, everything else with %v.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	case *Instance:
		return x.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func tuplesEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valuesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// valuesEqual compares two field values. Values of different dynamic types
// are never equal.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return equalValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

// equalValue compares element by element and field by field, so that it
// agrees with hashValue on every value it accepts
func equalValue(va, vb reflect.Value) bool {
	if va.Type() != vb.Type() {
		return false
	}
	if va.CanInterface() {
		switch x := va.Interface().(type) {
		case *Instance:
			return x.Equal(vb.Interface().(*Instance))
		case time.Time:
			return x.Equal(vb.Interface().(time.Time))
		}
	}

	switch va.Kind() {
	case reflect.Interface:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return equalValue(va.Elem(), vb.Elem())
	case reflect.Bool:
		return va.Bool() == vb.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return va.Int() == vb.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return va.Uint() == vb.Uint()
	case reflect.Float32, reflect.Float64:
		return va.Float() == vb.Float()
	case reflect.Complex64, reflect.Complex128:
		return va.Complex() == vb.Complex()
	case reflect.String:
		return va.String() == vb.String()
	case reflect.Slice, reflect.Array:
		if va.Len() != vb.Len() {
			return false
		}
		for i := 0; i < va.Len(); i++ {
			if !equalValue(va.Index(i), vb.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if va.Len() != vb.Len() {
			return false
		}
		iter := va.MapRange()
		for iter.Next() {
			other := vb.MapIndex(iter.Key())
			if !other.IsValid() || !equalValue(iter.Value(), other) {
				return false
			}
		}
		return true
	case reflect.Struct:
		typ := va.Type()
		for i := 0; i < va.NumField(); i++ {
			if typ.Field(i).Name == "_" {
				continue
			}
			if !equalValue(va.Field(i), vb.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer, reflect.Func:
		return va.Pointer() == vb.Pointer()
	default:
		return false
	}
}

// compareTuples orders two tuples lexicographically: the first element pair
// that orders apart decides, otherwise the shorter tuple comes first. A pair
// that is unequal yet unordered, such as two NaNs, does not decide.
func compareTuples(a, b []any) (int, error) {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if valuesEqual(a[i], b[i]) {
			continue
		}
		c, err := orderValues(a[i], b[i])
		if err != nil || c != 0 {
			return c, err
		}
	}
	return cmp.Compare(len(a), len(b)), nil
}

// orderValues applies the native ordering of two values of the same type
func orderValues(a, b any) (int, error) {
	if ai, ok := a.(*Instance); ok {
		if bi, ok := b.(*Instance); ok {
			return ai.Compare(bi)
		}
	}
	if a == nil || b == nil {
		return 0, notOrderable(a, b)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return 0, notOrderable(a, b)
	}
	if ta, ok := a.(time.Time); ok {
		return ta.Compare(b.(time.Time)), nil
	}

	switch va.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(va.Int(), vb.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(va.Uint(), vb.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(va.Float(), vb.Float()), nil
	case reflect.String:
		return cmp.Compare(va.String(), vb.String()), nil
	case reflect.Bool:
		x, y := va.Bool(), vb.Bool()
		switch {
		case x == y:
			return 0, nil
		case !x:
			return -1, nil
		default:
			return 1, nil
		}
	case reflect.Slice, reflect.Array:
		xs := make([]any, va.Len())
		for i := range xs {
			xs[i] = va.Index(i).Interface()
		}
		ys := make([]any, vb.Len())
		for i := range ys {
			ys[i] = vb.Index(i).Interface()
		}
		return compareTuples(xs, ys)
	default:
		return 0, notOrderable(a, b)
	}
}

func notOrderable(a, b any) error {
	return instanceError(ErrNotOrderable, CodeNotOrderable, "", "",
		"ordering not supported between %T and %T", a, b)
}

const (
	tagNil byte = iota + 1
	tagTuple
	tagInstance
	tagHasher
	tagBool
	tagInt
	tagUint
	tagFloat
	tagComplex
	tagString
	tagArray
	tagStruct
	tagPointer
)

// HashTuple hashes an ordered tuple of values. Equal tuples (under the
// engine's value equality) hash identically. Slices, maps and functions are
// unhashable.
func HashTuple(values ...any) (uint64, error) {
	d := xxhash.New()
	writeTag(d, tagTuple)
	writeUint(d, uint64(len(values)))
	for _, v := range values {
		if err := hashValue(d, v); err != nil {
			return 0, err
		}
	}
	return d.Sum64(), nil
}

func hashValue(d *xxhash.Digest, v any) error {
	if v == nil {
		writeTag(d, tagNil)
		return nil
	}
	return hashReflect(d, reflect.ValueOf(v))
}

// hashReflect works on reflect values so that unexported struct fields,
// which cannot be converted back to interfaces, hash like exported ones
func hashReflect(d *xxhash.Digest, rv reflect.Value) error {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			writeTag(d, tagNil)
			return nil
		}
		return hashReflect(d, rv.Elem())
	}

	if rv.CanInterface() {
		switch x := rv.Interface().(type) {
		case *Instance:
			h, err := x.Hash()
			if err != nil {
				return err
			}
			writeTag(d, tagInstance)
			writeUint(d, h)
			return nil
		case Hasher:
			h, err := x.Hash()
			if err != nil {
				return err
			}
			writeTag(d, tagHasher)
			writeUint(d, h)
			return nil
		case time.Time:
			writeTag(d, tagStruct)
			_, _ = d.WriteString("time.Time")
			writeUint(d, uint64(x.UnixNano()))
			return nil
		}
	}

	// values of different types never compare equal, so mixing in the type
	// name keeps int(1) and int64(1) apart
	_, _ = d.WriteString(rv.Type().String())

	switch rv.Kind() {
	case reflect.Bool:
		writeTag(d, tagBool)
		if rv.Bool() {
			writeUint(d, 1)
		} else {
			writeUint(d, 0)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeTag(d, tagInt)
		writeUint(d, uint64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		writeTag(d, tagUint)
		writeUint(d, rv.Uint())
	case reflect.Float32, reflect.Float64:
		writeTag(d, tagFloat)
		writeUint(d, floatBits(rv.Float()))
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		writeTag(d, tagComplex)
		writeUint(d, floatBits(real(c)))
		writeUint(d, floatBits(imag(c)))
	case reflect.String:
		writeTag(d, tagString)
		writeUint(d, uint64(rv.Len()))
		_, _ = d.WriteString(rv.String())
	case reflect.Array:
		writeTag(d, tagArray)
		writeUint(d, uint64(rv.Len()))
		for i := 0; i < rv.Len(); i++ {
			if err := hashReflect(d, rv.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Struct:
		typ := rv.Type()
		if !typ.Comparable() {
			return unhashableValue(typ)
		}
		writeTag(d, tagStruct)
		writeUint(d, uint64(rv.NumField()))
		for i := 0; i < rv.NumField(); i++ {
			// == ignores blank fields
			if typ.Field(i).Name == "_" {
				continue
			}
			if err := hashReflect(d, rv.Field(i)); err != nil {
				return err
			}
		}
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		writeTag(d, tagPointer)
		writeUint(d, uint64(rv.Pointer()))
	default:
		return unhashableValue(rv.Type())
	}
	return nil
}

func unhashableValue(typ reflect.Type) error {
	return instanceError(ErrUnhashable, CodeUnhashable, "", "", "unhashable type: %s", typ)
}

func floatBits(f float64) uint64 {
	switch {
	case f == 0:
		// -0 == 0
		return 0
	case math.IsNaN(f):
		return math.Float64bits(math.NaN())
	default:
		return math.Float64bits(f)
	}
}

func writeTag(d *xxhash.Digest, tag byte) {
	_, _ = d.Write([]byte{tag})
}

func writeUint(d *xxhash.Digest, u uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], u)
	_, _ = d.Write(buf[:])
}
