package record

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

var instanceSeq atomic.Uint64

// Instance is a value of a Type
type Instance struct {
	typ *Type
	id  uint64

	values map[string]any

	// fixed layout
	slots   []any
	slotSet []bool

	constructing bool
}

// Keyword is a keyword constructor argument, see Kw
type Keyword struct {
	Name  string
	Value any
}

// Kw passes value as the constructor argument named name
func Kw(name string, value any) Keyword {
	return Keyword{Name: name, Value: value}
}

// New constructs an instance. Arguments are positional unless wrapped with
// Kw; positional arguments must come first.
func (t *Type) New(args ...any) (*Instance, error) {
	var positional []any
	var kwargs map[string]any
	for _, a := range args {
		if kw, ok := a.(Keyword); ok {
			if kwargs == nil {
				kwargs = make(map[string]any)
			}
			if _, dup := kwargs[kw.Name]; dup {
				return nil, instanceError(ErrArguments, CodeArguments, t.name, kw.Name,
					"keyword argument %q repeated", kw.Name)
			}
			kwargs[kw.Name] = kw.Value
			continue
		}
		if kwargs != nil {
			return nil, instanceError(ErrArguments, CodeArguments, t.name, "",
				"positional argument follows keyword argument")
		}
		positional = append(positional, a)
	}
	return t.Call(positional, kwargs)
}

// Call constructs an instance from explicit positional and keyword arguments
func (t *Type) Call(args []any, kwargs map[string]any) (*Instance, error) {
	inst := t.alloc()
	inst.constructing = true
	defer func() { inst.constructing = false }()

	m, ok := t.Method(MethodInit)
	if !ok {
		if len(args) > 0 || len(kwargs) > 0 {
			return nil, instanceError(ErrArguments, CodeArguments, t.name, "", "takes no arguments")
		}
		return inst, nil
	}
	if err := m.(InitFunc)(inst, args, kwargs); err != nil {
		return nil, err
	}
	return inst, nil
}

// FromMap constructs an instance passing every entry of m by keyword
func (t *Type) FromMap(m map[string]any) (*Instance, error) {
	return t.Call(nil, m)
}

func (t *Type) alloc() *Instance {
	inst := &Instance{typ: t, id: instanceSeq.Add(1)}
	if t.slots != nil {
		inst.slots = make([]any, len(t.slots))
		inst.slotSet = make([]bool, len(t.slots))
	} else {
		inst.values = make(map[string]any)
	}
	return inst
}

// Type returns the instance's type
func (inst *Instance) Type() *Type { return inst.typ }

// Get reads an attribute: the instance's own value, then the field default
// held by the type, then class attributes along the MRO.
func (inst *Instance) Get(name string) (any, error) {
	if v, ok := inst.load(name); ok {
		return v, nil
	}
	if t := inst.typ.table; t != nil {
		if f, ok := t.Get(name); ok && f.kind == Ordinary && f.hasDefault {
			return f.defaultValue, nil
		}
	}
	if v, ok := inst.typ.Attr(name); ok {
		return v, nil
	}
	return nil, instanceError(ErrNoSuchAttribute, CodeNoSuchAttr, inst.typ.name, name,
		"object has no attribute %q", name)
}

// Set assigns an attribute through the type's set interceptor, if any
func (inst *Instance) Set(name string, value any) error {
	if m, ok := inst.typ.Method(MethodSetAttr); ok {
		return m.(SetAttrFunc)(inst, Store{inst: inst, persistent: true}, name, value)
	}
	return inst.store(name, value)
}

// Delete removes an attribute through the type's delete interceptor, if any
func (inst *Instance) Delete(name string) error {
	if m, ok := inst.typ.Method(MethodDelAttr); ok {
		return m.(DelAttrFunc)(inst, Store{inst: inst, persistent: true}, name)
	}
	return inst.remove(name)
}

func (inst *Instance) load(name string) (any, bool) {
	if inst.slots != nil {
		i, ok := inst.typ.slotIndex[name]
		if !ok || !inst.slotSet[i] {
			return nil, false
		}
		return inst.slots[i], true
	}
	v, ok := inst.values[name]
	return v, ok
}

func (inst *Instance) store(name string, value any) error {
	if inst.slots != nil {
		i, ok := inst.typ.slotIndex[name]
		if !ok {
			return instanceError(ErrNoSuchAttribute, CodeNoSuchAttr, inst.typ.name, name,
				"object has no attribute %q (fixed layout)", name)
		}
		inst.slots[i] = value
		inst.slotSet[i] = true
		return nil
	}
	inst.values[name] = value
	return nil
}

func (inst *Instance) remove(name string) error {
	if inst.slots != nil {
		i, ok := inst.typ.slotIndex[name]
		if ok && inst.slotSet[i] {
			inst.slots[i] = nil
			inst.slotSet[i] = false
			return nil
		}
	} else if _, ok := inst.values[name]; ok {
		delete(inst.values, name)
		return nil
	}
	return instanceError(ErrNoSuchAttribute, CodeNoSuchAttr, inst.typ.name, name,
		"object has no attribute %q", name)
}

// tuple reads the values of fields in order
func (inst *Instance) tuple(fields []*Field) ([]any, error) {
	out := make([]any, len(fields))
	for i, f := range fields {
		v, err := inst.Get(f.name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// String renders the instance with the repr method, if any
func (inst *Instance) String() string {
	if m, ok := inst.typ.Method(MethodRepr); ok {
		return m.(ReprFunc)(inst)
	}
	return fmt.Sprintf("<%s object #%d>", inst.typ.name, inst.id)
}

func (inst *Instance) richCompare(other *Instance, op, reflected MethodName) (Outcome, error) {
	if m, ok := inst.typ.Method(op); ok {
		out, err := m.(CompareFunc)(inst, other)
		if err != nil || out != NotComparable {
			return out, err
		}
	}
	if m, ok := other.typ.Method(reflected); ok {
		out, err := m.(CompareFunc)(other, inst)
		if err != nil || out != NotComparable {
			return out, err
		}
	}
	return NotComparable, nil
}

// Equal reports whether inst equals other. Without an applicable equality
// method two instances are equal only if they are the same instance.
func (inst *Instance) Equal(other *Instance) bool {
	if other == nil {
		return false
	}
	out, err := inst.richCompare(other, MethodEq, MethodEq)
	if err != nil {
		return false
	}
	if out == NotComparable {
		return inst == other
	}
	return out == OutcomeTrue
}

// NotEqual reports whether inst differs from other
func (inst *Instance) NotEqual(other *Instance) bool {
	if other == nil {
		return true
	}
	out, err := inst.richCompare(other, MethodNe, MethodNe)
	if err != nil {
		return true
	}
	if out == NotComparable {
		return inst != other
	}
	return out == OutcomeTrue
}

func (inst *Instance) order(other *Instance, op, reflected MethodName, symbol string) (bool, error) {
	if other == nil {
		return false, instanceError(ErrNotOrderable, CodeNotOrderable, inst.typ.name, "",
			"%q not supported between %s and nil", symbol, inst.typ.name)
	}
	out, err := inst.richCompare(other, op, reflected)
	if err != nil {
		return false, err
	}
	if out == NotComparable {
		return false, instanceError(ErrNotOrderable, CodeNotOrderable, inst.typ.name, "",
			"%q not supported between instances of %s and %s", symbol, inst.typ.name, other.typ.name)
	}
	return out == OutcomeTrue, nil
}

// Less reports whether inst orders before other
func (inst *Instance) Less(other *Instance) (bool, error) {
	return inst.order(other, MethodLt, MethodGt, "<")
}

// LessEqual reports whether inst orders before or equal to other
func (inst *Instance) LessEqual(other *Instance) (bool, error) {
	return inst.order(other, MethodLe, MethodGe, "<=")
}

// Greater reports whether inst orders after other
func (inst *Instance) Greater(other *Instance) (bool, error) {
	return inst.order(other, MethodGt, MethodLt, ">")
}

// GreaterEqual reports whether inst orders after or equal to other
func (inst *Instance) GreaterEqual(other *Instance) (bool, error) {
	return inst.order(other, MethodGe, MethodLe, ">=")
}

// Compare returns -1, 0 or +1 using the ordering methods, for use with
// slices.SortFunc
func (inst *Instance) Compare(other *Instance) (int, error) {
	lt, err := inst.Less(other)
	if err != nil {
		return 0, err
	}
	if lt {
		return -1, nil
	}
	gt, err := inst.Greater(other)
	if err != nil {
		return 0, err
	}
	if gt {
		return 1, nil
	}
	return 0, nil
}

// Hash returns the instance hash. Types without a hash method hash by
// identity; types marked Unhashable return ErrUnhashable.
func (inst *Instance) Hash() (uint64, error) {
	m, ok := inst.typ.Method(MethodHash)
	if !ok {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], inst.id)
		return xxhash.Sum64(buf[:]), nil
	}
	fn, ok := m.(HashFunc)
	if !ok {
		return 0, instanceError(ErrUnhashable, CodeUnhashable, inst.typ.name, "",
			"unhashable type: %s", inst.typ.name)
	}
	return fn(inst)
}
