package record

import (
	"fmt"
)

// MethodName identifies a type-level method
type MethodName string

const (
	MethodInit     MethodName = "init"
	MethodRepr     MethodName = "repr"
	MethodEq       MethodName = "eq"
	MethodNe       MethodName = "ne"
	MethodLt       MethodName = "lt"
	MethodLe       MethodName = "le"
	MethodGt       MethodName = "gt"
	MethodGe       MethodName = "ge"
	MethodHash     MethodName = "hash"
	MethodSetAttr  MethodName = "setattr"
	MethodDelAttr  MethodName = "delattr"
	MethodPostInit MethodName = "post_init"
)

// MethodNames returns every method name in declaration order
func MethodNames() []MethodName {
	return []MethodName{
		MethodInit, MethodRepr, MethodEq, MethodNe, MethodLt, MethodLe, MethodGt, MethodGe,
		MethodHash, MethodSetAttr, MethodDelAttr, MethodPostInit,
	}
}

// Outcome is the result of a comparison method
type Outcome int8

const (
	// NotComparable means the method does not handle this operand pair; the
	// caller falls back to the reflected method or to identity.
	NotComparable Outcome = iota
	OutcomeFalse
	OutcomeTrue
)

func outcomeOf(b bool) Outcome {
	if b {
		return OutcomeTrue
	}
	return OutcomeFalse
}

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeTrue:
		return "true"
	case OutcomeFalse:
		return "false"
	default:
		return "not comparable"
	}
}

type (
	// InitFunc initializes a freshly allocated instance from constructor
	// arguments.
	InitFunc func(self *Instance, args []any, kwargs map[string]any) error
	// ReprFunc renders an instance.
	ReprFunc func(self *Instance) string
	// CompareFunc implements eq, ne, lt, le, gt and ge.
	CompareFunc func(self, other *Instance) (Outcome, error)
	// HashFunc hashes an instance.
	HashFunc func(self *Instance) (uint64, error)
	// SetAttrFunc intercepts attribute assignment. The store writes
	// directly to the instance.
	SetAttrFunc func(self *Instance, store Store, name string, value any) error
	// DelAttrFunc intercepts attribute deletion.
	DelAttrFunc func(self *Instance, store Store, name string) error
	// PostInitFunc runs after the synthesized constructor has stored every
	// field. initVars holds the construction-only values in table order.
	PostInitFunc func(self *Instance, store Store, initVars []any) error
)

type unhashable struct{}

func (unhashable) String() string { return "<unhashable>" }

// Unhashable installed as the hash method makes instances of the type
// unhashable, overriding any inherited hash.
var Unhashable any = unhashable{}

// normalizeMethod converts fn to the named function type registered under
// name, accepting plain function literals of the matching signature
func normalizeMethod(name MethodName, fn any) (any, error) {
	switch name {
	case MethodInit:
		switch f := fn.(type) {
		case InitFunc:
			return f, nil
		case func(*Instance, []any, map[string]any) error:
			return InitFunc(f), nil
		}
	case MethodRepr:
		switch f := fn.(type) {
		case ReprFunc:
			return f, nil
		case func(*Instance) string:
			return ReprFunc(f), nil
		}
	case MethodEq, MethodNe, MethodLt, MethodLe, MethodGt, MethodGe:
		switch f := fn.(type) {
		case CompareFunc:
			return f, nil
		case func(*Instance, *Instance) (Outcome, error):
			return CompareFunc(f), nil
		}
	case MethodHash:
		switch f := fn.(type) {
		case unhashable:
			return Unhashable, nil
		case HashFunc:
			return f, nil
		case func(*Instance) (uint64, error):
			return HashFunc(f), nil
		}
	case MethodSetAttr:
		switch f := fn.(type) {
		case SetAttrFunc:
			return f, nil
		case func(*Instance, Store, string, any) error:
			return SetAttrFunc(f), nil
		}
	case MethodDelAttr:
		switch f := fn.(type) {
		case DelAttrFunc:
			return f, nil
		case func(*Instance, Store, string) error:
			return DelAttrFunc(f), nil
		}
	case MethodPostInit:
		switch f := fn.(type) {
		case PostInitFunc:
			return f, nil
		case func(*Instance, Store, []any) error:
			return PostInitFunc(f), nil
		}
	default:
		return nil, fmt.Errorf("unknown method %q", name)
	}
	return nil, fmt.Errorf("method %q has unexpected type %T", name, fn)
}

// Store writes instance attributes without going through the set/delete
// interceptors. Constructors of frozen types and post-init hooks get a store
// that only works while the instance is being constructed.
type Store struct {
	inst       *Instance
	persistent bool
}

// Set stores value under name
func (s Store) Set(name string, value any) error {
	if err := s.check(name); err != nil {
		return err
	}
	return s.inst.store(name, value)
}

// Delete removes name from the instance
func (s Store) Delete(name string) error {
	if err := s.check(name); err != nil {
		return err
	}
	return s.inst.remove(name)
}

func (s Store) check(name string) error {
	if s.inst == nil {
		return instanceError(ErrInvalidDeclaration, CodeInvalidDeclaration, "", name, "store is not bound to an instance")
	}
	if !s.persistent && !s.inst.constructing {
		return instanceError(ErrFrozenInstance, CodeFrozenInstance, s.inst.typ.name, name,
			"construction store used after construction finished")
	}
	return nil
}
