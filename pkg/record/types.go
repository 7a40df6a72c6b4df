// Package record turns a declared field list into a value type. A declaration
// names its fields with declared types and optional defaults; Process resolves
// the field table across the inheritance chain and synthesizes the
// constructor, representation, equality, ordering and hash methods, plus
// set/delete interceptors for frozen types.
//
// Types are built with Declare:
//
//	point, err := record.Declare("Point").
//		Field("x", record.TypeOf[int]()).
//		Field("y", record.TypeOf[int](), 0).
//		Record(record.DefaultOptions())
//
//	p, _ := point.New(3)
//	p.String() // Point(x=3, y=0)
package record

import (
	"reflect"
)

// DeclaredType is the type marker attached to a declared attribute. The engine
// never checks values against it; it only classifies the attribute and shows
// up in signatures.
type DeclaredType interface {
	TypeName() string
}

type goType struct {
	rt reflect.Type
}

func (g goType) TypeName() string {
	if g.rt == nil {
		return "any"
	}
	return g.rt.String()
}

// TypeOf returns the declared type for the Go type T
func TypeOf[T any]() DeclaredType {
	return goType{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

// TypeFor returns the declared type for a reflected Go type
func TypeFor(rt reflect.Type) DeclaredType {
	return goType{rt: rt}
}

// Named is a declared type known only by its name, as read from a
// declaration file.
type Named string

// TypeName returns the name itself
func (n Named) TypeName() string {
	return string(n)
}

type classVar struct {
	inner DeclaredType
}

func (c classVar) TypeName() string {
	return "ClassVar[" + typeName(c.inner) + "]"
}

type initVar struct {
	inner DeclaredType
}

func (v initVar) TypeName() string {
	return "InitVar[" + typeName(v.inner) + "]"
}

// ClassVar marks an attribute as a class-level constant. It is kept in the
// field table but takes no part in any synthesized method.
func ClassVar(t DeclaredType) DeclaredType {
	return classVar{inner: t}
}

// InitVar marks an attribute as construction-only: it is a constructor
// parameter forwarded to the post-init hook and never stored.
func InitVar(t DeclaredType) DeclaredType {
	return initVar{inner: t}
}

// Underlying strips a ClassVar or InitVar marker
func Underlying(t DeclaredType) DeclaredType {
	switch m := t.(type) {
	case classVar:
		return m.inner
	case initVar:
		return m.inner
	default:
		return t
	}
}

func typeName(t DeclaredType) string {
	if t == nil {
		return "any"
	}
	return t.TypeName()
}

// FieldKind classifies an entry of the field table
type FieldKind int

const (
	// Ordinary fields are stored on instances and take part in the
	// synthesized methods according to their flags.
	Ordinary FieldKind = iota
	// Constant fields live on the type only.
	Constant
	// ConstructionOnly fields are constructor parameters handed to the
	// post-init hook.
	ConstructionOnly
)

// String returns the string representation of the field kind
func (k FieldKind) String() string {
	switch k {
	case Ordinary:
		return "field"
	case Constant:
		return "classvar"
	case ConstructionOnly:
		return "initvar"
	default:
		return "unknown"
	}
}

func classify(t DeclaredType) FieldKind {
	switch t.(type) {
	case classVar:
		return Constant
	case initVar:
		return ConstructionOnly
	default:
		return Ordinary
	}
}

// HashFlag is the per-field hash participation setting
type HashFlag int

const (
	// HashFollowCompare includes the field in the hash when it takes part
	// in comparison.
	HashFollowCompare HashFlag = iota
	HashInclude
	HashExclude
)

// String returns the string representation of the hash flag
func (h HashFlag) String() string {
	switch h {
	case HashInclude:
		return "true"
	case HashExclude:
		return "false"
	default:
		return "nil"
	}
}

// HashMode selects how Process treats the hash method
type HashMode int

const (
	// HashDerive synthesizes a hash for frozen types with equality, marks
	// mutable types with equality unhashable and otherwise leaves the
	// inherited hash alone.
	HashDerive HashMode = iota
	// HashSuppress never touches the hash method.
	HashSuppress
	// HashAlways synthesizes a hash regardless of equality and frozenness.
	HashAlways
)

// String returns the string representation of the hash mode
func (m HashMode) String() string {
	switch m {
	case HashDerive:
		return "derive"
	case HashSuppress:
		return "suppress"
	case HashAlways:
		return "always"
	default:
		return "unknown"
	}
}

// ParseHashMode parses the textual form used in configuration files
func ParseHashMode(s string) (HashMode, error) {
	switch s {
	case "", "derive", "auto":
		return HashDerive, nil
	case "suppress", "off", "false":
		return HashSuppress, nil
	case "always", "on", "true":
		return HashAlways, nil
	default:
		return HashDerive, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, "", "",
			"unknown hash mode %q (expected derive, suppress or always)", s)
	}
}

// Options is the synthesis policy passed to Process. The zero value
// synthesizes nothing; start from DefaultOptions.
type Options struct {
	Init   bool
	Repr   bool
	Eq     bool
	Order  bool
	Hash   HashMode
	Frozen bool
}

// DefaultOptions returns the usual policy: constructor, representation and
// equality on, ordering off, derived hash, mutable instances.
func DefaultOptions() Options {
	return Options{
		Init: true,
		Repr: true,
		Eq:   true,
		Hash: HashDerive,
	}
}
