// Package types implements parsing, interning, and binding of JVM type
// descriptors and generic signatures.
//
// All values produced by this package are immutable and canonical: two
// parses of the same textual form yield the same instance, so callers may
// compare types with ==.
package types

// Type is the common interface of every descriptor and signature value.
// String renders the internal JVM text form and round-trips through the
// corresponding Parse function byte-for-byte.
type Type interface {
	String() string

	// internKey is the canonical interning key. It differs from String
	// only for bound type variables, which carry a marker so that bound
	// and unbound occurrences of the same name never collide.
	internKey() string
}

// TypeDescriptor is an erased (non-generic) field or component type.
type TypeDescriptor interface {
	Type
	isDescriptor()
}

// TypeSignature is a generic-aware type which may reference type
// variables declared elsewhere.
type TypeSignature interface {
	Type

	// IsUnbound reports whether this signature transitively contains a
	// type variable that has not been resolved to its declaring
	// TypeParameter.
	IsUnbound() bool

	// Erase returns the erased descriptor form of this signature, or
	// ErrUnbound if any contained type variable is still unbound.
	Erase() (TypeDescriptor, error)

	// Bind rewrites every unbound type variable in this signature by
	// resolving its name in scope. The result is interned.
	Bind(scope *Scope) (TypeSignature, error)
}

// PrimitiveType is one of the eight JVM primitive types. Primitive values
// are both descriptors and signatures.
type PrimitiveType uint8

const (
	Boolean PrimitiveType = iota
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
)

var primitiveChars = [...]byte{'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D'}

func (p PrimitiveType) String() string    { return string(primitiveChars[p]) }
func (p PrimitiveType) internKey() string { return p.String() }
func (p PrimitiveType) isDescriptor()     {}
func (p PrimitiveType) IsUnbound() bool   { return false }

func (p PrimitiveType) Erase() (TypeDescriptor, error) { return p, nil }

func (p PrimitiveType) Bind(*Scope) (TypeSignature, error) { return p, nil }

// IsWide reports whether values of this type occupy two local-variable
// slots.
func (p PrimitiveType) IsWide() bool { return p == Long || p == Double }

// PrimitiveByChar maps a descriptor character to its primitive type.
func PrimitiveByChar(c byte) (PrimitiveType, bool) {
	switch c {
	case 'Z':
		return Boolean, true
	case 'B':
		return Byte, true
	case 'C':
		return Char, true
	case 'S':
		return Short, true
	case 'I':
		return Int, true
	case 'J':
		return Long, true
	case 'F':
		return Float, true
	case 'D':
		return Double, true
	}
	return 0, false
}

// VoidType is the return-type-only void pseudo-type.
type VoidType struct{}

// Void is the VoidType singleton.
var Void = VoidType{}

func (VoidType) String() string    { return "V" }
func (VoidType) internKey() string { return "V" }
func (VoidType) isDescriptor()     {}
func (VoidType) IsUnbound() bool   { return false }

func (VoidType) Erase() (TypeDescriptor, error) { return Void, nil }

func (VoidType) Bind(*Scope) (TypeSignature, error) { return Void, nil }
