package types

import "strings"

// ClassTypeDescriptor is an erased reference to a class or interface by
// internal name (slash-separated, e.g. "java/lang/String").
type ClassTypeDescriptor struct {
	name string
}

// ClassDesc returns the canonical descriptor for the given internal
// class name.
func ClassDesc(name string) *ClassTypeDescriptor {
	return internClassDesc(name)
}

// Name returns the internal class name without the L...; wrapping.
func (d *ClassTypeDescriptor) Name() string { return d.name }

func (d *ClassTypeDescriptor) String() string    { return "L" + d.name + ";" }
func (d *ClassTypeDescriptor) internKey() string { return d.String() }
func (d *ClassTypeDescriptor) isDescriptor()     {}

// ObjectDesc is the canonical descriptor for java/lang/Object, the
// default erasure of an unbounded type parameter.
func ObjectDesc() *ClassTypeDescriptor { return ClassDesc("java/lang/Object") }

// ArrayTypeDescriptor is an erased array type: a dimension count and a
// non-array base type.
type ArrayTypeDescriptor struct {
	dims int
	base TypeDescriptor
}

// ArrayDesc returns the canonical array descriptor with the given
// dimension count (>= 1). base must not itself be an array.
func ArrayDesc(dims int, base TypeDescriptor) *ArrayTypeDescriptor {
	if dims < 1 {
		panic("types: array dimension count must be >= 1")
	}
	if _, ok := base.(*ArrayTypeDescriptor); ok {
		panic("types: array base type must not be an array")
	}
	return internArrayDesc(dims, base)
}

// Dims returns the dimension count.
func (d *ArrayTypeDescriptor) Dims() int { return d.dims }

// Base returns the non-array component type.
func (d *ArrayTypeDescriptor) Base() TypeDescriptor { return d.base }

func (d *ArrayTypeDescriptor) String() string {
	return strings.Repeat("[", d.dims) + d.base.String()
}

func (d *ArrayTypeDescriptor) internKey() string { return d.String() }
func (d *ArrayTypeDescriptor) isDescriptor()     {}

// MethodDescriptor is an erased method type: ordered parameter types and
// a return type.
type MethodDescriptor struct {
	params []TypeDescriptor
	ret    TypeDescriptor
}

// MethodDesc returns the canonical method descriptor for the given
// parameter and return types.
func MethodDesc(params []TypeDescriptor, ret TypeDescriptor) *MethodDescriptor {
	return internMethodDesc(params, ret)
}

// Params returns the parameter types in declaration order. The returned
// slice must not be modified.
func (d *MethodDescriptor) Params() []TypeDescriptor { return d.params }

// Ret returns the return type (possibly Void).
func (d *MethodDescriptor) Ret() TypeDescriptor { return d.ret }

func (d *MethodDescriptor) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range d.params {
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	sb.WriteString(d.ret.String())
	return sb.String()
}

func (d *MethodDescriptor) internKey() string { return d.String() }

// ParamSlots returns the number of local-variable slots the parameters
// occupy, counting long and double as two.
func (d *MethodDescriptor) ParamSlots() int {
	slots := 0
	for _, p := range d.params {
		if prim, ok := p.(PrimitiveType); ok && prim.IsWide() {
			slots += 2
		} else {
			slots++
		}
	}
	return slots
}
