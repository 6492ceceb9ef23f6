package types

import "strings"

// TypeArgument is one argument of a parameterized class type. It is
// either a wildcard, a bounded wildcard, or a reference signature used
// directly (ClassTypeSignature, ArrayTypeSignature, TypeVariable).
type TypeArgument interface {
	String() string
	argKey() string
	argUnbound() bool
	bindArg(scope *Scope) (TypeArgument, error)
}

// Wildcard is the unbounded wildcard argument "*".
type Wildcard struct{}

// Star is the Wildcard singleton.
var Star = Wildcard{}

func (Wildcard) String() string   { return "*" }
func (Wildcard) argKey() string   { return "*" }
func (Wildcard) argUnbound() bool { return false }

func (Wildcard) bindArg(*Scope) (TypeArgument, error) { return Star, nil }

// UpperBound is the "+" (extends) wildcard argument.
type UpperBound struct {
	Sig TypeSignature
}

func (u UpperBound) String() string   { return "+" + u.Sig.String() }
func (u UpperBound) argKey() string   { return "+" + u.Sig.internKey() }
func (u UpperBound) argUnbound() bool { return u.Sig.IsUnbound() }

func (u UpperBound) bindArg(scope *Scope) (TypeArgument, error) {
	bound, err := u.Sig.Bind(scope)
	if err != nil {
		return nil, err
	}
	return UpperBound{Sig: bound}, nil
}

// LowerBound is the "-" (super) wildcard argument.
type LowerBound struct {
	Sig TypeSignature
}

func (l LowerBound) String() string   { return "-" + l.Sig.String() }
func (l LowerBound) argKey() string   { return "-" + l.Sig.internKey() }
func (l LowerBound) argUnbound() bool { return l.Sig.IsUnbound() }

func (l LowerBound) bindArg(scope *Scope) (TypeArgument, error) {
	bound, err := l.Sig.Bind(scope)
	if err != nil {
		return nil, err
	}
	return LowerBound{Sig: bound}, nil
}

// ClassTypeSignature is a generic-aware class reference: an internal
// name, an ordered type-argument list, and an optional owner for member
// types of generic classes (Louter<TT;>.Inner;).
type ClassTypeSignature struct {
	owner *ClassTypeSignature
	name  string
	args  []TypeArgument
}

// ClassSig returns the canonical class type signature with no owner.
func ClassSig(name string, args ...TypeArgument) *ClassTypeSignature {
	return internClassSig(nil, name, args)
}

// MemberSig returns the canonical class type signature for a member type
// of owner. name is the member's simple name.
func MemberSig(owner *ClassTypeSignature, name string, args ...TypeArgument) *ClassTypeSignature {
	return internClassSig(owner, name, args)
}

// Owner returns the enclosing type signature, or nil.
func (s *ClassTypeSignature) Owner() *ClassTypeSignature { return s.owner }

// Name returns the internal name (or simple member name when owned).
func (s *ClassTypeSignature) Name() string { return s.name }

// Args returns the type arguments. The returned slice must not be
// modified.
func (s *ClassTypeSignature) Args() []TypeArgument { return s.args }

func (s *ClassTypeSignature) chain(render func(TypeArgument) string) string {
	var sb strings.Builder
	if s.owner != nil {
		sb.WriteString(s.owner.chain(render))
		sb.WriteByte('.')
	}
	sb.WriteString(s.name)
	if len(s.args) > 0 {
		sb.WriteByte('<')
		for _, a := range s.args {
			sb.WriteString(render(a))
		}
		sb.WriteByte('>')
	}
	return sb.String()
}

func (s *ClassTypeSignature) String() string {
	return "L" + s.chain(TypeArgument.String) + ";"
}

func (s *ClassTypeSignature) internKey() string {
	return "L" + s.chain(TypeArgument.argKey) + ";"
}

func (s *ClassTypeSignature) IsUnbound() bool {
	if s.owner != nil && s.owner.IsUnbound() {
		return true
	}
	for _, a := range s.args {
		if a.argUnbound() {
			return true
		}
	}
	return false
}

// eraseName joins the owner chain with '$' to form the binary name of
// the erased class.
func (s *ClassTypeSignature) eraseName() string {
	if s.owner == nil {
		return s.name
	}
	return s.owner.eraseName() + "$" + s.name
}

func (s *ClassTypeSignature) Erase() (TypeDescriptor, error) {
	if s.IsUnbound() {
		return nil, ErrUnbound
	}
	return ClassDesc(s.eraseName()), nil
}

func (s *ClassTypeSignature) Bind(scope *Scope) (TypeSignature, error) {
	return s.bindClass(scope)
}

func (s *ClassTypeSignature) bindClass(scope *Scope) (*ClassTypeSignature, error) {
	if !s.IsUnbound() {
		return s, nil
	}
	var owner *ClassTypeSignature
	if s.owner != nil {
		bound, err := s.owner.bindClass(scope)
		if err != nil {
			return nil, err
		}
		owner = bound
	}
	var args []TypeArgument
	if len(s.args) > 0 {
		args = make([]TypeArgument, len(s.args))
		for i, a := range s.args {
			bound, err := a.bindArg(scope)
			if err != nil {
				return nil, err
			}
			args[i] = bound
		}
	}
	return internClassSig(owner, s.name, args), nil
}

func (s *ClassTypeSignature) argKey() string   { return s.internKey() }
func (s *ClassTypeSignature) argUnbound() bool { return s.IsUnbound() }

func (s *ClassTypeSignature) bindArg(scope *Scope) (TypeArgument, error) {
	return s.bindClass(scope)
}

// ArrayTypeSignature is a generic-aware array type: a dimension count
// and a non-array component signature.
type ArrayTypeSignature struct {
	dims int
	base TypeSignature
}

// ArraySig returns the canonical array signature with the given
// dimension count (>= 1). base must not itself be an array.
func ArraySig(dims int, base TypeSignature) *ArrayTypeSignature {
	if dims < 1 {
		panic("types: array dimension count must be >= 1")
	}
	if _, ok := base.(*ArrayTypeSignature); ok {
		panic("types: array base type must not be an array")
	}
	return internArraySig(dims, base)
}

// Dims returns the dimension count.
func (s *ArrayTypeSignature) Dims() int { return s.dims }

// Base returns the non-array component signature.
func (s *ArrayTypeSignature) Base() TypeSignature { return s.base }

func (s *ArrayTypeSignature) String() string {
	return strings.Repeat("[", s.dims) + s.base.String()
}

func (s *ArrayTypeSignature) internKey() string {
	return strings.Repeat("[", s.dims) + s.base.internKey()
}

func (s *ArrayTypeSignature) IsUnbound() bool { return s.base.IsUnbound() }

func (s *ArrayTypeSignature) Erase() (TypeDescriptor, error) {
	base, err := s.base.Erase()
	if err != nil {
		return nil, err
	}
	return ArrayDesc(s.dims, base), nil
}

func (s *ArrayTypeSignature) Bind(scope *Scope) (TypeSignature, error) {
	if !s.IsUnbound() {
		return s, nil
	}
	base, err := s.base.Bind(scope)
	if err != nil {
		return nil, err
	}
	return internArraySig(s.dims, base), nil
}

func (s *ArrayTypeSignature) argKey() string   { return s.internKey() }
func (s *ArrayTypeSignature) argUnbound() bool { return s.IsUnbound() }

func (s *ArrayTypeSignature) bindArg(scope *Scope) (TypeArgument, error) {
	bound, err := s.Bind(scope)
	if err != nil {
		return nil, err
	}
	return bound.(TypeArgument), nil
}

// TypeVariable is a reference to a type parameter. Parsing produces
// unbound variables, which hold only a name; Bind resolves them to the
// declaring TypeParameter, after which they can be erased.
type TypeVariable struct {
	name  string
	param *TypeParameter
}

// UnboundVariable returns the canonical unbound variable with the given
// name.
func UnboundVariable(name string) *TypeVariable {
	return internUnboundVariable(name)
}

// Name returns the variable's name.
func (v *TypeVariable) Name() string { return v.name }

// Param returns the declaring type parameter, or nil when unbound.
func (v *TypeVariable) Param() *TypeParameter { return v.param }

func (v *TypeVariable) String() string { return "T" + v.name + ";" }

func (v *TypeVariable) internKey() string {
	if v.param == nil {
		return "T" + v.name + ";"
	}
	// Bound occurrences carry the declaring parameter's textual form so
	// they never collide with unbound occurrences of the same name.
	return "T=" + v.param.internKey() + ";"
}

func (v *TypeVariable) IsUnbound() bool { return v.param == nil }

func (v *TypeVariable) Erase() (TypeDescriptor, error) {
	if v.param == nil {
		return nil, ErrUnbound
	}
	return v.param.Erase()
}

func (v *TypeVariable) Bind(scope *Scope) (TypeSignature, error) {
	if v.param != nil {
		return v, nil
	}
	param := scope.Resolve(v.name)
	if param == nil {
		return nil, &UnboundError{Name: v.name}
	}
	return param.Variable(), nil
}

func (v *TypeVariable) argKey() string   { return v.internKey() }
func (v *TypeVariable) argUnbound() bool { return v.IsUnbound() }

func (v *TypeVariable) bindArg(scope *Scope) (TypeArgument, error) {
	bound, err := v.Bind(scope)
	if err != nil {
		return nil, err
	}
	return bound.(TypeArgument), nil
}

// TypeParameter is a named binder declared by a generic class or method:
// an optional class bound and zero or more interface bounds. A parameter
// with no bounds at all erases to java/lang/Object.
type TypeParameter struct {
	name        string
	classBound  TypeSignature
	ifaceBounds []TypeSignature
	variable    *TypeVariable
}

// TypeParam returns the canonical type parameter with the given bounds.
// classBound may be nil.
func TypeParam(name string, classBound TypeSignature, ifaceBounds ...TypeSignature) *TypeParameter {
	return internTypeParam(name, classBound, ifaceBounds)
}

// Name returns the parameter's name.
func (p *TypeParameter) Name() string { return p.name }

// ClassBound returns the class bound, or nil.
func (p *TypeParameter) ClassBound() TypeSignature { return p.classBound }

// IfaceBounds returns the interface bounds. The returned slice must not
// be modified.
func (p *TypeParameter) IfaceBounds() []TypeSignature { return p.ifaceBounds }

// Variable returns the bound type variable referencing this parameter.
// There is exactly one per parameter.
func (p *TypeParameter) Variable() *TypeVariable { return p.variable }

func (p *TypeParameter) render(key bool) string {
	var sb strings.Builder
	sb.WriteString(p.name)
	sb.WriteByte(':')
	text := func(s TypeSignature) string {
		if key {
			return s.internKey()
		}
		return s.String()
	}
	if p.classBound != nil {
		sb.WriteString(text(p.classBound))
	}
	for _, b := range p.ifaceBounds {
		sb.WriteByte(':')
		sb.WriteString(text(b))
	}
	return sb.String()
}

func (p *TypeParameter) String() string    { return p.render(false) }
func (p *TypeParameter) internKey() string { return p.render(true) }

// Erase returns the erased descriptor of this parameter's first bound,
// defaulting to java/lang/Object when no bound is declared.
func (p *TypeParameter) Erase() (TypeDescriptor, error) {
	first := p.classBound
	if first == nil && len(p.ifaceBounds) > 0 {
		first = p.ifaceBounds[0]
	}
	if first == nil {
		return ObjectDesc(), nil
	}
	return first.Erase()
}

// MethodSignature is a generic-aware method type: declared type
// parameters, ordered parameter signatures, a return signature, and
// throws clauses.
type MethodSignature struct {
	typeParams []*TypeParameter
	params     []TypeSignature
	ret        TypeSignature
	throws     []TypeSignature
}

// MethodSig returns the canonical method signature.
func MethodSig(typeParams []*TypeParameter, params []TypeSignature, ret TypeSignature, throws []TypeSignature) *MethodSignature {
	return internMethodSig(typeParams, params, ret, throws)
}

// TypeParams returns the declared type parameters.
func (s *MethodSignature) TypeParams() []*TypeParameter { return s.typeParams }

// Params returns the parameter signatures in declaration order.
func (s *MethodSignature) Params() []TypeSignature { return s.params }

// Ret returns the return signature (possibly Void).
func (s *MethodSignature) Ret() TypeSignature { return s.ret }

// Throws returns the throws-clause signatures.
func (s *MethodSignature) Throws() []TypeSignature { return s.throws }

func (s *MethodSignature) render(key bool) string {
	text := func(t Type) string {
		if key {
			return t.internKey()
		}
		return t.String()
	}
	var sb strings.Builder
	if len(s.typeParams) > 0 {
		sb.WriteByte('<')
		for _, p := range s.typeParams {
			sb.WriteString(text(p))
		}
		sb.WriteByte('>')
	}
	sb.WriteByte('(')
	for _, p := range s.params {
		sb.WriteString(text(p))
	}
	sb.WriteByte(')')
	sb.WriteString(text(s.ret))
	for _, t := range s.throws {
		sb.WriteByte('^')
		sb.WriteString(text(t))
	}
	return sb.String()
}

func (s *MethodSignature) String() string    { return s.render(false) }
func (s *MethodSignature) internKey() string { return s.render(true) }

// IsUnbound reports whether any parameter, return, or throws signature
// transitively contains an unbound type variable.
func (s *MethodSignature) IsUnbound() bool {
	for _, p := range s.params {
		if p.IsUnbound() {
			return true
		}
	}
	if s.ret.IsUnbound() {
		return true
	}
	for _, t := range s.throws {
		if t.IsUnbound() {
			return true
		}
	}
	return false
}

// Erase returns the erased method descriptor, or ErrUnbound if the
// signature still references unbound type variables.
func (s *MethodSignature) Erase() (*MethodDescriptor, error) {
	params := make([]TypeDescriptor, len(s.params))
	for i, p := range s.params {
		erased, err := p.Erase()
		if err != nil {
			return nil, err
		}
		params[i] = erased
	}
	ret, err := s.ret.Erase()
	if err != nil {
		return nil, err
	}
	return MethodDesc(params, ret), nil
}

// Bind resolves every unbound type variable against this signature's own
// type parameters, falling back to outer (usually the declaring class's
// scope). Method-level parameters shadow outer parameters of the same
// name.
func (s *MethodSignature) Bind(outer *Scope) (*MethodSignature, error) {
	scope := NewScope(outer, s.typeParams...)
	params := make([]TypeSignature, len(s.params))
	for i, p := range s.params {
		bound, err := p.Bind(scope)
		if err != nil {
			return nil, err
		}
		params[i] = bound
	}
	ret, err := s.ret.Bind(scope)
	if err != nil {
		return nil, err
	}
	var throws []TypeSignature
	if len(s.throws) > 0 {
		throws = make([]TypeSignature, len(s.throws))
		for i, t := range s.throws {
			bound, err := t.Bind(scope)
			if err != nil {
				return nil, err
			}
			throws[i] = bound
		}
	}
	return internMethodSig(s.typeParams, params, ret, throws), nil
}

// ClassSignature is the generic signature of a class declaration:
// declared type parameters, the generic super class, and the generic
// super interfaces.
type ClassSignature struct {
	typeParams []*TypeParameter
	superClass *ClassTypeSignature
	interfaces []*ClassTypeSignature
}

// NewClassSignature returns the canonical class signature.
func NewClassSignature(typeParams []*TypeParameter, superClass *ClassTypeSignature, interfaces []*ClassTypeSignature) *ClassSignature {
	return internClassSignature(typeParams, superClass, interfaces)
}

// TypeParams returns the declared type parameters.
func (s *ClassSignature) TypeParams() []*TypeParameter { return s.typeParams }

// SuperClass returns the generic super-class signature.
func (s *ClassSignature) SuperClass() *ClassTypeSignature { return s.superClass }

// Interfaces returns the generic super-interface signatures.
func (s *ClassSignature) Interfaces() []*ClassTypeSignature { return s.interfaces }

func (s *ClassSignature) render(key bool) string {
	text := func(t Type) string {
		if key {
			return t.internKey()
		}
		return t.String()
	}
	var sb strings.Builder
	if len(s.typeParams) > 0 {
		sb.WriteByte('<')
		for _, p := range s.typeParams {
			sb.WriteString(text(p))
		}
		sb.WriteByte('>')
	}
	sb.WriteString(text(s.superClass))
	for _, i := range s.interfaces {
		sb.WriteString(text(i))
	}
	return sb.String()
}

func (s *ClassSignature) String() string    { return s.render(false) }
func (s *ClassSignature) internKey() string { return s.render(true) }

// Scope returns a binding scope containing this class's type parameters,
// chained to outer.
func (s *ClassSignature) Scope(outer *Scope) *Scope {
	return NewScope(outer, s.typeParams...)
}
