package types

// Scope resolves type-variable names to the TypeParameter declaring
// them. Scopes chain: an inner scope (a generic method) shadows the
// outer scope (the declaring class) for parameters of the same name.
type Scope struct {
	parent *Scope
	params map[string]*TypeParameter
}

// NewScope returns a scope declaring the given parameters, chained to
// parent (which may be nil).
func NewScope(parent *Scope, params ...*TypeParameter) *Scope {
	m := make(map[string]*TypeParameter, len(params))
	for _, p := range params {
		m[p.Name()] = p
	}
	return &Scope{parent: parent, params: m}
}

// Resolve returns the nearest parameter declared with the given name, or
// nil if no enclosing scope declares it.
func (s *Scope) Resolve(name string) *TypeParameter {
	for cur := s; cur != nil; cur = cur.parent {
		if p, ok := cur.params[name]; ok {
			return p
		}
	}
	return nil
}
