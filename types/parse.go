package types

// Recursive-descent parsers for the internal JVM type grammar. The
// sub-production functions return (value, consumed) and report no-match
// as (nil, 0); only the exported entry points turn a failed or partial
// parse into a ParseError. Single left-to-right pass, one character of
// lookahead.

// ParseTypeDescriptor parses a complete field type descriptor, e.g. "I",
// "[[Ljava/lang/String;", or "V".
func ParseTypeDescriptor(s string) (TypeDescriptor, error) {
	d, n := parseTypeDescriptor(s, 0)
	if d == nil || n != len(s) {
		return nil, &ParseError{Input: s, Offset: n, Expect: "type descriptor"}
	}
	return d, nil
}

// ParseMethodDescriptor parses a complete method descriptor, e.g.
// "(ILjava/lang/String;)V".
func ParseMethodDescriptor(s string) (*MethodDescriptor, error) {
	d, n := parseMethodDescriptor(s, 0)
	if d == nil || n != len(s) {
		return nil, &ParseError{Input: s, Offset: n, Expect: "method descriptor"}
	}
	return d, nil
}

// ParseTypeSignature parses a complete generic type signature, e.g.
// "Ljava/util/List<TT;>;".
func ParseTypeSignature(s string) (TypeSignature, error) {
	sig, n := parseTypeSignature(s, 0)
	if sig == nil || n != len(s) {
		return nil, &ParseError{Input: s, Offset: n, Expect: "type signature"}
	}
	return sig, nil
}

// ParseMethodSignature parses a complete generic method signature, e.g.
// "<T:Ljava/lang/Object;>(TT;)TT;^Ljava/io/IOException;".
func ParseMethodSignature(s string) (*MethodSignature, error) {
	sig, n := parseMethodSignature(s, 0)
	if sig == nil || n != len(s) {
		return nil, &ParseError{Input: s, Offset: n, Expect: "method signature"}
	}
	return sig, nil
}

// ParseClassSignature parses a complete class declaration signature,
// e.g. "<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Iterable<TT;>;".
func ParseClassSignature(s string) (*ClassSignature, error) {
	sig, n := parseClassSignature(s, 0)
	if sig == nil || n != len(s) {
		return nil, &ParseError{Input: s, Offset: n, Expect: "class signature"}
	}
	return sig, nil
}

func parseTypeDescriptor(s string, start int) (TypeDescriptor, int) {
	if start >= len(s) {
		return nil, 0
	}
	if p, ok := PrimitiveByChar(s[start]); ok {
		return p, 1
	}
	switch s[start] {
	case 'V':
		return Void, 1
	case '[':
		dims := 0
		i := start
		for i < len(s) && s[i] == '[' {
			dims++
			i++
		}
		base, n := parseTypeDescriptor(s, i)
		if base == nil {
			return nil, 0
		}
		if _, isArr := base.(*ArrayTypeDescriptor); isArr {
			return nil, 0
		}
		if base == TypeDescriptor(Void) {
			return nil, 0
		}
		return ArrayDesc(dims, base), i - start + n
	case 'L':
		name, n := scanUntil(s, start+1, ';')
		if n == 0 {
			return nil, 0
		}
		return ClassDesc(name), 1 + n + 1
	}
	return nil, 0
}

func parseMethodDescriptor(s string, start int) (*MethodDescriptor, int) {
	if start >= len(s) || s[start] != '(' {
		return nil, 0
	}
	i := start + 1
	var params []TypeDescriptor
	for i < len(s) && s[i] != ')' {
		p, n := parseTypeDescriptor(s, i)
		if p == nil || p == TypeDescriptor(Void) {
			return nil, 0
		}
		params = append(params, p)
		i += n
	}
	if i >= len(s) {
		return nil, 0
	}
	i++ // ')'
	ret, n := parseTypeDescriptor(s, i)
	if ret == nil {
		return nil, 0
	}
	return MethodDesc(params, ret), i - start + n
}

func parseTypeSignature(s string, start int) (TypeSignature, int) {
	if start >= len(s) {
		return nil, 0
	}
	if p, ok := PrimitiveByChar(s[start]); ok {
		return p, 1
	}
	return parseReferenceSignature(s, start)
}

// parseReferenceSignature parses a class type signature, an array
// signature, or a type variable. Primitives and void do not match.
func parseReferenceSignature(s string, start int) (TypeSignature, int) {
	if start >= len(s) {
		return nil, 0
	}
	switch s[start] {
	case 'L':
		return parseClassTypeSignature(s, start)
	case 'T':
		name, n := scanUntil(s, start+1, ';')
		if n == 0 {
			return nil, 0
		}
		return UnboundVariable(name), 1 + n + 1
	case '[':
		dims := 0
		i := start
		for i < len(s) && s[i] == '[' {
			dims++
			i++
		}
		base, n := parseTypeSignature(s, i)
		if base == nil {
			return nil, 0
		}
		if _, isArr := base.(*ArrayTypeSignature); isArr {
			return nil, 0
		}
		return ArraySig(dims, base), i - start + n
	}
	return nil, 0
}

func parseClassTypeSignature(s string, start int) (TypeSignature, int) {
	sig, n := parseClassTypeSignatureOnly(s, start)
	if sig == nil {
		return nil, 0
	}
	return sig, n
}

func parseClassTypeSignatureOnly(s string, start int) (*ClassTypeSignature, int) {
	if start >= len(s) || s[start] != 'L' {
		return nil, 0
	}
	i := start + 1
	name, n := scanName(s, i)
	if n == 0 {
		return nil, 0
	}
	i += n

	cur, n := parseClassSegment(nil, name, s, i)
	if cur == nil {
		return nil, 0
	}
	i += n

	for i < len(s) && s[i] == '.' {
		i++
		simple, n := scanName(s, i)
		if n == 0 {
			return nil, 0
		}
		i += n
		next, n := parseClassSegment(cur, simple, s, i)
		if next == nil {
			return nil, 0
		}
		cur = next
		i += n
	}

	if i >= len(s) || s[i] != ';' {
		return nil, 0
	}
	i++
	return cur, i - start
}

// parseClassSegment consumes the optional <TypeArgument+> suffix of one
// owner-chain segment and interns the segment.
func parseClassSegment(owner *ClassTypeSignature, name string, s string, start int) (*ClassTypeSignature, int) {
	if start >= len(s) || s[start] != '<' {
		return internClassSig(owner, name, nil), 0
	}
	i := start + 1
	var args []TypeArgument
	for i < len(s) && s[i] != '>' {
		arg, n := parseTypeArgument(s, i)
		if arg == nil {
			return nil, 0
		}
		args = append(args, arg)
		i += n
	}
	if i >= len(s) || len(args) == 0 {
		return nil, 0
	}
	i++ // '>'
	return internClassSig(owner, name, args), i - start
}

func parseTypeArgument(s string, start int) (TypeArgument, int) {
	if start >= len(s) {
		return nil, 0
	}
	switch s[start] {
	case '*':
		return Star, 1
	case '+':
		sig, n := parseReferenceSignature(s, start+1)
		if sig == nil {
			return nil, 0
		}
		return UpperBound{Sig: sig}, 1 + n
	case '-':
		sig, n := parseReferenceSignature(s, start+1)
		if sig == nil {
			return nil, 0
		}
		return LowerBound{Sig: sig}, 1 + n
	}
	sig, n := parseReferenceSignature(s, start)
	if sig == nil {
		return nil, 0
	}
	return sig.(TypeArgument), n
}

// parseTypeParams parses the <TypeParameter+> block shared by method and
// class signatures.
func parseTypeParams(s string, start int) ([]*TypeParameter, int) {
	if start >= len(s) || s[start] != '<' {
		return nil, 0
	}
	i := start + 1
	var params []*TypeParameter
	for i < len(s) && s[i] != '>' {
		p, n := parseTypeParameter(s, i)
		if p == nil {
			return nil, 0
		}
		params = append(params, p)
		i += n
	}
	if i >= len(s) || len(params) == 0 {
		return nil, 0
	}
	i++ // '>'
	return params, i - start
}

func parseTypeParameter(s string, start int) (*TypeParameter, int) {
	name, n := scanUntil(s, start, ':')
	if n == 0 {
		return nil, 0
	}
	i := start + n + 1

	// The class bound may be empty: the next character is then another
	// ':' (interface bound follows) or '>' (end of the block).
	var classBound TypeSignature
	if i < len(s) && s[i] != ':' && s[i] != '>' {
		sig, n := parseReferenceSignature(s, i)
		if sig == nil {
			return nil, 0
		}
		classBound = sig
		i += n
	}

	var ifaceBounds []TypeSignature
	for i < len(s) && s[i] == ':' {
		i++
		sig, n := parseReferenceSignature(s, i)
		if sig == nil {
			return nil, 0
		}
		ifaceBounds = append(ifaceBounds, sig)
		i += n
	}

	return TypeParam(name, classBound, ifaceBounds...), i - start
}

func parseMethodSignature(s string, start int) (*MethodSignature, int) {
	i := start
	typeParams, n := parseTypeParams(s, i)
	if n > 0 {
		i += n
	}

	if i >= len(s) || s[i] != '(' {
		return nil, 0
	}
	i++
	var params []TypeSignature
	for i < len(s) && s[i] != ')' {
		p, n := parseTypeSignature(s, i)
		if p == nil {
			return nil, 0
		}
		params = append(params, p)
		i += n
	}
	if i >= len(s) {
		return nil, 0
	}
	i++ // ')'

	var ret TypeSignature
	if i < len(s) && s[i] == 'V' {
		ret = Void
		i++
	} else {
		sig, n := parseTypeSignature(s, i)
		if sig == nil {
			return nil, 0
		}
		ret = sig
		i += n
	}

	var throws []TypeSignature
	for i < len(s) && s[i] == '^' {
		i++
		sig, n := parseReferenceSignature(s, i)
		if sig == nil {
			return nil, 0
		}
		throws = append(throws, sig)
		i += n
	}

	return MethodSig(typeParams, params, ret, throws), i - start
}

func parseClassSignature(s string, start int) (*ClassSignature, int) {
	i := start
	typeParams, n := parseTypeParams(s, i)
	if n > 0 {
		i += n
	}

	superClass, n := parseClassTypeSignatureOnly(s, i)
	if superClass == nil {
		return nil, 0
	}
	i += n

	var interfaces []*ClassTypeSignature
	for i < len(s) && s[i] == 'L' {
		iface, n := parseClassTypeSignatureOnly(s, i)
		if iface == nil {
			return nil, 0
		}
		interfaces = append(interfaces, iface)
		i += n
	}

	return NewClassSignature(typeParams, superClass, interfaces), i - start
}

// scanUntil returns the text from start up to the next occurrence of
// stop and its length, or ("", 0) if stop does not occur or the text is
// empty.
func scanUntil(s string, start int, stop byte) (string, int) {
	i := start
	for i < len(s) && s[i] != stop {
		i++
	}
	if i >= len(s) || i == start {
		return "", 0
	}
	return s[start:i], i - start
}

// scanName consumes an internal name: any run of characters excluding
// the grammar's structural delimiters.
func scanName(s string, start int) (string, int) {
	i := start
	for i < len(s) {
		switch s[i] {
		case ';', '<', '>', '.', ':', '[', '^':
			return s[start:i], i - start
		}
		i++
	}
	return s[start:i], i - start
}
