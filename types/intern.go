package types

import "sync"

// Interning tables, one per value category. Construction is idempotent
// and side-effect-free, so concurrent first use may build duplicates;
// LoadOrStore picks a single winner and every caller uses it. No key is
// ever removed.
var interned struct {
	classDescs  sync.Map // string -> *ClassTypeDescriptor
	arrayDescs  sync.Map // string -> *ArrayTypeDescriptor
	methodDescs sync.Map // string -> *MethodDescriptor
	classSigs   sync.Map // string -> *ClassTypeSignature
	arraySigs   sync.Map // string -> *ArrayTypeSignature
	variables   sync.Map // string -> *TypeVariable (unbound only)
	typeParams  sync.Map // string -> *TypeParameter
	methodSigs  sync.Map // string -> *MethodSignature
	classDecls  sync.Map // string -> *ClassSignature
}

func internClassDesc(name string) *ClassTypeDescriptor {
	if v, ok := interned.classDescs.Load(name); ok {
		return v.(*ClassTypeDescriptor)
	}
	v, _ := interned.classDescs.LoadOrStore(name, &ClassTypeDescriptor{name: name})
	return v.(*ClassTypeDescriptor)
}

func internArrayDesc(dims int, base TypeDescriptor) *ArrayTypeDescriptor {
	d := &ArrayTypeDescriptor{dims: dims, base: base}
	key := d.internKey()
	if v, ok := interned.arrayDescs.Load(key); ok {
		return v.(*ArrayTypeDescriptor)
	}
	v, _ := interned.arrayDescs.LoadOrStore(key, d)
	return v.(*ArrayTypeDescriptor)
}

func internMethodDesc(params []TypeDescriptor, ret TypeDescriptor) *MethodDescriptor {
	d := &MethodDescriptor{params: params, ret: ret}
	key := d.internKey()
	if v, ok := interned.methodDescs.Load(key); ok {
		return v.(*MethodDescriptor)
	}
	v, _ := interned.methodDescs.LoadOrStore(key, d)
	return v.(*MethodDescriptor)
}

func internClassSig(owner *ClassTypeSignature, name string, args []TypeArgument) *ClassTypeSignature {
	s := &ClassTypeSignature{owner: owner, name: name, args: args}
	key := s.internKey()
	if v, ok := interned.classSigs.Load(key); ok {
		return v.(*ClassTypeSignature)
	}
	v, _ := interned.classSigs.LoadOrStore(key, s)
	return v.(*ClassTypeSignature)
}

func internArraySig(dims int, base TypeSignature) *ArrayTypeSignature {
	s := &ArrayTypeSignature{dims: dims, base: base}
	key := s.internKey()
	if v, ok := interned.arraySigs.Load(key); ok {
		return v.(*ArrayTypeSignature)
	}
	v, _ := interned.arraySigs.LoadOrStore(key, s)
	return v.(*ArrayTypeSignature)
}

func internUnboundVariable(name string) *TypeVariable {
	if v, ok := interned.variables.Load(name); ok {
		return v.(*TypeVariable)
	}
	v, _ := interned.variables.LoadOrStore(name, &TypeVariable{name: name})
	return v.(*TypeVariable)
}

func internTypeParam(name string, classBound TypeSignature, ifaceBounds []TypeSignature) *TypeParameter {
	p := &TypeParameter{name: name, classBound: classBound, ifaceBounds: ifaceBounds}
	// The bound variable is 1:1 with its parameter; building it here
	// keeps construction side-effect-free for losers of the race.
	p.variable = &TypeVariable{name: name, param: p}
	key := p.internKey()
	if v, ok := interned.typeParams.Load(key); ok {
		return v.(*TypeParameter)
	}
	v, _ := interned.typeParams.LoadOrStore(key, p)
	return v.(*TypeParameter)
}

func internMethodSig(typeParams []*TypeParameter, params []TypeSignature, ret TypeSignature, throws []TypeSignature) *MethodSignature {
	s := &MethodSignature{typeParams: typeParams, params: params, ret: ret, throws: throws}
	key := s.internKey()
	if v, ok := interned.methodSigs.Load(key); ok {
		return v.(*MethodSignature)
	}
	v, _ := interned.methodSigs.LoadOrStore(key, s)
	return v.(*MethodSignature)
}

func internClassSignature(typeParams []*TypeParameter, superClass *ClassTypeSignature, interfaces []*ClassTypeSignature) *ClassSignature {
	s := &ClassSignature{typeParams: typeParams, superClass: superClass, interfaces: interfaces}
	key := s.internKey()
	if v, ok := interned.classDecls.Load(key); ok {
		return v.(*ClassSignature)
	}
	v, _ := interned.classDecls.LoadOrStore(key, s)
	return v.(*ClassSignature)
}
