package types

import (
	"errors"
	"testing"
)

func TestBindResolvesClassParams(t *testing.T) {
	classSig, err := ParseClassSignature("<T:Ljava/lang/Object;>Ljava/lang/Object;")
	if err != nil {
		t.Fatalf("ParseClassSignature: %v", err)
	}
	scope := classSig.Scope(nil)

	sig, err := ParseTypeSignature("Ljava/util/List<TT;>;")
	if err != nil {
		t.Fatalf("ParseTypeSignature: %v", err)
	}
	if !sig.IsUnbound() {
		t.Fatal("fresh parse should be unbound")
	}

	bound, err := sig.Bind(scope)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if bound.IsUnbound() {
		t.Error("bound signature still reports unbound")
	}
	if got := bound.String(); got != "Ljava/util/List<TT;>;" {
		t.Errorf("String() = %q, textual form must not change", got)
	}
}

func TestBindMissingParameterFails(t *testing.T) {
	sig, err := ParseTypeSignature("TU;")
	if err != nil {
		t.Fatalf("ParseTypeSignature: %v", err)
	}
	scope := NewScope(nil, TypeParam("T", ClassSig("java/lang/Object")))

	_, err = sig.Bind(scope)
	if err == nil {
		t.Fatal("binding with no matching parameter must fail")
	}
	var unbound *UnboundError
	if !errors.As(err, &unbound) {
		t.Fatalf("error is %T, want *UnboundError", err)
	}
	if unbound.Name != "U" {
		t.Errorf("UnboundError.Name = %q, want %q", unbound.Name, "U")
	}
}

func TestMethodParamsShadowClassParams(t *testing.T) {
	classParam := TypeParam("T", ClassSig("java/lang/String"))
	outer := NewScope(nil, classParam)

	sig, err := ParseMethodSignature("<T:Ljava/lang/Number;>(TT;)V")
	if err != nil {
		t.Fatalf("ParseMethodSignature: %v", err)
	}
	bound, err := sig.Bind(outer)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	v, ok := bound.Params()[0].(*TypeVariable)
	if !ok {
		t.Fatalf("param is %T, want *TypeVariable", bound.Params()[0])
	}
	if v.Param() == classParam {
		t.Error("method parameter did not shadow the class parameter")
	}
	if got := v.Param().Name(); got != "T" {
		t.Errorf("parameter name = %q, want %q", got, "T")
	}
	desc, err := bound.Erase()
	if err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if got, want := desc.String(), "(Ljava/lang/Number;)V"; got != want {
		t.Errorf("Erase() = %q, want %q (method-level bound)", got, want)
	}
}

func TestBindFallsBackToOuterScope(t *testing.T) {
	outer := NewScope(nil, TypeParam("E", ClassSig("java/lang/Object")))

	sig, err := ParseMethodSignature("(TE;)TE;")
	if err != nil {
		t.Fatalf("ParseMethodSignature: %v", err)
	}
	bound, err := sig.Bind(outer)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if bound.IsUnbound() {
		t.Error("signature still unbound after binding against outer scope")
	}
}

func TestScopeResolveWalksParents(t *testing.T) {
	grand := NewScope(nil, TypeParam("A", ClassSig("java/lang/Object")))
	parent := NewScope(grand, TypeParam("B", ClassSig("java/lang/Object")))
	child := NewScope(parent, TypeParam("C", ClassSig("java/lang/Object")))

	for _, name := range []string{"A", "B", "C"} {
		if child.Resolve(name) == nil {
			t.Errorf("Resolve(%q) = nil", name)
		}
	}
	if child.Resolve("D") != nil {
		t.Error("Resolve(\"D\") should be nil")
	}
}

func TestBindIdempotentOnBound(t *testing.T) {
	scope := NewScope(nil, TypeParam("T", ClassSig("java/lang/Object")))
	sig, err := ParseTypeSignature("Ljava/util/List<TT;>;")
	if err != nil {
		t.Fatal(err)
	}
	once, err := sig.Bind(scope)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := once.Bind(scope)
	if err != nil {
		t.Fatal(err)
	}
	if once != twice {
		t.Error("binding an already-bound signature must return the same instance")
	}
}
