package types

import (
	"sync"
	"testing"
)

func TestInterningReferenceEquality(t *testing.T) {
	inputs := []string{
		"Ljava/lang/String;",
		"[[I",
		"Ljava/util/List<TT;>;",
		"Ljava/util/Map<TK;TV;>.Entry<TK;TV;>;",
		"[Ljava/util/List<+Ljava/lang/Number;>;",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			a, err := ParseTypeSignature(input)
			if err != nil {
				t.Fatalf("first parse: %v", err)
			}
			b, err := ParseTypeSignature(input)
			if err != nil {
				t.Fatalf("second parse: %v", err)
			}
			if a != b {
				t.Errorf("two parses of %q produced distinct instances", input)
			}
		})
	}
}

func TestInterningMethodForms(t *testing.T) {
	d1, err := ParseMethodDescriptor("(ILjava/lang/String;)[J")
	if err != nil {
		t.Fatal(err)
	}
	d2, err := ParseMethodDescriptor("(ILjava/lang/String;)[J")
	if err != nil {
		t.Fatal(err)
	}
	if d1 != d2 {
		t.Error("method descriptors not interned")
	}

	s1, err := ParseMethodSignature("<T:Ljava/lang/Object;>(TT;)TT;")
	if err != nil {
		t.Fatal(err)
	}
	s2, err := ParseMethodSignature("<T:Ljava/lang/Object;>(TT;)TT;")
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 {
		t.Error("method signatures not interned")
	}
}

func TestBoundAndUnboundVariablesDistinct(t *testing.T) {
	unbound := UnboundVariable("T")
	param := TypeParam("T", ClassSig("java/lang/Object"))
	bound := param.Variable()

	if unbound == bound {
		t.Fatal("bound and unbound variables of the same name must not intern together")
	}
	if bound.Param() != param {
		t.Error("bound variable does not reference its declaring parameter")
	}
	if unbound.Param() != nil {
		t.Error("unbound variable has a declaring parameter")
	}

	// The bound variable is canonical per parameter.
	if param.Variable() != bound {
		t.Error("Variable() not stable")
	}
}

func TestConcurrentInterning(t *testing.T) {
	// Many goroutines parsing the same fresh text must all observe the
	// same canonical instance.
	inputs := []string{
		"Lconcurrent/test/A<TX;>;",
		"Lconcurrent/test/B<TX;TY;>;",
		"[Lconcurrent/test/C;",
		"(Lconcurrent/test/A;)Lconcurrent/test/B;",
	}
	const goroutines = 32

	for _, input := range inputs {
		results := make([]Type, goroutines)
		var wg sync.WaitGroup
		var start sync.WaitGroup
		start.Add(1)
		for g := 0; g < goroutines; g++ {
			g := g
			wg.Add(1)
			go func() {
				defer wg.Done()
				start.Wait()
				if input[0] == '(' {
					d, err := ParseMethodDescriptor(input)
					if err != nil {
						t.Errorf("parse %q: %v", input, err)
						return
					}
					results[g] = d
				} else {
					sig, err := ParseTypeSignature(input)
					if err != nil {
						t.Errorf("parse %q: %v", input, err)
						return
					}
					results[g] = sig
				}
			}()
		}
		start.Done()
		wg.Wait()

		for g := 1; g < goroutines; g++ {
			if results[g] != results[0] {
				t.Fatalf("goroutine %d got a different instance for %q", g, input)
			}
		}
	}
}
