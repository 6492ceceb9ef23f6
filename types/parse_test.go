package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseTypeDescriptorRoundTrip(t *testing.T) {
	inputs := []string{
		"Z", "B", "C", "S", "I", "J", "F", "D", "V",
		"Ljava/lang/String;",
		"Ljava/util/Map$Entry;",
		"[I",
		"[[J",
		"[[[Ljava/lang/Object;",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			d, err := ParseTypeDescriptor(input)
			if err != nil {
				t.Fatalf("ParseTypeDescriptor(%q): %v", input, err)
			}
			if got := d.String(); got != input {
				t.Errorf("String() = %q, want %q", got, input)
			}
		})
	}
}

func TestParseMethodDescriptorRoundTrip(t *testing.T) {
	// Every combination of parameter and return type must survive a
	// parse and re-render unchanged.
	paramTypes := []string{"I", "J", "D", "Ljava/lang/String;", "[B", "[[Ljava/util/List;"}
	returnTypes := []string{"V", "I", "J", "Ljava/lang/Object;", "[C"}

	for _, p1 := range paramTypes {
		for _, p2 := range paramTypes {
			for _, ret := range returnTypes {
				input := "(" + p1 + p2 + ")" + ret
				d, err := ParseMethodDescriptor(input)
				if err != nil {
					t.Fatalf("ParseMethodDescriptor(%q): %v", input, err)
				}
				if got := d.String(); got != input {
					t.Errorf("String() = %q, want %q", got, input)
				}
				if len(d.Params()) != 2 {
					t.Errorf("Params() has %d entries, want 2", len(d.Params()))
				}
			}
		}
	}
}

func TestParseMethodDescriptorEmptyParams(t *testing.T) {
	d, err := ParseMethodDescriptor("()V")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}
	if len(d.Params()) != 0 {
		t.Errorf("Params() has %d entries, want 0", len(d.Params()))
	}
	if _, ok := d.Ret().(VoidType); !ok {
		t.Errorf("Ret() = %T, want VoidType", d.Ret())
	}
}

func TestParseTypeSignatureRoundTrip(t *testing.T) {
	inputs := []string{
		"I",
		"TT;",
		"Ljava/lang/String;",
		"Ljava/util/List<TT;>;",
		"Ljava/util/Map<TK;TV;>;",
		"Ljava/util/List<*>;",
		"Ljava/util/List<+Ljava/lang/Number;>;",
		"Ljava/util/List<-Ljava/lang/Integer;>;",
		"Ljava/util/List<[I>;",
		"[TT;",
		"[[Ljava/util/List<TT;>;",
		"Ljava/util/Map<TK;TV;>.Entry<TK;TV;>;",
		"Louter/Generic<TT;>.Inner;",
		"Ljava/util/List<Ljava/util/List<TT;>;>;",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			sig, err := ParseTypeSignature(input)
			if err != nil {
				t.Fatalf("ParseTypeSignature(%q): %v", input, err)
			}
			if got := sig.String(); got != input {
				t.Errorf("String() = %q, want %q", got, input)
			}
		})
	}
}

func TestParseMethodSignatureRoundTrip(t *testing.T) {
	inputs := []string{
		"()V",
		"(TT;)TT;",
		"<T:Ljava/lang/Object;>(TT;)TT;",
		"<T::Ljava/lang/Comparable<TT;>;>(TT;TT;)I",
		"<K:Ljava/lang/Object;V:Ljava/lang/Object;>(TK;)TV;",
		"(Ljava/util/List<TT;>;)V^Ljava/io/IOException;",
		"()V^TE;^Ljava/lang/RuntimeException;",
		"<T:Ljava/lang/Number;:Ljava/lang/Comparable<TT;>;>([TT;)TT;",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			sig, err := ParseMethodSignature(input)
			if err != nil {
				t.Fatalf("ParseMethodSignature(%q): %v", input, err)
			}
			if got := sig.String(); got != input {
				t.Errorf("String() = %q, want %q", got, input)
			}
		})
	}
}

func TestParseClassSignatureRoundTrip(t *testing.T) {
	inputs := []string{
		"Ljava/lang/Object;",
		"Ljava/lang/Object;Ljava/lang/Runnable;",
		"<T:Ljava/lang/Object;>Ljava/lang/Object;",
		"<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Iterable<TT;>;",
		"<E:Ljava/lang/Object;>Ljava/util/AbstractList<TE;>;Ljava/util/List<TE;>;",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			sig, err := ParseClassSignature(input)
			if err != nil {
				t.Fatalf("ParseClassSignature(%q): %v", input, err)
			}
			if got := sig.String(); got != input {
				t.Errorf("String() = %q, want %q", got, input)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) error
		input string
	}{
		{"empty descriptor", wrapParse(ParseTypeDescriptor), ""},
		{"unknown primitive", wrapParse(ParseTypeDescriptor), "Q"},
		{"unterminated class", wrapParse(ParseTypeDescriptor), "Ljava/lang/String"},
		{"trailing garbage", wrapParse(ParseTypeDescriptor), "Ix"},
		{"array of void", wrapParse(ParseTypeDescriptor), "[V"},
		{"missing paren", wrapParse2(ParseMethodDescriptor), "IV"},
		{"void parameter", wrapParse2(ParseMethodDescriptor), "(V)V"},
		{"unterminated params", wrapParse2(ParseMethodDescriptor), "(I"},
		{"missing return", wrapParse2(ParseMethodDescriptor), "(I)"},
		{"unterminated variable", wrapParse(ParseTypeSignature), "TT"},
		{"wildcard outside args", wrapParse(ParseTypeSignature), "*"},
		{"unclosed args", wrapParse(ParseTypeSignature), "Ljava/util/List<TT;;"},
		{"empty type params", wrapParse3(ParseMethodSignature), "<>()V"},
		{"class sig without super", wrapParse4(ParseClassSignature), "<T:Ljava/lang/Object;>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse(tt.input)
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("error is %T, want *ParseError", err)
			}
		})
	}
}

func wrapParse[T any](f func(string) (T, error)) func(string) error {
	return func(s string) error { _, err := f(s); return err }
}

func wrapParse2(f func(string) (*MethodDescriptor, error)) func(string) error {
	return func(s string) error { _, err := f(s); return err }
}

func wrapParse3(f func(string) (*MethodSignature, error)) func(string) error {
	return func(s string) error { _, err := f(s); return err }
}

func wrapParse4(f func(string) (*ClassSignature, error)) func(string) error {
	return func(s string) error { _, err := f(s); return err }
}

func TestMethodDescriptorParamSlots(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"()V", 0},
		{"(I)V", 1},
		{"(J)V", 2},
		{"(IJ)V", 3},
		{"(DD)V", 4},
		{"(Ljava/lang/String;J)V", 3},
		{"([J)V", 1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseMethodDescriptor(tt.input)
			if err != nil {
				t.Fatalf("ParseMethodDescriptor: %v", err)
			}
			if got := d.ParamSlots(); got != tt.want {
				t.Errorf("ParamSlots() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTypeSignatureErasure(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ljava/lang/String;", "Ljava/lang/String;"},
		{"Ljava/util/List<TT;>;", "Ljava/util/List;"},
		{"Ljava/util/Map<TK;TV;>.Entry<TK;TV;>;", "Ljava/util/Map$Entry;"},
		{"[[Ljava/util/List<TT;>;", "[[Ljava/util/List;"},
		{"I", "I"},
	}
	scope := NewScope(nil,
		TypeParam("T", ClassSig("java/lang/Object")),
		TypeParam("K", ClassSig("java/lang/Object")),
		TypeParam("V", ClassSig("java/lang/Object")),
	)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sig, err := ParseTypeSignature(tt.input)
			if err != nil {
				t.Fatalf("ParseTypeSignature: %v", err)
			}
			bound, err := sig.Bind(scope)
			if err != nil {
				t.Fatalf("Bind: %v", err)
			}
			desc, err := bound.Erase()
			if err != nil {
				t.Fatalf("Erase: %v", err)
			}
			if got := desc.String(); got != tt.want {
				t.Errorf("Erase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnboundErasureFails(t *testing.T) {
	sig, err := ParseTypeSignature("TT;")
	if err != nil {
		t.Fatalf("ParseTypeSignature: %v", err)
	}
	if !sig.IsUnbound() {
		t.Fatal("expected TT; to be unbound")
	}
	if _, err := sig.Erase(); !errors.Is(err, ErrUnbound) {
		t.Errorf("Erase() error = %v, want ErrUnbound", err)
	}

	method, err := ParseMethodSignature("(TT;)V")
	if err != nil {
		t.Fatalf("ParseMethodSignature: %v", err)
	}
	if _, err := method.Erase(); !errors.Is(err, ErrUnbound) {
		t.Errorf("method Erase() error = %v, want ErrUnbound", err)
	}
}

func TestMethodSignatureOwnParamsErase(t *testing.T) {
	// Binding against the method's own type parameters needs no outer
	// scope; the bound result is erasable.
	sig, err := ParseMethodSignature("<T:Ljava/lang/Number;>(TT;)TT;")
	if err != nil {
		t.Fatalf("ParseMethodSignature: %v", err)
	}
	bound, err := sig.Bind(nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	desc, err := bound.Erase()
	if err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if got, want := desc.String(), "(Ljava/lang/Number;)Ljava/lang/Number;"; got != want {
		t.Errorf("Erase() = %q, want %q", got, want)
	}
}

func TestInterfaceOnlyBoundErasure(t *testing.T) {
	// An empty class bound falls back to the first interface bound.
	sig, err := ParseMethodSignature("<T::Ljava/lang/Comparable<TT;>;>(TT;)V")
	if err != nil {
		t.Fatalf("ParseMethodSignature: %v", err)
	}
	bound, err := sig.Bind(nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	desc, err := bound.Erase()
	if err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if got, want := desc.String(), "(Ljava/lang/Comparable;)V"; got != want {
		t.Errorf("Erase() = %q, want %q", got, want)
	}
}

func ExampleParseMethodSignature() {
	sig, _ := ParseMethodSignature("<T:Ljava/lang/Object;>(TT;I)TT;")
	fmt.Println(sig)
	// Output: <T:Ljava/lang/Object;>(TT;I)TT;
}
