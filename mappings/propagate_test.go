package mappings_test

import (
	"testing"

	"github.com/denwav/hypo/hydrate"
	"github.com/denwav/hypo/internal/javatest"
	"github.com/denwav/hypo/mappings"
	"github.com/denwav/hypo/model"
)

// propagationFixture builds a small graph and attaches the hydration
// facts by hand, so propagation is tested in isolation from the
// bytecode analyses.
func propagationFixture(t *testing.T) *model.Context {
	t.Helper()

	box := javatest.NewClass("a/Box").
		AddMethod(0x0001, "go", "(Ljava/lang/String;)Ljava/lang/String;", []byte{0x2b, 0xb0}).
		AddMethod(0x1041, "go", "(Ljava/lang/Object;)Ljava/lang/Object;", []byte{0x2b, 0xb0}).
		AddMethod(0x100a, "lambda$run$0", "(ILjava/lang/String;)V", []byte{0xb1})

	fn := javatest.NewClass("a/Fn").SetFlags(0x0601).
		AddMethod(0x0401, "accept", "(Ljava/lang/String;)V", nil)

	parent := javatest.NewClass("a/Parent").
		AddMethod(0x0001, "<init>", "(I)V", []byte{0xb1})
	child := javatest.NewClass("a/Child").SetSuper("a/Parent").
		AddMethod(0x0001, "<init>", "(I)V", []byte{0xb1})

	ctx := model.NewContext(model.MapProvider{
		"a/Box":    box.Bytes(),
		"a/Fn":     fn.Bytes(),
		"a/Parent": parent.Bytes(),
		"a/Child":  child.Bytes(),
	})
	t.Cleanup(func() { ctx.Close() })

	boxCD, err := ctx.FindClass("a/Box")
	if err != nil {
		t.Fatalf("FindClass: %v", err)
	}
	bridge := boxCD.Method("go", "(Ljava/lang/Object;)Ljava/lang/Object;")
	target := boxCD.Method("go", "(Ljava/lang/String;)Ljava/lang/String;")
	model.Set(&bridge.Data, hydrate.KeyBridgeTarget, target)

	fnCD, err := ctx.FindClass("a/Fn")
	if err != nil {
		t.Fatalf("FindClass: %v", err)
	}
	impl := boxCD.Method("lambda$run$0", "")
	model.Set(&impl.Data, hydrate.KeyLambdaInterface, fnCD.Method("accept", ""))

	parentCD, err := ctx.FindClass("a/Parent")
	if err != nil {
		t.Fatalf("FindClass: %v", err)
	}
	childCD, err := ctx.FindClass("a/Child")
	if err != nil {
		t.Fatalf("FindClass: %v", err)
	}
	childCtor := childCD.Method("<init>", "(I)V")
	model.Set(&childCtor.Data, hydrate.KeySuperCall, &hydrate.SuperCall{
		Source: childCtor,
		Target: parentCD.Method("<init>", "(I)V"),
		Params: []hydrate.ParamMapping{{SourceIndex: 0, TargetIndex: 0}},
	})

	return ctx
}

func TestPropagateBridge(t *testing.T) {
	ctx := propagationFixture(t)
	set := mappings.NewMappingSet()

	m := set.GetOrCreateClass("a/Box").GetOrCreateMethod("go", "(Ljava/lang/String;)Ljava/lang/String;")
	m.Mapped = "transform"
	m.SetParamName(0, "input")

	if err := mappings.Propagate(ctx, set); err != nil {
		t.Fatalf("Propagate: %v", err)
	}

	got := set.Class("a/Box").Method("go", "(Ljava/lang/Object;)Ljava/lang/Object;")
	if got == nil {
		t.Fatal("bridge gained no mapping entry")
	}
	if got.Mapped != "transform" {
		t.Errorf("bridge mapped = %q, want transform", got.Mapped)
	}
	if got.ParamName(0) != "input" {
		t.Errorf("bridge param 0 = %q, want input", got.ParamName(0))
	}
}

func TestPropagateBridgeReverse(t *testing.T) {
	ctx := propagationFixture(t)
	set := mappings.NewMappingSet()

	// Only the bridge side is named; the target picks it up.
	set.GetOrCreateClass("a/Box").
		GetOrCreateMethod("go", "(Ljava/lang/Object;)Ljava/lang/Object;").Mapped = "transform"

	if err := mappings.Propagate(ctx, set); err != nil {
		t.Fatalf("Propagate: %v", err)
	}

	got := set.Class("a/Box").Method("go", "(Ljava/lang/String;)Ljava/lang/String;")
	if got == nil || got.Mapped != "transform" {
		t.Errorf("target mapping = %v, want transform", got)
	}
}

func TestPropagateSuperCallParams(t *testing.T) {
	ctx := propagationFixture(t)
	set := mappings.NewMappingSet()

	set.GetOrCreateClass("a/Parent").GetOrCreateMethod("<init>", "(I)V").SetParamName(0, "width")

	if err := mappings.Propagate(ctx, set); err != nil {
		t.Fatalf("Propagate: %v", err)
	}

	got := set.Class("a/Child").Method("<init>", "(I)V")
	if got == nil || got.ParamName(0) != "width" {
		t.Errorf("child ctor param 0 = %v, want width", got)
	}
}

func TestPropagateLambdaParams(t *testing.T) {
	ctx := propagationFixture(t)
	set := mappings.NewMappingSet()

	set.GetOrCreateClass("a/Fn").
		GetOrCreateMethod("accept", "(Ljava/lang/String;)V").SetParamName(0, "message")

	if err := mappings.Propagate(ctx, set); err != nil {
		t.Fatalf("Propagate: %v", err)
	}

	// One captured int shifts the interface parameter to index 1.
	got := set.Class("a/Box").Method("lambda$run$0", "(ILjava/lang/String;)V")
	if got == nil || got.ParamName(1) != "message" {
		t.Errorf("lambda impl param 1 = %v, want message", got)
	}
	if got != nil && got.ParamName(0) != "" {
		t.Errorf("capture slot gained a name: %q", got.ParamName(0))
	}
}

func TestPropagateNeverOverwrites(t *testing.T) {
	ctx := propagationFixture(t)
	set := mappings.NewMappingSet()

	box := set.GetOrCreateClass("a/Box")
	box.GetOrCreateMethod("go", "(Ljava/lang/String;)Ljava/lang/String;").Mapped = "transform"
	box.GetOrCreateMethod("go", "(Ljava/lang/Object;)Ljava/lang/Object;").Mapped = "bridgeName"

	if err := mappings.Propagate(ctx, set); err != nil {
		t.Fatalf("Propagate: %v", err)
	}

	if got := box.Method("go", "(Ljava/lang/Object;)Ljava/lang/Object;").Mapped; got != "bridgeName" {
		t.Errorf("existing mapping overwritten: %q", got)
	}
}
