package hydrate_test

import (
	"testing"

	"github.com/denwav/hypo/hydrate"
	"github.com/denwav/hypo/internal/javatest"
	"github.com/denwav/hypo/model"
)

func TestManagerRunsAllPasses(t *testing.T) {
	child := javatest.NewClass("com/example/Child").SetSuper("com/example/Parent")
	sup := child.MethodRef("com/example/Parent", "<init>", "(I)V")
	child.AddMethod(0x0001, "<init>", "(I)V", []byte{
		0x2a, // aload_0
		0x1b, // iload_1
		0xb7, hi(sup), lo(sup), // invokespecial Parent.<init>(I)V
		0xb1, // return
	})

	classes := map[string][]byte{
		"com/example/Parent": parentClass(),
		"com/example/Child":  child.Bytes(),
		"com/example/Box":    buildBridgeClass(),
		"com/example/Broken": {0xca, 0xfe}, // unreadable, must be skipped
	}

	ctx := newHydrateContext(t, classes)
	if err := hydrate.NewManager(2).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	ctor := mustClass(t, ctx, "com/example/Child").Method("<init>", "(I)V")
	if _, ok := model.Get(&ctor.Data, hydrate.KeySuperCall); !ok {
		t.Error("super call pass did not run")
	}

	box := mustClass(t, ctx, "com/example/Box")
	bridge := box.Method("apply", "(Ljava/lang/Object;)Ljava/lang/Object;")
	if _, ok := model.Get(&bridge.Data, hydrate.KeyBridgeTarget); !ok {
		t.Error("bridge pass did not run")
	}
}

func TestManagerSessionIDs(t *testing.T) {
	a := hydrate.NewManager(1)
	b := hydrate.NewManager(1)
	if a.Session() == "" {
		t.Fatal("manager has no session id")
	}
	if a.Session() != a.Session() {
		t.Error("session id changed between calls")
	}
	if a.Session() == b.Session() {
		t.Errorf("two managers share session id %s", a.Session())
	}
}

func TestDefaultPassOrder(t *testing.T) {
	passes := hydrate.Default()
	if len(passes) != 4 {
		t.Fatalf("Default has %d passes, want 4", len(passes))
	}
	// Local class scoping must see lambda facts.
	if passes[2].Name() != "lambdas" || passes[3].Name() != "local classes" {
		t.Errorf("pass order = [%s %s %s %s]",
			passes[0].Name(), passes[1].Name(), passes[2].Name(), passes[3].Name())
	}
}
