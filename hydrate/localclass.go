package hydrate

import (
	"strings"

	"github.com/denwav/hypo/classfile"
	"github.com/denwav/hypo/model"
)

// LocalClassHydrator scopes local and anonymous classes to the method
// bodies that declare them, using the EnclosingMethod attribute to find
// the declaration site and the instantiation call site to recover which
// local variables the class captures.
//
// Runs after the lambda pass: a local class instantiated only inside a
// lambda body has no call site in the enclosing method itself and is
// recorded with an empty capture list.
type LocalClassHydrator struct{}

func NewLocalClassHydrator() *LocalClassHydrator { return &LocalClassHydrator{} }

func (*LocalClassHydrator) Name() string { return "local classes" }

func (h *LocalClassHydrator) HydrateClass(ctx *model.Context, class *model.ClassData) error {
	encClass, encName, encDesc := class.EnclosingMethod()
	if encClass == "" || encName == "" {
		return nil
	}
	outer, err := ctx.TryClass(encClass)
	if err != nil || outer == nil {
		return nil
	}
	method := outer.Method(encName, encDesc)
	if method == nil {
		return nil
	}

	closure := &LocalClassClosure{
		Containing:     method,
		LocalClass:     class,
		CapturedLocals: h.capturedAt(method, class),
	}
	model.Update(&method.Data, KeyLocalClasses, func(cur []*LocalClassClosure) []*LocalClassClosure {
		return append(cur, closure)
	})
	model.Set(&class.Data, KeyLocalClassScope, closure)
	return nil
}

// capturedAt finds the instantiation of the local class inside the
// enclosing method and reads the captured slots off the loads feeding
// the constructor call. javac materializes each captured variable as a
// synthetic val$ field and appends it to the constructor parameters, so
// the trailing loads before the invokespecial are the captures.
func (h *LocalClassHydrator) capturedAt(method *model.MethodData, class *model.ClassData) []int {
	want := 0
	for _, f := range class.Fields() {
		if f.IsSynthetic() && strings.HasPrefix(f.Name(), "val$") {
			want++
		}
	}
	if want == 0 {
		return nil
	}

	insns, err := method.Instructions()
	if err != nil || insns == nil {
		return nil
	}
	cp := method.Owner().File().ConstantPool
	for i := range insns {
		if insns[i].Op != classfile.OpInvokeSpecial {
			continue
		}
		owner, name, _ := cp.MemberRef(insns[i].CPIndex)
		if name != "<init>" || owner != class.Name() {
			continue
		}
		return trailingLoads(insns, i, want)
	}
	// No call site in the declaring method. The class is still scoped
	// here, with nothing observable to capture.
	return nil
}

func trailingLoads(insns []classfile.Instruction, at, want int) []int {
	slots := make([]int, 0, want)
	for i := at - 1; i >= 0 && len(slots) < want; i-- {
		if !insns[i].IsLoad() {
			return nil
		}
		slots = append(slots, insns[i].Var)
	}
	if len(slots) < want {
		return nil
	}
	for l, r := 0, len(slots)-1; l < r; l, r = l+1, r-1 {
		slots[l], slots[r] = slots[r], slots[l]
	}
	return slots
}
