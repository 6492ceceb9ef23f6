package hydrate

import (
	"github.com/denwav/hypo/classfile"
	"github.com/denwav/hypo/model"
	"github.com/denwav/hypo/types"
)

const lambdaMetafactory = "java/lang/invoke/LambdaMetafactory"

// LambdaHydrator attributes lambda and method-reference call sites to
// the synthetic implementation methods the LambdaMetafactory bootstraps,
// recovering the captured local variables from the loads feeding each
// invokedynamic instruction.
type LambdaHydrator struct{}

func NewLambdaHydrator() *LambdaHydrator { return &LambdaHydrator{} }

func (*LambdaHydrator) Name() string { return "lambdas" }

func (h *LambdaHydrator) HydrateClass(ctx *model.Context, class *model.ClassData) error {
	bsm := class.File().BootstrapMethods()
	if bsm == nil {
		return nil
	}
	cp := class.File().ConstantPool

	for _, method := range class.Methods() {
		insns, err := method.Instructions()
		if err != nil || insns == nil {
			continue
		}
		for i := range insns {
			if insns[i].Op != classfile.OpInvokeDynamic {
				continue
			}
			h.hydrateCallSite(ctx, method, cp, bsm, insns, i)
		}
	}
	return nil
}

func (h *LambdaHydrator) hydrateCallSite(
	ctx *model.Context,
	method *model.MethodData,
	cp classfile.ConstantPool,
	bsm *classfile.BootstrapMethodsAttribute,
	insns []classfile.Instruction,
	at int,
) {
	dyn := cp.InvokeDynamic(insns[at].CPIndex)
	if dyn == nil || int(dyn.BootstrapMethodAttrIndex) >= len(bsm.Methods) {
		return
	}
	bootstrap := &bsm.Methods[dyn.BootstrapMethodAttrIndex]

	handle := cp.MethodHandle(bootstrap.MethodRef)
	if handle == nil {
		return
	}
	bsmOwner, bsmName, _ := cp.MemberRef(handle.ReferenceIndex)
	if bsmOwner != lambdaMetafactory || (bsmName != "metafactory" && bsmName != "altMetafactory") {
		return
	}
	if len(bootstrap.Arguments) < 3 {
		return
	}

	implHandle := cp.MethodHandle(bootstrap.Arguments[1])
	if implHandle == nil {
		return
	}
	implOwner, implName, implDesc := cp.MemberRef(implHandle.ReferenceIndex)
	implClass, err := ctx.TryClass(implOwner)
	if err != nil || implClass == nil {
		return
	}
	impl := implClass.Method(implName, implDesc)
	if impl == nil {
		return
	}

	samName, siteDesc := cp.NameAndType(dyn.NameAndTypeIndex)

	closure := &LambdaClosure{
		Containing:      method,
		Implementation:  impl,
		InterfaceMethod: h.interfaceMethod(ctx, cp, bootstrap, samName, siteDesc),
		CapturedLocals:  capturedLocals(insns, at, siteDesc),
	}

	model.Update(&method.Data, KeyLambdaClosures, func(cur []*LambdaClosure) []*LambdaClosure {
		return append(cur, closure)
	})
	model.Update(&impl.Data, KeyLambdaClosures, func(cur []*LambdaClosure) []*LambdaClosure {
		return append(cur, closure)
	})
	if closure.InterfaceMethod != nil {
		// First call site wins; every later sighting agrees anyway.
		model.Update(&impl.Data, KeyLambdaInterface, func(cur *model.MethodData) *model.MethodData {
			if cur != nil {
				return cur
			}
			return closure.InterfaceMethod
		})
	}
}

// interfaceMethod resolves the functional interface method the call
// site implements: the interface is the call-site descriptor's return
// type, the method is the invoked name with the erased SAM descriptor
// from the bootstrap arguments.
func (h *LambdaHydrator) interfaceMethod(
	ctx *model.Context,
	cp classfile.ConstantPool,
	bootstrap *classfile.BootstrapMethod,
	samName, siteDesc string,
) *model.MethodData {
	md, err := types.ParseMethodDescriptor(siteDesc)
	if err != nil {
		return nil
	}
	ret, ok := md.Ret().(*types.ClassTypeDescriptor)
	if !ok {
		return nil
	}
	iface, err := ctx.TryClass(ret.Name())
	if err != nil || iface == nil {
		return nil
	}
	samDesc := cp.MethodType(bootstrap.Arguments[0])
	if samDesc == "" {
		return nil
	}
	return iface.Method(samName, samDesc)
}

// capturedLocals reads the slots loaded immediately before the
// invokedynamic instruction, one per captured value in the call-site
// descriptor. If the run of loads is interrupted the captures came from
// somewhere the scan cannot see, and the list is empty rather than
// partial.
func capturedLocals(insns []classfile.Instruction, at int, siteDesc string) []int {
	md, err := types.ParseMethodDescriptor(siteDesc)
	if err != nil {
		return nil
	}
	want := len(md.Params())
	if want == 0 {
		return nil
	}

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
	// Collected walking backward; restore source order.
	for l, r := 0, len(slots)-1; l < r; l, r = l+1, r-1 {
		slots[l], slots[r] = slots[r], slots[l]
	}
	return slots
}
