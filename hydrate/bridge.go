package hydrate

import (
	"strings"

	"github.com/denwav/hypo/classfile"
	"github.com/denwav/hypo/model"
	"github.com/denwav/hypo/types"
)

// BridgeHydrator links compiler-generated bridge methods to the methods
// they forward to. A bridge body has a rigid shape: load the receiver
// and every parameter in slot order, make one virtual/special/interface
// call, return the result. Anything else disqualifies the method.
type BridgeHydrator struct{}

func NewBridgeHydrator() *BridgeHydrator { return &BridgeHydrator{} }

func (*BridgeHydrator) Name() string { return "bridges" }

func (h *BridgeHydrator) HydrateClass(ctx *model.Context, class *model.ClassData) error {
	for _, method := range class.Methods() {
		if !method.IsSynthetic() || strings.ContainsRune(method.Name(), '$') {
			continue
		}
		target, err := h.findTarget(ctx, class, method)
		if err != nil {
			return err
		}
		if target == nil {
			continue
		}
		model.Set(&method.Data, KeyBridgeTarget, target)
		model.AddUnique(&target.Data, KeyBridgeSources, method)
	}
	return nil
}

func (h *BridgeHydrator) findTarget(ctx *model.Context, class *model.ClassData, method *model.MethodData) (*model.MethodData, error) {
	insns, err := method.Instructions()
	if err != nil || insns == nil {
		return nil, nil
	}
	desc, err := method.Descriptor()
	if err != nil {
		return nil, nil
	}

	// Receiver plus each parameter, loaded from consecutive slots.
	slots := []int{}
	slot := 0
	if !method.IsStatic() {
		slots = append(slots, 0)
		slot = 1
	}
	for _, p := range desc.Params() {
		slots = append(slots, slot)
		if prim, ok := p.(types.PrimitiveType); ok && prim.IsWide() {
			slot += 2
		} else {
			slot++
		}
	}

	i := 0
	for _, want := range slots {
		if i >= len(insns) || !insns[i].IsLoad() || insns[i].Var != want {
			return nil, nil
		}
		i++
		// javac casts reference parameters down to the specialized type.
		for i < len(insns) && insns[i].Op == classfile.OpCheckCast {
			i++
		}
	}

	if i >= len(insns) {
		return nil, nil
	}
	call := insns[i]
	switch call.Op {
	case classfile.OpInvokeVirtual, classfile.OpInvokeSpecial, classfile.OpInvokeIface:
	default:
		return nil, nil
	}
	owner, name, callDesc := class.File().ConstantPool.MemberRef(call.CPIndex)
	i++

	if i != len(insns)-1 || !insns[i].IsReturn() {
		return nil, nil
	}
	targetDesc, err := types.ParseMethodDescriptor(callDesc)
	if err != nil || insns[i].Op != returnOpFor(targetDesc.Ret()) {
		return nil, nil
	}

	// The forwarded-to method keeps the name and arity but specializes
	// the descriptor; a call with an identical descriptor is not a
	// bridge, and neither is a call outside the class hierarchy's first
	// two levels.
	if name != method.Name() || callDesc == method.DescriptorText() {
		return nil, nil
	}
	if len(targetDesc.Params()) != len(desc.Params()) {
		return nil, nil
	}
	if owner != class.Name() && owner != class.File().SuperClassName() {
		return nil, nil
	}

	ownerClass, err := ctx.TryClass(owner)
	if err != nil || ownerClass == nil {
		return nil, nil
	}
	return ownerClass.Method(name, callDesc), nil
}

func returnOpFor(ret types.TypeDescriptor) classfile.Opcode {
	switch t := ret.(type) {
	case types.VoidType:
		return classfile.OpReturn
	case types.PrimitiveType:
		switch t {
		case types.Long:
			return classfile.OpLReturn
		case types.Float:
			return classfile.OpFReturn
		case types.Double:
			return classfile.OpDReturn
		default:
			return classfile.OpIReturn
		}
	default:
		return classfile.OpAReturn
	}
}
