package hydrate

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/denwav/hypo/classfile"
	"github.com/denwav/hypo/model"
	"github.com/denwav/hypo/types"
)

// SuperCallHydrator recovers the super()/this() delegation hidden in
// every constructor prologue. It interprets the bytecode symbolically,
// tracking where each operand-stack value came from, until it reaches
// the invokespecial of <init> on local slot 0. Top-level arguments that
// trace back to a parameter slot become parameter mappings.
type SuperCallHydrator struct {
	log commonlog.Logger
}

func NewSuperCallHydrator() *SuperCallHydrator {
	return &SuperCallHydrator{log: commonlog.GetLogger("hypo.hydrate.supercall")}
}

func (*SuperCallHydrator) Name() string { return "super calls" }

func (h *SuperCallHydrator) HydrateClass(ctx *model.Context, class *model.ClassData) error {
	for _, ctor := range class.Constructors() {
		insns, err := ctor.Instructions()
		if err != nil || insns == nil {
			continue
		}
		call, err := analyzeProlog(class.File().ConstantPool, insns)
		if err != nil {
			// Covers odd compiler output and obfuscated code. The
			// constructor simply gets no delegation fact.
			h.log.Debugf("%s: %s", ctor, err)
			continue
		}
		h.record(ctx, class, ctor, call)
	}
	return nil
}

func (h *SuperCallHydrator) record(ctx *model.Context, class *model.ClassData, ctor *model.MethodData, call *argCall) {
	targetClass, err := ctx.TryClass(call.owner)
	if err != nil || targetClass == nil {
		return
	}
	target := targetClass.Method("<init>", call.desc)
	if target == nil {
		return
	}

	fact := &SuperCall{
		Source: ctor,
		Target: target,
		Params: paramMappings(class, targetClass, ctor, call),
	}
	model.Set(&ctor.Data, KeySuperCall, fact)
	model.AddUnique(&target.Data, KeySuperCallSources, fact)
}

// paramMappings maps the terminal call's traceable arguments back to
// the delegating constructor's declared parameters. Slot accounting
// skips the receiver and, for non-static inner classes, the implicit
// outer instance parameter.
func paramMappings(class, targetClass *model.ClassData, ctor *model.MethodData, call *argCall) []ParamMapping {
	desc, err := ctor.Descriptor()
	if err != nil {
		return nil
	}
	params := desc.Params()
	slotToParam := map[int]int{}
	slot := 1
	declared := 0
	for i, p := range params {
		width := 1
		if prim, ok := p.(types.PrimitiveType); ok && prim.IsWide() {
			width = 2
		}
		if i == 0 && class.RequiresOuterThis() {
			slot += width
			continue
		}
		slotToParam[slot] = declared
		declared++
		slot += width
	}

	targetSkip := 0
	if targetClass.RequiresOuterThis() {
		targetSkip = 1
	}

	var mappings []ParamMapping
	for j, arg := range call.args {
		v, ok := traceToVariable(arg)
		if !ok {
			continue
		}
		src, ok := slotToParam[v.slot]
		if !ok {
			continue
		}
		tgt := j - targetSkip
		if tgt < 0 {
			continue
		}
		mappings = append(mappings, ParamMapping{SourceIndex: src, TargetIndex: tgt})
	}
	return mappings
}

// traceToVariable unwraps an argument that is a plain parameter use:
// the variable itself, a field read off it, or a call with it as the
// only operand (receiver or sole argument).
func traceToVariable(a argValue) (argVariable, bool) {
	switch v := a.(type) {
	case argVariable:
		return v, true
	case argField:
		return traceToVariable(v.receiver)
	case *argCall:
		if v.receiver != nil && len(v.args) == 0 {
			return traceToVariable(v.receiver)
		}
		if v.receiver == nil && len(v.args) == 1 {
			return traceToVariable(v.args[0])
		}
	}
	return argVariable{}, false
}

// Symbolic operand-stack values.

type argValue interface{ isArg() }

type argVariable struct{ slot int }
type argConstant struct{}
type argNew struct{}
type argArray struct{}

type argField struct{ receiver argValue }

type argCall struct {
	owner    string
	name     string
	desc     string
	receiver argValue
	args     []argValue
}

func (argVariable) isArg() {}
func (argConstant) isArg() {}
func (argNew) isArg()      {}
func (argArray) isArg()    {}
func (argField) isArg()    {}
func (*argCall) isArg()    {}

var errNoSuperCall = errors.New("constructor ends without delegating")

// analyzeProlog walks a constructor's instructions from the start,
// modeling the operand stack, until the invokespecial of <init> on the
// receiver. Conditional branches fall through, gotos are followed, and
// any shape the model cannot express aborts the analysis.
func analyzeProlog(cp classfile.ConstantPool, insns []classfile.Instruction) (*argCall, error) {
	byPC := make(map[int]int, len(insns))
	for i := range insns {
		byPC[insns[i].PC] = i
	}

	var stack []argValue
	push := func(v argValue) { stack = append(stack, v) }
	pop := func() (argValue, error) {
		if len(stack) == 0 {
			return nil, errors.New("operand stack underflow")
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}
	popN := func(n int) ([]argValue, error) {
		if len(stack) < n {
			return nil, errors.New("operand stack underflow")
		}
		vs := make([]argValue, n)
		copy(vs, stack[len(stack)-n:])
		stack = stack[:len(stack)-n]
		return vs, nil
	}

	steps := 0
	for i := 0; i < len(insns); i++ {
		if steps++; steps > 10*len(insns) {
			return nil, errors.New("control flow does not terminate")
		}
		in := &insns[i]

		switch {
		case in.IsLoad():
			push(argVariable{slot: in.Var})

		case in.IsConstPush():
			push(argConstant{})

		case in.Op == classfile.OpNew:
			push(argNew{})

		case in.Op == classfile.OpNewArray, in.Op == classfile.OpANewArray:
			if _, err := pop(); err != nil {
				return nil, err
			}
			push(argArray{})

		case in.Op == classfile.OpMultiANew:
			if _, err := popN(in.Dims); err != nil {
				return nil, err
			}
			push(argArray{})

		case in.Op == classfile.OpDup:
			if len(stack) == 0 {
				return nil, errors.New("dup on empty stack")
			}
			push(stack[len(stack)-1])

		case in.Op == classfile.OpCheckCast:
			// Casts preserve the value's provenance.

		case in.Op == classfile.OpInstanceOf, in.Op == classfile.OpArrayLength:
			if _, err := pop(); err != nil {
				return nil, err
			}
			push(argConstant{})

		case in.IsUnaryOp():
			if _, err := pop(); err != nil {
				return nil, err
			}
			push(argConstant{})

		case in.IsBinaryOp():
			if _, err := popN(2); err != nil {
				return nil, err
			}
			push(argConstant{})

		case in.IsArrayLoad():
			if _, err := popN(2); err != nil {
				return nil, err
			}
			push(argConstant{})

		case in.IsArrayStore():
			if _, err := popN(3); err != nil {
				return nil, err
			}

		case in.Op == classfile.OpGetStatic:
			push(argConstant{})

		case in.Op == classfile.OpGetField:
			recv, err := pop()
			if err != nil {
				return nil, err
			}
			push(argField{receiver: recv})

		case in.Op == classfile.OpPutField:
			if _, err := popN(2); err != nil {
				return nil, err
			}

		case in.Op == classfile.OpPutStatic:
			if _, err := pop(); err != nil {
				return nil, err
			}

		case in.IsCondBranch():
			n := 1
			if in.Op >= 0x9f && in.Op <= 0xa6 { // if_icmpeq .. if_acmpne
				n = 2
			}
			if _, err := popN(n); err != nil {
				return nil, err
			}
			// Parameter threading happens on the fall-through path.

		case in.Op == classfile.OpGoto, in.Op == classfile.OpGotoW:
			j, ok := byPC[in.Target]
			if !ok {
				return nil, fmt.Errorf("goto to unknown pc %d", in.Target)
			}
			i = j - 1

		case in.IsInvoke():
			call, terminal, err := applyInvoke(cp, in, pop, popN, push)
			if err != nil {
				return nil, err
			}
			if terminal {
				return call, nil
			}

		case in.IsReturn(), in.Op == classfile.OpAThrow:
			return nil, errNoSuperCall

		default:
			return nil, fmt.Errorf("unsupported instruction %s at pc %d", in.Op, in.PC)
		}
	}
	return nil, errNoSuperCall
}

func applyInvoke(
	cp classfile.ConstantPool,
	in *classfile.Instruction,
	pop func() (argValue, error),
	popN func(int) ([]argValue, error),
	push func(argValue),
) (*argCall, bool, error) {
	var owner, name, desc string
	if in.Op == classfile.OpInvokeDynamic {
		dyn := cp.InvokeDynamic(in.CPIndex)
		if dyn == nil {
			return nil, false, errors.New("bad invokedynamic constant")
		}
		name, desc = cp.NameAndType(dyn.NameAndTypeIndex)
	} else {
		owner, name, desc = cp.MemberRef(in.CPIndex)
	}
	md, err := types.ParseMethodDescriptor(desc)
	if err != nil {
		return nil, false, fmt.Errorf("call descriptor %q: %w", desc, err)
	}

	args, err := popN(len(md.Params()))
	if err != nil {
		return nil, false, err
	}
	var receiver argValue
	if in.Op != classfile.OpInvokeStatic && in.Op != classfile.OpInvokeDynamic {
		if receiver, err = pop(); err != nil {
			return nil, false, err
		}
	}

	call := &argCall{owner: owner, name: name, desc: desc, receiver: receiver, args: args}

	if _, isVoid := md.Ret().(types.VoidType); !isVoid {
		push(call)
		return nil, false, nil
	}

	if in.Op == classfile.OpInvokeSpecial && name == "<init>" {
		if v, ok := receiver.(argVariable); ok && v.slot == 0 {
			return call, true, nil
		}
	}
	// A void call mid-prologue. Its effects are already popped; any
	// value it initialized (a dup'd new) is still on the stack.
	return nil, false, nil
}
