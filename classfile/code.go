package classfile

import (
	"encoding/binary"
	"fmt"
)

// Opcode is a JVM bytecode opcode.
type Opcode uint8

// Opcodes referenced by name in the analysis layers. The decoder handles
// the full instruction set; opcodes addressed only by range (loads,
// stores, arithmetic) have no individual constant.
const (
	OpNop           Opcode = 0x00
	OpAConstNull    Opcode = 0x01
	OpBiPush        Opcode = 0x10
	OpSiPush        Opcode = 0x11
	OpLdc           Opcode = 0x12
	OpLdcW          Opcode = 0x13
	OpLdc2W         Opcode = 0x14
	OpILoad         Opcode = 0x15
	OpALoad         Opcode = 0x19
	OpILoad0        Opcode = 0x1a
	OpALoad0        Opcode = 0x2a
	OpALoad3        Opcode = 0x2d
	OpIStore        Opcode = 0x36
	OpAStore        Opcode = 0x3a
	OpIStore0       Opcode = 0x3b
	OpAStore3       Opcode = 0x4e
	OpPop           Opcode = 0x57
	OpPop2          Opcode = 0x58
	OpDup           Opcode = 0x59
	OpSwap          Opcode = 0x5f
	OpIInc          Opcode = 0x84
	OpGoto          Opcode = 0xa7
	OpJsr           Opcode = 0xa8
	OpRet           Opcode = 0xa9
	OpTableSwitch   Opcode = 0xaa
	OpLookupSwitch  Opcode = 0xab
	OpIReturn       Opcode = 0xac
	OpLReturn       Opcode = 0xad
	OpFReturn       Opcode = 0xae
	OpDReturn       Opcode = 0xaf
	OpAReturn       Opcode = 0xb0
	OpReturn        Opcode = 0xb1
	OpGetStatic     Opcode = 0xb2
	OpPutStatic     Opcode = 0xb3
	OpGetField      Opcode = 0xb4
	OpPutField      Opcode = 0xb5
	OpInvokeVirtual Opcode = 0xb6
	OpInvokeSpecial Opcode = 0xb7
	OpInvokeStatic  Opcode = 0xb8
	OpInvokeIface   Opcode = 0xb9
	OpInvokeDynamic Opcode = 0xba
	OpNew           Opcode = 0xbb
	OpNewArray      Opcode = 0xbc
	OpANewArray     Opcode = 0xbd
	OpArrayLength   Opcode = 0xbe
	OpAThrow        Opcode = 0xbf
	OpCheckCast     Opcode = 0xc0
	OpInstanceOf    Opcode = 0xc1
	OpMonitorEnter  Opcode = 0xc2
	OpMonitorExit   Opcode = 0xc3
	OpWide          Opcode = 0xc4
	OpMultiANew     Opcode = 0xc5
	OpIfNull        Opcode = 0xc6
	OpIfNonNull     Opcode = 0xc7
	OpGotoW         Opcode = 0xc8
	OpJsrW          Opcode = 0xc9
)

var opcodeNames = [...]string{
	"nop", "aconst_null", "iconst_m1", "iconst_0", "iconst_1", "iconst_2",
	"iconst_3", "iconst_4", "iconst_5", "lconst_0", "lconst_1", "fconst_0",
	"fconst_1", "fconst_2", "dconst_0", "dconst_1", "bipush", "sipush",
	"ldc", "ldc_w", "ldc2_w", "iload", "lload", "fload", "dload", "aload",
	"iload_0", "iload_1", "iload_2", "iload_3", "lload_0", "lload_1",
	"lload_2", "lload_3", "fload_0", "fload_1", "fload_2", "fload_3",
	"dload_0", "dload_1", "dload_2", "dload_3", "aload_0", "aload_1",
	"aload_2", "aload_3", "iaload", "laload", "faload", "daload", "aaload",
	"baload", "caload", "saload", "istore", "lstore", "fstore", "dstore",
	"astore", "istore_0", "istore_1", "istore_2", "istore_3", "lstore_0",
	"lstore_1", "lstore_2", "lstore_3", "fstore_0", "fstore_1", "fstore_2",
	"fstore_3", "dstore_0", "dstore_1", "dstore_2", "dstore_3", "astore_0",
	"astore_1", "astore_2", "astore_3", "iastore", "lastore", "fastore",
	"dastore", "aastore", "bastore", "castore", "sastore", "pop", "pop2",
	"dup", "dup_x1", "dup_x2", "dup2", "dup2_x1", "dup2_x2", "swap",
	"iadd", "ladd", "fadd", "dadd", "isub", "lsub", "fsub", "dsub", "imul",
	"lmul", "fmul", "dmul", "idiv", "ldiv", "fdiv", "ddiv", "irem", "lrem",
	"frem", "drem", "ineg", "lneg", "fneg", "dneg", "ishl", "lshl", "ishr",
	"lshr", "iushr", "lushr", "iand", "land", "ior", "lor", "ixor", "lxor",
	"iinc", "i2l", "i2f", "i2d", "l2i", "l2f", "l2d", "f2i", "f2l", "f2d",
	"d2i", "d2l", "d2f", "i2b", "i2c", "i2s", "lcmp", "fcmpl", "fcmpg",
	"dcmpl", "dcmpg", "ifeq", "ifne", "iflt", "ifge", "ifgt", "ifle",
	"if_icmpeq", "if_icmpne", "if_icmplt", "if_icmpge", "if_icmpgt",
	"if_icmple", "if_acmpeq", "if_acmpne", "goto", "jsr", "ret",
	"tableswitch", "lookupswitch", "ireturn", "lreturn", "freturn",
	"dreturn", "areturn", "return", "getstatic", "putstatic", "getfield",
	"putfield", "invokevirtual", "invokespecial", "invokestatic",
	"invokeinterface", "invokedynamic", "new", "newarray", "anewarray",
	"arraylength", "athrow", "checkcast", "instanceof", "monitorenter",
	"monitorexit", "wide", "multianewarray", "ifnull", "ifnonnull",
	"goto_w", "jsr_w",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("op_0x%02x", uint8(op))
}

// Instruction is one decoded bytecode instruction. Operand fields are
// meaningful only for the opcode categories that carry them: Var for
// local-variable access, CPIndex for constant-pool references, Target
// for branches.
type Instruction struct {
	PC      int
	Op      Opcode
	Var     int
	CPIndex uint16
	Target  int
	Dims    int
}

// IsLoad reports whether the instruction pushes a local variable
// (iload/lload/fload/dload/aload including the short forms); Var holds
// the slot index.
func (in *Instruction) IsLoad() bool {
	return (in.Op >= OpILoad && in.Op <= OpALoad) || (in.Op >= OpILoad0 && in.Op <= OpALoad3)
}

// IsStore reports whether the instruction pops into a local variable.
func (in *Instruction) IsStore() bool {
	return (in.Op >= OpIStore && in.Op <= OpAStore) || (in.Op >= OpIStore0 && in.Op <= OpAStore3)
}

// IsReturn reports whether the instruction is any of the six return
// opcodes.
func (in *Instruction) IsReturn() bool {
	return in.Op >= OpIReturn && in.Op <= OpReturn
}

// IsInvoke reports whether the instruction is any of the five invoke
// opcodes.
func (in *Instruction) IsInvoke() bool {
	return in.Op >= OpInvokeVirtual && in.Op <= OpInvokeDynamic
}

// IsConstPush reports whether the instruction pushes a constant
// (aconst_null through ldc2_w).
func (in *Instruction) IsConstPush() bool {
	return in.Op >= OpAConstNull && in.Op <= OpLdc2W
}

// IsCondBranch reports whether the instruction is a conditional branch.
func (in *Instruction) IsCondBranch() bool {
	return (in.Op >= 0x99 && in.Op <= 0xa6) || in.Op == OpIfNull || in.Op == OpIfNonNull
}

// IsArrayLoad reports whether the instruction loads an array element.
func (in *Instruction) IsArrayLoad() bool { return in.Op >= 0x2e && in.Op <= 0x35 }

// IsArrayStore reports whether the instruction stores an array element.
func (in *Instruction) IsArrayStore() bool { return in.Op >= 0x4f && in.Op <= 0x56 }

// IsBinaryOp reports whether the instruction pops two category-agnostic
// operands and pushes one result: arithmetic, logic, shifts, and the
// lcmp/fcmp/dcmp family.
func (in *Instruction) IsBinaryOp() bool {
	switch {
	case in.Op >= 0x60 && in.Op <= 0x73: // iadd..drem
		return true
	case in.Op >= 0x78 && in.Op <= 0x83: // ishl..lxor
		return true
	case in.Op >= 0x94 && in.Op <= 0x98: // lcmp..dcmpg
		return true
	}
	return false
}

// IsUnaryOp reports whether the instruction pops one operand and pushes
// one result: negation and numeric conversions.
func (in *Instruction) IsUnaryOp() bool {
	return (in.Op >= 0x74 && in.Op <= 0x77) || (in.Op >= 0x85 && in.Op <= 0x93)
}

func (in *Instruction) String() string {
	switch {
	case in.IsLoad(), in.IsStore(), in.Op == OpRet, in.Op == OpIInc:
		return fmt.Sprintf("%s %d", in.Op, in.Var)
	case in.IsCondBranch(), in.Op == OpGoto, in.Op == OpGotoW, in.Op == OpJsr, in.Op == OpJsrW:
		return fmt.Sprintf("%s -> %d", in.Op, in.Target)
	case in.CPIndex != 0:
		return fmt.Sprintf("%s #%d", in.Op, in.CPIndex)
	}
	return in.Op.String()
}

// DecodeCode decodes a Code attribute's bytecode into a flat instruction
// list. Branch targets are absolute pc values. tableswitch and
// lookupswitch are decoded for their length only; their jump tables are
// not retained.
func DecodeCode(code []byte) ([]Instruction, error) {
	var insns []Instruction
	pc := 0
	for pc < len(code) {
		in, size, err := decodeInsn(code, pc)
		if err != nil {
			return nil, err
		}
		insns = append(insns, in)
		pc += size
	}
	return insns, nil
}

func decodeInsn(code []byte, pc int) (Instruction, int, error) {
	op := Opcode(code[pc])
	in := Instruction{PC: pc, Op: op, Var: -1, Target: -1}

	need := func(n int) error {
		if pc+n > len(code) {
			return fmt.Errorf("truncated instruction %s at pc %d", op, pc)
		}
		return nil
	}
	u16 := func(at int) uint16 { return binary.BigEndian.Uint16(code[at:]) }
	s16 := func(at int) int { return int(int16(u16(at))) }
	s32 := func(at int) int { return int(int32(binary.BigEndian.Uint32(code[at:]))) }

	switch {
	case op >= OpILoad && op <= OpALoad, op >= OpIStore && op <= OpAStore, op == OpRet:
		if err := need(2); err != nil {
			return in, 0, err
		}
		in.Var = int(code[pc+1])
		return in, 2, nil

	case op >= OpILoad0 && op <= OpALoad3:
		in.Var = int(op-OpILoad0) & 3
		return in, 1, nil

	case op >= OpIStore0 && op <= OpAStore3:
		in.Var = int(op-OpIStore0) & 3
		return in, 1, nil

	case op == OpBiPush, op == OpLdc, op == OpNewArray:
		if err := need(2); err != nil {
			return in, 0, err
		}
		if op == OpLdc {
			in.CPIndex = uint16(code[pc+1])
		}
		return in, 2, nil

	case op == OpSiPush:
		if err := need(3); err != nil {
			return in, 0, err
		}
		return in, 3, nil

	case op == OpLdcW, op == OpLdc2W,
		op >= OpGetStatic && op <= OpInvokeStatic,
		op == OpNew, op == OpANewArray, op == OpCheckCast, op == OpInstanceOf:
		if err := need(3); err != nil {
			return in, 0, err
		}
		in.CPIndex = u16(pc + 1)
		return in, 3, nil

	case op == OpInvokeIface:
		if err := need(5); err != nil {
			return in, 0, err
		}
		in.CPIndex = u16(pc + 1)
		return in, 5, nil

	case op == OpInvokeDynamic:
		if err := need(5); err != nil {
			return in, 0, err
		}
		in.CPIndex = u16(pc + 1)
		return in, 5, nil

	case op == OpIInc:
		if err := need(3); err != nil {
			return in, 0, err
		}
		in.Var = int(code[pc+1])
		return in, 3, nil

	case op >= 0x99 && op <= OpJsr, op == OpIfNull, op == OpIfNonNull:
		if err := need(3); err != nil {
			return in, 0, err
		}
		in.Target = pc + s16(pc+1)
		return in, 3, nil

	case op == OpGotoW, op == OpJsrW:
		if err := need(5); err != nil {
			return in, 0, err
		}
		in.Target = pc + s32(pc+1)
		return in, 5, nil

	case op == OpTableSwitch:
		base := (pc + 4) &^ 3
		if err := need(base - pc + 12); err != nil {
			return in, 0, err
		}
		low, high := s32(base+4), s32(base+8)
		if high < low {
			return in, 0, fmt.Errorf("tableswitch at pc %d: high %d below low %d", pc, high, low)
		}
		size := base - pc + 12 + (high-low+1)*4
		if err := need(size); err != nil {
			return in, 0, err
		}
		return in, size, nil

	case op == OpLookupSwitch:
		base := (pc + 4) &^ 3
		if err := need(base - pc + 8); err != nil {
			return in, 0, err
		}
		npairs := s32(base + 4)
		if npairs < 0 {
			return in, 0, fmt.Errorf("lookupswitch at pc %d: negative npairs %d", pc, npairs)
		}
		size := base - pc + 8 + npairs*8
		if err := need(size); err != nil {
			return in, 0, err
		}
		return in, size, nil

	case op == OpMultiANew:
		if err := need(4); err != nil {
			return in, 0, err
		}
		in.CPIndex = u16(pc + 1)
		in.Dims = int(code[pc+3])
		return in, 4, nil

	case op == OpWide:
		if err := need(4); err != nil {
			return in, 0, err
		}
		wideOp := Opcode(code[pc+1])
		in.Op = wideOp
		in.Var = int(u16(pc + 2))
		if wideOp == OpIInc {
			if err := need(6); err != nil {
				return in, 0, err
			}
			return in, 6, nil
		}
		return in, 4, nil

	default:
		// Every remaining opcode is a single byte.
		if op > OpJsrW {
			return in, 0, fmt.Errorf("unknown opcode 0x%02x at pc %d", uint8(op), pc)
		}
		return in, 1, nil
	}
}
