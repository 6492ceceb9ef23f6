package classfile

import (
	"testing"
)

func TestDecodeSimpleSequence(t *testing.T) {
	// aload_0; iload_1; invokespecial #7; return
	code := []byte{0x2a, 0x1b, 0xb7, 0x00, 0x07, 0xb1}
	insns, err := DecodeCode(code)
	if err != nil {
		t.Fatalf("DecodeCode: %v", err)
	}
	if len(insns) != 4 {
		t.Fatalf("decoded %d instructions, want 4", len(insns))
	}

	if insns[0].Op != OpALoad0 || insns[0].Var != 0 || !insns[0].IsLoad() {
		t.Errorf("insn 0 = %+v, want aload_0", insns[0])
	}
	if !insns[1].IsLoad() || insns[1].Var != 1 {
		t.Errorf("insn 1 = %+v, want iload_1", insns[1])
	}
	if insns[2].Op != OpInvokeSpecial || insns[2].CPIndex != 7 {
		t.Errorf("insn 2 = %+v, want invokespecial #7", insns[2])
	}
	if !insns[3].IsReturn() {
		t.Errorf("insn 3 = %+v, want return", insns[3])
	}
	if insns[3].PC != 5 {
		t.Errorf("return pc = %d, want 5", insns[3].PC)
	}
}

func TestDecodeWidePrefix(t *testing.T) {
	// wide iload 0x0123; wide iinc 0x0010 by 500; return
	code := []byte{
		0xc4, 0x15, 0x01, 0x23,
		0xc4, 0x84, 0x00, 0x10, 0x01, 0xf4,
		0xb1,
	}
	insns, err := DecodeCode(code)
	if err != nil {
		t.Fatalf("DecodeCode: %v", err)
	}
	if len(insns) != 3 {
		t.Fatalf("decoded %d instructions, want 3", len(insns))
	}
	if insns[0].Op != OpILoad || insns[0].Var != 0x0123 {
		t.Errorf("insn 0 = %+v, want wide iload 291", insns[0])
	}
	if insns[1].Op != OpIInc || insns[1].Var != 0x0010 {
		t.Errorf("insn 1 = %+v, want wide iinc 16", insns[1])
	}
	if insns[2].PC != 10 {
		t.Errorf("return pc = %d, want 10", insns[2].PC)
	}
}

func TestDecodeBranchTargets(t *testing.T) {
	// 0: iload_1
	// 1: ifeq +5 (-> 6)
	// 4: goto -4 (-> 0)
	// 7... actually goto is at pc 4, target 0
	code := []byte{
		0x1b,             // iload_1
		0x99, 0x00, 0x05, // ifeq -> 1+5 = 6
		0xa7, 0xff, 0xfc, // goto -> 4-4 = 0
		0xb1, // return (pc 7)
	}
	insns, err := DecodeCode(code)
	if err != nil {
		t.Fatalf("DecodeCode: %v", err)
	}
	if insns[1].Target != 6 {
		t.Errorf("ifeq target = %d, want 6", insns[1].Target)
	}
	if !insns[1].IsCondBranch() {
		t.Error("ifeq should be a conditional branch")
	}
	if insns[2].Target != 0 {
		t.Errorf("goto target = %d, want 0", insns[2].Target)
	}
}

func TestDecodeTableSwitchPadding(t *testing.T) {
	// tableswitch at pc 1 so three padding bytes follow the opcode.
	code := []byte{
		0x00, // nop
		0xaa, // tableswitch (pc 1)
		0x00, 0x00, // padding to pc 4
		0x00, 0x00, 0x00, 0x0c, // default
		0x00, 0x00, 0x00, 0x00, // low = 0
		0x00, 0x00, 0x00, 0x01, // high = 1
		0x00, 0x00, 0x00, 0x0c, // offset 0
		0x00, 0x00, 0x00, 0x0c, // offset 1
		0xb1, // return
	}
	insns, err := DecodeCode(code)
	if err != nil {
		t.Fatalf("DecodeCode: %v", err)
	}
	if len(insns) != 3 {
		t.Fatalf("decoded %d instructions, want 3", len(insns))
	}
	if insns[1].Op != OpTableSwitch {
		t.Errorf("insn 1 = %+v, want tableswitch", insns[1])
	}
	if insns[2].Op != OpReturn || insns[2].PC != len(code)-1 {
		t.Errorf("insn 2 = %+v, want return at pc %d", insns[2], len(code)-1)
	}
}

func TestDecodeInvokeSizes(t *testing.T) {
	// invokeinterface and invokedynamic carry trailing bytes.
	code := []byte{
		0xb9, 0x00, 0x05, 0x01, 0x00, // invokeinterface #5, count 1
		0xba, 0x00, 0x06, 0x00, 0x00, // invokedynamic #6
		0xb1,
	}
	insns, err := DecodeCode(code)
	if err != nil {
		t.Fatalf("DecodeCode: %v", err)
	}
	if len(insns) != 3 {
		t.Fatalf("decoded %d instructions, want 3", len(insns))
	}
	if insns[0].Op != OpInvokeIface || insns[0].CPIndex != 5 || !insns[0].IsInvoke() {
		t.Errorf("insn 0 = %+v, want invokeinterface #5", insns[0])
	}
	if insns[1].Op != OpInvokeDynamic || insns[1].CPIndex != 6 {
		t.Errorf("insn 1 = %+v, want invokedynamic #6", insns[1])
	}
}

func TestDecodeTruncatedFails(t *testing.T) {
	cases := [][]byte{
		{0xb7},             // invokespecial missing operands
		{0xc4, 0x15},       // wide iload missing index
		{0x15},             // iload missing var
		{0xaa, 0x00, 0x00}, // tableswitch cut off
	}
	for _, code := range cases {
		if _, err := DecodeCode(code); err == nil {
			t.Errorf("DecodeCode(% x) succeeded, want error", code)
		}
	}
}

func TestDecodeSwitchBoundsFail(t *testing.T) {
	// Jump table lengths come from signed operands and must not be
	// trusted; a bogus count would walk the decoder backwards.
	lookupNegPairs := []byte{
		0xab,             // lookupswitch (pc 0)
		0x00, 0x00, 0x00, // padding to pc 4
		0x00, 0x00, 0x00, 0x0c, // default
		0xff, 0xff, 0xff, 0xfe, // npairs = -2
	}
	tableInverted := []byte{
		0xaa,             // tableswitch (pc 0)
		0x00, 0x00, 0x00, // padding to pc 4
		0x00, 0x00, 0x00, 0x0c, // default
		0x00, 0x00, 0x00, 0x01, // low = 1
		0x00, 0x00, 0x00, 0x00, // high = 0
	}
	for _, code := range [][]byte{lookupNegPairs, tableInverted} {
		if _, err := DecodeCode(code); err == nil {
			t.Errorf("DecodeCode(% x) succeeded, want error", code)
		}
	}
}

func TestDecodeMultiANewArray(t *testing.T) {
	code := []byte{0x04, 0x05, 0xc5, 0x00, 0x09, 0x02, 0xb0}
	insns, err := DecodeCode(code)
	if err != nil {
		t.Fatalf("DecodeCode: %v", err)
	}
	in := insns[2]
	if in.Op != OpMultiANew || in.CPIndex != 9 || in.Dims != 2 {
		t.Errorf("insn = %+v, want multianewarray #9 dims 2", in)
	}
}

func TestOpcodeNames(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpNop, "nop"},
		{OpALoad0, "aload_0"},
		{OpInvokeDynamic, "invokedynamic"},
		{OpJsrW, "jsr_w"},
		{Opcode(0xcb), "op_0xcb"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%#x.String() = %q, want %q", uint8(tt.op), got, tt.want)
		}
	}
}
