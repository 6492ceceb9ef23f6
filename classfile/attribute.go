package classfile

// Attribute is a single attribute with its name resolved and, for the
// attribute kinds this package understands, a typed parsed form. Other
// attributes keep only their raw payload.
type Attribute struct {
	Name   string
	Raw    []byte
	Parsed any
}

type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionTableEntry
	Attributes     []Attribute
}

type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

func (c *CodeAttribute) Attribute(name string) *Attribute {
	return findAttribute(c.Attributes, name)
}

// LocalVariables returns the Code attribute's local variable table, or
// nil when the class was compiled without debug info.
func (c *CodeAttribute) LocalVariables() *LocalVariableTableAttribute {
	if a := c.Attribute("LocalVariableTable"); a != nil {
		if lvt, ok := a.Parsed.(*LocalVariableTableAttribute); ok {
			return lvt
		}
	}
	return nil
}

type SignatureAttribute struct {
	SignatureIndex uint16
}

type SyntheticAttribute struct{}

type DeprecatedAttribute struct{}

type ConstantValueAttribute struct {
	ConstantValueIndex uint16
}

type SourceFileAttribute struct {
	SourceFileIndex uint16
}

type ExceptionsAttribute struct {
	ExceptionIndexTable []uint16
}

type InnerClassesAttribute struct {
	Classes []InnerClassEntry
}

type InnerClassEntry struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16
	InnerNameIndex        uint16
	InnerClassAccessFlags AccessFlags
}

type EnclosingMethodAttribute struct {
	ClassIndex  uint16
	MethodIndex uint16
}

type BootstrapMethodsAttribute struct {
	Methods []BootstrapMethod
}

type BootstrapMethod struct {
	MethodRef uint16
	Arguments []uint16
}

type LocalVariableTableAttribute struct {
	Entries []LocalVariableEntry
}

type LocalVariableEntry struct {
	StartPC         uint16
	Length          uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Index           uint16
}

type MethodParametersAttribute struct {
	Parameters []MethodParameter
}

type MethodParameter struct {
	NameIndex   uint16
	AccessFlags AccessFlags
}

type NestHostAttribute struct {
	HostClassIndex uint16
}

type NestMembersAttribute struct {
	Classes []uint16
}

type RecordAttribute struct {
	Components []RecordComponent
}

type RecordComponent struct {
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

type PermittedSubclassesAttribute struct {
	Classes []uint16
}

func findAttribute(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

// parseAttribute decodes the attribute kinds the model and hydration
// layers consume. Unknown attributes are kept raw.
func parseAttribute(name string, raw []byte, cp ConstantPool) any {
	r := &byteReader{data: raw}
	var parsed any
	switch name {
	case "Code":
		parsed = readCodeAttribute(r, cp)
	case "Signature":
		parsed = &SignatureAttribute{SignatureIndex: r.u2()}
	case "Synthetic":
		parsed = &SyntheticAttribute{}
	case "Deprecated":
		parsed = &DeprecatedAttribute{}
	case "ConstantValue":
		parsed = &ConstantValueAttribute{ConstantValueIndex: r.u2()}
	case "SourceFile":
		parsed = &SourceFileAttribute{SourceFileIndex: r.u2()}
	case "Exceptions":
		parsed = &ExceptionsAttribute{ExceptionIndexTable: r.u2slice()}
	case "InnerClasses":
		n := r.u2()
		a := &InnerClassesAttribute{Classes: make([]InnerClassEntry, n)}
		for i := range a.Classes {
			a.Classes[i] = InnerClassEntry{
				InnerClassInfoIndex:   r.u2(),
				OuterClassInfoIndex:   r.u2(),
				InnerNameIndex:        r.u2(),
				InnerClassAccessFlags: AccessFlags(r.u2()),
			}
		}
		parsed = a
	case "EnclosingMethod":
		parsed = &EnclosingMethodAttribute{ClassIndex: r.u2(), MethodIndex: r.u2()}
	case "BootstrapMethods":
		n := r.u2()
		a := &BootstrapMethodsAttribute{Methods: make([]BootstrapMethod, n)}
		for i := range a.Methods {
			a.Methods[i] = BootstrapMethod{MethodRef: r.u2(), Arguments: r.u2slice()}
		}
		parsed = a
	case "LocalVariableTable":
		n := r.u2()
		a := &LocalVariableTableAttribute{Entries: make([]LocalVariableEntry, n)}
		for i := range a.Entries {
			a.Entries[i] = LocalVariableEntry{
				StartPC:         r.u2(),
				Length:          r.u2(),
				NameIndex:       r.u2(),
				DescriptorIndex: r.u2(),
				Index:           r.u2(),
			}
		}
		parsed = a
	case "MethodParameters":
		n := r.u1()
		a := &MethodParametersAttribute{Parameters: make([]MethodParameter, n)}
		for i := range a.Parameters {
			a.Parameters[i] = MethodParameter{NameIndex: r.u2(), AccessFlags: AccessFlags(r.u2())}
		}
		parsed = a
	case "NestHost":
		parsed = &NestHostAttribute{HostClassIndex: r.u2()}
	case "NestMembers":
		parsed = &NestMembersAttribute{Classes: r.u2slice()}
	case "Record":
		n := r.u2()
		a := &RecordAttribute{Components: make([]RecordComponent, n)}
		for i := range a.Components {
			a.Components[i] = RecordComponent{
				NameIndex:       r.u2(),
				DescriptorIndex: r.u2(),
				Attributes:      readAttributes(r, cp),
			}
		}
		parsed = a
	case "PermittedSubclasses":
		parsed = &PermittedSubclassesAttribute{Classes: r.u2slice()}
	default:
		return nil
	}
	if r.err != nil {
		return nil
	}
	return parsed
}

func readCodeAttribute(r *byteReader, cp ConstantPool) *CodeAttribute {
	code := &CodeAttribute{
		MaxStack:  r.u2(),
		MaxLocals: r.u2(),
	}
	code.Code = r.bytes(int(r.u4()))
	n := r.u2()
	code.ExceptionTable = make([]ExceptionTableEntry, n)
	for i := range code.ExceptionTable {
		code.ExceptionTable[i] = ExceptionTableEntry{
			StartPC:   r.u2(),
			EndPC:     r.u2(),
			HandlerPC: r.u2(),
			CatchType: r.u2(),
		}
	}
	code.Attributes = readAttributes(r, cp)
	if r.err != nil {
		return nil
	}
	return code
}
