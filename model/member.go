package model

import (
	"fmt"

	"github.com/denwav/hypo/classfile"
	"github.com/denwav/hypo/types"
)

// MethodData is the model facade over one method or constructor.
// Instances are canonical per owning ClassData: identity is the
// (owner, name, descriptor) triple, carried by pointer equality.
type MethodData struct {
	Data
	owner  *ClassData
	member *classfile.Member

	descriptor cell[*types.MethodDescriptor]
	signature  cell[*types.MethodSignature]
	insns      cell[[]classfile.Instruction]
}

func (m *MethodData) Owner() *ClassData { return m.owner }

func (m *MethodData) Name() string {
	return m.member.Name(m.owner.file.ConstantPool)
}

func (m *MethodData) DescriptorText() string {
	return m.member.Descriptor(m.owner.file.ConstantPool)
}

// Descriptor returns the parsed, interned method descriptor.
func (m *MethodData) Descriptor() (*types.MethodDescriptor, error) {
	return m.descriptor.get(func() (*types.MethodDescriptor, error) {
		desc, err := types.ParseMethodDescriptor(m.DescriptorText())
		if err != nil {
			return nil, fmt.Errorf("method %s.%s: %w", m.owner.name, m.Name(), err)
		}
		return desc, nil
	})
}

// Signature returns the parsed generic method signature, or nil when
// the method has none.
func (m *MethodData) Signature() (*types.MethodSignature, error) {
	return m.signature.get(func() (*types.MethodSignature, error) {
		text := m.member.SignatureText(m.owner.file.ConstantPool)
		if text == "" {
			return nil, nil
		}
		sig, err := types.ParseMethodSignature(text)
		if err != nil {
			return nil, fmt.Errorf("method %s.%s: %w", m.owner.name, m.Name(), err)
		}
		return sig, nil
	})
}

func (m *MethodData) Visibility() Visibility { return visibilityOf(m.member.AccessFlags) }

func (m *MethodData) IsStatic() bool     { return m.member.AccessFlags.IsStatic() }
func (m *MethodData) IsFinal() bool      { return m.member.AccessFlags.IsFinal() }
func (m *MethodData) IsAbstract() bool   { return m.member.AccessFlags.IsAbstract() }
func (m *MethodData) IsNative() bool     { return m.member.AccessFlags.IsNative() }
func (m *MethodData) IsBridgeFlag() bool { return m.member.AccessFlags.IsBridge() }
func (m *MethodData) IsSynthetic() bool  { return m.member.IsSynthetic() }

func (m *MethodData) IsConstructor() bool { return m.Name() == "<init>" }

// Code returns the method's Code attribute, or nil for abstract and
// native methods.
func (m *MethodData) Code() *classfile.CodeAttribute {
	return m.member.Code()
}

// Instructions decodes and caches the method's bytecode. Returns nil
// for methods without code.
func (m *MethodData) Instructions() ([]classfile.Instruction, error) {
	return m.insns.get(func() ([]classfile.Instruction, error) {
		code := m.Code()
		if code == nil {
			return nil, nil
		}
		insns, err := classfile.DecodeCode(code.Code)
		if err != nil {
			return nil, fmt.Errorf("method %s.%s: %w", m.owner.name, m.Name(), err)
		}
		return insns, nil
	})
}

// String is the method's owner-qualified name and descriptor.
func (m *MethodData) String() string {
	return m.owner.name + "." + m.Name() + m.DescriptorText()
}

// FieldData is the model facade over one field.
type FieldData struct {
	Data
	owner  *ClassData
	member *classfile.Member

	descriptor cell[types.TypeDescriptor]
}

func (f *FieldData) Owner() *ClassData { return f.owner }

func (f *FieldData) Name() string {
	return f.member.Name(f.owner.file.ConstantPool)
}

func (f *FieldData) DescriptorText() string {
	return f.member.Descriptor(f.owner.file.ConstantPool)
}

// Descriptor returns the parsed, interned field type.
func (f *FieldData) Descriptor() (types.TypeDescriptor, error) {
	return f.descriptor.get(func() (types.TypeDescriptor, error) {
		desc, err := types.ParseTypeDescriptor(f.DescriptorText())
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", f.owner.name, f.Name(), err)
		}
		return desc, nil
	})
}

func (f *FieldData) Visibility() Visibility { return visibilityOf(f.member.AccessFlags) }

func (f *FieldData) IsStatic() bool    { return f.member.AccessFlags.IsStatic() }
func (f *FieldData) IsFinal() bool     { return f.member.AccessFlags.IsFinal() }
func (f *FieldData) IsSynthetic() bool { return f.member.IsSynthetic() }

func (f *FieldData) String() string {
	return f.owner.name + "." + f.Name()
}
