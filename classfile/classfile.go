// Package classfile decodes JVM class files: constant pool, members, the
// attribute kinds the analysis layers consume, and the bytecode
// instruction stream of Code attributes.
package classfile

import "strings"

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []Member
	Methods      []Member
	Attributes   []Attribute
}

func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.ClassName(cf.ThisClass)
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.ClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.ClassName(idx)
	}
	return names
}

func (cf *ClassFile) Attribute(name string) *Attribute {
	return findAttribute(cf.Attributes, name)
}

// SignatureText returns the class's generic signature attribute text, or
// "" when the class is not generic.
func (cf *ClassFile) SignatureText() string {
	if a := cf.Attribute("Signature"); a != nil {
		if sig, ok := a.Parsed.(*SignatureAttribute); ok {
			return cf.ConstantPool.Utf8(sig.SignatureIndex)
		}
	}
	return ""
}

func (cf *ClassFile) InnerClasses() *InnerClassesAttribute {
	if a := cf.Attribute("InnerClasses"); a != nil {
		if ic, ok := a.Parsed.(*InnerClassesAttribute); ok {
			return ic
		}
	}
	return nil
}

// EnclosingMethod returns the enclosing class name and the method
// name+descriptor for local and anonymous classes, or ("", "", "") when
// the attribute is absent. Anonymous classes declared outside any method
// have an empty method name.
func (cf *ClassFile) EnclosingMethod() (class, name, descriptor string) {
	a := cf.Attribute("EnclosingMethod")
	if a == nil {
		return "", "", ""
	}
	em, ok := a.Parsed.(*EnclosingMethodAttribute)
	if !ok {
		return "", "", ""
	}
	class = cf.ConstantPool.ClassName(em.ClassIndex)
	name, descriptor = cf.ConstantPool.NameAndType(em.MethodIndex)
	return
}

func (cf *ClassFile) BootstrapMethods() *BootstrapMethodsAttribute {
	if a := cf.Attribute("BootstrapMethods"); a != nil {
		if bm, ok := a.Parsed.(*BootstrapMethodsAttribute); ok {
			return bm
		}
	}
	return nil
}

func (cf *ClassFile) PermittedSubclassNames() []string {
	a := cf.Attribute("PermittedSubclasses")
	if a == nil {
		return nil
	}
	ps, ok := a.Parsed.(*PermittedSubclassesAttribute)
	if !ok {
		return nil
	}
	names := make([]string, len(ps.Classes))
	for i, idx := range ps.Classes {
		names[i] = cf.ConstantPool.ClassName(idx)
	}
	return names
}

func (cf *ClassFile) Record() *RecordAttribute {
	if a := cf.Attribute("Record"); a != nil {
		if rec, ok := a.Parsed.(*RecordAttribute); ok {
			return rec
		}
	}
	return nil
}

func (cf *ClassFile) IsRecord() bool {
	return cf.Record() != nil
}

func (cf *ClassFile) GetField(name string) *Member {
	for i := range cf.Fields {
		if cf.Fields[i].Name(cf.ConstantPool) == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// GetMethod finds a method by name and descriptor. An empty descriptor
// matches the first method with the given name.
func (cf *ClassFile) GetMethod(name, descriptor string) *Member {
	for i := range cf.Methods {
		if cf.Methods[i].Name(cf.ConstantPool) == name {
			if descriptor == "" || cf.Methods[i].Descriptor(cf.ConstantPool) == descriptor {
				return &cf.Methods[i]
			}
		}
	}
	return nil
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
