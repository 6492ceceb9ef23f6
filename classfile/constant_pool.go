package classfile

// ConstantPool is the class file's constant pool, indexed 1-based as in
// the class file format. Long and double entries occupy two slots; the
// second slot is nil.
type ConstantPool []ConstantPoolEntry

type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type Utf8Entry struct{ Value string }

type IntegerEntry struct{ Value int32 }

type FloatEntry struct{ Value float32 }

type LongEntry struct{ Value int64 }

type DoubleEntry struct{ Value float64 }

type ClassEntry struct{ NameIndex uint16 }

type StringEntry struct{ StringIndex uint16 }

// RefEntry covers Fieldref, Methodref, and InterfaceMethodref, which
// share one layout and differ only in tag.
type RefEntry struct {
	Kind             ConstantTag
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

type NameAndTypeEntry struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

type MethodHandleEntry struct {
	ReferenceKind  MethodHandleKind
	ReferenceIndex uint16
}

type MethodTypeEntry struct{ DescriptorIndex uint16 }

// DynamicEntry covers Dynamic and InvokeDynamic.
type DynamicEntry struct {
	Kind                     ConstantTag
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

type ModuleEntry struct{ NameIndex uint16 }

type PackageEntry struct{ NameIndex uint16 }

func (e *Utf8Entry) Tag() ConstantTag         { return ConstantUtf8 }
func (e *IntegerEntry) Tag() ConstantTag      { return ConstantInteger }
func (e *FloatEntry) Tag() ConstantTag        { return ConstantFloat }
func (e *LongEntry) Tag() ConstantTag         { return ConstantLong }
func (e *DoubleEntry) Tag() ConstantTag       { return ConstantDouble }
func (e *ClassEntry) Tag() ConstantTag        { return ConstantClass }
func (e *StringEntry) Tag() ConstantTag       { return ConstantString }
func (e *RefEntry) Tag() ConstantTag          { return e.Kind }
func (e *NameAndTypeEntry) Tag() ConstantTag  { return ConstantNameAndType }
func (e *MethodHandleEntry) Tag() ConstantTag { return ConstantMethodHandle }
func (e *MethodTypeEntry) Tag() ConstantTag   { return ConstantMethodType }
func (e *DynamicEntry) Tag() ConstantTag      { return e.Kind }
func (e *ModuleEntry) Tag() ConstantTag       { return ConstantModule }
func (e *PackageEntry) Tag() ConstantTag      { return ConstantPackage }

// entryAt returns the pool entry at the 1-based index if it has the
// expected concrete type.
func entryAt[E ConstantPoolEntry](cp ConstantPool, index uint16) (E, bool) {
	var zero E
	if index == 0 || int(index) > len(cp) {
		return zero, false
	}
	e, ok := cp[index-1].(E)
	return e, ok
}

func (cp ConstantPool) Utf8(index uint16) string {
	if e, ok := entryAt[*Utf8Entry](cp, index); ok {
		return e.Value
	}
	return ""
}

func (cp ConstantPool) ClassName(index uint16) string {
	if e, ok := entryAt[*ClassEntry](cp, index); ok {
		return cp.Utf8(e.NameIndex)
	}
	return ""
}

func (cp ConstantPool) NameAndType(index uint16) (name, descriptor string) {
	if e, ok := entryAt[*NameAndTypeEntry](cp, index); ok {
		return cp.Utf8(e.NameIndex), cp.Utf8(e.DescriptorIndex)
	}
	return "", ""
}

// MemberRef resolves a Fieldref, Methodref, or InterfaceMethodref to the
// referenced owner class, member name, and descriptor.
func (cp ConstantPool) MemberRef(index uint16) (owner, name, descriptor string) {
	if e, ok := entryAt[*RefEntry](cp, index); ok {
		owner = cp.ClassName(e.ClassIndex)
		name, descriptor = cp.NameAndType(e.NameAndTypeIndex)
	}
	return
}

func (cp ConstantPool) MethodHandle(index uint16) *MethodHandleEntry {
	e, _ := entryAt[*MethodHandleEntry](cp, index)
	return e
}

func (cp ConstantPool) InvokeDynamic(index uint16) *DynamicEntry {
	if e, ok := entryAt[*DynamicEntry](cp, index); ok && e.Kind == ConstantInvokeDynamic {
		return e
	}
	return nil
}

func (cp ConstantPool) MethodType(index uint16) string {
	if e, ok := entryAt[*MethodTypeEntry](cp, index); ok {
		return cp.Utf8(e.DescriptorIndex)
	}
	return ""
}
