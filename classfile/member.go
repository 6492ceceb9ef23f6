package classfile

// Member is a field or method declaration. The two share one layout in
// the class file format.
type Member struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

func (m *Member) Name(cp ConstantPool) string {
	return cp.Utf8(m.NameIndex)
}

func (m *Member) Descriptor(cp ConstantPool) string {
	return cp.Utf8(m.DescriptorIndex)
}

func (m *Member) Attribute(name string) *Attribute {
	return findAttribute(m.Attributes, name)
}

// SignatureText returns the member's generic signature attribute text,
// or "".
func (m *Member) SignatureText(cp ConstantPool) string {
	if a := m.Attribute("Signature"); a != nil {
		if sig, ok := a.Parsed.(*SignatureAttribute); ok {
			return cp.Utf8(sig.SignatureIndex)
		}
	}
	return ""
}

func (m *Member) Code() *CodeAttribute {
	if a := m.Attribute("Code"); a != nil {
		if code, ok := a.Parsed.(*CodeAttribute); ok {
			return code
		}
	}
	return nil
}

// IsSynthetic is true for compiler-generated members, whether marked via
// the access flag or the legacy Synthetic attribute.
func (m *Member) IsSynthetic() bool {
	if m.AccessFlags.IsSynthetic() {
		return true
	}
	return m.Attribute("Synthetic") != nil
}

func (m *Member) IsConstructor(cp ConstantPool) bool {
	return m.Name(cp) == "<init>"
}

func (m *Member) IsStaticInitializer(cp ConstantPool) bool {
	return m.Name(cp) == "<clinit>"
}
