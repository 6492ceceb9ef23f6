// Package javatest assembles minimal, valid class files in memory so
// tests can exercise the reader, the model and the hydrators without
// shipping compiled fixtures.
package javatest

import (
	"bytes"
	"encoding/binary"
)

const (
	tagUtf8               = 1
	tagInteger            = 3
	tagLong               = 5
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagInvokeDynamic      = 18
)

// Attr is one raw attribute: a name and its payload bytes.
type Attr struct {
	Name    string
	Payload []byte
}

type member struct {
	flags uint16
	name  uint16
	desc  uint16
	attrs []Attr
}

// ClassBuilder accumulates constant-pool entries and members, then
// emits the encoded class file.
type ClassBuilder struct {
	pool      bytes.Buffer
	nextIndex uint16

	utf8s   map[string]uint16
	classes map[string]uint16

	flags      uint16
	thisClass  uint16
	superClass uint16
	interfaces []uint16
	fields     []member
	methods    []member
	attrs      []Attr
}

// NewClass starts a class named by internal name, public, extending
// java/lang/Object.
func NewClass(name string) *ClassBuilder {
	b := &ClassBuilder{
		nextIndex: 1,
		utf8s:     map[string]uint16{},
		classes:   map[string]uint16{},
		flags:     0x0001, // public
	}
	b.thisClass = b.Class(name)
	b.superClass = b.Class("java/lang/Object")
	return b
}

func (b *ClassBuilder) SetFlags(flags uint16) *ClassBuilder {
	b.flags = flags
	return b
}

func (b *ClassBuilder) SetSuper(name string) *ClassBuilder {
	b.superClass = b.Class(name)
	return b
}

func (b *ClassBuilder) AddInterface(name string) *ClassBuilder {
	b.interfaces = append(b.interfaces, b.Class(name))
	return b
}

func (b *ClassBuilder) add(entry func(w *bytes.Buffer)) uint16 {
	index := b.nextIndex
	entry(&b.pool)
	b.nextIndex++
	return index
}

func u2(w *bytes.Buffer, v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	w.Write(buf[:])
}

func u4(w *bytes.Buffer, v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	w.Write(buf[:])
}

// Utf8 interns a CONSTANT_Utf8 entry.
func (b *ClassBuilder) Utf8(s string) uint16 {
	if index, ok := b.utf8s[s]; ok {
		return index
	}
	index := b.add(func(w *bytes.Buffer) {
		w.WriteByte(tagUtf8)
		u2(w, uint16(len(s)))
		w.WriteString(s)
	})
	b.utf8s[s] = index
	return index
}

// Class interns a CONSTANT_Class entry for an internal name.
func (b *ClassBuilder) Class(name string) uint16 {
	if index, ok := b.classes[name]; ok {
		return index
	}
	nameIndex := b.Utf8(name)
	index := b.add(func(w *bytes.Buffer) {
		w.WriteByte(tagClass)
		u2(w, nameIndex)
	})
	b.classes[name] = index
	return index
}

func (b *ClassBuilder) NameAndType(name, desc string) uint16 {
	nameIndex, descIndex := b.Utf8(name), b.Utf8(desc)
	return b.add(func(w *bytes.Buffer) {
		w.WriteByte(tagNameAndType)
		u2(w, nameIndex)
		u2(w, descIndex)
	})
}

func (b *ClassBuilder) ref(tag byte, owner, name, desc string) uint16 {
	classIndex := b.Class(owner)
	natIndex := b.NameAndType(name, desc)
	return b.add(func(w *bytes.Buffer) {
		w.WriteByte(tag)
		u2(w, classIndex)
		u2(w, natIndex)
	})
}

func (b *ClassBuilder) MethodRef(owner, name, desc string) uint16 {
	return b.ref(tagMethodref, owner, name, desc)
}

func (b *ClassBuilder) InterfaceMethodRef(owner, name, desc string) uint16 {
	return b.ref(tagInterfaceMethodref, owner, name, desc)
}

func (b *ClassBuilder) FieldRef(owner, name, desc string) uint16 {
	return b.ref(tagFieldref, owner, name, desc)
}

func (b *ClassBuilder) String(s string) uint16 {
	index := b.Utf8(s)
	return b.add(func(w *bytes.Buffer) {
		w.WriteByte(tagString)
		u2(w, index)
	})
}

func (b *ClassBuilder) Integer(v int32) uint16 {
	return b.add(func(w *bytes.Buffer) {
		w.WriteByte(tagInteger)
		u4(w, uint32(v))
	})
}

// Long adds a CONSTANT_Long, which occupies two pool slots.
func (b *ClassBuilder) Long(v int64) uint16 {
	index := b.add(func(w *bytes.Buffer) {
		w.WriteByte(tagLong)
		u4(w, uint32(uint64(v)>>32))
		u4(w, uint32(uint64(v)))
	})
	b.nextIndex++ // second slot
	return index
}

func (b *ClassBuilder) MethodHandle(kind byte, refIndex uint16) uint16 {
	return b.add(func(w *bytes.Buffer) {
		w.WriteByte(tagMethodHandle)
		w.WriteByte(kind)
		u2(w, refIndex)
	})
}

func (b *ClassBuilder) MethodType(desc string) uint16 {
	index := b.Utf8(desc)
	return b.add(func(w *bytes.Buffer) {
		w.WriteByte(tagMethodType)
		u2(w, index)
	})
}

func (b *ClassBuilder) InvokeDynamic(bootstrapIndex uint16, name, desc string) uint16 {
	natIndex := b.NameAndType(name, desc)
	return b.add(func(w *bytes.Buffer) {
		w.WriteByte(tagInvokeDynamic)
		u2(w, bootstrapIndex)
		u2(w, natIndex)
	})
}

func (b *ClassBuilder) AddField(flags uint16, name, desc string, attrs ...Attr) *ClassBuilder {
	b.fields = append(b.fields, member{
		flags: flags,
		name:  b.Utf8(name),
		desc:  b.Utf8(desc),
		attrs: attrs,
	})
	return b
}

// AddMethod adds a method; a non-nil code slice becomes its Code
// attribute.
func (b *ClassBuilder) AddMethod(flags uint16, name, desc string, code []byte, attrs ...Attr) *ClassBuilder {
	if code != nil {
		attrs = append([]Attr{b.CodeAttr(code)}, attrs...)
	}
	b.methods = append(b.methods, member{
		flags: flags,
		name:  b.Utf8(name),
		desc:  b.Utf8(desc),
		attrs: attrs,
	})
	return b
}

func (b *ClassBuilder) AddAttr(attr Attr) *ClassBuilder {
	b.attrs = append(b.attrs, attr)
	return b
}

// CodeAttr wraps raw bytecode in a Code attribute payload with generous
// stack and locals limits and no exception table.
func (b *ClassBuilder) CodeAttr(code []byte) Attr {
	var w bytes.Buffer
	u2(&w, 16)                // max_stack
	u2(&w, 16)                // max_locals
	u4(&w, uint32(len(code))) // code_length
	w.Write(code)
	u2(&w, 0) // exception_table_length
	u2(&w, 0) // attributes_count
	return Attr{Name: "Code", Payload: w.Bytes()}
}

// SignatureAttr builds a Signature attribute.
func (b *ClassBuilder) SignatureAttr(signature string) Attr {
	var w bytes.Buffer
	u2(&w, b.Utf8(signature))
	return Attr{Name: "Signature", Payload: w.Bytes()}
}

// SyntheticAttr builds the legacy zero-length Synthetic attribute.
func (b *ClassBuilder) SyntheticAttr() Attr {
	return Attr{Name: "Synthetic"}
}

// EnclosingMethodAttr builds an EnclosingMethod attribute; name may be
// empty for classes enclosed by an initializer.
func (b *ClassBuilder) EnclosingMethodAttr(class, name, desc string) Attr {
	var w bytes.Buffer
	u2(&w, b.Class(class))
	if name == "" {
		u2(&w, 0)
	} else {
		u2(&w, b.NameAndType(name, desc))
	}
	return Attr{Name: "EnclosingMethod", Payload: w.Bytes()}
}

// InnerClassEntrySpec is one row of an InnerClasses attribute.
type InnerClassEntrySpec struct {
	Inner, Outer, Name string
	Flags              uint16
}

func (b *ClassBuilder) InnerClassesAttr(entries ...InnerClassEntrySpec) Attr {
	var w bytes.Buffer
	u2(&w, uint16(len(entries)))
	for _, e := range entries {
		u2(&w, b.Class(e.Inner))
		if e.Outer == "" {
			u2(&w, 0)
		} else {
			u2(&w, b.Class(e.Outer))
		}
		if e.Name == "" {
			u2(&w, 0)
		} else {
			u2(&w, b.Utf8(e.Name))
		}
		u2(&w, e.Flags)
	}
	return Attr{Name: "InnerClasses", Payload: w.Bytes()}
}

// BootstrapMethodSpec is one BootstrapMethods row: a method handle and
// its static arguments, all constant-pool indices.
type BootstrapMethodSpec struct {
	MethodRef uint16
	Arguments []uint16
}

func (b *ClassBuilder) BootstrapMethodsAttr(methods ...BootstrapMethodSpec) Attr {
	var w bytes.Buffer
	u2(&w, uint16(len(methods)))
	for _, m := range methods {
		u2(&w, m.MethodRef)
		u2(&w, uint16(len(m.Arguments)))
		for _, a := range m.Arguments {
			u2(&w, a)
		}
	}
	return Attr{Name: "BootstrapMethods", Payload: w.Bytes()}
}

// Bytes encodes the class file.
func (b *ClassBuilder) Bytes() []byte {
	// Attribute names must land in the pool before it is emitted.
	for _, m := range b.fields {
		b.internAttrNames(m.attrs)
	}
	for _, m := range b.methods {
		b.internAttrNames(m.attrs)
	}
	b.internAttrNames(b.attrs)

	var w bytes.Buffer
	u4(&w, 0xCAFEBABE)
	u2(&w, 0)  // minor
	u2(&w, 61) // major (Java 17)

	u2(&w, b.nextIndex)
	w.Write(b.pool.Bytes())

	u2(&w, b.flags)
	u2(&w, b.thisClass)
	u2(&w, b.superClass)
	u2(&w, uint16(len(b.interfaces)))
	for _, i := range b.interfaces {
		u2(&w, i)
	}

	writeMembers(&w, b.fields, b)
	writeMembers(&w, b.methods, b)
	writeAttrs(&w, b.attrs, b)

	return w.Bytes()
}

func (b *ClassBuilder) internAttrNames(attrs []Attr) {
	for _, a := range attrs {
		b.Utf8(a.Name)
	}
}

func writeMembers(w *bytes.Buffer, members []member, b *ClassBuilder) {
	u2(w, uint16(len(members)))
	for _, m := range members {
		u2(w, m.flags)
		u2(w, m.name)
		u2(w, m.desc)
		writeAttrs(w, m.attrs, b)
	}
}

func writeAttrs(w *bytes.Buffer, attrs []Attr, b *ClassBuilder) {
	u2(w, uint16(len(attrs)))
	for _, a := range attrs {
		u2(w, b.Utf8(a.Name))
		u4(w, uint32(len(a.Payload)))
		w.Write(a.Payload)
	}
}
