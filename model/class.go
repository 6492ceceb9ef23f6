package model

import (
	"fmt"
	"strings"

	"github.com/denwav/hypo/classfile"
	"github.com/denwav/hypo/types"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type Kind string

const (
	KindClass      Kind = "class"
	KindInterface  Kind = "interface"
	KindEnum       Kind = "enum"
	KindAnnotation Kind = "annotation"
	KindRecord     Kind = "record"
)

// ClassData is the model facade over one parsed class file. Every
// derived attribute is computed on first access and cached; instances
// are canonical per Context, so two ClassData pointers are equal exactly
// when they name the same class. Identity is the class name, never a
// structural comparison.
type ClassData struct {
	Data
	name string
	file *classfile.ClassFile
	ctx  *Context

	superClass cell[*ClassData]
	interfaces cell[[]*ClassData]
	permitted  cell[[]*ClassData]
	signature  cell[*types.ClassSignature]
	fields     value[[]*FieldData]
	methods    value[[]*MethodData]
	components cell[[]RecordComponent]
	innerEntry value[*classfile.InnerClassEntry]
}

// RecordComponent is one component of a record class.
type RecordComponent struct {
	Name string
	Type types.TypeDescriptor
}

func newClassData(name string, file *classfile.ClassFile) *ClassData {
	return &ClassData{name: name, file: file}
}

// SetContext attaches the owning lookup context. The object is not
// fully usable until this has been called; the context does so
// immediately after construction.
func (c *ClassData) SetContext(ctx *Context) { c.ctx = ctx }

// Context returns the owning analysis session.
func (c *ClassData) Context() *Context { return c.ctx }

// Name returns the internal class name (slash-separated).
func (c *ClassData) Name() string { return c.name }

// File exposes the underlying class file.
func (c *ClassData) File() *classfile.ClassFile { return c.file }

func (c *ClassData) Kind() Kind {
	flags := c.file.AccessFlags
	switch {
	case flags.IsAnnotation():
		return KindAnnotation
	case flags.IsInterface():
		return KindInterface
	case flags.IsEnum():
		return KindEnum
	case c.file.IsRecord():
		return KindRecord
	}
	return KindClass
}

func (c *ClassData) Visibility() Visibility {
	return visibilityOf(c.file.AccessFlags)
}

func (c *ClassData) IsAbstract() bool  { return c.file.AccessFlags.IsAbstract() }
func (c *ClassData) IsFinal() bool     { return c.file.AccessFlags.IsFinal() }
func (c *ClassData) IsSynthetic() bool { return c.file.AccessFlags.IsSynthetic() }

func (c *ClassData) IsSealed() bool {
	return len(c.file.PermittedSubclassNames()) > 0
}

// SuperClass resolves the direct super class, or nil for
// java/lang/Object and for interfaces without one. A super class that
// no provider can supply resolves to nil rather than an error: the
// hierarchy is simply cut off there.
func (c *ClassData) SuperClass() (*ClassData, error) {
	return c.superClass.get(func() (*ClassData, error) {
		name := c.file.SuperClassName()
		if name == "" {
			return nil, nil
		}
		return c.ctx.TryClass(name)
	})
}

// Interfaces resolves the directly implemented interfaces that the
// context can supply.
func (c *ClassData) Interfaces() ([]*ClassData, error) {
	return c.interfaces.get(func() ([]*ClassData, error) {
		return c.resolveAll(c.file.InterfaceNames())
	})
}

// PermittedSubclasses resolves the sealed-class permitted subclasses
// that the context can supply.
func (c *ClassData) PermittedSubclasses() ([]*ClassData, error) {
	return c.permitted.get(func() ([]*ClassData, error) {
		return c.resolveAll(c.file.PermittedSubclassNames())
	})
}

func (c *ClassData) resolveAll(names []string) ([]*ClassData, error) {
	var out []*ClassData
	for _, name := range names {
		cd, err := c.ctx.TryClass(name)
		if err != nil {
			return nil, err
		}
		if cd != nil {
			out = append(out, cd)
		}
	}
	return out, nil
}

// Signature returns the parsed generic class signature, or nil when the
// class is not generic.
func (c *ClassData) Signature() (*types.ClassSignature, error) {
	return c.signature.get(func() (*types.ClassSignature, error) {
		text := c.file.SignatureText()
		if text == "" {
			return nil, nil
		}
		sig, err := types.ParseClassSignature(text)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", c.name, err)
		}
		return sig, nil
	})
}

// RecordComponents returns the record components, or nil for
// non-records.
func (c *ClassData) RecordComponents() ([]RecordComponent, error) {
	return c.components.get(func() ([]RecordComponent, error) {
		rec := c.file.Record()
		if rec == nil {
			return nil, nil
		}
		cp := c.file.ConstantPool
		out := make([]RecordComponent, len(rec.Components))
		for i, comp := range rec.Components {
			desc, err := types.ParseTypeDescriptor(cp.Utf8(comp.DescriptorIndex))
			if err != nil {
				return nil, fmt.Errorf("record component %s.%s: %w", c.name, cp.Utf8(comp.NameIndex), err)
			}
			out[i] = RecordComponent{Name: cp.Utf8(comp.NameIndex), Type: desc}
		}
		return out, nil
	})
}

// Fields returns the declared fields in class-file order.
func (c *ClassData) Fields() []*FieldData {
	return c.fields.get(func() []*FieldData {
		out := make([]*FieldData, len(c.file.Fields))
		for i := range c.file.Fields {
			out[i] = &FieldData{owner: c, member: &c.file.Fields[i]}
		}
		return out
	})
}

// Field finds a declared field by name.
func (c *ClassData) Field(name string) *FieldData {
	for _, f := range c.Fields() {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// Methods returns the declared methods, constructors included, in
// class-file order.
func (c *ClassData) Methods() []*MethodData {
	return c.methods.get(func() []*MethodData {
		out := make([]*MethodData, len(c.file.Methods))
		for i := range c.file.Methods {
			out[i] = &MethodData{owner: c, member: &c.file.Methods[i]}
		}
		return out
	})
}

// Method finds a declared method by name and descriptor. An empty
// descriptor matches the first method with the given name.
func (c *ClassData) Method(name, descriptor string) *MethodData {
	for _, m := range c.Methods() {
		if m.Name() == name && (descriptor == "" || m.DescriptorText() == descriptor) {
			return m
		}
	}
	return nil
}

// MethodsNamed returns every declared method with the given name.
func (c *ClassData) MethodsNamed(name string) []*MethodData {
	var out []*MethodData
	for _, m := range c.Methods() {
		if m.Name() == name {
			out = append(out, m)
		}
	}
	return out
}

// Constructors returns the declared constructors.
func (c *ClassData) Constructors() []*MethodData {
	return c.MethodsNamed("<init>")
}

// InnerClassNames returns the internal names of classes declared inside
// this one, per the InnerClasses attribute (local and anonymous classes
// included).
func (c *ClassData) InnerClassNames() []string {
	ic := c.file.InnerClasses()
	if ic == nil {
		return nil
	}
	cp := c.file.ConstantPool
	var names []string
	for _, entry := range ic.Classes {
		inner := cp.ClassName(entry.InnerClassInfoIndex)
		if inner != "" && inner != c.name {
			names = append(names, inner)
		}
	}
	return names
}

// innerClassEntry returns this class's own entry in its InnerClasses
// attribute, or nil for top-level classes.
func (c *ClassData) innerClassEntry() *classfile.InnerClassEntry {
	return c.innerEntry.get(func() *classfile.InnerClassEntry {
		ic := c.file.InnerClasses()
		if ic == nil {
			return nil
		}
		cp := c.file.ConstantPool
		for i := range ic.Classes {
			if cp.ClassName(ic.Classes[i].InnerClassInfoIndex) == c.name {
				return &ic.Classes[i]
			}
		}
		return nil
	})
}

// IsInnerClass reports whether this class is a member, local, or
// anonymous class.
func (c *ClassData) IsInnerClass() bool {
	return c.innerClassEntry() != nil
}

// IsStaticInnerClass reports whether this is a static nested class.
func (c *ClassData) IsStaticInnerClass() bool {
	entry := c.innerClassEntry()
	return entry != nil && entry.InnerClassAccessFlags.IsStatic()
}

// RequiresOuterThis reports whether this class's constructors take an
// implicit enclosing-instance argument: it is an inner class that is
// neither static nor declared in a static context. Local and anonymous
// classes compiled in static methods have no enclosing instance; they
// are detected by their first constructor parameter not being the outer
// class.
func (c *ClassData) RequiresOuterThis() bool {
	entry := c.innerClassEntry()
	if entry == nil || entry.InnerClassAccessFlags.IsStatic() {
		return false
	}
	outer := c.OuterClassName()
	if outer == "" {
		return false
	}
	for _, ctor := range c.Constructors() {
		desc, err := ctor.Descriptor()
		if err != nil || len(desc.Params()) == 0 {
			continue
		}
		if cd, ok := desc.Params()[0].(*types.ClassTypeDescriptor); ok && cd.Name() == outer {
			return true
		}
		return false
	}
	return false
}

// OuterClassName returns the name of the immediately enclosing class,
// derived from this class's inner-class entry, its EnclosingMethod
// attribute, or the $-separated name as a last resort.
func (c *ClassData) OuterClassName() string {
	if entry := c.innerClassEntry(); entry != nil {
		if outer := c.file.ConstantPool.ClassName(entry.OuterClassInfoIndex); outer != "" {
			return outer
		}
	}
	if class, _, _ := c.file.EnclosingMethod(); class != "" {
		return class
	}
	if i := strings.LastIndexByte(c.name, '$'); i > 0 {
		return c.name[:i]
	}
	return ""
}

// EnclosingMethod returns the method a local or anonymous class was
// declared in, or ("", "", "") otherwise.
func (c *ClassData) EnclosingMethod() (class, name, descriptor string) {
	return c.file.EnclosingMethod()
}

func visibilityOf(flags classfile.AccessFlags) Visibility {
	switch {
	case flags.IsPublic():
		return VisibilityPublic
	case flags.IsProtected():
		return VisibilityProtected
	case flags.IsPrivate():
		return VisibilityPrivate
	}
	return VisibilityPackage
}
