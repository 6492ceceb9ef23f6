package classfile

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// byteReader is a cursor over a class file's bytes. The error is sticky:
// after the first short read every accessor returns zero values, so call
// sites check err once at the end of a decode unit.
type byteReader struct {
	data []byte
	pos  int
	err  error
}

func (r *byteReader) fail() {
	if r.err == nil {
		r.err = fmt.Errorf("unexpected end of class file at offset %d", r.pos)
	}
}

func (r *byteReader) u1() uint8 {
	if r.err != nil || r.pos+1 > len(r.data) {
		r.fail()
		return 0
	}
	b := r.data[r.pos]
	r.pos++
	return b
}

func (r *byteReader) u2() uint16 {
	if r.err != nil || r.pos+2 > len(r.data) {
		r.fail()
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *byteReader) u4() uint32 {
	if r.err != nil || r.pos+4 > len(r.data) {
		r.fail()
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *byteReader) bytes(n int) []byte {
	if r.err != nil || n < 0 || r.pos+n > len(r.data) {
		r.fail()
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// u2slice reads a u2 count followed by that many u2 values.
func (r *byteReader) u2slice() []uint16 {
	n := r.u2()
	if r.err != nil {
		return nil
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = r.u2()
	}
	return out
}

// ParseFile reads and parses a class file from disk.
func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read class file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a class file from its raw bytes.
func Parse(data []byte) (*ClassFile, error) {
	r := &byteReader{data: data}

	if magic := r.u4(); r.err == nil && magic != Magic {
		return nil, fmt.Errorf("invalid magic number: 0x%X", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.u2(),
		MajorVersion: r.u2(),
	}

	cpCount := r.u2()
	if r.err != nil {
		return nil, fmt.Errorf("read class file header: %w", r.err)
	}
	if cpCount > 0 {
		cf.ConstantPool = make(ConstantPool, cpCount-1)
	}
	for i := uint16(1); i < cpCount; i++ {
		entry, wide, err := readConstantPoolEntry(r)
		if err != nil {
			return nil, fmt.Errorf("read constant pool entry %d: %w", i, err)
		}
		cf.ConstantPool[i-1] = entry
		if wide {
			// Long and double entries take two slots.
			i++
		}
	}

	cf.AccessFlags = AccessFlags(r.u2())
	cf.ThisClass = r.u2()
	cf.SuperClass = r.u2()
	cf.Interfaces = r.u2slice()
	if r.err != nil {
		return nil, fmt.Errorf("read class info: %w", r.err)
	}

	fieldCount := r.u2()
	cf.Fields = make([]Member, fieldCount)
	for i := range cf.Fields {
		cf.Fields[i] = readMember(r, cf.ConstantPool)
	}

	methodCount := r.u2()
	cf.Methods = make([]Member, methodCount)
	for i := range cf.Methods {
		cf.Methods[i] = readMember(r, cf.ConstantPool)
	}

	cf.Attributes = readAttributes(r, cf.ConstantPool)
	if r.err != nil {
		return nil, fmt.Errorf("read class body: %w", r.err)
	}

	return cf, nil
}

func readConstantPoolEntry(r *byteReader) (ConstantPoolEntry, bool, error) {
	tag := ConstantTag(r.u1())
	if r.err != nil {
		return nil, false, r.err
	}

	var entry ConstantPoolEntry
	wide := false
	switch tag {
	case ConstantUtf8:
		entry = &Utf8Entry{Value: decodeModifiedUtf8(r.bytes(int(r.u2())))}
	case ConstantInteger:
		entry = &IntegerEntry{Value: int32(r.u4())}
	case ConstantFloat:
		entry = &FloatEntry{Value: math.Float32frombits(r.u4())}
	case ConstantLong:
		high, low := r.u4(), r.u4()
		entry = &LongEntry{Value: int64(uint64(high)<<32 | uint64(low))}
		wide = true
	case ConstantDouble:
		high, low := r.u4(), r.u4()
		entry = &DoubleEntry{Value: math.Float64frombits(uint64(high)<<32 | uint64(low))}
		wide = true
	case ConstantClass:
		entry = &ClassEntry{NameIndex: r.u2()}
	case ConstantString:
		entry = &StringEntry{StringIndex: r.u2()}
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref:
		entry = &RefEntry{Kind: tag, ClassIndex: r.u2(), NameAndTypeIndex: r.u2()}
	case ConstantNameAndType:
		entry = &NameAndTypeEntry{NameIndex: r.u2(), DescriptorIndex: r.u2()}
	case ConstantMethodHandle:
		entry = &MethodHandleEntry{ReferenceKind: MethodHandleKind(r.u1()), ReferenceIndex: r.u2()}
	case ConstantMethodType:
		entry = &MethodTypeEntry{DescriptorIndex: r.u2()}
	case ConstantDynamic, ConstantInvokeDynamic:
		entry = &DynamicEntry{Kind: tag, BootstrapMethodAttrIndex: r.u2(), NameAndTypeIndex: r.u2()}
	case ConstantModule:
		entry = &ModuleEntry{NameIndex: r.u2()}
	case ConstantPackage:
		entry = &PackageEntry{NameIndex: r.u2()}
	default:
		return nil, false, fmt.Errorf("unknown constant pool tag: %d", tag)
	}
	if r.err != nil {
		return nil, false, r.err
	}
	return entry, wide, nil
}

func readMember(r *byteReader, cp ConstantPool) Member {
	m := Member{
		AccessFlags:     AccessFlags(r.u2()),
		NameIndex:       r.u2(),
		DescriptorIndex: r.u2(),
	}
	m.Attributes = readAttributes(r, cp)
	return m
}

func readAttributes(r *byteReader, cp ConstantPool) []Attribute {
	count := r.u2()
	if r.err != nil {
		return nil
	}
	attrs := make([]Attribute, count)
	for i := range attrs {
		nameIndex := r.u2()
		raw := r.bytes(int(r.u4()))
		if r.err != nil {
			return nil
		}
		name := cp.Utf8(nameIndex)
		attrs[i] = Attribute{
			Name:   name,
			Raw:    raw,
			Parsed: parseAttribute(name, raw, cp),
		}
	}
	return attrs
}

// decodeModifiedUtf8 decodes the JVM's modified UTF-8: no NUL bytes, and
// supplementary characters encoded as surrogate pairs of 3-byte units.
func decodeModifiedUtf8(b []byte) string {
	runes := make([]rune, 0, len(b))
	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c&0x80 == 0:
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) {
				return string(runes)
			}
			runes = append(runes, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) {
				return string(runes)
			}
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(b) && b[i+3]&0xF0 == 0xE0 {
				low := rune(b[i+3]&0x0F)<<12 | rune(b[i+4]&0x3F)<<6 | rune(b[i+5]&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, 0x10000+((r-0xD800)<<10)+(low-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		default:
			runes = append(runes, rune(c))
			i++
		}
	}
	return string(runes)
}
