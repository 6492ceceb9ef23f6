// Package mappings holds name mappings for obfuscated classes and
// members, plus the propagation step that copies mappings across the
// synthetic-link facts hydration attaches to the model graph.
package mappings

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// MethodMapping maps one method, keyed by its obfuscated name and
// descriptor, to a source-level name and per-index parameter names.
type MethodMapping struct {
	Name       string
	Descriptor string
	Mapped     string
	Params     map[int]string
}

func (m *MethodMapping) ParamName(index int) string { return m.Params[index] }

func (m *MethodMapping) SetParamName(index int, name string) {
	if m.Params == nil {
		m.Params = map[int]string{}
	}
	m.Params[index] = name
}

// FieldMapping maps one field by its obfuscated name.
type FieldMapping struct {
	Name   string
	Mapped string
}

// ClassMapping maps one class and its members. The class is keyed by
// obfuscated internal name (slash-separated).
type ClassMapping struct {
	Name    string
	Mapped  string
	methods map[string]*MethodMapping
	fields  map[string]*FieldMapping
}

func methodKey(name, descriptor string) string { return name + descriptor }

func (c *ClassMapping) Method(name, descriptor string) *MethodMapping {
	return c.methods[methodKey(name, descriptor)]
}

func (c *ClassMapping) GetOrCreateMethod(name, descriptor string) *MethodMapping {
	key := methodKey(name, descriptor)
	if m, ok := c.methods[key]; ok {
		return m
	}
	if c.methods == nil {
		c.methods = map[string]*MethodMapping{}
	}
	m := &MethodMapping{Name: name, Descriptor: descriptor}
	c.methods[key] = m
	return m
}

func (c *ClassMapping) RemoveMethod(name, descriptor string) {
	delete(c.methods, methodKey(name, descriptor))
}

func (c *ClassMapping) Field(name string) *FieldMapping { return c.fields[name] }

func (c *ClassMapping) GetOrCreateField(name string) *FieldMapping {
	if f, ok := c.fields[name]; ok {
		return f
	}
	if c.fields == nil {
		c.fields = map[string]*FieldMapping{}
	}
	f := &FieldMapping{Name: name}
	c.fields[name] = f
	return f
}

func (c *ClassMapping) RemoveField(name string) { delete(c.fields, name) }

func (c *ClassMapping) Methods() []*MethodMapping {
	out := make([]*MethodMapping, 0, len(c.methods))
	for _, m := range c.methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Descriptor < out[j].Descriptor
	})
	return out
}

func (c *ClassMapping) Fields() []*FieldMapping {
	out := make([]*FieldMapping, 0, len(c.fields))
	for _, f := range c.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MappingSet is the top-level mapping store. It is not safe for
// concurrent mutation; propagation runs after hydration, on one
// goroutine.
type MappingSet struct {
	classes map[string]*ClassMapping
}

func NewMappingSet() *MappingSet {
	return &MappingSet{classes: map[string]*ClassMapping{}}
}

func (s *MappingSet) Class(name string) *ClassMapping { return s.classes[name] }

func (s *MappingSet) GetOrCreateClass(name string) *ClassMapping {
	if c, ok := s.classes[name]; ok {
		return c
	}
	c := &ClassMapping{Name: name}
	s.classes[name] = c
	return c
}

func (s *MappingSet) RemoveClass(name string) { delete(s.classes, name) }

func (s *MappingSet) Classes() []*ClassMapping {
	out := make([]*ClassMapping, 0, len(s.classes))
	for _, c := range s.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Text format, one entry per line:
//
//	c <name> <mapped>
//	m <owner> <name> <descriptor> <mapped>
//	p <owner> <name> <descriptor> <index> <param-name>
//	f <owner> <name> <mapped>
//
// Mapped names may be "-" for entries that exist only to carry
// parameter names.

func Load(r io.Reader) (*MappingSet, error) {
	set := NewMappingSet()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if err := set.applyLine(fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

func LoadFile(path string) (*MappingSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	set, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

func (s *MappingSet) applyLine(fields []string) error {
	unmask := func(v string) string {
		if v == "-" {
			return ""
		}
		return v
	}
	switch fields[0] {
	case "c":
		if len(fields) != 3 {
			return fmt.Errorf("class entry needs 2 fields, got %d", len(fields)-1)
		}
		s.GetOrCreateClass(fields[1]).Mapped = unmask(fields[2])
	case "m":
		if len(fields) != 5 {
			return fmt.Errorf("method entry needs 4 fields, got %d", len(fields)-1)
		}
		s.GetOrCreateClass(fields[1]).GetOrCreateMethod(fields[2], fields[3]).Mapped = unmask(fields[4])
	case "p":
		if len(fields) != 6 {
			return fmt.Errorf("parameter entry needs 5 fields, got %d", len(fields)-1)
		}
		index, err := strconv.Atoi(fields[4])
		if err != nil {
			return fmt.Errorf("parameter index %q: %w", fields[4], err)
		}
		s.GetOrCreateClass(fields[1]).GetOrCreateMethod(fields[2], fields[3]).SetParamName(index, fields[5])
	case "f":
		if len(fields) != 4 {
			return fmt.Errorf("field entry needs 3 fields, got %d", len(fields)-1)
		}
		s.GetOrCreateClass(fields[1]).GetOrCreateField(fields[2]).Mapped = unmask(fields[3])
	default:
		return fmt.Errorf("unknown entry kind %q", fields[0])
	}
	return nil
}

func (s *MappingSet) Save(w io.Writer) error {
	mask := func(v string) string {
		if v == "" {
			return "-"
		}
		return v
	}
	for _, c := range s.Classes() {
		if _, err := fmt.Fprintf(w, "c %s %s\n", c.Name, mask(c.Mapped)); err != nil {
			return err
		}
		for _, f := range c.Fields() {
			if _, err := fmt.Fprintf(w, "f %s %s %s\n", c.Name, f.Name, mask(f.Mapped)); err != nil {
				return err
			}
		}
		for _, m := range c.Methods() {
			if _, err := fmt.Fprintf(w, "m %s %s %s %s\n", c.Name, m.Name, m.Descriptor, mask(m.Mapped)); err != nil {
				return err
			}
			indices := make([]int, 0, len(m.Params))
			for i := range m.Params {
				indices = append(indices, i)
			}
			sort.Ints(indices)
			for _, i := range indices {
				if _, err := fmt.Fprintf(w, "p %s %s %s %d %s\n", c.Name, m.Name, m.Descriptor, i, m.Params[i]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *MappingSet) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
