package model

import (
	"errors"
	"fmt"
	"sync"

	"github.com/denwav/hypo/classfile"
)

// Context owns the class graph for one analysis session: the providers
// supplying class bytes and the canonical ClassData instance per class
// name. Lookups are safe for concurrent use; each class is parsed at
// most once, with concurrent first callers blocking on the same cell.
type Context struct {
	providers []ClassProvider
	classes   sync.Map // string -> *classCell
}

type classCell struct {
	cell[*ClassData]
}

// NewContext creates a session over the given providers. Earlier
// providers shadow later ones for classes both can supply. The caller
// must Close the context to release provider resources.
func NewContext(providers ...ClassProvider) *Context {
	return &Context{providers: providers}
}

// FindClass returns the canonical ClassData for the named class, or
// ErrNotFound when no provider supplies it.
func (c *Context) FindClass(name string) (*ClassData, error) {
	v, _ := c.classes.LoadOrStore(name, &classCell{})
	return v.(*classCell).get(func() (*ClassData, error) {
		return c.loadClass(name)
	})
}

// TryClass is FindClass with a soft miss: a class no provider supplies
// yields (nil, nil). Parse failures still surface as errors.
func (c *Context) TryClass(name string) (*ClassData, error) {
	cd, err := c.FindClass(name)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return cd, err
}

func (c *Context) loadClass(name string) (*ClassData, error) {
	for _, p := range c.providers {
		data, err := p.ClassBytes(name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		file, err := classfile.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse class %s: %w", name, err)
		}
		cd := newClassData(name, file)
		cd.SetContext(c)
		return cd, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// AllClassNames enumerates every class name across all providers,
// deduplicated, in provider order.
func (c *Context) AllClassNames() ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, p := range c.providers {
		provided, err := p.AllClassNames()
		if err != nil {
			return nil, err
		}
		for _, name := range provided {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// Close releases every provider. The class graph itself needs no
// teardown; it becomes garbage with the context.
func (c *Context) Close() error {
	var errs []error
	for _, p := range c.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
