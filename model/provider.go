package model

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ClassProvider supplies raw class file bytes keyed by internal class
// name. Providers are the only I/O surface of the model layer; they are
// acquired once per session and released when the Context closes.
type ClassProvider interface {
	// ClassBytes returns the bytes for the named class, or ErrNotFound.
	ClassBytes(name string) ([]byte, error)

	// AllClassNames enumerates every class this provider can supply.
	AllClassNames() ([]string, error)

	Close() error
}

// DirProvider serves class files from a directory tree laid out by
// internal name (com/example/Foo.class).
type DirProvider struct {
	root string
}

func NewDirProvider(root string) *DirProvider {
	return &DirProvider{root: root}
}

func (p *DirProvider) ClassBytes(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(p.root, filepath.FromSlash(name)+".class"))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read class %s: %w", name, err)
	}
	return data, nil
}

func (p *DirProvider) AllClassNames() ([]string, error) {
	var names []string
	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if strings.HasSuffix(path, ".class") {
			rel, err := filepath.Rel(p.root, path)
			if err != nil {
				return err
			}
			names = append(names, strings.TrimSuffix(filepath.ToSlash(rel), ".class"))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", p.root, err)
	}
	sort.Strings(names)
	return names, nil
}

func (p *DirProvider) Close() error { return nil }

// JarProvider serves class files from a jar (or any zip) archive.
type JarProvider struct {
	reader *zip.ReadCloser
	files  map[string]*zip.File
}

func NewJarProvider(path string) (*JarProvider, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open jar %s: %w", path, err)
	}
	files := make(map[string]*zip.File)
	for _, f := range reader.File {
		if strings.HasSuffix(f.Name, ".class") && !strings.HasPrefix(f.Name, "META-INF/") {
			files[strings.TrimSuffix(f.Name, ".class")] = f
		}
	}
	return &JarProvider{reader: reader, files: files}, nil
}

func (p *JarProvider) ClassBytes(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, ErrNotFound
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open jar entry %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read jar entry %s: %w", f.Name, err)
	}
	return data, nil
}

func (p *JarProvider) AllClassNames() ([]string, error) {
	names := make([]string, 0, len(p.files))
	for name := range p.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (p *JarProvider) Close() error { return p.reader.Close() }

// MapProvider serves class files from memory. Used by tests and by
// callers that assemble classes themselves.
type MapProvider map[string][]byte

func (p MapProvider) ClassBytes(name string) ([]byte, error) {
	data, ok := p[name]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (p MapProvider) AllClassNames() ([]string, error) {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (p MapProvider) Close() error { return nil }
