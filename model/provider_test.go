package model_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/denwav/hypo/internal/javatest"
	"github.com/denwav/hypo/model"
)

func TestDirProvider(t *testing.T) {
	root := t.TempDir()
	data := javatest.NewClass("com/example/Disk").Bytes()
	dir := filepath.Join(root, "com", "example")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Disk.class"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := model.NewDirProvider(root)
	defer p.Close()

	got, err := p.ClassBytes("com/example/Disk")
	if err != nil {
		t.Fatalf("ClassBytes: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("ClassBytes returned different bytes")
	}

	if _, err := p.ClassBytes("com/example/Missing"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("missing class error = %v, want ErrNotFound", err)
	}

	names, err := p.AllClassNames()
	if err != nil {
		t.Fatalf("AllClassNames: %v", err)
	}
	if len(names) != 1 || names[0] != "com/example/Disk" {
		t.Errorf("AllClassNames = %v, want [com/example/Disk]", names)
	}
}

func TestJarProvider(t *testing.T) {
	data := javatest.NewClass("com/example/Jarred").Bytes()

	path := filepath.Join(t.TempDir(), "app.jar")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, content := range map[string][]byte{
		"com/example/Jarred.class": data,
		"META-INF/MANIFEST.MF":     []byte("Manifest-Version: 1.0\n"),
		"com/example/resource.txt": []byte("x"),
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	p, err := model.NewJarProvider(path)
	if err != nil {
		t.Fatalf("NewJarProvider: %v", err)
	}
	defer p.Close()

	got, err := p.ClassBytes("com/example/Jarred")
	if err != nil {
		t.Fatalf("ClassBytes: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("ClassBytes returned different bytes")
	}

	if _, err := p.ClassBytes("META-INF/MANIFEST"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("manifest lookup error = %v, want ErrNotFound", err)
	}

	names, err := p.AllClassNames()
	if err != nil {
		t.Fatalf("AllClassNames: %v", err)
	}
	if len(names) != 1 || names[0] != "com/example/Jarred" {
		t.Errorf("AllClassNames = %v, want [com/example/Jarred]", names)
	}

	// The provider holds the archive open until released.
	ctx := model.NewContext(p)
	if _, err := ctx.FindClass("com/example/Jarred"); err != nil {
		t.Fatalf("FindClass through context: %v", err)
	}
}
