package scanner

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWalkSkipsExcludedDirs(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(tmpDir, "node_modules", "pkg"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "node_modules", "pkg", "index.js"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "main.js"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	// Exclusion is by directory name at any depth.
	if err := os.MkdirAll(filepath.Join(tmpDir, "src", "node_modules"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "src", "node_modules", "dep.js"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "src", "app.js"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	d := NewDiscovery(tmpDir, DefaultConfig(), nil, nil, nil)
	files, err := d.Walk()
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	got := make(map[string]bool)
	for _, f := range files {
		got[f.RelPath] = true
	}
	if !got["main.js"] || !got["src/app.js"] {
		t.Errorf("Expected main.js and src/app.js, got %v", got)
	}
	if got["node_modules/pkg/index.js"] || got["src/node_modules/dep.js"] {
		t.Errorf("node_modules content should be excluded, got %v", got)
	}
}

func TestWalkSkipsExcludedFiles(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "package-lock.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	d := NewDiscovery(tmpDir, DefaultConfig(), nil, nil, nil)
	files, err := d.Walk()
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	if len(files) != 1 || files[0].RelPath != "package.json" {
		t.Errorf("Expected only package.json, got %v", files)
	}
}

func TestWalkIncludeFilter(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"main.go", "app.py", "readme.md", "Makefile"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	d := NewDiscovery(tmpDir, DefaultConfig(), nil, []string{".go", "makefile"}, nil)
	files, err := d.Walk()
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	got := make(map[string]bool)
	for _, f := range files {
		got[f.RelPath] = true
	}
	if len(got) != 2 || !got["main.go"] || !got["Makefile"] {
		t.Errorf("Include filter mismatch, got %v", got)
	}

	// FoundExtensions records everything seen, filtered or not.
	if !d.FoundExtensions[".py"] || !d.FoundExtensions[".md"] || !d.FoundExtensions["(no extension)"] {
		t.Errorf("FoundExtensions incomplete: %v", d.FoundExtensions)
	}
}

func TestWalkSizeCeilingOnlyForExcludedExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Analysis.FileSizeLimitMB = 1
	ceiling := 1024 * 1024

	big := bytes.Repeat([]byte("a"), ceiling+1)
	if err := os.WriteFile(filepath.Join(tmpDir, "big.png"), big, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "small.png"), []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}
	// Source files are never size limited.
	if err := os.WriteFile(filepath.Join(tmpDir, "big.js"), big, 0644); err != nil {
		t.Fatal(err)
	}

	d := NewDiscovery(tmpDir, cfg, nil, nil, nil)
	files, err := d.Walk()
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	got := make(map[string]bool)
	for _, f := range files {
		got[f.RelPath] = true
	}
	if got["big.png"] {
		t.Error("Oversized binary file should be excluded")
	}
	if !got["small.png"] {
		t.Error("Small binary file should be included")
	}
	if !got["big.js"] {
		t.Error("Large source file should be included")
	}
}

func TestWalkGitignore(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("generated/\n*.log\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "debug.log"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "main.go"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	d := NewDiscovery(tmpDir, DefaultConfig(), nil, nil, nil)
	files, err := d.Walk()
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	for _, f := range files {
		if f.RelPath == "debug.log" {
			t.Error("gitignored file should be excluded")
		}
	}
}

func TestWalkInvalidRoot(t *testing.T) {
	d := NewDiscovery("/nonexistent/path", DefaultConfig(), nil, nil, nil)
	if _, err := d.Walk(); err == nil {
		t.Error("Expected error for nonexistent root")
	}

	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	d = NewDiscovery(file, DefaultConfig(), nil, nil, nil)
	if _, err := d.Walk(); err == nil {
		t.Error("Expected error when root is a file")
	}
}

func TestLoadGitignoreMissing(t *testing.T) {
	if gi := LoadGitignore(t.TempDir()); gi != nil {
		t.Error("Expected nil gitignore when no .gitignore exists")
	}
}
