package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissing(t *testing.T) {
	cfg := LoadConfig(t.TempDir(), nil)

	if cfg.Analysis.FileSizeLimitMB != 5 {
		t.Errorf("Default size limit = %d, want 5", cfg.Analysis.FileSizeLimitMB)
	}
	found := false
	for _, d := range cfg.Exclusions.Directories {
		if d == "node_modules" {
			found = true
		}
	}
	if !found {
		t.Error("Defaults should exclude node_modules")
	}
}

func TestLoadConfigMerge(t *testing.T) {
	tmpDir := t.TempDir()
	content := `{
		"language_extensions": {".zig": "Zig"},
		"exclusions": {"directories": ["vendor"]},
		"analysisSettings": {"fileSizeLimitMB": 2, "maxCycleLength": 8}
	}`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig(tmpDir, nil)

	if cfg.LanguageExtensions[".zig"] != "Zig" {
		t.Error("language_extensions not loaded")
	}
	if len(cfg.Exclusions.Directories) != 1 || cfg.Exclusions.Directories[0] != "vendor" {
		t.Errorf("Directories = %v, want [vendor]", cfg.Exclusions.Directories)
	}
	// Unspecified exclusion lists keep their defaults.
	if len(cfg.Exclusions.Files) == 0 {
		t.Error("File exclusions should keep defaults")
	}
	if cfg.Analysis.FileSizeLimitMB != 2 {
		t.Errorf("fileSizeLimitMB = %d, want 2", cfg.Analysis.FileSizeLimitMB)
	}
	if cfg.Analysis.MaxCycleLength != 8 {
		t.Errorf("maxCycleLength = %d, want 8", cfg.Analysis.MaxCycleLength)
	}
	// Absent analysis keys keep defaults.
	if cfg.Analysis.MaxCycles != 10 {
		t.Errorf("maxCycles = %d, want default 10", cfg.Analysis.MaxCycles)
	}
	if !cfg.Analysis.CheckCircularDependencies {
		t.Error("checkCircularDependencies default lost")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig(tmpDir, nil)
	if cfg.Analysis.FileSizeLimitMB != 5 {
		t.Error("Invalid config should fall back to defaults")
	}
}

func TestCompileParsersSkipsInvalid(t *testing.T) {
	parsers := map[string][]PatternConfig{
		"go": {
			{Regex: `([`, Name: "bad"},
			{Regex: `import "([^"]+)"`, Name: "good"},
			{Regex: "   ", Name: "empty"},
		},
	}
	compiled := compileParsers(parsers, nil)
	if len(compiled["go"]) != 1 || compiled["go"][0].name != "good" {
		t.Errorf("Expected only the valid pattern, got %v", compiled["go"])
	}
}
