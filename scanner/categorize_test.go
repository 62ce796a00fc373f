package scanner

import "testing"

func TestCategorize(t *testing.T) {
	c := NewCategorizer(nil, nil)

	tests := []struct {
		path string
		want string
	}{
		{"main.py", "Python"},
		{"src/app.tsx", "TypeScript React"},
		{"lib/util.js", "JavaScript"},
		{"style.scss", "SCSS"},
		{"logo.png", "Image"},
		{"font.woff2", "Font"},
		{"doc/tool.1", "Man Page"},
		{"deep/nested/README.md", "Markdown"},
	}
	for _, tt := range tests {
		if got := c.Categorize(tt.path); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCategorizeUnfamiliar(t *testing.T) {
	c := NewCategorizer(nil, nil)

	if got := c.Categorize("data.xyz"); got != CategoryUnfamiliar {
		t.Errorf("Expected Unfamiliar, got %q", got)
	}
	found := false
	for _, ext := range c.UnfamiliarExtensions() {
		if ext == ".xyz" {
			found = true
		}
	}
	if !found {
		t.Error("Expected .xyz recorded as unfamiliar")
	}
}

func TestCategorizeConfigOverride(t *testing.T) {
	c := NewCategorizer(map[string]string{".xyz": "MyLang", ".py": "Snake"}, nil)

	if got := c.Categorize("data.xyz"); got != "MyLang" {
		t.Errorf("Config extension should win, got %q", got)
	}
	if got := c.Categorize("main.py"); got != "Snake" {
		t.Errorf("Config should override built-in, got %q", got)
	}
}

func TestCategorizeNameOverExtension(t *testing.T) {
	c := NewCategorizer(nil, map[string]string{"dockerfile": "Docker", "special.py": "Special"})

	if got := c.Categorize("Dockerfile"); got != "Docker" {
		t.Errorf("Filename override failed, got %q", got)
	}
	// Full-name match takes precedence over the extension row.
	if got := c.Categorize("pkg/special.py"); got != "Special" {
		t.Errorf("Filename should beat extension, got %q", got)
	}
}
