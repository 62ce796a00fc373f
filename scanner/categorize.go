package scanner

import (
	"path/filepath"
	"strings"
)

// masterCategories maps extensions (and a few literal filenames) to the
// category labels used throughout the report.
var masterCategories = map[string]string{
	".py":             "Python",
	".js":             "JavaScript",
	".cjs":            "JavaScript",
	".mjs":            "JavaScript Module",
	".jsx":            "React",
	".ts":             "TypeScript",
	".tsx":            "TypeScript React",
	".cts":            "TypeScript",
	".mts":            "TypeScript Module",
	".html":           "HTML",
	".htm":            "HTML",
	".css":            "CSS",
	".scss":           "SCSS",
	".less":           "Less",
	".java":           "Java",
	".cs":             "C#",
	".cpp":            "C++",
	".c":              "C",
	".h":              "Header",
	".go":             "Go",
	".rs":             "Rust",
	".php":            "PHP",
	".rb":             "Ruby",
	".swift":          "Swift",
	".kt":             "Kotlin",
	".pl":             "Perl",
	".sh":             "Shell",
	".ps1":            "PowerShell",
	".cmd":            "Batch",
	".bat":            "Batch",
	".json":           "JSON",
	".xml":            "XML",
	".yaml":           "YAML",
	".yml":            "YAML",
	".toml":           "TOML",
	".ini":            "INI",
	".env":            "ENV",
	".sql":            "SQL",
	".db":             "Database",
	".sqlite3":        "SQLite",
	".md":             "Markdown",
	".markdown":       "Markdown",
	".txt":            "Text",
	".csv":            "CSV",
	".png":            "Image",
	".jpg":            "Image",
	".jpeg":           "Image",
	".gif":            "Image",
	".webp":           "Image",
	".svg":            "SVG",
	".ico":            "Icon",
	".mp4":            "Video",
	".mp3":            "Audio",
	".ttf":            "Font",
	".woff":           "Font",
	".woff2":          "Font",
	".docx":           "Document",
	".pdf":            "Document",
	".xlsx":           "Spreadsheet",
	".dot":            "Graphviz",
	".code-workspace": "Config",
	".webmanifest":    "Config",
	".map":            "Source Map",
	".coffee":         "CoffeeScript",
	".applescript":    "AppleScript",
	".bnf":            "Grammar",
	".flow":           "Flow",
	".exe":            "Executable",
	".zip":            "Archive",
	".tar":            "Archive",
	".gz":             "Archive",
	".1":              "Man Page",
}

// CategoryExternal labels virtual external-package nodes.
const (
	CategoryExternal   = "External"
	CategoryUnfamiliar = "Unfamiliar"
)

// Categorizer resolves file names to category labels through a layered
// mapping: built-in defaults < config extension overrides < caller per-name
// overrides. Unknown extensions are collected in Unfamiliar.
type Categorizer struct {
	table      map[string]string
	Unfamiliar map[string]bool
}

// NewCategorizer builds the merged lookup table. configExts come from the
// config's language_extensions; nameOverrides are caller-supplied and win over
// everything else.
func NewCategorizer(configExts, nameOverrides map[string]string) *Categorizer {
	table := make(map[string]string, len(masterCategories)+len(configExts)+len(nameOverrides))
	for k, v := range masterCategories {
		table[k] = v
	}
	for k, v := range configExts {
		table[strings.ToLower(k)] = v
	}
	for k, v := range nameOverrides {
		table[strings.ToLower(k)] = v
	}
	return &Categorizer{table: table, Unfamiliar: make(map[string]bool)}
}

// Categorize maps a relative path to its category label. Filename matches take
// precedence over extension matches. A miss records the extension as
// unfamiliar and returns "Unfamiliar".
func (c *Categorizer) Categorize(relPath string) string {
	name := strings.ToLower(filepath.Base(relPath))
	ext := strings.ToLower(filepath.Ext(relPath))

	if cat, ok := c.table[name]; ok {
		return cat
	}
	if cat, ok := c.table[ext]; ok {
		return cat
	}
	c.Unfamiliar[ext] = true
	return CategoryUnfamiliar
}

// UnfamiliarExtensions returns the set of extensions that failed every layer
// of the lookup, in no particular order.
func (c *Categorizer) UnfamiliarExtensions() []string {
	out := make([]string, 0, len(c.Unfamiliar))
	for ext := range c.Unfamiliar {
		out = append(out, ext)
	}
	return out
}
