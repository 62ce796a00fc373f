package scanner

import (
	"log/slog"
	"path/filepath"
	"strings"
)

// Strategy pulls raw reference strings (import paths, include targets, asset
// urls) out of one file's content. Implementations must tolerate malformed
// input and return an empty slice rather than fail.
type Strategy interface {
	Extract(content []byte) []string
}

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc func(content []byte) []string

func (f StrategyFunc) Extract(content []byte) []string { return f(content) }

// extToLangKey maps file extensions to the language keys used by the
// configurable pattern engine.
var extToLangKey = map[string]string{
	".java": "java", ".jav": "java", ".j": "java",
	".cs": "csharp", ".cshtml": "csharp", ".csx": "csharp",
	".c":   "c",
	".cpp": "cpp", ".cc": "cpp", ".cxx": "cpp", ".c++": "cpp", ".cp": "cpp",
	".h": "cpp", ".hpp": "cpp", ".hxx": "cpp", ".hh": "cpp", ".h++": "cpp",
	".inl": "cpp", ".tpp": "cpp", ".tcc": "cpp", ".inc": "cpp",
	".go": "go",
	".rs": "rust",
	".php": "php", ".phtml": "php", ".php3": "php", ".php4": "php", ".php5": "php",
}

// Extractor dispatches file content to the right extraction strategy by
// extension. A configured pattern set for the file's language key runs first;
// when it yields nothing, extraction falls back to the built-in strategy so
// configuration never silently loses imports the built-ins would have found.
type Extractor struct {
	registry map[string]Strategy
	custom   map[string][]compiledPattern
	logger   *slog.Logger
}

// NewExtractor builds the per-extension strategy registry and compiles the
// configured custom parsers.
func NewExtractor(cfg *Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Extractor{
		registry: make(map[string]Strategy),
		custom:   compileParsers(cfg.CustomParsers, logger),
		logger:   logger,
	}

	e.Register(newPythonStrategy(), ".py")
	e.Register(StrategyFunc(extractJSImports), ".js", ".jsx", ".ts", ".tsx", ".cjs")
	e.Register(StrategyFunc(extractJavaImports), ".java", ".jav")
	e.Register(StrategyFunc(extractCSharpImports), ".cs")
	e.Register(StrategyFunc(extractCppIncludes),
		".c", ".cpp", ".cc", ".cxx", ".h", ".hpp", ".hxx", ".hh", ".inl", ".tpp", ".tcc")
	e.Register(StrategyFunc(extractGoImports), ".go")
	e.Register(StrategyFunc(extractRustImports), ".rs")
	e.Register(StrategyFunc(extractPHPDependencies), ".php", ".phtml", ".php3", ".php4", ".php5")
	e.Register(StrategyFunc(extractHTMLRefs), ".html", ".htm")
	e.Register(StrategyFunc(extractCSSRefs), ".css", ".scss")
	e.Register(StrategyFunc(extractJSONRefs), ".json")

	return e
}

// Register installs a strategy for one or more extensions, replacing any
// previous registration.
func (e *Extractor) Register(s Strategy, exts ...string) {
	for _, ext := range exts {
		e.registry[strings.ToLower(ext)] = s
	}
}

// Extract returns the raw reference strings for one file. Files with no
// registered strategy, or unreadable content, contribute nothing.
func (e *Extractor) Extract(relPath string, content []byte) []string {
	ext := strings.ToLower(filepath.Ext(relPath))

	if langKey, ok := extToLangKey[ext]; ok {
		if patterns := e.custom[langKey]; len(patterns) > 0 {
			if refs := applyCustomPatterns(content, patterns, langKey); len(refs) > 0 {
				return refs
			}
			// Fall through to the built-in strategy.
		}
	}

	strategy, ok := e.registry[ext]
	if !ok {
		return nil
	}
	return strategy.Extract(content)
}
