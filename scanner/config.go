package scanner

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ConfigFileName is looked up in the project root at the start of a scan.
const ConfigFileName = "codegnosis.config.json"

// PatternConfig is one user-supplied extraction pattern for a language key.
type PatternConfig struct {
	Regex        string `json:"regex_pattern"`
	CaptureGroup int    `json:"capture_group"`
	Multiline    bool   `json:"is_multiline"`
	Name         string `json:"pattern_name"`
}

// Exclusions names what discovery skips.
type Exclusions struct {
	Directories []string `json:"directories"`
	Files       []string `json:"files"`
	Extensions  []string `json:"extensions"`
}

// AnalysisSettings tunes the analytics passes. Cycle bounds are configurable
// rather than hard-coded.
type AnalysisSettings struct {
	FileSizeLimitMB           int  `json:"fileSizeLimitMB"`
	CheckCircularDependencies bool `json:"checkCircularDependencies"`
	CheckOrphans              bool `json:"checkOrphans"`
	CheckMissingAssets        bool `json:"checkMissingAssets"`
	ScanDepth                 int  `json:"scanDepth"`
	MaxCycles                 int  `json:"maxCycles"`
	MaxCycleLength            int  `json:"maxCycleLength"`
}

// Config is the immutable configuration value built once at start-of-scan and
// threaded through every component by reference.
type Config struct {
	LanguageExtensions map[string]string          `json:"language_extensions"`
	CustomParsers      map[string][]PatternConfig `json:"custom_regex_parsers"`
	Exclusions         Exclusions                 `json:"exclusions"`
	Analysis           AnalysisSettings           `json:"analysisSettings"`
}

// DefaultConfig returns the built-in configuration used when no config file
// exists or the file cannot be parsed.
func DefaultConfig() *Config {
	return &Config{
		LanguageExtensions: map[string]string{},
		CustomParsers:      map[string][]PatternConfig{},
		Exclusions: Exclusions{
			Directories: []string{".git", "node_modules", "__pycache__", "dist", "build", "target"},
			Files:       []string{"package-lock.json", ".DS_Store"},
			Extensions: []string{
				".exe", ".dll", ".pyc", ".png", ".jpg", ".jpeg", ".gif", ".webp",
				".zip", ".tar", ".gz", ".7z", ".rar",
				".xcf", ".psd", ".ai", ".sketch", ".fig", ".blend", ".fbx",
			},
		},
		Analysis: AnalysisSettings{
			FileSizeLimitMB:           5,
			CheckCircularDependencies: true,
			CheckOrphans:              true,
			CheckMissingAssets:        true,
			ScanDepth:                 10,
			MaxCycles:                 10,
			MaxCycleLength:            5,
		},
	}
}

// LoadConfig reads codegnosis.config.json from the project root, merging user
// values over the defaults. A missing or invalid file falls back to defaults;
// it never fails the scan.
func LoadConfig(root string, logger *slog.Logger) *Config {
	cfg := DefaultConfig()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	path := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	var user struct {
		LanguageExtensions map[string]string          `json:"language_extensions"`
		CustomParsers      map[string][]PatternConfig `json:"custom_regex_parsers"`
		Exclusions         *Exclusions                `json:"exclusions"`
		Analysis           *json.RawMessage           `json:"analysisSettings"`
	}
	if err := json.Unmarshal(data, &user); err != nil {
		logger.Warn("could not parse config file, using defaults", "path", path, "error", err)
		return cfg
	}

	if user.LanguageExtensions != nil {
		cfg.LanguageExtensions = user.LanguageExtensions
	}
	if user.CustomParsers != nil {
		cfg.CustomParsers = user.CustomParsers
	}
	if user.Exclusions != nil {
		if user.Exclusions.Directories != nil {
			cfg.Exclusions.Directories = user.Exclusions.Directories
		}
		if user.Exclusions.Files != nil {
			cfg.Exclusions.Files = user.Exclusions.Files
		}
		if user.Exclusions.Extensions != nil {
			cfg.Exclusions.Extensions = user.Exclusions.Extensions
		}
	}
	if user.Analysis != nil {
		// Merge field-by-field so absent keys keep their defaults.
		merged := cfg.Analysis
		if err := json.Unmarshal(*user.Analysis, &merged); err != nil {
			logger.Warn("invalid analysisSettings, using defaults", "error", err)
		} else {
			cfg.Analysis = merged
		}
	}

	return cfg
}

// compiledPattern is a user pattern ready to run against file content.
type compiledPattern struct {
	re    *regexp.Regexp
	group int
	name  string
}

// compileParsers compiles every configured pattern, skipping malformed ones
// individually with a warning. One bad pattern never disables the others.
func compileParsers(parsers map[string][]PatternConfig, logger *slog.Logger) map[string][]compiledPattern {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	compiled := make(map[string][]compiledPattern)
	for lang, patterns := range parsers {
		for _, p := range patterns {
			if strings.TrimSpace(p.Regex) == "" {
				continue
			}
			expr := p.Regex
			if p.Multiline && !strings.HasPrefix(expr, "(?m)") {
				expr = "(?m)" + expr
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				logger.Warn("invalid custom regex pattern, skipping",
					"language", lang, "pattern", p.Name, "error", err)
				continue
			}
			group := p.CaptureGroup
			if group < 1 {
				group = 1
			}
			compiled[lang] = append(compiled[lang], compiledPattern{re: re, group: group, name: p.Name})
		}
	}
	return compiled
}
