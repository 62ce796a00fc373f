package scanner

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
)

// DiscoveredFile is one candidate file yielded by discovery.
type DiscoveredFile struct {
	RelPath string // '/'-separated, relative to the project root
	AbsPath string
	Size    int64
	ModTime time.Time
}

// Discovery walks the project tree applying exclusion rules, the include
// filter, and the per-extension size ceiling.
type Discovery struct {
	Root          string
	ExcludedDirs  map[string]bool
	ExcludedFiles map[string]bool
	// LargeExtensions are binary-ish extensions subject to MaxSizeBytes;
	// files of these types over the ceiling are dropped entirely.
	LargeExtensions map[string]bool
	// Include is the allow-set of lowercased extensions and filenames.
	// Empty means "all extensions".
	Include      map[string]bool
	MaxSizeBytes int64
	GitIgnore    *ignore.GitIgnore
	Logger       *slog.Logger

	// FoundExtensions records every distinct extension encountered, including
	// files the include filter rejected.
	FoundExtensions map[string]bool
}

// NewDiscovery builds a Discovery from the merged config plus caller extras.
func NewDiscovery(root string, cfg *Config, extraExcludedDirs, include []string, logger *slog.Logger) *Discovery {
	d := &Discovery{
		Root:            root,
		ExcludedDirs:    make(map[string]bool),
		ExcludedFiles:   make(map[string]bool),
		LargeExtensions: make(map[string]bool),
		Include:         make(map[string]bool),
		MaxSizeBytes:    int64(cfg.Analysis.FileSizeLimitMB) * 1024 * 1024,
		GitIgnore:       LoadGitignore(root),
		Logger:          logger,
		FoundExtensions: make(map[string]bool),
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	for _, dir := range cfg.Exclusions.Directories {
		d.ExcludedDirs[dir] = true
	}
	for _, dir := range extraExcludedDirs {
		if dir != "" {
			d.ExcludedDirs[dir] = true
		}
	}
	for _, f := range cfg.Exclusions.Files {
		d.ExcludedFiles[f] = true
	}
	for _, ext := range cfg.Exclusions.Extensions {
		d.LargeExtensions[strings.ToLower(ext)] = true
	}
	for _, inc := range include {
		if inc != "" {
			d.Include[strings.ToLower(inc)] = true
		}
	}
	return d
}

// LoadGitignore compiles the project root's .gitignore if present.
func LoadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		if gi, err := ignore.CompileIgnoreFile(path); err == nil {
			return gi
		}
	}
	return nil
}

// Walk traverses the tree top-down and returns the candidate file set in
// visitation order. Walk errors on individual files or subtrees are swallowed;
// only a fundamentally unreadable root is reported.
func (d *Discovery) Walk() ([]DiscoveredFile, error) {
	if info, err := os.Stat(d.Root); err != nil || !info.IsDir() {
		if err == nil {
			err = &fs.PathError{Op: "scan", Path: d.Root, Err: fs.ErrInvalid}
		}
		return nil, err
	}

	var found []DiscoveredFile
	walkErr := filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Permission error on a subtree: skip it, keep scanning.
			d.Logger.Debug("skipping unreadable path", "path", path, "error", err)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(d.Root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if rel == "." {
				return nil
			}
			// Pruned by name at every level independently.
			if d.ExcludedDirs[entry.Name()] {
				return fs.SkipDir
			}
			if d.GitIgnore != nil && d.GitIgnore.MatchesPath(rel) {
				return fs.SkipDir
			}
			return nil
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext == "" {
			d.FoundExtensions["(no extension)"] = true
		} else {
			d.FoundExtensions[ext] = true
		}

		if d.ExcludedFiles[name] {
			return nil
		}
		if d.GitIgnore != nil && d.GitIgnore.MatchesPath(rel) {
			return nil
		}
		if len(d.Include) > 0 && !d.Include[ext] && !d.Include[strings.ToLower(name)] {
			return nil
		}

		info, statErr := entry.Info()
		if statErr != nil {
			// Vanished or unreadable file: skip, not fatal.
			d.Logger.Debug("stat failed, skipping file", "path", path, "error", statErr)
			return nil
		}

		if d.LargeExtensions[ext] && info.Size() > d.MaxSizeBytes {
			return nil
		}

		found = append(found, DiscoveredFile{
			RelPath: rel,
			AbsPath: path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return found, nil
}
