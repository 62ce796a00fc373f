package scanner

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// resolveExtensions are appended to extensionless references, in priority
// order, before falling back to index files inside a directory of that name.
var resolveExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".json", ".py", ".cjs", ".mjs"}

// assetDirs are the conventional directories asset references are probed
// against, in addition to the declaring file's directory and the root.
var assetDirs = []string{"assets", "images", "img", "static", "public", "media"}

// Resolver turns raw reference strings into graph node keys. All returned
// paths are project-relative, slash-separated, and verified to exist inside
// the root. References that look like package names (no separator, no
// relative marker, no extension) become virtual external keys instead.
type Resolver struct {
	Root string
}

func NewResolver(root string) *Resolver { return &Resolver{Root: root} }

// Resolve maps one import reference declared in fromRel to a node key.
// It returns "" when the reference matches nothing on disk; an unresolved
// reference is not an error, it just produces no edge.
func (r *Resolver) Resolve(fromRel, ref string) string {
	if ref == "" {
		return ""
	}
	if IsExternalRef(ref) {
		return ExternalKeyPrefix + ref
	}

	dir := path.Dir(fromRel)
	candidates := []string{path.Join(dir, ref), ref}

	if path.Ext(ref) == "" {
		for _, ext := range resolveExtensions {
			candidates = append(candidates, path.Join(dir, ref+ext), ref+ext)
		}
		// Folder imports resolve to an index file inside the directory.
		for _, ext := range resolveExtensions {
			candidates = append(candidates,
				path.Join(dir, ref, "index"+ext),
				path.Join(ref, "index"+ext))
		}
	}

	return r.firstExisting(candidates)
}

// ResolveAsset maps one asset reference (image, font, data file) declared in
// fromRel to a project-relative path, probing the declaring directory, the
// root, and the conventional asset directories. Returns "" when nothing on
// disk matches.
func (r *Resolver) ResolveAsset(fromRel, ref string) string {
	if ref == "" {
		return ""
	}

	dir := path.Dir(fromRel)
	candidates := []string{path.Join(dir, ref), ref}
	for _, assetDir := range assetDirs {
		candidates = append(candidates, path.Join(assetDir, ref))
	}

	return r.firstExisting(candidates)
}

// IsExternalRef reports whether a reference names a package rather than a
// file: no path separator, no relative-path marker, no extension.
func IsExternalRef(ref string) bool {
	return !strings.HasPrefix(ref, ".") &&
		!strings.Contains(ref, "/") &&
		path.Ext(ref) == ""
}

// firstExisting returns the first candidate that is a regular file inside
// the root, as a clean slash-separated relative path.
func (r *Resolver) firstExisting(candidates []string) string {
	for _, cand := range candidates {
		cand = path.Clean(cand)
		if cand == "." || cand == ".." || strings.HasPrefix(cand, "../") || path.IsAbs(cand) {
			continue
		}
		abs := filepath.Join(r.Root, filepath.FromSlash(cand))
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			continue
		}
		return cand
	}
	return ""
}
