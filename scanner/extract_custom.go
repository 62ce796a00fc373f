package scanner

import (
	"strings"
)

// applyCustomPatterns runs the configured patterns for one language key over
// file content and converts every capture into path candidates. Pattern names
// are significant for two languages: "block_import" (go) captures a whole
// import block that is split into individual paths, and "mod_declaration"
// (rust) expands to both file layouts a module can live in.
func applyCustomPatterns(content []byte, patterns []compiledPattern, langKey string) []string {
	var refs []string
	text := string(content)

	for _, p := range patterns {
		for _, match := range p.re.FindAllStringSubmatch(text, -1) {
			raw := ""
			if p.group < len(match) {
				raw = match[p.group]
			} else if len(match) > 1 {
				raw = match[1]
			}
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			refs = append(refs, convertImportToPath(raw, langKey, p.name)...)
		}
	}
	return refs
}

// convertImportToPath turns a raw captured import into file path candidates
// following each language's source layout conventions.
func convertImportToPath(raw, langKey, patternName string) []string {
	switch langKey {
	case "java":
		// com.example.Class -> com/example/Class.java; wildcards name the
		// package directory.
		path := strings.ReplaceAll(raw, ".", "/")
		if strings.HasSuffix(path, "/*") {
			return []string{strings.TrimSuffix(path, "/*")}
		}
		return []string{path + ".java"}

	case "csharp":
		return []string{strings.ReplaceAll(raw, ".", "/") + ".cs"}

	case "c", "cpp":
		// Includes are already paths.
		return []string{raw}

	case "go":
		if patternName == "block_import" {
			// The capture is the whole parenthesized block.
			var paths []string
			for _, m := range goBlockEntry.FindAllStringSubmatch(raw, -1) {
				paths = append(paths, m[1])
			}
			return paths
		}
		return []string{raw}

	case "rust":
		if patternName == "mod_declaration" {
			// mod foo lives at foo.rs or foo/mod.rs.
			return []string{raw + ".rs", raw + "/mod.rs"}
		}
		return []string{strings.ReplaceAll(raw, "::", "/") + ".rs"}

	case "php":
		return []string{strings.ReplaceAll(raw, `\`, "/") + ".php"}
	}

	return []string{raw}
}
