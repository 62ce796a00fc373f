package scanner

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Built-in regex strategies, one per supported source language. Each is tuned
// to that language's import/include/use grammar; none of them attempt
// compiler-grade resolution of computed or conditional imports.

var (
	jsImportFrom  = regexp.MustCompile(`import\s+.*?\s+from\s+['"](.+?)['"]`)
	jsRequire     = regexp.MustCompile(`require\(['"](.+?)['"]\)`)
	jsDynImport   = regexp.MustCompile(`import\(['"](.+?)['"]\)`)
	javaImport    = regexp.MustCompile(`(?m)^\s*import\s+([\w.*]+);`)
	javaStatic    = regexp.MustCompile(`(?m)^\s*import\s+static\s+([\w.*]+);`)
	csUsing       = regexp.MustCompile(`(?m)^\s*(?:global\s+)?using\s+(?:static\s+)?([\w.]+);`)
	csUsingAlias  = regexp.MustCompile(`(?m)^\s*(?:global\s+)?using\s+\w+\s*=\s*([\w.]+);`)
	cppAngled     = regexp.MustCompile(`(?m)^\s*#\s*include\s*<([^>]+)>`)
	cppQuoted     = regexp.MustCompile(`(?m)^\s*#\s*include\s*"([^"]+)"`)
	goSingle      = regexp.MustCompile(`(?m)^\s*import\s+(?:\w+\s+)?"([^"]+)"`)
	goBlock       = regexp.MustCompile(`import\s*\(\s*([\s\S]*?)\s*\)`)
	goBlockEntry  = regexp.MustCompile(`(?:[\w._]\s+)?"([^"]+)"`)
	rustUse       = regexp.MustCompile(`(?m)^\s*use\s+([\w:]+)(?:\s+as\s+\w+)?;`)
	rustUseGroup  = regexp.MustCompile(`(?m)^\s*use\s+([\w:]+)::\{([^}]+)\};`)
	rustMod       = regexp.MustCompile(`(?m)^\s*(?:pub\s+)?mod\s+(\w+);`)
	phpUse        = regexp.MustCompile(`(?m)^\s*use\s+([\w\\]+)(?:\s+as\s+\w+)?;`)
	phpUseGroup   = regexp.MustCompile(`(?m)^\s*use\s+([\w\\]+)\\\{([^}]+)\};`)
	phpIncCall    = regexp.MustCompile(`(?m)^\s*(?:require|include)(?:_once)?\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	phpIncPlain   = regexp.MustCompile(`(?m)^\s*(?:require|include)(?:_once)?\s+['"]([^'"]+)['"]`)
	htmlScriptSrc = regexp.MustCompile(`(?i)<script[^>]+src=["'](.+?)["']`)
	htmlLinkHref  = regexp.MustCompile(`(?i)<link[^>]+href=["'](.+?)["']`)
	htmlImgSrc    = regexp.MustCompile(`(?i)<img[^>]+src=["'](.+?)["']`)
	cssImport     = regexp.MustCompile(`@import\s+["'](.+?)["']`)
	cssURL        = regexp.MustCompile(`url\(["']?(.+?)["']?\)`)
)

func findAll(re *regexp.Regexp, content string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		if len(m) > 1 {
			out = append(out, m[1])
		}
	}
	return out
}

// extractJSImports handles JavaScript/TypeScript: import-from, require(), and
// dynamic import().
func extractJSImports(content []byte) []string {
	text := string(content)
	var imports []string
	imports = append(imports, findAll(jsImportFrom, text)...)
	imports = append(imports, findAll(jsRequire, text)...)
	imports = append(imports, findAll(jsDynImport, text)...)
	return imports
}

// extractJavaImports handles standard, wildcard, and static imports,
// converting fully-qualified names to file path candidates.
func extractJavaImports(content []byte) []string {
	text := string(content)
	var imports []string
	for _, imp := range findAll(javaImport, text) {
		path := strings.ReplaceAll(imp, ".", "/")
		if strings.HasSuffix(path, "/*") {
			// Wildcard import points at the package directory.
			imports = append(imports, strings.TrimSuffix(path, "/*"))
		} else {
			imports = append(imports, path+".java")
		}
	}
	for _, imp := range findAll(javaStatic, text) {
		// Static imports name a member; the class is everything before the
		// last dot.
		if i := strings.LastIndex(imp, "."); i > 0 {
			imports = append(imports, strings.ReplaceAll(imp[:i], ".", "/")+".java")
		}
	}
	return imports
}

// extractCSharpImports handles using directives including global, static, and
// aliased forms.
func extractCSharpImports(content []byte) []string {
	text := string(content)
	var imports []string
	for _, ns := range findAll(csUsing, text) {
		imports = append(imports, strings.ReplaceAll(ns, ".", "/")+".cs")
	}
	for _, ns := range findAll(csUsingAlias, text) {
		imports = append(imports, strings.ReplaceAll(ns, ".", "/")+".cs")
	}
	return imports
}

// extractCppIncludes handles both angled (system) and quoted (local)
// #include directives. Angled targets rarely resolve locally but are kept for
// completeness.
func extractCppIncludes(content []byte) []string {
	text := string(content)
	var includes []string
	includes = append(includes, findAll(cppAngled, text)...)
	includes = append(includes, findAll(cppQuoted, text)...)
	return includes
}

// extractGoImports handles single-line, aliased, and block-style imports.
func extractGoImports(content []byte) []string {
	text := string(content)
	var imports []string
	imports = append(imports, findAll(goSingle, text)...)
	for _, block := range findAll(goBlock, text) {
		imports = append(imports, findAll(goBlockEntry, block)...)
	}
	return imports
}

// extractRustImports handles use statements, grouped use, and mod
// declarations (which produce both foo.rs and foo/mod.rs candidates).
func extractRustImports(content []byte) []string {
	text := string(content)
	var imports []string
	for _, use := range findAll(rustUse, text) {
		imports = append(imports, strings.ReplaceAll(use, "::", "/")+".rs")
	}
	for _, m := range rustUseGroup.FindAllStringSubmatch(text, -1) {
		base, group := m[1], m[2]
		for _, item := range strings.Split(group, ",") {
			item = strings.TrimSpace(strings.SplitN(item, " as ", 2)[0])
			if item == "" {
				continue
			}
			full := base + "::" + item
			imports = append(imports, strings.ReplaceAll(full, "::", "/")+".rs")
		}
	}
	for _, mod := range findAll(rustMod, text) {
		imports = append(imports, mod+".rs", mod+"/mod.rs")
	}
	return imports
}

// extractPHPDependencies handles namespace use statements (PSR-4 conversion),
// grouped use, and static include/require targets. Dynamic paths containing
// variables are dropped.
func extractPHPDependencies(content []byte) []string {
	text := string(content)
	var imports []string
	for _, ns := range findAll(phpUse, text) {
		imports = append(imports, strings.ReplaceAll(ns, `\`, "/")+".php")
	}
	for _, m := range phpUseGroup.FindAllStringSubmatch(text, -1) {
		base, group := m[1], m[2]
		for _, item := range strings.Split(group, ",") {
			item = strings.TrimSpace(strings.SplitN(item, " as ", 2)[0])
			if item == "" {
				continue
			}
			full := base + `\` + item
			imports = append(imports, strings.ReplaceAll(full, `\`, "/")+".php")
		}
	}
	for _, re := range []*regexp.Regexp{phpIncCall, phpIncPlain} {
		for _, target := range findAll(re, text) {
			if !strings.Contains(target, "$") {
				imports = append(imports, target)
			}
		}
	}
	return imports
}

// extractHTMLRefs handles script src, link href, and img src attributes,
// dropping absolute and protocol-relative URLs.
func extractHTMLRefs(content []byte) []string {
	text := string(content)
	var refs []string
	for _, re := range []*regexp.Regexp{htmlScriptSrc, htmlLinkHref, htmlImgSrc} {
		for _, r := range findAll(re, text) {
			if strings.HasPrefix(r, "http://") || strings.HasPrefix(r, "https://") || strings.HasPrefix(r, "//") {
				continue
			}
			refs = append(refs, r)
		}
	}
	return refs
}

// extractCSSRefs handles @import and url() references, dropping remote and
// data URLs.
func extractCSSRefs(content []byte) []string {
	text := string(content)
	var refs []string
	for _, re := range []*regexp.Regexp{cssImport, cssURL} {
		for _, r := range findAll(re, text) {
			if strings.HasPrefix(r, "http://") || strings.HasPrefix(r, "https://") || strings.HasPrefix(r, "data:") {
				continue
			}
			refs = append(refs, r)
		}
	}
	return refs
}

// extractJSONRefs walks a JSON document collecting string values under
// path-like keys (main, file, path, src, entry).
func extractJSONRefs(content []byte) []string {
	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil
	}
	var refs []string
	var walk func(v any)
	walk = func(v any) {
		switch val := v.(type) {
		case map[string]any:
			for key, child := range val {
				switch strings.ToLower(key) {
				case "main", "file", "path", "src", "entry":
					if s, ok := child.(string); ok && !strings.HasPrefix(s, "http") {
						refs = append(refs, s)
					}
				}
				walk(child)
			}
		case []any:
			for _, item := range val {
				walk(item)
			}
		}
	}
	walk(doc)
	return refs
}
