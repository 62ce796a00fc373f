package scanner

import (
	"os"
	"path"
	"regexp"
	"strings"
)

// assetPattern pairs a reference-extraction regex with the file extensions it
// applies to.
type assetPattern struct {
	re   *regexp.Regexp
	exts []string
}

var assetPatterns = []assetPattern{
	{regexp.MustCompile(`<img[^>]+src=["'](.*?)["']`), []string{".html", ".jsx", ".tsx", ".js", ".ts"}},
	{regexp.MustCompile(`url\(["']?(.*?)["']?\)`), []string{".css", ".scss", ".sass"}},
	{regexp.MustCompile(`open\(["']([^"']+\.(?:png|jpg|jpeg|gif|svg|ico|pdf|csv|json|txt))["']`), []string{".py"}},
	{regexp.MustCompile(`from\s+["']([^"']+\.(?:png|jpg|jpeg|gif|svg|ico))["']`), []string{".js", ".jsx", ".ts", ".tsx"}},
	{regexp.MustCompile(`require\(["']([^"']+\.(?:png|jpg|jpeg|gif|svg|ico))["']`), []string{".js", ".jsx", ".ts", ".tsx"}},
	{regexp.MustCompile(`url\(["']?([^"']+\.(?:woff|woff2|ttf|eot))["']?\)`), []string{".css", ".scss"}},
}

// binaryCategories are declarers asset scanning skips; they reference
// nothing themselves.
var binaryCategories = map[string]bool{
	"Image": true, "Video": true, "Audio": true, "Font": true, "Archive": true,
}

// AssetScan is the outcome of the asset connectivity pass.
type AssetScan struct {
	// Missing maps a declaring file to the raw asset references whose target
	// could not be matched to a known node.
	Missing map[string][]string
	// References maps a declaring file to the raw references it makes that
	// resolved to something.
	References map[string][]string
	// Referenced is the set of resolved target paths, used to keep
	// asset-only files out of the orphan set.
	Referenced map[string]bool
}

// ScanAssets runs the secondary reference pass over the discovered files,
// extracting asset references per category and resolving each against the
// declaring directory, the root, and the conventional asset directories.
// A reference whose resolved target is not in the graph's node set counts as
// a missing asset for the declaring file.
func ScanAssets(files []DiscoveredFile, g *Graph, resolver *Resolver) *AssetScan {
	scan := &AssetScan{
		Missing:    make(map[string][]string),
		References: make(map[string][]string),
		Referenced: make(map[string]bool),
	}

	for _, f := range files {
		node, ok := g.Nodes[f.RelPath]
		if !ok || binaryCategories[node.Category] {
			continue
		}

		ext := strings.ToLower(path.Ext(f.RelPath))
		content, err := os.ReadFile(f.AbsPath)
		if err != nil {
			continue
		}
		text := string(content)

		for _, p := range assetPatterns {
			if !extApplies(ext, p.exts) {
				continue
			}
			for _, m := range p.re.FindAllStringSubmatch(text, -1) {
				ref := strings.TrimSpace(m[1])
				if ref == "" || strings.HasPrefix(ref, "http") ||
					strings.HasPrefix(ref, "//") || strings.HasPrefix(ref, "data:") {
					continue
				}

				resolved := resolver.ResolveAsset(f.RelPath, ref)
				if resolved != "" {
					scan.Referenced[resolved] = true
					scan.References[f.RelPath] = append(scan.References[f.RelPath], ref)
				}
				if resolved == "" || g.Nodes[resolved] == nil {
					scan.Missing[f.RelPath] = append(scan.Missing[f.RelPath], ref)
				}
			}
		}
	}

	return scan
}

func extApplies(ext string, exts []string) bool {
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
