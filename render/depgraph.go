package render

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"codegnosis/scanner"
)

var extPattern = regexp.MustCompile(`\.[^.]+$`)

// titleCase capitalizes the first letter of each word
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// getSystemName infers a system/component name from directory path
func getSystemName(dirPath string) string {
	parts := strings.Split(dirPath, "/")
	skip := map[string]bool{"src": true, "lib": true, "app": true, "internal": true, "pkg": true, ".": true, "": true}

	var meaningful []string
	for _, p := range parts {
		if !skip[strings.ToLower(p)] {
			meaningful = append(meaningful, p)
		}
	}

	if len(meaningful) > 0 {
		name := meaningful[0]
		name = strings.ReplaceAll(name, "_", " ")
		name = strings.ReplaceAll(name, "-", " ")
		return titleCase(name)
	}

	if len(parts) > 0 {
		return titleCase(parts[len(parts)-1])
	}
	return "Root"
}

var langDisplay = map[string]string{
	"go":         "Go",
	"javascript": "JavaScript",
	"python":     "Python",
	"rust":       "Rust",
}

// Depgraph renders the analysis report as a terminal dependency flow map:
// a header box with the declared external deps, per-system arrow chains over
// the internal edges, the hub list, and a health summary.
func Depgraph(report *scanner.Report) {
	if len(report.Files) == 0 {
		fmt.Println("  No source files found.")
		return
	}

	// Internal edges only; external nodes render in the header instead.
	internalDeps := make(map[string][]string)
	for file, targets := range report.DependencyGraph {
		if isExternalKey(file, report) {
			continue
		}
		var filtered []string
		for _, t := range targets {
			if !isExternalKey(t, report) {
				filtered = append(filtered, t)
			}
		}
		if len(filtered) > 0 {
			internalDeps[file] = filtered
		}
	}

	// Group files by top-level system directory.
	systems := make(map[string][]string)
	for file := range report.Files {
		if isExternalKey(file, report) {
			continue
		}
		system := "."
		if i := strings.Index(file, "/"); i > 0 {
			system = file[:i]
		}
		systems[system] = append(systems[system], file)
	}

	fmt.Println()
	printHeaderBox(report)
	fmt.Println()

	var systemNames []string
	for name := range systems {
		systemNames = append(systemNames, name)
	}
	sort.Strings(systemNames)

	for _, system := range systemNames {
		sysFiles := systems[system]
		sort.Strings(sysFiles)

		hasContent := false
		for _, f := range sysFiles {
			if len(internalDeps[f]) > 0 {
				hasContent = true
				break
			}
		}
		if !hasContent {
			continue
		}

		systemName := getSystemName(system)
		headerLen := 60 - len(systemName) - 1
		if headerLen < 1 {
			headerLen = 1
		}
		fmt.Printf("%s %s\n", systemName, strings.Repeat("═", headerLen))

		for _, f := range sysFiles {
			targets := internalDeps[f]
			if len(targets) == 0 {
				continue
			}
			printFlow(baseName(f), targets, internalDeps)
		}
		fmt.Println()
	}

	printHubs(report)
	printHealth(report)

	fmt.Printf("%d files · %d connections · score %d\n",
		report.Summary.TotalFiles,
		report.Summary.TotalConnections,
		report.Statistics.ConnectivityHealthScore)
	fmt.Println()
}

func isExternalKey(key string, report *scanner.Report) bool {
	return report.Files[key].Category == scanner.CategoryExternal
}

func baseName(file string) string {
	return extPattern.ReplaceAllString(path.Base(file), "")
}

// printFlow draws one file's outgoing edges, folding a single-target chain
// one level deeper.
func printFlow(name string, targets []string, internalDeps map[string][]string) {
	if len(targets) == 1 {
		t := targets[0]
		subTargets := internalDeps[t]
		if len(subTargets) > 0 {
			var subNames []string
			for i, s := range subTargets {
				if i >= 3 {
					break
				}
				subNames = append(subNames, baseName(s))
			}
			chain := fmt.Sprintf("%s ───▶ %s ───▶ %s", name, baseName(t), strings.Join(subNames, ", "))
			if len(subTargets) > 3 {
				chain += fmt.Sprintf(" +%d", len(subTargets)-3)
			}
			fmt.Printf("  %s\n", chain)
		} else {
			fmt.Printf("  %s ───▶ %s\n", name, baseName(t))
		}
		return
	}

	var targetStrs []string
	for _, t := range targets {
		targetStrs = append(targetStrs, baseName(t))
	}
	if len(targets) <= 4 {
		fmt.Printf("  %s ───▶ %s\n", name, strings.Join(targetStrs, ", "))
		return
	}
	fmt.Printf("  %s ──┬──▶ %s\n", name, targetStrs[0])
	for _, t := range targetStrs[1 : len(targetStrs)-1] {
		fmt.Printf("  %s   ├──▶ %s\n", strings.Repeat(" ", len(name)), t)
	}
	fmt.Printf("  %s   └──▶ %s\n", strings.Repeat(" ", len(name)), targetStrs[len(targetStrs)-1])
}

// printHeaderBox draws the title box with the declared dependency manifest
// contents per ecosystem.
func printHeaderBox(report *scanner.Report) {
	title := fmt.Sprintf("%s - Dependency Flow", report.ProjectName)
	maxWidth := len(title) + 6

	extByLang := make(map[string][]string)
	versionPattern := regexp.MustCompile(`^v\d+$`)
	for lang, deps := range report.ExternalDeps {
		seen := make(map[string]bool)
		var names []string
		for _, d := range deps {
			// "github.com/x/y v1.2.3" or "name@version" down to a short name.
			name := strings.Fields(d)[0]
			if at := strings.Index(name, "@"); at > 0 {
				name = name[:at]
			}
			parts := strings.Split(name, "/")
			name = parts[len(parts)-1]
			if versionPattern.MatchString(name) && len(parts) > 1 {
				name = parts[len(parts)-2]
			}
			if len(name) > 1 && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			extByLang[lang] = names
		}
	}

	var depLines []string
	for _, lang := range []string{"go", "javascript", "python", "rust"} {
		if names, ok := extByLang[lang]; ok {
			label := langDisplay[lang]
			if label == "" {
				label = titleCase(lang)
			}
			line := fmt.Sprintf("%s: %s", label, strings.Join(names, ", "))
			depLines = append(depLines, line)
			if len(line)+4 > maxWidth {
				maxWidth = len(line) + 4
			}
		}
	}
	if frameworks := report.Summary.DetectedFrameworks; len(frameworks) > 0 {
		line := fmt.Sprintf("Frameworks: %s", strings.Join(frameworks, ", "))
		depLines = append(depLines, line)
		if len(line)+4 > maxWidth {
			maxWidth = len(line) + 4
		}
	}

	if maxWidth > 80 {
		maxWidth = 80
	}
	innerWidth := maxWidth - 2

	fmt.Printf("╭%s╮\n", strings.Repeat("─", innerWidth))
	fmt.Printf("│%s│\n", CenterString(title, innerWidth))

	if len(depLines) > 0 {
		fmt.Printf("├%s┤\n", strings.Repeat("─", innerWidth))
		contentWidth := innerWidth - 2
		for _, line := range depLines {
			for len(line) > contentWidth {
				breakAt := strings.LastIndex(line[:contentWidth], ", ")
				if breakAt == -1 {
					breakAt = contentWidth - 1
				} else {
					breakAt++
				}
				fmt.Printf("│ %-*s │\n", contentWidth, line[:breakAt])
				line = "    " + strings.TrimLeft(line[breakAt:], " ")
			}
			fmt.Printf("│ %-*s │\n", contentWidth, line)
		}
	}
	fmt.Printf("╰%s╯\n", strings.Repeat("─", innerWidth))
}

func printHubs(report *scanner.Report) {
	if len(report.HubFiles) == 0 {
		return
	}
	hubs := report.HubFiles
	if len(hubs) > 6 {
		hubs = hubs[:6]
	}
	fmt.Println(strings.Repeat("─", 61))
	var hubStrs []string
	for _, h := range hubs {
		hubStrs = append(hubStrs, fmt.Sprintf("%s (%d←)", baseName(h.File), h.ImportedBy))
	}
	fmt.Printf("HUBS: %s\n", strings.Join(hubStrs, ", "))
}

// printHealth summarizes cycles, broken asset references, and orphans.
func printHealth(report *scanner.Report) {
	stats := report.Statistics
	if stats.CircularDependencies == 0 && stats.FilesWithMissingAssets == 0 && stats.UnusedFiles == 0 {
		return
	}
	fmt.Println(strings.Repeat("─", 61))
	color := ScoreColor(stats.ConnectivityHealthScore)
	fmt.Printf("HEALTH: %s%d/100%s\n", color, stats.ConnectivityHealthScore, Reset)

	for _, c := range report.Cycles {
		fmt.Printf("  %scycle%s %s\n", BoldRed, Reset, c.Description)
	}
	for _, b := range report.BrokenReferences {
		fmt.Printf("  %smissing%s %s: %s\n", Red, Reset, b.File, strings.Join(b.MissingAssets, ", "))
	}
	if stats.UnusedFiles > 0 {
		fmt.Printf("  %s%d unreferenced file(s)%s\n", Dim, stats.UnusedFiles, Reset)
	}
}
