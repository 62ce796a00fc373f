package scanner

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// signatureRe picks up author and TODO trails left in file comments.
var signatureRe = regexp.MustCompile(`(?i)(?:by|author|created\s+by|todo):\s*([A-Za-z\s]{3,20})`)

// ReportSummary is the headline block of a report.
type ReportSummary struct {
	TotalFiles         int            `json:"totalFiles"`
	TotalConnections   int            `json:"totalConnections"`
	Languages          map[string]int `json:"languages"`
	DetectedFrameworks []string       `json:"detectedFrameworks"`
	ProjectType        string         `json:"projectType"`
}

// EntryPoint is a node nothing imports.
type EntryPoint struct {
	File     string `json:"file"`
	Category string `json:"category"`
}

// HubFile is a node many others import.
type HubFile struct {
	File       string `json:"file"`
	ImportedBy int    `json:"importedBy"`
	Category   string `json:"category"`
}

// HealthWarning is one architectural finding surfaced to the UI.
type HealthWarning struct {
	Type          string   `json:"type"`
	File          string   `json:"file,omitempty"`
	Files         []string `json:"files,omitempty"`
	MissingAssets []string `json:"missingAssets,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	Severity      string   `json:"severity"`
}

// CyclePayload is one reported dependency cycle.
type CyclePayload struct {
	Type        string   `json:"type"`
	Nodes       []string `json:"nodes"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
}

// BrokenReference attributes unresolvable asset references to their declarer.
type BrokenReference struct {
	File          string   `json:"file"`
	MissingAssets []string `json:"missingAssets"`
}

// GraphStats summarizes the graph's shape.
type GraphStats struct {
	TotalNodes    int `json:"totalNodes"`
	TotalEdges    int `json:"totalEdges"`
	MaxDepth      int `json:"maxDepth"`
	CycleCount    int `json:"cycleCount"`
	IsolatedNodes int `json:"isolatedNodes"`
}

// Statistics carries the derived scalar metrics.
type Statistics struct {
	AvgDependenciesPerFile  float64 `json:"avgDependenciesPerFile"`
	MaxDependencyChainDepth int     `json:"maxDependencyChainDepth"`
	CircularDependencies    int     `json:"circularDependencies"`
	UnusedFiles             int     `json:"unusedFiles"`
	FilesWithMissingAssets  int     `json:"filesWithMissingAssets"`
	ConnectivityHealthScore int     `json:"connectivityHealthScore"`
}

// FileDetail is the per-node metadata block.
type FileDetail struct {
	Category           string   `json:"category"`
	Imports            []string `json:"imports"`
	ImportedBy         []string `json:"importedBy"`
	IsEntryPoint       bool     `json:"isEntryPoint"`
	DependencyCount    int      `json:"dependencyCount"`
	IsUnused           bool     `json:"isUnused"`
	InboundCount       int      `json:"inboundCount"`
	OutboundCount      int      `json:"outboundCount"`
	DepthFromRoot      int      `json:"depthFromRoot"`
	ChainDepth         int      `json:"chainDepth"`
	CycleParticipation int      `json:"cycleParticipation"`
	Size               string   `json:"size"`
	Mtime              int64    `json:"mtime"`
	Ctime              int64    `json:"ctime"`
	LastModified       string   `json:"lastModified,omitempty"`
	Lines              int      `json:"lines,omitempty"`
	Signature          string   `json:"signature,omitempty"`
}

// Report is the complete analysis output consumed by the renderer, the watch
// daemon, the MCP server, and external tooling.
type Report struct {
	ProjectName          string                 `json:"projectName"`
	GeneratedAt          string                 `json:"generatedAt"`
	Summary              ReportSummary          `json:"summary"`
	EntryPoints          []EntryPoint           `json:"entryPoints"`
	HubFiles             []HubFile              `json:"hubFiles"`
	HealthWarnings       []HealthWarning        `json:"healthWarnings"`
	Cycles               []CyclePayload         `json:"cycles"`
	BrokenReferences     []BrokenReference      `json:"brokenReferences"`
	GraphStats           GraphStats             `json:"graphStats"`
	Statistics           Statistics             `json:"statistics"`
	Files                map[string]FileDetail  `json:"files"`
	DependencyGraph      map[string][]string    `json:"dependencyGraph"`
	ExternalDeps         map[string][]string    `json:"externalDeps"`
	FoundExtensions      []string               `json:"foundExtensions"`
	UnfamiliarExtensions []string               `json:"unfamiliarExtensions"`
}

// CompileReport assembles the final report from the graph, the asset scan,
// and the analytics results. File metadata reads are best-effort; a vanished
// file keeps its synthetic defaults.
func CompileReport(root string, g *Graph, scan *AssetScan, a *Analytics, deps map[string][]string) *Report {
	inbound := g.InboundCounts()
	cycles := a.DetectCycles(g)
	depths := ChainDepths(g)
	participation := CycleParticipation(g, cycles)
	entryKeys := EntryPoints(g)
	var orphans []string
	if a.CheckOrphans {
		orphans = Orphans(g, scan.Referenced)
	}
	hubs := HubFiles(g, 10)

	entrySet := make(map[string]bool, len(entryKeys))
	var entryPoints []EntryPoint
	for _, key := range entryKeys {
		entrySet[key] = true
		entryPoints = append(entryPoints, EntryPoint{File: key, Category: g.Nodes[key].Category})
	}

	orphanSet := make(map[string]bool, len(orphans))
	for _, key := range orphans {
		orphanSet[key] = true
	}

	var hubFiles []HubFile
	for _, h := range hubs {
		hubFiles = append(hubFiles, HubFile{File: h.Key, ImportedBy: h.Count, Category: h.Category})
	}

	var cyclePayloads []CyclePayload
	var warnings []HealthWarning
	for _, c := range cycles {
		cyclePayloads = append(cyclePayloads, CyclePayload{
			Type:        "circular_dependency",
			Nodes:       c.Nodes,
			Description: strings.Join(c.Nodes, " -> "),
			Severity:    "high",
		})
		warnings = append(warnings, HealthWarning{
			Type: "circular_dependency", Files: c.Nodes, Severity: "high",
		})
	}

	var broken []BrokenReference
	for _, key := range g.Order {
		missing, ok := scan.Missing[key]
		if !ok {
			continue
		}
		broken = append(broken, BrokenReference{File: key, MissingAssets: missing})
		warnings = append(warnings, HealthWarning{
			Type:          "missing_asset",
			File:          key,
			MissingAssets: missing,
			Reason:        fmt.Sprintf("%d referenced asset(s) not found", len(missing)),
			Severity:      "high",
		})
	}
	for _, key := range orphans {
		warnings = append(warnings, HealthWarning{
			Type:     "unused_file",
			File:     key,
			Reason:   "File exists but is never referenced",
			Severity: "low",
		})
	}

	// Reverse adjacency for the importedBy lists.
	importedBy := make(map[string][]string)
	for _, source := range g.Order {
		for _, target := range g.Adj[source] {
			importedBy[target] = append(importedBy[target], source)
		}
	}

	languages := make(map[string]int)
	files := make(map[string]FileDetail, len(g.Nodes))
	for _, key := range g.Order {
		node := g.Nodes[key]
		languages[node.Category]++

		detail := FileDetail{
			Category:           node.Category,
			Imports:            g.Adj[key],
			ImportedBy:         importedBy[key],
			IsEntryPoint:       entrySet[key],
			DependencyCount:    len(g.Adj[key]),
			IsUnused:           orphanSet[key],
			InboundCount:       inbound[key],
			OutboundCount:      len(g.Adj[key]),
			DepthFromRoot:      strings.Count(key, "/"),
			ChainDepth:         depths[key],
			CycleParticipation: participation[key],
			Size:               "0KB",
		}

		if !node.IsExternal() {
			detail.Size = fmt.Sprintf("%.1fKB", float64(node.Size)/1024)
			detail.Mtime = node.ModTime.Unix()
			detail.Ctime = node.Created.Unix()
			detail.LastModified = node.ModTime.UTC().Format(time.RFC3339)
			if !binaryCategories[node.Category] {
				if content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key))); err == nil {
					detail.Lines = countLines(content)
					if m := signatureRe.FindSubmatch(content); m != nil {
						detail.Signature = strings.TrimSpace(string(m[1]))
					}
				}
			}
		}
		files[key] = detail
	}

	totalFiles := len(g.Nodes)
	totalEdges := g.EdgeCount()
	avg := 0.0
	if totalFiles > 0 {
		avg = math.Round(float64(totalEdges)/float64(totalFiles)*100) / 100
	}
	maxDepth := MaxChainDepth(depths)

	adjacency := make(map[string][]string, len(g.Adj))
	for key, targets := range g.Adj {
		adjacency[key] = targets
	}

	return &Report{
		ProjectName: filepath.Base(root),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Summary: ReportSummary{
			TotalFiles:         totalFiles,
			TotalConnections:   totalEdges,
			Languages:          languages,
			DetectedFrameworks: DetectFrameworks(g),
			ProjectType:        DetectProjectType(g),
		},
		EntryPoints:      entryPoints,
		HubFiles:         hubFiles,
		HealthWarnings:   warnings,
		Cycles:           cyclePayloads,
		BrokenReferences: broken,
		GraphStats: GraphStats{
			TotalNodes:    totalFiles,
			TotalEdges:    totalEdges,
			MaxDepth:      maxDepth,
			CycleCount:    len(cycles),
			IsolatedNodes: IsolatedNodes(g),
		},
		Statistics: Statistics{
			AvgDependenciesPerFile:  avg,
			MaxDependencyChainDepth: maxDepth,
			CircularDependencies:    len(cycles),
			UnusedFiles:             len(orphans),
			FilesWithMissingAssets:  len(scan.Missing),
			ConnectivityHealthScore: ConnectivityScore(len(scan.Missing), len(orphans)),
		},
		Files:           files,
		DependencyGraph: adjacency,
		ExternalDeps:    deps,
	}
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	lines := strings.Count(string(content), "\n")
	if content[len(content)-1] != '\n' {
		lines++
	}
	return lines
}

// DetectFrameworks infers frameworks and ecosystems from categories and
// well-known filenames.
func DetectFrameworks(g *Graph) []string {
	frameworks := make(map[string]bool)
	for _, key := range g.Order {
		node := g.Nodes[key]
		lower := strings.ToLower(key)
		base := filepath.Base(key)

		switch node.Category {
		case "React", "TypeScript React":
			frameworks["React"] = true
		}
		if strings.Contains(lower, "vue") {
			frameworks["Vue"] = true
		}
		if strings.Contains(lower, "angular") {
			frameworks["Angular"] = true
		}
		if strings.Contains(lower, "django") || base == "manage.py" {
			frameworks["Django"] = true
		}
		if strings.Contains(lower, "flask") || base == "app.py" {
			frameworks["Flask"] = true
		}
		if strings.Contains(lower, "express") || base == "server.js" {
			frameworks["Express"] = true
		}
		if key == "package.json" {
			frameworks["npm/Node.js"] = true
		}
		if key == "requirements.txt" || key == "setup.py" {
			frameworks["Python"] = true
		}
	}

	names := make([]string, 0, len(frameworks))
	for name := range frameworks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DetectProjectType classifies the project from its category mix.
func DetectProjectType(g *Graph) string {
	categories := make(map[string]bool)
	hasTests := false
	for _, key := range g.Order {
		categories[g.Nodes[key].Category] = true
		if strings.Contains(strings.ToLower(key), "test") {
			hasTests = true
		}
	}

	hasHTML := categories["HTML"]
	hasJS := categories["JavaScript"] || categories["TypeScript"] || categories["React"]
	hasPython := categories["Python"]
	hasCSS := categories["CSS"] || categories["SCSS"]

	switch {
	case hasHTML && hasJS && hasCSS:
		return "Full-stack Web Application"
	case hasJS && !hasHTML:
		return "Node.js Application/Library"
	case hasPython && !hasHTML:
		if hasTests {
			return "Python Library/Package"
		}
		return "Python Application"
	case hasHTML && hasCSS && !hasJS:
		return "Static Website"
	default:
		return "Mixed/Unknown"
	}
}
