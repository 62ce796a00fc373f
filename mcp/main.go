// MCP server for codegnosis. Exposes dependency analysis to LLM clients.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"codegnosis/render"
	"codegnosis/scanner"
	"codegnosis/watch"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Active watch daemons per project root.
var (
	watchers   = make(map[string]*watch.Daemon)
	watchersMu sync.RWMutex
)

type PathInput struct {
	Path string `json:"path" jsonschema:"Path to the project directory to analyze"`
}

type FindInput struct {
	Path    string `json:"path" jsonschema:"Path to the project directory to search"`
	Pattern string `json:"pattern" jsonschema:"Filename pattern to search for (case-insensitive substring match)"`
}

type FileInput struct {
	Path string `json:"path" jsonschema:"Path to the project directory"`
	File string `json:"file" jsonschema:"Relative path to the file to inspect (e.g. src/utils.ts)"`
}

type ListProjectsInput struct {
	Path    string `json:"path" jsonschema:"Parent directory containing projects (e.g. /Users/name/Code or ~/Code)"`
	Pattern string `json:"pattern,omitempty" jsonschema:"Optional filter to match project names (case-insensitive substring)"`
}

type WatchInput struct {
	Path string `json:"path" jsonschema:"Path to the project directory to watch"`
}

type ActivityInput struct {
	Path    string `json:"path" jsonschema:"Path to the project directory"`
	Minutes int    `json:"minutes,omitempty" jsonschema:"Look back this many minutes (default: 30)"`
}

type EmptyInput struct{}

func main() {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "codegnosis",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_report",
		Description: "Run a full dependency analysis and return the complete report as JSON: files, imports, hubs, entry points, cycles, broken asset references, and health score. Use this when you need the raw data for further reasoning.",
	}, handleGetReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_structure",
		Description: "Get the project structure grouped by directory with language breakdown and the largest source files. Use this to understand how a codebase is organized.",
	}, handleGetStructure)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_dependencies",
		Description: "Get the dependency flow of a project. Shows external dependencies, internal import chains between files, and hub files (most-imported). Use this to understand how code connects and which files are most critical.",
	}, handleGetDependencies)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_health",
		Description: "Get the architectural health of a project: connectivity score, circular dependencies, unreferenced files, and missing asset references. Use this to find structural problems worth fixing.",
	}, handleGetHealth)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_hubs",
		Description: "Get the hub files of a project (files many others import). These are the critical files where changes have the most impact. Use this before making changes to understand what's important.",
	}, handleGetHubs)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_file_context",
		Description: "Get complete dependency context for a specific file: what it imports, what imports it, chain depth, cycle participation, and whether it's an entry point or unreferenced. Use this before editing a file to understand its role.",
	}, handleGetFileContext)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_file",
		Description: "Find files in a project matching a name pattern. Returns file paths with their categories and inbound import counts.",
	}, handleFindFile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_projects",
		Description: "List project directories under a parent path. Use this to discover projects when you only know the general location (e.g., ~/Code) but not the exact folder name. Optionally filter by pattern.",
	}, handleListProjects)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Check codegnosis MCP server status. Returns version and confirms local filesystem access is available.",
	}, handleStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "start_watch",
		Description: "Start live file watching for a project. Re-analyzes on change and tracks edits with timestamps and line deltas. The watcher runs in background - use get_activity to see what's happening.",
	}, handleStartWatch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stop_watch",
		Description: "Stop the live file watcher for a project.",
	}, handleStopWatch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_activity",
		Description: "Get recent coding activity for a watched project. Shows what files were edited, when, and how much changed. Returns hot files, recent changes, and session summary.",
	}, handleGetActivity)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Printf("Server error: %v", err)
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

// expandPath resolves ~ and returns an absolute path.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(os.Getenv("HOME"), path[2:])
	}
	return filepath.Abs(path)
}

// analyze resolves the path and runs the full pipeline. A live watcher's
// latest report is reused when one exists for the root.
func analyze(path string) (*scanner.Report, string, error) {
	abs, err := expandPath(path)
	if err != nil {
		return nil, "", fmt.Errorf("invalid path: %w", err)
	}
	watchersMu.RLock()
	daemon := watchers[abs]
	watchersMu.RUnlock()
	if daemon != nil {
		if r := daemon.Tracker().CurrentReport(); r != nil {
			return r, abs, nil
		}
	}
	report, err := scanner.NewAnalyzer(abs, scanner.Options{}).Analyze()
	if err != nil {
		return nil, "", err
	}
	return report, abs, nil
}

func handleGetReport(ctx context.Context, req *mcp.CallToolRequest, input PathInput) (*mcp.CallToolResult, any, error) {
	report, _, err := analyze(input.Path)
	if err != nil {
		return errorResult("Analysis error: " + err.Error()), nil, nil
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errorResult("Encoding error: " + err.Error()), nil, nil
	}
	return textResult(string(data)), nil, nil
}

func handleGetStructure(ctx context.Context, req *mcp.CallToolRequest, input PathInput) (*mcp.CallToolResult, any, error) {
	report, abs, err := analyze(input.Path)
	if err != nil {
		return errorResult("Analysis error: " + err.Error()), nil, nil
	}

	type dirStats struct {
		files int
		langs map[string]int
	}
	dirs := make(map[string]*dirStats)
	type sized struct {
		path  string
		lines int
	}
	var largest []sized

	for key, fd := range report.Files {
		if fd.Category == scanner.CategoryExternal {
			continue
		}
		dir := filepath.Dir(key)
		if dir == "." {
			dir = "(root)"
		} else {
			dir = strings.SplitN(dir, "/", 2)[0] + "/"
		}
		st := dirs[dir]
		if st == nil {
			st = &dirStats{langs: make(map[string]int)}
			dirs[dir] = st
		}
		st.files++
		st.langs[fd.Category]++
		largest = append(largest, sized{path: key, lines: fd.Lines})
	}

	var names []string
	for d := range dirs {
		names = append(names, d)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== %s ===\n", filepath.Base(abs)))
	sb.WriteString(fmt.Sprintf("Type: %s\n", report.Summary.ProjectType))
	if len(report.Summary.DetectedFrameworks) > 0 {
		sb.WriteString(fmt.Sprintf("Frameworks: %s\n", strings.Join(report.Summary.DetectedFrameworks, ", ")))
	}
	sb.WriteString("\n")
	for _, d := range names {
		st := dirs[d]
		sb.WriteString(fmt.Sprintf("  %-30s %3d files  %s\n", d, st.files, topLanguage(st.langs)))
	}

	sort.Slice(largest, func(i, j int) bool { return largest[i].lines > largest[j].lines })
	sb.WriteString("\nLARGEST FILES:\n")
	for i, s := range largest {
		if i >= 5 {
			break
		}
		sb.WriteString(fmt.Sprintf("  %-40s %d lines\n", s.path, s.lines))
	}

	if len(report.HubFiles) > 0 {
		sb.WriteString("\nHUB FILES (high-impact):\n")
		for i, h := range report.HubFiles {
			if i >= 5 {
				sb.WriteString(fmt.Sprintf("  ... and %d more hubs\n", len(report.HubFiles)-5))
				break
			}
			sb.WriteString(fmt.Sprintf("  %s (%d importers)\n", h.File, h.ImportedBy))
		}
	}

	return textResult(sb.String()), nil, nil
}

func topLanguage(langs map[string]int) string {
	best, bestCount := "", 0
	for lang, count := range langs {
		if count > bestCount {
			best, bestCount = lang, count
		}
	}
	return best
}

func handleGetDependencies(ctx context.Context, req *mcp.CallToolRequest, input PathInput) (*mcp.CallToolResult, any, error) {
	report, _, err := analyze(input.Path)
	if err != nil {
		return errorResult("Analysis error: " + err.Error()), nil, nil
	}
	output := captureOutput(func() {
		render.Depgraph(report)
	})
	return textResult(output), nil, nil
}

func handleGetHealth(ctx context.Context, req *mcp.CallToolRequest, input PathInput) (*mcp.CallToolResult, any, error) {
	report, abs, err := analyze(input.Path)
	if err != nil {
		return errorResult("Analysis error: " + err.Error()), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== Health: %s ===\n\n", filepath.Base(abs)))
	sb.WriteString(fmt.Sprintf("Connectivity score: %d/100\n", report.Statistics.ConnectivityHealthScore))
	sb.WriteString(fmt.Sprintf("Files: %d, connections: %d, max chain depth: %d\n\n",
		report.Summary.TotalFiles, report.Summary.TotalConnections, report.Statistics.MaxDependencyChainDepth))

	if len(report.Cycles) > 0 {
		sb.WriteString(fmt.Sprintf("CIRCULAR DEPENDENCIES (%d):\n", len(report.Cycles)))
		for _, c := range report.Cycles {
			sb.WriteString("  " + c.Description + "\n")
		}
		sb.WriteString("\n")
	}
	if len(report.BrokenReferences) > 0 {
		sb.WriteString(fmt.Sprintf("MISSING ASSETS (%d files):\n", len(report.BrokenReferences)))
		for _, b := range report.BrokenReferences {
			sb.WriteString(fmt.Sprintf("  %s -> %s\n", b.File, strings.Join(b.MissingAssets, ", ")))
		}
		sb.WriteString("\n")
	}
	var unused []string
	for key, fd := range report.Files {
		if fd.IsUnused {
			unused = append(unused, key)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		sb.WriteString(fmt.Sprintf("UNREFERENCED FILES (%d):\n", len(unused)))
		for _, u := range unused {
			sb.WriteString("  " + u + "\n")
		}
		sb.WriteString("\n")
	}
	if len(report.Cycles) == 0 && len(report.BrokenReferences) == 0 && len(unused) == 0 {
		sb.WriteString("No structural problems found.\n")
	}

	return textResult(sb.String()), nil, nil
}

func handleGetHubs(ctx context.Context, req *mcp.CallToolRequest, input PathInput) (*mcp.CallToolResult, any, error) {
	report, _, err := analyze(input.Path)
	if err != nil {
		return errorResult("Analysis error: " + err.Error()), nil, nil
	}
	if len(report.HubFiles) == 0 {
		return textResult("No hub files found (no file is imported by multiple others)."), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== Hub Files (%d total) ===\n", len(report.HubFiles)))
	sb.WriteString("These are the most-imported files. Changes here have wide impact.\n\n")
	for _, hub := range report.HubFiles {
		sb.WriteString(fmt.Sprintf("  %s (%d importers)\n", hub.File, hub.ImportedBy))
		importers := report.Files[hub.File].ImportedBy
		for i, imp := range importers {
			if i >= 3 {
				sb.WriteString(fmt.Sprintf("      ... and %d more\n", len(importers)-3))
				break
			}
			sb.WriteString(fmt.Sprintf("      <- %s\n", imp))
		}
	}
	return textResult(sb.String()), nil, nil
}

func handleGetFileContext(ctx context.Context, req *mcp.CallToolRequest, input FileInput) (*mcp.CallToolResult, any, error) {
	report, _, err := analyze(input.Path)
	if err != nil {
		return errorResult("Analysis error: " + err.Error()), nil, nil
	}
	fd, ok := report.Files[input.File]
	if !ok {
		return errorResult(fmt.Sprintf("File '%s' not found in the analysis. Use find_file to locate it.", input.File)), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== File Context: %s ===\n\n", input.File))
	sb.WriteString(fmt.Sprintf("Category: %s, %s, %d lines\n", fd.Category, fd.Size, fd.Lines))
	sb.WriteString(fmt.Sprintf("Chain depth: %d\n", fd.ChainDepth))
	if fd.IsEntryPoint {
		sb.WriteString("Entry point: nothing imports this file.\n")
	}
	if fd.IsUnused {
		sb.WriteString("Unreferenced: no imports in or out.\n")
	}
	if fd.CycleParticipation > 0 {
		sb.WriteString(fmt.Sprintf("⚠️  Participates in %d circular dependencies.\n", fd.CycleParticipation))
	}
	if fd.InboundCount >= 3 {
		sb.WriteString(fmt.Sprintf("⚠️  HUB FILE - %d files depend on this.\n", fd.InboundCount))
	}
	sb.WriteString("\n")

	if len(fd.Imports) > 0 {
		sb.WriteString(fmt.Sprintf("IMPORTS (%d files):\n", len(fd.Imports)))
		for _, imp := range fd.Imports {
			sb.WriteString(fmt.Sprintf("  -> %s\n", imp))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("IMPORTS: none (leaf file)\n\n")
	}

	if len(fd.ImportedBy) > 0 {
		sb.WriteString(fmt.Sprintf("IMPORTED BY (%d files):\n", len(fd.ImportedBy)))
		for _, imp := range fd.ImportedBy {
			sb.WriteString(fmt.Sprintf("  <- %s\n", imp))
		}
	} else {
		sb.WriteString("IMPORTED BY: none (entry point or unused)\n")
	}

	return textResult(sb.String()), nil, nil
}

func handleFindFile(ctx context.Context, req *mcp.CallToolRequest, input FindInput) (*mcp.CallToolResult, any, error) {
	report, _, err := analyze(input.Path)
	if err != nil {
		return errorResult("Analysis error: " + err.Error()), nil, nil
	}

	pattern := strings.ToLower(input.Pattern)
	var matches []string
	for key, fd := range report.Files {
		if fd.Category == scanner.CategoryExternal {
			continue
		}
		if strings.Contains(strings.ToLower(key), pattern) {
			matches = append(matches, fmt.Sprintf("%-50s %s (%d importers)", key, fd.Category, fd.InboundCount))
		}
	}
	if len(matches) == 0 {
		return textResult("No files found matching '" + input.Pattern + "'"), nil, nil
	}
	sort.Strings(matches)
	return textResult(fmt.Sprintf("Found %d files:\n%s", len(matches), strings.Join(matches, "\n"))), nil, nil
}

func handleListProjects(ctx context.Context, req *mcp.CallToolRequest, input ListProjectsInput) (*mcp.CallToolResult, any, error) {
	absPath, err := expandPath(input.Path)
	if err != nil {
		return errorResult("Invalid path: " + err.Error()), nil, nil
	}

	entries, err := os.ReadDir(absPath)
	if err != nil {
		return errorResult("Cannot read directory: " + err.Error()), nil, nil
	}

	pattern := strings.ToLower(input.Pattern)
	var projects []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if pattern != "" && !strings.Contains(strings.ToLower(name), pattern) {
			continue
		}
		projects = append(projects, fmt.Sprintf("%-30s %s", name+"/", projectStats(filepath.Join(absPath, name))))
	}

	if len(projects) == 0 {
		if pattern != "" {
			return textResult(fmt.Sprintf("No projects matching '%s' in %s", input.Pattern, absPath)), nil, nil
		}
		return textResult("No project directories found in " + absPath), nil, nil
	}

	header := fmt.Sprintf("Projects in %s", absPath)
	if pattern != "" {
		header = fmt.Sprintf("Projects matching '%s' in %s", input.Pattern, absPath)
	}
	return textResult(fmt.Sprintf("%s:\n\n%s", header, strings.Join(projects, "\n"))), nil, nil
}

// projectStats returns a brief summary of a project directory using the same
// discovery rules as the analyzer.
func projectStats(path string) string {
	cfg := scanner.LoadConfig(path, nil)
	discovery := scanner.NewDiscovery(path, cfg, nil, nil, nil)
	files, err := discovery.Walk()
	if err != nil {
		return "(error scanning)"
	}

	cat := scanner.NewCategorizer(cfg.LanguageExtensions, nil)
	langCounts := make(map[string]int)
	for _, f := range files {
		langCounts[cat.Categorize(f.RelPath)]++
	}
	primary := topLanguage(langCounts)

	isGit := ""
	if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
		isGit = " [git]"
	}
	if primary != "" {
		return fmt.Sprintf("(%d files, %s%s)", len(files), primary, isGit)
	}
	return fmt.Sprintf("(%d files%s)", len(files), isGit)
}

func handleStatus(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, any, error) {
	cwd, _ := os.Getwd()
	home := os.Getenv("HOME")

	watchersMu.RLock()
	var watchedPaths []string
	for path := range watchers {
		watchedPaths = append(watchedPaths, path)
	}
	watchersMu.RUnlock()

	watchStatus := "none"
	if len(watchedPaths) > 0 {
		sort.Strings(watchedPaths)
		watchStatus = fmt.Sprintf("%d active: %s", len(watchedPaths), strings.Join(watchedPaths, ", "))
	}

	return textResult(fmt.Sprintf(`codegnosis MCP server v1.0.0
Status: connected
Local filesystem access: enabled
Working directory: %s
Home directory: %s
Active watchers: %s

Available tools:
  list_projects    - Discover projects in a directory
  get_report       - Full analysis report as JSON
  get_structure    - Project layout and largest files
  get_dependencies - Import flow between files
  get_health       - Score, cycles, missing assets, unused files
  get_hubs         - Most-imported files
  get_file_context - Full dependency context for one file
  find_file        - Search by filename

Live watch tools:
  start_watch      - Start watching a project for changes
  stop_watch       - Stop watching a project
  get_activity     - See recent coding activity (hot files, edits, timeline)`, cwd, home, watchStatus)), nil, nil
}

// ANSI escape code pattern.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// captureOutput captures stdout from a function and strips ANSI codes.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return stripANSI(buf.String())
}

func handleStartWatch(ctx context.Context, req *mcp.CallToolRequest, input WatchInput) (*mcp.CallToolResult, any, error) {
	absPath, err := expandPath(input.Path)
	if err != nil {
		return errorResult("Invalid path: " + err.Error()), nil, nil
	}

	watchersMu.Lock()
	defer watchersMu.Unlock()

	if _, exists := watchers[absPath]; exists {
		return textResult(fmt.Sprintf("Already watching: %s\nUse get_activity to see recent changes.", absPath)), nil, nil
	}

	daemon, err := watch.NewDaemon(absPath, scanner.Options{})
	if err != nil {
		return errorResult("Failed to create watcher: " + err.Error()), nil, nil
	}
	if err := daemon.Start(); err != nil {
		return errorResult("Failed to start watcher: " + err.Error()), nil, nil
	}
	watchers[absPath] = daemon

	fileCount := 0
	if r := daemon.Tracker().CurrentReport(); r != nil {
		fileCount = r.Summary.TotalFiles
	}

	return textResult(fmt.Sprintf(`Live watcher started for: %s
Tracking %d files

The watcher re-analyzes on every change. I can now see:
- When you save files
- How many lines changed (+/-)
- Which files are "hot" (frequently edited)
- How the dependency graph and health score evolve

Use get_activity to see what you've been working on.`, absPath, fileCount)), nil, nil
}

func handleStopWatch(ctx context.Context, req *mcp.CallToolRequest, input WatchInput) (*mcp.CallToolResult, any, error) {
	absPath, err := expandPath(input.Path)
	if err != nil {
		return errorResult("Invalid path: " + err.Error()), nil, nil
	}

	watchersMu.Lock()
	defer watchersMu.Unlock()

	daemon, exists := watchers[absPath]
	if !exists {
		return textResult("No active watcher for: " + absPath), nil, nil
	}

	total := daemon.Tracker().EventCount()
	daemon.Close()
	delete(watchers, absPath)

	return textResult(fmt.Sprintf("Watcher stopped for: %s\nTotal events captured: %d", absPath, total)), nil, nil
}

func handleGetActivity(ctx context.Context, req *mcp.CallToolRequest, input ActivityInput) (*mcp.CallToolResult, any, error) {
	absPath, err := expandPath(input.Path)
	if err != nil {
		return errorResult("Invalid path: " + err.Error()), nil, nil
	}

	watchersMu.RLock()
	daemon, exists := watchers[absPath]
	watchersMu.RUnlock()

	if !exists {
		return errorResult(fmt.Sprintf("No active watcher for: %s\nUse start_watch first.", absPath)), nil, nil
	}

	minutes := input.Minutes
	if minutes <= 0 {
		minutes = 30
	}

	all := daemon.Tracker().Recent(daemon.Tracker().EventCount())
	cutoff := time.Now().Add(-time.Duration(minutes) * time.Minute)

	var recent []watch.Event
	for _, e := range all {
		if e.Time.After(cutoff) {
			recent = append(recent, e)
		}
	}

	if len(recent) == 0 {
		fileCount := 0
		if r := daemon.Tracker().CurrentReport(); r != nil {
			fileCount = r.Summary.TotalFiles
		}
		return textResult(fmt.Sprintf(`No activity in the last %d minutes.

Watcher is running for: %s
Files tracked: %d
Total events since start: %d

The user may be:
- Reading code
- Thinking/planning
- Working in a different project
- Taking a break`, minutes, absPath, fileCount, len(all))), nil, nil
	}

	type fileStats struct {
		edits    int
		netDelta int
		lastEdit time.Time
	}
	byFile := make(map[string]*fileStats)
	for _, e := range recent {
		if e.Op != "write" && e.Op != "create" {
			continue
		}
		stats := byFile[e.Path]
		if stats == nil {
			stats = &fileStats{}
			byFile[e.Path] = stats
		}
		stats.edits++
		stats.netDelta += e.LineDelta
		if e.Time.After(stats.lastEdit) {
			stats.lastEdit = e.Time
		}
	}

	type fileSummary struct {
		path  string
		edits int
		delta int
	}
	var summaries []fileSummary
	for path, stats := range byFile {
		summaries = append(summaries, fileSummary{path: path, edits: stats.edits, delta: stats.netDelta})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].edits > summaries[j].edits
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== Activity: Last %d minutes ===\n", minutes))
	sb.WriteString(fmt.Sprintf("Project: %s\n\n", absPath))

	sb.WriteString("HOT FILES (by edit count):\n")
	for i, s := range summaries {
		if i >= 10 {
			sb.WriteString(fmt.Sprintf("  ... and %d more files\n", len(summaries)-10))
			break
		}
		deltaStr := ""
		if s.delta > 0 {
			deltaStr = fmt.Sprintf("+%d", s.delta)
		} else if s.delta < 0 {
			deltaStr = fmt.Sprintf("%d", s.delta)
		}
		sb.WriteString(fmt.Sprintf("  %-40s %2d edits  %6s lines\n", s.path, s.edits, deltaStr))
	}

	totalEdits, totalDelta := 0, 0
	for _, s := range summaries {
		totalEdits += s.edits
		totalDelta += s.delta
	}
	sb.WriteString("\nSESSION SUMMARY:\n")
	sb.WriteString(fmt.Sprintf("  Files touched:  %d\n", len(summaries)))
	sb.WriteString(fmt.Sprintf("  Total edits:    %d\n", totalEdits))
	if totalDelta >= 0 {
		sb.WriteString(fmt.Sprintf("  Net line change: +%d\n", totalDelta))
	} else {
		sb.WriteString(fmt.Sprintf("  Net line change: %d\n", totalDelta))
	}

	sb.WriteString("\nRECENT TIMELINE:\n")
	start := len(recent) - 5
	if start < 0 {
		start = 0
	}
	for _, e := range recent[start:] {
		deltaStr := ""
		if e.LineDelta > 0 {
			deltaStr = fmt.Sprintf(" (+%d)", e.LineDelta)
		} else if e.LineDelta < 0 {
			deltaStr = fmt.Sprintf(" (%d)", e.LineDelta)
		}
		sb.WriteString(fmt.Sprintf("  %s  %-6s  %s%s\n", e.Time.Format("15:04:05"), e.Op, e.Path, deltaStr))
	}

	return textResult(sb.String()), nil, nil
}
