// Package cmd implements the lifecycle hooks that surface dependency
// context inside coding-agent sessions.
package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"codegnosis/scanner"
	"codegnosis/watch"
)

// hubInfo is the dependency context a hook needs: who the hubs are and who
// imports whom.
type hubInfo struct {
	Hubs      []string
	Importers map[string][]string
	Imports   map[string][]string
}

// getHubInfo reads the daemon's state file when one is fresh, falling back
// to a full analysis.
func getHubInfo(root string) *hubInfo {
	if state, err := watch.ReadState(root); err == nil {
		info := &hubInfo{
			Hubs:      state.Hubs,
			Importers: state.Importers,
			Imports:   make(map[string][]string),
		}
		for target, importers := range state.Importers {
			for _, src := range importers {
				info.Imports[src] = append(info.Imports[src], target)
			}
		}
		return info
	}

	report, err := scanner.NewAnalyzer(root, scanner.Options{}).Analyze()
	if err != nil {
		return nil
	}
	info := &hubInfo{
		Importers: make(map[string][]string),
		Imports:   make(map[string][]string),
	}
	for _, h := range report.HubFiles {
		info.Hubs = append(info.Hubs, h.File)
	}
	for key, fd := range report.Files {
		if len(fd.ImportedBy) > 0 {
			info.Importers[key] = fd.ImportedBy
		}
		if len(fd.Imports) > 0 {
			info.Imports[key] = fd.Imports
		}
	}
	return info
}

// isHub reports whether three or more files import the path.
func (h *hubInfo) isHub(path string) bool {
	return len(h.Importers[path]) >= 3
}

// RunHook executes the named hook against the project root.
func RunHook(hookName, root string) error {
	switch hookName {
	case "session-start":
		return hookSessionStart(root)
	case "pre-edit":
		return hookPreEdit(root)
	case "post-edit":
		return hookPostEdit(root)
	case "prompt-submit":
		return hookPromptSubmit(root)
	case "pre-compact":
		return hookPreCompact(root)
	case "session-stop":
		return hookSessionStop(root)
	default:
		return fmt.Errorf("unknown hook: %s\nAvailable: session-start, pre-edit, post-edit, prompt-submit, pre-compact, session-stop", hookName)
	}
}

// hookSessionStart prints the dependency overview, starts the daemon, and
// recalls what the previous session touched.
func hookSessionStart(root string) error {
	lastState, _ := watch.ReadStateFile(root)

	if !watch.IsRunning(root) {
		startDaemon(root)
	}

	fmt.Println("📍 Project Context:")
	fmt.Println()

	// Reuse the CLI's default depgraph output.
	exe, err := os.Executable()
	if err == nil {
		cmd := exec.Command(exe, root)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Run()
		fmt.Println()
	}

	info := getHubInfo(root)
	if info != nil && len(info.Hubs) > 0 {
		fmt.Println("⚠️  High-impact files (hubs):")
		for i, hub := range info.Hubs {
			if i >= 10 {
				fmt.Printf("   ... and %d more\n", len(info.Hubs)-10)
				break
			}
			fmt.Printf("   ⚠️  HUB FILE: %s (imported by %d files)\n", hub, len(info.Importers[hub]))
		}
	}

	if lastState != nil && len(lastState.RecentEvents) > 0 {
		showLastSessionContext(root, lastState.RecentEvents)
	}

	return nil
}

// showLastSessionContext displays what the previous session worked on.
func showLastSessionContext(root string, events []watch.Event) {
	files := make(map[string]string)
	for _, e := range events {
		if e.Path != "" {
			files[e.Path] = e.Op
		}
	}
	if len(files) == 0 {
		return
	}

	// Editors often save via write-to-temp plus rename, which the watcher
	// records as a remove. If the file still exists, it was edited.
	for file, op := range files {
		if op == "remove" || op == "rename" {
			if _, err := os.Stat(filepath.Join(root, file)); err == nil {
				files[file] = "edited"
			}
		}
	}

	fmt.Println()
	fmt.Println("🕐 Last session worked on:")
	count := 0
	for file, op := range files {
		if count >= 5 {
			fmt.Printf("   ... and %d more files\n", len(files)-5)
			break
		}
		fmt.Printf("   • %s (%s)\n", file, op)
		count++
	}
}

// startDaemon launches the watch daemon in background.
func startDaemon(root string) {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	cmd := exec.Command(exe, "watch", "start", root)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil
	cmd.Start()
	// Give the daemon a moment to write its first state.
	time.Sleep(200 * time.Millisecond)
}

// hookPreEdit warns before editing hub files (reads JSON from stdin).
func hookPreEdit(root string) error {
	filePath, err := extractFilePathFromStdin()
	if err != nil || filePath == "" {
		return nil
	}
	return checkFileImporters(root, filePath)
}

// hookPostEdit shows impact after editing (reads JSON from stdin).
func hookPostEdit(root string) error {
	filePath, err := extractFilePathFromStdin()
	if err != nil || filePath == "" {
		return nil
	}
	return checkFileImporters(root, filePath)
}

// hookPromptSubmit detects file mentions in the prompt and shows their
// dependency context.
func hookPromptSubmit(root string) error {
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil
	}

	var data map[string]any
	if err := json.Unmarshal(input, &data); err != nil {
		return nil
	}
	prompt, ok := data["prompt"].(string)
	if !ok || prompt == "" {
		return nil
	}

	info := getHubInfo(root)

	// tsx before ts so the longer extension matches first.
	var filesMentioned []string
	extensions := []string{"go", "tsx", "ts", "jsx", "js", "py", "rs", "rb", "java", "swift", "kt", "c", "cpp", "h"}
	for _, ext := range extensions {
		pattern := regexp.MustCompile(`[a-zA-Z0-9_/-]+\.` + ext)
		filesMentioned = append(filesMentioned, pattern.FindAllString(prompt, 3)...)
	}

	var output []string
	if info != nil {
		for _, file := range filesMentioned {
			if importers := info.Importers[file]; len(importers) > 0 {
				if len(importers) >= 3 {
					output = append(output, fmt.Sprintf("   ⚠️  %s is a HUB (imported by %d files)", file, len(importers)))
				} else {
					output = append(output, fmt.Sprintf("   📍 %s (imported by %d files)", file, len(importers)))
				}
			}
		}
	}

	if len(output) > 0 {
		fmt.Println()
		fmt.Println("📍 Context for mentioned files:")
		for _, line := range output {
			fmt.Println(line)
		}
	}

	showSessionProgress(root, info)
	return nil
}

// showSessionProgress shows files edited so far in this session.
func showSessionProgress(root string, info *hubInfo) {
	state, err := watch.ReadState(root)
	if err != nil || len(state.RecentEvents) == 0 {
		return
	}

	filesEdited := make(map[string]bool)
	hubEdits := 0
	for _, e := range state.RecentEvents {
		filesEdited[e.Path] = true
		if info != nil && info.isHub(e.Path) {
			hubEdits++
		}
	}
	if len(filesEdited) == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("📊 Session so far: %d files edited", len(filesEdited))
	if hubEdits > 0 {
		fmt.Printf(", %d hub edits", hubEdits)
	}
	fmt.Println()
}

// hookPreCompact saves hub state before context compaction.
func hookPreCompact(root string) error {
	stateDir := filepath.Join(root, watch.StateDir)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return err
	}

	info := getHubInfo(root)
	if info == nil || len(info.Hubs) == 0 {
		return nil
	}

	hubsFile := filepath.Join(stateDir, "hubs.txt")
	f, err := os.Create(hubsFile)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "# Hub files at %s\n", time.Now().Format(time.RFC3339))
	for _, hub := range info.Hubs {
		fmt.Fprintln(f, hub)
	}

	fmt.Println()
	fmt.Printf("💾 Saved hub state to %s/hubs.txt before compact\n", watch.StateDir)
	fmt.Printf("   (%d hub files tracked)\n", len(info.Hubs))
	fmt.Println()
	return nil
}

// hookSessionStop summarizes what changed in the session and stops the daemon.
func hookSessionStop(root string) error {
	// Read state before stopping the daemon so the timeline survives.
	state, _ := watch.ReadState(root)
	info := getHubInfo(root)

	stopDaemon(root)

	fmt.Println()
	fmt.Println("📊 Session Summary")
	fmt.Println("==================")

	if state != nil && len(state.RecentEvents) > 0 {
		fmt.Println()
		fmt.Println("Edit Timeline:")

		totalDelta := 0
		fileEdits := make(map[string]int)
		hubEdits := 0
		for _, e := range state.RecentEvents {
			totalDelta += e.LineDelta
			fileEdits[e.Path]++
			if info != nil && info.isHub(e.Path) {
				hubEdits++
			}
		}

		events := state.RecentEvents
		start := 0
		if len(events) > 10 {
			start = len(events) - 10
			fmt.Printf("  ... %d earlier events\n", start)
		}
		for _, e := range events[start:] {
			deltaStr := ""
			if e.LineDelta > 0 {
				deltaStr = fmt.Sprintf(" +%d", e.LineDelta)
			} else if e.LineDelta < 0 {
				deltaStr = fmt.Sprintf(" %d", e.LineDelta)
			}
			hubStr := ""
			if info != nil && info.isHub(e.Path) {
				hubStr = " ⚠️HUB"
			}
			fmt.Printf("  %s %-6s %s%s%s\n", e.Time.Format("15:04:05"), e.Op, e.Path, deltaStr, hubStr)
		}

		fmt.Println()
		fmt.Printf("Stats: %d events, %d files touched, %+d lines",
			len(state.RecentEvents), len(fileEdits), totalDelta)
		if hubEdits > 0 {
			fmt.Printf(", %d hub edits", hubEdits)
		}
		fmt.Println()
	} else {
		// No daemon timeline. Fall back to git.
		gitCmd := exec.Command("git", "diff", "--name-only")
		gitCmd.Dir = root
		output, err := gitCmd.Output()
		if err != nil {
			fmt.Println("No changes tracked.")
			return nil
		}
		modified := strings.TrimSpace(string(output))
		if modified == "" {
			fmt.Println("No files modified.")
			return nil
		}

		fmt.Println()
		fmt.Println("Files modified:")
		lineScanner := bufio.NewScanner(strings.NewReader(modified))
		count := 0
		for lineScanner.Scan() {
			file := lineScanner.Text()
			count++
			if count > 10 {
				fmt.Printf("  ... and more\n")
				break
			}
			if info != nil && info.isHub(file) {
				fmt.Printf("  ⚠️  %s (HUB - imported by %d files)\n", file, len(info.Importers[file]))
			} else {
				fmt.Printf("  • %s\n", file)
			}
		}
	}

	fmt.Println()
	return nil
}

// stopDaemon stops the watch daemon.
func stopDaemon(root string) {
	if !watch.IsRunning(root) {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	cmd := exec.Command(exe, "watch", "stop", root)
	cmd.Run()
}

// extractFilePathFromStdin reads JSON from stdin and extracts file_path.
func extractFilePathFromStdin() (string, error) {
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return parseFilePath(input)
}

// parseFilePath pulls file_path out of a hook payload, with a regex
// fallback for non-JSON or partial JSON.
func parseFilePath(input []byte) (string, error) {
	var data map[string]any
	if err := json.Unmarshal(input, &data); err != nil {
		re := regexp.MustCompile(`"file_path"\s*:\s*"([^"]+)"`)
		matches := re.FindSubmatch(input)
		if len(matches) >= 2 {
			return string(matches[1]), nil
		}
		return "", err
	}

	filePath, ok := data["file_path"].(string)
	if !ok {
		return "", nil
	}
	return filePath, nil
}

// checkFileImporters prints a file's importers and any hubs it imports.
func checkFileImporters(root, filePath string) error {
	info := getHubInfo(root)
	if info == nil {
		return nil
	}

	if filepath.IsAbs(filePath) {
		if rel, err := filepath.Rel(root, filePath); err == nil {
			filePath = rel
		}
	}
	filePath = filepath.ToSlash(filePath)

	reportFileImporters(info, filePath)
	return nil
}

// reportFileImporters writes the importer summary for one file to stdout.
func reportFileImporters(info *hubInfo, filePath string) {
	importers := info.Importers[filePath]
	if len(importers) >= 3 {
		fmt.Println()
		fmt.Printf("⚠️  HUB FILE: %s\n", filePath)
		fmt.Printf("   Imported by %d files - changes have wide impact!\n", len(importers))
		fmt.Println()
		fmt.Println("   Dependents:")
		for i, imp := range importers {
			if i >= 5 {
				fmt.Printf("   ... and %d more\n", len(importers)-5)
				break
			}
			fmt.Printf("   • %s\n", imp)
		}
		fmt.Println()
	} else if len(importers) > 0 {
		fmt.Println()
		fmt.Printf("📍 File: %s\n", filePath)
		fmt.Printf("   Imported by %d file(s): %s\n", len(importers), strings.Join(importers, ", "))
		fmt.Println()
	}

	imports := info.Imports[filePath]
	var hubImports []string
	for _, imp := range imports {
		if info.isHub(imp) {
			hubImports = append(hubImports, imp)
		}
	}
	if len(hubImports) > 0 {
		fmt.Printf("   Imports %d hub(s): %s\n", len(hubImports), strings.Join(hubImports, ", "))
		fmt.Println()
	}
}
