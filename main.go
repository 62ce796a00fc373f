package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"codegnosis/cmd"
	"codegnosis/render"
	"codegnosis/scanner"
	"codegnosis/watch"
)

func main() {
	// Subcommands are dispatched before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "watch":
			runWatch(os.Args[2:])
			return
		case "hook":
			runHook(os.Args[2:])
			return
		}
	}

	jsonMode := flag.Bool("json", false, "Output the full report as JSON")
	reportPath := flag.String("report", "", "Write the full report as JSON to a file")
	progressFile := flag.String("progress-file", "", "Write progress updates as JSON lines to a file")
	exclude := flag.String("exclude", "", "Comma-separated directory names to exclude")
	extensions := flag.String("extensions", "", "Comma-separated extensions to include (e.g. .ts,.py)")
	exploreMode := flag.Bool("explore", false, "Interactive dependency explorer")
	verbose := flag.Bool("verbose", false, "Log scan details to stderr")
	helpMode := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *helpMode {
		printHelp()
		os.Exit(0)
	}

	root := flag.Arg(0)
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting absolute path: %v\n", err)
		os.Exit(1)
	}

	opts := scanner.Options{
		ExcludedFolders: splitList(*exclude),
		Include:         splitList(*extensions),
	}
	if *verbose {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	progress, closeProgress, err := progressWriter(*progressFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening progress file: %v\n", err)
		os.Exit(1)
	}
	opts.Progress = progress

	report, err := scanner.NewAnalyzer(absRoot, opts).Analyze()
	closeProgress()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", absRoot, err)
		os.Exit(1)
	}

	if *reportPath != "" {
		if err := writeReport(*reportPath, report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
	}

	switch {
	case *jsonMode:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(report)
	case *exploreMode:
		if err := render.Explore(report); err != nil {
			fmt.Fprintf(os.Stderr, "Explorer error: %v\n", err)
			os.Exit(1)
		}
	default:
		render.Depgraph(report)
	}
}

func printHelp() {
	fmt.Println("codegnosis - Map the dependency structure of your codebase")
	fmt.Println()
	fmt.Println("Usage: codegnosis [options] [path]")
	fmt.Println("       codegnosis watch start|stop|status|run [path]")
	fmt.Println("       codegnosis hook <name> [path]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --help             Show this help message")
	fmt.Println("  --json             Output the full report as JSON")
	fmt.Println("  --report FILE      Write the full report as JSON to FILE")
	fmt.Println("  --progress-file F  Write progress updates as JSON lines to F")
	fmt.Println("  --exclude DIRS     Comma-separated directory names to exclude")
	fmt.Println("  --extensions EXTS  Comma-separated extensions to include")
	fmt.Println("  --explore          Interactive dependency explorer")
	fmt.Println("  --verbose          Log scan details to stderr")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  codegnosis .                       # Dependency flow map")
	fmt.Println("  codegnosis --explore .             # Browse files interactively")
	fmt.Println("  codegnosis --json . > report.json  # Full report for tooling")
	fmt.Println("  codegnosis watch start .           # Keep analysis fresh in background")
	fmt.Println("  codegnosis hook session-start .    # Print context for agent hooks")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// progressWriter returns a ProgressFunc appending JSON lines to path, or a
// nil func when no path is given.
func progressWriter(path string) (scanner.ProgressFunc, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	enc := json.NewEncoder(f)
	fn := func(stage string, percent int, message string) {
		enc.Encode(map[string]any{
			"stage":     stage,
			"percent":   percent,
			"message":   message,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
	return fn, func() { f.Close() }, nil
}

func writeReport(path string, report *scanner.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func runWatch(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: codegnosis watch start|stop|status|run [path]")
		os.Exit(1)
	}
	action := args[0]
	root := "."
	if len(args) > 1 {
		root = args[1]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting absolute path: %v\n", err)
		os.Exit(1)
	}

	switch action {
	case "start":
		if watch.IsRunning(absRoot) {
			fmt.Printf("Already watching %s (pid %d)\n", absRoot, watch.ReadPID(absRoot))
			return
		}
		exe, err := os.Executable()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error locating executable: %v\n", err)
			os.Exit(1)
		}
		child := exec.Command(exe, "watch", "run", absRoot)
		child.Stdout = nil
		child.Stderr = nil
		child.Stdin = nil
		setSysProcAttr(child)
		if err := child.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting watcher: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Watcher started for %s (pid %d)\n", absRoot, child.Process.Pid)
	case "stop":
		if err := watch.Stop(absRoot); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Watcher stopped for %s\n", absRoot)
	case "status":
		if !watch.IsRunning(absRoot) {
			fmt.Printf("No watcher running for %s\n", absRoot)
			return
		}
		fmt.Printf("Watcher running for %s (pid %d)\n", absRoot, watch.ReadPID(absRoot))
		if st, err := watch.ReadState(absRoot); err == nil {
			fmt.Printf("Last scan: %s\n", st.UpdatedAt.Format(time.RFC3339))
			fmt.Printf("Files: %d, connections: %d, score: %d\n", st.FileCount, st.EdgeCount, st.Score)
		}
	case "run":
		// Foreground daemon. Normally reached via detached "watch start".
		daemon, err := watch.NewDaemon(absRoot, scanner.Options{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
			os.Exit(1)
		}
		if err := daemon.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown watch action: %s\nUsage: codegnosis watch start|stop|status|run [path]\n", action)
		os.Exit(1)
	}
}

func runHook(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: codegnosis hook <name> [path]")
		os.Exit(1)
	}
	root := "."
	if len(args) > 1 {
		root = args[1]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting absolute path: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.RunHook(args[0], absRoot); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
