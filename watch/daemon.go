package watch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"codegnosis/scanner"
)

// rescanDelay batches bursts of file events into a single re-analysis.
const rescanDelay = 500 * time.Millisecond

// skipDirs are never watched. Mirrors the scanner's default exclusions for
// the directories that churn the most.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
}

// Daemon watches a project root and re-analyzes it when source files change.
type Daemon struct {
	root    string
	opts    scanner.Options
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	tracker *Tracker
	rescan  chan struct{}
	done    chan struct{}
}

// NewDaemon prepares a daemon for root. Analysis uses opts on every rescan.
func NewDaemon(root string, opts scanner.Options) (*Daemon, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
		opts.Logger = logger
	}
	// The daemon's own state directory must never feed back into analysis.
	opts.ExcludedFolders = append(opts.ExcludedFolders, StateDir)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Daemon{
		root:    abs,
		opts:    opts,
		logger:  logger,
		watcher: watcher,
		tracker: NewTracker(abs),
		rescan:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}, nil
}

// Start performs the initial analysis, registers watches, and begins the
// event loop. It returns once the loop is running.
func (d *Daemon) Start() error {
	if err := WritePID(d.root); err != nil {
		return err
	}
	if err := d.runScan(); err != nil {
		RemovePID(d.root)
		return err
	}
	if err := d.addWatchDirs(); err != nil {
		RemovePID(d.root)
		return err
	}
	go d.eventLoop()
	go d.scanLoop()
	d.logger.Info("watching", "root", d.root)
	return nil
}

// Run starts the daemon and blocks until SIGINT or SIGTERM.
func (d *Daemon) Run() error {
	if err := d.Start(); err != nil {
		return err
	}
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	d.Close()
	return nil
}

// Close stops the loops and removes the PID file.
func (d *Daemon) Close() {
	close(d.done)
	d.watcher.Close()
	RemovePID(d.root)
}

// Tracker exposes the in-memory state, mainly for tests.
func (d *Daemon) Tracker() *Tracker {
	return d.tracker
}

// runScan re-analyzes the project and refreshes the state file.
func (d *Daemon) runScan() error {
	report, err := scanner.NewAnalyzer(d.root, d.opts).Analyze()
	if err != nil {
		return err
	}
	d.tracker.SetReport(report)
	st := BuildState(d.root, report, d.tracker.Recent(20))
	if err := WriteState(d.root, st); err != nil {
		return err
	}
	d.logger.Info("scan complete",
		"files", report.Summary.TotalFiles,
		"edges", report.Summary.TotalConnections,
		"score", report.Statistics.ConnectivityHealthScore)
	return nil
}

// addWatchDirs registers every directory under root, pruning noisy trees.
func (d *Daemon) addWatchDirs() error {
	return filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		name := entry.Name()
		if path != d.root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
			return fs.SkipDir
		}
		return d.watcher.Add(path)
	})
}

// scanLoop serializes rescans triggered by the event loop.
func (d *Daemon) scanLoop() {
	for {
		select {
		case <-d.done:
			return
		case <-d.rescan:
			if err := d.runScan(); err != nil {
				d.logger.Error("rescan failed", "error", err)
			}
		}
	}
}

// requestScan schedules a rescan without blocking the event loop.
func (d *Daemon) requestScan() {
	select {
	case d.rescan <- struct{}{}:
	default:
	}
}
