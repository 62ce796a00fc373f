package watch

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow collapses the duplicate events editors emit per save.
const debounceWindow = 100 * time.Millisecond

// eventLoop consumes watcher events, deduplicates them, and turns relevant
// changes into tracked events plus a rescan request.
func (d *Daemon) eventLoop() {
	lastSeen := make(map[string]time.Time)
	for {
		select {
		case <-d.done:
			return
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			now := time.Now()
			if prev, seen := lastSeen[ev.Name]; seen && now.Sub(prev) < debounceWindow {
				continue
			}
			lastSeen[ev.Name] = now
			d.handleEvent(ev)
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.logger.Warn("watch error", "error", err)
		}
	}
}

// handleEvent processes one filesystem event.
func (d *Daemon) handleEvent(ev fsnotify.Event) {
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") || skipDirs[name] {
		return
	}
	// New directories need their own watch before events inside them arrive.
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			d.watcher.Add(ev.Name)
			return
		}
	}
	if !d.isTracked(ev.Name) {
		return
	}

	rel, err := filepath.Rel(d.root, ev.Name)
	if err != nil {
		rel = ev.Name
	}
	rel = filepath.ToSlash(rel)

	event := Event{Time: time.Now(), Op: opString(ev.Op), Path: rel}
	d.tracker.mu.Lock()
	prev := d.tracker.Files[rel]
	d.tracker.mu.Unlock()

	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if prev != nil {
			event.LineDelta = -prev.Lines
			event.SizeDelta = -prev.Size
		}
		d.tracker.mu.Lock()
		delete(d.tracker.Files, rel)
		d.tracker.mu.Unlock()
	default:
		cur := snapshotFile(ev.Name)
		if cur == nil {
			return
		}
		event.Lines = cur.Lines
		if prev != nil {
			event.LineDelta = cur.Lines - prev.Lines
			event.SizeDelta = cur.Size - prev.Size
		}
		d.tracker.mu.Lock()
		d.tracker.Files[rel] = cur
		d.tracker.mu.Unlock()
	}

	d.tracker.Record(event)
	d.logger.Debug("file event", "op", event.Op, "path", rel, "delta", event.LineDelta)
	d.requestScan()
}

// isTracked reports whether the path is a source file worth reacting to.
// Files already in the latest report always count; otherwise the extension
// decides, so newly created sources trigger a rescan too.
func (d *Daemon) isTracked(absPath string) bool {
	rel, err := filepath.Rel(d.root, absPath)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, StateDir+"/") || rel == StateDir {
		return false
	}
	if r := d.tracker.CurrentReport(); r != nil {
		if _, ok := r.Files[rel]; ok {
			return true
		}
	}
	switch strings.ToLower(filepath.Ext(absPath)) {
	case ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".py", ".go", ".rs",
		".java", ".cs", ".c", ".cpp", ".h", ".hpp", ".php", ".rb", ".swift",
		".kt", ".vue", ".svelte", ".html", ".css", ".scss", ".json", ".toml",
		".yaml", ".yml":
		return true
	}
	return false
}

// snapshotFile reads the current size and line count of a regular file.
func snapshotFile(path string) *FileState {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}
	return &FileState{Lines: countLines(path), Size: info.Size()}
}

func countLines(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 1024*1024), 1024*1024)
	n := 0
	for s.Scan() {
		n++
	}
	return n
}

func opString(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	default:
		return "chmod"
	}
}
