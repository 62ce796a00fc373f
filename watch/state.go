package watch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"codegnosis/scanner"
)

// StateDir is the directory the daemon maintains inside the project root.
const StateDir = ".codegnosis"

// State is the snapshot of the latest analysis written to state.json.
// Hooks and the MCP server read it instead of re-scanning the project.
type State struct {
	UpdatedAt    time.Time           `json:"updatedAt"`
	Root         string              `json:"root"`
	PID          int                 `json:"pid"`
	FileCount    int                 `json:"fileCount"`
	EdgeCount    int                 `json:"edgeCount"`
	Score        int                 `json:"score"`
	EntryPoints  []string            `json:"entryPoints"`
	Hubs         []string            `json:"hubs"`
	Cycles       []string            `json:"cycles"`
	Orphans      []string            `json:"orphans"`
	Importers    map[string][]string `json:"importers"`
	RecentEvents []Event             `json:"recentEvents"`
}

// staleAfter marks a state file as stale when the daemon stops updating it.
const staleAfter = 30 * time.Second

func statePath(root string) string {
	return filepath.Join(root, StateDir, "state.json")
}

func pidPath(root string) string {
	return filepath.Join(root, StateDir, "watch.pid")
}

// BuildState condenses a report and recent events into a State snapshot.
func BuildState(root string, r *scanner.Report, events []Event) *State {
	st := &State{
		UpdatedAt:    time.Now(),
		Root:         root,
		PID:          os.Getpid(),
		RecentEvents: events,
		Importers:    make(map[string][]string),
	}
	if r == nil {
		return st
	}
	st.FileCount = r.Summary.TotalFiles
	st.EdgeCount = r.Summary.TotalConnections
	st.Score = r.Statistics.ConnectivityHealthScore
	for _, ep := range r.EntryPoints {
		st.EntryPoints = append(st.EntryPoints, ep.File)
	}
	for _, h := range r.HubFiles {
		st.Hubs = append(st.Hubs, h.File)
	}
	for _, c := range r.Cycles {
		st.Cycles = append(st.Cycles, c.Description)
	}
	for key, fd := range r.Files {
		if fd.IsUnused {
			st.Orphans = append(st.Orphans, key)
		}
		if len(fd.ImportedBy) > 0 {
			st.Importers[key] = fd.ImportedBy
		}
	}
	sort.Strings(st.Orphans)
	return st
}

// WriteState persists the snapshot to <root>/.codegnosis/state.json.
func WriteState(root string, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(statePath(root), data, 0o644)
}

// ReadStateFile loads the snapshot without the staleness check. Used to
// recover context from a previous session after the daemon has stopped.
func ReadStateFile(root string) (*State, error) {
	data, err := os.ReadFile(statePath(root))
	if err != nil {
		return nil, err
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("corrupt state file: %w", err)
	}
	return &st, nil
}

// ReadState loads the snapshot, refusing one the daemon stopped refreshing.
func ReadState(root string) (*State, error) {
	st, err := ReadStateFile(root)
	if err != nil {
		return nil, err
	}
	if time.Since(st.UpdatedAt) > staleAfter && !IsRunning(root) {
		return nil, fmt.Errorf("state is stale (daemon not running)")
	}
	return st, nil
}

// WritePID records the daemon's PID for later Stop and status checks.
func WritePID(root string) error {
	if err := os.MkdirAll(filepath.Join(root, StateDir), 0o755); err != nil {
		return err
	}
	return os.WriteFile(pidPath(root), []byte(strconv.Itoa(os.Getpid())), 0o644)
}

// ReadPID returns the recorded daemon PID, or 0 when none exists.
func ReadPID(root string) int {
	data, err := os.ReadFile(pidPath(root))
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

// RemovePID deletes the PID file.
func RemovePID(root string) {
	os.Remove(pidPath(root))
}

// IsRunning reports whether the recorded daemon process is alive.
func IsRunning(root string) bool {
	pid := ReadPID(root)
	if pid == 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// Stop terminates the recorded daemon process and cleans up its PID file.
func Stop(root string) error {
	pid := ReadPID(root)
	if pid == 0 {
		return fmt.Errorf("no watcher running in %s", root)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		RemovePID(root)
		return fmt.Errorf("watcher process %d not found", pid)
	}
	RemovePID(root)
	return nil
}
