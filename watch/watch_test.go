package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codegnosis/scanner"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPIDLifecycle(t *testing.T) {
	root := t.TempDir()

	if pid := ReadPID(root); pid != 0 {
		t.Fatalf("ReadPID on empty dir = %d, want 0", pid)
	}
	if IsRunning(root) {
		t.Fatal("IsRunning true with no PID file")
	}
	if err := WritePID(root); err != nil {
		t.Fatal(err)
	}
	if pid := ReadPID(root); pid != os.Getpid() {
		t.Fatalf("ReadPID = %d, want %d", pid, os.Getpid())
	}
	if !IsRunning(root) {
		t.Fatal("IsRunning false for current process")
	}
	RemovePID(root)
	if pid := ReadPID(root); pid != 0 {
		t.Fatalf("ReadPID after remove = %d, want 0", pid)
	}
}

func TestStopWithoutDaemon(t *testing.T) {
	root := t.TempDir()
	if err := Stop(root); err == nil {
		t.Fatal("Stop with no PID file should fail")
	}
}

func TestBuildState(t *testing.T) {
	report := &scanner.Report{
		Summary: scanner.ReportSummary{TotalFiles: 3, TotalConnections: 2},
		Statistics: scanner.Statistics{
			ConnectivityHealthScore: 96,
		},
		EntryPoints: []scanner.EntryPoint{{File: "src/main.js"}},
		HubFiles:    []scanner.HubFile{{File: "src/util.js", ImportedBy: 2}},
		Cycles: []scanner.CyclePayload{
			{Description: "a.js -> b.js -> a.js"},
		},
		Files: map[string]scanner.FileDetail{
			"src/main.js": {Imports: []string{"src/util.js"}},
			"src/util.js": {ImportedBy: []string{"src/main.js"}},
			"loner.js":    {IsUnused: true},
		},
	}
	st := BuildState("/tmp/proj", report, []Event{{Op: "write", Path: "src/main.js"}})

	if st.FileCount != 3 || st.EdgeCount != 2 || st.Score != 96 {
		t.Fatalf("summary mismatch: %+v", st)
	}
	if len(st.EntryPoints) != 1 || st.EntryPoints[0] != "src/main.js" {
		t.Fatalf("entry points = %v", st.EntryPoints)
	}
	if len(st.Hubs) != 1 || st.Hubs[0] != "src/util.js" {
		t.Fatalf("hubs = %v", st.Hubs)
	}
	if len(st.Cycles) != 1 || st.Cycles[0] != "a.js -> b.js -> a.js" {
		t.Fatalf("cycles = %v", st.Cycles)
	}
	if len(st.Orphans) != 1 || st.Orphans[0] != "loner.js" {
		t.Fatalf("orphans = %v", st.Orphans)
	}
	if got := st.Importers["src/util.js"]; len(got) != 1 || got[0] != "src/main.js" {
		t.Fatalf("importers = %v", st.Importers)
	}
	if len(st.RecentEvents) != 1 {
		t.Fatalf("recent events = %v", st.RecentEvents)
	}
}

func TestStateRoundTrip(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, StateDir), 0o755); err != nil {
		t.Fatal(err)
	}
	st := BuildState(root, nil, nil)
	if err := WriteState(root, st); err != nil {
		t.Fatal(err)
	}
	got, err := ReadState(root)
	if err != nil {
		t.Fatal(err)
	}
	if got.Root != root || got.PID != os.Getpid() {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestReadStateStale(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, StateDir), 0o755); err != nil {
		t.Fatal(err)
	}
	st := BuildState(root, nil, nil)
	st.UpdatedAt = time.Now().Add(-time.Minute)
	st.PID = 0
	if err := WriteState(root, st); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadState(root); err == nil {
		t.Fatal("expected stale state error")
	}
}

func TestTrackerEventRing(t *testing.T) {
	tr := NewTracker("/tmp")
	for i := 0; i < maxEvents+50; i++ {
		tr.Record(Event{Op: "write", Path: "a.js"})
	}
	if len(tr.Events) != maxEvents {
		t.Fatalf("ring length = %d, want %d", len(tr.Events), maxEvents)
	}
	if got := tr.Recent(10); len(got) != 10 {
		t.Fatalf("Recent(10) returned %d events", len(got))
	}
}

func TestDaemonRescanOnWrite(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.js", "import './util.js';\n")
	writeFile(t, root, "src/util.js", "export const x = 1;\n")

	d, err := NewDaemon(root, scanner.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Start(); err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	st, err := ReadState(root)
	if err != nil {
		t.Fatal(err)
	}
	if st.FileCount != 2 {
		t.Fatalf("initial file count = %d, want 2", st.FileCount)
	}

	writeFile(t, root, "src/extra.js", "import './util.js';\n")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		st, err = ReadState(root)
		if err == nil && st.FileCount == 3 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if st.FileCount != 3 {
		t.Fatalf("file count after create = %d, want 3", st.FileCount)
	}

	events := d.Tracker().Recent(20)
	if len(events) == 0 {
		t.Fatal("no events recorded")
	}
	found := false
	for _, ev := range events {
		if ev.Path == "src/extra.js" {
			found = true
		}
	}
	if !found {
		t.Fatalf("no event for src/extra.js in %+v", events)
	}
}

func TestIsTrackedIgnoresStateDir(t *testing.T) {
	root := t.TempDir()
	d, err := NewDaemon(root, scanner.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer d.watcher.Close()

	if d.isTracked(filepath.Join(root, StateDir, "state.json")) {
		t.Fatal("state file should never trigger a rescan")
	}
	if !d.isTracked(filepath.Join(root, "src", "app.ts")) {
		t.Fatal("source file should be tracked")
	}
	if d.isTracked(filepath.Join(root, "README.md")) {
		t.Fatal("markdown should not trigger a rescan")
	}
}

func TestCountLines(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "one\ntwo\nthree\n")
	if got := countLines(filepath.Join(root, "a.txt")); got != 3 {
		t.Fatalf("countLines = %d, want 3", got)
	}
	if got := countLines(filepath.Join(root, "missing.txt")); got != 0 {
		t.Fatalf("countLines for missing file = %d, want 0", got)
	}
}
