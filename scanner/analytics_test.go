package scanner

import "testing"

// buildGraph wires a graph from an adjacency description. Nodes are created
// in the given order.
func buildGraph(order []string, edges map[string][]string) *Graph {
	g := NewGraph()
	for _, key := range order {
		g.AddNode(&FileNode{Key: key, Kind: NodeInternal, Category: "JavaScript"})
	}
	for _, source := range order {
		for _, target := range edges[source] {
			g.AddEdge(source, target)
		}
	}
	return g
}

func defaultAnalytics() *Analytics {
	return NewAnalytics(DefaultConfig().Analysis)
}

func TestDetectCyclesTriangle(t *testing.T) {
	g := buildGraph([]string{"a", "b", "c"}, map[string][]string{
		"a": {"b"}, "b": {"c"}, "c": {"a"},
	})

	cycles := defaultAnalytics().DetectCycles(g)
	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, got %d", len(cycles))
	}
	nodes := cycles[0].Nodes
	if len(nodes) != 4 || nodes[0] != nodes[len(nodes)-1] {
		t.Errorf("Cycle should close on its start node: %v", nodes)
	}
}

func TestDetectCyclesAcyclic(t *testing.T) {
	g := buildGraph([]string{"a", "b", "c"}, map[string][]string{
		"a": {"b", "c"}, "b": {"c"},
	})
	if cycles := defaultAnalytics().DetectCycles(g); len(cycles) != 0 {
		t.Errorf("Expected no cycles, got %v", cycles)
	}
}

func TestDetectCyclesLengthBound(t *testing.T) {
	// Six-node ring exceeds the default length cap of 5 reported nodes.
	order := []string{"a", "b", "c", "d", "e", "f"}
	edges := map[string][]string{
		"a": {"b"}, "b": {"c"}, "c": {"d"}, "d": {"e"}, "e": {"f"}, "f": {"a"},
	}
	g := buildGraph(order, edges)

	if cycles := defaultAnalytics().DetectCycles(g); len(cycles) != 0 {
		t.Errorf("Over-length cycle should be discarded, got %v", cycles)
	}

	// Raising the bound reports it.
	a := defaultAnalytics()
	a.MaxCycleLength = 7
	if cycles := a.DetectCycles(g); len(cycles) != 1 {
		t.Errorf("Expected the ring with a raised bound, got %v", cycles)
	}
}

func TestDetectCyclesCountBound(t *testing.T) {
	// Many independent two-node cycles.
	var order []string
	edges := map[string][]string{}
	for _, pair := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n"} {
		order = append(order, pair+"1", pair+"2")
		edges[pair+"1"] = []string{pair + "2"}
		edges[pair+"2"] = []string{pair + "1"}
	}
	g := buildGraph(order, edges)

	a := defaultAnalytics()
	cycles := a.DetectCycles(g)
	if len(cycles) > a.MaxCycles {
		t.Errorf("Expected at most %d cycles, got %d", a.MaxCycles, len(cycles))
	}

	a.MaxCycles = 3
	if cycles := a.DetectCycles(g); len(cycles) > 3 {
		t.Errorf("Configured cap ignored, got %d cycles", len(cycles))
	}
}

func TestChainDepths(t *testing.T) {
	g := buildGraph([]string{"a", "b", "c", "leaf"}, map[string][]string{
		"a": {"b"}, "b": {"c"}, "c": {"leaf"},
	})

	depths := ChainDepths(g)
	want := map[string]int{"leaf": 1, "c": 2, "b": 3, "a": 4}
	for key, d := range want {
		if depths[key] != d {
			t.Errorf("depth(%s) = %d, want %d", key, depths[key], d)
		}
	}
	if MaxChainDepth(depths) != 4 {
		t.Errorf("MaxChainDepth = %d, want 4", MaxChainDepth(depths))
	}
}

func TestChainDepthsCyclic(t *testing.T) {
	g := buildGraph([]string{"a", "b"}, map[string][]string{
		"a": {"b"}, "b": {"a"},
	})
	// Terminates; the on-path node contributes 0.
	depths := ChainDepths(g)
	if depths["a"] < 1 || depths["b"] < 1 {
		t.Errorf("Cyclic depths should still be at least 1: %v", depths)
	}
}

func TestEntryPointsAndHubs(t *testing.T) {
	g := buildGraph([]string{"main.js", "app.js", "util.js", "lone.js"}, map[string][]string{
		"main.js": {"util.js"},
		"app.js":  {"util.js"},
	})

	entries := EntryPoints(g)
	wantEntries := map[string]bool{"main.js": true, "app.js": true, "lone.js": true}
	if len(entries) != len(wantEntries) {
		t.Fatalf("Expected %d entry points, got %v", len(wantEntries), entries)
	}
	for _, e := range entries {
		if !wantEntries[e] {
			t.Errorf("Unexpected entry point %q", e)
		}
	}

	hubs := HubFiles(g, 10)
	if len(hubs) != 1 || hubs[0].Key != "util.js" || hubs[0].Count != 2 {
		t.Errorf("Expected util.js as the only hub, got %v", hubs)
	}
}

func TestHubFilesOrderAndCap(t *testing.T) {
	order := []string{"src1", "src2", "src3", "t1", "t2"}
	g := buildGraph(order, map[string][]string{
		"src1": {"t1", "t2"},
		"src2": {"t1"},
		"src3": {"t2"},
	})

	hubs := HubFiles(g, 1)
	if len(hubs) != 1 {
		t.Fatalf("Cap ignored: %v", hubs)
	}
	// t1 and t2 both have 2 inbound; t1 was discovered first.
	if hubs[0].Key != "t1" {
		t.Errorf("Tie should break by discovery order, got %q", hubs[0].Key)
	}
}

func TestOrphansExcludeEntryPoints(t *testing.T) {
	g := buildGraph([]string{"importer.js", "imported.js", "island.js"}, map[string][]string{
		"importer.js": {"imported.js"},
	})

	orphans := Orphans(g, nil)
	if len(orphans) != 1 || orphans[0] != "island.js" {
		t.Errorf("Expected only island.js, got %v", orphans)
	}
}

func TestOrphansSparedByAssetReference(t *testing.T) {
	g := buildGraph([]string{"page.html", "logo.svg"}, nil)

	orphans := Orphans(g, map[string]bool{"logo.svg": true})
	for _, o := range orphans {
		if o == "logo.svg" {
			t.Error("Asset-referenced file should not be an orphan")
		}
	}
}

func TestConnectivityScore(t *testing.T) {
	tests := []struct {
		missing, orphans, want int
	}{
		{0, 0, 100},
		{1, 0, 90},
		{0, 5, 90},
		{2, 3, 74},
		{20, 50, 0},
	}
	for _, tt := range tests {
		if got := ConnectivityScore(tt.missing, tt.orphans); got != tt.want {
			t.Errorf("ConnectivityScore(%d, %d) = %d, want %d", tt.missing, tt.orphans, got, tt.want)
		}
	}
}

func TestCycleParticipation(t *testing.T) {
	g := buildGraph([]string{"a", "b", "c"}, map[string][]string{
		"a": {"b"}, "b": {"a"},
	})
	cycles := defaultAnalytics().DetectCycles(g)
	counts := CycleParticipation(g, cycles)
	if counts["a"] != 1 || counts["b"] != 1 {
		t.Errorf("Expected a and b in one cycle each, got %v", counts)
	}
	if counts["c"] != 0 {
		t.Errorf("c participates in nothing, got %d", counts["c"])
	}
}
