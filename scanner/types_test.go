package scanner

import "testing"

func TestGraphAddNodeDeduplicates(t *testing.T) {
	g := NewGraph()
	g.AddNode(&FileNode{Key: "a.js", Kind: NodeInternal, Size: 10})
	g.AddNode(&FileNode{Key: "a.js", Kind: NodeInternal, Size: 99})

	if len(g.Nodes) != 1 || len(g.Order) != 1 {
		t.Fatalf("Duplicate key should be a no-op: %d nodes", len(g.Nodes))
	}
	if g.Nodes["a.js"].Size != 10 {
		t.Error("First registration should win")
	}
}

func TestGraphAddEdge(t *testing.T) {
	g := NewGraph()
	g.AddNode(&FileNode{Key: "a", Kind: NodeInternal})
	g.AddNode(&FileNode{Key: "b", Kind: NodeInternal})

	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	g.AddEdge("a", "ghost")
	g.AddEdge("ghost", "a")

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if len(g.Adj["a"]) != 1 || g.Adj["a"][0] != "b" {
		t.Errorf("Adj[a] = %v", g.Adj["a"])
	}
}

func TestGraphInboundCounts(t *testing.T) {
	g := NewGraph()
	for _, key := range []string{"a", "b", "c"} {
		g.AddNode(&FileNode{Key: key, Kind: NodeInternal})
	}
	g.AddEdge("a", "c")
	g.AddEdge("b", "c")

	counts := g.InboundCounts()
	if counts["c"] != 2 {
		t.Errorf("inbound(c) = %d, want 2", counts["c"])
	}
	// Zero-count nodes are present, not absent.
	if v, ok := counts["a"]; !ok || v != 0 {
		t.Errorf("inbound(a) = %d, %v; want present 0", v, ok)
	}
}

func TestFileNodeIsExternal(t *testing.T) {
	ext := &FileNode{Key: ExternalKeyPrefix + "lodash", Kind: NodeExternal, Package: "lodash"}
	if !ext.IsExternal() {
		t.Error("external node misclassified")
	}
	// A real file whose name happens to start with the prefix is internal;
	// identity is the kind tag, not the key string.
	weird := &FileNode{Key: "ext:ra/file.js", Kind: NodeInternal}
	if weird.IsExternal() {
		t.Error("internal node misclassified by key prefix")
	}
}
