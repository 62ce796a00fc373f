package scanner

import "time"

// NodeKind distinguishes real project files from virtual placeholders for
// unresolved external packages.
type NodeKind int

const (
	NodeInternal NodeKind = iota
	NodeExternal
)

// ExternalKeyPrefix is the reserved prefix used to key external nodes so they
// can never collide with a real project-relative path. Identity checks go
// through FileNode.Kind, never through the key string.
const ExternalKeyPrefix = "ext:"

// FileNode is one node in the dependency graph. Internal nodes are backed by
// a real file under the project root; external nodes are placeholders carrying
// synthetic zero metadata.
type FileNode struct {
	Key      string    // relative path, '/'-separated, or ext:<package>
	Kind     NodeKind  // Internal or External
	Package  string    // package name when Kind == NodeExternal
	Category string    // category label from the Categorizer
	Size     int64     // bytes; 0 for external nodes
	ModTime  time.Time // zero for external nodes
	Created  time.Time // best-effort creation time; zero for external nodes
}

// IsExternal reports whether the node is a virtual external package.
func (n *FileNode) IsExternal() bool {
	return n.Kind == NodeExternal
}

// Graph holds the node set and directed adjacency of the dependency graph.
// Order preserves discovery order for deterministic tie-breaking in reports.
type Graph struct {
	Nodes map[string]*FileNode
	Order []string
	Adj   map[string][]string

	edges map[string]map[string]bool
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[string]*FileNode),
		Adj:   make(map[string][]string),
		edges: make(map[string]map[string]bool),
	}
}

// AddNode registers a node. Re-adding an existing key is a no-op.
func (g *Graph) AddNode(n *FileNode) {
	if _, ok := g.Nodes[n.Key]; ok {
		return
	}
	g.Nodes[n.Key] = n
	g.Order = append(g.Order, n.Key)
	if _, ok := g.Adj[n.Key]; !ok {
		g.Adj[n.Key] = nil
	}
}

// AddEdge records source -> target. Duplicate pairs collapse into adjacency
// membership. Both endpoints must already exist as nodes; edges to unknown
// endpoints are dropped.
func (g *Graph) AddEdge(source, target string) {
	if _, ok := g.Nodes[source]; !ok {
		return
	}
	if _, ok := g.Nodes[target]; !ok {
		return
	}
	if g.edges[source] == nil {
		g.edges[source] = make(map[string]bool)
	}
	if g.edges[source][target] {
		return
	}
	g.edges[source][target] = true
	g.Adj[source] = append(g.Adj[source], target)
}

// EdgeCount returns the total number of distinct edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, targets := range g.Adj {
		total += len(targets)
	}
	return total
}

// InboundCounts inverts the adjacency structure, returning the number of
// distinct sources referencing each node. Every node appears in the result,
// zero-count nodes included.
func (g *Graph) InboundCounts() map[string]int {
	counts := make(map[string]int, len(g.Nodes))
	for key := range g.Nodes {
		counts[key] = 0
	}
	for _, targets := range g.Adj {
		for _, t := range targets {
			counts[t]++
		}
	}
	return counts
}
