package scanner

import "sort"

// Hub is one highly-imported node.
type Hub struct {
	Key      string
	Count    int
	Category string
}

// Cycle is one detected dependency cycle. Nodes holds the cycle path with the
// starting node repeated at the end.
type Cycle struct {
	Nodes []string
}

// Analytics computes the derived graph facts. Cycle bounds come from the
// analysis settings rather than being baked in.
type Analytics struct {
	MaxCycles      int
	MaxCycleLength int
	CheckCycles    bool
	CheckOrphans   bool
}

func NewAnalytics(settings AnalysisSettings) *Analytics {
	a := &Analytics{
		MaxCycles:      settings.MaxCycles,
		MaxCycleLength: settings.MaxCycleLength,
		CheckCycles:    settings.CheckCircularDependencies,
		CheckOrphans:   settings.CheckOrphans,
	}
	if a.MaxCycles <= 0 {
		a.MaxCycles = 10
	}
	if a.MaxCycleLength <= 0 {
		a.MaxCycleLength = 5
	}
	return a
}

// DetectCycles runs a bounded depth-first search from every unvisited node.
// A back-edge to a node on the active recursion path yields the path suffix
// as a cycle. Cycles longer than MaxCycleLength are discarded but traversal
// continues; recording stops after MaxCycles distinct cycles.
func (a *Analytics) DetectCycles(g *Graph) []Cycle {
	if !a.CheckCycles {
		return nil
	}
	var cycles []Cycle
	visited := make(map[string]bool)
	onPath := make(map[string]int) // node -> index in path
	var path []string

	var dfs func(node string)
	dfs = func(node string) {
		if idx, ok := onPath[node]; ok {
			if len(cycles) >= a.MaxCycles {
				return
			}
			suffix := path[idx:]
			// Length counts the repeated closing node, matching the reported
			// "A -> B -> A" form.
			if len(suffix)+1 <= a.MaxCycleLength {
				cycle := make([]string, 0, len(suffix)+1)
				cycle = append(cycle, suffix...)
				cycle = append(cycle, node)
				if !containsCycle(cycles, cycle) {
					cycles = append(cycles, Cycle{Nodes: cycle})
				}
			}
			return
		}
		if visited[node] {
			return
		}
		visited[node] = true
		onPath[node] = len(path)
		path = append(path, node)

		for _, next := range g.Adj[node] {
			dfs(next)
		}

		path = path[:len(path)-1]
		delete(onPath, node)
	}

	for _, node := range g.Order {
		if !visited[node] {
			dfs(node)
		}
	}

	if len(cycles) > a.MaxCycles {
		cycles = cycles[:a.MaxCycles]
	}
	return cycles
}

func containsCycle(cycles []Cycle, nodes []string) bool {
	for _, c := range cycles {
		if len(c.Nodes) != len(nodes) {
			continue
		}
		same := true
		for i := range nodes {
			if c.Nodes[i] != nodes[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

// ChainDepths returns the longest outbound dependency chain starting at each
// node. Leaves count 1; a node already on the active path contributes 0 so
// cyclic graphs terminate.
func ChainDepths(g *Graph) map[string]int {
	memo := make(map[string]int, len(g.Nodes))
	visiting := make(map[string]bool)

	var dfs func(node string) int
	dfs = func(node string) int {
		if d, ok := memo[node]; ok {
			return d
		}
		if visiting[node] {
			return 0
		}
		visiting[node] = true
		depth := 1
		for _, next := range g.Adj[node] {
			if d := 1 + dfs(next); d > depth {
				depth = d
			}
		}
		delete(visiting, node)
		memo[node] = depth
		return depth
	}

	for _, node := range g.Order {
		dfs(node)
	}
	return memo
}

// MaxChainDepth is the deepest chain anywhere in the graph.
func MaxChainDepth(depths map[string]int) int {
	max := 0
	for _, d := range depths {
		if d > max {
			max = d
		}
	}
	return max
}

// EntryPoints returns nodes with zero inbound edges, in discovery order.
func EntryPoints(g *Graph) []string {
	inbound := g.InboundCounts()
	var entries []string
	for _, node := range g.Order {
		if inbound[node] == 0 {
			entries = append(entries, node)
		}
	}
	return entries
}

// HubFiles returns the top n nodes by inbound count, descending, ties broken
// by discovery order. Zero-count nodes never qualify.
func HubFiles(g *Graph, n int) []Hub {
	inbound := g.InboundCounts()
	order := make(map[string]int, len(g.Order))
	for i, node := range g.Order {
		order[node] = i
	}

	var hubs []Hub
	for node, count := range inbound {
		if count > 0 {
			hubs = append(hubs, Hub{Key: node, Count: count, Category: g.Nodes[node].Category})
		}
	}
	sort.Slice(hubs, func(i, j int) bool {
		if hubs[i].Count != hubs[j].Count {
			return hubs[i].Count > hubs[j].Count
		}
		return order[hubs[i].Key] < order[hubs[j].Key]
	})
	if len(hubs) > n {
		hubs = hubs[:n]
	}
	return hubs
}

// Orphans returns internal nodes with neither inbound nor outbound edges that
// are also not referenced as assets. A node with outbound edges but no
// inbound edges is an entry point, never an orphan.
func Orphans(g *Graph, assetReferenced map[string]bool) []string {
	inbound := g.InboundCounts()
	var orphans []string
	for _, node := range g.Order {
		if g.Nodes[node].IsExternal() {
			continue
		}
		if inbound[node] == 0 && len(g.Adj[node]) == 0 && !assetReferenced[node] {
			orphans = append(orphans, node)
		}
	}
	return orphans
}

// ConnectivityScore computes the 0-100 health score: 10 points per file with
// missing asset references, 2 per orphan, clamped.
func ConnectivityScore(filesWithMissingAssets, orphanCount int) int {
	score := 100 - 10*filesWithMissingAssets - 2*orphanCount
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// CycleParticipation counts, per node, how many detected cycles include it.
// Every node appears in the result. The repeated closing node of each cycle
// is not double counted.
func CycleParticipation(g *Graph, cycles []Cycle) map[string]int {
	counts := make(map[string]int, len(g.Nodes))
	for key := range g.Nodes {
		counts[key] = 0
	}
	for _, cycle := range cycles {
		for i, node := range cycle.Nodes {
			if i == len(cycle.Nodes)-1 && node == cycle.Nodes[0] {
				continue
			}
			counts[node]++
		}
	}
	return counts
}

// IsolatedNodes counts nodes with no edges in either direction.
func IsolatedNodes(g *Graph) int {
	inbound := g.InboundCounts()
	count := 0
	for node := range g.Nodes {
		if inbound[node] == 0 && len(g.Adj[node]) == 0 {
			count++
		}
	}
	return count
}
