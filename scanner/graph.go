package scanner

import (
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Builder assembles the dependency graph in two passes. Pass one registers
// every discovered file as a node so resolution in pass two sees the complete
// node set regardless of walk order. Pass two extracts raw references from
// each file in parallel (extraction is a pure function of one file's content),
// then resolves references and inserts edges sequentially.
type Builder struct {
	categorizer *Categorizer
	extractor   *Extractor
	resolver    *Resolver
	logger      *slog.Logger
	workers     int
}

// NewBuilder wires the per-file stages together.
func NewBuilder(root string, categorizer *Categorizer, extractor *Extractor, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{
		categorizer: categorizer,
		extractor:   extractor,
		resolver:    NewResolver(root),
		logger:      logger,
		workers:     runtime.GOMAXPROCS(0),
	}
}

// Build produces the complete graph for the discovered file set. File read
// failures during extraction contribute no edges and never abort the build.
func (b *Builder) Build(files []DiscoveredFile) *Graph {
	g := NewGraph()

	for _, f := range files {
		g.AddNode(&FileNode{
			Key:      f.RelPath,
			Kind:     NodeInternal,
			Category: b.categorizer.Categorize(f.RelPath),
			Size:     f.Size,
			ModTime:  f.ModTime,
			Created:  f.ModTime,
		})
	}
	b.logger.Info("node registration complete", "nodes", len(g.Nodes))

	refs := b.extractAll(files)

	for i, f := range files {
		for _, ref := range refs[i] {
			resolved := b.resolver.Resolve(f.RelPath, ref)
			if resolved == "" {
				continue
			}
			if strings.HasPrefix(resolved, ExternalKeyPrefix) {
				g.AddNode(&FileNode{
					Key:      resolved,
					Kind:     NodeExternal,
					Package:  strings.TrimPrefix(resolved, ExternalKeyPrefix),
					Category: CategoryExternal,
				})
			}
			// Edges to on-disk files outside the scanned set are dropped.
			g.AddEdge(f.RelPath, resolved)
		}
	}
	b.logger.Info("dependency graph built", "edges", g.EdgeCount())

	return g
}

// extractAll runs reference extraction across a worker pool, returning raw
// reference lists positionally aligned with the input.
func (b *Builder) extractAll(files []DiscoveredFile) [][]string {
	refs := make([][]string, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				content, err := os.ReadFile(files[i].AbsPath)
				if err != nil {
					continue
				}
				refs[i] = b.extractor.Extract(files[i].RelPath, content)
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return refs
}
