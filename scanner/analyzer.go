package scanner

import (
	"log/slog"
	"path/filepath"
	"sort"
)

// ProgressFunc receives coarse progress updates during a scan. stage is a
// short machine-readable phase name, percent is 0-100.
type ProgressFunc func(stage string, percent int, message string)

// Options configures one Analyzer. The zero value scans everything with
// defaults and stays silent.
type Options struct {
	// Include restricts discovery to these extensions/filenames. Empty means
	// all extensions.
	Include []string
	// ExcludedFolders are directory names excluded in addition to the
	// configured ones.
	ExcludedFolders []string
	Logger          *slog.Logger
	Progress        ProgressFunc
}

// Analyzer runs the full pipeline over one project root: discovery,
// categorization, graph build, asset connectivity, report compilation.
type Analyzer struct {
	root     string
	cfg      *Config
	opts     Options
	logger   *slog.Logger
	progress ProgressFunc

	discovery *Discovery
	builder   *Builder
}

// NewAnalyzer loads configuration from the root and wires the pipeline.
func NewAnalyzer(root string, opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(string, int, string) {}
	}

	root = filepath.Clean(root)
	cfg := LoadConfig(root, logger)

	categorizer := NewCategorizer(cfg.LanguageExtensions, nil)
	extractor := NewExtractor(cfg, logger)

	return &Analyzer{
		root:      root,
		cfg:       cfg,
		opts:      opts,
		logger:    logger,
		progress:  progress,
		discovery: NewDiscovery(root, cfg, opts.ExcludedFolders, opts.Include, logger),
		builder:   NewBuilder(root, categorizer, extractor, logger),
	}
}

// Config exposes the merged configuration the analyzer runs with.
func (a *Analyzer) Config() *Config { return a.cfg }

// Analyze performs the scan and returns the compiled report. The only fatal
// error is an invalid root; everything else degrades to partial results.
func (a *Analyzer) Analyze() (*Report, error) {
	files, err := a.discovery.Walk()
	if err != nil {
		return nil, err
	}
	a.progress("scanning", 15, "file discovery complete")
	a.logger.Info("scan complete", "files", len(files))

	g := a.builder.Build(files)
	a.progress("dependencies", 55, "dependency graph built")

	var scan *AssetScan
	if a.cfg.Analysis.CheckMissingAssets {
		scan = ScanAssets(files, g, a.builder.resolver)
	} else {
		scan = &AssetScan{
			Missing:    map[string][]string{},
			References: map[string][]string{},
			Referenced: map[string]bool{},
		}
	}
	a.progress("connectivity", 70, "asset connectivity analyzed")

	report := CompileReport(a.root, g, scan, NewAnalytics(a.cfg.Analysis), ReadExternalDeps(a.root))
	report.FoundExtensions = sortedKeys(a.discovery.FoundExtensions)
	report.UnfamiliarExtensions = a.builder.categorizer.UnfamiliarExtensions()
	a.progress("report", 90, "analysis report generated")
	a.logger.Info("analysis finished",
		"files", report.Summary.TotalFiles,
		"connections", report.Summary.TotalConnections,
		"score", report.Statistics.ConnectivityHealthScore)

	return report, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
