package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/diff"
	"github.com/fwojciec/domdex/etree"
	"github.com/fwojciec/domdex/goquery"
	"github.com/fwojciec/domdex/html"
	"github.com/fwojciec/domdex/htmltomarkdown"
	"github.com/fwojciec/domdex/pipeline"
	"github.com/fwojciec/domdex/search"
	"github.com/fwojciec/domdex/selector"
	dxslog "github.com/fwojciec/domdex/slog"
	"github.com/fwojciec/domdex/sqlite"
	"github.com/fwojciec/domdex/xpath"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by the snapshot commands.
	DB *sqlite.DB

	// Snapshots overrides the SQLite snapshot service when set.
	Snapshots domdex.SnapshotService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("domdex"),
		kong.Description("Simplify, index, query and diff HTML documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'domdex --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	m.wire(deps, logger, cli.Verbose)

	if strings.HasPrefix(kongCtx.Command(), "snapshot ") {
		if err := m.openSnapshots(deps, logger, cli.Verbose); err != nil {
			fmt.Fprintf(stderr, "Hint: Set DOMDEX_DB to use a different database path\n")
			return err
		}
		defer m.Close()
	}

	return kongCtx.Run(deps)
}

// wire fills deps with the engine components, wrapped in logging
// decorators when verbose is set.
func (m *Main) wire(deps *Dependencies, logger *slog.Logger, verbose bool) {
	p := pipeline.New()
	resolvers := map[string]domdex.Resolver{
		"native":  selector.NewResolver(),
		"goquery": goquery.NewResolver(),
		"xpath":   xpath.NewResolver(),
	}
	var searcher domdex.Searcher = search.NewEngine()
	var differ domdex.Differ = diff.NewDiffer()

	if verbose {
		p.Parser = dxslog.NewLoggingParser(p.Parser, logger)
		p.Simplifier = dxslog.NewLoggingSimplifier(p.Simplifier, logger)
		p.Indexer = dxslog.NewLoggingIndexer(p.Indexer, logger)
		for name, r := range resolvers {
			resolvers[name] = dxslog.NewLoggingResolver(r, logger)
		}
		searcher = dxslog.NewLoggingSearcher(searcher, logger)
		differ = dxslog.NewLoggingDiffer(differ, logger)
	}

	deps.Pipeline = p
	deps.Resolvers = resolvers
	deps.Searcher = searcher
	deps.Differ = differ
	deps.Exporters = map[string]domdex.Exporter{}
	for _, exp := range []domdex.Exporter{
		html.NewExporter(),
		etree.NewExporter(),
		htmltomarkdown.NewExporter(),
		&jsonExporter{},
	} {
		deps.Exporters[exp.Name()] = exp
	}
}

// openSnapshots opens the snapshot database unless a service was injected.
func (m *Main) openSnapshots(deps *Dependencies, logger *slog.Logger, verbose bool) error {
	svc := m.Snapshots
	if svc == nil {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		svc = sqlite.NewSnapshotService(m.DB)
	}
	if verbose {
		svc = dxslog.NewLoggingSnapshotService(svc, logger)
	}
	deps.Snapshots = svc
	return nil
}

func defaultDBPath() string {
	if path := os.Getenv("DOMDEX_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "domdex.db"
	}
	dir := filepath.Join(home, ".domdex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "domdex.db")
}
