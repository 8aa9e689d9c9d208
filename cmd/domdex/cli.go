package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/pipeline"
	"github.com/fwojciec/domdex/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Pipeline  *pipeline.Pipeline
	Resolvers map[string]domdex.Resolver
	Searcher  domdex.Searcher
	Differ    domdex.Differ
	Exporters map[string]domdex.Exporter
	Snapshots domdex.SnapshotService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log engine calls to stderr"`

	Simplify SimplifyCmd `cmd:"" help:"Simplify markup files and export the result"`
	Stats    StatsCmd    `cmd:"" help:"Show simplification and structure statistics"`
	Query    QueryCmd    `cmd:"" help:"Find elements by CSS or XPath selector"`
	Search   SearchCmd   `cmd:"" help:"Find elements by keywords"`
	Diff     DiffCmd     `cmd:"" help:"Compare two versions of a document"`
	Snapshot SnapshotCmd `cmd:"" help:"Manage stored snapshots"`
	Rules    RulesCmd    `cmd:"" help:"Print the effective ruleset as YAML"`
}

// RulesFlags selects the simplification ruleset.
type RulesFlags struct {
	Rules        string `help:"YAML ruleset file" type:"path"`
	Collapse     bool   `help:"Collapse single-child wrapper elements"`
	KeepComments bool   `help:"Keep comment nodes"`
}

// ruleset returns the configured ruleset.
func (f RulesFlags) ruleset() (*domdex.Ruleset, error) {
	rules := domdex.DefaultRuleset()
	if f.Rules != "" {
		var err error
		if rules, err = yaml.LoadRuleset(f.Rules); err != nil {
			return nil, err
		}
	}
	if f.Collapse {
		rules.CollapseWrappers = true
	}
	if f.KeepComments {
		rules.KeepComments = true
	}
	return rules, nil
}

// configure returns the dependency pipeline configured with the flags' ruleset.
func (f RulesFlags) configure(deps *Dependencies) (*pipeline.Pipeline, error) {
	rules, err := f.ruleset()
	if err != nil {
		return nil, err
	}
	p := *deps.Pipeline
	p.Rules = rules
	return &p, nil
}

// SimplifyCmd is the "simplify" subcommand.
type SimplifyCmd struct {
	RulesFlags `embed:""`

	Files       []string `arg:"" help:"Markup files"`
	Format      string   `short:"f" default:"html" enum:"html,xml,markdown,json" help:"Output format (html, xml, markdown, json)"`
	OutDir      string   `short:"o" help:"Write one file per input into this directory instead of stdout" type:"path"`
	Concurrency int      `short:"c" default:"4" help:"Files processed in parallel"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct {
	RulesFlags `embed:""`

	File string `arg:"" help:"Markup file"`
	JSON bool   `help:"Print JSON"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	RulesFlags `embed:""`

	File     string `arg:"" help:"Markup file"`
	Selector string `arg:"" help:"CSS selector, or XPath expression starting with /"`
	Engine   string `short:"e" default:"native" enum:"native,goquery,xpath" help:"Selector engine (native, goquery, xpath)"`
	Original bool   `help:"Annotate matches with their path in the unsimplified document"`
	JSON     bool   `help:"Print JSON"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	RulesFlags `embed:""`

	File     string   `arg:"" help:"Markup file"`
	Keywords []string `arg:"" help:"Keywords"`
	All      bool     `help:"Require every keyword"`
	Limit    int      `short:"n" default:"0" help:"Maximum number of results (0 for all)"`
	JSON     bool     `help:"Print JSON"`
}

// DiffCmd is the "diff" subcommand.
type DiffCmd struct {
	RulesFlags `embed:""`

	Before string `arg:"" help:"Earlier version"`
	After  string `arg:"" help:"Later version"`
	JSON   bool   `help:"Print JSON"`
}

// SnapshotCmd groups the snapshot subcommands.
type SnapshotCmd struct {
	Save   SnapshotSaveCmd   `cmd:"" help:"Simplify a file and store it as a snapshot"`
	List   SnapshotListCmd   `cmd:"" help:"List stored snapshots"`
	Diff   SnapshotDiffCmd   `cmd:"" help:"Compare a stored snapshot with a file"`
	Search SnapshotSearchCmd `cmd:"" help:"Find stored snapshots containing keywords"`
	Delete SnapshotDeleteCmd `cmd:"" help:"Delete a stored snapshot"`
}

// SnapshotSaveCmd is the "snapshot save" subcommand.
type SnapshotSaveCmd struct {
	RulesFlags `embed:""`

	File string `arg:"" help:"Markup file"`
	Name string `help:"Snapshot name (defaults to the file name)"`
}

// SnapshotListCmd is the "snapshot list" subcommand.
type SnapshotListCmd struct {
	Name     string   `help:"Only snapshots with this name"`
	Keywords []string `name:"keyword" short:"k" help:"Only snapshots that may contain the keyword (repeatable)"`
	Limit    int      `short:"n" default:"0" help:"Maximum number of snapshots (0 for all)"`
}

// SnapshotDiffCmd is the "snapshot diff" subcommand.
type SnapshotDiffCmd struct {
	RulesFlags `embed:""`

	ID   string `arg:"" help:"Snapshot ID"`
	File string `arg:"" help:"Later version"`
	JSON bool   `help:"Print JSON"`
}

// SnapshotSearchCmd is the "snapshot search" subcommand.
type SnapshotSearchCmd struct {
	RulesFlags `embed:""`

	Keywords []string `arg:"" help:"Keywords"`
	All      bool     `help:"Require every keyword"`
	Name     string   `help:"Only snapshots with this name"`
	Limit    int      `short:"n" default:"0" help:"Maximum number of snapshots (0 for all)"`
	JSON     bool     `help:"Print JSON"`
}

// RulesCmd is the "rules" subcommand.
type RulesCmd struct {
	RulesFlags `embed:""`
}

// SnapshotDeleteCmd is the "snapshot delete" subcommand.
type SnapshotDeleteCmd struct {
	ID    string `arg:"" help:"Snapshot ID"`
	Force bool   `help:"Confirm deletion"`
}

// readFile reads an input file.
func readFile(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domdex.Errorf(domdex.ENOTFOUND, "file %q not found", path)
	}
	return src, err
}

// process reads and processes one input file.
func process(p *pipeline.Pipeline, path string) (*domdex.Document, error) {
	src, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return p.Process(src)
}
