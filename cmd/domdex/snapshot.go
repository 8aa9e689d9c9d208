package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/bloom"
	"github.com/fwojciec/domdex/html"
)

// Run executes the snapshot save command.
func (c *SnapshotSaveCmd) Run(deps *Dependencies) error {
	p, err := c.configure(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}
	doc, err := process(p, c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

	markup, err := html.RenderString(doc.Simplified)
	if err != nil {
		return err
	}
	filter := bloom.NewTokenFilter(doc.Index)
	tokens, err := filter.MarshalBinary()
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name = filepath.Base(c.File)
	}
	snap := &domdex.Snapshot{
		Name:   name,
		Source: c.File,
		Markup: markup,
		Stats:  doc.Stats,
		Tokens: tokens,
	}
	if err := deps.Snapshots.CreateSnapshot(deps.Ctx, snap); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved snapshot %s (%s, %d nodes, ~%d tokens)\n",
		snap.ID, snap.Name, snap.Stats.RetainedNodes, filter.EstimatedCount())
	return nil
}

// Run executes the snapshot list command.
func (c *SnapshotListCmd) Run(deps *Dependencies) error {
	filter := domdex.SnapshotFilter{Keywords: c.Keywords, Limit: c.Limit}
	if c.Name != "" {
		filter.Name = &c.Name
	}

	snaps, err := deps.Snapshots.FindSnapshots(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

	if len(snaps) == 0 {
		fmt.Fprintln(deps.Stdout, "No snapshots found. Use 'domdex snapshot save' to create one.")
		return nil
	}

	for _, s := range snaps {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d nodes\n",
			s.ID, s.Name, s.CreatedAt.Format("2006-01-02 15:04:05"), s.Stats.RetainedNodes)
	}
	return nil
}

// Run executes the snapshot diff command. The stored snapshot is the
// earlier version.
func (c *SnapshotDiffCmd) Run(deps *Dependencies) error {
	snap, err := deps.Snapshots.FindSnapshotByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

	p, err := c.configure(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}
	before, err := p.Process([]byte(snap.Markup))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: snapshot %s: %s\n", snap.ID, domdex.ErrorMessage(err))
		return err
	}
	after, err := process(p, c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

	delta := &domdex.StatsDelta{
		Before:         snap.Stats,
		After:          after.Stats,
		BeforeElements: len(before.Simplified.Elements()),
		AfterElements:  len(after.Simplified.Elements()),
	}
	return printDiff(deps, before.Simplified, after.Simplified, delta, c.JSON)
}

// snapshotMatches is one snapshot of a search result.
type snapshotMatches struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	CreatedAt time.Time            `json:"createdAt"`
	Matches   []domdex.MatchResult `json:"matches"`
}

// Run executes the snapshot search command. Token filters only narrow the
// candidates; every candidate is searched before it is reported.
func (c *SnapshotSearchCmd) Run(deps *Dependencies) error {
	p, err := c.configure(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

	filter := domdex.SnapshotFilter{Keywords: c.Keywords, AnyKeyword: !c.All}
	if c.Name != "" {
		filter.Name = &c.Name
	}
	snaps, err := deps.Snapshots.FindSnapshots(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

	policy := domdex.MatchAny
	if c.All {
		policy = domdex.MatchAll
	}
	results := []snapshotMatches{}
	for _, snap := range snaps {
		doc, err := p.Process([]byte(snap.Markup))
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: snapshot %s: %s\n", snap.ID, domdex.ErrorMessage(err))
			return err
		}
		matches, err := deps.Searcher.Search(doc.Simplified, doc.Index, c.Keywords, policy)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
			return err
		}
		if len(matches) == 0 {
			continue
		}
		results = append(results, snapshotMatches{ID: snap.ID, Name: snap.Name, CreatedAt: snap.CreatedAt, Matches: matches})
		if c.Limit > 0 && len(results) == c.Limit {
			break
		}
	}

	if c.JSON {
		return writeJSON(deps.Stdout, results)
	}
	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No matches.")
		return nil
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprintf(deps.Stdout, "== %s  %s  %d matches\n", r.ID, r.Name, len(r.Matches))
		fmt.Fprintln(deps.Stdout, domdex.FormatMatches(r.Matches))
	}
	return nil
}

// Run executes the snapshot delete command.
func (c *SnapshotDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return domdex.Errorf(domdex.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Snapshots.DeleteSnapshot(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted snapshot %s\n", c.ID)
	return nil
}
