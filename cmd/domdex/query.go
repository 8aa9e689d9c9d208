package main

import (
	"fmt"

	"github.com/fwojciec/domdex"
)

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	resolver, ok := deps.Resolvers[c.Engine]
	if !ok {
		err := domdex.Errorf(domdex.EINVALID, "unknown engine %q", c.Engine)
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

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

	matches, err := resolver.Resolve(doc.Simplified, doc.Index, c.Selector)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}
	if c.Original {
		for i := range matches {
			if orig, ok := doc.Mapping.Original(matches[i].NodeID); ok {
				matches[i].Annotations = map[string]string{"original": doc.Original.XPath(orig)}
			}
		}
	}
	return printMatches(deps, matches, c.JSON)
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
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

	policy := domdex.MatchAny
	if c.All {
		policy = domdex.MatchAll
	}
	matches, err := deps.Searcher.Search(doc.Simplified, doc.Index, c.Keywords, policy)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}
	if c.Limit > 0 && len(matches) > c.Limit {
		matches = matches[:c.Limit]
	}
	return printMatches(deps, matches, c.JSON)
}

func printMatches(deps *Dependencies, matches []domdex.MatchResult, asJSON bool) error {
	if asJSON {
		if matches == nil {
			matches = []domdex.MatchResult{}
		}
		return writeJSON(deps.Stdout, matches)
	}
	if len(matches) == 0 {
		fmt.Fprintln(deps.Stdout, "No matches.")
		return nil
	}
	fmt.Fprintln(deps.Stdout, domdex.FormatMatches(matches))
	return nil
}

// Run executes the diff command.
func (c *DiffCmd) Run(deps *Dependencies) error {
	p, err := c.configure(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

	before, err := process(p, c.Before)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}
	after, err := process(p, c.After)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

	delta := domdex.NewStatsDelta(before.Stats, before.Simplified, after.Stats, after.Simplified)
	return printDiff(deps, before.Simplified, after.Simplified, delta, c.JSON)
}

func printDiff(deps *Dependencies, before, after *domdex.Tree, delta *domdex.StatsDelta, asJSON bool) error {
	res, err := deps.Differ.Diff(before, after)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}
	res.Stats = delta
	if asJSON {
		return writeJSON(deps.Stdout, res)
	}
	fmt.Fprintln(deps.Stdout, domdex.FormatDiff(res))
	return nil
}
