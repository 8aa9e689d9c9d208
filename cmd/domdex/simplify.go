package main

import (
	"bytes"
	"fmt"

	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/fs"
	"github.com/fwojciec/domdex/yaml"
)

// Run executes the simplify command.
func (c *SimplifyCmd) Run(deps *Dependencies) error {
	exp, ok := deps.Exporters[c.Format]
	if !ok {
		err := domdex.Errorf(domdex.EINVALID, "unknown format %q", c.Format)
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

	p, err := c.configure(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

	sources := make([][]byte, len(c.Files))
	for i, path := range c.Files {
		if sources[i], err = readFile(path); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
			return err
		}
	}

	docs, err := p.ProcessAll(deps.Ctx, sources, c.Concurrency)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}

	if c.OutDir == "" {
		for _, doc := range docs {
			var buf bytes.Buffer
			if err := exp.Export(&buf, doc.Simplified); err != nil {
				return err
			}
			if err := writeLine(deps.Stdout, buf.Bytes()); err != nil {
				return err
			}
		}
		return nil
	}

	w := fs.NewWriter(c.OutDir)
	for i, doc := range docs {
		path, err := w.WriteTree(c.Files[i], exp, doc.Simplified)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s -> %s (%d -> %d nodes)\n",
			c.Files[i], path, doc.Stats.OriginalNodes, doc.Stats.RetainedNodes)
	}
	return nil
}

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
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

	profile := domdex.Describe(doc.Simplified)
	if c.JSON {
		return writeJSON(deps.Stdout, struct {
			Stats   domdex.Stats   `json:"stats"`
			Profile domdex.Profile `json:"profile"`
		}{doc.Stats, profile})
	}

	fmt.Fprintln(deps.Stdout, domdex.FormatStats(doc.Stats))
	fmt.Fprintln(deps.Stdout, domdex.FormatProfile(profile))
	return nil
}

// Run executes the rules command.
func (c *RulesCmd) Run(deps *Dependencies) error {
	rules, err := c.ruleset()
	if err == nil {
		err = rules.Validate()
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domdex.ErrorMessage(err))
		return err
	}
	return yaml.EncodeRuleset(deps.Stdout, rules)
}
