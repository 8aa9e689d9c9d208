package domdex

import (
	"fmt"
	"sort"
	"strings"
)

// FormatMatches formats match results for display, one block per match.
// Matches are separated by blank lines.
func FormatMatches(matches []MatchResult) string {
	if len(matches) == 0 {
		return ""
	}

	parts := make([]string, 0, len(matches))
	for i, m := range matches {
		var b strings.Builder
		fmt.Fprintf(&b, "%d. <%s> #%d\n", i+1, m.Tag, m.NodeID)
		fmt.Fprintf(&b, "   xpath: %s\n", m.XPath)
		if m.CSS != "" {
			fmt.Fprintf(&b, "   css:   %s\n", m.CSS)
		}
		if m.Score > 0 {
			fmt.Fprintf(&b, "   score: %d\n", m.Score)
		}
		if m.Snippet != "" {
			fmt.Fprintf(&b, "   text:  %s\n", m.Snippet)
		}
		names := make([]string, 0, len(m.Annotations))
		for name := range m.Annotations {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "   %s: %s\n", name, m.Annotations[name])
		}
		parts = append(parts, strings.TrimRight(b.String(), "\n"))
	}

	return strings.Join(parts, "\n\n")
}

// FormatDiff formats a diff result as a summary line, the statistics delta
// when present, and one line per change.
func FormatDiff(d *DiffResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d added, %d removed, %d modified, %d moved",
		d.Summary.Added, d.Summary.Removed, d.Summary.Modified, d.Summary.Moved)

	if s := d.Stats; s != nil {
		x, y := s.Before, s.After
		fmt.Fprintf(&b, "\nnodes: %d -> %d (%+d)", x.RetainedNodes, y.RetainedNodes, y.RetainedNodes-x.RetainedNodes)
		fmt.Fprintf(&b, "\nelements: %d -> %d (%+d)", s.BeforeElements, s.AfterElements, s.AfterElements-s.BeforeElements)
		fmt.Fprintf(&b, "\nbytes: %d -> %d (%+d)", x.SimplifiedBytes, y.SimplifiedBytes, y.SimplifiedBytes-x.SimplifiedBytes)
		fmt.Fprintf(&b, "\nremoved: code=%+d media=%+d metadata=%+d comments=%+d whitespace=%+d collapsed=%+d merged=%+d",
			y.Removed.Code-x.Removed.Code, y.Removed.Media-x.Removed.Media,
			y.Removed.Metadata-x.Removed.Metadata, y.Removed.Comments-x.Removed.Comments,
			y.Removed.Whitespace-x.Removed.Whitespace, y.Removed.Collapsed-x.Removed.Collapsed,
			y.Removed.Merged-x.Removed.Merged)
	}

	for _, c := range d.Changes {
		b.WriteByte('\n')
		switch c.Kind {
		case Added:
			fmt.Fprintf(&b, "+ %s (%d nodes)", c.AfterPath, c.Size)
		case Removed:
			fmt.Fprintf(&b, "- %s (%d nodes)", c.BeforePath, c.Size)
		case Moved:
			fmt.Fprintf(&b, "> %s -> %s (index %d -> %d)", c.BeforePath, c.AfterPath, c.FromIndex, c.ToIndex)
		case Modified:
			fmt.Fprintf(&b, "~ %s", c.AfterPath)
			for _, a := range c.Attrs {
				switch a.Kind {
				case AttrAdded:
					fmt.Fprintf(&b, "\n    @%s added %q", a.Name, a.After)
				case AttrRemoved:
					fmt.Fprintf(&b, "\n    @%s removed %q", a.Name, a.Before)
				default:
					fmt.Fprintf(&b, "\n    @%s %q -> %q", a.Name, a.Before, a.After)
				}
			}
			if c.Text != nil {
				fmt.Fprintf(&b, "\n    text %q -> %q", c.Text.Before, c.Text.After)
			}
		}
	}

	return b.String()
}

// FormatStats formats simplification statistics.
func FormatStats(s Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "nodes: %d -> %d\n", s.OriginalNodes, s.RetainedNodes)
	fmt.Fprintf(&b, "bytes: %d -> %d\n", s.OriginalBytes, s.SimplifiedBytes)
	fmt.Fprintf(&b, "removed: code=%d media=%d metadata=%d comments=%d whitespace=%d collapsed=%d merged=%d",
		s.Removed.Code, s.Removed.Media, s.Removed.Metadata, s.Removed.Comments,
		s.Removed.Whitespace, s.Removed.Collapsed, s.Removed.Merged)
	return b.String()
}

// FormatProfile formats a structure profile: totals, the most common tags
// and attributes, and the number of elements at each depth.
func FormatProfile(p Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "elements: %d (max depth %d, %d text, %d comments)",
		p.Elements, p.MaxDepth, p.TextNodes, p.CommentNodes)
	if len(p.TopTags) > 0 {
		b.WriteString("\ntags:")
		for _, c := range p.TopTags {
			fmt.Fprintf(&b, " %s=%d", c.Name, c.Count)
		}
	}
	if len(p.TopAttributes) > 0 {
		b.WriteString("\nattributes:")
		for _, c := range p.TopAttributes {
			fmt.Fprintf(&b, " %s=%d", c.Name, c.Count)
		}
	}
	if len(p.Depths) > 0 {
		depths := make([]int, 0, len(p.Depths))
		for d := range p.Depths {
			depths = append(depths, d)
		}
		sort.Ints(depths)
		b.WriteString("\ndepths:")
		for _, d := range depths {
			fmt.Fprintf(&b, " %d=%d", d, p.Depths[d])
		}
	}
	return b.String()
}
