package domdex

import "strings"

// Ruleset configures simplification. Tags are lowercase element names.
type Ruleset struct {
	// CodeTags are removed with their subtree: scripts, styles and
	// embedded code.
	CodeTags []string `json:"codeTags"`

	// MediaTags are removed with their subtree: images and other binary
	// payload elements.
	MediaTags []string `json:"mediaTags"`

	// MetadataTags are removed with their subtree when they are not inside
	// one of ContentRoots.
	MetadataTags []string `json:"metadataTags"`
	ContentRoots []string `json:"contentRoots"`

	// KeepComments retains comment nodes.
	KeepComments bool `json:"keepComments"`

	// CollapseWrappers replaces an element that has exactly one element
	// child and no attributes besides IgnorableAttrs with that child.
	// Tags in WrapperExempt are never collapsed.
	CollapseWrappers bool     `json:"collapseWrappers"`
	WrapperExempt    []string `json:"wrapperExempt"`
	IgnorableAttrs   []string `json:"ignorableAttrs"`
}

// DefaultRuleset returns the default simplification rules. Wrapper
// collapsing is off so paths stay stable.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		CodeTags:       []string{"script", "style", "noscript", "template", "iframe", "object", "embed", "applet"},
		MediaTags:      []string{"img", "picture", "video", "audio", "source", "track", "canvas", "svg", "math"},
		MetadataTags:   []string{"head", "meta", "link", "base"},
		ContentRoots:   []string{"body", "main"},
		WrapperExempt:  []string{"html", "body", "main"},
		IgnorableAttrs: []string{"style"},
	}
}

// RemovalCategory names why a subtree was pruned.
type RemovalCategory int

// Removal categories.
const (
	KeepNode RemovalCategory = iota
	RemoveCode
	RemoveMedia
	RemoveMetadata
)

// Category returns the removal category of tag, ignoring content roots.
func (r *Ruleset) Category(tag string) RemovalCategory {
	switch {
	case contains(r.CodeTags, tag):
		return RemoveCode
	case contains(r.MediaTags, tag):
		return RemoveMedia
	case contains(r.MetadataTags, tag):
		return RemoveMetadata
	default:
		return KeepNode
	}
}

// IsContentRoot reports whether tag opens the primary content area.
func (r *Ruleset) IsContentRoot(tag string) bool {
	return contains(r.ContentRoots, tag)
}

// IsWrapperExempt reports whether tag must never be collapsed.
func (r *Ruleset) IsWrapperExempt(tag string) bool {
	return contains(r.WrapperExempt, tag)
}

// IsIgnorableAttr reports whether an attribute does not make a wrapper
// meaningful.
func (r *Ruleset) IsIgnorableAttr(name string) bool {
	return contains(r.IgnorableAttrs, name)
}

// Validate returns ERULESET if the ruleset is malformed.
func (r *Ruleset) Validate() error {
	seen := make(map[string]string)
	categories := []struct {
		name string
		tags []string
	}{
		{"code", r.CodeTags},
		{"media", r.MediaTags},
		{"metadata", r.MetadataTags},
	}
	for _, c := range categories {
		for _, tag := range c.tags {
			if !isTagName(tag) {
				return Errorf(ERULESET, "invalid %s tag %q", c.name, tag)
			}
			if prev, ok := seen[tag]; ok {
				return Errorf(ERULESET, "tag %q listed as both %s and %s", tag, prev, c.name)
			}
			seen[tag] = c.name
		}
	}

	for _, tag := range r.ContentRoots {
		if !isTagName(tag) {
			return Errorf(ERULESET, "invalid content root %q", tag)
		}
		if cat, ok := seen[tag]; ok {
			return Errorf(ERULESET, "content root %q is also a %s tag", tag, cat)
		}
	}
	if len(r.MetadataTags) > 0 && len(r.ContentRoots) == 0 {
		return Errorf(ERULESET, "metadata removal requires at least one content root")
	}

	for _, tag := range r.WrapperExempt {
		if !isTagName(tag) {
			return Errorf(ERULESET, "invalid wrapper exemption %q", tag)
		}
	}
	for _, name := range r.IgnorableAttrs {
		if name == "" || strings.ContainsAny(name, " \t\n\"'<>/=") {
			return Errorf(ERULESET, "invalid attribute name %q", name)
		}
	}
	return nil
}

func isTagName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '_' || r == ':' || r == '.'):
		default:
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
