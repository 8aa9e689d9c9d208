// Package yaml loads simplification rulesets from YAML files.
package yaml

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/fwojciec/domdex"
	"gopkg.in/yaml.v3"
)

// rulesetFile is the on-disk form of a ruleset. Absent fields keep their
// DefaultRuleset values; an explicit empty list clears them.
type rulesetFile struct {
	CodeTags         *[]string `yaml:"code_tags"`
	MediaTags        *[]string `yaml:"media_tags"`
	MetadataTags     *[]string `yaml:"metadata_tags"`
	ContentRoots     *[]string `yaml:"content_roots"`
	KeepComments     *bool     `yaml:"keep_comments"`
	CollapseWrappers *bool     `yaml:"collapse_wrappers"`
	WrapperExempt    *[]string `yaml:"wrapper_exempt"`
	IgnorableAttrs   *[]string `yaml:"ignorable_attrs"`
}

// LoadRuleset reads a ruleset file.
// Returns ENOTFOUND if the file does not exist and ERULESET if it is
// malformed, has unknown fields or describes invalid rules.
func LoadRuleset(path string) (*domdex.Ruleset, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domdex.Errorf(domdex.ENOTFOUND, "ruleset file %q not found", path)
	} else if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return DecodeRuleset(f)
}

// DecodeRuleset reads a ruleset document from r on top of the defaults.
func DecodeRuleset(r io.Reader) (*domdex.Ruleset, error) {
	var file rulesetFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, domdex.Errorf(domdex.ERULESET, "decode ruleset: %v", err)
	}

	rules := domdex.DefaultRuleset()
	file.apply(rules)
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

func (f *rulesetFile) apply(r *domdex.Ruleset) {
	setList(&r.CodeTags, f.CodeTags)
	setList(&r.MediaTags, f.MediaTags)
	setList(&r.MetadataTags, f.MetadataTags)
	setList(&r.ContentRoots, f.ContentRoots)
	setList(&r.WrapperExempt, f.WrapperExempt)
	setList(&r.IgnorableAttrs, f.IgnorableAttrs)
	if f.KeepComments != nil {
		r.KeepComments = *f.KeepComments
	}
	if f.CollapseWrappers != nil {
		r.CollapseWrappers = *f.CollapseWrappers
	}
}

func setList(dst *[]string, src *[]string) {
	if src == nil {
		return
	}
	*dst = append([]string{}, *src...)
}

// EncodeRuleset writes r as a ruleset document, listing every field.
func EncodeRuleset(w io.Writer, r *domdex.Ruleset) error {
	file := rulesetFile{
		CodeTags:         &r.CodeTags,
		MediaTags:        &r.MediaTags,
		MetadataTags:     &r.MetadataTags,
		ContentRoots:     &r.ContentRoots,
		KeepComments:     &r.KeepComments,
		CollapseWrappers: &r.CollapseWrappers,
		WrapperExempt:    &r.WrapperExempt,
		IgnorableAttrs:   &r.IgnorableAttrs,
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return err
	}
	return enc.Close()
}
