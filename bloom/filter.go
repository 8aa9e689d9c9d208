// Package bloom provides token membership filters using Bloom filters.
//
// A snapshot stores the filter of its indexed text tokens so keyword
// queries across many stored snapshots can skip those that certainly lack
// a keyword without re-parsing their markup.
package bloom

import (
	"bytes"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/domdex"
)

// DefaultFalsePositiveRate is the rate used by NewTokenFilter.
const DefaultFalsePositiveRate = 0.01

// Filter wraps a Bloom filter over text tokens.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewTokenFilter creates a filter holding every text token of idx.
func NewTokenFilter(idx *domdex.Index) *Filter {
	tokens := idx.Tokens()
	f := NewFilter(uint(len(tokens)), DefaultFalsePositiveRate)
	for _, tok := range tokens {
		f.Add(tok)
	}
	return f
}

// Add adds a token to the filter.
func (f *Filter) Add(token string) {
	f.f.AddString(token)
}

// Test returns true if the token might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(token string) bool {
	return f.f.TestString(token)
}

// TestAll reports whether every token of every keyword might be in the
// filter. Keywords are tokenized the way the index tokenizes text.
func (f *Filter) TestAll(keywords []string) bool {
	for _, kw := range keywords {
		for _, tok := range domdex.Tokenize(kw) {
			if !f.Test(tok) {
				return false
			}
		}
	}
	return true
}

// TestAny reports whether at least one keyword token might be in the
// filter. It returns false when the keywords hold no tokens.
func (f *Filter) TestAny(keywords []string) bool {
	for _, kw := range keywords {
		for _, tok := range domdex.Tokenize(kw) {
			if f.Test(tok) {
				return true
			}
		}
	}
	return false
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// MarshalBinary encodes the filter for storage.
func (f *Filter) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a filter written by MarshalBinary.
func (f *Filter) UnmarshalBinary(data []byte) error {
	bf := &bloom.BloomFilter{}
	if _, err := bf.ReadFrom(bytes.NewReader(data)); err != nil {
		return domdex.Errorf(domdex.EINVALID, "decode token filter: %v", err)
	}
	f.f = bf
	return nil
}

// Decode returns the filter encoded in data.
func Decode(data []byte) (*Filter, error) {
	f := &Filter{}
	if err := f.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return f, nil
}
