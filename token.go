package domdex

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is a lowercased word of a text together with its byte range in the
// text it was cut from.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokens splits s on whitespace and punctuation and lowercases each word.
// Letters and digits form words; everything else separates them. There is
// no minimum length and no stop-word list.
func Tokens(s string) []Token {
	var tokens []Token
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, Token{Text: strings.ToLower(s[start:i]), Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: strings.ToLower(s[start:]), Start: start, End: len(s)})
	}
	return tokens
}

// Tokenize returns only the words of Tokens(s).
func Tokenize(s string) []string {
	tokens := Tokens(s)
	if len(tokens) == 0 {
		return nil
	}
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Text
	}
	return words
}

// Window returns about width runes of text centered on the byte range
// [start, end), marking cuts with "...".
func Window(text string, start, end, width int) string {
	if width <= 0 {
		width = DefaultSnippetWidth
	}
	if utf8.RuneCountInString(text) <= width {
		return text
	}

	match := utf8.RuneCountInString(text[start:end])
	before := (width - match) / 2
	if before < 0 {
		before = 0
	}

	// Walk back before runes from start.
	from := start
	for i := 0; i < before && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}
	// Walk forward until the window is full.
	to := from
	for i := 0; i < width && to < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}
	// Fill remaining budget backwards when the window hit the end.
	for utf8.RuneCountInString(text[from:to]) < width && from > 0 {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}

	out := text[from:to]
	if from > 0 {
		out = "..." + out
	}
	if to < len(text) {
		out += "..."
	}
	return out
}
