// Package textproc is the default text-processing collaborator. It
// normalizes free text to NFC, collapses runs of whitespace and splits it
// into word tokens with byte offsets.
package textproc

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mesh-intelligence/arxivset/pkg/types"
)

var _ types.TextParser = (*Tokenizer)(nil)

// reWord matches letters/digits joined by inner hyphens, apostrophes or
// dots, so "non-abelian", "o'neil" and "e.g" stay whole. LaTeX control
// words keep their backslash.
var reWord = regexp.MustCompile(`\\?[\p{L}\p{N}]+(?:['\-.][\p{L}\p{N}]+)*`)

// Tokenizer implements types.TextParser.
type Tokenizer struct {
	lower bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithLowercase lower-cases token text. The stored source text keeps its
// original case.
func WithLowercase() Option {
	return func(t *Tokenizer) { t.lower = true }
}

// New returns a Tokenizer.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Parse tokenizes text. Empty text returns nil; anything else, including
// whitespace-only text, returns a non-nil ParsedText, possibly without
// tokens.
func (t *Tokenizer) Parse(text string) *types.ParsedText {
	if text == "" {
		return nil
	}
	text = strings.Join(strings.Fields(norm.NFC.String(text)), " ")

	locs := reWord.FindAllStringIndex(text, -1)
	tokens := make([]types.Token, 0, len(locs))
	for _, loc := range locs {
		word := text[loc[0]:loc[1]]
		if t.lower {
			word = strings.ToLower(word)
		}
		tokens = append(tokens, types.Token{Text: word, Offset: loc[0]})
	}
	return &types.ParsedText{Text: text, Tokens: tokens}
}
