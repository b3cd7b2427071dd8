package types

// ParsedText is the output of the text-processing collaborator for a single
// free-text column value.
type ParsedText struct {
	Text   string  `json:"text"`
	Tokens []Token `json:"tokens"`
}

// Token is a single token of a ParsedText with its byte offset into Text.
type Token struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
}

// Len returns the number of tokens.
func (p *ParsedText) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Tokens)
}

// String returns the source text.
func (p *ParsedText) String() string {
	if p == nil {
		return ""
	}
	return p.Text
}

// TextParser turns free text into a ParsedText. Parse must return a non-nil
// value for non-empty text.
type TextParser interface {
	Parse(text string) *ParsedText
}
