// Package lexer splits a line of PostFix source into tokens: string
// literals, booleans, integers, floats, and symbols, with `{ } [ ] ( )`
// always lexed as their own one-character symbol.
package lexer

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/postfixlang/postfix/pkg/types"
)

// Kind tags the classified form of a token's text.
type Kind int

const (
	SYM Kind = iota
	STR
	BOOL
	INT
	FLT
)

// Token is one classified lexeme.
type Token struct {
	Kind Kind
	Text string // for STR, the literal's body (quotes stripped)
}

// postfixLexer splits raw text into raw participle tokens: a quoted
// string, single-character punctuation, or a run of anything else.
// Classification into BOOL/INT/FLT/SYM happens afterward, in Tokenize —
// participle's lexer only needs to know where token boundaries fall.
var postfixLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Punct", Pattern: `[{}\[\]()]`},
	{Name: "Word", Pattern: `[^\s{}\[\]()"]+`},
})

// Tokenize lexes an entire line into a slice of Tokens. An unterminated
// string literal (a bare `"` with no matching close) produces a
// LexError: String requires a closing quote, and Word excludes `"`
// from its run so an unbalanced quote cannot fall through and be
// swallowed as a garbled symbol.
func Tokenize(line string) ([]Token, error) {
	lex, err := postfixLexer.LexString("", line)
	if err != nil {
		return nil, types.NewError(types.LexError, "%s", err)
	}

	var tokens []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, types.NewError(types.LexError, "%s", err)
		}
		if tok.EOF() {
			break
		}
		switch postfixLexer.Symbols()[tok.Type] {
		case "Whitespace":
			continue
		case "String":
			tokens = append(tokens, Token{Kind: STR, Text: stripQuotes(tok.Value)})
		case "Punct":
			tokens = append(tokens, Token{Kind: SYM, Text: tok.Value})
		case "Word":
			tokens = append(tokens, classify(tok.Value))
		default:
			tokens = append(tokens, classify(tok.Value))
		}
	}
	return tokens, nil
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

// classify applies the BOOL/INT/FLT/SYM precedence spec.md §4.1 names,
// applied in that order against a whitespace/punctuation-delimited run.
func classify(text string) Token {
	if text == "true" || text == "false" {
		return Token{Kind: BOOL, Text: text}
	}
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Token{Kind: INT, Text: text}
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return Token{Kind: FLT, Text: text}
	}
	return Token{Kind: SYM, Text: text}
}

// Value converts a Token into the types.Value the interpreter pushes.
func (t Token) Value() types.Value {
	switch t.Kind {
	case STR:
		return types.Str(t.Text)
	case BOOL:
		return types.Bool(t.Text == "true")
	case INT:
		n, _ := strconv.ParseInt(t.Text, 10, 64)
		return types.Int(n)
	case FLT:
		f, _ := strconv.ParseFloat(t.Text, 64)
		return types.Flt(f)
	default:
		return types.Sym(t.Text)
	}
}
