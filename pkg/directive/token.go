// Package directive implements the lexer, parser and syntax tree for the
// per-field widget directive micro-language:
//
//	""                                   -> Empty
//	drag                                 -> Word
//	label = "Speed"                      -> Pairs
//	slider(label = "Speed", min = 0.0)   -> Call
package directive

// TokenType identifies the kind of lexical token.
type TokenType int

const (
	TokenEOF    TokenType = iota
	TokenIdent            // bare word, possibly dotted (pkg.Const)
	TokenString           // "quoted" or 'quoted'
	TokenInt              // 123
	TokenFloat            // 1.5, 1e3
	TokenEQ               // =
	TokenComma            // ,
	TokenMinus            // -
	TokenLParen           // (
	TokenRParen           // )
	TokenIllegal
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of directive"
	case TokenIdent:
		return "identifier"
	case TokenString:
		return "string"
	case TokenInt:
		return "integer"
	case TokenFloat:
		return "float"
	case TokenEQ:
		return "'='"
	case TokenComma:
		return "','"
	case TokenMinus:
		return "'-'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	default:
		return "illegal token"
	}
}

// Token is a single lexical token. Positions are relative to the directive
// text: Pos is a byte offset, Line and Col are 1-based.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
	Line    int
	Col     int
}
