package lexer

import "fmt"

// TokenType identifies a lexical token kind.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	COMMENT

	IDENT
	FLOAT
	STRING

	// Keywords
	FN
	IF
	THEN
	ELSE
	MATCH
	WITH
	TYPE
	CONSTRAINT
	IMPLEMENT
	GIVEN
	IMPORT
	MUTABLE
	WHERE
	AND
	OR

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	EQ
	NEQ
	LT
	GT
	LTE
	GTE
	ARROW    // ->
	FARROW   // =>
	PIPE     // |
	SAFEPIPE // |?
	THRUSHR  // |>
	THRUSHL  // <|
	DOLLAR   // $
	BANG     // !
	AT       // @
	QUESTION // ?
	ASSIGN   // =
	COLON    // :

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON
	DOT
)

var names = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENT: "IDENT", FLOAT: "FLOAT", STRING: "STRING",
	FN: "fn", IF: "if", THEN: "then", ELSE: "else",
	MATCH: "match", WITH: "with", TYPE: "type",
	CONSTRAINT: "constraint", IMPLEMENT: "implement", GIVEN: "given",
	IMPORT: "import", MUTABLE: "mutable", WHERE: "where",
	AND: "and", OR: "or",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/",
	EQ: "==", NEQ: "!=", LT: "<", GT: ">", LTE: "<=", GTE: ">=",
	ARROW: "->", FARROW: "=>", PIPE: "|", SAFEPIPE: "|?",
	THRUSHR: "|>", THRUSHL: "<|", DOLLAR: "$", BANG: "!",
	AT: "@", QUESTION: "?", ASSIGN: "=", COLON: ":",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]", COMMA: ",", SEMICOLON: ";", DOT: ".",
}

func (t TokenType) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

var keywords = map[string]TokenType{
	"fn": FN, "if": IF, "then": THEN, "else": ELSE,
	"match": MATCH, "with": WITH, "type": TYPE,
	"constraint": CONSTRAINT, "implement": IMPLEMENT, "given": GIVEN,
	"import": IMPORT, "mutable": MUTABLE, "where": WHERE,
	"and": AND, "or": OR,
}

// LookupIdent returns the keyword TokenType for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Token is a single lexical token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	File    string
}

func (t Token) Position() string {
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}
func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, %s}", t.Type, t.Literal, t.Position())
}
