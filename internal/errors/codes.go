// Package errors provides centralized error code definitions for Noolang's
// lexer and parser phases. The type checker has its own structured error
// type (internal/types.TypeCheckError) since its Kind taxonomy is tied
// directly to spec.md §7; this package covers the phases upstream of it.
package errors

// Error code constants organized by phase.
const (
	// ============================================================================
	// Lexer Errors (LEX###)
	// ============================================================================

	// LEX001 indicates an illegal/unrecognized character
	LEX001 = "LEX001"

	// LEX002 indicates an unterminated string literal
	LEX002 = "LEX002"

	// ============================================================================
	// Parser Errors (PAR###)
	// ============================================================================

	// PAR001 indicates an unexpected token was encountered during parsing
	PAR001 = "PAR001"

	// PAR002 indicates a missing closing delimiter (paren, bracket, brace)
	PAR002 = "PAR002"

	// PAR003 indicates invalid function literal syntax
	PAR003 = "PAR003"

	// PAR004 indicates invalid type declaration syntax
	PAR004 = "PAR004"

	// PAR005 indicates invalid import statement syntax
	PAR005 = "PAR005"

	// PAR006 indicates invalid pattern syntax
	PAR006 = "PAR006"

	// PAR007 indicates invalid type annotation syntax
	PAR007 = "PAR007"

	// PAR008 indicates invalid trait/implement declaration syntax
	PAR008 = "PAR008"

	// PAR999 is a generic parser-panic code. It is registered in the code
	// table, but no parser path currently emits it.
	PAR999 = "PAR999"
)

// ErrorInfo provides structured information about an error code.
type ErrorInfo struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// ErrorRegistry maps error codes to their information.
var ErrorRegistry = map[string]ErrorInfo{
	LEX001: {LEX001, "lexer", "syntax", "Illegal character"},
	LEX002: {LEX002, "lexer", "syntax", "Unterminated string literal"},

	PAR001: {PAR001, "parser", "syntax", "Unexpected token"},
	PAR002: {PAR002, "parser", "syntax", "Missing closing delimiter"},
	PAR003: {PAR003, "parser", "syntax", "Invalid function literal"},
	PAR004: {PAR004, "parser", "syntax", "Invalid type declaration"},
	PAR005: {PAR005, "parser", "syntax", "Invalid import statement"},
	PAR006: {PAR006, "parser", "syntax", "Invalid pattern"},
	PAR007: {PAR007, "parser", "syntax", "Invalid type annotation"},
	PAR008: {PAR008, "parser", "syntax", "Invalid trait/implement declaration"},
	PAR999: {PAR999, "parser", "internal", "Parser panic"},
}

// GetErrorInfo returns information about an error code.
func GetErrorInfo(code string) (ErrorInfo, bool) {
	info, exists := ErrorRegistry[code]
	return info, exists
}

// IsLexerError checks if the error code is a lexer error.
func IsLexerError(code string) bool {
	info, exists := GetErrorInfo(code)
	return exists && info.Phase == "lexer"
}

// IsParserError checks if the error code is a parser error.
func IsParserError(code string) bool {
	info, exists := GetErrorInfo(code)
	return exists && info.Phase == "parser"
}
