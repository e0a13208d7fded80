package errors

import "testing"

func TestErrorCodeTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		phase    string
		category string
	}{
		{"LEX001", LEX001, "lexer", "syntax"},
		{"LEX002", LEX002, "lexer", "syntax"},
		{"PAR001", PAR001, "parser", "syntax"},
		{"PAR006", PAR006, "parser", "syntax"},
		{"PAR008", PAR008, "parser", "syntax"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, exists := GetErrorInfo(tt.code)
			if !exists {
				t.Fatalf("error code %s not found in registry", tt.code)
			}
			if info.Code != tt.code {
				t.Errorf("code mismatch: got %s, want %s", info.Code, tt.code)
			}
			if info.Phase != tt.phase {
				t.Errorf("phase mismatch for %s: got %s, want %s", tt.code, info.Phase, tt.phase)
			}
			if info.Category != tt.category {
				t.Errorf("category mismatch for %s: got %s, want %s", tt.code, info.Category, tt.category)
			}
		})
	}
}

func TestErrorTypeCheckers(t *testing.T) {
	if !IsLexerError(LEX001) {
		t.Errorf("IsLexerError(%s) = false, want true", LEX001)
	}
	if IsParserError(LEX001) {
		t.Errorf("IsParserError(%s) = true, want false", LEX001)
	}
	if !IsParserError(PAR001) {
		t.Errorf("IsParserError(%s) = false, want true", PAR001)
	}
	if IsLexerError(PAR001) {
		t.Errorf("IsLexerError(%s) = true, want false", PAR001)
	}
}

func TestAllErrorCodesInRegistry(t *testing.T) {
	allCodes := []string{
		LEX001, LEX002,
		PAR001, PAR002, PAR003, PAR004, PAR005, PAR006, PAR007, PAR008, PAR999,
	}

	for _, code := range allCodes {
		t.Run(code, func(t *testing.T) {
			if _, exists := GetErrorInfo(code); !exists {
				t.Errorf("error code %s is defined but not in registry", code)
			}
		})
	}

	if len(ErrorRegistry) != len(allCodes) {
		t.Errorf("registry has %d codes, expected %d", len(ErrorRegistry), len(allCodes))
	}
}

func TestErrorInfoConsistency(t *testing.T) {
	for code, info := range ErrorRegistry {
		if info.Code != code {
			t.Errorf("code mismatch in registry: key=%s, info.Code=%s", code, info.Code)
		}
		if len(code) < 4 || len(code) > 6 {
			t.Errorf("invalid code format: %s", code)
		}
		validPhases := map[string]bool{"lexer": true, "parser": true}
		if !validPhases[info.Phase] {
			t.Errorf("invalid phase for %s: %s", code, info.Phase)
		}
		if info.Description == "" {
			t.Errorf("empty description for %s", code)
		}
	}
}
