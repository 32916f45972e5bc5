package emit

import (
	"strings"
	"unicode"

	"github.com/lib/pq"
)

// PostgreSQL reserved words that need quoting
var reservedWords = map[string]bool{
	"all":     true,
	"and":     true,
	"any":     true,
	"array":   true,
	"as":      true,
	"case":    true,
	"cast":    true,
	"check":   true,
	"create":  true,
	"default": true,
	"do":      true,
	"else":    true,
	"end":     true,
	"false":   true,
	"from":    true,
	"grant":   true,
	"group":   true,
	"in":      true,
	"not":     true,
	"null":    true,
	"on":      true,
	"or":      true,
	"order":   true,
	"select":  true,
	"table":   true,
	"then":    true,
	"to":      true,
	"true":    true,
	"union":   true,
	"unique":  true,
	"user":    true,
	"using":   true,
	"when":    true,
	"where":   true,
	"with":    true,
}

// NeedsQuoting checks if an identifier needs to be quoted
func NeedsQuoting(identifier string) bool {
	if identifier == "" {
		return false
	}

	// Check if it's a reserved word
	if reservedWords[strings.ToLower(identifier)] {
		return true
	}

	// Check if it contains uppercase letters (PostgreSQL folds unquoted to lowercase)
	for _, r := range identifier {
		if unicode.IsUpper(r) {
			return true
		}
	}

	// Check if it starts with non-letter or contains special characters
	for i, r := range identifier {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return true
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return true
		}
	}

	return false
}

// QuoteIdentifier adds quotes to an identifier if needed
func QuoteIdentifier(identifier string) string {
	if NeedsQuoting(identifier) {
		return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
	}
	return identifier
}

// QuoteAlways double-quotes an identifier unconditionally. Argument and
// column names are always quoted in generated signatures.
func QuoteAlways(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

// QuoteLiteral renders a SQL string literal (enum labels, initial
// conditions)
func QuoteLiteral(literal string) string {
	return pq.QuoteLiteral(literal)
}
