package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Expression is a parsed compound module expression:
// name ('+' name)* ('!' name)*.
type Expression struct {
	Includes []string
	Excludes []string
}

// ParseExpression parses a compound module expression.
func ParseExpression(s string) (Expression, error) {
	parts := strings.Split(s, string(ModuleExclusion))

	var expr Expression
	for _, name := range strings.Split(parts[0], string(ModuleSeparator)) {
		if name == "" {
			return Expression{}, invalidExpression(s)
		}
		expr.Includes = append(expr.Includes, name)
	}
	for _, name := range parts[1:] {
		if name == "" || strings.ContainsRune(name, ModuleSeparator) {
			return Expression{}, invalidExpression(s)
		}
		expr.Excludes = append(expr.Excludes, name)
	}
	return expr, nil
}

func invalidExpression(s string) error {
	return zerr.With(zerr.Wrap(ErrInvalidExpression, "parse expression"), "expression", s)
}
