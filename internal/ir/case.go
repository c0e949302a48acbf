package ir

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CaseConvention is the detected spelling convention of a single identifier.
type CaseConvention int

const (
	CaseLower CaseConvention = iota
	CaseUpper
	CaseSnake
	CasePascal
	CaseScreamingSnake
)

func (c CaseConvention) String() string {
	switch c {
	case CaseLower:
		return "lowercase"
	case CaseUpper:
		return "UPPERCASE"
	case CaseSnake:
		return "snake_case"
	case CasePascal:
		return "PascalCase"
	case CaseScreamingSnake:
		return "SCREAMING_SNAKE_CASE"
	}
	return "invalid"
}

// DetectCase classifies s by its first character and the presence of
// underscores. A digit is not an upper-case character.
func DetectCase(s string) CaseConvention {
	if s == "" {
		return CaseLower
	}
	first := []rune(s)[0]
	underscore := strings.Contains(s, "_")
	if unicode.IsUpper(first) {
		switch {
		case underscore:
			return CaseScreamingSnake
		case !strings.ContainsFunc(s, notUpper):
			return CaseUpper
		default:
			return CasePascal
		}
	}
	if underscore {
		return CaseSnake
	}
	return CaseLower
}

func notUpper(r rune) bool { return !unicode.IsUpper(r) }

// CaseMismatchError reports two conventions that cannot be unified.
type CaseMismatchError struct {
	From CaseConvention
	To   CaseConvention
}

func (e *CaseMismatchError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s", e.From, e.To)
}

// Cast unifies c with other. Lower widens to Snake and Upper widens to
// ScreamingSnake; the reverse directions keep c. Any other distinct pair
// fails.
func (c CaseConvention) Cast(other CaseConvention) (CaseConvention, error) {
	if c == other {
		return c, nil
	}
	switch {
	case c == CaseLower && other == CaseSnake:
		return CaseSnake, nil
	case c == CaseSnake && other == CaseLower:
		return CaseSnake, nil
	case c == CaseUpper && other == CaseScreamingSnake:
		return CaseScreamingSnake, nil
	case c == CaseScreamingSnake && other == CaseUpper:
		return CaseScreamingSnake, nil
	}
	return c, &CaseMismatchError{From: c, To: other}
}

// RenameRule is a container-level naming convention.
type RenameRule string

const (
	RenameNone      RenameRule = ""
	RenameSnake     RenameRule = "snake_case"
	RenameScreaming RenameRule = "SCREAMING_SNAKE_CASE"
	RenamePascal    RenameRule = "PascalCase"
)

// Rule returns the rename rule that reproduces identifiers of convention c.
func (c CaseConvention) Rule() RenameRule {
	switch c {
	case CaseLower, CaseSnake:
		return RenameSnake
	case CaseUpper, CaseScreamingSnake:
		return RenameScreaming
	}
	return RenamePascal
}

// ToPascal converts an identifier in convention r to PascalCase.
func (r RenameRule) ToPascal(s string) string {
	if r == RenamePascal || r == RenameNone {
		return s
	}
	return ToPascal(s)
}

// ToPascal title-cases each underscore-separated term and joins them.
func ToPascal(s string) string {
	title := cases.Title(language.Und)
	var sb strings.Builder
	for _, term := range strings.Split(s, "_") {
		if term == "" {
			continue
		}
		sb.WriteString(title.String(term))
	}
	return sb.String()
}

// ToSnake converts a PascalCase identifier to snake_case.
func ToSnake(s string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
