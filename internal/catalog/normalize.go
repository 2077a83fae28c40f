package catalog

import (
	"regexp"
	"strings"

	"github.com/rao-samarth/timetable-generator/internal/model"
)

// ── Text normalization ──────────────────────────────────────
//
// The source workbooks are exported from scanned documents, so cell text is
// noisy: wrapped lines, inconsistent abbreviations, stray half markers and
// capacity notes inside parentheses. The cleaning rules below are deliberately
// purpose-built for this document family, not a generic tokenizer.
// ─────────────────────────────────────────────────────────────

var (
	reWhitespace   = regexp.MustCompile(`\s+`)
	reIntro        = regexp.MustCompile(`(?i)\bIntro[.:]?\b`)
	reAnd          = regexp.MustCompile(`(?i)\bAnd\b`)
	reRomanDash    = regexp.MustCompile(`\s*-\s*(I|II)\b`)
	reRomanTrail   = regexp.MustCompile(`\s+(I|II)$`)
	reHalfIsolated = regexp.MustCompile(`\(H1\)| H1 |^H1 | H1$`)
	reHalf2        = regexp.MustCompile(`\(H2\)| H2 |^H2 | H2$`)
	reHalfGroup    = regexp.MustCompile(`^H[12]?(\s*(AND|[+&/])\s*H[12]?)?$`)
	reParens       = regexp.MustCompile(`\(([^)]*)\)`)
	reDigits       = regexp.MustCompile(`^[0-9]+$`)
)

// combined half markers that always mean a full-term course
var bothMarkers = []string{"H1+H2", "H1/H2", "H1&H2", "(H1,H2)", "H1 AND H2"}

// CleanText collapses whitespace and newlines, expands "Intro."/"Intro:" to
// "Introduction", rewrites "&" as "and", lowercases standalone "And", and
// unifies roman-numeral suffixes ("- I", trailing " I") to a single leading
// space before I/II.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = reWhitespace.ReplaceAllString(s, " ")

	s = reIntro.ReplaceAllString(s, "Introduction")
	s = strings.ReplaceAll(s, "&", " and ")
	s = reAnd.ReplaceAllString(s, "and")

	s = reRomanDash.ReplaceAllString(s, " $1")
	s = reRomanTrail.ReplaceAllString(s, " $1")

	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// ParseHalf detects half-semester markers in free text. Combined markers
// (H1+H2 and friends) win outright and mean BOTH. A lone isolated H1 or H2
// narrows to that half; both present, or neither, defaults to BOTH, since
// courses without a marker run the full term.
func ParseHalf(text string) model.Half {
	upper := strings.ToUpper(text)
	for _, m := range bothMarkers {
		if strings.Contains(upper, m) {
			return model.HalfBoth
		}
	}

	hasH1 := reHalfIsolated.MatchString(upper) || strings.Contains(upper, "(H1)")
	hasH2 := reHalf2.MatchString(upper) || strings.Contains(upper, "(H2)")

	switch {
	case hasH1 && !hasH2:
		return model.HalfFirst
	case hasH2 && !hasH1:
		return model.HalfSecond
	}
	return model.HalfBoth
}

// OfficialName canonicalizes a cleaned raw catalog name: known typos and
// variants are corrected first, then parenthetical groups that are pure half
// markers, MAX…/LIMIT… capacity notes, or purely numeric footnotes are
// stripped. Any other parenthetical content (e.g. a real subtitle) is kept.
// Trailing punctuation is trimmed.
func OfficialName(raw string) string {
	if fixed, ok := nameCorrections[raw]; ok {
		raw = fixed
	}

	cleaned := reParens.ReplaceAllStringFunc(raw, func(group string) string {
		content := strings.TrimSpace(group[1 : len(group)-1])
		upper := strings.ToUpper(content)

		if reHalfGroup.MatchString(upper) {
			return ""
		}
		if strings.HasPrefix(upper, "MAX") || strings.HasPrefix(upper, "LIMIT") {
			return ""
		}
		if content != "" && reDigits.MatchString(content) {
			return ""
		}
		return group
	})

	cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, "  ", " "))
	cleaned = strings.TrimSpace(strings.TrimRight(cleaned, ".,"))
	return cleaned
}

// isNumeric reports whether s consists solely of digits.
func isNumeric(s string) bool {
	return s != "" && reDigits.MatchString(s)
}
