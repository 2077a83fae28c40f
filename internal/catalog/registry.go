package catalog

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rao-samarth/timetable-generator/internal/model"
)

// RegistryEntry maps a search term back to canonical course identity. Entries
// only live during extraction; the final course database is keyed by official
// name.
type RegistryEntry struct {
	OfficialName string
	Half         model.Half
}

// Registry is the search-term lookup built from the catalog document.
type Registry map[string]RegistryEntry

// TermsLongestFirst returns the search terms sorted by length descending, the
// order required by the timetable scan so a short alias can never shadow a
// longer, more specific term.
func (r Registry) TermsLongestFirst() []string {
	terms := make([]string, 0, len(r))
	for t := range r {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j] // stable order for equal lengths
	})
	return terms
}

// BuildRegistry consumes ordered catalog table rows and produces the search
// registry. Each row's name cell (column nameCol) is cleaned, canonicalized
// and half-tagged per the correction tables.
//
// Rows are skipped, never fatal, when the name cell is missing, shorter than
// 3 characters after cleaning, or purely numeric. Official names on the
// blacklist are dropped. Duplicate search terms overwrite last-write-wins;
// the source catalog should not produce duplicates, so each overwrite is
// logged and counted rather than silently absorbed.
func BuildRegistry(pages [][][]string, nameCol int, logger *zap.Logger) Registry {
	registry := make(Registry)
	duplicates := 0

	for _, rows := range pages {
		for _, row := range rows {
			if len(row) <= nameCol {
				continue
			}
			raw := row[nameCol]
			if raw == "" {
				continue
			}

			cleaned := CleanText(raw)
			if len(cleaned) < 3 || isNumeric(cleaned) {
				continue
			}

			official := OfficialName(cleaned)
			if blacklist[official] {
				continue
			}

			half := ParseHalf(cleaned)
			if forced, ok := halfOverrides[strings.ToUpper(official)]; ok {
				half = forced
			}

			term := official
			if len(term) < 2 {
				continue
			}

			if prev, exists := registry[term]; exists {
				duplicates++
				logger.Warn("duplicate catalog search term, last write wins",
					zap.String("term", term),
					zap.String("previous", prev.OfficialName),
					zap.String("replacement", official),
				)
			}
			registry[term] = RegistryEntry{OfficialName: official, Half: half}
		}
	}

	if duplicates > 0 {
		logger.Warn("catalog contained duplicate search terms", zap.Int("count", duplicates))
	}
	return registry
}
