// Package similarity ranks resource names by how close they are to a name
// that could not be found, for "did you mean" hints.
package similarity

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/klauern/rcstrings/internal/logging"
)

// Match is a candidate name with its similarity score.
type Match struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Config configures name matching.
type Config struct {
	// Threshold is the minimum similarity score (0.0-1.0) to consider a match.
	// Default: 0.88
	Threshold float64
	// Algorithm is "levenshtein", "jaro-winkler" or "combined".
	// Default: "combined"
	Algorithm string
	// Limit caps the number of suggestions (0 = no cap).
	Limit int
}

// DefaultConfig returns the settings used for lookup hints.
func DefaultConfig() Config {
	return Config{
		Threshold: 0.88,
		Algorithm: "combined",
		Limit:     3,
	}
}

// Matcher finds names similar to a query.
type Matcher struct {
	config Config
}

// NewMatcher creates a matcher with the given configuration.
func NewMatcher(config Config) *Matcher {
	if config.Threshold <= 0 || config.Threshold > 1 {
		config.Threshold = 0.88
	}
	if config.Algorithm == "" {
		config.Algorithm = "combined"
	}
	return &Matcher{config: config}
}

// Suggest returns the candidates scoring at least the threshold against
// name, best first. Ties keep alphabetical order. Duplicate candidates are
// reported once.
func (m *Matcher) Suggest(name string, candidates []string) []Match {
	seen := make(map[string]bool, len(candidates))
	var matches []Match
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		if score := m.Compare(name, c); score >= m.config.Threshold {
			matches = append(matches, Match{Name: c, Score: score})
		}
	}

	slices.SortFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	if m.config.Limit > 0 && len(matches) > m.config.Limit {
		matches = matches[:m.config.Limit]
	}

	logging.Debug("name suggestions",
		logging.Operation("suggest"),
		logging.Resource(name),
		logging.Count(len(matches)),
		slog.Float64("threshold", m.config.Threshold),
	)
	return matches
}

// Compare returns the similarity score between two names (0.0-1.0).
// Comparison ignores case and treats runs of '_', '-', '.' and spaces as
// one separator.
func (m *Matcher) Compare(name1, name2 string) float64 {
	name1 = normalizeName(name1)
	name2 = normalizeName(name2)

	if name1 == name2 {
		return 1.0
	}
	if len(name1) == 0 || len(name2) == 0 {
		return 0.0
	}

	switch m.config.Algorithm {
	case "levenshtein":
		return LevenshteinSimilarity(name1, name2)
	case "jaro-winkler":
		return JaroWinkler(name1, name2)
	default:
		return max(LevenshteinSimilarity(name1, name2), JaroWinkler(name1, name2))
	}
}

func normalizeName(s string) string {
	s = strings.ToLower(s)

	var result strings.Builder
	result.Grow(len(s))

	prevSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
			prevSpace = false
		case r == '-' || r == '_' || r == ' ' || r == '.':
			if !prevSpace {
				result.WriteRune(' ')
				prevSpace = true
			}
		}
	}

	return strings.TrimSpace(result.String())
}

// LevenshteinDistance is the minimum number of single-rune insertions,
// deletions or substitutions turning s1 into s2.
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	if len(r1) < len(r2) {
		r1, r2 = r2, r1
	}

	// two rows: O(min(m,n)) space
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

// LevenshteinSimilarity returns 1 - distance/maxLen.
func LevenshteinSimilarity(s1, s2 string) float64 {
	if len(s1) == 0 && len(s2) == 0 {
		return 1.0
	}

	distance := LevenshteinDistance(s1, s2)
	maxLen := max(len([]rune(s1)), len([]rune(s2)))

	return 1.0 - float64(distance)/float64(maxLen)
}

// JaroSimilarity returns the Jaro similarity of two strings (0.0-1.0).
func JaroSimilarity(s1, s2 string) float64 {
	r1 := []rune(s1)
	r2 := []rune(s2)

	if len(r1) == 0 && len(r2) == 0 {
		return 1.0
	}
	if len(r1) == 0 || len(r2) == 0 {
		return 0.0
	}

	matchWindow := max(0, max(len(r1), len(r2))/2-1)

	s1Matches := make([]bool, len(r1))
	s2Matches := make([]bool, len(r2))

	matches := 0
	for i := range r1 {
		start := max(0, i-matchWindow)
		end := min(len(r2), i+matchWindow+1)
		for j := start; j < end; j++ {
			if s2Matches[j] || r1[i] != r2[j] {
				continue
			}
			s1Matches[i] = true
			s2Matches[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	k := 0
	for i := range r1 {
		if !s1Matches[i] {
			continue
		}
		for !s2Matches[k] {
			k++
		}
		if r1[i] != r2[k] {
			transpositions++
		}
		k++
	}

	return (float64(matches)/float64(len(r1)) +
		float64(matches)/float64(len(r2)) +
		float64(matches-transpositions/2)/float64(matches)) / 3.0
}

// JaroWinkler boosts the Jaro score of strings sharing a prefix of up to
// four runes.
func JaroWinkler(s1, s2 string) float64 {
	jaro := JaroSimilarity(s1, s2)

	r1 := []rune(s1)
	r2 := []rune(s2)

	prefixLen := 0
	maxPrefix := min(4, min(len(r1), len(r2)))
	for i := range maxPrefix {
		if r1[i] != r2[i] {
			break
		}
		prefixLen++
	}

	const scalingFactor = 0.1
	return jaro + float64(prefixLen)*scalingFactor*(1.0-jaro)
}
