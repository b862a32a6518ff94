package catalog

import (
	"regexp"
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/media"
)

// MinSearchScore is the lowest Jaro-Winkler similarity Search returns.
const MinSearchScore = 0.70

var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// Index answers title lookups against the libraries of a Syncer.
type Index struct {
	syncer *Syncer
}

// NewIndex returns an Index reading from s.
func NewIndex(s *Syncer) *Index {
	return &Index{syncer: s}
}

// Lookup finds a title by id. When parentLibraryID names a library that
// exposes media, that library is searched first.
//
// ErrTemporarilyNotFound means the title may still arrive; ErrNotFound is
// only returned once the whole sync has completed.
func (ix *Index) Lookup(mediaID, parentLibraryID string) (*media.Media, error) {
	// Read before scanning: a Complete status seen here means every library
	// was already terminal, so a miss below is final.
	overall := ix.syncer.Status().State
	if !overall.HasMedia() {
		return nil, ErrTemporarilyNotFound
	}

	libs := ix.syncer.Libraries()
	if parentLibraryID != "" {
		for _, lib := range libs {
			if lib.ID != parentLibraryID {
				continue
			}
			if m := lib.find(mediaID); m != nil {
				return m, nil
			}
			break
		}
	}

	for _, lib := range libs {
		if lib.ID == parentLibraryID {
			continue
		}
		if m := lib.find(mediaID); m != nil {
			return m, nil
		}
	}

	if overall == StateComplete {
		return nil, ErrNotFound
	}
	return nil, ErrTemporarilyNotFound
}

// SearchResult is one ranked match from Search.
type SearchResult struct {
	Media     *media.Media
	LibraryID string
	Score     float64
}

// Search ranks titles from every library exposing media by Jaro-Winkler
// similarity of their sort keys to query. Results below MinSearchScore are
// dropped. A limit of zero or less returns every match.
func (ix *Index) Search(query string, limit int) []SearchResult {
	q := media.SortKey("", query)
	if q == "" {
		return nil
	}
	queryNumbers := numberRegex.FindAllString(q, -1)

	var results []SearchResult
	for _, lib := range ix.syncer.Libraries() {
		st := lib.Status()
		if !st.State.HasMedia() {
			continue
		}
		for _, m := range st.Media {
			key := m.SortKey()
			score := float64(edlib.JaroWinklerSimilarity(q, key))
			if strings.HasPrefix(key, q) {
				score = max(score, 0.9)
			}
			score = adjustForNumbers(score, queryNumbers, numberRegex.FindAllString(key, -1))
			if score < MinSearchScore {
				continue
			}
			results = append(results, SearchResult{Media: m, LibraryID: lib.ID, Score: score})
		}
	}

	slices.SortStableFunc(results, func(a, b SearchResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return strings.Compare(a.Media.SortKey(), b.Media.SortKey())
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// adjustForNumbers favors candidates sharing a sequence number with the query
// ("alien 3") and penalizes those that lack one or disagree.
func adjustForNumbers(score float64, queryNums, candidateNums []string) float64 {
	if len(queryNums) == 0 {
		return score
	}
	if len(candidateNums) == 0 {
		return score * 0.85
	}
	for _, n := range queryNums {
		if slices.Contains(candidateNums, n) {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}
