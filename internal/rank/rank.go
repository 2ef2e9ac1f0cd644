// Package rank turns a query's match set into a sorted TF or TF-IDF ranking.
package rank

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/sakai-lab/shinbun-search/internal/persist"
)

// ScoreKind selects which per-term score table to rank against.
type ScoreKind int

const (
	TF ScoreKind = iota
	TFIDF
)

func (k ScoreKind) subdir() string {
	if k == TFIDF {
		return "idf"
	}
	return "tf"
}

// Row is one ranked entry: 1-based position, doc_id, and its score.
type Row struct {
	Rank  int
	DocID string
	Score float64
}

// NoScoresError reports that the requested term has no score file of the
// given kind. This is non-fatal to a caller ranking the other ScoreKind for
// the same term (spec §4.7).
type NoScoresError struct {
	Term string
	Kind ScoreKind
	Err  error
}

func (e *NoScoresError) Error() string {
	return fmt.Sprintf("rank: no %s scores for term %q: %v", e.Kind.subdir(), e.Term, e.Err)
}

func (e *NoScoresError) Unwrap() error { return e.Err }

// Rank loads the term's score table of the given kind, restricts it to
// matches, and returns rows sorted descending by score with doc_id-ascending
// tie-break for determinism (spec §4.7).
func Rank(root, term string, matches []string, kind ScoreKind) ([]Row, error) {
	path := filepath.Join(root, kind.subdir(), persist.EscapeTermName(term)+".bin")

	scores, err := persist.ReadScores(path)
	if err != nil {
		return nil, &NoScoresError{Term: term, Kind: kind, Err: err}
	}

	rows := make([]Row, 0, len(matches))
	for _, docID := range matches {
		score, ok := scores[docID]
		if !ok {
			continue
		}
		rows = append(rows, Row{DocID: docID, Score: score})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].DocID < rows[j].DocID
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}
