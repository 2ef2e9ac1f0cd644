package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sakai-lab/shinbun-search/internal/persist"
	"github.com/sakai-lab/shinbun-search/internal/rank"
)

func buildFixture(t *testing.T, root string) {
	t.Helper()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}

	must(persist.WriteInvertedIndex(filepath.Join(root, "inverted_index", "society", "inverted_index.bin"),
		map[string][]string{"猫": {"s1"}, "犬": {"s1", "s2"}}))
	must(persist.WriteInvertedIndex(filepath.Join(root, "inverted_index", "sports", "inverted_index.bin"),
		map[string][]string{"猫": {"p1"}}))

	must(persist.WriteScores(filepath.Join(root, "tf", persist.EscapeTermName("猫")+".bin"),
		map[string]float64{"s1": 0.5, "p1": 0.8}))
	must(persist.WriteScores(filepath.Join(root, "idf", persist.EscapeTermName("猫")+".bin"),
		map[string]float64{"s1": 0.1, "p1": 0.3}))
}

func TestSessionHappyPath(t *testing.T) {
	root := t.TempDir()
	buildFixture(t, root)

	s := New()
	if s.State() != Idle {
		t.Fatalf("new session state = %v, want Idle", s.State())
	}

	if err := s.Load(context.Background(), root, []string{"society", "sports"}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.State() != IndexLoaded {
		t.Fatalf("state after Load = %v, want IndexLoaded", s.State())
	}

	if err := s.Query(ModeSingle, []string{"猫"}); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if s.State() != Queried {
		t.Fatalf("state after Query = %v, want Queried", s.State())
	}
	if len(s.Matches()) != 2 {
		t.Fatalf("matches = %v, want 2 entries (s1, p1 merged across categories)", s.Matches())
	}

	rows, err := s.Rank(root, "猫", rank.TF)
	if err != nil {
		t.Fatalf("Rank(TF): %v", err)
	}
	if len(rows) != 2 || rows[0].DocID != "p1" {
		t.Errorf("TF ranking = %+v, want p1 first (score 0.8)", rows)
	}
	if s.State() != Ranked {
		t.Fatalf("state after Rank = %v, want Ranked", s.State())
	}

	// Rank is repeatable for the other ScoreKind from Ranked.
	rows, err = s.Rank(root, "猫", rank.TFIDF)
	if err != nil {
		t.Fatalf("Rank(TFIDF): %v", err)
	}
	if len(rows) != 2 || rows[0].DocID != "p1" {
		t.Errorf("TF-IDF ranking = %+v, want p1 first (score 0.3)", rows)
	}
}

func TestSessionIllegalTransitions(t *testing.T) {
	root := t.TempDir()
	buildFixture(t, root)

	s := New()
	if err := s.Query(ModeSingle, []string{"猫"}); err == nil {
		t.Fatal("expected a StateError querying before Load")
	} else if _, ok := err.(*StateError); !ok {
		t.Fatalf("expected *StateError, got %T", err)
	}

	if _, err := s.Rank(root, "猫", rank.TF); err == nil {
		t.Fatal("expected a StateError ranking before Query")
	} else if _, ok := err.(*StateError); !ok {
		t.Fatalf("expected *StateError, got %T", err)
	}

	if err := s.Load(context.Background(), root, []string{"society"}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Load(context.Background(), root, []string{"society"}); err == nil {
		t.Fatal("expected a StateError re-loading an already-loaded session")
	}
}

func TestSessionQueryNoMatch(t *testing.T) {
	// spec scenario 5: a term with no postings propagates as the query
	// engine's NoMatchError, not a session-level error type.
	root := t.TempDir()
	buildFixture(t, root)

	s := New()
	if err := s.Load(context.Background(), root, []string{"society"}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	err := s.Query(ModeSingle, []string{"ghost"})
	if err == nil {
		t.Fatal("expected a NoMatchError")
	}
	if s.State() != IndexLoaded {
		t.Errorf("a failed Query must not advance state; got %v", s.State())
	}
}
