package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewReporterOrdersCategoriesUpFront(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, []string{"sports", "society"})

	if len(r.order) != 2 {
		t.Fatalf("expected 2 tracked categories, got %d", len(r.order))
	}
	for _, c := range []string{"society", "sports"} {
		if _, ok := r.rows[c]; !ok {
			t.Errorf("expected category %q to be tracked", c)
		}
	}
}

func TestReportRendersCategoryAndPhase(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, []string{"society"})

	r.Report("society", 3, 10, PhaseTokenizing)

	out := buf.String()
	if !strings.Contains(out, "society") {
		t.Errorf("expected output to mention the category, got %q", out)
	}
	if !strings.Contains(out, "3/10") {
		t.Errorf("expected output to show 3/10 progress, got %q", out)
	}
	if !strings.Contains(out, string(PhaseTokenizing)) {
		t.Errorf("expected output to show the tokenizing phase, got %q", out)
	}
}

func TestBuildProgressAdaptsPersistCallback(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, []string{"society"})

	r.BuildProgress(1, 4, "society")

	if got := r.rows["society"]; got.done != 1 || got.total != 4 {
		t.Errorf("rows[society] = %+v, want done=1 total=4", got)
	}
}

func TestBuildPhaseUpdatesSingleCategory(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, []string{"society", "sports"})

	r.BuildPhase(PhaseWritingIndex, "society")

	if r.rows["society"].phase != PhaseWritingIndex {
		t.Errorf("society phase = %q, want %q", r.rows["society"].phase, PhaseWritingIndex)
	}
	if r.rows["sports"].phase != PhaseTokenizing {
		t.Errorf("sports phase should be unaffected, got %q", r.rows["sports"].phase)
	}
}

func TestBuildPhaseBroadcastsWhenCategoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, []string{"society", "sports"})

	r.BuildPhase(PhaseWritingScores, "")

	for _, category := range []string{"society", "sports"} {
		if r.rows[category].phase != PhaseWritingScores {
			t.Errorf("rows[%s].phase = %q, want %q", category, r.rows[category].phase, PhaseWritingScores)
		}
	}
}

func TestCloseTerminatesWithNewline(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, []string{"society"})
	r.Report("society", 1, 1, PhaseWritingScores)
	r.Close()

	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("expected output to end with a newline after Close")
	}
}

func TestStringIsPlainNoControlSequences(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, []string{"society"})
	r.Report("society", 2, 5, PhaseTokenizing)

	s := r.String()
	if strings.Contains(s, "\033") {
		t.Errorf("String() should contain no escape sequences, got %q", s)
	}
	if !strings.Contains(s, "society: tokenizing 2/5") {
		t.Errorf("String() = %q, want to contain %q", s, "society: tokenizing 2/5")
	}
}
