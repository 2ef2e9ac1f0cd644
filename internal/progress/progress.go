// Package progress reports indexing progress as a redrawn multi-line table,
// one row per category in flight, rather than a single animated spinner: a
// build's categories tokenize and write independently enough that a caller
// benefits from seeing each one's phase and count, not just "something is
// happening."
package progress

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Phase names a stage of a category's build, mirroring internal/persist's
// own sequencing: every document in scope is tokenized before any postings
// or score table is written (IDF needs the full scope first).
type Phase string

const (
	PhaseTokenizing    Phase = "tokenizing"
	PhaseWritingIndex  Phase = "writing postings"
	PhaseWritingScores Phase = "writing scores"
)

type row struct {
	done, total int
	phase       Phase
}

// Reporter renders a redrawn block of "<category>: <phase> <done>/<total>"
// lines. It has no timer or animation goroutine: every redraw is driven
// synchronously by a caller reporting real progress, so output reflects
// actual build events rather than elapsed wall-clock time.
type Reporter struct {
	w          io.Writer
	mu         sync.Mutex
	order      []string
	rows       map[string]*row
	lastHeight int
	terminal   bool
}

// New constructs a Reporter writing to w, with a row for each of categories
// registered up front. Rows are always drawn in sorted category order.
func New(w io.Writer, categories []string) *Reporter {
	r := &Reporter{
		w:    w,
		rows: make(map[string]*row, len(categories)),
	}
	if f, ok := w.(*os.File); ok {
		r.terminal = term.IsTerminal(int(f.Fd()))
	}
	for _, c := range categories {
		r.order = append(r.order, c)
		r.rows[c] = &row{phase: PhaseTokenizing}
	}
	return r
}

// Report records done/total progress for category within phase and redraws
// the table.
func (r *Reporter) Report(category string, done, total int, phase Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rw, ok := r.rows[category]
	if !ok {
		rw = &row{}
		r.rows[category] = rw
		r.order = append(r.order, category)
	}
	rw.done, rw.total, rw.phase = done, total, phase
	r.render()
}

// Close prints a final newline-terminated render and stops redrawing in
// place. Safe to call even if Report was never called.
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.render()
	fmt.Fprintln(r.w)
}

func (r *Reporter) render() {
	sort.Strings(r.order) // deterministic redraw order regardless of report arrival order

	lines := make([]string, 0, len(r.order))
	for _, category := range r.order {
		rw := r.rows[category]
		lines = append(lines, fmt.Sprintf("%s: %s %d/%d", category, rw.phase, rw.done, rw.total))
	}

	if r.terminal && r.lastHeight > 0 {
		fmt.Fprintf(r.w, "\033[%dA", r.lastHeight)
	}
	for _, line := range lines {
		if r.terminal {
			fmt.Fprint(r.w, "\033[2K")
		}
		fmt.Fprintln(r.w, line)
	}
	r.lastHeight = len(lines)
}

// BuildProgress adapts a Reporter into the (done, total, category) callback
// shape internal/persist.Builder expects during tokenization.
func (r *Reporter) BuildProgress(done, total int, category string) {
	r.Report(category, done, total, PhaseTokenizing)
}

// BuildPhase adapts a Reporter into the (phase, category) callback shape
// internal/persist.Builder expects when it moves from tokenization into
// writing postings or score tables. category is empty for phases that span
// every category at once (the tf/idf score tables are written per term, not
// per category).
func (r *Reporter) BuildPhase(phase Phase, category string) {
	if category == "" {
		r.mu.Lock()
		for _, c := range r.order {
			r.rows[c].phase = phase
		}
		r.mu.Unlock()
		r.render()
		return
	}
	r.mu.Lock()
	rw, ok := r.rows[category]
	r.mu.Unlock()
	if !ok {
		return
	}
	r.Report(category, rw.done, rw.total, phase)
}

// String renders the current table without redraw control sequences, for
// non-terminal logging contexts.
func (r *Reporter) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	sort.Strings(r.order)
	lines := make([]string, 0, len(r.order))
	for _, category := range r.order {
		rw := r.rows[category]
		lines = append(lines, fmt.Sprintf("%s: %s %d/%d", category, rw.phase, rw.done, rw.total))
	}
	return strings.Join(lines, "\n")
}
