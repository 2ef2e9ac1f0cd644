// Package query evaluates single-term, AND, and OR queries against a merged
// inverted index. Queries are restricted to at most two terms for AND/OR in
// this release (spec §4.6); the design generalizes to n-ary trivially but
// the contract here stays binary.
package query

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/sakai-lab/shinbun-search/internal/loader"
)

// NoMatchError is returned by Single/And/Or when the result set is empty.
// This is a user-visible condition, not an internal error (spec §4.6, §7).
type NoMatchError struct {
	Terms []string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("query: no match for %v", e.Terms)
}

// Engine evaluates queries against a merged, loaded index. Postings in idx
// are assumed sorted ascending by doc_id (loader.Load guarantees this), so
// And always uses the sorted-merge / binary-search path rather than a
// runtime sorted/unsorted branch.
type Engine struct {
	idx loader.Index
}

// New wraps a merged index for querying.
func New(idx loader.Index) *Engine {
	return &Engine{idx: idx}
}

// Single returns the posting list for w, or *NoMatchError if w has no
// postings.
func (e *Engine) Single(w string) ([]string, error) {
	postings, ok := e.idx.Postings[w]
	if !ok || len(postings) == 0 {
		return nil, &NoMatchError{Terms: []string{w}}
	}
	return postings, nil
}

// And returns the sorted set intersection of a's and b's posting lists.
// Missing terms contribute the empty set, so And with either term absent is
// always empty. Implemented as a merge over two sorted lists, scanning the
// shorter list and binary-searching the longer — O(m*log n) — per spec
// §4.6.
func (e *Engine) And(a, b string) ([]string, error) {
	postingsA := e.idx.Postings[a]
	postingsB := e.idx.Postings[b]

	shorter, longer := postingsA, postingsB
	if len(longer) < len(shorter) {
		shorter, longer = longer, shorter
	}

	result := make([]string, 0, len(shorter))
	for _, id := range shorter {
		i := sort.SearchStrings(longer, id)
		if i < len(longer) && longer[i] == id {
			result = append(result, id)
		}
	}
	sort.Strings(result)

	if len(result) == 0 {
		return nil, &NoMatchError{Terms: []string{a, b}}
	}
	return result, nil
}

// Or returns the sorted set union of a's and b's posting lists. The union
// is empty only if both terms are absent (spec §4.6).
func (e *Engine) Or(a, b string) ([]string, error) {
	set := mapset.NewThreadUnsafeSet()
	for _, id := range e.idx.Postings[a] {
		set.Add(id)
	}
	for _, id := range e.idx.Postings[b] {
		set.Add(id)
	}

	if set.Cardinality() == 0 {
		return nil, &NoMatchError{Terms: []string{a, b}}
	}

	result := make([]string, 0, set.Cardinality())
	for id := range set.Iter() {
		result = append(result, id.(string))
	}
	sort.Strings(result)
	return result, nil
}
