// Package stats computes the term statistics the index is built from: per
// document term counts, term frequency (TF), corpus inverse document
// frequency (IDF), and their pointwise product (TF-IDF). Every computation
// here is pure — no I/O, no persistence — grounded on the same
// precompute-once-then-score shape as a classical TF-IDF scorer, generalized
// from a single combined corpus struct into the three separately-persisted
// tables spec.md names.
package stats

import "math"

// Counts is a single document's term-occurrence map: term -> count.
type Counts map[string]int

// CountTerms computes count(t,d) for every distinct term in terms, in a
// single pass over the token stream (spec §4.3: "compute all counts in a
// single pass").
func CountTerms(terms []string) Counts {
	counts := make(Counts, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	return counts
}

// Length returns L(d) = sum_t count(t,d).
func (c Counts) Length() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// TF is one document's term-frequency map: term -> count(t,d)/L(d).
type TF map[string]float64

// ComputeTF computes TF(t,d) = count(t,d) / L(d). A document with L(d) = 0
// contributes no TF entries (spec §4.3: "no division").
func ComputeTF(counts Counts) TF {
	length := counts.Length()
	if length == 0 {
		return TF{}
	}
	tf := make(TF, len(counts))
	for term, n := range counts {
		tf[term] = float64(n) / float64(length)
	}
	return tf
}

// IDF is the corpus-wide inverse-document-frequency map: term -> IDF(t).
type IDF map[string]float64

// ComputeIDF computes IDF(t) = ln(N/df(t)) over scope, where scope is the
// set of per-document term sets already restricted to the desired category
// filter by the caller (spec §4.3: "S is the documents in those
// categories"). N = len(scope).
func ComputeIDF(scope []map[string]struct{}) IDF {
	n := len(scope)
	if n == 0 {
		return IDF{}
	}

	df := make(map[string]int)
	for _, termSet := range scope {
		for term := range termSet {
			df[term]++
		}
	}

	idf := make(IDF, len(df))
	for term, d := range df {
		idf[term] = math.Log(float64(n) / float64(d))
	}
	return idf
}

// TFIDF is one document's TF-IDF map: term -> TF(t,d)*IDF(t).
type TFIDF map[string]float64

// ComputeTFIDF computes the pointwise product, restricted to terms present
// in tf (spec §4.3: "restricted to (t,d) pairs where TF(t,d) > 0"). Terms in
// tf with no corresponding idf entry (should not happen once idf is
// computed over a superset of tf's documents) are skipped rather than
// treated as zero, since a missing df is a scope mismatch, not a zero IDF.
func ComputeTFIDF(tf TF, idf IDF) TFIDF {
	tfidf := make(TFIDF, len(tf))
	for term, f := range tf {
		score, ok := idf[term]
		if !ok {
			continue
		}
		tfidf[term] = f * score
	}
	return tfidf
}
