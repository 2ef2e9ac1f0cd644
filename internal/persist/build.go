package persist

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/sakai-lab/shinbun-search/internal/corpus"
	"github.com/sakai-lab/shinbun-search/internal/stats"
	"github.com/sakai-lab/shinbun-search/internal/tokenize"
)

// CategoryCollisionError reports a doc_id observed under more than one
// category, violating the single-category-partition invariant (spec §3,
// §9 Open Question "category exclusivity" — resolved here by rejecting the
// build rather than leaving the index undefined).
type CategoryCollisionError struct {
	DocID      string
	Categories []string
}

func (e *CategoryCollisionError) Error() string {
	return fmt.Sprintf("persist: doc_id %q appears in multiple categories: %v", e.DocID, e.Categories)
}

// tokenizerEngine is the subset of *tokenize.Tokenizer the builder needs.
// Narrowing to an interface (mirroring the teacher's Counter-strategy
// pattern) lets tests exercise the builder's reduce/write logic with a fake
// tokenizer instead of loading the real IPADIC dictionary.
type tokenizerEngine interface {
	Tokenize(text string) (tokenize.Result, error)
}

// Builder materializes the inverted index, TF tables, and TF-IDF tables for
// a document set under OutputRoot.
type Builder struct {
	OutputRoot string
	Tokenizer  tokenizerEngine
	// Workers bounds the tokenizer/writer worker pool. Zero selects
	// runtime.NumCPU().
	Workers int

	// Progress, if set, is called after each document is tokenized (main
	// reduce goroutine only), scoped to the document's own category, so a
	// caller can drive a per-category progress indicator.
	Progress func(done, total int, category string)

	// OnPhase, if set, is called as the build moves from tokenizing into
	// writing postings and writing score tables. category is the partition
	// being written, or "" for a phase that spans every category at once
	// (the tf/idf tables are written per term, not per category).
	OnPhase func(phase, category string)
}

type docResult struct {
	doc tokenize.Result
	err error
}

// Build tokenizes every document, computes term counts/TF/IDF/TF-IDF over
// the full document set (the scope is exactly the documents passed in —
// callers restrict scope by restricting which categories they read), and
// writes the partitioned inverted index and per-term score tables.
//
// categories lists every category in scope for this build, including ones
// that turn out to have no documents: spec scenario 1 requires an empty
// category to still produce an inverted_index.* file containing an empty
// map, so every named category gets a postings entry up front rather than
// being discovered lazily from docs.
//
// Tokenization runs on a bounded worker pool; the reduce into the shared
// index, counts, and per-document term sets happens on a single goroutine in
// input order, so the inverted index's posting-list order and the overall
// build are deterministic regardless of goroutine scheduling (spec §5).
func (b *Builder) Build(ctx context.Context, categories []string, docs []corpus.Document) error {
	results, err := b.tokenizeAll(ctx, docs)
	if err != nil {
		return err
	}

	docCategory := make(map[string]string, len(docs))
	termSets := make([]map[string]struct{}, len(docs))
	counts := make([]stats.Counts, len(docs))
	// postings[category][term] = ordered doc_ids, insertion order = the
	// order documents were enumerated for that category (spec §4.4).
	postings := make(map[string]map[string][]string, len(categories))
	for _, category := range categories {
		postings[category] = make(map[string][]string)
	}

	categoryTotal := make(map[string]int)
	for _, doc := range docs {
		categoryTotal[doc.Category]++
	}
	categoryDone := make(map[string]int)

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if existing, ok := docCategory[doc.ID]; ok && existing != doc.Category {
			return &CategoryCollisionError{DocID: doc.ID, Categories: []string{existing, doc.Category}}
		}
		docCategory[doc.ID] = doc.Category

		res := results[i]
		termSets[i] = res.Set
		counts[i] = stats.CountTerms(res.Terms)

		catIndex, ok := postings[doc.Category]
		if !ok {
			catIndex = make(map[string][]string)
			postings[doc.Category] = catIndex
		}
		for term := range res.Set {
			catIndex[term] = append(catIndex[term], doc.ID)
		}

		categoryDone[doc.Category]++
		if b.Progress != nil {
			b.Progress(categoryDone[doc.Category], categoryTotal[doc.Category], doc.Category)
		}
	}

	idf := stats.ComputeIDF(termSets)

	// invert TF and TF-IDF by term: term -> doc_id -> score
	tfByTerm := make(map[string]map[string]float64)
	tfidfByTerm := make(map[string]map[string]float64)
	for i, doc := range docs {
		tf := stats.ComputeTF(counts[i])
		tfidf := stats.ComputeTFIDF(tf, idf)

		for term, v := range tf {
			m, ok := tfByTerm[term]
			if !ok {
				m = make(map[string]float64)
				tfByTerm[term] = m
			}
			m[doc.ID] = v
		}
		for term, v := range tfidf {
			m, ok := tfidfByTerm[term]
			if !ok {
				m = make(map[string]float64)
				tfidfByTerm[term] = m
			}
			m[doc.ID] = v
		}
	}

	if err := b.writeInvertedIndexes(ctx, postings); err != nil {
		return err
	}
	if b.OnPhase != nil {
		b.OnPhase("writing scores", "")
	}
	if err := b.writeScoreTables(ctx, "tf", tfByTerm); err != nil {
		return err
	}
	if err := b.writeScoreTables(ctx, "idf", tfidfByTerm); err != nil {
		return err
	}
	return nil
}

func (b *Builder) workerCount(n int) int {
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// tokenizeAll runs Tokenizer.Tokenize over docs on a bounded worker pool,
// returning results indexed identically to docs regardless of the order in
// which workers complete.
func (b *Builder) tokenizeAll(ctx context.Context, docs []corpus.Document) ([]tokenize.Result, error) {
	results := make([]tokenize.Result, len(docs))

	jobs := make(chan int)
	out := make(chan struct {
		index int
		res   docResult
	}, b.workerCount(len(docs)))

	var wg sync.WaitGroup
	workers := b.workerCount(len(docs))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := b.Tokenizer.Tokenize(docs[i].Text())
				out <- struct {
					index int
					res   docResult
				}{i, docResult{doc: res, err: err}}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range docs {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	var firstErr error
	for item := range out {
		if item.res.err != nil && firstErr == nil {
			firstErr = item.res.err
		}
		results[item.index] = item.res.doc
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (b *Builder) writeInvertedIndexes(ctx context.Context, postings map[string]map[string][]string) error {
	for category, index := range postings {
		if err := ctx.Err(); err != nil {
			return err
		}
		if b.OnPhase != nil {
			b.OnPhase("writing postings", category)
		}
		path := filepath.Join(b.OutputRoot, "inverted_index", category, "inverted_index.bin")
		if err := WriteInvertedIndex(path, index); err != nil {
			return err
		}
	}
	return nil
}

// writeScoreTables fans per-term writes out over a bounded worker pool
// (independent files, safe to write concurrently) and joins on the first
// error.
func (b *Builder) writeScoreTables(ctx context.Context, subdir string, byTerm map[string]map[string]float64) error {
	if len(byTerm) == 0 {
		return nil
	}

	type job struct {
		term   string
		scores map[string]float64
	}
	jobs := make(chan job)
	errs := make(chan error, b.workerCount(len(byTerm)))

	var wg sync.WaitGroup
	workers := b.workerCount(len(byTerm))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				name := EscapeTermName(j.term)
				path := filepath.Join(b.OutputRoot, subdir, name+".bin")
				if err := WriteScores(path, j.scores); err != nil {
					select {
					case errs <- err:
					default:
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for term, scores := range byTerm {
			select {
			case jobs <- job{term: term, scores: scores}:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(errs)

	if err := ctx.Err(); err != nil {
		return err
	}
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
