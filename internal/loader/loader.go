// Package loader reads a built index back off disk and merges its
// per-category partitions into one in-memory index for a query session.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sakai-lab/shinbun-search/internal/persist"
)

// Index is the merged, query-ready inverted index: term -> sorted doc_id
// list. Postings are sorted ascending once here, at merge time, so
// internal/query can always use binary-search intersection regardless of
// whether the on-disk partitions were themselves sorted (spec §9 "binary
// search on an unsorted list is a latent bug" — resolved by sorting at
// load time rather than branching per query).
type Index struct {
	Postings map[string][]string
}

// MissingCategoryError reports a category whose inverted index file is
// absent from root.
type MissingCategoryError struct {
	Category string
	Path     string
	Err      error
}

func (e *MissingCategoryError) Error() string {
	return fmt.Sprintf("loader: category %q missing index file %q: %v", e.Category, e.Path, e.Err)
}

func (e *MissingCategoryError) Unwrap() error { return e.Err }

// FormatError reports a category whose inverted index file exists but
// failed to deserialize.
type FormatError struct {
	Category string
	Path     string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("loader: category %q has a malformed index file %q: %v", e.Category, e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Load reads <root>/inverted_index/<category>/inverted_index.bin for every
// category and merges them into one unified Index. For a term present in
// multiple partitions, postings are concatenated in the category-argument
// order before being sorted (spec §4.5); the loader assumes doc_ids are
// unique across partitions and does not re-deduplicate.
func Load(root string, categories []string) (Index, error) {
	merged := make(map[string][]string)

	for _, category := range categories {
		path := filepath.Join(root, "inverted_index", category, "inverted_index.bin")

		postings, err := persist.ReadInvertedIndex(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Index{}, &MissingCategoryError{Category: category, Path: path, Err: err}
			}
			return Index{}, &FormatError{Category: category, Path: path, Err: err}
		}

		for term, ids := range postings {
			merged[term] = append(merged[term], ids...)
		}
	}

	for term := range merged {
		sort.Strings(merged[term])
	}

	return Index{Postings: merged}, nil
}
