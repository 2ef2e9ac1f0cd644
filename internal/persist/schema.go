// Package persist materializes the term statistics engine's output to disk
// as a partitioned inverted index and per-term score tables, and reads them
// back. The on-disk format is a small tagged binary (msgpack) rather than a
// language-specific object graph, so the index is readable by tooling in any
// language (spec §9 "Object-graph persistence -> portable format").
package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// InvertedIndexFile is the on-disk shape of one category's inverted index:
// term -> ordered list of doc_id.
type InvertedIndexFile struct {
	Postings map[string][]string `msgpack:"postings"`
}

// ScoreFile is the on-disk shape of one term's TF or TF-IDF table:
// doc_id -> score. The same record type backs both tf/<term>.bin and
// idf/<term>.bin (spec §3: the idf/ name is retained for compatibility; its
// contents are TF*IDF, not bare IDF).
type ScoreFile struct {
	Scores map[string]float64 `msgpack:"scores"`
}

// IOError wraps a filesystem failure encountered while persisting or
// loading an index artifact; fatal to the run per spec §7.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("persist: io error on %q: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// writeAtomic encodes v as msgpack and writes it to path via
// write-to-temp-then-rename, so a cancelled or failed write never leaves a
// half-written file at path (spec §5). The temp file carries a uuid suffix
// so concurrent writers never collide on the same temp name.
func writeAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &IOError{Path: filepath.Dir(path), Err: err}
	}

	data, err := msgpack.Marshal(v)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}

	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &IOError{Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &IOError{Path: path, Err: err}
	}
	return nil
}

func readFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}

// WriteInvertedIndex persists one category's postings map.
func WriteInvertedIndex(path string, postings map[string][]string) error {
	return writeAtomic(path, InvertedIndexFile{Postings: postings})
}

// ReadInvertedIndex loads one category's postings map.
func ReadInvertedIndex(path string) (map[string][]string, error) {
	var f InvertedIndexFile
	if err := readFile(path, &f); err != nil {
		return nil, err
	}
	if f.Postings == nil {
		f.Postings = map[string][]string{}
	}
	return f.Postings, nil
}

// WriteScores persists one term's score table (TF or TF-IDF).
func WriteScores(path string, scores map[string]float64) error {
	return writeAtomic(path, ScoreFile{Scores: scores})
}

// ReadScores loads one term's score table.
func ReadScores(path string) (map[string]float64, error) {
	var f ScoreFile
	if err := readFile(path, &f); err != nil {
		return nil, err
	}
	if f.Scores == nil {
		f.Scores = map[string]float64{}
	}
	return f.Scores, nil
}
