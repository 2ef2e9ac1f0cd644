package persist

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestInvertedIndexRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inverted_index.bin")
	want := map[string][]string{
		"東京": {"a", "b"},
		"大阪": {"a"},
	}

	if err := WriteInvertedIndex(path, want); err != nil {
		t.Fatalf("WriteInvertedIndex: %v", err)
	}
	got, err := ReadInvertedIndex(path)
	if err != nil {
		t.Fatalf("ReadInvertedIndex: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestInvertedIndexRoundTripEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inverted_index.bin")
	if err := WriteInvertedIndex(path, map[string][]string{}); err != nil {
		t.Fatalf("WriteInvertedIndex: %v", err)
	}
	got, err := ReadInvertedIndex(path)
	if err != nil {
		t.Fatalf("ReadInvertedIndex: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %+v", got)
	}
}

func TestScoresRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "term.bin")
	want := map[string]float64{"a": 0.5, "b": 0.25}

	if err := WriteScores(path, want); err != nil {
		t.Fatalf("WriteScores: %v", err)
	}
	got, err := ReadScores(path)
	if err != nil {
		t.Fatalf("ReadScores: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := ReadInvertedIndex(filepath.Join(t.TempDir(), "missing.bin"))
	if err == nil {
		t.Fatal("expected error reading a missing file")
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("expected *IOError, got %T: %v", err, err)
	}
}
