package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"
)

// ReadCategory enumerates every file matching <root>/<category>/*.json and
// yields the parsed Document for each, in lexical file-path order. The
// sequence is lazy: files are opened and parsed one at a time as the caller
// advances it, and ctx is checked between files so a large corpus can be
// cancelled without reading past the current file.
//
// A document whose required fields (id, category, title, body) are missing
// is reported as a *MalformedError without aborting the sequence; the
// caller decides whether to skip-and-warn or abort by breaking out of the
// range loop.
func ReadCategory(ctx context.Context, root, category string) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		dir := filepath.Join(root, category)
		matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			yield(Document{}, &UnreadableError{Path: dir, Err: err})
			return
		}
		sort.Strings(matches)

		for _, path := range matches {
			if err := ctx.Err(); err != nil {
				yield(Document{}, err)
				return
			}

			doc, err := readDocument(path)
			if !yield(doc, err) {
				return
			}
		}
	}
}

func readDocument(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, &UnreadableError{Path: path, Err: err}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Document{}, &MalformedError{Path: path, Err: err}
	}
	for _, required := range [...]string{"id", "category", "title", "body"} {
		if _, ok := fields[required]; !ok {
			return Document{}, &MalformedError{Path: path, Err: fmt.Errorf("missing required field %q", required)}
		}
	}
	// url is ignored entirely; it is not part of Document.

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, &MalformedError{Path: path, Err: err}
	}

	return doc, nil
}
