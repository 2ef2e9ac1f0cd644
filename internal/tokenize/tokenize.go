// Package tokenize adapts a Japanese morphological analyzer into the noun
// token stream the indexing core consumes. It wraps
// github.com/ikawaha/kagome/v2, a pure-Go IPADIC morphological analyzer, and
// is the module's one external collaborator for text analysis: this package
// never reimplements tokenization, only filters and reshapes kagome's
// output.
package tokenize

import (
	"fmt"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Result is a document's token stream and unique term set, per spec: order
// of appearance is preserved in Terms; duplicates are folded away in Set.
type Result struct {
	Terms []string
	Set   map[string]struct{}
}

// Tokenizer wraps an initialized kagome analyzer. A Tokenizer holds no
// mutable state across calls to Tokenize — kagome's dictionary and trained
// model are read-only after construction — so a single Tokenizer is safe to
// reuse across documents, including concurrently.
type Tokenizer struct {
	analyzer *tokenizer.Tokenizer
}

// New constructs a Tokenizer backed by the IPADIC dictionary. Construction
// loads the dictionary into memory once; callers should build one Tokenizer
// per process, not per document.
func New() (*Tokenizer, error) {
	analyzer, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBOSEOS())
	if err != nil {
		return nil, &BackendError{Err: err}
	}
	return &Tokenizer{analyzer: analyzer}, nil
}

// Tokenize runs morphological analysis over text (expected to be
// title + "\n" + body) and returns the ordered noun surface-form stream and
// its unique-term set. Empty surface forms are dropped; POS membership is
// exact equality against the noun tag (see pos.go).
func (tk *Tokenizer) Tokenize(text string) (Result, error) {
	tokens, err := tk.analyze(text)
	if err != nil {
		return Result{}, err
	}

	raw := make([]rawToken, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		raw = append(raw, rawToken{surface: tok.Surface, pos: tok.POS()})
	}
	return filterNouns(raw), nil
}

// rawToken is the minimal shape this package needs from a kagome token,
// extracted so the noun-filtering logic in filterNouns can be unit-tested
// without loading the real IPADIC dictionary.
type rawToken struct {
	surface string
	pos     []string
}

// filterNouns applies the empty-surface-form and noun-POS filters (spec
// §4.2) to a raw token stream, preserving order and building the unique
// term set in the same pass.
func filterNouns(tokens []rawToken) Result {
	res := Result{
		Terms: make([]string, 0, len(tokens)),
		Set:   make(map[string]struct{}),
	}
	for _, tok := range tokens {
		if tok.surface == "" {
			continue
		}
		if !isNoun(tok.pos) {
			continue
		}
		res.Terms = append(res.Terms, tok.surface)
		res.Set[tok.surface] = struct{}{}
	}
	return res
}

// analyze isolates the call into kagome so a panic or backend failure
// surfaces as a typed BackendError rather than propagating a bare library
// error or crashing the indexing run.
func (tk *Tokenizer) analyze(text string) (tokens []tokenizer.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &BackendError{Err: fmt.Errorf("kagome panic: %v", r)}
		}
	}()
	return tk.analyzer.Analyze(text, tokenizer.Normal), nil
}

// BackendError wraps a failure from the underlying morphological analyzer.
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string { return fmt.Sprintf("tokenize: backend failure: %v", e.Err) }

func (e *BackendError) Unwrap() error { return e.Err }
