package tokenize

// nounPOS is the IPADIC primary part-of-speech tag for nouns. The source
// implementation this module replaces tested POS membership with a
// substring check against "名詞", which also matches compound tags such as
// "名詞接続" (noun-conjunctive). The intended semantics — and the one this
// adapter implements — is exact equality against the noun tag alone.
const nounPOS = "名詞"

// isNoun reports whether a token's primary part-of-speech tag is the noun
// tag, by exact match. pos is the tokenizer's POS feature hierarchy, e.g.
// ["名詞", "一般", "*", "*"]; only the first element is consulted.
func isNoun(pos []string) bool {
	if len(pos) == 0 {
		return false
	}
	return pos[0] == nounPOS
}
