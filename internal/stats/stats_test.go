package stats

import (
	"math"
	"testing"
)

func TestCountTerms(t *testing.T) {
	terms := []string{"東京", "東京", "大阪"}
	counts := CountTerms(terms)

	if counts["東京"] != 2 || counts["大阪"] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	if counts.Length() != len(terms) {
		t.Errorf("Length() = %d, want %d", counts.Length(), len(terms))
	}
}

func TestComputeTF(t *testing.T) {
	// spec scenario 2: single document {id:"a", title:"東京", body:"東京 大阪"}
	// tokenizes to [東京, 東京, 大阪]; TF(東京)=2/3, TF(大阪)=1/3.
	counts := CountTerms([]string{"東京", "東京", "大阪"})
	tf := ComputeTF(counts)

	const eps = 1e-9
	if math.Abs(tf["東京"]-2.0/3.0) > eps {
		t.Errorf("TF(東京) = %v, want 2/3", tf["東京"])
	}
	if math.Abs(tf["大阪"]-1.0/3.0) > eps {
		t.Errorf("TF(大阪) = %v, want 1/3", tf["大阪"])
	}

	var sum float64
	for _, v := range tf {
		sum += v
	}
	if math.Abs(sum-1.0) > eps {
		t.Errorf("sum(TF) = %v, want ~1", sum)
	}
}

func TestComputeTFEmptyDocument(t *testing.T) {
	tf := ComputeTF(CountTerms(nil))
	if len(tf) != 0 {
		t.Errorf("expected no TF entries for empty document, got %+v", tf)
	}
}

func TestComputeIDF(t *testing.T) {
	// spec scenario 3: two docs {a: "猫 犬", b: "猫 鳥"}.
	scope := []map[string]struct{}{
		{"猫": {}, "犬": {}},
		{"猫": {}, "鳥": {}},
	}
	idf := ComputeIDF(scope)

	const eps = 1e-9
	if math.Abs(idf["猫"]-0) > eps {
		t.Errorf("IDF(猫) = %v, want 0", idf["猫"])
	}
	want := math.Log(2.0 / 1.0)
	if math.Abs(idf["犬"]-want) > eps {
		t.Errorf("IDF(犬) = %v, want %v", idf["犬"], want)
	}
	if math.Abs(idf["鳥"]-want) > eps {
		t.Errorf("IDF(鳥) = %v, want %v", idf["鳥"], want)
	}
	for term, v := range idf {
		if v < 0 {
			t.Errorf("IDF(%s) = %v, want >= 0", term, v)
		}
	}
}

func TestComputeIDFEmptyScope(t *testing.T) {
	idf := ComputeIDF(nil)
	if len(idf) != 0 {
		t.Errorf("expected no IDF entries for empty scope, got %+v", idf)
	}
}

func TestComputeTFIDF(t *testing.T) {
	tf := TF{"猫": 0.5, "犬": 0.5}
	idf := IDF{"猫": 0, "犬": math.Log(2)}

	tfidf := ComputeTFIDF(tf, idf)

	if tfidf["猫"] != 0 {
		t.Errorf("TFIDF(猫) = %v, want 0", tfidf["猫"])
	}
	want := 0.5 * math.Log(2)
	if tfidf["犬"] != want {
		t.Errorf("TFIDF(犬) = %v, want %v", tfidf["犬"], want)
	}
}

func TestComputeTFIDFSkipsOutOfScopeTerms(t *testing.T) {
	tf := TF{"猫": 0.5, "unknown": 0.2}
	idf := IDF{"猫": 0.1}

	tfidf := ComputeTFIDF(tf, idf)
	if _, ok := tfidf["unknown"]; ok {
		t.Errorf("expected no entry for a term missing from idf, got %+v", tfidf)
	}
	if len(tfidf) != 1 {
		t.Errorf("expected exactly one entry, got %+v", tfidf)
	}
}
