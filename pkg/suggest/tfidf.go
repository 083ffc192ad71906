// A small term-frequency/inverse-document-frequency vector space used for
// the similarity term of the scorer. The corpus for one seed is the seed's
// raw text plus the raw text of every surviving candidate from that seed, so
// similarity is always computed relative to the request, never against a
// global model.
package suggest

import (
	"math"
	"strings"
	"unicode"
)

// tokenize lower-cases s and splits it into alphanumeric terms.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// tfidfVectors builds one sparse vector per document. IDF is smoothed as
// ln(N/(1+df))+1 so terms present in every document still carry a small
// positive weight and single-document corpora do not zero out.
func tfidfVectors(docs []string) []map[string]float64 {
	n := len(docs)
	tokens := make([][]string, n)
	df := make(map[string]int)
	for i, d := range docs {
		tokens[i] = tokenize(d)
		seen := make(map[string]struct{})
		for _, t := range tokens[i] {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				df[t]++
			}
		}
	}
	vecs := make([]map[string]float64, n)
	for i, ts := range tokens {
		vec := make(map[string]float64, len(ts))
		if len(ts) == 0 {
			vecs[i] = vec
			continue
		}
		for _, t := range ts {
			vec[t]++
		}
		for t, count := range vec {
			tf := count / float64(len(ts))
			idf := math.Log(float64(n)/(1+float64(df[t]))) + 1
			vec[t] = tf * idf
		}
		vecs[i] = vec
	}
	return vecs
}

// cosine returns the cosine similarity of two sparse vectors, zero when
// either vector is empty.
func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// Iterate the smaller vector for the dot product.
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot, na, nb float64
	for t, av := range a {
		na += av * av
		if bv, ok := b[t]; ok {
			dot += av * bv
		}
	}
	for _, bv := range b {
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
