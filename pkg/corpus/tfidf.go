package corpus

import (
	"math"
	"sort"
)

type term struct {
	id     int
	weight float64
}

// vector is a sparse, L2 normalised weight vector sorted by term id.
type vector []term

func (v vector) dot(o vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v) && j < len(o) {
		switch {
		case v[i].id == o[j].id:
			sum += v[i].weight * o[j].weight
			i++
			j++
		case v[i].id < o[j].id:
			i++
		default:
			j++
		}
	}
	return sum
}

// vectorizer holds a vocabulary and the smoothed idf weights fitted on it.
// It is never modified after fit.
type vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// fit builds the vocabulary over docs with idf = ln((1+n)/(1+df)) + 1.
// Term ids follow the sorted vocabulary.
func fit(docs [][]string) *vectorizer {
	df := make(map[string]int)
	for _, tokens := range docs {
		seen := make(map[string]bool, len(tokens))
		for _, t := range tokens {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v := &vectorizer{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	for id, t := range terms {
		v.vocabulary[t] = id
		v.idf[id] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return v
}

// transform weights raw term counts by idf and normalises the result.
// Tokens outside the vocabulary are ignored.
func (v *vectorizer) transform(tokens []string) vector {
	counts := make(map[int]int)
	for _, t := range tokens {
		if id, ok := v.vocabulary[t]; ok {
			counts[id]++
		}
	}

	vec := make(vector, 0, len(counts))
	var norm float64
	for id, c := range counts {
		w := float64(c) * v.idf[id]
		vec = append(vec, term{id: id, weight: w})
		norm += w * w
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].id < vec[j].id })

	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].weight /= norm
	}
	return vec
}

func (v *vectorizer) size() int {
	return len(v.idf)
}
