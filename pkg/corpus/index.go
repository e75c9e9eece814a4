package corpus

import (
	"errors"
	"sort"
)

// DefaultTopK is the number of matches returned when no positive k is given.
const DefaultTopK = 3

// ErrEmptyCorpus is returned when no diagram blocks were found.
var ErrEmptyCorpus = errors.New("corpus contains no diagram blocks")

// Document is one corpus entry: a single diagram block and the file it came
// from.
type Document struct {
	File string `json:"file"`
	Text string `json:"text"`
}

// Match is a ranked corpus entry.
type Match struct {
	File  string  `json:"file"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// Index is a TF-IDF vector space over a fixed set of documents. It is
// immutable once built and safe for concurrent use.
type Index struct {
	docs    []Document
	vectors []vector
	vec     *vectorizer
}

// NewIndex fits the vocabulary over docs and embeds every document.
func NewIndex(docs []Document) (*Index, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	tokens := make([][]string, len(docs))
	for i, d := range docs {
		tokens[i] = Tokenize(d.Text)
	}

	vec := fit(tokens)
	vectors := make([]vector, len(docs))
	for i := range tokens {
		vectors[i] = vec.transform(tokens[i])
	}

	owned := make([]Document, len(docs))
	copy(owned, docs)

	return &Index{
		docs:    owned,
		vectors: vectors,
		vec:     vec,
	}, nil
}

// Len returns the number of documents.
func (idx *Index) Len() int {
	return len(idx.docs)
}

// VocabularySize returns the number of distinct terms.
func (idx *Index) VocabularySize() int {
	return idx.vec.size()
}

// Documents returns a copy of the indexed documents in insertion order.
func (idx *Index) Documents() []Document {
	out := make([]Document, len(idx.docs))
	copy(out, idx.docs)
	return out
}

// Rank scores text against every document by cosine similarity and returns
// the best min(k, Len()) matches, highest first. Equal scores keep insertion
// order. k <= 0 means DefaultTopK.
func (idx *Index) Rank(text string, k int) []Match {
	if k <= 0 {
		k = DefaultTopK
	}
	if k > len(idx.docs) {
		k = len(idx.docs)
	}

	query := idx.vec.transform(Tokenize(text))

	scores := make([]float64, len(idx.docs))
	order := make([]int, len(idx.docs))
	for i, v := range idx.vectors {
		scores[i] = clamp(query.dot(v))
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	matches := make([]Match, 0, k)
	for _, i := range order[:k] {
		matches = append(matches, Match{
			File:  idx.docs[i].File,
			Score: scores[i],
			Text:  idx.docs[i].Text,
		})
	}
	return matches
}

func clamp(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}
