package memory

import (
	"math"
	"sort"
)

const maxVocabularyTerms = 20000

type sparseRow struct {
	indices []int
	values  []float64
}

// LexicalModel is a TF-IDF model over unigrams and bigrams fitted on the full
// chunk set of one department. It is never mutated after fitting.
type LexicalModel struct {
	vocabulary map[string]int
	idf        []float64
	rows       []sparseRow
}

func fitLexicalModel(texts []string) *LexicalModel {
	docTerms := make([]map[string]int, len(texts))
	docFreq := make(map[string]int, 256)
	corpusFreq := make(map[string]int, 256)

	for i, text := range texts {
		counts := make(map[string]int, 32)
		for _, term := range analyzeTerms(text) {
			counts[term]++
		}
		for term, c := range counts {
			docFreq[term]++
			corpusFreq[term] += c
		}
		docTerms[i] = counts
	}

	terms := make([]string, 0, len(corpusFreq))
	for term := range corpusFreq {
		terms = append(terms, term)
	}
	if len(terms) > maxVocabularyTerms {
		sort.Slice(terms, func(i, j int) bool {
			if corpusFreq[terms[i]] != corpusFreq[terms[j]] {
				return corpusFreq[terms[i]] > corpusFreq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxVocabularyTerms]
	}
	sort.Strings(terms)

	n := float64(len(texts))
	model := &LexicalModel{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
		rows:       make([]sparseRow, len(texts)),
	}
	for idx, term := range terms {
		model.vocabulary[term] = idx
		model.idf[idx] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	for i, counts := range docTerms {
		weights := make(map[int]float64, len(counts))
		for term, c := range counts {
			idx, ok := model.vocabulary[term]
			if !ok {
				continue
			}
			weights[idx] = float64(c) * model.idf[idx]
		}
		model.rows[i] = toSparseRow(weights)
	}
	return model
}

// transform maps a query into the model's L2-normalized weight space.
// Terms outside the vocabulary are ignored.
func (m *LexicalModel) transform(query string) map[int]float64 {
	counts := make(map[int]float64, 16)
	for _, term := range analyzeTerms(query) {
		if idx, ok := m.vocabulary[term]; ok {
			counts[idx]++
		}
	}
	var norm float64
	for idx, c := range counts {
		w := c * m.idf[idx]
		counts[idx] = w
		norm += w * w
	}
	if norm == 0 {
		return counts
	}
	norm = math.Sqrt(norm)
	for idx := range counts {
		counts[idx] /= norm
	}
	return counts
}

func (m *LexicalModel) score(row int, query map[int]float64) float64 {
	if row < 0 || row >= len(m.rows) || len(query) == 0 {
		return 0
	}
	r := m.rows[row]
	var dot float64
	for i, idx := range r.indices {
		if q, ok := query[idx]; ok {
			dot += q * r.values[i]
		}
	}
	return dot
}

// DocumentCount is the number of chunks the model was fitted on.
func (m *LexicalModel) DocumentCount() int {
	return len(m.rows)
}

func (m *LexicalModel) VocabularySize() int {
	return len(m.vocabulary)
}

func toSparseRow(weights map[int]float64) sparseRow {
	if len(weights) == 0 {
		return sparseRow{}
	}
	indices := make([]int, 0, len(weights))
	var norm float64
	for idx, w := range weights {
		indices = append(indices, idx)
		norm += w * w
	}
	sort.Ints(indices)
	norm = math.Sqrt(norm)

	values := make([]float64, 0, len(indices))
	for _, idx := range indices {
		v := weights[idx] / norm
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		values = append(values, v)
	}
	return sparseRow{indices: indices, values: values}
}
