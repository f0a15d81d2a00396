// Package topics discovers recurring topics in a review corpus.
//
// The extractor weighs terms with TF-IDF and groups documents around
// greedily chosen seed documents. Unlike a randomly initialized clustering,
// the whole procedure is deterministic: seeds are picked by descending
// TF-IDF mass with farthest-first spreading, ties broken by corpus order.
// Labels are still clustering artifacts: two different corpora can word
// near-identical topics differently, and callers must not assume a shared
// vocabulary across runs.
package topics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/revlens/revlens/pkg/revlens/internalerr"
)

const (
	// DefaultTopicCount is the number of clusters discovered per run.
	DefaultTopicCount = 5

	// labelTermCount is how many top cluster terms form a topic label.
	labelTermCount = 5
)

// Topic is one discovered cluster: a space-joined label of its top terms and
// the fraction of corpus documents assigned to it.
type Topic struct {
	Label     string  `json:"label"`
	Frequency float64 `json:"frequency"`
}

// Extractor discovers topics in text corpora.
type Extractor struct {
	tokenizer *Tokenizer
}

// NewExtractor creates an extractor using the given tokenizer.
func NewExtractor(tokenizer *Tokenizer) *Extractor {
	return &Extractor{tokenizer: tokenizer}
}

// docVector is one document's TF-IDF weighted term vector.
type docVector struct {
	index   int // position in the input corpus
	weights map[string]float64
	norm    float64
	mass    float64 // sum of weights, used for seed ordering
}

// Extract discovers up to n topics. It fails when the corpus holds fewer
// token-bearing documents than requested clusters, the same degenerate
// input that breaks any clustering with a fixed cluster count.
func (e *Extractor) Extract(texts []string, n int) ([]Topic, error) {
	if n <= 0 {
		n = DefaultTopicCount
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: empty corpus", internalerr.ErrInsufficientData)
	}

	docs := e.vectorize(texts)
	if len(docs) < n {
		return nil, fmt.Errorf("%w: %d usable documents for %d topics",
			internalerr.ErrUpstreamAnalysis, len(docs), n)
	}

	seeds := pickSeeds(docs, n)
	assignment := assign(docs, seeds)

	topics := make([]Topic, 0, n)
	for cluster := 0; cluster < n; cluster++ {
		var members []docVector
		for i, d := range docs {
			if assignment[i] == cluster {
				members = append(members, d)
			}
		}
		// Duplicate documents can starve a later seed of members: ties
		// assign to the earlier identical seed. An empty cluster has no
		// label and no frequency, so it never reaches the result.
		if len(members) == 0 {
			continue
		}
		topics = append(topics, Topic{
			Label: clusterLabel(members),
			// Frequency is over the full corpus, including documents that
			// tokenized to nothing, matching how membership fractions read
			// against the review count.
			Frequency: float64(len(members)) / float64(len(texts)),
		})
	}

	sort.SliceStable(topics, func(i, j int) bool {
		if topics[i].Frequency != topics[j].Frequency {
			return topics[i].Frequency > topics[j].Frequency
		}
		return topics[i].Label < topics[j].Label
	})
	return topics, nil
}

// vectorize builds TF-IDF vectors for every document with at least one
// token.
func (e *Extractor) vectorize(texts []string) []docVector {
	tokensPerDoc := make([][]string, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		toks := e.tokenizer.Tokenize(text)
		tokensPerDoc[i] = toks
		seen := make(map[string]struct{}, len(toks))
		for _, tok := range toks {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	total := float64(len(texts))
	docs := make([]docVector, 0, len(texts))
	for i, toks := range tokensPerDoc {
		if len(toks) == 0 {
			continue
		}
		tf := make(map[string]float64, len(toks))
		for _, tok := range toks {
			tf[tok]++
		}
		weights := make(map[string]float64, len(tf))
		var mass, normSq float64
		for tok, count := range tf {
			// Smoothed IDF keeps corpus-wide terms from zeroing out.
			idf := math.Log((1+total)/(1+float64(df[tok]))) + 1
			w := (count / float64(len(toks))) * idf
			weights[tok] = w
			mass += w
			normSq += w * w
		}
		docs = append(docs, docVector{
			index:   i,
			weights: weights,
			norm:    math.Sqrt(normSq),
			mass:    mass,
		})
	}
	return docs
}

// pickSeeds chooses n seed documents: the heaviest document first, then
// farthest-first spreading so seeds cover distinct regions of the corpus.
func pickSeeds(docs []docVector, n int) []docVector {
	ordered := make([]docVector, len(docs))
	copy(ordered, docs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].mass != ordered[j].mass {
			return ordered[i].mass > ordered[j].mass
		}
		return ordered[i].index < ordered[j].index
	})

	seeds := []docVector{ordered[0]}
	taken := map[int]struct{}{ordered[0].index: {}}

	for len(seeds) < n {
		bestIdx := -1
		bestScore := math.Inf(1)
		for i, d := range ordered {
			if _, ok := taken[d.index]; ok {
				continue
			}
			// Closest existing seed determines how redundant this doc is.
			closest := 0.0
			for _, s := range seeds {
				if sim := cosine(d, s); sim > closest {
					closest = sim
				}
			}
			if closest < bestScore {
				bestScore = closest
				bestIdx = i
			}
		}
		seeds = append(seeds, ordered[bestIdx])
		taken[ordered[bestIdx].index] = struct{}{}
	}
	return seeds
}

// assign maps each document to its most similar seed; ties go to the
// earlier seed.
func assign(docs []docVector, seeds []docVector) []int {
	assignment := make([]int, len(docs))
	for i, d := range docs {
		best := 0
		bestSim := cosine(d, seeds[0])
		for s := 1; s < len(seeds); s++ {
			if sim := cosine(d, seeds[s]); sim > bestSim {
				bestSim = sim
				best = s
			}
		}
		assignment[i] = best
	}
	return assignment
}

// clusterLabel joins the cluster's top terms by aggregate weight.
func clusterLabel(members []docVector) string {
	centroid := make(map[string]float64)
	for _, d := range members {
		for tok, w := range d.weights {
			centroid[tok] += w
		}
	}

	terms := make([]string, 0, len(centroid))
	for tok := range centroid {
		terms = append(terms, tok)
	}
	sort.SliceStable(terms, func(i, j int) bool {
		if centroid[terms[i]] != centroid[terms[j]] {
			return centroid[terms[i]] > centroid[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > labelTermCount {
		terms = terms[:labelTermCount]
	}
	return strings.Join(terms, " ")
}

func cosine(a, b docVector) float64 {
	if a.norm == 0 || b.norm == 0 {
		return 0
	}
	// Iterate the smaller map.
	small, large := a.weights, b.weights
	if len(large) < len(small) {
		small, large = large, small
	}
	var dot float64
	for tok, w := range small {
		if w2, ok := large[tok]; ok {
			dot += w * w2
		}
	}
	return dot / (a.norm * b.norm)
}
