// Package sentiment scores review text polarity with a weighted term
// lexicon.
//
// Design principles:
//   - Deterministic: the same text always yields the same score
//   - Bounded: scores are clamped to [-1, 1]
//   - Corpus-specific: the built-in lexicon targets app-store vocabulary
//     and can be replaced or extended from YAML
package sentiment

import (
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// negationWindow is how many tokens a negator reaches forward.
// "not really good" still flips "good"; anything further does not.
const negationWindow = 2

// Lexicon maps lowercase terms to polarity weights in [-1, 1].
type Lexicon struct {
	weights   map[string]float64
	negators  map[string]struct{}
	boosters  map[string]float64 // multiplier applied to the next matched term
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		weights:  make(map[string]float64),
		negators: make(map[string]struct{}),
		boosters: make(map[string]float64),
	}
}

// AddTerm registers a term with a polarity weight, clamped to [-1, 1].
func (l *Lexicon) AddTerm(term string, weight float64) {
	l.weights[strings.ToLower(term)] = clamp(weight)
}

// AddNegator registers a token that flips the sign of nearby terms.
func (l *Lexicon) AddNegator(token string) {
	l.negators[strings.ToLower(token)] = struct{}{}
}

// AddBooster registers an intensity modifier ("very" -> 1.3, "slightly" -> 0.5).
func (l *Lexicon) AddBooster(token string, factor float64) {
	l.boosters[strings.ToLower(token)] = factor
}

// Len returns the number of weighted terms.
func (l *Lexicon) Len() int {
	return len(l.weights)
}

// Score computes the polarity of a text: the mean weight of matched lexicon
// terms, with negation flipping and booster scaling applied, clamped to
// [-1, 1]. Texts matching no term score 0.
func (l *Lexicon) Score(text string) float64 {
	tokens := splitWords(text)
	if len(tokens) == 0 {
		return 0
	}

	var sum float64
	matched := 0
	for i, tok := range tokens {
		weight, ok := l.weights[tok]
		if !ok {
			continue
		}

		factor := 1.0
		for back := 1; back <= negationWindow && i-back >= 0; back++ {
			prev := tokens[i-back]
			if _, neg := l.negators[prev]; neg {
				factor = -factor
				break
			}
			if boost, ok := l.boosters[prev]; ok {
				factor *= boost
				continue
			}
			break
		}

		sum += weight * factor
		matched++
	}

	if matched == 0 {
		return 0
	}
	return clamp(sum / float64(matched))
}

// LoadFromYAML loads a lexicon from a YAML file.
//
// Expected format:
//
//	terms:
//	  - term: great
//	    weight: 0.8
//	  - term: crash
//	    weight: -0.7
//	negators: [not, never, no, cannot]
//	boosters:
//	  - token: very
//	    factor: 1.3
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Terms []struct {
			Term   string  `yaml:"term"`
			Weight float64 `yaml:"weight"`
		} `yaml:"terms"`
		Negators []string `yaml:"negators"`
		Boosters []struct {
			Token  string  `yaml:"token"`
			Factor float64 `yaml:"factor"`
		} `yaml:"boosters"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := New()
	for _, t := range config.Terms {
		lex.AddTerm(t.Term, t.Weight)
	}
	for _, n := range config.Negators {
		lex.AddNegator(n)
	}
	for _, b := range config.Boosters {
		lex.AddBooster(b.Token, b.Factor)
	}
	return lex, nil
}

func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
