package sentiment

// Default returns the built-in app-review lexicon. Weights are hand-tuned
// against a sample of store reviews; override via LoadFromYAML for other
// domains.
func Default() *Lexicon {
	lex := New()

	positive := map[string]float64{
		"amazing":     0.9,
		"awesome":     0.9,
		"excellent":   0.9,
		"fantastic":   0.9,
		"perfect":     0.9,
		"love":        0.8,
		"loved":       0.8,
		"great":       0.8,
		"best":        0.8,
		"wonderful":   0.8,
		"good":        0.6,
		"nice":        0.6,
		"helpful":     0.6,
		"smooth":      0.6,
		"fast":        0.5,
		"easy":        0.5,
		"reliable":    0.6,
		"intuitive":   0.6,
		"useful":      0.5,
		"responsive":  0.5,
		"convenient":  0.5,
		"stable":      0.5,
		"clean":       0.4,
		"simple":      0.3,
		"works":       0.3,
		"fine":        0.2,
		"ok":          0.1,
		"okay":        0.1,
		"improved":    0.4,
		"recommend":   0.6,
		"satisfied":   0.6,
		"happy":       0.7,
	}
	negative := map[string]float64{
		"terrible":      -0.9,
		"horrible":      -0.9,
		"awful":         -0.9,
		"worst":         -0.9,
		"useless":       -0.8,
		"hate":          -0.8,
		"garbage":       -0.8,
		"scam":          -0.8,
		"bad":           -0.6,
		"poor":          -0.6,
		"broken":        -0.7,
		"crash":         -0.7,
		"crashes":       -0.7,
		"crashing":      -0.7,
		"freeze":        -0.6,
		"freezes":       -0.6,
		"bug":           -0.5,
		"buggy":         -0.6,
		"bugs":          -0.5,
		"slow":          -0.5,
		"lag":           -0.5,
		"laggy":         -0.5,
		"annoying":      -0.6,
		"frustrating":   -0.7,
		"disappointed":  -0.7,
		"disappointing": -0.7,
		"error":         -0.4,
		"errors":        -0.4,
		"issue":         -0.3,
		"issues":        -0.3,
		"problem":       -0.4,
		"problems":      -0.4,
		"glitch":        -0.5,
		"unusable":      -0.8,
		"waste":         -0.7,
		"expensive":     -0.3,
		"ads":           -0.2,
		"confusing":     -0.4,
		"uninstall":     -0.6,
		"uninstalled":   -0.6,
	}

	for term, weight := range positive {
		lex.AddTerm(term, weight)
	}
	for term, weight := range negative {
		lex.AddTerm(term, weight)
	}

	for _, n := range []string{"not", "no", "never", "cannot", "can't", "don't", "doesn't", "won't", "didn't", "isn't", "wasn't"} {
		lex.AddNegator(n)
	}

	lex.AddBooster("very", 1.3)
	lex.AddBooster("really", 1.3)
	lex.AddBooster("extremely", 1.5)
	lex.AddBooster("so", 1.2)
	lex.AddBooster("too", 1.2)
	lex.AddBooster("slightly", 0.5)
	lex.AddBooster("somewhat", 0.6)
	lex.AddBooster("bit", 0.6)

	return lex
}
