package topics

// DefaultStopwords returns the built-in English stopword list used when no
// custom list is configured. App-review filler ("app", "really") is included
// on top of the usual function words, otherwise every cluster labels itself
// "app".
func DefaultStopwords() []string {
	return []string{
		"a", "about", "after", "again", "all", "also", "am", "an", "and",
		"any", "are", "as", "at", "be", "because", "been", "before", "being",
		"but", "by", "can", "could", "did", "do", "does", "doing", "down",
		"during", "each", "few", "for", "from", "further", "get", "got",
		"had", "has", "have", "having", "he", "her", "here", "hers", "him",
		"his", "how", "i", "if", "in", "into", "is", "it", "its", "just",
		"like", "me", "more", "most", "my", "no", "nor", "not", "now", "of",
		"off", "on", "once", "only", "or", "other", "our", "out", "over",
		"own", "same", "she", "should", "so", "some", "still", "such",
		"than", "that", "the", "their", "them", "then", "there", "these",
		"they", "this", "those", "through", "to", "too", "under", "until",
		"up", "use", "using", "very", "was", "we", "were", "what", "when",
		"where", "which", "while", "who", "why", "will", "with", "would",
		"you", "your",

		"app", "apps", "really", "even", "one", "much", "many", "lot",
		"please", "thanks", "thank", "im", "ive", "dont", "cant", "wont",
	}
}
