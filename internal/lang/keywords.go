package lang

// stopwords are frequent function words; a text is attributed to the language
// with the most hits.
var stopwords = map[Language][]string{
	German: {
		"ich", "und", "bitte", "der", "die", "das", "mit", "zum", "zur", "ein", "eine", "zwei",
		"mochte", "hatte", "gerne", "fur", "nicht", "ist", "wir", "abholen", "bestellen", "danke", "guten", "tag",
	},
	French: {
		"je", "et", "le", "la", "les", "une", "un", "avec", "pour", "voudrais", "deux",
		"vous", "plait", "merci", "bonjour", "livraison", "emporter", "commander", "est", "des", "du",
	},
	Italian: {
		"io", "vorrei", "il", "lo", "gli", "una", "uno", "con", "per", "favore", "grazie", "buongiorno",
		"due", "sono", "della", "del", "asporto", "consegna", "ordinare", "ciao",
	},
	English: {
		"i", "and", "the", "please", "would", "like", "with", "for", "two", "want", "order",
		"pick", "up", "delivery", "thanks", "hello", "to", "is", "my",
	},
}

type KeywordDetector struct {
	index map[string][]Language
}

func NewKeywordDetector() *KeywordDetector {
	index := make(map[string][]Language)
	for _, l := range Supported {
		for _, w := range stopwords[l] {
			w = Fold(w)
			index[w] = append(index[w], l)
		}
	}
	return &KeywordDetector{index: index}
}

// DetectText reports false when no language scores or the top two tie.
func (k *KeywordDetector) DetectText(text string) (Language, bool) {
	scores := make(map[Language]int, len(Supported))
	for _, w := range Words(Fold(text)) {
		for _, l := range k.index[w] {
			scores[l]++
		}
	}

	var best Language
	bestScore, runnerUp := 0, 0
	for _, l := range Supported {
		switch s := scores[l]; {
		case s > bestScore:
			best, runnerUp, bestScore = l, bestScore, s
		case s > runnerUp:
			runnerUp = s
		}
	}
	if bestScore == 0 || bestScore == runnerUp {
		return "", false
	}
	return best, true
}
