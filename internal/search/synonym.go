package search

// synonyms folds common spellings onto one token so "golang" and "go" count
// as the same word.
var synonyms = map[string]string{
	"golang":     "go",
	"postgresql": "postgres",
	"psql":       "postgres",
	"js":         "javascript",
	"ts":         "typescript",
	"k8s":        "kubernetes",
	"ml":         "machinelearning",
	"ai":         "artificialintelligence",
	"frontend":   "front",
	"backend":    "back",
	"fullstack":  "full",
	"vc":         "venture",
	"saas":       "software",
	"b2b":        "business",
	"fintech":    "finance",
}

// Canonical returns the preferred form of a single lower-case word.
func Canonical(word string) string {
	if v, ok := synonyms[word]; ok {
		return v
	}
	return word
}
