package model

// Lexicon holds the keyword tables used by the lexical metrics.
// All entries are matched against case-folded text, so they must be lowercase.
type Lexicon struct {
	Evidence     []string `json:"evidence" yaml:"evidence" mapstructure:"evidence"`                // Factual Accuracy (substring, distinct)
	Emotional    []string `json:"emotional" yaml:"emotional" mapstructure:"emotional"`             // Emotional Language (substring, distinct)
	Absolutist   []string `json:"absolutist" yaml:"absolutist" mapstructure:"absolutist"`          // Extreme Statements and Bias (word boundary, every occurrence)
	Contractions []string `json:"contractions" yaml:"contractions" mapstructure:"contractions"`    // Language Style (literal, every occurrence)
	Topics       []string `json:"topics" yaml:"topics" mapstructure:"topics"`                      // Topic Consistency (word boundary)
	Contrast     []string `json:"contrast" yaml:"contrast" mapstructure:"contrast"`                // Balanced Coverage (substring, distinct)
	Byline       string   `json:"byline" yaml:"byline" mapstructure:"byline"`                      // Author Credibility (substring)
}

// DefaultLexicon returns the built-in English keyword tables
func DefaultLexicon() Lexicon {
	return Lexicon{
		Evidence: []string{
			"figure", "table", "experiment", "evaluate", "metric",
			"benchmark", "ablation", "confidence", "p-value", "significant",
			"dataset", "results", "study", "data", "method",
		},
		Emotional: []string{
			"shocking", "unbelievable", "incredible", "disaster",
			"scandal", "outrage", "amazing", "horrible",
		},
		Absolutist: []string{
			"always", "never", "completely", "totally", "only", "worst",
			"best", "amazing", "horrible", "must", "everyone", "no one",
		},
		Contractions: []string{
			"can't", "won't", "n't", "it's", "i'm", "he's", "she's", "they're", "we're",
		},
		Topics: []string{
			"computer", "technology", "politics", "economics",
			"science", "culture", "health", "business",
		},
		Contrast: []string{"however", "but ", "on the other hand", "both"},
		Byline:   "by ",
	}
}
