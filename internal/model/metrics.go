package model

// Rubric criterion labels, in response order
const (
	CriterionFactualAccuracy    = "Factual Accuracy"
	CriterionAuthorCredibility  = "Author Credibility"
	CriterionEmotionalLanguage  = "Emotional Language"
	CriterionExtremeStatements  = "Extreme Statements"
	CriterionObjectivity        = "Objectivity"
	CriterionLanguageStyle      = "Language Style"
	CriterionSentenceComplexity = "Sentence Complexity"
	CriterionTopicConsistency   = "Topic Consistency"
	CriterionReadability        = "Readability"
	CriterionBalancedCoverage   = "Balanced Coverage"
	CriterionBias               = "Bias"
)

// Criteria lists the eleven rubric criteria in their canonical order
func Criteria() []string {
	return []string{
		CriterionFactualAccuracy,
		CriterionAuthorCredibility,
		CriterionEmotionalLanguage,
		CriterionExtremeStatements,
		CriterionObjectivity,
		CriterionLanguageStyle,
		CriterionSentenceComplexity,
		CriterionTopicConsistency,
		CriterionReadability,
		CriterionBalancedCoverage,
		CriterionBias,
	}
}

// MetricScore is a single criterion score in [0,100]
type MetricScore struct {
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
	Details string  `json:"details,omitempty"`
}

// Metrics is an ordered criterion -> score mapping, created per request
type Metrics []MetricScore

// Value returns the score for label, or 0 if absent
func (m Metrics) Value(label string) float64 {
	for _, s := range m {
		if s.Label == label {
			return s.Score
		}
	}
	return 0
}

// Has reports whether label is present
func (m Metrics) Has(label string) bool {
	for _, s := range m {
		if s.Label == label {
			return true
		}
	}
	return false
}
