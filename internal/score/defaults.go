package score

import "github.com/ppiankov/credence/internal/model"

// Tuning holds the numeric constants of the lexical metrics and aggregate
type Tuning struct {
	// Factual Accuracy
	EvidencePoints float64

	// Author Credibility
	BylinePresent float64
	BylineAbsent  float64

	// Emotional Language
	EmotionalPenalty float64

	// Extreme Statements / Bias (per absolutist occurrence)
	ExtremePenalty float64
	BiasPenalty    float64

	// Objectivity (per unit fraction of -ly/-ive tokens)
	ModifierPenalty float64

	// Language Style
	ContractionPenalty    float64
	ContractionMaxPenalty float64

	// Sentence Complexity / Readability
	TargetSentenceLength float64
	ComplexityPenalty    float64
	ReadabilityPenalty   float64

	// Balanced Coverage
	ContrastBase   float64
	ContrastPoints float64

	// Aggregate
	RubricShare             float64
	ProbabilityShare        float64
	ClassificationThreshold float64
}

// Defaults returns the standard tuning
func Defaults() Tuning {
	return Tuning{
		EvidencePoints: 8,

		BylinePresent: 70,
		BylineAbsent:  40,

		EmotionalPenalty: 15,

		ExtremePenalty: 10,
		BiasPenalty:    12,

		ModifierPenalty: 4000,

		ContractionPenalty:    20,
		ContractionMaxPenalty: 100,

		TargetSentenceLength: 22,
		ComplexityPenalty:    4,
		ReadabilityPenalty:   5,

		ContrastBase:   50,
		ContrastPoints: 12,

		RubricShare:             0.7,
		ProbabilityShare:        0.3,
		ClassificationThreshold: 0.6,
	}
}

// DefaultMetrics returns the eleven criteria in canonical order
func DefaultMetrics(lex model.Lexicon) []Metric {
	t := Defaults()
	absolutist := newWordCounter(lex.Absolutist)

	return []Metric{
		&FactualAccuracyMetric{Keywords: lex.Evidence, PointsPer: t.EvidencePoints},
		&AuthorCredibilityMetric{Byline: lex.Byline, Present: t.BylinePresent, Absent: t.BylineAbsent},
		&EmotionalLanguageMetric{Keywords: lex.Emotional, PenaltyPer: t.EmotionalPenalty},
		&ExtremeStatementsMetric{Counter: absolutist, PenaltyPer: t.ExtremePenalty},
		&ObjectivityMetric{Penalty: t.ModifierPenalty},
		&LanguageStyleMetric{Patterns: lex.Contractions, PenaltyPer: t.ContractionPenalty, MaxPenalty: t.ContractionMaxPenalty},
		&SentenceComplexityMetric{Target: t.TargetSentenceLength, PenaltyPer: t.ComplexityPenalty},
		&TopicConsistencyMetric{Counter: newWordCounter(lex.Topics)},
		&ReadabilityMetric{Target: t.TargetSentenceLength, PenaltyPer: t.ReadabilityPenalty},
		&BalancedCoverageMetric{Markers: lex.Contrast, Base: t.ContrastBase, PointsPer: t.ContrastPoints},
		&BiasMetric{Counter: absolutist, PenaltyPer: t.BiasPenalty},
	}
}
