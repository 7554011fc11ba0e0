package score

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// FactualAccuracyMetric rewards distinct evidence vocabulary (substring match)
type FactualAccuracyMetric struct {
	Keywords  []string
	PointsPer float64
}

func (m *FactualAccuracyMetric) Label() string { return model.CriterionFactualAccuracy }

func (m *FactualAccuracyMetric) Evaluate(doc *Document) (float64, string) {
	hits := countPresent(doc.Lower, m.Keywords)
	score := math.Min(100, float64(hits)*m.PointsPer)
	return score, fmt.Sprintf("%d of %d evidence keywords present", hits, len(m.Keywords))
}

// AuthorCredibilityMetric is a binary byline heuristic
type AuthorCredibilityMetric struct {
	Byline  string
	Present float64
	Absent  float64
}

func (m *AuthorCredibilityMetric) Label() string { return model.CriterionAuthorCredibility }

func (m *AuthorCredibilityMetric) Evaluate(doc *Document) (float64, string) {
	if m.Byline != "" && strings.Contains(doc.Lower, m.Byline) {
		return m.Present, "byline marker found"
	}
	return m.Absent, "no byline marker"
}

// EmotionalLanguageMetric penalizes distinct emotionally charged words
type EmotionalLanguageMetric struct {
	Keywords   []string
	PenaltyPer float64
}

func (m *EmotionalLanguageMetric) Label() string { return model.CriterionEmotionalLanguage }

func (m *EmotionalLanguageMetric) Evaluate(doc *Document) (float64, string) {
	hits := countPresent(doc.Lower, m.Keywords)
	score := math.Max(0, 100-float64(hits)*m.PenaltyPer)
	return score, fmt.Sprintf("%d emotionally charged keywords present", hits)
}

// ExtremeStatementsMetric penalizes every absolutist word occurrence
type ExtremeStatementsMetric struct {
	Counter    *wordCounter
	PenaltyPer float64
}

func (m *ExtremeStatementsMetric) Label() string { return model.CriterionExtremeStatements }

func (m *ExtremeStatementsMetric) Evaluate(doc *Document) (float64, string) {
	hits := m.Counter.Total(doc.Lower)
	score := math.Max(0, 100-float64(hits)*m.PenaltyPer)
	return score, fmt.Sprintf("%d absolutist word occurrences", hits)
}

// ObjectivityMetric penalizes the share of adverb/adjective-like tokens
type ObjectivityMetric struct {
	Penalty float64
}

func (m *ObjectivityMetric) Label() string { return model.CriterionObjectivity }

func (m *ObjectivityMetric) Evaluate(doc *Document) (float64, string) {
	modifiers := 0
	for _, w := range doc.Words {
		if strings.HasSuffix(w, "ly") || strings.HasSuffix(w, "ive") {
			modifiers++
		}
	}
	ratio := float64(modifiers) / math.Max(1, float64(len(doc.Words)))
	return 100 - ratio*m.Penalty, fmt.Sprintf("%d of %d tokens end in -ly/-ive", modifiers, len(doc.Words))
}

// LanguageStyleMetric penalizes informal contractions
type LanguageStyleMetric struct {
	Patterns   []string
	PenaltyPer float64
	MaxPenalty float64
}

func (m *LanguageStyleMetric) Label() string { return model.CriterionLanguageStyle }

func (m *LanguageStyleMetric) Evaluate(doc *Document) (float64, string) {
	hits := 0
	for _, p := range m.Patterns {
		if p == "" {
			continue
		}
		hits += strings.Count(doc.Lower, p)
	}
	score := math.Max(0, 100-math.Min(m.MaxPenalty, float64(hits)*m.PenaltyPer))
	return score, fmt.Sprintf("%d contraction occurrences", hits)
}

// SentenceComplexityMetric scores distance from the target sentence length
type SentenceComplexityMetric struct {
	Target     float64
	PenaltyPer float64
}

func (m *SentenceComplexityMetric) Label() string { return model.CriterionSentenceComplexity }

func (m *SentenceComplexityMetric) Evaluate(doc *Document) (float64, string) {
	return lengthScore(doc, m.Target, m.PenaltyPer)
}

// TopicConsistencyMetric is the ratio of distinct topics to topic mentions
type TopicConsistencyMetric struct {
	Counter *wordCounter
}

func (m *TopicConsistencyMetric) Label() string { return model.CriterionTopicConsistency }

func (m *TopicConsistencyMetric) Evaluate(doc *Document) (float64, string) {
	distinct, total := m.Counter.Distinct(doc.Lower)
	if total == 0 {
		return 0, "no topic mentions"
	}
	return float64(distinct) / float64(total) * 100, fmt.Sprintf("%d distinct topics across %d mentions", distinct, total)
}

// ReadabilityMetric scores distance from the target sentence length
type ReadabilityMetric struct {
	Target     float64
	PenaltyPer float64
}

func (m *ReadabilityMetric) Label() string { return model.CriterionReadability }

func (m *ReadabilityMetric) Evaluate(doc *Document) (float64, string) {
	return lengthScore(doc, m.Target, m.PenaltyPer)
}

// BalancedCoverageMetric rewards distinct contrast markers
type BalancedCoverageMetric struct {
	Markers   []string
	Base      float64
	PointsPer float64
}

func (m *BalancedCoverageMetric) Label() string { return model.CriterionBalancedCoverage }

func (m *BalancedCoverageMetric) Evaluate(doc *Document) (float64, string) {
	hits := countPresent(doc.Lower, m.Markers)
	score := math.Min(100, m.Base+float64(hits)*m.PointsPer)
	return score, fmt.Sprintf("%d contrast markers present", hits)
}

// BiasMetric penalizes every absolutist word occurrence
type BiasMetric struct {
	Counter    *wordCounter
	PenaltyPer float64
}

func (m *BiasMetric) Label() string { return model.CriterionBias }

func (m *BiasMetric) Evaluate(doc *Document) (float64, string) {
	hits := m.Counter.Total(doc.Lower)
	score := math.Max(0, 100-math.Min(100, float64(hits)*m.PenaltyPer))
	return score, fmt.Sprintf("%d absolutist word occurrences", hits)
}

func lengthScore(doc *Document, target, penaltyPer float64) (float64, string) {
	avg := doc.AvgSentenceLength
	score := 100 - math.Abs(target-avg)*penaltyPer
	return score, fmt.Sprintf("average sentence length %.1f tokens over %d sentences", avg, len(doc.Sentences))
}

// countPresent counts keywords contained anywhere in s
func countPresent(s string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if k != "" && strings.Contains(s, k) {
			n++
		}
	}
	return n
}

// wordCounter counts whole-word occurrences of a fixed word list
type wordCounter struct {
	patterns []*regexp.Regexp
}

func newWordCounter(words []string) *wordCounter {
	c := &wordCounter{}
	for _, w := range words {
		if w == "" {
			continue
		}
		c.patterns = append(c.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return c
}

// Total returns the number of occurrences of all words
func (c *wordCounter) Total(s string) int {
	_, total := c.Distinct(s)
	return total
}

// Distinct returns how many words occur at least once and the total occurrences
func (c *wordCounter) Distinct(s string) (distinct, total int) {
	for _, p := range c.patterns {
		n := len(p.FindAllStringIndex(s, -1))
		if n > 0 {
			distinct++
			total += n
		}
	}
	return distinct, total
}
