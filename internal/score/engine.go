// Package score implements the local rubric scorer: eleven lexical metrics
// over normalized article text and the weighted aggregate built from them.
// Every metric is deterministic and explains its inputs in a details string.
package score

import (
	"math"
	"regexp"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// Metric is implemented by every rubric criterion
type Metric interface {
	// Label returns the criterion name used as the metrics map key
	Label() string
	// Evaluate returns the raw criterion score and a short explanation
	Evaluate(doc *Document) (float64, string)
}

// Document is the per-request view of the text shared by all metrics
type Document struct {
	Text              string   // Normalized text as received
	Lower             string   // Case-folded text used for keyword matching
	Words             []string // Whitespace-delimited tokens of Lower
	Sentences         []string // Non-empty segments split on terminal punctuation
	AvgSentenceLength float64  // len(Words) / len(Sentences), 0 without sentences
}

// sentenceBoundary matches one or more terminators followed by whitespace
var sentenceBoundary = regexp.MustCompile(`[.!?]+\s`)

// NewDocument tokenizes text once for all metrics
func NewDocument(text string) *Document {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	var sentences []string
	for _, s := range sentenceBoundary.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, s)
		}
	}

	avg := 0.0
	if len(sentences) > 0 {
		avg = float64(len(words)) / float64(len(sentences))
	}

	return &Document{
		Text:              text,
		Lower:             lower,
		Words:             words,
		Sentences:         sentences,
		AvgSentenceLength: avg,
	}
}

// Engine runs an ordered set of metrics over a text
type Engine struct {
	metrics []Metric
}

// NewEngine creates an engine with the given metrics, evaluated in order
func NewEngine(metrics ...Metric) *Engine {
	return &Engine{metrics: metrics}
}

// NewDefaultEngine creates an engine with the eleven standard criteria
func NewDefaultEngine(lex model.Lexicon) *Engine {
	return NewEngine(DefaultMetrics(lex)...)
}

// Evaluate computes every metric, clamped to [0,100] and rounded
func (e *Engine) Evaluate(text string) model.Metrics {
	doc := NewDocument(text)

	metrics := make(model.Metrics, 0, len(e.metrics))
	for _, m := range e.metrics {
		raw, details := m.Evaluate(doc)
		metrics = append(metrics, model.MetricScore{
			Label:   m.Label(),
			Score:   math.Round(clamp(raw, 0, 100)),
			Details: details,
		})
	}
	return metrics
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
