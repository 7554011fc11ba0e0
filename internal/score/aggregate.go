package score

import (
	"math"
	"regexp"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// Rubric is the weighted aggregate of a metrics map
type Rubric struct {
	Categories          []model.ScoreCategory
	Average             float64 // Mean rubric score on 0..1
	RFProb              float64 // Secondary probability signal on 0..1
	Combined            float64 // RubricShare*Average + ProbabilityShare*RFProb
	Total               int     // round(100 * Combined)
	Classification      bool
	ClassificationLabel string
}

// Aggregate combines the metrics into categories, a composite and a classification.
// The category weights split RubricShare evenly; RFProb carries the rest and is
// never represented as a category weight.
func Aggregate(metrics model.Metrics) Rubric {
	t := Defaults()
	n := len(metrics)
	if n == 0 {
		return Rubric{ClassificationLabel: model.ClassificationLabelFor(false)}
	}

	weight := t.RubricShare / float64(n)
	categories := make([]model.ScoreCategory, 0, n)
	sum := 0.0
	for _, m := range metrics {
		sum += m.Score
		categories = append(categories, model.ScoreCategory{
			ID:      Slug(m.Label),
			Label:   m.Label,
			Weight:  weight,
			Score:   int(math.Round(m.Score)),
			Details: m.Details,
		})
	}

	avg := sum / (float64(n) * 100)
	rfProb := clamp01((metrics.Value(model.CriterionFactualAccuracy) + metrics.Value(model.CriterionBalancedCoverage)) / 200)
	combined := t.RubricShare*avg + t.ProbabilityShare*rfProb
	classification := combined >= t.ClassificationThreshold

	return Rubric{
		Categories:          categories,
		Average:             avg,
		RFProb:              rfProb,
		Combined:            combined,
		Total:               int(math.Round(combined * 100)),
		Classification:      classification,
		ClassificationLabel: model.ClassificationLabelFor(classification),
	}
}

// Response builds a ScoreResponse for url from the rubric
func (r Rubric) Response(url, title string) *model.ScoreResponse {
	rfProb := r.RFProb
	classification := r.Classification
	return &model.ScoreResponse{
		URL:                 url,
		Title:               title,
		Categories:          r.Categories,
		Total:               r.Total,
		RFProb:              &rfProb,
		Classification:      &classification,
		ClassificationLabel: r.ClassificationLabel,
	}
}

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases label and joins alphanumeric runs with single dashes
func Slug(label string) string {
	return strings.Trim(nonAlnumRun.ReplaceAllString(strings.ToLower(label), "-"), "-")
}
