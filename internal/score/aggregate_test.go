package score

import (
	"math"
	"testing"

	"github.com/ppiankov/credence/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_Scenario(t *testing.T) {
	rubric := Aggregate(evaluate(t, scenarioText))

	assert.InDelta(t, 0.61, rubric.RFProb, 1e-9)
	assert.InDelta(t, 736.0/1100.0, rubric.Average, 1e-9)
	assert.Equal(t, 65, rubric.Total)
	assert.True(t, rubric.Classification)
	assert.Equal(t, model.LabelTrue, rubric.ClassificationLabel)
}

func TestAggregate_Properties(t *testing.T) {
	texts := []string{
		"",
		scenarioText,
		"Shocking! This is the worst disaster ever and everyone must know. It's totally horrible.",
		"By Staff. The dataset and method were evaluated in a study. However, results vary.",
	}

	for _, text := range texts {
		rubric := Aggregate(evaluate(t, text))
		require.Len(t, rubric.Categories, 11)

		weights, sum := 0.0, 0.0
		for _, c := range rubric.Categories {
			weights += c.Weight
			sum += float64(c.Score)
			assert.GreaterOrEqual(t, c.Score, 0)
			assert.LessOrEqual(t, c.Score, 100)
		}
		assert.InDelta(t, 0.7, weights, 1e-9, "weights must sum to 0.7")

		avg := sum / 1100
		combined := 0.7*avg + 0.3*rubric.RFProb
		assert.Equal(t, int(math.Round(100*combined)), rubric.Total)
		assert.Equal(t, combined >= 0.6, rubric.Classification)
		assert.Equal(t, model.ClassificationLabelFor(rubric.Classification), rubric.ClassificationLabel)
		assert.GreaterOrEqual(t, rubric.RFProb, 0.0)
		assert.LessOrEqual(t, rubric.RFProb, 1.0)
	}
}

func TestAggregate_Threshold(t *testing.T) {
	metrics := func(v float64) model.Metrics {
		var m model.Metrics
		for _, label := range model.Criteria() {
			m = append(m, model.MetricScore{Label: label, Score: v})
		}
		return m
	}

	high := Aggregate(metrics(60))
	assert.InDelta(t, 0.6, high.Combined, 1e-9)
	assert.True(t, high.Classification, "threshold is inclusive")

	low := Aggregate(metrics(59))
	assert.False(t, low.Classification)
	assert.Equal(t, model.LabelFalse, low.ClassificationLabel)
	assert.Equal(t, 59, low.Total)
}

func TestAggregate_Empty(t *testing.T) {
	rubric := Aggregate(nil)

	assert.Empty(t, rubric.Categories)
	assert.Equal(t, 0, rubric.Total)
	assert.False(t, rubric.Classification)
}

func TestRubric_Response(t *testing.T) {
	rubric := Aggregate(evaluate(t, scenarioText))
	resp := rubric.Response("https://example.com/a", "A title")

	assert.Equal(t, "https://example.com/a", resp.URL)
	assert.Equal(t, "A title", resp.Title)
	require.NotNil(t, resp.RFProb)
	require.NotNil(t, resp.Classification)
	assert.InDelta(t, rubric.RFProb, *resp.RFProb, 1e-12)
	assert.Equal(t, rubric.Classification, *resp.Classification)
	assert.Equal(t, "factual-accuracy", resp.Categories[0].ID)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Factual Accuracy", "factual-accuracy"},
		{"Bias", "bias"},
		{"  Leading & Trailing!! ", "leading-trailing"},
		{"Already-slugged--Label", "already-slugged-label"},
		{"Score 2.0", "score-2-0"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), tt.in)
	}
}
