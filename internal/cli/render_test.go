package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
)

func localResult() *pipeline.Result {
	rf, cls := 0.61, true
	return &pipeline.Result{
		Provenance: pipeline.ProvenanceLocal,
		Response: &model.ScoreResponse{
			URL:   "https://news.example/study",
			Title: "Benchmark Study",
			Categories: []model.ScoreCategory{
				{ID: "factual-accuracy", Label: "Factual Accuracy", Weight: 0.7 / 11, Score: 48, Details: "4 evidence terms"},
				{ID: "bias", Label: "Bias", Weight: 0.7 / 11, Score: 100},
			},
			Total:               65,
			RFProb:              &rf,
			Classification:      &cls,
			ClassificationLabel: model.LabelTrue,
			ModelVersion:        pipeline.ModelVersionFallback,
			Notes:               pipeline.NoteNoBackend,
		},
	}
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, localResult(), formatTable))

	out := buf.String()
	assert.Contains(t, out, "Benchmark Study")
	assert.Contains(t, out, "Factual Accuracy")
	assert.Contains(t, out, "4 evidence terms")
	assert.Contains(t, out, "0.064")
	assert.Contains(t, out, "65/100")
	assert.Contains(t, out, "RF probability: 0.61")
	assert.Contains(t, out, "Classification: True")
	assert.Contains(t, out, "heuristic-fallback (local-fallback)")
	assert.Contains(t, out, pipeline.NoteNoBackend)
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, localResult(), formatJSON))

	var got model.ScoreResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 65, got.Total)
	assert.Len(t, got.Categories, 2)
}

func TestRender_JSONExternalVerbatim(t *testing.T) {
	res := &pipeline.Result{
		Raw:        json.RawMessage(`{"url":"u","total":9,"custom":[1]}`),
		Provenance: pipeline.ProvenanceExternal,
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, res, formatJSON))
	assert.JSONEq(t, `{"url":"u","total":9,"custom":[1]}`, buf.String())
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, localResult(), formatYAML))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 65, got["total"])
	assert.Equal(t, "True", got["classificationLabel"])
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{formatTable, formatJSON, formatYAML} {
		assert.NoError(t, validateFormat(f))
	}
	assert.Error(t, validateFormat("xml"))
}
