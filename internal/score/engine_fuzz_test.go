package score

import (
	"testing"

	"github.com/ppiankov/credence/internal/model"
)

// FuzzEngineEvaluate checks that every criterion stays in [0,100] for arbitrary text.
func FuzzEngineEvaluate(f *testing.F) {
	seeds := []string{
		"",
		scenarioText,
		"never never never! can't won't. Technology technology technology.",
		"a.b.c!d?e",
		" 　 unicode spaces. and ü ñ ß …",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	engine := NewDefaultEngine(model.DefaultLexicon())
	f.Fuzz(func(t *testing.T, text string) {
		metrics := engine.Evaluate(text)
		if len(metrics) != 11 {
			t.Fatalf("expected 11 metrics, got %d", len(metrics))
		}
		for _, m := range metrics {
			if m.Score < 0 || m.Score > 100 {
				t.Errorf("%s out of range: %v", m.Label, m.Score)
			}
		}

		rubric := Aggregate(metrics)
		if rubric.Total < 0 || rubric.Total > 100 {
			t.Errorf("total out of range: %d", rubric.Total)
		}
	})
}
