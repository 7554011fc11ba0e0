package model

// ScoreRequest is the body accepted by the scoring endpoint
type ScoreRequest struct {
	URL string `json:"url" yaml:"url"`
}

// ScoreCategory is one weighted rubric criterion in a response
type ScoreCategory struct {
	ID      string  `json:"id" yaml:"id"`                             // Slug derived from Label (e.g., "factual-accuracy")
	Label   string  `json:"label" yaml:"label"`                       // Criterion name (e.g., "Factual Accuracy")
	Weight  float64 `json:"weight" yaml:"weight"`                     // Share of the composite (0..1)
	Score   int     `json:"score" yaml:"score"`                       // 0..100
	Details string  `json:"details,omitempty" yaml:"details,omitempty"` // How the score was derived
}

// ScoreResponse is the complete scoring result returned to callers.
// Total is 70% rubric mean plus 30% RFProb, scaled to 0..100.
type ScoreResponse struct {
	URL                 string          `json:"url" yaml:"url"`
	Title               string          `json:"title,omitempty" yaml:"title,omitempty"`
	Categories          []ScoreCategory `json:"categories" yaml:"categories"`
	Total               int             `json:"total" yaml:"total"`
	RFProb              *float64        `json:"rfProb,omitempty" yaml:"rfProb,omitempty"`
	Classification      *bool           `json:"classification,omitempty" yaml:"classification,omitempty"`
	ClassificationLabel string          `json:"classificationLabel,omitempty" yaml:"classificationLabel,omitempty"`
	ModelVersion        string          `json:"modelVersion,omitempty" yaml:"modelVersion,omitempty"`
	Notes               string          `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Classification labels
const (
	LabelTrue  = "True"
	LabelFalse = "False"
)

// ClassificationLabelFor maps the boolean classification to its label
func ClassificationLabelFor(classification bool) string {
	if classification {
		return LabelTrue
	}
	return LabelFalse
}
