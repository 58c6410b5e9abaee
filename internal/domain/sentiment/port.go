package sentiment

import (
	"context"
	"errors"
)

// Labels a classifier may return.
const (
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
	LabelNegative = "negative"
)

// Signal is an external sentiment classification of disclosure text.
type Signal struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier is the optional external sentiment collaborator. When no
// classifier is configured, scoring proceeds unadjusted.
type Classifier interface {
	Classify(ctx context.Context, text string) (Signal, error)
}

// ErrQuotaExceeded indicates the provider returned a quota/limit error.
var ErrQuotaExceeded = errors.New("sentiment quota exceeded")
