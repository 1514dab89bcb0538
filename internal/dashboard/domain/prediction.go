package domain

import "time"

// Verdict labels a prediction can carry. Every stored row has exactly one of
// the two.
const (
	LabelPhishing   = "phishing"
	LabelLegitimate = "legitimate"
)

type Prediction struct {
	ID          string
	UserID      string
	InputURL    string
	Prediction  string
	Confidence  float64 // always within [0, 1]
	RiskFactors []string
	Timestamp   time.Time
}

// PredictionWithOwner is a prediction joined with its owner's display fields,
// used by the admin listings.
type PredictionWithOwner struct {
	Prediction

	OwnerName  string
	OwnerEmail string
}

// NormalizeLabel coerces an upstream label to one of the two stored values.
// Anything that is not exactly "phishing" (including an absent or garbled
// label) becomes "legitimate". That default masks an upstream malfunction as
// a negative verdict; it is the contract today, so any policy change belongs
// here and nowhere else.
func NormalizeLabel(label string) string {
	if label == LabelPhishing {
		return LabelPhishing
	}
	return LabelLegitimate
}

// ClampConfidence forces v into [0, 1]. NaN collapses to 0.
func ClampConfidence(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
