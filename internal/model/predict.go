package model

// PredictResponse is the classifier service's current response schema
// ("shape A"): label 1 means phishing, score is the confidence, reasons are
// rationale tags.
type PredictResponse struct {
	Label   int      `json:"label"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

// LegacyPredictResponse is the older deployments' response schema
// ("shape B"): any prediction other than "phishing" means legitimate.
type LegacyPredictResponse struct {
	Prediction string `json:"prediction"`
}

// PredictionPhishing is the LegacyPredictResponse value meaning phishing.
const PredictionPhishing = "phishing"

// PredictionLegitimate is the value used for non-phishing verdicts.
const PredictionLegitimate = "legitimate"
