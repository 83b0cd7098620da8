// Package interpreter maps raw classifier responses into normalized verdicts.
//
// The service contract observed in practice is inconsistent between
// deployments: newer ones answer {"label": 0|1, "score": n, "reasons": [...]}
// (shape A), older ones answer {"prediction": "phishing"|...} (shape B).
// This package is the only place that knows about either; a future third
// shape is added here without touching the controller or presentation code.
package interpreter

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/phishguard/phishguard/internal/model"
	"github.com/phishguard/phishguard/internal/utils"
)

// UnrecognizedShapeError is returned when a payload is valid JSON but matches
// no known response schema. It retains the payload for diagnostics.
type UnrecognizedShapeError struct {
	Payload json.RawMessage
}

func (e *UnrecognizedShapeError) Error() string {
	return fmt.Sprintf("unrecognized classifier response shape: %s", utils.Excerpt(string(e.Payload), 256))
}

// Interpret normalizes a classifier response body into a Verdict. Shape A is
// attempted first, then shape B; anything else fails with
// *UnrecognizedShapeError.
func Interpret(payload []byte) (*model.Verdict, error) {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		// Valid JSON that isn't an object (arrays, bare scalars) lands
		// here too: it is not malformed, just not a known schema.
		return nil, &UnrecognizedShapeError{Payload: rawCopy(payload)}
	}

	if v, ok := interpretShapeA(doc); ok {
		v.Raw = rawCopy(payload)
		return v, nil
	}
	if v, ok := interpretShapeB(doc); ok {
		v.Raw = rawCopy(payload)
		return v, nil
	}

	return nil, &UnrecognizedShapeError{Payload: rawCopy(payload)}
}

// interpretShapeA matches {label: 0|1, score?: number, reasons?: []string}.
// The label must be numerically exactly 0 or 1.
func interpretShapeA(doc map[string]any) (*model.Verdict, bool) {
	labelVal, ok := doc["label"]
	if !ok {
		return nil, false
	}
	label, ok := labelVal.(float64)
	if !ok || (label != 0 && label != 1) {
		return nil, false
	}

	verdict := &model.Verdict{
		IsPhishing: label == 1,
		Confidence: normalizeScore(doc["score"]),
		Reasons:    stringSlice(doc["reasons"]),
	}
	return verdict, true
}

// interpretShapeB matches {prediction: string}; any string other than
// "phishing" means legitimate.
func interpretShapeB(doc map[string]any) (*model.Verdict, bool) {
	prediction, ok := doc["prediction"].(string)
	if !ok {
		return nil, false
	}
	return &model.Verdict{
		IsPhishing: prediction == "phishing",
		Confidence: nil,
		Reasons:    []string{},
	}, true
}

// normalizeScore maps a reported score onto [0,1], or nil when absent or
// unusable. Scores in (1,100] are treated as percentages: the original
// backend reports confidence as a percent, and some deployments forward it
// unscaled.
func normalizeScore(v any) *float64 {
	score, ok := v.(float64)
	if !ok || math.IsNaN(score) || math.IsInf(score, 0) {
		return nil
	}
	switch {
	case score >= 0 && score <= 1:
		return &score
	case score > 1 && score <= 100:
		pct := score / 100
		return &pct
	default:
		return nil
	}
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func rawCopy(payload []byte) json.RawMessage {
	return json.RawMessage(append([]byte(nil), payload...))
}
