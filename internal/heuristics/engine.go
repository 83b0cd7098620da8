// Package heuristics is the rule-based URL classifier behind the built-in
// prediction service. It is the fallback scorer of the original PhishGuard
// backend: feature extraction plus a small set of hand-written rules, not a
// trained model.
package heuristics

import (
	"fmt"
	"strings"

	"github.com/phishguard/phishguard/internal/logging"
)

// Assessment is the outcome of running the rules against one URL.
type Assessment struct {
	// Label is 1 for phishing, 0 for legitimate.
	Label int

	// Score is the confidence in [0,1]; the max of the triggered rules'
	// scores, or the base score when none fired.
	Score float64

	// Reasons explains which rules fired. Empty when none did.
	Reasons []string
}

// Engine evaluates URLs against the configured rule tables.
type Engine struct {
	cfg    *Config
	logger logging.Logger
}

// NewEngine constructs a heuristics engine. A nil config selects the
// default rule tables.
func NewEngine(cfg *Config, logger logging.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger.With(logging.Field{Key: "component", Value: "heuristics"}),
	}
}

// Evaluate runs the fallback rules against a URL:
//
//  1. brand-in-subdomain: a trusted brand token in the subdomain (or as the
//     domain) while the registered domain is not the official one;
//  2. typosquat: domain within a small edit distance of an official brand
//     domain;
//  3. suspicious keywords anywhere in the host labels;
//  4. IP-literal host.
//
// The resulting score is the max of the triggered rules' scores.
func (e *Engine) Evaluate(rawURL string) Assessment {
	p := ParseParts(rawURL)

	label := 0
	score := e.cfg.BaseScore
	var reasons []string

	sub := strings.ToLower(p.Subdomain)
	domain := strings.ToLower(p.Domain)
	registered := strings.ToLower(p.Registered)

	// 1) brand-in-subdomain
	for brand, official := range e.cfg.TrustedBrands {
		if (strings.Contains(sub, brand) || brand == domain) && registered != official {
			label = 1
			score = max(score, 0.95)
			reasons = append(reasons, fmt.Sprintf("brand %q appears but registered domain is %q, not %q", brand, registered, official))
		}
	}

	// 2) typosquat
	for _, official := range e.cfg.TrustedBrands {
		officialLabel, _, _ := strings.Cut(official, ".")
		dist := levenshtein(domain, officialLabel)
		thr := typosquatThreshold(len(official))
		if dist > 0 && dist <= thr {
			label = 1
			score = max(score, 0.9)
			reasons = append(reasons, fmt.Sprintf("domain %q similar to brand %q (lev=%d)", registered, official, dist))
		}
	}

	// 3) suspicious keywords in host labels
	hostLabels := strings.ToLower(sub + " " + domain + " " + p.Suffix)
	var hits []string
	for _, w := range e.cfg.SuspiciousWords {
		if strings.Contains(hostLabels, w) {
			hits = append(hits, w)
		}
	}
	if len(hits) > 0 {
		label = 1
		score = max(score, 0.8)
		reasons = append(reasons, "suspicious words in host: "+strings.Join(hits, ", "))
	}

	// 4) IP-literal host
	if p.HostIsIP {
		label = 1
		score = max(score, 0.9)
		reasons = append(reasons, "host is an IP address")
	}

	e.logger.Debug("evaluated url",
		logging.Field{Key: "url", Value: rawURL},
		logging.Field{Key: "label", Value: label},
		logging.Field{Key: "score", Value: score})

	return Assessment{Label: label, Score: score, Reasons: reasons}
}

// typosquatThreshold mirrors the original's edit-distance thresholds by
// official-domain length.
func typosquatThreshold(officialLen int) int {
	switch {
	case officialLen <= 4:
		return 1
	case officialLen <= 7:
		return 2
	default:
		return 3
	}
}

// levenshtein computes the edit distance between two strings with the
// classic two-row dynamic program.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
