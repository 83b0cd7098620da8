package heuristics

import (
	"math"
	"strings"
	"unicode"
)

// urlSafeChars are the punctuation characters not counted as "special" in
// the num_special_chars feature.
const urlSafeChars = ".-/:?=&_%#"

// ComputeFeatures extracts the fixed numeric feature set for a URL. The map
// is feature_name -> value (0 means "absent"/"false"). The set and the
// semantics match the original extractor, including heuristic_score as the
// final entry. domain_age_days is always -1: WHOIS lookups are not
// performed.
func (e *Engine) ComputeFeatures(rawURL string) map[string]float64 {
	p := ParseParts(rawURL)
	f := map[string]float64{}

	// -----------------------------------------------------------------------
	// 1) Lengths and character counts
	// -----------------------------------------------------------------------

	f["url_length"] = float64(len(rawURL))
	f["host_length"] = float64(len(p.Host))
	f["path_length"] = float64(len(p.Path))

	if strings.Contains(p.Query, "=") {
		f["num_query_params"] = float64(strings.Count(p.Query, "&") + 1)
	} else {
		f["num_query_params"] = 0
	}
	if strings.Contains(rawURL, "#") {
		f["num_fragments"] = 1
	} else {
		f["num_fragments"] = 0
	}

	f["count_dot"] = float64(strings.Count(rawURL, "."))
	f["count_dash"] = float64(strings.Count(rawURL, "-"))
	f["count_at"] = float64(strings.Count(rawURL, "@"))
	f["count_question"] = float64(strings.Count(rawURL, "?"))
	f["count_equal"] = float64(strings.Count(rawURL, "="))
	f["count_percent"] = float64(strings.Count(rawURL, "%"))
	f["count_hash"] = float64(strings.Count(rawURL, "#"))

	f["num_digits_in_host"] = float64(countDigits(p.Host))
	f["num_digits_total"] = float64(countDigits(rawURL))

	var special int
	for _, r := range rawURL {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune(urlSafeChars, r) {
			special++
		}
	}
	f["num_special_chars"] = float64(special)

	// -----------------------------------------------------------------------
	// 2) Scheme / host shape
	// -----------------------------------------------------------------------

	f["has_https"] = boolFeature(p.Scheme == "https")
	f["starts_with_ip"] = boolFeature(p.HostIsIP)
	f["entropy"] = Entropy(rawURL)
	f["domain_age_days"] = -1

	// -----------------------------------------------------------------------
	// 3) Suspicious tokens and subdomain stats
	// -----------------------------------------------------------------------

	haystack := strings.ToLower(p.Host + " " + p.Path + " " + p.Query)
	var hits int
	for _, w := range e.cfg.SuspiciousWords {
		if strings.Contains(haystack, w) {
			hits++
		}
	}
	f["suspicious_words_count"] = float64(hits)
	f["suspicious_keyword"] = boolFeature(hits > 0)

	labels := p.SubdomainLabels()
	f["num_subdomains"] = float64(len(labels))
	longSub := false
	for _, l := range labels {
		if len(l) >= e.cfg.LongSubdomainLen {
			longSub = true
			break
		}
	}
	f["has_long_subdomain"] = boolFeature(longSub)
	f["has_long_tld"] = boolFeature(len(p.Suffix) >= e.cfg.LongTLDLen)

	// -----------------------------------------------------------------------
	// 4) Heuristic score
	// -----------------------------------------------------------------------

	a := e.Evaluate(rawURL)
	f["heuristic_score"] = math.Round(a.Score*10000) / 10000

	return f
}

// Entropy returns the Shannon entropy of s in bits per character.
func Entropy(s string) float64 {
	if s == "" {
		return 0
	}
	counts := map[rune]int{}
	var total float64
	for _, r := range s {
		counts[r]++
		total++
	}
	var entropy float64
	for _, c := range counts {
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}

func countDigits(s string) int {
	var n int
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
