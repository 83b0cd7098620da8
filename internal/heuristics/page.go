package heuristics

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/phishguard/phishguard/internal/logging"
)

// InspectPage derives additional phishing signals from a landing page's
// static HTML. It is used by the prediction service when page inspection is
// enabled; URL-only scoring never depends on it. pageURL is the URL the
// HTML was fetched from and anchors the off-domain checks.
//
// Returned reasons use the same free-text style as the URL rules. A nil or
// unparseable document yields no reasons.
func (e *Engine) InspectPage(html []byte, pageURL string) []string {
	if len(html) == 0 {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		e.logger.Warn("failed to parse page html",
			logging.Field{Key: "url", Value: pageURL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil
	}

	page := ParseParts(pageURL)
	var reasons []string

	// Password forms: where do they post?
	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		if form.Find(`input[type="password"]`).Length() == 0 {
			return
		}

		action, _ := form.Attr("action")
		action = strings.TrimSpace(action)
		if action != "" && strings.Contains(action, "://") {
			target := ParseParts(action)
			if target.Registered != "" && target.Registered != page.Registered {
				reasons = append(reasons, "password form posts to foreign domain "+target.Registered)
			}
		}

		if page.Scheme == "http" {
			reasons = append(reasons, "password form served over plain http")
		}
	})

	// Meta refresh redirecting off-host.
	doc.Find(`meta[http-equiv]`).Each(func(_ int, meta *goquery.Selection) {
		equiv, _ := meta.Attr("http-equiv")
		if !strings.EqualFold(equiv, "refresh") {
			return
		}
		content, _ := meta.Attr("content")
		_, target, found := strings.Cut(strings.ToLower(content), "url=")
		if !found {
			return
		}
		dest := ParseParts(strings.TrimSpace(target))
		if dest.Registered != "" && dest.Registered != page.Registered {
			reasons = append(reasons, "meta refresh redirects to "+dest.Registered)
		}
	})

	return dedupe(reasons)
}

func dedupe(in []string) []string {
	if len(in) < 2 {
		return in
	}
	seen := map[string]struct{}{}
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
