package heuristics

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Parts is the decomposition of a URL used by features and rules.
type Parts struct {
	Scheme string
	Host   string // full host, without port
	Path   string
	Query  string

	Subdomain  string // "accounts" in accounts.google.com
	Domain     string // "google" in accounts.google.com
	Suffix     string // "com" in accounts.google.com, "co.uk" in bbc.co.uk
	Registered string // "google.com"

	HostIsIP bool
}

// ParseParts splits a raw URL into its structural parts. Schemeless inputs
// are parsed as if they had "http://" prepended, matching the original
// extractor's behavior. ParseParts never fails: unparseable input yields
// zero-valued parts.
func ParseParts(rawURL string) Parts {
	raw := strings.TrimSpace(rawURL)
	if raw != "" && !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Parts{}
	}

	p := Parts{
		Scheme: strings.ToLower(u.Scheme),
		Host:   strings.ToLower(u.Hostname()),
		Path:   u.Path,
		Query:  u.RawQuery,
	}

	if p.Host == "" {
		return p
	}

	if ip := net.ParseIP(strings.Trim(p.Host, "[]")); ip != nil {
		p.HostIsIP = true
		p.Domain = p.Host
		p.Registered = p.Host
		return p
	}

	suffix, _ := publicsuffix.PublicSuffix(p.Host)
	registered, err := publicsuffix.EffectiveTLDPlusOne(p.Host)
	if err != nil {
		// Host without a recognized eTLD+1 (single label, trailing dots):
		// treat the whole host as the domain.
		p.Domain = p.Host
		p.Registered = p.Host
		return p
	}

	p.Suffix = suffix
	p.Registered = registered
	p.Domain = strings.TrimSuffix(registered, "."+suffix)
	if p.Host != registered {
		p.Subdomain = strings.TrimSuffix(p.Host, "."+registered)
	}
	return p
}

// SubdomainLabels returns the dot-separated labels of the subdomain part.
func (p Parts) SubdomainLabels() []string {
	if p.Subdomain == "" {
		return nil
	}
	var labels []string
	for _, l := range strings.Split(p.Subdomain, ".") {
		if l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}
