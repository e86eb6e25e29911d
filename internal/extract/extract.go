// Package extract recovers a search keyword from the URL of a recognised
// search engine results page.
//
// A rule pairs a domain with the query parameter that carries the keyword
// on that domain (google.com uses q, baidu.com uses wd). Rules are evaluated
// in list order and the first rule whose domain matches the page hostname
// decides the outcome: if that rule's parameter is missing or empty the
// result is "no keyword", even when a later rule would also match.
package extract

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Rule maps a source engine domain to its keyword query parameter.
type Rule struct {
	Domain string `json:"domain" yaml:"domain"`
	Param  string `json:"param" yaml:"param"`
}

// Keyword returns the search keyword carried by rawURL according to rules.
// The boolean is false when the URL cannot be parsed, no rule matches its
// hostname, or the first matching rule's parameter is absent or empty.
// Keyword never panics or returns an error; malformed input is "no match".
func Keyword(rawURL string, rules []Rule) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	host := normaliseHost(u.Hostname())
	if host == "" {
		return "", false
	}

	for _, r := range rules {
		if !MatchHost(host, r.Domain) {
			continue
		}
		if r.Param == "" {
			return "", false
		}
		kw := strings.TrimSpace(u.Query().Get(r.Param))
		return kw, kw != ""
	}
	return "", false
}

// MatchHost reports whether hostname belongs to domain: either the same host
// or a subdomain of it. A bare substring is not a match, so google.com does
// not match fakegoogle.com.
func MatchHost(hostname, domain string) bool {
	h := normaliseHost(hostname)
	d := normaliseHost(domain)
	if h == "" || d == "" {
		return false
	}
	return h == d || strings.HasSuffix(h, "."+d)
}

// normaliseHost lowercases a host, drops a trailing dot and converts
// internationalised names to their ASCII form so that "bücher.de" and
// "xn--bcher-kva.de" compare equal.
func normaliseHost(h string) string {
	h = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ".")
	if h == "" {
		return ""
	}
	if a, err := idna.Lookup.ToASCII(h); err == nil {
		return a
	}
	return h
}

// NormaliseDomain returns the canonical form of a rule domain, used when
// checking that two engines do not claim the same domain.
func NormaliseDomain(d string) string {
	return normaliseHost(d)
}
