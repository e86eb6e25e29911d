package extract

import (
	"net/url"
	"strings"
)

// probe stands in for the placeholder while parsing a URL template; the
// placeholder itself ("%s") is not a valid percent escape.
const probe = "SEARCHRELAY_KEYWORD"

// Derive guesses the source rule for a search URL template: the hostname
// without a leading "www." and the query parameter whose value is the
// placeholder. Either field is empty when it cannot be determined.
func Derive(template, placeholder string) Rule {
	if template == "" || placeholder == "" {
		return Rule{}
	}
	u, err := url.Parse(strings.Replace(template, placeholder, probe, 1))
	if err != nil {
		return Rule{}
	}

	var r Rule
	r.Domain = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	// url.Values is a map; walk the raw query to keep the first match stable.
	for _, pair := range strings.Split(u.RawQuery, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || v != probe {
			continue
		}
		if key, err := url.QueryUnescape(k); err == nil {
			r.Param = key
			break
		}
	}
	return r
}
