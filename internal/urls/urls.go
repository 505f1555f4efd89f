// Package urls normalizes discovered addresses and decides which of them the
// crawler follows.
package urls

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	whatwg "github.com/nlnwa/whatwg-url/url"
)

// Predicate reports whether a candidate address may be followed.
type Predicate func(address string) bool

var errNotAbsolute = errors.New("address is not absolute")

// Non-HTML resources, matched against the path only.
var binaryExtension = regexp.MustCompile(`(?i)\.(pdf|zip|rar|tar|gz|exe|docx?|xlsx?|pptx?|txt)$`)

var parser = whatwg.NewParser()

// Normalize trims whitespace, lowercases scheme and host, drops the fragment and
// gives an empty path the root path. Path, query and their case are kept.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if !u.IsAbs() || u.Host == "" {
		return "", errNotAbsolute
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// DefaultFilter rejects blank addresses, javascript: and mailto: pseudo-links,
// anything carrying a fragment marker and known binary downloads.
func DefaultFilter(address string) bool {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") {
		return false
	}
	if strings.Contains(trimmed, "#") {
		return false
	}
	return !IsBinaryResource(trimmed)
}

// IsBinaryResource reports whether the address path ends in a non-HTML extension.
func IsBinaryResource(address string) bool {
	path := address
	if u, err := url.Parse(address); err == nil {
		path = u.Path
	}
	return binaryExtension.MatchString(path)
}

// WellFormed reports whether address parses as an absolute http(s) URL with a host.
func WellFormed(address string) bool {
	trimmed := strings.TrimSpace(address)
	if _, err := parser.Parse(trimmed); err != nil {
		return false
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	return u.Host != ""
}

// All combines predicates; an address must satisfy every one of them.
func All(preds ...Predicate) Predicate {
	return func(address string) bool {
		for _, pred := range preds {
			if !pred(address) {
				return false
			}
		}
		return true
	}
}

// Default is the predicate the crawler uses unless told otherwise.
func Default() Predicate {
	return All(DefaultFilter, WellFormed)
}
