package utils

import (
	"errors"
	"regexp"
	"strings"

	nurl "net/url"
)

var (
	ErrInvalidUrl = errors.New("invalid url")

	urlRe = regexp.MustCompile(`(?m)(https?:\/\/[^\s"'<>]+)`)
)

// ExtractUrl returns the first http(s) URL found in str. Pasted text around
// the link is ignored.
func ExtractUrl(str string) (*nurl.URL, error) {
	raw := urlRe.FindString(strings.TrimSpace(str))
	if raw == "" {
		return nil, ErrInvalidUrl
	}
	u, err := nurl.ParseRequestURI(raw)
	if err != nil || u.Host == "" {
		return nil, ErrInvalidUrl
	}
	return u, nil
}
