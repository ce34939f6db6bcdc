package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

// HashURL creates a SHA256 hash of a URL string.
// This is useful for creating consistent, safe keys for Redis and job IDs.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// ToAbsoluteURL resolves a possibly relative reference against base.
func ToAbsoluteURL(base *url.URL, relative string) (*url.URL, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(relURL), nil
}

// Origin returns scheme://host/ of u.
func Origin(u *url.URL) *url.URL {
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
}
