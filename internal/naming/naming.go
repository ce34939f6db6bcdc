// Package naming maps URL parts to filesystem-safe tokens.
//
// Every input produces a token; degenerate inputs produce empty or ".html"
// tokens rather than errors.
package naming

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^0-9A-Za-z]`)
	leadingLetters  = regexp.MustCompile(`^[A-Za-z]*`)
)

// DefaultExtension is appended to names whose path carries no extension.
const DefaultExtension = "html"

// TransformHostname strips one trailing slash and replaces every character
// outside [0-9A-Za-z] with a dash.
func TransformHostname(hostname string) string {
	return nonAlphanumeric.ReplaceAllString(strings.TrimSuffix(hostname, "/"), "-")
}

// TransformPathname turns a path with an optional query string into a file
// name. The extension comes from the path portion only, so a query such as
// "?master-557bb553/" never produces one.
func TransformPathname(pathWithQuery string) string {
	normalized := strings.TrimSuffix(pathWithQuery, "/")
	transformed := nonAlphanumeric.ReplaceAllString(normalized, "-")

	ext := Extension(pathWithQuery)
	if ext == "" {
		return transformed + "." + DefaultExtension
	}
	if strings.HasSuffix(transformed, "-"+ext) {
		return transformed[:len(transformed)-len(ext)-1] + "." + ext
	}
	return transformed + "." + ext
}

// Extension returns the lower-cased run of letters following the last dot
// of the path portion of pathWithQuery, or "" when there is none.
func Extension(pathWithQuery string) string {
	p, _, _ := strings.Cut(pathWithQuery, "?")
	p = strings.TrimSuffix(p, "/")
	ext := path.Ext(p)
	if ext == "" {
		return ""
	}
	return strings.ToLower(leadingLetters.FindString(ext[1:]))
}

// PageBaseName is the token shared by the saved page and its assets
// directory: the transformed host, path and query of u.
func PageBaseName(u *url.URL) string {
	raw := u.Host + u.EscapedPath()
	if u.RawQuery != "" {
		raw += "?" + u.RawQuery
	}
	return TransformHostname(raw)
}

// PageFileName is the name of the saved page for u.
func PageFileName(u *url.URL) string {
	return PageBaseName(u) + "." + DefaultExtension
}

// AssetsDirName is the name of the directory holding u's assets.
func AssetsDirName(u *url.URL) string {
	return PageBaseName(u) + "_files"
}

// AssetFileName is the local file name of an asset at u.
func AssetFileName(u *url.URL) string {
	p := u.EscapedPath()
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return TransformHostname(u.Hostname()) + TransformPathname(p)
}
