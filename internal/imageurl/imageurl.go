// Package imageurl turns image paths returned by the backend into absolute URLs.
package imageurl

import "strings"

const svgPlaceholder = "data:image/svg+xml"

// Resolver resolves image paths against a fixed asset origin
type Resolver struct {
	Base string
}

// New creates a Resolver for the given origin
func New(base string) *Resolver {
	return &Resolver{Base: base}
}

// Resolve returns src as an absolute URL under r.Base
func (r *Resolver) Resolve(src string) string {
	return Resolve(src, r.Base)
}

// Resolve returns src unchanged when it is already absolute (http, https or
// a data URI), "" for an empty src, and base joined with src otherwise.
func Resolve(src, base string) string {
	if src == "" {
		return ""
	}

	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:") {
		return src
	}

	if strings.HasPrefix(src, "/") {
		return base + src
	}
	return base + "/" + src
}

// IsPlaceholder reports whether src is empty or an inline SVG placeholder
// that should not be rendered
func IsPlaceholder(src string) bool {
	return src == "" || strings.Contains(src, svgPlaceholder)
}
