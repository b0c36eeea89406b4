// Package branch derives branch names from commit messages.
//
// It provides the deterministic, network-free pieces of branch handling:
// slug generation, conventional commit header parsing, branch name
// synthesis, and the protected branch set. Every function in this package
// is pure and total.
package branch

import (
	"regexp"
	"strings"
)

// maxDescriptionWords bounds how many description words end up in a
// synthesized branch name.
const maxDescriptionWords = 3

// Protected lists branches that must never receive direct commits.
// Alignment checks always report these as mismatched.
var Protected = []string{"main", "master", "develop", "dev", "staging", "production"}

// IsProtected reports whether name is a protected branch.
func IsProtected(name string) bool {
	for _, p := range Protected {
		if name == p {
			return true
		}
	}
	return false
}

// Synthesize derives a branch name from a commit message without any
// network dependency. The name follows <type>/<scope>-<description> when the
// message parses as a conventional commit, <type>/<description> without a
// scope, and feat/<slug of first line> otherwise. It is the fallback used
// whenever a service-backed suggestion is unavailable, so it never fails.
func Synthesize(message string) string {
	h, ok := ParseHeader(message)
	if !ok {
		return FallbackType + "/" + Slugify(firstLine(message), maxDescriptionWords)
	}

	slug := Slugify(h.Description, maxDescriptionWords)
	if h.Scope != "" {
		return h.Type + "/" + h.Scope + "-" + slug
	}
	return h.Type + "/" + slug
}

var (
	multiHyphen = regexp.MustCompile(`-+`)
	invalidRune = regexp.MustCompile(`[^a-z0-9-/]`)
)

// Clean normalizes a user-supplied branch name: lowercase, invalid
// characters removed, consecutive hyphens collapsed, and trailing hyphens
// trimmed from each path segment.
func Clean(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "_", "-")
	name = invalidRune.ReplaceAllString(name, "")
	name = multiHyphen.ReplaceAllString(name, "-")

	parts := strings.Split(name, "/")
	for i, part := range parts {
		parts[i] = strings.Trim(part, "-")
	}
	return strings.Join(parts, "/")
}
