package branch

import (
	"regexp"
	"strings"
)

// FallbackType is the commit type assumed when a message does not follow the
// conventional commit grammar.
const FallbackType = "feat"

// Header is the parsed first line of a conventional commit message,
// e.g. "feat(auth): add refresh token".
type Header struct {
	Type        string // Commit type (feat, fix, docs, ...)
	Scope       string // Optional scope, empty when absent
	Description string // Short description after the colon
}

var headerRe = regexp.MustCompile(`^([a-z]+)(\(([^)]+)\))?:\s*(.+)$`)

// ParseHeader parses the first line of a commit message against the
// conventional commit grammar. A non-matching line is not an error: ok is
// false and callers should treat the whole line as a description with
// FallbackType and no scope.
func ParseHeader(message string) (Header, bool) {
	line := firstLine(message)

	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return Header{}, false
	}

	return Header{
		Type:        m[1],
		Scope:       m[3],
		Description: m[4],
	}, true
}

// firstLine returns the text up to the first newline.
func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}
