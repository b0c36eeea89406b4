package branch

import "strings"

// fillerWords are generic verbs and connectives that carry no information in
// a branch name. Lookup is case-insensitive.
var fillerWords = map[string]struct{}{
	"add":       {},
	"update":    {},
	"fix":       {},
	"remove":    {},
	"delete":    {},
	"change":    {},
	"modify":    {},
	"implement": {},
	"create":    {},
	"make":      {},
	"set":       {},
	"get":       {},
	"use":       {},
	"handle":    {},
	"support":   {},
	"enable":    {},
	"disable":   {},
	"allow":     {},
	"improve":   {},
	"enhance":   {},
	"the":       {},
	"a":         {},
	"an":        {},
	"to":        {},
	"for":       {},
	"of":        {},
	"in":        {},
	"on":        {},
	"with":      {},
	"and":       {},
	"or":        {},
}

// Slugify converts free text to a kebab-case slug suitable for branch names.
// Filler words are dropped and at most maxWords of the remaining words are
// kept. If filtering removes every word, the first maxWords raw words are
// used instead, so the result is only empty when the input itself is empty
// or entirely symbolic.
func Slugify(text string, maxWords int) string {
	words := make([]string, 0, maxWords)
	for _, w := range strings.Fields(text) {
		if _, filler := fillerWords[strings.ToLower(w)]; filler {
			continue
		}
		words = append(words, w)
		if len(words) == maxWords {
			break
		}
	}

	if len(words) == 0 {
		fallback := strings.Fields(text)
		if len(fallback) > maxWords {
			fallback = fallback[:maxWords]
		}
		return kebab(fallback)
	}

	return kebab(words)
}

// kebab joins words with hyphens, lowercases, and strips every character
// outside [a-z0-9-].
func kebab(words []string) string {
	joined := strings.ToLower(strings.Join(words, "-"))

	var b strings.Builder
	b.Grow(len(joined))
	for _, r := range joined {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
