package profanity

import "strings"

// Filter does a plain word-boundary match against a fixed block list. It is
// intentionally simple; the generation delegate applies its own moderation.
type Filter struct {
	words map[string]struct{}
}

var defaultWords = []string{
	"ass", "asshole", "bastard", "bitch", "bollocks", "crap", "cunt",
	"damn", "dick", "douche", "fuck", "fucker", "fucking", "jerk",
	"nigger", "piss", "prick", "pussy", "shit", "slut", "twat", "whore",
}

func NewFilter() *Filter {
	words := make(map[string]struct{}, len(defaultWords))
	for _, w := range defaultWords {
		words[w] = struct{}{}
	}
	return &Filter{words: words}
}

func (f *Filter) IsProfane(text string) bool {
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		if _, ok := f.words[field]; ok {
			return true
		}
	}
	return false
}

// AnyProfane reports whether any of the given fields trips the filter.
func (f *Filter) AnyProfane(fields ...string) bool {
	for _, field := range fields {
		if field != "" && f.IsProfane(field) {
			return true
		}
	}
	return false
}
