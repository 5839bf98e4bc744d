package index

import (
	"fmt"
	"regexp"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CodeMatcher finds codes in page text.
type CodeMatcher struct {
	pattern *regexp.Regexp
}

// NewCodeMatcher compiles pattern.
func NewCodeMatcher(pattern string) (*CodeMatcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile code pattern: %w", err)
	}
	return &CodeMatcher{pattern: re}, nil
}

// Codes returns the distinct upper-cased codes in text, sorted.
func (m *CodeMatcher) Codes(text string) []string {
	matches := m.pattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	upper := cases.Upper(language.Und)
	seen := make(map[string]struct{}, len(matches))
	codes := make([]string, 0, len(matches))
	for _, match := range matches {
		code := upper.String(match)
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
