package sceneport

import "strings"

// Filter restricts which named graphics an exporter emits. Patterns
// are colon segmented with `*` wildcards, e.g. "vagus:*" or "*:left".
// A nil filter, an empty pattern list and a lone "*" admit everything.
type Filter struct {
	patterns [][]string
}

func NewFilter(patterns ...string) *Filter {
	f := &Filter{}
	for _, p := range patterns {
		if p == "" {
			continue
		}

		f.patterns = append(f.patterns, strings.Split(p, ":"))
	}

	return f
}

func (f *Filter) Match(name string) bool {
	if f == nil || len(f.patterns) == 0 {
		return true
	}

	segments := strings.Split(name, ":")
	for _, pattern := range f.patterns {
		if matchSegments(segments, pattern) {
			return true
		}
	}

	return false
}

func matchSegments(segments, pattern []string) bool {
	if len(pattern) == 0 || (len(pattern) == 1 && pattern[0] == "*") {
		return true
	}

	for i := 0; i < len(pattern); i++ {
		if i > len(segments)-1 {
			return pattern[i] == "*"
		}

		if pattern[i] != segments[i] && pattern[i] != "*" {
			return false
		}
	}

	return true
}
