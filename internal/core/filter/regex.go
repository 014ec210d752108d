package filter

import (
	"fmt"
	"os"
	"regexp"

	"github.com/fxchen/autotransform/internal/core/item"
)

// RegexFilter keeps items whose key matches the configured pattern.
type RegexFilter struct {
	Pattern  string `json:"pattern"`
	Inverted bool   `json:"inverted,omitempty"`

	re *regexp.Regexp
}

// NewRegexFilter compiles the pattern and returns the filter. An invalid
// pattern is a configuration error surfaced at construction.
func NewRegexFilter(pattern string, inverted bool) (*RegexFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("regex filter pattern %q: %w", pattern, err)
	}
	return &RegexFilter{Pattern: pattern, Inverted: inverted, re: re}, nil
}

// Name returns the registered variant name.
func (f *RegexFilter) Name() string { return NameRegex }

// Valid reports whether the item key matches the pattern.
func (f *RegexFilter) Valid(it item.Item) (bool, error) {
	return verdict(f.re.MatchString(it.Key), f.Inverted), nil
}

// FileContentRegexFilter keeps items whose file content matches the
// configured pattern. Item keys are treated as file paths.
type FileContentRegexFilter struct {
	Pattern  string `json:"pattern"`
	Inverted bool   `json:"inverted,omitempty"`

	re *regexp.Regexp
}

// NewFileContentRegexFilter compiles the pattern and returns the filter.
func NewFileContentRegexFilter(pattern string, inverted bool) (*FileContentRegexFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("file content regex filter pattern %q: %w", pattern, err)
	}
	return &FileContentRegexFilter{Pattern: pattern, Inverted: inverted, re: re}, nil
}

// Name returns the registered variant name.
func (f *FileContentRegexFilter) Name() string { return NameFileContentRegex }

// Valid reports whether the item's file content matches the pattern.
func (f *FileContentRegexFilter) Valid(it item.Item) (bool, error) {
	content, err := os.ReadFile(it.Path())
	if err != nil {
		return false, fmt.Errorf("read %s: %w", it.Path(), err)
	}
	return verdict(f.re.Match(content), f.Inverted), nil
}
