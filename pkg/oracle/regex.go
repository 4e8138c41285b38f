/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: regex.go
Description: Membership oracle backed by a regular expression. The pattern is anchored
at both ends so a word is a member only when the whole word matches.
*/

package oracle

import (
	"context"
	"fmt"
	"regexp"

	"github.com/kleascm/automator/pkg/lstar"
)

// Regex answers membership queries with a compiled, fully anchored pattern
type Regex struct {
	source  string
	pattern *regexp.Regexp
}

// NewRegex compiles pattern as ^(?:pattern)$
func NewRegex(pattern string) (*Regex, error) {
	compiled, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &Regex{source: pattern, pattern: compiled}, nil
}

// Ask reports whether the whole word matches
func (r *Regex) Ask(ctx context.Context, word lstar.Word) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return r.pattern.MatchString(string(word)), nil
}

// String returns the pattern as written
func (r *Regex) String() string {
	return r.source
}
