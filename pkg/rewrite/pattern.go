// Copyright 2024-2026 Aiku AI

package rewrite

import (
	"errors"
	"fmt"
	"regexp"
)

// Named capture groups a pattern must (or, for action, may) define.
const (
	captureAction  = "action"
	captureNetwork = "network"
	captureNick    = "nick"
	captureText    = "text"
)

var requiredCaptures = []string{captureNetwork, captureNick, captureText}

// ErrMissingCapture indicates a pattern that lacks one of the required named
// capture groups. This is an administrator configuration error.
var ErrMissingCapture = errors.New("pattern missing required capture group")

// Fields is the structured result of applying a Pattern to a message body.
type Fields struct {
	// Network is the originating external network tag, e.g. "slack".
	Network string
	// Nick is the true sender's name as relayed, before any formatting.
	Nick string
	// Text is the message body.
	Text string
	// IsAction is set when the optional "action" capture matched non-empty
	// text, i.e. the message is an action-style ("/me") message.
	IsAction bool
}

// Pattern is a compiled extraction pattern. Evaluation is pure: the same
// pattern and body always yield the same result.
type Pattern struct {
	re     *regexp.Regexp
	groups map[string]int
}

// CompilePattern compiles expr and validates that the "network", "nick" and
// "text" named capture groups are all present. The "action" group is
// optional. Evaluation is unanchored: a pattern without ^ may match anywhere
// in the body, so authors who want start-of-body matching must write ^ (and
// $ for end-of-body) themselves.
func CompilePattern(expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	groups := make(map[string]int)
	for i, name := range re.SubexpNames() {
		if name != "" {
			groups[name] = i
		}
	}
	for _, name := range requiredCaptures {
		if _, ok := groups[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingCapture, name)
		}
	}
	return &Pattern{re: re, groups: groups}, nil
}

// String returns the pattern's source expression.
func (p *Pattern) String() string {
	return p.re.String()
}

// Extract applies the pattern to a message body. It returns ok=false when
// the body does not conform to the pattern (ordinary pass-through). The
// required capture groups are guaranteed present because CompilePattern is
// the only way to build a Pattern.
func (p *Pattern) Extract(body string) (Fields, bool) {
	m := p.re.FindStringSubmatch(body)
	if m == nil {
		return Fields{}, false
	}
	f := Fields{
		Network: m[p.groups[captureNetwork]],
		Nick:    m[p.groups[captureNick]],
		Text:    m[p.groups[captureText]],
	}
	if i, ok := p.groups[captureAction]; ok && m[i] != "" {
		f.IsAction = true
	}
	return f, true
}
