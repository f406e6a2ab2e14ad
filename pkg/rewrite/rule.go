// Copyright 2024-2026 Aiku AI

package rewrite

import (
	"fmt"
	"strconv"
	"strings"
)

// Configuration store field names, used as the suffix of "<ruleName>.<field>"
// keys.
const (
	FieldServer        = "server"
	FieldChannel       = "channel"
	FieldBotNicks      = "bot_nicks"
	FieldNickMaxLength = "nick_display_max_length"
	FieldRegex         = "regex"
)

// ruleFields lists every field a rule is built from.
var ruleFields = []string{FieldServer, FieldChannel, FieldBotNicks, FieldNickMaxLength, FieldRegex}

// Rule is one configured matching/extraction policy. Instances are built
// once from store values and never mutated afterwards; updates replace the
// whole rule.
type Rule struct {
	// Name keys the rule in the registry.
	Name string
	// Server is the originating network/server identifier this rule
	// applies to.
	Server string
	// Channel is the channel this rule applies to.
	Channel string
	// BotNicks are the relay-account nicks recognized as the bridge bot.
	BotNicks []string
	// NickMaxLength caps the displayed nick length in code points.
	// 0 means no truncation.
	NickMaxLength int
	// Pattern extracts the embedded sender fields from the message text.
	// nil when the rule has no pattern configured (an inert rule).
	Pattern *Pattern
}

// buildRule constructs a Rule from raw store field values, parsing and
// validating everything up front so the per-message path never touches raw
// configuration strings.
func buildRule(name string, fields map[string]string) (*Rule, error) {
	r := &Rule{
		Name:    name,
		Server:  strings.TrimSpace(fields[FieldServer]),
		Channel: strings.TrimSpace(fields[FieldChannel]),
	}
	for _, nick := range strings.Split(fields[FieldBotNicks], ",") {
		if nick = strings.TrimSpace(nick); nick != "" {
			r.BotNicks = append(r.BotNicks, nick)
		}
	}
	if raw := strings.TrimSpace(fields[FieldNickMaxLength]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("rewrite: rule %s: invalid %s %q: %w", name, FieldNickMaxLength, raw, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("rewrite: rule %s: %s must not be negative, got %d", name, FieldNickMaxLength, n)
		}
		r.NickMaxLength = n
	}
	if expr := fields[FieldRegex]; expr != "" {
		p, err := CompilePattern(expr)
		if err != nil {
			return nil, fmt.Errorf("rewrite: rule %s: %w", name, err)
		}
		r.Pattern = p
	}
	return r, nil
}

// Vacuous reports whether the rule carries no configuration at all. Vacuous
// rules are never retained in the registry.
func (r *Rule) Vacuous() bool {
	return r.Server == "" && r.Channel == "" && len(r.BotNicks) == 0 && r.Pattern == nil
}

// MatchesOrigin reports whether this rule's scope covers a message origin.
func (r *Rule) MatchesOrigin(server, channel, nick string) bool {
	if r.Server != server || r.Channel != channel {
		return false
	}
	for _, bot := range r.BotNicks {
		if bot == nick {
			return true
		}
	}
	return false
}

// SplitKey splits a store key of the form "<ruleName>.<field>" into its rule
// name and field parts. The rule name is everything before the first dot,
// matching how keys are grouped on load.
func SplitKey(key string) (name, field string, ok bool) {
	return strings.Cut(key, ".")
}
