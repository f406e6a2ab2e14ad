// Copyright 2024-2026 Aiku AI

package rewrite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/thecliguy/format-bridge-bot-output/pkg/ircmsg"
)

// Outcome classifies what the rewriter did with a message. Every outcome
// except OutcomeRewritten passes the inbound message through unchanged.
type Outcome int

const (
	// OutcomeRewritten means the message was recognized as bridge-bot
	// output and its sender identity and body were rewritten.
	OutcomeRewritten Outcome = iota
	// OutcomeNoRule means no rule's scope matched the message origin.
	OutcomeNoRule
	// OutcomeInertRule means the single matching rule has no pattern.
	OutcomeInertRule
	// OutcomeNoMatch means the message body did not conform to the
	// matched rule's pattern, e.g. the bot's own status chatter.
	OutcomeNoMatch
	// OutcomeAmbiguous means more than one rule matched the origin, a
	// configuration-authoring error that is reported rather than resolved
	// by picking a winner.
	OutcomeAmbiguous
)

// String returns a stable label for metrics and logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeRewritten:
		return "rewritten"
	case OutcomeNoRule:
		return "no_rule"
	case OutcomeInertRule:
		return "inert_rule"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// AmbiguousRuleError reports a message origin matched by more than one rule.
type AmbiguousRuleError struct {
	Server    string
	Channel   string
	Nick      string
	RuleNames []string
}

func (e *AmbiguousRuleError) Error() string {
	return fmt.Sprintf("rewrite: %d rules matched server=%s channel=%s nick=%s: %s",
		len(e.RuleNames), e.Server, e.Channel, e.Nick, strings.Join(e.RuleNames, ", "))
}

// Rewriter applies the configured rules to inbound messages. It is safe for
// concurrent use; all shared state lives in the registry.
type Rewriter struct {
	registry *Registry
	log      zerolog.Logger
}

// NewRewriter creates a rewriter over registry.
func NewRewriter(registry *Registry, log zerolog.Logger) *Rewriter {
	return &Rewriter{registry: registry, log: log}
}

// Rewrite processes one inbound message. The server name is delivery
// context, not part of the message line. Exactly one message is returned
// per call: either the rewritten message or the input verbatim. Ambiguous
// configuration is logged and contained here; it never escapes to break
// message delivery.
func (rw *Rewriter) Rewrite(server string, msg ircmsg.Message) (ircmsg.Message, Outcome) {
	bot := msg.Nick()
	matches := rw.registry.Lookup(server, msg.Channel, bot)
	if len(matches) == 0 {
		return msg, OutcomeNoRule
	}
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, r := range matches {
			names[i] = r.Name
		}
		sort.Strings(names)
		err := &AmbiguousRuleError{Server: server, Channel: msg.Channel, Nick: bot, RuleNames: names}
		rw.log.Error().
			Str("server", server).
			Str("channel", msg.Channel).
			Str("nick", bot).
			Strs("rules", names).
			Msg(err.Error())
		return msg, OutcomeAmbiguous
	}

	rule := matches[0]
	if rule.Pattern == nil {
		return msg, OutcomeInertRule
	}

	fields, ok := rule.Pattern.Extract(msg.Text)
	if !ok {
		return msg, OutcomeNoMatch
	}

	nick := FormatNick(fields.Nick, rule.NickMaxLength)

	// Action markers, when present, were captured into the text by the
	// pattern author; the extracted text is preserved as-is.
	out := msg
	out.Text = "[" + fields.Network + "] " + fields.Text
	out.Host = strings.ReplaceAll(msg.Host, bot, nick)

	rw.log.Debug().
		Str("rule", rule.Name).
		Str("network", fields.Network).
		Str("nick", nick).
		Bool("action", fields.IsAction).
		Msg("Rewrote bridge bot message")
	return out, OutcomeRewritten
}
