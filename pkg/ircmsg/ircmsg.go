// Copyright 2024-2026 Aiku AI

// Package ircmsg parses and renders the IRC PRIVMSG line shape used by the
// rewrite engine. It deliberately covers only the framing the rewriter needs
// (prefix, command, target channel, trailing text), not the full RFC 1459
// grammar.
package ircmsg

import (
	"fmt"
	"strings"
)

// Message holds the framing fields of a single channel message line.
// Server context is not part of the line itself; it is supplied separately
// by the delivery layer.
type Message struct {
	// Host is the full source prefix without the leading colon,
	// e.g. "Kilroy!~kilroy@bridge.example.net".
	Host string
	// Command is the IRC command verb, e.g. "PRIVMSG".
	Command string
	// Channel is the message target.
	Channel string
	// Text is the trailing parameter without the leading colon.
	Text string
}

// Parse splits a raw line of the form ":<host> <command> <channel> :<text>"
// into its framing fields. The leading colon on the trailing parameter is
// optional, matching lines relayed by servers that omit it for single-word
// trailers.
func Parse(line string) (Message, error) {
	var msg Message

	rest := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	if !strings.HasPrefix(rest, ":") {
		return msg, fmt.Errorf("ircmsg: missing source prefix in %q", line)
	}
	rest = rest[1:]

	host, rest, ok := strings.Cut(rest, " ")
	if !ok || host == "" {
		return msg, fmt.Errorf("ircmsg: truncated line %q", line)
	}
	command, rest, ok := strings.Cut(rest, " ")
	if !ok || command == "" {
		return msg, fmt.Errorf("ircmsg: missing command in %q", line)
	}
	channel, rest, ok := strings.Cut(rest, " ")
	if !ok {
		return msg, fmt.Errorf("ircmsg: missing trailing text in %q", line)
	}

	msg.Host = host
	msg.Command = command
	msg.Channel = channel
	msg.Text = strings.TrimPrefix(rest, ":")
	return msg, nil
}

// Nick returns the nick portion of the source prefix (everything before the
// first "!"), or the whole host when there is no user/host part.
func (m Message) Nick() string {
	nick, _, _ := strings.Cut(m.Host, "!")
	return nick
}

// Render formats the message back into a single line. All outbound messages
// go through this one formatting rule.
func (m Message) Render() string {
	return fmt.Sprintf(":%s %s %s :%s", m.Host, m.Command, m.Channel, m.Text)
}
