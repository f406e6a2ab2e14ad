// Copyright 2024-2026 Aiku AI

package ircmsg

import "testing"

func TestParse(t *testing.T) {
	t.Parallel()
	msg, err := Parse(":Kilroy!~kilroy@bridge.example.net PRIVMSG #foobar :(slack) <Barry> Good afternoon.")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if msg.Host != "Kilroy!~kilroy@bridge.example.net" {
		t.Errorf("Host: got %q", msg.Host)
	}
	if msg.Command != "PRIVMSG" {
		t.Errorf("Command: got %q, want PRIVMSG", msg.Command)
	}
	if msg.Channel != "#foobar" {
		t.Errorf("Channel: got %q, want #foobar", msg.Channel)
	}
	if msg.Text != "(slack) <Barry> Good afternoon." {
		t.Errorf("Text: got %q", msg.Text)
	}
}

func TestParse_StripsLineEnding(t *testing.T) {
	t.Parallel()
	msg, err := Parse(":a!b@c PRIVMSG #chan :hello\r\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if msg.Text != "hello" {
		t.Errorf("Text: got %q, want %q", msg.Text, "hello")
	}
}

func TestParse_TrailingWithoutColon(t *testing.T) {
	t.Parallel()
	msg, err := Parse(":a!b@c PRIVMSG #chan hello")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if msg.Text != "hello" {
		t.Errorf("Text: got %q, want %q", msg.Text, "hello")
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	for _, line := range []string{
		"",
		"PRIVMSG #chan :no prefix",
		":onlyhost",
		":host PRIVMSG",
	} {
		if _, err := Parse(line); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", line)
		}
	}
}

func TestNick(t *testing.T) {
	t.Parallel()
	msg := Message{Host: "Kilroy!~kilroy@bridge.example.net"}
	if got := msg.Nick(); got != "Kilroy" {
		t.Errorf("Nick: got %q, want Kilroy", got)
	}
	msg = Message{Host: "irc.example.net"}
	if got := msg.Nick(); got != "irc.example.net" {
		t.Errorf("Nick without user part: got %q", got)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	t.Parallel()
	line := ":Kilroy!~kilroy@bridge.example.net PRIVMSG #foobar :(slack) <Barry> Good afternoon."
	msg, err := Parse(line)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := msg.Render(); got != line {
		t.Errorf("Render: got %q, want %q", got, line)
	}
}
