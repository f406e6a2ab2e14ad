// Copyright 2024-2026 Aiku AI

package rewrite

import (
	"testing"
	"unicode/utf8"
)

func TestFormatNick_NoTruncationWhenZero(t *testing.T) {
	t.Parallel()
	nick := "AVeryLongNickIndeedLongerThanMost"
	if got := FormatNick(nick, 0); got != nick {
		t.Errorf("FormatNick with limit 0: got %q, want %q", got, nick)
	}
}

func TestFormatNick_Truncation(t *testing.T) {
	t.Parallel()
	got := FormatNick("Charles", 5)
	if got != "Charl…" {
		t.Errorf("got %q, want %q", got, "Charl…")
	}
	if n := utf8.RuneCountInString(got); n != 6 {
		t.Errorf("rune count: got %d, want 6", n)
	}
}

func TestFormatNick_AtLimitUnchanged(t *testing.T) {
	t.Parallel()
	if got := FormatNick("Barry", 5); got != "Barry" {
		t.Errorf("got %q, want Barry", got)
	}
	if got := FormatNick("Bar", 5); got != "Bar" {
		t.Errorf("got %q, want Bar", got)
	}
}

func TestFormatNick_TruncationCountsCodePoints(t *testing.T) {
	t.Parallel()
	// Multi-byte nick: truncation must count runes, not bytes.
	got := FormatNick("Ångström", 4)
	if got != "Ångs…" {
		t.Errorf("got %q, want %q", got, "Ångs…")
	}
	if n := utf8.RuneCountInString(got); n != 5 {
		t.Errorf("rune count: got %d, want 5", n)
	}
}

func TestFormatNick_StripsZeroWidthSpace(t *testing.T) {
	t.Parallel()
	got := FormatNick("Bar​ry", 0)
	if got != "Barry" {
		t.Errorf("got %q, want Barry", got)
	}
}

func TestFormatNick_ZWSPStrippingIdempotent(t *testing.T) {
	t.Parallel()
	once := FormatNick("B​a​rry", 0)
	twice := FormatNick(once, 0)
	if once != twice {
		t.Errorf("stripping not idempotent: %q vs %q", once, twice)
	}
}

func TestFormatNick_ZWSPStrippedBeforeTruncation(t *testing.T) {
	t.Parallel()
	// The zero-width space must not count toward the truncation limit.
	got := FormatNick("​Charles", 5)
	if got != "Charl…" {
		t.Errorf("got %q, want %q", got, "Charl…")
	}
}

func TestFormatNick_RemovesWhitespace(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]string{
		"Barry Rocks":    "BarryRocks",
		" Barry ":        "Barry",
		"Bar\try\nRocks": "BarryRocks",
		"a b c":          "abc",
	} {
		if got := FormatNick(in, 0); got != want {
			t.Errorf("FormatNick(%q): got %q, want %q", in, got, want)
		}
	}
}
