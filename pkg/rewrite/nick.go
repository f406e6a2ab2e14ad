// Copyright 2024-2026 Aiku AI

package rewrite

import "strings"

// Bridge bots sometimes insert a zero-width space into relayed nicks so the
// name does not trigger mention notifications on the origin network. The
// rewrite makes that trick superfluous, so the character is always removed.
const zeroWidthSpace = "​"

const ellipsis = "…"

// FormatNick produces the display nick for a rewritten message: zero-width
// spaces are stripped, the nick is truncated to maxLength code points (plus
// a trailing ellipsis) when maxLength > 0, and all whitespace is removed.
// A nick with whitespace would be read by downstream IRC consumers as two
// separate fields, so the removal is unconditional.
func FormatNick(nick string, maxLength int) string {
	nick = strings.ReplaceAll(nick, zeroWidthSpace, "")
	if maxLength > 0 {
		if runes := []rune(nick); len(runes) > maxLength {
			nick = string(runes[:maxLength]) + ellipsis
		}
	}
	return strings.Join(strings.Fields(nick), "")
}
