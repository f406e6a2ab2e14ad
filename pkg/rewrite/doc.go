// Copyright 2024-2026 Aiku AI

// Package rewrite implements the classification and rewrite engine for chat
// messages relayed by a bridge bot. A bridge bot posts on behalf of users
// from another network (Slack, Discord, ...), so the true sender's name is
// embedded in the message text in a format chosen by the bot's admin.
//
// Given an inbound message and the configured rules, the engine decides
// which rule (if any) applies to the message's origin (server, channel,
// relay-account nick), applies that rule's extraction pattern to pull the
// network tag, true nick and body text out of the raw text, and produces a
// rewritten message that appears to come from the real sender.
//
// # Core Types
//
// [Rule] is one configured matching/extraction policy, keyed by name.
//
// [Registry] holds the rule set, rebuilds it from a [configstore.Store] and
// applies incremental change notifications. Reads and updates are safe to
// interleave; a rule update is observed fully applied or not at all.
//
// [Pattern] is a compiled extraction pattern with named capture groups
// "network", "nick", "text" and the optional "action".
//
// [Rewriter] orchestrates origin matching, extraction and nick formatting,
// and reports a typed [Outcome] per message. Every non-rewrite outcome
// passes the inbound message through unchanged; per-message errors are
// logged, never raised.
package rewrite
