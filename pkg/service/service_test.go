// Copyright 2024-2026 Aiku AI

package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thecliguy/format-bridge-bot-output/pkg/configstore"
)

const testPattern = "(?P<action>(?:^\x01ACTION |^))\\((?P<network>(?:slack|discord))\\) <(?P<nick>.+?)> (?P<text>.*)"

func testRuleEntries() map[string]string {
	return map[string]string{
		"MyGroup.server":                  "GroovyIRC",
		"MyGroup.channel":                 "#foobar",
		"MyGroup.bot_nicks":               "Kilroy",
		"MyGroup.nick_display_max_length": "20",
		"MyGroup.regex":                   testPattern,
	}
}

func newTestService(t *testing.T, entries map[string]string) (*Service, *configstore.Memory) {
	t.Helper()
	store := configstore.NewMemoryFrom(entries)
	cfg := &Config{}
	cfg.NATS.URL = "nats://unused:4222"
	require.NoError(t, cfg.PostProcess())
	svc := New(cfg, nil, store, zerolog.Nop())
	require.NoError(t, svc.registry.LoadAll(context.Background()))
	return svc, store
}

func TestProcessLine_Rewrite(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, testRuleEntries())

	in := ":Kilroy!~kilroy@bridge.example.net PRIVMSG #foobar :(slack) <Barry> Good afternoon."
	out, outcome := svc.ProcessLine("GroovyIRC", []byte(in))
	assert.Equal(t, "rewritten", outcome)
	assert.Equal(t, ":Barry!~kilroy@bridge.example.net PRIVMSG #foobar :[slack] Good afternoon.", string(out))
}

func TestProcessLine_PassThroughIsByteIdentical(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, testRuleEntries())

	// Trailing text without a colon would not survive a parse/render round
	// trip, so pass-through must republish the original bytes.
	in := ":Kilroy!~kilroy@bridge.example.net PRIVMSG #foobar hello"
	out, outcome := svc.ProcessLine("OtherNet", []byte(in))
	assert.Equal(t, "no_rule", outcome)
	assert.Equal(t, in, string(out))
}

func TestProcessLine_UnparseableLine(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, testRuleEntries())

	in := "PING :irc.example.net"
	out, outcome := svc.ProcessLine("GroovyIRC", []byte(in))
	assert.Equal(t, "parse_failure", outcome)
	assert.Equal(t, in, string(out), "unparseable input must pass through verbatim")
}

func TestProcessLine_NoMatchBody(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, testRuleEntries())

	in := ":Kilroy!~kilroy@bridge.example.net PRIVMSG #foobar :Just chatting normally"
	out, outcome := svc.ProcessLine("GroovyIRC", []byte(in))
	assert.Equal(t, "no_match", outcome)
	assert.Equal(t, in, string(out))
}

func TestWatchChanges_AppliesRuleUpdates(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, store := newTestService(t, nil)
	changes, err := store.Watch(ctx)
	require.NoError(t, err)
	go svc.watchChanges(ctx, changes)

	for k, v := range testRuleEntries() {
		require.NoError(t, store.Put(ctx, k, v))
	}

	require.Eventually(t, func() bool {
		return svc.registry.Len() == 1
	}, time.Second, 10*time.Millisecond, "rule should appear after change notifications")

	in := ":Kilroy!~kilroy@bridge.example.net PRIVMSG #foobar :(slack) <Barry> Good afternoon."
	out, outcome := svc.ProcessLine("GroovyIRC", []byte(in))
	assert.Equal(t, "rewritten", outcome)
	assert.Contains(t, string(out), "[slack] Good afternoon.")
}

func TestWatchChanges_RemovesClearedRule(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, store := newTestService(t, testRuleEntries())
	require.Equal(t, 1, svc.registry.Len())

	changes, err := store.Watch(ctx)
	require.NoError(t, err)
	go svc.watchChanges(ctx, changes)

	for k := range testRuleEntries() {
		require.NoError(t, store.Delete(ctx, k))
	}

	require.Eventually(t, func() bool {
		return svc.registry.Len() == 0
	}, time.Second, 10*time.Millisecond, "rule should be removed after all keys are cleared")
}

func TestSubjectServer(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "GroovyIRC", subjectServer("irc.in.GroovyIRC"))
	assert.Equal(t, "flat", subjectServer("flat"))
}
