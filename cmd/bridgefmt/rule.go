// Copyright 2024-2026 Aiku AI

package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thecliguy/format-bridge-bot-output/pkg/rewrite"
)

var ruleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage rewrite rules in the configuration bucket",
}

var ruleSetScopeCmd = &cobra.Command{
	Use:   "set-scope <name> <server> <channel> <bot_nicks> <max_nick_length>",
	Short: "Set a rule's server, channel, bot nick(s) and nick display length",
	Long: `Set the scope fields of the named rule.

server is the originating network name as supplied by the delivery layer.
bot_nicks accepts a comma-separated list of relay account nicks.
max_nick_length caps the displayed nick length; nicks over the limit are
truncated with an ellipsis appended. 0 disables truncation.

Example:
  bridgefmt rule set-scope MyGroup GroovyIRC '#foobar' Kilroy,SonOfKilroy 20`,
	Args: cobra.ExactArgs(5),
	RunE: runRuleSetScope,
}

var ruleSetPatternCmd = &cobra.Command{
	Use:   "set-pattern <name> <regex>",
	Short: "Set a rule's extraction pattern",
	Long: `Set the regular expression that extracts relayed content from the
bridge bot's messages. The pattern must define the named capture groups
"network", "nick" and "text"; the optional "action" group marks action
("/me") messages when it captures non-empty text.

Example:
  bridgefmt rule set-pattern MyGroup '(?P<action>(?:^\x01ACTION |^))\((?P<network>(?:slack|discord))\) <(?P<nick>.+?)> (?P<text>.*)'`,
	Args: cobra.ExactArgs(2),
	RunE: runRuleSetPattern,
}

var ruleRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove all fields of the named rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRuleRemove,
}

var ruleListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all configured rules",
	Args:  cobra.NoArgs,
	RunE:  runRuleList,
}

func init() {
	ruleCmd.AddCommand(ruleSetScopeCmd, ruleSetPatternCmd, ruleRemoveCmd, ruleListCmd)
}

func runRuleSetScope(cmd *cobra.Command, args []string) error {
	name, server, channel, botNicks, maxLen := args[0], args[1], args[2], args[3], args[4]
	if n, err := strconv.Atoi(maxLen); err != nil || n < 0 {
		return fmt.Errorf("max_nick_length must be a non-negative integer, got %q", maxLen)
	}

	ctx := cmd.Context()
	store, closeStore, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	for field, value := range map[string]string{
		rewrite.FieldServer:        server,
		rewrite.FieldChannel:       channel,
		rewrite.FieldBotNicks:      botNicks,
		rewrite.FieldNickMaxLength: maxLen,
	} {
		if err := store.Put(ctx, name+"."+field, value); err != nil {
			return err
		}
	}
	fmt.Printf("Updated scope of rule %s\n", name)
	return nil
}

func runRuleSetPattern(cmd *cobra.Command, args []string) error {
	name, expr := args[0], args[1]
	// Reject patterns the daemon would refuse to load.
	if _, err := rewrite.CompilePattern(expr); err != nil {
		return err
	}

	ctx := cmd.Context()
	store, closeStore, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Put(ctx, name+"."+rewrite.FieldRegex, expr); err != nil {
		return err
	}
	fmt.Printf("Updated pattern of rule %s\n", name)
	return nil
}

func runRuleRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	ctx := cmd.Context()
	store, closeStore, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	entries, err := store.List(ctx)
	if err != nil {
		return err
	}
	removed := 0
	for key := range entries {
		if ruleName, _, ok := rewrite.SplitKey(key); !ok || ruleName != name {
			continue
		}
		if err := store.Delete(ctx, key); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", key)
		removed++
	}
	if removed == 0 {
		return fmt.Errorf("no rule found called %q", name)
	}
	return nil
}

func runRuleList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, closeStore, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	entries, err := store.List(ctx)
	if err != nil {
		return err
	}
	fmt.Print(formatRuleDump(entries))
	return nil
}

// formatRuleDump renders the raw store contents grouped by rule name.
func formatRuleDump(entries map[string]string) string {
	grouped := make(map[string]map[string]string)
	for key, value := range entries {
		name, field, ok := rewrite.SplitKey(key)
		if !ok {
			continue
		}
		if grouped[name] == nil {
			grouped[name] = make(map[string]string)
		}
		grouped[name][field] = value
	}
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	sep := strings.Repeat("-", 58)
	for _, name := range names {
		fmt.Fprintln(&b, sep)
		fmt.Fprintf(&b, "Rule: %s\n", name)
		for _, field := range []string{
			rewrite.FieldServer,
			rewrite.FieldChannel,
			rewrite.FieldBotNicks,
			rewrite.FieldNickMaxLength,
			rewrite.FieldRegex,
		} {
			fmt.Fprintf(&b, "  * %s: %s\n", field, grouped[name][field])
		}
	}
	fmt.Fprintln(&b, sep)
	return b.String()
}
