// Copyright 2024-2026 Aiku AI

package rewrite

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/thecliguy/format-bridge-bot-output/pkg/configstore"
)

// Registry holds the in-memory rule set. It is rebuilt wholesale from the
// configuration store on startup and updated in place on change
// notifications. A rule replacement is atomic with respect to concurrent
// lookups: no lookup ever observes a partially updated rule.
type Registry struct {
	store configstore.Store
	log   zerolog.Logger

	mu    sync.RWMutex
	rules map[string]*Rule
}

// NewRegistry creates an empty registry backed by store. Call LoadAll to
// populate it.
func NewRegistry(store configstore.Store, log zerolog.Logger) *Registry {
	return &Registry{
		store: store,
		log:   log,
		rules: make(map[string]*Rule),
	}
}

// LoadAll scans the whole store, groups keys by rule name and replaces the
// entire rule set. A store read failure is returned to the caller and is
// fatal to startup; a rule that fails to build (bad regex, bad integer) is
// logged and skipped so one malformed rule cannot keep the pipeline down.
func (reg *Registry) LoadAll(ctx context.Context) error {
	entries, err := reg.store.List(ctx)
	if err != nil {
		return fmt.Errorf("rewrite: load rules: %w", err)
	}

	grouped := make(map[string]map[string]string)
	for key, value := range entries {
		name, field, ok := SplitKey(key)
		if !ok || name == "" {
			reg.log.Warn().Str("key", key).Msg("Ignoring store key without a rule name prefix")
			continue
		}
		if grouped[name] == nil {
			grouped[name] = make(map[string]string)
		}
		grouped[name][field] = value
	}

	rules := make(map[string]*Rule, len(grouped))
	for name, fields := range grouped {
		rule, err := buildRule(name, fields)
		if err != nil {
			reg.log.Error().Err(err).Str("rule", name).Msg("Skipping malformed rewrite rule")
			continue
		}
		if rule.Vacuous() {
			continue
		}
		rules[name] = rule
	}

	reg.mu.Lock()
	reg.rules = rules
	reg.mu.Unlock()

	reg.log.Info().Int("rules", len(rules)).Msg("Loaded rewrite rules")
	return nil
}

// ApplyChange updates the single named rule after one of its fields changed
// to value (empty when the key was deleted). The rule's remaining fields are
// point-read from the store so the replacement entry reflects a consistent
// view, then swapped in as a whole. A rule that becomes vacuous is removed.
// On a build error the previous entry is left untouched.
func (reg *Registry) ApplyChange(ctx context.Context, name, field, value string) error {
	fields := make(map[string]string, len(ruleFields))
	for _, f := range ruleFields {
		if f == field {
			fields[f] = value
			continue
		}
		v, err := reg.store.Get(ctx, name+"."+f)
		if err != nil {
			return fmt.Errorf("rewrite: read rule %s field %s: %w", name, f, err)
		}
		fields[f] = v
	}

	rule, err := buildRule(name, fields)
	if err != nil {
		return err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if rule.Vacuous() {
		delete(reg.rules, name)
		reg.log.Debug().Str("rule", name).Msg("Removed vacuous rewrite rule")
		return nil
	}
	reg.rules[name] = rule
	reg.log.Debug().Str("rule", name).Str("field", field).Msg("Updated rewrite rule")
	return nil
}

// Lookup returns every rule whose scope matches the given message origin.
// Iteration order over the registry does not affect the result set.
func (reg *Registry) Lookup(server, channel, nick string) []*Rule {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	var out []*Rule
	for _, r := range reg.rules {
		if r.MatchesOrigin(server, channel, nick) {
			out = append(out, r)
		}
	}
	return out
}

// Rules returns a snapshot of all rules sorted by name, for inspection.
func (reg *Registry) Rules() []*Rule {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Rule, 0, len(reg.rules))
	for _, r := range reg.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of loaded rules.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rules)
}
