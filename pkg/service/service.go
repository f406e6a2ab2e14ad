// Copyright 2024-2026 Aiku AI

// Package service wires the rewrite engine to its host environment: a NATS
// subscription delivering raw IRC lines, a configuration store watcher
// applying rule changes, and an admin HTTP API for inspection and reload.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/thecliguy/format-bridge-bot-output/pkg/configstore"
	"github.com/thecliguy/format-bridge-bot-output/pkg/ircmsg"
	"github.com/thecliguy/format-bridge-bot-output/pkg/rewrite"
)

// Service runs the rewrite pipeline: one inbound line in, exactly one
// outbound line out, unchanged unless a rule rewrote it.
type Service struct {
	cfg      *Config
	nc       *nats.Conn
	store    configstore.Store
	registry *rewrite.Registry
	rewriter *rewrite.Rewriter
	metrics  *Metrics
	log      zerolog.Logger
}

// New assembles a service from its collaborators. nc may be nil in tests
// that exercise only the processing and admin paths.
func New(cfg *Config, nc *nats.Conn, store configstore.Store, log zerolog.Logger) *Service {
	registry := rewrite.NewRegistry(store, log)
	return &Service{
		cfg:      cfg,
		nc:       nc,
		store:    store,
		registry: registry,
		rewriter: rewrite.NewRewriter(registry, log),
		metrics:  NewMetrics(),
		log:      log,
	}
}

// Run loads the rule set, starts the change watcher and the admin API, and
// consumes inbound lines until ctx is cancelled. A store failure during the
// initial load is fatal; no partial registry is accepted.
func (s *Service) Run(ctx context.Context) error {
	if err := s.registry.LoadAll(ctx); err != nil {
		return err
	}
	s.metrics.RulesLoaded.Set(float64(s.registry.Len()))

	changes, err := s.store.Watch(ctx)
	if err != nil {
		return fmt.Errorf("service: watch rule changes: %w", err)
	}
	go s.watchChanges(ctx, changes)

	sub, err := s.nc.Subscribe(s.cfg.Subjects.Inbound, s.handleDelivery)
	if err != nil {
		return fmt.Errorf("service: subscribe %s: %w", s.cfg.Subjects.Inbound, err)
	}
	defer func() { _ = sub.Drain() }()

	server := &http.Server{
		Addr:         s.cfg.AdminAPIAddr,
		Handler:      s.AdminHandler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		s.log.Info().Str("addr", s.cfg.AdminAPIAddr).Msg("Starting admin API")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("Admin API error")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Info().
		Str("inbound", s.cfg.Subjects.Inbound).
		Str("outbound_prefix", s.cfg.Subjects.OutboundPrefix).
		Msg("Rewrite service running")
	<-ctx.Done()
	return nil
}

// handleDelivery processes one inbound NATS delivery.
func (s *Service) handleDelivery(m *nats.Msg) {
	server := subjectServer(m.Subject)
	out, outcome := s.ProcessLine(server, m.Data)
	subject := s.cfg.Subjects.OutboundPrefix + "." + server
	if err := s.nc.Publish(subject, out); err != nil {
		s.log.Error().Err(err).Str("subject", subject).Msg("Failed to publish outbound line")
		return
	}
	s.log.Trace().Str("server", server).Str("outcome", outcome).Msg("Processed line")
}

// ProcessLine classifies and rewrites a single raw line. It always returns
// exactly one outbound payload: the rewritten line, or the input bytes
// verbatim for every pass-through outcome (including unparseable lines).
func (s *Service) ProcessLine(server string, data []byte) ([]byte, string) {
	s.metrics.MessagesReceived.Inc()

	msg, err := ircmsg.Parse(string(data))
	if err != nil {
		s.metrics.ParseFailures.Inc()
		s.log.Warn().Err(err).Str("server", server).Msg("Passing through unparseable line")
		return data, "parse_failure"
	}

	out, outcome := s.rewriter.Rewrite(server, msg)
	s.metrics.MessageOutcomes.WithLabelValues(outcome.String()).Inc()
	if outcome != rewrite.OutcomeRewritten {
		return data, outcome.String()
	}
	return []byte(out.Render()), outcome.String()
}

// watchChanges applies configuration change notifications to the registry.
func (s *Service) watchChanges(ctx context.Context, changes <-chan configstore.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			name, field, splitOK := rewrite.SplitKey(change.Key)
			if !splitOK {
				s.log.Warn().Str("key", change.Key).Msg("Ignoring change for key without a rule name prefix")
				continue
			}
			value := change.Value
			if change.Deleted {
				value = ""
			}
			if err := s.registry.ApplyChange(ctx, name, field, value); err != nil {
				s.log.Error().Err(err).Str("rule", name).Str("field", field).Msg("Failed to apply rule change")
				continue
			}
			s.metrics.RulesLoaded.Set(float64(s.registry.Len()))
		}
	}
}

// subjectServer extracts the server name from the final subject token.
func subjectServer(subject string) string {
	if i := strings.LastIndex(subject, "."); i >= 0 {
		return subject[i+1:]
	}
	return subject
}
