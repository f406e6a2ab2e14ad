// Copyright 2024-2026 Aiku AI

package service

import (
	"encoding/json"
	"net/http"
)

// RuleView is the JSON shape of one rule as served by the admin API.
type RuleView struct {
	Name          string   `json:"name"`
	Server        string   `json:"server"`
	Channel       string   `json:"channel"`
	BotNicks      []string `json:"bot_nicks"`
	NickMaxLength int      `json:"nick_display_max_length"`
	Pattern       string   `json:"pattern,omitempty"`
}

// AdminHandler serves the admin HTTP API: rule inspection, full reload, and
// Prometheus metrics.
func (s *Service) AdminHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/rules", s.handleRules)
	mux.HandleFunc("/api/reload", s.handleReload)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

func (s *Service) handleRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rules := s.registry.Rules()
	views := make([]RuleView, 0, len(rules))
	for _, rule := range rules {
		view := RuleView{
			Name:          rule.Name,
			Server:        rule.Server,
			Channel:       rule.Channel,
			BotNicks:      rule.BotNicks,
			NickMaxLength: rule.NickMaxLength,
		}
		if rule.Pattern != nil {
			view.Pattern = rule.Pattern.String()
		}
		views = append(views, view)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode rule dump")
	}
}

func (s *Service) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.registry.LoadAll(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("Reload failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.metrics.RulesLoaded.Set(float64(s.registry.Len()))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"rules": s.registry.Len()})
}
