// Copyright 2024-2026 Aiku AI

package service

import (
	_ "embed"
	"fmt"
	"os"

	"go.mau.fi/zeroconfig"
	"gopkg.in/yaml.v3"
)

//go:embed example-config.yaml
var ExampleConfig string

// Config holds the daemon configuration.
type Config struct {
	NATS struct {
		// URL of the NATS server carrying both the message subjects
		// and the rule bucket.
		URL string `yaml:"url"`
		// Bucket is the JetStream KV bucket holding rewrite rules.
		Bucket string `yaml:"bucket"`
	} `yaml:"nats"`

	Subjects struct {
		// Inbound is the subscription subject for raw inbound lines.
		// The final subject token is the originating server name.
		Inbound string `yaml:"inbound"`
		// OutboundPrefix is the subject prefix for rewritten lines;
		// the server name is appended as the final token.
		OutboundPrefix string `yaml:"outbound_prefix"`
	} `yaml:"subjects"`

	// AdminAPIAddr is the listen address for the admin HTTP API serving
	// /api/rules, /api/reload and /metrics. Defaults to ":29321".
	AdminAPIAddr string `yaml:"admin_api_addr"`

	Logging zeroconfig.Config `yaml:"logging"`
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type rawConfig Config
	return node.Decode((*rawConfig)(c))
}

// PostProcess fills in defaults and validates the configuration.
func (c *Config) PostProcess() error {
	if c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required")
	}
	if c.NATS.Bucket == "" {
		c.NATS.Bucket = "bridge-rewrite-rules"
	}
	if c.Subjects.Inbound == "" {
		c.Subjects.Inbound = "irc.in.*"
	}
	if c.Subjects.OutboundPrefix == "" {
		c.Subjects.OutboundPrefix = "irc.out"
	}
	if c.AdminAPIAddr == "" {
		c.AdminAPIAddr = os.Getenv("BRIDGEFMT_API_ADDR")
	}
	if c.AdminAPIAddr == "" {
		c.AdminAPIAddr = ":29321"
	}
	return nil
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.PostProcess(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
