package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ReportsConfig struct {
	Directory string `yaml:"directory"`
	Font      string `yaml:"font"` // TTF font for PDF rendering
}

type FetchConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// AuditConfig carries the weight and threshold tables for the pipeline.
// They live in config rather than as package constants so tests and
// deployments can substitute alternate tables.
type AuditConfig struct {
	ModuleWeights     map[string]float64 `yaml:"module_weights"`
	MinScoreThreshold int                `yaml:"min_score_threshold"`
	MinScoreDrop      int                `yaml:"min_score_drop"`
	AlertWebhookURL   string             `yaml:"alert_webhook_url"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Reports  ReportsConfig  `yaml:"reports"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Audit    AuditConfig    `yaml:"audit"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: "automatiq.db",
		},
		Reports: ReportsConfig{
			Directory: "./reports",
		},
		Fetch: FetchConfig{
			Timeout:      20 * time.Second,
			UserAgent:    "AutomatIQ/1.0 (Site Auditor)",
			MaxBodyBytes: 2 * 1024 * 1024,
		},
		Audit: AuditConfig{
			ModuleWeights: map[string]float64{
				"seo":           1.5,
				"performance":   1.5,
				"accessibility": 1.2,
				"security":      1.5,
				"mobile":        1.2,
				"content":       1.0,
				"crossbrowser":  1.0,
				"analytics":     0.8,
				"chatbot":       0.5,
			},
			MinScoreThreshold: 70,
			MinScoreDrop:      5,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}
