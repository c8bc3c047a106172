package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"predictive-trader/internal/types"
)

type Config struct {
	Mode       string   `yaml:"mode"`
	DataSource string   `yaml:"data_source"`
	Symbols    []string `yaml:"symbols"`
	Agent      struct {
		Name                string  `yaml:"name"`
		RiskTolerance       float64 `yaml:"risk_tolerance"`
		MaxPositionSize     float64 `yaml:"max_position_size"`
		MinConfidence       float64 `yaml:"min_confidence"`
		TickIntervalSeconds int     `yaml:"tick_interval_seconds"`
	} `yaml:"agent"`
	Backoff struct {
		InitialMultiplier float64 `yaml:"initial_multiplier"`
		MaxMultiplier     float64 `yaml:"max_multiplier"`
	} `yaml:"backoff"`
	Predictor struct {
		Window  int `yaml:"window"`
		History int `yaml:"history"`
	} `yaml:"predictor"`
	Paper struct {
		StartingBalance float64 `yaml:"starting_balance"`
	} `yaml:"paper"`
	Execution struct {
		MEVProtect bool `yaml:"mev_protect"`
	} `yaml:"execution"`
	News struct {
		Enabled      bool `yaml:"enabled"`
		MaxArticles  int  `yaml:"max_articles"`
		CacheMinutes int  `yaml:"cache_minutes"`
	} `yaml:"news"`
	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return &types.ConfigError{Field: "mode", Reason: "must be 'DRY_RUN' or 'LIVE'"}
	}
	if c.DataSource != "STATIC" && c.DataSource != "LIVE" {
		return &types.ConfigError{Field: "data_source", Reason: "must be 'STATIC' or 'LIVE'"}
	}
	if len(c.Symbols) == 0 {
		return &types.ConfigError{Field: "symbols", Reason: "cannot be empty"}
	}
	if c.Agent.RiskTolerance < 0 || c.Agent.RiskTolerance > 1 {
		return &types.ConfigError{Field: "agent.risk_tolerance", Reason: "must be within [0,1]"}
	}
	if c.Agent.MaxPositionSize < 0 || c.Agent.MaxPositionSize > 1 {
		return &types.ConfigError{Field: "agent.max_position_size", Reason: "must be within [0,1]"}
	}
	if c.Agent.MinConfidence < 0 || c.Agent.MinConfidence > 1 {
		return &types.ConfigError{Field: "agent.min_confidence", Reason: "must be within [0,1]"}
	}
	if c.Agent.TickIntervalSeconds <= 0 {
		return &types.ConfigError{Field: "agent.tick_interval_seconds", Reason: "must be positive"}
	}
	if c.Backoff.MaxMultiplier < c.Backoff.InitialMultiplier {
		return &types.ConfigError{Field: "backoff.max_multiplier", Reason: "must be >= backoff.initial_multiplier"}
	}
	return nil
}

// TickInterval returns the configured tick period as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Agent.TickIntervalSeconds) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Agent.Name == "" {
		c.Agent.Name = "predictive-trader"
	}
	if c.Agent.TickIntervalSeconds == 0 {
		c.Agent.TickIntervalSeconds = 30
	}
	if c.DataSource == "" {
		c.DataSource = "STATIC"
	}
	if c.Backoff.InitialMultiplier == 0 {
		c.Backoff.InitialMultiplier = 2
	}
	if c.Backoff.MaxMultiplier == 0 {
		c.Backoff.MaxMultiplier = 10
	}
	if c.Predictor.Window == 0 {
		c.Predictor.Window = 60
	}
	if c.Predictor.History == 0 {
		c.Predictor.History = 4 * c.Predictor.Window
	}
	if c.Paper.StartingBalance == 0 {
		c.Paper.StartingBalance = 10000
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 10
	}
	if c.News.CacheMinutes == 0 {
		c.News.CacheMinutes = 60
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9090
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}
