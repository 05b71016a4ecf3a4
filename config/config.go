// Package config loads the settings of the prune command from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory when no path is given.
const DefaultFileName = ".prune.yaml"

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"

	InputAuto = "auto"
	InputText = "text"
	InputYAML = "yaml"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Output is the report format: text, json, or yaml.
	Output string `yaml:"output"`

	// Input is the grammar notation: auto, text, or yaml. auto decides it from the file extension.
	Input string `yaml:"input"`

	Color         string `yaml:"color"`
	FailOnUseless bool   `yaml:"fail_on_useless"`
	LogLevel      string `yaml:"log_level"`

	Telemetry TelemetryConfig `yaml:"telemetry"`
	Watch     WatchConfig     `yaml:"watch"`
}

type TelemetryConfig struct {
	// Traces and Metrics select the exporters: stdout or none.
	Traces  string `yaml:"traces"`
	Metrics string `yaml:"metrics"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

func Default() *Config {
	return &Config{
		Output:   OutputText,
		Input:    InputAuto,
		Color:    ColorAuto,
		LogLevel: "warn",
		Telemetry: TelemetryConfig{
			Traces:  "none",
			Metrics: "none",
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}

// Load reads the config file at path over the defaults. When path is empty, Load reads DefaultFileName if it
// exists and returns the defaults otherwise.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultFileName); err != nil {
			if os.IsNotExist(err) {
				return Default(), nil
			}
			return nil, fmt.Errorf("failed to stat the config file: %w", err)
		}
		path = DefaultFileName
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open the config file: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a config over the defaults and validates it. Unknown keys are errors.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	err := d.Decode(cfg)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode the config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if !oneOf(c.Output, OutputText, OutputJSON, OutputYAML) {
		return fmt.Errorf("%w: output must be text, json, or yaml; got: %v", ErrInvalidConfig, c.Output)
	}
	if !oneOf(c.Input, InputAuto, InputText, InputYAML) {
		return fmt.Errorf("%w: input must be auto, text, or yaml; got: %v", ErrInvalidConfig, c.Input)
	}
	if !oneOf(c.Color, ColorAuto, ColorAlways, ColorNever) {
		return fmt.Errorf("%w: color must be auto, always, or never; got: %v", ErrInvalidConfig, c.Color)
	}
	if !oneOf(c.LogLevel, "debug", "info", "warn", "error") {
		return fmt.Errorf("%w: log_level must be debug, info, warn, or error; got: %v", ErrInvalidConfig, c.LogLevel)
	}
	if !oneOf(c.Telemetry.Traces, "stdout", "none") {
		return fmt.Errorf("%w: telemetry.traces must be stdout or none; got: %v", ErrInvalidConfig, c.Telemetry.Traces)
	}
	if !oneOf(c.Telemetry.Metrics, "stdout", "none") {
		return fmt.Errorf("%w: telemetry.metrics must be stdout or none; got: %v", ErrInvalidConfig, c.Telemetry.Metrics)
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("%w: watch.debounce must be positive; got: %v", ErrInvalidConfig, c.Watch.Debounce)
	}
	return nil
}

func oneOf(v string, candidates ...string) bool {
	for _, c := range candidates {
		if v == c {
			return true
		}
	}
	return false
}
