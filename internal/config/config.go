package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level bilag.yaml configuration.
type Config struct {
	Inputs   InputsConfig   `yaml:"inputs"`
	Matching MatchingConfig `yaml:"matching"`
	Export   ExportConfig   `yaml:"export"`
	LogDir   string         `yaml:"log_dir"`
}

// InputsConfig locates the input files for a reconciliation run.
type InputsConfig struct {
	BankCSV      string `yaml:"bank_csv"`
	DocumentData string `yaml:"document_data"`
	Creditors    string `yaml:"creditors"`
	MatchInfo    string `yaml:"match_info"`
	DocumentsDir string `yaml:"documents_dir"`
}

// MatchingConfig holds the matching thresholds.
type MatchingConfig struct {
	AliasWindowDays       int `yaml:"alias_window_days"`
	ScheduleToleranceDays int `yaml:"schedule_tolerance_days"`
}

// ExportConfig controls where matched documents are copied.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads a bilag.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the conventional file layout and the
// thresholds the matching passes were tuned with.
func Default() *Config {
	return &Config{
		Inputs: InputsConfig{
			BankCSV:      "data/bank_kred.csv",
			DocumentData: "data/docdata.json",
			Creditors:    "data/creditors.json",
			MatchInfo:    "data/matchinfo.json",
			DocumentsDir: "documents",
		},
		Matching: MatchingConfig{
			AliasWindowDays:       15,
			ScheduleToleranceDays: 7,
		},
		Export: ExportConfig{
			Dir: "export",
		},
		LogDir: "logs",
	}
}
