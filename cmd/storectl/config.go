package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/LuisKlee/MoFox-src-demo-sub000/internal/paths"
)

// Config holds storectl settings loaded from the config file and STORECTL_*
// environment variables.
type Config struct {
	// DataDir is joined onto relative store paths given on the command line.
	DataDir    string    `mapstructure:"data_dir" yaml:"data_dir" json:"data_dir"`
	MaxBackups int       `mapstructure:"max_backups" yaml:"max_backups" json:"max_backups"`
	Indent     int       `mapstructure:"indent" yaml:"indent" json:"indent"`
	Log        LogConfig `mapstructure:"log" yaml:"log" json:"log"`
}

// LogConfig holds the log stream settings.
type LogConfig struct {
	Dir               string `mapstructure:"dir" yaml:"dir" json:"dir"`
	Prefix            string `mapstructure:"prefix" yaml:"prefix" json:"prefix"`
	MaxEntriesPerFile int    `mapstructure:"max_entries_per_file" yaml:"max_entries_per_file" json:"max_entries_per_file"`
	AutoRotate        bool   `mapstructure:"auto_rotate" yaml:"auto_rotate" json:"auto_rotate"`
}

// Config validation errors.
var (
	ErrIndentNegative    = errors.New("indent must not be negative")
	ErrMaxEntriesInvalid = errors.New("log.max_entries_per_file must be positive")
	ErrLogPrefixEmpty    = errors.New("log.prefix must not be empty")
)

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.Indent < 0 {
		return ErrIndentNegative
	}
	if c.Log.MaxEntriesPerFile <= 0 {
		return ErrMaxEntriesInvalid
	}
	if c.Log.Prefix == "" {
		return ErrLogPrefixEmpty
	}
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage storectl configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		cmd.Print(string(out))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := paths.DefaultConfigDir()
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}

		target := filepath.Join(configDir, "storectl.yaml")
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("config file already exists: %s", target)
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		if err := os.WriteFile(target, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		cmd.Printf("wrote %s\n", target)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
