package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/LuisKlee/MoFox-src-demo-sub000/internal/paths"
	"github.com/LuisKlee/MoFox-src-demo-sub000/jsonstore"
)

var (
	cfgFile string
	verbose bool
	cfg     Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "storectl",
	Short:         "Manage file-backed JSON stores and log streams",
	Long:          "storectl inspects and maintains the bot's JSON store files: key/value access, backups, compression, and rotating log streams.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(verbose)
		return loadConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default: platform config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug output")
}

// newLogger builds the CLI logger: colored tint output on a terminal, plain
// otherwise.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
}

// loadConfig wires viper: defaults, optional config file, STORECTL_* env.
func loadConfig() error {
	viper.SetDefault("data_dir", "")
	viper.SetDefault("max_backups", jsonstore.DefaultMaxBackups)
	viper.SetDefault("indent", jsonstore.DefaultIndent)
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.prefix", "log")
	viper.SetDefault("log.max_entries_per_file", 1000)
	viper.SetDefault("log.auto_rotate", true)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := paths.DefaultConfigDir()
		if err == nil {
			viper.AddConfigPath(configDir)
		}
		viper.SetConfigName("storectl")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("STORECTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		// A missing default config file is fine; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		logger.Debug("loaded config", "file", viper.ConfigFileUsed())
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return cfg.Validate()
}

// resolvePath joins relative store paths onto the configured data directory.
func resolvePath(path string) string {
	if filepath.IsAbs(path) || cfg.DataDir == "" {
		return path
	}
	return filepath.Join(cfg.DataDir, path)
}

// storeOptions builds jsonstore options from the loaded config.
func storeOptions() *jsonstore.Options {
	opts := jsonstore.DefaultOptions()
	opts.MaxBackups = cfg.MaxBackups
	opts.Indent = cfg.Indent
	opts.Logger = logger
	return opts
}
