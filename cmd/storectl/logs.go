package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/LuisKlee/MoFox-src-demo-sub000/logstore"
)

var (
	logsDir       string
	logsStart     string
	logsEnd       string
	logsOlderThan time.Duration
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Query and maintain a rotating log stream",
}

var logsAddCmd = &cobra.Command{
	Use:   "add <entry-json>",
	Short: "Append one entry to the stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var entry map[string]any
		if err := json.Unmarshal([]byte(args[0]), &entry); err != nil {
			return fmt.Errorf("entry must be a JSON object: %w", err)
		}

		stream, err := openLogStream()
		if err != nil {
			return err
		}
		return stream.Add(entry)
	},
}

var logsQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print entries within a time range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseBound(logsStart)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		end, err := parseBound(logsEnd)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}

		stream, err := openLogStream()
		if err != nil {
			return err
		}
		entries, err := stream.Logs(start, end, nil)
		if err != nil {
			return err
		}
		return printJSON(cmd, entries)
	},
}

var logsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete log files older than a retention window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stream, err := openLogStream()
		if err != nil {
			return err
		}

		return withMaintenanceLock(stream.Dir(), func() error {
			removed, err := stream.RemoveOlderThan(logsOlderThan)
			if err != nil {
				return err
			}
			cmd.Printf("removed %d log file(s)\n", removed)
			return nil
		})
	},
}

func openLogStream() (*logstore.Store, error) {
	dir := logsDir
	if dir == "" {
		dir = cfg.Log.Dir
	}
	if dir == "" {
		return nil, fmt.Errorf("no log directory: set --dir or log.dir in the config")
	}

	return logstore.New(resolvePath(dir), &logstore.Options{
		Prefix:            cfg.Log.Prefix,
		MaxEntriesPerFile: cfg.Log.MaxEntriesPerFile,
		AutoRotate:        cfg.Log.AutoRotate,
		Logger:            logger,
	})
}

// parseBound accepts RFC 3339 timestamps or plain dates.
func parseBound(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if when, err := time.Parse(time.RFC3339, raw); err == nil {
		return when, nil
	}
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}

func init() {
	logsCmd.PersistentFlags().StringVar(&logsDir, "dir", "", "log directory (default: log.dir from config)")
	logsQueryCmd.Flags().StringVar(&logsStart, "start", "", "inclusive lower bound (RFC 3339 or YYYY-MM-DD)")
	logsQueryCmd.Flags().StringVar(&logsEnd, "end", "", "inclusive upper bound (RFC 3339 or YYYY-MM-DD)")
	logsPruneCmd.Flags().DurationVar(&logsOlderThan, "older-than", 30*24*time.Hour, "delete files older than this age")

	logsCmd.AddCommand(logsAddCmd)
	logsCmd.AddCommand(logsQueryCmd)
	logsCmd.AddCommand(logsPruneCmd)
	rootCmd.AddCommand(logsCmd)
}
