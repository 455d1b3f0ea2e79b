package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LuisKlee/MoFox-src-demo-sub000/jsonstore"
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a store's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := storeOptions()
		opts.AutoCreate = false
		store, err := jsonstore.New(resolvePath(args[0]), opts)
		if err != nil {
			return err
		}

		value, err := store.Read(nil)
		if err != nil {
			return err
		}
		return printJSON(cmd, value)
	},
}

var statCmd = &cobra.Command{
	Use:   "stat <file>",
	Short: "Show a store's file status and backups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := storeOptions()
		opts.AutoCreate = false
		store, err := jsonstore.New(resolvePath(args[0]), opts)
		if err != nil {
			return err
		}

		backups, err := store.Backups()
		if err != nil {
			return err
		}

		cmd.Printf("path:    %s\n", store.Path())
		cmd.Printf("exists:  %v\n", store.Exists())
		cmd.Printf("size:    %d bytes\n", store.Size())
		cmd.Printf("backups: %d\n", len(backups))
		for _, backup := range backups {
			cmd.Printf("  %s\n", backup)
		}
		return nil
	},
}

func printJSON(cmd *cobra.Command, value any) error {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	cmd.Println(string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statCmd)
}
