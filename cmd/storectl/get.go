package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/LuisKlee/MoFox-src-demo-sub000/jsonstore"
)

var getCmd = &cobra.Command{
	Use:   "get <file> <key>",
	Short: "Read one key from a dictionary store",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := storeOptions()
		opts.AutoCreate = false
		store, err := jsonstore.NewDict(resolvePath(args[0]), opts)
		if err != nil {
			return err
		}

		value, err := store.Get(args[1], nil)
		if err != nil {
			return err
		}
		return printJSON(cmd, value)
	},
}

var setCmd = &cobra.Command{
	Use:   "set <file> <key> <value>",
	Short: "Write one key in a dictionary store",
	Long:  "The value is decoded as JSON when possible and stored as a plain string otherwise.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := jsonstore.NewDict(resolvePath(args[0]), storeOptions())
		if err != nil {
			return err
		}
		return store.Set(args[1], parseValue(args[2]))
	},
}

var delCmd = &cobra.Command{
	Use:   "del <file> <key>",
	Short: "Delete one key from a dictionary store",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := storeOptions()
		opts.AutoCreate = false
		store, err := jsonstore.NewDict(resolvePath(args[0]), opts)
		if err != nil {
			return err
		}
		return store.DeleteKey(args[1])
	},
}

// parseValue decodes a command line value as JSON, falling back to the raw
// string.
func parseValue(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value
	}
	return raw
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(delCmd)
}
