package main

import (
	"github.com/spf13/cobra"

	"github.com/LuisKlee/MoFox-src-demo-sub000/jsonstore"
)

var compressOutput string

var compressCmd = &cobra.Command{
	Use:   "compress <file>",
	Short: "Gzip-compress a store file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := storeOptions()
		opts.AutoCreate = false
		store, err := jsonstore.New(resolvePath(args[0]), opts)
		if err != nil {
			return err
		}

		out, err := store.Compress(compressOutput)
		if err != nil {
			return err
		}
		cmd.Printf("wrote %s\n", out)
		return nil
	},
}

var decompressCmd = &cobra.Command{
	Use:   "decompress <file> <archive>",
	Short: "Restore a store file from a gzip archive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := storeOptions()
		opts.AutoCreate = false
		store, err := jsonstore.New(resolvePath(args[0]), opts)
		if err != nil {
			return err
		}

		if err := store.Decompress(args[1]); err != nil {
			return err
		}
		cmd.Printf("restored %s\n", store.Path())
		return nil
	},
}

func init() {
	compressCmd.Flags().StringVarP(&compressOutput, "output", "o", "", "output path (default: <file>.gz)")
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(decompressCmd)
}
