package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LuisKlee/MoFox-src-demo-sub000/jsonstore"
)

var backupsKeep int

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Inspect and prune a store's backups",
}

var backupsListCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List a store's backups, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openForMaintenance(args[0])
		if err != nil {
			return err
		}

		backups, err := store.Backups()
		if err != nil {
			return err
		}
		for _, backup := range backups {
			cmd.Println(backup)
		}
		return nil
	},
}

var backupsPruneCmd = &cobra.Command{
	Use:   "prune <file>",
	Short: "Delete all but the newest backups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openForMaintenance(args[0])
		if err != nil {
			return err
		}

		return withMaintenanceLock(filepath.Dir(store.Path()), func() error {
			removed, err := store.PruneBackups(backupsKeep)
			if err != nil {
				return err
			}
			cmd.Printf("removed %d backup(s), kept %d\n", removed, backupsKeep)
			return nil
		})
	},
}

func openForMaintenance(path string) (*jsonstore.Store, error) {
	opts := storeOptions()
	opts.AutoCreate = false
	return jsonstore.New(resolvePath(path), opts)
}

func init() {
	backupsPruneCmd.Flags().IntVar(&backupsKeep, "keep", jsonstore.DefaultMaxBackups, "number of backups to keep")
	backupsCmd.AddCommand(backupsListCmd)
	backupsCmd.AddCommand(backupsPruneCmd)
	rootCmd.AddCommand(backupsCmd)
}
