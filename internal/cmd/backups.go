package cmd

import (
	"encoding/json"
	"fmt"

	"poseidon/internal/backup"

	"github.com/spf13/cobra"
)

// newBackupsCmd creates the backups command.
func newBackupsCmd(provider *AppProvider) *cobra.Command {
	var backupDir string

	cmd := &cobra.Command{
		Use:   "backups <type>",
		Short: "List the numbered backups of a config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			entries, err := app.Store.Backups(args[0], backupDir)
			if err != nil {
				return err
			}

			if app.JSON {
				if entries == nil {
					entries = []backup.Entry{}
				}
				return json.NewEncoder(app.Out).Encode(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(app.Out, app.WarnColor("No backups"))
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(app.Out, "%d\t%s\n", e.Index, e.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backupDir, "backup-dir", "", "Directory holding the backups (default: config directory)")

	return cmd
}
