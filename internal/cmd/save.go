package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"poseidon/internal/store"

	"github.com/spf13/cobra"
)

// newSaveCmd creates the save command.
func newSaveCmd(provider *AppProvider) *cobra.Command {
	var (
		backup    bool
		backupDir string
	)

	cmd := &cobra.Command{
		Use:   "save <type> <file|->",
		Short: "Replace a config with a JSON document",
		Long: `Replace the config file of a type with the JSON document read from a
file, or from stdin when the file is "-". The document is rewritten with
tab indentation. Missing configs are created.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			typ, err := app.Store.ParseType(args[0])
			if err != nil {
				return err
			}
			src := args[1]

			var data []byte
			if src == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(src)
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", src, err)
			}

			var doc any
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("parsing %s: %w", src, err)
			}

			opts := store.SaveOptions{Backup: backup || backupDir != "", BackupDir: backupDir}
			if _, err := app.Store.SaveType(typ, doc, opts); err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]string{
					"type": typ.Token(),
					"file": app.Store.FileName(typ),
				})
			}
			fmt.Fprintf(app.Out, "%s %s\n", app.SuccessColor("Saved"), typ.Token())
			return nil
		},
	}

	cmd.Flags().BoolVar(&backup, "backup", false, "Back up the current file before saving")
	cmd.Flags().StringVar(&backupDir, "backup-dir", "", "Directory for backups (implies --backup)")

	return cmd
}
