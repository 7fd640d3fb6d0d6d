package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"poseidon/internal/configtype"
	"poseidon/internal/store"

	"github.com/spf13/cobra"
)

// newSetCmd creates the set command.
func newSetCmd(provider *AppProvider) *cobra.Command {
	var (
		backup    bool
		backupDir string
	)

	cmd := &cobra.Command{
		Use:   "set <type> <key> <value>",
		Short: "Set a top-level field of a config",
		Long: `Set a top-level field of an existing config and save it.

The value is parsed as JSON; anything that is not valid JSON is stored as
a string. Paths are written as given, not resolved.

Examples:
  poseidon set _ port 8080
  poseidon set db host localhost
  poseidon set db replicas '["a","b"]' --backup`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			token, key := args[0], args[1]
			value := parseValue(args[2])

			opts := store.SaveOptions{Backup: backup || backupDir != "", BackupDir: backupDir}
			_, err = app.Store.EditWithOptions(cmd.Context(), token,
				func(ctx context.Context, doc any, typ configtype.Type, s *store.Store) (any, error) {
					obj, ok := doc.(map[string]any)
					if !ok {
						return nil, fmt.Errorf("config %s is not an object", typ)
					}
					obj[key] = value
					return obj, nil
				}, opts).Wait()
			if err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]any{
					"type":  token,
					"key":   key,
					"value": value,
				})
			}
			fmt.Fprintf(app.Out, "%s %s.%s\n", app.SuccessColor("Set"), token, key)
			return nil
		},
	}

	cmd.Flags().BoolVar(&backup, "backup", false, "Back up the current file before saving")
	cmd.Flags().StringVar(&backupDir, "backup-dir", "", "Directory for backups (implies --backup)")

	return cmd
}

// parseValue decodes s as JSON, falling back to the string itself.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}
