package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newTypesCmd creates the types command.
func newTypesCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the config types present in the directory",
		Long: `List every config type that has a file in the config directory.

The default config is listed as "_", hidden configs keep their leading
".". Backup files are not listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			types, err := app.Store.TypesExist()
			if err != nil {
				return err
			}

			if app.JSON {
				if types == nil {
					types = []string{}
				}
				return json.NewEncoder(app.Out).Encode(types)
			}
			for _, t := range types {
				fmt.Fprintln(app.Out, t)
			}
			return nil
		},
	}
	return cmd
}
