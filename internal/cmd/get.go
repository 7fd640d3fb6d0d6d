package cmd

import (
	"fmt"

	"poseidon/internal/configtype"
	"poseidon/internal/store"

	"github.com/spf13/cobra"
)

// newGetCmd creates the get command.
func newGetCmd(provider *AppProvider) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "get <name> [path]",
		Short: "Print a config or a field of the default config",
		Long: `Print a value by name.

A name that is a field of the default config prints that field. Any other
name is loaded as a config type. An optional dotted path selects a value
inside the result. Fields whose names start with "_" are shown with their
paths resolved against the config directory.

Examples:
  poseidon get _              # The whole default config
  poseidon get port           # Field "port" of config.json
  poseidon get db             # config.db.json
  poseidon get .secret token  # Field "token" of .config.secret.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			name := args[0]
			if name == configtype.SelfSlot {
				return fmt.Errorf("%q refers to the store itself", name)
			}

			// Top-level fields come from the default config.
			if _, err := app.Store.LoadSafe(configtype.DefaultSlot); err != nil {
				return err
			}

			v, err := app.Store.Accessor().GetOrLoad(name)
			if err != nil {
				return err
			}
			if v.IsUndefined() {
				return fmt.Errorf("%s: %w", name, store.ErrNotFound)
			}

			if len(args) == 2 {
				var ok bool
				v, ok = v.Lookup(args[1])
				if !ok {
					return fmt.Errorf("%s %s: %w", name, args[1], store.ErrNotFound)
				}
			}
			return writeValue(app, v, asYAML)
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Output in YAML format")

	return cmd
}
