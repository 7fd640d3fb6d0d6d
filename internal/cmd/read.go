package cmd

import (
	"github.com/spf13/cobra"
)

// newReadCmd creates the read command.
func newReadCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <type>",
		Short: "Print a config file as stored",
		Long: `Print the bytes of a config file without parsing it or resolving
any paths.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			raw, err := app.Store.ReadRaw(args[0])
			if err != nil {
				return err
			}
			_, err = app.Out.Write(raw)
			return err
		},
	}
	return cmd
}
