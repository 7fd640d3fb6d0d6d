package cmd

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"poseidon/internal/frozen"
)

// writeValue prints v. Plain strings are printed bare unless JSON output
// is requested; everything else is printed as indented JSON or as YAML.
func writeValue(app *App, v frozen.Value, asYAML bool) error {
	if s, ok := v.AsString(); ok && !app.JSON && !asYAML {
		fmt.Fprintln(app.Out, s)
		return nil
	}
	if asYAML {
		enc := yaml.NewEncoder(app.Out)
		enc.SetIndent(2)
		if err := enc.Encode(v.Export()); err != nil {
			return err
		}
		return enc.Close()
	}
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Out, string(data))
	return nil
}
