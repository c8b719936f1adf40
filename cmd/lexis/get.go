package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <value>",
		Short: "Show a stored string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the record as JSON")

	return cmd
}

func runGet(cmd *cobra.Command, value string, asJSON bool) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		rec, err := d.StringsHandler.Get(ctx, value)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(rec); err != nil {
				return fmt.Errorf("encoding record: %w", err)
			}
			return nil
		}

		displayRecord(out, *rec)
		return nil
	})
}
