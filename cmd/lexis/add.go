package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <value>",
		Short: "Analyze and store a string",
		Long:  "Computes the properties of a string and stores it. Adding a stored string prints the existing record.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args[0])
		},
	}
}

func runAdd(cmd *cobra.Command, value string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		result, err := d.StringsHandler.Add(ctx, value)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Created {
			fmt.Fprintln(out, "Stored:")
		} else {
			fmt.Fprintln(out, "Already stored:")
		}
		displayRecord(out, *result.Record)
		return nil
	})
}
