package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		limit   int
		filters filterFlags
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored strings",
		Long:  "Lists stored strings, newest first, with optional property filters.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, limit, &filters)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultListLimit, "Maximum number of strings to display (0 for all)")
	addFilterFlags(cmd, &filters)

	return cmd
}

func runList(cmd *cobra.Command, limit int, filters *filterFlags) error {
	criteria, err := filters.criteria(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(func(d *Deps) error {
		all, err := d.StringsHandler.List(ctx, criteria, 0)
		if err != nil {
			return err
		}

		if len(all.Records) == 0 {
			fmt.Fprintln(out, "No strings found.")
			return nil
		}

		records := all.Records
		if limit > 0 && len(records) > limit {
			records = records[:limit]
		}
		displayRecords(out, records, len(all.Records))
		return nil
	})
}
