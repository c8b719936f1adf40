package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Filter strings with a natural-language query",
		Long:  `Translates a query such as "single word palindromic strings" into filters and lists the matches.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultQueryLimit, "Maximum number of results (0 for all)")

	return cmd
}

func runQuery(cmd *cobra.Command, query string, limit int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(func(d *Deps) error {
		result, err := d.QueryHandler.Handle(ctx, query)
		if err != nil {
			return err
		}

		filters, err := json.Marshal(result.Criteria)
		if err != nil {
			return fmt.Errorf("encoding filters: %w", err)
		}
		source := "rules"
		if result.Interpreted {
			source = "model"
		}
		fmt.Fprintf(out, "Filters (%s): %s\n", source, filters)

		if len(result.Records) == 0 {
			fmt.Fprintln(out, "No strings found.")
			return nil
		}

		records := result.Records
		if limit > 0 && len(records) > limit {
			records = records[:limit]
		}
		fmt.Fprintln(out)
		displayRecords(out, records, len(result.Records))
		return nil
	})
}
