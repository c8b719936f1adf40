package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ersonp/lexis/internal/application/handlers"
)

type exportFlags struct {
	format  string
	output  string
	filters filterFlags
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export strings to file",
		Long:  "Exports stored strings to JSON, CSV, or markdown format, with the same filters as list.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, &flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	addFilterFlags(cmd, &flags.filters)

	return cmd
}

func runExport(cmd *cobra.Command, flags *exportFlags) error {
	if !slices.Contains(handlers.ExportFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, handlers.ExportFormats)
	}

	criteria, err := flags.filters.criteria(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	return withExportHandler(func(handler *handlers.ExportHandler) (err error) {
		w := cmd.OutOrStdout()
		if flags.output != "" {
			f, err := os.OpenFile(flags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
			if err != nil {
				return fmt.Errorf("creating file: %w", err)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("closing file: %w", cerr)
				}
			}()
			w = f
		}

		n, err := handler.Handle(ctx, w, flags.format, criteria)
		if err != nil {
			return err
		}

		if flags.output != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d strings to %s\n", n, flags.output)
		}
		return nil
	})
}

