package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/lexis/internal/application/handlers"
	"github.com/ersonp/lexis/internal/domain/services"
)

type importFlags struct {
	format     string
	dryRun     bool
	onConflict string
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import strings from JSON, CSV or text",
		Long: `Analyzes and stores every string in a file, or stdin when the file is "-".
Files without a .json or .csv extension are read one string per line.
Strings already stored are skipped unless --on-conflict=fail.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (json, csv, txt, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", string(services.ConflictSkip), "Conflict handling (skip, fail)")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	strategy := services.ConflictStrategy(flags.onConflict)
	if strategy != services.ConflictSkip && strategy != services.ConflictFail {
		return fmt.Errorf("invalid --on-conflict value %q (valid: skip, fail)", flags.onConflict)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withImportHandler(func(handler *handlers.ImportHandler) error {
		opts := handlers.ImportOptions{
			Format:     flags.format,
			DryRun:     flags.dryRun,
			OnConflict: strategy,
		}

		result, err := handler.Handle(ctx, filePath, cmd.InOrStdin(), opts)
		if err != nil {
			return fmt.Errorf("importing file: %w", err)
		}

		fmt.Fprintf(out, "Read %d strings from %s (%s)\n", result.Parsed, displaySource(result.Source), result.Format)

		if len(result.Errors) > 0 {
			fmt.Fprintf(out, "\nValidation errors (%d):\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  %s\n", e.Error())
			}
		}

		fmt.Fprintln(out)
		if result.DryRun {
			fmt.Fprintf(out, "Dry run: %d strings would be imported", result.Imported)
		} else {
			fmt.Fprintf(out, "Imported: %d strings", result.Imported)
		}
		if result.Skipped > 0 {
			fmt.Fprintf(out, ", %d skipped (already exist)", result.Skipped)
		}
		if len(result.Errors) > 0 {
			fmt.Fprintf(out, ", %d errors", len(result.Errors))
		}
		fmt.Fprintln(out)

		return nil
	})
}

func displaySource(source string) string {
	if source == handlers.StdinSource {
		return "stdin"
	}
	return source
}
