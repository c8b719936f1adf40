package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <value>",
		Short: "Delete a stored string",
		Long:  "Deletes the record for a string. Asks for confirmation unless --force is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runDelete(cmd *cobra.Command, value string, force bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(func(d *Deps) error {
		rec, err := d.StringsHandler.Get(ctx, value)
		if err != nil {
			return err
		}

		if !force && !confirmAction(cmd.InOrStdin(), out, fmt.Sprintf("Delete %q (%s)?", rec.Value, shortID(rec.Digest))) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}

		if err := d.StringsHandler.Delete(ctx, value); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted string: %s\n", rec.Digest)
		return nil
	})
}

func confirmAction(in io.Reader, out io.Writer, prompt string) bool {
	reader := bufio.NewReader(in)
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	response, _ := reader.ReadString('\n') // Error ignored: EOF/error treated as "no"
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
