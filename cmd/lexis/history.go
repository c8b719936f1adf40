package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/lexis/internal/domain/entities"
)

type historyFlags struct {
	action string
	limit  int
}

func newHistoryCmd() *cobra.Command {
	var flags historyFlags

	cmd := &cobra.Command{
		Use:   "history [value]",
		Short: "Show the audit trail of a string",
		Long: `Lists create, conflict and delete events recorded for a string, newest first.
Without a value, --action lists the latest events of that kind across all strings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.action, "action", "a", "", "Only events of this action (create, conflict, delete)")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultHistoryLimit, "Maximum number of events")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string, flags historyFlags) error {
	if len(args) == 0 && flags.action == "" {
		return errors.New("specify a value or --action")
	}
	if flags.action != "" && !entities.IsAuditAction(flags.action) {
		return fmt.Errorf("invalid --action %q (valid: create, conflict, delete)", flags.action)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(func(d *Deps) error {
		var (
			entries []entities.AuditEntry
			err     error
		)
		if len(args) == 0 {
			entries, err = d.StringsHandler.Activity(ctx, flags.action, flags.limit)
		} else {
			entries, err = d.StringsHandler.History(ctx, args[0])
			entries = filterEntries(entries, flags.action, flags.limit)
		}
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, "No history found.")
			return nil
		}

		return displayEntries(out, entries, len(args) == 0)
	})
}

// filterEntries keeps entries matching action (all when empty), up to limit.
func filterEntries(entries []entities.AuditEntry, action string, limit int) []entities.AuditEntry {
	result := make([]entities.AuditEntry, 0, len(entries))
	for _, e := range entries {
		if limit > 0 && len(result) == limit {
			break
		}
		if action == "" || e.Action == action {
			result = append(result, e)
		}
	}
	return result
}

func displayEntries(w io.Writer, entries []entities.AuditEntry, withDigest bool) error {
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-8s", e.CreatedAt.UTC().Format(time.RFC3339), e.Action)
		if withDigest {
			line += "  " + shortID(e.Digest)
		}
		if len(e.Details) > 0 {
			details, err := json.Marshal(e.Details)
			if err != nil {
				return fmt.Errorf("encoding details: %w", err)
			}
			line += "  " + string(details)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
