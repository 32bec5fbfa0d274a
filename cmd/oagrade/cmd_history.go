package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/oagrade/internal/workflow"
	"github.com/JaimeStill/oagrade/pkg/formatting"
)

// newHistoryCmd creates the "oagrade history" command group.
func newHistoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and manage stored classifications",
	}

	cmd.AddCommand(
		newHistoryListCmd(opts),
		newHistoryShowCmd(opts),
		newHistoryDeleteCmd(opts),
		newHistorySaveCmd(opts),
	)

	return cmd
}

func newHistoryListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List classifications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return fmt.Errorf("history list: %w", err)
			}
			defer s.Close()

			records, err := s.domain.History.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("history list: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, records)
			}

			if len(records) == 0 {
				fmt.Fprintln(out, newUI().dim("No classifications yet."))
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tGRADE\tCONFIDENCE\tSOURCE")
			for _, rec := range records {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					rec.ID,
					rec.CreatedAt.Local().Format("2006-01-02 15:04"),
					rec.PredictedGrade,
					formatting.FormatPercent(rec.PredictedConfidence, 1),
					rec.SourceImageRef,
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func newHistoryShowCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one classification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return fmt.Errorf("history show: %w", err)
			}
			defer s.Close()

			rec, ok, err := s.domain.History.Find(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("history show: %w", err)
			}
			if !ok {
				return fmt.Errorf("history show: id %s not found", args[0])
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			newUI().printRecord(cmd.OutOrStdout(), rec)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the record as JSON")
	return cmd
}

func newHistoryDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id> [id...]",
		Short: "Delete classifications and their heatmap assets",
		Long:  "Remove records from history by id. Each id is checked first,\nso a missing record is reported instead of silently ignored.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return fmt.Errorf("history delete: %w", err)
			}
			defer s.Close()

			u := newUI()
			ctx := cmd.Context()
			for _, id := range args {
				rec, ok, err := s.domain.History.Find(ctx, id)
				if err != nil {
					return fmt.Errorf("history delete: %w", err)
				}
				if !ok {
					return fmt.Errorf("history delete: id %s not found", id)
				}

				if err := s.domain.History.Delete(ctx, id); err != nil {
					return fmt.Errorf("history delete: %w", err)
				}
				if err := workflow.RemoveAsset(s.cfg.History.AssetsDir, rec); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", u.warn("[WARN]"), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %s\n", u.ok("[OK]"), id)
			}
			return nil
		},
	}
}

func newHistorySaveCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "save <id>",
		Short: "Save the annotated composite of a stored classification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return fmt.Errorf("history save: %w", err)
			}
			defer s.Close()

			ctx := cmd.Context()
			rec, ok, err := s.domain.History.Find(ctx, args[0])
			if err != nil {
				return fmt.Errorf("history save: %w", err)
			}
			if !ok {
				return fmt.Errorf("history save: id %s not found", args[0])
			}

			prog := newProgress(cmd.ErrOrStderr())
			defer prog.Stop()

			wf := s.domain.Workflow(nil, prog.OnChange)
			if _, err := wf.LoadRecord(ctx, rec); err != nil {
				return fmt.Errorf("history save: %w", err)
			}

			snap, err := wf.SaveArtifact(ctx)
			if err != nil {
				return fmt.Errorf("history save: %w", err)
			}
			prog.Stop()
			return finish(cmd.OutOrStdout(), newUI(), snap, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")
	return cmd
}
