package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/oagrade/internal/acquire"
	"github.com/JaimeStill/oagrade/internal/workflow"
)

// newClassifyCmd creates the "oagrade classify" subcommand.
func newClassifyCmd(opts *rootOptions) *cobra.Command {
	var (
		camera string
		save   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "classify [image]",
		Short: "Grade a knee X-ray",
		Long: "Select an image file, or capture the newest exposure from a device directory\n" +
			"with --camera, send it for grading, and record the result in history.\n" +
			"With --save, an annotated composite is written to the gallery.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && camera == "" {
				return errors.New("classify: an image path or --camera directory is required")
			}
			if len(args) == 1 && camera != "" {
				return errors.New("classify: use either an image path or --camera, not both")
			}

			s, err := openSession(opts)
			if err != nil {
				return fmt.Errorf("classify: %w", err)
			}
			defer s.Close()

			u := newUI()
			out := cmd.OutOrStdout()
			prog := newProgress(cmd.ErrOrStderr())
			defer prog.Stop()

			source := &acquire.FileSource{
				CaptureDir: camera,
				MaxSize:    s.cfg.Classifier.MaxImageSizeBytes(),
				Logger:     s.infra.Logger,
			}
			if len(args) == 1 {
				source.SelectPath = args[0]
			}

			wf := s.domain.Workflow(source, prog.OnChange)
			ctx := cmd.Context()

			var snap workflow.Snapshot
			if camera != "" {
				snap, err = wf.CaptureImage(ctx)
			} else {
				snap, err = wf.SelectImage(ctx)
			}
			if err != nil {
				return fmt.Errorf("classify: %w", err)
			}

			switch snap.State {
			case workflow.Idle:
				fmt.Fprintln(out, u.warn("No image selected."))
				return nil
			case workflow.Error:
				return finish(out, u, snap, asJSON)
			}

			if snap, err = wf.Classify(ctx); err != nil {
				return fmt.Errorf("classify: %w", err)
			}
			if snap.State == workflow.Error || !save {
				return finish(out, u, snap, asJSON)
			}

			if snap, err = wf.SaveArtifact(ctx); err != nil {
				return fmt.Errorf("classify: %w", err)
			}
			prog.Stop()
			return finish(out, u, snap, asJSON)
		},
	}

	cmd.Flags().StringVar(&camera, "camera", "", "capture the newest image from this device directory")
	cmd.Flags().BoolVar(&save, "save", false, "save an annotated composite to the gallery")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")

	return cmd
}

// finish renders the final snapshot and converts an Error state into the
// command's error, carrying the user-facing message.
func finish(w io.Writer, u *ui, snap workflow.Snapshot, asJSON bool) error {
	if asJSON {
		if err := writeJSON(w, newReport(snap)); err != nil {
			return err
		}
	} else {
		u.printOutcome(w, snap)
	}

	if snap.State == workflow.Error {
		return errors.New(snap.Message)
	}
	return nil
}
