package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/JaimeStill/oagrade/internal/history"
	"github.com/JaimeStill/oagrade/internal/workflow"
	"github.com/JaimeStill/oagrade/pkg/formatting"
)

type ui struct {
	title func(a ...any) string
	ok    func(a ...any) string
	info  func(a ...any) string
	warn  func(a ...any) string
	err   func(a ...any) string
	dim   func(a ...any) string
}

func newUI() *ui {
	return &ui{
		title: color.New(color.FgHiCyan, color.Bold).SprintFunc(),
		ok:    color.New(color.FgGreen, color.Bold).SprintFunc(),
		info:  color.New(color.FgCyan).SprintFunc(),
		warn:  color.New(color.FgYellow).SprintFunc(),
		err:   color.New(color.FgRed, color.Bold).SprintFunc(),
		dim:   color.New(color.FgHiBlack).SprintFunc(),
	}
}

var severities = [...]string{"none", "doubtful", "minimal", "moderate", "severe"}

func severity(grade int) string {
	if !history.ValidGrade(grade) {
		return "unknown"
	}
	return severities[grade]
}

// printRecord renders one classification record.
func (u *ui) printRecord(w io.Writer, rec history.Record) {
	fmt.Fprintf(w, "%s %d (%s)\n", u.title("KL Grade:   "), rec.PredictedGrade, severity(rec.PredictedGrade))
	fmt.Fprintf(w, "%s %s\n", u.title("Confidence: "), formatting.FormatPercent(rec.PredictedConfidence, 1))
	fmt.Fprintf(w, "%s %s\n", u.info("Record:     "), rec.ID)
	fmt.Fprintf(w, "%s %s\n", u.info("Created:    "), rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "%s %s\n", u.info("Source:     "), rec.SourceImageRef)
	if rec.HeatmapImageRef != "" {
		fmt.Fprintf(w, "%s %s\n", u.info("Heatmap:    "), rec.HeatmapImageRef)
	}

	parts := make([]string, 0, len(history.Grades))
	for _, g := range history.Grades {
		parts = append(parts, fmt.Sprintf("%d=%s", g, formatting.FormatPercent(rec.GradeConfidences.Get(g), 1)))
	}
	fmt.Fprintf(w, "%s %s\n", u.dim("Grades:     "), u.dim(strings.Join(parts, "  ")))
}

// printOutcome renders the terminal snapshot of a workflow run.
func (u *ui) printOutcome(w io.Writer, snap workflow.Snapshot) {
	if snap.HasResult() {
		u.printRecord(w, *snap.Record)
	}
	if snap.SavedLocation != "" {
		fmt.Fprintf(w, "%s Composite saved to %s\n", u.ok("[OK]"), snap.SavedLocation)
	}
	if snap.Warning != "" {
		fmt.Fprintf(w, "%s %s\n", u.warn("[WARN]"), snap.Warning)
	}
}

// report is the JSON shape of a workflow outcome.
type report struct {
	Record        *history.Record `json:"record,omitempty"`
	State         string          `json:"state"`
	Warning       string          `json:"warning,omitempty"`
	Message       string          `json:"message,omitempty"`
	SavedLocation string          `json:"saved_location,omitempty"`
}

func newReport(snap workflow.Snapshot) report {
	return report{
		Record:        snap.Record,
		State:         snap.State.String(),
		Warning:       snap.Warning,
		Message:       snap.Message,
		SavedLocation: snap.SavedLocation,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// progress drives a spinner from workflow transitions. The spinner runs
// only while the orchestrator is busy and only when w is a terminal.
type progress struct {
	mu      sync.Mutex
	spin    *spinner.Spinner
	enabled bool
}

func newProgress(w io.Writer) *progress {
	f, ok := w.(*os.File)
	return &progress{
		spin:    spinner.New(spinner.CharSets[14], 120*time.Millisecond, spinner.WithWriter(w)),
		enabled: ok && isatty.IsTerminal(f.Fd()),
	}
}

func (p *progress) OnChange(snap workflow.Snapshot) {
	if !p.enabled {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.spin.Stop()
	if snap.IsBusy() {
		p.spin.Suffix = " " + busyLabel(snap.State)
		p.spin.Start()
	}
}

func (p *progress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.spin.Stop()
}

func busyLabel(s workflow.State) string {
	switch s {
	case workflow.AcquiringImage:
		return "Acquiring image..."
	case workflow.Classifying:
		return "Classifying..."
	case workflow.SavingArtifact:
		return "Saving composite..."
	default:
		return s.String()
	}
}
