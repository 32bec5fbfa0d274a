// Package workflow sequences image acquisition, remote classification,
// history persistence, and artifact saving as a single-instance state
// machine.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/oagrade/internal/acquire"
	"github.com/JaimeStill/oagrade/internal/classifier"
	"github.com/JaimeStill/oagrade/internal/composite"
	"github.com/JaimeStill/oagrade/internal/history"
)

// Orchestrator drives one workflow instance. Requests made while an
// operation is in flight are rejected with ErrBusy, never queued. The mutex
// guards state only and is never held while a collaborator runs, and
// in-flight operations cannot be cancelled: each collaborator receives a
// context detached from the caller's cancellation.
type Orchestrator struct {
	rt       *Runtime
	logger   *slog.Logger
	clock    *sessionClock
	onChange func(Snapshot)

	mu      sync.Mutex
	gen     uint64
	state   State
	resume  State
	image   *acquire.Image
	record  *history.Record
	heatmap []byte
	err     error
	message string
	warning string
	saved   string
}

// New creates an orchestrator in Idle. onChange, when non-nil, receives a
// snapshot after every transition, on the goroutine that caused it.
func New(rt *Runtime, onChange func(Snapshot)) *Orchestrator {
	now := rt.Now
	if now == nil {
		now = time.Now
	}

	logger := rt.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		rt:       rt,
		logger:   logger.With("system", "workflow"),
		clock:    &sessionClock{now: now},
		onChange: onChange,
	}
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot()
}

// IsBusy reports whether interactions are disabled.
func (o *Orchestrator) IsBusy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Busy()
}

// CaptureImage acquires an image from the capture device.
func (o *Orchestrator) CaptureImage(ctx context.Context) (Snapshot, error) {
	if o.rt.Source == nil {
		return o.Snapshot(), fmt.Errorf("%w: image source", ErrNoCollaborator)
	}
	return o.acquire(ctx, "capture", o.rt.Source.CaptureImage)
}

// SelectImage acquires an image chosen by the user.
func (o *Orchestrator) SelectImage(ctx context.Context) (Snapshot, error) {
	if o.rt.Source == nil {
		return o.Snapshot(), fmt.Errorf("%w: image source", ErrNoCollaborator)
	}
	return o.acquire(ctx, "select", o.rt.Source.SelectImage)
}

func (o *Orchestrator) acquire(
	ctx context.Context,
	op string,
	fn func(context.Context) (*acquire.Image, error),
) (Snapshot, error) {
	gen, _, err := o.begin(op, AcquiringImage, Idle)
	if err != nil {
		return o.Snapshot(), err
	}

	img, err := fn(context.WithoutCancel(ctx))
	if err != nil {
		o.logger.Warn("image acquisition failed", "operation", op, "error", err)
	}

	return o.complete(gen, op, func() {
		switch {
		case err != nil:
			o.fail(err, Idle)
		case img == nil:
			o.state = Idle
		default:
			o.image = img
			o.state = ImageReady
		}
	}), nil
}

// Classify submits the acquired image. A successful result is recorded in
// history before Success is reported; a recording failure becomes a warning
// on Success rather than an error.
func (o *Orchestrator) Classify(ctx context.Context) (Snapshot, error) {
	if o.rt.Classifier == nil {
		return o.Snapshot(), fmt.Errorf("%w: classifier", ErrNoCollaborator)
	}

	gen, snap, err := o.begin("classify", Classifying, ImageReady)
	if err != nil {
		return o.Snapshot(), err
	}

	ctx = context.WithoutCancel(ctx)
	img := snap.Image

	result, err := o.rt.Classifier.Classify(ctx, img.Data, filepath.Base(img.Ref))
	if err != nil {
		o.logger.Warn("classification failed", "error", err)
		return o.complete(gen, "classify", func() {
			o.fail(err, ImageReady)
		}), nil
	}

	rec, warning := o.persist(ctx, img, result)

	return o.complete(gen, "classify", func() {
		o.record = &rec
		o.heatmap = result.Heatmap
		o.warning = warning
		o.saved = ""
		o.state = Success
	}), nil
}

// SaveArtifact renders the composite for the current result and hands it to
// the gallery. On failure the result is retained and ClearError returns to
// Success.
func (o *Orchestrator) SaveArtifact(ctx context.Context) (Snapshot, error) {
	if o.rt.Composite == nil || o.rt.Gallery == nil {
		return o.Snapshot(), fmt.Errorf("%w: composite and gallery", ErrNoCollaborator)
	}

	gen, snap, err := o.begin("save", SavingArtifact, Success)
	if err != nil {
		return o.Snapshot(), err
	}

	location, err := o.saveArtifact(context.WithoutCancel(ctx), snap)
	if err != nil {
		o.logger.Warn("artifact save failed", "error", err)
		return o.complete(gen, "save", func() {
			o.fail(err, Success)
		}), nil
	}

	return o.complete(gen, "save", func() {
		o.saved = location
		o.state = ArtifactSaved
	}), nil
}

// ClearError leaves Error for the context the failed operation started
// from: Success after a failed save, ImageReady after a failed
// classification, otherwise Idle.
func (o *Orchestrator) ClearError() (Snapshot, error) {
	o.mu.Lock()
	if o.state != Error {
		state := o.state
		o.mu.Unlock()
		return o.Snapshot(), fmt.Errorf("%w: clear error from %s", ErrInvalidTransition, state)
	}

	from := o.state
	to := o.resume
	switch {
	case to == Success && o.record == nil:
		to = Idle
	case to == ImageReady && o.image == nil:
		to = Idle
	}
	if to == Idle {
		o.clearContext()
	}

	o.err = nil
	o.message = ""
	o.state = to
	snap := o.snapshot()
	o.mu.Unlock()

	o.notify(from, snap)
	return snap, nil
}

// Reset returns to Idle from any state, discarding the image, result, error,
// and saved location. An operation still in flight completes against its
// collaborator but its outcome is dropped.
func (o *Orchestrator) Reset() Snapshot {
	o.mu.Lock()
	from := o.state
	o.gen++
	o.clearContext()
	o.err = nil
	o.message = ""
	o.state = Idle
	snap := o.snapshot()
	o.mu.Unlock()

	o.notify(from, snap)
	return snap
}

// LoadRecord reopens a stored record in Success so its artifact can be saved
// again without reclassifying. It is only accepted from Idle, and failures
// leave the state unchanged.
func (o *Orchestrator) LoadRecord(ctx context.Context, rec history.Record) (Snapshot, error) {
	o.mu.Lock()
	if err := o.acceptLocked("load", Idle); err != nil {
		o.mu.Unlock()
		return o.Snapshot(), err
	}
	gen := o.gen
	o.mu.Unlock()

	img, heatmap, err := loadRecordAssets(ctx, rec)
	if err != nil {
		return o.Snapshot(), err
	}

	o.mu.Lock()
	if gen != o.gen || o.state != Idle {
		o.mu.Unlock()
		return o.Snapshot(), fmt.Errorf("%w: state changed while loading %s", ErrBusy, rec.ID)
	}

	loaded := rec
	loaded.GradeConfidences = maps.Clone(rec.GradeConfidences)
	o.image = img
	o.record = &loaded
	o.heatmap = heatmap
	o.warning = ""
	o.saved = ""
	o.state = Success
	snap := o.snapshot()
	o.mu.Unlock()

	o.notify(Idle, snap)
	return snap, nil
}

func loadRecordAssets(ctx context.Context, rec history.Record) (*acquire.Image, []byte, error) {
	if err := rec.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrIncompleteRecord, err)
	}
	if rec.SourceImageRef == "" || rec.HeatmapImageRef == "" {
		return nil, nil, fmt.Errorf("%w: %s is missing image references", ErrIncompleteRecord, rec.ID)
	}

	src := &acquire.FileSource{SelectPath: rec.SourceImageRef}
	img, err := src.SelectImage(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrIncompleteRecord, err)
	}

	heatmap, err := os.ReadFile(rec.HeatmapImageRef)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: heatmap: %w", ErrIncompleteRecord, err)
	}

	return img, heatmap, nil
}

// persist builds the record and stores it with its heatmap asset. Failures
// are logged and reported as a warning message.
func (o *Orchestrator) persist(ctx context.Context, img *acquire.Image, result *classifier.Result) (history.Record, string) {
	id := uuid.NewString()
	rec := history.NewRecord(id, img.Ref, result.Grade, "", o.clock.Next(), result.GradeConfidences)

	var warning string
	if o.rt.AssetsDir != "" {
		ref, err := writeAsset(o.rt.AssetsDir, id, result.Heatmap)
		if err != nil {
			o.logger.Warn("heatmap asset not stored", "id", id, "error", err)
			warning = MsgHeatmapUnsaved
		}
		rec.HeatmapImageRef = ref
	}

	if o.rt.History == nil {
		return rec, warning
	}

	if err := o.rt.History.Upsert(ctx, rec); err != nil {
		o.logger.Warn("classification not recorded in history", "id", id, "error", err)
		if rec.HeatmapImageRef != "" {
			os.Remove(rec.HeatmapImageRef)
			rec.HeatmapImageRef = ""
		}
		return rec, Message(err)
	}

	return rec, warning
}

func (o *Orchestrator) saveArtifact(ctx context.Context, snap Snapshot) (string, error) {
	rec := snap.Record
	data, err := o.rt.Composite.Generate(ctx, snap.Image.Data, snap.Heatmap, composite.Annotation{
		Grade:      rec.PredictedGrade,
		Confidence: rec.PredictedConfidence,
		CreatedAt:  rec.CreatedAt,
	})
	if err != nil {
		return "", err
	}

	return o.rt.Gallery.Save(ctx, composite.Filename(o.clock.now()), data)
}

// begin enters the busy state before the caller invokes any collaborator,
// so IsBusy holds from the instant the request is accepted.
func (o *Orchestrator) begin(op string, busy State, from ...State) (uint64, Snapshot, error) {
	o.mu.Lock()
	if err := o.acceptLocked(op, from...); err != nil {
		o.mu.Unlock()
		return 0, Snapshot{}, err
	}

	prev := o.state
	o.state = busy
	gen := o.gen
	snap := o.snapshot()
	o.mu.Unlock()

	o.notify(prev, snap)
	return gen, snap, nil
}

// complete applies fn unless a Reset superseded the operation.
func (o *Orchestrator) complete(gen uint64, op string, fn func()) Snapshot {
	o.mu.Lock()
	if gen != o.gen {
		snap := o.snapshot()
		o.mu.Unlock()
		o.logger.Info("discarding superseded result", "operation", op)
		return snap
	}

	prev := o.state
	fn()
	snap := o.snapshot()
	o.mu.Unlock()

	o.notify(prev, snap)
	return snap
}

func (o *Orchestrator) acceptLocked(op string, from ...State) error {
	if o.state.Busy() {
		return fmt.Errorf("%w: %s requested during %s", ErrBusy, op, o.state)
	}
	if !slices.Contains(from, o.state) {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, op, o.state)
	}
	return nil
}

func (o *Orchestrator) fail(err error, resume State) {
	o.err = err
	o.message = Message(err)
	o.resume = resume
	o.state = Error
}

func (o *Orchestrator) clearContext() {
	o.image = nil
	o.record = nil
	o.heatmap = nil
	o.warning = ""
	o.saved = ""
	o.resume = Idle
}

func (o *Orchestrator) snapshot() Snapshot {
	s := Snapshot{
		State:         o.state,
		Image:         o.image,
		Heatmap:       o.heatmap,
		Err:           o.err,
		Message:       o.message,
		Warning:       o.warning,
		SavedLocation: o.saved,
	}
	if o.record != nil {
		rec := *o.record
		rec.GradeConfidences = maps.Clone(o.record.GradeConfidences)
		s.Record = &rec
	}
	return s
}

func (o *Orchestrator) notify(from State, snap Snapshot) {
	if from != snap.State {
		o.logger.Info("state changed", "from", from, "to", snap.State)
	}
	if o.onChange != nil {
		o.onChange(snap)
	}
}
