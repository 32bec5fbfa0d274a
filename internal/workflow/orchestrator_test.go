package workflow_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/oagrade/internal/acquire"
	"github.com/JaimeStill/oagrade/internal/classifier"
	"github.com/JaimeStill/oagrade/internal/composite"
	"github.com/JaimeStill/oagrade/internal/history"
	"github.com/JaimeStill/oagrade/internal/workflow"
	"github.com/JaimeStill/oagrade/pkg/gallery"
)

func httpClassifier(t *testing.T, handler http.HandlerFunc, timeout string) classifier.System {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &classifier.Config{Endpoint: srv.URL, Timeout: timeout}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("classifier config: %v", err)
	}
	return classifier.New(cfg, nil, slog.Default())
}

func TestHappyPath(t *testing.T) {
	h := newHarness(t, returning(kl4Result(t), nil))
	ctx := context.Background()

	snap, err := h.o.SelectImage(ctx)
	if err != nil {
		t.Fatalf("SelectImage() error = %v", err)
	}
	if snap.State != workflow.ImageReady || snap.Image == nil {
		t.Fatalf("after select: state %s, image %v", snap.State, snap.Image)
	}

	snap, err = h.o.Classify(ctx)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if snap.State != workflow.Success {
		t.Fatalf("after classify: state %s", snap.State)
	}

	rec := snap.Record
	if rec == nil {
		t.Fatal("no record after success")
	}
	if rec.PredictedGrade != 4 || rec.PredictedConfidence != 0.92 {
		t.Errorf("record = grade %d conf %v, want 4 and 0.92", rec.PredictedGrade, rec.PredictedConfidence)
	}
	if !rec.GradeConfidences.Equal(history.GradeConfidences{0: 0, 1: 0, 2: 0, 3: 0, 4: 0.92}) {
		t.Errorf("GradeConfidences = %v", rec.GradeConfidences)
	}
	if rec.SourceImageRef != "/images/knee.png" {
		t.Errorf("SourceImageRef = %q", rec.SourceImageRef)
	}
	if rec.ID == "" {
		t.Error("record id not assigned")
	}
	if stored, ok, _ := h.history.Find(ctx, rec.ID); !ok || stored.PredictedGrade != 4 {
		t.Errorf("record not persisted before success: ok %v", ok)
	}

	snap, err = h.o.SaveArtifact(ctx)
	if err != nil {
		t.Fatalf("SaveArtifact() error = %v", err)
	}
	if snap.State != workflow.ArtifactSaved {
		t.Fatalf("after save: state %s (message %q)", snap.State, snap.Message)
	}
	if !strings.HasPrefix(snap.SavedLocation, "/gallery/knee_analysis_") || !strings.HasSuffix(snap.SavedLocation, ".jpg") {
		t.Errorf("SavedLocation = %q", snap.SavedLocation)
	}

	key := strings.TrimPrefix(snap.SavedLocation, "/gallery/")
	out, _, err := image.Decode(bytes.NewReader(h.gallery.saved[key]))
	if err != nil {
		t.Fatalf("saved artifact not decodable: %v", err)
	}
	if got, want := out.Bounds().Size(), image.Pt(16, 2*12+composite.BandHeight(2)); got != want {
		t.Errorf("artifact size = %v, want %v", got, want)
	}

	want := []workflow.State{
		workflow.AcquiringImage, workflow.ImageReady,
		workflow.Classifying, workflow.Success,
		workflow.SavingArtifact, workflow.ArtifactSaved,
	}
	if got := h.rec.seen(); !slices.Equal(got, want) {
		t.Errorf("transitions = %v, want %v", got, want)
	}
}

func TestClassifyKL4OverHTTP(t *testing.T) {
	heatmap := pngBytes(t, 4, 4, color.White)
	c := httpClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"class":      "KL-4",
			"confidence": 0.92,
			"gradcam":    base64.StdEncoding.EncodeToString(heatmap),
		})
	}, "5s")

	h := newHarness(t, c)
	snap := h.toSuccess(t)

	if snap.Record.PredictedGrade != 4 || snap.Record.PredictedConfidence != 0.92 {
		t.Errorf("record = %+v", snap.Record)
	}
	if !snap.Record.GradeConfidences.Equal(history.GradeConfidences{0: 0, 1: 0, 2: 0, 3: 0, 4: 0.92}) {
		t.Errorf("GradeConfidences = %v", snap.Record.GradeConfidences)
	}
	if !bytes.Equal(snap.Heatmap, heatmap) {
		t.Error("heatmap not carried into snapshot")
	}
}

func TestClassifyServerStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusServiceUnavailable, fmt.Sprintf(workflow.MsgServiceUnavailable, 503)},
		{http.StatusInternalServerError, fmt.Sprintf(workflow.MsgServiceUnavailable, 500)},
		{http.StatusBadGateway, fmt.Sprintf(workflow.MsgServiceUnavailable, 502)},
		{http.StatusBadRequest, fmt.Sprintf(workflow.MsgRequestRejected, 400)},
		{http.StatusUnprocessableEntity, fmt.Sprintf(workflow.MsgRequestRejected, 422)},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := httpClassifier(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}, "5s")

			h := newHarness(t, c)
			if _, err := h.o.SelectImage(context.Background()); err != nil {
				t.Fatalf("SelectImage() error = %v", err)
			}

			snap, err := h.o.Classify(context.Background())
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if snap.State != workflow.Error {
				t.Fatalf("state = %s, want error", snap.State)
			}
			if snap.Message != tt.want {
				t.Errorf("Message = %q, want %q", snap.Message, tt.want)
			}
			if h.history.count() != 0 {
				t.Error("failed classification was persisted")
			}
		})
	}
}

func TestClassify503MessageTemplate(t *testing.T) {
	c := httpClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}, "5s")

	h := newHarness(t, c)
	h.o.SelectImage(context.Background())
	snap, _ := h.o.Classify(context.Background())

	if snap.State != workflow.Error {
		t.Fatalf("state = %s, want error", snap.State)
	}
	msg := strings.ToLower(snap.Message)
	if !strings.Contains(msg, "unavailable") || !strings.Contains(msg, "try again later") {
		t.Errorf("Message = %q, want service-unavailable template", snap.Message)
	}
}

func TestClassifyTimeout(t *testing.T) {
	release := make(chan struct{})
	c := httpClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}, "50ms")
	defer close(release)

	h := newHarness(t, c)
	h.o.SelectImage(context.Background())

	snap, err := h.o.Classify(context.Background())
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if snap.State != workflow.Error {
		t.Fatalf("state = %s, want error", snap.State)
	}
	if snap.Message != workflow.MsgTimeout {
		t.Errorf("Message = %q, want timeout message", snap.Message)
	}
	if !errors.Is(snap.Err, classifier.ErrTimeout) {
		t.Errorf("Err = %v, want ErrTimeout", snap.Err)
	}
	if slices.Contains(h.rec.seen(), workflow.Success) {
		t.Error("timeout passed through success")
	}
}

func TestClassifyMalformed(t *testing.T) {
	c := httpClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"label":"KL-2"}`)
	}, "5s")

	h := newHarness(t, c)
	h.o.SelectImage(context.Background())
	snap, _ := h.o.Classify(context.Background())

	if snap.State != workflow.Error || snap.Message != workflow.MsgServiceError {
		t.Errorf("state %s message %q, want error with service-error message", snap.State, snap.Message)
	}
}

func TestClassifyErrorClearsToImageReady(t *testing.T) {
	h := newHarness(t, returning(nil, fmt.Errorf("%w: dial tcp: refused", classifier.ErrTransport)))
	h.o.SelectImage(context.Background())

	snap, _ := h.o.Classify(context.Background())
	if snap.State != workflow.Error || snap.Message != workflow.MsgConnection {
		t.Fatalf("state %s message %q", snap.State, snap.Message)
	}
	if snap.Image == nil {
		t.Error("image discarded on classification failure")
	}

	snap, err := h.o.ClearError()
	if err != nil {
		t.Fatalf("ClearError() error = %v", err)
	}
	if snap.State != workflow.ImageReady || snap.Image == nil || snap.Message != "" || snap.Err != nil {
		t.Errorf("after clear: %+v", snap)
	}
}

func TestPersistenceFailureIsWarning(t *testing.T) {
	h := newHarness(t, returning(kl4Result(t), nil))
	h.history.err = fmt.Errorf("%w: disk full", history.ErrWriteFailed)

	snap := h.toSuccess(t)

	if snap.Err != nil || snap.Message != "" {
		t.Errorf("persistence failure surfaced as error: %v %q", snap.Err, snap.Message)
	}
	if snap.Warning != workflow.MsgHistoryUnsaved {
		t.Errorf("Warning = %q, want %q", snap.Warning, workflow.MsgHistoryUnsaved)
	}
	if snap.Record == nil || snap.Record.PredictedGrade != 4 {
		t.Error("result not shown after persistence failure")
	}
	if slices.Contains(h.rec.seen(), workflow.Error) {
		t.Error("persistence failure passed through error state")
	}
}

func TestSaveFailureRetainsResult(t *testing.T) {
	h := newHarness(t, returning(kl4Result(t), nil))
	before := h.toSuccess(t)

	h.gallery.setErr(fmt.Errorf("%w: storage permission", gallery.ErrPermissionDenied))
	snap, err := h.o.SaveArtifact(context.Background())
	if err != nil {
		t.Fatalf("SaveArtifact() error = %v", err)
	}
	if snap.State != workflow.Error || snap.Message != workflow.MsgSavePermission {
		t.Fatalf("state %s message %q", snap.State, snap.Message)
	}
	if snap.Record == nil || snap.Record.ID != before.Record.ID {
		t.Fatal("classification result discarded on save failure")
	}

	snap, err = h.o.ClearError()
	if err != nil {
		t.Fatalf("ClearError() error = %v", err)
	}
	if snap.State != workflow.Success || snap.Record.ID != before.Record.ID {
		t.Fatalf("after clear: state %s", snap.State)
	}

	h.gallery.setErr(nil)
	snap, _ = h.o.SaveArtifact(context.Background())
	if snap.State != workflow.ArtifactSaved {
		t.Errorf("retry save: state %s (message %q)", snap.State, snap.Message)
	}
}

func TestSaveWriteFailedMessage(t *testing.T) {
	h := newHarness(t, returning(kl4Result(t), nil))
	h.toSuccess(t)

	h.gallery.setErr(fmt.Errorf("%w: no space", gallery.ErrWriteFailed))
	snap, _ := h.o.SaveArtifact(context.Background())
	if snap.Message != workflow.MsgSaveFailed {
		t.Errorf("Message = %q, want %q", snap.Message, workflow.MsgSaveFailed)
	}
}

func TestSaveCompositeDecodeFailure(t *testing.T) {
	result := kl4Result(t)
	result.Heatmap = []byte("not an image")

	h := newHarness(t, returning(result, nil))
	h.toSuccess(t)

	snap, _ := h.o.SaveArtifact(context.Background())
	if snap.State != workflow.Error || snap.Message != workflow.MsgCompositeDecode {
		t.Errorf("state %s message %q", snap.State, snap.Message)
	}
	if len(h.gallery.saved) != 0 {
		t.Error("gallery received output from a failed composite")
	}
}

func TestAcquireOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		img       *acquire.Image
		err       error
		wantState workflow.State
		wantMsg   string
	}{
		{"cancelled", nil, nil, workflow.Idle, ""},
		{"permission denied", nil, acquire.ErrPermissionDenied, workflow.Error, workflow.MsgAcquirePermission},
		{"invalid format", nil, fmt.Errorf("%w: gif", acquire.ErrInvalidFormat), workflow.Error, workflow.MsgAcquireFormat},
		{"device failure", nil, acquire.ErrDeviceFailure, workflow.Error, workflow.MsgAcquireDevice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, returning(kl4Result(t), nil))
			h.source.img = tt.img
			h.source.err = tt.err

			snap, err := h.o.CaptureImage(context.Background())
			if err != nil {
				t.Fatalf("CaptureImage() error = %v", err)
			}
			if snap.State != tt.wantState || snap.Message != tt.wantMsg {
				t.Errorf("state %s message %q, want %s %q", snap.State, snap.Message, tt.wantState, tt.wantMsg)
			}

			if tt.wantState == workflow.Error {
				snap, err = h.o.ClearError()
				if err != nil || snap.State != workflow.Idle {
					t.Errorf("ClearError() = %s, %v; want idle", snap.State, err)
				}
			}
		})
	}
}

func TestPermissionDistinctFromFormat(t *testing.T) {
	if workflow.Message(acquire.ErrPermissionDenied) == workflow.Message(acquire.ErrInvalidFormat) {
		t.Error("permission and format failures share a message")
	}
}

func TestInvalidTransitions(t *testing.T) {
	h := newHarness(t, returning(kl4Result(t), nil))
	ctx := context.Background()

	check := func(name string, fn func() (workflow.Snapshot, error), want workflow.State) {
		t.Helper()
		snap, err := fn()
		if !errors.Is(err, workflow.ErrInvalidTransition) {
			t.Errorf("%s: error = %v, want ErrInvalidTransition", name, err)
		}
		if snap.State != want {
			t.Errorf("%s: state changed to %s", name, snap.State)
		}
	}

	check("classify from idle", func() (workflow.Snapshot, error) { return h.o.Classify(ctx) }, workflow.Idle)
	check("save from idle", func() (workflow.Snapshot, error) { return h.o.SaveArtifact(ctx) }, workflow.Idle)
	check("clear from idle", h.o.ClearError, workflow.Idle)

	h.o.SelectImage(ctx)
	check("select from image ready", func() (workflow.Snapshot, error) { return h.o.SelectImage(ctx) }, workflow.ImageReady)
	check("save from image ready", func() (workflow.Snapshot, error) { return h.o.SaveArtifact(ctx) }, workflow.ImageReady)

	h.o.Classify(ctx)
	check("classify from success", func() (workflow.Snapshot, error) { return h.o.Classify(ctx) }, workflow.Success)

	h.o.SaveArtifact(ctx)
	check("save from saved", func() (workflow.Snapshot, error) { return h.o.SaveArtifact(ctx) }, workflow.ArtifactSaved)
	check("capture from saved", func() (workflow.Snapshot, error) { return h.o.CaptureImage(ctx) }, workflow.ArtifactSaved)
}

// blockingClassifier signals entry and waits for release before returning.
type blockingClassifier struct {
	entered chan context.Context
	release chan struct{}
	result  *classifier.Result
	err     error
}

func newBlockingClassifier(result *classifier.Result) *blockingClassifier {
	return &blockingClassifier{
		entered: make(chan context.Context, 1),
		release: make(chan struct{}),
		result:  result,
	}
}

func (b *blockingClassifier) Classify(ctx context.Context, _ []byte, _ string) (*classifier.Result, error) {
	b.entered <- ctx
	<-b.release
	return b.result, b.err
}

func TestBusyRejectsRequests(t *testing.T) {
	bc := newBlockingClassifier(kl4Result(t))
	h := newHarness(t, bc)
	ctx := context.Background()
	h.o.SelectImage(ctx)

	done := make(chan workflow.Snapshot)
	go func() {
		snap, _ := h.o.Classify(ctx)
		done <- snap
	}()
	<-bc.entered

	if !h.o.IsBusy() || h.o.Snapshot().State != workflow.Classifying {
		t.Fatalf("not busy while classifying: %s", h.o.Snapshot().State)
	}

	requests := map[string]func() (workflow.Snapshot, error){
		"capture":  func() (workflow.Snapshot, error) { return h.o.CaptureImage(ctx) },
		"select":   func() (workflow.Snapshot, error) { return h.o.SelectImage(ctx) },
		"classify": func() (workflow.Snapshot, error) { return h.o.Classify(ctx) },
		"save":     func() (workflow.Snapshot, error) { return h.o.SaveArtifact(ctx) },
	}
	for name, fn := range requests {
		snap, err := fn()
		if !errors.Is(err, workflow.ErrBusy) {
			t.Errorf("%s while busy: error = %v, want ErrBusy", name, err)
		}
		if snap.State != workflow.Classifying {
			t.Errorf("%s while busy changed state to %s", name, snap.State)
		}
	}

	close(bc.release)
	snap := <-done

	if snap.State != workflow.Success {
		t.Errorf("final state = %s, want success", snap.State)
	}
	if h.o.IsBusy() {
		t.Error("still busy after completion")
	}
}

func TestCancellationNotSupported(t *testing.T) {
	bc := newBlockingClassifier(kl4Result(t))
	h := newHarness(t, bc)
	h.o.SelectImage(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan workflow.Snapshot)
	go func() {
		snap, _ := h.o.Classify(ctx)
		done <- snap
	}()

	inner := <-bc.entered
	cancel()

	select {
	case <-inner.Done():
		t.Error("caller cancellation reached the in-flight request")
	case <-time.After(20 * time.Millisecond):
	}
	if !h.o.IsBusy() {
		t.Error("cancelling the caller ended the busy span")
	}

	close(bc.release)
	snap := <-done

	if snap.State != workflow.Success {
		t.Errorf("state = %s, want success despite caller cancellation", snap.State)
	}
	if inner.Err() != nil {
		t.Errorf("collaborator context error = %v, want nil", inner.Err())
	}
}

func TestResetDiscardsInFlightResult(t *testing.T) {
	bc := newBlockingClassifier(kl4Result(t))
	h := newHarness(t, bc)
	h.o.SelectImage(context.Background())

	done := make(chan workflow.Snapshot)
	go func() {
		snap, _ := h.o.Classify(context.Background())
		done <- snap
	}()
	<-bc.entered

	snap := h.o.Reset()
	if snap.State != workflow.Idle || snap.IsBusy() || snap.Image != nil {
		t.Fatalf("after reset: %+v", snap)
	}

	close(bc.release)
	<-done

	final := h.o.Snapshot()
	if final.State != workflow.Idle || final.Record != nil {
		t.Errorf("stale completion applied: state %s record %v", final.State, final.Record)
	}
}

func TestResetFromEveryState(t *testing.T) {
	h := newHarness(t, returning(kl4Result(t), nil))
	ctx := context.Background()

	steps := []func(){
		func() {},
		func() { h.o.SelectImage(ctx) },
		func() { h.o.SelectImage(ctx); h.o.Classify(ctx) },
		func() { h.o.SelectImage(ctx); h.o.Classify(ctx); h.o.SaveArtifact(ctx) },
		func() {
			h.source.err = acquire.ErrDeviceFailure
			h.o.SelectImage(ctx)
			h.source.err = nil
		},
	}

	for i, step := range steps {
		step()
		snap := h.o.Reset()
		if snap.State != workflow.Idle || snap.Image != nil || snap.Record != nil ||
			snap.Err != nil || snap.Message != "" || snap.SavedLocation != "" || snap.Warning != "" {
			t.Errorf("step %d: reset left %+v", i, snap)
		}
	}
}

func TestCreatedAtStrictlyIncreasing(t *testing.T) {
	h := newHarness(t, returning(kl4Result(t), nil))
	frozen := time.Date(2026, 3, 14, 9, 26, 53, 589_999_999, time.UTC)
	h.rt.Now = func() time.Time { return frozen }
	h.o = workflow.New(h.rt, nil)

	var prev time.Time
	for i := range 5 {
		snap := h.toSuccess(t)
		at := snap.Record.CreatedAt
		if at.Nanosecond()%int(time.Millisecond) != 0 {
			t.Errorf("createdAt %v not truncated to milliseconds", at)
		}
		if i > 0 && !at.After(prev) {
			t.Errorf("createdAt %v not after %v", at, prev)
		}
		prev = at
		h.o.Reset()
	}
}

func TestHeatmapAssetStored(t *testing.T) {
	result := kl4Result(t)
	h := newHarness(t, returning(result, nil))
	h.rt.AssetsDir = filepath.Join(t.TempDir(), "assets")

	snap := h.toSuccess(t)

	ref := snap.Record.HeatmapImageRef
	if filepath.Base(ref) != "heatmap_"+snap.Record.ID+".png" {
		t.Errorf("HeatmapImageRef = %q", ref)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		t.Fatalf("read asset: %v", err)
	}
	if !bytes.Equal(data, result.Heatmap) {
		t.Error("asset bytes differ from heatmap payload")
	}
}

func TestHeatmapAssetFailureIsWarning(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "assets")
	if err := os.WriteFile(blocker, []byte("file, not dir"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	h := newHarness(t, returning(kl4Result(t), nil))
	h.rt.AssetsDir = blocker

	snap := h.toSuccess(t)
	if snap.Warning != workflow.MsgHeatmapUnsaved {
		t.Errorf("Warning = %q, want %q", snap.Warning, workflow.MsgHeatmapUnsaved)
	}
	if h.history.count() != 1 {
		t.Error("record not persisted without heatmap asset")
	}
}

func TestLoadRecord(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "knee.png")
	heat := filepath.Join(dir, "heatmap.png")
	os.WriteFile(src, pngBytes(t, 10, 10, color.Gray{Y: 90}), 0o644)
	os.WriteFile(heat, pngBytes(t, 5, 5, color.White), 0o644)

	rec := history.NewRecord("stored-1", src, 2, heat,
		time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC),
		classifier.Distribution(2, 0.71))

	h := newHarness(t, returning(kl4Result(t), nil))

	snap, err := h.o.LoadRecord(context.Background(), rec)
	if err != nil {
		t.Fatalf("LoadRecord() error = %v", err)
	}
	if snap.State != workflow.Success || snap.Record.ID != "stored-1" {
		t.Fatalf("after load: state %s", snap.State)
	}

	snap, _ = h.o.SaveArtifact(context.Background())
	if snap.State != workflow.ArtifactSaved {
		t.Errorf("save after load: state %s (message %q)", snap.State, snap.Message)
	}

	if _, err := h.o.LoadRecord(context.Background(), rec); !errors.Is(err, workflow.ErrInvalidTransition) {
		t.Errorf("LoadRecord() outside idle = %v, want ErrInvalidTransition", err)
	}
}

func TestLoadRecordMissingAssets(t *testing.T) {
	rec := history.NewRecord("gone", "/nonexistent/knee.png", 1, "/nonexistent/heat.png",
		time.Now(), classifier.Distribution(1, 0.5))

	h := newHarness(t, returning(kl4Result(t), nil))
	snap, err := h.o.LoadRecord(context.Background(), rec)
	if !errors.Is(err, workflow.ErrIncompleteRecord) {
		t.Errorf("LoadRecord() = %v, want ErrIncompleteRecord", err)
	}
	if snap.State != workflow.Idle {
		t.Errorf("state = %s, want idle", snap.State)
	}
}

func TestMissingCollaborators(t *testing.T) {
	o := workflow.New(&workflow.Runtime{}, nil)
	ctx := context.Background()

	if _, err := o.CaptureImage(ctx); !errors.Is(err, workflow.ErrNoCollaborator) {
		t.Errorf("CaptureImage() = %v", err)
	}
	if _, err := o.Classify(ctx); !errors.Is(err, workflow.ErrNoCollaborator) {
		t.Errorf("Classify() = %v", err)
	}
	if _, err := o.SaveArtifact(ctx); !errors.Is(err, workflow.ErrNoCollaborator) {
		t.Errorf("SaveArtifact() = %v", err)
	}
}
