package workflow_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"sync"
	"testing"

	"github.com/JaimeStill/oagrade/internal/acquire"
	"github.com/JaimeStill/oagrade/internal/classifier"
	"github.com/JaimeStill/oagrade/internal/composite"
	"github.com/JaimeStill/oagrade/internal/history"
	"github.com/JaimeStill/oagrade/internal/workflow"
	"github.com/JaimeStill/oagrade/pkg/lifecycle"
)

func pngBytes(t testing.TB, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testImage(t testing.TB) *acquire.Image {
	t.Helper()
	img, err := acquire.Validate("/images/knee.png", pngBytes(t, 16, 12, color.Gray{Y: 128}))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return img
}

func kl4Result(t testing.TB) *classifier.Result {
	return &classifier.Result{
		Label:            "KL-4",
		Grade:            4,
		Confidence:       0.92,
		Heatmap:          pngBytes(t, 8, 8, color.RGBA{R: 255, A: 255}),
		GradeConfidences: classifier.Distribution(4, 0.92),
	}
}

type fakeSource struct {
	img *acquire.Image
	err error
}

func (s *fakeSource) CaptureImage(ctx context.Context) (*acquire.Image, error) {
	return s.img, s.err
}

func (s *fakeSource) SelectImage(ctx context.Context) (*acquire.Image, error) {
	return s.img, s.err
}

type classifyFunc func(ctx context.Context, image []byte, filename string) (*classifier.Result, error)

func (f classifyFunc) Classify(ctx context.Context, image []byte, filename string) (*classifier.Result, error) {
	return f(ctx, image, filename)
}

func returning(result *classifier.Result, err error) classifyFunc {
	return func(context.Context, []byte, string) (*classifier.Result, error) {
		return result, err
	}
}

type fakeHistory struct {
	mu      sync.Mutex
	records map[string]history.Record
	err     error
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{records: make(map[string]history.Record)}
}

func (h *fakeHistory) List(ctx context.Context) ([]history.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]history.Record, 0, len(h.records))
	for _, r := range h.records {
		out = append(out, r)
	}
	return out, nil
}

func (h *fakeHistory) Upsert(ctx context.Context, rec history.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.records[rec.ID] = rec
	return nil
}

func (h *fakeHistory) Find(ctx context.Context, id string) (history.Record, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.records[id]
	return r, ok, nil
}

func (h *fakeHistory) Delete(ctx context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.records[id]; !ok {
		return history.ErrNotFound
	}
	delete(h.records, id)
	return nil
}

func (h *fakeHistory) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

type fakeGallery struct {
	mu    sync.Mutex
	saved map[string][]byte
	err   error
}

func newFakeGallery() *fakeGallery {
	return &fakeGallery{saved: make(map[string][]byte)}
}

func (g *fakeGallery) Start(lc *lifecycle.Coordinator) error { return nil }

func (g *fakeGallery) Save(ctx context.Context, key string, data []byte) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.saved[key] = data
	return "/gallery/" + key, nil
}

func (g *fakeGallery) setErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

type recorder struct {
	mu     sync.Mutex
	states []workflow.State
}

func (r *recorder) observe(s workflow.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s.State)
}

func (r *recorder) seen() []workflow.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]workflow.State(nil), r.states...)
}

type harness struct {
	source  *fakeSource
	history *fakeHistory
	gallery *fakeGallery
	rec     *recorder
	rt      *workflow.Runtime
	o       *workflow.Orchestrator
}

func newHarness(t testing.TB, c classifier.System) *harness {
	t.Helper()

	cfg := &composite.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("composite config: %v", err)
	}

	h := &harness{
		source:  &fakeSource{img: testImage(t)},
		history: newFakeHistory(),
		gallery: newFakeGallery(),
		rec:     &recorder{},
	}
	h.rt = &workflow.Runtime{
		Source:     h.source,
		Classifier: c,
		History:    h.history,
		Composite:  composite.New(cfg, slog.Default()),
		Gallery:    h.gallery,
		Logger:     slog.Default(),
	}
	h.o = workflow.New(h.rt, h.rec.observe)
	return h
}

// toSuccess drives the harness from Idle to Success.
func (h *harness) toSuccess(t testing.TB) workflow.Snapshot {
	t.Helper()
	if _, err := h.o.SelectImage(context.Background()); err != nil {
		t.Fatalf("SelectImage() error = %v", err)
	}
	snap, err := h.o.Classify(context.Background())
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if snap.State != workflow.Success {
		t.Fatalf("state = %s, want success (message %q)", snap.State, snap.Message)
	}
	return snap
}
