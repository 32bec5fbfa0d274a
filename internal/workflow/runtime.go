package workflow

import (
	"log/slog"
	"time"

	"github.com/JaimeStill/oagrade/internal/acquire"
	"github.com/JaimeStill/oagrade/internal/classifier"
	"github.com/JaimeStill/oagrade/internal/composite"
	"github.com/JaimeStill/oagrade/internal/history"
	"github.com/JaimeStill/oagrade/pkg/gallery"
)

// Runtime bundles the collaborators the orchestrator sequences. It is
// constructed by higher-level composition code from Infrastructure systems.
// History and Gallery may be nil: a nil History skips persistence and a nil
// Gallery makes SaveArtifact unavailable. AssetsDir, when set, receives the
// decoded heatmap of every classification.
type Runtime struct {
	Source     acquire.Source
	Classifier classifier.System
	History    history.System
	Composite  composite.System
	Gallery    gallery.System
	AssetsDir  string
	Now        func() time.Time
	Logger     *slog.Logger
}
