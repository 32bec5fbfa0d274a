package workflow

import (
	"github.com/JaimeStill/oagrade/internal/acquire"
	"github.com/JaimeStill/oagrade/internal/history"
)

// State is the orchestrator's single active state.
type State int

const (
	Idle State = iota
	AcquiringImage
	ImageReady
	Classifying
	Success
	Error
	SavingArtifact
	ArtifactSaved
)

var stateNames = [...]string{
	Idle:           "idle",
	AcquiringImage: "acquiring_image",
	ImageReady:     "image_ready",
	Classifying:    "classifying",
	Success:        "success",
	Error:          "error",
	SavingArtifact: "saving_artifact",
	ArtifactSaved:  "artifact_saved",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Busy reports whether an operation is in flight. Interactions must be
// disabled while it holds.
func (s State) Busy() bool {
	switch s {
	case AcquiringImage, Classifying, SavingArtifact:
		return true
	default:
		return false
	}
}

// Snapshot is an immutable view of the orchestrator. Every flag is derived
// from State, never stored alongside it.
type Snapshot struct {
	State         State
	Image         *acquire.Image
	Record        *history.Record
	Heatmap       []byte
	Err           error
	Message       string
	Warning       string
	SavedLocation string
}

// IsBusy reports whether interactions are disabled.
func (s Snapshot) IsBusy() bool {
	return s.State.Busy()
}

// HasResult reports whether a classification result is available.
func (s Snapshot) HasResult() bool {
	return s.Record != nil
}
