package workflow

import "errors"

// Request rejections. These never change state.
var (
	ErrBusy              = errors.New("workflow busy")
	ErrInvalidTransition = errors.New("invalid workflow transition")
	ErrNoCollaborator    = errors.New("workflow collaborator not configured")
	ErrIncompleteRecord  = errors.New("history record cannot be reopened")
)
