// Package stub implements a local stand-in for the remote knee X-ray
// inference endpoint, for development and end-to-end testing.
package stub

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/JaimeStill/oagrade/pkg/handlers"
	"github.com/JaimeStill/oagrade/pkg/lifecycle"
	"github.com/JaimeStill/oagrade/pkg/middleware"
	"github.com/JaimeStill/oagrade/pkg/routes"
)

// Handler provides the inference endpoints.
type Handler struct {
	logger    *slog.Logger
	ready     lifecycle.ReadinessChecker
	fieldName string
	maxSize   int64
}

// NewHandler creates a Handler reading uploads from the multipart field
// fieldName and rejecting bodies larger than maxSize bytes. Health reports
// ready once ready does; a nil checker is always ready.
func NewHandler(logger *slog.Logger, ready lifecycle.ReadinessChecker, fieldName string, maxSize int64) *Handler {
	return &Handler{
		logger:    logger.With("handler", "predict"),
		ready:     ready,
		fieldName: fieldName,
		maxSize:   maxSize,
	}
}

// Routes returns the route group definition for the inference endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/predict", Handler: h.Predict},
			{Method: "GET", Pattern: "/healthz", Handler: h.Health},
		},
	}
}

// Router registers the handler's routes on a new mux wrapped with request
// logging.
func Router(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())

	return middleware.New(middleware.Logger(logger)).Apply(mux)
}

// Predict classifies the uploaded image.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)

	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrMissingFile, err))
		return
	}

	file, header, err := r.FormFile(h.fieldName)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: field %q", ErrMissingFile, h.fieldName))
		return
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnsupportedMediaType, fmt.Errorf("%w: %w", ErrUnsupportedImage, err))
		return
	}

	pred, err := Predict(img)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	h.logger.Info(
		"prediction",
		"filename", header.Filename,
		"format", format,
		"class", pred.Class,
		"confidence", pred.Confidence,
	)
	handlers.RespondJSON(w, http.StatusOK, pred)
}

// Health reports readiness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil && !h.ready.Ready() {
		handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
