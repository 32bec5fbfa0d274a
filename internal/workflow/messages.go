package workflow

import (
	"errors"
	"fmt"

	"github.com/JaimeStill/oagrade/internal/acquire"
	"github.com/JaimeStill/oagrade/internal/classifier"
	"github.com/JaimeStill/oagrade/internal/composite"
	"github.com/JaimeStill/oagrade/internal/history"
	"github.com/JaimeStill/oagrade/pkg/gallery"
)

// User-facing message templates. The mapping from error class to template
// is stable; the wording may change.
const (
	MsgAcquirePermission = "Permission to access images was denied. Allow access in settings and try again."
	MsgAcquireFormat     = "The selected file is not a supported image. Choose a JPEG or PNG X-ray."
	MsgAcquireDevice     = "The image could not be read from the device. Please try again."

	MsgTimeout            = "The classification service did not respond in time. Check your connection and retry."
	MsgConnection         = "Could not reach the classification service. Check your connection and retry."
	MsgRequestRejected    = "The classification service rejected the request (HTTP %d). Please contact support if this continues."
	MsgServiceUnavailable = "The classification service is unavailable (HTTP %d). Please try again later."
	MsgServiceError       = "The classification service returned an unexpected response. Please try again or contact support."
	MsgImageTooLarge      = "The image is too large to upload. Choose a smaller image."
	MsgImageEmpty         = "The image is empty. Choose another image."

	MsgCompositeDecode = "The images could not be combined for saving."
	MsgCompositeEncode = "The result image could not be generated."
	MsgSavePermission  = "Permission to save to the gallery was denied. Allow access in settings and try again."
	MsgSaveFailed      = "The result could not be saved to the gallery. Please try again."

	MsgHistoryUnsaved = "The result is shown but could not be recorded in history."
	MsgHeatmapUnsaved = "The heatmap could not be stored with the history entry."
	MsgHistoryFailed  = "The classification history is unavailable."

	MsgUnknown = "Something went wrong. Please try again."
)

// Message maps an error to its user-facing message. Timeouts, other
// transport failures, 4xx replies, other non-2xx replies, and malformed
// replies each map to a distinct template.
func Message(err error) string {
	var serverErr *classifier.ServerError

	switch {
	case err == nil:
		return ""

	case errors.Is(err, acquire.ErrPermissionDenied):
		return MsgAcquirePermission
	case errors.Is(err, acquire.ErrInvalidFormat):
		return MsgAcquireFormat
	case errors.Is(err, acquire.ErrDeviceFailure):
		return MsgAcquireDevice

	case errors.Is(err, classifier.ErrTimeout):
		return MsgTimeout
	case errors.Is(err, classifier.ErrTransport):
		return MsgConnection
	case errors.As(err, &serverErr):
		if serverErr.ClientError() {
			return fmt.Sprintf(MsgRequestRejected, serverErr.StatusCode)
		}
		return fmt.Sprintf(MsgServiceUnavailable, serverErr.StatusCode)
	case errors.Is(err, classifier.ErrMalformed):
		return MsgServiceError
	case errors.Is(err, classifier.ErrImageTooLarge):
		return MsgImageTooLarge
	case errors.Is(err, classifier.ErrEmptyImage):
		return MsgImageEmpty

	case errors.Is(err, composite.ErrDecodeFailed):
		return MsgCompositeDecode
	case errors.Is(err, composite.ErrEncodeFailed):
		return MsgCompositeEncode
	case errors.Is(err, gallery.ErrPermissionDenied):
		return MsgSavePermission
	case errors.Is(err, gallery.ErrWriteFailed),
		errors.Is(err, gallery.ErrEmptyKey),
		errors.Is(err, gallery.ErrInvalidKey):
		return MsgSaveFailed

	case errors.Is(err, history.ErrWriteFailed):
		return MsgHistoryUnsaved
	case errors.Is(err, history.ErrStoreUnavailable),
		errors.Is(err, history.ErrNotFound):
		return MsgHistoryFailed

	default:
		return MsgUnknown
	}
}
