// Package classifier submits images to the remote KL-grade classification
// endpoint and normalizes its reply.
package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/JaimeStill/oagrade/pkg/formatting"
)

// maxResponseSize bounds the reply body, which carries a base64 heatmap.
const maxResponseSize = 32 << 20

const errorBodyLimit = 256

// System classifies one image per call. A call makes exactly one request and
// performs no retries.
type System interface {
	Classify(ctx context.Context, image []byte, filename string) (*Result, error)
}

type client struct {
	endpoint  string
	timeout   time.Duration
	fieldName string
	maxSize   int64
	http      *http.Client
	logger    *slog.Logger
}

// New creates a classifier client from a finalized config. A nil httpClient
// uses a client without its own timeout; the per-call timeout comes from cfg.
func New(cfg *Config, httpClient *http.Client, logger *slog.Logger) System {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &client{
		endpoint:  cfg.Endpoint,
		timeout:   cfg.TimeoutDuration(),
		fieldName: cfg.FieldName,
		maxSize:   cfg.MaxImageSizeBytes(),
		http:      httpClient,
		logger:    logger.With("system", "classifier"),
	}
}

func (c *client) Classify(ctx context.Context, image []byte, filename string) (*Result, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	if c.maxSize > 0 && int64(len(image)) > c.maxSize {
		return nil, fmt.Errorf(
			"%w: %s > %s",
			ErrImageTooLarge,
			formatting.FormatBytes(int64(len(image)), 1),
			formatting.FormatBytes(c.maxSize, 1),
		)
	}

	body, contentType, err := c.encode(image, filename)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.logger.Info("classification request started", "endpoint", c.endpoint, "size", len(image))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, c.transportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("classification rejected", "status", resp.StatusCode, "duration", time.Since(start))
		return nil, &ServerError{
			StatusCode: resp.StatusCode,
			Body:       formatting.Preview(bytes.TrimSpace(data), errorBodyLimit),
		}
	}

	if len(data) > maxResponseSize {
		return nil, fmt.Errorf("%w: response exceeds %s", ErrMalformed, formatting.FormatBytes(maxResponseSize, 0))
	}

	result, err := parseResult(data)
	if err != nil {
		c.logger.Warn("classification response malformed", "error", err)
		return nil, err
	}

	c.logger.Info("classification complete",
		"label", result.Label,
		"grade", result.Grade,
		"confidence", result.Confidence,
		"duration", time.Since(start),
	)
	return result, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encode builds a multipart body with a single file part whose content type
// is sniffed from the image bytes.
func (c *client) encode(image []byte, filename string) (io.Reader, string, error) {
	if filename == "" {
		filename = "image"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(c.fieldName),
		quoteEscaper.Replace(filename),
	))
	h.Set("Content-Type", http.DetectContentType(image))

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("%w: encode request: %w", ErrTransport, err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("%w: encode request: %w", ErrTransport, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("%w: encode request: %w", ErrTransport, err)
	}

	return &buf, w.FormDataContentType(), nil
}

func (c *client) transportError(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		c.logger.Warn("classification timed out", "timeout", c.timeout)
		return fmt.Errorf("%w after %s: %w", ErrTimeout, c.timeout, err)
	}

	c.logger.Warn("classification transport failed", "error", err)
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
