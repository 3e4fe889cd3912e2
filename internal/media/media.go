// Package media validates review photos and stores them in object storage.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrInvalidAttachment      = errors.New("invalid attachment")
	ErrAttachmentUploadFailed = errors.New("attachment upload failed")
)

const (
	DefaultMaxSize       = 5 << 20 // 5 MB
	DefaultUploadTimeout = 20 * time.Second
)

var acceptedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
	"image/heic": {},
}

// ObjectStorage writes a blob under path and returns its public address.
type ObjectStorage interface {
	Put(ctx context.Context, path string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, address string) error
}

// Upload is a photo the client declared together with a review.
type Upload struct {
	Data        []byte
	ContentType string
	Size        int64
	// ScopeKey namespaces the stored object, e.g. "place_12" or "user_7".
	ScopeKey string
}

type Config struct {
	MaxSize       int64
	UploadTimeout time.Duration
}

type Handler struct {
	storage ObjectStorage
	cfg     Config
	now     func() time.Time
}

func NewHandler(storage ObjectStorage, cfg Config) *Handler {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = DefaultUploadTimeout
	}
	return &Handler{storage: storage, cfg: cfg, now: time.Now}
}

// Validate checks size, declared type and sniffed type without touching storage.
func (h *Handler) Validate(u Upload) error {
	size := u.Size
	if size <= 0 {
		size = int64(len(u.Data))
	}
	if size == 0 || len(u.Data) == 0 {
		return fmt.Errorf("%w: empty file", ErrInvalidAttachment)
	}
	if size > h.cfg.MaxSize || int64(len(u.Data)) > h.cfg.MaxSize {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidAttachment, h.cfg.MaxSize)
	}

	declared := normalizeType(u.ContentType)
	if _, ok := acceptedTypes[declared]; !ok {
		return fmt.Errorf("%w: content type %q is not an accepted image type", ErrInvalidAttachment, u.ContentType)
	}

	sniffed := normalizeType(mimetype.Detect(u.Data).String())
	if _, ok := acceptedTypes[sniffed]; !ok {
		return fmt.Errorf("%w: file content is %s", ErrInvalidAttachment, sniffed)
	}
	return nil
}

// Attach validates the upload, stores it and returns the public address.
func (h *Handler) Attach(ctx context.Context, u Upload) (string, error) {
	if err := h.Validate(u); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, h.cfg.UploadTimeout)
	defer cancel()

	path := h.objectPath(u.ScopeKey)
	url, err := h.storage.Put(ctx, path, bytes.NewReader(u.Data), normalizeType(u.ContentType))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAttachmentUploadFailed, err)
	}
	return url, nil
}

// Discard removes a stored photo whose review could not be created.
func (h *Handler) Discard(ctx context.Context, address string) error {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.UploadTimeout)
	defer cancel()

	if err := h.storage.Delete(ctx, address); err != nil {
		return fmt.Errorf("discard attachment: %w", err)
	}
	return nil
}

func (h *Handler) objectPath(scope string) string {
	scope = strings.Trim(strings.ReplaceAll(strings.TrimSpace(scope), "/", "_"), "._")
	if scope == "" {
		scope = "unscoped"
	}
	return fmt.Sprintf("reviews/%s/%d_%s", scope, h.now().UnixNano(), uuid.NewString())
}

func normalizeType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	return ct
}
