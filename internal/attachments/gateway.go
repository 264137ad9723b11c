// Package attachments stores uploaded files under the configured upload
// directory and resolves stored references back to paths.
package attachments

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"issue-tracker/internal/apperrors"
	"issue-tracker/internal/logger"
	"issue-tracker/internal/metrics"
)

// FieldName is the multipart field carrying the upload.
const FieldName = "attachment"

type Gateway struct {
	dir          string
	maxSize      int64
	allowedTypes map[string]struct{}
}

// New prepares dir (creating it if absent). An empty allowedTypes accepts
// every content type.
func New(dir string, maxSize int64, allowedTypes []string) (*Gateway, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(t)] = struct{}{}
	}
	return &Gateway{dir: dir, maxSize: maxSize, allowedTypes: allowed}, nil
}

func (g *Gateway) Dir() string {
	return g.dir
}

// Store validates fh and writes it under a fresh UUID name that keeps the
// original extension. The returned name is what issue and message rows
// reference.
func (g *Gateway) Store(fh *multipart.FileHeader) (string, error) {
	if g.maxSize > 0 && fh.Size > g.maxSize {
		metrics.ObserveAttachment("rejected")
		return "", apperrors.NewValidationError(
			fmt.Sprintf("File too large, limit is %d bytes", g.maxSize), fh.Filename)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	contentType := detectContentType(fh, src)
	if !g.allowed(contentType) {
		metrics.ObserveAttachment("rejected")
		return "", apperrors.NewValidationError("Invalid file type", contentType)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.OpenFile(filepath.Join(g.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create attachment file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		g.Remove(name)
		return "", fmt.Errorf("write attachment: %w", err)
	}
	if err := dst.Close(); err != nil {
		g.Remove(name)
		return "", fmt.Errorf("close attachment: %w", err)
	}

	metrics.ObserveAttachment("stored")
	logger.WithComponent("attachments").Debug("stored attachment",
		"name", name, "original", fh.Filename, "size", fh.Size, "content_type", contentType)
	return name, nil
}

// Remove deletes a stored file; used when the row that would reference it
// was never written.
func (g *Gateway) Remove(name string) {
	if name == "" {
		return
	}
	if err := os.Remove(g.Path(name)); err != nil && !os.IsNotExist(err) {
		logger.WithComponent("attachments").Warn("failed to remove attachment", "name", name, "error", err)
	}
}

// Path resolves a stored name inside the upload directory. Only the base
// name is used.
func (g *Gateway) Path(name string) string {
	return filepath.Join(g.dir, filepath.Base(name))
}

func (g *Gateway) allowed(contentType string) bool {
	if len(g.allowedTypes) == 0 {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	_, ok := g.allowedTypes[strings.ToLower(mediaType)]
	return ok
}

func detectContentType(fh *multipart.FileHeader, f multipart.File) string {
	contentType := fh.Header.Get("Content-Type")
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	if n > 0 {
		contentType = http.DetectContentType(buf[:n])
	}
	_, _ = f.Seek(0, io.SeekStart)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return contentType
}
