package storage

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/velonis/field-reports/internal"
)

const (
	MaxAttachments    = 5
	MaxAttachmentSize = 25 << 20
)

// allowedMIMETypes is matched against the sniffed content, never against
// the client-declared Content-Type header.
var allowedMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"video/mp4",
	"video/mpeg",
}

var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"video/mp4":  ".mp4",
	"video/mpeg": ".mpg",
}

// Store writes uploaded attachments to a local directory under random
// names. Random names rather than timestamps: two technicians uploading in
// the same second must not collide.
type Store struct {
	dir    string
	logger *slog.Logger
}

func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save validates every file before writing any of them, so a rejected
// batch persists nothing. Returns the stored filenames in upload order.
func (s *Store) Save(files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > MaxAttachments {
		return nil, internal.NewValidationError(
			fmt.Sprintf("at most %d attachments are allowed", MaxAttachments),
			internal.ErrCodeAttachmentCount)
	}

	contents := make([][]byte, 0, len(files))
	names := make([]string, 0, len(files))

	for _, fh := range files {
		data, mimeType, err := readAttachment(fh)
		if err != nil {
			return nil, err
		}
		contents = append(contents, data)
		names = append(names, storedName(fh.Filename, mimeType))
	}

	for i, data := range contents {
		path := filepath.Join(s.dir, names[i])
		if err := os.WriteFile(path, data, 0o644); err != nil {
			s.logger.Error("failed to write attachment", "error", err, "filename", names[i])
			return nil, internal.NewInternalError("failed to store attachment", err)
		}
	}

	return names, nil
}

func readAttachment(fh *multipart.FileHeader) ([]byte, string, error) {
	if fh.Size > MaxAttachmentSize {
		return nil, "", internal.NewValidationError("attachment exceeds the 25 MB limit", internal.ErrCodeAttachmentSize)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", internal.NewInternalError("failed to open uploaded file", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxAttachmentSize+1))
	if err != nil {
		return nil, "", internal.NewInternalError("failed to read uploaded file", err)
	}
	if len(data) > MaxAttachmentSize {
		return nil, "", internal.NewValidationError("attachment exceeds the 25 MB limit", internal.ErrCodeAttachmentSize)
	}
	if len(data) == 0 {
		return nil, "", internal.NewValidationError("uploaded file is empty", internal.ErrCodeValidationFailed)
	}

	detected := http.DetectContentType(data)
	for _, allowed := range allowedMIMETypes {
		if strings.EqualFold(detected, allowed) {
			return data, allowed, nil
		}
	}

	return nil, "", internal.NewValidationError(
		fmt.Sprintf("unsupported attachment type %s", detected),
		internal.ErrCodeAttachmentType)
}

// storedName prefers the extension matching the sniffed type; the original
// filename is never trusted for anything but a fallback extension.
func storedName(original, mimeType string) string {
	ext := extByMIME[mimeType]
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(original))
	}
	return uuid.NewString() + ext
}
