// Package upload stores multipart file uploads on local disk with
// collision-free names and a MIME allow-list.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/charlieverse/platform/internal/api/metrics"
	"github.com/charlieverse/platform/internal/core/domain"
)

const (
	// MaxFiles caps how many files one request may carry.
	MaxFiles = 5
	// MaxFileSize caps a single file at 10MB.
	MaxFileSize = 10 << 20
)

// allowedTypes is the MIME allow-list: images, PDFs, documents, zips.
var allowedTypes = map[string]bool{
	"image/jpeg":               true,
	"image/png":                true,
	"image/gif":                true,
	"image/webp":               true,
	"application/pdf":          true,
	"application/msword":       true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain":                   true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
}

// FileMetadata describes one stored file.
type FileMetadata struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	Filename     string    `json:"filename"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	Category     string    `json:"category"`
	UploadedBy   string    `json:"uploaded_by"`
	UploadedAt   time.Time `json:"uploaded_at"`
	ProjectID    string    `json:"project_id,omitempty"`
	Description  string    `json:"description,omitempty"`
}

// Service writes uploads into a single directory.
type Service struct {
	dir string
}

// NewService ensures the uploads directory exists.
func NewService(dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Service{dir: dir}, nil
}

// Dir returns the uploads directory.
func (s *Service) Dir() string { return s.dir }

// Validate rejects a header before any bytes are read.
func Validate(fh *multipart.FileHeader) error {
	if fh.Size == 0 {
		return fmt.Errorf("%w: file %q is empty", domain.ErrValidation, fh.Filename)
	}
	if fh.Size > MaxFileSize {
		return fmt.Errorf("%w: file %q exceeds the 10MB limit", domain.ErrValidation, fh.Filename)
	}
	mime := fh.Header.Get("Content-Type")
	if !allowedTypes[mime] {
		return fmt.Errorf("%w: file type %q is not allowed", domain.ErrValidation, mime)
	}
	return nil
}

// SaveAll validates and stores every file in the request. The whole batch is
// rejected if any single file fails validation.
func (s *Service) SaveAll(files []*multipart.FileHeader, uploadedBy, projectID, description string) ([]FileMetadata, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files uploaded", domain.ErrValidation)
	}
	if len(files) > MaxFiles {
		return nil, fmt.Errorf("%w: at most %d files per upload", domain.ErrValidation, MaxFiles)
	}
	for _, fh := range files {
		if err := Validate(fh); err != nil {
			return nil, err
		}
	}

	out := make([]FileMetadata, 0, len(files))
	for _, fh := range files {
		meta, err := s.save(fh, uploadedBy, projectID, description)
		if err != nil {
			return nil, err
		}
		metrics.UploadsTotal.WithLabelValues(meta.Category).Inc()
		out = append(out, *meta)
	}
	return out, nil
}

func (s *Service) save(fh *multipart.FileHeader, uploadedBy, projectID, description string) (*FileMetadata, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	id := uuid.NewString()
	ext := filepath.Ext(fh.Filename)
	base := strings.TrimSuffix(filepath.Base(fh.Filename), ext)
	filename := fmt.Sprintf("%s-%s%s", base, id, ext)

	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	return &FileMetadata{
		ID:           id,
		OriginalName: fh.Filename,
		Filename:     filename,
		MimeType:     fh.Header.Get("Content-Type"),
		Size:         fh.Size,
		Category:     Category(fh.Header.Get("Content-Type")),
		UploadedBy:   uploadedBy,
		UploadedAt:   time.Now().UTC(),
		ProjectID:    projectID,
		Description:  description,
	}, nil
}

// Category maps a MIME type to a coarse bucket for display and metrics.
func Category(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return "image"
	case mime == "application/pdf":
		return "pdf"
	case strings.Contains(mime, "word") || strings.Contains(mime, "document"):
		return "document"
	case strings.Contains(mime, "zip"):
		return "archive"
	default:
		return "other"
	}
}

// FileInfo describes a stored file by name.
type FileInfo struct {
	Filename string    `json:"filename"`
	Size     int64     `json:"size,omitempty"`
	ModTime  time.Time `json:"mod_time,omitempty"`
	Exists   bool      `json:"exists"`
}

// Info stats a stored file. A missing file is reported, not an error.
func (s *Service) Info(filename string) FileInfo {
	// Base() strips any path components a client may smuggle in.
	st, err := os.Stat(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil {
		return FileInfo{Filename: filename}
	}
	return FileInfo{Filename: filename, Size: st.Size(), ModTime: st.ModTime(), Exists: true}
}

// Path resolves a stored filename to its on-disk path.
func (s *Service) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Cleanup removes files older than maxAge and returns how many were deleted.
func (s *Service) Cleanup(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	deleted := 0
	cutoff := time.Now().Add(-maxAge)
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}
