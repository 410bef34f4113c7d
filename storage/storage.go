// Package storage persists generated inspection documents on the local file system.
// It sits outside the layout core: the generator hands it finished bytes.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgNotFound = "document not found"

// DocumentStore stores and retrieves generated PDF documents.
type DocumentStore interface {
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
	GetURL(path string) string
}

// StoreRequest describes one document to persist.
type StoreRequest struct {
	// DocumentNo is the form's belgeNo; it becomes part of the file name when set.
	DocumentNo string
	// ID identifies the stored file. A new one is generated when nil.
	ID   uuid.UUID
	Data []byte
}

// StoreResult describes a stored document.
type StoreResult struct {
	ID   uuid.UUID
	Path string // relative to the base path
	URL  string
	Size int64
}

// Config configures FileSystemStorage.
type Config struct {
	// BasePath is the root directory. Default: ./output/inspections
	BasePath string
	// BaseURL prefixes download URLs. Default: /inspections
	BaseURL string
	Logger  *zap.Logger
	// Now is used for the year/month directories. Defaults to time.Now.
	Now func() time.Time
}

// FileSystemStorage stores documents under {base}/{year}/{month}/.
type FileSystemStorage struct {
	config Config
	logger *zap.Logger
}

// NewFileSystemStorage creates the base directory and returns the store.
func NewFileSystemStorage(cfg Config) (*FileSystemStorage, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "./output/inspections"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "/inspections"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, newError(fmt.Sprintf("failed to create storage directory: %s", cfg.BasePath), err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSystemStorage{config: cfg, logger: logger}, nil
}

// Store writes req.Data to {base}/{year}/{month}/{documentNo-}{id}.pdf.
func (s *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError("operation cancelled", err)
	}
	if req == nil {
		return nil, newError("store request is nil", nil)
	}
	if len(req.Data) == 0 {
		return nil, newError("document data is empty", nil)
	}

	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	now := s.config.Now()
	relDir := filepath.Join(fmt.Sprintf("%d", now.Year()), fmt.Sprintf("%02d", now.Month()))
	if err := os.MkdirAll(filepath.Join(s.config.BasePath, relDir), 0o755); err != nil {
		return nil, newError("failed to create directory", err)
	}

	fileName := id.String() + ".pdf"
	if prefix := sanitizeName(req.DocumentNo); prefix != "" {
		fileName = prefix + "-" + fileName
	}
	relPath := filepath.Join(relDir, fileName)
	if err := os.WriteFile(filepath.Join(s.config.BasePath, relPath), req.Data, 0o644); err != nil {
		return nil, newError("failed to write document", err)
	}

	url := s.GetURL(relPath)
	s.logger.Info("document stored",
		zap.String("path", relPath),
		zap.Int("size", len(req.Data)),
		zap.String("url", url))

	return &StoreResult{
		ID:   id,
		Path: relPath,
		URL:  url,
		Size: int64(len(req.Data)),
	}, nil
}

// Get opens a stored document by its relative path.
func (s *FileSystemStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError("operation cancelled", err)
	}
	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newError(msgNotFound, err)
		}
		return nil, newError("failed to open document", err)
	}
	return file, nil
}

// Delete removes a stored document. Deleting a missing document is not an error.
func (s *FileSystemStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return newError("operation cancelled", err)
	}
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return newError("failed to delete document", err)
	}
	s.logger.Info("document deleted", zap.String("path", path))
	return nil
}

// CleanupOlderThan removes documents whose modification time is older than age.
// Cancellation stops the walk and returns the count so far without error.
func (s *FileSystemStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := s.config.Now().Add(-age)
	deleted := 0

	err := filepath.Walk(s.config.BasePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".pdf" {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deleted++
				s.logger.Debug("deleted old document", zap.String("path", path))
			}
		}
		return nil
	})
	if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return deleted, newError("cleanup walk failed", err)
	}

	s.logger.Info("cleanup completed", zap.Int("deleted", deleted), zap.Duration("age", age))
	return deleted, nil
}

// GetURL returns the download URL for a relative path.
func (s *FileSystemStorage) GetURL(path string) string {
	return s.config.BaseURL + "/" + filepath.ToSlash(filepath.Clean(path))
}

// resolve maps a relative path to a file under the base path, rejecting escapes.
func (s *FileSystemStorage) resolve(path string) (string, error) {
	cleanPath := filepath.Clean(path)
	if path == "" || filepath.IsAbs(cleanPath) || containsDotDot(path) {
		s.logger.Warn("blocked potentially malicious path", zap.String("path", path))
		return "", newError("invalid path", nil)
	}
	fullPath := filepath.Join(s.config.BasePath, cleanPath)

	absBase, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", newError("failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", newError("failed to resolve file path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("path escape attempt blocked", zap.String("path", path), zap.String("absPath", absPath))
		return "", newError("invalid path", nil)
	}
	return fullPath, nil
}

func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

// sanitizeName keeps letters, digits, '-' and '_' so a document number is safe in a file name.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '/' || r == '.':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

var _ DocumentStore = (*FileSystemStorage)(nil)
