package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrPathTraversal = errors.New("path traversal detected")
	ErrFileNotFound  = errors.New("file not found")
	ErrFileTooLarge  = errors.New("file exceeds size limit")
	ErrNotAnImage    = errors.New("file is not an allowed image type")
)

// MaxFileSize caps a single uploaded photograph at 25 MB
const MaxFileSize = 25 * 1024 * 1024

// AllowedImageExtensions lists the image types accepted at intake
var AllowedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".webp": true, ".bmp": true, ".tiff": true,
}

// FileStorage persists dispatched mail images. Paths handed back by Save
// are relative to the store root and are the only paths Get and Delete
// accept.
type FileStorage interface {
	Save(filename string, content io.Reader) (string, error)
	Get(filePath string) (io.ReadCloser, error)
	Delete(filePath string) error
}

type localStorage struct {
	basePath string
}

// NewLocalStorage returns a FileStorage rooted at basePath, creating the
// directory if needed.
func NewLocalStorage(basePath string) (FileStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &localStorage{basePath: basePath}, nil
}

// validatePath resolves filePath against the store root and rejects
// anything that would escape it. The literal ".." check also covers
// backslash-separated traversal strings that Clean leaves alone on
// non-Windows systems.
func (s *localStorage) validatePath(filePath string) (string, error) {
	cleaned := filepath.Clean(filePath)
	if filepath.IsAbs(cleaned) || strings.Contains(cleaned, "..") {
		return "", ErrPathTraversal
	}

	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	absTarget, err := filepath.Abs(filepath.Join(absBase, cleaned))
	if err != nil {
		return "", fmt.Errorf("invalid file path: %w", err)
	}

	if absTarget != absBase && !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return absTarget, nil
}

// ValidateImage checks the extension and declared size of an upload
// before any bytes are read.
func ValidateImage(filename string, size int64) error {
	if !AllowedImageExtensions[strings.ToLower(filepath.Ext(filename))] {
		return ErrNotAnImage
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// Save writes content under a fresh UUID name, keeping the original
// extension. Files are sharded into subdirectories by the first two
// characters of the name so no single directory grows unbounded.
func (s *localStorage) Save(filename string, content io.Reader) (string, error) {
	name := uuid.New().String() + filepath.Ext(filename)
	relPath := filepath.Join(name[:2], name)

	fullPath := filepath.Join(s.basePath, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return relPath, nil
}

// Get opens a stored file for reading
func (s *localStorage) Get(filePath string) (io.ReadCloser, error) {
	fullPath, err := s.validatePath(filePath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Delete removes a stored file
func (s *localStorage) Delete(filePath string) error {
	fullPath, err := s.validatePath(filePath)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
