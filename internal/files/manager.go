package files

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fundalloc/internal/config"
)

// Manager provides file management operations for generated reports
type Manager struct {
	paths *config.Paths
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(ctx context.Context, path string) bool {
	fullPath := m.resolvePath(path)
	_, err := os.Stat(fullPath)
	exists := err == nil

	slog.DebugContext(ctx, "FileExists check",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Bool("exists", exists))

	return exists
}

// OutputPath returns where a generated file named name is written, creating
// the output directory when needed.
func (m *Manager) OutputPath(ctx context.Context, name string) (string, error) {
	if err := m.EnsureDirectory(ctx, m.paths.OutputDir); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return m.resolvePath(name), nil
}

// GetFileSize returns the size of a file in bytes
func (m *Manager) GetFileSize(path string) (int64, error) {
	info, err := os.Stat(m.resolvePath(path))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(ctx context.Context, path string) error {
	fullPath := m.resolvePath(path)

	slog.DebugContext(ctx, "Ensuring directory exists",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return os.MkdirAll(fullPath, 0755)
	}
	return nil
}

// resolvePath resolves a relative path against the output directory
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.paths.OutputDir, path)
}
