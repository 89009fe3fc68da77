package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved directories used by a run.
// Relative settings are resolved against the working directory, which is where
// the disclosure files are expected by default.
type Paths struct {
	WorkDir   string
	InputDir  string
	OutputDir string
	LogsDir   string
}

// GetPaths resolves the configured directories to absolute paths.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %v", err)
	}
	return resolvePaths(wd, cfg), nil
}

func resolvePaths(workDir string, cfg PathsConfig) *Paths {
	resolve := func(dir, fallback string) string {
		if dir == "" {
			dir = fallback
		}
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(workDir, dir)
	}

	return &Paths{
		WorkDir:   workDir,
		InputDir:  resolve(cfg.InputDir, "."),
		OutputDir: resolve(cfg.OutputDir, "."),
		LogsDir:   resolve(cfg.LogsDir, "logs"),
	}
}

// EnsureDirectories creates the output and logs directories if missing.
// The input directory is never created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return nil
}

// OutputPath returns the path of a file written to the output directory.
func (p *Paths) OutputPath(name string) string {
	return filepath.Join(p.OutputDir, name)
}

// LogFile returns the default log file location.
func (p *Paths) LogFile() string {
	return filepath.Join(p.LogsDir, LogFileName)
}

// LogValue implements slog.LogValuer.
func (p *Paths) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("work_dir", p.WorkDir),
		slog.String("input_dir", p.InputDir),
		slog.String("output_dir", p.OutputDir),
		slog.String("logs_dir", p.LogsDir),
	)
}
