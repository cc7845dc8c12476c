package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds every file location the commands write to. Relative entries
// in Config are resolved against BaseDir, which is the working directory
// unless overridden.
type Paths struct {
	BaseDir    string
	InputFile  string
	ReportFile string
	ExportDir  string
	LogFile    string
}

// ResolvePaths resolves the configured locations against baseDir. An empty
// baseDir means the current working directory.
func (c *Config) ResolvePaths(baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %q: %w", baseDir, err)
	}

	p := &Paths{
		BaseDir:    abs,
		ReportFile: resolve(abs, c.Report.OutputPath),
		ExportDir:  resolve(abs, c.Export.Dir),
	}
	if c.Input.Path != "" {
		p.InputFile = resolve(abs, c.Input.Path)
	}
	if c.Logging.Output != "console" {
		p.LogFile = resolve(abs, c.Logging.FilePath)
	}
	return p, nil
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// EnsureReportDir creates the directory that will hold the report file.
func (p *Paths) EnsureReportDir() error {
	return ensureDir(filepath.Dir(p.ReportFile))
}

// EnsureExportDir creates the export directory.
func (p *Paths) EnsureExportDir() error {
	return ensureDir(p.ExportDir)
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// LogValue implements slog.LogValuer so resolved paths can be logged as a group.
func (p *Paths) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base", p.BaseDir),
		slog.String("input", p.InputFile),
		slog.String("report", p.ReportFile),
		slog.String("export", p.ExportDir),
		slog.String("log_file", p.LogFile),
	)
}
