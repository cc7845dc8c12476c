package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "tmdbreport/internal/errors"
	"tmdbreport/internal/files"
)

var (
	// ErrLegacyWorkbook is returned for binary .xls workbooks, which the
	// preparer cannot read.
	ErrLegacyWorkbook = errors.New("legacy .xls workbooks are not supported, save as .xlsx or .csv")

	// ErrLockFile is returned for office lock files such as "~$movies.xlsx".
	ErrLockFile = errors.New("file is an office lock file")

	// ErrNoDataset is returned when an input directory holds no dataset file.
	ErrNoDataset = errors.New("no dataset file found")
)

// FileValidator checks dataset input paths before they reach the preparer.
type FileValidator struct {
	logger    *slog.Logger
	discovery *files.Discovery
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:    logger,
		discovery: files.NewDiscovery(""),
	}
}

// ResolveInput turns path into a dataset file path. A directory resolves to
// the newest dataset file inside it. The result is validated with
// ValidateInputFile.
func (v *FileValidator) ResolveInput(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		v.logger.Error("Input path is not accessible",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return "", apperrors.NewStorageError("input path is not accessible", err).
			WithContext("path", path)
	}
	if !info.IsDir() {
		return path, v.ValidateInputFile(path)
	}

	latest, ok, err := v.discovery.Latest(path)
	if err != nil {
		return "", apperrors.NewStorageError("failed to scan input directory", err).
			WithContext("path", path)
	}
	if !ok {
		v.logger.Warn("No dataset file in input directory", slog.String("directory", path))
		return "", apperrors.NewStorageError("input directory holds no dataset file", ErrNoDataset).
			WithContext("path", path)
	}

	v.logger.Info("Resolved input directory",
		slog.String("directory", path),
		slog.String("file", latest.Name),
		slog.Time("modified", latest.ModTime))
	return latest.Path, v.ValidateInputFile(latest.Path)
}

// ValidateInputFile checks that path is a readable regular file the
// preparer can load. Unknown extensions are read as delimited text and
// only produce a warning.
func (v *FileValidator) ValidateInputFile(path string) error {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))

	switch {
	case strings.HasPrefix(base, "~$"):
		return apperrors.NewAppValidationError("input is not a dataset", ErrLockFile).
			WithContext("path", path)
	case ext == ".xls":
		return apperrors.NewAppValidationError("unsupported input format", ErrLegacyWorkbook).
			WithContext("path", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return apperrors.NewStorageError("input file is not accessible", err).
			WithContext("path", path)
	}
	if info.IsDir() {
		return apperrors.NewAppValidationError("input is a directory", fmt.Errorf("%s is a directory", path)).
			WithContext("path", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return apperrors.NewStorageError("input file is not readable", err).
			WithContext("path", path)
	}
	f.Close()

	if info.Size() == 0 {
		v.logger.Warn("Input file is empty", slog.String("path", path))
	}
	if !files.IsDataset(base) {
		v.logger.Warn("Unrecognised input extension, reading as delimited text",
			slog.String("path", path),
			slog.String("extension", ext))
	}
	return nil
}
