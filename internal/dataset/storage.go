// Package dataset persists the normalized intermediate table of a
// conversion so it can be inspected or fed back into the collapse pass.
package dataset

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"surveyconv/adapters/excel"
	"surveyconv/domain/survey"
	"surveyconv/internal/errors"
	"surveyconv/internal/logging"
)

// StorageConfig holds configuration for artifact storage
type StorageConfig struct {
	BasePath string // Directory receiving artifacts
	Now      func() time.Time
}

// LocalArtifactStore stores intermediate tables as CSV files on an afero filesystem
type LocalArtifactStore struct {
	fs     afero.Fs
	config StorageConfig
	logger logging.Logger
}

// NewLocalArtifactStore creates a store rooted at config.BasePath
func NewLocalArtifactStore(fs afero.Fs, config StorageConfig, logger logging.Logger) *LocalArtifactStore {
	if config.Now == nil {
		config.Now = time.Now
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &LocalArtifactStore{fs: fs, config: config, logger: logger.With("component", "storage")}
}

// Save writes table under a unique name derived from name and returns its path
func (s *LocalArtifactStore) Save(ctx context.Context, name string, table survey.Table) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(s.config.BasePath, 0o755); err != nil {
		return "", errors.IOError("create directory", s.config.BasePath, err)
	}

	// Generate unique filename to prevent conflicts between runs
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	timestamp := s.config.Now().Format("20060102_150405")
	uniqueName := fmt.Sprintf("%s_%s_%s.csv", stem, timestamp, uuid.New().String()[:8])
	path := filepath.Join(s.config.BasePath, uniqueName)

	var buf bytes.Buffer
	if err := excel.WriteCSV(&buf, table); err != nil {
		return "", errors.IOError("encode", path, err)
	}
	if err := afero.WriteFile(s.fs, path, buf.Bytes(), 0o644); err != nil {
		_ = s.fs.Remove(path)
		return "", errors.IOError("write", path, err)
	}

	s.logger.Debug("artifact saved", "path", path, "rows", len(table))
	return path, nil
}

// Load reads an artifact back
func (s *LocalArtifactStore) Load(ctx context.Context, path string) (survey.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, errors.IOError("open", path, err)
	}
	defer f.Close()

	table, err := excel.ReadCSV(f)
	if err != nil {
		return nil, errors.IOError("read", path, err)
	}
	return table, nil
}

// Delete removes an artifact; a missing file is not an error
func (s *LocalArtifactStore) Delete(ctx context.Context, path string) error {
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.IOError("delete", path, err)
	}
	s.logger.Debug("artifact deleted", "path", path)
	return nil
}
