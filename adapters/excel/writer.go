package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"surveyconv/domain/survey"
	"surveyconv/internal/errors"
	"surveyconv/internal/logging"
)

// DataWriter stores tables as CSV or XLSX files
type DataWriter struct {
	fs     afero.Fs
	config Config
	logger logging.Logger
}

// NewDataWriter creates a writer over fs
func NewDataWriter(fs afero.Fs, config Config, logger logging.Logger) *DataWriter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &DataWriter{fs: fs, config: config, logger: logger.With("component", "writer")}
}

// Write encodes table into path. The data goes to a temporary sibling that
// is renamed over path once complete, so a failed run leaves no partial file.
func (w *DataWriter) Write(ctx context.Context, path string, table survey.Table) error {
	fileType, err := DetectFileType(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.IOError("create directory", filepath.Dir(path), err)
	}
	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()[:8]))
	f, err := w.fs.Create(tmp)
	if err != nil {
		return errors.IOError("create", path, err)
	}

	switch fileType {
	case FileTypeCSV:
		err = WriteCSV(f, table)
	case FileTypeXLSX:
		err = w.writeXLSX(f, table)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = w.fs.Remove(tmp)
		return errors.IOError("write", path, err)
	}
	if err := w.fs.Rename(tmp, path); err != nil {
		_ = w.fs.Remove(tmp)
		return errors.IOError("rename", path, err)
	}

	w.logger.Debug("table written", "path", path, "type", fileType, "rows", len(table))
	return nil
}

// WriteCSV encodes all rows with standard CSV quoting
func WriteCSV(dst io.Writer, table survey.Table) error {
	writer := csv.NewWriter(dst)
	if err := writer.WriteAll(table.Records()); err != nil {
		return err
	}
	return writer.Error()
}

func (w *DataWriter) writeXLSX(dst io.Writer, table survey.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := defaultSheet
	if w.config.Sheet != "" && w.config.Sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, w.config.Sheet); err != nil {
			return err
		}
		sheet = w.config.Sheet
	}

	for i, row := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	// Record the full extent so blank trailing respondents survive a reload.
	if len(table) > 0 && table.Width() > 0 {
		end, err := excelize.CoordinatesToCellName(table.Width(), len(table))
		if err != nil {
			return err
		}
		if err := f.SetSheetDimension(sheet, "A1:"+end); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(dst)
	return err
}
