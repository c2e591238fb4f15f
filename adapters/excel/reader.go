package excel

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"surveyconv/domain/survey"
	"surveyconv/internal/errors"
	"surveyconv/internal/logging"
)

// DataReader loads CSV and XLSX survey exports into tables
type DataReader struct {
	fs     afero.Fs
	config Config
	logger logging.Logger
}

// NewDataReader creates a reader over fs
func NewDataReader(fs afero.Fs, config Config, logger logging.Logger) *DataReader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &DataReader{fs: fs, config: config, logger: logger.With("component", "reader")}
}

// Read loads the whole file at path. The format follows the extension.
func (r *DataReader) Read(ctx context.Context, path string) (survey.Table, error) {
	fileType, err := DetectFileType(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := r.fs.Open(path)
	if err != nil {
		return nil, errors.IOError("open", path, err)
	}
	defer f.Close()

	start := time.Now()
	var table survey.Table
	switch fileType {
	case FileTypeCSV:
		table, err = ReadCSV(f)
	case FileTypeXLSX:
		table, err = r.readXLSX(f)
	}
	if err != nil {
		return nil, errors.IOError("read", path, err)
	}

	r.logger.Debug("table loaded",
		"path", path,
		"type", fileType,
		"rows", len(table),
		"columns", table.Width(),
		"elapsed", time.Since(start))
	return table, nil
}

// ReadCSV reads every record. Ragged rows are allowed here; the transform
// passes decide which widths are acceptable.
func ReadCSV(src io.Reader) (survey.Table, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return survey.NewTable(records), nil
}

func (r *DataReader) readXLSX(src io.Reader) (survey.Table, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return survey.Table{}, nil
		}
		sheet = sheets[0]
	}
	// GetRows trims trailing blank rows, which would drop respondents who
	// answered nothing. Iterate instead and extend to the used range.
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	var records [][]string
	for rows.Next() {
		row, err := rows.Columns()
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		records = append(records, row)
	}
	if err := rows.Error(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	for height := usedRows(f, sheet); len(records) < height; {
		records = append(records, nil)
	}
	return padRows(records), nil
}

// usedRows returns the last row of the sheet dimension, or 0 when the
// sheet does not record one.
func usedRows(f *excelize.File, sheet string) int {
	dim, err := f.GetSheetDimension(sheet)
	if err != nil || dim == "" {
		return 0
	}
	last := dim
	if _, end, ok := strings.Cut(dim, ":"); ok {
		last = end
	}
	_, row, err := excelize.CellNameToCoordinates(last)
	if err != nil {
		return 0
	}
	return row
}

// padRows right-pads every row to the widest one. excelize drops trailing
// empty cells, which would otherwise shrink sparse header rows.
func padRows(rows [][]string) survey.Table {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	table := make(survey.Table, len(rows))
	for i, row := range rows {
		padded := make(survey.Row, width)
		copy(padded, row)
		table[i] = padded
	}
	return table
}
