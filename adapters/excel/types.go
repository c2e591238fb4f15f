package excel

import (
	"path/filepath"
	"strings"

	"surveyconv/internal/errors"
)

// FileType is the spreadsheet encoding chosen from a file extension
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// DetectFileType maps a path's extension to a FileType
func DetectFileType(path string) (FileType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FileTypeCSV, nil
	case ".xlsx":
		return FileTypeXLSX, nil
	default:
		return "", errors.InvalidInput("unsupported file extension for " + path + " (want .csv or .xlsx)")
	}
}
