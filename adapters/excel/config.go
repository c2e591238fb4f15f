package excel

// defaultSheet is the sheet excelize creates in a new workbook
const defaultSheet = "Sheet1"

// Config holds spreadsheet adapter settings
type Config struct {
	// Sheet is the worksheet to read from and write to. Empty means the first
	// sheet when reading and Sheet1 when writing.
	Sheet string
}

// DefaultConfig returns sensible defaults for spreadsheet processing
func DefaultConfig() Config {
	return Config{}
}
