package survey

// Labels with a fixed meaning in survey exports
const (
	OpenEndedResponse    = "Open-Ended Response"
	SubquestionSeparator = "-"
	AnswerSeparator      = ","
)

// Row is one ordered sequence of cells
type Row []string

// Table is an ordered sequence of rows sharing one column count.
// Rows 0 and 1 of an export are the question and answer headers.
type Table []Row

// NewTable copies raw records into a Table
func NewTable(records [][]string) Table {
	t := make(Table, len(records))
	for i, r := range records {
		t[i] = append(Row(nil), r...)
	}
	return t
}

// Width returns the column count taken from the first row
func (t Table) Width() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

// DataRows returns the rows after the two header rows
func (t Table) DataRows() []Row {
	if len(t) <= 2 {
		return nil
	}
	return t[2:]
}

// Clone returns a deep copy so callers can rewrite cells freely
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for i, r := range t {
		out[i] = append(Row(nil), r...)
	}
	return out
}

// Records exposes the table as plain string records for writers
func (t Table) Records() [][]string {
	out := make([][]string, len(t))
	for i, r := range t {
		out[i] = []string(r)
	}
	return out
}
