package survey

// QuestionGroup is a contiguous run of columns sharing one question label
type QuestionGroup struct {
	Label string
	Start int
	Width int
}

// CollapsedQuestion is one output column: a question group plus the
// predefined answer label of each member column
type CollapsedQuestion struct {
	QuestionGroup
	Answers []string
}

// IsOpenEnded reports whether the answer label marks a column whose raw
// cell value is the answer itself
func IsOpenEnded(predefined string) bool {
	return predefined == "" || predefined == OpenEndedResponse
}
