// Package transform holds the two table passes that turn an expanded survey
// export into one column per question.
//
// Normalize rewrites the two header rows so every matrix subquestion gets its
// own "Question (Subquestion)" label and every answer column carries only the
// short answer text. Collapse then folds the answer columns of each question
// into a single comma-joined cell. Both are pure functions over survey.Table.
package transform

import (
	"fmt"
	"strings"

	"surveyconv/domain/survey"
)

// scanState is the accumulator carried across columns by the header fold
type scanState struct {
	question    string
	subquestion string
}

// headerCells is the rewritten pair of header cells for one column
type headerCells struct {
	question string
	answer   string
}

// Normalize rewrites rows 0 and 1 of an export and passes data rows through.
//
// Example:
//
//	Q1        ,          ,          ,
//	Sub1 - A1 , Sub1 - A2, Sub2 - A1, Sub2 - A2
//
// becomes
//
//	Q1 (Sub1), , Q1 (Sub2),
//	A1       , A2, A1     , A2
func Normalize(table survey.Table) (survey.Table, error) {
	if len(table) < 2 {
		return nil, survey.NewMalformedInputError(0, 0, "expected two header rows, got %d rows", len(table))
	}
	header := trimRow(table[0])
	second := trimRow(table[1])
	if len(header) != len(second) {
		return nil, survey.NewMalformedInputError(2, 0, "answer header has %d columns, question header has %d", len(second), len(header))
	}

	state := scanState{}
	for i := range header {
		var (
			cells headerCells
			err   error
		)
		state, cells, err = step(state, header[i], second[i])
		if err != nil {
			return nil, survey.NewMalformedInputError(2, i+1, "%v", err)
		}
		header[i], second[i] = cells.question, cells.answer
	}

	out := table.Clone()
	out[0], out[1] = header, second
	return out, nil
}

// step folds one column into the scan state and returns the column's
// rewritten header cells
func step(state scanState, question, label string) (scanState, headerCells, error) {
	if question != "" {
		state.question = question
	}
	cells := headerCells{question: question, answer: label}
	if !isSubquestion(label) {
		return state, cells, nil
	}

	sub, answer, err := splitLabel(label)
	if err != nil {
		return state, cells, err
	}
	cells.answer = answer

	// No subquestion text: the column continues whatever run it is in.
	if sub == "" {
		return state, cells, nil
	}
	combined := fmt.Sprintf("%s (%s)", state.question, sub)
	if combined != state.subquestion {
		cells.question = combined
		state.subquestion = combined
	}
	return state, cells, nil
}

func isSubquestion(label string) bool {
	return strings.Contains(label, survey.SubquestionSeparator) && label != survey.OpenEndedResponse
}

// splitLabel splits "Sub - Answer" on the first hyphen
func splitLabel(label string) (string, string, error) {
	before, after, _ := strings.Cut(label, survey.SubquestionSeparator)
	answer := strings.TrimSpace(after)
	if answer == "" {
		return "", "", fmt.Errorf("subquestion label %q has no answer after %q", label, survey.SubquestionSeparator)
	}
	return strings.TrimSpace(before), answer, nil
}

func trimRow(row survey.Row) survey.Row {
	out := make(survey.Row, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}
