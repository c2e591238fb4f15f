package transform

import (
	"strings"

	"surveyconv/domain/survey"
)

// Partition splits a question header row into question groups. A non-empty
// cell opens a group; empty cells widen the group to their left.
func Partition(header survey.Row) ([]survey.QuestionGroup, error) {
	if len(header) == 0 {
		return nil, survey.NewMalformedInputError(1, 0, "question header is empty")
	}
	if strings.TrimSpace(header[0]) == "" {
		return nil, survey.NewMalformedInputError(1, 1, "first question header cell is empty")
	}

	var groups []survey.QuestionGroup
	for i, label := range header {
		if strings.TrimSpace(label) != "" {
			groups = append(groups, survey.QuestionGroup{Label: label, Start: i, Width: 1})
			continue
		}
		groups[len(groups)-1].Width++
	}
	return groups, nil
}

// Questions pairs the question groups of a normalized table with the
// predefined answer labels of row 1
func Questions(table survey.Table) ([]survey.CollapsedQuestion, error) {
	if len(table) < 2 {
		return nil, survey.NewMalformedInputError(0, 0, "expected two header rows, got %d rows", len(table))
	}
	groups, err := Partition(table[0])
	if err != nil {
		return nil, err
	}
	predefined := table[1]
	if len(predefined) < len(table[0]) {
		return nil, survey.NewMalformedInputError(2, 0, "answer header has %d columns, question header has %d", len(predefined), len(table[0]))
	}

	questions := make([]survey.CollapsedQuestion, len(groups))
	for i, g := range groups {
		answers := make([]string, g.Width)
		for j := range answers {
			answers[j] = strings.TrimSpace(predefined[g.Start+j])
		}
		questions[i] = survey.CollapsedQuestion{QuestionGroup: g, Answers: answers}
	}
	return questions, nil
}

// Collapse folds each question's answer columns into a single cell.
//
// Example:
//
//	Question 1, ,
//	Answer 1  , Answer 2, Answer 3
//	x         , ,
//	          , x       , x
//
// becomes
//
//	Question 1
//	Answer 1
//	"Answer 2,Answer 3"
func Collapse(table survey.Table) (survey.Table, error) {
	questions, err := Questions(table)
	if err != nil {
		return nil, err
	}

	width := table.Width()
	out := make(survey.Table, 0, len(table)-1)
	header := make(survey.Row, len(questions))
	for i, q := range questions {
		header[i] = q.Label
	}
	out = append(out, header)

	for n, row := range table.DataRows() {
		if len(row) < width {
			return nil, survey.NewMalformedInputError(n+3, 0, "row has %d columns, expected %d", len(row), width)
		}
		collapsed := make(survey.Row, len(questions))
		for i, q := range questions {
			collapsed[i] = collapseAnswers(q, row)
		}
		out = append(out, collapsed)
	}
	return out, nil
}

func collapseAnswers(q survey.CollapsedQuestion, row survey.Row) string {
	answers := make([]string, 0, q.Width)
	for j, predefined := range q.Answers {
		cell := strings.TrimSpace(row[q.Start+j])
		switch {
		case survey.IsOpenEnded(predefined):
			answers = append(answers, cell)
		case cell != "":
			answers = append(answers, predefined)
		}
	}
	return joinAnswers(answers)
}

func joinAnswers(answers []string) string {
	kept := answers[:0]
	for _, a := range answers {
		if a != "" {
			kept = append(kept, a)
		}
	}
	return strings.Join(kept, survey.AnswerSeparator)
}
