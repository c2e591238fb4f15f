// Package report summarises a finished conversion: how many respondents
// answered each question and how complete each response was.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/montanaflynn/stats"

	"surveyconv/domain/survey"
)

// QuestionStats describes one collapsed column
type QuestionStats struct {
	Label        string
	Options      int
	Answered     int
	ResponseRate float64
}

// Distribution summarises answered-question counts across respondents
type Distribution struct {
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

// Summary is the report for one converted file
type Summary struct {
	Respondents int
	Questions   []QuestionStats
	Answered    Distribution
}

// Summarize builds a Summary from the question schema and the collapsed
// output table (header row plus one row per respondent)
func Summarize(questions []survey.CollapsedQuestion, output survey.Table) (Summary, error) {
	var rows []survey.Row
	if len(output) > 1 {
		rows = output[1:]
	}
	summary := Summary{
		Respondents: len(rows),
		Questions:   make([]QuestionStats, len(questions)),
	}
	for i, q := range questions {
		summary.Questions[i] = QuestionStats{Label: q.Label, Options: q.Width}
	}

	perRespondent := make([]float64, len(rows))
	for r, row := range rows {
		for i := range questions {
			if i < len(row) && row[i] != "" {
				summary.Questions[i].Answered++
				perRespondent[r]++
			}
		}
	}
	if len(rows) == 0 {
		return summary, nil
	}
	for i := range summary.Questions {
		summary.Questions[i].ResponseRate = float64(summary.Questions[i].Answered) / float64(len(rows))
	}

	dist, err := distribution(perRespondent)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize answers: %w", err)
	}
	summary.Answered = dist
	return summary, nil
}

func distribution(data stats.Float64Data) (Distribution, error) {
	var (
		d   Distribution
		err error
	)
	if d.Mean, err = stats.Mean(data); err != nil {
		return d, err
	}
	if d.Median, err = stats.Median(data); err != nil {
		return d, err
	}
	if d.Min, err = stats.Min(data); err != nil {
		return d, err
	}
	if d.Max, err = stats.Max(data); err != nil {
		return d, err
	}
	return d, nil
}

// Render formats the summary as a bordered terminal table
func Render(s Summary) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Question", "Options", "Answered", "Rate")
	for _, q := range s.Questions {
		t.Row(q.Label, strconv.Itoa(q.Options), strconv.Itoa(q.Answered), fmt.Sprintf("%.0f%%", q.ResponseRate*100))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Respondents: %d\n", s.Respondents)
	b.WriteString(t.String())
	b.WriteString("\n")
	fmt.Fprintf(&b, "Questions answered per respondent: mean %.2f, median %.1f, min %.0f, max %.0f\n",
		s.Answered.Mean, s.Answered.Median, s.Answered.Min, s.Answered.Max)
	return b.String()
}
