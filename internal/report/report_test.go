package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyconv/domain/survey"
)

func questions() []survey.CollapsedQuestion {
	return []survey.CollapsedQuestion{
		{QuestionGroup: survey.QuestionGroup{Label: "Q1 (Sub1)", Start: 0, Width: 2}, Answers: []string{"A1", "A2"}},
		{QuestionGroup: survey.QuestionGroup{Label: "Q2", Start: 2, Width: 1}, Answers: []string{survey.OpenEndedResponse}},
	}
}

func TestSummarize(t *testing.T) {
	output := survey.Table{
		{"Q1 (Sub1)", "Q2"},
		{"A1,A2", "text"},
		{"A1", ""},
		{"", ""},
		{"A2", "more"},
	}

	summary, err := Summarize(questions(), output)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Respondents)
	assert.Equal(t, QuestionStats{Label: "Q1 (Sub1)", Options: 2, Answered: 3, ResponseRate: 0.75}, summary.Questions[0])
	assert.Equal(t, QuestionStats{Label: "Q2", Options: 1, Answered: 2, ResponseRate: 0.5}, summary.Questions[1])
	assert.Equal(t, Distribution{Mean: 1.25, Median: 1.5, Min: 0, Max: 2}, summary.Answered)
}

func TestSummarize_NoRespondents(t *testing.T) {
	summary, err := Summarize(questions(), survey.Table{{"Q1 (Sub1)", "Q2"}})
	require.NoError(t, err)

	assert.Zero(t, summary.Respondents)
	assert.Zero(t, summary.Questions[0].ResponseRate)
	assert.Equal(t, Distribution{}, summary.Answered)
}

func TestRender(t *testing.T) {
	summary, err := Summarize(questions(), survey.Table{{"Q1 (Sub1)", "Q2"}, {"A1", ""}})
	require.NoError(t, err)

	out := Render(summary)
	assert.Contains(t, out, "Respondents: 1")
	assert.Contains(t, out, "Q1 (Sub1)")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "mean 1.00")
}
