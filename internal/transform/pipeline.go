package transform

import "surveyconv/domain/survey"

// Convert runs both passes in memory
func Convert(table survey.Table) (survey.Table, error) {
	normalized, err := Normalize(table)
	if err != nil {
		return nil, err
	}
	return Collapse(normalized)
}
