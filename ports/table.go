package ports

import (
	"context"

	"surveyconv/domain/survey"
)

// TableReader loads a whole spreadsheet file into memory
type TableReader interface {
	Read(ctx context.Context, path string) (survey.Table, error)
}

// TableWriter stores a table, replacing any existing file at path
type TableWriter interface {
	Write(ctx context.Context, path string, table survey.Table) error
}

// ArtifactStore persists intermediate tables between conversion stages
type ArtifactStore interface {
	Save(ctx context.Context, name string, table survey.Table) (string, error)
	Load(ctx context.Context, path string) (survey.Table, error)
	Delete(ctx context.Context, path string) error
}
