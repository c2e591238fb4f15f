package app

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"surveyconv/adapters/excel"
	"surveyconv/domain/survey"
	"surveyconv/internal/dataset"
	"surveyconv/internal/errors"
)

const exportCSV = `Respondent ID,What do you use?,,,How satisfied are you?,,,,Comments
,Home - Laptop,Home - Phone,Work - Laptop,Price - Good,Price - Bad,Support - Good,Support - Bad,Open-Ended Response
1001,x,,x,x,,,x,"fast, cheap"
1002,,x,,,x,x,,
`

func newFixture(t *testing.T) (afero.Fs, *excel.DataReader, *excel.DataWriter) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/export.csv", []byte(exportCSV), 0o644))
	return fs, excel.NewDataReader(fs, excel.DefaultConfig(), nil), excel.NewDataWriter(fs, excel.DefaultConfig(), nil)
}

func readOutput(t *testing.T, fs afero.Fs, path string) survey.Table {
	t.Helper()
	table, err := excel.NewDataReader(fs, excel.DefaultConfig(), nil).Read(context.Background(), path)
	require.NoError(t, err)
	return table
}

var wantCollapsed = survey.Table{
	{"Respondent ID", "What do you use? (Home)", "What do you use? (Work)", "How satisfied are you? (Price)", "How satisfied are you? (Support)", "Comments"},
	{"1001", "Laptop", "Laptop", "Good", "Bad", "fast, cheap"},
	{"1002", "Phone", "", "Bad", "Good", ""},
}

func TestConversionService_Convert(t *testing.T) {
	fs, reader, writer := newFixture(t)
	svc := NewConversionService(reader, writer)

	res, err := svc.Convert(context.Background(), ConvertRequest{Input: "/in/export.csv", Output: "/out/collapsed.csv"})
	require.NoError(t, err)

	assert.Equal(t, wantCollapsed, readOutput(t, fs, "/out/collapsed.csv"))
	assert.Equal(t, 4, res.InputRows)
	assert.Equal(t, 9, res.InputColumns)
	require.Len(t, res.Questions, 6)
	assert.Equal(t, []string{"Good", "Bad", "Good", "Bad"}, append(res.Questions[3].Answers, res.Questions[4].Answers...))
	assert.Equal(t, 2, res.Summary.Respondents)
	assert.Empty(t, res.IntermediatePath)
}

func TestConversionService_XLSXOutput(t *testing.T) {
	fs, reader, writer := newFixture(t)
	svc := NewConversionService(reader, writer)

	_, err := svc.Convert(context.Background(), ConvertRequest{Input: "/in/export.csv", Output: "/out/collapsed.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, wantCollapsed, readOutput(t, fs, "/out/collapsed.xlsx"))
}

func TestConversionService_IntermediateArtifact(t *testing.T) {
	t.Run("Should delete the artifact after a successful run", func(t *testing.T) {
		fs, reader, writer := newFixture(t)
		store := dataset.NewLocalArtifactStore(fs, dataset.StorageConfig{BasePath: "/work"}, nil)
		svc := NewConversionService(reader, writer, WithArtifactStore(store, false))

		res, err := svc.Convert(context.Background(), ConvertRequest{Input: "/in/export.csv", Output: "/out/collapsed.csv"})
		require.NoError(t, err)

		assert.Empty(t, res.IntermediatePath)
		entries, err := afero.ReadDir(fs, "/work")
		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.Equal(t, wantCollapsed, readOutput(t, fs, "/out/collapsed.csv"))
	})

	t.Run("Should keep the normalized artifact when asked", func(t *testing.T) {
		fs, reader, writer := newFixture(t)
		store := dataset.NewLocalArtifactStore(fs, dataset.StorageConfig{BasePath: "/work"}, nil)
		svc := NewConversionService(reader, writer, WithArtifactStore(store, true))

		res, err := svc.Convert(context.Background(), ConvertRequest{Input: "/in/export.csv", Output: "/out/collapsed.csv"})
		require.NoError(t, err)
		require.NotEmpty(t, res.IntermediatePath)

		artifact := readOutput(t, fs, res.IntermediatePath)
		assert.Equal(t, survey.Row{"Respondent ID", "What do you use? (Home)", "", "What do you use? (Work)",
			"How satisfied are you? (Price)", "", "How satisfied are you? (Support)", "", "Comments"}, artifact[0])
		assert.Equal(t, survey.Row{"", "Laptop", "Phone", "Laptop", "Good", "Bad", "Good", "Bad", survey.OpenEndedResponse}, artifact[1])
		assert.Len(t, artifact, 4)
	})

	t.Run("Should delete the artifact when collapsing fails", func(t *testing.T) {
		fs, reader, writer := newFixture(t)
		require.NoError(t, afero.WriteFile(fs, "/in/short.csv", []byte("Q1,\nA - x,A - y\n1\n"), 0o644))
		store := dataset.NewLocalArtifactStore(fs, dataset.StorageConfig{BasePath: "/work"}, nil)
		svc := NewConversionService(reader, writer, WithArtifactStore(store, false))

		_, err := svc.Convert(context.Background(), ConvertRequest{Input: "/in/short.csv", Output: "/out/short.csv"})
		require.Error(t, err)

		entries, err := afero.ReadDir(fs, "/work")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestConversionService_Errors(t *testing.T) {
	t.Run("Should report malformed input with the file name", func(t *testing.T) {
		fs, reader, writer := newFixture(t)
		require.NoError(t, afero.WriteFile(fs, "/in/bad.csv", []byte(",Q1\nA,B\n"), 0o644))
		svc := NewConversionService(reader, writer)

		_, err := svc.Convert(context.Background(), ConvertRequest{Input: "/in/bad.csv", Output: "/out/bad.csv"})
		require.Error(t, err)

		assert.Equal(t, errors.CodeMalformedInput, errors.GetCode(err))
		assert.True(t, stderrors.Is(err, survey.ErrMalformedInput))
		assert.Contains(t, err.Error(), "/in/bad.csv")
		exists, _ := afero.Exists(fs, "/out/bad.csv")
		assert.False(t, exists)
	})

	t.Run("Should report a missing input as an IO error", func(t *testing.T) {
		_, reader, writer := newFixture(t)
		svc := NewConversionService(reader, writer)

		_, err := svc.Convert(context.Background(), ConvertRequest{Input: "/in/none.csv", Output: "/out/none.csv"})
		require.Error(t, err)
		assert.Equal(t, errors.CodeIOError, errors.GetCode(err))
	})
}

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) Write(ctx context.Context, path string, table survey.Table) error {
	args := m.Called(ctx, path, table)
	return args.Error(0)
}

func TestConversionService_WriterFailure(t *testing.T) {
	_, reader, _ := newFixture(t)
	writer := &mockWriter{}
	writeErr := errors.IOError("write", "/out/x.csv", stderrors.New("disk full"))
	writer.On("Write", mock.Anything, "/out/x.csv", wantCollapsed).Return(writeErr)
	svc := NewConversionService(reader, writer)

	_, err := svc.Convert(context.Background(), ConvertRequest{Input: "/in/export.csv", Output: "/out/x.csv"})
	require.ErrorIs(t, err, writeErr)
	writer.AssertExpectations(t)
}

func TestConversionService_ConvertBatch(t *testing.T) {
	t.Run("Should convert every input in order", func(t *testing.T) {
		fs, reader, writer := newFixture(t)
		require.NoError(t, afero.WriteFile(fs, "/in/second.csv", []byte(exportCSV), 0o644))
		svc := NewConversionService(reader, writer)

		results, err := svc.ConvertBatch(context.Background(), "/out", []string{"/in/export.csv", "/in/second.csv"}, 2)
		require.NoError(t, err)

		require.Len(t, results, 2)
		assert.Equal(t, "/out/export_collapsed.csv", results[0].Output)
		assert.Equal(t, "/out/second_collapsed.csv", results[1].Output)
		assert.Equal(t, wantCollapsed, readOutput(t, fs, "/out/second_collapsed.csv"))
	})

	t.Run("Should reject inputs that map to the same output", func(t *testing.T) {
		_, reader, writer := newFixture(t)
		svc := NewConversionService(reader, writer)

		_, err := svc.ConvertBatch(context.Background(), "/out", []string{"/a/export.csv", "/b/export.csv"}, 2)
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	})

	t.Run("Should return the first failure", func(t *testing.T) {
		_, reader, writer := newFixture(t)
		svc := NewConversionService(reader, writer)

		_, err := svc.ConvertBatch(context.Background(), "/out", []string{"/in/export.csv", "/in/missing.csv"}, 1)
		require.Error(t, err)
		assert.Equal(t, errors.CodeIOError, errors.GetCode(err))
	})

	t.Run("Should reject a non-positive worker count", func(t *testing.T) {
		_, reader, writer := newFixture(t)
		_, err := NewConversionService(reader, writer).ConvertBatch(context.Background(), "/out", nil, 0)
		assert.Error(t, err)
	})
}

func TestBatchOutputPath(t *testing.T) {
	assert.Equal(t, "out/results_collapsed.xlsx", BatchOutputPath("out", "/data/results.xlsx"))
}
