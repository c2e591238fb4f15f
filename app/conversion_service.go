package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"surveyconv/domain/survey"
	"surveyconv/internal/errors"
	"surveyconv/internal/logging"
	"surveyconv/internal/report"
	"surveyconv/internal/transform"
	"surveyconv/ports"
)

// ConversionService turns expanded survey exports into collapsed tables
type ConversionService struct {
	reader           ports.TableReader
	writer           ports.TableWriter
	store            ports.ArtifactStore
	keepIntermediate bool
	logger           logging.Logger
}

// ConversionOption configures a ConversionService
type ConversionOption func(*ConversionService)

// WithArtifactStore persists the normalized table between the two passes.
// The collapse pass then reads its input back from the stored artifact.
func WithArtifactStore(store ports.ArtifactStore, keep bool) ConversionOption {
	return func(s *ConversionService) {
		s.store = store
		s.keepIntermediate = keep
	}
}

// WithLogger sets the service logger
func WithLogger(logger logging.Logger) ConversionOption {
	return func(s *ConversionService) {
		s.logger = logger
	}
}

// NewConversionService creates a conversion service
func NewConversionService(reader ports.TableReader, writer ports.TableWriter, opts ...ConversionOption) *ConversionService {
	s := &ConversionService{
		reader: reader,
		writer: writer,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "converter")
	return s
}

// ConvertRequest names one input and one output file
type ConvertRequest struct {
	Input  string
	Output string
}

// ConvertResult describes a finished conversion
type ConvertResult struct {
	Input            string
	Output           string
	InputRows        int
	InputColumns     int
	Questions        []survey.CollapsedQuestion
	IntermediatePath string // set only when the artifact was kept
	Summary          report.Summary
	Duration         time.Duration
}

// Convert reads req.Input, normalizes and collapses it, and writes req.Output
func (s *ConversionService) Convert(ctx context.Context, req ConvertRequest) (*ConvertResult, error) {
	start := time.Now()
	log := s.logger.With("input", req.Input)

	// Step 1: Load the expanded export
	input, err := s.reader.Read(ctx, req.Input)
	if err != nil {
		return nil, err
	}
	log.Debug("input loaded", "rows", len(input), "columns", input.Width())

	// Step 2: Rewrite the two header rows
	normalized, err := transform.Normalize(input)
	if err != nil {
		return nil, errors.FromTransform(req.Input, err)
	}

	// Step 3: Optionally round-trip the intermediate table through storage
	result := &ConvertResult{
		Input:        req.Input,
		Output:       req.Output,
		InputRows:    len(input),
		InputColumns: input.Width(),
	}
	if s.store != nil {
		path, err := s.store.Save(ctx, req.Output, normalized)
		if err != nil {
			return nil, err
		}
		defer s.releaseArtifact(path, result, log)

		if normalized, err = s.store.Load(ctx, path); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 4: Fold answer columns into one cell per question
	questions, err := transform.Questions(normalized)
	if err != nil {
		return nil, errors.FromTransform(req.Input, err)
	}
	collapsed, err := transform.Collapse(normalized)
	if err != nil {
		return nil, errors.FromTransform(req.Input, err)
	}
	result.Questions = questions

	// Step 5: Store the collapsed table
	if err := s.writer.Write(ctx, req.Output, collapsed); err != nil {
		return nil, err
	}

	summary, err := report.Summarize(questions, collapsed)
	if err != nil {
		return nil, errors.Wrapf(err, "summarize %s", req.Input)
	}
	result.Summary = summary
	result.Duration = time.Since(start)

	log.Info("survey converted",
		"output", req.Output,
		"respondents", summary.Respondents,
		"questions", len(questions),
		"elapsed", result.Duration)
	return result, nil
}

// releaseArtifact deletes the intermediate artifact unless it must be kept.
// It runs on success and failure alike.
func (s *ConversionService) releaseArtifact(path string, result *ConvertResult, log logging.Logger) {
	if s.keepIntermediate {
		result.IntermediatePath = path
		log.Info("intermediate table kept", "path", path)
		return
	}
	// Cleanup must not depend on a context that may already be cancelled.
	if err := s.store.Delete(context.Background(), path); err != nil {
		log.Warn("failed to delete intermediate table", "path", path, "error", err)
	}
}

// BatchOutputPath is the output path used for input by ConvertBatch
func BatchOutputPath(outputDir, input string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	return filepath.Join(outputDir, fmt.Sprintf("%s_collapsed%s", strings.TrimSuffix(base, ext), ext))
}

// ConvertBatch converts independent files concurrently, at most workers at
// a time. The first failure cancels conversions that have not started.
// Results are returned in input order.
func (s *ConversionService) ConvertBatch(ctx context.Context, outputDir string, inputs []string, workers int) ([]*ConvertResult, error) {
	if workers < 1 {
		return nil, errors.InvalidInput("workers must be at least 1")
	}
	outputs := make(map[string]string, len(inputs))
	for _, in := range inputs {
		out := BatchOutputPath(outputDir, in)
		if prev, dup := outputs[out]; dup {
			return nil, errors.InvalidInput(fmt.Sprintf("%s and %s would both be written to %s", prev, in, out))
		}
		outputs[out] = in
	}

	results := make([]*ConvertResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Convert(gctx, ConvertRequest{Input: in, Output: BatchOutputPath(outputDir, in)})
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	s.logger.Info("batch converted", "files", len(inputs), "workers", workers)
	return results, nil
}
