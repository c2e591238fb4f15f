package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"surveyconv/adapters/excel"
	"surveyconv/app"
	"surveyconv/internal/config"
	"surveyconv/internal/dataset"
	"surveyconv/internal/errors"
	"surveyconv/internal/logging"
	"surveyconv/internal/report"
	"surveyconv/internal/version"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := &cli{fs: afero.NewOsFs(), stdout: stdout, stderr: stderr}
	rootCmd := c.newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "surveyconv: %v\n", err)
		if errors.GetCode(err) == "UNKNOWN" {
			fmt.Fprintln(stderr, "Run 'surveyconv --help' for usage.")
		}
		return errors.ExitCode(err)
	}
	return errors.ExitOK
}

// cli carries state shared by the commands of one invocation
type cli struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer

	cfg    *config.Config
	logger logging.Logger

	envFile          string
	sheet            string
	intermediateDir  string
	keepIntermediate bool
	summary          bool
	logLevel         string
	logJSON          bool
	workers          int
}

func (c *cli) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "surveyconv <input_file> <output_file>",
		Short: "Convert a survey monkey expanded export to one column per question",
		Long: `Convert a survey monkey "expanded" export (two header rows, one column per
answer option) into a collapsed table with one column per question. Selected
answers of a question are joined with commas; open-ended responses are kept
verbatim. Matrix questions become one column per subquestion, labelled
"Question (Subquestion)".

Input and output may be .csv or .xlsx files.

Example: surveyconv export.csv collapsed.csv --summary`,
		Version:           version.Version,
		Args:              cobra.ExactArgs(2),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], args[1])
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.envFile, "env-file", "", "Read SURVEYCONV_* settings from this env file")
	flags.StringVar(&c.sheet, "sheet", "", "Worksheet to read and write for .xlsx files (default: first sheet)")
	flags.StringVar(&c.intermediateDir, "intermediate-dir", "", "Persist the normalized table in this directory between passes")
	flags.BoolVar(&c.keepIntermediate, "keep-intermediate", false, "Keep the normalized table instead of deleting it")
	flags.BoolVar(&c.summary, "summary", false, "Print a per-question response summary")
	flags.StringVar(&c.logLevel, "log-level", "info", "Log level: debug|info|warn|error|disabled")
	flags.BoolVar(&c.logJSON, "log-json", false, "Write logs as JSON")

	info := version.Get()
	rootCmd.SetVersionTemplate(fmt.Sprintf("surveyconv version %s (commit %s, built %s)\n",
		info.Version, info.CommitHash, info.BuildDate))

	rootCmd.AddCommand(c.newBatchCmd())
	return rootCmd
}

func (c *cli) newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <output_dir> <input_file>...",
		Short: "Convert several exports concurrently",
		Long: `Convert each input file into <output_dir>/<name>_collapsed.<ext>.

Example: surveyconv batch out/ wave1.csv wave2.xlsx --workers 2`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), args[0], args[1:])
		},
	}
	cmd.Flags().IntVar(&c.workers, "workers", 4, "Maximum number of files converted at once")
	return cmd
}

// setup loads configuration, applies explicit flags over it and builds the logger
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.envFile)
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if changed("sheet") {
		cfg.Input.Sheet = c.sheet
	}
	if changed("intermediate-dir") {
		cfg.Intermediate.Dir = c.intermediateDir
	}
	if changed("keep-intermediate") {
		cfg.Intermediate.Keep = c.keepIntermediate
	}
	if changed("summary") {
		cfg.Output.Summary = c.summary
	}
	if changed("log-level") {
		cfg.Log.Level = c.logLevel
	}
	if changed("log-json") {
		cfg.Log.JSON = c.logJSON
	}
	if changed("workers") {
		cfg.Batch.Workers = c.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logging.NewLogger(&logging.Config{
		Level:      logging.ParseLevel(cfg.Log.Level),
		Output:     c.stderr,
		JSON:       cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})
	return nil
}

func (c *cli) service() *app.ConversionService {
	excelCfg := excel.Config{Sheet: c.cfg.Input.Sheet}
	opts := []app.ConversionOption{app.WithLogger(c.logger)}
	if c.cfg.Intermediate.Dir != "" {
		store := dataset.NewLocalArtifactStore(c.fs, dataset.StorageConfig{BasePath: c.cfg.Intermediate.Dir}, c.logger)
		opts = append(opts, app.WithArtifactStore(store, c.cfg.Intermediate.Keep))
	}
	return app.NewConversionService(
		excel.NewDataReader(c.fs, excelCfg, c.logger),
		excel.NewDataWriter(c.fs, excelCfg, c.logger),
		opts...,
	)
}

func (c *cli) runConvert(ctx context.Context, input, output string) error {
	res, err := c.service().Convert(ctx, app.ConvertRequest{Input: input, Output: output})
	if err != nil {
		return err
	}
	c.printResult(res)
	return nil
}

func (c *cli) runBatch(ctx context.Context, outputDir string, inputs []string) error {
	results, err := c.service().ConvertBatch(ctx, outputDir, inputs, c.cfg.Batch.Workers)
	if err != nil {
		return err
	}
	for _, res := range results {
		c.printResult(res)
	}
	return nil
}

func (c *cli) printResult(res *app.ConvertResult) {
	if res.IntermediatePath != "" {
		fmt.Fprintf(c.stdout, "Intermediate table: %s\n", res.IntermediatePath)
	}
	if c.cfg.Output.Summary {
		fmt.Fprintf(c.stdout, "%s -> %s\n", res.Input, res.Output)
		fmt.Fprint(c.stdout, report.Render(res.Summary))
	}
}
