package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"surveyconv/internal/errors"
)

// Config represents the complete converter configuration
type Config struct {
	Input        InputConfig
	Intermediate IntermediateConfig
	Batch        BatchConfig
	Log          LogConfig
	Output       OutputConfig
}

// InputConfig holds spreadsheet reading settings
type InputConfig struct {
	// Sheet selects the XLSX worksheet; empty means the first sheet
	Sheet string
}

// IntermediateConfig controls persistence of the normalized table
type IntermediateConfig struct {
	Dir  string
	Keep bool
}

// BatchConfig holds multi-file conversion settings
type BatchConfig struct {
	Workers int `validate:"min=1,max=64"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `validate:"oneof=debug info warn error disabled"`
	JSON  bool
}

// OutputConfig holds output rendering settings
type OutputConfig struct {
	Summary bool
}

// Environment variable names
const (
	EnvSheet            = "SURVEYCONV_SHEET"
	EnvIntermediateDir  = "SURVEYCONV_INTERMEDIATE_DIR"
	EnvKeepIntermediate = "SURVEYCONV_KEEP_INTERMEDIATE"
	EnvBatchWorkers     = "SURVEYCONV_BATCH_WORKERS"
	EnvLogLevel         = "SURVEYCONV_LOG_LEVEL"
	EnvLogJSON          = "SURVEYCONV_LOG_JSON"
	EnvSummary          = "SURVEYCONV_SUMMARY"
)

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Batch: BatchConfig{Workers: 4},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads an optional env file, then SURVEYCONV_* variables. The result
// is not validated; call Validate after applying flag overrides.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, &errors.AppError{Code: errors.CodeConfigInvalid, Message: "load " + envFile, Cause: err}
		}
	} else {
		// A missing .env in the working directory is normal.
		_ = godotenv.Load()
	}

	def := Default()
	var p envParser
	cfg := &Config{
		Input: InputConfig{
			Sheet: getEnvOrDefault(EnvSheet, def.Input.Sheet),
		},
		Intermediate: IntermediateConfig{
			Dir:  getEnvOrDefault(EnvIntermediateDir, def.Intermediate.Dir),
			Keep: p.boolOrDefault(EnvKeepIntermediate, def.Intermediate.Keep),
		},
		Batch: BatchConfig{
			Workers: p.intOrDefault(EnvBatchWorkers, def.Batch.Workers),
		},
		Log: LogConfig{
			Level: getEnvOrDefault(EnvLogLevel, def.Log.Level),
			JSON:  p.boolOrDefault(EnvLogJSON, def.Log.JSON),
		},
		Output: OutputConfig{
			Summary: p.boolOrDefault(EnvSummary, def.Output.Summary),
		},
	}
	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ConfigInvalid(err.Error()), "configuration validation failed")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envParser keeps the first malformed variable it meets
type envParser struct {
	err error
}

func (p *envParser) intOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return intValue
}

func (p *envParser) boolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return boolValue
}

func (p *envParser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = &errors.AppError{
			Code:    errors.CodeConfigInvalid,
			Message: fmt.Sprintf("invalid %s=%q", key, value),
			Cause:   err,
		}
	}
}
