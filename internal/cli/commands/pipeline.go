package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/aepdoc/internal/aep"
	"github.com/conduit-lang/aepdoc/internal/cli/config"
	"github.com/conduit-lang/aepdoc/internal/openapi"
	"github.com/conduit-lang/aepdoc/internal/schema"
)

var (
	configPath string
	verbose    bool
	noColor    bool
)

// configError marks failures to load or validate aepdoc.yaml
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// pipeline holds the loaded schema and the derived metadata
type pipeline struct {
	cfg     *config.Config
	logger  *zap.Logger
	program *schema.Program
	state   *aep.State
}

// loadConfig reads the configuration. A positional schema argument replaces
// the configured schema path.
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, &configError{err: err}
	}
	if len(args) > 0 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to resolve schema path: %w", err)
		}
		cfg.Schema = abs
	}
	return cfg, nil
}

// runPipeline loads the schema and runs the metadata pass
func runPipeline(cmd *cobra.Command, args []string) (*pipeline, error) {
	cfg, err := loadConfig(args)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log.Level, verbose)
	if err != nil {
		return nil, &configError{err: err}
	}

	path := cfg.SchemaPath()
	logger.Debug("loading schema", zap.String("path", path))
	program, err := schema.Load(path)
	if err != nil {
		return nil, err
	}

	state, err := aep.Run(program, aep.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &pipeline{cfg: cfg, logger: logger, program: program, state: state}, nil
}

// emitter builds an emitter configured from aepdoc.yaml
func (p *pipeline) emitter() *openapi.Emitter {
	return openapi.NewEmitter(p.state,
		openapi.WithServer(p.cfg.Server.URL, p.cfg.Server.Description),
		openapi.WithVersion(p.cfg.API.Version),
		openapi.WithLogger(p.logger),
	)
}

// newLogger builds a development logger for debugging and a console
// production logger otherwise
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	if verbose || level == "debug" {
		return zap.NewDevelopment()
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	cfg.Sampling = nil
	return cfg.Build()
}
