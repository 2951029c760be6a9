package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/aepdoc/internal/cli/ui"
	"github.com/conduit-lang/aepdoc/internal/openapi"
)

var (
	generateOutput       string
	generateFormat       string
	generateSkipValidate bool
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [schema]",
		Aliases: []string{"g", "gen"},
		Short:   "Generate OpenAPI documents",
		Long: `Generate one OpenAPI 3 document per service declared in the schema.

The schema path defaults to the 'schema' key of aepdoc.yaml. Documents are
validated before they are written unless --skip-validate is given.

Examples:
  aepdoc generate
  aepdoc generate api/library.yaml --format yaml
  aepdoc generate -o docs/openapi`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeSchemaFiles,
		RunE:              runGenerate,
	}

	cmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output directory (default: output.path from aepdoc.yaml)")
	cmd.Flags().StringVarP(&generateFormat, "format", "f", "", "Output format: json or yaml (default: output.format from aepdoc.yaml)")
	cmd.Flags().BoolVar(&generateSkipValidate, "skip-validate", false, "Write documents without validating them")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start := time.Now()

	p, err := runPipeline(cmd, args)
	if err != nil {
		return err
	}
	defer p.logger.Sync()

	format := p.cfg.Output.Format
	if generateFormat != "" {
		format = generateFormat
	}
	f, err := openapi.ParseFormat(format)
	if err != nil {
		return err
	}

	dir := p.cfg.OutputPath()
	if generateOutput != "" {
		dir = generateOutput
	}

	out := cmd.OutOrStdout()
	for _, d := range p.emitter().EmitProgram(p.program) {
		if !generateSkipValidate {
			if err := openapi.Validate(cmd.Context(), d.Service.Name, d.Doc); err != nil {
				return err
			}
		}

		path, err := openapi.WriteFile(dir, d, f)
		if err != nil {
			return err
		}
		p.logger.Debug("document written", zap.String("service", d.Service.Name), zap.String("path", path))
		ui.WriteSuccess(out, fmt.Sprintf("%s → %s (%d paths)", d.Service.Name, path, d.Doc.Paths.Len()), noColor)
	}

	fmt.Fprintf(out, "Generated %d document(s) in %s\n", len(p.program.Services), time.Since(start).Round(time.Millisecond))
	return nil
}
