package commands

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/aepdoc/internal/cli/ui"
	"github.com/conduit-lang/aepdoc/internal/errors"
	"github.com/conduit-lang/aepdoc/internal/openapi"
)

var validateJSON bool

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [schema]",
		Short: "Check a schema without writing documents",
		Long: `Load the schema, derive resource metadata and validate the resulting
OpenAPI documents. Nothing is written.

With --json, diagnostics are printed as a JSON array on standard output.

Examples:
  aepdoc validate
  aepdoc validate api/library.yaml --json`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeSchemaFiles,
		RunE:              runValidate,
	}

	cmd.Flags().BoolVar(&validateJSON, "json", false, "Print diagnostics as JSON")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	err := validateSchema(cmd, args)
	if !validateJSON {
		return err
	}

	list := diagnosticsOf(err)
	if err != nil && list == nil {
		// not a diagnostic: configuration or I/O failure
		return err
	}
	if list == nil {
		list = errors.List{}
	}
	out, jsonErr := list.ToJSON()
	if jsonErr != nil {
		return jsonErr
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func validateSchema(cmd *cobra.Command, args []string) error {
	p, err := runPipeline(cmd, args)
	if err != nil {
		return err
	}
	defer p.logger.Sync()

	var failures errors.List
	for _, d := range p.emitter().EmitProgram(p.program) {
		if err := openapi.Validate(cmd.Context(), d.Service.Name, d.Doc); err != nil {
			failures = append(failures, diagnosticsOf(err)...)
			continue
		}
		if !validateJSON {
			ui.WriteSuccess(cmd.OutOrStdout(),
				fmt.Sprintf("%s: %d resources, %d operations", d.Service.Name,
					countResources(d), countOperations(d)), noColor)
		}
	}
	return failures.Err()
}

// diagnosticsOf extracts the diagnostics carried by err, or nil
func diagnosticsOf(err error) errors.List {
	if err == nil {
		return nil
	}
	var list errors.List
	if stderrors.As(err, &list) {
		return list
	}
	var d *errors.Diagnostic
	if stderrors.As(err, &d) {
		return errors.List{d}
	}
	return nil
}

func countOperations(d openapi.Document) int {
	n := 0
	for _, item := range d.Doc.Paths.Map() {
		n += len(item.Operations())
	}
	return n
}

func countResources(d openapi.Document) int {
	n := 0
	for _, ref := range d.Doc.Components.Schemas {
		if _, ok := ref.Value.Extensions[openapi.ResourceExtension]; ok {
			n++
		}
	}
	return n
}
