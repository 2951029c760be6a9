package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/aepdoc/internal/aep"
	"github.com/conduit-lang/aepdoc/internal/cli/ui"
	"github.com/conduit-lang/aepdoc/internal/openapi"
	"github.com/conduit-lang/aepdoc/internal/schema"
)

var inspectService string

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [schema]",
		Short: "Show the metadata derived for each service",
		Long: `Print the resources, tags and operations derived from the schema.

Operations that could not be classified or whose resource could not be
resolved are listed with a '-' route.

Examples:
  aepdoc inspect
  aepdoc inspect api/library.yaml --service Library`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeSchemaFiles,
		RunE:              runInspect,
	}

	cmd.Flags().StringVarP(&inspectService, "service", "s", "", "Only show the named service")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	p, err := runPipeline(cmd, args)
	if err != nil {
		return err
	}
	defer p.logger.Sync()

	out := cmd.OutOrStdout()
	shown := 0
	for _, svc := range p.program.Services {
		if inspectService != "" && svc.Name != inspectService {
			continue
		}
		if shown > 0 {
			fmt.Fprintln(out)
		}
		renderService(out, svc, p.state)
		shown++
	}

	if shown == 0 && inspectService != "" {
		return fmt.Errorf("service '%s' not found", inspectService)
	}
	return nil
}

func renderService(w io.Writer, svc *schema.Service, state *aep.State) {
	ui.Header(w, svc.Name, noColor)

	tags := state.Tags(svc)
	tagNames := make([]string, 0, len(tags))
	for _, t := range tags {
		tagNames = append(tagNames, t.Name)
	}

	resources := ui.NewResourceList(w, noColor)
	for _, m := range svc.Models {
		if ext, ok := state.Resource(m); ok {
			resources.Add(ext.Type, ext.Patterns)
		}
	}

	table := ui.NewOperationTable(w, noColor)
	classified := 0
	for _, iface := range svc.Interfaces {
		for _, op := range iface.Operations {
			row := ui.OperationRow{ID: iface.Name + "." + op.Name, Kind: "-", Route: "-", Tag: "-", Summary: state.Summary(op)}
			if doc, ok := state.Operation(op); ok {
				classified++
				if doc.ID != "" {
					row.ID = doc.ID
				}
				row.Kind = string(doc.Kind)
				row.Route = routeOf(op, doc, state)
				row.Tag = orDash(doc.Tag)
			}
			table.Add(row)
		}
	}

	info := ui.NewFields(w, noColor)
	info.Add("Title", svc.Title)
	info.Add("Version", svc.Version)
	info.Add("Tags", strings.Join(tagNames, ", "))
	info.Add("Operations", fmt.Sprintf("%d classified", classified))
	info.Render()
	fmt.Fprintln(w)

	resources.Render()
	table.Render()
}

func routeOf(op *schema.Operation, doc *aep.OperationDoc, state *aep.State) string {
	if doc.Resource == nil {
		return "-"
	}
	ext, _ := state.Resource(doc.Resource)
	route, err := openapi.RouteFor(doc.Kind, openapi.ActionName(op), state.Pattern(doc.Resource), ext.Singular)
	if err != nil {
		return "-"
	}
	return route.Key()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
