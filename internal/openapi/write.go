package openapi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/aepdoc/internal/schema"
	ustrings "github.com/conduit-lang/aepdoc/internal/util/strings"
)

// Format is an output encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml and yml
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected json or yaml)", s)
	}
}

// Document is the emitted document of one service
type Document struct {
	Service *schema.Service
	Doc     *openapi3.T
}

// EmitProgram emits one document per service, ordered by service name
func (e *Emitter) EmitProgram(program *schema.Program) []Document {
	docs := make([]Document, 0, len(program.Services))
	for _, svc := range program.Services {
		docs = append(docs, Document{Service: svc, Doc: e.Emit(svc)})
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Service.Name < docs[j].Service.Name
	})
	return docs
}

// Marshal encodes a document. YAML output keeps the key order of the JSON
// encoding.
func Marshal(doc *openapi3.T, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if format == FormatJSON {
		return append(data, '\n'), nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to convert document to YAML: %w", err)
	}
	clearStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document as YAML: %w", err)
	}
	return out, nil
}

// clearStyle drops the flow and quoting styles inherited from JSON. The
// encoder still quotes strings that would otherwise resolve to another type.
func clearStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		clearStyle(child)
	}
}

// FileName returns the output file name of a service document
func FileName(svc *schema.Service, format Format) string {
	return ustrings.Slug(ustrings.ToSnakeCase(svc.Name)) + ".openapi." + string(format)
}

// WriteFile writes a document into dir and returns the written path
func WriteFile(dir string, d Document, format Format) (string, error) {
	data, err := Marshal(d.Doc, format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, FileName(d.Service, format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
