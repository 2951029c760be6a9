package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const librarySchema = `
templates:
  - name: ResourceOperations
    operations:
      - {name: get, op: read}
      - {name: list, op: list}
      - {name: create, op: create}
      - {name: update, op: update}
      - {name: delete, op: delete}
      - {name: apply, op: createOrReplace}

services:
  - name: Library
    namespace: library
    title: Library API
    version: 2.1.0
    models:
      - name: Publisher
        doc: A publishing house.
        resource: {type: library.example.com/publisher}
        fields:
          - {name: id, type: string, key: true}
          - {name: path, type: string}
      - name: Book
        parent: Publisher
        resource: {type: library.example.com/book}
        fields:
          - {name: id, type: string, key: true}
          - {name: path, type: string}
          - {name: title, type: string}
    interfaces:
      - name: Publishers
        template: ResourceOperations
        resource: Publisher
      - name: Books
        template: ResourceOperations
        resource: Book
      - name: BookActions
        operations:
          - {name: archive, action: archive}
          - {name: get, op: read, resource: Book}
          - {name: export, collection_action: export}
      - name: Orphans
        operations:
          - {name: health}
`

// inTempProject switches to a fresh directory holding schema.yaml
func inTempProject(t *testing.T, schema string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "schema.yaml"), []byte(schema), 0644); err != nil {
		t.Fatal(err)
	}
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "aepdoc" {
		t.Errorf("expected Use to be 'aepdoc', got %s", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("expected Short and Long descriptions to be set")
	}

	for _, expected := range []string{"version", "generate", "inspect", "validate", "completion"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected command %s to be registered", expected)
		}
	}

	for _, flag := range []string{"config", "verbose", "no-color"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent flag --%s", flag)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	GoVersion = "go1.23"
	defer func() { Version, GitCommit, GoVersion = "dev", "unknown", "unknown" }()

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, exp := range []string{"aepdoc version:", "1.0.0-test", "abc123", "go1.23"} {
		if !strings.Contains(out, exp) {
			t.Errorf("version output missing %q:\n%s", exp, out)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "aepdoc") {
		t.Error("expected completion script to mention aepdoc")
	}

	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := newLogger(level, false)
		if err != nil {
			t.Errorf("level %s: unexpected error %v", level, err)
			continue
		}
		logger.Sync()
	}

	if _, err := newLogger("info", true); err != nil {
		t.Errorf("verbose logger: unexpected error %v", err)
	}
	if _, err := newLogger("loud", false); err == nil {
		t.Error("expected error for unknown level")
	}
}
