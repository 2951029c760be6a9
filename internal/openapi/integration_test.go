package openapi_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/conduit-lang/aepdoc/internal/aep"
	"github.com/conduit-lang/aepdoc/internal/errors"
	"github.com/conduit-lang/aepdoc/internal/openapi"
	"github.com/conduit-lang/aepdoc/internal/schema"
)

var _ = Describe("OpenAPI Integration", Label("integration"), func() {
	var (
		program *schema.Program
		state   *aep.State
	)

	BeforeEach(func() {
		var err error
		program, err = schema.Load(filepath.Join("testdata", "library.yaml"))
		Expect(err).NotTo(HaveOccurred())

		state, err = aep.Run(program)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Document Generation", func() {
		It("should produce a valid document for every service", func() {
			emitter := openapi.NewEmitter(state, openapi.WithServer("https://library.example.com", "Production"))
			docs := emitter.EmitProgram(program)
			Expect(docs).To(HaveLen(1))

			for _, d := range docs {
				Expect(openapi.Validate(context.Background(), d.Service.Name, d.Doc)).To(Succeed())
			}
		})

		It("should round-trip through the kin-openapi loader", func() {
			doc := openapi.NewEmitter(state).Emit(program.Services[0])

			for _, format := range []openapi.Format{openapi.FormatJSON, openapi.FormatYAML} {
				data, err := openapi.Marshal(doc, format)
				Expect(err).NotTo(HaveOccurred())

				loaded, err := openapi3.NewLoader().LoadFromData(data)
				Expect(err).NotTo(HaveOccurred())
				Expect(loaded.Validate(context.Background(), openapi3.DisableExamplesValidation())).To(Succeed())
				Expect(loaded.Paths.Len()).To(Equal(doc.Paths.Len()))
			}
		})

		It("should be identical across runs", func() {
			first, err := openapi.Marshal(openapi.NewEmitter(state).Emit(program.Services[0]), openapi.FormatJSON)
			Expect(err).NotTo(HaveOccurred())

			again, err := aep.Run(program)
			Expect(err).NotTo(HaveOccurred())
			second, err := openapi.Marshal(openapi.NewEmitter(again).Emit(program.Services[0]), openapi.FormatJSON)
			Expect(err).NotTo(HaveOccurred())

			Expect(second).To(MatchJSON(first))
		})
	})

	Describe("Resource Metadata", func() {
		It("should attach the resource extension to resource schemas", func() {
			data, err := openapi.Marshal(openapi.NewEmitter(state).Emit(program.Services[0]), openapi.FormatJSON)
			Expect(err).NotTo(HaveOccurred())

			var raw map[string]any
			Expect(json.Unmarshal(data, &raw)).To(Succeed())

			schemas := raw["components"].(map[string]any)["schemas"].(map[string]any)
			publisher := schemas["Publisher"].(map[string]any)
			Expect(publisher).To(HaveKeyWithValue("x-aep-resource", map[string]any{
				"type":     "library.example.com/publisher",
				"singular": "publisher",
				"plural":   "publishers",
				"patterns": []any{"publishers/{publisher}"},
			}))
			Expect(schemas["ListBooksResponse"]).NotTo(HaveKey("x-aep-resource"))
		})

		DescribeTable("should route operations by kind",
			func(path, method, operationID string) {
				doc := openapi.NewEmitter(state).Emit(program.Services[0])
				item := doc.Paths.Value(path)
				Expect(item).NotTo(BeNil())

				op := item.GetOperation(method)
				Expect(op).NotTo(BeNil())
				Expect(op.OperationID).To(Equal(operationID))
			},
			Entry("list", "/publishers", "GET", "ListPublishers"),
			Entry("create", "/publishers/{publisher}/books", "POST", "CreateBook"),
			Entry("update", "/publishers/{publisher}/books/{book}", "PATCH", "UpdateBook"),
			Entry("createOrReplace", "/publishers/{publisher}/books/{book}", "PUT", "ApplyBook"),
			Entry("custom action", "/publishers/{publisher}/books/{book}:archive", "POST", ":ArchiveBook"),
			Entry("collection action", "/publishers/{publisher}/books:export", "POST", ":ExportBooks"),
		)
	})

	Describe("Failure Handling", func() {
		It("should report a parent cycle before emitting anything", func() {
			doc := `
services:
  - name: Loop
    models:
      - name: A
        parent: B
        resource: {}
        fields:
          - name: id
            type: string
            key: true
      - name: B
        parent: A
        resource: {}
        fields:
          - name: id
            type: string
            key: true
`
			path := filepath.Join(GinkgoT().TempDir(), "loop.yaml")
			Expect(os.WriteFile(path, []byte(doc), 0644)).To(Succeed())

			looped, err := schema.Load(path)
			Expect(err).NotTo(HaveOccurred())

			_, err = aep.Run(looped)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, errors.ErrParentCycle)).To(BeTrue())
		})
	})
})
