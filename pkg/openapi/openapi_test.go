package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/accord/pkg/openapi"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &openapi.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.Title != "Accord API" {
		t.Errorf("title: got %s, want Accord API", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("description should have a default")
	}
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Senate Alignment")

	cfg := &openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.Title != "Senate Alignment" {
		t.Errorf("title: got %s", cfg.Title)
	}
}

func TestBounded(t *testing.T) {
	s := openapi.Bounded("number", "percent", 0, 100)
	if s.Minimum == nil || *s.Minimum != 0 || s.Maximum == nil || *s.Maximum != 100 {
		t.Errorf("bounds: got %v..%v", s.Minimum, s.Maximum)
	}

	data, err := json.Marshal(openapi.AtLeast("integer", 1))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"type":"integer","minimum":1}` {
		t.Errorf("json: got %s", data)
	}
}

func TestSpecLicense(t *testing.T) {
	spec := openapi.NewSpec(&openapi.Config{Title: "Test"}, "1.0.0")
	if spec.Info.License != nil {
		t.Error("license should be omitted when unset")
	}

	spec = openapi.NewSpec(&openapi.Config{Title: "Test", License: "MIT"}, "1.0.0")
	if spec.Info.License == nil || spec.Info.License.Name != "MIT" {
		t.Errorf("license: got %+v", spec.Info.License)
	}
}

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec(&openapi.Config{Title: "Test API", Description: "desc"}, "1.0.0")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" || spec.Info.Version != "1.0.0" || spec.Info.Description != "desc" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if spec.Components == nil || spec.Components.Schemas["Selection"] == nil {
		t.Fatal("components should include the Selection schema")
	}
	if spec.Components.Responses["UnprocessableEntity"] == nil {
		t.Error("components should include the UnprocessableEntity response")
	}
}

func TestAddOperation(t *testing.T) {
	spec := openapi.NewSpec(&openapi.Config{Title: "Test"}, "1.0.0")

	get := &openapi.Operation{Summary: "Find dataset"}
	del := &openapi.Operation{Summary: "Delete dataset"}
	spec.AddOperation("/datasets/{id}", "GET", get)
	spec.AddOperation("/datasets/{id}", "delete", del)

	item := spec.Paths["/datasets/{id}"]
	if item == nil {
		t.Fatal("path not added")
	}
	if item.Get != get || item.Delete != del {
		t.Errorf("operations not attached: %+v", item)
	}
	if item.Post != nil {
		t.Error("post should be nil")
	}
}

func TestHelpers(t *testing.T) {
	if ref := openapi.SchemaRef("Dataset"); ref.Ref != "#/components/schemas/Dataset" {
		t.Errorf("schema ref: got %s", ref.Ref)
	}
	if ref := openapi.ResponseRef("NotFound"); ref.Ref != "#/components/responses/NotFound" {
		t.Errorf("response ref: got %s", ref.Ref)
	}

	arr := openapi.ArrayOf("Dataset")
	if arr.Type != "array" || arr.Items.Ref != "#/components/schemas/Dataset" {
		t.Errorf("array of: got %+v", arr)
	}

	p := openapi.PathParam("id", "Dataset UUID")
	if p.In != "path" || !p.Required || p.Schema.Format != "uuid" {
		t.Errorf("path param: got %+v", p)
	}

	body := openapi.RequestBodyUpload("csvFile", "Vote records")
	schema := body.Content["multipart/form-data"].Schema
	if schema.Properties["csvFile"].Format != "binary" {
		t.Errorf("upload body: got %+v", schema)
	}

	if _, ok := openapi.ResponseHTML("page").Content["text/html"]; !ok {
		t.Error("html response missing text/html content")
	}
	if _, ok := openapi.ResponseCSV("rows").Content["text/csv"]; !ok {
		t.Error("csv response missing text/csv content")
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec(&openapi.Config{Title: "Test"}, "1.0.0")
	spec.AddOperation("/alignments", "GET", &openapi.Operation{
		Summary:   "List alignments",
		Responses: map[int]*openapi.Response{200: {Description: "OK"}},
	})

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content-type: got %s", ct)
	}

	var parsed map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	paths := parsed["paths"].(map[string]any)
	if _, ok := paths["/alignments"]; !ok {
		t.Errorf("paths: got %v", paths)
	}
}
