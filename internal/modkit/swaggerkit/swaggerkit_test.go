package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"astrochat/internal/platform/config"
	phttp "astrochat/internal/platform/net/http"
)

func fetchSpec(t *testing.T) (int, map[string]any) {
	t.Helper()
	srv := phttp.NewServer(config.New())
	Mount(srv.Router(), true)

	rec := httptest.NewRecorder()
	srv.Router().Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusOK {
		return rec.Code, nil
	}
	var spec map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatalf("decode spec: %v", err)
	}
	return rec.Code, spec
}

func TestServeDocJSON_GeneratedSpec(t *testing.T) {
	code, spec := fetchSpec(t)
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	info := spec["info"].(map[string]any)
	if info["title"] != "Astro Chat API" {
		t.Fatalf("title = %v", info["title"])
	}

	paths := spec["paths"].(map[string]any)
	for _, p := range []string{"/chat", "/quota/status", "/usage/daily", "/meta/health"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("missing path %s", p)
		}
	}

	// every operation gets the shared error responses
	post := paths["/chat"].(map[string]any)["post"].(map[string]any)
	responses := post["responses"].(map[string]any)
	if _, ok := responses["500"]; !ok {
		t.Fatal("500 response not injected")
	}
	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatal("ErrorResponse schema not injected")
	}
}

func TestServeDocJSON_TitleSuffixAndMutators(t *testing.T) {
	t.Setenv("CORE_API_DOCS_TITLE_SUFFIX", "(staging)")

	saved := mutators
	t.Cleanup(func() { mutators = saved })
	Register(func(spec map[string]any) { spec["x-mutated"] = true })
	Register(nil)

	_, spec := fetchSpec(t)
	if got := spec["info"].(map[string]any)["title"]; got != "Astro Chat API (staging)" {
		t.Fatalf("title = %v", got)
	}
	if spec["x-mutated"] != true {
		t.Fatal("mutator not applied")
	}
}

func TestServeDocJSON_BadDocument(t *testing.T) {
	saved := docReader
	t.Cleanup(func() { docReader = saved })
	docReader = func() string { return "{not json" }

	if code, _ := fetchSpec(t); code != http.StatusInternalServerError {
		t.Fatalf("code = %d", code)
	}
}

func TestEnsureServers(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want string
	}{
		{"swagger 2 lifted", map[string]any{"swagger": "2.0"}, "3.0.3"},
		{"3.1 downgraded", map[string]any{"openapi": "3.1.0"}, "3.0.3"},
		{"3.0 kept", map[string]any{"openapi": "3.0.1"}, "3.0.1"},
		{"missing version", map[string]any{}, "3.0.3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ensureServers(tc.in, "/api/v1")
			if tc.in["openapi"] != tc.want {
				t.Fatalf("openapi = %v, want %s", tc.in["openapi"], tc.want)
			}
			if _, ok := tc.in["swagger"]; ok {
				t.Fatal("swagger key kept")
			}
			if len(tc.in["servers"].([]any)) != 1 {
				t.Fatalf("servers = %v", tc.in["servers"])
			}
		})
	}
}

func TestAddDefaultResponses_KeepsDocumented(t *testing.T) {
	documented := map[string]any{"description": "quota exceeded"}
	spec := map[string]any{"paths": map[string]any{
		"/chat":        map[string]any{"post": map[string]any{"responses": map[string]any{"400": documented}}},
		"/meta/health": map[string]any{"get": map[string]any{}},
	}}
	addDefaultResponses(spec)

	paths := spec["paths"].(map[string]any)
	chat := paths["/chat"].(map[string]any)["post"].(map[string]any)["responses"].(map[string]any)
	if chat["400"].(map[string]any)["description"] != "quota exceeded" {
		t.Fatalf("documented 400 replaced: %v", chat["400"])
	}
	health := paths["/meta/health"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)
	for _, code := range []string{"400", "500"} {
		if _, ok := health[code]; !ok {
			t.Fatalf("missing default %s", code)
		}
	}
	if health["500"].(map[string]any)["description"] != "Internal Server Error" {
		t.Fatalf("500 = %v", health["500"])
	}
}

func TestMount_Disabled(t *testing.T) {
	srv := phttp.NewServer(config.New())
	Mount(srv.Router(), false)

	rec := httptest.NewRecorder()
	srv.Router().Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d", rec.Code)
	}
}
