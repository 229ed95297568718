// Package swaggerkit mounts Swagger UI and serves the generated spec as OAS 3.0
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"astrochat/internal/platform/config"
	phttp "astrochat/internal/platform/net/http"
	docs "astrochat/internal/services/api/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

const oasVersion = "3.0.3"

// SpecMutator adjusts the parsed spec before it is served
type SpecMutator func(map[string]any)

var (
	mutators  []SpecMutator
	docReader = func() string { return docs.SwaggerInfo.ReadDoc() }
)

// Register adds a spec mutator; nil is ignored
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// Mount serves the UI at /api/docs/ and the spec at /api/docs/doc.json when enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON)
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}

func serveDocJSON(w http.ResponseWriter, _ *http.Request) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
		http.Error(w, "spec parse error", http.StatusInternalServerError)
		return
	}

	ensureServers(spec, "/api/v1")
	if suffix := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""); suffix != "" {
		if info, ok := spec["info"].(map[string]any); ok {
			if title, ok := info["title"].(string); ok {
				info["title"] = title + " " + suffix
			}
		}
	}
	ensureErrorSchema(spec)
	addDefaultResponses(spec)
	for _, m := range mutators {
		m(spec)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(spec)
}

// ensureServers pins the document to OAS 3.0.3 with a servers entry
// swagger ui does not render 3.1 yet
func ensureServers(spec map[string]any, url string) {
	delete(spec, "swagger")
	if v, _ := spec["openapi"].(string); !strings.HasPrefix(v, "3.0") {
		spec["openapi"] = oasVersion
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

// ensureErrorSchema adds ErrorResponse, the error half of the envelope
func ensureErrorSchema(spec map[string]any) {
	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	str := map[string]any{"type": "string"}
	num := map[string]any{"type": "integer", "format": "int32"}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Error envelope",
		"properties": map[string]any{
			"status_code": num,
			"status":      str,
			"code":        num,
			"error":       str,
			"field":       str,
			"request_id":  str,
		},
		"required": []any{"status_code", "status", "error"},
	}
}

// defaultResponses are added to every operation that does not document them
var defaultResponses = map[string]map[string]any{
	"400": {
		"status_code": 400,
		"status":      "Bad Request",
		"code":        8,
		"error":       "Please provide a valid message",
		"field":       "message",
		"request_id":  "579f33bf50b1/abc-000001",
	},
	"500": {
		"status_code": 500,
		"status":      "Internal Server Error",
		"code":        1,
		"error":       "Something went wrong. The stars are realigning...",
		"request_id":  "579f33bf50b1/abc-000001",
	},
}

func addDefaultResponses(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		item, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, o := range item {
			op, ok := o.(map[string]any)
			if !ok {
				continue
			}
			responses := child(op, "responses")
			for code, example := range defaultResponses {
				if _, ok := responses[code]; ok {
					continue
				}
				responses[code] = map[string]any{
					"description": http.StatusText(example["status_code"].(int)),
					"content": map[string]any{
						"application/json": map[string]any{
							"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
							"example": example,
						},
					},
				}
			}
		}
	}
}
