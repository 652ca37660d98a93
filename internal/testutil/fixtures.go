// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// Project-relative paths of a roadmap agent project.
const (
	SpecPath         = "appPackage/apiSpecificationFile/roadmap-openapi.json"
	BaselinePath     = "appPackage/apiSpecificationFile/archive/roadmap-openapi.original.json"
	ManifestPath     = "appPackage/manifest.json"
	AgentPath        = "appPackage/declarativeAgent.json"
	PluginPath       = "appPackage/ai-plugin.json"
	InstructionsPath = "appPackage/instructions.md"
	DevBuildPath     = "appPackage/build/declarativeAgent.dev.json"
	ProdBuildPath    = "appPackage/build/declarativeAgent.production.json"
	PackageJSONPath  = "package.json"
)

// Instructions is an agent instructions file carrying version placeholders.
const Instructions = `# Roadmap agent

Answer questions about the Microsoft 365 roadmap.

## Troubleshooting

**Versions:**
- App Manifest: {{MANIFEST_VERSION}}
- Declarative Agent Schema: {{DECLARATIVE_AGENT_SCHEMA}}
- AI Plugin Schema: {{PLUGIN_SCHEMA}}
`

func queryParam(name string, schema map[string]any) map[string]any {
	return map[string]any{
		"name":     name,
		"in":       "query",
		"required": false,
		"schema":   schema,
		"explode":  false,
	}
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/parameters/" + name}
}

func errorResponse(description string) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
			},
		},
	}
}

// RoadmapDocument returns a roadmap OpenAPI document as the API compiler
// emits it, before post-processing: no examples, no contact, no operationId,
// and a placeholder info.version.
func RoadmapDocument() map[string]any {
	return map[string]any{
		"openapi": "3.0.1",
		"info": map[string]any{
			"title":       "Microsoft 365 Roadmap API",
			"version":     "0.0.0",
			"description": "Query the public Microsoft 365 roadmap.",
		},
		"servers": []any{
			map[string]any{"url": "https://www.microsoft.com/releasecommunications/api/v2"},
		},
		"paths": map[string]any{
			"/m365": map[string]any{
				"get": map[string]any{
					"summary":     "Get Microsoft 365 roadmap items",
					"description": "Returns roadmap items, filtered and ordered with OData query options.",
					"parameters": []any{
						ref("FilterParameter"),
						ref("OrderByParameter"),
						ref("TopParameter"),
						ref("SkipParameter"),
						ref("CountParameter"),
					},
					"responses": map[string]any{
						"200": map[string]any{
							"description": "The request has succeeded.",
							"content": map[string]any{
								"application/json": map[string]any{
									"schema": map[string]any{"$ref": "#/components/schemas/RoadmapResponse"},
								},
							},
						},
						"400": errorResponse("Bad request"),
						"500": errorResponse("Server error"),
					},
				},
			},
		},
		"components": map[string]any{
			"parameters": map[string]any{
				"FilterParameter":  queryParam("$filter", map[string]any{"type": "string"}),
				"OrderByParameter": queryParam("$orderby", map[string]any{"type": "string"}),
				"TopParameter":     queryParam("$top", map[string]any{"type": "integer", "format": "int32"}),
				"SkipParameter":    queryParam("$skip", map[string]any{"type": "integer", "format": "int32"}),
				"CountParameter":   queryParam("$count", map[string]any{"type": "boolean"}),
			},
			"schemas": map[string]any{
				"RoadmapItem": map[string]any{
					"type":     "object",
					"required": []any{"id", "title", "created", "description", "status"},
					"properties": map[string]any{
						"id":          map[string]any{"type": "integer", "format": "int64"},
						"title":       map[string]any{"type": "string"},
						"created":     map[string]any{"type": "string", "format": "date-time"},
						"description": map[string]any{"type": "string"},
						"status": map[string]any{
							"type": "string",
							"enum": []any{"In development", "Rolling out", "Launched"},
						},
						"products": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"availabilities": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":     "object",
								"required": []any{"ring", "year", "month"},
								"properties": map[string]any{
									"ring":  map[string]any{"type": "string"},
									"year":  map[string]any{"type": "integer", "format": "int32", "minimum": 2020, "maximum": 2030},
									"month": map[string]any{"type": "string"},
								},
							},
						},
					},
				},
				"RoadmapResponse": map[string]any{
					"type":     "object",
					"required": []any{"value"},
					"properties": map[string]any{
						"value":           map[string]any{"type": "array", "items": map[string]any{"$ref": "#/components/schemas/RoadmapItem"}},
						"@odata.count":    map[string]any{"type": "integer", "format": "int32"},
						"@odata.nextLink": map[string]any{"type": "string", "nullable": true},
					},
				},
				"ErrorResponse": map[string]any{
					"type":     "object",
					"required": []any{"error"},
					"properties": map[string]any{
						"error": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}

// MarshalJSON encodes v as two-space indented JSON.
func MarshalJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}
	return data
}

// WriteFile writes content to rel under dir, creating parent directories.
// It returns the absolute path.
func WriteFile(t *testing.T, dir, rel string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", rel, err)
	}
	return path
}

// WriteTempYAML marshals a document to YAML in a temporary file and returns
// its path.
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()
	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}
	return WriteFile(t, t.TempDir(), "test.yaml", data)
}

// WriteTempJSON marshals a document to JSON in a temporary file and returns
// its path.
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "test.json", MarshalJSON(t, doc))
}

// Project lays out a complete roadmap agent project in a temporary directory
// and returns its root. The generated document is the unprocessed
// RoadmapDocument. No baseline is written.
func Project(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	for _, f := range []string{
		"tsp/main.tsp",
		"tsp/tspconfig.yaml",
		"tsp/models/roadmap-item.tsp",
		"tsp/models/responses.tsp",
		"tsp/models/errors.tsp",
		"tsp/routes/roadmap.tsp",
		"tsp/parameters/odata.tsp",
		"scripts/fix-metadata.js",
		"scripts/add-examples.js",
		"docs/TYPESPEC_GUIDE.md",
		"docs/MIGRATION_SUMMARY.md",
	} {
		WriteFile(t, root, f, []byte("// "+f+"\n"))
	}

	WriteFile(t, root, PackageJSONPath, MarshalJSON(t, map[string]any{
		"name": "m365-roadmap-agent",
		"scripts": map[string]any{
			"tsp:compile": "tsp compile tsp/main.tsp",
			"tsp:format":  "tsp format \"tsp/**/*.tsp\"",
			"build":       "npm run tsp:compile && specguard postprocess",
			"test":        "specguard check",
		},
		"devDependencies": map[string]any{
			"@typespec/compiler": "^1.0.0",
			"@typespec/http":     "^1.0.0",
			"@typespec/openapi3": "^1.0.0",
			"@typespec/rest":     "^0.70.0",
		},
	}))

	WriteFile(t, root, SpecPath, MarshalJSON(t, RoadmapDocument()))
	WriteFile(t, root, ManifestPath, MarshalJSON(t, map[string]any{"version": "1.4.0", "name": map[string]any{"short": "Roadmap"}}))
	WriteFile(t, root, AgentPath, MarshalJSON(t, map[string]any{"version": "v1.5", "name": "Roadmap"}))
	WriteFile(t, root, PluginPath, MarshalJSON(t, map[string]any{"schema_version": "v2.3", "name_for_human": "Roadmap"}))
	WriteFile(t, root, InstructionsPath, []byte(Instructions))
	for _, f := range []string{DevBuildPath, ProdBuildPath} {
		WriteFile(t, root, f, MarshalJSON(t, map[string]any{"version": "v1.5", "instructions": Instructions}))
	}
	return root
}
