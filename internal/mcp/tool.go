package mcp

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Param describes one tool argument.
type Param struct {
	Name string

	// Type is a Go type name such as "string", "int64" or "[]string".
	Type string

	Description string
	Required    bool

	// Default is rendered into the schema as the documented default.
	Default any
}

// InputSchema builds the object schema for a tool's arguments. Required
// names are sorted so the schema renders deterministically.
func InputSchema(params ...Param) (*jsonschema.Schema, error) {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(params)),
	}

	for _, p := range params {
		prop := schemaForType(p.Type)
		prop.Description = p.Description

		if p.Default != nil {
			raw, err := json.Marshal(p.Default)
			if err != nil {
				return nil, fmt.Errorf("default for %s: %w", p.Name, err)
			}

			prop.Default = raw
		}

		schema.Properties[p.Name] = prop

		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}

	slices.Sort(schema.Required)

	return schema, nil
}

// schemaForType maps a Go type name to its JSON Schema type. Unknown names
// fall back to string.
func schemaForType(goType string) *jsonschema.Schema {
	if elem, ok := strings.CutPrefix(goType, "[]"); ok {
		return &jsonschema.Schema{Type: "array", Items: schemaForType(elem)}
	}

	switch goType {
	case "int", "int32", "int64", "uint", "uint32", "uint64":
		return &jsonschema.Schema{Type: "integer"}
	case "float32", "float64":
		return &jsonschema.Schema{Type: "number"}
	case "bool":
		return &jsonschema.Schema{Type: "boolean"}
	case "map[string]any":
		return &jsonschema.Schema{Type: "object"}
	default:
		return &jsonschema.Schema{Type: "string"}
	}
}

// TextResult creates a CallToolResult with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// JSONResult creates a CallToolResult carrying v as JSON text.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}

	return TextResult(string(data)), nil
}

// ErrorResult creates a CallToolResult indicating an error.
func ErrorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
		IsError: true,
	}
}

// NewTool creates an mcp.Tool whose input schema is built from params.
func NewTool(name, description string, params ...Param) (*mcp.Tool, error) {
	schema, err := InputSchema(params...)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}

	return &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}, nil
}

// ParseArguments unmarshals CallToolRequest arguments into v. Missing
// arguments leave v untouched.
func ParseArguments(req *mcp.CallToolRequest, v any) error {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}

	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return fmt.Errorf("failed to unmarshal arguments: %w", err)
	}

	return nil
}
