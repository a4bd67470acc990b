package mcp

import (
	"testing"

	mcpgo "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func TestInputSchema(t *testing.T) {
	schema, err := InputSchema(
		Param{Name: "moves", Type: "[]string", Description: "moves from the root", Required: true},
		Param{Name: "fen", Type: "string", Required: true},
		Param{Name: "nodes", Type: "int64", Default: 0},
		Param{Name: "ponder", Type: "bool"},
	)
	require.NoError(t, err)

	require.Equal(t, "object", schema.Type)
	require.Equal(t, []string{"fen", "moves"}, schema.Required)

	require.Equal(t, "array", schema.Properties["moves"].Type)
	require.Equal(t, "string", schema.Properties["moves"].Items.Type)
	require.Equal(t, "moves from the root", schema.Properties["moves"].Description)
	require.Equal(t, "integer", schema.Properties["nodes"].Type)
	require.JSONEq(t, "0", string(schema.Properties["nodes"].Default))
	require.Equal(t, "boolean", schema.Properties["ponder"].Type)
	require.Nil(t, schema.Properties["ponder"].Default)
}

func TestInputSchema_Empty(t *testing.T) {
	schema, err := InputSchema()
	require.NoError(t, err)

	require.Equal(t, "object", schema.Type)
	require.Empty(t, schema.Properties)
	require.Empty(t, schema.Required)
}

func TestInputSchema_BadDefault(t *testing.T) {
	_, err := InputSchema(Param{Name: "x", Type: "string", Default: make(chan int)})
	require.ErrorContains(t, err, "default for x")
}

func TestSchemaForType(t *testing.T) {
	tests := []struct {
		goType   string
		wantType string
		wantItem string
	}{
		{goType: "string", wantType: "string"},
		{goType: "int64", wantType: "integer"},
		{goType: "float64", wantType: "number"},
		{goType: "bool", wantType: "boolean"},
		{goType: "map[string]any", wantType: "object"},
		{goType: "[]string", wantType: "array", wantItem: "string"},
		{goType: "[]int", wantType: "array", wantItem: "integer"},
		{goType: "complex128", wantType: "string"},
	}

	for _, tt := range tests {
		t.Run(tt.goType, func(t *testing.T) {
			got := schemaForType(tt.goType)
			require.Equal(t, tt.wantType, got.Type)

			if tt.wantItem != "" {
				require.NotNil(t, got.Items)
				require.Equal(t, tt.wantItem, got.Items.Type)
			}
		})
	}
}

func TestNewTool(t *testing.T) {
	tool, err := NewTool("best_move", "wait for a move", Param{Name: "wait_ms", Type: "int64"})
	require.NoError(t, err)

	require.Equal(t, "best_move", tool.Name)
	require.Equal(t, "wait for a move", tool.Description)
	require.NotNil(t, tool.InputSchema)

	_, err = NewTool("broken", "", Param{Name: "x", Default: func() {}})
	require.ErrorContains(t, err, "tool broken")
}

func TestResults(t *testing.T) {
	text := TextResult("ok")
	require.False(t, text.IsError)
	require.Equal(t, "ok", text.Content[0].(*mcpgo.TextContent).Text)

	failed := ErrorResult("boom")
	require.True(t, failed.IsError)
	require.Equal(t, "boom", failed.Content[0].(*mcpgo.TextContent).Text)

	js, err := JSONResult(map[string]int{"n": 1})
	require.NoError(t, err)
	require.JSONEq(t, `{"n":1}`, js.Content[0].(*mcpgo.TextContent).Text)

	_, err = JSONResult(make(chan int))
	require.Error(t, err)
}

func TestParseArguments(t *testing.T) {
	var args searchArgs

	require.NoError(t, ParseArguments(nil, &args))
	require.NoError(t, ParseArguments(&mcpgo.CallToolRequest{}, &args))

	req := &mcpgo.CallToolRequest{
		Params: &mcpgo.CallToolParamsRaw{
			Name:      "request_search",
			Arguments: []byte(`{"moves":["e2e4"],"nodes":100}`),
		},
	}
	require.NoError(t, ParseArguments(req, &args))
	require.Equal(t, searchArgs{Moves: []string{"e2e4"}, Nodes: 100}, args)

	req.Params.Arguments = []byte(`{"moves":`)
	require.Error(t, ParseArguments(req, &args))
}
