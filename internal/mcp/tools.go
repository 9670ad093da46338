package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"framecast/internal/store"
)

type ListElementsInput struct {
	Kind  string `json:"kind,omitempty" jsonschema:"element kind filter: beam, column, slab, or footing"`
	Level string `json:"level,omitempty" jsonschema:"restrict to elements on a named level"`
}

type GetElementInput struct {
	GUID string `json:"guid" jsonschema:"stable element identifier from the source file"`
}

type ListLevelsInput struct{}

type LastRunInput struct{}

type ElementOutput struct {
	ID       int64   `json:"id"`
	GUID     string  `json:"guid"`
	Kind     string  `json:"kind"`
	TypeName string  `json:"type_name"`
	Level    string  `json:"level"`
	Material string  `json:"material"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	IsOrphan bool    `json:"is_orphan"`
}

type ListElementsOutput struct {
	Elements []ElementOutput `json:"elements"`
}

type LevelOutput struct {
	Name        string  `json:"name"`
	ElevationMM float64 `json:"elevation_mm"`
}

type ListLevelsOutput struct {
	Levels []LevelOutput `json:"levels"`
}

type LastRunOutput struct {
	RunID     string          `json:"run_id"`
	StartedAt string          `json:"started_at"`
	ElapsedMS int64           `json:"elapsed_ms"`
	Summary   json.RawMessage `json:"summary"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_elements",
		Description: "List imported structural elements with optional kind and level filters",
	}, s.handleListElements)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_element",
		Description: "Retrieve one imported element by its source identifier",
	}, s.handleGetElement)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_levels",
		Description: "List the building levels of the project",
	}, s.handleListLevels)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "last_run",
		Description: "Return the summary of the most recent import run",
	}, s.handleLastRun)
}

func (s *Server) handleListElements(ctx context.Context, req *sdk.CallToolRequest, input ListElementsInput) (*sdk.CallToolResult, ListElementsOutput, error) {
	rows, err := s.db.ListElements(ctx, input.Kind, input.Level)
	if err != nil {
		return nil, ListElementsOutput{}, err
	}
	output := make([]ElementOutput, 0, len(rows))
	for _, row := range rows {
		output = append(output, elementOutput(row))
	}
	return nil, ListElementsOutput{Elements: output}, nil
}

func (s *Server) handleGetElement(ctx context.Context, req *sdk.CallToolRequest, input GetElementInput) (*sdk.CallToolResult, ElementOutput, error) {
	if input.GUID == "" {
		return nil, ElementOutput{}, fmt.Errorf("guid is required")
	}
	rows, err := s.db.ListElements(ctx, "", "")
	if err != nil {
		return nil, ElementOutput{}, err
	}
	for _, row := range rows {
		if row.GUID == input.GUID {
			return nil, elementOutput(row), nil
		}
	}
	return nil, ElementOutput{}, fmt.Errorf("element not found")
}

func (s *Server) handleListLevels(ctx context.Context, req *sdk.CallToolRequest, input ListLevelsInput) (*sdk.CallToolResult, ListLevelsOutput, error) {
	rows, err := s.db.ListLevels(ctx)
	if err != nil {
		return nil, ListLevelsOutput{}, err
	}
	output := make([]LevelOutput, 0, len(rows))
	for _, row := range rows {
		output = append(output, LevelOutput{Name: row.Name, ElevationMM: row.ElevationMM})
	}
	return nil, ListLevelsOutput{Levels: output}, nil
}

func (s *Server) handleLastRun(ctx context.Context, req *sdk.CallToolRequest, input LastRunInput) (*sdk.CallToolResult, LastRunOutput, error) {
	run, err := s.db.LastRun(ctx)
	if err != nil {
		return nil, LastRunOutput{}, err
	}
	if run == nil {
		return nil, LastRunOutput{}, fmt.Errorf("no runs recorded")
	}
	return nil, LastRunOutput{
		RunID:     run.ID,
		StartedAt: run.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		ElapsedMS: run.ElapsedMS,
		Summary:   json.RawMessage(run.Summary),
	}, nil
}

func elementOutput(row store.ElementRow) ElementOutput {
	return ElementOutput{
		ID:       row.ID,
		GUID:     row.GUID,
		Kind:     row.Kind,
		TypeName: row.TypeName,
		Level:    row.LevelName,
		Material: row.Material,
		X:        row.X,
		Y:        row.Y,
		Z:        row.Z,
		IsOrphan: row.IsOrphan,
	}
}
