package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ironsheep/brainx/internal/config"
	"github.com/ironsheep/brainx/internal/raster"
	"github.com/ironsheep/brainx/internal/runner"
	"github.com/ironsheep/brainx/internal/tape"
	"github.com/ironsheep/brainx/internal/walker"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "bf_run", "image_walk").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Infof("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Program Execution
	case "bf_run":
		return s.handleBFRun(args)
	case "image_run":
		return s.handleImageRun(args)

	// Image Inspection
	case "image_walk":
		return s.handleImageWalk(args)
	case "image_info":
		return s.handleImageInfo(args)
	case "image_palette":
		return s.handleImagePalette(args)

	// Program Rendering
	case "image_render":
		return s.handleImageRender(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageMode parses a mode argument that must name an image mode.
func imageMode(s string) (runner.Mode, error) {
	m, err := runner.ParseMode(s)
	if err != nil {
		return 0, err
	}
	if !m.IsImage() {
		return 0, fmt.Errorf("mode must be brainloller or braincopter, got %q", s)
	}
	return m, nil
}

// RunResult is the outcome of a program run.
type RunResult struct {
	// Output is the program's output as text.
	Output string `json:"output"`

	// Pointer is the final data pointer.
	Pointer int `json:"pointer"`

	// Cells is the final tape length.
	Cells int `json:"cells"`

	// Steps is the number of program characters executed.
	Steps int `json:"steps"`

	// Program is the command string extracted from an image.
	Program string `json:"program,omitempty"`
}

func newRunResult(res *tape.Result, program string) *RunResult {
	return &RunResult{
		Output:  res.String(),
		Pointer: res.Pointer,
		Cells:   len(res.Memory),
		Steps:   res.Steps,
		Program: program,
	}
}

// === Program Execution Handlers ===

type bfRunArgs struct {
	Source  string `json:"source"`
	Input   string `json:"input"`
	Memory  string `json:"memory"`
	Pointer *int   `json:"pointer"`
}

func (s *Server) handleBFRun(args json.RawMessage) (interface{}, error) {
	var a bfRunArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := []tape.Option{tape.WithInput(strings.NewReader(a.Input))}
	if a.Memory != "" {
		opts = append(opts, tape.WithMemory([]byte(a.Memory)))
	}
	if a.Pointer != nil {
		opts = append(opts, tape.WithPointer(*a.Pointer))
	}

	res, err := s.runner.Machine(a.Source, opts...).Run()
	if err != nil {
		return nil, err
	}
	return newRunResult(res, ""), nil
}

type imageRunArgs struct {
	Path  string `json:"path"`
	Mode  string `json:"mode"`
	Input string `json:"input"`
}

func (s *Server) handleImageRun(args json.RawMessage) (interface{}, error) {
	var a imageRunArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := imageMode(a.Mode)
	if err != nil {
		return nil, err
	}

	program, err := s.runner.Compile(a.Path, mode)
	if err != nil {
		return nil, err
	}
	res, err := s.runner.Machine(program, tape.WithInput(strings.NewReader(a.Input))).Run()
	if err != nil {
		return nil, err
	}
	return newRunResult(res, program), nil
}

// === Image Inspection Handlers ===

type imageWalkArgs struct {
	Path  string `json:"path"`
	Mode  string `json:"mode"`
	Trace bool   `json:"trace"`
}

func (s *Server) handleImageWalk(args json.RawMessage) (interface{}, error) {
	var a imageWalkArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := imageMode(a.Mode)
	if err != nil {
		return nil, err
	}
	return s.runner.Walk(a.Path, mode, a.Trace)
}

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return raster.LoadImageInfo(a.Path)
}

type imagePaletteArgs struct {
	Path  string `json:"path"`
	Count *int   `json:"count"`
}

// PaletteEntry is one color of an image with its meaning in each mode.
type PaletteEntry struct {
	raster.ColorCount

	// Brainloller is the color's action under the color table.
	Brainloller string `json:"brainloller"`

	// Braincopter is the color's action under the color hash.
	Braincopter string `json:"braincopter"`
}

func (s *Server) handleImagePalette(args json.RawMessage) (interface{}, error) {
	var a imagePaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	count := 10
	if a.Count != nil {
		count = *a.Count
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	hist := raster.Histogram(img, count)
	entries := make([]PaletteEntry, len(hist))
	for i, cc := range hist {
		entries[i] = PaletteEntry{
			ColorCount:  cc,
			Brainloller: walker.ColorTable{}.Classify(cc.Color).String(),
			Braincopter: walker.ColorHash{}.Classify(cc.Color).String(),
		}
	}
	return map[string]interface{}{
		"colors":       entries,
		"total_colors": len(raster.Histogram(img, 0)),
	}, nil
}

// === Program Rendering Handlers ===

type imageRenderArgs struct {
	Source string `json:"source"`
	Path   string `json:"path"`
	Mode   string `json:"mode"`
	Width  int    `json:"width"`
	Cover  string `json:"cover"`
}

func (s *Server) handleImageRender(args json.RawMessage) (interface{}, error) {
	var a imageRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if a.Width == 0 {
		a.Width = config.DefaultRenderWidth
	}
	mode, err := imageMode(a.Mode)
	if err != nil {
		return nil, err
	}

	img, err := s.runner.Render(a.Source, mode, a.Width, a.Cover)
	if err != nil {
		return nil, err
	}
	if err := raster.WriteFile(a.Path, img); err != nil {
		return nil, err
	}
	s.cache.Evict(a.Path)

	return map[string]interface{}{
		"path":   a.Path,
		"width":  img.Width,
		"height": img.Height,
	}, nil
}
