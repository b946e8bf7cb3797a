package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the PNG file",
}

var modeProperty = map[string]interface{}{
	"type":        "string",
	"enum":        []string{"brainloller", "braincopter"},
	"description": "How pixels are read: brainloller matches a fixed color table, braincopter hashes each color mod 11",
}

var inputProperty = map[string]interface{}{
	"type":        "string",
	"description": "Bytes returned by ',' after the program's own input literal is used up",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Program Execution
		{
			Name:        "bf_run",
			Description: "Run Brainfuck source text. Text after the first '!' is an input literal read by ',' before the input argument.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": map[string]interface{}{
						"type":        "string",
						"description": "Brainfuck program text",
					},
					"input": inputProperty,
					"memory": map[string]interface{}{
						"type":        "string",
						"description": "Initial tape contents. Default is a single zero cell",
					},
					"pointer": map[string]interface{}{
						"type":        "integer",
						"description": "Initial data pointer, must address a cell of memory. Default 0",
						"default":     0,
					},
				},
				"required": []string{"source"},
			},
		},
		{
			Name:        "image_run",
			Description: "Decode a Brainloller or Braincopter PNG, extract its program and run it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty,
					"mode":  modeProperty,
					"input": inputProperty,
				},
				"required": []string{"path", "mode"},
			},
		},

		// Image Inspection
		{
			Name:        "image_walk",
			Description: "Walk a program image and return the command string without running it. Optionally lists every visited pixel with its heading and action.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"mode": modeProperty,
					"trace": map[string]interface{}{
						"type":        "boolean",
						"description": "Include every step of the walk. Default false",
						"default":     false,
					},
				},
				"required": []string{"path", "mode"},
			},
		},
		{
			Name:        "image_info",
			Description: "Report a PNG's dimensions, file size and chunk layout without decoding pixel data.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_palette",
			Description: "List the most frequent exact colors in a program image with the action each color has under both classifiers.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return, 0 for all. Default 10",
						"default":     10,
					},
				},
				"required": []string{"path"},
			},
		},

		// Program Rendering
		{
			Name:        "image_render",
			Description: "Lay Brainfuck source out as a program image and write it as PNG. Non-command characters are dropped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": map[string]interface{}{
						"type":        "string",
						"description": "Brainfuck program text",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the PNG to write",
					},
					"mode": modeProperty,
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Image width in pixels, at least 3. Default 16",
						"default":     16,
					},
					"cover": map[string]interface{}{
						"type":        "string",
						"description": "Optional picture to hide the program in; fitted to the program's size",
					},
				},
				"required": []string{"source", "path", "mode"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
