package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pointSchema describes one trace sample.
var pointSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"x": map[string]interface{}{"type": "integer"},
		"y": map[string]interface{}{"type": "integer"},
	},
	"required": []string{"x", "y"},
}

var pointsSchema = map[string]interface{}{
	"type":        "array",
	"items":       pointSchema,
	"description": "Trace samples in recording order, e.g. [{\"x\":10,\"y\":20}, ...]",
}

// configSchema lists the per-call tolerance overrides. Omitted fields keep
// the server defaults.
var configSchema = map[string]interface{}{
	"type":        "object",
	"description": "Optional tolerance overrides for this call",
	"properties": map[string]interface{}{
		"general_tolerance": map[string]interface{}{
			"type":        "number",
			"description": "Shape threshold as a fraction (default 0.25)",
		},
		"circle_tolerance": map[string]interface{}{
			"type":        "number",
			"description": "Relative band around the mean radius (default 0.25)",
		},
		"line_tolerance_px": map[string]interface{}{
			"type":        "number",
			"description": "Max distance from the start-end line in pixels (default 10)",
		},
		"ellipse_centrum_tolerance_px": map[string]interface{}{
			"type":        "integer",
			"description": "Max distance between centroid and long-axis midpoint (default 100)",
		},
		"ellipse_tolerance": map[string]interface{}{
			"type":        "number",
			"description": "Relative band of the mirror symmetry probe (default 0.5)",
		},
	},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Classification
		{
			Name:        "trace_classify",
			Description: "Classify a pointer trace as circle, line, ellipse or unknown with an integer confidence. The result is added to the shape history.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsSchema,
					"config": configSchema,
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "trace_analyze",
			Description: "Classify a trace and return every intermediate measurement: centroid, radius statistics, longest chord, line percentage and the ellipse symmetry counters.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsSchema,
					"config": configSchema,
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "trace_statistics",
			Description: "Compute all-pairs min/max distances and the distance statistics from a reference point (the centroid unless given).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsSchema,
					"reference": map[string]interface{}{
						"type":        "object",
						"description": "Optional reference point. Default: centroid of the trace",
						"properties":  pointSchema["properties"],
					},
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Relative tolerance band (0-1). Default: the circle tolerance",
					},
				},
				"required": []string{"points"},
			},
		},

		// Visualisation
		{
			Name:        "trace_render",
			Description: "Render a trace as a base64 PNG coloured by its classification, with the centroid and longest chord marked. Pass either points or the id of a history entry.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsSchema,
					"id": map[string]interface{}{
						"type":        "string",
						"description": "History entry to render instead of points",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas width in pixels. Default 512",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas height in pixels. Default 512",
					},
					"stroke_width": map[string]interface{}{
						"type":        "integer",
						"description": "Stroke width in pixels. Default 3",
					},
					"show_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Overlay a coordinate grid",
					},
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Grid spacing in canvas pixels. Default 64",
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid color as #RRGGBB or #RRGGBBAA. Default #FFFFFF40",
					},
					"grid_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Label grid intersections with trace coordinates",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the finished image. Default 1.0",
						"default":     1.0,
					},
					"config": configSchema,
				},
			},
		},

		// Capture
		{
			Name:        "trace_replay",
			Description: "Replay recorded pointer positions, one per poll cycle, through the trace recorder. Each trace that finishes (the pointer stays still for end_timeout cycles) is classified and added to the history.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"samples": map[string]interface{}{
						"type":        "array",
						"items":       pointSchema,
						"description": "Pointer position at each poll cycle",
					},
					"end_timeout": map[string]interface{}{
						"type":        "integer",
						"description": "Unchanged cycles that end a trace. Default: server setting (5)",
					},
					"config": configSchema,
				},
				"required": []string{"samples"},
			},
		},

		{
			Name:        "trace_capture",
			Description: "Record one trace live from the attached pointer device, then classify it and add it to the history. Recording starts at the next movement and ends when the pointer stays still. The reply also counts device lines that could not be parsed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"timeout_ms": map[string]interface{}{
						"type":        "integer",
						"description": "Give up after this many milliseconds. Default 30000",
					},
					"config": configSchema,
				},
			},
		},

		// History
		{
			Name:        "trace_history",
			Description: "List the shapes classified so far, oldest first, with per-shape counts. Pass an id to fetch a single entry.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Return only this entry",
					},
					"include_traces": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the recorded points of each entry",
					},
				},
			},
		},
		{
			Name:        "trace_history_clear",
			Description: "Remove every entry from the shape history.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
