package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/trace-shapes-mcp/internal/capture"
	"github.com/ironsheep/trace-shapes-mcp/internal/detection"
	"github.com/ironsheep/trace-shapes-mcp/internal/geometry"
	"github.com/ironsheep/trace-shapes-mcp/internal/history"
	"github.com/ironsheep/trace-shapes-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "trace_classify", "trace_render").
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies per-call tolerance overrides
//  3. Calls the appropriate detection/capture/imaging function
//  4. Records classifications in the history
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Classification
	case "trace_classify":
		return s.handleTraceClassify(args)
	case "trace_analyze":
		return s.handleTraceAnalyze(args)
	case "trace_statistics":
		return s.handleTraceStatistics(args)

	// Visualisation
	case "trace_render":
		return s.handleTraceRender(args)

	// Capture
	case "trace_replay":
		return s.handleTraceReplay(args)
	case "trace_capture":
		return s.handleTraceCapture(args)

	// History
	case "trace_history":
		return s.handleTraceHistory(args)
	case "trace_history_clear":
		return s.handleTraceHistoryClear(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// configOverride holds per-call tolerance overrides. Nil fields keep the
// server's setting.
type configOverride struct {
	GeneralTolerance          *float64 `json:"general_tolerance"`
	CircleTolerance           *float64 `json:"circle_tolerance"`
	LineTolerancePx           *float64 `json:"line_tolerance_px"`
	EllipseCentrumTolerancePx *int     `json:"ellipse_centrum_tolerance_px"`
	EllipseTolerance          *float64 `json:"ellipse_tolerance"`
}

func (o *configOverride) apply(cfg detection.Config) detection.Config {
	if o == nil {
		return cfg
	}
	if o.GeneralTolerance != nil {
		cfg.GeneralTolerance = *o.GeneralTolerance
	}
	if o.CircleTolerance != nil {
		cfg.CircleTolerance = *o.CircleTolerance
	}
	if o.LineTolerancePx != nil {
		cfg.LineTolerancePx = *o.LineTolerancePx
	}
	if o.EllipseCentrumTolerancePx != nil {
		cfg.EllipseCentrumTolerancePx = *o.EllipseCentrumTolerancePx
	}
	if o.EllipseTolerance != nil {
		cfg.EllipseTolerance = *o.EllipseTolerance
	}
	return cfg
}

// classifierFor returns the server classifier, or a new one when the call
// overrides any tolerance.
func (s *Server) classifierFor(o *configOverride) (*detection.Classifier, error) {
	if o == nil {
		return s.classifier, nil
	}
	return detection.NewClassifier(o.apply(s.classifier.Config()))
}

// record adds a classified trace to the history.
func (s *Server) record(trace []geometry.Point, result detection.Result) history.Entry {
	entry := s.history.Add(trace, result)
	s.debugf("classified %d points as %s [%s]", len(trace), result, entry.ID)
	return entry
}

// === Classification Handlers ===

type traceClassifyArgs struct {
	Points []geometry.Point `json:"points"`
	Config *configOverride  `json:"config"`
}

// ClassifyResult is the reply of trace_classify.
type ClassifyResult struct {
	ID         string          `json:"id"`
	Points     int             `json:"points"`
	Shape      detection.Shape `json:"shape"`
	Confidence int             `json:"confidence"`
	Basis      detection.Shape `json:"basis"`
	Label      string          `json:"label"`
	Reason     string          `json:"reason,omitempty"`
}

func newClassifyResult(e history.Entry) ClassifyResult {
	return ClassifyResult{
		ID:         e.ID,
		Points:     e.Points,
		Shape:      e.Result.Shape,
		Confidence: e.Result.Confidence,
		Basis:      e.Result.Basis,
		Label:      e.Label,
		Reason:     e.Result.Reason,
	}
}

func (s *Server) handleTraceClassify(args json.RawMessage) (interface{}, error) {
	var a traceClassifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := s.classifierFor(a.Config)
	if err != nil {
		return nil, err
	}

	result, err := c.Classify(a.Points)
	if err != nil {
		return nil, err
	}
	return newClassifyResult(s.record(a.Points, result)), nil
}

// AnalyzeResult is the reply of trace_analyze.
type AnalyzeResult struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	*detection.Analysis
}

func (s *Server) handleTraceAnalyze(args json.RawMessage) (interface{}, error) {
	var a traceClassifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := s.classifierFor(a.Config)
	if err != nil {
		return nil, err
	}

	analysis, err := c.Analyze(a.Points)
	if err != nil {
		return nil, err
	}
	entry := s.record(a.Points, analysis.Result)
	return AnalyzeResult{ID: entry.ID, Label: entry.Label, Analysis: analysis}, nil
}

type traceStatisticsArgs struct {
	Points    []geometry.Point `json:"points"`
	Reference *geometry.Point  `json:"reference"`
	Tolerance *float64         `json:"tolerance"`
}

// StatisticsResult is the reply of trace_statistics.
type StatisticsResult struct {
	Points    int                             `json:"points"`
	Reference geometry.Point                  `json:"reference"`
	Centroid  bool                            `json:"reference_is_centroid"`
	Tolerance float64                         `json:"tolerance"`
	Distances geometry.DistanceSet            `json:"distances"`
	Stats     geometry.ReferenceDistanceStats `json:"reference_stats"`
}

func (s *Server) handleTraceStatistics(args json.RawMessage) (interface{}, error) {
	var a traceStatisticsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, geometry.ErrEmptyTrace
	}
	if err := geometry.CheckBounds(a.Points); err != nil {
		return nil, err
	}
	if a.Reference != nil && !a.Reference.InBounds() {
		return nil, fmt.Errorf("reference %v: %w", *a.Reference, geometry.ErrOutOfRange)
	}

	tolerance := s.classifier.Config().CircleTolerance
	if a.Tolerance != nil {
		tolerance = *a.Tolerance
	}
	if tolerance < 0 || tolerance > 1 {
		return nil, fmt.Errorf("tolerance must be in [0, 1], got %v", tolerance)
	}

	r := StatisticsResult{
		Points:    len(a.Points),
		Tolerance: tolerance,
		Distances: geometry.AllPairsExtremes(a.Points),
	}
	if a.Reference != nil {
		r.Reference = *a.Reference
	} else {
		centroid, err := geometry.Centroid(a.Points)
		if err != nil {
			return nil, err
		}
		r.Reference = centroid
		r.Centroid = true
	}
	r.Stats = geometry.ReferenceStats(a.Points, r.Reference, tolerance)
	return r, nil
}

// === Visualisation Handlers ===

type traceRenderArgs struct {
	Points      []geometry.Point `json:"points"`
	ID          string           `json:"id"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	StrokeWidth int              `json:"stroke_width"`
	ShowGrid    bool             `json:"show_grid"`
	GridSpacing int              `json:"grid_spacing"`
	GridColor   string           `json:"grid_color"`
	GridLabels  bool             `json:"grid_labels"`
	Scale       float64          `json:"scale"`
	Config      *configOverride  `json:"config"`
}

// RenderResult is the reply of trace_render.
type RenderResult struct {
	*imaging.RenderResult
	Result detection.Result `json:"result"`
	Label  string           `json:"label"`
}

func (s *Server) handleTraceRender(args json.RawMessage) (interface{}, error) {
	var a traceRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	trace := a.Points
	var result detection.Result
	if a.ID != "" {
		entry, ok := s.history.Get(a.ID)
		if !ok {
			return nil, fmt.Errorf("no history entry %q", a.ID)
		}
		trace, result = entry.Trace, entry.Result
	} else {
		c, err := s.classifierFor(a.Config)
		if err != nil {
			return nil, err
		}
		// A single point still renders, uncoloured.
		result, err = c.Classify(trace)
		if err != nil && !errors.Is(err, detection.ErrInsufficientSamples) {
			return nil, err
		}
	}

	rendered, err := imaging.RenderTrace(trace, result, imaging.RenderOptions{
		Width:       a.Width,
		Height:      a.Height,
		StrokeWidth: a.StrokeWidth,
		ShowGrid:    a.ShowGrid,
		GridSpacing: a.GridSpacing,
		GridColor:   a.GridColor,
		GridLabels:  a.GridLabels,
		Scale:       a.Scale,
	})
	if err != nil {
		return nil, err
	}
	return RenderResult{RenderResult: rendered, Result: result, Label: result.String()}, nil
}

// === Capture Handlers ===

type traceReplayArgs struct {
	Samples    []geometry.Point `json:"samples"`
	EndTimeout int              `json:"end_timeout"`
	Config     *configOverride  `json:"config"`
}

// ReplayResult is the reply of trace_replay.
type ReplayResult struct {
	Cycles int `json:"cycles"`

	// Traces are the classified finished traces in order.
	Traces []ClassifyResult `json:"traces"`

	// Skipped counts finished traces too short to classify.
	Skipped int `json:"skipped"`

	// PartialPoints is the length of a trace still running when the
	// samples ran out; it is not classified.
	PartialPoints int `json:"partial_points"`
}

func (s *Server) handleTraceReplay(args json.RawMessage) (interface{}, error) {
	var a traceReplayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := s.classifierFor(a.Config)
	if err != nil {
		return nil, err
	}

	cfg := s.settings.Capture
	if a.EndTimeout != 0 {
		cfg.EndTimeout = a.EndTimeout
	}
	if err := geometry.CheckBounds(a.Samples); err != nil {
		return nil, err
	}
	finished, partial, err := capture.Replay(a.Samples, cfg)
	if err != nil {
		return nil, err
	}

	r := ReplayResult{
		Cycles:        len(a.Samples),
		Traces:        []ClassifyResult{},
		PartialPoints: len(partial),
	}
	for _, trace := range finished {
		result, err := c.Classify(trace)
		if errors.Is(err, detection.ErrInsufficientSamples) {
			r.Skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		r.Traces = append(r.Traces, newClassifyResult(s.record(trace, result)))
	}
	return r, nil
}

// defaultCaptureTimeout bounds a live capture when the call sets none.
const defaultCaptureTimeout = 30 * time.Second

type traceCaptureArgs struct {
	TimeoutMs int             `json:"timeout_ms"`
	Config    *configOverride `json:"config"`
}

// CaptureResult is the reply of trace_capture.
type CaptureResult struct {
	ClassifyResult

	// MalformedLines counts device lines that could not be parsed since the
	// device was opened.
	MalformedLines int `json:"malformed_lines,omitempty"`
}

// malformedCounter is implemented by sources that skip unparsable input.
type malformedCounter interface {
	Malformed() int
}

func (s *Server) handleTraceCapture(args json.RawMessage) (interface{}, error) {
	var a traceCaptureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if s.source == nil {
		return nil, errors.New("no pointer device configured")
	}
	c, err := s.classifierFor(a.Config)
	if err != nil {
		return nil, err
	}

	timeout := defaultCaptureTimeout
	if a.TimeoutMs > 0 {
		timeout = time.Duration(a.TimeoutMs) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	recorder, err := capture.NewRecorder(s.source, s.settings.Capture)
	if err != nil {
		return nil, err
	}
	trace, err := recorder.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture trace: %w", err)
	}

	r := CaptureResult{}
	if m, ok := s.source.(malformedCounter); ok {
		r.MalformedLines = m.Malformed()
		s.debugf("captured %d points, %d malformed device lines so far", len(trace), r.MalformedLines)
	}

	result, err := c.Classify(trace)
	if err != nil {
		return nil, err
	}
	r.ClassifyResult = newClassifyResult(s.record(trace, result))
	return r, nil
}

// === History Handlers ===

type traceHistoryArgs struct {
	ID            string `json:"id"`
	IncludeTraces bool   `json:"include_traces"`
}

// HistoryResult is the reply of trace_history.
type HistoryResult struct {
	Count   int                     `json:"count"`
	Counts  map[detection.Shape]int `json:"counts"`
	Entries []history.Entry         `json:"entries"`
}

func (s *Server) handleTraceHistory(args json.RawMessage) (interface{}, error) {
	var a traceHistoryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	if a.ID != "" {
		entry, ok := s.history.Get(a.ID)
		if !ok {
			return nil, fmt.Errorf("no history entry %q", a.ID)
		}
		return entry, nil
	}

	entries := s.history.List()
	if !a.IncludeTraces {
		for i := range entries {
			entries[i].Trace = nil
		}
	}
	return HistoryResult{
		Count:   len(entries),
		Counts:  s.history.Counts(),
		Entries: entries,
	}, nil
}

func (s *Server) handleTraceHistoryClear(args json.RawMessage) (interface{}, error) {
	removed := s.history.Clear()
	s.debugf("cleared %d history entries", removed)
	return map[string]interface{}{"removed": removed}, nil
}
