// Package server implements the MCP (Model Context Protocol) server for
// pointer-trace shape recognition.
//
// This package provides a JSON-RPC 2.0 server that exposes the shape
// classifier through the MCP protocol, so MCP clients can classify, inspect
// and render traces recorded from a mouse or touch device.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Classification:
//   - trace_classify: Label a trace as circle, line, ellipse or unknown
//   - trace_analyze: Classification plus every intermediate measurement
//   - trace_statistics: All-pairs and reference-point distance statistics
//
// Visualisation:
//   - trace_render: Draw a trace as PNG, coloured by its shape
//
// Capture:
//   - trace_replay: Split recorded pointer positions into traces and
//     classify each one
//   - trace_capture: Record and classify one trace from the attached
//     pointer device (see TRACE_MCP_SERIAL_PORT)
//
// History:
//   - trace_history: List classified shapes
//   - trace_history_clear: Forget them
//
// Classifying tools accept a "config" object overriding any tolerance for
// that call only.
//
// # Shape History
//
// Every classification is appended to an in-memory history with a UUID, so
// it can be listed or rendered later. The history lives for the lifetime of
// the server process and is capped by TRACE_MCP_HISTORY_LIMIT.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	settings, err := config.FromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.New(settings)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
