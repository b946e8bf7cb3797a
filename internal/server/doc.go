// Package server implements an MCP (Model Context Protocol) server for running
// and inspecting Brainfuck programs, including programs stored as images.
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
// Program Execution:
//   - bf_run: Run Brainfuck source text
//   - image_run: Extract and run the program in a PNG
//
// Image Inspection:
//   - image_walk: Extract the command string, optionally with a step trace
//   - image_info: Dimensions and chunk layout
//   - image_palette: Most frequent colors and what they mean in each mode
//
// Program Rendering:
//   - image_render: Write source text as a program image
//
// # Input
//
// Since stdin carries the protocol, programs never read live input. The ','
// command reads the program's input literal, then the tool's input argument,
// and fails once both are used up.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the server. Writing
// an image with image_render evicts that path.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
