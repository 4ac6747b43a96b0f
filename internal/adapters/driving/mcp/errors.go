// Package mcp provides an MCP (Model Context Protocol) server adapter for ReqBot.
// It lets AI assistants drive a requirements session: draft, refine, classify
// and report on requirements.
package mcp

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("mcp: session service is required")
