// Package mcp exposes the documentation corpus and repository tools
// over the Model Context Protocol, behind bearer-token authentication.
package mcp

import (
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("mcp: document service is required")

// toolError reports a failure in-band as a tool result. The MCP session
// stays healthy; only this call is marked failed.
func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
