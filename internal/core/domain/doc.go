// Package domain defines the core business entities for deepwiki-mcp.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A corpus entry with version/category/tag metadata
//   - SearchResult: A per-query projection of a matched document
//   - PendingAuthorization: An in-flight MCP client authorization
//   - AuthorizedProps: The identity bundle bound to a completed session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
