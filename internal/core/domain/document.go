package domain

// Document is a single entry in the documentation corpus.
// Documents are created once at store construction and never mutated.
type Document struct {
	// ID is the unique identifier. It may encode a category, for
	// example "repo:<owner>/<name>" or "file:<owner>:<name>:<path>",
	// or be a flat corpus id like "mcp-security".
	ID string `toml:"id" json:"id"`

	// Title is the human-readable name.
	Title string `toml:"title" json:"title"`

	// Content is the full text body.
	Content string `toml:"content" json:"content"`

	// URL is an optional canonical link.
	URL string `toml:"url" json:"url,omitempty"`

	// Metadata holds version, category and tag information.
	Metadata DocumentMetadata `toml:"metadata" json:"metadata"`
}

// DocumentMetadata describes a document's placement in the corpus.
type DocumentMetadata struct {
	// Version is the product version the document describes.
	Version string `toml:"version" json:"version"`

	// Category groups related documents.
	Category string `toml:"category" json:"category"`

	// Tags are free-form labels, in declaration order.
	Tags []string `toml:"tags" json:"tags"`
}

// SearchResult is a per-query projection of a matched document.
// Text may be truncated for transport.
type SearchResult struct {
	// ID is the matched document's identifier.
	ID string `json:"id"`

	// Title is the matched document's title.
	Title string `json:"title"`

	// Text is the document content, possibly truncated.
	Text string `json:"text"`

	// URL is the canonical link, when the document has one.
	URL string `json:"url,omitempty"`
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// Version filters results to documents whose metadata version
	// matches exactly (case-sensitive). Empty means no filter.
	Version string

	// Limit is the maximum number of results. Defaults to 10.
	Limit int
}
