package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/deepwiki-mcp/internal/connectors/github"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/services"
)

// snippetLength caps the text returned per search result.
const snippetLength = 200

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the documentation corpus by keyword",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fetch",
		Description: "Fetch a document, repository or file by id",
	}, s.handleFetch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_wiki_structure",
		Description: "List the documentation files of a GitHub repository",
	}, s.handleWikiStructure)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_file_content",
		Description: "Read a file from a GitHub repository",
	}, s.handleFileContent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question from a repository's documentation",
	}, s.handleAskQuestion)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_user_info",
		Description: "Show the authenticated user",
	}, s.handleUserInfo)
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query   string `json:"query" jsonschema:"the search query"`
	Version string `json:"version,omitempty" jsonschema:"restrict results to an exact spec version, e.g. 2025-06-18"`
}

// SearchResultOutput is a single search hit.
type SearchResultOutput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url,omitempty"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	docs, err := s.ports.Search.Search(ctx, input.Query, domain.SearchOptions{Version: input.Version})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(docs)),
		Count:   len(docs),
	}
	for i := range docs {
		output.Results[i] = SearchResultOutput{
			ID:    docs[i].ID,
			Title: docs[i].Title,
			Text:  services.Truncate(docs[i].Content, snippetLength),
			URL:   docs[i].URL,
		}
	}
	return nil, output, nil
}

// FetchInput is the input schema for the fetch tool.
type FetchInput struct {
	ID string `json:"id" jsonschema:"a corpus document id, repo:<owner>/<name>, or file:<owner>:<name>:<path>"`
}

// FetchOutput is a fully resolved document.
type FetchOutput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url,omitempty"`
}

func (s *Server) handleFetch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FetchInput,
) (*mcp.CallToolResult, FetchOutput, error) {
	rid, err := github.ParseID(input.ID)
	if err != nil {
		return toolError(err.Error()), FetchOutput{}, nil
	}

	switch rid.Kind {
	case github.KindRepo:
		return s.fetchRepo(ctx, rid)
	case github.KindFile:
		return s.fetchFile(ctx, rid)
	default:
		return s.fetchDocument(ctx, input.ID)
	}
}

func (s *Server) fetchDocument(ctx context.Context, id string) (*mcp.CallToolResult, FetchOutput, error) {
	doc, err := s.ports.Document.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return toolError(fmt.Sprintf("document not found: %s", id)), FetchOutput{}, nil
		}
		return nil, FetchOutput{}, err
	}
	return nil, FetchOutput{ID: doc.ID, Title: doc.Title, Text: doc.Content, URL: doc.URL}, nil
}

func (s *Server) fetchRepo(ctx context.Context, rid github.ResourceID) (*mcp.CallToolResult, FetchOutput, error) {
	session := sessionFromContext(ctx)
	if session == nil {
		return toolError("no authenticated session"), FetchOutput{}, nil
	}

	repo, err := session.GitHub.GetRepository(ctx, rid.Owner, rid.Repo)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return toolError(fmt.Sprintf("repository not found: %s/%s", rid.Owner, rid.Repo)), FetchOutput{}, nil
		}
		return nil, FetchOutput{}, err
	}

	text := repo.Description
	// A missing README is not an error; the summary stands on its own.
	if readme, err := session.GitHub.GetReadme(ctx, rid.Owner, rid.Repo); err == nil && readme != "" {
		if text != "" {
			text += "\n\n"
		}
		text += readme
	}

	return nil, FetchOutput{
		ID:    github.RepoID(rid.Owner, rid.Repo),
		Title: repo.FullName,
		Text:  text,
		URL:   repo.URL,
	}, nil
}

func (s *Server) fetchFile(ctx context.Context, rid github.ResourceID) (*mcp.CallToolResult, FetchOutput, error) {
	session := sessionFromContext(ctx)
	if session == nil {
		return toolError("no authenticated session"), FetchOutput{}, nil
	}
	if !session.CanReadFiles {
		return toolError(fmt.Sprintf("user %s is not allowed to read file contents", session.Props.Login)), FetchOutput{}, nil
	}

	content, err := session.GitHub.GetFileContent(ctx, rid.Owner, rid.Repo, rid.Path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return toolError(fmt.Sprintf("file not found: %s", rid.Path)), FetchOutput{}, nil
		}
		return nil, FetchOutput{}, err
	}

	return nil, FetchOutput{
		ID:    github.FileID(rid.Owner, rid.Repo, rid.Path),
		Title: rid.Path,
		Text:  content,
		URL:   fmt.Sprintf("https://github.com/%s/%s/blob/HEAD/%s", rid.Owner, rid.Repo, rid.Path),
	}, nil
}

// requireSession fetches the session or reports the failure in-band.
func requireSession(ctx context.Context) (*Session, *mcp.CallToolResult) {
	session := sessionFromContext(ctx)
	if session == nil {
		return nil, toolError("no authenticated session")
	}
	return session, nil
}

// joinRepo renders owner/repo for messages.
func joinRepo(owner, repo string) string {
	return owner + "/" + repo
}
