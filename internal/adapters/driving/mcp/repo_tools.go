package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/services"
)

const (
	// maxAnswerDocs bounds how many documentation files ask_question
	// reads per call.
	maxAnswerDocs = 5

	// maxAnswerSnippets is how many ranked paragraphs make the answer.
	maxAnswerSnippets = 3
)

// WikiStructureInput is the input schema for read_wiki_structure.
type WikiStructureInput struct {
	Owner string `json:"owner" jsonschema:"repository owner"`
	Repo  string `json:"repo" jsonschema:"repository name"`
}

// WikiStructureOutput lists a repository's documentation files.
type WikiStructureOutput struct {
	Repository string   `json:"repository"`
	Paths      []string `json:"paths"`
	Structure  string   `json:"structure"`
}

func (s *Server) handleWikiStructure(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input WikiStructureInput,
) (*mcp.CallToolResult, WikiStructureOutput, error) {
	session, fail := requireSession(ctx)
	if fail != nil {
		return fail, WikiStructureOutput{}, nil
	}

	paths, err := session.GitHub.MarkdownTree(ctx, input.Owner, input.Repo)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return toolError(fmt.Sprintf("repository not found: %s", joinRepo(input.Owner, input.Repo))), WikiStructureOutput{}, nil
		}
		return nil, WikiStructureOutput{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Documentation of %s\n\n", joinRepo(input.Owner, input.Repo))
	for _, path := range paths {
		fmt.Fprintf(&b, "- %s\n", path)
	}

	return nil, WikiStructureOutput{
		Repository: joinRepo(input.Owner, input.Repo),
		Paths:      paths,
		Structure:  b.String(),
	}, nil
}

// FileContentInput is the input schema for read_file_content.
type FileContentInput struct {
	Owner string `json:"owner" jsonschema:"repository owner"`
	Repo  string `json:"repo" jsonschema:"repository name"`
	Path  string `json:"path" jsonschema:"file path within the repository"`
}

// FileContentOutput is the decoded file.
type FileContentOutput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (s *Server) handleFileContent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FileContentInput,
) (*mcp.CallToolResult, FileContentOutput, error) {
	session, fail := requireSession(ctx)
	if fail != nil {
		return fail, FileContentOutput{}, nil
	}
	if !session.CanReadFiles {
		return toolError(fmt.Sprintf("user %s is not allowed to read file contents", session.Props.Login)), FileContentOutput{}, nil
	}

	content, err := session.GitHub.GetFileContent(ctx, input.Owner, input.Repo, input.Path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return toolError(fmt.Sprintf("file not found: %s", input.Path)), FileContentOutput{}, nil
		}
		return nil, FileContentOutput{}, err
	}

	return nil, FileContentOutput{Path: input.Path, Content: content}, nil
}

// AskQuestionInput is the input schema for ask_question.
type AskQuestionInput struct {
	Owner    string `json:"owner" jsonschema:"repository owner"`
	Repo     string `json:"repo" jsonschema:"repository name"`
	Question string `json:"question" jsonschema:"the question to answer from the repository's documentation"`
}

// AskQuestionOutput is the assembled answer.
type AskQuestionOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

func (s *Server) handleAskQuestion(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskQuestionInput,
) (*mcp.CallToolResult, AskQuestionOutput, error) {
	session, fail := requireSession(ctx)
	if fail != nil {
		return fail, AskQuestionOutput{}, nil
	}
	if strings.TrimSpace(input.Question) == "" {
		return toolError("question must not be empty"), AskQuestionOutput{}, nil
	}

	paragraphs, sources := s.collectDocumentation(ctx, session, input.Owner, input.Repo)
	ranked := services.RankSnippets(input.Question, paragraphs, maxAnswerSnippets)

	if len(ranked) == 0 {
		// Nothing in this repository's docs; point at repositories that
		// might cover the topic instead.
		return s.relatedRepositories(ctx, session, input.Question)
	}

	return nil, AskQuestionOutput{
		Answer:  strings.Join(ranked, "\n\n---\n\n"),
		Sources: sources,
	}, nil
}

// collectDocumentation gathers paragraphs from the README and the
// first documentation files of the repository.
func (s *Server) collectDocumentation(ctx context.Context, session *Session, owner, repo string) (paragraphs, sources []string) {
	if readme, err := session.GitHub.GetReadme(ctx, owner, repo); err == nil {
		paragraphs = append(paragraphs, services.SplitParagraphs(readme)...)
		sources = append(sources, "README")
	}

	paths, err := session.GitHub.MarkdownTree(ctx, owner, repo)
	if err != nil {
		s.log.Debug("listing documentation failed", "repo", joinRepo(owner, repo), "error", err)
		return paragraphs, sources
	}

	for _, path := range paths {
		if len(sources) >= maxAnswerDocs {
			break
		}
		content, err := session.GitHub.GetFileContent(ctx, owner, repo, path)
		if err != nil {
			s.log.Debug("reading documentation failed", "path", path, "error", err)
			continue
		}
		paragraphs = append(paragraphs, services.SplitParagraphs(content)...)
		sources = append(sources, path)
	}
	return paragraphs, sources
}

// relatedRepositories is the ask_question fallback when the docs hold
// no answer.
func (s *Server) relatedRepositories(ctx context.Context, session *Session, question string) (*mcp.CallToolResult, AskQuestionOutput, error) {
	repos, err := session.GitHub.SearchRepositories(ctx, question, maxAnswerSnippets)
	if err != nil || len(repos) == 0 {
		return toolError("no matching documentation found"), AskQuestionOutput{}, nil
	}

	var b strings.Builder
	b.WriteString("The repository's documentation does not cover this. Related repositories:\n")
	sources := make([]string, 0, len(repos))
	for _, r := range repos {
		fmt.Fprintf(&b, "- %s: %s\n", r.FullName, r.Description)
		sources = append(sources, r.URL)
	}
	return nil, AskQuestionOutput{Answer: b.String(), Sources: sources}, nil
}

// UserInfoInput is the (empty) input schema for get_user_info.
type UserInfoInput struct{}

// UserInfoOutput describes the authenticated user. The upstream access
// token is deliberately absent.
type UserInfoOutput struct {
	Login string `json:"login"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (s *Server) handleUserInfo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ UserInfoInput,
) (*mcp.CallToolResult, UserInfoOutput, error) {
	session, fail := requireSession(ctx)
	if fail != nil {
		return fail, UserInfoOutput{}, nil
	}
	return nil, UserInfoOutput{
		Login: session.Props.Login,
		Name:  session.Props.Name,
		Email: session.Props.Email,
	}, nil
}
