package services

import (
	"context"
	"sort"
	"strings"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/deepwiki-mcp/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Scoring weights. Title matches dominate tag matches, which dominate
// raw body occurrence counts.
const (
	titleWeight = 10
	tagWeight   = 5

	// DefaultLimit is the top-K bound on search results.
	DefaultLimit = 10
)

// scoredDocument holds a candidate with its relevance score and seed
// position, so ties resolve deterministically by store order.
type scoredDocument struct {
	doc      domain.Document
	score    int
	position int
}

// SearchService ranks corpus documents against keyword queries.
type SearchService struct {
	store driven.DocumentStore
	log   *logger.Logger
}

// NewSearchService creates a new search service over the given store.
func NewSearchService(store driven.DocumentStore, log *logger.Logger) *SearchService {
	return &SearchService{
		store: store,
		log:   log.Named("search"),
	}
}

// Search tokenizes the query, filters the corpus and returns the top
// opts.Limit documents by descending score. An empty query yields no
// results: with no tokens, "at least one token matches" is vacuously
// false for every document.
func (s *SearchService) Search(
	_ context.Context, query string, opts domain.SearchOptions,
) ([]domain.Document, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	tokens := tokenize(query)
	s.log.Debug("search", "query", query, "tokens", len(tokens), "version", opts.Version)
	if len(tokens) == 0 {
		return []domain.Document{}, nil
	}

	var candidates []scoredDocument
	for i, doc := range s.store.GetAll() {
		if opts.Version != "" && doc.Metadata.Version != opts.Version {
			continue
		}
		if !matchesAny(doc, tokens) {
			continue
		}
		candidates = append(candidates, scoredDocument{
			doc:      doc,
			score:    scoreDocument(doc, tokens),
			position: i,
		})
	}

	// Stable by construction: ties keep ascending seed position.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].position < candidates[j].position
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]domain.Document, len(candidates))
	for i, c := range candidates {
		results[i] = c.doc
	}

	s.log.Debug("search done", "results", len(results))
	return results, nil
}

// tokenize splits a query on runs of whitespace and lowercases each
// token. No stemming, no punctuation stripping.
func tokenize(query string) []string {
	fields := strings.Fields(query)
	tokens := make([]string, len(fields))
	for i, f := range fields {
		tokens[i] = strings.ToLower(f)
	}
	return tokens
}

// matchesAny reports whether at least one token appears in the
// document's searchable text (title, content and tags) or its category.
func matchesAny(doc domain.Document, tokens []string) bool {
	haystack := searchableText(doc)
	category := strings.ToLower(doc.Metadata.Category)

	for _, tok := range tokens {
		if strings.Contains(haystack, tok) || strings.Contains(category, tok) {
			return true
		}
	}
	return false
}

// scoreDocument totals the relevance contributions of every token.
// Content occurrences are counted as literal substrings, never as
// regular expressions, so tokens like "c++" cannot corrupt matching.
func scoreDocument(doc domain.Document, tokens []string) int {
	title := strings.ToLower(doc.Title)
	tags := strings.ToLower(strings.Join(doc.Metadata.Tags, " "))
	content := strings.ToLower(doc.Content)

	score := 0
	for _, tok := range tokens {
		if strings.Contains(title, tok) {
			score += titleWeight
		}
		if strings.Contains(tags, tok) {
			score += tagWeight
		}
		score += strings.Count(content, tok)
	}
	return score
}

// searchableText is the lowercased concatenation of title, content and
// the tags joined by spaces, used for the candidate filter.
func searchableText(doc domain.Document) string {
	var b strings.Builder
	b.WriteString(doc.Title)
	b.WriteString(" ")
	b.WriteString(doc.Content)
	b.WriteString(" ")
	b.WriteString(strings.Join(doc.Metadata.Tags, " "))
	return strings.ToLower(b.String())
}
