package services

import (
	"sort"
	"strings"
)

// RankSnippets orders text snippets by relevance to a question, using
// the same literal-occurrence counting as document search. Snippets
// with no matching token are dropped; ties keep input order. At most
// limit snippets are returned.
func RankSnippets(question string, snippets []string, limit int) []string {
	tokens := tokenize(question)
	if len(tokens) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	type scored struct {
		text     string
		score    int
		position int
	}

	var matched []scored
	for i, snippet := range snippets {
		lower := strings.ToLower(snippet)
		score := 0
		for _, token := range tokens {
			score += strings.Count(lower, token)
		}
		if score > 0 {
			matched = append(matched, scored{text: snippet, score: score, position: i})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		return matched[i].position < matched[j].position
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]string, len(matched))
	for i := range matched {
		out[i] = matched[i].text
	}
	return out
}

// SplitParagraphs breaks text into non-empty paragraphs on blank lines.
func SplitParagraphs(text string) []string {
	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}
