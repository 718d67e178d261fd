package docstore

import (
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

//go:embed corpus.toml
var corpusTOML []byte

// corpusFile mirrors the layout of corpus.toml.
type corpusFile struct {
	Documents []domain.Document `toml:"documents"`
}

// NewSeeded creates a store from the embedded deepwiki corpus.
func NewSeeded() (*Store, error) {
	docs, err := parseCorpus(corpusTOML)
	if err != nil {
		return nil, err
	}
	return New(docs)
}

// parseCorpus decodes a TOML corpus definition.
func parseCorpus(data []byte) ([]domain.Document, error) {
	var f corpusFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing corpus: %w", err)
	}
	if len(f.Documents) == 0 {
		return nil, fmt.Errorf("parsing corpus: %w: no documents", domain.ErrInvalidInput)
	}
	return f.Documents, nil
}
