// Package pipeline fetches and parses the roster and biography pages and
// drives relation extraction for a single MP.
package pipeline

import (
	"context"
	"fmt"

	"github.com/ppiankov/lineage/internal/llm"
	"github.com/ppiankov/lineage/internal/model"
)

// Pipeline combines the fetcher and the relation-extraction provider
type Pipeline struct {
	fetcher *Fetcher
	oracle  llm.Provider
}

// NewPipeline creates a pipeline from an already configured fetcher and
// provider. The provider handle is passed in rather than constructed here
// so tests can substitute a fake.
func NewPipeline(fetcher *Fetcher, oracle llm.Provider) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		oracle:  oracle,
	}
}

// FetchRoster downloads and parses the roster page into MP stubs
func (p *Pipeline) FetchRoster(ctx context.Context, rosterURL string) ([]model.MP, error) {
	page, err := p.fetcher.FetchWithRetry(ctx, rosterURL)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}

	mps, err := ParseRoster(page, rosterURL)
	if err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	return mps, nil
}

// ExtractRelations fetches one MP's biography page and asks the provider
// for their family political relations
func (p *Pipeline) ExtractRelations(ctx context.Context, mp model.MP) (model.MPRecord, error) {
	page, err := p.fetcher.FetchWithRetry(ctx, mp.URL)
	if err != nil {
		return model.MPRecord{}, fmt.Errorf("fetch %s: %w", mp.URL, err)
	}

	body, err := ExtractBiography(page)
	if err != nil {
		return model.MPRecord{}, fmt.Errorf("extract content of %s: %w", mp.URL, err)
	}

	relations, err := p.oracle.ExtractRelations(ctx, mp.Name, body)
	if err != nil {
		return model.MPRecord{}, fmt.Errorf("extract relations for %s: %w", mp.Name, err)
	}

	return model.MPRecord{MP: mp, Relations: relations}, nil
}
