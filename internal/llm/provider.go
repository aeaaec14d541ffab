// Package llm provides relation extraction backed by a language model.
// The model is treated as an opaque classification oracle: it receives the
// text of a biography page and returns family-political-relation records,
// validated strictly at this boundary.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/lineage/internal/model"
)

// Provider defines the interface for relation-extraction providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// ExtractRelations inspects the body text of a politician's biography
	// page and returns their family political relations
	ExtractRelations(ctx context.Context, subject string, body string) ([]model.FamilyRelation, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the provider
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Model:     "gpt-4o",
		Timeout:   60,
		MaxTokens: 1000,
	}
}

// systemPrompt instructs the model on its extraction role
const systemPrompt = `Your role is to inspect the contents of the politician's wikipedia page and extract information about any family members who were either a member of parliament, a local councilor, or otherwise a politician.

Respond with a JSON object of the form:
{"relations": [{"name": "...", "role": "...", "relation": "...", "party": "..."}]}

Each entry describes one family member:
- "name": name of the family member
- "role": their political role
- "relation": their relationship to the politician, exactly one of:
  "father", "mother", "uncle", "aunt", "husband", "wife", "brother", "sister", "grandparent etc."
- "party": their political party, or null if unknown

If the page mentions no such family members, respond with {"relations": []}.`

// BuildPrompt constructs the user message for one biography page
func BuildPrompt(subject string, body string) string {
	return fmt.Sprintf("Politician: %s\n\nPage contents:\n%s", subject, body)
}

// relationsEnvelope is the wire shape the model is asked to produce
type relationsEnvelope struct {
	Relations []model.FamilyRelation `json:"relations"`
}

// ParseRelations validates a raw model response against the tagged schema.
// Malformed JSON and unknown relation kinds are rejected rather than
// silently coerced.
func ParseRelations(raw string) ([]model.FamilyRelation, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty response")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var envelope relationsEnvelope
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}

	for i, rel := range envelope.Relations {
		if rel.Name == "" {
			return nil, fmt.Errorf("relation %d: missing name", i)
		}
		if !rel.Relation.Valid() {
			return nil, fmt.Errorf("relation %d (%s): unknown relation kind %q", i, rel.Name, rel.Relation)
		}
	}

	if envelope.Relations == nil {
		return []model.FamilyRelation{}, nil
	}
	return envelope.Relations, nil
}
