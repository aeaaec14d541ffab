package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/lineage/internal/model"
)

// fakeOracle returns canned relations and records what it was asked
type fakeOracle struct {
	relations []model.FamilyRelation
	err       error
	lastBody  string
}

func (f *fakeOracle) Name() string { return "fake" }

func (f *fakeOracle) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeOracle) ExtractRelations(ctx context.Context, subject, body string) ([]model.FamilyRelation, error) {
	f.lastBody = body
	if f.err != nil {
		return nil, f.err
	}
	return f.relations, nil
}

func TestPipeline_ExtractRelations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<html><body><div id="mw-content-text">Her father was an MP.</div></body></html>`)
	}))
	defer server.Close()

	oracle := &fakeOracle{relations: []model.FamilyRelation{
		{Name: "Parent", Role: "MP", Relation: model.RelationFather},
	}}
	pipe := NewPipeline(NewFetcher(testHTTPConfig()), oracle)

	mp := model.MP{ID: 4, Name: "Alice", URL: server.URL, RawParty: "Labour Party (UK)"}
	record, err := pipe.ExtractRelations(context.Background(), mp)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if record.ID != 4 || record.RelationCount() != 1 {
		t.Errorf("unexpected record: %+v", record)
	}
	if !strings.Contains(oracle.lastBody, "Her father was an MP.") {
		t.Errorf("oracle got wrong body: %q", oracle.lastBody)
	}
}

func TestPipeline_ExtractRelations_OracleError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<html><body><div id="mw-content-text">text</div></body></html>`)
	}))
	defer server.Close()

	oracle := &fakeOracle{err: errors.New("model unavailable")}
	pipe := NewPipeline(NewFetcher(testHTTPConfig()), oracle)

	_, err := pipe.ExtractRelations(context.Background(), model.MP{ID: 0, Name: "Alice", URL: server.URL})
	if err == nil || !strings.Contains(err.Error(), "model unavailable") {
		t.Errorf("expected oracle error to propagate, got %v", err)
	}
}

func TestPipeline_ExtractRelations_MissingContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<html><body><p>no content div</p></body></html>`)
	}))
	defer server.Close()

	pipe := NewPipeline(NewFetcher(testHTTPConfig()), &fakeOracle{})
	_, err := pipe.ExtractRelations(context.Background(), model.MP{ID: 0, Name: "Alice", URL: server.URL})
	if err == nil {
		t.Error("expected error for page without content region")
	}
}

func TestPipeline_FetchRoster(t *testing.T) {
	page := rosterPage(rosterRow("Alice", "/wiki/Alice_MP", "Labour Party (UK)"))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, page)
	}))
	defer server.Close()

	pipe := NewPipeline(NewFetcher(testHTTPConfig()), &fakeOracle{})
	mps, err := pipe.FetchRoster(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetch roster: %v", err)
	}
	if len(mps) != 1 || mps[0].Name != "Alice" {
		t.Errorf("unexpected roster: %+v", mps)
	}
	// Relative MP links resolve against the roster URL
	if !strings.HasPrefix(mps[0].URL, server.URL) {
		t.Errorf("expected URL under %s, got %s", server.URL, mps[0].URL)
	}
}
