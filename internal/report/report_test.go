package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/lineage/internal/model"
)

func recordWith(id int, rawParty string, relations ...model.Relation) model.MPRecord {
	rec := model.MPRecord{MP: model.MP{ID: id, Name: "MP", URL: "https://example.org", RawParty: rawParty}}
	for _, r := range relations {
		rec.Relations = append(rec.Relations, model.FamilyRelation{Name: "X", Role: "MP", Relation: r})
	}
	return rec
}

func TestBuild_OverallAncestorPercentage(t *testing.T) {
	// 4 records, 2 with at least one ancestor relation: 50.0 overall
	records := []model.MPRecord{
		recordWith(0, "Labour Party (UK)", model.RelationFather),
		recordWith(1, "Labour Party (UK)", model.RelationWife),
		recordWith(2, "Conservative Party (UK)", model.RelationGrandparent),
		recordWith(3, "Conservative Party (UK)"),
	}

	rep := Build(records)

	if rep.Overall.AncestorPct != 50.0 {
		t.Errorf("overall ancestor pct = %v, want 50.0", rep.Overall.AncestorPct)
	}
	if rep.Overall.RelationsPct != 75.0 {
		t.Errorf("overall relations pct = %v, want 75.0", rep.Overall.RelationsPct)
	}
	if rep.Overall.Count != 4 {
		t.Errorf("overall count = %d, want 4", rep.Overall.Count)
	}
}

func TestBuild_PerPartyOrdering(t *testing.T) {
	records := []model.MPRecord{
		recordWith(0, "Labour Party (UK)"),
		recordWith(1, "Labour Party (UK)"),
		recordWith(2, "Conservative Party (UK)", model.RelationMother),
		recordWith(3, "Scottish National Party"),
	}

	rep := Build(records)

	if len(rep.ByParty) != 3 {
		t.Fatalf("expected 3 party rows, got %d", len(rep.ByParty))
	}
	// Conservative has 100% ancestors and sorts first
	if rep.ByParty[0].Party != string(model.PartyConservative) {
		t.Errorf("first row = %q, want Conservative", rep.ByParty[0].Party)
	}
	if rep.ByParty[0].AncestorPct != 100.0 {
		t.Errorf("Conservative ancestor pct = %v, want 100.0", rep.ByParty[0].AncestorPct)
	}
	// Labour and Other tie at 0 and order alphabetically
	if rep.ByParty[1].Party != string(model.PartyLabour) || rep.ByParty[2].Party != string(model.PartyOther) {
		t.Errorf("tie order = %q, %q; want Labour, Other", rep.ByParty[1].Party, rep.ByParty[2].Party)
	}
}

func TestBuild_Rounding(t *testing.T) {
	// 1 of 3 → 33.333... rounds to 33.33
	records := []model.MPRecord{
		recordWith(0, "x", model.RelationFather),
		recordWith(1, "x"),
		recordWith(2, "x"),
	}

	rep := Build(records)
	if rep.Overall.AncestorPct != 33.33 {
		t.Errorf("ancestor pct = %v, want 33.33", rep.Overall.AncestorPct)
	}
}

func TestBuild_Empty(t *testing.T) {
	rep := Build(nil)
	if rep.Overall.Count != 0 || rep.Overall.AncestorPct != 0 || len(rep.ByParty) != 0 {
		t.Errorf("unexpected report for empty input: %+v", rep)
	}
}

func TestRenderTables(t *testing.T) {
	records := []model.MPRecord{
		recordWith(0, "Labour Party (UK)", model.RelationFather),
		recordWith(1, "Conservative Party (UK)"),
	}

	var buf bytes.Buffer
	RenderTables(&buf, Build(records))
	out := buf.String()

	for _, want := range []string{
		"political_ancestor_percentage",
		"political_relations_percentage",
		"mps",
		"party",
		"Labour",
		"Conservative",
		"100.00",
		"0.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered tables missing %q:\n%s", want, out)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	records := []model.MPRecord{
		recordWith(0, "Labour Party (UK)", model.RelationFather, model.RelationWife),
		recordWith(2, "Scottish National Party"),
	}

	if err := WriteCSV(path, records); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "id" || rows[0][6] != "political_ancestor_count" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	first := rows[1]
	if first[0] != "0" || first[4] != "Labour" || first[5] != "2" || first[6] != "1" {
		t.Errorf("unexpected first row: %v", first)
	}
	second := rows[2]
	if second[0] != "2" || second[4] != "Other" || second[5] != "0" {
		t.Errorf("unexpected second row: %v", second)
	}
}
