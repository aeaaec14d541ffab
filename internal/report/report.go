// Package report aggregates finished records into per-party summary
// statistics and renders the final outputs.
package report

import (
	"math"
	"sort"

	"github.com/ppiankov/lineage/internal/model"
)

// Row is one aggregated line of the summary
type Row struct {
	Party        string  `json:"party,omitempty"`
	AncestorPct  float64 `json:"political_ancestor_percentage"`
	RelationsPct float64 `json:"political_relations_percentage"`
	Count        int     `json:"mps"`
}

// Report holds the overall and per-party aggregates
type Report struct {
	Overall Row   `json:"overall"`
	ByParty []Row `json:"by_party"`
}

// Build computes, for the whole population and per party, the percentage
// of MPs with at least one political relation and with at least one
// political ancestor. Per-party rows are ordered by ancestor percentage
// descending, ties broken by party name for deterministic output.
func Build(records []model.MPRecord) Report {
	rep := Report{Overall: aggregate("", records)}

	byParty := make(map[model.Party][]model.MPRecord)
	for _, rec := range records {
		party := rec.Party()
		byParty[party] = append(byParty[party], rec)
	}

	for party, group := range byParty {
		rep.ByParty = append(rep.ByParty, aggregate(string(party), group))
	}
	sort.Slice(rep.ByParty, func(i, j int) bool {
		a, b := rep.ByParty[i], rep.ByParty[j]
		if a.AncestorPct != b.AncestorPct {
			return a.AncestorPct > b.AncestorPct
		}
		return a.Party < b.Party
	})

	return rep
}

func aggregate(party string, records []model.MPRecord) Row {
	row := Row{Party: party, Count: len(records)}
	if len(records) == 0 {
		return row
	}

	withRelations := 0
	withAncestors := 0
	for _, rec := range records {
		if rec.RelationCount() > 0 {
			withRelations++
		}
		if rec.AncestorCount() > 0 {
			withAncestors++
		}
	}

	row.RelationsPct = round2(float64(withRelations) / float64(len(records)) * 100)
	row.AncestorPct = round2(float64(withAncestors) / float64(len(records)) * 100)
	return row
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
