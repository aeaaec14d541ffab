package model

import "strings"

// Party is the classified party affiliation of an MP
type Party string

const (
	PartyConservative Party = "Conservative"
	PartyLabour       Party = "Labour"
	PartyLibDem       Party = "Liberal Democrat"
	PartyOther        Party = "Other"
)

// MP is a legislator stub scraped from the roster page, before any
// relation extraction has happened
type MP struct {
	ID       int    `json:"id"`        // Stable id, assigned by roster row order
	Name     string `json:"name"`      // Display name from the roster table
	URL      string `json:"url"`       // Biography page URL
	RawParty string `json:"raw_party"` // Party label exactly as it appears on the page
}

// Party classifies RawParty into the fixed enumeration by case-insensitive
// substring match. First matching rule wins; anything unmatched is Other.
func (m MP) Party() Party {
	return ClassifyParty(m.RawParty)
}

// ClassifyParty maps a raw party label to the fixed Party enumeration
func ClassifyParty(raw string) Party {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "conservative"):
		return PartyConservative
	case strings.Contains(lower, "labour"):
		return PartyLabour
	case strings.Contains(lower, "liberal democrat"):
		return PartyLibDem
	default:
		return PartyOther
	}
}
