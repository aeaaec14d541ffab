package model

// Relation classifies how a family member relates to the MP.
// Wire values match the checkpoint files produced by earlier runs,
// including the catch-all "grandparent etc." spelling.
type Relation string

const (
	RelationFather      Relation = "father"
	RelationMother      Relation = "mother"
	RelationUncle       Relation = "uncle"
	RelationAunt        Relation = "aunt"
	RelationHusband     Relation = "husband"
	RelationWife        Relation = "wife"
	RelationBrother     Relation = "brother"
	RelationSister      Relation = "sister"
	RelationGrandparent Relation = "grandparent etc."
)

// Relations lists every valid relation kind
var Relations = []Relation{
	RelationFather,
	RelationMother,
	RelationUncle,
	RelationAunt,
	RelationHusband,
	RelationWife,
	RelationBrother,
	RelationSister,
	RelationGrandparent,
}

// Valid reports whether r is one of the known relation kinds
func (r Relation) Valid() bool {
	for _, known := range Relations {
		if r == known {
			return true
		}
	}
	return false
}

// IsAncestor reports whether the relation is an ancestor (or ancestor-like)
// relation rather than a spouse or sibling
func (r Relation) IsAncestor() bool {
	switch r {
	case RelationFather, RelationMother, RelationUncle, RelationAunt, RelationGrandparent:
		return true
	default:
		return false
	}
}

// FamilyRelation is one family member of an MP who was themselves a
// politician (MP, local councilor, or otherwise)
type FamilyRelation struct {
	Name     string   `json:"name"`            // Name of the family member
	Role     string   `json:"role"`            // Political role of the family member
	Relation Relation `json:"relation"`        // Relationship to the MP
	Party    *string  `json:"party,omitempty"` // Party of the family member, if known
}
