package model

// MPRecord is a fully processed MP: the roster stub plus the family
// relations extracted from their biography page
type MPRecord struct {
	MP
	Relations []FamilyRelation `json:"relations"`
}

// RelationCount returns the number of extracted family relations
func (r MPRecord) RelationCount() int {
	return len(r.Relations)
}

// AncestorCount returns the number of relations that are ancestors
// (father, mother, uncle, aunt, grandparent etc.)
func (r MPRecord) AncestorCount() int {
	count := 0
	for _, rel := range r.Relations {
		if rel.Relation.IsAncestor() {
			count++
		}
	}
	return count
}
