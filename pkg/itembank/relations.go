package itembank

import "strings"

// Relation names a child collection that can be expanded onto an item.
type Relation string

const (
	RelOptions  Relation = "options"
	RelHints    Relation = "hints"
	RelSolution Relation = "solution"
	RelMedia    Relation = "media"
	RelTags     Relation = "tags"
	RelConcepts Relation = "concepts"
)

var (
	draftRelations = []Relation{RelOptions, RelHints, RelSolution, RelMedia, RelTags, RelConcepts}
	prodRelations  = []Relation{RelOptions, RelHints, RelSolution}
)

// RelationsFor lists the relations an owner kind supports.
func RelationsFor(owner OwnerType) []Relation {
	switch owner {
	case OwnerDraft:
		return append([]Relation(nil), draftRelations...)
	case OwnerProd:
		return append([]Relation(nil), prodRelations...)
	}
	return nil
}

// Supports reports whether owner has relation r.
func Supports(owner OwnerType, r Relation) bool {
	for _, x := range RelationsFor(owner) {
		if x == r {
			return true
		}
	}
	return false
}

// RelationSet is an ordered set of requested relations.
type RelationSet []Relation

// Has reports whether r is in the set.
func (s RelationSet) Has(r Relation) bool {
	for _, x := range s {
		if x == r {
			return true
		}
	}
	return false
}

// ParseInclude parses a comma-separated include list. Names the owner does
// not support are dropped silently; duplicates keep their first position.
func ParseInclude(raw string, owner OwnerType) RelationSet {
	var set RelationSet
	for _, part := range strings.Split(raw, ",") {
		r := Relation(strings.TrimSpace(part))
		if r == "" || !Supports(owner, r) || set.Has(r) {
			continue
		}
		set = append(set, r)
	}
	return set
}

// OwnerSet is a batch of owner ids that share one owner type.
type OwnerSet struct {
	Type OwnerType
	IDs  []string
}
