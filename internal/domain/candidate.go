package domain

import (
	"fmt"
	"strings"
)

type CandidateID string

type Candidate struct {
	ID   CandidateID
	Name string
}

// Catalog is the immutable, ordered set of candidates a user picks from.
// Declared order is the order pages are built in.
type Catalog struct {
	candidates []Candidate
	index      map[CandidateID]int
}

func NewCatalog(candidates []Candidate) (Catalog, error) {
	if len(candidates) == 0 {
		return Catalog{}, fmt.Errorf("%w: no candidates", ErrInvalidCatalog)
	}

	index := make(map[CandidateID]int, len(candidates))
	ordered := make([]Candidate, 0, len(candidates))
	for i, candidate := range candidates {
		if strings.TrimSpace(string(candidate.ID)) == "" {
			return Catalog{}, fmt.Errorf("%w: candidate %d has an empty id", ErrInvalidCatalog, i)
		}
		if strings.TrimSpace(candidate.Name) == "" {
			return Catalog{}, fmt.Errorf("%w: candidate %q has an empty name", ErrInvalidCatalog, candidate.ID)
		}
		if _, ok := index[candidate.ID]; ok {
			return Catalog{}, fmt.Errorf("%w: duplicate candidate id %q", ErrInvalidCatalog, candidate.ID)
		}
		index[candidate.ID] = len(ordered)
		ordered = append(ordered, candidate)
	}

	return Catalog{candidates: ordered, index: index}, nil
}

func (c Catalog) Len() int {
	return len(c.candidates)
}

func (c Catalog) Candidates() []Candidate {
	out := make([]Candidate, len(c.candidates))
	copy(out, c.candidates)
	return out
}

func (c Catalog) Lookup(id CandidateID) (Candidate, bool) {
	i, ok := c.index[id]
	if !ok {
		return Candidate{}, false
	}
	return c.candidates[i], true
}

func (c Catalog) Contains(id CandidateID) bool {
	_, ok := c.index[id]
	return ok
}

// Names resolves ids to display names, keeping the given order. Unknown ids
// fall back to the raw id.
func (c Catalog) Names(ids []CandidateID) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if candidate, ok := c.Lookup(id); ok {
			names = append(names, candidate.Name)
			continue
		}
		names = append(names, string(id))
	}
	return names
}
