package domain

import "fmt"

const PageSize = 15

type Page struct {
	Index   int
	Items   []Candidate
	HasPrev bool
	HasNext bool
}

func available(catalog Catalog, picked []CandidateID) []Candidate {
	skip := make(map[CandidateID]struct{}, len(picked))
	for _, id := range picked {
		skip[id] = struct{}{}
	}

	out := make([]Candidate, 0, catalog.Len())
	for _, candidate := range catalog.candidates {
		if _, ok := skip[candidate.ID]; ok {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

func AvailableCount(catalog Catalog, picked []CandidateID) int {
	return len(available(catalog, picked))
}

// MaxPage is the last valid page index for the unpicked candidates. It is
// zero when nothing is left to show.
func MaxPage(catalog Catalog, picked []CandidateID) int {
	return maxPageFor(AvailableCount(catalog, picked))
}

func maxPageFor(count int) int {
	if count <= 0 {
		return 0
	}
	return (count+PageSize-1)/PageSize - 1
}

func ClampPage(catalog Catalog, picked []CandidateID, page int) int {
	if page < 0 {
		return 0
	}
	if last := MaxPage(catalog, picked); page > last {
		return last
	}
	return page
}

func ComputePage(catalog Catalog, picked []CandidateID, page int) (Page, error) {
	items := available(catalog, picked)
	if page < 0 || page > maxPageFor(len(items)) {
		return Page{}, fmt.Errorf("%w: page %d", ErrPageOutOfRange, page)
	}

	start := page * PageSize
	end := min(start+PageSize, len(items))

	return Page{
		Index:   page,
		Items:   items[start:end],
		HasPrev: page > 0,
		HasNext: end < len(items),
	}, nil
}
