package display

import (
	"sort"

	"villafinder/internal/domain/villas"
)

// TagSorter orders facility tags by a fixed priority table.
type TagSorter struct {
	rank  map[string]int
	limit int
}

// NewTagSorter indexes priority; duplicate ids keep their first position.
func NewTagSorter(priority []string, limit int) *TagSorter {
	rank := make(map[string]int, len(priority))
	for i, id := range priority {
		if _, ok := rank[id]; !ok {
			rank[id] = i
		}
	}
	return &TagSorter{rank: rank, limit: limit}
}

func (s *TagSorter) index(id string) int {
	if i, ok := s.rank[id]; ok {
		return i
	}
	return len(s.rank)
}

// Sort returns a new slice ordered by priority, unknown ids last in input
// order, truncated to the configured limit. A non-positive limit disables
// truncation.
func (s *TagSorter) Sort(tags []villas.FacilityTag) []villas.FacilityTag {
	out := make([]villas.FacilityTag, len(tags))
	copy(out, tags)
	sort.SliceStable(out, func(i, j int) bool {
		return s.index(out[i].ID) < s.index(out[j].ID)
	})
	if s.limit > 0 && len(out) > s.limit {
		out = out[:s.limit]
	}
	return out
}
