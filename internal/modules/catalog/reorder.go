package catalog

import (
	"github.com/google/uuid"

	types "github.com/yungbote/course-portal-backend/internal/domain"
)

// Plan is the outcome of moving one material within a view.
type Plan struct {
	Items   []*types.Material
	Changed []*types.Material
	Moved   bool
}

// PlanReorder renumbers items densely, swaps id with its neighbour in dir and renumbers again.
// Unknown ids and moves past either end leave the view untouched. Nil entries are
// dropped. items is not mutated.
func PlanReorder(items []*types.Material, id uuid.UUID, dir Direction) Plan {
	items = compact(items)
	i := -1
	for k, m := range items {
		if m.ID == id {
			i = k
			break
		}
	}
	if i < 0 {
		return Plan{Items: items}
	}
	j := i - 1
	if dir == DirectionDown {
		j = i + 1
	}
	if j < 0 || j >= len(items) {
		return Plan{Items: items}
	}

	next := make([]*types.Material, len(items))
	stored := make(map[uuid.UUID]int, len(items))
	for k, m := range items {
		stored[m.ID] = m.SortOrder
		next[k] = m.Clone()
	}
	next[i], next[j] = next[j], next[i]

	changed := make([]*types.Material, 0, len(next))
	for k, m := range next {
		m.SortOrder = k
		if stored[m.ID] != k {
			changed = append(changed, m)
		}
	}
	return Plan{Items: next, Changed: changed, Moved: true}
}

func compact(items []*types.Material) []*types.Material {
	for _, m := range items {
		if m == nil {
			out := make([]*types.Material, 0, len(items))
			for _, m := range items {
				if m != nil {
					out = append(out, m)
				}
			}
			return out
		}
	}
	return items
}
