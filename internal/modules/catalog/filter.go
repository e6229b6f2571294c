package catalog

import (
	"sort"
	"strings"

	types "github.com/yungbote/course-portal-backend/internal/domain"
)

// SortMaterials orders by sort_order ascending, newest first among equal ranks.
func SortMaterials(items []*types.Material) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// FilteredView applies visibility, then type, then text filtering. Input order is preserved.
func FilteredView(all []*types.Material, q Query, privileged bool) []*types.Material {
	typ := q.typeFilter()
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]*types.Material, 0, len(all))
	for _, m := range all {
		if m == nil {
			continue
		}
		if !privileged && !m.IsVisible {
			continue
		}
		if typ != "" && string(m.Type) != typ {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(m.Title), text) &&
			!strings.Contains(strings.ToLower(m.WeekTitle()), text) {
			continue
		}
		out = append(out, m)
	}
	return out
}
