package insights

import (
	"sort"

	"monollogs/internal/models"
)

type count struct {
	key string
	n   int
}

// tally counts keys preserving first-seen order.
type tally struct {
	order []string
	n     map[string]int
}

func newTally() *tally {
	return &tally{n: make(map[string]int)}
}

func (t *tally) add(key string, delta int) {
	if _, ok := t.n[key]; !ok {
		t.order = append(t.order, key)
	}
	t.n[key] += delta
}

func (t *tally) asMap() map[string]int {
	out := make(map[string]int, len(t.n))
	for k, v := range t.n {
		out[k] = v
	}
	return out
}

// ranked returns counts by descending value; ties keep first-seen order.
func (t *tally) ranked() []count {
	out := make([]count, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, count{key: k, n: t.n[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].n > out[j].n })
	return out
}

type areaGroup struct {
	area         string
	contributors []string
	authors      *tally
	sessions     int
}

func (g *areaGroup) primary() string {
	if r := g.authors.ranked(); len(r) > 0 {
		return r[0].key
	}
	return ""
}

// groupAreas groups sessions by topic prefix in first-seen order.
func groupAreas(sessions []models.Session) []*areaGroup {
	var groups []*areaGroup
	byArea := make(map[string]*areaGroup)
	for _, se := range sessions {
		area := se.Area()
		g, ok := byArea[area]
		if !ok {
			g = &areaGroup{area: area, authors: newTally()}
			byArea[area] = g
			groups = append(groups, g)
		}
		g.sessions++
		if _, seen := g.authors.n[se.SavedBy]; !seen {
			g.contributors = append(g.contributors, se.SavedBy)
		}
		g.authors.add(se.SavedBy, 1)
	}
	return groups
}

// firstMax returns the index of the first maximum element.
func firstMax(buckets []int) int {
	best := 0
	for i, v := range buckets {
		if v > buckets[best] {
			best = i
		}
	}
	return best
}
