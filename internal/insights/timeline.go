package insights

import (
	"sort"
	"time"

	"monollogs/internal/models"
)

type TimelineDay struct {
	Date     string           `json:"date"`
	Sessions []models.Session `json:"sessions"`
}

type TimelineView struct {
	Days    []TimelineDay `json:"days"`
	Authors []string      `json:"authors"`
	Total   int           `json:"total"`
}

// Timeline groups sessions by creation date in loc. Days and the sessions
// inside each day are newest first.
func Timeline(sessions []models.Session, loc *time.Location) TimelineView {
	if loc == nil {
		loc = time.UTC
	}
	sorted := append([]models.Session(nil), sessions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	view := TimelineView{Days: []TimelineDay{}, Authors: []string{}, Total: len(sorted)}
	seen := make(map[string]struct{})
	index := make(map[string]int)
	for _, se := range sorted {
		if _, ok := seen[se.SavedBy]; !ok {
			seen[se.SavedBy] = struct{}{}
			view.Authors = append(view.Authors, se.SavedBy)
		}
		date := se.CreatedAt.In(loc).Format(time.DateOnly)
		i, ok := index[date]
		if !ok {
			i = len(view.Days)
			index[date] = i
			view.Days = append(view.Days, TimelineDay{Date: date})
		}
		view.Days[i].Sessions = append(view.Days[i].Sessions, se)
	}
	return view
}
