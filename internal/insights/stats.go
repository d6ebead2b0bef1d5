package insights

import (
	"time"

	"monollogs/internal/models"
)

// Stats is the aggregate behind the stats card.
type Stats struct {
	TotalSessions      int            `json:"totalSessions"`
	TotalAuthors       int            `json:"totalAuthors"`
	TotalMessages      int            `json:"totalMessages"`
	TotalDuration      int64          `json:"totalDuration"` // milliseconds
	BookmarkedCount    int            `json:"bookmarkedCount"`
	HourlyActivity     [24]int        `json:"hourlyActivity"`
	AuthorContribution map[string]int `json:"authorContribution"`
}

// ComputeStats aggregates the given sessions; hours are bucketed in loc.
func ComputeStats(sessions []models.Session, loc *time.Location) Stats {
	if loc == nil {
		loc = time.UTC
	}
	st := Stats{
		TotalSessions:      len(sessions),
		AuthorContribution: make(map[string]int),
	}
	for _, se := range sessions {
		st.TotalMessages += se.MessageCount
		st.TotalDuration += se.Duration().Milliseconds()
		if se.IsBookmarked {
			st.BookmarkedCount++
		}
		st.HourlyActivity[se.CreatedAt.In(loc).Hour()]++
		st.AuthorContribution[se.SavedBy]++
	}
	st.TotalAuthors = len(st.AuthorContribution)
	return st
}
