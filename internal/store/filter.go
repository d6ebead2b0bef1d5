package store

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"monollogs/internal/models"
)

type SortOrder string

const (
	SortNewest   SortOrder = "newest"
	SortOldest   SortOrder = "oldest"
	SortMessages SortOrder = "messages"
	SortName     SortOrder = "name"
)

// SessionFilter narrows ListSessions. Zero values match everything.
type SessionFilter struct {
	Author         string
	Topic          string
	From           time.Time
	To             time.Time
	BookmarkedOnly bool
	SortBy         SortOrder
}

func (f SessionFilter) match(s *models.Session) bool {
	if f.Author != "" && s.SavedBy != f.Author {
		return false
	}
	if !f.From.IsZero() && s.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && s.CreatedAt.After(f.To) {
		return false
	}
	if f.Topic != "" && !strings.Contains(strings.ToLower(s.Topic), strings.ToLower(f.Topic)) {
		return false
	}
	if f.BookmarkedOnly && !s.IsBookmarked {
		return false
	}
	return true
}

func sortSessions(sessions []models.Session, order SortOrder) {
	switch order {
	case SortOldest:
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
		})
	case SortMessages:
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].MessageCount > sessions[j].MessageCount
		})
	case SortName:
		col := collate.New(language.Und)
		sort.SliceStable(sessions, func(i, j int) bool {
			return col.CompareString(sessions[i].Topic, sessions[j].Topic) < 0
		})
	default:
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
		})
	}
}

// TodoFilter narrows ListTodos. A nil Completed matches both states.
type TodoFilter struct {
	Author    string
	Completed *bool
	Priority  models.Priority
	Session   string
}

func (f TodoFilter) match(t *models.Todo) bool {
	if f.Author != "" && t.Author != f.Author {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Session != "" && !strings.Contains(t.Session, f.Session) {
		return false
	}
	return true
}

// TodoUpdate carries the optional fields of a todo edit.
type TodoUpdate struct {
	Completed *bool
	Priority  *models.Priority
}
