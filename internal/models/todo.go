package models

import (
	"sort"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the three known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities high < medium < low; unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Todo is an action item extracted from a session.
type Todo struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	Session   string    `json:"session"`
	SessionID string    `json:"sessionId"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
}

// SortTodos orders open items first, then by priority, then newest first.
func SortTodos(todos []Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
