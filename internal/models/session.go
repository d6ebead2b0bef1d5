package models

import (
	"strings"
	"time"
)

// Session is one archived unit of work.
type Session struct {
	ID           string    `json:"sessionId"`
	Topic        string    `json:"topic"`
	SavedBy      string    `json:"savedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	SavedAt      time.Time `json:"savedAt"`
	MessageCount int       `json:"messageCount"`
	IsBookmarked bool      `json:"isBookmarked"`
}

// Area is the topic prefix used for knowledge-map grouping.
func (s Session) Area() string {
	return Area(s.Topic)
}

// Duration is the time between creation and the last save.
func (s Session) Duration() time.Duration {
	return s.SavedAt.Sub(s.CreatedAt)
}

// Area returns the substring before the first '-' of a topic.
func Area(topic string) string {
	area, _, _ := strings.Cut(topic, "-")
	return area
}
