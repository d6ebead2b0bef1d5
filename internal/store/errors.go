package store

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTodoNotFound    = errors.New("todo not found")
	ErrInvalidPriority = errors.New("invalid priority")
)
