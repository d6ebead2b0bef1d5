package store

import (
	"fmt"
	"sync"
	"time"

	"monollogs/internal/fixtures"
	"monollogs/internal/models"
)

// Store owns the seeded sessions and todos for the process lifetime.
// Mutations are serialised by mu; readers copy records out under RLock.
type Store struct {
	mu       sync.RWMutex
	sessions []*models.Session
	byID     map[string]*models.Session
	deleted  map[string]struct{}
	todos    []*models.Todo
	todoByID map[int]*models.Todo
	content  map[models.ContentType]string
	loc      *time.Location
}

// Snapshot is a consistent copy of the data the aggregators work on.
type Snapshot struct {
	Sessions []models.Session // non-deleted, seed order
	Todos    []models.Todo    // all todos, seed order
}

// New builds a store from a fixture set. loc controls the timestamps used
// in synthesised file names; nil means UTC.
func New(seed fixtures.Set, loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	seed = seed.Clone()
	s := &Store{
		byID:     make(map[string]*models.Session, len(seed.Sessions)),
		deleted:  make(map[string]struct{}),
		todoByID: make(map[int]*models.Todo, len(seed.Todos)),
		content:  seed.Content,
		loc:      loc,
	}
	for i := range seed.Sessions {
		se := &seed.Sessions[i]
		if _, dup := s.byID[se.ID]; dup {
			continue
		}
		s.sessions = append(s.sessions, se)
		s.byID[se.ID] = se
	}
	for i := range seed.Todos {
		td := &seed.Todos[i]
		if _, dup := s.todoByID[td.ID]; dup {
			continue
		}
		s.todos = append(s.todos, td)
		s.todoByID[td.ID] = td
	}
	return s
}

func (s *Store) liveLocked(id string) (*models.Session, bool) {
	se, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	if _, gone := s.deleted[id]; gone {
		return nil, false
	}
	return se, true
}

func (s *Store) liveSessionsLocked() []models.Session {
	out := make([]models.Session, 0, len(s.sessions))
	for _, se := range s.sessions {
		if _, gone := s.deleted[se.ID]; gone {
			continue
		}
		out = append(out, *se)
	}
	return out
}

// Sessions returns all non-deleted sessions in seed order.
func (s *Store) Sessions() []models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.liveSessionsLocked()
}

// ListSessions returns the non-deleted sessions matching f, sorted by f.SortBy.
func (s *Store) ListSessions(f SessionFilter) []models.Session {
	s.mu.RLock()
	out := make([]models.Session, 0, len(s.sessions))
	for _, se := range s.sessions {
		if _, gone := s.deleted[se.ID]; gone {
			continue
		}
		if f.match(se) {
			out = append(out, *se)
		}
	}
	s.mu.RUnlock()
	sortSessions(out, f.SortBy)
	return out
}

func (s *Store) GetSession(id string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	se, ok := s.liveLocked(id)
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	return *se, nil
}

// Content returns the pre-rendered blob for a live session. An empty type
// means summary; unknown types fall back to the summary blob.
func (s *Store) Content(id string, contentType models.ContentType) (models.ContentType, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.liveLocked(id); !ok {
		return "", "", ErrSessionNotFound
	}
	if contentType == "" {
		contentType = models.ContentSummary
	}
	body, ok := s.content[contentType]
	if !ok {
		body = s.content[models.ContentSummary]
	}
	return contentType, body, nil
}

// ContentBlobs returns a copy of every content blob.
func (s *Store) ContentBlobs() map[models.ContentType]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[models.ContentType]string, len(s.content))
	for k, v := range s.content {
		out[k] = v
	}
	return out
}

// SoftDelete marks the session deleted and returns the archive file names
// that belonged to it. Deleting an already-deleted session succeeds again.
func (s *Store) SoftDelete(id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	se, ok := s.byID[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.deleted[id] = struct{}{}
	return archiveFiles(se, s.loc), nil
}

func archiveFiles(se *models.Session, loc *time.Location) []string {
	short := se.ID
	if len(short) > 8 {
		short = short[:8]
	}
	created := se.CreatedAt.In(loc)
	base := fmt.Sprintf("%s_%s_%s_%s_%s", se.SavedBy, created.Format("2006-01-02"), created.Format("1504"), se.Topic, short)
	return []string{
		base + ".meta.json",
		base + ".summary.md",
		base + ".conversation.md",
	}
}

// SetBookmark sets the flag to *value, or toggles it when value is nil.
func (s *Store) SetBookmark(id string, value *bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	se, ok := s.liveLocked(id)
	if !ok {
		return false, ErrSessionNotFound
	}
	if value != nil {
		se.IsBookmarked = *value
	} else {
		se.IsBookmarked = !se.IsBookmarked
	}
	return se.IsBookmarked, nil
}

// Todos returns every todo in seed order.
func (s *Store) Todos() []models.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.todosLocked()
}

func (s *Store) todosLocked() []models.Todo {
	out := make([]models.Todo, 0, len(s.todos))
	for _, td := range s.todos {
		out = append(out, *td)
	}
	return out
}

// ListTodos returns the todos matching f in models.SortTodos order.
func (s *Store) ListTodos(f TodoFilter) []models.Todo {
	s.mu.RLock()
	out := make([]models.Todo, 0, len(s.todos))
	for _, td := range s.todos {
		if f.match(td) {
			out = append(out, *td)
		}
	}
	s.mu.RUnlock()
	models.SortTodos(out)
	return out
}

func (s *Store) GetTodo(id int) (models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	td, ok := s.todoByID[id]
	if !ok {
		return models.Todo{}, ErrTodoNotFound
	}
	return *td, nil
}

func (s *Store) SetTodoCompleted(id int, completed bool) (models.Todo, error) {
	return s.UpdateTodo(id, TodoUpdate{Completed: &completed})
}

func (s *Store) SetTodoPriority(id int, priority models.Priority) (models.Todo, error) {
	return s.UpdateTodo(id, TodoUpdate{Priority: &priority})
}

// UpdateTodo applies the set fields of upd atomically. Nothing is changed
// when the priority is not one of the known levels.
func (s *Store) UpdateTodo(id int, upd TodoUpdate) (models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td, ok := s.todoByID[id]
	if !ok {
		return models.Todo{}, ErrTodoNotFound
	}
	if upd.Priority != nil && !upd.Priority.Valid() {
		return models.Todo{}, fmt.Errorf("%w: %q", ErrInvalidPriority, *upd.Priority)
	}
	if upd.Completed != nil {
		td.Completed = *upd.Completed
	}
	if upd.Priority != nil {
		td.Priority = *upd.Priority
	}
	return *td, nil
}

// Snapshot copies the live sessions and all todos under one read lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Sessions: s.liveSessionsLocked(),
		Todos:    s.todosLocked(),
	}
}
