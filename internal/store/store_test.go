package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monollogs/internal/fixtures"
	"monollogs/internal/models"
)

const (
	loginID   = "f6702810-1234-5678-9abc-def012345678"
	apiID     = "a1b2c3d4-5678-9abc-def0-123456789abc"
	dashID    = "deadbeef-cafe-babe-1234-567890abcdef"
	bugID     = "12345678-abcd-efgh-ijkl-mnopqrstuvwx"
	docsID    = "abcdef12-3456-7890-abcd-ef1234567890"
	missingID = "00000000-0000-0000-0000-000000000000"
)

func newTestStore() *Store {
	return New(fixtures.Default(), time.UTC)
}

func sessionIDs(sessions []models.Session) []string {
	ids := make([]string, 0, len(sessions))
	for _, se := range sessions {
		ids = append(ids, se.ID)
	}
	return ids
}

func todoIDs(todos []models.Todo) []int {
	ids := make([]int, 0, len(todos))
	for _, td := range todos {
		ids = append(ids, td.ID)
	}
	return ids
}

func TestListSessionsDefaultNewestFirst(t *testing.T) {
	s := newTestStore()
	got := s.ListSessions(SessionFilter{})
	assert.Equal(t, []string{dashID, loginID, apiID, bugID, docsID}, sessionIDs(got))
}

func TestListSessionsSortOrders(t *testing.T) {
	s := newTestStore()
	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortOldest, []string{docsID, bugID, apiID, loginID, dashID}},
		{SortMessages, []string{dashID, loginID, apiID, docsID, bugID}},
		{SortName, []string{apiID, bugID, dashID, docsID, loginID}},
		{SortOrder("bogus"), []string{dashID, loginID, apiID, bugID, docsID}},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			assert.Equal(t, tt.want, sessionIDs(s.ListSessions(SessionFilter{SortBy: tt.order})))
		})
	}
}

func TestListSessionsFilters(t *testing.T) {
	s := newTestStore()

	got := s.ListSessions(SessionFilter{Author: "alice", SortBy: SortMessages})
	assert.Equal(t, []string{dashID, loginID}, sessionIDs(got))

	got = s.ListSessions(SessionFilter{Topic: "AUTH"})
	assert.Equal(t, []string{bugID}, sessionIDs(got))

	got = s.ListSessions(SessionFilter{BookmarkedOnly: true})
	assert.Equal(t, []string{loginID, bugID}, sessionIDs(got))

	from := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 17, 23, 59, 59, 0, time.UTC)
	got = s.ListSessions(SessionFilter{From: from, To: to})
	assert.Equal(t, []string{apiID, bugID}, sessionIDs(got))
}

func TestSoftDeleteHidesSessionEverywhere(t *testing.T) {
	s := newTestStore()

	files, err := s.SoftDelete(loginID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"alice_2026-01-18_1430_login-feature_f6702810.meta.json",
		"alice_2026-01-18_1430_login-feature_f6702810.summary.md",
		"alice_2026-01-18_1430_login-feature_f6702810.conversation.md",
	}, files)

	_, err = s.GetSession(loginID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, _, err = s.Content(loginID, models.ContentSummary)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.SetBookmark(loginID, nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.NotContains(t, sessionIDs(s.Sessions()), loginID)
	assert.Len(t, s.Snapshot().Sessions, 4)

	again, err := s.SoftDelete(loginID)
	require.NoError(t, err)
	assert.Equal(t, files, again)
}

func TestSoftDeleteUnknownLeavesStateUnchanged(t *testing.T) {
	s := newTestStore()
	_, err := s.SoftDelete(missingID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Len(t, s.Sessions(), 5)
}

func TestSetBookmarkToggleIsInverse(t *testing.T) {
	s := newTestStore()

	v, err := s.SetBookmark(loginID, nil)
	require.NoError(t, err)
	assert.False(t, v)
	v, err = s.SetBookmark(loginID, nil)
	require.NoError(t, err)
	assert.True(t, v)

	explicit := true
	v, err = s.SetBookmark(apiID, &explicit)
	require.NoError(t, err)
	assert.True(t, v)
	v, err = s.SetBookmark(apiID, &explicit)
	require.NoError(t, err)
	assert.True(t, v)

	_, err = s.SetBookmark(missingID, nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestContentFallsBackToSummary(t *testing.T) {
	s := newTestStore()
	blobs := s.ContentBlobs()

	kind, body, err := s.Content(apiID, "")
	require.NoError(t, err)
	assert.Equal(t, models.ContentSummary, kind)
	assert.Equal(t, blobs[models.ContentSummary], body)

	kind, body, err = s.Content(apiID, models.ContentConversation)
	require.NoError(t, err)
	assert.Equal(t, models.ContentConversation, kind)
	assert.Equal(t, blobs[models.ContentConversation], body)

	kind, body, err = s.Content(apiID, "diff")
	require.NoError(t, err)
	assert.Equal(t, models.ContentType("diff"), kind)
	assert.Equal(t, blobs[models.ContentSummary], body)
}

func TestListTodosFiltersAndOrder(t *testing.T) {
	s := newTestStore()

	assert.Equal(t, []int{1, 2, 5, 7, 3, 6, 4}, todoIDs(s.ListTodos(TodoFilter{})))

	open := false
	got := s.ListTodos(TodoFilter{Completed: &open, Priority: models.PriorityHigh})
	assert.Equal(t, []int{1, 2, 5, 7}, todoIDs(got))

	done := true
	assert.Equal(t, []int{4}, todoIDs(s.ListTodos(TodoFilter{Completed: &done})))
	assert.Equal(t, []int{3, 6, 4}, todoIDs(s.ListTodos(TodoFilter{Author: "bob"})))
	assert.Equal(t, []int{1, 2}, todoIDs(s.ListTodos(TodoFilter{Session: "login"})))
	assert.Empty(t, s.ListTodos(TodoFilter{Session: "LOGIN"}))
}

func TestUpdateTodo(t *testing.T) {
	s := newTestStore()

	td, err := s.SetTodoCompleted(3, true)
	require.NoError(t, err)
	assert.True(t, td.Completed)

	td, err = s.SetTodoPriority(6, models.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, td.Priority)

	bad := models.Priority("urgent")
	done := false
	_, err = s.UpdateTodo(6, TodoUpdate{Completed: &done, Priority: &bad})
	assert.ErrorIs(t, err, ErrInvalidPriority)
	assert.Equal(t, models.PriorityHigh, s.ListTodos(TodoFilter{Session: "documentation"})[0].Priority)

	_, err = s.SetTodoCompleted(99, true)
	assert.ErrorIs(t, err, ErrTodoNotFound)

	got, err := s.GetTodo(3)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	_, err = s.GetTodo(99)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestStoreRecordsAreCopies(t *testing.T) {
	s := newTestStore()
	list := s.Sessions()
	list[0].MessageCount = 9999
	got, err := s.GetSession(list[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, 9999, got.MessageCount)
}

func TestConcurrentBookmarkToggles(t *testing.T) {
	s := newTestStore()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.SetBookmark(apiID, nil)
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	got, err := s.GetSession(apiID)
	require.NoError(t, err)
	assert.False(t, got.IsBookmarked)
}
