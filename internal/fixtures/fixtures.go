package fixtures

import (
	"time"

	"monollogs/internal/models"
)

// Set is everything the console store is seeded with.
type Set struct {
	Sessions []models.Session
	Todos    []models.Todo
	Content  map[models.ContentType]string
}

// Clone returns a deep copy so a seed can be reused across stores.
func (s Set) Clone() Set {
	out := Set{
		Sessions: append([]models.Session(nil), s.Sessions...),
		Todos:    append([]models.Todo(nil), s.Todos...),
		Content:  make(map[models.ContentType]string, len(s.Content)),
	}
	for k, v := range s.Content {
		out.Content[k] = v
	}
	return out
}

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

// Default returns the built-in development fixture.
func Default() Set {
	return Set{
		Sessions: []models.Session{
			{
				ID:           "f6702810-1234-5678-9abc-def012345678",
				Topic:        "login-feature",
				SavedBy:      "alice",
				CreatedAt:    ts("2026-01-18T14:30:00Z"),
				SavedAt:      ts("2026-01-18T18:00:00Z"),
				MessageCount: 42,
				IsBookmarked: true,
			},
			{
				ID:           "a1b2c3d4-5678-9abc-def0-123456789abc",
				Topic:        "api-refactor",
				SavedBy:      "bob",
				CreatedAt:    ts("2026-01-17T09:30:00Z"),
				SavedAt:      ts("2026-01-17T12:45:00Z"),
				MessageCount: 28,
			},
			{
				ID:           "deadbeef-cafe-babe-1234-567890abcdef",
				Topic:        "dashboard-improvement",
				SavedBy:      "alice",
				CreatedAt:    ts("2026-01-19T10:00:00Z"),
				SavedAt:      ts("2026-01-19T15:30:00Z"),
				MessageCount: 65,
			},
			{
				ID:           "12345678-abcd-efgh-ijkl-mnopqrstuvwx",
				Topic:        "bug-fix-auth",
				SavedBy:      "charlie",
				CreatedAt:    ts("2026-01-16T16:00:00Z"),
				SavedAt:      ts("2026-01-16T17:30:00Z"),
				MessageCount: 15,
				IsBookmarked: true,
			},
			{
				ID:           "abcdef12-3456-7890-abcd-ef1234567890",
				Topic:        "documentation-update",
				SavedBy:      "bob",
				CreatedAt:    ts("2026-01-15T11:00:00Z"),
				SavedAt:      ts("2026-01-15T13:00:00Z"),
				MessageCount: 22,
			},
		},
		Todos: []models.Todo{
			{ID: 1, Content: "Add unit tests for auth module", Session: "login-feature", SessionID: "f6702810-1234-5678-9abc-def012345678", Author: "alice", CreatedAt: ts("2026-01-18T14:30:00Z"), Priority: models.PriorityHigh},
			{ID: 2, Content: "Implement password reset", Session: "login-feature", SessionID: "f6702810-1234-5678-9abc-def012345678", Author: "alice", CreatedAt: ts("2026-01-18T14:30:00Z"), Priority: models.PriorityHigh},
			{ID: 3, Content: "Optimize database queries", Session: "api-refactor", SessionID: "a1b2c3d4-5678-9abc-def0-123456789abc", Author: "bob", CreatedAt: ts("2026-01-10T09:30:00Z"), Priority: models.PriorityMedium},
			{ID: 4, Content: "Add API rate limiting", Session: "api-refactor", SessionID: "a1b2c3d4-5678-9abc-def0-123456789abc", Author: "bob", CreatedAt: ts("2026-01-17T09:30:00Z"), Completed: true, Priority: models.PriorityHigh},
			{ID: 5, Content: "Fix memory leak in dashboard", Session: "dashboard-improvement", SessionID: "deadbeef-cafe-babe-1234-567890abcdef", Author: "alice", CreatedAt: ts("2026-01-05T10:00:00Z"), Priority: models.PriorityHigh},
			{ID: 6, Content: "Update documentation for new API", Session: "documentation-update", SessionID: "abcdef12-3456-7890-abcd-ef1234567890", Author: "bob", CreatedAt: ts("2026-01-15T11:00:00Z"), Priority: models.PriorityLow},
			{ID: 7, Content: "Migrate to new auth system", Session: "bug-fix-auth", SessionID: "12345678-abcd-efgh-ijkl-mnopqrstuvwx", Author: "charlie", CreatedAt: ts("2025-12-20T16:00:00Z"), Priority: models.PriorityHigh},
		},
		Content: map[models.ContentType]string{
			models.ContentSummary:      summaryContent,
			models.ContentConversation: conversationContent,
		},
	}
}

const summaryContent = `# Session Summary

## Work done
- Implemented user authentication
- JWT based login/logout
- Added session management middleware

## Decisions
- Access token: 15 minute expiry
- Refresh token: 7 day expiry
- Sessions stored in Redis

## Changed files
- src/auth/login.ts
- src/middleware/session.ts
- src/utils/jwt.ts

## Next
- [ ] Social login (Google, GitHub)
- [ ] Password reset
- [ ] 2FA`

const conversationContent = "# Session: login-feature\n\n" +
	"Date: 2026-01-18\n" +
	"Author: alice\n\n" +
	"---\n\n" +
	"## User (14:30)\n" +
	"Build a login feature for me. I'd like it to be JWT based.\n\n" +
	"## Assistant (14:31)\n" +
	"I'll implement JWT based login. First, install the packages we need and set up the structure.\n\n" +
	"```bash\nnpm install jsonwebtoken bcrypt\n```\n\n" +
	"## User (14:35)\n" +
	"How should the token expiry be set?\n\n" +
	"## Assistant (14:36)\n" +
	"Balancing security and user experience:\n\n" +
	"- **Access Token**: 15 minutes (keep it short)\n" +
	"- **Refresh Token**: 7 days (for silent renewal)\n\n" +
	"That way a leaked access token does limited damage.\n\n" +
	"---\n\n" +
	"*The full conversation is loaded from the .conversation.md file.*"
