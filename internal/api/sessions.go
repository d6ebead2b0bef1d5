package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"monollogs/internal/models"
	"monollogs/internal/store"
)

func (h *Handler) listSessions(c *gin.Context) {
	filter := store.SessionFilter{
		Author:         c.Query("author"),
		Topic:          c.Query("topic"),
		BookmarkedOnly: c.Query("bookmarked") == "true",
		SortBy:         store.SortOrder(c.Query("sortBy")),
	}
	if v := c.Query("dateFrom"); v != "" {
		from, err := parseQueryDate(v, h.loc, false)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateFrom"})
			return
		}
		filter.From = from
	}
	if v := c.Query("dateTo"); v != "" {
		to, err := parseQueryDate(v, h.loc, true)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateTo"})
			return
		}
		filter.To = to
	}

	sessions := h.store.ListSessions(filter)
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

// parseQueryDate accepts YYYY-MM-DD or RFC 3339. A bare date is the start
// of that day in loc, or its last second when endOfDay is set.
func parseQueryDate(value string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if day, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		if endOfDay {
			y, m, d := day.Date()
			return time.Date(y, m, d, 23, 59, 59, 0, loc), nil
		}
		return day, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (h *Handler) getSession(c *gin.Context) {
	session, err := h.store.GetSession(c.Param("id"))
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) getContent(c *gin.Context) {
	kind, content, err := h.store.Content(c.Param("id"), models.ContentType(c.Query("type")))
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"type":    kind,
		"content": content,
	})
}

func (h *Handler) deleteSession(c *gin.Context) {
	id := c.Param("id")
	files, err := h.store.SoftDelete(id)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	h.log.WithField("session", id).Info("session deleted")
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"deletedFiles": files,
	})
}

type bookmarkRequest struct {
	Bookmarked *bool `json:"bookmarked"`
}

func (h *Handler) setBookmark(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.GetSession(id); err != nil {
		h.writeStoreError(c, err)
		return
	}
	var req bookmarkRequest
	if !bindBody(c, &req) {
		return
	}
	flag, err := h.store.SetBookmark(id, req.Bookmarked)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId":    id,
		"isBookmarked": flag,
	})
}
