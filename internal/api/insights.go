package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"monollogs/internal/archive"
	"monollogs/internal/insights"
	"monollogs/internal/models"
	"monollogs/internal/store"
)

// isoMillis matches the timestamp shape browsers produce for toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func (h *Handler) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, insights.ComputeStats(h.store.Sessions(), h.loc))
}

func (h *Handler) getTimeline(c *gin.Context) {
	c.JSON(http.StatusOK, insights.Timeline(h.store.Sessions(), h.loc))
}

func (h *Handler) getInsights(c *gin.Context) {
	snap := h.store.Snapshot()
	c.JSON(http.StatusOK, insights.Compute(snap.Sessions, snap.Todos, h.insightsOptions()))
}

func (h *Handler) listTodos(c *gin.Context) {
	filter := store.TodoFilter{
		Author:   c.Query("author"),
		Priority: models.Priority(c.Query("priority")),
		Session:  c.Query("session"),
	}
	switch c.Query("completed") {
	case "true":
		done := true
		filter.Completed = &done
	case "false":
		open := false
		filter.Completed = &open
	}

	todos := h.store.ListTodos(filter)
	open := 0
	for _, td := range todos {
		if !td.Completed {
			open++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"todos":     todos,
		"total":     len(todos),
		"open":      open,
		"completed": len(todos) - open,
	})
}

type todoUpdateRequest struct {
	Completed *bool   `json:"completed"`
	Priority  *string `json:"priority"`
}

func (h *Handler) updateTodo(c *gin.Context) {
	raw := c.Param("id")
	if !isDigits(raw) {
		notFound(c)
		return
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		h.writeStoreError(c, store.ErrTodoNotFound)
		return
	}
	if _, err := h.store.GetTodo(id); err != nil {
		h.writeStoreError(c, err)
		return
	}
	var req todoUpdateRequest
	if !bindBody(c, &req) {
		return
	}

	upd := store.TodoUpdate{Completed: req.Completed}
	if req.Priority != nil && *req.Priority != "" {
		p := models.Priority(*req.Priority)
		upd.Priority = &p
	}
	todo, err := h.store.UpdateTodo(id, upd)
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type reportRequest struct {
	Type string `json:"type"`
}

func (h *Handler) generateReport(c *gin.Context) {
	var req reportRequest
	if !bindBody(c, &req) {
		return
	}
	kind := req.Type
	if kind == "" {
		kind = insights.DefaultReportType
	}

	snap := h.store.Snapshot()
	content := insights.Report(kind, snap.Sessions, snap.Todos, h.insightsOptions())

	if h.reportDelay > 0 {
		timer := time.NewTimer(h.reportDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-c.Request.Context().Done():
			h.log.WithField("type", kind).Debug("report request cancelled")
			return
		}
	}

	report := archive.Report{
		ID:          uuid.NewString(),
		Type:        kind,
		GeneratedAt: h.now().UTC(),
		Content:     content,
	}
	if err := h.reports.Save(c.Request.Context(), report); err != nil {
		h.log.WithError(err).WithField("report", report.ID).Warn("archive report")
	}
	h.log.WithFields(logrus.Fields{"report": report.ID, "type": kind}).Info("report generated")

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"id":          report.ID,
		"type":        kind,
		"generatedAt": report.GeneratedAt.Format(isoMillis),
		"content":     content,
	})
}

func (h *Handler) getReport(c *gin.Context) {
	report, err := h.reports.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, archive.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("load report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := gin.H{
		"id":          report.ID,
		"type":        report.Type,
		"generatedAt": report.GeneratedAt.UTC().Format(isoMillis),
		"content":     report.Content,
	}
	if !report.ExpiresAt.IsZero() {
		resp["expiresAt"] = report.ExpiresAt.UTC().Format(isoMillis)
	}
	c.JSON(http.StatusOK, resp)
}
