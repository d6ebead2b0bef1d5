package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"monollogs/internal/archive"
	"monollogs/internal/insights"
	"monollogs/internal/store"
)

// Options carries everything the handlers need besides the request.
type Options struct {
	Store          *store.Store
	Reports        archive.Store
	Logger         logrus.FieldLogger
	Location       *time.Location
	StaleAfterDays int
	TodoItemLimit  int
	BaseURL        string
	TemplatePath   string
	ReportDelay    time.Duration
	Now            func() time.Time
}

// Handler wires HTTP routes to the fixture store, the insights engine and
// the report archive.
type Handler struct {
	store        *store.Store
	reports      archive.Store
	log          logrus.FieldLogger
	loc          *time.Location
	staleAfter   int
	todoLimit    int
	baseURL      string
	templatePath string
	reportDelay  time.Duration
	now          func() time.Time
}

// NewHandler constructs a Handler instance.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		store:        opts.Store,
		reports:      opts.Reports,
		log:          opts.Logger,
		loc:          opts.Location,
		staleAfter:   opts.StaleAfterDays,
		todoLimit:    opts.TodoItemLimit,
		baseURL:      opts.BaseURL,
		templatePath: opts.TemplatePath,
		reportDelay:  opts.ReportDelay,
		now:          opts.Now,
	}
	if h.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		h.log = l
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// RegisterRoutes attaches CORS, request logging and all HTTP routes.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.Use(CORS(), RequestLogger(h.log))

	api := router.Group("/api")
	api.GET("/sessions", h.listSessions)
	api.GET("/sessions/:id", h.getSession)
	api.GET("/sessions/:id/content", h.getContent)
	api.DELETE("/sessions/:id", h.deleteSession)
	api.POST("/sessions/:id/bookmark", h.setBookmark)
	api.GET("/stats", h.getStats)
	api.GET("/timeline", h.getTimeline)
	api.GET("/insights", h.getInsights)
	api.GET("/insights/todos", h.listTodos)
	api.POST("/insights/todos/:id", h.updateTodo)
	api.POST("/insights/report", h.generateReport)
	api.GET("/insights/reports/:id", h.getReport)

	router.GET("/", h.serveConsole)
	router.GET("/console.html", h.serveConsole)
	router.NoRoute(notFound)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func (h *Handler) insightsOptions() insights.Options {
	return insights.Options{
		Now:            h.now(),
		Location:       h.loc,
		StaleAfterDays: h.staleAfter,
		TodoItemLimit:  h.todoLimit,
	}
}

// bindBody decodes an optional JSON body. An empty body leaves dst untouched.
// Anything else must be exactly one JSON object. On failure it writes the
// 400 response and returns false.
func bindBody(c *gin.Context, dst any) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return false
	}
	if err := binding.JSON.BindBody(body, dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return false
	}
	return true
}

// writeStoreError maps store sentinels to status codes.
func (h *Handler) writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, store.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "TODO not found"})
	case errors.Is(err, store.ErrInvalidPriority):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
	default:
		h.log.WithError(err).Error("store operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
