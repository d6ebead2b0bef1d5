package api

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"monollogs/internal/models"
)

//go:embed templates/dashboard.html
var defaultConsole string

const (
	sessionMarker = "/* SESSION_DATA_PLACEHOLDER */[]"
	contentMarker = "/* FILE_CONTENTS_PLACEHOLDER */{}"
)

type fileContents struct {
	Summary      string `json:"summary"`
	Conversation string `json:"conversation"`
}

func (h *Handler) loadTemplate() (string, error) {
	if h.templatePath == "" {
		return defaultConsole, nil
	}
	data, err := os.ReadFile(h.templatePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (h *Handler) serveConsole(c *gin.Context) {
	page, err := h.loadTemplate()
	if err != nil {
		h.log.WithError(err).Warn("read console template")
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte("Console HTML not found"))
		return
	}
	rendered, err := h.renderConsole(page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(rendered))
}

// renderConsole fills the first occurrence of each marker with live data.
func (h *Handler) renderConsole(page string) (string, error) {
	sessions := h.store.Sessions()
	sessionJSON, err := json.Marshal(sessions)
	if err != nil {
		return "", err
	}
	files := map[string]fileContents{}
	if len(sessions) > 0 {
		blobs := h.store.ContentBlobs()
		files[sessions[0].ID] = fileContents{
			Summary:      blobs[models.ContentSummary],
			Conversation: blobs[models.ContentConversation],
		}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return "", err
	}

	script := "<script>window.CONSOLE_API_BASE = '" + h.baseURL + "';</script>"
	page = strings.Replace(page, "<head>", "<head>\n"+script, 1)
	page = strings.Replace(page, sessionMarker, string(sessionJSON), 1)
	page = strings.Replace(page, contentMarker, string(filesJSON), 1)
	return page, nil
}
