package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"villafinder/internal/app/commands"
	"villafinder/internal/app/dto"
	viewapp "villafinder/internal/app/handlers/views"
)

type ViewHandler struct {
	Commands commands.Bus
}

type recordViewRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// Record accepts a page view; the counter is updated asynchronously.
func (h ViewHandler) Record(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req recordViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := viewapp.RecordViewCommand{Kind: req.Kind, ID: req.ID, Slug: req.Slug}
	result, err := commands.Dispatch[viewapp.RecordViewCommand, *dto.ViewAck](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

var _ ViewHTTP = ViewHandler{}
