package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"villafinder/internal/app/handlers/views"
	"villafinder/internal/domain/scoops"
	"villafinder/internal/domain/shared/slug"
	"villafinder/internal/domain/villas"
)

// writeError maps application errors onto HTTP statuses. Malformed slugs are
// reported as missing pages.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, villas.ErrNotFound),
		errors.Is(err, scoops.ErrNotFound),
		errors.Is(err, slug.ErrInvalid):
		status = http.StatusNotFound
	case errors.Is(err, views.ErrUnknownKind),
		errors.Is(err, views.ErrIDRequired):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
