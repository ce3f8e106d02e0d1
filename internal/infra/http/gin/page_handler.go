package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"villafinder/internal/app/dto"
	homeapp "villafinder/internal/app/handlers/home"
	scoopapp "villafinder/internal/app/handlers/scoops"
	villaapp "villafinder/internal/app/handlers/villas"
	"villafinder/internal/app/queries"
)

// PageHandler serves the JSON page payloads consumed by the rendering layer.
type PageHandler struct {
	Queries queries.Bus
}

func (h PageHandler) Villa(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "page handler unavailable"})
		return
	}
	query := villaapp.GetPageQuery{Slug: c.Param("slug")}
	result, err := queries.Ask[villaapp.GetPageQuery, dto.VillaPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PageHandler) Scoop(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "page handler unavailable"})
		return
	}
	query := scoopapp.GetPageQuery{Slug: c.Param("slug")}
	result, err := queries.Ask[scoopapp.GetPageQuery, dto.ScoopPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PageHandler) Home(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "page handler unavailable"})
		return
	}
	result, err := queries.Ask[homeapp.GetHomeQuery, dto.HomePage](c.Request.Context(), h.Queries, homeapp.GetHomeQuery{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ PageHTTP = PageHandler{}
