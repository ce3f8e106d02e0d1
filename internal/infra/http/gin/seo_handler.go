package ginserver

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"villafinder/internal/app/dto"
	sitemapapp "villafinder/internal/app/handlers/sitemap"
	"villafinder/internal/app/queries"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	Queries queries.Bus
	BaseURL string
}

func (h SEOHandler) Sitemap(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sitemap unavailable"})
		return
	}
	result, err := queries.Ask[sitemapapp.GetSitemapQuery, dto.Sitemap](c.Request.Context(), h.Queries, sitemapapp.GetSitemapQuery{})
	if err != nil {
		writeError(c, err)
		return
	}
	body, err := MarshalSitemap(result)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

func (h SEOHandler) Robots(c *gin.Context) {
	c.String(http.StatusOK, RobotsTxt(h.BaseURL))
}

// MarshalSitemap renders entries in the sitemaps.org format.
func MarshalSitemap(s dto.Sitemap) ([]byte, error) {
	set := urlSet{XMLNS: sitemapNS, URLs: make([]sitemapURL, 0, len(s.Entries))}
	for _, e := range s.Entries {
		u := sitemapURL{
			Loc:        e.URL,
			ChangeFreq: e.ChangeFrequency,
			Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
		}
		if !e.LastModified.IsZero() {
			u.LastMod = e.LastModified.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("sitemap: marshal: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

func RobotsTxt(baseURL string) string {
	return fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", strings.TrimRight(baseURL, "/"))
}

var _ SEOHTTP = SEOHandler{}
