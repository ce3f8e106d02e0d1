package dto

import "time"

// SitemapEntry is one URL of sitemap.xml.
type SitemapEntry struct {
	URL             string    `json:"url"`
	LastModified    time.Time `json:"last_modified"`
	ChangeFrequency string    `json:"change_frequency"`
	Priority        float64   `json:"priority"`
}

// Sitemap lists every public page.
type Sitemap struct {
	Entries []SitemapEntry `json:"entries"`
}
