package sitemap

import (
	"context"
	"net/url"
	"time"

	"villafinder/internal/app/dto"
	"villafinder/internal/app/handlers/support"
	"villafinder/internal/app/queries"
	"villafinder/internal/app/uow"
	domainscoops "villafinder/internal/domain/scoops"
)

const (
	getSitemapKey = "sitemap.entries"

	maxScoops = 1000
	maxVillas = 5000
)

// GetSitemapQuery lists every public page.
type GetSitemapQuery struct{}

func (GetSitemapQuery) Key() string { return getSitemapKey }

func (GetSitemapQuery) CacheKey() string { return "sitemap" }

func (GetSitemapQuery) ResultPrototype() any { return &dto.Sitemap{} }

// GetSitemapHandler collects home, scoop and villa URLs.
type GetSitemapHandler struct {
	UoWFactory uow.UoWFactory
	Site       support.Site
	Now        func() time.Time
}

func (h *GetSitemapHandler) Handle(ctx context.Context, _ GetSitemapQuery) (dto.Sitemap, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Sitemap{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	scoopList, err := unit.Scoops().List(ctx, domainscoops.ListParams{Limit: maxScoops})
	if err != nil {
		return dto.Sitemap{}, err
	}
	villaSlugs, err := unit.Villas().Slugs(ctx, maxVillas)
	if err != nil {
		return dto.Sitemap{}, err
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	entries := make([]dto.SitemapEntry, 0, 1+len(scoopList)+len(villaSlugs))
	entries = append(entries, dto.SitemapEntry{
		URL:             h.Site.URL("/"),
		LastModified:    now().UTC(),
		ChangeFrequency: "daily",
		Priority:        1.0,
	})
	for _, s := range scoopList {
		if !s.Published() {
			continue
		}
		entries = append(entries, dto.SitemapEntry{
			URL:             h.Site.URL("/scoop/" + url.PathEscape(s.Slug)),
			LastModified:    s.UpdatedAt.UTC(),
			ChangeFrequency: "weekly",
			Priority:        0.8,
		})
	}
	for _, v := range villaSlugs {
		entries = append(entries, dto.SitemapEntry{
			URL:             h.Site.URL("/villas/" + url.PathEscape(v.Slug)),
			LastModified:    v.UpdatedAt.UTC(),
			ChangeFrequency: "weekly",
			Priority:        0.6,
		})
	}
	return dto.Sitemap{Entries: entries}, nil
}

var _ queries.Handler[GetSitemapQuery, dto.Sitemap] = (*GetSitemapHandler)(nil)
