package home

import (
	"context"

	"villafinder/internal/app/dto"
	"villafinder/internal/app/handlers/support"
	"villafinder/internal/app/policies"
	"villafinder/internal/app/queries"
	"villafinder/internal/app/uow"
	domainscoops "villafinder/internal/domain/scoops"
)

const (
	getHomeKey = "home.page"

	featuredLimit = 5
	groupLimit    = 10
	latestLimit   = 100

	defaultGroup = "แนะนำสำหรับคุณ"
)

// GetHomeQuery loads the landing page.
type GetHomeQuery struct{}

func (GetHomeQuery) Key() string { return getHomeKey }

func (GetHomeQuery) CacheKey() string { return "home" }

func (GetHomeQuery) ResultPrototype() any { return &dto.HomePage{} }

// GetHomeHandler assembles featured scoops and grouped teasers.
type GetHomeHandler struct {
	UoWFactory uow.UoWFactory
	Images     policies.ImageResolver
	Site       support.Site
}

func (h *GetHomeHandler) Handle(ctx context.Context, _ GetHomeQuery) (dto.HomePage, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.HomePage{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	featured, err := unit.Scoops().List(ctx, domainscoops.ListParams{FeaturedOnly: true, Limit: featuredLimit})
	if err != nil {
		return dto.HomePage{}, err
	}
	latest, err := unit.Scoops().List(ctx, domainscoops.ListParams{Limit: latestLimit})
	if err != nil {
		return dto.HomePage{}, err
	}

	page := dto.HomePage{
		Featured: make([]dto.ScoopSummary, 0, len(featured)),
		Groups:   []dto.ScoopGroup{},
		SEO: dto.SEO{
			Title:       h.Site.SiteName() + " | รวมพูลวิลล่าน่าพัก",
			Description: "ค้นหาพูลวิลล่าสวยๆ ทั่วไทย พร้อมรีวิวและราคาต่อคน",
			Canonical:   h.Site.URL("/"),
		},
	}
	for _, s := range featured {
		if !s.Published() || len(page.Featured) == featuredLimit {
			continue
		}
		page.Featured = append(page.Featured, h.summary(ctx, s))
	}

	index := map[string]int{}
	for _, s := range latest {
		if !s.Published() {
			continue
		}
		title := s.Group
		if title == "" {
			title = defaultGroup
		}
		i, ok := index[title]
		if !ok {
			i = len(page.Groups)
			index[title] = i
			page.Groups = append(page.Groups, dto.ScoopGroup{Title: title, Scoops: []dto.ScoopSummary{}})
		}
		if len(page.Groups[i].Scoops) < groupLimit {
			page.Groups[i].Scoops = append(page.Groups[i].Scoops, h.summary(ctx, s))
		}
	}
	if len(page.Featured) > 0 {
		page.SEO.OGImage = page.Featured[0].CoverImage
	}
	return page, nil
}

func (h *GetHomeHandler) summary(ctx context.Context, s *domainscoops.Scoop) dto.ScoopSummary {
	cover := s.CoverImage
	if cover != "" && h.Images != nil {
		if resolved, err := h.Images.Resolve(ctx, cover); err == nil {
			cover = resolved
		}
	}
	return dto.MapScoopSummary(s, cover)
}

var _ queries.Handler[GetHomeQuery, dto.HomePage] = (*GetHomeHandler)(nil)
