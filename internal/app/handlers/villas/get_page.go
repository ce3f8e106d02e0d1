package villas

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"villafinder/internal/app/dto"
	"villafinder/internal/app/handlers/support"
	"villafinder/internal/app/policies"
	"villafinder/internal/app/queries"
	"villafinder/internal/app/uow"
	"villafinder/internal/domain/display"
	"villafinder/internal/domain/related"
	"villafinder/internal/domain/shared/slug"
	domainvillas "villafinder/internal/domain/villas"
)

const (
	getPageKey = "villas.page"

	descriptionRunes = 160

	defaultLat = 12.9236
	defaultLon = 100.8825
)

// GetPageQuery loads everything a villa detail page renders.
type GetPageQuery struct {
	Slug string
}

func (q GetPageQuery) Key() string { return getPageKey }

func (q GetPageQuery) Validate() error {
	if err := slug.Validate(q.Slug); err != nil {
		return fmt.Errorf("villas: %w", err)
	}
	return nil
}

func (q GetPageQuery) CacheKey() string { return "villa:" + q.Slug }

func (q GetPageQuery) ResultPrototype() any { return &dto.VillaPage{} }

// GetPageHandler builds the villa page including its related villas.
type GetPageHandler struct {
	UoWFactory uow.UoWFactory
	Ranker     *related.Ranker
	Display    *display.Kit
	Images     policies.ImageResolver
	Observer   policies.RankingObserver
	Site       support.Site
	Logger     *slog.Logger
}

func (h *GetPageHandler) Handle(ctx context.Context, q GetPageQuery) (dto.VillaPage, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.VillaPage{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	villa, err := unit.Villas().BySlug(ctx, q.Slug)
	if err != nil {
		return dto.VillaPage{}, err
	}
	if !villa.Active {
		return dto.VillaPage{}, domainvillas.ErrNotFound
	}

	kit := h.kit()
	images, err := policies.ResolveAll(ctx, h.Images, galleryRefs(villa))
	if err != nil {
		h.logger().Warn("villa image resolution degraded", "slug", villa.Slug, "error", err)
	}

	page := dto.VillaPage{
		ID:             string(villa.ID),
		Slug:           villa.Slug,
		Title:          villa.Title,
		Location:       dto.MapVillaLocation(villa.Location),
		AddressLine:    villa.Location.Line(),
		PriceDaily:     villa.PriceDaily,
		PricePerPerson: display.PerPerson(villa.PriceDaily, villa.MaxGuests),
		MaxGuests:      villa.MaxGuests,
		Bedrooms:       villa.Bedrooms,
		Bathrooms:      villa.Bathrooms,
		ShowBedrooms:   kit.BedroomsPlausible(villa.MaxGuests, villa.Bedrooms),
		Rating:         villa.Rating,
		ReviewCount:    villa.ReviewCount,
		Tags:           kit.Tags.Sort(villa.FacilityTags),
		Description:    villa.Description,
		Images:         images,
		BookingURL:     villa.SourceURL,
		Facilities:     kit.Facilities.Summarize(villa.Facilities),
		Nearby:         kit.Nearby.Classify(villa.NearbyPlaces),
		Map:            mapPin(villa.Location),
		HouseRules:     display.ExtractHouseRules(villa.Policies),
		FAQ:            kit.FAQ.Synthesize(villa.Facilities.Flatten()),
		JSONLD:         dto.VacationRentalLD(villa, images),
	}
	if len(images) > 0 {
		page.CoverImage = images[0]
	}
	page.SEO = h.seo(villa, page.CoverImage)
	page.Related = h.related(ctx, unit, villa)
	return page, nil
}

// related degrades to an empty section when the candidate lookup fails.
func (h *GetPageHandler) related(ctx context.Context, unit uow.UnitOfWork, villa *domainvillas.Villa) dto.RelatedSection {
	section := dto.RelatedSection{Title: relatedTitle(villa.Location), Villas: []dto.RelatedVilla{}}
	ranker := h.ranker()
	pool, err := unit.Villas().Candidates(ctx, ranker.CandidateQuery(villa))
	if err != nil {
		h.logger().Warn("related candidates unavailable", "slug", villa.Slug, "error", err)
		return section
	}
	if h.Observer != nil {
		h.Observer.ObserveCandidates(len(pool))
	}

	kit := h.kit()
	for _, scored := range ranker.RankScored(villa, pool, ranker.Config().Limit) {
		v := scored.Villa
		image := h.resolveOne(ctx, v.PrimaryImage())
		card := dto.MapVillaCard(v, image, kit.Tags.Sort(v.FacilityTags), kit.BedroomsPlausible(v.MaxGuests, v.Bedrooms))
		section.Villas = append(section.Villas, dto.RelatedVilla{VillaCard: card, Score: scored.Score})
	}
	return section
}

func (h *GetPageHandler) seo(villa *domainvillas.Villa, image string) dto.SEO {
	description := support.Truncate(villa.Description, descriptionRunes)
	if description == "" {
		description = "พูลวิลล่าสวยๆ ใน " + villa.Location.Province
	}
	return dto.SEO{
		Title:       villa.Title + " | " + h.Site.SiteName(),
		Description: description,
		Canonical:   h.Site.URL("/villas/" + url.PathEscape(villa.Slug)),
		OGImage:     image,
	}
}

func (h *GetPageHandler) resolveOne(ctx context.Context, ref string) string {
	if ref == "" || h.Images == nil {
		return ref
	}
	resolved, err := h.Images.Resolve(ctx, ref)
	if err != nil {
		return ref
	}
	return resolved
}

func (h *GetPageHandler) kit() *display.Kit {
	if h.Display == nil {
		return display.NewKit(display.DefaultConfig())
	}
	return h.Display
}

func (h *GetPageHandler) ranker() *related.Ranker {
	if h.Ranker == nil {
		return related.NewRanker(related.DefaultConfig())
	}
	return h.Ranker
}

func (h *GetPageHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func galleryRefs(v *domainvillas.Villa) []string {
	refs := make([]string, 0, len(v.Images)+1)
	if v.CoverImage != "" {
		refs = append(refs, v.CoverImage)
	}
	for _, img := range v.Images {
		if img != v.CoverImage {
			refs = append(refs, img)
		}
	}
	return refs
}

func mapPin(loc domainvillas.Location) dto.MapPin {
	pin := dto.MapPin{Lat: defaultLat, Lon: defaultLon}
	if loc.Lat != nil && loc.Lon != nil {
		pin.Lat, pin.Lon, pin.Exact = *loc.Lat, *loc.Lon, true
	}
	query := strconv.FormatFloat(pin.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(pin.Lon, 'f', -1, 64)
	pin.MapsURL = "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
	return pin
}

func relatedTitle(loc domainvillas.Location) string {
	place := loc.District
	if place == "" {
		place = loc.Province
	}
	if place == "" {
		return "ที่พักแนะนำที่คุณอาจจะชอบ"
	}
	return "ที่พักอื่นๆ ใน " + place
}

var _ queries.Handler[GetPageQuery, dto.VillaPage] = (*GetPageHandler)(nil)
