package scoops

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
	domainscoops "villafinder/internal/domain/scoops"
	"villafinder/internal/domain/shared/slug"
	domainvillas "villafinder/internal/domain/villas"
)

const getPageKey = "scoops.page"

// GetPageQuery loads a scoop listicle with its ranked villas.
type GetPageQuery struct {
	Slug string
}

func (q GetPageQuery) Key() string { return getPageKey }

func (q GetPageQuery) Validate() error {
	if err := slug.Validate(q.Slug); err != nil {
		return fmt.Errorf("scoops: %w", err)
	}
	return nil
}

func (q GetPageQuery) CacheKey() string { return "scoop:" + q.Slug }

func (q GetPageQuery) ResultPrototype() any { return &dto.ScoopPage{} }

// GetPageHandler runs the scoop rule against the content store.
type GetPageHandler struct {
	UoWFactory uow.UoWFactory
	Display    *display.Kit
	Images     policies.ImageResolver
	Site       support.Site
	Logger     *slog.Logger
}

func (h *GetPageHandler) Handle(ctx context.Context, q GetPageQuery) (dto.ScoopPage, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ScoopPage{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	scoop, err := unit.Scoops().BySlug(ctx, q.Slug)
	if err != nil {
		return dto.ScoopPage{}, err
	}
	if !scoop.Published() {
		return dto.ScoopPage{}, domainscoops.ErrNotFound
	}

	villas, err := unit.Villas().Search(ctx, scoop.Rule.SearchParams())
	if err != nil {
		return dto.ScoopPage{}, fmt.Errorf("scoops: search villas for %q: %w", scoop.Slug, err)
	}

	kit := h.Display
	if kit == nil {
		kit = display.NewKit(display.DefaultConfig())
	}
	cards := make([]dto.ScoopVillaCard, 0, len(villas))
	for i, v := range villas {
		sea, _ := kit.Nearby.SeaDistance(v.NearbyPlaces)
		card := dto.MapVillaCard(v, h.resolve(ctx, v.PrimaryImage()), kit.Tags.Sort(v.FacilityTags), kit.BedroomsPlausible(v.MaxGuests, v.Bedrooms))
		cards = append(cards, dto.ScoopVillaCard{
			VillaCard:      card,
			Rank:           i + 1,
			SeaDistance:    sea,
			ContentListing: v.ContentListing,
		})
	}

	cover := h.resolve(ctx, scoop.CoverImage)
	faq := scoop.FAQ
	if faq == nil {
		faq = []domainscoops.FAQItem{}
	}
	return dto.ScoopPage{
		ID:          string(scoop.ID),
		Slug:        scoop.Slug,
		Title:       scoop.Title,
		Description: scoop.Description,
		CoverImage:  cover,
		AuthorName:  scoop.AuthorName,
		PublishedAt: scoop.PublishedAt,
		Villas:      cards,
		Stats:       Stats(villas),
		FAQ:         faq,
		SEO: dto.SEO{
			Title:       scoop.SEOTitle(),
			Description: scoop.SEODescription(),
			Canonical:   h.Site.URL("/scoop/" + url.PathEscape(scoop.Slug)),
			OGImage:     cover,
		},
		JSONLD: dto.FAQPageLD(scoop.FAQ),
	}, nil
}

func (h *GetPageHandler) resolve(ctx context.Context, ref string) string {
	if ref == "" || h.Images == nil {
		return ref
	}
	resolved, err := h.Images.Resolve(ctx, ref)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Debug("image resolution failed", "ref", ref, "error", err)
		}
		return ref
	}
	return resolved
}

// Stats summarizes a scoop's villas. Villas without a rating count as zero
// in the average.
func Stats(villas []*domainvillas.Villa) dto.ScoopStats {
	stats := dto.ScoopStats{VillaCount: len(villas), AverageRating: "-"}
	if len(villas) == 0 {
		return stats
	}
	var ratingSum float64
	stats.StartPrice = villas[0].PriceDaily
	for _, v := range villas {
		if v.PriceDaily < stats.StartPrice {
			stats.StartPrice = v.PriceDaily
		}
		ratingSum += v.Rating
		stats.TotalReviews += v.ReviewCount
	}
	stats.AverageRating = strconv.FormatFloat(ratingSum/float64(len(villas)), 'f', 1, 64)
	return stats
}

var _ queries.Handler[GetPageQuery, dto.ScoopPage] = (*GetPageHandler)(nil)
