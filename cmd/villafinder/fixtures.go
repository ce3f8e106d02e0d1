package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"villafinder/internal/app/uow"
	"villafinder/internal/domain/enrich"
	"villafinder/internal/domain/scoops"
	"villafinder/internal/domain/villas"
)

// fixtureFile is the import format produced by the scraper export.
type fixtureFile struct {
	Villas []villaFixture `json:"villas"`
	Scoops []scoopFixture `json:"scoops"`
}

type villaFixture struct {
	ID             string                `json:"id"`
	Slug           string                `json:"slug"`
	Title          string                `json:"title"`
	Location       locationFixture       `json:"location"`
	PriceDaily     float64               `json:"price_daily"`
	MaxGuests      int                   `json:"max_guests"`
	Bedrooms       int                   `json:"bedrooms"`
	Bathrooms      int                   `json:"bathrooms"`
	FacilityTags   []villas.FacilityTag  `json:"facility_tags"`
	Facilities     villas.Facilities     `json:"facilities"`
	NearbyPlaces   []villas.NearbyPlace  `json:"nearby_places"`
	Policies       []villas.Policy       `json:"policies"`
	Rating         float64               `json:"rating"`
	ReviewCount    int                   `json:"review_count"`
	Description    string                `json:"description"`
	ContentListing string                `json:"content_listing"`
	ContentDetail  string                `json:"content_detail"`
	CoverImage     string                `json:"cover_image"`
	Images         []string              `json:"images"`
	SourceURL      string                `json:"source_url"`
	Active         *bool                 `json:"active"`
	CreatedAt      string                `json:"created_at"`
}

type locationFixture struct {
	Province    string   `json:"province"`
	District    string   `json:"district"`
	SubDistrict string   `json:"sub_district"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
}

type scoopFixture struct {
	ID              string           `json:"id"`
	Slug            string           `json:"slug"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	CoverImage      string           `json:"cover_image"`
	Type            string           `json:"type"`
	Group           string           `json:"group"`
	Rule            json.RawMessage  `json:"rule"`
	MetaTitle       string           `json:"meta_title"`
	MetaDescription string           `json:"meta_description"`
	Status          string           `json:"status"`
	Featured        bool             `json:"featured"`
	AuthorName      string           `json:"author_name"`
	FAQ             []scoops.FAQItem `json:"faq"`
	PublishedAt     string           `json:"published_at"`
}

func readFixtures(path string) (fixtureFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixtureFile{}, err
	}
	var file fixtureFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return file, nil
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return fixtureFile{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return file, nil
}

func (fx villaFixture) toVilla(now time.Time) *villas.Villa {
	active := true
	if fx.Active != nil {
		active = *fx.Active
	}
	id := fx.ID
	if id == "" {
		id = fx.Slug
	}
	created := parseFixtureTime(fx.CreatedAt, now)
	return &villas.Villa{
		ID:    villas.VillaID(id),
		Slug:  strings.TrimSpace(fx.Slug),
		Title: strings.TrimSpace(fx.Title),
		Location: villas.Location{
			Province:    fx.Location.Province,
			District:    fx.Location.District,
			SubDistrict: fx.Location.SubDistrict,
			Address:     fx.Location.Address,
			Lat:         fx.Location.Lat,
			Lon:         fx.Location.Lon,
		},
		PriceDaily:     fx.PriceDaily,
		MaxGuests:      fx.MaxGuests,
		Bedrooms:       fx.Bedrooms,
		Bathrooms:      fx.Bathrooms,
		FacilityTags:   append([]villas.FacilityTag(nil), fx.FacilityTags...),
		Facilities:     fx.Facilities,
		NearbyPlaces:   append([]villas.NearbyPlace(nil), fx.NearbyPlaces...),
		Policies:       append([]villas.Policy(nil), fx.Policies...),
		Rating:         fx.Rating,
		ReviewCount:    fx.ReviewCount,
		Description:    fx.Description,
		ContentListing: fx.ContentListing,
		ContentDetail:  fx.ContentDetail,
		CoverImage:     fx.CoverImage,
		Images:         append([]string(nil), fx.Images...),
		SourceURL:      fx.SourceURL,
		Active:         active,
		CreatedAt:      created,
		UpdatedAt:      now,
	}
}

func (fx scoopFixture) toScoop(now time.Time) (*scoops.Scoop, error) {
	rule, err := scoops.ParseRule(fx.Rule)
	if err != nil {
		return nil, err
	}
	id := fx.ID
	if id == "" {
		id = fx.Slug
	}
	status := scoops.Status(fx.Status)
	if status == "" {
		status = scoops.StatusPublished
	}
	published := parseFixtureTime(fx.PublishedAt, now)
	return &scoops.Scoop{
		ID:              scoops.ScoopID(id),
		Slug:            strings.TrimSpace(fx.Slug),
		Title:           fx.Title,
		Description:     fx.Description,
		CoverImage:      fx.CoverImage,
		Type:            fx.Type,
		Group:           fx.Group,
		Rule:            rule,
		MetaTitle:       fx.MetaTitle,
		MetaDescription: fx.MetaDescription,
		Status:          status,
		Featured:        fx.Featured,
		AuthorName:      fx.AuthorName,
		FAQ:             append([]scoops.FAQItem(nil), fx.FAQ...),
		PublishedAt:     published,
		CreatedAt:       published,
		UpdatedAt:       now,
	}, nil
}

type importStats struct {
	Villas  int
	Scoops  int
	Skipped int
}

// importer enriches fixtures and writes them through a unit of work.
type importer struct {
	factory  uow.UoWFactory
	enricher *enrich.Enricher
	images   imageUploader
	baseDir  string
	logger   *slog.Logger
	now      func() time.Time
}

// run saves every fixture in its own unit so one rejected row does not
// abort the rest of the import.
func (im *importer) run(ctx context.Context, file fixtureFile) (importStats, error) {
	var stats importStats
	now := time.Now().UTC()
	if im.now != nil {
		now = im.now()
	}

	for _, fx := range file.Villas {
		v := fx.toVilla(now)
		im.enricher.Apply(v)
		if im.images != nil {
			im.uploadVillaImages(ctx, v)
		}
		err := im.inUnit(ctx, func(ctx context.Context, unit uow.UnitOfWork) error {
			return unit.Villas().Save(ctx, v)
		})
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			im.logger.Error("villa fixture rejected", "slug", fx.Slug, "error", err)
			stats.Skipped++
			continue
		}
		stats.Villas++
	}
	for _, fx := range file.Scoops {
		s, err := fx.toScoop(now)
		if err == nil {
			err = im.inUnit(ctx, func(ctx context.Context, unit uow.UnitOfWork) error {
				return unit.Scoops().Save(ctx, s)
			})
		}
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			im.logger.Error("scoop fixture rejected", "slug", fx.Slug, "error", err)
			stats.Skipped++
			continue
		}
		stats.Scoops++
	}
	return stats, nil
}

func (im *importer) inUnit(ctx context.Context, fn func(context.Context, uow.UnitOfWork) error) error {
	unit, err := im.factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return err
	}
	ctx = uow.Bind(ctx, unit)
	if err := fn(ctx, unit); err != nil {
		_ = unit.Rollback(ctx)
		return err
	}
	return unit.Commit(ctx)
}

func parseFixtureTime(value string, fallback time.Time) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

// loadFixturesIntoMemory seeds the in-memory store at start-up.
func loadFixturesIntoMemory(ctx context.Context, app *application, path string, logger *slog.Logger) error {
	file, err := readFixtures(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("fixtures file not found, starting empty", "path", path)
			return nil
		}
		return err
	}
	im := &importer{factory: app.factory, enricher: enrich.NewEnricher(nil), logger: logger}
	stats, err := im.run(ctx, file)
	if err != nil {
		return err
	}
	logger.Info("fixtures loaded", "villas", stats.Villas, "scoops", stats.Scoops, "skipped", stats.Skipped)
	return nil
}
