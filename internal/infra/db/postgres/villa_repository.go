package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	domainvillas "villafinder/internal/domain/villas"
)

const villaColumns = `id, slug, title, province, district, "subDistrict", address, latitude, longitude,
	"priceDaily", "maxGuests", bedrooms, bathrooms, facility_tags, facilities, "nearbyPlaces", policies,
	rating, "reviewCount", description, content_listing, content_detail, "coverImage", images,
	"sourceUrl", "isActive", "viewCount", "createdAt", "updatedAt"`

var ErrSlugTaken = errors.New("postgres: slug already used by another record")

type VillaRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewVillaRepository(db *sql.DB, logger *slog.Logger) *VillaRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &VillaRepository{db: db, logger: logger}
}

func (r *VillaRepository) BySlug(ctx context.Context, slug string) (*domainvillas.Villa, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+villaColumns+` FROM "Villa" WHERE slug = $1`, slug)
	return r.scanOne(row)
}

func (r *VillaRepository) ByID(ctx context.Context, id domainvillas.VillaID) (*domainvillas.Villa, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+villaColumns+` FROM "Villa" WHERE id = $1`, string(id))
	return r.scanOne(row)
}

func (r *VillaRepository) scanOne(row *sql.Row) (*domainvillas.Villa, error) {
	v, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainvillas.ErrNotFound
	}
	return v, err
}

// Candidates pushes the related-villa bounds into SQL.
func (r *VillaRepository) Candidates(ctx context.Context, q domainvillas.CandidateQuery) ([]*domainvillas.Villa, error) {
	w := newWhere()
	w.add(`"isActive"`)
	if q.ExcludeID != "" {
		w.add("id <> ?", string(q.ExcludeID))
	}
	if q.Province != "" {
		w.add("province = ?", q.Province)
	}
	w.add(`"maxGuests" >= ?`, q.MinGuests)
	if q.MaxGuests > 0 {
		w.add(`"maxGuests" <= ?`, q.MaxGuests)
	}
	if q.PriceBounded {
		w.add(`"priceDaily" >= ?`, q.MinPrice)
		w.add(`"priceDaily" <= ?`, q.MaxPrice)
	}
	if q.RequiredTag != "" {
		w.add("facility_tags @> ?::jsonb", `[{"id":`+strconv.Quote(q.RequiredTag)+`}]`)
	}
	query := `SELECT ` + villaColumns + ` FROM "Villa" WHERE ` + w.sql() + ` ORDER BY "createdAt", id`
	if q.Limit > 0 {
		query += " LIMIT " + w.arg(q.Limit)
	}
	return r.query(ctx, query, w.args...)
}

func (r *VillaRepository) Search(ctx context.Context, params domainvillas.SearchParams) ([]*domainvillas.Villa, error) {
	p := params.Normalized()
	w := newWhere()
	w.add(`"isActive"`)
	if p.Province != "" {
		w.add("province = ?", p.Province)
	}
	if p.District != "" {
		w.add("district = ?", p.District)
	}
	if p.MinReviewCount > 0 {
		w.add(`"reviewCount" >= ?`, p.MinReviewCount)
	}
	if p.PriceMax > 0 {
		w.add(`"priceDaily" <= ?`, p.PriceMax)
	}
	if p.GuestsMin > 0 {
		w.add(`"maxGuests" >= ?`, p.GuestsMin)
	}
	direction := "ASC"
	if p.Descending {
		direction = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM "Villa" WHERE %s ORDER BY %s %s NULLS LAST, id LIMIT %s`,
		villaColumns, w.sql(), orderColumn(p.Sort), direction, w.arg(p.Limit))
	return r.query(ctx, query, w.args...)
}

func (r *VillaRepository) Slugs(ctx context.Context, limit int) ([]domainvillas.SlugEntry, error) {
	query := `SELECT slug, "updatedAt" FROM "Villa" WHERE "isActive" ORDER BY slug`
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domainvillas.SlugEntry
	for rows.Next() {
		var entry domainvillas.SlugEntry
		if err := rows.Scan(&entry.Slug, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (r *VillaRepository) Save(ctx context.Context, v *domainvillas.Villa) error {
	if err := v.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	created := v.CreatedAt
	if created.IsZero() {
		created = now
	}
	_, err := conn(ctx, r.db).ExecContext(ctx, `
INSERT INTO "Villa" (`+villaColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29)
ON CONFLICT (id) DO UPDATE SET
	slug = EXCLUDED.slug, title = EXCLUDED.title, province = EXCLUDED.province,
	district = EXCLUDED.district, "subDistrict" = EXCLUDED."subDistrict", address = EXCLUDED.address,
	latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, "priceDaily" = EXCLUDED."priceDaily",
	"maxGuests" = EXCLUDED."maxGuests", bedrooms = EXCLUDED.bedrooms, bathrooms = EXCLUDED.bathrooms,
	facility_tags = EXCLUDED.facility_tags, facilities = EXCLUDED.facilities,
	"nearbyPlaces" = EXCLUDED."nearbyPlaces", policies = EXCLUDED.policies, rating = EXCLUDED.rating,
	"reviewCount" = EXCLUDED."reviewCount", description = EXCLUDED.description,
	content_listing = EXCLUDED.content_listing, content_detail = EXCLUDED.content_detail,
	"coverImage" = EXCLUDED."coverImage", images = EXCLUDED.images, "sourceUrl" = EXCLUDED."sourceUrl",
	"isActive" = EXCLUDED."isActive", "updatedAt" = EXCLUDED."updatedAt"`,
		string(v.ID), v.Slug, v.Title, v.Location.Province, v.Location.District,
		nullString(v.Location.SubDistrict), nullString(v.Location.Address), v.Location.Lat, v.Location.Lon,
		v.PriceDaily, v.MaxGuests, v.Bedrooms, v.Bathrooms,
		encodeJSON(v.FacilityTags, "[]"), encodeJSON(v.Facilities, "{}"),
		encodeJSON(v.NearbyPlaces, "[]"), encodeJSON(v.Policies, "[]"),
		nullFloat(v.Rating), v.ReviewCount, nullString(v.Description),
		nullString(v.ContentListing), nullString(v.ContentDetail), nullString(v.CoverImage),
		encodeJSON(v.Images, "[]"), nullString(v.SourceURL), v.Active, v.ViewCount, created, now,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrSlugTaken, v.Slug)
	}
	return err
}

func (r *VillaRepository) IncrementViews(ctx context.Context, id domainvillas.VillaID, delta int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE "Villa" SET "viewCount" = "viewCount" + $2 WHERE id = $1`, string(id), delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainvillas.ErrNotFound
	}
	return nil
}

func (r *VillaRepository) query(ctx context.Context, query string, args ...any) ([]*domainvillas.Villa, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domainvillas.Villa, 0)
	for rows.Next() {
		v, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *VillaRepository) scan(s scanner) (*domainvillas.Villa, error) {
	var (
		v                                             domainvillas.Villa
		id                                            string
		subDistrict, address, description             sql.NullString
		contentListing, contentDetail, cover, source  sql.NullString
		lat, lon, rating                              sql.NullFloat64
		tags, facilities, places, policies, imageList []byte
	)
	err := s.Scan(&id, &v.Slug, &v.Title, &v.Location.Province, &v.Location.District, &subDistrict, &address,
		&lat, &lon, &v.PriceDaily, &v.MaxGuests, &v.Bedrooms, &v.Bathrooms, &tags, &facilities, &places,
		&policies, &rating, &v.ReviewCount, &description, &contentListing, &contentDetail, &cover, &imageList,
		&source, &v.Active, &v.ViewCount, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.ID = domainvillas.VillaID(id)
	v.Location.SubDistrict = subDistrict.String
	v.Location.Address = address.String
	if lat.Valid && lon.Valid {
		v.Location.Lat, v.Location.Lon = &lat.Float64, &lon.Float64
	}
	v.Rating = rating.Float64
	v.Description = description.String
	v.ContentListing = contentListing.String
	v.ContentDetail = contentDetail.String
	v.CoverImage = cover.String
	v.SourceURL = source.String

	dec := jsonbDecoder{logger: r.logger, table: "Villa", id: id}
	dec.decode("facility_tags", tags, &v.FacilityTags)
	dec.decode("facilities", facilities, &v.Facilities)
	dec.decode("nearbyPlaces", places, &v.NearbyPlaces)
	dec.decode("images", imageList, &v.Images)
	v.Policies = dec.policies(policies)
	return &v, nil
}

func orderColumn(field domainvillas.SortField) string {
	switch field {
	case domainvillas.SortByPrice:
		return `"priceDaily"`
	case domainvillas.SortByReviewCount:
		return `"reviewCount"`
	case domainvillas.SortByNewest:
		return `"createdAt"`
	default:
		return "rating"
	}
}

// where collects AND-ed conditions, rewriting ? to numbered placeholders.
type where struct {
	parts []string
	args  []any
}

func newWhere() *where { return &where{} }

func (w *where) add(cond string, args ...any) {
	for _, a := range args {
		cond = strings.Replace(cond, "?", w.arg(a), 1)
	}
	w.parts = append(w.parts, cond)
}

func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *where) sql() string {
	if len(w.parts) == 0 {
		return "TRUE"
	}
	return strings.Join(w.parts, " AND ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f != 0}
}

var _ domainvillas.Repository = (*VillaRepository)(nil)
