package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainvillas "villafinder/internal/domain/villas"
)

const villasCollection = "villas"

type VillaRepository struct {
	col *mongo.Collection
}

func NewVillaRepository(db *mongo.Database) *VillaRepository {
	return &VillaRepository{col: db.Collection(villasCollection)}
}

func villaIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "location.province", Value: 1}, {Key: "price_daily", Value: 1}}},
	}
}

func (r *VillaRepository) BySlug(ctx context.Context, slug string) (*domainvillas.Villa, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *VillaRepository) ByID(ctx context.Context, id domainvillas.VillaID) (*domainvillas.Villa, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *VillaRepository) findOne(ctx context.Context, filter bson.M) (*domainvillas.Villa, error) {
	var doc villaDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainvillas.ErrNotFound
		}
		return nil, err
	}
	return doc.toVilla(), nil
}

// Candidates pushes the related-villa bounds down to the server.
func (r *VillaRepository) Candidates(ctx context.Context, q domainvillas.CandidateQuery) ([]*domainvillas.Villa, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return r.find(ctx, candidateFilter(q), opts)
}

func (r *VillaRepository) Search(ctx context.Context, params domainvillas.SearchParams) ([]*domainvillas.Villa, error) {
	p := params.Normalized()
	direction := 1
	if p.Descending {
		direction = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sortKey(p.Sort), Value: direction}, {Key: "_id", Value: 1}}).
		SetLimit(int64(p.Limit))
	return r.find(ctx, searchFilter(p), opts)
}

func (r *VillaRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainvillas.Villa, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []villaDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainvillas.Villa, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toVilla())
	}
	return out, nil
}

func (r *VillaRepository) Slugs(ctx context.Context, limit int) ([]domainvillas.SlugEntry, error) {
	opts := options.Find().
		SetProjection(bson.M{"slug": 1, "updated_at": 1}).
		SetSort(bson.D{{Key: "slug", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, err
	}
	var docs []struct {
		Slug      string    `bson:"slug"`
		UpdatedAt time.Time `bson:"updated_at"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domainvillas.SlugEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, domainvillas.SlugEntry{Slug: d.Slug, UpdatedAt: d.UpdatedAt})
	}
	return out, nil
}

func (r *VillaRepository) Save(ctx context.Context, villa *domainvillas.Villa) error {
	if err := villa.Validate(); err != nil {
		return err
	}
	doc := newVillaDocument(villa)
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *VillaRepository) IncrementViews(ctx context.Context, id domainvillas.VillaID, delta int64) error {
	res, err := r.col.UpdateByID(ctx, string(id), bson.M{"$inc": bson.M{"view_count": delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainvillas.ErrNotFound
	}
	return nil
}

func candidateFilter(q domainvillas.CandidateQuery) bson.M {
	filter := bson.M{"active": true}
	if q.ExcludeID != "" {
		filter["_id"] = bson.M{"$ne": string(q.ExcludeID)}
	}
	if q.Province != "" {
		filter["location.province"] = q.Province
	}
	guests := bson.M{"$gte": q.MinGuests}
	if q.MaxGuests > 0 {
		guests["$lte"] = q.MaxGuests
	}
	filter["max_guests"] = guests
	if q.PriceBounded {
		filter["price_daily"] = bson.M{"$gte": q.MinPrice, "$lte": q.MaxPrice}
	}
	if q.RequiredTag != "" {
		filter["facility_tags.id"] = q.RequiredTag
	}
	return filter
}

func searchFilter(p domainvillas.SearchParams) bson.M {
	filter := bson.M{"active": true}
	if p.Province != "" {
		filter["location.province"] = p.Province
	}
	if p.District != "" {
		filter["location.district"] = p.District
	}
	if p.MinReviewCount > 0 {
		filter["review_count"] = bson.M{"$gte": p.MinReviewCount}
	}
	if p.PriceMax > 0 {
		filter["price_daily"] = bson.M{"$lte": p.PriceMax}
	}
	if p.GuestsMin > 0 {
		filter["max_guests"] = bson.M{"$gte": p.GuestsMin}
	}
	return filter
}

func sortKey(field domainvillas.SortField) string {
	switch field {
	case domainvillas.SortByPrice:
		return "price_daily"
	case domainvillas.SortByReviewCount:
		return "review_count"
	case domainvillas.SortByNewest:
		return "created_at"
	default:
		return "rating"
	}
}

type locationDocument struct {
	Province    string   `bson:"province"`
	District    string   `bson:"district"`
	SubDistrict string   `bson:"sub_district,omitempty"`
	Address     string   `bson:"address,omitempty"`
	Lat         *float64 `bson:"lat,omitempty"`
	Lon         *float64 `bson:"lon,omitempty"`
}

type villaDocument struct {
	ID             string                     `bson:"_id"`
	Slug           string                     `bson:"slug"`
	Title          string                     `bson:"title"`
	Location       locationDocument           `bson:"location"`
	PriceDaily     float64                    `bson:"price_daily"`
	MaxGuests      int                        `bson:"max_guests"`
	Bedrooms       int                        `bson:"bedrooms"`
	Bathrooms      int                        `bson:"bathrooms"`
	FacilityTags   []domainvillas.FacilityTag `bson:"facility_tags"`
	Facilities     domainvillas.Facilities    `bson:"facilities"`
	NearbyPlaces   []domainvillas.NearbyPlace `bson:"nearby_places"`
	Policies       []domainvillas.Policy      `bson:"policies"`
	Rating         float64                    `bson:"rating"`
	ReviewCount    int                        `bson:"review_count"`
	Description    string                     `bson:"description"`
	ContentListing string                     `bson:"content_listing,omitempty"`
	ContentDetail  string                     `bson:"content_detail,omitempty"`
	CoverImage     string                     `bson:"cover_image,omitempty"`
	Images         []string                   `bson:"images"`
	SourceURL      string                     `bson:"source_url,omitempty"`
	Active         bool                       `bson:"active"`
	ViewCount      int64                      `bson:"view_count"`
	CreatedAt      time.Time                  `bson:"created_at"`
	UpdatedAt      time.Time                  `bson:"updated_at"`
}

func newVillaDocument(v *domainvillas.Villa) villaDocument {
	return villaDocument{
		ID:    string(v.ID),
		Slug:  v.Slug,
		Title: v.Title,
		Location: locationDocument{
			Province:    v.Location.Province,
			District:    v.Location.District,
			SubDistrict: v.Location.SubDistrict,
			Address:     v.Location.Address,
			Lat:         v.Location.Lat,
			Lon:         v.Location.Lon,
		},
		PriceDaily:     v.PriceDaily,
		MaxGuests:      v.MaxGuests,
		Bedrooms:       v.Bedrooms,
		Bathrooms:      v.Bathrooms,
		FacilityTags:   v.FacilityTags,
		Facilities:     v.Facilities,
		NearbyPlaces:   v.NearbyPlaces,
		Policies:       v.Policies,
		Rating:         v.Rating,
		ReviewCount:    v.ReviewCount,
		Description:    v.Description,
		ContentListing: v.ContentListing,
		ContentDetail:  v.ContentDetail,
		CoverImage:     v.CoverImage,
		Images:         v.Images,
		SourceURL:      v.SourceURL,
		Active:         v.Active,
		ViewCount:      v.ViewCount,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func (d villaDocument) toVilla() *domainvillas.Villa {
	return &domainvillas.Villa{
		ID:    domainvillas.VillaID(d.ID),
		Slug:  d.Slug,
		Title: d.Title,
		Location: domainvillas.Location{
			Province:    d.Location.Province,
			District:    d.Location.District,
			SubDistrict: d.Location.SubDistrict,
			Address:     d.Location.Address,
			Lat:         d.Location.Lat,
			Lon:         d.Location.Lon,
		},
		PriceDaily:     d.PriceDaily,
		MaxGuests:      d.MaxGuests,
		Bedrooms:       d.Bedrooms,
		Bathrooms:      d.Bathrooms,
		FacilityTags:   d.FacilityTags,
		Facilities:     d.Facilities,
		NearbyPlaces:   d.NearbyPlaces,
		Policies:       d.Policies,
		Rating:         d.Rating,
		ReviewCount:    d.ReviewCount,
		Description:    d.Description,
		ContentListing: d.ContentListing,
		ContentDetail:  d.ContentDetail,
		CoverImage:     d.CoverImage,
		Images:         d.Images,
		SourceURL:      d.SourceURL,
		Active:         d.Active,
		ViewCount:      d.ViewCount,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

var _ domainvillas.Repository = (*VillaRepository)(nil)
