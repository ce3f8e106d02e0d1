package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainscoops "villafinder/internal/domain/scoops"
)

const scoopsCollection = "scoops"

type ScoopRepository struct {
	col *mongo.Collection
}

func NewScoopRepository(db *mongo.Database) *ScoopRepository {
	return &ScoopRepository{col: db.Collection(scoopsCollection)}
}

func scoopIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "published_at", Value: -1}}},
	}
}

func (r *ScoopRepository) BySlug(ctx context.Context, slug string) (*domainscoops.Scoop, error) {
	var doc scoopDocument
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainscoops.ErrNotFound
		}
		return nil, err
	}
	return doc.toScoop(), nil
}

// List returns published scoops, newest first. A missing status counts as
// published.
func (r *ScoopRepository) List(ctx context.Context, params domainscoops.ListParams) ([]*domainscoops.Scoop, error) {
	filter := bson.M{"status": bson.M{"$in": bson.A{string(domainscoops.StatusPublished), "", nil}}}
	if params.FeaturedOnly {
		filter["featured"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "published_at", Value: -1}, {Key: "slug", Value: 1}})
	if params.Limit > 0 {
		opts.SetLimit(int64(params.Limit))
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []scoopDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainscoops.Scoop, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toScoop())
	}
	return out, nil
}

func (r *ScoopRepository) Save(ctx context.Context, scoop *domainscoops.Scoop) error {
	if scoop == nil || scoop.Slug == "" {
		return domainscoops.ErrSlugRequired
	}
	doc := newScoopDocument(scoop)
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *ScoopRepository) IncrementViews(ctx context.Context, id domainscoops.ScoopID, delta int64) error {
	res, err := r.col.UpdateByID(ctx, string(id), bson.M{"$inc": bson.M{"view_count": delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainscoops.ErrNotFound
	}
	return nil
}

type scoopDocument struct {
	ID              string                 `bson:"_id"`
	Slug            string                 `bson:"slug"`
	Title           string                 `bson:"title"`
	Description     string                 `bson:"description"`
	CoverImage      string                 `bson:"cover_image,omitempty"`
	Type            string                 `bson:"type,omitempty"`
	Group           string                 `bson:"group,omitempty"`
	Rule            domainscoops.Rule      `bson:"rule"`
	MetaTitle       string                 `bson:"meta_title,omitempty"`
	MetaDescription string                 `bson:"meta_description,omitempty"`
	Status          string                 `bson:"status"`
	Featured        bool                   `bson:"featured"`
	AuthorName      string                 `bson:"author_name,omitempty"`
	ViewCount       int64                  `bson:"view_count"`
	FAQ             []domainscoops.FAQItem `bson:"faq"`
	PublishedAt     time.Time              `bson:"published_at"`
	CreatedAt       time.Time              `bson:"created_at"`
	UpdatedAt       time.Time              `bson:"updated_at"`
}

func newScoopDocument(s *domainscoops.Scoop) scoopDocument {
	return scoopDocument{
		ID:              string(s.ID),
		Slug:            s.Slug,
		Title:           s.Title,
		Description:     s.Description,
		CoverImage:      s.CoverImage,
		Type:            s.Type,
		Group:           s.Group,
		Rule:            s.Rule,
		MetaTitle:       s.MetaTitle,
		MetaDescription: s.MetaDescription,
		Status:          string(s.Status),
		Featured:        s.Featured,
		AuthorName:      s.AuthorName,
		ViewCount:       s.ViewCount,
		FAQ:             s.FAQ,
		PublishedAt:     s.PublishedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (d scoopDocument) toScoop() *domainscoops.Scoop {
	return &domainscoops.Scoop{
		ID:              domainscoops.ScoopID(d.ID),
		Slug:            d.Slug,
		Title:           d.Title,
		Description:     d.Description,
		CoverImage:      d.CoverImage,
		Type:            d.Type,
		Group:           d.Group,
		Rule:            d.Rule,
		MetaTitle:       d.MetaTitle,
		MetaDescription: d.MetaDescription,
		Status:          domainscoops.Status(d.Status),
		Featured:        d.Featured,
		AuthorName:      d.AuthorName,
		ViewCount:       d.ViewCount,
		FAQ:             d.FAQ,
		PublishedAt:     d.PublishedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

var _ domainscoops.Repository = (*ScoopRepository)(nil)
