package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	domainscoops "villafinder/internal/domain/scoops"
)

const scoopColumns = `id, slug, title, description, "coverImage", type, "group", rule, "metaTitle",
	"metaDescription", status, "isFeatured", "authorName", "viewCount", "faqSchema", "publishedAt",
	"createdAt", "updatedAt"`

type ScoopRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewScoopRepository(db *sql.DB, logger *slog.Logger) *ScoopRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoopRepository{db: db, logger: logger}
}

func (r *ScoopRepository) BySlug(ctx context.Context, slug string) (*domainscoops.Scoop, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+scoopColumns+` FROM "Scoop" WHERE slug = $1`, slug)
	s, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainscoops.ErrNotFound
	}
	return s, err
}

// List returns published scoops, newest first.
func (r *ScoopRepository) List(ctx context.Context, params domainscoops.ListParams) ([]*domainscoops.Scoop, error) {
	w := newWhere()
	w.add("(status = ? OR status = '')", string(domainscoops.StatusPublished))
	if params.FeaturedOnly {
		w.add(`"isFeatured"`)
	}
	query := `SELECT ` + scoopColumns + ` FROM "Scoop" WHERE ` + w.sql() + ` ORDER BY "publishedAt" DESC NULLS LAST, slug`
	if params.Limit > 0 {
		query += " LIMIT " + w.arg(params.Limit)
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domainscoops.Scoop, 0)
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ScoopRepository) Save(ctx context.Context, s *domainscoops.Scoop) error {
	if s == nil || s.Slug == "" {
		return domainscoops.ErrSlugRequired
	}
	now := time.Now().UTC()
	created := s.CreatedAt
	if created.IsZero() {
		created = now
	}
	status := string(s.Status)
	if status == "" {
		status = string(domainscoops.StatusPublished)
	}
	var published sql.NullTime
	if !s.PublishedAt.IsZero() {
		published = sql.NullTime{Time: s.PublishedAt, Valid: true}
	}
	_, err := conn(ctx, r.db).ExecContext(ctx, `
INSERT INTO "Scoop" (`+scoopColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
ON CONFLICT (id) DO UPDATE SET
	slug = EXCLUDED.slug, title = EXCLUDED.title, description = EXCLUDED.description,
	"coverImage" = EXCLUDED."coverImage", type = EXCLUDED.type, "group" = EXCLUDED."group",
	rule = EXCLUDED.rule, "metaTitle" = EXCLUDED."metaTitle", "metaDescription" = EXCLUDED."metaDescription",
	status = EXCLUDED.status, "isFeatured" = EXCLUDED."isFeatured", "authorName" = EXCLUDED."authorName",
	"faqSchema" = EXCLUDED."faqSchema", "publishedAt" = EXCLUDED."publishedAt", "updatedAt" = EXCLUDED."updatedAt"`,
		string(s.ID), s.Slug, s.Title, nullString(s.Description), nullString(s.CoverImage), typeOrDefault(s.Type),
		nullString(s.Group), encodeJSON(s.Rule, "{}"), nullString(s.MetaTitle), nullString(s.MetaDescription),
		status, s.Featured, nullString(s.AuthorName), s.ViewCount, encodeJSON(s.FAQ, "[]"), published, created, now,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrSlugTaken, s.Slug)
	}
	return err
}

func (r *ScoopRepository) IncrementViews(ctx context.Context, id domainscoops.ScoopID, delta int64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE "Scoop" SET "viewCount" = "viewCount" + $2 WHERE id = $1`, string(id), delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainscoops.ErrNotFound
	}
	return nil
}

func (r *ScoopRepository) scan(s scanner) (*domainscoops.Scoop, error) {
	var (
		sc                                   domainscoops.Scoop
		id, status                           string
		description, cover, group, metaTitle sql.NullString
		metaDescription, author              sql.NullString
		rule, faq                            []byte
		published                            sql.NullTime
	)
	err := s.Scan(&id, &sc.Slug, &sc.Title, &description, &cover, &sc.Type, &group, &rule, &metaTitle,
		&metaDescription, &status, &sc.Featured, &author, &sc.ViewCount, &faq, &published,
		&sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sc.ID = domainscoops.ScoopID(id)
	sc.Status = domainscoops.Status(status)
	sc.Description = description.String
	sc.CoverImage = cover.String
	sc.Group = group.String
	sc.MetaTitle = metaTitle.String
	sc.MetaDescription = metaDescription.String
	sc.AuthorName = author.String
	if published.Valid {
		sc.PublishedAt = published.Time
	}

	parsed, err := domainscoops.ParseRule(rule)
	if err != nil {
		r.logger.Warn("malformed scoop rule", "id", id, "error", err)
	}
	sc.Rule = parsed
	jsonbDecoder{logger: r.logger, table: "Scoop", id: id}.decode("faqSchema", faq, &sc.FAQ)
	return &sc, nil
}

func typeOrDefault(t string) string {
	if t == "" {
		return "listicle"
	}
	return t
}

var _ domainscoops.Repository = (*ScoopRepository)(nil)
