package store

import (
	"context"

	"github.com/rafa-porto/dev-connect/api/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// PostStore serves the read-heavy post listings with hand-built SQL over the same
// connection pool gorm uses.
type PostStore struct {
	db      *sqlx.DB
	sb      sq.StatementBuilderType
	dialect string
}

func NewPostStore(db *gorm.DB) (*PostStore, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	dialect := db.Dialector.Name()
	return &PostStore{
		db:      sqlx.NewDb(sqlDB, driverName(dialect)),
		sb:      sq.StatementBuilder.PlaceholderFormat(placeholderFor(dialect)),
		dialect: dialect,
	}, nil
}

func driverName(dialect string) string {
	if dialect == "postgres" {
		return "pgx"
	}
	return "sqlite3"
}

func placeholderFor(dialect string) sq.PlaceholderFormat {
	if dialect == "postgres" {
		return sq.Dollar
	}
	return sq.Question
}

// ListByAuthors returns posts written by any of authorIDs, newest first, paged by one
// offset/limit over the merged ordering.
func (s *PostStore) ListByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]models.Post, error) {
	posts := []models.Post{}
	if len(authorIDs) == 0 {
		return posts, nil
	}

	query, args, err := s.sb.
		Select(models.PostColumns...).
		From("posts").
		Where(sq.Eq{"user_id": authorIDs}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := s.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListBookmarked returns the posts userID bookmarked, most recent bookmark first.
func (s *PostStore) ListBookmarked(ctx context.Context, userID string, limit, offset int) ([]models.Post, error) {
	columns := make([]string, len(models.PostColumns))
	for i, column := range models.PostColumns {
		columns[i] = "p." + column
	}

	query, args, err := s.sb.
		Select(columns...).
		From("bookmarks b").
		Join("posts p ON p.id = b.post_id").
		Where(sq.Eq{"b.user_id": userID}).
		OrderBy("b.created_at DESC", "b.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	posts := []models.Post{}
	if err := s.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListRecent returns every post, newest first.
func (s *PostStore) ListRecent(ctx context.Context, limit, offset int) ([]models.Post, error) {
	query, args, err := s.sb.
		Select(models.PostColumns...).
		From("posts").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	posts := []models.Post{}
	if err := s.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, err
	}
	return posts, nil
}
