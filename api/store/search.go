package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rafa-porto/dev-connect/api/models"

	sq "github.com/Masterminds/squirrel"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains matches rows whose column holds term as a case-insensitive substring. LIKE
// wildcards typed by the user match literally.
func (s *PostStore) contains(column, term string) sq.Sqlizer {
	op := "LIKE"
	if s.dialect == "postgres" {
		op = "ILIKE"
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	return sq.Expr(fmt.Sprintf(`%s %s ? ESCAPE '\'`, column, op), pattern)
}

// SearchPosts returns posts whose content contains term, newest first.
func (s *PostStore) SearchPosts(ctx context.Context, term string, limit, offset int) ([]models.Post, error) {
	query, args, err := s.sb.
		Select(models.PostColumns...).
		From("posts").
		Where(s.contains("content", term)).
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

// SearchUsers returns users whose username or display name contains term, most followed first.
func (s *PostStore) SearchUsers(ctx context.Context, term string, limit, offset int) ([]models.User, error) {
	query, args, err := s.sb.
		Select(models.UserColumns...).
		From("users").
		Where(sq.Or{s.contains("username", term), s.contains("name", term)}).
		OrderBy("follower_count DESC", "username ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchHashtags returns hashtags containing term, highest trending score first.
func (s *PostStore) SearchHashtags(ctx context.Context, term string, limit, offset int) ([]models.Hashtag, error) {
	query, args, err := s.sb.
		Select(models.HashtagColumns...).
		From("hashtags").
		Where(s.contains("tag", strings.TrimPrefix(term, "#"))).
		OrderBy("trending_score DESC", "tag ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	hashtags := []models.Hashtag{}
	if err := s.db.SelectContext(ctx, &hashtags, query, args...); err != nil {
		return nil, err
	}
	return hashtags, nil
}
