package engagement

import (
	"context"
	"time"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EdgeKind string

const (
	EdgeFollow   EdgeKind = "follow"
	EdgeLike     EdgeKind = "like"
	EdgeBookmark EdgeKind = "bookmark"
)

type edgeSchema struct {
	left, right string
	newRow      func(a, b string, at time.Time) interface{}
	newModel    func() interface{}
}

var edgeSchemas = map[EdgeKind]edgeSchema{
	EdgeFollow: {
		left:  "follower_id",
		right: "following_id",
		newRow: func(a, b string, at time.Time) interface{} {
			return &models.Follow{FollowerID: a, FollowingID: b, CreatedAt: at}
		},
		newModel: func() interface{} { return &models.Follow{} },
	},
	EdgeLike: {
		left:  "user_id",
		right: "post_id",
		newRow: func(a, b string, at time.Time) interface{} {
			return &models.Like{UserID: a, PostID: b, CreatedAt: at}
		},
		newModel: func() interface{} { return &models.Like{} },
	},
	EdgeBookmark: {
		left:  "user_id",
		right: "post_id",
		newRow: func(a, b string, at time.Time) interface{} {
			return &models.Bookmark{UserID: a, PostID: b, CreatedAt: at}
		},
		newModel: func() interface{} { return &models.Bookmark{} },
	},
}

// insertEdge writes the edge unless the pair already exists. The unique index decides, so
// of two concurrent inserts for one pair exactly one reports inserted.
func insertEdge(tx *gorm.DB, kind EdgeKind, a, b string, at time.Time) (interface{}, bool, error) {
	row := edgeSchemas[kind].newRow(a, b, at)
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if result.Error != nil {
		return nil, false, result.Error
	}
	return row, result.RowsAffected == 1, nil
}

// deleteEdge removes the edge and reports whether a row was actually removed.
func deleteEdge(tx *gorm.DB, kind EdgeKind, a, b string) (bool, error) {
	schema := edgeSchemas[kind]
	result := tx.Where(schema.left+" = ? AND "+schema.right+" = ?", a, b).Delete(schema.newModel())
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func edgeExists(db *gorm.DB, kind EdgeKind, a, b string) (bool, error) {
	schema := edgeSchemas[kind]
	var count int64
	err := db.Model(schema.newModel()).
		Where(schema.left+" = ? AND "+schema.right+" = ?", a, b).
		Count(&count).Error
	return count > 0, err
}

// EdgeExists reports whether the edge (a, b) of the given kind is present.
func (s *Service) EdgeExists(ctx context.Context, kind EdgeKind, a, b string) (bool, error) {
	if _, ok := edgeSchemas[kind]; !ok {
		return false, apperrors.NewValidation("kind", "unknown edge kind "+string(kind))
	}
	exists, err := edgeExists(s.db.WithContext(ctx), kind, a, b)
	return exists, apperrors.Classify("edge_exists", err)
}

// followingIDs reads the full, unpaginated set of users followed by userID.
func followingIDs(db *gorm.DB, userID string) ([]string, error) {
	ids := []string{}
	err := db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, err
}

// listFollowUsers pages through users on the other side of userID's follow edges,
// most recent edge first.
func listFollowUsers(db *gorm.DB, userID string, followers bool, limit, offset int) ([]models.User, error) {
	join, where := "JOIN follows ON follows.following_id = users.id", "follows.follower_id = ?"
	if followers {
		join, where = "JOIN follows ON follows.follower_id = users.id", "follows.following_id = ?"
	}

	users := []models.User{}
	err := db.Model(&models.User{}).
		Select("users.*").
		Joins(join).
		Where(where, userID).
		Order("follows.created_at DESC, follows.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}
