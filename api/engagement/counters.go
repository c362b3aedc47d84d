package engagement

import (
	"context"
	"sort"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// counterDelta is one relative adjustment of a denormalized counter.
type counterDelta struct {
	table  string
	id     string
	column string
	delta  int64
	// optional rows may have been deleted already (a reply's parent, a repost's original)
	optional bool
}

func edgeDeltas(kind EdgeKind, a, b string, sign int64) []counterDelta {
	switch kind {
	case EdgeFollow:
		return []counterDelta{
			{table: "users", id: a, column: "following_count", delta: sign},
			{table: "users", id: b, column: "follower_count", delta: sign},
		}
	case EdgeLike:
		return []counterDelta{{table: "posts", id: b, column: "like_count", delta: sign}}
	case EdgeBookmark:
		return []counterDelta{{table: "posts", id: b, column: "bookmark_count", delta: sign}}
	}
	return nil
}

func postDeltas(authorID string, parentPostID, repostID *string, sign int64) []counterDelta {
	deltas := []counterDelta{{table: "users", id: authorID, column: "post_count", delta: sign}}
	if parentPostID != nil {
		deltas = append(deltas, counterDelta{table: "posts", id: *parentPostID, column: "reply_count", delta: sign, optional: true})
	}
	if repostID != nil {
		deltas = append(deltas, counterDelta{table: "posts", id: *repostID, column: "repost_count", delta: sign, optional: true})
	}
	return deltas
}

// applyDeltas adds every delta in place with "column = column + delta". Rows are touched in
// (table, id) order so transactions updating the same rows take their locks in the same order.
func applyDeltas(tx *gorm.DB, deltas []counterDelta) error {
	merged := make(map[[3]string]*counterDelta, len(deltas))
	ordered := make([]*counterDelta, 0, len(deltas))
	for i := range deltas {
		d := deltas[i]
		key := [3]string{d.table, d.id, d.column}
		if existing, ok := merged[key]; ok {
			existing.delta += d.delta
			existing.optional = existing.optional && d.optional
			continue
		}
		merged[key] = &d
		ordered = append(ordered, &d)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].table != ordered[j].table {
			return ordered[i].table < ordered[j].table
		}
		if ordered[i].id != ordered[j].id {
			return ordered[i].id < ordered[j].id
		}
		return ordered[i].column < ordered[j].column
	})

	for _, d := range ordered {
		if d.delta == 0 {
			continue
		}
		result := tx.Table(d.table).
			Where("id = ?", d.id).
			UpdateColumn(d.column, gorm.Expr(d.column+" + ?", d.delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 && !d.optional {
			return apperrors.NewNotFound(entityOf(d.table), d.id)
		}
	}
	return nil
}

func entityOf(table string) string {
	if table == "users" {
		return "user"
	}
	return "post"
}

// recountStatements recompute each counter from its edge table, touching only rows that drifted.
var recountStatements = []string{
	`UPDATE users SET follower_count = (SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id)
		WHERE follower_count <> (SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id)`,
	`UPDATE users SET following_count = (SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id)
		WHERE following_count <> (SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id)`,
	`UPDATE users SET post_count = (SELECT COUNT(*) FROM posts WHERE posts.user_id = users.id)
		WHERE post_count <> (SELECT COUNT(*) FROM posts WHERE posts.user_id = users.id)`,
	`UPDATE posts SET like_count = (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)
		WHERE like_count <> (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)`,
	`UPDATE posts SET bookmark_count = (SELECT COUNT(*) FROM bookmarks WHERE bookmarks.post_id = posts.id)
		WHERE bookmark_count <> (SELECT COUNT(*) FROM bookmarks WHERE bookmarks.post_id = posts.id)`,
	`UPDATE posts SET reply_count = (SELECT COUNT(*) FROM posts AS r WHERE r.parent_post_id = posts.id)
		WHERE reply_count <> (SELECT COUNT(*) FROM posts AS r WHERE r.parent_post_id = posts.id)`,
	`UPDATE posts SET repost_count = (SELECT COUNT(*) FROM posts AS r WHERE r.repost_id = posts.id)
		WHERE repost_count <> (SELECT COUNT(*) FROM posts AS r WHERE r.repost_id = posts.id)`,
}

// recountLock returns the statement that keeps edge writers out for the length of a recount,
// so no increment commits between a COUNT and the UPDATE that stores it. SHARE mode still lets
// readers through. sqlite runs one writer at a time and needs no lock.
func recountLock(dialect string) string {
	if dialect == "postgres" {
		return "LOCK TABLE follows, likes, bookmarks, posts IN SHARE MODE"
	}
	return ""
}

// RecountCounters rebuilds every denormalized counter from the edge tables and returns how
// many rows were corrected. It is a repair tool; regular mutations never recount. Edge writes
// wait while it runs; a deadlock with one of them aborts a side as Conflict, which transact
// retries.
func (s *Service) RecountCounters(ctx context.Context) (int64, error) {
	lock := recountLock(s.db.Dialector.Name())

	var repaired int64
	err := s.transact(ctx, "recount", func(tx *gorm.DB) error {
		repaired = 0
		if lock != "" {
			if err := tx.Exec(lock).Error; err != nil {
				return err
			}
		}
		for _, stmt := range recountStatements {
			result := tx.Exec(stmt)
			if result.Error != nil {
				return result.Error
			}
			repaired += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.CounterRepairs.Add(float64(repaired))
	if repaired > 0 {
		s.log.Warn("counters drifted from edges and were repaired", zap.Int64("rows", repaired))
	}
	return repaired, nil
}
