package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core/bookmark"
)

type bookmarkRepository struct {
	db *sqlx.DB
}

var _ bookmark.Repository = (*bookmarkRepository)(nil) // interface compliance check

func NewBookmarkRepository(db *sqlx.DB) bookmark.Repository {
	return &bookmarkRepository{db: db}
}

func (repo *bookmarkRepository) CreateBookmark(ctx context.Context, bm bookmark.Bookmark) (bookmark.Bookmark, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO bookmark (user_id, course_id, created_at)
		VALUES (:user_id, :course_id, :created_at)
		ON CONFLICT (user_id, course_id) DO NOTHING`, bm)
	if err != nil {
		return bookmark.Bookmark{}, errors.Wrap(err, "inserting bookmark")
	}
	return repo.GetBookmark(ctx, bm.UserID, bm.CourseID)
}

func (repo *bookmarkRepository) GetBookmark(ctx context.Context, userID string, courseID int) (bookmark.Bookmark, error) {
	var bm bookmark.Bookmark
	err := repo.db.GetContext(ctx, &bm,
		"SELECT id, user_id, course_id, created_at FROM bookmark WHERE user_id = $1 AND course_id = $2",
		userID, courseID)
	if err != nil {
		return bookmark.Bookmark{}, notFound(err, bookmark.ErrNotFound)
	}
	bm.CreatedAt = bm.CreatedAt.UTC()
	return bm, nil
}

func (repo *bookmarkRepository) QueryBookmarks(ctx context.Context, userID string) ([]bookmark.Bookmark, error) {
	bms := make([]bookmark.Bookmark, 0)
	err := repo.db.SelectContext(ctx, &bms,
		"SELECT id, user_id, course_id, created_at FROM bookmark WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting bookmarks")
	}
	for i := range bms {
		bms[i].CreatedAt = bms[i].CreatedAt.UTC()
	}
	return bms, nil
}

func (repo *bookmarkRepository) DeleteBookmark(ctx context.Context, userID string, courseID int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM bookmark WHERE user_id = $1 AND course_id = $2", userID, courseID)
	if err != nil {
		return errors.Wrap(err, "deleting bookmark")
	}
	return mustAffect(res, bookmark.ErrNotFound)
}
