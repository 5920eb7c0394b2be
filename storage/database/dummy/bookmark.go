package dummydb

import (
	"context"
	"sort"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/bookmark"
)

type bookmarkRepository struct {
	db      *bookmarkTable
	latency core.Latency
}

var _ bookmark.Repository = (*bookmarkRepository)(nil) // interface compliance check

func NewBookmarkRepository(db *DB) bookmark.Repository {
	return &bookmarkRepository{db: db.bookmark, latency: db.latency}
}

func (repo *bookmarkRepository) find(userID string, courseID int) (*bookmark.Bookmark, bool) {
	for _, bm := range repo.db.table {
		if bm.UserID == userID && bm.CourseID == courseID {
			return bm, true
		}
	}
	return nil, false
}

func (repo *bookmarkRepository) CreateBookmark(ctx context.Context, bm bookmark.Bookmark) (bookmark.Bookmark, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return bookmark.Bookmark{}, err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	if existing, ok := repo.find(bm.UserID, bm.CourseID); ok {
		return *existing, nil
	}
	repo.db.pkCount++
	bm.ID = repo.db.pkCount
	repo.db.table[bm.ID] = &bm
	return bm, nil
}

func (repo *bookmarkRepository) GetBookmark(ctx context.Context, userID string, courseID int) (bookmark.Bookmark, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return bookmark.Bookmark{}, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	if bm, ok := repo.find(userID, courseID); ok {
		return *bm, nil
	}
	return bookmark.Bookmark{}, bookmark.ErrNotFound
}

func (repo *bookmarkRepository) QueryBookmarks(ctx context.Context, userID string) ([]bookmark.Bookmark, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	bookmarks := make([]bookmark.Bookmark, 0)
	for _, bm := range repo.db.table {
		if bm.UserID == userID {
			bookmarks = append(bookmarks, *bm)
		}
	}
	sort.Slice(bookmarks, func(i, j int) bool { return bookmarks[i].ID < bookmarks[j].ID })
	return bookmarks, nil
}

func (repo *bookmarkRepository) DeleteBookmark(ctx context.Context, userID string, courseID int) error {
	if err := repo.latency.Wait(ctx); err != nil {
		return err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	bm, ok := repo.find(userID, courseID)
	if !ok {
		return bookmark.ErrNotFound
	}
	delete(repo.db.table, bm.ID)
	return nil
}
