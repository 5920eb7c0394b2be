package dummydb

import (
	"context"
	"sort"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/download"
)

type downloadRepository struct {
	db      *downloadTable
	latency core.Latency
}

var _ download.Repository = (*downloadRepository)(nil) // interface compliance check

func NewDownloadRepository(db *DB) download.Repository {
	return &downloadRepository{db: db.download, latency: db.latency}
}

func (repo *downloadRepository) find(userID, videoURL string) (*download.Video, bool) {
	for _, v := range repo.db.table {
		if v.UserID == userID && v.VideoURL == videoURL {
			return v, true
		}
	}
	return nil, false
}

func (repo *downloadRepository) CreateDownload(ctx context.Context, v download.Video) (download.Video, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return download.Video{}, err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.find(v.UserID, v.VideoURL); ok {
		return download.Video{}, download.ErrAlreadyDownloaded
	}
	repo.db.pkCount++
	v.ID = repo.db.pkCount
	repo.db.table[v.ID] = &v
	return v, nil
}

func (repo *downloadRepository) GetDownload(ctx context.Context, id int) (download.Video, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return download.Video{}, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	if v, ok := repo.db.table[id]; ok {
		return *v, nil
	}
	return download.Video{}, download.ErrNotFound
}

func (repo *downloadRepository) GetDownloadByURL(ctx context.Context, userID, videoURL string) (download.Video, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return download.Video{}, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	if v, ok := repo.find(userID, videoURL); ok {
		return *v, nil
	}
	return download.Video{}, download.ErrNotFound
}

func (repo *downloadRepository) QueryDownloads(ctx context.Context, userID string) ([]download.Video, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	videos := make([]download.Video, 0)
	for _, v := range repo.db.table {
		if v.UserID == userID {
			videos = append(videos, *v)
		}
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].ID < videos[j].ID })
	return videos, nil
}

func (repo *downloadRepository) DeleteDownload(ctx context.Context, id int) error {
	if err := repo.latency.Wait(ctx); err != nil {
		return err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return download.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
