package dummydb

import (
	"context"
	"sort"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/progress"
)

type progressRepository struct {
	db      *progressTable
	latency core.Latency
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(db *DB) progress.Repository {
	return &progressRepository{db: db.progress, latency: db.latency}
}

func (repo *progressRepository) find(userID string, courseID int) (*progress.Record, bool) {
	for _, rec := range repo.db.table {
		if rec.UserID == userID && rec.CourseID == courseID {
			return rec, true
		}
	}
	return nil, false
}

func (repo *progressRepository) CreateProgress(ctx context.Context, rec progress.Record) (progress.Record, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return progress.Record{}, err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.find(rec.UserID, rec.CourseID); ok {
		return progress.Record{}, progress.ErrExists
	}
	repo.db.pkCount++
	rec = rec.Clone()
	rec.ID = repo.db.pkCount
	repo.db.table[rec.ID] = &rec
	return rec.Clone(), nil
}

func (repo *progressRepository) GetProgress(ctx context.Context, id int) (progress.Record, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return progress.Record{}, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[id]; ok {
		return rec.Clone(), nil
	}
	return progress.Record{}, progress.ErrNotFound
}

func (repo *progressRepository) GetCourseProgress(ctx context.Context, userID string, courseID int) (progress.Record, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return progress.Record{}, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.find(userID, courseID); ok {
		return rec.Clone(), nil
	}
	return progress.Record{}, progress.ErrNotFound
}

func (repo *progressRepository) QueryProgress(ctx context.Context, userID string) ([]progress.Record, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]progress.Record, 0)
	for _, rec := range repo.db.table {
		if rec.UserID == userID {
			records = append(records, rec.Clone())
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (repo *progressRepository) UpdateProgress(ctx context.Context, rec progress.Record) (progress.Record, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return progress.Record{}, err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.table[rec.ID]
	if !ok {
		return progress.Record{}, progress.ErrNotFound
	}
	rec = rec.Clone()
	if stored.CertificateID != "" { // the first certificate assigned wins
		kept := stored.Clone()
		rec.CertificateID, rec.CompletedDate = kept.CertificateID, kept.CompletedDate
	}
	repo.db.table[rec.ID] = &rec
	return rec.Clone(), nil
}

func (repo *progressRepository) DeleteProgress(ctx context.Context, id int) error {
	if err := repo.latency.Wait(ctx); err != nil {
		return err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return progress.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
