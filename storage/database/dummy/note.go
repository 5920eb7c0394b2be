package dummydb

import (
	"context"
	"sort"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/note"
)

type noteRepository struct {
	db      *noteTable
	latency core.Latency
}

var _ note.Repository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(db *DB) note.Repository {
	return &noteRepository{db: db.note, latency: db.latency}
}

func (repo *noteRepository) CreateNote(ctx context.Context, n note.Note) (note.Note, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return note.Note{}, err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	n.ID = repo.db.pkCount
	repo.db.table[n.ID] = &n
	return n, nil
}

func (repo *noteRepository) GetNote(ctx context.Context, id int) (note.Note, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return note.Note{}, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	if n, ok := repo.db.table[id]; ok {
		return *n, nil
	}
	return note.Note{}, note.ErrNotFound
}

func (repo *noteRepository) QueryNotes(ctx context.Context, userID, lessonID string) ([]note.Note, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	notes := make([]note.Note, 0)
	for _, n := range repo.db.table {
		if n.UserID == userID && (lessonID == "" || n.LessonID == lessonID) {
			notes = append(notes, *n)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	return notes, nil
}

func (repo *noteRepository) UpdateNote(ctx context.Context, n note.Note) (note.Note, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return note.Note{}, err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[n.ID]; !ok {
		return note.Note{}, note.ErrNotFound
	}
	repo.db.table[n.ID] = &n
	return n, nil
}

func (repo *noteRepository) DeleteNote(ctx context.Context, id int) error {
	if err := repo.latency.Wait(ctx); err != nil {
		return err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return note.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
