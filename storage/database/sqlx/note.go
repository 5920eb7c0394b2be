package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core/note"
)

const noteColumns = "id, user_id, course_id, lesson_id, text, timestamp, created_at, updated_at"

type noteRepository struct {
	db *sqlx.DB
}

var _ note.Repository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(db *sqlx.DB) note.Repository {
	return &noteRepository{db: db}
}

func (repo *noteRepository) CreateNote(ctx context.Context, n note.Note) (note.Note, error) {
	stmt, err := repo.db.PrepareNamedContext(ctx, `
		INSERT INTO note (user_id, course_id, lesson_id, text, timestamp, created_at, updated_at)
		VALUES (:user_id, :course_id, :lesson_id, :text, :timestamp, :created_at, :updated_at)
		RETURNING id`)
	if err != nil {
		return note.Note{}, errors.Wrap(err, "preparing note insert")
	}
	defer func() { _ = stmt.Close() }()

	if err = stmt.GetContext(ctx, &n.ID, n); err != nil {
		return note.Note{}, errors.Wrap(err, "inserting note")
	}
	return n, nil
}

func (repo *noteRepository) GetNote(ctx context.Context, id int) (note.Note, error) {
	var n note.Note
	if err := repo.db.GetContext(ctx, &n, "SELECT "+noteColumns+" FROM note WHERE id = $1", id); err != nil {
		return note.Note{}, notFound(err, note.ErrNotFound)
	}
	return utcNote(n), nil
}

func (repo *noteRepository) QueryNotes(ctx context.Context, userID, lessonID string) ([]note.Note, error) {
	query := "SELECT " + noteColumns + " FROM note WHERE user_id = $1"
	args := []interface{}{userID}
	if lessonID != "" {
		query += " AND lesson_id = $2"
		args = append(args, lessonID)
	}

	notes := make([]note.Note, 0)
	if err := repo.db.SelectContext(ctx, &notes, query+" ORDER BY id", args...); err != nil {
		return nil, errors.Wrap(err, "selecting notes")
	}
	for i := range notes {
		notes[i] = utcNote(notes[i])
	}
	return notes, nil
}

func (repo *noteRepository) UpdateNote(ctx context.Context, n note.Note) (note.Note, error) {
	res, err := repo.db.NamedExecContext(ctx,
		"UPDATE note SET text = :text, updated_at = :updated_at WHERE id = :id", n)
	if err != nil {
		return note.Note{}, errors.Wrap(err, "updating note")
	}
	if err = mustAffect(res, note.ErrNotFound); err != nil {
		return note.Note{}, err
	}
	return repo.GetNote(ctx, n.ID)
}

func (repo *noteRepository) DeleteNote(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM note WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting note")
	}
	return mustAffect(res, note.ErrNotFound)
}

func utcNote(n note.Note) note.Note {
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	return n
}
