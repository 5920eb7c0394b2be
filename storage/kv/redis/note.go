package redisrepos

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/apper-canvas/learnhubdigital/core/note"
)

// noteRepository stores every note in one JSON array under a single key.
type noteRepository struct {
	rdb *goredis.Client
	key string
}

var _ note.Repository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(rdb *goredis.Client, key string) note.Repository {
	return &noteRepository{rdb: rdb, key: key}
}

type noteGetter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func (repo *noteRepository) load(ctx context.Context, c noteGetter) ([]note.Note, error) {
	data, err := c.Get(ctx, repo.key).Bytes()
	if err == goredis.Nil {
		return []note.Note{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading notes")
	}
	var notes []note.Note
	if err = json.Unmarshal(data, &notes); err != nil {
		return nil, errors.Wrap(err, "decoding notes")
	}
	return notes, nil
}

// modify loads the notes, applies fn and writes them back atomically.
func (repo *noteRepository) modify(ctx context.Context, fn func(notes []note.Note) ([]note.Note, error)) error {
	return update(ctx, repo.rdb, repo.key, func(tx *goredis.Tx) error {
		notes, err := repo.load(ctx, tx)
		if err != nil {
			return err
		}
		if notes, err = fn(notes); err != nil {
			return err
		}
		data, err := json.Marshal(notes)
		if err != nil {
			return errors.Wrap(err, "encoding notes")
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, repo.key, data, 0)
			return nil
		})
		return err
	})
}

func (repo *noteRepository) CreateNote(ctx context.Context, n note.Note) (note.Note, error) {
	err := repo.modify(ctx, func(notes []note.Note) ([]note.Note, error) {
		n.ID = 1
		for _, existing := range notes {
			if existing.ID >= n.ID {
				n.ID = existing.ID + 1
			}
		}
		return append(notes, n), nil
	})
	if err != nil {
		return note.Note{}, err
	}
	return n, nil
}

func (repo *noteRepository) GetNote(ctx context.Context, id int) (note.Note, error) {
	notes, err := repo.load(ctx, repo.rdb)
	if err != nil {
		return note.Note{}, err
	}
	for _, n := range notes {
		if n.ID == id {
			return n, nil
		}
	}
	return note.Note{}, note.ErrNotFound
}

func (repo *noteRepository) QueryNotes(ctx context.Context, userID, lessonID string) ([]note.Note, error) {
	notes, err := repo.load(ctx, repo.rdb)
	if err != nil {
		return nil, err
	}
	filtered := make([]note.Note, 0)
	for _, n := range notes {
		if n.UserID == userID && (lessonID == "" || n.LessonID == lessonID) {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

func (repo *noteRepository) UpdateNote(ctx context.Context, n note.Note) (note.Note, error) {
	err := repo.modify(ctx, func(notes []note.Note) ([]note.Note, error) {
		for i := range notes {
			if notes[i].ID == n.ID {
				notes[i] = n
				return notes, nil
			}
		}
		return nil, note.ErrNotFound
	})
	if err != nil {
		return note.Note{}, err
	}
	return n, nil
}

func (repo *noteRepository) DeleteNote(ctx context.Context, id int) error {
	return repo.modify(ctx, func(notes []note.Note) ([]note.Note, error) {
		for i := range notes {
			if notes[i].ID == id {
				return append(notes[:i], notes[i+1:]...), nil
			}
		}
		return nil, note.ErrNotFound
	})
}
