package dummydb

import (
	"encoding/json"
	"io/fs"
	"time"

	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core/bookmark"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/download"
	"github.com/apper-canvas/learnhubdigital/core/note"
	"github.com/apper-canvas/learnhubdigital/core/progress"
)

// Fixtures is the seed data set of the store.
type Fixtures struct {
	Courses   []course.Course
	Progress  []progress.Record
	Bookmarks []bookmark.Bookmark
	Notes     []note.Note
	Downloads []download.Video
}

// LoadFixtures reads the `fixtures/*.json` files of fsys. Only courses.json is required.
func LoadFixtures(fsys fs.FS) (Fixtures, error) {
	var fx Fixtures
	files := []struct {
		name     string
		dst      interface{}
		required bool
	}{
		{"fixtures/courses.json", &fx.Courses, true},
		{"fixtures/progress.json", &fx.Progress, false},
		{"fixtures/bookmarks.json", &fx.Bookmarks, false},
		{"fixtures/notes.json", &fx.Notes, false},
		{"fixtures/downloads.json", &fx.Downloads, false},
	}
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f.name)
		if err != nil {
			if !f.required && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Fixtures{}, errors.Wrapf(err, "reading %s", f.name)
		}
		if err = json.Unmarshal(data, f.dst); err != nil {
			return Fixtures{}, errors.Wrapf(err, "decoding %s", f.name)
		}
	}
	if err := course.ValidateAll(fx.Courses); err != nil {
		return Fixtures{}, errors.Wrap(err, "validating courses")
	}
	return fx, nil
}

// Seed loads the fixtures into the store. Progress figures are recomputed from the courses.
func (db *DB) Seed(fx Fixtures) {
	now := time.Now().UTC()
	courses := make(map[int]course.Course, len(fx.Courses))

	db.course.Lock()
	for i := range fx.Courses {
		crs := fx.Courses[i]
		courses[crs.ID] = crs
		db.course.table[crs.ID] = &crs
	}
	db.course.Unlock()

	db.progress.Lock()
	for _, rec := range fx.Progress {
		if crs, ok := courses[rec.CourseID]; ok {
			rec = progress.Recompute(rec, crs, now)
		}
		if rec.QuizScores == nil {
			rec.QuizScores = map[string]float64{}
		}
		if rec.CompletedLessons == nil {
			rec.CompletedLessons = []string{}
		}
		r := rec.Clone()
		db.progress.table[r.ID] = &r
		if r.ID > db.progress.pkCount {
			db.progress.pkCount = r.ID
		}
	}
	db.progress.Unlock()

	db.bookmark.Lock()
	for i := range fx.Bookmarks {
		bm := fx.Bookmarks[i]
		db.bookmark.table[bm.ID] = &bm
		if bm.ID > db.bookmark.pkCount {
			db.bookmark.pkCount = bm.ID
		}
	}
	db.bookmark.Unlock()

	db.note.Lock()
	for i := range fx.Notes {
		n := fx.Notes[i]
		db.note.table[n.ID] = &n
		if n.ID > db.note.pkCount {
			db.note.pkCount = n.ID
		}
	}
	db.note.Unlock()

	db.download.Lock()
	for i := range fx.Downloads {
		v := fx.Downloads[i]
		db.download.table[v.ID] = &v
		if v.ID > db.download.pkCount {
			db.download.pkCount = v.ID
		}
	}
	db.download.Unlock()
}
