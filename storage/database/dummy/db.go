package dummydb

import (
	"sync"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/bookmark"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/download"
	"github.com/apper-canvas/learnhubdigital/core/note"
	"github.com/apper-canvas/learnhubdigital/core/progress"
)

type (
	// DB is an in-memory store, reset on restart. Every call waits for the configured latency first.
	DB struct {
		latency  core.Latency
		course   *courseTable
		progress *progressTable
		bookmark *bookmarkTable
		note     *noteTable
		download *downloadTable
	}

	courseTable struct {
		sync.RWMutex
		table map[int]*course.Course
	}

	progressTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*progress.Record
	}

	bookmarkTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*bookmark.Bookmark
	}

	noteTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*note.Note
	}

	downloadTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*download.Video
	}
)

type Option func(db *DB)

// WithLatency simulates network latency on every call.
func WithLatency(l core.Latency) Option {
	return func(db *DB) { db.latency = l }
}

func Open(opts ...Option) *DB {
	db := &DB{
		course:   &courseTable{table: make(map[int]*course.Course)},
		progress: &progressTable{table: make(map[int]*progress.Record)},
		bookmark: &bookmarkTable{table: make(map[int]*bookmark.Bookmark)},
		note:     &noteTable{table: make(map[int]*note.Note)},
		download: &downloadTable{table: make(map[int]*download.Video)},
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Reset empties every table.
func (db *DB) Reset() {
	db.course.Lock()
	db.course.table = make(map[int]*course.Course)
	db.course.Unlock()

	db.progress.Lock()
	db.progress.table, db.progress.pkCount = make(map[int]*progress.Record), 0
	db.progress.Unlock()

	db.bookmark.Lock()
	db.bookmark.table, db.bookmark.pkCount = make(map[int]*bookmark.Bookmark), 0
	db.bookmark.Unlock()

	db.note.Lock()
	db.note.table, db.note.pkCount = make(map[int]*note.Note), 0
	db.note.Unlock()

	db.download.Lock()
	db.download.table, db.download.pkCount = make(map[int]*download.Video), 0
	db.download.Unlock()
}
