package dummydb_test

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/progress"
	appfs "github.com/apper-canvas/learnhubdigital/fs"
	dummydb "github.com/apper-canvas/learnhubdigital/storage/database/dummy"
	"github.com/apper-canvas/learnhubdigital/testutil"
)

func TestLoadFixtures(t *testing.T) {
	fx, err := dummydb.LoadFixtures(appfs.FS)
	require.NoError(t, err)
	assert.Len(t, fx.Courses, 4)
	assert.NotEmpty(t, fx.Progress)
	assert.NotEmpty(t, fx.Bookmarks)
	assert.NotEmpty(t, fx.Notes)
	assert.NotEmpty(t, fx.Downloads)

	db := dummydb.Open()
	db.Seed(fx)
	svcs := testutil.NewServices(db)
	ctx := context.Background()

	courses, err := svcs.Course.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 4)

	// the fixture records are recomputed against the catalog
	records, err := svcs.Progress.QueryAll(ctx, "demo")
	require.NoError(t, err)
	require.Len(t, records, len(fx.Progress))
	for _, rec := range records {
		crs, err := svcs.Course.Get(ctx, rec.CourseID)
		require.NoError(t, err)
		want := progress.Percent(len(rec.CompletedLessons), len(crs.Lessons))
		assert.Equal(t, want, rec.OverallProgress, "course %d", rec.CourseID)
	}

	// new rows never reuse a fixture id
	bm, err := svcs.Bookmark.Create(ctx, "demo", 1)
	require.NoError(t, err)
	for _, fbm := range fx.Bookmarks {
		assert.NotEqual(t, fbm.ID, bm.ID)
	}
}

func TestLoadFixtures_errors(t *testing.T) {
	valid := `[{"id": 1, "title": "Go", "category": "Programming", "difficulty": "beginner",
		"lessons": [{"id": "go-1", "title": "Hello"}]}]`

	tests := []struct {
		name    string
		fsys    fstest.MapFS
		wantErr bool
	}{
		{name: "courses only", fsys: fstest.MapFS{"fixtures/courses.json": {Data: []byte(valid)}}},
		{name: "no courses", fsys: fstest.MapFS{}, wantErr: true},
		{name: "bad json", fsys: fstest.MapFS{"fixtures/courses.json": {Data: []byte(`[{`)}}, wantErr: true},
		{
			name:    "invalid course",
			fsys:    fstest.MapFS{"fixtures/courses.json": {Data: []byte(`[{"id": 1, "title": "No lessons"}]`)}},
			wantErr: true,
		},
		{
			name: "bad optional file",
			fsys: fstest.MapFS{
				"fixtures/courses.json": {Data: []byte(valid)},
				"fixtures/notes.json":   {Data: []byte(`{}`)},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx, err := dummydb.LoadFixtures(tt.fsys)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, fx.Courses, 1)
			assert.Empty(t, fx.Progress)
		})
	}
}

func TestLatency(t *testing.T) {
	db := dummydb.Open(dummydb.WithLatency(core.Latency{Min: time.Minute}))
	db.Seed(dummydb.Fixtures{Courses: []course.Course{testutil.IntroCourse()}})
	repo := dummydb.NewCourseRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := repo.GetCourse(ctx, 1)
	assert.Equal(t, context.DeadlineExceeded, err)
}

func TestDB_Reset(t *testing.T) {
	db := testutil.OpenDB(t, testutil.IntroCourse())
	svcs := testutil.NewServices(db)
	ctx := context.Background()

	_, _, err := svcs.Progress.Enroll(ctx, "u", 1)
	require.NoError(t, err)
	db.Reset()

	_, err = svcs.Course.Get(ctx, 1)
	assert.Equal(t, course.ErrNotFound, err)
	records, err := svcs.Progress.QueryAll(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestProgressRepository_UpdateProgress_keepsCertificate(t *testing.T) {
	repo := dummydb.NewProgressRepository(testutil.OpenDB(t, testutil.IntroCourse()))
	ctx := context.Background()

	stale, err := repo.CreateProgress(ctx, progress.Record{UserID: "u", CourseID: 1, OverallProgress: 100})
	require.NoError(t, err)

	first := stale.Clone()
	issued := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	first.CertificateID, first.CompletedDate = "LH-000000000001", &issued
	_, err = repo.UpdateProgress(ctx, first)
	require.NoError(t, err)

	// a writer still holding the record read before the first issue
	later := issued.Add(time.Hour)
	stale.CertificateID, stale.CompletedDate = "LH-000000000002", &later
	got, err := repo.UpdateProgress(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, "LH-000000000001", got.CertificateID)
	require.NotNil(t, got.CompletedDate)
	assert.Equal(t, issued, *got.CompletedDate)

	stored, err := repo.GetProgress(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, "LH-000000000001", stored.CertificateID)
}
