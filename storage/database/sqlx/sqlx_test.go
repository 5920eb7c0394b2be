package sqlxrepos_test

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/bookmark"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/download"
	"github.com/apper-canvas/learnhubdigital/core/note"
	"github.com/apper-canvas/learnhubdigital/core/progress"
	"github.com/apper-canvas/learnhubdigital/storage/database"
	dummydb "github.com/apper-canvas/learnhubdigital/storage/database/dummy"
	sqlxrepos "github.com/apper-canvas/learnhubdigital/storage/database/sqlx"
	"github.com/apper-canvas/learnhubdigital/testutil"
)

const userID = "user-1"

// openDB connects to TEST_DATABASE_URL, migrated and emptied.
func openDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := database.OpenURL(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Ping(context.Background(), db.DB))
	require.NoError(t, database.Migrate(db.DB))
	_, err = db.Exec("TRUNCATE progress, quiz_score, bookmark, note, downloaded_video RESTART IDENTITY CASCADE")
	require.NoError(t, err)
	return db
}

func courses(t *testing.T) *course.Service {
	crs := testutil.NewCourse(1, "Three",
		testutil.NewLesson("a", nil),
		testutil.NewLesson("b", testutil.NewQuiz(50, 2)),
		testutil.NewLesson("c", nil),
	)
	return course.NewService(dummydb.NewCourseRepository(testutil.OpenDB(t, crs)))
}

func TestProgressRepository(t *testing.T) {
	db := openDB(t)
	crsSvc := courses(t)
	svc := progress.NewService(sqlxrepos.NewProgressRepository(db), crsSvc)
	ctx := context.Background()
	crs, err := crsSvc.Get(ctx, 1)
	require.NoError(t, err)

	rec, created, err := svc.Enroll(ctx, userID, crs.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{}, rec.CompletedLessons)

	_, created, err = svc.Enroll(ctx, userID, crs.ID)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = sqlxrepos.NewProgressRepository(db).CreateProgress(ctx, rec)
	assert.Equal(t, progress.ErrExists, errors.Cause(err))

	for _, id := range []string{"a", "b", "c"} {
		rec, _, err = svc.CompleteLesson(ctx, userID, crs, id)
		require.NoError(t, err)
	}
	rec, err = svc.RecordQuizScore(ctx, userID, crs, "b", 50)
	require.NoError(t, err)

	got, err := svc.Get(ctx, userID, crs.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"a", "b", "c"}, got.CompletedLessons)
	assert.Equal(t, map[string]float64{"b": 50}, got.QuizScores)
	assert.Equal(t, 100.0, got.OverallProgress)
	assert.Equal(t, rec.CertificateID, got.CertificateID)
	assert.NotEmpty(t, got.CertificateID)
	require.NotNil(t, got.CompletedDate)

	all, err := svc.QueryAll(ctx, userID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, map[string]float64{"b": 50}, all[0].QuizScores)

	// a stale write never replaces the issued certificate
	stale := rec.Clone()
	stale.CertificateID = "LH-FFFFFFFFFFFF"
	kept, err := sqlxrepos.NewProgressRepository(db).UpdateProgress(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, rec.CertificateID, kept.CertificateID)

	require.NoError(t, svc.Delete(ctx, userID, rec.ID))
	assert.True(t, core.IsNotFound(svc.Delete(ctx, userID, rec.ID)))
}

func TestBookmarkRepository(t *testing.T) {
	svc := bookmark.NewService(sqlxrepos.NewBookmarkRepository(openDB(t)), courses(t))
	ctx := context.Background()

	bm, err := svc.Create(ctx, userID, 1)
	require.NoError(t, err)
	again, err := svc.Create(ctx, userID, 1)
	require.NoError(t, err)
	assert.Equal(t, bm.ID, again.ID)

	on, err := svc.Toggle(ctx, userID, 1)
	require.NoError(t, err)
	assert.False(t, on)
	all, err := svc.QueryAll(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, bookmark.ErrNotFound, errors.Cause(svc.Delete(ctx, userID, 1)))
}

func TestNoteRepository(t *testing.T) {
	svc := note.NewService(sqlxrepos.NewNoteRepository(openDB(t)), courses(t))
	ctx := context.Background()

	late, err := svc.Create(ctx, userID, note.NewNote{CourseID: 1, LessonID: "a", Text: "late", Timestamp: 90})
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, note.NewNote{CourseID: 1, LessonID: "a", Text: "early", Timestamp: 3.5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, note.NewNote{CourseID: 1, LessonID: "b", Text: "other", Timestamp: 1})
	require.NoError(t, err)

	notes, err := svc.QueryByLesson(ctx, userID, "a")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "early", notes[0].Text)

	updated, err := svc.Update(ctx, userID, late.ID, note.UpdateNote{Text: "later"})
	require.NoError(t, err)
	assert.Equal(t, "later", updated.Text)

	require.NoError(t, svc.Delete(ctx, userID, late.ID))
	_, err = svc.Get(ctx, userID, late.ID)
	assert.Equal(t, note.ErrNotFound, errors.Cause(err))
}

func TestDownloadRepository(t *testing.T) {
	svc := download.NewService(sqlxrepos.NewDownloadRepository(openDB(t)), courses(t), 0)
	ctx := context.Background()

	v, err := svc.Download(ctx, userID, download.NewDownload{CourseID: 1, LessonID: "a"}, nil)
	require.NoError(t, err)
	assert.NotZero(t, v.ID)

	_, err = svc.Download(ctx, userID, download.NewDownload{CourseID: 1, LessonID: "a"}, nil)
	assert.True(t, core.IsValidation(err))

	got, err := svc.Get(ctx, userID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.VideoURL, got.VideoURL)

	require.NoError(t, svc.Delete(ctx, userID, v.ID))
	all, err := svc.QueryAll(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, all)
}
