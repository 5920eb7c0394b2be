package progress_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/progress"
	"github.com/apper-canvas/learnhubdigital/testutil"
)

const userID = "user-1"

var (
	now        = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	certFormat = regexp.MustCompile(`^LH-[0-9A-F]{12}$`)
)

func threeLessons() course.Course {
	return testutil.NewCourse(1, "Three",
		testutil.NewLesson("a", nil),
		testutil.NewLesson("b", testutil.NewQuiz(70, 2)),
		testutil.NewLesson("c", nil),
	)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		completed, total int
		want             float64
	}{
		{0, 3, 0},
		{1, 2, 50},
		{2, 3, 200.0 / 3},
		{3, 3, 100},
		{4, 3, 100},
		{0, 0, 0},
		{1, 0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, progress.Percent(tt.completed, tt.total), 1e-9, "Percent(%d, %d)", tt.completed, tt.total)
	}

	// whole percentages are exact
	assert.Equal(t, 58.0, progress.Percent(29, 50))
	assert.Equal(t, 28.0, progress.Percent(7, 25))
}

func TestCompleteLesson(t *testing.T) {
	crs := threeLessons()
	rec := progress.Record{UserID: userID, CourseID: crs.ID, CompletedLessons: []string{}}

	next, changed, err := progress.CompleteLesson(rec, crs, "b", now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"b"}, next.CompletedLessons)
	assert.InDelta(t, 100.0/3, next.OverallProgress, 1e-9)
	assert.Equal(t, now, next.LastAccessed)
	assert.Nil(t, next.CompletedDate)
	assert.Empty(t, rec.CompletedLessons, "the given record is never modified")

	again, changed, err := progress.CompleteLesson(next, crs, "b", now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, next, again)

	_, _, err = progress.CompleteLesson(next, crs, "zzz", now)
	assert.Equal(t, course.ErrLessonNotFound, err)
}

func TestCompleteLesson_anyOrder(t *testing.T) {
	crs := threeLessons()
	orders := [][]string{
		{"a", "b", "c"},
		{"c", "b", "a"},
		{"b", "a", "b", "c", "a"},
	}
	for _, order := range orders {
		rec := progress.Record{}
		for i, id := range order {
			var err error
			rec, _, err = progress.CompleteLesson(rec, crs, id, now.Add(time.Duration(i)*time.Minute))
			require.NoError(t, err)
		}
		assert.Equal(t, 100.0, rec.OverallProgress, "order %v", order)
		assert.Len(t, rec.CompletedLessons, 3)
		assert.True(t, rec.Eligible())
		require.NotNil(t, rec.CompletedDate)
	}
}

func TestRecompute_keepsCompletedDate(t *testing.T) {
	crs := threeLessons()
	first := now.Add(-24 * time.Hour)
	rec := progress.Record{CompletedLessons: []string{"a", "b", "c"}, CompletedDate: &first}

	got := progress.Recompute(rec, crs, now)
	assert.Equal(t, 100.0, got.OverallProgress)
	assert.Equal(t, first, *got.CompletedDate)

	// lessons the course no longer has are not counted
	rec = progress.Record{CompletedLessons: []string{"a", "gone"}}
	got = progress.Recompute(rec, crs, now)
	assert.InDelta(t, 100.0/3, got.OverallProgress, 1e-9)
}

func TestRecordQuizScore(t *testing.T) {
	crs := threeLessons()
	rec, err := progress.RecordQuizScore(progress.Record{}, crs, "b", 50, now)
	require.NoError(t, err)
	rec, err = progress.RecordQuizScore(rec, crs, "b", 100, now)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"b": 100}, rec.QuizScores, "the latest score wins")

	_, err = progress.RecordQuizScore(rec, crs, "zzz", 100, now)
	assert.Equal(t, course.ErrLessonNotFound, err)
}

func TestRecord_AverageQuizScore(t *testing.T) {
	assert.Equal(t, 0.0, progress.Record{}.AverageQuizScore())
	rec := progress.Record{QuizScores: map[string]float64{"a": 100, "b": 50, "c": 60}}
	assert.Equal(t, 70.0, rec.AverageQuizScore())
}

func TestRecord_Clone(t *testing.T) {
	d := now
	rec := progress.Record{
		CompletedLessons: []string{"a"},
		QuizScores:       map[string]float64{"a": 80},
		CompletedDate:    &d,
	}
	c := rec.Clone()
	c.CompletedLessons[0] = "x"
	c.QuizScores["a"] = 0
	*c.CompletedDate = now.Add(time.Hour)

	assert.Equal(t, []string{"a"}, rec.CompletedLessons)
	assert.Equal(t, 80.0, rec.QuizScores["a"])
	assert.Equal(t, now, *rec.CompletedDate)
}

func TestService_Enroll(t *testing.T) {
	crs := threeLessons()
	svc := testutil.NewServices(testutil.OpenDB(t, crs)).Progress
	ctx := context.Background()

	got, err := svc.Get(ctx, userID, crs.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "not enrolled")

	rec, created, err := svc.Enroll(ctx, userID, crs.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, []string{}, rec.CompletedLessons)
	assert.Equal(t, map[string]float64{}, rec.QuizScores)
	assert.Equal(t, 0.0, rec.OverallProgress)

	again, created, err := svc.Enroll(ctx, userID, crs.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, rec.ID, again.ID)

	records, err := svc.QueryAll(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, _, err = svc.Enroll(ctx, userID, 42)
	assert.Equal(t, course.ErrNotFound, errors.Cause(err))

	_, _, err = svc.Enroll(ctx, " ", crs.ID)
	assert.True(t, core.IsValidation(err))
}

func TestService_CompleteLesson(t *testing.T) {
	crs := threeLessons()
	svc := testutil.NewServices(testutil.OpenDB(t, crs)).Progress
	ctx := context.Background()

	// enrolls implicitly
	rec, changed, err := svc.CompleteLesson(ctx, userID, crs, "a")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"a"}, rec.CompletedLessons)

	// rewatching a completed lesson only refreshes the last access
	later := rec.LastAccessed.Add(time.Hour)
	restore := progress.SetNow(later)
	again, changed, err := svc.CompleteLesson(ctx, userID, crs, "a")
	restore()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []string{"a"}, again.CompletedLessons)
	assert.True(t, later.Equal(again.LastAccessed))
	stored, err := svc.GetByID(ctx, userID, rec.ID)
	require.NoError(t, err)
	assert.True(t, later.Equal(stored.LastAccessed), "the refreshed access is persisted")

	for _, id := range []string{"c", "b"} {
		rec, _, err = svc.CompleteLesson(ctx, userID, crs, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 100.0, rec.OverallProgress)
	assert.Regexp(t, certFormat, rec.CertificateID)
	require.NotNil(t, rec.CompletedDate)
	certID, completed := rec.CertificateID, *rec.CompletedDate

	// the certificate id and completion date never change afterwards
	rec, err = svc.RecordQuizScore(ctx, userID, crs, "b", 50)
	require.NoError(t, err)
	assert.Equal(t, certID, rec.CertificateID)
	assert.Equal(t, completed, *rec.CompletedDate)
	assert.Equal(t, 50.0, rec.QuizScores["b"])
	assert.Equal(t, 100.0, rec.OverallProgress, "a failing score never revokes completion")

	rec, err = svc.EnsureCertificate(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, certID, rec.CertificateID)
}

func TestService_Update(t *testing.T) {
	crs := threeLessons()
	svc := testutil.NewServices(testutil.OpenDB(t, crs)).Progress
	ctx := context.Background()

	rec, _, err := svc.Enroll(ctx, userID, crs.ID)
	require.NoError(t, err)

	accessed := now.Add(-time.Hour)
	tests := []struct {
		name    string
		userID  string
		patch   progress.Patch
		want    func(t *testing.T, got progress.Record)
		wantErr func(err error) bool
	}{
		{
			name:  "completed lessons deduplicated",
			patch: progress.Patch{CompletedLessons: []string{"a", "b", "a"}},
			want: func(t *testing.T, got progress.Record) {
				assert.Equal(t, []string{"a", "b"}, got.CompletedLessons)
				assert.InDelta(t, 200.0/3, got.OverallProgress, 1e-9)
			},
		},
		{
			name:  "quiz scores and last accessed",
			patch: progress.Patch{QuizScores: map[string]float64{"b": 90}, LastAccessed: &accessed},
			want: func(t *testing.T, got progress.Record) {
				assert.Equal(t, 90.0, got.QuizScores["b"])
				assert.Equal(t, accessed, got.LastAccessed)
				assert.Equal(t, []string{"a", "b"}, got.CompletedLessons, "nil fields are left as they are")
			},
		},
		{
			name:    "unknown lesson",
			patch:   progress.Patch{CompletedLessons: []string{"zzz"}},
			wantErr: core.IsValidation,
		},
		{
			name:    "score out of range",
			patch:   progress.Patch{QuizScores: map[string]float64{"b": 101}},
			wantErr: core.IsValidation,
		},
		{
			name:    "someone else's record",
			userID:  "user-2",
			patch:   progress.Patch{CompletedLessons: []string{"a"}},
			wantErr: core.IsNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uid := userID
			if tt.userID != "" {
				uid = tt.userID
			}
			got, err := svc.Update(ctx, uid, rec.ID, tt.patch)
			if tt.wantErr != nil {
				assert.True(t, tt.wantErr(err), "Update() error = %v", err)
				return
			}
			require.NoError(t, err)
			tt.want(t, got)
		})
	}
}

func TestService_Delete(t *testing.T) {
	crs := threeLessons()
	svc := testutil.NewServices(testutil.OpenDB(t, crs)).Progress
	ctx := context.Background()

	rec, _, err := svc.Enroll(ctx, userID, crs.ID)
	require.NoError(t, err)

	assert.True(t, core.IsNotFound(svc.Delete(ctx, "user-2", rec.ID)))
	require.NoError(t, svc.Delete(ctx, userID, rec.ID))
	assert.Equal(t, progress.ErrNotFound, errors.Cause(svc.Delete(ctx, userID, rec.ID)))

	got, err := svc.Get(ctx, userID, crs.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_Summary(t *testing.T) {
	one := threeLessons()
	two := testutil.NewCourse(2, "Two", testutil.NewLesson("x", nil))
	three := testutil.NewCourse(3, "Untouched", testutil.NewLesson("y", nil))
	svc := testutil.NewServices(testutil.OpenDB(t, one, two, three)).Progress
	ctx := context.Background()

	sum, err := svc.Summary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, progress.Summary{}, sum)

	_, _, err = svc.CompleteLesson(ctx, userID, one, "a")
	require.NoError(t, err)
	_, err = svc.RecordQuizScore(ctx, userID, one, "b", 50)
	require.NoError(t, err)
	_, _, err = svc.CompleteLesson(ctx, userID, two, "x")
	require.NoError(t, err)
	_, _, err = svc.Enroll(ctx, userID, three.ID)
	require.NoError(t, err)

	sum, err = svc.Summary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, progress.Summary{
		EnrolledCourses:   3,
		CompletedCourses:  1,
		InProgressCourses: 1,
		CompletedLessons:  2,
		TotalLessons:      5,
		OverallProgress:   40,
		AverageQuizScore:  50.0 / 3,
	}, sum)
}
