package download_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/download"
	dummydb "github.com/apper-canvas/learnhubdigital/storage/database/dummy"
	"github.com/apper-canvas/learnhubdigital/testutil"
)

const userID = "user-1"

func newDB(t *testing.T) *dummydb.DB {
	return testutil.OpenDB(t, testutil.NewCourse(1, "One",
		testutil.NewLesson("a", nil),
		testutil.NewLesson("b", nil),
	))
}

func TestService_Download(t *testing.T) {
	svc := testutil.NewServices(newDB(t)).Download
	ctx := context.Background()

	var steps []int
	v, err := svc.Download(ctx, userID, download.NewDownload{CourseID: 1, LessonID: "b"}, func(p int) {
		steps = append(steps, p)
	})
	require.NoError(t, err)

	want := make([]int, 0, 21)
	for p := 0; p <= 100; p += 5 {
		want = append(want, p)
	}
	assert.Equal(t, want, steps)

	assert.NotZero(t, v.ID)
	assert.Equal(t, "https://videos.test/b.mp4", v.VideoURL)
	assert.Equal(t, "Lesson b", v.LessonTitle)
	assert.Equal(t, "One", v.CourseTitle)
	assert.Equal(t, 600, v.Duration)
	assert.Equal(t, "125 MB", v.FileSize)
	assert.False(t, v.DownloadedAt.IsZero())

	got, err := svc.Get(ctx, userID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestService_Download_errors(t *testing.T) {
	svc := testutil.NewServices(newDB(t)).Download
	ctx := context.Background()

	_, err := svc.Download(ctx, userID, download.NewDownload{CourseID: 1, LessonID: "a"}, nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		userID  string
		nd      download.NewDownload
		wantErr func(t *testing.T, err error)
	}{
		{
			name:   "already downloaded",
			userID: userID,
			nd:     download.NewDownload{CourseID: 1, LessonID: "a"},
			wantErr: func(t *testing.T, err error) {
				require.True(t, core.IsValidation(err))
				assert.Equal(t, download.ErrAlreadyDownloaded, errors.Cause(err).(*core.ValidationError).Err)
			},
		},
		{
			name:   "unknown lesson",
			userID: userID,
			nd:     download.NewDownload{CourseID: 1, LessonID: "zzz"},
			wantErr: func(t *testing.T, err error) {
				assert.Equal(t, course.ErrLessonNotFound, errors.Cause(err))
			},
		},
		{
			name:   "unknown course",
			userID: userID,
			nd:     download.NewDownload{CourseID: 42, LessonID: "a"},
			wantErr: func(t *testing.T, err error) {
				assert.Equal(t, course.ErrNotFound, errors.Cause(err))
			},
		},
		{
			name: "no user",
			nd:   download.NewDownload{CourseID: 1, LessonID: "b"},
			wantErr: func(t *testing.T, err error) {
				assert.True(t, core.IsValidation(err))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Download(ctx, tt.userID, tt.nd, nil)
			tt.wantErr(t, err)
		})
	}

	// another user can download the same video
	_, err = svc.Download(ctx, "user-2", download.NewDownload{CourseID: 1, LessonID: "a"}, nil)
	assert.NoError(t, err)
}

func TestService_Download_cancelled(t *testing.T) {
	db := newDB(t)
	svc := download.NewService(dummydb.NewDownloadRepository(db), testutil.NewServices(db).Course, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	var last int
	_, err := svc.Download(ctx, userID, download.NewDownload{CourseID: 1, LessonID: "a"}, func(p int) {
		last = p
		if p == 25 {
			cancel()
		}
	})
	assert.Equal(t, context.Canceled, errors.Cause(err))
	assert.Equal(t, 25, last)

	all, err := svc.QueryAll(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, all, "a cancelled download is not saved")
}

func TestService_Delete(t *testing.T) {
	svc := testutil.NewServices(newDB(t)).Download
	ctx := context.Background()

	v, err := svc.Download(ctx, userID, download.NewDownload{CourseID: 1, LessonID: "a"}, nil)
	require.NoError(t, err)

	assert.Equal(t, download.ErrNotFound, errors.Cause(svc.Delete(ctx, "user-2", v.ID)))
	require.NoError(t, svc.Delete(ctx, userID, v.ID))

	all, err := svc.QueryAll(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, all)

	// deleted videos can be downloaded again
	_, err = svc.Download(ctx, userID, download.NewDownload{CourseID: 1, LessonID: "a"}, nil)
	assert.NoError(t, err)
}
