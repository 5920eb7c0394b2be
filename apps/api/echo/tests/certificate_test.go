package tests

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/learnhubdigital/core/certificate"
	"github.com/apper-canvas/learnhubdigital/testutil"
)

// completeIntro completes every lesson of the intro course for testUser.
func completeIntro(t *testing.T, app testApp) {
	t.Helper()
	crs := testutil.IntroCourse()
	for _, l := range crs.Lessons {
		if _, _, err := app.svcs.Progress.CompleteLesson(context.Background(), testUser, crs, l.ID); err != nil {
			t.Fatalf("CompleteLesson(%s): %v", l.ID, err)
		}
	}
	if _, err := app.svcs.Progress.RecordQuizScore(context.Background(), testUser, crs, "lesson2", 80); err != nil {
		t.Fatalf("RecordQuizScore(): %v", err)
	}
}

func Test_certificateApi(t *testing.T) {
	app := setup(t)
	notEligible := marchallObj(t, httpErr{Error: "certificate not available: course not completed"})

	runHttpTests(t, app, []httpTest{
		{
			name:     "not enrolled",
			method:   http.MethodGet,
			path:     "/v1/courses/1/certificate",
			wantCode: http.StatusForbidden,
			wantData: notEligible,
		},
		{
			name:     "download not enrolled",
			method:   http.MethodGet,
			path:     "/v1/courses/1/certificate/download",
			wantCode: http.StatusForbidden,
			wantData: notEligible,
		},
		{
			name:     "unknown course",
			method:   http.MethodGet,
			path:     "/v1/courses/99/certificate",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "course not found"}),
		},
	})

	completeIntro(t, app)

	var v certificate.View
	rec := do(t, app, http.MethodGet, "/v1/courses/1/certificate", nil, &v)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Regexp(t, `^LH-[0-9A-F]{12}$`, v.CertificateID)
	assert.Equal(t, "Intro", v.Course.Title)
	assert.Equal(t, testutil.StudentName, v.StudentName)
	assert.Equal(t, 80, v.OverallScore)

	var again certificate.View
	do(t, app, http.MethodGet, "/v1/courses/1/certificate", nil, &again)
	assert.Equal(t, v.CertificateID, again.CertificateID)

	req, rec := newRequest(http.MethodGet, "/v1/courses/1/certificate/download")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="certificate-intro.png"`, rec.Header().Get("Content-Disposition"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
}
