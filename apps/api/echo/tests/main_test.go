package tests

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to LearnHub API!", rec.Body.String())
}

func Test_notFound(t *testing.T) {
	app := setup(t)

	runHttpTests(t, app, []httpTest{
		{
			name:     "unknown route",
			method:   http.MethodGet,
			path:     "/nowhere",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "Not Found"}),
		},
	})
}

func Test_userMiddleware(t *testing.T) {
	app := setup(t)

	t.Run("echoes the user id", func(t *testing.T) {
		req, rec := newUserRequest(http.MethodGet, "/v1/bookmarks", " learner-1 ")
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "learner-1", rec.Header().Get("X-User-Id"))
	})

	t.Run("issues an id to anonymous callers", func(t *testing.T) {
		req, rec := newUserRequest(http.MethodGet, "/v1/bookmarks", "")
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		_, err := uuid.Parse(rec.Header().Get("X-User-Id"))
		assert.NoError(t, err)
	})

	runHttpTests(t, app, []httpTest{
		{
			name:     "user id too long",
			method:   http.MethodGet,
			path:     "/v1/bookmarks",
			userID:   strings.Repeat("x", 65),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"X-User-Id": "user id is too long"}),
		},
	})
}
