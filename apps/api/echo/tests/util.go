package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	echoapi "github.com/apper-canvas/learnhubdigital/apps/api/echo"
	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/learning"
	logsvc "github.com/apper-canvas/learnhubdigital/services/logger"
	"github.com/apper-canvas/learnhubdigital/testutil"
)

const testUser = "learner-1"

type testApp struct {
	echoapi.Server
	svcs testutil.Services
}

// catalog: the intro course, and a single-lesson course with a two-question quiz passing at 100%.
func catalog() []course.Course {
	strict := testutil.NewCourse(2, "UI/UX Design Fundamentals", testutil.NewLesson("ux-1", testutil.NewQuiz(100, 2)))
	strict.Category = "Design"
	return []course.Course{testutil.IntroCourse(), strict}
}

func setup(t *testing.T) testApp {
	db := testutil.OpenDB(t, catalog()...)
	svcs := testutil.NewServices(db)

	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           &core.Config{TestMode: true},
		Logger:         logsvc.New(zap.NewNop().Sugar()),
		CourseSvc:      svcs.Course,
		ProgressSvc:    svcs.Progress,
		BookmarkSvc:    svcs.Bookmark,
		NoteSvc:        svcs.Note,
		DownloadSvc:    svcs.Download,
		CertificateSvc: svcs.Certificate,
		Sessions:       learning.NewRegistry(svcs.Progress),
	})
	return testApp{Server: app, svcs: svcs}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	userID   string
	wantCode int
	wantData []byte
}

func newUserRequest(method, path, userID string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newUserRequest(method, path, testUser, data...)
}

// do serves a request as testUser and decodes the JSON response into `dst` (if given).
func do(t *testing.T, app http.Handler, method, path string, body interface{}, dst interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var data []byte
	if body != nil {
		data = marchallObj(t, body)
	}
	req, rec := newRequest(method, path, data)
	app.ServeHTTP(rec, req)
	if dst != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
			t.Fatalf("do(%s %s) invalid json %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "code")
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHttpTests(t *testing.T, app http.Handler, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := tt.userID
			if userID == "" {
				userID = testUser
			}
			req, rec := newUserRequest(tt.method, tt.path, userID, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
