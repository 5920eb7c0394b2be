package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/bookmark"
	"github.com/apper-canvas/learnhubdigital/core/certificate"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/download"
	"github.com/apper-canvas/learnhubdigital/core/learning"
	"github.com/apper-canvas/learnhubdigital/core/note"
	"github.com/apper-canvas/learnhubdigital/core/progress"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		CourseSvc      *course.Service
		ProgressSvc    *progress.Service
		BookmarkSvc    *bookmark.Service
		NoteSvc        *note.Service
		DownloadSvc    *download.Service
		CertificateSvc *certificate.Service
		Sessions       *learning.Registry
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(ctx context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = conf.TestMode
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{ExposeHeaders: []string{userIDHeader}}))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug && !conf.TestMode

	s.app.GET("/", home)

	v1 := s.app.Group("/v1", userMiddleware())

	registerCourseAPI(v1, s.deps.CourseSvc, s.deps.ProgressSvc)
	registerLearningAPI(v1, s.deps.CourseSvc, s.deps.Sessions)
	registerCertificateAPI(v1, s.deps.CertificateSvc)
	registerProgressAPI(v1, s.deps.ProgressSvc)
	registerBookmarkAPI(v1, s.deps.BookmarkSvc)
	registerNoteAPI(v1, s.deps.NoteSvc)
	registerDownloadAPI(v1, s.deps.DownloadSvc, s.deps.Logger)
}

func (s *server) Start() {
	s.deps.Logger.Info("API listening", "address", s.deps.Conf.Server.Address)
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to LearnHub API!")
}
