package di

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/apper-canvas/learnhubdigital/apps/api/echo"
	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/bookmark"
	"github.com/apper-canvas/learnhubdigital/core/certificate"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/download"
	"github.com/apper-canvas/learnhubdigital/core/learning"
	"github.com/apper-canvas/learnhubdigital/core/note"
	"github.com/apper-canvas/learnhubdigital/core/progress"
	appfs "github.com/apper-canvas/learnhubdigital/fs"
	logsvc "github.com/apper-canvas/learnhubdigital/services/logger"
	"github.com/apper-canvas/learnhubdigital/storage/database"
	dummydb "github.com/apper-canvas/learnhubdigital/storage/database/dummy"
	sqlxrepos "github.com/apper-canvas/learnhubdigital/storage/database/sqlx"
	redisrepos "github.com/apper-canvas/learnhubdigital/storage/kv/redis"
)

type (
	// Repositories is what the configured storage backends provide.
	Repositories struct {
		dig.Out
		Course   course.Repository
		Progress progress.Repository
		Bookmark bookmark.Repository
		Note     note.Repository
		Download download.Repository
		Closer   *Closer
	}

	ServiceParams struct {
		dig.In
		Conf     *core.Config
		Logger   core.Logger
		Course   course.Repository
		Progress progress.Repository
		Bookmark bookmark.Repository
		Note     note.Repository
		Download download.Repository
	}

	// Closer closes the opened storage backends.
	Closer struct {
		closers []func() error
	}
)

func (c *Closer) add(fn func() error) {
	c.closers = append(c.closers, fn)
}

// Close closes every backend and returns the first error.
func (c *Closer) Close() error {
	var first error
	for _, fn := range c.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func newLogger(conf *core.Config) (*logsvc.RollbarLogger, error) {
	logger, err := logsvc.NewRollbarLogger(conf)
	if err != nil {
		return nil, err
	}
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger, nil
}

func asLogger(l *logsvc.RollbarLogger) core.Logger {
	return l
}

// newRepositories opens the configured backends. The course catalog always is the in-memory one,
// seeded from the embedded fixtures.
func newRepositories(conf *core.Config) (Repositories, error) {
	ctx := context.Background()

	fx, err := dummydb.LoadFixtures(appfs.FS)
	if err != nil {
		return Repositories{}, errors.Wrap(err, "loading fixtures")
	}
	mem := dummydb.Open(dummydb.WithLatency(core.Latency{Min: conf.Server.LatencyMin, Max: conf.Server.LatencyMax}))

	repos := Repositories{
		Course: dummydb.NewCourseRepository(mem),
		Closer: &Closer{},
	}

	switch conf.Storage.Backend {
	case "memory":
		mem.Seed(fx)
		repos.Progress = dummydb.NewProgressRepository(mem)
		repos.Bookmark = dummydb.NewBookmarkRepository(mem)
		repos.Note = dummydb.NewNoteRepository(mem)
		repos.Download = dummydb.NewDownloadRepository(mem)

	case "postgres":
		mem.Seed(dummydb.Fixtures{Courses: fx.Courses})
		if err = database.CreateIfNotExist(ctx, conf); err != nil {
			return Repositories{}, errors.Wrap(err, "creating database")
		}
		db, err := database.Open(conf)
		if err != nil {
			return Repositories{}, err
		}
		if err = database.Ping(ctx, db.DB); err != nil {
			_ = db.Close()
			return Repositories{}, err
		}
		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return Repositories{}, err
		}
		repos.Closer.add(db.Close)
		repos.Progress = sqlxrepos.NewProgressRepository(db)
		repos.Bookmark = sqlxrepos.NewBookmarkRepository(db)
		repos.Note = sqlxrepos.NewNoteRepository(db)
		repos.Download = sqlxrepos.NewDownloadRepository(db)

	default:
		return Repositories{}, errors.Errorf("unknown storage backend %q", conf.Storage.Backend)
	}

	switch conf.Storage.NotesBackend {
	case "", "store":
	case "redis":
		rdb, err := redisrepos.Open(ctx, conf.Storage.RedisAddress, conf.Storage.RedisDB)
		if err != nil {
			_ = repos.Closer.Close()
			return Repositories{}, err
		}
		repos.Closer.add(rdb.Close)
		repos.Note = redisrepos.NewNoteRepository(rdb, conf.Storage.NotesKey)
	default:
		_ = repos.Closer.Close()
		return Repositories{}, errors.Errorf("unknown notes backend %q", conf.Storage.NotesBackend)
	}
	return repos, nil
}

func newServerDeps(p ServiceParams) echoapi.ServerDeps {
	crsSvc := course.NewService(p.Course)
	progSvc := progress.NewService(p.Progress, crsSvc)

	return echoapi.ServerDeps{
		Conf:           p.Conf,
		Logger:         p.Logger,
		CourseSvc:      crsSvc,
		ProgressSvc:    progSvc,
		BookmarkSvc:    bookmark.NewService(p.Bookmark, crsSvc),
		NoteSvc:        note.NewService(p.Note, crsSvc),
		DownloadSvc:    download.NewService(p.Download, crsSvc, p.Conf.Server.DownloadStepDelay),
		CertificateSvc: certificate.NewService(crsSvc, progSvc, p.Conf.StudentName),
		Sessions:       learning.NewRegistry(progSvc),
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(asLogger))
	must(c.Provide(newRepositories))
	must(c.Provide(newServerDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
