package download

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
)

const (
	steps    = 20
	fileSize = "125 MB"
)

var (
	// errors
	ErrNotFound          = core.NewNotFoundError("downloaded video")
	ErrAlreadyDownloaded = errors.New("video already downloaded")

	nowFunc = time.Now // mockable
)

// Video is a lesson video saved for offline viewing.
type Video struct {
	ID           int       `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	CourseID     int       `json:"course_id" db:"course_id"`
	LessonID     string    `json:"lesson_id" db:"lesson_id"`
	VideoURL     string    `json:"video_url" db:"video_url"`
	LessonTitle  string    `json:"lesson_title" db:"lesson_title"`
	CourseTitle  string    `json:"course_title" db:"course_title"`
	Duration     int       `json:"duration" db:"duration"` // seconds
	FileSize     string    `json:"file_size" db:"file_size"`
	DownloadedAt time.Time `json:"downloaded_at" db:"downloaded_at"` // UTC
}

type NewDownload struct {
	CourseID int    `json:"course_id" validate:"required,gt=0"`
	LessonID string `json:"lesson_id" validate:"notblank"`
}

func (nd *NewDownload) Validate() error {
	nd.LessonID = core.CleanString(nd.LessonID)
	return core.Validate.Struct(nd)
}

type (
	Repository interface {
		// CreateDownload returns ErrAlreadyDownloaded if the user already has the video.
		CreateDownload(ctx context.Context, v Video) (Video, error)
		GetDownload(ctx context.Context, id int) (Video, error)
		GetDownloadByURL(ctx context.Context, userID, videoURL string) (Video, error)
		QueryDownloads(ctx context.Context, userID string) ([]Video, error)
		DeleteDownload(ctx context.Context, id int) error
	}

	CourseGetter interface {
		Get(ctx context.Context, id int) (course.Course, error)
	}

	// ProgressFunc receives the download progress, in percent.
	ProgressFunc func(percent int)

	Service struct {
		repo      Repository
		courses   CourseGetter
		stepDelay time.Duration
	}
)

func NewService(repo Repository, courses CourseGetter, stepDelay time.Duration) *Service {
	return &Service{repo: repo, courses: courses, stepDelay: stepDelay}
}

func (svc *Service) QueryAll(ctx context.Context, userID string) ([]Video, error) {
	if err := core.CheckUserID(userID); err != nil {
		return nil, err
	}
	return svc.repo.QueryDownloads(ctx, userID)
}

func (svc *Service) Get(ctx context.Context, userID string, id int) (Video, error) {
	if err := core.CheckUserID(userID); err != nil {
		return Video{}, err
	}
	v, err := svc.repo.GetDownload(ctx, id)
	if err != nil {
		return Video{}, err
	}
	if v.UserID != userID {
		return Video{}, ErrNotFound
	}
	return v, nil
}

// Download saves the lesson's video, reporting progress in 5% steps from 0 to 100.
// A video can only be downloaded once per user.
func (svc *Service) Download(ctx context.Context, userID string, nd NewDownload, onProgress ProgressFunc) (Video, error) {
	if err := core.CheckUserID(userID); err != nil {
		return Video{}, err
	}
	crs, err := svc.courses.Get(ctx, nd.CourseID)
	if err != nil {
		return Video{}, err
	}
	lesson, ok := crs.Lesson(nd.LessonID)
	if !ok {
		return Video{}, course.ErrLessonNotFound
	}

	if _, err = svc.repo.GetDownloadByURL(ctx, userID, lesson.VideoURL); err == nil {
		return Video{}, alreadyDownloaded()
	} else if errors.Cause(err) != ErrNotFound {
		return Video{}, errors.Wrap(err, "checking downloads")
	}

	if err = svc.transfer(ctx, onProgress); err != nil {
		return Video{}, err
	}

	v, err := svc.repo.CreateDownload(ctx, Video{
		UserID:       userID,
		CourseID:     crs.ID,
		LessonID:     lesson.ID,
		VideoURL:     lesson.VideoURL,
		LessonTitle:  lesson.Title,
		CourseTitle:  crs.Title,
		Duration:     lesson.Duration,
		FileSize:     fileSize,
		DownloadedAt: nowFunc().UTC(),
	})
	if err != nil {
		if errors.Cause(err) == ErrAlreadyDownloaded {
			return Video{}, alreadyDownloaded()
		}
		return Video{}, errors.Wrap(err, "saving download")
	}
	return v, nil
}

// transfer simulates the file transfer.
func (svc *Service) transfer(ctx context.Context, onProgress ProgressFunc) error {
	for i := 0; i <= steps; i++ {
		if onProgress != nil {
			onProgress(i * 100 / steps)
		}
		if i == steps {
			break
		}
		if err := (core.Latency{Min: svc.stepDelay}).Wait(ctx); err != nil {
			return errors.Wrap(err, "downloading")
		}
	}
	return nil
}

func (svc *Service) Delete(ctx context.Context, userID string, id int) error {
	if _, err := svc.Get(ctx, userID, id); err != nil {
		return err
	}
	return svc.repo.DeleteDownload(ctx, id)
}

func alreadyDownloaded() error {
	return core.NewValidationError(ErrAlreadyDownloaded, core.FieldError{
		Field: "lesson_id",
		Error: ErrAlreadyDownloaded.Error(),
	})
}
