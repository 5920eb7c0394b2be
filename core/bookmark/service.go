package bookmark

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("bookmark")

	nowFunc = time.Now // mockable
)

// Bookmark puts a course on the user's wishlist.
type Bookmark struct {
	ID        int       `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CourseID  int       `json:"course_id" db:"course_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

type NewBookmark struct {
	CourseID int `json:"course_id" validate:"required,gt=0"`
}

func (nb NewBookmark) Validate() error { return core.Validate.Struct(nb) }

type (
	Repository interface {
		// CreateBookmark returns the existing bookmark if the user already bookmarked the course.
		CreateBookmark(ctx context.Context, bm Bookmark) (Bookmark, error)
		GetBookmark(ctx context.Context, userID string, courseID int) (Bookmark, error)
		QueryBookmarks(ctx context.Context, userID string) ([]Bookmark, error)
		DeleteBookmark(ctx context.Context, userID string, courseID int) error
	}

	CourseGetter interface {
		Get(ctx context.Context, id int) (course.Course, error)
	}

	Service struct {
		repo    Repository
		courses CourseGetter
	}
)

func NewService(repo Repository, courses CourseGetter) *Service {
	return &Service{repo: repo, courses: courses}
}

func (svc *Service) QueryAll(ctx context.Context, userID string) ([]Bookmark, error) {
	if err := core.CheckUserID(userID); err != nil {
		return nil, err
	}
	return svc.repo.QueryBookmarks(ctx, userID)
}

func (svc *Service) IsBookmarked(ctx context.Context, userID string, courseID int) (bool, error) {
	if err := core.CheckUserID(userID); err != nil {
		return false, err
	}
	if _, err := svc.repo.GetBookmark(ctx, userID, courseID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create bookmarks the course. Bookmarking twice is a no-op.
func (svc *Service) Create(ctx context.Context, userID string, courseID int) (Bookmark, error) {
	if err := core.CheckUserID(userID); err != nil {
		return Bookmark{}, err
	}
	if _, err := svc.courses.Get(ctx, courseID); err != nil {
		return Bookmark{}, err
	}
	return svc.repo.CreateBookmark(ctx, Bookmark{
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: nowFunc().UTC(),
	})
}

// Delete removes the course from the wishlist; ErrNotFound if it is not there.
func (svc *Service) Delete(ctx context.Context, userID string, courseID int) error {
	if err := core.CheckUserID(userID); err != nil {
		return err
	}
	return svc.repo.DeleteBookmark(ctx, userID, courseID)
}

// Toggle flips the course's membership in the wishlist and reports the new membership.
func (svc *Service) Toggle(ctx context.Context, userID string, courseID int) (bool, error) {
	bookmarked, err := svc.IsBookmarked(ctx, userID, courseID)
	if err != nil {
		return false, errors.Wrap(err, "checking bookmark")
	}
	if bookmarked {
		if err = svc.Delete(ctx, userID, courseID); err != nil {
			return true, errors.Wrap(err, "deleting bookmark")
		}
		return false, nil
	}
	if _, err = svc.Create(ctx, userID, courseID); err != nil {
		return false, errors.Wrap(err, "creating bookmark")
	}
	return true, nil
}
