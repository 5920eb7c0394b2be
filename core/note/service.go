package note

import (
	"context"
	"sort"
	"time"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("note")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateNote(ctx context.Context, n Note) (Note, error)
		GetNote(ctx context.Context, id int) (Note, error)
		// QueryNotes returns all the user's notes when lessonID is empty.
		QueryNotes(ctx context.Context, userID, lessonID string) ([]Note, error)
		UpdateNote(ctx context.Context, n Note) (Note, error)
		DeleteNote(ctx context.Context, id int) error
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

// QueryByLesson lists the user's notes on a lesson by video timestamp.
func (svc *Service) QueryByLesson(ctx context.Context, userID, lessonID string) ([]Note, error) {
	if err := core.CheckUserID(userID); err != nil {
		return nil, err
	}
	if lessonID = core.CleanString(lessonID); lessonID == "" {
		return []Note{}, nil
	}
	notes, err := svc.repo.QueryNotes(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}
	sortByTimestamp(notes)
	return notes, nil
}

func (svc *Service) QueryAll(ctx context.Context, userID string) ([]Note, error) {
	if err := core.CheckUserID(userID); err != nil {
		return nil, err
	}
	return svc.repo.QueryNotes(ctx, userID, "")
}

// Get returns the note if it belongs to the user.
func (svc *Service) Get(ctx context.Context, userID string, id int) (Note, error) {
	if err := core.CheckUserID(userID); err != nil {
		return Note{}, err
	}
	n, err := svc.repo.GetNote(ctx, id)
	if err != nil {
		return Note{}, err
	}
	if n.UserID != userID {
		return Note{}, ErrNotFound
	}
	return n, nil
}

// Create expects a validated NewNote.
func (svc *Service) Create(ctx context.Context, userID string, nn NewNote) (Note, error) {
	if err := core.CheckUserID(userID); err != nil {
		return Note{}, err
	}
	crs, err := svc.courses.Get(ctx, nn.CourseID)
	if err != nil {
		return Note{}, err
	}
	if crs.LessonIndex(nn.LessonID) < 0 {
		return Note{}, core.NewValidationError(course.ErrLessonNotFound, core.FieldError{
			Field: "lesson_id",
			Error: course.ErrLessonNotFound.Error(),
		})
	}

	now := nowFunc().UTC()
	return svc.repo.CreateNote(ctx, Note{
		UserID:    userID,
		CourseID:  nn.CourseID,
		LessonID:  nn.LessonID,
		Text:      nn.Text,
		Timestamp: nn.Timestamp,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Update expects a validated UpdateNote.
func (svc *Service) Update(ctx context.Context, userID string, id int, un UpdateNote) (Note, error) {
	n, err := svc.Get(ctx, userID, id)
	if err != nil {
		return Note{}, err
	}
	n.Text = un.Text
	n.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateNote(ctx, n)
}

func (svc *Service) Delete(ctx context.Context, userID string, id int) error {
	if _, err := svc.Get(ctx, userID, id); err != nil {
		return err
	}
	return svc.repo.DeleteNote(ctx, id)
}

func sortByTimestamp(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].Timestamp < notes[j].Timestamp })
}
