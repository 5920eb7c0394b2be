package progress

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("progress")
	ErrExists   = errors.New("progress already exists for this course")

	nowFunc          = time.Now // mockable
	newCertificateID = func() string { // mockable
		return "LH-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	}
)

type (
	Repository interface {
		// CreateProgress returns ErrExists if the user already has a record for the course.
		CreateProgress(ctx context.Context, rec Record) (Record, error)
		GetProgress(ctx context.Context, id int) (Record, error)
		GetCourseProgress(ctx context.Context, userID string, courseID int) (Record, error)
		QueryProgress(ctx context.Context, userID string) ([]Record, error)
		// UpdateProgress replaces the whole record, except that a stored certificate id
		// and its completion date are kept: the first certificate assigned wins.
		UpdateProgress(ctx context.Context, rec Record) (Record, error)
		DeleteProgress(ctx context.Context, id int) error
	}

	CourseGetter interface {
		Get(ctx context.Context, id int) (course.Course, error)
		QueryAll(ctx context.Context) ([]course.Course, error)
	}

	Service struct {
		repo    Repository
		courses CourseGetter
	}
)

func NewService(repo Repository, courses CourseGetter) *Service {
	return &Service{repo: repo, courses: courses}
}

// Get returns the user's record for the course, nil if the user is not enrolled.
func (svc *Service) Get(ctx context.Context, userID string, courseID int) (*Record, error) {
	if err := core.CheckUserID(userID); err != nil {
		return nil, err
	}
	rec, err := svc.repo.GetCourseProgress(ctx, userID, courseID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, "getting course progress")
	}
	return &rec, nil
}

func (svc *Service) GetByID(ctx context.Context, userID string, id int) (Record, error) {
	if err := core.CheckUserID(userID); err != nil {
		return Record{}, err
	}
	rec, err := svc.repo.GetProgress(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.UserID != userID {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (svc *Service) QueryAll(ctx context.Context, userID string) ([]Record, error) {
	if err := core.CheckUserID(userID); err != nil {
		return nil, err
	}
	return svc.repo.QueryProgress(ctx, userID)
}

// Enroll creates an empty record for the course. Enrolling twice returns the existing record and created == false.
func (svc *Service) Enroll(ctx context.Context, userID string, courseID int) (rec Record, created bool, err error) {
	if err = core.CheckUserID(userID); err != nil {
		return Record{}, false, err
	}
	if _, err = svc.courses.Get(ctx, courseID); err != nil {
		return Record{}, false, err
	}
	if existing, err := svc.Get(ctx, userID, courseID); err != nil || existing != nil {
		if existing != nil {
			return *existing, false, nil
		}
		return Record{}, false, err
	}

	now := nowFunc().UTC()
	rec, err = svc.repo.CreateProgress(ctx, Record{
		UserID:           userID,
		CourseID:         courseID,
		CompletedLessons: []string{},
		QuizScores:       map[string]float64{},
		LastAccessed:     now,
		CreatedAt:        now,
	})
	if err != nil {
		if errors.Cause(err) == ErrExists { // lost an enrollment race
			rec, err = svc.repo.GetCourseProgress(ctx, userID, courseID)
			return rec, false, err
		}
		return Record{}, false, errors.Wrap(err, "creating progress")
	}
	return rec, true, nil
}

// Update applies the patch and recomputes the derived fields of the record.
func (svc *Service) Update(ctx context.Context, userID string, id int, patch Patch) (Record, error) {
	rec, err := svc.GetByID(ctx, userID, id)
	if err != nil {
		return Record{}, err
	}
	crs, err := svc.courses.Get(ctx, rec.CourseID)
	if err != nil {
		return Record{}, errors.Wrap(err, "getting course")
	}

	now := nowFunc().UTC()
	next := rec.Clone()
	if patch.CompletedLessons != nil {
		completed := make([]string, 0, len(patch.CompletedLessons))
		for _, lessonID := range patch.CompletedLessons {
			if crs.LessonIndex(lessonID) < 0 {
				return Record{}, core.NewValidationError(course.ErrLessonNotFound, core.FieldError{
					Field: "completed_lessons",
					Error: "unknown lesson " + lessonID,
				})
			}
			if !containsString(completed, lessonID) {
				completed = append(completed, lessonID)
			}
		}
		next.CompletedLessons = completed
	}
	if patch.QuizScores != nil {
		for lessonID, score := range patch.QuizScores {
			if score < 0 || score > 100 {
				return Record{}, core.NewValidationError(nil, core.FieldError{
					Field: "quiz_scores",
					Error: "scores must be between 0 and 100",
				})
			}
			if next, err = RecordQuizScore(next, crs, lessonID, score, now); err != nil {
				return Record{}, err
			}
		}
	}
	next.LastAccessed = now
	if patch.LastAccessed != nil {
		next.LastAccessed = patch.LastAccessed.UTC()
	}
	next = Recompute(next, crs, now)
	return svc.save(ctx, next)
}

// CompleteLesson marks the lesson completed, enrolling the user first if needed.
// An already completed lesson only refreshes LastAccessed and reports changed == false.
func (svc *Service) CompleteLesson(ctx context.Context, userID string, crs course.Course, lessonID string) (Record, bool, error) {
	rec, _, err := svc.Enroll(ctx, userID, crs.ID)
	if err != nil {
		return Record{}, false, errors.Wrap(err, "enrolling")
	}
	now := nowFunc().UTC()
	next, changed, err := CompleteLesson(rec, crs, lessonID, now)
	if err != nil {
		return next, false, err
	}
	if !changed {
		// rewatching still counts as an access
		next = rec.Clone()
		next.LastAccessed = now
	}
	if next, err = svc.save(ctx, next); err != nil {
		return Record{}, false, err
	}
	return next, changed, nil
}

// RecordQuizScore persists the latest quiz score of the lesson.
func (svc *Service) RecordQuizScore(ctx context.Context, userID string, crs course.Course, lessonID string, score float64) (Record, error) {
	rec, _, err := svc.Enroll(ctx, userID, crs.ID)
	if err != nil {
		return Record{}, errors.Wrap(err, "enrolling")
	}
	next, err := RecordQuizScore(rec, crs, lessonID, score, nowFunc().UTC())
	if err != nil {
		return Record{}, err
	}
	return svc.save(ctx, next)
}

// EnsureCertificate assigns a certificate id to a completed record that has none yet.
func (svc *Service) EnsureCertificate(ctx context.Context, rec Record) (Record, error) {
	if !rec.Eligible() || rec.CertificateID != "" {
		return rec, nil
	}
	return svc.save(ctx, rec)
}

func (svc *Service) Delete(ctx context.Context, userID string, id int) error {
	if _, err := svc.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return svc.repo.DeleteProgress(ctx, id)
}

// Summary aggregates the user's records into dashboard statistics.
func (svc *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	records, err := svc.QueryAll(ctx, userID)
	if err != nil {
		return Summary{}, errors.Wrap(err, "querying progress")
	}
	courses, err := svc.courses.QueryAll(ctx)
	if err != nil {
		return Summary{}, errors.Wrap(err, "querying courses")
	}
	lessonCounts := make(map[int]int, len(courses))
	for _, crs := range courses {
		lessonCounts[crs.ID] = len(crs.Lessons)
	}

	var (
		sum      Summary
		avgTotal float64
	)
	for _, rec := range records {
		n, ok := lessonCounts[rec.CourseID]
		if !ok {
			continue
		}
		sum.EnrolledCourses++
		switch {
		case rec.Eligible():
			sum.CompletedCourses++
		case rec.OverallProgress > 0:
			sum.InProgressCourses++
		}
		sum.CompletedLessons += len(rec.CompletedLessons)
		sum.TotalLessons += n
		avgTotal += rec.AverageQuizScore()
	}
	sum.OverallProgress = Percent(sum.CompletedLessons, sum.TotalLessons)
	if sum.EnrolledCourses > 0 {
		sum.AverageQuizScore = avgTotal / float64(sum.EnrolledCourses)
	}
	return sum, nil
}

// save assigns the certificate id on first completion, then persists the whole record.
func (svc *Service) save(ctx context.Context, rec Record) (Record, error) {
	if rec.Eligible() && rec.CertificateID == "" {
		rec.CertificateID = newCertificateID()
		if rec.CompletedDate == nil {
			d := nowFunc().UTC()
			rec.CompletedDate = &d
		}
	}
	saved, err := svc.repo.UpdateProgress(ctx, rec)
	if err != nil {
		return Record{}, errors.Wrap(err, "updating progress")
	}
	return saved, nil
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
