package certificate

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/progress"
)

var ErrNotEligible = core.NewNotEligibleError("certificate not available: course not completed")

type (
	CourseInfo struct {
		Title      string `json:"title"`
		Instructor string `json:"instructor"`
		Category   string `json:"category"`
		Duration   int    `json:"duration"` // minutes
	}

	// View is everything printed on a certificate.
	View struct {
		CertificateID string     `json:"certificate_id"`
		Course        CourseInfo `json:"course"`
		StudentName   string     `json:"student_name"`
		CompletedDate time.Time  `json:"completed_date"`
		OverallScore  int        `json:"overall_score"`
	}
)

type (
	CourseGetter interface {
		Get(ctx context.Context, id int) (course.Course, error)
	}

	ProgressStore interface {
		Get(ctx context.Context, userID string, courseID int) (*progress.Record, error)
		EnsureCertificate(ctx context.Context, rec progress.Record) (progress.Record, error)
	}

	Service struct {
		courses     CourseGetter
		progress    ProgressStore
		studentName string
	}
)

func NewService(courses CourseGetter, progress ProgressStore, studentName string) *Service {
	return &Service{courses: courses, progress: progress, studentName: studentName}
}

// Get returns the certificate of a completed course. ErrNotEligible below 100% progress.
// The certificate id is assigned once and never changes afterwards.
func (svc *Service) Get(ctx context.Context, userID string, courseID int) (View, error) {
	crs, err := svc.courses.Get(ctx, courseID)
	if err != nil {
		return View{}, err
	}
	rec, err := svc.progress.Get(ctx, userID, courseID)
	if err != nil {
		return View{}, errors.Wrap(err, "getting progress")
	}
	if rec == nil || !rec.Eligible() {
		return View{}, ErrNotEligible
	}

	completed, err := svc.progress.EnsureCertificate(ctx, *rec)
	if err != nil {
		return View{}, errors.Wrap(err, "assigning certificate")
	}
	return NewView(crs, completed, svc.studentName), nil
}

func NewView(crs course.Course, rec progress.Record, studentName string) View {
	completedDate := rec.LastAccessed
	if rec.CompletedDate != nil {
		completedDate = *rec.CompletedDate
	}
	return View{
		CertificateID: rec.CertificateID,
		Course: CourseInfo{
			Title:      crs.Title,
			Instructor: crs.Instructor,
			Category:   crs.Category,
			Duration:   crs.Duration,
		},
		StudentName:   studentName,
		CompletedDate: completedDate,
		OverallScore:  int(math.Round(rec.AverageQuizScore())),
	}
}
