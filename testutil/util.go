package testutil

import (
	"fmt"
	"testing"

	"github.com/apper-canvas/learnhubdigital/core/bookmark"
	"github.com/apper-canvas/learnhubdigital/core/certificate"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/download"
	"github.com/apper-canvas/learnhubdigital/core/note"
	"github.com/apper-canvas/learnhubdigital/core/progress"
	dummydb "github.com/apper-canvas/learnhubdigital/storage/database/dummy"
)

const StudentName = "Test Student"

// NewQuiz builds a quiz of n questions whose correct answer is always option 0.
func NewQuiz(passingScore float64, n int) *course.Quiz {
	q := &course.Quiz{PassingScore: passingScore}
	for i := 0; i < n; i++ {
		q.Questions = append(q.Questions, course.Question{
			ID:            fmt.Sprintf("q%d", i+1),
			Prompt:        fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"right", "wrong", "also wrong"},
			CorrectAnswer: 0,
		})
	}
	return q
}

func NewLesson(id string, quiz *course.Quiz) course.Lesson {
	return course.Lesson{
		ID:       id,
		Title:    "Lesson " + id,
		Duration: 600,
		VideoURL: "https://videos.test/" + id + ".mp4",
		Quiz:     quiz,
	}
}

func NewCourse(id int, title string, lessons ...course.Lesson) course.Course {
	return course.Course{
		ID:          id,
		Title:       title,
		Description: title + " description",
		Instructor:  "Jane Teacher",
		Category:    "Programming",
		Difficulty:  course.Beginner,
		Duration:    60,
		Rating:      4.5,
		Lessons:     lessons,
	}
}

// IntroCourse has a first lesson without a quiz and a second one with a one-question quiz passing at 50%.
func IntroCourse() course.Course {
	return NewCourse(1, "Intro",
		NewLesson("lesson1", nil),
		NewLesson("lesson2", NewQuiz(50, 1)),
	)
}

// OpenDB opens an in-memory store, without latency, holding the given courses.
func OpenDB(t *testing.T, courses ...course.Course) *dummydb.DB {
	t.Helper()
	if err := course.ValidateAll(courses); err != nil {
		t.Fatalf("OpenDB() invalid courses: %v", err)
	}
	db := dummydb.Open()
	db.Seed(dummydb.Fixtures{Courses: courses})
	return db
}

type Services struct {
	Course      *course.Service
	Progress    *progress.Service
	Bookmark    *bookmark.Service
	Note        *note.Service
	Download    *download.Service
	Certificate *certificate.Service
}

// NewServices wires every service on top of the store.
func NewServices(db *dummydb.DB) Services {
	crsSvc := course.NewService(dummydb.NewCourseRepository(db))
	progSvc := progress.NewService(dummydb.NewProgressRepository(db), crsSvc)
	return Services{
		Course:      crsSvc,
		Progress:    progSvc,
		Bookmark:    bookmark.NewService(dummydb.NewBookmarkRepository(db), crsSvc),
		Note:        note.NewService(dummydb.NewNoteRepository(db), crsSvc),
		Download:    download.NewService(dummydb.NewDownloadRepository(db), crsSvc, 0),
		Certificate: certificate.NewService(crsSvc, progSvc, StudentName),
	}
}
