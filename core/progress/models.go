package progress

import (
	"time"
)

// Record tracks one user's progress through one course.
type Record struct {
	ID               int                `json:"id" db:"id"`
	UserID           string             `json:"user_id" db:"user_id"`
	CourseID         int                `json:"course_id" db:"course_id"`
	CompletedLessons []string           `json:"completed_lessons" db:"-"`
	QuizScores       map[string]float64 `json:"quiz_scores" db:"-"` // lesson id: latest score (0-100, unrounded)
	OverallProgress  float64            `json:"overall_progress" db:"overall_progress"`
	LastAccessed     time.Time          `json:"last_accessed" db:"last_accessed"`   // UTC
	CompletedDate    *time.Time         `json:"completed_date" db:"completed_date"` // UTC; set when 100% is first reached
	CertificateID    string             `json:"certificate_id,omitempty" db:"certificate_id"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at"` // UTC
}

func (r Record) IsCompleted(lessonID string) bool {
	for _, id := range r.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// Eligible reports whether the course is fully completed.
func (r Record) Eligible() bool {
	return r.OverallProgress >= 100
}

// AverageQuizScore is the mean of the recorded quiz scores; 0 when none.
func (r Record) AverageQuizScore() float64 {
	if len(r.QuizScores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range r.QuizScores {
		sum += s
	}
	return sum / float64(len(r.QuizScores))
}

// Clone returns a deep copy so callers can derive a new record without touching shared state.
func (r Record) Clone() Record {
	c := r
	if r.CompletedLessons != nil {
		c.CompletedLessons = append(make([]string, 0, len(r.CompletedLessons)), r.CompletedLessons...)
	}
	if r.QuizScores != nil {
		c.QuizScores = make(map[string]float64, len(r.QuizScores))
		for k, v := range r.QuizScores {
			c.QuizScores[k] = v
		}
	}
	if r.CompletedDate != nil {
		d := *r.CompletedDate
		c.CompletedDate = &d
	}
	return c
}

// Patch defines what may be changed on an existing Record; nil fields are left as they are.
type Patch struct {
	CompletedLessons []string           `json:"completed_lessons"`
	QuizScores       map[string]float64 `json:"quiz_scores"`
	LastAccessed     *time.Time         `json:"last_accessed"`
}

type Summary struct {
	EnrolledCourses   int     `json:"enrolled_courses"`
	CompletedCourses  int     `json:"completed_courses"`
	InProgressCourses int     `json:"in_progress_courses"`
	CompletedLessons  int     `json:"completed_lessons"`
	TotalLessons      int     `json:"total_lessons"`
	OverallProgress   float64 `json:"overall_progress"`
	AverageQuizScore  float64 `json:"average_quiz_score"`
}
