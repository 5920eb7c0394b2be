package progress

import (
	"time"

	"github.com/apper-canvas/learnhubdigital/core/course"
)

// Percent is the single source of the overall progress figure: completed*100/total, 0 for an empty course.
func Percent(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return float64(completed) * 100 / float64(total)
}

// CompleteLesson marks `lessonID` as completed and recomputes the overall progress.
// Completing an already completed lesson is a no-op and reports changed == false.
// The given record is never modified.
func CompleteLesson(rec Record, crs course.Course, lessonID string, now time.Time) (Record, bool, error) {
	if crs.LessonIndex(lessonID) < 0 {
		return rec, false, course.ErrLessonNotFound
	}
	if rec.IsCompleted(lessonID) {
		return rec, false, nil
	}

	next := rec.Clone()
	next.CompletedLessons = append(next.CompletedLessons, lessonID)
	next.LastAccessed = now
	return Recompute(next, crs, now), true, nil
}

// RecordQuizScore stores the latest score for the lesson's quiz, overwriting any earlier one.
func RecordQuizScore(rec Record, crs course.Course, lessonID string, score float64, now time.Time) (Record, error) {
	if crs.LessonIndex(lessonID) < 0 {
		return rec, course.ErrLessonNotFound
	}
	next := rec.Clone()
	if next.QuizScores == nil {
		next.QuizScores = make(map[string]float64, 1)
	}
	next.QuizScores[lessonID] = score
	next.LastAccessed = now
	return next, nil
}

// countCompleted only counts lessons the course still has.
func countCompleted(rec Record, crs course.Course) int {
	var n int
	for _, l := range crs.Lessons {
		if rec.IsCompleted(l.ID) {
			n++
		}
	}
	return n
}

// Recompute derives the overall progress from the completed lessons, stamping CompletedDate on first completion.
func Recompute(rec Record, crs course.Course, now time.Time) Record {
	next := rec.Clone()
	next.OverallProgress = Percent(countCompleted(next, crs), len(crs.Lessons))
	if next.Eligible() && next.CompletedDate == nil {
		next.CompletedDate = &now
	}
	return next
}
