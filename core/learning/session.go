package learning

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/progress"
	"github.com/apper-canvas/learnhubdigital/core/quiz"
)

type Mode string

const (
	Viewing     Mode = "viewing"
	Quizzing    Mode = "quizzing"
	QuizResults Mode = "quiz_results"
)

type Event string

const (
	EventNone            Event = ""
	EventIgnored         Event = "ignored" // duplicate event, nothing changed
	EventLessonSelected  Event = "lesson_selected"
	EventLessonCompleted Event = "lesson_completed"
	EventQuizStarted     Event = "quiz_started"
	EventNextQuestion    Event = "next_question"
	EventQuizPassed      Event = "quiz_passed"
	EventQuizFailed      Event = "quiz_failed"
	EventCourseCompleted Event = "course_completed"
)

var errNoActiveQuiz = core.NewValidationError(errors.New("no active quiz"))

// Tracker persists the learner's progress. Implemented by progress.Service.
type Tracker interface {
	Enroll(ctx context.Context, userID string, courseID int) (progress.Record, bool, error)
	CompleteLesson(ctx context.Context, userID string, crs course.Course, lessonID string) (progress.Record, bool, error)
	RecordQuizScore(ctx context.Context, userID string, crs course.Course, lessonID string, score float64) (progress.Record, error)
}

type State struct {
	Mode     Mode            `json:"mode"`
	CourseID int             `json:"course_id"`
	LessonID string          `json:"lesson_id"`
	Quiz     *quiz.View      `json:"quiz,omitempty"`
	Progress progress.Record `json:"progress"`
}

// Transition is the outcome of an event: what happened and the state it led to.
type Transition struct {
	Event  Event        `json:"event"`
	State  State        `json:"state"`
	Result *quiz.Result `json:"result,omitempty"`
}

// Session drives one user through one course: video playback, quizzes and progress persistence.
// State only moves forward once the tracker has persisted the change;
// on error the session is left exactly as it was.
type Session struct {
	mu       sync.Mutex
	userID   string
	course   course.Course
	tracker  Tracker
	record   progress.Record
	mode     Mode
	lessonID string
	attempt  quiz.Attempt
}

// Start opens a session, enrolling the user if needed.
// It starts on `selector` if the course has such a lesson,
// else on the first lesson not completed yet, else on the first lesson.
func Start(ctx context.Context, tracker Tracker, userID string, crs course.Course, selector string) (*Session, error) {
	if len(crs.Lessons) == 0 {
		return nil, core.NewValidationError(errors.New("course has no lessons"))
	}
	rec, _, err := tracker.Enroll(ctx, userID, crs.ID)
	if err != nil {
		return nil, errors.Wrap(err, "enrolling")
	}

	s := &Session{
		userID:  userID,
		course:  crs,
		tracker: tracker,
		record:  rec,
		mode:    Viewing,
	}
	s.lessonID = initialLesson(crs, rec, selector)
	return s, nil
}

func initialLesson(crs course.Course, rec progress.Record, selector string) string {
	if selector != "" && crs.LessonIndex(selector) >= 0 {
		return selector
	}
	for _, l := range crs.Lessons {
		if !rec.IsCompleted(l.ID) {
			return l.ID
		}
	}
	return crs.Lessons[0].ID
}

func (s *Session) UserID() string { return s.userID }

func (s *Session) Course() course.Course { return s.course }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() State {
	st := State{
		Mode:     s.mode,
		CourseID: s.course.ID,
		LessonID: s.lessonID,
		Progress: s.record.Clone(),
	}
	if s.mode != Viewing {
		v := s.attempt.View()
		st.Quiz = &v
	}
	return st
}

func (s *Session) transition(evt Event) Transition {
	return Transition{Event: evt, State: s.state()}
}

// SelectLesson jumps to any lesson of the course. It never marks the current lesson completed
// and drops any quiz in progress.
func (s *Session) SelectLesson(lessonID string) (Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.course.LessonIndex(lessonID) < 0 {
		return Transition{}, course.ErrLessonNotFound
	}
	s.mode = Viewing
	s.lessonID = lessonID
	s.attempt = quiz.Attempt{}
	return s.transition(EventLessonSelected), nil
}

// VideoEnded completes the current lesson, then starts its quiz or moves on to the next lesson.
// It is ignored unless the session is viewing a lesson.
func (s *Session) VideoEnded(ctx context.Context) (Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != Viewing {
		return s.transition(EventIgnored), nil
	}

	lesson, _ := s.course.Lesson(s.lessonID)
	var attempt quiz.Attempt
	if lesson.HasQuiz() {
		var err error
		if attempt, err = quiz.NewAttempt(*lesson.Quiz); err != nil {
			return Transition{}, err
		}
	}

	rec, _, err := s.tracker.CompleteLesson(ctx, s.userID, s.course, lesson.ID)
	if err != nil {
		return Transition{}, errors.Wrap(err, "completing lesson")
	}
	s.record = rec

	if lesson.HasQuiz() {
		s.mode = Quizzing
		s.attempt = attempt
		return s.transition(EventQuizStarted), nil
	}
	if next, ok := s.course.NextLesson(lesson.ID); ok {
		s.lessonID = next.ID
		return s.transition(EventLessonCompleted), nil
	}
	if s.record.Eligible() {
		return s.transition(EventCourseCompleted), nil
	}
	return s.transition(EventLessonCompleted), nil
}

// SelectAnswer sets the pending option of the current question.
func (s *Session) SelectAnswer(option int) (Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != Quizzing {
		return Transition{}, errNoActiveQuiz
	}
	next, err := s.attempt.Select(option)
	if err != nil {
		return Transition{}, err
	}
	s.attempt = next
	return s.transition(EventNone), nil
}

// SubmitAnswer locks the answer of question `index`. Submitting the last question completes the quiz:
// the score is persisted, then the session advances on a pass or shows the results on a fail.
// Re-submitting an answered question is ignored.
func (s *Session) SubmitAnswer(ctx context.Context, index int) (Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.mode {
	case QuizResults:
		return s.transition(EventIgnored), nil
	case Viewing:
		return Transition{}, errNoActiveQuiz
	}

	next, submitted, err := s.attempt.Submit(index)
	if err != nil {
		return Transition{}, err
	}
	if !submitted {
		return s.transition(EventIgnored), nil
	}
	res, done := next.Result()
	if !done {
		s.attempt = next
		return s.transition(EventNextQuestion), nil
	}

	rec, err := s.tracker.RecordQuizScore(ctx, s.userID, s.course, s.lessonID, res.Score)
	if err != nil {
		return Transition{}, errors.Wrap(err, "recording quiz score")
	}
	s.record = rec
	s.attempt = next

	var evt Event
	switch nextLesson, hasNext := s.course.NextLesson(s.lessonID); {
	case !res.Passed:
		s.mode = QuizResults
		evt = EventQuizFailed
	case hasNext:
		s.mode = Viewing
		s.lessonID = nextLesson.ID
		s.attempt = quiz.Attempt{}
		evt = EventQuizPassed
	default:
		s.mode = QuizResults
		evt = EventQuizPassed
		if s.record.Eligible() {
			evt = EventCourseCompleted
		}
	}
	t := s.transition(evt)
	t.Result = &res
	return t, nil
}

// RetakeQuiz restarts the current lesson's quiz. The stored score stays until the retake completes.
func (s *Session) RetakeQuiz() (Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lesson, _ := s.course.Lesson(s.lessonID)
	if s.mode == Viewing || !lesson.HasQuiz() {
		return Transition{}, errNoActiveQuiz
	}
	attempt, err := quiz.NewAttempt(*lesson.Quiz)
	if err != nil {
		return Transition{}, err
	}
	s.mode = Quizzing
	s.attempt = attempt
	return s.transition(EventQuizStarted), nil
}
