package course

import (
	"github.com/apper-canvas/learnhubdigital/core"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

var Difficulties = []Difficulty{Beginner, Intermediate, Advanced}

type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"question" validate:"notblank"`
	Options       []string `json:"options" validate:"min=2,dive,notblank"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0"`
	Explanation   string   `json:"explanation,omitempty"`
}

type Quiz struct {
	Questions    []Question `json:"questions" validate:"required,min=1,dive"`
	PassingScore float64    `json:"passing_score" validate:"gte=0,lte=100"` // percentage
}

type Lesson struct {
	ID       string `json:"id" validate:"notblank"`
	Title    string `json:"title" validate:"notblank"`
	Duration int    `json:"duration" validate:"gte=0"` // seconds
	VideoURL string `json:"video_url"`
	Quiz     *Quiz  `json:"quiz,omitempty"`
}

func (l Lesson) HasQuiz() bool {
	return l.Quiz != nil && len(l.Quiz.Questions) > 0
}

type Course struct {
	ID          int        `json:"id" validate:"gt=0"`
	Title       string     `json:"title" validate:"notblank"`
	Description string     `json:"description"`
	Instructor  string     `json:"instructor"`
	Category    string     `json:"category" validate:"notblank"`
	Difficulty  Difficulty `json:"difficulty" validate:"oneof=beginner intermediate advanced"`
	Duration    int        `json:"duration" validate:"gte=0"` // minutes
	Thumbnail   string     `json:"thumbnail"`
	Rating      float64    `json:"rating" validate:"gte=0,lte=5"`
	Enrolled    int        `json:"enrolled_count" validate:"gte=0"`
	Lessons     []Lesson   `json:"lessons" validate:"required,min=1,dive"`
}

// LessonIndex returns the position of the lesson in the course's progression order, or -1.
func (c Course) LessonIndex(id string) int {
	for i, l := range c.Lessons {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (c Course) Lesson(id string) (Lesson, bool) {
	if i := c.LessonIndex(id); i >= 0 {
		return c.Lessons[i], true
	}
	return Lesson{}, false
}

// NextLesson returns the lesson following `id`; false when `id` is the last (or an unknown) lesson.
func (c Course) NextLesson(id string) (Lesson, bool) {
	i := c.LessonIndex(id)
	if i < 0 || i+1 >= len(c.Lessons) {
		return Lesson{}, false
	}
	return c.Lessons[i+1], true
}

func (c Course) Validate() error {
	return core.TranslateValidationErrors(core.Validate.Struct(c))
}

type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// QueryFilter narrows a course query; all set fields must match.
// Search does a case-insensitive match on one of Course.Title, Course.Description or Course.Instructor.
type QueryFilter struct {
	Search     string     `query:"search"`
	Category   string     `query:"category"`
	Difficulty Difficulty `query:"difficulty"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Category == "" && qf.Difficulty == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Category = core.CleanString(qf.Category)
	qf.Difficulty = Difficulty(core.CleanString(string(qf.Difficulty), true /* lower */))
	// "all" is what the catalog's select boxes send for no filter
	if qf.Category == "all" {
		qf.Category = ""
	}
	if qf.Difficulty == "all" {
		qf.Difficulty = ""
	}
}
