package note

import (
	"time"

	"github.com/apper-canvas/learnhubdigital/core"
)

type Note struct {
	ID        int       `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CourseID  int       `json:"course_id" db:"course_id"`
	LessonID  string    `json:"lesson_id" db:"lesson_id"`
	Text      string    `json:"text" db:"text"`
	Timestamp float64   `json:"timestamp" db:"timestamp"` // seconds into the lesson's video
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewNote contains information needed to create a new Note.
type NewNote struct {
	CourseID  int     `json:"course_id" validate:"required,gt=0"`
	LessonID  string  `json:"lesson_id" validate:"notblank"`
	Text      string  `json:"text" validate:"notblank,max=5000"`
	Timestamp float64 `json:"timestamp" validate:"gte=0"`
}

func (nn *NewNote) Validate() error {
	nn.LessonID = core.CleanString(nn.LessonID)
	nn.Text = core.CleanString(nn.Text)
	return core.Validate.Struct(nn)
}

// UpdateNote defines what may be changed on an existing Note. The id never changes.
type UpdateNote struct {
	Text string `json:"text" validate:"notblank,max=5000"`
}

func (un *UpdateNote) Validate() error {
	un.Text = core.CleanString(un.Text)
	return core.Validate.Struct(un)
}
