package quiz

import (
	"math"

	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
)

type State string

const (
	Active   State = "active"
	Complete State = "complete"
)

var (
	errNoSelection    = core.NewValidationError(errors.New("select an answer first"), core.FieldError{Field: "option", Error: "select an answer first"})
	errOptionRange    = core.NewValidationError(errors.New("option out of range"), core.FieldError{Field: "option", Error: "option out of range"})
	errQuestionAhead  = core.NewValidationError(errors.New("question not reached yet"), core.FieldError{Field: "question", Error: "question not reached yet"})
	errAttemptOver    = core.NewValidationError(errors.New("quiz already completed"))
	errNoQuestions    = core.NewValidationError(errors.New("quiz has no questions"))
	noSelection       = -1
	defaultScoreScale = 100.0
)

type Answer struct {
	Question int  `json:"question"`
	Selected int  `json:"selected"`
	Correct  bool `json:"correct"`
}

type Result struct {
	Answers      []Answer `json:"answers"`
	Correct      int      `json:"correct"`
	Total        int      `json:"total"`
	Score        float64  `json:"score"` // unrounded percentage
	PassingScore float64  `json:"passing_score"`
	Passed       bool     `json:"passed"`
}

// Rounded is the score for display only; pass/fail never uses it.
func (r Result) Rounded() int {
	return int(math.Round(r.Score))
}

// Attempt is one run through a quiz. It is a value: every transition returns a new Attempt,
// so a caller can persist the outcome before committing to it.
type Attempt struct {
	quiz     course.Quiz
	current  int
	selected int
	answers  []Answer
}

func NewAttempt(q course.Quiz) (Attempt, error) {
	if len(q.Questions) == 0 {
		return Attempt{}, errNoQuestions
	}
	return Attempt{quiz: q, selected: noSelection}, nil
}

func (a Attempt) State() State {
	if len(a.quiz.Questions) > 0 && len(a.answers) == len(a.quiz.Questions) {
		return Complete
	}
	return Active
}

// Current is the index of the question being answered.
func (a Attempt) Current() int { return a.current }

// Selected is the pending (not yet submitted) option of the current question, -1 if none.
func (a Attempt) Selected() int { return a.selected }

func (a Attempt) Answers() []Answer {
	return append([]Answer(nil), a.answers...)
}

// Select sets the pending option of the current question. It may be changed until submitted.
func (a Attempt) Select(option int) (Attempt, error) {
	if a.State() == Complete {
		return a, errAttemptOver
	}
	q := a.quiz.Questions[a.current]
	if option < 0 || option >= len(q.Options) {
		return a, errOptionRange
	}
	a.selected = option
	return a, nil
}

// Submit locks the pending answer of question `index` and moves on.
// Submitting a question that is already locked is a no-op and reports submitted == false.
func (a Attempt) Submit(index int) (next Attempt, submitted bool, err error) {
	if index < a.current || a.State() == Complete {
		return a, false, nil
	}
	if index > a.current {
		return a, false, errQuestionAhead
	}
	if a.selected == noSelection {
		return a, false, errNoSelection
	}

	q := a.quiz.Questions[a.current]
	answers := make([]Answer, len(a.answers), len(a.answers)+1)
	copy(answers, a.answers)
	answers = append(answers, Answer{
		Question: a.current,
		Selected: a.selected,
		Correct:  a.selected == q.CorrectAnswer,
	})

	a.answers = answers
	a.selected = noSelection
	if a.current < len(a.quiz.Questions)-1 {
		a.current++
	}
	return a, true, nil
}

// Result is only available once every question was submitted.
func (a Attempt) Result() (Result, bool) {
	if a.State() != Complete {
		return Result{}, false
	}
	var correct int
	for _, ans := range a.answers {
		if ans.Correct {
			correct++
		}
	}
	score := Score(correct, len(a.quiz.Questions))
	return Result{
		Answers:      a.Answers(),
		Correct:      correct,
		Total:        len(a.quiz.Questions),
		Score:        score,
		PassingScore: a.quiz.PassingScore,
		Passed:       score >= a.quiz.PassingScore,
	}, true
}

// Retake starts the quiz over.
func (a Attempt) Retake() Attempt {
	return Attempt{quiz: a.quiz, selected: noSelection}
}

// Score is correct*100/total, unrounded. Whole percentages come out exact.
func Score(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) * defaultScoreScale / float64(total)
}

// View is the JSON representation of an Attempt.
type View struct {
	State     State          `json:"state"`
	Question  int            `json:"question"`
	Total     int            `json:"total"`
	Selected  *int           `json:"selected"`
	Answers   []Answer       `json:"answers"`
	Result    *Result        `json:"result,omitempty"`
	Rounded   *int           `json:"rounded_score,omitempty"`
	Questions []QuestionView `json:"questions"`
}

// QuestionView hides the correct answer of a question.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

func (a Attempt) View() View {
	v := View{
		State:     a.State(),
		Question:  a.current,
		Total:     len(a.quiz.Questions),
		Answers:   a.Answers(),
		Questions: make([]QuestionView, 0, len(a.quiz.Questions)),
	}
	if v.Answers == nil {
		v.Answers = []Answer{}
	}
	if a.selected != noSelection {
		sel := a.selected
		v.Selected = &sel
	}
	if res, ok := a.Result(); ok {
		rounded := res.Rounded()
		v.Result = &res
		v.Rounded = &rounded
	}
	for _, q := range a.quiz.Questions {
		v.Questions = append(v.Questions, QuestionView{ID: q.ID, Prompt: q.Prompt, Options: q.Options})
	}
	return v
}
