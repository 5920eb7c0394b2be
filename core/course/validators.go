package course

import (
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/apper-canvas/learnhubdigital/core"
)

var (
	uniqueLessonTag  = "unique_lesson"
	uniqueLessonText = "lesson ids must be unique within a course"

	answerRangeTag  = "answer_range"
	answerRangeText = "correct answer must be one of the options"

	uniqueCourseTag  = "unique_course"
	uniqueCourseText = "course ids must be unique"
)

// register custom validators
func init() {
	core.Validate.RegisterStructValidation(courseStructValidation, Course{})
	core.RegisterCustomTranslation(uniqueLessonTag, uniqueLessonText)

	core.Validate.RegisterStructValidation(questionStructValidation, Question{})
	core.RegisterCustomTranslation(answerRangeTag, answerRangeText)

	core.RegisterCustomTranslation(uniqueCourseTag, uniqueCourseText)
}

// ValidateAll validates each course of a catalog and that course ids are unique.
func ValidateAll(courses []Course) error {
	seen := make(map[int]struct{}, len(courses))
	for _, crs := range courses {
		if err := crs.Validate(); err != nil {
			return err
		}
		if _, ok := seen[crs.ID]; ok {
			return core.NewValidationError(nil, core.FieldError{
				Field: "courses[" + strconv.Itoa(crs.ID) + "]",
				Error: uniqueCourseText,
			})
		}
		seen[crs.ID] = struct{}{}
	}
	return nil
}

// Custom Validators

// courseStructValidation checks that lesson ids are unique within the course.
func courseStructValidation(sl validator.StructLevel) {
	crs, ok := sl.Current().Interface().(Course)
	if !ok {
		return
	}
	ids := make(map[string]struct{}, len(crs.Lessons))
	for i, l := range crs.Lessons {
		if _, ok := ids[l.ID]; ok {
			field := "lessons[" + strconv.Itoa(i) + "].id"
			sl.ReportError(l.ID, field, "ID", uniqueLessonTag, "")
			return
		}
		ids[l.ID] = struct{}{}
	}
}

// questionStructValidation checks that the correct answer indexes one of the options.
func questionStructValidation(sl validator.StructLevel) {
	q, ok := sl.Current().Interface().(Question)
	if !ok {
		return
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		sl.ReportError(q.CorrectAnswer, "correct_answer", "CorrectAnswer", answerRangeTag, "")
	}
}
