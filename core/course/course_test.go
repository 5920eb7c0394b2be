package course_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/testutil"
)

func TestCourse_navigation(t *testing.T) {
	crs := testutil.NewCourse(1, "Nav",
		testutil.NewLesson("a", nil),
		testutil.NewLesson("b", testutil.NewQuiz(50, 1)),
		testutil.NewLesson("c", nil),
	)

	assert.Equal(t, 0, crs.LessonIndex("a"))
	assert.Equal(t, 2, crs.LessonIndex("c"))
	assert.Equal(t, -1, crs.LessonIndex("zzz"))

	l, ok := crs.Lesson("b")
	assert.True(t, ok)
	assert.True(t, l.HasQuiz())
	_, ok = crs.Lesson("zzz")
	assert.False(t, ok)

	next, ok := crs.NextLesson("a")
	assert.True(t, ok)
	assert.Equal(t, "b", next.ID)
	_, ok = crs.NextLesson("c")
	assert.False(t, ok)
	_, ok = crs.NextLesson("zzz")
	assert.False(t, ok)

	assert.False(t, testutil.NewLesson("x", &course.Quiz{PassingScore: 50}).HasQuiz(), "a quiz without questions is no quiz")
}

func TestCourse_Validate(t *testing.T) {
	badAnswer := testutil.NewQuiz(50, 1)
	badAnswer.Questions[0].CorrectAnswer = 3

	tests := []struct {
		name      string
		crs       course.Course
		wantField string
	}{
		{name: "valid", crs: testutil.IntroCourse()},
		{name: "no lessons", crs: testutil.NewCourse(1, "Empty"), wantField: "Course.lessons"},
		{name: "blank title", crs: testutil.NewCourse(1, "  ", testutil.NewLesson("a", nil)), wantField: "Course.title"},
		{
			name:      "duplicate lesson",
			crs:       testutil.NewCourse(1, "Dup", testutil.NewLesson("a", nil), testutil.NewLesson("a", nil)),
			wantField: "Course.lessons[1].id",
		},
		{
			name:      "answer out of range",
			crs:       testutil.NewCourse(1, "Quiz", testutil.NewLesson("a", badAnswer)),
			wantField: "Course.lessons[0].quiz.questions[0].correct_answer",
		},
		{
			name: "bad difficulty",
			crs: func() course.Course {
				c := testutil.IntroCourse()
				c.Difficulty = "expert"
				return c
			}(),
			wantField: "Course.difficulty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.crs.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.True(t, core.IsValidation(err), "Validate() error = %v", err)
			vErr := err.(*core.ValidationError)
			require.NotEmpty(t, vErr.Fields)
			assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
		})
	}
}

func TestValidateAll(t *testing.T) {
	a := testutil.IntroCourse()
	b := testutil.IntroCourse()
	assert.NoError(t, course.ValidateAll([]course.Course{a}))
	assert.True(t, core.IsValidation(course.ValidateAll([]course.Course{a, b})))
}

func TestQueryFilter_Clean(t *testing.T) {
	qf := course.QueryFilter{Search: "  react ", Category: "all", Difficulty: " BEGINNER"}
	qf.Clean()
	assert.Equal(t, course.QueryFilter{Search: "react", Difficulty: course.Beginner}, qf)
	assert.False(t, qf.IsEmpty())

	qf = course.QueryFilter{Category: " all ", Difficulty: "All"}
	qf.Clean()
	assert.True(t, qf.IsEmpty())
}

func catalog() []course.Course {
	react := testutil.NewCourse(1, "React Basics", testutil.NewLesson("r1", nil))
	react.Category, react.Difficulty, react.Rating = "Web Development", course.Intermediate, 4.8
	python := testutil.NewCourse(2, "Python for Data", testutil.NewLesson("p1", nil))
	python.Category, python.Rating, python.Instructor = "Data Science", 4.7, "Michael Chen"
	design := testutil.NewCourse(3, "UX Design", testutil.NewLesson("u1", nil))
	design.Category, design.Rating, design.Description = "Design", 4.9, "Learn to design with React prototypes"
	return []course.Course{react, python, design}
}

func TestService_Query(t *testing.T) {
	svc := testutil.NewServices(testutil.OpenDB(t, catalog()...)).Course
	ctx := context.Background()

	tests := []struct {
		name     string
		filter   course.QueryFilter
		ordering []core.DBOrdering
		wantIDs  []int
	}{
		{name: "no filter", wantIDs: []int{1, 2, 3}},
		{name: "search title and description", filter: course.QueryFilter{Search: "REACT"}, wantIDs: []int{1, 3}},
		{name: "search instructor", filter: course.QueryFilter{Search: "chen"}, wantIDs: []int{2}},
		{name: "category", filter: course.QueryFilter{Category: "design"}, wantIDs: []int{3}},
		{name: "category all", filter: course.QueryFilter{Category: "all"}, wantIDs: []int{1, 2, 3}},
		{name: "difficulty", filter: course.QueryFilter{Difficulty: "Beginner"}, wantIDs: []int{2, 3}},
		{name: "combined", filter: course.QueryFilter{Search: "react", Difficulty: course.Beginner}, wantIDs: []int{3}},
		{name: "no match", filter: course.QueryFilter{Search: "cobol"}, wantIDs: []int{}},
		{
			name:     "by rating",
			ordering: []core.DBOrdering{{Field: "rating"}},
			wantIDs:  []int{3, 1, 2},
		},
		{
			name:     "by title",
			ordering: []core.DBOrdering{{Field: "title", Ascending: true}},
			wantIDs:  []int{2, 1, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses, err := svc.Query(ctx, tt.filter, tt.ordering)
			require.NoError(t, err)
			ids := make([]int, 0, len(courses))
			for _, c := range courses {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestService_Get(t *testing.T) {
	svc := testutil.NewServices(testutil.OpenDB(t, catalog()...)).Course

	crs, err := svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Python for Data", crs.Title)

	_, err = svc.Get(context.Background(), 42)
	assert.Equal(t, course.ErrNotFound, err)
	assert.True(t, core.IsNotFound(err))
}

func TestService_Categories(t *testing.T) {
	courses := catalog()
	extra := testutil.NewCourse(4, "More Design", testutil.NewLesson("d1", nil))
	extra.Category = "Design"
	svc := testutil.NewServices(testutil.OpenDB(t, append(courses, extra)...)).Course

	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []course.Category{
		{Name: "Data Science", Count: 1},
		{Name: "Design", Count: 2},
		{Name: "Web Development", Count: 1},
	}, cats)
}
