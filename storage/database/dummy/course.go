package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
)

type courseRepository struct {
	db      *courseTable
	latency core.Latency
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course, latency: db.latency}
}

func (repo *courseRepository) query() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses
}

func (repo *courseRepository) GetCourse(ctx context.Context, id int) (course.Course, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return course.Course{}, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCourses(ctx context.Context, filter course.QueryFilter, ordering []core.DBOrdering) ([]course.Course, error) {
	if err := repo.latency.Wait(ctx); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := repo.query()

	// courses with search keyword matching any Title, Description or Instructor ?
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		filtered := make([]course.Course, 0, len(courses))
		for _, c := range courses {
			if strings.Contains(strings.ToLower(c.Title), search) ||
				strings.Contains(strings.ToLower(c.Description), search) ||
				strings.Contains(strings.ToLower(c.Instructor), search) {
				filtered = append(filtered, c)
			}
		}
		courses = filtered
	}
	if filter.Category != "" {
		filtered := make([]course.Course, 0, len(courses))
		for _, c := range courses {
			if strings.EqualFold(c.Category, filter.Category) {
				filtered = append(filtered, c)
			}
		}
		courses = filtered
	}
	if filter.Difficulty != "" {
		filtered := make([]course.Course, 0, len(courses))
		for _, c := range courses {
			if c.Difficulty == filter.Difficulty {
				filtered = append(filtered, c)
			}
		}
		courses = filtered
	}

	if len(ordering) > 0 {
		sort.SliceStable(courses, func(i, j int) bool { return lessCourse(courses[i], courses[j], ordering) })
	}
	return courses, nil
}

// lessCourse compares courses on the ordering fields in turn; unknown fields are ignored.
func lessCourse(a, b course.Course, ordering []core.DBOrdering) bool {
	for _, ord := range ordering {
		var cmp int
		switch ord.Field {
		case "title":
			cmp = strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case "rating":
			cmp = compareFloat(a.Rating, b.Rating)
		case "duration":
			cmp = a.Duration - b.Duration
		case "enrolled_count":
			cmp = a.Enrolled - b.Enrolled
		case "id":
			cmp = a.ID - b.ID
		}
		if cmp == 0 {
			continue
		}
		if ord.Ascending {
			return cmp < 0
		}
		return cmp > 0
	}
	return false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
