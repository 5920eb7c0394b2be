package course

import (
	"context"
	"sort"

	"github.com/apper-canvas/learnhubdigital/core"
)

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("course")
	ErrLessonNotFound = core.NewNotFoundError("lesson")
)

type (
	Repository interface {
		GetCourse(ctx context.Context, id int) (Course, error)
		// QueryCourses applies AND operation on available QueryFilter fields.
		QueryCourses(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Course, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get(ctx context.Context, id int) (Course, error) {
	return svc.repo.GetCourse(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, QueryFilter{}, nil)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Course, error) {
	filter.Clean()
	return svc.repo.QueryCourses(ctx, filter, ordering)
}

// Categories lists the catalog's categories, by name, with their course counts.
func (svc *Service) Categories(ctx context.Context) ([]Category, error) {
	courses, err := svc.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, crs := range courses {
		counts[crs.Category]++
	}
	cats := make([]Category, 0, len(counts))
	for name, n := range counts {
		cats = append(cats, Category{Name: name, Count: n})
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats, nil
}
