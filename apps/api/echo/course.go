package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/progress"
)

type courseApi struct {
	svc     *course.Service
	progSvc *progress.Service
}

func registerCourseAPI(g *echo.Group, svc *course.Service, progSvc *progress.Service) {
	api := courseApi{svc: svc, progSvc: progSvc}

	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.GET("/categories", api.categories)
	cg.GET("/:id", api.retrieve)
	cg.GET("/:id/progress", api.courseProgress)
	cg.POST("/:id/enroll", api.enroll)
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	var filter course.QueryFilter
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	var ord Ordering
	ord.Bind(ctx)

	courses, err := api.svc.Query(ctx.Request().Context(), filter, ord.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) categories(ctx echo.Context) error {
	cats, err := api.svc.Categories(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing categories")
	}
	return ctx.JSON(http.StatusOK, cats)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	crs, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) courseProgress(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	rec, err := api.progSvc.Get(ctx.Request().Context(), contextUserID(ctx), id)
	if err != nil {
		return errors.Wrap(err, "getting progress")
	}
	if rec == nil {
		return progress.ErrNotFound
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *courseApi) enroll(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	rec, created, err := api.progSvc.Enroll(ctx.Request().Context(), contextUserID(ctx), id)
	if err != nil {
		return errors.Wrap(err, "enrolling")
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return ctx.JSON(code, rec)
}
