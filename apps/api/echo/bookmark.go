package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core/bookmark"
)

type bookmarkApi struct {
	svc *bookmark.Service
}

func registerBookmarkAPI(g *echo.Group, svc *bookmark.Service) {
	api := bookmarkApi{svc: svc}

	bg := g.Group("/bookmarks")
	bg.GET("", api.query)
	bg.POST("", api.create)
	bg.DELETE("/:courseId", api.delete)
	bg.POST("/:courseId/toggle", api.toggle)
}

// Handlers

func (api *bookmarkApi) query(ctx echo.Context) error {
	bookmarks, err := api.svc.QueryAll(ctx.Request().Context(), contextUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "querying bookmarks")
	}
	return ctx.JSON(http.StatusOK, bookmarks)
}

func (api *bookmarkApi) create(ctx echo.Context) error {
	var data bookmark.NewBookmark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBookmark")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	bm, err := api.svc.Create(ctx.Request().Context(), contextUserID(ctx), data.CourseID)
	if err != nil {
		return errors.Wrap(err, "creating bookmark")
	}
	return ctx.JSON(http.StatusCreated, bm)
}

func (api *bookmarkApi) delete(ctx echo.Context) error {
	courseID, err := intParam(ctx, "courseId")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), contextUserID(ctx), courseID); err != nil {
		return errors.Wrap(err, "deleting bookmark")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *bookmarkApi) toggle(ctx echo.Context) error {
	courseID, err := intParam(ctx, "courseId")
	if err != nil {
		return err
	}
	on, err := api.svc.Toggle(ctx.Request().Context(), contextUserID(ctx), courseID)
	if err != nil {
		return errors.Wrap(err, "toggling bookmark")
	}
	return ctx.JSON(http.StatusOK, map[string]interface{}{"course_id": courseID, "bookmarked": on})
}
