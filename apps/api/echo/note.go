package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core/note"
)

type noteApi struct {
	svc *note.Service
}

func registerNoteAPI(g *echo.Group, svc *note.Service) {
	api := noteApi{svc: svc}

	g.GET("/lessons/:lessonId/notes", api.queryByLesson)

	ng := g.Group("/notes")
	ng.GET("", api.query)
	ng.POST("", api.create)
	ng.PUT("/:id", api.update)
	ng.DELETE("/:id", api.delete)
}

// Handlers

func (api *noteApi) queryByLesson(ctx echo.Context) error {
	notes, err := api.svc.QueryByLesson(ctx.Request().Context(), contextUserID(ctx), ctx.Param("lessonId"))
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *noteApi) query(ctx echo.Context) error {
	notes, err := api.svc.QueryAll(ctx.Request().Context(), contextUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *noteApi) create(ctx echo.Context) error {
	var data note.NewNote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNote")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	n, err := api.svc.Create(ctx.Request().Context(), contextUserID(ctx), data)
	if err != nil {
		return errors.Wrap(err, "creating note")
	}
	return ctx.JSON(http.StatusCreated, n)
}

func (api *noteApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data note.UpdateNote
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateNote")
	}
	if err = data.Validate(); err != nil {
		return err
	}
	n, err := api.svc.Update(ctx.Request().Context(), contextUserID(ctx), id, data)
	if err != nil {
		return errors.Wrap(err, "updating note")
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *noteApi) delete(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), contextUserID(ctx), id); err != nil {
		return errors.Wrap(err, "deleting note")
	}
	return ctx.NoContent(http.StatusNoContent)
}
