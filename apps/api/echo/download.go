package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/download"
)

type downloadApi struct {
	svc    *download.Service
	logger core.Logger
}

func registerDownloadAPI(g *echo.Group, svc *download.Service, logger core.Logger) {
	api := downloadApi{svc: svc, logger: logger}

	dg := g.Group("/downloads")
	dg.GET("", api.query)
	dg.POST("", api.create)
	dg.GET("/:id", api.retrieve)
	dg.DELETE("/:id", api.delete)
}

// Handlers

func (api *downloadApi) query(ctx echo.Context) error {
	videos, err := api.svc.QueryAll(ctx.Request().Context(), contextUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "querying downloads")
	}
	return ctx.JSON(http.StatusOK, videos)
}

// create blocks until the transfer is over; the client cancels it by dropping the request.
func (api *downloadApi) create(ctx echo.Context) error {
	var data download.NewDownload
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDownload")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	userID := contextUserID(ctx)
	v, err := api.svc.Download(ctx.Request().Context(), userID, data, func(percent int) {
		api.logger.Debug("downloading video", core.LogUser(userID), "lesson_id", data.LessonID, "progress", percent)
	})
	if err != nil {
		return errors.Wrap(err, "downloading video")
	}
	return ctx.JSON(http.StatusCreated, v)
}

func (api *downloadApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	v, err := api.svc.Get(ctx.Request().Context(), contextUserID(ctx), id)
	if err != nil {
		return errors.Wrap(err, "getting download")
	}
	return ctx.JSON(http.StatusOK, v)
}

func (api *downloadApi) delete(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), contextUserID(ctx), id); err != nil {
		return errors.Wrap(err, "deleting download")
	}
	return ctx.NoContent(http.StatusNoContent)
}
