package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core/progress"
)

type progressApi struct {
	svc *progress.Service
}

func registerProgressAPI(g *echo.Group, svc *progress.Service) {
	api := progressApi{svc: svc}

	pg := g.Group("/progress")
	pg.GET("", api.query)
	pg.GET("/summary", api.summary)
	pg.PUT("/:id", api.update)
}

// Handlers

func (api *progressApi) query(ctx echo.Context) error {
	records, err := api.svc.QueryAll(ctx.Request().Context(), contextUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "querying progress")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *progressApi) summary(ctx echo.Context) error {
	sum, err := api.svc.Summary(ctx.Request().Context(), contextUserID(ctx))
	if err != nil {
		return errors.Wrap(err, "summarizing progress")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *progressApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data progress.Patch
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Patch")
	}
	rec, err := api.svc.Update(ctx.Request().Context(), contextUserID(ctx), id, data)
	if err != nil {
		return errors.Wrap(err, "updating progress")
	}
	return ctx.JSON(http.StatusOK, rec)
}
