package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core/certificate"
)

type certificateApi struct {
	svc *certificate.Service
}

func registerCertificateAPI(g *echo.Group, svc *certificate.Service) {
	api := certificateApi{svc: svc}

	cg := g.Group("/courses/:id/certificate")
	cg.GET("", api.retrieve)
	cg.GET("/download", api.download)
}

func (api *certificateApi) get(ctx echo.Context) (certificate.View, error) {
	id, err := intParam(ctx, "id")
	if err != nil {
		return certificate.View{}, err
	}
	v, err := api.svc.Get(ctx.Request().Context(), contextUserID(ctx), id)
	if err != nil {
		return certificate.View{}, errors.Wrap(err, "getting certificate")
	}
	return v, nil
}

// Handlers

func (api *certificateApi) retrieve(ctx echo.Context) error {
	v, err := api.get(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, v)
}

func (api *certificateApi) download(ctx echo.Context) error {
	v, err := api.get(ctx)
	if err != nil {
		return err
	}
	img, err := certificate.RenderPNG(v)
	if err != nil {
		return errors.Wrap(err, "rendering certificate")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+certificate.FileName(v)+`"`)
	return ctx.Blob(http.StatusOK, "image/png", img)
}
