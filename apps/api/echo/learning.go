package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/apper-canvas/learnhubdigital/core"
	"github.com/apper-canvas/learnhubdigital/core/course"
	"github.com/apper-canvas/learnhubdigital/core/learning"
)

type (
	AnswerRequest struct {
		Option *int `json:"option" validate:"required"`
	}

	SubmitRequest struct {
		Question *int `json:"question" validate:"required"`
	}
)

type learningApi struct {
	courses  *course.Service
	sessions *learning.Registry
}

func registerLearningAPI(g *echo.Group, courses *course.Service, sessions *learning.Registry) {
	api := learningApi{courses: courses, sessions: sessions}

	sg := g.Group("/courses/:id/session")
	sg.POST("", api.start)
	sg.GET("", api.state)
	sg.POST("/lessons/:lessonId", api.selectLesson)
	sg.POST("/video-ended", api.videoEnded)
	sg.POST("/answer", api.selectAnswer)
	sg.POST("/submit", api.submitAnswer)
	sg.POST("/retake", api.retakeQuiz)
}

func (api *learningApi) session(ctx echo.Context) (*learning.Session, error) {
	id, err := intParam(ctx, "id")
	if err != nil {
		return nil, err
	}
	return api.sessions.Get(contextUserID(ctx), id)
}

// Handlers

// start opens (or reopens) the learning session; `?lesson=` deep links to a lesson.
func (api *learningApi) start(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	crs, err := api.courses.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting course")
	}
	s, err := api.sessions.Start(ctx.Request().Context(), contextUserID(ctx), crs, ctx.QueryParam("lesson"))
	if err != nil {
		return errors.Wrap(err, "starting session")
	}
	return ctx.JSON(http.StatusCreated, s.State())
}

func (api *learningApi) state(ctx echo.Context) error {
	s, err := api.session(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s.State())
}

func (api *learningApi) selectLesson(ctx echo.Context) error {
	s, err := api.session(ctx)
	if err != nil {
		return err
	}
	tr, err := s.SelectLesson(ctx.Param("lessonId"))
	if err != nil {
		return errors.Wrap(err, "selecting lesson")
	}
	return ctx.JSON(http.StatusOK, tr)
}

func (api *learningApi) videoEnded(ctx echo.Context) error {
	s, err := api.session(ctx)
	if err != nil {
		return err
	}
	tr, err := s.VideoEnded(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "ending video")
	}
	return ctx.JSON(http.StatusOK, tr)
}

func (api *learningApi) selectAnswer(ctx echo.Context) error {
	var data AnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AnswerRequest")
	}
	if err := core.Validate.Struct(data); err != nil {
		return err
	}
	s, err := api.session(ctx)
	if err != nil {
		return err
	}
	tr, err := s.SelectAnswer(*data.Option)
	if err != nil {
		return errors.Wrap(err, "selecting answer")
	}
	return ctx.JSON(http.StatusOK, tr)
}

func (api *learningApi) submitAnswer(ctx echo.Context) error {
	var data SubmitRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitRequest")
	}
	if err := core.Validate.Struct(data); err != nil {
		return err
	}
	s, err := api.session(ctx)
	if err != nil {
		return err
	}
	tr, err := s.SubmitAnswer(ctx.Request().Context(), *data.Question)
	if err != nil {
		return errors.Wrap(err, "submitting answer")
	}
	return ctx.JSON(http.StatusOK, tr)
}

func (api *learningApi) retakeQuiz(ctx echo.Context) error {
	s, err := api.session(ctx)
	if err != nil {
		return err
	}
	tr, err := s.RetakeQuiz()
	if err != nil {
		return errors.Wrap(err, "retaking quiz")
	}
	return ctx.JSON(http.StatusOK, tr)
}
