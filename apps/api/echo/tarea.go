package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core/tarea"
)

type tareaApi struct {
	svc tarea.Service
}

func registerTareaAPI(g *echo.Group, svc tarea.Service) {
	api := tareaApi{svc: svc}

	tg := g.Group("/tareas")
	tg.POST("", api.crear)
	tg.GET("/seccion/:idSeccion", api.porSeccion)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
}

func (api *tareaApi) crear(ctx echo.Context) error {
	var data tarea.NewTarea
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTarea")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *tareaApi) porSeccion(ctx echo.Context) error {
	idSeccion, err := intParam(ctx, "idSeccion")
	if err != nil {
		return err
	}

	tareas, err := api.svc.PorSeccion(ctx.Request().Context(), idSeccion)
	if err != nil {
		return errors.Wrap(err, "querying tareas")
	}
	return ctx.JSON(http.StatusOK, tareas)
}

func (api *tareaApi) retrieve(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	t, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *tareaApi) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var data tarea.NewTarea
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTarea")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	t, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *tareaApi) destroy(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
