package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core/entrega"
)

type entregaApi struct {
	svc entrega.Service
}

func registerEntregaAPI(g *echo.Group, svc entrega.Service) {
	api := entregaApi{svc: svc}

	eg := g.Group("/entregas")
	eg.POST("", api.registrarIndividual)
	eg.POST("/grupal", api.registrarGrupal)
	eg.PUT("/:idEntrega/nota", api.actualizarNota)
	eg.PUT("/tarea/:idTarea/alumno/:idAlumno/nota", api.actualizarNotaPorTareaYAlumno)
	eg.PUT("/tarea/:idTarea/grupo/:idGrupo/nota", api.actualizarNotaPorTareaYGrupo)
	eg.GET("/seccion/:idSeccion/alumno/:idAlumno/tareas-notas", api.tareasNotasAlumno)
	eg.GET("/seccion/:idSeccion/grupo/:idGrupo/tareas-notas", api.tareasNotasGrupo)
}

func (api *entregaApi) registrarIndividual(ctx echo.Context) error {
	var data entrega.RegistrarEntrega
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegistrarEntrega")
	}

	e, err := api.svc.RegistrarIndividual(ctx.Request().Context(), data.TareaID, data.AlumnoID, data.Nota)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"idEntrega": e.ID})
}

func (api *entregaApi) registrarGrupal(ctx echo.Context) error {
	var data entrega.RegistrarEntrega
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegistrarEntrega")
	}

	e, err := api.svc.RegistrarGrupal(ctx.Request().Context(), data.TareaID, data.GrupoID, data.Nota)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"idEntrega": e.ID})
}

func (api *entregaApi) actualizarNota(ctx echo.Context) error {
	idEntrega, err := intParam(ctx, "idEntrega")
	if err != nil {
		return err
	}
	var data entrega.ActualizarNota
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ActualizarNota")
	}

	if err = api.svc.ActualizarNotaPorID(ctx.Request().Context(), idEntrega, data.Nota); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *entregaApi) actualizarNotaPorTareaYAlumno(ctx echo.Context) error {
	idTarea, err := intParam(ctx, "idTarea")
	if err != nil {
		return err
	}
	idAlumno, err := intParam(ctx, "idAlumno")
	if err != nil {
		return err
	}
	var data entrega.ActualizarNota
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ActualizarNota")
	}

	if err = api.svc.ActualizarNotaPorTareaYAlumno(ctx.Request().Context(), idTarea, idAlumno, data.Nota); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *entregaApi) actualizarNotaPorTareaYGrupo(ctx echo.Context) error {
	idTarea, err := intParam(ctx, "idTarea")
	if err != nil {
		return err
	}
	idGrupo, err := intParam(ctx, "idGrupo")
	if err != nil {
		return err
	}
	var data entrega.ActualizarNota
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ActualizarNota")
	}

	if err = api.svc.ActualizarNotaPorTareaYGrupo(ctx.Request().Context(), idTarea, idGrupo, data.Nota); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *entregaApi) tareasNotasAlumno(ctx echo.Context) error {
	idSeccion, err := intParam(ctx, "idSeccion")
	if err != nil {
		return err
	}
	idAlumno, err := intParam(ctx, "idAlumno")
	if err != nil {
		return err
	}

	rows, err := api.svc.TareasNotasAlumno(ctx.Request().Context(), idSeccion, idAlumno)
	if err != nil {
		return errors.Wrap(err, "querying tareas-notas")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *entregaApi) tareasNotasGrupo(ctx echo.Context) error {
	idSeccion, err := intParam(ctx, "idSeccion")
	if err != nil {
		return err
	}
	idGrupo, err := intParam(ctx, "idGrupo")
	if err != nil {
		return err
	}

	rows, err := api.svc.TareasNotasGrupo(ctx.Request().Context(), idSeccion, idGrupo)
	if err != nil {
		return errors.Wrap(err, "querying tareas-notas")
	}
	return ctx.JSON(http.StatusOK, rows)
}
