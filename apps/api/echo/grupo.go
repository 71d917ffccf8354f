package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core/grupo"
)

type grupoApi struct {
	svc grupo.Service
}

func registerGrupoAPI(g *echo.Group, svc grupo.Service) {
	api := grupoApi{svc: svc}

	gg := g.Group("/grupos")
	gg.POST("", api.crear)
	gg.PUT("/:idGrupo", api.modificar)
	gg.DELETE("/:idGrupo", api.eliminar)
	gg.GET("/:idGrupo/integrantes", api.integrantes)
	gg.GET("/seccion/:idSeccion", api.porSeccion)
	gg.GET("/seccion/:idSeccion/alumnos-disponibles", api.alumnosDisponibles)
	gg.GET("/seccion/:idSeccion/alumnos", api.alumnos)
}

func (api *grupoApi) crear(ctx echo.Context) error {
	var data grupo.NewGrupo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrupo")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	resp, err := api.svc.Crear(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, resp)
}

func (api *grupoApi) modificar(ctx echo.Context) error {
	idGrupo, err := intParam(ctx, "idGrupo")
	if err != nil {
		return err
	}
	var data grupo.EditGrupo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditGrupo")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	resp, err := api.svc.Modificar(ctx.Request().Context(), idGrupo, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *grupoApi) eliminar(ctx echo.Context) error {
	idGrupo, err := intParam(ctx, "idGrupo")
	if err != nil {
		return err
	}
	if err = api.svc.Eliminar(ctx.Request().Context(), idGrupo); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *grupoApi) integrantes(ctx echo.Context) error {
	idGrupo, err := intParam(ctx, "idGrupo")
	if err != nil {
		return err
	}

	integrantes, err := api.svc.Integrantes(ctx.Request().Context(), idGrupo)
	if err != nil {
		return err
	}
	nombres := make([]string, 0, len(integrantes))
	for _, i := range integrantes {
		nombres = append(nombres, i.NombreCompleto)
	}
	return ctx.JSON(http.StatusOK, nombres)
}

func (api *grupoApi) porSeccion(ctx echo.Context) error {
	idSeccion, err := intParam(ctx, "idSeccion")
	if err != nil {
		return err
	}

	grupos, err := api.svc.PorSeccion(ctx.Request().Context(), idSeccion)
	if err != nil {
		return errors.Wrap(err, "querying grupos")
	}
	return ctx.JSON(http.StatusOK, grupos)
}

func (api *grupoApi) alumnosDisponibles(ctx echo.Context) error {
	idSeccion, err := intParam(ctx, "idSeccion")
	if err != nil {
		return err
	}

	alumnos, err := api.svc.AlumnosDisponibles(ctx.Request().Context(), idSeccion)
	if err != nil {
		return errors.Wrap(err, "querying alumnos")
	}
	return ctx.JSON(http.StatusOK, alumnos)
}

func (api *grupoApi) alumnos(ctx echo.Context) error {
	idSeccion, err := intParam(ctx, "idSeccion")
	if err != nil {
		return err
	}

	alumnos, err := api.svc.Alumnos(ctx.Request().Context(), idSeccion)
	if err != nil {
		return errors.Wrap(err, "querying alumnos")
	}
	return ctx.JSON(http.StatusOK, alumnos)
}
