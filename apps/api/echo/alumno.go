package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core/entrega"
	"github.com/unmsm/scorely/core/grupo"
)

type alumnoApi struct {
	grupoSvc   grupo.Service
	entregaSvc entrega.Service
}

func registerAlumnoAPI(g *echo.Group, grupoSvc grupo.Service, entregaSvc entrega.Service) {
	api := alumnoApi{grupoSvc: grupoSvc, entregaSvc: entregaSvc}

	g.GET("/alumnos/:idAlumno/seccion/:idSeccion/grupo", api.grupoPorAlumno)
	g.GET("/secciones/:idSeccion/alumnos", api.alumnosSeccion)
	g.GET("/secciones/:idSeccion/alumnos/:idAlumno", api.alumnoSeccion)
}

// grupoPorAlumno returns the student's group dashboard, or a JSON null body
// when the student has no group in the section yet.
func (api *alumnoApi) grupoPorAlumno(ctx echo.Context) error {
	idAlumno, err := intParam(ctx, "idAlumno")
	if err != nil {
		return err
	}
	idSeccion, err := intParam(ctx, "idSeccion")
	if err != nil {
		return err
	}

	info, err := api.grupoSvc.InfoPorAlumno(ctx.Request().Context(), idSeccion, idAlumno)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, info)
}

func (api *alumnoApi) alumnosSeccion(ctx echo.Context) error {
	idSeccion, err := intParam(ctx, "idSeccion")
	if err != nil {
		return err
	}

	alumnos, err := api.entregaSvc.AlumnosSeccion(ctx.Request().Context(), idSeccion)
	if err != nil {
		return errors.Wrap(err, "querying alumnos")
	}
	return ctx.JSON(http.StatusOK, alumnos)
}

func (api *alumnoApi) alumnoSeccion(ctx echo.Context) error {
	idSeccion, err := intParam(ctx, "idSeccion")
	if err != nil {
		return err
	}
	idAlumno, err := intParam(ctx, "idAlumno")
	if err != nil {
		return err
	}

	row, err := api.entregaSvc.AlumnoEnSeccion(ctx.Request().Context(), idSeccion, idAlumno)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, row)
}
