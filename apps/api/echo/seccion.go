package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/person"
	"github.com/unmsm/scorely/core/seccion"
)

type seccionApi struct {
	svc       seccion.Service
	personSvc person.Service
}

// seccionResponse is the historic envelope of the section endpoints.
type seccionResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Seccion *seccion.Seccion `json:"seccion,omitempty"`
}

func registerSeccionAPI(g *echo.Group, svc seccion.Service, personSvc person.Service) {
	api := seccionApi{svc: svc, personSvc: personSvc}

	sg := g.Group("/secciones")
	sg.POST("", api.crear)
	sg.PUT("/:idSeccion/profesor/:idProfesor", api.editar)
	sg.DELETE("/:idSeccion/profesor/:idProfesor", api.eliminar)
	sg.GET("/profesor/:idProfesor", api.porProfesor)
	sg.GET("/profesor/:idProfesor/anio/:anio", api.porProfesorAnio)
	sg.GET("/alumno/:idAlumno/anio/:anio", api.porAlumnoAnio)
	sg.GET("/profesor-id/:idPersona", api.profesorPorPersona)
}

func (api *seccionApi) crear(ctx echo.Context) error {
	var data seccion.NewSeccion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSeccion")
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return api.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, seccionResponse{
		Success: true,
		Message: "Sección creada correctamente",
		Seccion: &s,
	})
}

func (api *seccionApi) editar(ctx echo.Context) error {
	idSeccion, err := intParam(ctx, "idSeccion")
	if err != nil {
		return err
	}
	idProfesor, err := intParam(ctx, "idProfesor")
	if err != nil {
		return err
	}
	var data seccion.EditSeccion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EditSeccion")
	}

	s, err := api.svc.Edit(ctx.Request().Context(), idSeccion, idProfesor, data)
	if err != nil {
		return api.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, seccionResponse{
		Success: true,
		Message: "Sección actualizada correctamente",
		Seccion: &s,
	})
}

// eliminar flattens the delete outcome into the historic boolean envelope;
// only ownership failures get a distinct status.
func (api *seccionApi) eliminar(ctx echo.Context) error {
	idSeccion, err := intParam(ctx, "idSeccion")
	if err != nil {
		return err
	}
	idProfesor, err := intParam(ctx, "idProfesor")
	if err != nil {
		return err
	}

	outcome, err := api.svc.Delete(ctx.Request().Context(), idSeccion, idProfesor)
	if err != nil {
		return errors.Wrap(err, "deleting seccion")
	}
	switch outcome {
	case seccion.DeleteOK:
		return ctx.JSON(http.StatusOK, seccionResponse{
			Success: true,
			Message: "Sección eliminada correctamente",
		})
	case seccion.DeleteForbidden:
		return ctx.JSON(http.StatusForbidden, seccionResponse{
			Success: false,
			Message: "No tiene permiso para eliminar esta sección",
		})
	default:
		return ctx.JSON(http.StatusOK, seccionResponse{
			Success: false,
			Message: "No se pudo eliminar la sección",
		})
	}
}

// fail renders domain errors in the section envelope, keeping the historic
// status mapping (validation and conflicts as 400, unknown ids as 404).
func (api *seccionApi) fail(ctx echo.Context, err error) error {
	resp := seccionResponse{Success: false, Message: err.Error()}
	switch {
	case core.IsNotFound(err):
		return ctx.JSON(http.StatusNotFound, resp)
	case core.IsConflict(err), core.IsPermission(err):
		return ctx.JSON(http.StatusBadRequest, resp)
	default:
		if _, ok := errors.Cause(err).(*core.ValidationError); ok {
			return ctx.JSON(http.StatusBadRequest, resp)
		}
		return err
	}
}

func (api *seccionApi) porProfesor(ctx echo.Context) error {
	idProfesor, err := intParam(ctx, "idProfesor")
	if err != nil {
		return err
	}

	secciones, err := api.svc.PorProfesor(ctx.Request().Context(), idProfesor)
	if err != nil {
		return errors.Wrap(err, "querying secciones")
	}
	return ctx.JSON(http.StatusOK, secciones)
}

func (api *seccionApi) porProfesorAnio(ctx echo.Context) error {
	idProfesor, err := intParam(ctx, "idProfesor")
	if err != nil {
		return err
	}
	anio, err := intParam(ctx, "anio")
	if err != nil {
		return err
	}

	secciones, err := api.svc.PorProfesorAnio(ctx.Request().Context(), idProfesor, anio)
	if err != nil {
		return errors.Wrap(err, "querying secciones")
	}
	return ctx.JSON(http.StatusOK, secciones)
}

func (api *seccionApi) porAlumnoAnio(ctx echo.Context) error {
	idAlumno, err := intParam(ctx, "idAlumno")
	if err != nil {
		return err
	}
	anio, err := intParam(ctx, "anio")
	if err != nil {
		return err
	}

	secciones, err := api.svc.PorAlumnoAnio(ctx.Request().Context(), idAlumno, anio)
	if err != nil {
		return errors.Wrap(err, "querying secciones")
	}
	return ctx.JSON(http.StatusOK, secciones)
}

func (api *seccionApi) profesorPorPersona(ctx echo.Context) error {
	idPersona, err := intParam(ctx, "idPersona")
	if err != nil {
		return err
	}

	prof, err := api.personSvc.ProfesorPorPersona(ctx.Request().Context(), idPersona)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prof)
}
