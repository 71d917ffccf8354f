package echoapi

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/invitacion"
)

type invitacionApi struct {
	svc invitacion.Service
}

type rechazarRequest struct {
	Token string `json:"token" validate:"required"`
}

type confirmarRequest struct {
	Token     string `json:"token" validate:"required"`
	PersonaID int    `json:"idPersona" validate:"required"`
}

func registerInvitacionAPI(g *echo.Group, svc invitacion.Service) {
	api := invitacionApi{svc: svc}

	ig := g.Group("/invitaciones")
	ig.POST("", api.crear)
	ig.GET("/info", api.info)
	ig.GET("/aceptar", api.aceptarRedirect)
	ig.POST("/confirmar", api.confirmar)
	ig.POST("/rechazar", api.rechazar)
	ig.GET("/pendientes", api.pendientes)
}

func (api *invitacionApi) crear(ctx echo.Context) error {
	var data invitacion.NewInvitacion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInvitacion")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	inv, err := api.svc.Crear(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, inv)
}

func (api *invitacionApi) info(ctx echo.Context) error {
	token := ctx.QueryParam("token")
	inv, err := api.svc.PorToken(ctx.Request().Context(), token)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, inv)
}

// aceptarRedirect is the target of the emailed link; it hands the token to
// the frontend, which collects the student identity and calls confirmar.
func (api *invitacionApi) aceptarRedirect(ctx echo.Context) error {
	token := ctx.QueryParam("token")
	if _, err := api.svc.PorToken(ctx.Request().Context(), token); err != nil {
		return err
	}
	target := fmt.Sprintf("%s/login?invitacion=%s", core.Conf.FrontendBaseURL, url.QueryEscape(token))
	return ctx.Redirect(http.StatusFound, target)
}

func (api *invitacionApi) confirmar(ctx echo.Context) error {
	var data confirmarRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to confirmarRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	inv, err := api.svc.Aceptar(ctx.Request().Context(), data.Token, data.PersonaID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, inv)
}

func (api *invitacionApi) rechazar(ctx echo.Context) error {
	var data rechazarRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to rechazarRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	inv, err := api.svc.Rechazar(ctx.Request().Context(), data.Token)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, inv)
}

func (api *invitacionApi) pendientes(ctx echo.Context) error {
	correo := ctx.QueryParam("correo")
	if correo == "" {
		return core.NewValidationError(errors.New("correo is required"),
			core.FieldError{Field: "correo", Error: "this field is required"})
	}

	invs, err := api.svc.PendientesPorCorreo(ctx.Request().Context(), correo)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, invs)
}
