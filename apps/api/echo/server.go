package echoapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/entrega"
	"github.com/unmsm/scorely/core/grupo"
	"github.com/unmsm/scorely/core/invitacion"
	"github.com/unmsm/scorely/core/person"
	"github.com/unmsm/scorely/core/seccion"
	"github.com/unmsm/scorely/core/tarea"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger         core.Logger
		PersonSvc      person.Service
		SeccionSvc     seccion.Service
		TareaSvc       tarea.Service
		EntregaSvc     entrega.Service
		GrupoSvc       grupo.Service
		InvitacionSvc  invitacion.Service
		SignalShutdown func()
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.SignalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")

	registerEntregaAPI(api, s.opts.EntregaSvc)
	registerGrupoAPI(api, s.opts.GrupoSvc)
	registerSeccionAPI(api, s.opts.SeccionSvc, s.opts.PersonSvc)
	registerTareaAPI(api, s.opts.TareaSvc)
	registerAlumnoAPI(api, s.opts.GrupoSvc, s.opts.EntregaSvc)
	registerInvitacionAPI(api, s.opts.InvitacionSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Scorely API!")
}

// intParam parses a numeric path parameter.
func intParam(ctx echo.Context, name string) (int, error) {
	val, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, core.NewValidationError(errors.New(name+" must be a number"),
			core.FieldError{Field: name, Error: "must be a number"})
	}
	return val, nil
}
