package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unmsm/scorely/apps/api/echo"
	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/entrega"
	"github.com/unmsm/scorely/core/grupo"
	"github.com/unmsm/scorely/core/invitacion"
	"github.com/unmsm/scorely/core/person"
	"github.com/unmsm/scorely/core/seccion"
	"github.com/unmsm/scorely/core/tarea"
	"github.com/unmsm/scorely/services/email"
	"github.com/unmsm/scorely/services/logger"
	"github.com/unmsm/scorely/storage/database"
	"github.com/unmsm/scorely/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, core.Conf.AppName+" ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if core.Conf.Debug || core.Conf.TestMode {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// set up DB
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		logger.Fatal("creating database", err)
	}
	db, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer func() { _ = db.Close() }()
	if err = database.Migrate(db.DB); err != nil {
		logger.Fatal("migrating database", err)
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	personRepo := sqlxrepos.NewPersonaRepository(db)
	seccionRepo := sqlxrepos.NewSeccionRepository(db)
	tareaRepo := sqlxrepos.NewTareaRepository(db)
	entregaRepo := sqlxrepos.NewEntregaRepository(db)
	grupoRepo := sqlxrepos.NewGrupoRepository(db)
	invitacionRepo := sqlxrepos.NewInvitacionRepository(db)

	personSvc := person.NewService(personRepo)
	seccionSvc := seccion.NewService(seccionRepo, personRepo)
	tareaSvc := tarea.NewService(tareaRepo, seccionRepo)
	entregaSvc := entrega.NewService(db, entregaRepo, tareaRepo, personRepo, grupoRepo, grupoRepo)
	grupoSvc := grupo.NewService(db, grupoRepo, seccionRepo, tareaRepo, entregaRepo)
	invitacionSvc := invitacion.NewService(db, invitacionRepo, seccionRepo, personRepo, grupoRepo, mailSvc)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:        core.Conf.Server.Address(),
			Logger:         logger,
			PersonSvc:      personSvc,
			SeccionSvc:     seccionSvc,
			TareaSvc:       tareaSvc,
			EntregaSvc:     entregaSvc,
			GrupoSvc:       grupoSvc,
			InvitacionSvc:  invitacionSvc,
			SignalShutdown: func() { shutdown <- syscall.SIGTERM },
		},
	)
	go app.Start()
	logger.Info("server started on " + core.Conf.Server.Address())

	<-shutdown
	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Error("stopping server", err)
	}
}
