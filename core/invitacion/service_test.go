package invitacion_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/invitacion"
	"github.com/unmsm/scorely/core/person"
	"github.com/unmsm/scorely/core/seccion"
	"github.com/unmsm/scorely/services/email"
	"github.com/unmsm/scorely/storage/database/dummy"
)

type fixture struct {
	db     *dummydb.DB
	svc    invitacion.Service
	secc   seccion.Seccion
	alumno person.Alumno
}

func setup(t *testing.T) fixture {
	db, err := dummydb.Open()
	require.NoError(t, err)

	pProf := db.AddPersona(person.Persona{Nombres: "Ana", Correo: "ana@test.pe"})
	prof := db.AddProfesor(person.Profesor{PersonaID: pProf.ID})
	secc := db.AddSeccion(seccion.Seccion{NombreCurso: "Algebra", Anio: 2024, ProfesorID: prof.ID})

	pAl := db.AddPersona(person.Persona{Nombres: "Jose", Correo: "jose@test.pe"})
	alumno := db.AddAlumno(person.Alumno{PersonaID: pAl.ID})

	svc := invitacion.NewService(
		nil,
		dummydb.NewInvitacionRepository(db),
		dummydb.NewSeccionRepository(db),
		dummydb.NewPersonaRepository(db),
		dummydb.NewGrupoRepository(db),
		emailsvc.NewConsoleServiceMock(),
	)
	return fixture{db: db, svc: svc, secc: secc, alumno: alumno}
}

func Test_service_Crear(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	t.Run("unknown section", func(t *testing.T) {
		_, err := f.svc.Crear(ctx, invitacion.NewInvitacion{Correo: "jose@test.pe", SeccionID: 999})
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("creates and mails the accept link", func(t *testing.T) {
		sentBefore := len(emailsvc.SentMessages)

		inv, err := f.svc.Crear(ctx, invitacion.NewInvitacion{Correo: "Jose@Test.pe ", SeccionID: f.secc.ID})
		require.NoError(t, err)
		assert.NotZero(t, inv.ID)
		assert.NotEmpty(t, inv.Token)
		assert.Equal(t, "jose@test.pe", inv.Correo)
		assert.Equal(t, invitacion.EstadoPendiente, inv.Estado)
		assert.Equal(t, "Algebra", inv.NombreCurso)

		require.Len(t, emailsvc.SentMessages, sentBefore+1)
		msg := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
		assert.Equal(t, "jose@test.pe", msg.To[0].Address)
		assert.True(t, strings.Contains(msg.BodyStr, "invitacion="))
	})
}

func Test_service_PorToken(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	inv, err := f.svc.Crear(ctx, invitacion.NewInvitacion{Correo: "jose@test.pe", SeccionID: f.secc.ID})
	require.NoError(t, err)

	t.Run("resolves with section details", func(t *testing.T) {
		got, err := f.svc.PorToken(ctx, inv.Token)
		require.NoError(t, err)
		assert.Equal(t, inv.ID, got.ID)
		assert.Equal(t, "Algebra", got.NombreCurso)
	})

	t.Run("expired invitation conflicts", func(t *testing.T) {
		invitacion.NowFunc = func() time.Time {
			return time.Now().Add(core.Conf.InvitationExpirationDelta + 24*time.Hour)
		}
		defer func() { invitacion.NowFunc = time.Now }()

		_, err := f.svc.PorToken(ctx, inv.Token)
		assert.True(t, core.IsConflict(err))
	})
}

func Test_service_Aceptar(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	inv, err := f.svc.Crear(ctx, invitacion.NewInvitacion{Correo: "jose@test.pe", SeccionID: f.secc.ID})
	require.NoError(t, err)

	t.Run("bad token", func(t *testing.T) {
		_, err := f.svc.Aceptar(ctx, "nope", f.alumno.PersonaID)
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("expired invitation conflicts", func(t *testing.T) {
		invitacion.NowFunc = func() time.Time {
			return time.Now().Add(core.Conf.InvitationExpirationDelta + 24*time.Hour)
		}
		defer func() { invitacion.NowFunc = time.Now }()

		_, err := f.svc.Aceptar(ctx, inv.Token, f.alumno.PersonaID)
		assert.True(t, core.IsConflict(err))
	})

	t.Run("accepting enrolls the student", func(t *testing.T) {
		got, err := f.svc.Aceptar(ctx, inv.Token, f.alumno.PersonaID)
		require.NoError(t, err)
		assert.Equal(t, invitacion.EstadoAceptada, got.Estado)

		enrolled, err := dummydb.NewGrupoRepository(f.db).ExistsMembership(ctx, f.alumno.ID, f.secc.ID)
		require.NoError(t, err)
		assert.True(t, enrolled)
	})

	t.Run("resolved invitation cannot be accepted again", func(t *testing.T) {
		_, err := f.svc.Aceptar(ctx, inv.Token, f.alumno.PersonaID)
		assert.True(t, core.IsConflict(err))
	})
}

func Test_service_Rechazar(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	inv, err := f.svc.Crear(ctx, invitacion.NewInvitacion{Correo: "jose@test.pe", SeccionID: f.secc.ID})
	require.NoError(t, err)

	got, err := f.svc.Rechazar(ctx, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, invitacion.EstadoRechazada, got.Estado)

	_, err = f.svc.Rechazar(ctx, inv.Token)
	assert.True(t, core.IsConflict(err))
}

func Test_service_PendientesPorCorreo(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	inv, err := f.svc.Crear(ctx, invitacion.NewInvitacion{Correo: "jose@test.pe", SeccionID: f.secc.ID})
	require.NoError(t, err)

	pendientes, err := f.svc.PendientesPorCorreo(ctx, "JOSE@test.pe")
	require.NoError(t, err)
	require.Len(t, pendientes, 1)
	assert.Equal(t, inv.ID, pendientes[0].ID)
	assert.Equal(t, "Algebra", pendientes[0].NombreCurso)
	assert.Equal(t, 2024, pendientes[0].Anio)

	_, err = f.svc.Rechazar(ctx, inv.Token)
	require.NoError(t, err)

	pendientes, err = f.svc.PendientesPorCorreo(ctx, "jose@test.pe")
	require.NoError(t, err)
	assert.Empty(t, pendientes)
}
