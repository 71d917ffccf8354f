package entrega_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/entrega"
	"github.com/unmsm/scorely/core/grupo"
	"github.com/unmsm/scorely/core/person"
	"github.com/unmsm/scorely/core/seccion"
	"github.com/unmsm/scorely/core/tarea"
	"github.com/unmsm/scorely/storage/database/dummy"
)

func fPtr(f float64) *float64 { return &f }

type fixture struct {
	db     *dummydb.DB
	svc    entrega.Service
	alumno person.Alumno
	secc   seccion.Seccion
}

func setup(t *testing.T) fixture {
	db, err := dummydb.Open()
	require.NoError(t, err)

	pProf := db.AddPersona(person.Persona{Nombres: "Ana", Correo: "ana@test.pe"})
	prof := db.AddProfesor(person.Profesor{PersonaID: pProf.ID})
	pAl := db.AddPersona(person.Persona{Nombres: "Jose", ApellidoP: "Lopez", Correo: "jose@test.pe"})
	alumno := db.AddAlumno(person.Alumno{PersonaID: pAl.ID, CodigoAlumno: "20240001"})
	secc := db.AddSeccion(seccion.Seccion{NombreCurso: "Algebra", Anio: 2024, ProfesorID: prof.ID})
	db.AddMembership(seccion.Membership{AlumnoID: alumno.ID, SeccionID: secc.ID})

	grupoRepo := dummydb.NewGrupoRepository(db)
	svc := entrega.NewService(
		nil,
		dummydb.NewEntregaRepository(db),
		dummydb.NewTareaRepository(db),
		dummydb.NewPersonaRepository(db),
		grupoRepo,
		grupoRepo,
	)
	return fixture{db: db, svc: svc, alumno: alumno, secc: secc}
}

func Test_service_RegistrarIndividual(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	ta := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "PC1", Tipo: tarea.TipoIndividual})

	t.Run("grade bounds", func(t *testing.T) {
		tests := []struct {
			name    string
			nota    *float64
			wantErr bool
		}{
			{name: "nil", nota: nil, wantErr: true},
			{name: "negative", nota: fPtr(-0.5), wantErr: true},
			{name: "over 20", nota: fPtr(20.5), wantErr: true},
			{name: "zero", nota: fPtr(0)},
			{name: "twenty", nota: fPtr(20)},
			{name: "mid", nota: fPtr(14.5)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.svc.RegistrarIndividual(ctx, ta.ID, f.alumno.ID, tt.nota)
				if tt.wantErr {
					var vErr *core.ValidationError
					require.ErrorAs(t, err, &vErr)
				} else {
					require.NoError(t, err)
				}
			})
		}
	})

	t.Run("unknown tarea", func(t *testing.T) {
		_, err := f.svc.RegistrarIndividual(ctx, 999, f.alumno.ID, fPtr(10))
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("unknown alumno", func(t *testing.T) {
		_, err := f.svc.RegistrarIndividual(ctx, ta.ID, 999, fPtr(10))
		assert.True(t, core.IsNotFound(err))
	})
}

func Test_service_RegistrarGrupal(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	grupoRepo := dummydb.NewGrupoRepository(f.db)
	g, err := grupoRepo.CreateGrupo(ctx, grupo.Grupo{SeccionID: f.secc.ID, Nombre: "Equipo 1"})
	require.NoError(t, err)

	individual := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "PC1", Tipo: tarea.TipoIndividual})
	grupal := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "TG1", Tipo: tarea.TipoGrupal})

	t.Run("rejects non-grupal tarea even with valid grade", func(t *testing.T) {
		_, err := f.svc.RegistrarGrupal(ctx, individual.ID, g.ID, fPtr(15))
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("unknown grupo", func(t *testing.T) {
		_, err := f.svc.RegistrarGrupal(ctx, grupal.ID, 999, fPtr(15))
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("registers", func(t *testing.T) {
		e, err := f.svc.RegistrarGrupal(ctx, grupal.ID, g.ID, fPtr(15))
		require.NoError(t, err)
		assert.NotZero(t, e.ID)
		assert.Equal(t, 15.0, e.Nota.Float64)
	})
}

func Test_service_ActualizarNota(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	ta := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "PC1", Tipo: tarea.TipoIndividual})

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	entrega.NowFunc = func() time.Time { return base }
	first, err := f.svc.RegistrarIndividual(ctx, ta.ID, f.alumno.ID, fPtr(10))
	require.NoError(t, err)

	entrega.NowFunc = func() time.Time { return base.Add(time.Hour) }
	second, err := f.svc.RegistrarIndividual(ctx, ta.ID, f.alumno.ID, fPtr(12))
	require.NoError(t, err)
	entrega.NowFunc = time.Now // reset

	t.Run("by id targets the exact row", func(t *testing.T) {
		require.NoError(t, f.svc.ActualizarNotaPorID(ctx, first.ID, fPtr(11)))

		rows, err := dummydb.NewEntregaRepository(f.db).QueryByTareaAlumno(ctx, ta.ID, f.alumno.ID)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		// latest row untouched
		assert.Equal(t, second.ID, rows[0].ID)
		assert.Equal(t, 12.0, rows[0].Nota.Float64)
		assert.Equal(t, 11.0, rows[1].Nota.Float64)
	})

	t.Run("by pair targets the most recent row", func(t *testing.T) {
		require.NoError(t, f.svc.ActualizarNotaPorTareaYAlumno(ctx, ta.ID, f.alumno.ID, fPtr(18)))

		rows, err := dummydb.NewEntregaRepository(f.db).QueryByTareaAlumno(ctx, ta.ID, f.alumno.ID)
		require.NoError(t, err)
		assert.Equal(t, 18.0, rows[0].Nota.Float64)
		assert.Equal(t, 11.0, rows[1].Nota.Float64)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		err := f.svc.ActualizarNotaPorID(ctx, 999, fPtr(10))
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("pair without history is not found", func(t *testing.T) {
		err := f.svc.ActualizarNotaPorTareaYGrupo(ctx, ta.ID, 999, fPtr(10))
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("invalid grade rejected before lookup", func(t *testing.T) {
		err := f.svc.ActualizarNotaPorID(ctx, first.ID, fPtr(21))
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}

func Test_service_TareasNotasAlumno(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	submitted := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "PC1", Tipo: tarea.TipoIndividual})
	pending := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "PC2", Tipo: tarea.TipoIndividual})

	e, err := f.svc.RegistrarIndividual(ctx, submitted.ID, f.alumno.ID, fPtr(16))
	require.NoError(t, err)

	rows, err := f.svc.TareasNotasAlumno(ctx, f.secc.ID, f.alumno.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byTarea := map[int]entrega.TareaNota{}
	for _, r := range rows {
		byTarea[r.TareaID] = r
	}
	assert.Equal(t, e.ID, byTarea[submitted.ID].EntregaID.Int)
	assert.Equal(t, 16.0, byTarea[submitted.ID].Nota.Float64)
	// unsubmitted assignment still listed, with null grade fields
	assert.False(t, byTarea[pending.ID].EntregaID.Valid)
	assert.False(t, byTarea[pending.ID].Nota.Valid)
}

func Test_service_AlumnosSeccion(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	ta1 := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "PC1", Tipo: tarea.TipoIndividual})
	ta2 := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "PC2", Tipo: tarea.TipoIndividual})

	t.Run("no submissions yields null average", func(t *testing.T) {
		rows, err := f.svc.AlumnosSeccion(ctx, f.secc.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Jose Lopez", rows[0].NombreCompleto)
		assert.False(t, rows[0].PromedioFinal.Valid)
	})

	t.Run("zeros count toward the student average", func(t *testing.T) {
		_, err := f.svc.RegistrarIndividual(ctx, ta1.ID, f.alumno.ID, fPtr(0))
		require.NoError(t, err)
		_, err = f.svc.RegistrarIndividual(ctx, ta2.ID, f.alumno.ID, fPtr(16))
		require.NoError(t, err)

		row, err := f.svc.AlumnoEnSeccion(ctx, f.secc.ID, f.alumno.ID)
		require.NoError(t, err)
		require.True(t, row.PromedioFinal.Valid)
		assert.Equal(t, 8.0, row.PromedioFinal.Float64)
	})
}

func TestPromedio(t *testing.T) {
	tests := []struct {
		name  string
		notas []float64
		want  *float64
	}{
		{name: "empty is null", notas: nil, want: nil},
		{name: "single", notas: []float64{15}, want: fPtr(15)},
		{name: "rounded half-up to 2dp", notas: []float64{0, 12, 16}, want: fPtr(9.33)},
		{name: "exact", notas: []float64{12, 16}, want: fPtr(14)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entrega.Promedio(tt.notas)
			if tt.want == nil {
				assert.False(t, got.Valid)
			} else {
				require.True(t, got.Valid)
				assert.Equal(t, *tt.want, got.Float64)
			}
		})
	}
}
