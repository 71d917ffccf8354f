package seccion_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/person"
	"github.com/unmsm/scorely/core/seccion"
	"github.com/unmsm/scorely/storage/database/dummy"
)

func intPtr(i int) *int { return &i }

func setup(t *testing.T) (*dummydb.DB, seccion.Service, person.Profesor) {
	db, err := dummydb.Open()
	require.NoError(t, err)

	p := db.AddPersona(person.Persona{Nombres: "Ana", ApellidoP: "Quispe", Correo: "ana@test.pe"})
	prof := db.AddProfesor(person.Profesor{PersonaID: p.ID})

	svc := seccion.NewService(dummydb.NewSeccionRepository(db), dummydb.NewPersonaRepository(db))
	return db, svc, prof
}

func Test_service_Create(t *testing.T) {
	ctx := context.Background()
	_, svc, prof := setup(t)

	t.Run("blank name fails", func(t *testing.T) {
		_, err := svc.Create(ctx, seccion.NewSeccion{NombreCurso: "  ", Anio: intPtr(2024), ProfesorID: prof.ID})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("nil anio fails", func(t *testing.T) {
		_, err := svc.Create(ctx, seccion.NewSeccion{NombreCurso: "Algebra", ProfesorID: prof.ID})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("anio before 2000 fails", func(t *testing.T) {
		_, err := svc.Create(ctx, seccion.NewSeccion{NombreCurso: "Algebra", Anio: intPtr(1999), ProfesorID: prof.ID})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("unknown profesor fails", func(t *testing.T) {
		_, err := svc.Create(ctx, seccion.NewSeccion{NombreCurso: "Algebra", Anio: intPtr(2024), ProfesorID: 999})
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("first create succeeds, duplicate conflicts", func(t *testing.T) {
		s, err := svc.Create(ctx, seccion.NewSeccion{NombreCurso: "Algebra", Anio: intPtr(2024), ProfesorID: prof.ID})
		require.NoError(t, err)
		assert.NotZero(t, s.ID)
		assert.Equal(t, "Algebra", s.NombreCurso)

		// same name, case-insensitive, same year
		_, err = svc.Create(ctx, seccion.NewSeccion{NombreCurso: "ALGEBRA", Anio: intPtr(2024), ProfesorID: prof.ID})
		assert.True(t, core.IsConflict(err))

		// other year is fine
		_, err = svc.Create(ctx, seccion.NewSeccion{NombreCurso: "Algebra", Anio: intPtr(2025), ProfesorID: prof.ID})
		assert.NoError(t, err)
	})
}

func Test_service_Edit(t *testing.T) {
	ctx := context.Background()
	db, svc, prof := setup(t)

	s, err := svc.Create(ctx, seccion.NewSeccion{NombreCurso: "Algebra", Anio: intPtr(2024), ProfesorID: prof.ID})
	require.NoError(t, err)

	t.Run("non-owner is rejected", func(t *testing.T) {
		p2 := db.AddPersona(person.Persona{Nombres: "Luis", Correo: "luis@test.pe"})
		prof2 := db.AddProfesor(person.Profesor{PersonaID: p2.ID})

		_, err := svc.Edit(ctx, s.ID, prof2.ID, seccion.EditSeccion{NombreCurso: "Calculo", Anio: intPtr(2024)})
		assert.True(t, core.IsPermission(err))
	})

	t.Run("edit keeping own name does not conflict", func(t *testing.T) {
		got, err := svc.Edit(ctx, s.ID, prof.ID, seccion.EditSeccion{NombreCurso: "algebra", Anio: intPtr(2024)})
		require.NoError(t, err)
		assert.Equal(t, "algebra", got.NombreCurso)
	})

	t.Run("renaming onto a sibling conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, seccion.NewSeccion{NombreCurso: "Calculo", Anio: intPtr(2024), ProfesorID: prof.ID})
		require.NoError(t, err)

		_, err = svc.Edit(ctx, s.ID, prof.ID, seccion.EditSeccion{NombreCurso: "Calculo", Anio: intPtr(2024)})
		assert.True(t, core.IsConflict(err))
	})
}

func Test_service_Delete(t *testing.T) {
	ctx := context.Background()
	db, svc, prof := setup(t)

	s, err := svc.Create(ctx, seccion.NewSeccion{NombreCurso: "Algebra", Anio: intPtr(2024), ProfesorID: prof.ID})
	require.NoError(t, err)

	t.Run("unknown section reports not found without error", func(t *testing.T) {
		outcome, err := svc.Delete(ctx, 999, prof.ID)
		require.NoError(t, err)
		assert.Equal(t, seccion.DeleteNotFound, outcome)
	})

	t.Run("non-owner reports forbidden without error", func(t *testing.T) {
		p2 := db.AddPersona(person.Persona{Nombres: "Luis", Correo: "luis2@test.pe"})
		prof2 := db.AddProfesor(person.Profesor{PersonaID: p2.ID})

		outcome, err := svc.Delete(ctx, s.ID, prof2.ID)
		require.NoError(t, err)
		assert.Equal(t, seccion.DeleteForbidden, outcome)
	})

	t.Run("owner deletes", func(t *testing.T) {
		outcome, err := svc.Delete(ctx, s.ID, prof.ID)
		require.NoError(t, err)
		assert.Equal(t, seccion.DeleteOK, outcome)

		_, err = svc.Get(ctx, s.ID)
		assert.True(t, core.IsNotFound(err))
	})
}
