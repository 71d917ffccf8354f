package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unmsm/scorely/core/grupo"
	"github.com/unmsm/scorely/core/person"
	"github.com/unmsm/scorely/core/seccion"
	"github.com/unmsm/scorely/core/tarea"
)

// addAlumno enrolls a second student so groups can be formed.
func (f *fixture) addAlumno(nombres, apellido, correo, codigo string) person.Alumno {
	p := f.db.AddPersona(person.Persona{Nombres: nombres, ApellidoP: apellido, Correo: correo})
	a := f.db.AddAlumno(person.Alumno{PersonaID: p.ID, CodigoAlumno: codigo})
	f.db.AddMembership(seccion.Membership{AlumnoID: a.ID, SeccionID: f.secc.ID})
	return a
}

func Test_grupoApi_flow(t *testing.T) {
	f := setup(t)
	al2 := f.addAlumno("Maria", "Perez", "maria@test.pe", "20240002")
	tg := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "TG1", Tipo: tarea.TipoGrupal})

	t.Run("too small", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{
			"nombreGrupo": "Solo", "seccionId": f.secc.ID, "alumnoIds": []int{f.alumno.ID},
		})
		req, rec := newRequest(http.MethodPost, "/api/grupos", body)
		f.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	var g grupo.Response
	t.Run("creates", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{
			"nombreGrupo": "Equipo 1", "seccionId": f.secc.ID, "alumnoIds": []int{f.alumno.ID, al2.ID},
		})
		req, rec := newRequest(http.MethodPost, "/api/grupos", body)
		f.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		unmarchallObj(t, rec.Body.Bytes(), &g)
		assert.NotZero(t, g.ID)
		assert.Equal(t, "Equipo 1", g.NombreGrupo)
		assert.Equal(t, 2, g.CantidadAlumnos)
	})

	t.Run("integrantes are full names", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/grupos/"+itoa(g.ID)+"/integrantes")
		f.app.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []string{"Jose Lopez", "Maria Perez"}),
		}, rec)
	})

	t.Run("group submission feeds the student group view", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"idTarea": tg.ID, "idGrupo": g.ID, "nota": 18.0})
		req, rec := newRequest(http.MethodPost, "/api/entregas/grupal", body)
		f.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		req, rec = newRequest(http.MethodGet, "/api/alumnos/"+itoa(al2.ID)+"/seccion/"+itoa(f.secc.ID)+"/grupo")
		f.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var info grupo.Info
		unmarchallObj(t, rec.Body.Bytes(), &info)
		assert.Equal(t, "Equipo 1", info.NombreGrupo)
		assert.Equal(t, "Algebra", info.NombreSeccion)
		assert.Equal(t, 2, info.CantidadIntegrantes)
		assert.Equal(t, 1, info.TotalTareas)
		require.True(t, info.PromedioActual.Valid)
		assert.Equal(t, 18.0, info.PromedioActual.Float64)
	})

	t.Run("ungrouped student gets null", func(t *testing.T) {
		al3 := f.addAlumno("Luis", "Rojas", "luis@test.pe", "20240003")

		req, rec := newRequest(http.MethodGet, "/api/alumnos/"+itoa(al3.ID)+"/seccion/"+itoa(f.secc.ID)+"/grupo")
		f.app.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte("null")}, rec)
	})

	t.Run("unenrolled student is a bad request", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/alumnos/999/seccion/"+itoa(f.secc.ID)+"/grupo")
		f.app.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"idAlumno": "is not enrolled in this section"}),
		}, rec)
	})

	t.Run("deletes and frees the members", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/api/grupos/"+itoa(g.ID))
		f.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		req, rec = newRequest(http.MethodGet, "/api/grupos/seccion/"+itoa(f.secc.ID)+"/alumnos-disponibles")
		f.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var disponibles []grupo.Alumno
		unmarchallObj(t, rec.Body.Bytes(), &disponibles)
		assert.Len(t, disponibles, 3)
	})
}
