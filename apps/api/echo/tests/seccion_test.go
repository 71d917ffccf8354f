package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unmsm/scorely/core/person"
	"github.com/unmsm/scorely/core/seccion"
)

// seccionEnvelope mirrors the wire shape of the section endpoints.
type seccionEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Seccion *seccion.Seccion `json:"seccion,omitempty"`
}

func Test_seccionApi_crear(t *testing.T) {
	f := setup(t)

	t.Run("creates", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"nombreCurso": "Calculo", "anio": 2024, "id_profesor": f.prof.ID})
		req, rec := newRequest(http.MethodPost, "/api/secciones", body)
		f.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp seccionEnvelope
		unmarchallObj(t, rec.Body.Bytes(), &resp)
		assert.True(t, resp.Success)
		assert.Equal(t, "Sección creada correctamente", resp.Message)
		require.NotNil(t, resp.Seccion)
		assert.NotZero(t, resp.Seccion.ID)
		assert.Equal(t, "Calculo", resp.Seccion.NombreCurso)
	})

	t.Run("duplicate conflicts as 400", func(t *testing.T) {
		// "Algebra" 2024 is seeded for this professor
		body := marchallObj(t, map[string]interface{}{"nombreCurso": "ALGEBRA", "anio": 2024, "id_profesor": f.prof.ID})
		req, rec := newRequest(http.MethodPost, "/api/secciones", body)
		f.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp seccionEnvelope
		unmarchallObj(t, rec.Body.Bytes(), &resp)
		assert.False(t, resp.Success)
		assert.Nil(t, resp.Seccion)
	})

	t.Run("invalid anio", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"nombreCurso": "Fisica", "anio": 1999, "id_profesor": f.prof.ID})
		req, rec := newRequest(http.MethodPost, "/api/secciones", body)
		f.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp seccionEnvelope
		unmarchallObj(t, rec.Body.Bytes(), &resp)
		assert.False(t, resp.Success)
	})

	t.Run("unknown profesor", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"nombreCurso": "Fisica", "anio": 2024, "id_profesor": 999})
		req, rec := newRequest(http.MethodPost, "/api/secciones", body)
		f.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_seccionApi_editar(t *testing.T) {
	f := setup(t)

	body := marchallObj(t, map[string]interface{}{"nombreCurso": "Algebra Lineal", "anio": 2024})
	path := "/api/secciones/" + itoa(f.secc.ID) + "/profesor/" + itoa(f.prof.ID)
	req, rec := newRequest(http.MethodPut, path, body)
	f.app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp seccionEnvelope
	unmarchallObj(t, rec.Body.Bytes(), &resp)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Seccion)
	assert.Equal(t, "Algebra Lineal", resp.Seccion.NombreCurso)
}

func Test_seccionApi_eliminar(t *testing.T) {
	f := setup(t)

	t.Run("non-owner is forbidden", func(t *testing.T) {
		p2 := f.db.AddPersona(person.Persona{Nombres: "Luis", Correo: "luis@test.pe"})
		prof2 := f.db.AddProfesor(person.Profesor{PersonaID: p2.ID})

		req, rec := newRequest(http.MethodDelete, "/api/secciones/"+itoa(f.secc.ID)+"/profesor/"+itoa(prof2.ID))
		f.app.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, seccionEnvelope{Message: "No tiene permiso para eliminar esta sección"}),
		}, rec)
	})

	t.Run("unknown section is reported in the envelope", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/api/secciones/999/profesor/"+itoa(f.prof.ID))
		f.app.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, seccionEnvelope{Message: "No se pudo eliminar la sección"}),
		}, rec)
	})

	t.Run("owner deletes", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/api/secciones/"+itoa(f.secc.ID)+"/profesor/"+itoa(f.prof.ID))
		f.app.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, seccionEnvelope{Success: true, Message: "Sección eliminada correctamente"}),
		}, rec)
	})
}

func Test_seccionApi_porProfesor(t *testing.T) {
	f := setup(t)

	req, rec := newRequest(http.MethodGet, "/api/secciones/profesor/"+itoa(f.prof.ID))
	f.app.ServeHTTP(rec, req)

	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, []seccion.Seccion{f.secc}),
	}, rec)
}
