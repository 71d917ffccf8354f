package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/unmsm/scorely/core/entrega"
	"github.com/unmsm/scorely/core/tarea"
)

func Test_entregaApi_registrarIndividual(t *testing.T) {
	f := setup(t)
	ta := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "PC1", Tipo: tarea.TipoIndividual})

	t.Run("nota out of range", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"idTarea": ta.ID, "idAlumno": f.alumno.ID, "nota": 20.5})
		req, rec := newRequest(http.MethodPost, "/api/entregas", body)
		f.app.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"nota": "must be between 0 and 20"}),
		}, rec)
	})

	t.Run("missing nota", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"idTarea": ta.ID, "idAlumno": f.alumno.ID})
		req, rec := newRequest(http.MethodPost, "/api/entregas", body)
		f.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown tarea", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"idTarea": 999, "idAlumno": f.alumno.ID, "nota": 14.5})
		req, rec := newRequest(http.MethodPost, "/api/entregas", body)
		f.app.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "tarea not found"}),
		}, rec)
	})

	t.Run("registers", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"idTarea": ta.ID, "idAlumno": f.alumno.ID, "nota": 14.5})
		req, rec := newRequest(http.MethodPost, "/api/entregas", body)
		f.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp struct {
			IDEntrega int `json:"idEntrega"`
		}
		unmarchallObj(t, rec.Body.Bytes(), &resp)
		assert.NotZero(t, resp.IDEntrega)
	})
}

func Test_entregaApi_actualizarNota(t *testing.T) {
	f := setup(t)
	ta := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "PC1", Tipo: tarea.TipoIndividual})

	register := func(t *testing.T, nota float64) int {
		t.Helper()
		body := marchallObj(t, map[string]interface{}{"idTarea": ta.ID, "idAlumno": f.alumno.ID, "nota": nota})
		req, rec := newRequest(http.MethodPost, "/api/entregas", body)
		f.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			IDEntrega int `json:"idEntrega"`
		}
		unmarchallObj(t, rec.Body.Bytes(), &resp)
		return resp.IDEntrega
	}

	idEntrega := register(t, 10)

	t.Run("by id", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"nota": 18.0})
		req, rec := newRequest(http.MethodPut, "/api/entregas/"+itoa(idEntrega)+"/nota", body)
		f.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("by tarea and alumno", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"nota": 16.0})
		path := "/api/entregas/tarea/" + itoa(ta.ID) + "/alumno/" + itoa(f.alumno.ID) + "/nota"
		req, rec := newRequest(http.MethodPut, path, body)
		f.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unknown entrega", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"nota": 16.0})
		req, rec := newRequest(http.MethodPut, "/api/entregas/999/nota", body)
		f.app.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "entrega not found"}),
		}, rec)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{"nota": 16.0})
		req, rec := newRequest(http.MethodPut, "/api/entregas/lol/nota", body)
		f.app.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"idEntrega": "must be a number"}),
		}, rec)
	})
}

func Test_entregaApi_tareasNotasAlumno(t *testing.T) {
	f := setup(t)
	submitted := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "PC1", Tipo: tarea.TipoIndividual})
	pending := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "PC2", Tipo: tarea.TipoIndividual})

	body := marchallObj(t, map[string]interface{}{"idTarea": submitted.ID, "idAlumno": f.alumno.ID, "nota": 16.0})
	req, rec := newRequest(http.MethodPost, "/api/entregas", body)
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		IDEntrega int `json:"idEntrega"`
	}
	unmarchallObj(t, rec.Body.Bytes(), &created)

	path := "/api/entregas/seccion/" + itoa(f.secc.ID) + "/alumno/" + itoa(f.alumno.ID) + "/tareas-notas"
	req, rec = newRequest(http.MethodGet, path)
	f.app.ServeHTTP(rec, req)

	// the pending assignment is listed with null grade fields
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, []entrega.TareaNota{
			{TareaID: submitted.ID, NombreTarea: "PC1", EntregaID: null.IntFrom(created.IDEntrega), Nota: null.Float64From(16)},
			{TareaID: pending.ID, NombreTarea: "PC2"},
		}),
	}, rec)
}

func Test_alumnoApi_alumnosSeccion(t *testing.T) {
	f := setup(t)
	ta := f.db.AddTarea(tarea.Tarea{SeccionID: f.secc.ID, Nombre: "PC1", Tipo: tarea.TipoIndividual})

	body := marchallObj(t, map[string]interface{}{"idTarea": ta.ID, "idAlumno": f.alumno.ID, "nota": 16.0})
	req, rec := newRequest(http.MethodPost, "/api/entregas", body)
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req, rec = newRequest(http.MethodGet, "/api/secciones/"+itoa(f.secc.ID)+"/alumnos")
	f.app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []entrega.AlumnoSeccion
	unmarchallObj(t, rec.Body.Bytes(), &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jose Lopez", rows[0].NombreCompleto)
	assert.Equal(t, "20240001", rows[0].CodigoAlumno)
	require.True(t, rows[0].PromedioFinal.Valid)
	assert.Equal(t, 16.0, rows[0].PromedioFinal.Float64)
}
