package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/unmsm/scorely/apps/api/echo"
	"github.com/unmsm/scorely/core/entrega"
	"github.com/unmsm/scorely/core/grupo"
	"github.com/unmsm/scorely/core/invitacion"
	"github.com/unmsm/scorely/core/person"
	"github.com/unmsm/scorely/core/seccion"
	"github.com/unmsm/scorely/core/tarea"
	"github.com/unmsm/scorely/services/email"
	"github.com/unmsm/scorely/services/logger"
	"github.com/unmsm/scorely/storage/database/dummy"
)

type fixture struct {
	db     *dummydb.DB
	app    Server
	prof   person.Profesor
	alumno person.Alumno
	secc   seccion.Seccion
}

func setup(t *testing.T) *fixture {
	// set up DB & repos
	db, err := dummydb.Open()
	require.NoError(t, err)

	pProf := db.AddPersona(person.Persona{Nombres: "Ana", ApellidoP: "Quispe", Correo: "ana@test.pe"})
	prof := db.AddProfesor(person.Profesor{PersonaID: pProf.ID})
	secc := db.AddSeccion(seccion.Seccion{NombreCurso: "Algebra", Anio: 2024, ProfesorID: prof.ID})
	pAl := db.AddPersona(person.Persona{Nombres: "Jose", ApellidoP: "Lopez", Correo: "jose@test.pe"})
	alumno := db.AddAlumno(person.Alumno{PersonaID: pAl.ID, CodigoAlumno: "20240001"})
	db.AddMembership(seccion.Membership{AlumnoID: alumno.ID, SeccionID: secc.ID})

	personaRepo := dummydb.NewPersonaRepository(db)
	seccionRepo := dummydb.NewSeccionRepository(db)
	tareaRepo := dummydb.NewTareaRepository(db)
	entregaRepo := dummydb.NewEntregaRepository(db)
	grupoRepo := dummydb.NewGrupoRepository(db)
	invitacionRepo := dummydb.NewInvitacionRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	stdLogger := logsvc.NewStdLogger(log.New(os.Stderr, "", log.LstdFlags))

	// set up server
	app := NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         stdLogger,
			PersonSvc:      person.NewService(personaRepo),
			SeccionSvc:     seccion.NewService(seccionRepo, personaRepo),
			TareaSvc:       tarea.NewService(tareaRepo, seccionRepo),
			EntregaSvc:     entrega.NewService(nil, entregaRepo, tareaRepo, personaRepo, grupoRepo, grupoRepo),
			GrupoSvc:       grupo.NewService(nil, grupoRepo, seccionRepo, tareaRepo, entregaRepo),
			InvitacionSvc:  invitacion.NewService(nil, invitacionRepo, seccionRepo, personaRepo, grupoRepo, mailSvc),
		},
	)
	return &fixture{db: db, app: app, prof: prof, alumno: alumno, secc: secc}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func itoa(i int) string { return strconv.Itoa(i) }

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarchallObj(t *testing.T, data []byte, obj interface{}) {
	if err := json.Unmarshal(data, obj); err != nil {
		t.Fatalf("unmarchallObj() failed: %v", err)
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
