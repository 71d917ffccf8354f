package entrega

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Entrega is one graded attempt at a Tarea, by a student or a group.
// Rows accumulate as history; "the grade" for a (tarea, alumno|grupo) pair is
// the nota of the most recent row.
type Entrega struct {
	ID           int          `json:"idEntrega" db:"id_entrega"`
	TareaID      int          `json:"idTarea" db:"id_tarea"`
	Nota         null.Float64 `json:"nota" db:"nota"`
	FechaEntrega time.Time    `json:"fechaEntrega" db:"fecha_entrega"` // UTC
}

// TareaNota is one row of the per-assignment grade view. Assignments without
// a submission appear with null idEntrega/nota, meaning "not yet submitted".
type TareaNota struct {
	TareaID     int          `json:"idTarea"`
	NombreTarea string       `json:"nombreTarea"`
	EntregaID   null.Int     `json:"idEntrega"`
	Nota        null.Float64 `json:"nota"`
}

// AlumnoSeccion is the roster row for a student within a section, with the
// student's current average over the latest submission per assignment.
type AlumnoSeccion struct {
	IDAlumno        int          `json:"idAlumno"`
	IDPersona       int          `json:"idPersona"`
	NombreCompleto  string       `json:"nombreCompleto"`
	Nombres         string       `json:"nombres"`
	ApellidoPaterno string       `json:"apellidoPaterno"`
	ApellidoMaterno string       `json:"apellidoMaterno"`
	Correo          string       `json:"correo"`
	CodigoAlumno    string       `json:"codigoAlumno"`
	PromedioFinal   null.Float64 `json:"promedioFinal"`
	IDSeccion       int          `json:"idSeccion"`
	NombreCurso     string       `json:"nombreCurso"`
}

// RegistrarEntrega contains information needed to register a graded
// submission, individual (idAlumno) or group (idGrupo).
type RegistrarEntrega struct {
	TareaID  int      `json:"idTarea" validate:"required"`
	AlumnoID int      `json:"idAlumno"`
	GrupoID  int      `json:"idGrupo"`
	Nota     *float64 `json:"nota"`
}

// ActualizarNota carries a replacement grade.
type ActualizarNota struct {
	Nota *float64 `json:"nota"`
}
