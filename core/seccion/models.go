package seccion

import (
	"github.com/volatiletech/null/v8"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/person"
)

type Seccion struct {
	ID          int    `json:"idSeccion" db:"id_seccion"`
	NombreCurso string `json:"nombreCurso" db:"nombre_curso"`
	Anio        int    `json:"anio" db:"anio"`
	Codigo      string `json:"codigo" db:"codigo"`
	ProfesorID  int    `json:"id_profesor" db:"id_profesor"`
}

// SeccionAlumno is the student-facing section row, with the owning
// professor's full name.
type SeccionAlumno struct {
	Seccion
	NombreProfesor string `json:"nombreProfesor" db:"nombre_profesor"`
}

// Membership links an Alumno to a Seccion and, optionally, to one Grupo
// within that section. A student has at most one group per section.
type Membership struct {
	ID          int         `db:"id"`
	AlumnoID    int         `db:"id_alumno"`
	SeccionID   int         `db:"id_seccion"`
	GrupoID     null.Int    `db:"id_grupo"`
	NombreGrupo null.String `db:"nombre_grupo"`

	Alumno person.Alumno `db:"-"`
}

// NewSeccion contains information needed to create a new Seccion.
type NewSeccion struct {
	NombreCurso string `json:"nombreCurso" validate:"required"`
	Anio        *int   `json:"anio" validate:"required,gte=2000"`
	Codigo      string `json:"codigo"`
	ProfesorID  int    `json:"id_profesor" validate:"required"`
}

func (ns *NewSeccion) Validate() error {
	ns.NombreCurso = core.CleanString(ns.NombreCurso)
	ns.Codigo = core.CleanString(ns.Codigo)
	return core.Validate.Struct(ns)
}

// EditSeccion contains information needed to edit an existing Seccion.
type EditSeccion struct {
	NombreCurso string `json:"nombreCurso" validate:"required"`
	Anio        *int   `json:"anio" validate:"required,gte=2000"`
}

func (es *EditSeccion) Validate() error {
	es.NombreCurso = core.CleanString(es.NombreCurso)
	return core.Validate.Struct(es)
}

// DeleteOutcome is the tagged result of a Delete; the API boundary flattens
// it to the boolean contract.
type DeleteOutcome int

const (
	DeleteOK DeleteOutcome = iota
	DeleteNotFound
	DeleteForbidden
)
