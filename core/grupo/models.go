package grupo

import (
	"github.com/volatiletech/null/v8"

	"github.com/unmsm/scorely/core"
)

type Grupo struct {
	ID            int          `json:"idGrupo" db:"id_grupo"`
	SeccionID     int          `json:"seccionId" db:"id_seccion"`
	Nombre        string       `json:"nombreGrupo" db:"nombre_grupo"`
	PromedioFinal null.Float64 `json:"promedioFinal" db:"promedio_final"`
}

// NewGrupo contains information needed to create or rename a group.
type NewGrupo struct {
	NombreGrupo string `json:"nombreGrupo" validate:"required"`
	SeccionID   int    `json:"seccionId" validate:"required"`
	AlumnoIDs   []int  `json:"alumnoIds" validate:"min=2"`
}

func (ng *NewGrupo) Validate() error {
	ng.NombreGrupo = core.CleanString(ng.NombreGrupo)
	return core.Validate.Struct(ng)
}

// EditGrupo contains information needed to rename a group and replace its
// member set.
type EditGrupo struct {
	NombreGrupo string `json:"nombreGrupo" validate:"required"`
	AlumnoIDs   []int  `json:"alumnoIds" validate:"min=2"`
}

func (eg *EditGrupo) Validate() error {
	eg.NombreGrupo = core.CleanString(eg.NombreGrupo)
	return core.Validate.Struct(eg)
}

// Response is the group row as the API returns it, members included.
type Response struct {
	ID              int          `json:"idGrupo"`
	NombreGrupo     string       `json:"nombreGrupo"`
	PromedioFinal   null.Float64 `json:"promedioFinal"`
	SeccionID       int          `json:"seccionId"`
	Alumnos         []Alumno     `json:"alumnos"`
	CantidadAlumnos int          `json:"cantidadAlumnos"`
}

// Alumno is a student row in group listings; group fields are null when the
// student is ungrouped.
type Alumno struct {
	IDAlumno       int         `json:"idAlumno"`
	NombreCompleto string      `json:"nombreCompleto"`
	CodigoAlumno   string      `json:"codigoAlumno"`
	GrupoID        null.Int    `json:"idGrupo"`
	NombreGrupo    null.String `json:"nombreGrupo"`
}

// Info is the student-facing dashboard view of their group in a section.
type Info struct {
	ID                  int           `json:"idGrupo"`
	NombreGrupo         string        `json:"nombreGrupo"`
	PromedioFinal       null.Float64  `json:"promedioFinal"`
	NombreSeccion       string        `json:"nombreSeccion"`
	CantidadIntegrantes int           `json:"cantidadIntegrantes"`
	Integrantes         []Integrante  `json:"integrantes"`
	TotalTareas         int           `json:"totalTareas"`
	Tareas              []TareaGrupal `json:"tareas"`
	PromedioActual      null.Float64  `json:"promedioActual"`
}

type Integrante struct {
	IDAlumno       int    `json:"idAlumno"`
	NombreCompleto string `json:"nombreCompleto"`
	CodigoAlumno   string `json:"codigoAlumno"`
}

// TareaGrupal is one group assignment with the group's latest grade, or nulls
// when nothing has been submitted yet.
type TareaGrupal struct {
	TareaID      int          `json:"idTarea"`
	NombreTarea  string       `json:"nombreTarea"`
	Nota         null.Float64 `json:"nota"`
	FechaEntrega null.String  `json:"fechaEntrega"` // "2006-01-02 15:04"
}
