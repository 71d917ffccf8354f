package person

import "github.com/unmsm/scorely/core"

// Role is determined by the presence of linked Alumno/Profesor rows, not by a
// type tag on Persona.
type Role int

const (
	RoleNeither Role = iota
	RoleAlumno
	RoleProfesor
	RoleBoth
)

func (r Role) String() string {
	switch r {
	case RoleAlumno:
		return "alumno"
	case RoleProfesor:
		return "profesor"
	case RoleBoth:
		return "alumno+profesor"
	}
	return "none"
}

type Persona struct {
	ID        int    `json:"idPersona" db:"id_persona"`
	Nombres   string `json:"nombres" db:"nombres"`
	ApellidoP string `json:"apellidoP" db:"apellido_p"`
	ApellidoM string `json:"apellidoM" db:"apellido_m"`
	Correo    string `json:"correo" db:"correo"`
}

// NombreCompleto is the space-joined, trimmed full name (first + paternal +
// maternal surname).
func (p Persona) NombreCompleto() string {
	return core.FullName(p.Nombres, p.ApellidoP, p.ApellidoM)
}

type Alumno struct {
	ID           int    `json:"idAlumno" db:"id_alumno"`
	PersonaID    int    `json:"idPersona" db:"id_persona"`
	CodigoAlumno string `json:"codigoAlumno" db:"codigo_alumno"`

	Persona Persona `json:"-" db:"-"`
}

type Profesor struct {
	ID        int `json:"idProfesor" db:"id_profesor"`
	PersonaID int `json:"idPersona" db:"id_persona"`

	Persona Persona `json:"-" db:"-"`
}
