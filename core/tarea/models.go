package tarea

import (
	"time"

	"github.com/unmsm/scorely/core"
)

// Assignment types
const (
	TipoIndividual = "Individual"
	TipoGrupal     = "Grupal"
)

type Tarea struct {
	ID               int       `json:"idTarea" db:"id_tarea"`
	SeccionID        int       `json:"idSeccion" db:"id_seccion"`
	Nombre           string    `json:"nombre" db:"nombre"`
	Tipo             string    `json:"tipo" db:"tipo"`
	Descripcion      string    `json:"descripcion" db:"descripcion"`
	FechaVencimiento time.Time `json:"fechaVencimiento" db:"fecha_vencimiento"`
	FechaCreacion    time.Time `json:"fechaCreacion" db:"fecha_creacion"` // UTC
}

func (t Tarea) EsGrupal() bool { return t.Tipo == TipoGrupal }

// NewTarea contains information needed to create or update a Tarea.
type NewTarea struct {
	Nombre           string    `json:"nombre" validate:"required"`
	Tipo             string    `json:"tipo" validate:"required,oneof=Individual Grupal"`
	Descripcion      string    `json:"descripcion"`
	FechaVencimiento time.Time `json:"fechaVencimiento"`
	SeccionID        int       `json:"idSeccion" validate:"required"`
}

func (nt *NewTarea) Validate() error {
	nt.Nombre = core.CleanString(nt.Nombre)
	nt.Descripcion = core.CleanString(nt.Descripcion)
	return core.Validate.Struct(nt)
}
