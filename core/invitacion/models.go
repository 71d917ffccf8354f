package invitacion

import (
	"time"

	"github.com/unmsm/scorely/core"
)

// Invitation states
const (
	EstadoPendiente = "Pendiente"
	EstadoAceptada  = "Aceptada"
	EstadoRechazada = "Rechazada"
)

type Invitacion struct {
	ID              int       `json:"idInvitacion" db:"id_invitacion"`
	SeccionID       int       `json:"idSeccion" db:"id_seccion"`
	ProfesorID      int       `json:"idProfesor" db:"id_profesor"`
	Correo          string    `json:"correo" db:"correo"`
	Token           string    `json:"-" db:"token"`
	Estado          string    `json:"estado" db:"estado"`
	FechaExpiracion time.Time `json:"fechaExpiracion" db:"fecha_expiracion"` // UTC
	FechaCreacion   time.Time `json:"fechaCreacion" db:"fecha_creacion"`    // UTC

	// denormalized section fields for the info view
	NombreCurso string `json:"nombreCurso" db:"-"`
	Anio        int    `json:"anio" db:"-"`
}

func (inv Invitacion) Expirada() bool {
	return NowFunc().UTC().After(inv.FechaExpiracion)
}

func (inv Invitacion) Resuelta() bool {
	return inv.Estado != EstadoPendiente
}

// NewInvitacion contains information needed to invite a student to a section.
type NewInvitacion struct {
	Correo    string `json:"correo" validate:"required,email"`
	SeccionID int    `json:"idSeccion" validate:"required"`
}

func (ni *NewInvitacion) Validate() error {
	ni.Correo = core.CleanString(ni.Correo, true)
	return core.Validate.Struct(ni)
}

// AceptarInvitacion identifies who is accepting a pending invitation.
type AceptarInvitacion struct {
	PersonaID int `json:"idPersona" validate:"required"`
}

func (ai *AceptarInvitacion) Validate() error {
	return core.Validate.Struct(ai)
}
