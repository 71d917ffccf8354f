package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/person"
)

type personaRepository struct {
	db core.DB
}

var _ person.Repository = (*personaRepository)(nil) // interface compliance check

func NewPersonaRepository(db core.DB) *personaRepository {
	return &personaRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to notFound
func (repo personaRepository) trapNoRowsErr(err error, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo personaRepository) GetPersona(ctx context.Context, id int) (person.Persona, error) {
	var p person.Persona
	err := repo.db.GetContext(ctx, &p,
		`SELECT id_persona, nombres, apellido_p, apellido_m, correo FROM persona WHERE id_persona = $1`, id)
	if err != nil {
		return person.Persona{}, repo.trapNoRowsErr(err, person.ErrNotFound, "getting persona")
	}
	return p, nil
}

func (repo personaRepository) GetAlumno(ctx context.Context, id int) (person.Alumno, error) {
	var a person.Alumno
	err := repo.db.GetContext(ctx, &a,
		`SELECT id_alumno, id_persona, codigo_alumno FROM alumno WHERE id_alumno = $1`, id)
	if err != nil {
		return person.Alumno{}, repo.trapNoRowsErr(err, person.ErrAlumnoNotFound, "getting alumno")
	}
	if a.Persona, err = repo.GetPersona(ctx, a.PersonaID); err != nil {
		return person.Alumno{}, err
	}
	return a, nil
}

func (repo personaRepository) GetProfesor(ctx context.Context, id int) (person.Profesor, error) {
	var p person.Profesor
	err := repo.db.GetContext(ctx, &p,
		`SELECT id_profesor, id_persona FROM profesor WHERE id_profesor = $1`, id)
	if err != nil {
		return person.Profesor{}, repo.trapNoRowsErr(err, person.ErrProfesorNotFound, "getting profesor")
	}
	if p.Persona, err = repo.GetPersona(ctx, p.PersonaID); err != nil {
		return person.Profesor{}, err
	}
	return p, nil
}

func (repo personaRepository) FindAlumnoByPersona(ctx context.Context, idPersona int) (person.Alumno, error) {
	var a person.Alumno
	err := repo.db.GetContext(ctx, &a,
		`SELECT id_alumno, id_persona, codigo_alumno FROM alumno WHERE id_persona = $1`, idPersona)
	if err != nil {
		return person.Alumno{}, repo.trapNoRowsErr(err, person.ErrAlumnoNotFound, "finding alumno")
	}
	if a.Persona, err = repo.GetPersona(ctx, a.PersonaID); err != nil {
		return person.Alumno{}, err
	}
	return a, nil
}

func (repo personaRepository) FindProfesorByPersona(ctx context.Context, idPersona int) (person.Profesor, error) {
	var p person.Profesor
	err := repo.db.GetContext(ctx, &p,
		`SELECT id_profesor, id_persona FROM profesor WHERE id_persona = $1`, idPersona)
	if err != nil {
		return person.Profesor{}, repo.trapNoRowsErr(err, person.ErrProfesorNotFound, "finding profesor")
	}
	if p.Persona, err = repo.GetPersona(ctx, p.PersonaID); err != nil {
		return person.Profesor{}, err
	}
	return p, nil
}
