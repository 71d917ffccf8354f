package dummydb

import (
	"context"

	"github.com/unmsm/scorely/core/person"
)

type personaRepository struct {
	db *DB
}

var _ person.Repository = (*personaRepository)(nil) // interface compliance check

func NewPersonaRepository(db *DB) *personaRepository {
	return &personaRepository{db: db}
}

func (repo *personaRepository) GetPersona(_ context.Context, id int) (person.Persona, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if p, ok := repo.db.personas[id]; ok {
		return *p, nil
	}
	return person.Persona{}, person.ErrNotFound
}

func (repo *personaRepository) GetAlumno(_ context.Context, id int) (person.Alumno, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if a, ok := repo.db.alumnos[id]; ok {
		return *a, nil
	}
	return person.Alumno{}, person.ErrAlumnoNotFound
}

func (repo *personaRepository) GetProfesor(_ context.Context, id int) (person.Profesor, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if p, ok := repo.db.profesores[id]; ok {
		return *p, nil
	}
	return person.Profesor{}, person.ErrProfesorNotFound
}

func (repo *personaRepository) FindAlumnoByPersona(_ context.Context, idPersona int) (person.Alumno, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, a := range repo.db.alumnos {
		if a.PersonaID == idPersona {
			return *a, nil
		}
	}
	return person.Alumno{}, person.ErrAlumnoNotFound
}

func (repo *personaRepository) FindProfesorByPersona(_ context.Context, idPersona int) (person.Profesor, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, p := range repo.db.profesores {
		if p.PersonaID == idPersona {
			return *p, nil
		}
	}
	return person.Profesor{}, person.ErrProfesorNotFound
}
