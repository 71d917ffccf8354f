package dummydb

import (
	"context"
	"sort"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/seccion"
)

type seccionRepository struct {
	db *DB
}

var _ seccion.Repository = (*seccionRepository)(nil) // interface compliance check

func NewSeccionRepository(db *DB) *seccionRepository {
	return &seccionRepository{db: db}
}

func (repo *seccionRepository) CreateSeccion(_ context.Context, s seccion.Seccion, _ ...core.DBExecutor) (seccion.Seccion, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	s.ID = repo.db.nextID()
	repo.db.secciones[s.ID] = &s
	return s, nil
}

func (repo *seccionRepository) GetSeccion(_ context.Context, id int) (seccion.Seccion, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if s, ok := repo.db.secciones[id]; ok {
		return *s, nil
	}
	return seccion.Seccion{}, seccion.ErrNotFound
}

func (repo *seccionRepository) QueryByProfesor(_ context.Context, idProfesor int) ([]seccion.Seccion, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	secciones := make([]seccion.Seccion, 0)
	for _, s := range repo.db.secciones {
		if s.ProfesorID == idProfesor {
			secciones = append(secciones, *s)
		}
	}
	sort.Slice(secciones, func(i, j int) bool { return secciones[i].ID < secciones[j].ID })
	return secciones, nil
}

func (repo *seccionRepository) QueryByProfesorAnio(_ context.Context, idProfesor, anio int) ([]seccion.Seccion, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	secciones := make([]seccion.Seccion, 0)
	for _, s := range repo.db.secciones {
		if s.ProfesorID == idProfesor && s.Anio == anio {
			secciones = append(secciones, *s)
		}
	}
	sort.Slice(secciones, func(i, j int) bool { return secciones[i].ID < secciones[j].ID })
	return secciones, nil
}

func (repo *seccionRepository) QueryByAlumnoAnio(_ context.Context, idAlumno, anio int) ([]seccion.SeccionAlumno, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	secciones := make([]seccion.SeccionAlumno, 0)
	for _, m := range repo.db.memberships {
		if m.AlumnoID != idAlumno {
			continue
		}
		s, ok := repo.db.secciones[m.SeccionID]
		if !ok || s.Anio != anio {
			continue
		}
		row := seccion.SeccionAlumno{Seccion: *s}
		if prof, ok := repo.db.profesores[s.ProfesorID]; ok {
			row.NombreProfesor = prof.Persona.NombreCompleto()
		}
		secciones = append(secciones, row)
	}
	sort.Slice(secciones, func(i, j int) bool { return secciones[i].ID < secciones[j].ID })
	return secciones, nil
}

func (repo *seccionRepository) UpdateSeccion(_ context.Context, s seccion.Seccion, _ ...core.DBExecutor) (seccion.Seccion, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.secciones[s.ID]; !ok {
		return seccion.Seccion{}, seccion.ErrNotFound
	}
	repo.db.secciones[s.ID] = &s
	return s, nil
}

func (repo *seccionRepository) DeleteSeccion(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.secciones[id]; !ok {
		return seccion.ErrNotFound
	}
	delete(repo.db.secciones, id)
	for mid, m := range repo.db.memberships {
		if m.SeccionID == id {
			delete(repo.db.memberships, mid)
		}
	}
	return nil
}
