package dummydb

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/grupo"
	"github.com/unmsm/scorely/core/seccion"
)

type grupoRepository struct {
	db *DB
}

var _ grupo.Repository = (*grupoRepository)(nil) // interface compliance check

func NewGrupoRepository(db *DB) *grupoRepository {
	return &grupoRepository{db: db}
}

func (repo *grupoRepository) CreateGrupo(_ context.Context, g grupo.Grupo, _ ...core.DBExecutor) (grupo.Grupo, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	g.ID = repo.db.nextID()
	repo.db.grupos[g.ID] = &g
	return g, nil
}

func (repo *grupoRepository) GetGrupo(_ context.Context, id int) (grupo.Grupo, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if g, ok := repo.db.grupos[id]; ok {
		return *g, nil
	}
	return grupo.Grupo{}, grupo.ErrNotFound
}

func (repo *grupoRepository) QueryBySeccion(_ context.Context, idSeccion int) ([]grupo.Grupo, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	grupos := make([]grupo.Grupo, 0)
	for _, g := range repo.db.grupos {
		if g.SeccionID == idSeccion {
			grupos = append(grupos, *g)
		}
	}
	sort.Slice(grupos, func(i, j int) bool { return grupos[i].ID < grupos[j].ID })
	return grupos, nil
}

func (repo *grupoRepository) UpdateGrupo(_ context.Context, g grupo.Grupo, _ ...core.DBExecutor) (grupo.Grupo, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.grupos[g.ID]; !ok {
		return grupo.Grupo{}, grupo.ErrNotFound
	}
	repo.db.grupos[g.ID] = &g
	return g, nil
}

func (repo *grupoRepository) DeleteGrupo(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.grupos[id]; !ok {
		return grupo.ErrNotFound
	}
	delete(repo.db.grupos, id)
	return nil
}

func (repo *grupoRepository) ExistsGrupo(_ context.Context, id int) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	_, ok := repo.db.grupos[id]
	return ok, nil
}

// hydrate must be called with db.mu held (read or write).
func (repo *grupoRepository) hydrate(m seccion.Membership) seccion.Membership {
	if a, ok := repo.db.alumnos[m.AlumnoID]; ok {
		m.Alumno = *a
		if p, ok := repo.db.personas[a.PersonaID]; ok {
			m.Alumno.Persona = *p
		}
	}
	if m.GrupoID.Valid {
		if g, ok := repo.db.grupos[m.GrupoID.Int]; ok {
			m.NombreGrupo = null.StringFrom(g.Nombre)
		}
	}
	return m
}

func (repo *grupoRepository) GetMembership(_ context.Context, idAlumno, idSeccion int) (seccion.Membership, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, m := range repo.db.memberships {
		if m.AlumnoID == idAlumno && m.SeccionID == idSeccion {
			return repo.hydrate(*m), nil
		}
	}
	return seccion.Membership{}, core.NewNotFoundError("alumno is not enrolled in this section")
}

func (repo *grupoRepository) queryMemberships(match func(m seccion.Membership) bool) []seccion.Membership {
	members := make([]seccion.Membership, 0)
	for _, m := range repo.db.memberships {
		if match(*m) {
			members = append(members, repo.hydrate(*m))
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members
}

func (repo *grupoRepository) QueryMembershipsBySeccion(_ context.Context, idSeccion int) ([]seccion.Membership, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return repo.queryMemberships(func(m seccion.Membership) bool {
		return m.SeccionID == idSeccion
	}), nil
}

func (repo *grupoRepository) QueryMembershipsByGrupo(_ context.Context, idGrupo int) ([]seccion.Membership, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return repo.queryMemberships(func(m seccion.Membership) bool {
		return m.GrupoID.Valid && m.GrupoID.Int == idGrupo
	}), nil
}

func (repo *grupoRepository) QueryMembershipsSinGrupo(_ context.Context, idSeccion int) ([]seccion.Membership, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return repo.queryMemberships(func(m seccion.Membership) bool {
		return m.SeccionID == idSeccion && !m.GrupoID.Valid
	}), nil
}

func (repo *grupoRepository) SetMembershipGrupo(_ context.Context, idMembership int, idGrupo null.Int, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	m, ok := repo.db.memberships[idMembership]
	if !ok {
		return core.NewNotFoundError("membership not found")
	}
	m.GrupoID = idGrupo
	m.NombreGrupo = null.String{}
	return nil
}

func (repo *grupoRepository) ClearGrupoMembers(_ context.Context, idGrupo int, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, m := range repo.db.memberships {
		if m.GrupoID.Valid && m.GrupoID.Int == idGrupo {
			m.GrupoID = null.Int{}
			m.NombreGrupo = null.String{}
		}
	}
	return nil
}

func (repo *grupoRepository) CreateMembership(_ context.Context, m seccion.Membership, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	m.ID = repo.db.nextID()
	repo.db.memberships[m.ID] = &m
	return nil
}

func (repo *grupoRepository) ExistsMembership(_ context.Context, idAlumno, idSeccion int) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, m := range repo.db.memberships {
		if m.AlumnoID == idAlumno && m.SeccionID == idSeccion {
			return true, nil
		}
	}
	return false, nil
}
