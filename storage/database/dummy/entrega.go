package dummydb

import (
	"context"
	"sort"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/entrega"
)

type entregaRepository struct {
	db *DB
}

var _ entrega.Repository = (*entregaRepository)(nil) // interface compliance check

func NewEntregaRepository(db *DB) *entregaRepository {
	return &entregaRepository{db: db}
}

func (repo *entregaRepository) CreateEntrega(_ context.Context, e entrega.Entrega, _ ...core.DBExecutor) (entrega.Entrega, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	e.ID = repo.db.nextID()
	repo.db.entregas[e.ID] = &e
	return e, nil
}

func (repo *entregaRepository) LinkAlumno(_ context.Context, idEntrega, idAlumno int, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.entregaAlumno[idEntrega] = idAlumno
	return nil
}

func (repo *entregaRepository) LinkGrupo(_ context.Context, idEntrega, idGrupo int, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.entregaGrupo[idEntrega] = idGrupo
	return nil
}

func (repo *entregaRepository) GetEntrega(_ context.Context, id int) (entrega.Entrega, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if e, ok := repo.db.entregas[id]; ok {
		return *e, nil
	}
	return entrega.Entrega{}, entrega.ErrNotFound
}

func (repo *entregaRepository) UpdateNota(_ context.Context, idEntrega int, nota float64, _ ...core.DBExecutor) (int64, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	e, ok := repo.db.entregas[idEntrega]
	if !ok {
		return 0, nil
	}
	e.Nota.SetValid(nota)
	return 1, nil
}

func (repo *entregaRepository) QueryByTareaAlumno(_ context.Context, idTarea, idAlumno int) ([]entrega.Entrega, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	entregas := make([]entrega.Entrega, 0)
	for id, e := range repo.db.entregas {
		if e.TareaID == idTarea && repo.db.entregaAlumno[id] == idAlumno {
			entregas = append(entregas, *e)
		}
	}
	sortLatestFirst(entregas)
	return entregas, nil
}

func (repo *entregaRepository) QueryByTareaGrupo(_ context.Context, idTarea, idGrupo int) ([]entrega.Entrega, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	entregas := make([]entrega.Entrega, 0)
	for id, e := range repo.db.entregas {
		if e.TareaID == idTarea && repo.db.entregaGrupo[id] == idGrupo {
			entregas = append(entregas, *e)
		}
	}
	sortLatestFirst(entregas)
	return entregas, nil
}

// sortLatestFirst orders by fecha_entrega desc, id desc.
func sortLatestFirst(entregas []entrega.Entrega) {
	sort.Slice(entregas, func(i, j int) bool {
		if entregas[i].FechaEntrega.Equal(entregas[j].FechaEntrega) {
			return entregas[i].ID > entregas[j].ID
		}
		return entregas[i].FechaEntrega.After(entregas[j].FechaEntrega)
	})
}
