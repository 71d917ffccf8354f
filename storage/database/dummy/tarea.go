package dummydb

import (
	"context"
	"sort"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/tarea"
)

type tareaRepository struct {
	db *DB
}

var _ tarea.Repository = (*tareaRepository)(nil) // interface compliance check

func NewTareaRepository(db *DB) *tareaRepository {
	return &tareaRepository{db: db}
}

func (repo *tareaRepository) CreateTarea(_ context.Context, t tarea.Tarea, _ ...core.DBExecutor) (tarea.Tarea, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	t.ID = repo.db.nextID()
	repo.db.tareas[t.ID] = &t
	return t, nil
}

func (repo *tareaRepository) GetTarea(_ context.Context, id int) (tarea.Tarea, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if t, ok := repo.db.tareas[id]; ok {
		return *t, nil
	}
	return tarea.Tarea{}, tarea.ErrNotFound
}

func (repo *tareaRepository) QueryBySeccion(_ context.Context, idSeccion int) ([]tarea.Tarea, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	tareas := make([]tarea.Tarea, 0)
	for _, t := range repo.db.tareas {
		if t.SeccionID == idSeccion {
			tareas = append(tareas, *t)
		}
	}
	sort.Slice(tareas, func(i, j int) bool { return tareas[i].ID < tareas[j].ID })
	return tareas, nil
}

func (repo *tareaRepository) QueryBySeccionTipo(_ context.Context, idSeccion int, tipo string) ([]tarea.Tarea, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	tareas := make([]tarea.Tarea, 0)
	for _, t := range repo.db.tareas {
		if t.SeccionID == idSeccion && t.Tipo == tipo {
			tareas = append(tareas, *t)
		}
	}
	sort.Slice(tareas, func(i, j int) bool { return tareas[i].ID < tareas[j].ID })
	return tareas, nil
}

func (repo *tareaRepository) UpdateTarea(_ context.Context, t tarea.Tarea, _ ...core.DBExecutor) (tarea.Tarea, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.tareas[t.ID]; !ok {
		return tarea.Tarea{}, tarea.ErrNotFound
	}
	repo.db.tareas[t.ID] = &t
	return t, nil
}

func (repo *tareaRepository) DeleteTarea(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.tareas[id]; !ok {
		return tarea.ErrNotFound
	}
	delete(repo.db.tareas, id)
	return nil
}
