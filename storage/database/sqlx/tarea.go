package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/unmsm/scorely/core"
	"github.com/unmsm/scorely/core/tarea"
)

type tareaRepository struct {
	db core.DB
}

var _ tarea.Repository = (*tareaRepository)(nil) // interface compliance check

func NewTareaRepository(db core.DB) *tareaRepository {
	return &tareaRepository{db: db}
}

func (repo tareaRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.db
}

func (repo tareaRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return tarea.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo tareaRepository) CreateTarea(ctx context.Context, t tarea.Tarea, exec ...core.DBExecutor) (tarea.Tarea, error) {
	err := repo.getExec(exec).QueryRowxContext(ctx,
		`INSERT INTO tarea (id_seccion, nombre, tipo, descripcion, fecha_vencimiento, fecha_creacion)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id_tarea`,
		t.SeccionID, t.Nombre, t.Tipo, t.Descripcion, t.FechaVencimiento, t.FechaCreacion,
	).Scan(&t.ID)
	if err != nil {
		return tarea.Tarea{}, errors.Wrap(err, "inserting tarea")
	}
	return t, nil
}

func (repo tareaRepository) GetTarea(ctx context.Context, id int) (tarea.Tarea, error) {
	var t tarea.Tarea
	err := repo.db.GetContext(ctx, &t,
		`SELECT id_tarea, id_seccion, nombre, tipo, descripcion, fecha_vencimiento, fecha_creacion
		 FROM tarea WHERE id_tarea = $1`, id)
	if err != nil {
		return tarea.Tarea{}, repo.trapNoRowsErr(err, "getting tarea")
	}
	return t, nil
}

func (repo tareaRepository) QueryBySeccion(ctx context.Context, idSeccion int) ([]tarea.Tarea, error) {
	tareas := make([]tarea.Tarea, 0)
	err := repo.db.SelectContext(ctx, &tareas,
		`SELECT id_tarea, id_seccion, nombre, tipo, descripcion, fecha_vencimiento, fecha_creacion
		 FROM tarea WHERE id_seccion = $1 ORDER BY fecha_creacion, id_tarea`, idSeccion)
	if err != nil {
		return nil, errors.Wrap(err, "querying tareas")
	}
	return tareas, nil
}

func (repo tareaRepository) QueryBySeccionTipo(ctx context.Context, idSeccion int, tipo string) ([]tarea.Tarea, error) {
	tareas := make([]tarea.Tarea, 0)
	err := repo.db.SelectContext(ctx, &tareas,
		`SELECT id_tarea, id_seccion, nombre, tipo, descripcion, fecha_vencimiento, fecha_creacion
		 FROM tarea WHERE id_seccion = $1 AND tipo = $2 ORDER BY fecha_creacion, id_tarea`, idSeccion, tipo)
	if err != nil {
		return nil, errors.Wrap(err, "querying tareas")
	}
	return tareas, nil
}

func (repo tareaRepository) UpdateTarea(ctx context.Context, t tarea.Tarea, exec ...core.DBExecutor) (tarea.Tarea, error) {
	_, err := repo.getExec(exec).ExecContext(ctx,
		`UPDATE tarea SET nombre = $1, tipo = $2, descripcion = $3, fecha_vencimiento = $4 WHERE id_tarea = $5`,
		t.Nombre, t.Tipo, t.Descripcion, t.FechaVencimiento, t.ID)
	if err != nil {
		return tarea.Tarea{}, errors.Wrap(err, "updating tarea")
	}
	return t, nil
}

func (repo tareaRepository) DeleteTarea(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM tarea WHERE id_tarea = $1`, id)
	return errors.Wrap(err, "deleting tarea")
}
